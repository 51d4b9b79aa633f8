package callaggregator

import (
	"time"

	"github.com/twinlife/callcore/internal/callsession"
	"github.com/twinlife/callcore/internal/convo"
	"github.com/twinlife/callcore/internal/option"
	"github.com/twinlife/callcore/internal/signaling"
	"github.com/twinlife/callcore/pkg/wire"
)

// onSessionStateChange derives this Call's externally-visible status from
// its primary (first-added) session (§3 invariant 3) and notifies the
// CallObserver.
func (c *Call) onSessionStateChange(sess *callsession.Session, state callsession.State) {
	c.mu.Lock()
	meta := c.meta[sess]
	primary := c.isPrimaryLocked(sess)
	c.mu.Unlock()
	if meta == nil || !primary {
		return
	}
	if c.cfg.Observer != nil {
		c.cfg.Observer.OnCallStatus(deriveStatus(state, meta.isCaller, meta.video))
	}
}

// isPrimaryLocked reports whether sess is the Call's primary session
// (first one added, by session id order is not guaranteed so this simply
// treats "the only one we are tracking yet" as primary for 1:1 calls).
// Group calls report status from the first entry found.
func (c *Call) isPrimaryLocked(sess *callsession.Session) bool {
	for _, s := range c.bySessionID {
		return s == sess
	}
	for _, s := range c.pendingByTo {
		return s == sess
	}
	return false
}

func deriveStatus(state callsession.State, isCaller, video bool) CallStatus {
	switch state {
	case callsession.StateOffering, callsession.StateAwaitingSessionInitiateResponse:
		if video {
			return StatusOutgoingVideoCall
		}
		return StatusOutgoingCall
	case callsession.StateAwaitingAccept:
		s := StatusOutgoingCall
		if video {
			s = StatusOutgoingVideoCall
		}
		return s.toAccepted()
	case callsession.StateAnswering:
		if video {
			return StatusIncomingVideoCall
		}
		return StatusIncomingCall
	case callsession.StateAwaitingConnect:
		s := StatusIncomingCall
		if video {
			s = StatusIncomingVideoCall
		}
		if isCaller {
			s = StatusOutgoingCall
			if video {
				s = StatusOutgoingVideoCall
			}
		}
		return s.toAccepted()
	case callsession.StateConnected, callsession.StateRenegotiating:
		s := StatusInCall
		if video {
			s = StatusInVideoCall
		}
		return s
	case callsession.StateTerminating, callsession.StateTerminated:
		return StatusTerminated
	default:
		return StatusIdle
	}
}

// onSessionTerminated removes sess from both indices and, once the last
// session is gone, reports the call's termination and arms the finish
// timer (§4.5 "Finish timer").
func (c *Call) onSessionTerminated(sess *callsession.Session, reason signaling.TerminateReason) {
	c.mu.Lock()
	for id, s := range c.bySessionID {
		if s == sess {
			delete(c.bySessionID, id)
		}
	}
	for to, s := range c.pendingByTo {
		if s == sess {
			delete(c.pendingByTo, to)
		}
	}
	delete(c.meta, sess)
	empty := len(c.bySessionID) == 0 && len(c.pendingByTo) == 0
	c.mu.Unlock()

	if !empty {
		return
	}
	if c.cfg.Observer != nil {
		c.cfg.Observer.OnCallTerminated(reason)
	}
	c.armFinish(reason)
}

func (c *Call) armFinish(reason signaling.TerminateReason) {
	c.mu.Lock()
	if c.finishTimer != nil {
		c.finishTimer.Stop()
	}
	c.finishTimer = time.AfterFunc(FinishTimeout, func() { c.finalize(reason) })
	c.mu.Unlock()
}

func (c *Call) finalize(reason signaling.TerminateReason) {
	c.mu.Lock()
	c.terminated = true
	c.mu.Unlock()
}

// onParticipantInfo latches identity on the participant tied to sess,
// unless it is a transfer target that already copied identity from the
// transferred-from participant (§4.6).
func (c *Call) onParticipantInfo(sess *callsession.Session, info convo.ParticipantInfoIQ) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.participants[info.MemberID]
	if !ok {
		c.nextParticipantID++
		p = &Participant{ID: c.nextParticipantID, MemberID: info.MemberID}
		c.participants[info.MemberID] = p
		if meta := c.meta[sess]; meta != nil {
			meta.memberID = info.MemberID
		}
		if c.cfg.ParticipantObserver != nil {
			c.cfg.ParticipantObserver.OnParticipantAdd(p)
		}
	}
	if p.transferCopied() {
		return
	}
	p.Name = info.Name
	p.Description = info.Description
	p.Avatar = info.Avatar
	if c.cfg.ParticipantObserver != nil {
		c.cfg.ParticipantObserver.OnParticipantDescriptor(p, info)
	}
}

// transferCopied reports whether p already inherited its identity from a
// completed transfer, so a later push must not overwrite it (§4.6).
func (p *Participant) transferCopied() bool { return p.Transfer }

// onTransferIntent latches the transfer target on the Call (§4.5
// "Transfer lifecycle").
func (c *Call) onTransferIntent(sess *callsession.Session, targetMemberID string) {
	c.mu.Lock()
	sid := c.sessionIDLocked(sess)
	if sid != "" {
		c.pendingPrepareTransfers[sid] = true
	}
	if c.transferDirection == "" {
		c.transferDirection = TransferToDevice
	}
	c.transferTargetMemberID = targetMemberID
	c.mu.Unlock()
}

func (c *Call) onPrepareTransferRequested(sess *callsession.Session) {}

func (c *Call) onPrepareTransferAcked(sess *callsession.Session) {
	c.mu.Lock()
	sid := c.sessionIDLocked(sess)
	delete(c.pendingPrepareTransfers, sid)
	c.mu.Unlock()
}

// onTransferDone copies identity from the transferred-from participant
// onto the transfer target, marking the target so later pushes leave its
// copied identity alone (§4.6), then terminates the source session.
func (c *Call) onTransferDone(sess *callsession.Session) {
	c.mu.Lock()
	meta := c.meta[sess]
	if meta != nil && c.transferTargetMemberID != "" {
		from, fromOK := c.participants[meta.memberID]
		to, toOK := c.participants[c.transferTargetMemberID]
		if fromOK && toOK && from != to {
			to.Name = from.Name
			to.Description = from.Description
			to.Avatar = from.Avatar
			to.SenderID = from.SenderID
			to.Transfer = true
			to.TransferredFromParticipantID = option.Some(from.ID)
		}
	}
	c.mu.Unlock()
	sess.Terminate(signaling.ReasonTransferDone)
}

func (c *Call) onPushObject(sess *callsession.Session, obj convo.PushObjectIQ) {
	p := c.latchSenderID(sess, obj.SenderID)
	if !obj.IsMessageSchema() {
		return
	}
	if p != nil && c.cfg.ParticipantObserver != nil {
		c.cfg.ParticipantObserver.OnParticipantEvent(p, "message")
	}
}

func (c *Call) onPushTwincode(sess *callsession.Session, tw convo.PushTwincodeIQ) {
	p := c.latchSenderID(sess, tw.SenderID)
	if p != nil && c.cfg.ParticipantObserver != nil {
		c.cfg.ParticipantObserver.OnParticipantEvent(p, "twincode")
	}
}

// latchSenderID finds the participant tied to sess and, on first non-nil
// receipt, records its senderId (§4.6).
func (c *Call) latchSenderID(sess *callsession.Session, senderID wire.UUID) *Participant {
	c.mu.Lock()
	defer c.mu.Unlock()
	meta := c.meta[sess]
	if meta == nil {
		return nil
	}
	p := c.participants[meta.memberID]
	if p == nil {
		return nil
	}
	if p.SenderID == "" && senderID != wire.Nil {
		p.SenderID = senderID.String()
	}
	return p
}

func (c *Call) sessionIDLocked(sess *callsession.Session) string {
	for id, s := range c.bySessionID {
		if s == sess {
			return id
		}
	}
	return ""
}
