package callaggregator

import (
	"github.com/twinlife/callcore/internal/callsession"
	"github.com/twinlife/callcore/internal/signaling"
)

// handleJoinCallRoom processes a room roster snapshot: members already
// known by session id are attached to their session, others get an
// outgoing peer session spawned toward them (§4.5 "Group join").
func (c *Call) handleJoinCallRoom(v signaling.JoinCallRoom) {
	for _, m := range v.Members {
		switch m.Status {
		case signaling.MemberNew, signaling.MemberNeedSession:
			c.handleRoomMember(m)
		case signaling.MemberDelete:
			c.handleRoomMemberDelete(m)
		}
	}
}

func (c *Call) handleRoomMember(m signaling.RoomMember) {
	if m.SessionID != "" {
		c.mu.Lock()
		sess, ok := c.bySessionID[m.SessionID]
		if ok {
			if meta := c.meta[sess]; meta != nil {
				meta.memberID = m.MemberID
			}
		}
		c.mu.Unlock()
		return
	}

	sess, err := c.newSession(true, true)
	if err != nil {
		c.cfg.Log.Printf("group join: new outgoing session for %s: %v", m.MemberID, err)
		return
	}
	c.mu.Lock()
	c.pendingByTo[m.MemberID] = sess
	c.meta[sess] = &sessionMeta{isCaller: true, memberID: m.MemberID}
	c.mu.Unlock()

	if err := sess.StartOutgoing(callsession.Intent{To: m.MemberID, Audio: true}); err != nil {
		c.cfg.Log.Printf("group join: StartOutgoing for %s: %v", m.MemberID, err)
	}
}

func (c *Call) handleRoomMemberDelete(m signaling.RoomMember) {
	c.mu.Lock()
	sess := c.bySessionID[m.SessionID]
	c.mu.Unlock()
	if sess != nil {
		sess.Terminate(signaling.ReasonGone)
	}
	c.mu.Lock()
	delete(c.participants, m.MemberID)
	c.mu.Unlock()
}
