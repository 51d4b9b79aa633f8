package callsession

import (
	"github.com/pion/webrtc/v4"

	"github.com/twinlife/callcore/internal/callerror"
	"github.com/twinlife/callcore/internal/option"
	"github.com/twinlife/callcore/internal/signaling"
)

// Intent describes the capabilities requested for an outgoing call.
type Intent struct {
	To    string
	Audio bool
	Video bool
}

const protocolVersion = "1.0.0"

func defaultOffer(intent Intent) signaling.Offer {
	group, transfer := false, false
	return signaling.Offer{
		Audio:    intent.Audio,
		Video:    intent.Video,
		Data:     true,
		Group:    &group,
		Transfer: &transfer,
		Version:  protocolVersion,
	}
}

// StartOutgoing creates and sends the initial offer for a call this side
// initiates (§4.4.1 OFFERING → AWAITING_SESSION_INITIATE_RESPONSE).
func (s *Session) StartOutgoing(intent Intent) error {
	gen := s.currentGeneration()

	s.mu.Lock()
	s.makingOffer = true
	s.mu.Unlock()

	offer, err := s.pc.CreateOffer(nil)
	if err != nil {
		return callerror.New(callerror.Media, "callsession.StartOutgoing", err)
	}
	if err := s.pc.SetLocalDescription(offer); err != nil {
		return callerror.New(callerror.Media, "callsession.StartOutgoing", err)
	}
	if !s.generationMatches(gen) {
		return nil
	}

	s.mu.Lock()
	s.makingOffer = false
	s.localDescSent = true
	s.mu.Unlock()
	s.transitionTo(StateAwaitingSessionInitiateResponse)

	o := defaultOffer(intent)
	s.cfg.Sender.SendSessionInitiate(signaling.SessionInitiate{
		Msg:            "session-initiate",
		To:             intent.To,
		SDP:            offer.SDP,
		Offer:          o,
		OfferToReceive: o,
	})
	return nil
}

// HandleSessionInitiateResponse wires the gateway-assigned session id and
// flushes any ICE candidates gathered before it arrived (§4.4.3).
func (s *Session) HandleSessionInitiateResponse(resp signaling.SessionInitiateResponse) {
	if resp.Status != signaling.StatusSuccess {
		s.terminateInternal(reasonFromInitiateStatus(resp.Status), false)
		return
	}

	s.mu.Lock()
	s.sessionID = option.Some(resp.SessionID)
	s.mu.Unlock()
	s.transitionTo(StateAwaitingAccept)

	s.flushPendingLocalIce(resp.SessionID)
}

// AcceptIncoming answers an incoming offer (§4.4.1 ANSWERING → AWAITING_CONNECT).
func (s *Session) AcceptIncoming(sessionID, to, remoteSDP string, offer signaling.Offer) error {
	gen := s.currentGeneration()

	if err := s.pc.SetRemoteDescription(webrtc.SessionDescription{Type: webrtc.SDPTypeOffer, SDP: remoteSDP}); err != nil {
		return callerror.New(callerror.Media, "callsession.AcceptIncoming", err)
	}
	s.mu.Lock()
	s.remoteDescSet = true
	s.sessionID = option.Some(sessionID)
	s.peerVersion = option.Some(offer.Version)
	s.mu.Unlock()

	answer, err := s.pc.CreateAnswer(nil)
	if err != nil {
		return callerror.New(callerror.Media, "callsession.AcceptIncoming", err)
	}
	if err := s.pc.SetLocalDescription(answer); err != nil {
		return callerror.New(callerror.Media, "callsession.AcceptIncoming", err)
	}
	if !s.generationMatches(gen) {
		return nil
	}

	s.mu.Lock()
	s.localDescSent = true
	s.mu.Unlock()
	s.transitionTo(StateAwaitingConnect)

	o := defaultOffer(Intent{Audio: offer.Audio, Video: offer.Video})
	s.cfg.Sender.SendSessionAccept(signaling.SessionAccept{
		Msg:            "session-accept",
		SessionID:      sessionID,
		To:             to,
		SDP:            answer.SDP,
		Offer:          o,
		OfferToReceive: o,
	})

	s.flushPendingRemoteIce()
	return nil
}

// HandleSessionAccept implements the AWAITING_ACCEPT → AWAITING_CONNECT
// invariant: acts exactly once on a matching accept, duplicates ignored
// (§8 State machine invariants).
func (s *Session) HandleSessionAccept(accept signaling.SessionAccept) error {
	s.mu.Lock()
	if s.state != StateAwaitingAccept {
		s.mu.Unlock()
		return nil
	}
	s.state = StateAwaitingConnect
	s.mu.Unlock()
	if s.cfg.Observer != nil {
		s.cfg.Observer.OnStateChange(StateAwaitingConnect)
	}

	if err := s.pc.SetRemoteDescription(webrtc.SessionDescription{Type: webrtc.SDPTypeAnswer, SDP: accept.SDP}); err != nil {
		return callerror.New(callerror.Media, "callsession.HandleSessionAccept", err)
	}
	s.mu.Lock()
	s.remoteDescSet = true
	s.peerVersion = option.Some(accept.Offer.Version)
	s.mu.Unlock()

	s.rearmConnectTimeout()
	s.flushPendingRemoteIce()
	return nil
}

// HandleSessionUpdate applies a renegotiation offer/answer under the
// glare rules of §4.4.2.
func (s *Session) HandleSessionUpdate(update signaling.SessionUpdate) error {
	isOffer := update.UpdateType == signaling.UpdateOffer

	s.mu.Lock()
	making := s.makingOffer
	remotePending := s.remoteAnswerPending
	s.mu.Unlock()

	decision := evaluateSessionUpdate(making, s.pc.SignalingState(), remotePending, isOffer, s.initiator)

	s.mu.Lock()
	s.remoteAnswerPending = decision.RemoteAnswerPendingNext
	s.mu.Unlock()

	if decision.AckOnly {
		return nil
	}

	sdpType := webrtc.SDPTypeAnswer
	if isOffer {
		sdpType = webrtc.SDPTypeOffer
	}
	if err := s.pc.SetRemoteDescription(webrtc.SessionDescription{Type: sdpType, SDP: update.SDP}); err != nil {
		return callerror.New(callerror.Media, "callsession.HandleSessionUpdate", err)
	}

	if !decision.ShouldAnswer {
		return nil
	}

	answer, err := s.pc.CreateAnswer(nil)
	if err != nil {
		return callerror.New(callerror.Media, "callsession.HandleSessionUpdate", err)
	}
	if err := s.pc.SetLocalDescription(answer); err != nil {
		return callerror.New(callerror.Media, "callsession.HandleSessionUpdate", err)
	}
	sessionID, _ := s.sessionID.Get()
	s.cfg.Sender.SendSessionUpdate(signaling.SessionUpdate{
		Msg:        "session-update",
		SessionID:  sessionID,
		UpdateType: signaling.UpdateAnswer,
		SDP:        answer.SDP,
	})
	return nil
}

// HandleTransportInfo applies or buffers trickled remote ICE candidates.
func (s *Session) HandleTransportInfo(info signaling.TransportInfo) {
	s.handleTransportInfo(info.Candidates)
}

// HandleSessionTerminate releases the session on a peer-initiated
// termination; the peer is not re-notified.
func (s *Session) HandleSessionTerminate(reason signaling.TerminateReason) {
	s.terminateInternal(reason, false)
}

func reasonFromInitiateStatus(status signaling.InitiateStatus) signaling.TerminateReason {
	switch status {
	case signaling.StatusNotAuthorized:
		return signaling.ReasonNotAuthorized
	case signaling.StatusGone:
		return signaling.ReasonGone
	case signaling.StatusSchedule:
		return signaling.ReasonSchedule
	default:
		return signaling.ReasonGeneralError
	}
}
