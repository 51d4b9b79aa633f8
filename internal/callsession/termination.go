package callsession

import "github.com/twinlife/callcore/internal/signaling"

// Terminate ends the session locally and notifies the peer (§4.4.8).
func (s *Session) Terminate(reason signaling.TerminateReason) {
	s.terminateInternal(reason, true)
}

// terminateInternal is the failure/termination path shared by local and
// peer-initiated termination. Idempotent: a second call is a no-op, so
// at most one session-terminate is ever emitted (§8 Idempotence).
func (s *Session) terminateInternal(reason signaling.TerminateReason, notifyPeer bool) {
	s.mu.Lock()
	if s.terminated {
		s.mu.Unlock()
		return
	}
	s.terminated = true
	sessionID, known := s.sessionID.Get()
	s.mu.Unlock()

	s.transitionTo(StateTerminating)

	if notifyPeer && known && s.cfg.Sender != nil {
		s.cfg.Sender.SendSessionTerminate(signaling.SessionTerminate{
			Msg:       "session-terminate",
			SessionID: sessionID,
			Reason:    reason,
		})
	}

	s.release(reason)
}

// release closes both data channels and the peer connection, clears
// timers, and reports TERMINATED (§4.4.8).
func (s *Session) release(reason signaling.TerminateReason) {
	s.stopCallTimer()
	s.clearDisconnectBackoff()

	s.mu.Lock()
	s.bumpGeneration()
	outboundDC := s.outboundDC
	inboundDC := s.inboundDC
	s.outboundDC = nil
	s.inboundDC = nil
	s.mu.Unlock()

	if outboundDC != nil {
		_ = outboundDC.Close()
	}
	if inboundDC != nil {
		_ = inboundDC.Close()
	}
	_ = s.pc.Close()

	s.transitionTo(StateTerminated)
	if s.cfg.Observer != nil {
		s.cfg.Observer.OnTerminated(reason)
	}
}

// IsTerminated reports whether this session has already released.
func (s *Session) IsTerminated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.terminated
}
