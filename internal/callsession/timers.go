package callsession

import (
	"time"

	"github.com/pion/webrtc/v4"

	"github.com/twinlife/callcore/internal/signaling"
)

// onCallTimeout fires when neither session-accept nor connection occurs
// within CallTimeout of session creation (§4.4.4).
func (s *Session) onCallTimeout() {
	s.terminateInternal(signaling.ReasonExpired, true)
}

// rearmConnectTimeout replaces the call timer with the shorter connect
// timeout once a session-accept is received.
func (s *Session) rearmConnectTimeout() {
	s.mu.Lock()
	if s.callTimer != nil {
		s.callTimer.Stop()
	}
	s.callTimer = time.AfterFunc(ConnectTimeout, s.onCallTimeout)
	s.mu.Unlock()
}

// stopCallTimer disarms the call/connect timeout, e.g. once CONNECTED.
func (s *Session) stopCallTimer() {
	s.mu.Lock()
	if s.callTimer != nil {
		s.callTimer.Stop()
		s.callTimer = nil
	}
	s.mu.Unlock()
}

// armDisconnectBackoff schedules the 2s ICE-restart decision (§4.4.4). Any
// subsequent ICE state change clears it via clearDisconnectBackoff.
func (s *Session) armDisconnectBackoff(gen uint64) {
	s.mu.Lock()
	if s.disconnectTimer != nil {
		s.disconnectTimer.Stop()
	}
	s.disconnectTimer = time.AfterFunc(DisconnectBackoff, func() {
		s.onDisconnectBackoffExpired(gen)
	})
	s.mu.Unlock()
}

func (s *Session) clearDisconnectBackoff() {
	s.mu.Lock()
	if s.disconnectTimer != nil {
		s.disconnectTimer.Stop()
		s.disconnectTimer = nil
	}
	s.mu.Unlock()
}

func (s *Session) onDisconnectBackoffExpired(gen uint64) {
	if !s.generationMatches(gen) {
		return
	}
	if s.pc.ICEConnectionState() != webrtc.ICEConnectionStateDisconnected {
		return
	}
	if err := s.pc.RestartICE(); err != nil {
		s.cfg.Log.Printf("ICE restart error: %v", err)
		return
	}
	if s.cfg.Observer != nil {
		s.cfg.Observer.OnRenegotiationNeeded()
	}
}
