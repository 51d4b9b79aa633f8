package callsession

import (
	"time"

	"github.com/pion/webrtc/v4"

	"github.com/twinlife/callcore/internal/signaling"
)

func (s *Session) wirePeerConnectionCallbacks() {
	s.pc.OnICECandidate(s.onLocalICECandidate)
	s.pc.OnICEConnectionStateChange(s.onICEConnectionStateChange)
	s.pc.OnNegotiationNeeded(func() {
		if s.cfg.Observer != nil {
			s.cfg.Observer.OnRenegotiationNeeded()
		}
	})
}

// onICEConnectionStateChange implements §4.4.5's ICE state mapping. The
// disconnected→ICE-restart recovery window is governed by §4.4.4's
// explicit backoff procedure rather than an immediate terminate, which
// this resolves in favor of the more specific timer description.
func (s *Session) onICEConnectionStateChange(state webrtc.ICEConnectionState) {
	gen := s.currentGeneration()

	switch state {
	case webrtc.ICEConnectionStateConnected, webrtc.ICEConnectionStateCompleted:
		s.clearDisconnectBackoff()
		s.mu.Lock()
		first := !s.peerConnected
		if first {
			s.peerConnected = true
			s.connectionStartTime = time.Now()
		}
		s.mu.Unlock()
		if first {
			s.stopCallTimer()
			s.applyDirectionsToTracks()
			if s.cfg.Observer != nil {
				s.cfg.Observer.OnConnected()
			}
		}

	case webrtc.ICEConnectionStateFailed:
		s.clearDisconnectBackoff()
		s.terminateInternal(signaling.ReasonConnectivityError, true)

	case webrtc.ICEConnectionStateClosed:
		s.clearDisconnectBackoff()
		s.terminateInternal(signaling.ReasonDisconnected, true)

	case webrtc.ICEConnectionStateDisconnected:
		s.mu.Lock()
		wasConnected := s.peerConnected
		s.mu.Unlock()
		if wasConnected {
			s.armDisconnectBackoff(gen)
		}

	default:
		s.clearDisconnectBackoff()
	}
}
