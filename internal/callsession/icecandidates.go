package callsession

import (
	"strings"

	"github.com/pion/webrtc/v4"

	"github.com/twinlife/callcore/internal/signaling"
)

// onLocalICECandidate implements §4.4.3's local-candidate discipline:
// buffer until the gateway session id is known, then emit one
// transport-info per candidate.
func (s *Session) onLocalICECandidate(c *webrtc.ICECandidate) {
	if c == nil {
		return // gathering complete
	}
	init := c.ToJSON()

	s.mu.Lock()
	sessionID, known := s.sessionID.Get()
	if !known {
		s.pendingLocalIce = append(s.pendingLocalIce, init)
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.emitTransportInfo(sessionID, init)
}

// flushPendingLocalIce drains pendingLocalIce in FIFO order once the
// gateway session id is known (on session-initiate-response).
func (s *Session) flushPendingLocalIce(sessionID string) {
	s.mu.Lock()
	pending := s.pendingLocalIce
	s.pendingLocalIce = nil
	s.mu.Unlock()

	for _, c := range pending {
		s.emitTransportInfo(sessionID, c)
	}
}

func (s *Session) emitTransportInfo(sessionID string, init webrtc.ICECandidateInit) {
	sdpMid := ""
	if init.SDPMid != nil {
		sdpMid = *init.SDPMid
	}
	idx := 0
	if init.SDPMLineIndex != nil {
		idx = int(*init.SDPMLineIndex)
	}
	s.cfg.Sender.SendTransportInfo(signaling.TransportInfo{
		Msg:       "transport-info",
		SessionID: sessionID,
		Candidates: []signaling.Candidate{{
			Candidate:     init.Candidate,
			SDPMid:        sdpMid,
			SDPMLineIndex: idx,
		}},
	})
}

// isInitialized reports whether the session has both sent its local
// description and applied a remote description — the point at which
// remote ICE candidates may be safely applied (§4.4.3).
func (s *Session) isInitialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.localDescSent && s.remoteDescSet
}

// handleTransportInfo applies or buffers remote ICE candidates received
// on the wire.
func (s *Session) handleTransportInfo(candidates []signaling.Candidate) {
	s.mu.Lock()
	ready := s.localDescSent && s.remoteDescSet
	if !ready {
		for _, c := range candidates {
			s.pendingRemoteIce = append(s.pendingRemoteIce, pendingRemoteCandidate{init: toICECandidateInit(c)})
		}
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	for _, c := range candidates {
		s.applyRemoteCandidate(toICECandidateInit(c))
	}
}

// flushPendingRemoteIce drains buffered remote candidates once the
// session becomes initialized, in arrival order.
func (s *Session) flushPendingRemoteIce() {
	s.mu.Lock()
	pending := s.pendingRemoteIce
	s.pendingRemoteIce = nil
	s.mu.Unlock()

	for _, c := range pending {
		s.applyRemoteCandidate(c.init)
	}
}

func (s *Session) applyRemoteCandidate(init webrtc.ICECandidateInit) {
	if init.Candidate == "" {
		return // a "removed" candidate carries nothing pion can apply
	}
	if ufrag := parseUfrag(init.Candidate); ufrag != "" {
		init.UsernameFragment = &ufrag
	}
	if err := s.pc.AddICECandidate(init); err != nil {
		s.cfg.Log.Printf("AddICECandidate error: %v", err)
	}
}

func toICECandidateInit(c signaling.Candidate) webrtc.ICECandidateInit {
	if c.Removed {
		return webrtc.ICECandidateInit{}
	}
	sdpMid := c.SDPMid
	idx := uint16(c.SDPMLineIndex)
	return webrtc.ICECandidateInit{
		Candidate:     c.Candidate,
		SDPMid:        &sdpMid,
		SDPMLineIndex: &idx,
	}
}

// parseUfrag extracts the ICE username fragment that follows the " ufrag "
// token in a candidate line, per the glossary's Ufrag entry.
func parseUfrag(candidate string) string {
	const token = " ufrag "
	i := strings.Index(candidate, token)
	if i < 0 {
		return ""
	}
	rest := candidate[i+len(token):]
	if sp := strings.IndexByte(rest, ' '); sp >= 0 {
		return rest[:sp]
	}
	return rest
}
