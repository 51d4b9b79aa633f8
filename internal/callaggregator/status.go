// Package callaggregator implements the Call Aggregator (C5): it presents
// a single logical call to external consumers, owns the collection of
// peer sessions, routes signaling events to them, and coordinates
// group-call membership and transfers.
package callaggregator

// CallStatus is the externally-visible status of a Call, derived from its
// primary peer session.
type CallStatus int

const (
	StatusIdle CallStatus = iota
	StatusIncomingCall
	StatusIncomingVideoCall
	StatusIncomingVideoBell
	StatusAcceptedIncomingCall
	StatusAcceptedIncomingVideoCall
	StatusOutgoingCall
	StatusOutgoingVideoCall
	StatusOutgoingVideoBell
	StatusAcceptedOutgoingCall
	StatusAcceptedOutgoingVideoCall
	StatusInCall
	StatusInVideoCall
	StatusInVideoBell
	StatusFallback
	StatusTerminated
)

func (s CallStatus) String() string {
	switch s {
	case StatusIdle:
		return "IDLE"
	case StatusIncomingCall:
		return "INCOMING_CALL"
	case StatusIncomingVideoCall:
		return "INCOMING_VIDEO_CALL"
	case StatusIncomingVideoBell:
		return "INCOMING_VIDEO_BELL"
	case StatusAcceptedIncomingCall:
		return "ACCEPTED_INCOMING_CALL"
	case StatusAcceptedIncomingVideoCall:
		return "ACCEPTED_INCOMING_VIDEO_CALL"
	case StatusOutgoingCall:
		return "OUTGOING_CALL"
	case StatusOutgoingVideoCall:
		return "OUTGOING_VIDEO_CALL"
	case StatusOutgoingVideoBell:
		return "OUTGOING_VIDEO_BELL"
	case StatusAcceptedOutgoingCall:
		return "ACCEPTED_OUTGOING_CALL"
	case StatusAcceptedOutgoingVideoCall:
		return "ACCEPTED_OUTGOING_VIDEO_CALL"
	case StatusInCall:
		return "IN_CALL"
	case StatusInVideoCall:
		return "IN_VIDEO_CALL"
	case StatusInVideoBell:
		return "IN_VIDEO_BELL"
	case StatusFallback:
		return "FALLBACK"
	case StatusTerminated:
		return "TERMINATED"
	default:
		return "UNKNOWN"
	}
}

// isVideo is true for any V-suffixed state (GLOSSARY).
func (s CallStatus) isVideo() bool {
	switch s {
	case StatusIncomingVideoCall, StatusIncomingVideoBell,
		StatusAcceptedIncomingVideoCall,
		StatusOutgoingVideoCall, StatusOutgoingVideoBell,
		StatusAcceptedOutgoingVideoCall,
		StatusInVideoCall, StatusInVideoBell:
		return true
	default:
		return false
	}
}

// toActive collapses an accepted/in-progress status to its IN_* form.
func (s CallStatus) toActive() CallStatus {
	if s.isVideo() {
		return StatusInVideoCall
	}
	return StatusInCall
}

// toAccepted picks the ACCEPTED_* variant matching an incoming or
// outgoing status, preserving video-ness.
func (s CallStatus) toAccepted() CallStatus {
	switch s {
	case StatusIncomingCall:
		return StatusAcceptedIncomingCall
	case StatusIncomingVideoCall, StatusIncomingVideoBell:
		return StatusAcceptedIncomingVideoCall
	case StatusOutgoingCall:
		return StatusAcceptedOutgoingCall
	case StatusOutgoingVideoCall, StatusOutgoingVideoBell:
		return StatusAcceptedOutgoingVideoCall
	default:
		return s
	}
}
