package callaggregator

import (
	"github.com/twinlife/callcore/internal/option"
	"github.com/twinlife/callcore/internal/signaling"
)

// CallObserver receives whole-call lifecycle events. Callbacks are
// synchronous and MUST NOT reenter the Call with blocking calls (§4.5).
type CallObserver interface {
	OnCallStatus(status CallStatus)
	OnCallTerminated(reason signaling.TerminateReason)
	OnAudioOverride(enabled bool)
	OnVideoOverride(enabled bool)
}

// CallParticipantObserver receives per-participant membership and content
// events.
type CallParticipantObserver interface {
	OnParticipantAdd(p *Participant)
	OnParticipantRemove(p *Participant)
	OnParticipantEvent(p *Participant, event string)
	OnParticipantDescriptor(p *Participant, descriptor any)
}

// Participant is a remote user within a Call, distinct from a PeerSession
// so SFU-style 1:N sessions could eventually hold multiple participants
// (GLOSSARY).
type Participant struct {
	ID          int64
	MemberID    string
	Name        string
	Description string
	Avatar      []byte
	SenderID    string

	AudioMuted  bool
	CameraMuted bool
	VideoWidth  int
	VideoHeight int

	// Transfer and TransferredFromParticipantID record that this
	// participant's identity was copied from another one on transfer
	// completion, so later identity pushes for it are ignored (§4.6).
	Transfer                     bool
	TransferredFromParticipantID option.Option[int64]

	sessionID string
}
