package callsession

import (
	"github.com/twinlife/callcore/internal/convo"
	"github.com/twinlife/callcore/internal/signaling"
)

// Sender emits signaling-layer frames scoped to this session. The Call
// Aggregator implements it over the single shared transport (§5 "Shared
// resources": the socket is shared across all sessions of a Call).
type Sender interface {
	SendSessionInitiate(signaling.SessionInitiate) bool
	SendSessionAccept(signaling.SessionAccept) bool
	SendSessionUpdate(signaling.SessionUpdate) bool
	SendTransportInfo(signaling.TransportInfo) bool
	SendSessionTerminate(signaling.SessionTerminate) bool
}

// Observer receives session lifecycle and conversation events. Callbacks
// are synchronous and MUST NOT reenter the session with blocking calls
// (§4.5 Observers).
type Observer interface {
	OnStateChange(State)
	OnTerminated(reason signaling.TerminateReason)
	OnConnected()
	OnRenegotiationNeeded()
	OnSupportsMessages()
	OnParticipantInfo(convo.ParticipantInfoIQ)
	OnTransferIntent(targetMemberID string)
	OnPrepareTransferRequested()
	OnPrepareTransferAcked()
	OnTransferDone()
	OnPushObject(convo.PushObjectIQ)
	OnPushTwincode(convo.PushTwincodeIQ)
}
