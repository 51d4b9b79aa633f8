package callaggregator

import (
	"github.com/twinlife/callcore/internal/callsession"
	"github.com/twinlife/callcore/internal/convo"
	"github.com/twinlife/callcore/internal/signaling"
)

// sessionHolder defers the Session pointer a sessObserver needs until
// after callsession.New returns it.
type sessionHolder struct {
	sess *callsession.Session
}

// sessObserver adapts one Session's callsession.Observer callbacks onto
// the owning Call, deriving CallStatus and routing participant/transfer
// events (§4.5, §4.6).
type sessObserver struct {
	call   *Call
	holder *sessionHolder
}

func (o *sessObserver) OnStateChange(state callsession.State) {
	o.call.onSessionStateChange(o.holder.sess, state)
}

func (o *sessObserver) OnTerminated(reason signaling.TerminateReason) {
	o.call.onSessionTerminated(o.holder.sess, reason)
}

func (o *sessObserver) OnConnected() {
	o.call.onSessionStateChange(o.holder.sess, callsession.StateConnected)
}

func (o *sessObserver) OnRenegotiationNeeded() {
	// Renegotiation is driven entirely inside callsession; the Call has
	// nothing additional to coordinate.
}

func (o *sessObserver) OnSupportsMessages() {}

func (o *sessObserver) OnParticipantInfo(info convo.ParticipantInfoIQ) {
	o.call.onParticipantInfo(o.holder.sess, info)
}

func (o *sessObserver) OnTransferIntent(targetMemberID string) {
	o.call.onTransferIntent(o.holder.sess, targetMemberID)
}

func (o *sessObserver) OnPrepareTransferRequested() {
	o.call.onPrepareTransferRequested(o.holder.sess)
}

func (o *sessObserver) OnPrepareTransferAcked() {
	o.call.onPrepareTransferAcked(o.holder.sess)
}

func (o *sessObserver) OnTransferDone() {
	o.call.onTransferDone(o.holder.sess)
}

func (o *sessObserver) OnPushObject(obj convo.PushObjectIQ) {
	o.call.onPushObject(o.holder.sess, obj)
}

func (o *sessObserver) OnPushTwincode(tw convo.PushTwincodeIQ) {
	o.call.onPushTwincode(o.holder.sess, tw)
}
