package callsession

import "github.com/pion/webrtc/v4"

// GlareDecision is the outcome of evaluating an incoming session-update
// against our own offer/answer progress (§4.4.2).
type GlareDecision struct {
	// IgnoreOffer means a colliding offer was dropped; our own offer
	// proceeds unmodified.
	IgnoreOffer bool
	// AckOnly means the frame is acknowledged but not applied — either
	// because it was ignored, or because it is a stale/duplicate answer
	// arriving while already stable.
	AckOnly bool
	// RemoteAnswerPendingNext is the new value of remoteAnswerPending
	// once this update is applied.
	RemoteAnswerPendingNext bool
	// ShouldAnswer means, after applying the remote description, a
	// local answer must be created and sent.
	ShouldAnswer bool
}

// evaluateSessionUpdate implements §4.4.2's glare resolution. isOffer
// reports whether the incoming session-update carries an offer (as
// opposed to an answer); initiator is whether this side created the
// call's first offer.
func evaluateSessionUpdate(makingOffer bool, signalingState webrtc.SignalingState, remoteAnswerPending, isOffer, initiator bool) GlareDecision {
	readyForOffer := !makingOffer && (signalingState == webrtc.SignalingStateStable || remoteAnswerPending)
	offerCollision := isOffer && !readyForOffer
	ignoreOffer := !initiator && offerCollision

	if ignoreOffer || (signalingState == webrtc.SignalingStateStable && !isOffer) {
		return GlareDecision{IgnoreOffer: ignoreOffer, AckOnly: true}
	}
	return GlareDecision{
		RemoteAnswerPendingNext: !isOffer,
		ShouldAnswer:            isOffer,
	}
}
