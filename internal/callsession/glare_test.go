package callsession

import (
	"testing"

	"github.com/pion/webrtc/v4"
)

func TestEvaluateSessionUpdateGlareScenario4(t *testing.T) {
	// makingOffer==true, signalingState==have-local-offer, incoming offer,
	// this side is NOT the initiator → ignoreOffer=true, our own offer
	// proceeds (§8 scenario 4).
	d := evaluateSessionUpdate(true, webrtc.SignalingStateHaveLocalOffer, false, true, false)
	if !d.IgnoreOffer {
		t.Fatalf("expected IgnoreOffer=true, got %+v", d)
	}
	if !d.AckOnly {
		t.Fatalf("expected AckOnly=true, got %+v", d)
	}
}

func TestEvaluateSessionUpdateInitiatorKeepsOffer(t *testing.T) {
	// Same collision, but this side IS the initiator: it does not yield.
	d := evaluateSessionUpdate(true, webrtc.SignalingStateHaveLocalOffer, false, true, true)
	if d.IgnoreOffer {
		t.Fatalf("initiator should not set IgnoreOffer, got %+v", d)
	}
}

func TestEvaluateSessionUpdateStableAcceptsOffer(t *testing.T) {
	d := evaluateSessionUpdate(false, webrtc.SignalingStateStable, false, true, false)
	if d.AckOnly {
		t.Fatalf("expected the offer to be applied, got %+v", d)
	}
	if !d.ShouldAnswer {
		t.Fatalf("expected ShouldAnswer=true, got %+v", d)
	}
}

func TestEvaluateSessionUpdateStaleAnswerWhileStableIsDropped(t *testing.T) {
	d := evaluateSessionUpdate(false, webrtc.SignalingStateStable, false, false, false)
	if !d.AckOnly {
		t.Fatalf("expected a stray answer while stable to be ack-only, got %+v", d)
	}
}

func TestEvaluateSessionUpdateAnswerCompletesOurOffer(t *testing.T) {
	d := evaluateSessionUpdate(true, webrtc.SignalingStateHaveLocalOffer, false, false, true)
	if d.AckOnly {
		t.Fatalf("expected our own pending offer's answer to be applied, got %+v", d)
	}
	if d.ShouldAnswer {
		t.Fatalf("an answer does not itself need answering, got %+v", d)
	}
}
