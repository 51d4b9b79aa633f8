package callsession

import (
	"testing"

	"github.com/twinlife/callcore/internal/signaling"
)

// TestOfferAnswerHappyPath drives two real Sessions (caller and callee)
// through an actual SDP offer/answer exchange, relaying each captured
// frame to the other side in turn. ICE connectivity itself is not
// asserted since no real network path exists in this environment; the
// test only verifies the protocol-level state machine (§4.4.1).
func TestOfferAnswerHappyPath(t *testing.T) {
	caller, callerSender, _ := newTestSession(t, true, true)
	callee, calleeSender, _ := newTestSession(t, false, false)

	if err := caller.StartOutgoing(Intent{To: "callee", Audio: true}); err != nil {
		t.Fatalf("StartOutgoing: %v", err)
	}
	if len(callerSender.initiates) != 1 {
		t.Fatalf("expected one session-initiate, got %d", len(callerSender.initiates))
	}
	initiate := callerSender.initiates[0]

	caller.HandleSessionInitiateResponse(signaling.SessionInitiateResponse{
		Status:    signaling.StatusSuccess,
		SessionID: "sess-1",
	})
	if got := caller.State(); got != StateAwaitingAccept {
		t.Fatalf("caller expected AWAITING_ACCEPT, got %v", got)
	}

	if err := callee.AcceptIncoming("sess-1", "caller", initiate.SDP, initiate.Offer); err != nil {
		t.Fatalf("AcceptIncoming: %v", err)
	}
	if got := callee.State(); got != StateAwaitingConnect {
		t.Fatalf("callee expected AWAITING_CONNECT, got %v", got)
	}
	if len(calleeSender.accepts) != 1 {
		t.Fatalf("expected one session-accept, got %d", len(calleeSender.accepts))
	}

	if err := caller.HandleSessionAccept(calleeSender.accepts[0]); err != nil {
		t.Fatalf("HandleSessionAccept: %v", err)
	}
	if got := caller.State(); got != StateAwaitingConnect {
		t.Fatalf("caller expected AWAITING_CONNECT, got %v", got)
	}

	if sid, ok := caller.SessionID(); !ok || sid != "sess-1" {
		t.Fatalf("caller session id not set, got %q/%v", sid, ok)
	}
	if sid, ok := callee.SessionID(); !ok || sid != "sess-1" {
		t.Fatalf("callee session id not set, got %q/%v", sid, ok)
	}
	if v, ok := caller.PeerVersion(); !ok || v != protocolVersion {
		t.Fatalf("caller peer version not set, got %q/%v", v, ok)
	}
	if v, ok := callee.PeerVersion(); !ok || v != protocolVersion {
		t.Fatalf("callee peer version not set, got %q/%v", v, ok)
	}
}

// TestHandleSessionAcceptIgnoresDuplicate verifies the AWAITING_ACCEPT →
// AWAITING_CONNECT transition fires exactly once even if a duplicate
// session-accept is delivered twice (§8 State machine invariants).
func TestHandleSessionAcceptIgnoresDuplicate(t *testing.T) {
	caller, callerSender, _ := newTestSession(t, true, true)
	callee, calleeSender, _ := newTestSession(t, false, false)

	if err := caller.StartOutgoing(Intent{To: "callee", Audio: true}); err != nil {
		t.Fatalf("StartOutgoing: %v", err)
	}
	initiate := callerSender.initiates[0]

	caller.HandleSessionInitiateResponse(signaling.SessionInitiateResponse{
		Status:    signaling.StatusSuccess,
		SessionID: "sess-1",
	})

	if err := callee.AcceptIncoming("sess-1", "caller", initiate.SDP, initiate.Offer); err != nil {
		t.Fatalf("AcceptIncoming: %v", err)
	}
	accept := calleeSender.accepts[0]

	if err := caller.HandleSessionAccept(accept); err != nil {
		t.Fatalf("HandleSessionAccept: %v", err)
	}
	if err := caller.HandleSessionAccept(accept); err != nil {
		t.Fatalf("second HandleSessionAccept: %v", err)
	}

	if got := caller.State(); got != StateAwaitingConnect {
		t.Fatalf("expected AWAITING_CONNECT after duplicate accept, got %v", got)
	}
}
