package callaggregator

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/pion/webrtc/v4"

	"github.com/twinlife/callcore/internal/callsession"
	"github.com/twinlife/callcore/internal/clog"
	"github.com/twinlife/callcore/internal/directory"
	"github.com/twinlife/callcore/internal/signaling"
)

// makeOfferSDP builds a throwaway real SDP offer so tests that exercise
// SetRemoteDescription have syntactically valid input without a network.
func makeOfferSDP(t *testing.T) string {
	t.Helper()
	pc, err := webrtc.NewPeerConnection(webrtc.Configuration{})
	if err != nil {
		t.Fatalf("NewPeerConnection: %v", err)
	}
	defer pc.Close()
	if _, err := pc.CreateDataChannel("probe", nil); err != nil {
		t.Fatalf("CreateDataChannel: %v", err)
	}
	offer, err := pc.CreateOffer(nil)
	if err != nil {
		t.Fatalf("CreateOffer: %v", err)
	}
	if err := pc.SetLocalDescription(offer); err != nil {
		t.Fatalf("SetLocalDescription: %v", err)
	}
	return offer.SDP
}

func mustEnvelope(t *testing.T, msg string, v any) signaling.Envelope {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return signaling.Envelope{Msg: msg, Raw: raw}
}

type fakeTransport struct {
	mu   sync.Mutex
	sent []any
}

func (f *fakeTransport) Send(v any) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, v)
	return true
}

func (f *fakeTransport) last() any {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return nil
	}
	return f.sent[len(f.sent)-1]
}

type fakeIdentity struct{}

func (fakeIdentity) Name() string   { return "tester" }
func (fakeIdentity) Avatar() []byte { return nil }

type fakeCallObserver struct {
	mu       sync.Mutex
	statuses []CallStatus
	reasons  []signaling.TerminateReason
}

func (o *fakeCallObserver) OnCallStatus(s CallStatus) {
	o.mu.Lock()
	o.statuses = append(o.statuses, s)
	o.mu.Unlock()
}
func (o *fakeCallObserver) OnCallTerminated(r signaling.TerminateReason) {
	o.mu.Lock()
	o.reasons = append(o.reasons, r)
	o.mu.Unlock()
}
func (o *fakeCallObserver) OnAudioOverride(bool) {}
func (o *fakeCallObserver) OnVideoOverride(bool) {}

func newTestCall(t *testing.T) (*Call, *fakeTransport, *fakeCallObserver) {
	t.Helper()
	transport := &fakeTransport{}
	observer := &fakeCallObserver{}
	c := New(Config{
		Identity: fakeIdentity{},
		MemberID: "member-1",
		RoomID:   "11111111-1111-1111-1111-111111111111",
		Transport: transport,
		Observer:  observer,
		Log:       clog.New("TEST"),
	})
	return c, transport, observer
}

func TestRouteBySessionIDUnknownSendsSessionTerminateGone(t *testing.T) {
	c, transport, _ := newTestCall(t)

	c.HandleMessage(mustEnvelope(t, "session-accept", signaling.SessionAccept{
		Msg:       "session-accept",
		SessionID: "no-such-session",
	}))

	last, ok := transport.last().(signaling.SessionTerminate)
	if !ok {
		t.Fatalf("expected a SessionTerminate frame, got %#v", transport.last())
	}
	if last.Reason != signaling.ReasonGone {
		t.Fatalf("expected reason gone, got %v", last.Reason)
	}
}

func TestIncomingSessionInitiateRejectsWrongRoom(t *testing.T) {
	c, transport, _ := newTestCall(t)

	c.HandleMessage(mustEnvelope(t, "session-initiate", signaling.SessionInitiate{
		Msg:       "session-initiate",
		From:      "22222222-2222-2222-2222-222222222222.callroom.example.com",
		SessionID: "sess-1",
		SDP:       makeOfferSDP(t),
		Offer:     signaling.Offer{Audio: true, Version: "1.0.0"},
	}))

	last, ok := transport.last().(signaling.SessionInitiateResponse)
	if !ok {
		t.Fatalf("expected a SessionInitiateResponse, got %#v", transport.last())
	}
	if last.Status != signaling.StatusNotAuthorized {
		t.Fatalf("expected not-authorized, got %v", last.Status)
	}
}

func TestIncomingSessionInitiateAcceptsMatchingRoom(t *testing.T) {
	c, _, _ := newTestCall(t)

	c.HandleMessage(mustEnvelope(t, "session-initiate", signaling.SessionInitiate{
		Msg:       "session-initiate",
		From:      "11111111-1111-1111-1111-111111111111.callroom.example.com",
		SessionID: "sess-1",
		SDP:       makeOfferSDP(t),
		Offer:     signaling.Offer{Audio: true, Version: "1.0.0"},
	}))

	c.mu.Lock()
	_, ok := c.bySessionID["sess-1"]
	c.mu.Unlock()
	if !ok {
		t.Fatalf("expected sess-1 to be tracked after a valid incoming session-initiate")
	}
}

func TestStartOutgoingIgnoredWhileAlreadyActive(t *testing.T) {
	c, transport, _ := newTestCall(t)

	if err := c.StartOutgoing(callsession.Intent{To: "peer-a", Audio: true}); err != nil {
		t.Fatalf("StartOutgoing: %v", err)
	}
	firstCount := len(transport.sent)

	if err := c.StartOutgoing(callsession.Intent{To: "peer-b", Audio: true}); err != nil {
		t.Fatalf("second StartOutgoing: %v", err)
	}

	if len(transport.sent) != firstCount {
		t.Fatalf("expected second StartOutgoing to be a no-op, sent grew from %d to %d", firstCount, len(transport.sent))
	}
}

type fakeDirectory struct {
	contact directory.Contact
	err     error
}

func (f fakeDirectory) Resolve(ctx context.Context, twincodeID string) (directory.Contact, error) {
	return f.contact, f.err
}

func TestStartOutgoingNarrowsIntentToResolvedCapabilities(t *testing.T) {
	transport := &fakeTransport{}
	c := New(Config{
		Identity:  fakeIdentity{},
		MemberID:  "member-1",
		RoomID:    "11111111-1111-1111-1111-111111111111",
		Transport: transport,
		Directory: fakeDirectory{contact: directory.Contact{AudioCapable: true, VideoCapable: false}},
		Log:       clog.New("TEST"),
	})

	if err := c.StartOutgoing(callsession.Intent{To: "peer-a", Audio: true, Video: true}); err != nil {
		t.Fatalf("StartOutgoing: %v", err)
	}

	c.mu.Lock()
	var meta *sessionMeta
	for _, m := range c.meta {
		meta = m
	}
	c.mu.Unlock()
	if meta == nil {
		t.Fatalf("expected a session to be tracked after StartOutgoing")
	}
	if meta.video {
		t.Fatalf("expected video to be narrowed off by the resolved contact's capabilities")
	}
}

func TestInviteCallRoomFiresOnlyOnce(t *testing.T) {
	c, transport, _ := newTestCall(t)

	if !c.InviteCallRoom("twincode-1", 8) {
		t.Fatalf("expected first InviteCallRoom to succeed")
	}
	if c.InviteCallRoom("twincode-1", 8) {
		t.Fatalf("expected second InviteCallRoom to be rejected by the set-once flag")
	}
	if len(transport.sent) != 1 {
		t.Fatalf("expected exactly one invite-call-room frame, got %d", len(transport.sent))
	}
}

func TestDeriveStatusMapsConnectedToActiveVideo(t *testing.T) {
	if got := deriveStatus(callsession.StateConnected, false, true); got != StatusInVideoCall {
		t.Fatalf("expected IN_VIDEO_CALL, got %v", got)
	}
	if got := deriveStatus(callsession.StateConnected, false, false); got != StatusInCall {
		t.Fatalf("expected IN_CALL, got %v", got)
	}
	if got := deriveStatus(callsession.StateTerminated, false, false); got != StatusTerminated {
		t.Fatalf("expected TERMINATED, got %v", got)
	}
}

func TestFinishTimerArmsAfterLastSessionTerminates(t *testing.T) {
	c, _, observer := newTestCall(t)

	if err := c.StartOutgoing(callsession.Intent{To: "peer-a", Audio: true}); err != nil {
		t.Fatalf("StartOutgoing: %v", err)
	}

	var sess *callsession.Session
	c.mu.Lock()
	for _, s := range c.pendingByTo {
		sess = s
	}
	c.mu.Unlock()
	if sess == nil {
		t.Fatalf("expected a pending session after StartOutgoing")
	}

	sess.Terminate(signaling.ReasonCancel)

	c.mu.Lock()
	armed := c.finishTimer != nil
	c.mu.Unlock()
	if !armed {
		t.Fatalf("expected the finish timer to be armed once the last session terminates")
	}

	observer.mu.Lock()
	reasons := append([]signaling.TerminateReason(nil), observer.reasons...)
	observer.mu.Unlock()
	if len(reasons) != 1 || reasons[0] != signaling.ReasonCancel {
		t.Fatalf("expected immediate OnCallTerminated(cancel), got %+v", reasons)
	}

	deadline := time.Now().Add(FinishTimeout + time.Second)
	for time.Now().Before(deadline) {
		c.mu.Lock()
		terminated := c.terminated
		c.mu.Unlock()
		if terminated {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected Call to finalize within the finish timeout")
}
