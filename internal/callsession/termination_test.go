package callsession

import (
	"testing"

	"github.com/twinlife/callcore/internal/clog"
	"github.com/twinlife/callcore/internal/convo"
	"github.com/twinlife/callcore/internal/signaling"
)

type fakeIdentity struct{}

func (fakeIdentity) Name() string   { return "tester" }
func (fakeIdentity) Avatar() []byte { return nil }

type fakeObserver struct {
	states      []State
	terminated  []signaling.TerminateReason
	connected   int
	renegotiate int
}

func (o *fakeObserver) OnStateChange(s State)                        { o.states = append(o.states, s) }
func (o *fakeObserver) OnTerminated(r signaling.TerminateReason)      { o.terminated = append(o.terminated, r) }
func (o *fakeObserver) OnConnected()                                 { o.connected++ }
func (o *fakeObserver) OnRenegotiationNeeded()                       { o.renegotiate++ }
func (o *fakeObserver) OnSupportsMessages()                          {}
func (o *fakeObserver) OnParticipantInfo(convo.ParticipantInfoIQ)    {}
func (o *fakeObserver) OnTransferIntent(string)                      {}
func (o *fakeObserver) OnPrepareTransferRequested()                  {}
func (o *fakeObserver) OnPrepareTransferAcked()                       {}
func (o *fakeObserver) OnTransferDone()                               {}
func (o *fakeObserver) OnPushObject(convo.PushObjectIQ)               {}
func (o *fakeObserver) OnPushTwincode(convo.PushTwincodeIQ)           {}

func newTestSession(t *testing.T, isCaller, initiator bool) (*Session, *capturingSender, *fakeObserver) {
	t.Helper()
	sender := &capturingSender{}
	observer := &fakeObserver{}
	s, err := New(Config{
		Sender:   sender,
		Observer: observer,
		Identity: fakeIdentity{},
		MemberID: "member-1",
		Log:      clog.New("TEST"),
	}, isCaller, initiator)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, sender, observer
}

func TestTerminateIsIdempotent(t *testing.T) {
	s, sender, observer := newTestSession(t, true, true)

	s.Terminate(signaling.ReasonSuccess)
	s.Terminate(signaling.ReasonSuccess)
	s.Terminate(signaling.ReasonDisconnected)

	if len(sender.terminates) != 0 {
		t.Fatalf("no session id was ever assigned, expected no session-terminate sent, got %d", len(sender.terminates))
	}
	if len(observer.terminated) != 1 {
		t.Fatalf("expected exactly one OnTerminated callback, got %d", len(observer.terminated))
	}
	if observer.terminated[0] != signaling.ReasonSuccess {
		t.Fatalf("expected first reason to win, got %v", observer.terminated[0])
	}
	if !s.IsTerminated() {
		t.Fatalf("expected IsTerminated() true")
	}
}

func TestTerminateNotifiesPeerWhenSessionIDKnown(t *testing.T) {
	s, sender, _ := newTestSession(t, true, true)

	s.HandleSessionInitiateResponse(signaling.SessionInitiateResponse{
		Status:    signaling.StatusSuccess,
		SessionID: "sess-42",
	})

	s.Terminate(signaling.ReasonGone)

	if len(sender.terminates) != 1 {
		t.Fatalf("expected one session-terminate frame, got %d", len(sender.terminates))
	}
	if sender.terminates[0].SessionID != "sess-42" {
		t.Fatalf("expected SessionID sess-42, got %q", sender.terminates[0].SessionID)
	}
}

func TestHandleSessionTerminateDoesNotNotifyPeer(t *testing.T) {
	s, sender, observer := newTestSession(t, false, false)

	s.HandleSessionTerminate(signaling.ReasonBusy)

	if len(sender.terminates) != 0 {
		t.Fatalf("peer-initiated termination must not echo session-terminate back, got %d", len(sender.terminates))
	}
	if len(observer.terminated) != 1 || observer.terminated[0] != signaling.ReasonBusy {
		t.Fatalf("expected OnTerminated(ReasonBusy) once, got %+v", observer.terminated)
	}
}
