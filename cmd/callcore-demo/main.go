// Command callcore-demo wires the signaling transport to a single Call
// and places one outgoing call, logging lifecycle events to stdout. It
// exists to exercise the library end-to-end; it is not a UI.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pion/webrtc/v4"

	"github.com/twinlife/callcore/internal/callaggregator"
	"github.com/twinlife/callcore/internal/callsession"
	"github.com/twinlife/callcore/internal/clog"
	"github.com/twinlife/callcore/internal/directory"
	"github.com/twinlife/callcore/internal/signaling"
	"github.com/twinlife/callcore/internal/wireconfig"
)

var (
	gatewayURL = flag.String("url", "", "signaling gateway URL (defaults to $PROXY_URL)")
	callTo     = flag.String("to", "", "peer identifier to call")
	roomID     = flag.String("room", "", "call room UUID, if joining a group call")
)

// staticDirectory always reports the callee as audio/video capable; the
// demo has no REST endpoint to query, so it stands in for one.
type staticDirectory struct{}

func (staticDirectory) Resolve(ctx context.Context, twincodeID string) (directory.Contact, error) {
	return directory.Contact{Name: twincodeID, AudioCapable: true, VideoCapable: true}, nil
}

type stdoutIdentity struct{ name string }

func (i stdoutIdentity) Name() string   { return i.name }
func (i stdoutIdentity) Avatar() []byte { return nil }

type logCallObserver struct{ log *clog.Logger }

func (o logCallObserver) OnCallStatus(s callaggregator.CallStatus)          { o.log.Printf("status: %s", s) }
func (o logCallObserver) OnCallTerminated(r signaling.TerminateReason)      { o.log.Printf("terminated: %s", r) }
func (o logCallObserver) OnAudioOverride(enabled bool)                     { o.log.Printf("audio override: %v", enabled) }
func (o logCallObserver) OnVideoOverride(enabled bool)                     { o.log.Printf("video override: %v", enabled) }

func main() {
	flag.Parse()
	if *callTo == "" && *roomID == "" {
		log.Fatal("one of -to or -room is required")
	}

	url := *gatewayURL
	if url == "" {
		cfg, err := wireconfig.FromEnv()
		if err != nil {
			log.Fatalf("no -url given and %v", err)
		}
		url = cfg.ProxyURL
	}

	logger := clog.New("DEMO")
	var call *callaggregator.Call

	transport, err := signaling.New(signaling.NewGorillaDialer(), url, signaling.Callbacks{
		OnMessage: func(env signaling.Envelope) {
			if call != nil {
				call.HandleMessage(env)
			}
		},
		NeedConnection: func() bool {
			return call != nil && call.NeedConnection()
		},
		OnServerClose: func() {
			logger.Println("signaling server connection exhausted retries")
		},
	})
	if err != nil {
		log.Fatalf("signaling.New: %v", err)
	}

	call = callaggregator.New(callaggregator.Config{
		ICEServers: []webrtc.ICEServer{{URLs: []string{"stun:stun.l.google.com:19302"}}},
		Identity:   stdoutIdentity{name: "demo"},
		MemberID:   "demo-member",
		RoomID:     *roomID,
		Transport:  transport,
		Observer:   logCallObserver{log: logger},
		Directory:  staticDirectory{},
		Log:        logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go transport.Run(ctx)

	if *callTo != "" {
		if err := call.StartOutgoing(callsession.Intent{To: *callTo, Audio: true}); err != nil {
			log.Fatalf("StartOutgoing: %v", err)
		}
	}

	<-ctx.Done()
}
