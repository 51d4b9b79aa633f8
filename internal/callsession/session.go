package callsession

import (
	"sync"
	"time"

	"github.com/pion/interceptor"
	"github.com/pion/webrtc/v4"

	"github.com/twinlife/callcore/internal/callerror"
	"github.com/twinlife/callcore/internal/clog"
	"github.com/twinlife/callcore/internal/convo"
	"github.com/twinlife/callcore/internal/identity"
	"github.com/twinlife/callcore/internal/media"
	"github.com/twinlife/callcore/internal/option"
	"github.com/twinlife/callcore/internal/signaling"
	"github.com/twinlife/callcore/pkg/iq"
)

// Timers per §4.4.4.
const (
	CallTimeout          = 30 * time.Second
	ConnectTimeout       = 15 * time.Second
	DisconnectBackoff    = 2 * time.Second
)

// Config supplies a Session's fixed construction-time dependencies.
type Config struct {
	ICEServers []webrtc.ICEServer
	Sender     Sender
	Observer   Observer
	Identity   identity.Provider
	MemberID   string
	Log        *clog.Logger
}

// Session is one peer connection half of the call protocol (C4).
type Session struct {
	cfg       Config
	isCaller  bool
	initiator bool

	mu sync.Mutex

	state      State
	generation uint64

	pc *webrtc.PeerConnection

	sessionID    option.Option[string]
	peerVersion  option.Option[string]
	msgSupported option.Option[bool]

	makingOffer         bool
	remoteAnswerPending bool

	pendingLocalIce  []webrtc.ICECandidateInit
	pendingRemoteIce []pendingRemoteCandidate

	localDescSent  bool
	remoteDescSet  bool

	peerConnected        bool
	connectionStartTime  time.Time

	audioDirection webrtc.RTPTransceiverDirection
	videoDirection webrtc.RTPTransceiverDirection

	audioSource media.TrackSource
	videoSource media.TrackSource

	outboundDC *webrtc.DataChannel
	inboundDC  *webrtc.DataChannel
	registry   *iq.Registry
	reqCounter int64

	transferToMemberID option.Option[string]

	callTimer       *time.Timer
	disconnectTimer *time.Timer

	terminated bool
}

type pendingRemoteCandidate struct {
	init webrtc.ICECandidateInit
}

// New constructs a Session in either OFFERING (isCaller) or ANSWERING
// state, and starts the CALL_TIMEOUT timer.
func New(cfg Config, isCaller, initiator bool) (*Session, error) {
	m := &webrtc.MediaEngine{}
	if err := m.RegisterDefaultCodecs(); err != nil {
		return nil, callerror.New(callerror.Media, "callsession.New", err)
	}
	ir := &interceptor.Registry{}
	if err := webrtc.RegisterDefaultInterceptors(m, ir); err != nil {
		return nil, callerror.New(callerror.Media, "callsession.New", err)
	}
	api := webrtc.NewAPI(webrtc.WithMediaEngine(m), webrtc.WithInterceptorRegistry(ir))

	pc, err := api.NewPeerConnection(webrtc.Configuration{ICEServers: cfg.ICEServers})
	if err != nil {
		return nil, callerror.New(callerror.Media, "callsession.New", err)
	}

	s := &Session{
		cfg:            cfg,
		isCaller:       isCaller,
		initiator:      initiator,
		pc:             pc,
		audioDirection: webrtc.RTPTransceiverDirectionSendrecv,
		videoDirection: webrtc.RTPTransceiverDirectionSendrecv,
		registry:       iq.NewRegistry(),
	}
	if isCaller {
		s.state = StateOffering
	} else {
		s.state = StateAnswering
	}

	s.wirePeerConnectionCallbacks()
	s.registerConvoHandlers()

	dc, err := pc.CreateDataChannel(convo.DataChannelLabel, nil)
	if err != nil {
		_ = pc.Close()
		return nil, callerror.New(callerror.Media, "callsession.New", err)
	}
	s.outboundDC = dc
	s.wireOutboundDataChannel(dc)

	pc.OnDataChannel(s.handleInboundDataChannel)

	s.callTimer = time.AfterFunc(CallTimeout, s.onCallTimeout)

	return s, nil
}

// State returns the current session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SessionID returns the gateway-assigned session id, once known.
func (s *Session) SessionID() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID.Get()
}

// PeerVersion returns the remote protocol version, once known from an
// exchanged Offer.
func (s *Session) PeerVersion() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.peerVersion.Get()
}

// MessageSupported reports whether the peer's inbound data channel
// advertised the "message" capability, once its channel has opened.
func (s *Session) MessageSupported() (bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.msgSupported.Get()
}

// transitionTo sets the state and notifies the observer outside the lock,
// so the observer may safely call back into non-blocking Session methods.
func (s *Session) transitionTo(next State) {
	s.mu.Lock()
	s.state = next
	s.mu.Unlock()
	if s.cfg.Observer != nil {
		s.cfg.Observer.OnStateChange(next)
	}
}

// generationMatches reports whether gen is still the session's current
// generation — the guard that replaces "peerConnection = null" as the
// cancellation signal for in-flight async SDP operations (§9).
func (s *Session) generationMatches(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation == gen
}

func (s *Session) currentGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

func (s *Session) bumpGeneration() uint64 {
	s.generation++
	return s.generation
}

func (s *Session) nextRequestID() int64 {
	s.reqCounter++
	return s.reqCounter
}

// AddTrackSource adds a local track supplied by the host media engine,
// remembering src so a later direction change can gate it (§4.4.6 step 2).
func (s *Session) AddTrackSource(src media.TrackSource) error {
	if _, err := s.pc.AddTrack(src.Track()); err != nil {
		return callerror.New(callerror.Media, "callsession.AddTrackSource", err)
	}
	s.mu.Lock()
	if src.Kind() == webrtc.RTPCodecTypeAudio {
		s.audioSource = src
	} else {
		s.videoSource = src
	}
	s.mu.Unlock()
	return nil
}

// SetTrackSink arranges for remote tracks to be handed to sink.
func (s *Session) SetTrackSink(sink media.TrackSink) {
	s.pc.OnTrack(func(track *webrtc.TrackRemote, receiver *webrtc.RTPReceiver) {
		sink.OnTrack(track, receiver)
	})
}
