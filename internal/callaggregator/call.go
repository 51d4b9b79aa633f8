package callaggregator

import (
	"context"
	"regexp"
	"sync"
	"time"

	"github.com/pion/webrtc/v4"

	"github.com/twinlife/callcore/internal/callsession"
	"github.com/twinlife/callcore/internal/clog"
	"github.com/twinlife/callcore/internal/directory"
	"github.com/twinlife/callcore/internal/identity"
	"github.com/twinlife/callcore/internal/signaling"
)

// FinishTimeout is the grace period after the last peer session
// terminates before the Call itself finalizes, to allow final IQs to
// settle (§4.5).
const FinishTimeout = 3 * time.Second

// roomSubdomain matches peer identifiers of the form
// "<uuid>.callroom.<host>" (GLOSSARY "Call room").
var roomSubdomain = regexp.MustCompile(`^([0-9a-fA-F-]{36})\.callroom\.`)

// outboundTransport is the slice of *signaling.Transport the Call needs:
// a best-effort, drop-when-not-ready outbound send. Declared as an
// interface so tests can stand in a fake without a live socket.
type outboundTransport interface {
	Send(v any) bool
}

// Config supplies a Call's fixed construction-time dependencies.
type Config struct {
	ICEServers          []webrtc.ICEServer
	Identity            identity.Provider
	MemberID            string
	RoomID              string
	Transport           outboundTransport
	Observer            CallObserver
	ParticipantObserver CallParticipantObserver
	// Directory resolves a callee's twincodeId to contact details before
	// placing an outgoing call. Optional: nil skips the lookup and StartOutgoing
	// proceeds with only the caller-supplied Intent.
	Directory directory.Resolver
	Log       *clog.Logger
}

// Call aggregates the peer sessions of one logical call (§4.5).
type Call struct {
	cfg Config

	mu           sync.Mutex
	bySessionID  map[string]*callsession.Session
	pendingByTo  map[string]*callsession.Session
	meta         map[*callsession.Session]*sessionMeta
	participants map[string]*Participant
	nextParticipantID int64

	flags                   operationFlags
	pendingPrepareTransfers map[string]bool
	transferDirection       string
	transferTargetMemberID  string

	finishTimer *time.Timer
	terminated  bool
}

// sessionMeta tracks the per-session bookkeeping the Call needs to derive
// CallStatus and drive transfer/participant logic, without polluting
// callsession.Session with aggregator-specific fields.
type sessionMeta struct {
	isCaller bool
	video    bool
	memberID string
}

// New constructs an empty Call ready to accept an outgoing intent or route
// an incoming session-initiate.
func New(cfg Config) *Call {
	return &Call{
		cfg:                     cfg,
		bySessionID:             make(map[string]*callsession.Session),
		pendingByTo:             make(map[string]*callsession.Session),
		meta:                    make(map[*callsession.Session]*sessionMeta),
		participants:            make(map[string]*Participant),
		pendingPrepareTransfers: make(map[string]bool),
	}
}

// NeedConnection reports whether the signaling transport should stay
// connected; wired into signaling.Callbacks.NeedConnection (§4.3).
func (c *Call) NeedConnection() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.terminated && (len(c.bySessionID) > 0 || len(c.pendingByTo) > 0)
}

// --- callsession.Sender, implemented by forwarding to the shared transport ---

func (c *Call) SendSessionInitiate(v signaling.SessionInitiate) bool { return c.cfg.Transport.Send(v) }
func (c *Call) SendSessionAccept(v signaling.SessionAccept) bool     { return c.cfg.Transport.Send(v) }
func (c *Call) SendSessionUpdate(v signaling.SessionUpdate) bool     { return c.cfg.Transport.Send(v) }
func (c *Call) SendTransportInfo(v signaling.TransportInfo) bool     { return c.cfg.Transport.Send(v) }
func (c *Call) SendSessionTerminate(v signaling.SessionTerminate) bool {
	return c.cfg.Transport.Send(v)
}

// newSession constructs a Session wired back into this Call as both
// Sender and Observer. The Observer is built around a holder because the
// Session pointer it needs does not exist until callsession.New returns;
// no Observer callback fires during construction itself, so the holder is
// filled before it can ever be read.
func (c *Call) newSession(isCaller, initiator bool) (*callsession.Session, error) {
	holder := &sessionHolder{}
	sess, err := callsession.New(callsession.Config{
		ICEServers: c.cfg.ICEServers,
		Sender:     c,
		Observer:   &sessObserver{call: c, holder: holder},
		Identity:   c.cfg.Identity,
		MemberID:   c.cfg.MemberID,
		Log:        c.cfg.Log,
	}, isCaller, initiator)
	if err != nil {
		return nil, err
	}
	holder.sess = sess
	return sess, nil
}

// StartOutgoing creates a new outgoing peer session toward to, unless a
// non-terminated session is already pending or active (§4.5 "Outgoing
// call").
func (c *Call) StartOutgoing(intent callsession.Intent) error {
	to := intent.To
	c.mu.Lock()
	if c.terminated {
		c.mu.Unlock()
		return nil
	}
	if len(c.pendingByTo) > 0 || len(c.bySessionID) > 0 {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	if c.cfg.Directory != nil {
		if contact, err := c.cfg.Directory.Resolve(context.Background(), to); err != nil {
			c.cfg.Log.Printf("directory.Resolve(%s): %v", to, err)
		} else {
			intent.Audio = intent.Audio && contact.AudioCapable
			intent.Video = intent.Video && contact.VideoCapable
		}
	}

	sess, err := c.newSession(true, true)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.pendingByTo[to] = sess
	c.meta[sess] = &sessionMeta{isCaller: true, video: intent.Video}
	c.mu.Unlock()

	return sess.StartOutgoing(intent)
}

// HandleMessage dispatches one decoded signaling envelope to the
// appropriate session or Call-level handler.
func (c *Call) HandleMessage(env signaling.Envelope) {
	switch env.Msg {
	case "session-initiate":
		var v signaling.SessionInitiate
		if err := env.Decode(&v); err == nil {
			c.handleSessionInitiate(v)
		}
	case "session-initiate-response":
		var v signaling.SessionInitiateResponse
		if err := env.Decode(&v); err == nil {
			c.handleSessionInitiateResponse(v)
		}
	case "session-accept":
		var v signaling.SessionAccept
		if err := env.Decode(&v); err == nil {
			c.routeBySessionID(v.SessionID, func(s *callsession.Session) {
				_ = s.HandleSessionAccept(v)
			})
		}
	case "session-update":
		var v signaling.SessionUpdate
		if err := env.Decode(&v); err == nil {
			c.routeBySessionID(v.SessionID, func(s *callsession.Session) {
				_ = s.HandleSessionUpdate(v)
			})
		}
	case "transport-info":
		var v signaling.TransportInfo
		if err := env.Decode(&v); err == nil {
			c.routeBySessionID(v.SessionID, func(s *callsession.Session) {
				s.HandleTransportInfo(v)
			})
		}
	case "session-terminate":
		var v signaling.SessionTerminate
		if err := env.Decode(&v); err == nil {
			c.routeBySessionID(v.SessionID, func(s *callsession.Session) {
				s.HandleSessionTerminate(v.Reason)
			})
		}
	case "join-callroom":
		var v signaling.JoinCallRoom
		if err := env.Decode(&v); err == nil {
			c.handleJoinCallRoom(v)
		}
	case "member-join":
		// member-level roster deltas outside join-callroom are folded into
		// the same roster handling via a single-member JoinCallRoom.
		var v signaling.MemberJoin
		if err := env.Decode(&v); err == nil {
			c.handleJoinCallRoom(signaling.JoinCallRoom{Members: []signaling.RoomMember{{
				Status:    v.Status,
				MemberID:  v.MemberID,
				SessionID: v.SessionID,
			}}})
		}
	}
}

// routeBySessionID looks up sessionID and invokes fn, or terminates the
// unknown id with reason gone (§4.5 "Routing").
func (c *Call) routeBySessionID(sessionID string, fn func(*callsession.Session)) {
	c.mu.Lock()
	sess, ok := c.bySessionID[sessionID]
	c.mu.Unlock()
	if !ok {
		c.cfg.Transport.Send(signaling.SessionTerminate{
			Msg:       "session-terminate",
			SessionID: sessionID,
			Reason:    signaling.ReasonGone,
		})
		return
	}
	fn(sess)
}

// handleSessionInitiate validates an incoming offer's originating room
// subdomain before answering it (§4.5 "Incoming session-initiate").
func (c *Call) handleSessionInitiate(v signaling.SessionInitiate) {
	if c.cfg.RoomID != "" {
		m := roomSubdomain.FindStringSubmatch(v.From)
		if m == nil || m[1] != c.cfg.RoomID {
			c.cfg.Transport.Send(signaling.SessionInitiateResponse{
				Msg:    "session-initiate-response",
				To:     v.From,
				Status: signaling.StatusNotAuthorized,
			})
			return
		}
	}

	sess, err := c.newSession(false, false)
	if err != nil {
		c.cfg.Log.Printf("incoming session-initiate: %v", err)
		return
	}
	c.mu.Lock()
	c.meta[sess] = &sessionMeta{isCaller: false, video: v.Offer.Video}
	c.mu.Unlock()

	if err := sess.AcceptIncoming(v.SessionID, v.From, v.SDP, v.Offer); err != nil {
		c.cfg.Log.Printf("AcceptIncoming: %v", err)
		return
	}
	c.mu.Lock()
	c.bySessionID[v.SessionID] = sess
	c.mu.Unlock()
}

func (c *Call) handleSessionInitiateResponse(v signaling.SessionInitiateResponse) {
	c.mu.Lock()
	sess, ok := c.pendingByTo[v.To]
	if ok {
		delete(c.pendingByTo, v.To)
	}
	c.mu.Unlock()
	if !ok {
		return
	}
	sess.HandleSessionInitiateResponse(v)
	if v.Status == signaling.StatusSuccess {
		c.mu.Lock()
		c.bySessionID[v.SessionID] = sess
		c.mu.Unlock()
	}
}
