package signaling

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/twinlife/callcore/internal/clog"
)

// State is the transport's connection state (§4.3).
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateNegotiating
	StateReady
	StateClosing
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "DISCONNECTED"
	case StateConnecting:
		return "CONNECTING"
	case StateNegotiating:
		return "NEGOTIATING"
	case StateReady:
		return "READY"
	case StateClosing:
		return "CLOSING"
	default:
		return "UNKNOWN"
	}
}

// Callbacks are the transport's event sink. All are invoked from the
// single Run goroutine, so the host never observes concurrent callbacks.
type Callbacks struct {
	// OnReady fires once, on receipt of the first session-config.
	OnReady func(SessionConfig)
	// OnMessage fires for every envelope received while READY, except
	// ping, pong and session-config, which the transport handles itself.
	OnMessage func(Envelope)
	// OnServerClose fires once reconnection attempts are exhausted.
	OnServerClose func()
	// NeedConnection reports whether an active call justifies keeping
	// the socket open (idle-close) or retrying after an unexpected
	// close. Required.
	NeedConnection func() bool
}

// Transport is the signaling channel to the gateway (C3).
type Transport struct {
	dialer   Dialer
	url      string
	clientID string
	cb       Callbacks
	log      *clog.Logger

	mu          sync.Mutex
	state       State
	conn        Conn
	lastReceive time.Time
	stopping    bool
	lastConfig  *SessionConfig

	readyOnce sync.Once
	retry     retryState
}

// New constructs a Transport with a freshly generated, stable client
// session id.
func New(dialer Dialer, url string, cb Callbacks) (*Transport, error) {
	if cb.NeedConnection == nil {
		cb.NeedConnection = func() bool { return false }
	}
	id, err := generateClientID()
	if err != nil {
		return nil, err
	}
	return &Transport{
		dialer:   dialer,
		url:      url,
		clientID: id,
		cb:       cb,
		log:      clog.New("signaling"),
		state:    StateDisconnected,
	}, nil
}

// ClientID returns the stable client session id, reused across reconnects.
func (t *Transport) ClientID() string { return t.clientID }

// State returns the current connection state.
func (t *Transport) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// LastConfig returns the most recently received session-config, if any.
func (t *Transport) LastConfig() (SessionConfig, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.lastConfig == nil {
		return SessionConfig{}, false
	}
	return *t.lastConfig, true
}

// Send marshals v to JSON and writes it if the transport is READY. It
// reports whether the message was actually sent — per §5, outbound
// signaling frames are dropped, not queued, when not READY.
func (t *Transport) Send(v any) bool {
	data, err := json.Marshal(v)
	if err != nil {
		t.log.Printf("marshal error: %v", err)
		return false
	}
	t.mu.Lock()
	conn := t.conn
	ready := t.state == StateReady
	t.mu.Unlock()
	if !ready || conn == nil {
		return false
	}
	if err := conn.WriteMessage(data); err != nil {
		t.log.Printf("write error: %v", err)
		return false
	}
	return true
}

// Stop closes the transport without triggering a reconnect attempt.
func (t *Transport) Stop() {
	t.mu.Lock()
	t.stopping = true
	conn := t.conn
	t.state = StateClosing
	t.mu.Unlock()
	if conn != nil {
		_ = conn.Close(CloseNormal)
	}
}

// Run drives the connect/negotiate/ready/reconnect lifecycle until ctx is
// cancelled or reconnection is exhausted/declined. It blocks; call it in
// its own goroutine.
func (t *Transport) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		t.mu.Lock()
		stopping := t.stopping
		t.mu.Unlock()
		if stopping {
			return
		}

		closeCode, err := t.runOnce(ctx)
		_ = closeCode

		t.mu.Lock()
		stopping = t.stopping
		t.mu.Unlock()
		if stopping || ctx.Err() != nil {
			return
		}

		active := t.cb.NeedConnection()
		if err == nil && closeCode == CloseNormal {
			// Deliberate idle close (no active call): do not reconnect.
			if !active {
				return
			}
		}
		if !active {
			return
		}
		if !t.retry.shouldRetry() {
			if t.cb.OnServerClose != nil {
				t.cb.OnServerClose()
			}
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(RetryDelay):
		}
	}
}

// runOnce performs one connect-negotiate-read cycle, returning the close
// code observed (if any) and an error for abnormal termination.
func (t *Transport) runOnce(ctx context.Context) (int, error) {
	dialCtx, cancel := context.WithTimeout(ctx, ConnectTimeout)
	conn, err := t.dialer.Dial(dialCtx, t.url)
	cancel()
	if err != nil {
		return CloseConnectTimeout, err
	}

	t.mu.Lock()
	t.conn = conn
	t.state = StateConnecting
	t.lastReceive = time.Now()
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		t.conn = nil
		t.state = StateDisconnected
		t.mu.Unlock()
	}()

	reqFrame, _ := json.Marshal(SessionRequest{Msg: "session-request", SessionID: t.clientID})
	if err := conn.WriteMessage(reqFrame); err != nil {
		_ = conn.Close(CloseGenericError)
		return CloseGenericError, err
	}

	t.mu.Lock()
	t.state = StateNegotiating
	t.mu.Unlock()

	for {
		if ctx.Err() != nil {
			_ = conn.Close(CloseNormal)
			return CloseNormal, ctx.Err()
		}
		_ = conn.SetReadDeadline(time.Now().Add(PingInterval))
		data, rerr := conn.ReadMessage()
		if rerr != nil {
			if isTimeout(rerr) {
				code, terminal, werr := t.onKeepAliveTick(conn)
				if terminal {
					return code, werr
				}
				continue
			}
			_ = conn.Close(CloseGenericError)
			return CloseGenericError, rerr
		}

		t.mu.Lock()
		t.lastReceive = time.Now()
		t.mu.Unlock()

		t.handleFrame(data)
	}
}

// onKeepAliveTick evaluates the ping timer (§4.3) after a read-deadline
// timeout. It returns (closeCode, terminal, err): terminal=true means the
// caller must stop the read loop.
func (t *Transport) onKeepAliveTick(conn Conn) (int, bool, error) {
	t.mu.Lock()
	lastReceive := t.lastReceive
	t.mu.Unlock()

	switch EvaluateKeepAlive(time.Now(), lastReceive, t.cb.NeedConnection()) {
	case ActionCloseTimeout:
		_ = conn.Close(ClosePingTimeout)
		return ClosePingTimeout, true, nil
	case ActionSendPing:
		frame, _ := json.Marshal(Ping{Msg: "ping"})
		if err := conn.WriteMessage(frame); err != nil {
			_ = conn.Close(CloseGenericError)
			return CloseGenericError, true, err
		}
		return 0, false, nil
	case ActionCloseIdle:
		_ = conn.Close(CloseNormal)
		return CloseNormal, true, nil
	default:
		return 0, false, nil
	}
}

// handleFrame dispatches one decoded envelope. While NEGOTIATING only
// session-config is accepted; everything else is dropped (§4.3).
func (t *Transport) handleFrame(data []byte) {
	env, ok := ParseEnvelope(data)
	if !ok {
		t.log.Printf("dropping frame with no msg discriminator")
		return
	}

	t.mu.Lock()
	state := t.state
	t.mu.Unlock()

	if state == StateNegotiating {
		if env.Msg != "session-config" {
			t.log.Printf("dropping %q while NEGOTIATING", env.Msg)
			return
		}
		var cfg SessionConfig
		if err := env.Decode(&cfg); err != nil {
			t.log.Printf("session-config decode error: %v", err)
			return
		}
		t.mu.Lock()
		t.state = StateReady
		t.lastConfig = &cfg
		t.retry.reset()
		t.mu.Unlock()
		t.readyOnce.Do(func() {
			if t.cb.OnReady != nil {
				t.cb.OnReady(cfg)
			}
		})
		return
	}

	switch env.Msg {
	case "ping":
		frame, _ := json.Marshal(Pong{Msg: "pong"})
		t.mu.Lock()
		conn := t.conn
		t.mu.Unlock()
		if conn != nil {
			_ = conn.WriteMessage(frame)
		}
	case "pong":
		// lastReceive already refreshed by the caller.
	case "session-config":
		// Already negotiated; a repeated session-config updates ICE
		// config without resetting READY.
		var cfg SessionConfig
		if err := env.Decode(&cfg); err == nil {
			t.mu.Lock()
			t.lastConfig = &cfg
			t.mu.Unlock()
		}
	default:
		if t.cb.OnMessage != nil {
			t.cb.OnMessage(env)
		}
	}
}

func isTimeout(err error) bool {
	te, ok := err.(interface{ Timeout() bool })
	return ok && te.Timeout()
}
