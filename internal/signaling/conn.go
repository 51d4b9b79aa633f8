package signaling

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
)

// Close codes (§4.3).
const (
	CloseNormal         = 1000
	CloseGenericError   = 3000
	ClosePingTimeout    = 3001
	CloseConnectTimeout = 3002
)

// Conn is the minimal socket surface the transport depends on. Production
// code gets it from gorillaDialer; tests substitute an in-memory fake so
// the state machine, keepalive, and reconnect logic can be exercised
// without a real network.
type Conn interface {
	ReadMessage() (data []byte, err error)
	WriteMessage(data []byte) error
	Close(code int) error
	SetReadDeadline(t time.Time) error
}

// Dialer opens a Conn to url.
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

// gorillaDialer is the production Dialer over gorilla/websocket.
type gorillaDialer struct{}

// NewGorillaDialer returns the production Dialer used outside tests.
func NewGorillaDialer() Dialer { return gorillaDialer{} }

func (gorillaDialer) Dial(ctx context.Context, url string) (Conn, error) {
	c, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	return &gorillaConn{c: c}, nil
}

type gorillaConn struct {
	c *websocket.Conn
}

func (g *gorillaConn) ReadMessage() ([]byte, error) {
	_, data, err := g.c.ReadMessage()
	return data, err
}

func (g *gorillaConn) WriteMessage(data []byte) error {
	return g.c.WriteMessage(websocket.TextMessage, data)
}

func (g *gorillaConn) Close(code int) error {
	reason := "normal"
	if code != CloseNormal {
		reason = "error"
	}
	_ = g.c.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(translateCloseCode(code), reason),
		time.Now().Add(time.Second))
	return g.c.Close()
}

func (g *gorillaConn) SetReadDeadline(t time.Time) error {
	return g.c.SetReadDeadline(t)
}

// translateCloseCode maps our §4.3 application close codes onto a valid
// RFC 6455 control-frame code; the application-level code itself travels
// out of band (close codes above 2999 are not valid wire close codes).
func translateCloseCode(code int) int {
	if code == CloseNormal {
		return websocket.CloseNormalClosure
	}
	return websocket.CloseAbnormalClosure
}
