package signaling

import "time"

// PingInterval and PingTimeout are the fixed §4.3 keepalive constants.
const (
	PingInterval = 15 * time.Second
	PingTimeout  = 2 * PingInterval // 30s
)

// KeepAliveAction is the outcome of evaluating the keepalive timer against
// elapsed silence from the peer.
type KeepAliveAction int

const (
	// ActionNone means neither condition fired; nothing to do.
	ActionNone KeepAliveAction = iota
	// ActionSendPing means PingInterval elapsed and an active call exists.
	ActionSendPing
	// ActionCloseIdle means PingInterval elapsed with no active call;
	// the transport closes normally to conserve resources.
	ActionCloseIdle
	// ActionCloseTimeout means PingTimeout elapsed with no inbound frame
	// at all; the transport closes with PING_TIMEOUT.
	ActionCloseTimeout
)

// EvaluateKeepAlive implements §4.3's ping-timer decision exactly:
//
//	now - lastReceive > PingTimeout         => close(PING_TIMEOUT)
//	now - lastReceive > PingInterval && call => send ping
//	now - lastReceive > PingInterval         => close(normal)
//	otherwise                                 => nothing
func EvaluateKeepAlive(now, lastReceive time.Time, hasActiveCall bool) KeepAliveAction {
	silence := now.Sub(lastReceive)
	switch {
	case silence > PingTimeout:
		return ActionCloseTimeout
	case silence > PingInterval && hasActiveCall:
		return ActionSendPing
	case silence > PingInterval:
		return ActionCloseIdle
	default:
		return ActionNone
	}
}
