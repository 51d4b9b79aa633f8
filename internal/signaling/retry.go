package signaling

import "time"

// RetryDelay and MaxRetryAttempts implement §4.3's reconnection policy: a
// flat 3s delay, up to 5 attempts, no backoff. §9's open question notes
// implementers may add exponential backoff without breaking compatibility;
// this core keeps the flat policy the source exhibits.
const (
	RetryDelay      = 3 * time.Second
	MaxRetryAttempts = 5
)

// ConnectTimeout is the deadline from socket-open intent to a completed
// handshake (§4.3 Connect timeout).
const ConnectTimeout = 15 * time.Second

// retryState tracks the reconnect attempt counter. A successful connect
// resets it; exhaustion is terminal.
type retryState struct {
	attempts int
}

// shouldRetry reports whether another reconnect attempt is permitted and,
// if so, increments the counter.
func (r *retryState) shouldRetry() bool {
	if r.attempts >= MaxRetryAttempts {
		return false
	}
	r.attempts++
	return true
}

func (r *retryState) reset() { r.attempts = 0 }
