package dashboard

import (
	"sync"
	"time"
)

// Notices holds the transient success/error message pair a surface renders
// next to its forms. Both kinds self-clear after the configured TTL; the
// original behavior let error messages linger forever, which is normalized
// here. The pending timer is cancelled on Close so a torn-down surface is
// never mutated from a stale timer goroutine.
type Notices struct {
	mu      sync.Mutex
	ttl     time.Duration
	success string
	failure string
	timer   *time.Timer
	closed  bool
}

// NewNotices builds a notice holder clearing messages after ttl. A zero ttl
// disables self-clearing.
func NewNotices(ttl time.Duration) *Notices {
	return &Notices{ttl: ttl}
}

// SetSuccess replaces the success message and drops any error message.
func (n *Notices) SetSuccess(msg string) {
	n.set(msg, "")
}

// SetError replaces the error message and drops any success message.
func (n *Notices) SetError(msg string) {
	n.set("", msg)
}

func (n *Notices) set(success, failure string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	n.success = success
	n.failure = failure
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	if n.ttl > 0 && (success != "" || failure != "") {
		n.timer = time.AfterFunc(n.ttl, n.expire)
	}
}

func (n *Notices) expire() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	n.success = ""
	n.failure = ""
	n.timer = nil
}

// Current returns the messages to render.
func (n *Notices) Current() (success, failure string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.success, n.failure
}

// Clear drops both messages immediately.
func (n *Notices) Clear() {
	n.set("", "")
}

// Close cancels the pending timer and freezes the holder. Further sets are
// no-ops.
func (n *Notices) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.success = ""
	n.failure = ""
}
