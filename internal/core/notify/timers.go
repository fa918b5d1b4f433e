package notify

import (
	"sync"
	"time"
)

// Handle identifies one scheduled callback in a TimerRegistry.
type Handle struct {
	reg     *TimerRegistry
	channel Channel
	timer   *time.Timer
	settled bool // fired or cancelled; guarded by reg.mu
}

// TimerRegistry associates each channel with at most one outstanding delayed
// callback. Scheduling for a channel cancels any prior callback for that same
// channel, so exactly-one-active-per-channel is enforced here rather than
// left to callers.
type TimerRegistry struct {
	mu     sync.Mutex
	active map[Channel]*Handle
}

// NewTimerRegistry constructs an empty registry.
func NewTimerRegistry() *TimerRegistry {
	return &TimerRegistry{
		active: make(map[Channel]*Handle),
	}
}

// Schedule registers fn to fire once after delay and returns its handle.
// Any callback previously scheduled for the channel is cancelled first.
// A zero delay is valid and fires on the next scheduling opportunity.
//
// The cancel-before-fire check is a hard guarantee: a callback observed as
// cancelled never runs, even though the underlying timer fires on its own
// goroutine.
func (r *TimerRegistry) Schedule(channel Channel, delay time.Duration, fn func()) *Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.active[channel]; ok {
		prev.settleLocked()
	}

	h := &Handle{reg: r, channel: channel}
	h.timer = time.AfterFunc(delay, func() {
		r.mu.Lock()
		if h.settled {
			r.mu.Unlock()
			return
		}
		h.settled = true
		if r.active[channel] == h {
			delete(r.active, channel)
		}
		r.mu.Unlock()

		fn()
	})
	r.active[channel] = h

	return h
}

// Cancel stops a scheduled callback. Cancelling a handle that already fired
// or was already cancelled is a no-op; a nil handle is ignored.
func (r *TimerRegistry) Cancel(h *Handle) {
	if h == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	h.settleLocked()
}

// Pending reports whether the channel has an outstanding callback.
func (r *TimerRegistry) Pending(channel Channel) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.active[channel]
	return ok
}

// settleLocked marks the handle fired-or-cancelled and stops its timer.
// Caller must hold reg.mu.
func (h *Handle) settleLocked() {
	if h.settled {
		return
	}
	h.settled = true
	h.timer.Stop()
	if h.reg.active[h.channel] == h {
		delete(h.reg.active, h.channel)
	}
}
