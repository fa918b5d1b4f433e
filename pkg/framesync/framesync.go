// Package framesync defers state mutations to the next render commit point.
//
// A Queue collects deferred mutations and emits a coalesced signal when work
// is pending. The render loop drains it once per frame, so rapid successive
// mutations within a single frame are observed as one state change at the
// next paint instead of tearing mid-update.
package framesync

import "sync"

// Queue buffers deferred mutations until the render loop flushes them.
type Queue struct {
	mu      sync.Mutex
	pending []func()
	signal  chan struct{}
}

// New constructs an empty queue.
func New() *Queue {
	return &Queue{
		signal: make(chan struct{}, 1),
	}
}

// Defer enqueues fn to run at the next Flush and emits a non-blocking
// wake signal. Safe to call from any goroutine.
func (q *Queue) Defer(fn func()) {
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// Flush runs every pending mutation in the order it was deferred and
// returns the number applied. Mutations must only ever run here, so Flush
// must be called from the single goroutine that owns the mutated state.
func (q *Queue) Flush() int {
	q.mu.Lock()
	fns := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
	return len(fns)
}

// Wait blocks until at least one mutation is pending. Multiple Defer calls
// coalesce into a single wake-up.
func (q *Queue) Wait() {
	<-q.signal
}
