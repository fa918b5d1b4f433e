package framesync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_Flush_runs_in_defer_order(t *testing.T) {
	q := New()

	var order []int
	q.Defer(func() { order = append(order, 1) })
	q.Defer(func() { order = append(order, 2) })
	q.Defer(func() { order = append(order, 3) })

	n := q.Flush()

	assert.Equal(t, 3, n)
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestQueue_Flush_empty_is_noop(t *testing.T) {
	q := New()
	assert.Equal(t, 0, q.Flush())
}

func TestQueue_signal_coalesces(t *testing.T) {
	q := New()

	q.Defer(func() {})
	q.Defer(func() {})
	q.Defer(func() {})

	// One wake-up covers all three pending mutations.
	q.Wait()
	assert.Equal(t, 3, q.Flush())

	// No residual signal should remain after the flush consumed everything
	// deferred before the wait.
	select {
	case <-q.signal:
		t.Fatal("unexpected residual signal")
	default:
	}
}

func TestQueue_Wait_blocks_until_defer(t *testing.T) {
	q := New()

	woke := make(chan struct{})
	go func() {
		q.Wait()
		close(woke)
	}()

	select {
	case <-woke:
		t.Fatal("Wait returned with nothing pending")
	case <-time.After(50 * time.Millisecond):
	}

	q.Defer(func() {})

	select {
	case <-woke:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait never woke after Defer")
	}
	require.Equal(t, 1, q.Flush())
}

func TestQueue_defer_during_flush_applies_next_flush(t *testing.T) {
	q := New()

	var second bool
	q.Defer(func() {
		q.Defer(func() { second = true })
	})

	q.Flush()
	assert.False(t, second)

	q.Flush()
	assert.True(t, second)
}
