package notify

import (
	"sort"
	"time"

	"github.com/rs/zerolog/log"
)

// Committer defers a state mutation to the next render commit point, so the
// render loop observes mutations at paint-consistent boundaries rather than
// mid-call. framesync.Queue satisfies it.
type Committer interface {
	Defer(fn func())
}

type entry struct {
	notification Notification
	gen          uint64
}

// ChannelStore is the authoritative channel→notification mapping and the
// single source of truth a render collaborator observes. A mapped channel
// always holds an active, well-formed notification; dismissal removes the
// entry outright, never leaves it mapped to empty content.
//
// All map mutations are applied through the Committer. Construct one store
// per process and call Active, Channels and SetNotification from the
// goroutine that flushes the committer (the render loop); timer callbacks
// only ever enqueue commits, so the map is never touched concurrently.
type ChannelStore struct {
	commit    Committer
	timers    *TimerRegistry
	animation time.Duration

	active map[Channel]entry
	gens   map[Channel]uint64
}

// Option configures a ChannelStore.
type Option func(*ChannelStore)

// WithAnimationDuration overrides the dismissal pad. The value is a shared
// contract with the render collaborator, not a per-notification knob: both
// sides must use the same duration or entries are unmounted out of step
// with their exit transition.
func WithAnimationDuration(d time.Duration) Option {
	return func(s *ChannelStore) {
		s.animation = d
	}
}

// NewChannelStore constructs a store that commits mutations through commit
// and schedules dismissals on timers.
func NewChannelStore(commit Committer, timers *TimerRegistry, opts ...Option) *ChannelStore {
	s := &ChannelStore{
		commit:    commit,
		timers:    timers,
		animation: DefaultAnimationDuration,
		active:    make(map[Channel]entry),
		gens:      make(map[Channel]uint64),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AnimationDuration returns the pad added to every dismissal timer.
func (s *ChannelStore) AnimationDuration() time.Duration {
	return s.animation
}

// SetNotification installs n as the channel's active notification,
// superseding any current one. The superseded notification's pending
// dismissal is cancelled and its content discarded immediately; it skips
// its exit animation because it is no longer the rendered content once n
// installs.
//
// The map update is deferred to the next commit point. Dismissal fires at
// Timeout plus the animation pad, keeping the entry mounted through its
// exit transition after it logically expires, and removes the entry via
// another deferred commit.
func (s *ChannelStore) SetNotification(channel Channel, n Notification) {
	n = n.normalized()
	if channel == "" || n.Message == "" {
		log.Warn().
			Str("channel", string(channel)).
			Msg("dropping malformed notification")
		return
	}

	// Generation counters guard the window between a dismissal firing and
	// its commit flushing: a stale removal must never evict a newer
	// notification installed in that window.
	s.gens[channel]++
	gen := s.gens[channel]

	s.commit.Defer(func() {
		s.active[channel] = entry{notification: n, gen: gen}
	})

	// Schedule replaces any prior timer for the channel, so a superseded
	// notification's dismissal can never fire at its original deadline.
	s.timers.Schedule(channel, n.Timeout+s.animation, func() {
		s.commit.Defer(func() {
			e, ok := s.active[channel]
			if !ok || e.gen != gen {
				return
			}
			delete(s.active, channel)
			// Drop the counter with the entry unless a newer install
			// already advanced it within this same flush. At most one
			// timer is ever live per channel, so restarting a dismissed
			// channel's generations cannot collide with a stale removal.
			if s.gens[channel] == gen {
				delete(s.gens, channel)
			}
		})
	})
}

// Active returns the channel's current notification, if any. Pure read.
func (s *ChannelStore) Active(channel Channel) (Notification, bool) {
	e, ok := s.active[channel]
	return e.notification, ok
}

// Generation returns the install generation of the channel's current
// notification, or zero when the channel is unmapped. It changes on every
// install, including republishing identical content, so observers can tell
// a fresh install from unchanged state without comparing payloads.
func (s *ChannelStore) Generation(channel Channel) uint64 {
	return s.active[channel].gen
}

// Channels returns the currently mapped channels in sorted order.
func (s *ChannelStore) Channels() []Channel {
	out := make([]Channel, 0, len(s.active))
	for ch := range s.active {
		out = append(out, ch)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
