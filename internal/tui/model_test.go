package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/toastline/internal/core/notify"
	"github.com/colonyops/toastline/pkg/framesync"
)

func newTestModel(channels ...notify.Channel) (Model, *notify.ChannelStore, *framesync.Queue) {
	q := framesync.New()
	store := notify.NewChannelStore(q, notify.NewTimerRegistry())
	m := New(store, q, channels, time.Hour)
	return m, store, q
}

// flush simulates the update loop receiving the commit wake-up.
func flush(t *testing.T, m Model) Model {
	t.Helper()
	result, _ := m.Update(commitMsg{})
	next, ok := result.(Model)
	require.True(t, ok)
	return next
}

func TestModel_view_shows_published_notification(t *testing.T) {
	m, store, _ := newTestModel("errors", "confirmations")

	store.SetNotification("errors", notify.Notification{Message: "Save failed", Timeout: time.Hour, IsError: true})
	m = flush(t, m)

	assert.Contains(t, m.View(), "Save failed")
}

func TestModel_view_before_flush_shows_nothing(t *testing.T) {
	m, store, _ := newTestModel("errors")

	store.SetNotification("errors", notify.Notification{Message: "mid-frame", Timeout: time.Hour})

	assert.NotContains(t, m.View(), "mid-frame")
}

func TestModel_pickActive_respects_priority_order(t *testing.T) {
	m, store, _ := newTestModel("errors", "confirmations")

	store.SetNotification("confirmations", notify.Notification{Message: "low", Timeout: time.Hour})
	store.SetNotification("errors", notify.Notification{Message: "high", Timeout: time.Hour})
	m = flush(t, m)

	ch, n, ok := m.pickActive()
	require.True(t, ok)
	assert.Equal(t, notify.Channel("errors"), ch)
	assert.Equal(t, "high", n.Message)
}

func TestModel_pickActive_falls_through_to_next_channel(t *testing.T) {
	m, store, _ := newTestModel("errors", "confirmations")

	store.SetNotification("confirmations", notify.Notification{Message: "only one", Timeout: time.Hour})
	m = flush(t, m)

	ch, _, ok := m.pickActive()
	require.True(t, ok)
	assert.Equal(t, notify.Channel("confirmations"), ch)
}

func TestModel_pickActive_ignores_unsubscribed_channels(t *testing.T) {
	m, store, _ := newTestModel("errors")

	store.SetNotification("other", notify.Notification{Message: "elsewhere", Timeout: time.Hour})
	m = flush(t, m)

	_, _, ok := m.pickActive()
	assert.False(t, ok)
}

func TestModel_exiting_tracks_logical_timeout(t *testing.T) {
	m, store, _ := newTestModel("errors")

	base := time.Now()
	m.now = func() time.Time { return base }

	store.SetNotification("errors", notify.Notification{Message: "fading", Timeout: time.Second})
	m = flush(t, m)

	assert.False(t, m.exiting("errors"))

	// Inside the animation pad after the logical timeout.
	m.now = func() time.Time { return base.Add(1200 * time.Millisecond) }
	assert.True(t, m.exiting("errors"))
}

func TestModel_identical_republish_resets_exit_window(t *testing.T) {
	m, store, _ := newTestModel("errors")

	base := time.Now()
	m.now = func() time.Time { return base }

	n := notify.Notification{Message: "again", Timeout: time.Second, IsError: true}
	store.SetNotification("errors", n)
	m = flush(t, m)

	// Republish the exact same payload after the first logical timeout.
	// The store restarts the dismissal clock, so the view must too.
	m.now = func() time.Time { return base.Add(1200 * time.Millisecond) }
	store.SetNotification("errors", n)
	m = flush(t, m)

	assert.False(t, m.exiting("errors"), "identical republish starts a fresh window")

	m.now = func() time.Time { return base.Add(2500 * time.Millisecond) }
	assert.True(t, m.exiting("errors"))
}

func TestModel_replacement_resets_exit_window(t *testing.T) {
	m, store, _ := newTestModel("errors")

	base := time.Now()
	m.now = func() time.Time { return base }

	store.SetNotification("errors", notify.Notification{Message: "first", Timeout: time.Second})
	m = flush(t, m)

	m.now = func() time.Time { return base.Add(1200 * time.Millisecond) }
	store.SetNotification("errors", notify.Notification{Message: "second", Timeout: time.Second})
	m = flush(t, m)

	assert.False(t, m.exiting("errors"), "replacement content starts a fresh window")
}

func TestModel_commit_starts_render_tick_when_active(t *testing.T) {
	m, store, _ := newTestModel("errors")

	store.SetNotification("errors", notify.Notification{Message: "ticks", Timeout: time.Hour})

	result, cmd := m.Update(commitMsg{})
	m = result.(Model)

	assert.True(t, m.ticking)
	assert.NotNil(t, cmd)
}

func TestModel_render_tick_stops_when_idle(t *testing.T) {
	m, _, _ := newTestModel("errors")
	m.ticking = true

	result, cmd := m.Update(renderTickMsg(time.Now()))
	m = result.(Model)

	assert.False(t, m.ticking)
	assert.Nil(t, cmd)
}

func TestModel_key_publishes_to_priority_channel(t *testing.T) {
	m, store, _ := newTestModel("errors", "confirmations")

	result, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}})
	m = result.(Model)
	m = flush(t, m)

	n, ok := store.Active("errors")
	require.True(t, ok)
	assert.Equal(t, "Save failed", n.Message)
	assert.True(t, n.IsError)
}

func TestModel_window_size_propagates_to_help(t *testing.T) {
	m, _, _ := newTestModel("errors")

	result, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = result.(Model)

	assert.Equal(t, 80, m.width)
	assert.Equal(t, 80, m.help.Width)
}

func TestModel_quit_key(t *testing.T) {
	m, _, _ := newTestModel("errors")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
