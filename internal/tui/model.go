package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/toastline/internal/core/notify"
	"github.com/colonyops/toastline/internal/core/styles"
	"github.com/colonyops/toastline/pkg/framesync"
)

// renderTickInterval drives re-renders while a toast is mounted, so the
// switch to the exit style happens close to the logical expiry.
const renderTickInterval = 100 * time.Millisecond

type commitMsg struct{}

type renderTickMsg time.Time

// seenEntry remembers when a channel's current content installed, so the
// view can tell when it enters its exit window. The store generation is
// the install identity: republishing identical content still restarts the
// dismissal clock, so tracking payload equality would leave the exit
// window stale.
type seenEntry struct {
	gen          uint64
	notification notify.Notification
	installedAt  time.Time
}

// Model is the render collaborator: it drains the commit queue once per
// frame, observes the store's channel mapping, and renders the first
// subscribed channel (in priority order) that holds an active notification.
type Model struct {
	store          *notify.ChannelStore
	commits        *framesync.Queue
	channels       []notify.Channel // subscription priority, highest first
	defaultTimeout time.Duration

	keys    keyMap
	help    help.Model
	width   int
	height  int
	ticking bool

	seen map[notify.Channel]seenEntry
	now  func() time.Time
}

// New constructs the demo model. channels is the subscription priority
// order; defaultTimeout applies to the sample notifications it publishes.
func New(store *notify.ChannelStore, commits *framesync.Queue, channels []notify.Channel, defaultTimeout time.Duration) Model {
	return Model{
		store:          store,
		commits:        commits,
		channels:       channels,
		defaultTimeout: defaultTimeout,
		keys:           defaultKeyMap(),
		help:           help.New(),
		seen:           make(map[notify.Channel]seenEntry),
		now:            time.Now,
	}
}

func (m Model) Init() tea.Cmd {
	return m.waitForCommits()
}

// waitForCommits blocks until the store has deferred mutations, then wakes
// the update loop to flush them at a paint-consistent point.
func (m Model) waitForCommits() tea.Cmd {
	return func() tea.Msg {
		m.commits.Wait()
		return commitMsg{}
	}
}

func scheduleRenderTick() tea.Cmd {
	return tea.Tick(renderTickInterval, func(t time.Time) tea.Msg {
		return renderTickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case commitMsg:
		m.commits.Flush()
		m.refreshSeen()
		return m, tea.Batch(m.waitForCommits(), m.ensureRenderTick())

	case renderTickMsg:
		if m.anyActive() {
			return m, scheduleRenderTick()
		}
		m.ticking = false
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Error):
		m.store.SetNotification(m.channelAt(0), notify.Notification{
			Message: "Save failed",
			Timeout: m.defaultTimeout,
			IsError: true,
		})
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		m.store.SetNotification(m.channelAt(1), notify.Notification{
			Message: "Changes saved",
			Timeout: m.defaultTimeout,
		})
		return m, nil

	case key.Matches(msg, m.keys.Status):
		m.store.SetNotification(m.channelAt(2), notify.Notification{
			Message: "Sync in progress",
			Timeout: m.defaultTimeout,
		})
		return m, nil
	}

	return m, nil
}

// channelAt returns the i-th priority channel, clamped to the last one.
func (m Model) channelAt(i int) notify.Channel {
	if len(m.channels) == 0 {
		return ""
	}
	if i >= len(m.channels) {
		i = len(m.channels) - 1
	}
	return m.channels[i]
}

// refreshSeen records install times for fresh installs and drops entries
// for dismissed channels.
func (m Model) refreshSeen() {
	for _, ch := range m.channels {
		n, ok := m.store.Active(ch)
		if !ok {
			delete(m.seen, ch)
			continue
		}
		gen := m.store.Generation(ch)
		if prev, tracked := m.seen[ch]; !tracked || prev.gen != gen {
			m.seen[ch] = seenEntry{gen: gen, notification: n, installedAt: m.now()}
		}
	}
}

func (m Model) anyActive() bool {
	for _, ch := range m.channels {
		if _, ok := m.store.Active(ch); ok {
			return true
		}
	}
	return false
}

// ensureRenderTick starts the render tick loop when a toast is mounted and
// no tick is in flight. The loop stops itself once all toasts are gone.
func (m *Model) ensureRenderTick() tea.Cmd {
	if m.ticking || !m.anyActive() {
		return nil
	}
	m.ticking = true
	return scheduleRenderTick()
}

// pickActive returns the first subscribed channel, in priority order, that
// currently holds a visible notification. Exactly one toast renders at a
// time; the store places no ordering constraint across channels, the
// subscription order here does.
func (m Model) pickActive() (notify.Channel, notify.Notification, bool) {
	for _, ch := range m.channels {
		n, ok := m.store.Active(ch)
		if !ok || n.Message == "" {
			continue
		}
		return ch, n, true
	}
	return "", notify.Notification{}, false
}

// exiting reports whether the channel's content is past its logical
// timeout and riding out the animation pad before removal.
func (m Model) exiting(ch notify.Channel) bool {
	e, ok := m.seen[ch]
	if !ok {
		return false
	}
	return m.now().After(e.installedAt.Add(e.notification.Timeout))
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("toastline"))
	b.WriteString("\n\n")

	for _, ch := range m.channels {
		b.WriteString(styles.ChannelStyle.Render(string(ch)))
		b.WriteString(": ")
		if n, ok := m.store.Active(ch); ok {
			b.WriteString(n.Message)
		} else {
			b.WriteString(styles.MutedStyle.Render("-"))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if ch, n, ok := m.pickActive(); ok {
		toast := renderToast(n, m.exiting(ch))
		if m.width > 0 {
			toast = lipgloss.PlaceHorizontal(m.width-1, lipgloss.Right, toast)
		}
		b.WriteString(toast)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}
