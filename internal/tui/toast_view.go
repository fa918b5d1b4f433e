package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/toastline/internal/core/notify"
	"github.com/colonyops/toastline/internal/core/styles"
)

const toastWidth = 50

// renderToast renders a single toast box. Error notifications suppress the
// success icon. The notification's color hints, when present, override the
// theme defaults. While a toast rides out its exit window (logically
// expired but still mounted for the animation pad) it renders dimmed.
func renderToast(n notify.Notification, exiting bool) string {
	var style lipgloss.Style
	var icon string

	switch {
	case exiting:
		style = styles.ToastExitStyle
		icon = ""
	case n.IsError:
		style = styles.ToastErrorStyle
		icon = styles.IconError
	default:
		style = styles.ToastSuccessStyle
		icon = styles.IconSuccess
	}

	if n.TextColor != "" {
		style = style.Foreground(lipgloss.Color(n.TextColor))
	}
	if n.BackgroundColor != "" {
		style = style.Background(lipgloss.Color(n.BackgroundColor))
	}

	content := n.Message
	if icon != "" {
		content = icon + " " + content
	}

	return style.Width(toastWidth).Render(content)
}
