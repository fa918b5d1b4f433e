package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/toastline/internal/core/notify"
	"github.com/colonyops/toastline/internal/tui"
	"github.com/colonyops/toastline/pkg/framesync"
)

type TuiCmd struct {
	flags *Flags
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags) *TuiCmd {
	return &TuiCmd{
		flags: flags,
	}
}

// Run executes the TUI. Exported for use as the default command.
func (cmd *TuiCmd) Run(ctx context.Context, _ *cli.Command) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("toastline requires an interactive terminal")
	}

	cfg := cmd.flags.Config

	// One commit queue and one store for the whole UI tree, constructed
	// here and handed to every consumer by reference.
	commits := framesync.New()
	store := notify.NewChannelStore(commits, notify.NewTimerRegistry())

	channels := make([]notify.Channel, 0, len(cfg.Channels))
	for _, ch := range cfg.Channels {
		channels = append(channels, notify.Channel(ch))
	}

	log.Info().
		Strs("channels", cfg.Channels).
		Dur("animation", store.AnimationDuration()).
		Msg("starting tui")

	model := tui.New(store, commits, channels, cfg.DefaultTimeout())

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
