package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/litescript/ls-natal/internal/config"
	"github.com/litescript/ls-natal/internal/state"
	"github.com/litescript/ls-natal/internal/ui"
)

func newTUICmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Explore a chart interactively",
		Long: `Explore a chart interactively. Step time with +/- (minute),
left/right (hour) and up/down (day), move the observer with w/a/s/d,
and save the current chart input with S.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, a)
		},
	}
	addChartFlags(cmd)
	return cmd
}

func runTUI(cmd *cobra.Command, a *app) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("ls-natal tui requires a TTY (terminal)")
	}

	// stderr logging would tear the alt screen
	if a.settings.LogFile == "" {
		a.log.SetOutput(io.Discard)
	}

	st := state.NewManager(state.DefaultConfig(), a.settings)
	opts := ui.Options{
		SavePath: a.loader.Path(),
		Reload:   a.loader.Load,
		Log:      a.log.Named("ui"),
	}

	if w, err := config.NewWatcher(a.loader.Path()); err != nil {
		a.log.Warn("config watch disabled: %v", err)
	} else if err := w.Start(); err != nil {
		a.log.Warn("config watch disabled: %v", err)
	} else {
		defer w.Stop()
		opts.ConfigChanges = w.Changes
	}

	model := ui.New(st, a.provider, opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
