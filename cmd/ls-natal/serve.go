package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-natal/internal/config"
	"github.com/litescript/ls-natal/internal/server"
	"github.com/litescript/ls-natal/internal/state"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve charts over HTTP",
		Long: `Serve charts over HTTP. Endpoints:

  GET /chart.svg      chart wheel as SVG
  GET /chart.json     positions, aspects and primitives as JSON
  GET /chart.msgpack  the same as MessagePack
  GET /positions      positions and aspects only
  GET /healthz        service status

Query parameters date, lat, lon, size and glyphs override the config.
The config file is reloaded when it changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, a)
		},
	}
	addChartFlags(cmd)
	cmd.Flags().String("addr", ":8080", "listen address")
	cmd.Flags().Float64("rate-limit", 10, "requests per second, 0 disables limiting")
	return cmd
}

func runServe(cmd *cobra.Command, a *app) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st := state.NewManager(state.DefaultConfig(), a.settings)
	srv := server.New(a.provider, st, a.log.Named("http"))

	if w, err := config.NewWatcher(a.loader.Path()); err != nil {
		a.log.Warn("config watch disabled: %v", err)
	} else if err := w.Start(); err != nil {
		a.log.Warn("config watch disabled: %v", err)
	} else {
		defer w.Stop()
		go reloadOnChange(ctx, a, w.Changes, st)
	}

	return srv.Run(ctx, a.settings.Server.Addr)
}

// reloadOnChange pushes edited settings into the state manager. Invalid
// files are logged and the previous settings kept.
func reloadOnChange(ctx context.Context, a *app, changes <-chan struct{}, st *state.Manager) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			s, err := a.loader.Load()
			if err != nil {
				a.log.Warn("config reload failed: %v", err)
				continue
			}
			a.log.Info("config reloaded from %s", a.loader.Path())
			st.SetSettings(s)
		}
	}
}
