package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/meshview/pkg/metrics"
	"github.com/matzehuels/meshview/pkg/observability"
	"github.com/matzehuels/meshview/pkg/server"
	"github.com/matzehuels/meshview/pkg/session"
	"github.com/matzehuels/meshview/pkg/settings"
)

// newServeCmd runs the session API for the interactive visualizer.
func newServeCmd() *cobra.Command {
	var (
		addr       string
		sessionDir string
		noCache    bool
		noMetrics  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the session API for the interactive visualizer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := settingsFromContext(cmd.Context()).Server
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("session-dir") {
				cfg.SessionDir = sessionDir
			}
			return runServe(cmd.Context(), cfg, noCache, !noMetrics)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", settings.Default().Server.Addr, "listen address")
	cmd.Flags().StringVar(&sessionDir, "session-dir", "", "persist sessions in this directory")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "do not expose /metrics")
	return cmd
}

func runServe(ctx context.Context, cfg settings.ServerSettings, noCache, withMetrics bool) error {
	logger := loggerFromContext(ctx)

	runner, err := newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	opts := []server.Option{server.WithLogger(logger)}
	if cfg.SessionDir != "" {
		store, err := session.NewFileStore(cfg.SessionDir, cfg.SessionTTL)
		if err != nil {
			return err
		}
		opts = append(opts, server.WithStore(store))
		logger.Info("persisting sessions", "dir", store.Path())
	}
	if withMetrics {
		reg := metrics.NewRegistry()
		observability.SetPipelineHooks(reg)
		observability.SetCacheHooks(reg)
		observability.SetHTTPHooks(reg)
		defer observability.Reset()
		opts = append(opts, server.WithMetrics(reg.Handler()))
	}

	printInfo("Serving on %s", cfg.Addr)
	return server.New(runner, cfg, opts...).ListenAndServe(ctx)
}
