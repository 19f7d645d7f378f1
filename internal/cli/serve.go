package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/colortrade/pkg/observability"
	"github.com/matzehuels/colortrade/pkg/server"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noCache   bool
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API until interrupted.

Endpoints:
  POST /v1/solve            solve an inline or built-in instance
  GET  /v1/builtins         list the built-in instances
  GET  /v1/builtins/{name}  fetch one built-in instance
  GET  /healthz, /version   liveness and build information
  GET  /metrics             Prometheus metrics (unless --no-metrics)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = c.Config.Server.Addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			var metrics *observability.Metrics
			if !noMetrics {
				metrics = observability.NewMetrics()
				metrics.Register()
				defer observability.Reset()
			}

			srv := server.New(server.Config{
				Addr:         addr,
				Runner:       runner,
				Logger:       loggerFromContext(ctx),
				Metrics:      metrics,
				SolveTimeout: c.Config.Server.SolveTimeout,
			})
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", fmt.Sprintf("listen address (default %s)", server.DefaultAddr))
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "do not expose /metrics")

	return cmd
}
