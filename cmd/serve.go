package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/incentive/internal/api"
	"github.com/spf13/cobra"
)

// serveCmd runs the HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the incentive views over HTTP",
	Long: `Start an HTTP server with JSON endpoints for every view.

Routes:
  GET /healthz
  GET /metrics
  GET /api/reports?base=
  GET /api/leaderboard?limit=
  GET /api/podium
  GET /api/search?q=
  GET /api/compare?coordinator=
  GET /api/bank?q=
  GET /api/losses

Every /api route accepts start and end query parameters.
SIGINT or SIGTERM stops the server after active requests finish.

Examples:
  incentive serve --listen :9090 --source-url https://sheets.example.com/api`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		return api.Serve(ctx, cfg, deps)
	},
}
