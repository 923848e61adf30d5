package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/pricepaid/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web dashboard",
	Long: `Start the local web dashboard server.

Examples:
  pricepaid serve                        # Start on the configured port (8080)
  pricepaid serve --port 3000            # Start on port 3000
  pricepaid serve --base-dir ./outputs   # Read artifacts from ./outputs`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := NewAppContext(ctx, cfg, logger, true)
	if err != nil {
		return err
	}
	defer app.Close()

	server := web.NewServer(app.Analytics, app.Telemetry, logger, web.Options{
		Port:         cfg.Server.Port,
		HistoryLimit: cfg.Prediction.HistoryLimit,
	})
	return server.Start(ctx)
}
