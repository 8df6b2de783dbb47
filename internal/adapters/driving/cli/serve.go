package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driving/api"
	"github.com/custodia-labs/sercha-rag/internal/core/services"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API and load the documents folder.

The server listens immediately. Until documents are indexed and the models
respond, POST /ask returns 503 and GET /ready reports not ready.

Endpoints:
  POST /ask     {"question": "...", "top_k": 3, "include_sources": true}
  GET  /ready   readiness and corpus size
  GET  /health  liveness`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := services.NewQueryService(settings)
	server, err := api.NewServer(svc, settings.Server)
	if err != nil {
		return err
	}

	initErr := make(chan error, 1)
	cleanups := make(chan func(), 1)
	go func() {
		report, cleanup, err := initPipeline(ctx, settings, svc, true)
		cleanups <- cleanup
		if err != nil {
			initErr <- err
			stop()
			return
		}
		logReport(report)
	}()

	runErr := server.Run(ctx, settings.Server.Addr)
	stop()
	(<-cleanups)()

	select {
	case err := <-initErr:
		logger.Error("Startup failed: %v", err)
		return fmt.Errorf("initialise pipeline: %w", err)
	default:
	}
	return runErr
}
