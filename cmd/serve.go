package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kbozek/lingonotes/internal/api"
	"github.com/kbozek/lingonotes/internal/logger"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP API server",
	Long: `Start an HTTP API server exposing lingonotes over REST endpoints:

- POST /api/v1/notes        save a note
- GET  /api/v1/notes        list notes
- POST /api/v1/search       semantic search
- POST /api/v1/correct      correct a text
- POST /api/v1/translate    translate a text
- POST /api/v1/speak        synthesize speech (returns audio/mpeg)
- POST /api/v1/transcribe   transcribe audio (raw body)
- GET  /api/v1/stats        note count and index info
- GET  /api/v1/health       health check

With the default in-memory index, notes persist for the lifetime of
this server process.

Examples:
  lingonotes serve                           # localhost:8080
  lingonotes serve --host 0.0.0.0 --port 3000`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveHost, "host", "localhost", "Host to bind the server to")
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to bind the server to")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger.Info("Initializing HTTP API server...")

	server := api.NewServer(appConfig, noteStore, assistant)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start(serveHost, servePort)
	}()

	fmt.Printf("\nlingonotes HTTP API server\n")
	fmt.Printf("Server URL: http://%s:%d\n", serveHost, servePort)
	fmt.Printf("Health:     http://%s:%d/api/v1/health\n", serveHost, servePort)
	fmt.Printf("\nPress Ctrl+C to stop the server\n\n")

	select {
	case sig := <-sigChan:
		logger.Info("Received signal %v, shutting down gracefully...", sig)
		if err := server.Stop(); err != nil {
			logger.Error("Error during server shutdown: %v", err)
			return err
		}
		logger.Info("Server stopped successfully")
		return nil
	case err := <-errChan:
		if err != nil {
			logger.Error("Server error: %v", err)
			return err
		}
		return nil
	}
}
