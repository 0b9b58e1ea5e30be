package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/reminora/photovec/internal/config"
	"github.com/reminora/photovec/internal/constants"
	"github.com/reminora/photovec/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the photovec HTTP API server.
The server exposes similarity search, duplicate detection, background
embedding sweeps with progress streaming, and library statistics.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "Port to listen on (defaults to PORT env or 8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	eng, closer, err := newEngine(cfg)
	if err != nil {
		return err
	}
	defer closer()

	port := cfg.Web.Port
	if cmd.Flags().Changed("port") {
		port = mustGetInt(cmd, "port")
	}

	server := web.NewServer(eng, port)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Starting photovec API on http://localhost:%d\n", port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
