package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/electionboard"
	"github.com/jpalmerr/electionboard/config"
)

const (
	shutdownTimeout = 10 * time.Second
)

// newLogger creates a JSON logger for CLI use.
func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// loadConfig reads the file named by the --config flag, or returns the
// defaults when the flag is empty.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configFile, _ := cmd.Flags().GetString("config")
	if configFile == "" {
		return config.Parse(nil)
	}
	return config.Load(configFile)
}

// serveCmd starts the dashboard server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard server",
	Long: `Start the election dashboard server.

The server will:
  - Load configuration from the given YAML file, or use the built-in feed
  - Poll the results feed, pausing the refresh interval after each poll
  - Serve the dashboard UI on the configured port

The server runs until interrupted (Ctrl+C) or receives SIGTERM.

Example:
  electionboard serve
  electionboard serve -c config.yaml
  electionboard serve --config /etc/electionboard/config.yaml --debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("config", "c", "", "path to config file")
	serveCmd.Flags().Bool("debug", false, "log every poll")
}

func runServe(cmd *cobra.Command, args []string) error {
	debug, _ := cmd.Flags().GetBool("debug")
	logger := newLogger(debug)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	opts, err := config.BuildOptions(cfg)
	if err != nil {
		return fmt.Errorf("failed to build options: %w", err)
	}
	opts = append(opts, electionboard.WithLogger(logger))

	b, err := electionboard.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create board: %w", err)
	}

	logger.Info("starting server",
		"port", b.Port(),
		"refresh_interval", b.RefreshInterval().String(),
		"total_seats", b.TotalSeats(),
	)

	// cancel on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		errChan <- b.Start(ctx)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		logger.Info("shutdown complete")
		return nil

	case <-ctx.Done():
		select {
		case err := <-errChan:
			if err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			logger.Info("shutdown complete")
			return nil
		case <-time.After(shutdownTimeout):
			logger.Warn("shutdown timed out",
				"timeout", shutdownTimeout.String(),
				"action", "forcing exit",
			)
			return nil
		}
	}
}
