package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sagohq/sago"
	"github.com/sagohq/sago/infrastructure/api"
	"github.com/sagohq/sago/internal/log"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var (
		envFile string
		host    string
		port    int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server and the background research engine.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. .env file (if --env-file specified or .env exists in current directory)
  3. Environment variables
  4. Command line flags

Environment variables:
  HOST                             Server host to bind to (default: 0.0.0.0)
  PORT                             Server port to listen on (default: 8080)
  DB_URL                           Database URL (default: sqlite:///sago.db)
  LOG_LEVEL                        Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  LOG_FORMAT                       Log format: pretty, json (default: pretty)
  API_KEYS                         Comma-separated list of valid API keys
  DASHBOARD_BASE_URL               Base URL for escalation deep links

  MONITOR_CADENCE_SECONDS          Wait between research rounds (default: 21 days)
  MONITOR_ABANDONED_ROUNDS         Numbering policy for discarded rounds: reuse, skip

  ENGINE_WORKER_COUNT              Engine worker goroutines (default: 1)
  ENGINE_POLL_PERIOD_SECONDS       Due-run poll period (default: 1)
  ENGINE_LEASE_SECONDS             Claim lease duration (default: 300)
  ENGINE_RETRY_BACKOFF_SECONDS     Re-wake delay after a failed step (default: 60)

  RESEARCH_ENDPOINT_*              Research backend (Exa) configuration
    API_KEY                        API key for authentication
    BASE_URL                       Base URL override
    TIMEOUT_SECONDS                Request timeout (default: 60)
    POLL_INTERVAL_SECONDS          Task poll interval (default: 5)

  DECISION_ENDPOINT_*              Decision model configuration
    (same fields as RESEARCH_ENDPOINT, plus MODEL and MAX_RETRIES)
  DECISION_PROVIDER                Decision model client: anthropic, openai

  RESEND_API_KEY                   Resend email API key
  RESEND_FROM                      Escalation email sender address`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(envFile, host, port)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&host, "host", "", "Server host to bind to (default: 0.0.0.0)")
	cmd.Flags().IntVar(&port, "port", 0, "Server port to listen on (default: 8080)")

	return cmd
}

func runServe(envFile, host string, port int) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	// Flags take precedence over env vars
	if host != "" {
		cfg = cfg.WithHost(host)
	}
	if port != 0 {
		cfg = cfg.WithPort(port)
	}

	logger := log.NewLogger(cfg)
	slogger := logger.Slog()

	slogger.Info("starting sago",
		slog.String("version", version),
		slog.String("addr", cfg.Addr()),
	)

	client, err := sago.New(clientOptions(cfg, slogger)...)
	if err != nil {
		return fmt.Errorf("create sago client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			slogger.Error("failed to close sago client", slog.Any("error", err))
		}
	}()

	apiServer := api.NewAPIServer(client, cfg.APIKeys())

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		slogger.Info("shutting down server")
		cancel()
		if err := apiServer.Shutdown(ctx); err != nil {
			slogger.Error("shutdown error", slog.Any("error", err))
		}
	}()

	if err := apiServer.ListenAndServe(cfg.Addr()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
