package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/sagohq/sago"
	"github.com/sagohq/sago/internal/config"
	"github.com/sagohq/sago/internal/log"
	"github.com/sagohq/sago/internal/mcp"
	"github.com/spf13/cobra"
)

func stdioCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "stdio",
		Short: "Start MCP server on stdio",
		Long: `Start the MCP (Model Context Protocol) server on stdio.

This allows AI assistants to inspect tracked companies, monitoring status
and research round history. Configuration is loaded from environment
variables and .env file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStdio(envFile)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file")

	return cmd
}

func runStdio(envFile string) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	// Log to stderr: stdout carries the MCP protocol.
	logger := log.NewLoggerWithWriter(os.Stderr, config.LogFormatJSON, cfg.LogLevel())
	slogger := logger.Slog()

	slogger.Info("starting MCP server", slog.String("version", version))

	// MCP tools are read-only, so the engine is not needed.
	opts := append(clientOptions(cfg, slogger), sago.WithoutEngine())

	client, err := sago.New(opts...)
	if err != nil {
		return fmt.Errorf("create sago client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			slogger.Error("failed to close sago client", slog.Any("error", err))
		}
	}()

	mcpServer := mcp.NewServer(client.Companies, client.Monitors, client.Rounds, version, slogger)

	return mcpServer.ServeStdio()
}
