// Package service contains the application services: the research collector,
// the run engine, and the surfaces the API and MCP server call into.
package service

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/sagohq/sago/domain/company"
	"github.com/sagohq/sago/domain/research"
	"github.com/sagohq/sago/domain/round"
)

// Collector fans the three research queries out to the research backend in
// parallel. A failed or unusable query leaves its finding nil rather than
// failing the round: partial results are the caller's signal to abandon.
type Collector struct {
	provider research.Provider
	logger   *slog.Logger
}

// NewCollector creates a Collector.
func NewCollector(provider research.Provider, logger *slog.Logger) Collector {
	return Collector{
		provider: provider,
		logger:   logger,
	}
}

// Collect runs the financial, sentiment, and customer queries concurrently
// and returns whatever findings succeeded. It never returns an error.
func (c Collector) Collect(ctx context.Context, comp company.Company, prev *round.ScrapeRound) research.Findings {
	var findings research.Findings

	var g errgroup.Group
	g.Go(func() error {
		findings.FinancialInfo = c.collect(ctx, research.KindFinancial, comp, prev)
		return nil
	})
	g.Go(func() error {
		findings.Sentiment = c.collect(ctx, research.KindSentiment, comp, prev)
		return nil
	})
	g.Go(func() error {
		findings.CustomerInfo = c.collect(ctx, research.KindCustomer, comp, prev)
		return nil
	})
	_ = g.Wait()

	return findings
}

// collect runs a single query end to end. Any failure is logged and reported
// as a nil finding.
func (c Collector) collect(ctx context.Context, kind research.Kind, comp company.Company, prev *round.ScrapeRound) *string {
	instruction := research.Instruction(kind, comp, prev)

	handle, err := c.provider.Submit(ctx, instruction)
	if err != nil {
		c.logger.Warn("research submit failed",
			slog.String("kind", string(kind)),
			slog.Int64("company_id", comp.ID()),
			slog.String("error", err.Error()),
		)
		return nil
	}

	result, err := c.provider.PollUntilFinished(ctx, handle)
	if err != nil {
		c.logger.Warn("research poll failed",
			slog.String("kind", string(kind)),
			slog.Int64("company_id", comp.ID()),
			slog.String("task_id", handle.ID()),
			slog.String("error", err.Error()),
		)
		return nil
	}

	if !result.Completed() {
		c.logger.Warn("research task did not complete",
			slog.String("kind", string(kind)),
			slog.Int64("company_id", comp.ID()),
			slog.String("task_id", handle.ID()),
			slog.String("status", string(result.Status())),
		)
		return nil
	}

	information := result.Information()
	return &information
}
