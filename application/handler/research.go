package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sagohq/sago/domain/company"
	"github.com/sagohq/sago/domain/monitor"
	"github.com/sagohq/sago/domain/research"
	"github.com/sagohq/sago/domain/round"
	"github.com/sagohq/sago/internal/database"
)

// Collector runs the three research queries for a company and returns
// whatever findings succeeded.
type Collector interface {
	Collect(ctx context.Context, c company.Company, prev *round.ScrapeRound) research.Findings
}

// Research fans out the research queries and stages the findings on the run.
type Research struct {
	companies company.Store
	rounds    round.Store
	collector Collector
	policy    round.AbandonPolicy
	logger    *slog.Logger
	now       func() time.Time
}

// NewResearch creates a Research handler.
func NewResearch(
	companies company.Store,
	rounds round.Store,
	collector Collector,
	policy round.AbandonPolicy,
	logger *slog.Logger,
) Research {
	return Research{
		companies: companies,
		rounds:    rounds,
		collector: collector,
		policy:    policy,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock overrides the handler clock. Used by tests.
func (h Research) WithClock(now func() time.Time) Research {
	h.now = now
	return h
}

// Execute performs RESEARCHING -> FINALIZING when all three queries produce
// results. An incomplete set makes the round unusable: it is abandoned under
// the configured policy and the run re-enters SCHEDULING.
func (h Research) Execute(ctx context.Context, run monitor.Run) (monitor.Run, error) {
	roundID, ok := run.PendingRoundID()
	if !ok {
		return run, fmt.Errorf("run %d researching without a pending round", run.ID())
	}

	current, err := h.rounds.Get(ctx, roundID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			// Replay after a crash mid-abandonment: the round row was already
			// deleted but the rescheduled run never landed. Finish the
			// reschedule instead of failing on the missing row forever.
			h.logger.Warn("pending round already abandoned",
				slog.Int64("company_id", run.CompanyID()),
				slog.Int64("round_id", roundID),
			)
			return run.Rescheduled(h.now()), nil
		}
		return run, fmt.Errorf("load pending round: %w", err)
	}

	c, err := h.companies.Get(ctx, run.CompanyID())
	if err != nil {
		return run, fmt.Errorf("load company: %w", err)
	}

	var prev *round.ScrapeRound
	if previous, found, err := h.rounds.LatestCompletedBefore(ctx, run.CompanyID(), current.RoundNumber()); err != nil {
		return run, fmt.Errorf("latest completed round: %w", err)
	} else if found {
		prev = &previous
	}

	findings := h.collector.Collect(ctx, c, prev)
	if !findings.Complete() {
		h.logger.Warn("research round unusable",
			slog.Int64("company_id", run.CompanyID()),
			slog.Int("round_number", current.RoundNumber()),
			slog.Any("missing", findings.Missing()),
		)
		if err := h.abandon(ctx, current); err != nil {
			return run, err
		}
		return run.Rescheduled(h.now()), nil
	}

	return run.ResearchStaged(findings, h.now()), nil
}

// abandon discards an unusable round. Under the number-reuse policy the row is
// deleted so the next scheduling pass re-creates the same number; under the
// skip policy the incomplete row stays and numbering moves past it.
func (h Research) abandon(ctx context.Context, r round.ScrapeRound) error {
	if h.policy != round.PolicyReuseNumber {
		return nil
	}
	if err := h.rounds.Delete(ctx, r); err != nil {
		return fmt.Errorf("abandon round: %w", err)
	}
	return nil
}

var _ Handler = Research{}
