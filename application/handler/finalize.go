package handler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sagohq/sago/domain/monitor"
	"github.com/sagohq/sago/domain/round"
)

// Finalize writes the staged findings onto the pending round and latches it
// completed.
type Finalize struct {
	rounds round.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewFinalize creates a Finalize handler.
func NewFinalize(rounds round.Store, logger *slog.Logger) Finalize {
	return Finalize{
		rounds: rounds,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock overrides the handler clock. Used by tests.
func (h Finalize) WithClock(now func() time.Time) Finalize {
	h.now = now
	return h
}

// Execute performs FINALIZING -> DECIDING, or FINALIZING -> SCHEDULING when
// this is the company's first completed round and there is nothing to compare
// against. The write is a full overwrite keyed by the round identity, so a
// recovery replay produces the same completed round.
func (h Finalize) Execute(ctx context.Context, run monitor.Run) (monitor.Run, error) {
	roundID, ok := run.PendingRoundID()
	if !ok {
		return run, fmt.Errorf("run %d finalizing without a pending round", run.ID())
	}

	current, err := h.rounds.Get(ctx, roundID)
	if err != nil {
		return run, fmt.Errorf("load pending round: %w", err)
	}

	findings := run.Findings()
	finalized, err := h.rounds.Save(ctx, current.Finalized(
		findings.FinancialInfo,
		findings.Sentiment,
		findings.CustomerInfo,
	))
	if err != nil {
		return run, fmt.Errorf("finalize round: %w", err)
	}

	_, hasPrevious, err := h.rounds.LatestCompletedBefore(ctx, run.CompanyID(), finalized.RoundNumber())
	if err != nil {
		return run, fmt.Errorf("latest completed round: %w", err)
	}
	if !hasPrevious {
		h.logger.Info("first round finished",
			slog.Int64("company_id", run.CompanyID()),
			slog.Int("round_number", finalized.RoundNumber()),
		)
		return run.Rescheduled(h.now()), nil
	}

	return run.Deciding(h.now()), nil
}

var _ Handler = Finalize{}
