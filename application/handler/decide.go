package handler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sagohq/sago/domain/company"
	"github.com/sagohq/sago/domain/decision"
	"github.com/sagohq/sago/domain/monitor"
	"github.com/sagohq/sago/domain/round"
)

// Decide compares the freshly completed round against the previous one and
// asks the decision model whether the original pass still holds.
type Decide struct {
	companies company.Store
	rounds    round.Store
	model     decision.Model
	logger    *slog.Logger
	now       func() time.Time
}

// NewDecide creates a Decide handler.
func NewDecide(companies company.Store, rounds round.Store, model decision.Model, logger *slog.Logger) Decide {
	return Decide{
		companies: companies,
		rounds:    rounds,
		model:     model,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock overrides the handler clock. Used by tests.
func (h Decide) WithClock(now func() time.Time) Decide {
	h.now = now
	return h
}

// Execute performs DECIDING -> NOTIFYING on an actionable invest decision, or
// DECIDING -> SCHEDULING otherwise. A positive decision with no outreach
// message is not actionable: the loop continues rather than escalate with
// missing content.
func (h Decide) Execute(ctx context.Context, run monitor.Run) (monitor.Run, error) {
	roundID, ok := run.PendingRoundID()
	if !ok {
		return run, fmt.Errorf("run %d deciding without a pending round", run.ID())
	}

	newRound, err := h.rounds.Get(ctx, roundID)
	if err != nil {
		return run, fmt.Errorf("load pending round: %w", err)
	}

	oldRound, found, err := h.rounds.LatestCompletedBefore(ctx, run.CompanyID(), newRound.RoundNumber())
	if err != nil {
		return run, fmt.Errorf("latest completed round: %w", err)
	}
	if !found {
		// Finalize only routes here when a previous round exists; losing it
		// means rounds were deleted out from under the run.
		h.logger.Warn("no previous round to compare against",
			slog.Int64("company_id", run.CompanyID()),
			slog.Int("round_number", newRound.RoundNumber()),
		)
		return run.Rescheduled(h.now()), nil
	}

	c, err := h.companies.Get(ctx, run.CompanyID())
	if err != nil {
		return run, fmt.Errorf("load company: %w", err)
	}

	d, err := h.model.Decide(ctx, decision.NewPrompt(c, oldRound, newRound))
	if err != nil {
		return run, fmt.Errorf("decide: %w", err)
	}

	h.logger.Info("decision made",
		slog.Int64("company_id", run.CompanyID()),
		slog.Int("round_number", newRound.RoundNumber()),
		slog.Bool("should_invest", d.ShouldInvest),
	)

	if !d.Actionable() {
		return run.Rescheduled(h.now()), nil
	}

	return run.Escalating(d.Reasoning, d.Outreach(), h.now()), nil
}

var _ Handler = Decide{}
