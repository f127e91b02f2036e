package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sagohq/sago/domain/monitor"
	"github.com/sagohq/sago/domain/round"
	"github.com/sagohq/sago/internal/database"
)

// Schedule creates the next research round and suspends the run until the
// round is due.
type Schedule struct {
	rounds  round.Store
	cadence time.Duration
	logger  *slog.Logger
	now     func() time.Time
}

// NewSchedule creates a Schedule handler.
func NewSchedule(rounds round.Store, cadence time.Duration, logger *slog.Logger) Schedule {
	return Schedule{
		rounds:  rounds,
		cadence: cadence,
		logger:  logger,
		now:     time.Now,
	}
}

// WithClock overrides the handler clock. Used by tests.
func (h Schedule) WithClock(now func() time.Time) Schedule {
	h.now = now
	return h
}

// Execute performs SCHEDULING -> WAITING. A run that already carries a pending
// incomplete round is a recovery replay: the existing round is reused instead
// of creating a duplicate.
func (h Schedule) Execute(ctx context.Context, run monitor.Run) (monitor.Run, error) {
	if roundID, ok := run.PendingRoundID(); ok {
		existing, err := h.rounds.Get(ctx, roundID)
		switch {
		case err == nil && !existing.Completed():
			h.logger.Debug("reusing pending round",
				slog.Int64("company_id", run.CompanyID()),
				slog.Int64("round_id", existing.ID()),
			)
			return run.Scheduled(existing.ID(), existing.ScheduledFor()), nil
		case err != nil && !errors.Is(err, database.ErrNotFound):
			return run, fmt.Errorf("load pending round: %w", err)
		}
	}

	number := 1
	if latest, found, err := h.rounds.Latest(ctx, run.CompanyID()); err != nil {
		return run, fmt.Errorf("latest round: %w", err)
	} else if found {
		number = latest.RoundNumber() + 1
	}

	scheduledFor := h.now().Add(h.cadence)
	created, err := h.rounds.Save(ctx, round.New(run.CompanyID(), number, scheduledFor))
	if err != nil {
		return run, fmt.Errorf("create round: %w", err)
	}

	h.logger.Info("round scheduled",
		slog.Int64("company_id", run.CompanyID()),
		slog.Int("round_number", created.RoundNumber()),
		slog.Time("scheduled_for", created.ScheduledFor()),
	)

	return run.Scheduled(created.ID(), created.ScheduledFor()), nil
}

var _ Handler = Schedule{}
