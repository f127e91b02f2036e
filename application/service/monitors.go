package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sagohq/sago/domain/company"
	"github.com/sagohq/sago/domain/monitor"
	"github.com/sagohq/sago/domain/storage"
	"github.com/sagohq/sago/domain/user"
)

// Monitors manages the lifecycle of research runs: starting a loop for a
// company, cancelling one, and inspecting progress.
type Monitors struct {
	runs      monitor.RunStore
	companies company.Store
	users     user.Store
	logger    *slog.Logger
}

// NewMonitors creates a Monitors service.
func NewMonitors(runs monitor.RunStore, companies company.Store, users user.Store, logger *slog.Logger) Monitors {
	return Monitors{
		runs:      runs,
		companies: companies,
		users:     users,
		logger:    logger,
	}
}

// Start begins monitoring a company for the given user. The new run enters
// SCHEDULING due immediately. A company can have at most one live run.
func (s Monitors) Start(ctx context.Context, companyID, userID int64) (monitor.Run, error) {
	if _, err := s.companies.Get(ctx, companyID); err != nil {
		return monitor.Run{}, fmt.Errorf("load company: %w", err)
	}
	if _, err := s.users.Get(ctx, userID); err != nil {
		return monitor.Run{}, fmt.Errorf("load user: %w", err)
	}

	if _, exists, err := s.runs.FindLiveByCompany(ctx, companyID); err != nil {
		return monitor.Run{}, fmt.Errorf("find live run: %w", err)
	} else if exists {
		return monitor.Run{}, ErrAlreadyMonitoring
	}

	run, err := s.runs.Save(ctx, monitor.NewRun(companyID, userID, time.Now()))
	if err != nil {
		return monitor.Run{}, fmt.Errorf("save run: %w", err)
	}

	s.logger.Info("monitoring started",
		slog.Int64("company_id", companyID),
		slog.Int64("run_id", run.ID()),
	)
	return run, nil
}

// Cancel tears down the company's live run.
func (s Monitors) Cancel(ctx context.Context, companyID int64) (monitor.Run, error) {
	run, exists, err := s.runs.FindLiveByCompany(ctx, companyID)
	if err != nil {
		return monitor.Run{}, fmt.Errorf("find live run: %w", err)
	}
	if !exists {
		return monitor.Run{}, ErrNotMonitoring
	}

	cancelled, err := s.runs.Save(ctx, run.Cancelled())
	if err != nil {
		return monitor.Run{}, fmt.Errorf("save run: %w", err)
	}

	s.logger.Info("monitoring cancelled",
		slog.Int64("company_id", companyID),
		slog.Int64("run_id", cancelled.ID()),
	)
	return cancelled, nil
}

// Get retrieves a run by ID.
func (s Monitors) Get(ctx context.Context, id int64) (monitor.Run, error) {
	return s.runs.Get(ctx, id)
}

// Status retrieves the company's live run, if any.
func (s Monitors) Status(ctx context.Context, companyID int64) (monitor.Run, bool, error) {
	return s.runs.FindLiveByCompany(ctx, companyID)
}

// List retrieves runs matching the given options.
func (s Monitors) List(ctx context.Context, options ...storage.Option) ([]monitor.Run, error) {
	return s.runs.Find(ctx, options...)
}

// Count returns the number of runs matching the given options.
func (s Monitors) Count(ctx context.Context, options ...storage.Option) (int64, error) {
	return s.runs.Count(ctx, options...)
}
