package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sagohq/sago/domain/company"
	"github.com/sagohq/sago/domain/monitor"
	"github.com/sagohq/sago/domain/storage"
)

// Companies manages the tracked-company catalog.
type Companies struct {
	store  company.Store
	runs   monitor.RunStore
	logger *slog.Logger
}

// NewCompanies creates a Companies service.
func NewCompanies(store company.Store, runs monitor.RunStore, logger *slog.Logger) Companies {
	return Companies{
		store:  store,
		runs:   runs,
		logger: logger,
	}
}

// Create persists a new company, founders included.
func (s Companies) Create(ctx context.Context, c company.Company) (company.Company, error) {
	saved, err := s.store.Save(ctx, c)
	if err != nil {
		return company.Company{}, fmt.Errorf("save company: %w", err)
	}

	s.logger.Info("company created",
		slog.Int64("company_id", saved.ID()),
		slog.String("name", saved.Name()),
	)
	return saved, nil
}

// Get retrieves a company by ID, including its founders.
func (s Companies) Get(ctx context.Context, id int64) (company.Company, error) {
	return s.store.Get(ctx, id)
}

// List retrieves companies matching the given options.
func (s Companies) List(ctx context.Context, options ...storage.Option) ([]company.Company, error) {
	return s.store.Find(ctx, options...)
}

// Count returns the number of companies matching the given options.
func (s Companies) Count(ctx context.Context, options ...storage.Option) (int64, error) {
	return s.store.Count(ctx, options...)
}

// Delete removes a company. Its live run, if any, is cancelled first so the
// engine never wakes a run whose company is gone.
func (s Companies) Delete(ctx context.Context, id int64) error {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("load company: %w", err)
	}

	if run, exists, err := s.runs.FindLiveByCompany(ctx, id); err != nil {
		return fmt.Errorf("find live run: %w", err)
	} else if exists {
		if _, err := s.runs.Save(ctx, run.Cancelled()); err != nil {
			return fmt.Errorf("cancel run: %w", err)
		}
	}

	if err := s.store.Delete(ctx, c); err != nil {
		return fmt.Errorf("delete company: %w", err)
	}

	s.logger.Info("company deleted", slog.Int64("company_id", id))
	return nil
}
