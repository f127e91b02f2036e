package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/sagohq/sago/domain/monitor"
	"github.com/sagohq/sago/domain/storage"
	"github.com/sagohq/sago/internal/database"
)

// RunStore implements monitor.RunStore using GORM.
type RunStore struct {
	db     database.Database
	mapper RunMapper
}

// NewRunStore creates a new RunStore.
func NewRunStore(db database.Database) RunStore {
	return RunStore{
		db:     db,
		mapper: RunMapper{},
	}
}

// Get retrieves a run by ID.
func (s RunStore) Get(ctx context.Context, id int64) (monitor.Run, error) {
	var model RunModel
	result := s.db.Session(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return monitor.Run{}, fmt.Errorf("%w: run id %d", database.ErrNotFound, id)
		}
		return monitor.Run{}, fmt.Errorf("get run: %w", result.Error)
	}
	return s.mapper.ToDomain(model), nil
}

// Find retrieves runs matching the given options.
func (s RunStore) Find(ctx context.Context, options ...storage.Option) ([]monitor.Run, error) {
	var models []RunModel
	db := database.ApplyOptions(s.db.Session(ctx), options...)
	if result := db.Find(&models); result.Error != nil {
		return nil, fmt.Errorf("find runs: %w", result.Error)
	}

	runs := make([]monitor.Run, len(models))
	for i, model := range models {
		runs[i] = s.mapper.ToDomain(model)
	}
	return runs, nil
}

// FindLiveByCompany retrieves the company's non-terminal run, if any.
func (s RunStore) FindLiveByCompany(ctx context.Context, companyID int64) (monitor.Run, bool, error) {
	var model RunModel
	result := s.db.Session(ctx).
		Where("company_id = ? AND state IN ?", companyID, liveStateStrings()).
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return monitor.Run{}, false, nil
		}
		return monitor.Run{}, false, fmt.Errorf("find live run: %w", result.Error)
	}
	return s.mapper.ToDomain(model), true, nil
}

// Save creates a new run or overwrites an existing one by ID.
func (s RunStore) Save(ctx context.Context, r monitor.Run) (monitor.Run, error) {
	model := s.mapper.ToModel(r)
	if result := s.db.Session(ctx).Save(&model); result.Error != nil {
		return monitor.Run{}, fmt.Errorf("save run: %w", result.Error)
	}
	return s.mapper.ToDomain(model), nil
}

// ClaimDue atomically leases one due run. The candidate is selected inside a
// transaction and claimed with a guarded update, so a concurrent worker that
// claimed the same row first makes the update match zero rows and this call
// reports nothing due.
func (s RunStore) ClaimDue(ctx context.Context, now time.Time, leaseFor time.Duration) (monitor.Run, bool, error) {
	var model RunModel
	claimed := false
	until := now.Add(leaseFor)

	err := s.db.Session(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.
			Where("state IN ?", liveStateStrings()).
			Where("next_wake_at <= ?", now).
			Where("leased_until IS NULL OR leased_until <= ?", now).
			Order("next_wake_at ASC").
			First(&model)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return nil
			}
			return result.Error
		}

		update := tx.Model(&RunModel{}).
			Where("id = ?", model.ID).
			Where("leased_until IS NULL OR leased_until <= ?", now).
			Update("leased_until", until)
		if update.Error != nil {
			return update.Error
		}
		if update.RowsAffected == 0 {
			return nil
		}

		model.LeasedUntil = &until
		claimed = true
		return nil
	})
	if err != nil {
		return monitor.Run{}, false, fmt.Errorf("claim due run: %w", err)
	}
	if !claimed {
		return monitor.Run{}, false, nil
	}

	return s.mapper.ToDomain(model), true, nil
}

// Count returns the number of runs matching the given options.
func (s RunStore) Count(ctx context.Context, options ...storage.Option) (int64, error) {
	var count int64
	db := database.ApplyConditions(s.db.Session(ctx).Model(&RunModel{}), storage.Build(options...).Conditions()...)
	if result := db.Count(&count); result.Error != nil {
		return 0, fmt.Errorf("count runs: %w", result.Error)
	}
	return count, nil
}

func liveStateStrings() []string {
	states := monitor.LiveStates()
	result := make([]string, len(states))
	for i, s := range states {
		result[i] = s.String()
	}
	return result
}
