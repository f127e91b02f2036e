package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sagohq/sago/domain/round"
	"github.com/sagohq/sago/domain/storage"
	"github.com/sagohq/sago/internal/database"
)

// RoundStore implements round.Store using GORM.
type RoundStore struct {
	db     database.Database
	mapper RoundMapper
}

// NewRoundStore creates a new RoundStore.
func NewRoundStore(db database.Database) RoundStore {
	return RoundStore{
		db:     db,
		mapper: RoundMapper{},
	}
}

// Get retrieves a round by ID.
func (s RoundStore) Get(ctx context.Context, id int64) (round.ScrapeRound, error) {
	var model ScrapeRoundModel
	result := s.db.Session(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return round.ScrapeRound{}, fmt.Errorf("%w: round id %d", database.ErrNotFound, id)
		}
		return round.ScrapeRound{}, fmt.Errorf("get round: %w", result.Error)
	}
	return s.mapper.ToDomain(model), nil
}

// Latest retrieves the company's most recent round by round number.
func (s RoundStore) Latest(ctx context.Context, companyID int64) (round.ScrapeRound, bool, error) {
	var model ScrapeRoundModel
	result := s.db.Session(ctx).
		Where("company_id = ?", companyID).
		Order("round_number DESC").
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return round.ScrapeRound{}, false, nil
		}
		return round.ScrapeRound{}, false, fmt.Errorf("latest round: %w", result.Error)
	}
	return s.mapper.ToDomain(model), true, nil
}

// LatestCompletedBefore retrieves the most recent completed round numbered
// strictly below the given one.
func (s RoundStore) LatestCompletedBefore(ctx context.Context, companyID int64, roundNumber int) (round.ScrapeRound, bool, error) {
	var model ScrapeRoundModel
	result := s.db.Session(ctx).
		Where("company_id = ? AND completed = ? AND round_number < ?", companyID, true, roundNumber).
		Order("round_number DESC").
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return round.ScrapeRound{}, false, nil
		}
		return round.ScrapeRound{}, false, fmt.Errorf("latest completed round: %w", result.Error)
	}
	return s.mapper.ToDomain(model), true, nil
}

// Find retrieves rounds matching the given options.
func (s RoundStore) Find(ctx context.Context, options ...storage.Option) ([]round.ScrapeRound, error) {
	var models []ScrapeRoundModel
	db := database.ApplyOptions(s.db.Session(ctx), options...)
	if result := db.Find(&models); result.Error != nil {
		return nil, fmt.Errorf("find rounds: %w", result.Error)
	}

	rounds := make([]round.ScrapeRound, len(models))
	for i, model := range models {
		rounds[i] = s.mapper.ToDomain(model)
	}
	return rounds, nil
}

// Save creates a new round or overwrites an existing one. The unique
// (company_id, round_number) index resolves concurrent creation: re-entrant
// scheduling upserts onto the row it already created.
func (s RoundStore) Save(ctx context.Context, r round.ScrapeRound) (round.ScrapeRound, error) {
	model := s.mapper.ToModel(r)

	result := s.db.Session(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "company_id"}, {Name: "round_number"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"scheduled_for", "financial_info", "sentiment", "customer_info", "completed", "updated_at",
		}),
	}).Create(&model)
	if result.Error != nil {
		return round.ScrapeRound{}, fmt.Errorf("save round: %w", result.Error)
	}

	// On a conflict-update some drivers do not backfill the ID.
	if model.ID == 0 {
		fetch := s.db.Session(ctx).
			Where("company_id = ? AND round_number = ?", model.CompanyID, model.RoundNumber).
			First(&model)
		if fetch.Error != nil {
			return round.ScrapeRound{}, fmt.Errorf("reload saved round: %w", fetch.Error)
		}
	}

	return s.mapper.ToDomain(model), nil
}

// Delete removes a round.
func (s RoundStore) Delete(ctx context.Context, r round.ScrapeRound) error {
	result := s.db.Session(ctx).Delete(&ScrapeRoundModel{}, r.ID())
	if result.Error != nil {
		return fmt.Errorf("delete round: %w", result.Error)
	}
	return nil
}
