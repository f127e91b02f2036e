package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/sagohq/sago/domain/company"
	"github.com/sagohq/sago/domain/storage"
	"github.com/sagohq/sago/internal/database"
)

// CompanyStore implements company.Store using GORM.
type CompanyStore struct {
	db     database.Database
	mapper CompanyMapper
}

// NewCompanyStore creates a new CompanyStore.
func NewCompanyStore(db database.Database) CompanyStore {
	return CompanyStore{
		db:     db,
		mapper: CompanyMapper{},
	}
}

// Get retrieves a company by ID, including its founders.
func (s CompanyStore) Get(ctx context.Context, id int64) (company.Company, error) {
	var model CompanyModel
	result := s.db.Session(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return company.Company{}, fmt.Errorf("%w: company id %d", database.ErrNotFound, id)
		}
		return company.Company{}, fmt.Errorf("get company: %w", result.Error)
	}

	founders, err := s.foundersFor(ctx, id)
	if err != nil {
		return company.Company{}, err
	}
	return s.mapper.ToDomain(model, founders), nil
}

// Find retrieves companies matching the given options. Founders are loaded
// for every returned company.
func (s CompanyStore) Find(ctx context.Context, options ...storage.Option) ([]company.Company, error) {
	var models []CompanyModel
	db := database.ApplyOptions(s.db.Session(ctx), options...)
	if result := db.Find(&models); result.Error != nil {
		return nil, fmt.Errorf("find companies: %w", result.Error)
	}

	companies := make([]company.Company, len(models))
	for i, model := range models {
		founders, err := s.foundersFor(ctx, model.ID)
		if err != nil {
			return nil, err
		}
		companies[i] = s.mapper.ToDomain(model, founders)
	}
	return companies, nil
}

// Count returns the number of companies matching the given options.
func (s CompanyStore) Count(ctx context.Context, options ...storage.Option) (int64, error) {
	var count int64
	db := database.ApplyConditions(s.db.Session(ctx).Model(&CompanyModel{}), storage.Build(options...).Conditions()...)
	if result := db.Count(&count); result.Error != nil {
		return 0, fmt.Errorf("count companies: %w", result.Error)
	}
	return count, nil
}

// Save creates a new company or updates an existing one. The founder list is
// replaced wholesale within the same transaction.
func (s CompanyStore) Save(ctx context.Context, c company.Company) (company.Company, error) {
	model := s.mapper.ToModel(c)
	fm := FounderMapper{}

	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		if result := tx.Save(&model); result.Error != nil {
			return fmt.Errorf("save company: %w", result.Error)
		}

		if result := tx.Where("company_id = ?", model.ID).Delete(&FounderModel{}); result.Error != nil {
			return fmt.Errorf("replace founders: %w", result.Error)
		}

		for _, f := range c.Founders() {
			founderModel := fm.ToModel(f, model.ID)
			founderModel.ID = 0
			if result := tx.Create(&founderModel); result.Error != nil {
				return fmt.Errorf("save founder: %w", result.Error)
			}
		}
		return nil
	})
	if err != nil {
		return company.Company{}, err
	}

	return s.Get(ctx, model.ID)
}

// Delete removes a company and its founders.
func (s CompanyStore) Delete(ctx context.Context, c company.Company) error {
	return database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		if result := tx.Where("company_id = ?", c.ID()).Delete(&FounderModel{}); result.Error != nil {
			return fmt.Errorf("delete founders: %w", result.Error)
		}
		if result := tx.Delete(&CompanyModel{}, c.ID()); result.Error != nil {
			return fmt.Errorf("delete company: %w", result.Error)
		}
		return nil
	})
}

func (s CompanyStore) foundersFor(ctx context.Context, companyID int64) ([]FounderModel, error) {
	var founders []FounderModel
	result := s.db.Session(ctx).Where("company_id = ?", companyID).Order("id ASC").Find(&founders)
	if result.Error != nil {
		return nil, fmt.Errorf("find founders: %w", result.Error)
	}
	return founders, nil
}
