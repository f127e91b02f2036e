package company

import (
	"context"

	"github.com/sagohq/sago/domain/storage"
)

// Store defines the interface for Company persistence operations.
type Store interface {
	// Get retrieves a company by ID, including its founders.
	Get(ctx context.Context, id int64) (Company, error)

	// Find retrieves companies matching the given options.
	Find(ctx context.Context, options ...storage.Option) ([]Company, error)

	// Count returns the number of companies matching the given options.
	Count(ctx context.Context, options ...storage.Option) (int64, error)

	// Save creates a new company or updates an existing one, founders included.
	Save(ctx context.Context, c Company) (Company, error)

	// Delete removes a company and its founders.
	Delete(ctx context.Context, c Company) error
}

// WithName filters by the "name" column.
func WithName(name string) storage.Option {
	return storage.WithCondition("name", name)
}

// WithIndustry filters by the "industry" column.
func WithIndustry(industry string) storage.Option {
	return storage.WithCondition("industry", industry)
}
