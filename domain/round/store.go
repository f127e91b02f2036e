package round

import (
	"context"

	"github.com/sagohq/sago/domain/storage"
)

// Store defines the interface for ScrapeRound persistence operations.
type Store interface {
	// Get retrieves a round by ID.
	Get(ctx context.Context, id int64) (ScrapeRound, error)

	// Latest retrieves the company's most recent round by round number.
	// Returns found=false when the company has no rounds yet.
	Latest(ctx context.Context, companyID int64) (ScrapeRound, bool, error)

	// LatestCompletedBefore retrieves the most recent completed round with a
	// round number strictly below the given one. Returns found=false when no
	// such round exists (i.e. this is the company's first completed round).
	LatestCompletedBefore(ctx context.Context, companyID int64, roundNumber int) (ScrapeRound, bool, error)

	// Find retrieves rounds matching the given options.
	Find(ctx context.Context, options ...storage.Option) ([]ScrapeRound, error)

	// Save creates a new round or overwrites an existing one by ID.
	// Full-row overwrite keyed by the round identity makes finalization
	// idempotent under crash-recovery re-entry.
	Save(ctx context.Context, r ScrapeRound) (ScrapeRound, error)

	// Delete removes a round. Used only when an unusable round is abandoned
	// under the number-reuse policy.
	Delete(ctx context.Context, r ScrapeRound) error
}

// WithCompany filters by the "company_id" column.
func WithCompany(companyID int64) storage.Option {
	return storage.WithCondition("company_id", companyID)
}

// WithCompleted filters for finalized rounds.
func WithCompleted() storage.Option {
	return storage.WithCondition("completed", true)
}

// WithNumberBelow filters rounds numbered strictly below n.
func WithNumberBelow(n int) storage.Option {
	return storage.WithWhere("round_number < ?", n)
}

// ByNumberDesc orders by round number, highest first.
func ByNumberDesc() storage.Option {
	return storage.WithOrderDesc("round_number")
}
