package monitor

import (
	"context"
	"time"

	"github.com/sagohq/sago/domain/storage"
)

// RunStore defines the interface for Run persistence operations.
type RunStore interface {
	// Get retrieves a run by ID.
	Get(ctx context.Context, id int64) (Run, error)

	// Find retrieves runs matching the given options.
	Find(ctx context.Context, options ...storage.Option) ([]Run, error)

	// FindLiveByCompany retrieves the company's non-terminal run, if any.
	// At most one live run exists per company.
	FindLiveByCompany(ctx context.Context, companyID int64) (Run, bool, error)

	// Save creates a new run or overwrites an existing one by ID. Saving a
	// claimed run with a cleared lease releases it in the same write.
	Save(ctx context.Context, r Run) (Run, error)

	// ClaimDue atomically leases one due run: non-terminal state, wake time
	// passed, lease free or expired. Returns found=false when nothing is due.
	// The lease guarantees no two engine workers advance the same run.
	ClaimDue(ctx context.Context, now time.Time, leaseFor time.Duration) (Run, bool, error)

	// Count returns the number of runs matching the given options.
	Count(ctx context.Context, options ...storage.Option) (int64, error)
}

// WithCompany filters by the "company_id" column.
func WithCompany(companyID int64) storage.Option {
	return storage.WithCondition("company_id", companyID)
}

// WithState filters by the "state" column.
func WithState(state State) storage.Option {
	return storage.WithCondition("state", string(state))
}

// WithLive filters for non-terminal runs.
func WithLive() storage.Option {
	states := make([]string, 0, len(LiveStates()))
	for _, s := range LiveStates() {
		states = append(states, string(s))
	}
	return storage.WithConditionIn("state", states)
}

// ByCreatedAsc orders runs oldest first.
func ByCreatedAsc() storage.Option {
	return storage.WithOrderAsc("created_at")
}
