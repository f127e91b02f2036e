package service

import (
	"context"

	"github.com/sagohq/sago/domain/round"
	"github.com/sagohq/sago/domain/storage"
)

// Rounds exposes read access to a company's research history.
type Rounds struct {
	store round.Store
}

// NewRounds creates a Rounds service.
func NewRounds(store round.Store) Rounds {
	return Rounds{store: store}
}

// Get retrieves a round by ID.
func (s Rounds) Get(ctx context.Context, id int64) (round.ScrapeRound, error) {
	return s.store.Get(ctx, id)
}

// ListByCompany retrieves a company's rounds, newest first.
func (s Rounds) ListByCompany(ctx context.Context, companyID int64, options ...storage.Option) ([]round.ScrapeRound, error) {
	opts := append([]storage.Option{round.WithCompany(companyID), round.ByNumberDesc()}, options...)
	return s.store.Find(ctx, opts...)
}

// Latest retrieves the company's most recent round.
func (s Rounds) Latest(ctx context.Context, companyID int64) (round.ScrapeRound, bool, error) {
	return s.store.Latest(ctx, companyID)
}
