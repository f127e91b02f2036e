// Package round provides the ScrapeRound domain model.
//
// A ScrapeRound is one cycle of re-research for a tracked company. Rounds are
// numbered contiguously from 1 per company, created empty, and finalized
// exactly once: the completed flag is a one-way latch.
package round

import "time"

// ScrapeRound represents one research cycle for a company.
type ScrapeRound struct {
	id            int64
	companyID     int64
	roundNumber   int
	scheduledFor  time.Time
	financialInfo string
	sentiment     string
	customerInfo  string
	completed     bool
	createdAt     time.Time
	updatedAt     time.Time
}

// New creates an unpersisted, incomplete round with empty findings.
func New(companyID int64, roundNumber int, scheduledFor time.Time) ScrapeRound {
	return ScrapeRound{
		companyID:    companyID,
		roundNumber:  roundNumber,
		scheduledFor: scheduledFor,
	}
}

// Reconstruct creates a ScrapeRound with all fields (used by persistence).
func Reconstruct(
	id, companyID int64,
	roundNumber int,
	scheduledFor time.Time,
	financialInfo, sentiment, customerInfo string,
	completed bool,
	createdAt, updatedAt time.Time,
) ScrapeRound {
	return ScrapeRound{
		id:            id,
		companyID:     companyID,
		roundNumber:   roundNumber,
		scheduledFor:  scheduledFor,
		financialInfo: financialInfo,
		sentiment:     sentiment,
		customerInfo:  customerInfo,
		completed:     completed,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// ID returns the round ID.
func (r ScrapeRound) ID() int64 { return r.id }

// CompanyID returns the owning company ID.
func (r ScrapeRound) CompanyID() int64 { return r.companyID }

// RoundNumber returns the per-company round number.
func (r ScrapeRound) RoundNumber() int { return r.roundNumber }

// ScheduledFor returns when the round's research should begin.
func (r ScrapeRound) ScheduledFor() time.Time { return r.scheduledFor }

// FinancialInfo returns the financial research findings.
func (r ScrapeRound) FinancialInfo() string { return r.financialInfo }

// Sentiment returns the public-sentiment research findings.
func (r ScrapeRound) Sentiment() string { return r.sentiment }

// CustomerInfo returns the customer research findings.
func (r ScrapeRound) CustomerInfo() string { return r.customerInfo }

// Completed reports whether the round has been finalized.
func (r ScrapeRound) Completed() bool { return r.completed }

// CreatedAt returns when the round was created.
func (r ScrapeRound) CreatedAt() time.Time { return r.createdAt }

// UpdatedAt returns when the round was last updated.
func (r ScrapeRound) UpdatedAt() time.Time { return r.updatedAt }

// WithID returns a copy of the round with the given ID.
func (r ScrapeRound) WithID(id int64) ScrapeRound {
	r.id = id
	return r
}

// Finalized returns a copy with the findings written and the completed latch
// set. Nil findings default to the empty string; overwrite semantics, so
// finalizing twice with the same inputs yields an identical round.
func (r ScrapeRound) Finalized(financialInfo, sentiment, customerInfo *string) ScrapeRound {
	r.financialInfo = deref(financialInfo)
	r.sentiment = deref(sentiment)
	r.customerInfo = deref(customerInfo)
	r.completed = true
	return r
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
