package dto

import (
	"time"

	"github.com/sagohq/sago/infrastructure/api/jsonapi"
)

// RoundAttributes represents research round attributes in API responses.
type RoundAttributes struct {
	CompanyID     int64     `json:"company_id"`
	RoundNumber   int       `json:"round_number"`
	ScheduledFor  time.Time `json:"scheduled_for"`
	FinancialInfo string    `json:"financial_info,omitempty"`
	Sentiment     string    `json:"sentiment,omitempty"`
	CustomerInfo  string    `json:"customer_info,omitempty"`
	Completed     bool      `json:"completed"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// RoundData represents a research round in JSON:API format.
type RoundData struct {
	Type       string          `json:"type"`
	ID         string          `json:"id"`
	Attributes RoundAttributes `json:"attributes"`
}

// RoundResponse represents a single round.
type RoundResponse struct {
	Data RoundData `json:"data"`
}

// RoundListResponse represents a list of rounds.
type RoundListResponse struct {
	Data  []RoundData    `json:"data"`
	Meta  *jsonapi.Meta  `json:"meta,omitempty"`
	Links *jsonapi.Links `json:"links,omitempty"`
}
