package dto

import (
	"time"

	"github.com/sagohq/sago/infrastructure/api/jsonapi"
)

// RunAttributes represents monitor run attributes in API responses.
type RunAttributes struct {
	CompanyID      int64      `json:"company_id"`
	UserID         int64      `json:"user_id"`
	State          string     `json:"state"`
	PendingRoundID *int64     `json:"pending_round_id,omitempty"`
	NextWakeAt     time.Time  `json:"next_wake_at"`
	LeasedUntil    *time.Time `json:"leased_until,omitempty"`
	LastError      string     `json:"last_error,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// RunData represents a monitor run in JSON:API format.
type RunData struct {
	Type       string        `json:"type"`
	ID         string        `json:"id"`
	Attributes RunAttributes `json:"attributes"`
}

// RunResponse represents a single run.
type RunResponse struct {
	Data RunData `json:"data"`
}

// RunListResponse represents a list of runs.
type RunListResponse struct {
	Data  []RunData      `json:"data"`
	Meta  *jsonapi.Meta  `json:"meta,omitempty"`
	Links *jsonapi.Links `json:"links,omitempty"`
}

// MonitorStartAttributes represents the attributes for starting a monitor.
type MonitorStartAttributes struct {
	CompanyID int64 `json:"company_id"`
	UserID    int64 `json:"user_id"`
}

// MonitorStartData represents the data for starting a monitor.
type MonitorStartData struct {
	Type       string                 `json:"type"`
	Attributes MonitorStartAttributes `json:"attributes"`
}

// MonitorStartRequest represents a request to start monitoring a company.
type MonitorStartRequest struct {
	Data MonitorStartData `json:"data"`
}
