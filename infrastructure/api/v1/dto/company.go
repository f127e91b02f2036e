// Package dto provides request and response types for the v1 API.
package dto

import (
	"time"

	"github.com/sagohq/sago/infrastructure/api/jsonapi"
)

// FounderAttributes represents a founder in API payloads.
type FounderAttributes struct {
	Name     string `json:"name"`
	Bio      string `json:"bio,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
	Email    string `json:"email,omitempty"`
	Linkedin string `json:"linkedin,omitempty"`
}

// CompanyAttributes represents company attributes in API responses.
type CompanyAttributes struct {
	Name                  string              `json:"name"`
	Description           string              `json:"description"`
	Industry              string              `json:"industry"`
	Website               string              `json:"website,omitempty"`
	LogoURL               string              `json:"logo_url,omitempty"`
	ReasonForNotInvesting string              `json:"reason_for_not_investing"`
	Founders              []FounderAttributes `json:"founders"`
	CreatedAt             time.Time           `json:"created_at"`
	UpdatedAt             time.Time           `json:"updated_at"`
}

// CompanyData represents a company in JSON:API format.
type CompanyData struct {
	Type       string            `json:"type"`
	ID         string            `json:"id"`
	Attributes CompanyAttributes `json:"attributes"`
}

// CompanyResponse represents a single company.
type CompanyResponse struct {
	Data CompanyData `json:"data"`
}

// CompanyListResponse represents a list of companies.
type CompanyListResponse struct {
	Data  []CompanyData  `json:"data"`
	Meta  *jsonapi.Meta  `json:"meta,omitempty"`
	Links *jsonapi.Links `json:"links,omitempty"`
}

// CompanyCreateAttributes represents the attributes for creating a company.
type CompanyCreateAttributes struct {
	Name                  string              `json:"name"`
	Description           string              `json:"description"`
	Industry              string              `json:"industry"`
	Website               string              `json:"website"`
	LogoURL               string              `json:"logo_url"`
	ReasonForNotInvesting string              `json:"reason_for_not_investing"`
	Founders              []FounderAttributes `json:"founders"`
}

// CompanyCreateData represents the data for creating a company.
type CompanyCreateData struct {
	Type       string                  `json:"type"`
	Attributes CompanyCreateAttributes `json:"attributes"`
}

// CompanyCreateRequest represents a request to create a company.
type CompanyCreateRequest struct {
	Data CompanyCreateData `json:"data"`
}
