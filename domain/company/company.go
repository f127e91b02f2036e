// Package company provides the tracked-company domain model.
//
// A Company is created by the intake flow and treated as read-mostly here:
// the research orchestrator only consumes its profile (including the reason
// the firm originally passed) as context for research and decisions.
package company

import "time"

// Company represents a company the firm previously declined to invest in.
type Company struct {
	id                    int64
	name                  string
	description           string
	industry              string
	website               string
	logoURL               string
	reasonForNotInvesting string
	founders              []Founder
	createdAt             time.Time
	updatedAt             time.Time
}

// New creates a Company that has not been persisted yet.
func New(name, description, industry, website, logoURL, reason string) Company {
	return Company{
		name:                  name,
		description:           description,
		industry:              industry,
		website:               website,
		logoURL:               logoURL,
		reasonForNotInvesting: reason,
	}
}

// Reconstruct creates a Company with all fields (used by persistence).
func Reconstruct(
	id int64,
	name, description, industry, website, logoURL, reason string,
	founders []Founder,
	createdAt, updatedAt time.Time,
) Company {
	return Company{
		id:                    id,
		name:                  name,
		description:           description,
		industry:              industry,
		website:               website,
		logoURL:               logoURL,
		reasonForNotInvesting: reason,
		founders:              founders,
		createdAt:             createdAt,
		updatedAt:             updatedAt,
	}
}

// ID returns the company ID.
func (c Company) ID() int64 { return c.id }

// Name returns the company name.
func (c Company) Name() string { return c.name }

// Description returns the company description.
func (c Company) Description() string { return c.description }

// Industry returns the company industry.
func (c Company) Industry() string { return c.industry }

// Website returns the company website URL.
func (c Company) Website() string { return c.website }

// LogoURL returns the company logo URL.
func (c Company) LogoURL() string { return c.logoURL }

// ReasonForNotInvesting returns the reason the firm originally passed.
func (c Company) ReasonForNotInvesting() string { return c.reasonForNotInvesting }

// Founders returns a copy of the founder list.
func (c Company) Founders() []Founder {
	result := make([]Founder, len(c.founders))
	copy(result, c.founders)
	return result
}

// CreatedAt returns when the company was created.
func (c Company) CreatedAt() time.Time { return c.createdAt }

// UpdatedAt returns when the company was last updated.
func (c Company) UpdatedAt() time.Time { return c.updatedAt }

// WithID returns a copy of the company with the given ID.
func (c Company) WithID(id int64) Company {
	c.id = id
	return c
}

// WithFounders returns a copy of the company with the given founders.
func (c Company) WithFounders(founders []Founder) Company {
	copied := make([]Founder, len(founders))
	copy(copied, founders)
	c.founders = copied
	return c
}
