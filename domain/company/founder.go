package company

// Founder represents a founder attached to a tracked company. Read-only from
// the orchestrator's perspective: founder details only feed research and
// decision prompts.
type Founder struct {
	id        int64
	companyID int64
	name      string
	bio       string
	twitter   string
	email     string
	linkedin  string
}

// NewFounder creates a Founder that has not been persisted yet.
func NewFounder(name, bio, twitter, email, linkedin string) Founder {
	return Founder{
		name:     name,
		bio:      bio,
		twitter:  twitter,
		email:    email,
		linkedin: linkedin,
	}
}

// ReconstructFounder creates a Founder with all fields (used by persistence).
func ReconstructFounder(id, companyID int64, name, bio, twitter, email, linkedin string) Founder {
	return Founder{
		id:        id,
		companyID: companyID,
		name:      name,
		bio:       bio,
		twitter:   twitter,
		email:     email,
		linkedin:  linkedin,
	}
}

// ID returns the founder ID.
func (f Founder) ID() int64 { return f.id }

// CompanyID returns the owning company ID.
func (f Founder) CompanyID() int64 { return f.companyID }

// Name returns the founder name.
func (f Founder) Name() string { return f.name }

// Bio returns the founder bio.
func (f Founder) Bio() string { return f.bio }

// Twitter returns the founder Twitter handle.
func (f Founder) Twitter() string { return f.twitter }

// Email returns the founder email.
func (f Founder) Email() string { return f.email }

// Linkedin returns the founder LinkedIn URL.
func (f Founder) Linkedin() string { return f.linkedin }
