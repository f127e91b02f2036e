package persistence

import (
	"github.com/sagohq/sago/domain/company"
	"github.com/sagohq/sago/domain/monitor"
	"github.com/sagohq/sago/domain/research"
	"github.com/sagohq/sago/domain/round"
	"github.com/sagohq/sago/domain/user"
)

// CompanyMapper converts between company.Company and CompanyModel.
type CompanyMapper struct{}

// ToDomain converts a model and its founder rows into a domain Company.
func (CompanyMapper) ToDomain(model CompanyModel, founders []FounderModel) company.Company {
	fm := FounderMapper{}
	domainFounders := make([]company.Founder, len(founders))
	for i, f := range founders {
		domainFounders[i] = fm.ToDomain(f)
	}
	return company.Reconstruct(
		model.ID,
		model.Name,
		model.Description,
		model.Industry,
		model.Website,
		model.LogoURL,
		model.ReasonForNotInvesting,
		domainFounders,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

// ToModel converts a domain Company into its model row.
func (CompanyMapper) ToModel(c company.Company) CompanyModel {
	return CompanyModel{
		ID:                    c.ID(),
		Name:                  c.Name(),
		Description:           c.Description(),
		Industry:              c.Industry(),
		Website:               c.Website(),
		LogoURL:               c.LogoURL(),
		ReasonForNotInvesting: c.ReasonForNotInvesting(),
		CreatedAt:             c.CreatedAt(),
		UpdatedAt:             c.UpdatedAt(),
	}
}

// FounderMapper converts between company.Founder and FounderModel.
type FounderMapper struct{}

// ToDomain converts a founder row into a domain Founder.
func (FounderMapper) ToDomain(model FounderModel) company.Founder {
	return company.ReconstructFounder(
		model.ID,
		model.CompanyID,
		model.Name,
		model.Bio,
		model.Twitter,
		model.Email,
		model.Linkedin,
	)
}

// ToModel converts a domain Founder into its model row for the given company.
func (FounderMapper) ToModel(f company.Founder, companyID int64) FounderModel {
	return FounderModel{
		ID:        f.ID(),
		CompanyID: companyID,
		Name:      f.Name(),
		Bio:       f.Bio(),
		Twitter:   f.Twitter(),
		Email:     f.Email(),
		Linkedin:  f.Linkedin(),
	}
}

// UserMapper converts between user.User and UserModel.
type UserMapper struct{}

// ToDomain converts a user row into a domain User.
func (UserMapper) ToDomain(model UserModel) user.User {
	return user.Reconstruct(model.ID, model.Name, model.Email)
}

// ToModel converts a domain User into its model row.
func (UserMapper) ToModel(u user.User) UserModel {
	return UserModel{
		ID:    u.ID(),
		Name:  u.Name(),
		Email: u.Email(),
	}
}

// RoundMapper converts between round.ScrapeRound and ScrapeRoundModel.
type RoundMapper struct{}

// ToDomain converts a round row into a domain ScrapeRound.
func (RoundMapper) ToDomain(model ScrapeRoundModel) round.ScrapeRound {
	return round.Reconstruct(
		model.ID,
		model.CompanyID,
		model.RoundNumber,
		model.ScheduledFor,
		model.FinancialInfo,
		model.Sentiment,
		model.CustomerInfo,
		model.Completed,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

// ToModel converts a domain ScrapeRound into its model row.
func (RoundMapper) ToModel(r round.ScrapeRound) ScrapeRoundModel {
	return ScrapeRoundModel{
		ID:            r.ID(),
		CompanyID:     r.CompanyID(),
		RoundNumber:   r.RoundNumber(),
		ScheduledFor:  r.ScheduledFor(),
		FinancialInfo: r.FinancialInfo(),
		Sentiment:     r.Sentiment(),
		CustomerInfo:  r.CustomerInfo(),
		Completed:     r.Completed(),
		CreatedAt:     r.CreatedAt(),
		UpdatedAt:     r.UpdatedAt(),
	}
}

// RunMapper converts between monitor.Run and RunModel.
type RunMapper struct{}

// ToDomain converts a run row into a domain Run.
func (RunMapper) ToDomain(model RunModel) monitor.Run {
	findings := research.Findings{
		FinancialInfo: model.FinancialInfo,
		Sentiment:     model.Sentiment,
		CustomerInfo:  model.CustomerInfo,
	}
	return monitor.ReconstructRun(
		model.ID,
		model.CompanyID,
		model.UserID,
		monitor.State(model.State),
		model.PendingRoundID,
		findings,
		model.Reasoning,
		model.Outreach,
		model.NextWakeAt,
		model.LeasedUntil,
		model.LastError,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

// ToModel converts a domain Run into its model row.
func (RunMapper) ToModel(r monitor.Run) RunModel {
	model := RunModel{
		ID:            r.ID(),
		CompanyID:     r.CompanyID(),
		UserID:        r.UserID(),
		State:         r.State().String(),
		FinancialInfo: r.Findings().FinancialInfo,
		Sentiment:     r.Findings().Sentiment,
		CustomerInfo:  r.Findings().CustomerInfo,
		Reasoning:     r.Reasoning(),
		Outreach:      r.Outreach(),
		NextWakeAt:    r.NextWakeAt(),
		LastError:     r.LastError(),
		CreatedAt:     r.CreatedAt(),
		UpdatedAt:     r.UpdatedAt(),
	}
	if roundID, ok := r.PendingRoundID(); ok {
		model.PendingRoundID = &roundID
	}
	if until, ok := r.LeasedUntil(); ok {
		model.LeasedUntil = &until
	}
	return model
}
