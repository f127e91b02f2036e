// Package v1 provides the v1 API routes.
package v1

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sagohq/sago"
	"github.com/sagohq/sago/domain/company"
	"github.com/sagohq/sago/domain/round"
	"github.com/sagohq/sago/infrastructure/api/middleware"
	"github.com/sagohq/sago/infrastructure/api/v1/dto"
)

// CompaniesRouter handles company API endpoints.
type CompaniesRouter struct {
	client *sago.Client
	logger *slog.Logger
}

// NewCompaniesRouter creates a new CompaniesRouter.
func NewCompaniesRouter(client *sago.Client) *CompaniesRouter {
	return &CompaniesRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for company endpoints.
func (r *CompaniesRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", r.List)
	router.Post("/", r.Create)
	router.Get("/{id}", r.Get)
	router.Delete("/{id}", r.Delete)
	router.Get("/{id}/rounds", r.ListRounds)
	router.Get("/{id}/rounds/{round_id}", r.GetRound)

	return router
}

// List handles GET /api/v1/companies.
func (r *CompaniesRouter) List(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	pagination := ParsePagination(req)

	companies, err := r.client.Companies.List(ctx, pagination.Options()...)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	total, err := r.client.Companies.Count(ctx)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	data := make([]dto.CompanyData, 0, len(companies))
	for _, c := range companies {
		data = append(data, companyToDTO(c))
	}

	middleware.WriteJSON(w, http.StatusOK, dto.CompanyListResponse{
		Data:  data,
		Meta:  PaginationMeta(pagination, total),
		Links: PaginationLinks(req, pagination, total),
	})
}

// Create handles POST /api/v1/companies.
func (r *CompaniesRouter) Create(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	var body dto.CompanyCreateRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req,
			middleware.NewAPIError(http.StatusBadRequest, "invalid request body", err), r.logger)
		return
	}

	attrs := body.Data.Attributes
	if attrs.Name == "" {
		middleware.WriteError(w, req,
			middleware.NewAPIError(http.StatusBadRequest, "name is required", nil), r.logger)
		return
	}

	founders := make([]company.Founder, 0, len(attrs.Founders))
	for _, f := range attrs.Founders {
		founders = append(founders, company.NewFounder(f.Name, f.Bio, f.Twitter, f.Email, f.Linkedin))
	}

	c := company.New(
		attrs.Name,
		attrs.Description,
		attrs.Industry,
		attrs.Website,
		attrs.LogoURL,
		attrs.ReasonForNotInvesting,
	).WithFounders(founders)

	created, err := r.client.Companies.Create(ctx, c)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, dto.CompanyResponse{Data: companyToDTO(created)})
}

// Get handles GET /api/v1/companies/{id}.
func (r *CompaniesRouter) Get(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	id, err := pathID(req, "id")
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	c, err := r.client.Companies.Get(ctx, id)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.CompanyResponse{Data: companyToDTO(c)})
}

// Delete handles DELETE /api/v1/companies/{id}.
func (r *CompaniesRouter) Delete(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	id, err := pathID(req, "id")
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	if err := r.client.Companies.Delete(ctx, id); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListRounds handles GET /api/v1/companies/{id}/rounds.
func (r *CompaniesRouter) ListRounds(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	pagination := ParsePagination(req)

	id, err := pathID(req, "id")
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	// Check company exists
	_, err = r.client.Companies.Get(ctx, id)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	rounds, err := r.client.Rounds.ListByCompany(ctx, id, pagination.Options()...)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	data := make([]dto.RoundData, 0, len(rounds))
	for _, rnd := range rounds {
		data = append(data, roundToDTO(rnd))
	}

	middleware.WriteJSON(w, http.StatusOK, dto.RoundListResponse{
		Data: data,
		Meta: PaginationMeta(pagination, int64(len(rounds))),
	})
}

// GetRound handles GET /api/v1/companies/{id}/rounds/{round_id}.
func (r *CompaniesRouter) GetRound(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	id, err := pathID(req, "id")
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	roundID, err := pathID(req, "round_id")
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	rnd, err := r.client.Rounds.Get(ctx, roundID)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	if rnd.CompanyID() != id {
		middleware.WriteError(w, req,
			middleware.NewAPIError(http.StatusNotFound, "not found", nil), r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.RoundResponse{Data: roundToDTO(rnd)})
}

// pathID parses a numeric path parameter, returning a 400 APIError on garbage.
func pathID(req *http.Request, name string) (int64, error) {
	raw := chi.URLParam(req, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, middleware.NewAPIError(http.StatusBadRequest, fmt.Sprintf("invalid %s", name), err)
	}
	return id, nil
}

func companyToDTO(c company.Company) dto.CompanyData {
	founders := make([]dto.FounderAttributes, 0, len(c.Founders()))
	for _, f := range c.Founders() {
		founders = append(founders, dto.FounderAttributes{
			Name:     f.Name(),
			Bio:      f.Bio(),
			Twitter:  f.Twitter(),
			Email:    f.Email(),
			Linkedin: f.Linkedin(),
		})
	}

	return dto.CompanyData{
		Type: "company",
		ID:   fmt.Sprintf("%d", c.ID()),
		Attributes: dto.CompanyAttributes{
			Name:                  c.Name(),
			Description:           c.Description(),
			Industry:              c.Industry(),
			Website:               c.Website(),
			LogoURL:               c.LogoURL(),
			ReasonForNotInvesting: c.ReasonForNotInvesting(),
			Founders:              founders,
			CreatedAt:             c.CreatedAt(),
			UpdatedAt:             c.UpdatedAt(),
		},
	}
}

func roundToDTO(r round.ScrapeRound) dto.RoundData {
	return dto.RoundData{
		Type: "round",
		ID:   fmt.Sprintf("%d", r.ID()),
		Attributes: dto.RoundAttributes{
			CompanyID:     r.CompanyID(),
			RoundNumber:   r.RoundNumber(),
			ScheduledFor:  r.ScheduledFor(),
			FinancialInfo: r.FinancialInfo(),
			Sentiment:     r.Sentiment(),
			CustomerInfo:  r.CustomerInfo(),
			Completed:     r.Completed(),
			CreatedAt:     r.CreatedAt(),
			UpdatedAt:     r.UpdatedAt(),
		},
	}
}
