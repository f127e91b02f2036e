package v1

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sagohq/sago"
	"github.com/sagohq/sago/domain/monitor"
	"github.com/sagohq/sago/infrastructure/api/middleware"
	"github.com/sagohq/sago/infrastructure/api/v1/dto"
)

// MonitorsRouter handles monitor run API endpoints.
type MonitorsRouter struct {
	client *sago.Client
	logger *slog.Logger
}

// NewMonitorsRouter creates a new MonitorsRouter.
func NewMonitorsRouter(client *sago.Client) *MonitorsRouter {
	return &MonitorsRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for monitor endpoints.
func (r *MonitorsRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", r.List)
	router.Post("/", r.Start)
	router.Get("/runs/{id}", r.GetRun)
	router.Get("/companies/{company_id}", r.Status)
	router.Delete("/companies/{company_id}", r.Cancel)

	return router
}

// List handles GET /api/v1/monitors.
func (r *MonitorsRouter) List(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	pagination := ParsePagination(req)

	runs, err := r.client.Monitors.List(ctx, pagination.Options()...)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	total, err := r.client.Monitors.Count(ctx)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	data := make([]dto.RunData, 0, len(runs))
	for _, run := range runs {
		data = append(data, runToDTO(run))
	}

	middleware.WriteJSON(w, http.StatusOK, dto.RunListResponse{
		Data:  data,
		Meta:  PaginationMeta(pagination, total),
		Links: PaginationLinks(req, pagination, total),
	})
}

// Start handles POST /api/v1/monitors.
func (r *MonitorsRouter) Start(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	var body dto.MonitorStartRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req,
			middleware.NewAPIError(http.StatusBadRequest, "invalid request body", err), r.logger)
		return
	}

	attrs := body.Data.Attributes
	if attrs.CompanyID == 0 || attrs.UserID == 0 {
		middleware.WriteError(w, req,
			middleware.NewAPIError(http.StatusBadRequest, "company_id and user_id are required", nil), r.logger)
		return
	}

	run, err := r.client.Monitors.Start(ctx, attrs.CompanyID, attrs.UserID)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, dto.RunResponse{Data: runToDTO(run)})
}

// GetRun handles GET /api/v1/monitors/runs/{id}.
func (r *MonitorsRouter) GetRun(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	id, err := pathID(req, "id")
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	run, err := r.client.Monitors.Get(ctx, id)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.RunResponse{Data: runToDTO(run)})
}

// Status handles GET /api/v1/monitors/companies/{company_id}.
func (r *MonitorsRouter) Status(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	companyID, err := pathID(req, "company_id")
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	run, live, err := r.client.Monitors.Status(ctx, companyID)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	if !live {
		middleware.WriteError(w, req,
			middleware.NewAPIError(http.StatusNotFound, "company has no live monitor", nil), r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.RunResponse{Data: runToDTO(run)})
}

// Cancel handles DELETE /api/v1/monitors/companies/{company_id}.
func (r *MonitorsRouter) Cancel(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	companyID, err := pathID(req, "company_id")
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	if _, err := r.client.Monitors.Cancel(ctx, companyID); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func runToDTO(run monitor.Run) dto.RunData {
	attrs := dto.RunAttributes{
		CompanyID:  run.CompanyID(),
		UserID:     run.UserID(),
		State:      run.State().String(),
		NextWakeAt: run.NextWakeAt(),
		LastError:  run.LastError(),
		CreatedAt:  run.CreatedAt(),
		UpdatedAt:  run.UpdatedAt(),
	}

	if roundID, ok := run.PendingRoundID(); ok {
		attrs.PendingRoundID = &roundID
	}
	if until, ok := run.LeasedUntil(); ok {
		attrs.LeasedUntil = &until
	}

	return dto.RunData{
		Type:       "run",
		ID:         fmt.Sprintf("%d", run.ID()),
		Attributes: attrs,
	}
}
