package v1

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sagohq/sago"
	"github.com/sagohq/sago/domain/user"
	"github.com/sagohq/sago/infrastructure/api/middleware"
	"github.com/sagohq/sago/infrastructure/api/v1/dto"
)

// UsersRouter handles user API endpoints.
type UsersRouter struct {
	client *sago.Client
	logger *slog.Logger
}

// NewUsersRouter creates a new UsersRouter.
func NewUsersRouter(client *sago.Client) *UsersRouter {
	return &UsersRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for user endpoints.
func (r *UsersRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", r.Create)
	router.Get("/{id}", r.Get)

	return router
}

// Create handles POST /api/v1/users.
func (r *UsersRouter) Create(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	var body dto.UserCreateRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req,
			middleware.NewAPIError(http.StatusBadRequest, "invalid request body", err), r.logger)
		return
	}

	attrs := body.Data.Attributes
	if attrs.Name == "" || attrs.Email == "" {
		middleware.WriteError(w, req,
			middleware.NewAPIError(http.StatusBadRequest, "name and email are required", nil), r.logger)
		return
	}

	created, err := r.client.Users.Create(ctx, user.New(attrs.Name, attrs.Email))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, dto.UserResponse{Data: userToDTO(created)})
}

// Get handles GET /api/v1/users/{id}.
func (r *UsersRouter) Get(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	id, err := pathID(req, "id")
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	u, err := r.client.Users.Get(ctx, id)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.UserResponse{Data: userToDTO(u)})
}

func userToDTO(u user.User) dto.UserData {
	return dto.UserData{
		Type: "user",
		ID:   fmt.Sprintf("%d", u.ID()),
		Attributes: dto.UserAttributes{
			Name:  u.Name(),
			Email: u.Email(),
		},
	}
}
