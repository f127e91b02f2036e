package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sagohq/sago/domain/user"
)

// Users manages escalation recipients.
type Users struct {
	store  user.Store
	logger *slog.Logger
}

// NewUsers creates a Users service.
func NewUsers(store user.Store, logger *slog.Logger) Users {
	return Users{
		store:  store,
		logger: logger,
	}
}

// Create persists a new user.
func (s Users) Create(ctx context.Context, u user.User) (user.User, error) {
	saved, err := s.store.Save(ctx, u)
	if err != nil {
		return user.User{}, fmt.Errorf("save user: %w", err)
	}

	s.logger.Info("user created",
		slog.Int64("user_id", saved.ID()),
		slog.String("email", saved.Email()),
	)
	return saved, nil
}

// Get retrieves a user by ID.
func (s Users) Get(ctx context.Context, id int64) (user.User, error) {
	return s.store.Get(ctx, id)
}
