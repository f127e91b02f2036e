package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/sagohq/sago/domain/user"
	"github.com/sagohq/sago/internal/database"
)

// UserStore implements user.Store using GORM.
type UserStore struct {
	db     database.Database
	mapper UserMapper
}

// NewUserStore creates a new UserStore.
func NewUserStore(db database.Database) UserStore {
	return UserStore{
		db:     db,
		mapper: UserMapper{},
	}
}

// Get retrieves a user by ID.
func (s UserStore) Get(ctx context.Context, id int64) (user.User, error) {
	var model UserModel
	result := s.db.Session(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return user.User{}, fmt.Errorf("%w: user id %d", database.ErrNotFound, id)
		}
		return user.User{}, fmt.Errorf("get user: %w", result.Error)
	}
	return s.mapper.ToDomain(model), nil
}

// Save creates a new user or updates an existing one.
func (s UserStore) Save(ctx context.Context, u user.User) (user.User, error) {
	model := s.mapper.ToModel(u)
	if result := s.db.Session(ctx).Save(&model); result.Error != nil {
		return user.User{}, fmt.Errorf("save user: %w", result.Error)
	}
	return s.mapper.ToDomain(model), nil
}
