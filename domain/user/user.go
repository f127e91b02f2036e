// Package user provides the notification-target user model.
package user

import "context"

// User is the partner who tracks companies and receives escalation emails.
type User struct {
	id    int64
	name  string
	email string
}

// New creates a User that has not been persisted yet.
func New(name, email string) User {
	return User{name: name, email: email}
}

// Reconstruct creates a User with all fields (used by persistence).
func Reconstruct(id int64, name, email string) User {
	return User{id: id, name: name, email: email}
}

// ID returns the user ID.
func (u User) ID() int64 { return u.id }

// Name returns the user's full name.
func (u User) Name() string { return u.name }

// Email returns the user's email address.
func (u User) Email() string { return u.email }

// FirstName returns the first whitespace-separated word of the name, used for
// email greetings.
func (u User) FirstName() string {
	for i, r := range u.name {
		if r == ' ' {
			return u.name[:i]
		}
	}
	return u.name
}

// Store defines the interface for User persistence operations.
type Store interface {
	// Get retrieves a user by ID.
	Get(ctx context.Context, id int64) (User, error)

	// Save creates a new user or updates an existing one.
	Save(ctx context.Context, u User) (User, error)
}
