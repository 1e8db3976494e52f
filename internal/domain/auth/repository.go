package auth

import (
	"context"

	"almox/internal/core/id"
)

// UserRepository defines user persistence.
type UserRepository interface {
	Create(ctx context.Context, u *User) error

	// GetByID returns the user or a NOT_FOUND apperror.
	GetByID(ctx context.Context, userID id.ID) (*User, error)

	GetByEmail(ctx context.Context, email string) (*User, error)

	Update(ctx context.Context, u *User) error

	// Exists reports whether a user with the email is registered.
	Exists(ctx context.Context, email string) (bool, error)
}
