package storage

import (
	"context"

	"github.com/iudanet/shortshare/internal/models"
)

// UserStorage defines interface for user data persistence.
// The authentication guard only ever reads users; writes happen
// through the operator CLI (cmd/useradd).
type UserStorage interface {
	// CreateUser creates a new user and returns it with the assigned id.
	// Returns ErrUserAlreadyExists if username is taken.
	CreateUser(ctx context.Context, username, passwordHash string, isAdmin bool) (*models.User, error)

	// GetUserByUsername retrieves user by username.
	// Returns ErrUserNotFound if user doesn't exist.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUserByID retrieves user by ID.
	// Returns ErrUserNotFound if user doesn't exist.
	GetUserByID(ctx context.Context, id int64) (*models.User, error)

	// DeleteUser deletes user by ID.
	// Returns ErrUserNotFound if user doesn't exist.
	DeleteUser(ctx context.Context, id int64) error
}
