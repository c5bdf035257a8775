package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"taskpilot/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create persists a new user.
	// Returns ErrEmailExists if the email is already registered.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by email.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// WithTx returns a UserStore that runs against the given transaction.
	WithTx(tx *sql.Tx) UserStore
}
