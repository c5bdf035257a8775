package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"taskpilot/internal/domain"
)

// TaskGroupStore defines the interface for task group persistence.
type TaskGroupStore interface {
	// Create persists a new task group and assigns its ID.
	Create(ctx context.Context, group *domain.TaskGroup) error

	// GetByID retrieves a group by ID, scoped to the owning user.
	// Returns ErrTaskGroupNotFound if absent or owned by another user.
	GetByID(ctx context.Context, id int64, userID uuid.UUID) (*domain.TaskGroup, error)

	// ListByUser retrieves all groups owned by the user, ordered by ID.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.TaskGroup, error)

	// Update persists the name, description, and batch flag of a group.
	// Returns ErrTaskGroupNotFound if absent or owned by another user.
	Update(ctx context.Context, group *domain.TaskGroup) error

	// Delete removes a group. Member tasks must be detached first with
	// TaskStore.ClearGroup; both calls belong in one transaction.
	// Returns ErrTaskGroupNotFound if absent or owned by another user.
	Delete(ctx context.Context, id int64, userID uuid.UUID) error

	// WithTx returns a TaskGroupStore that runs against the given transaction.
	WithTx(tx *sql.Tx) TaskGroupStore
}
