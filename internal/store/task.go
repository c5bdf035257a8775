package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"taskpilot/internal/domain"
)

// TaskFilter narrows a task listing. Nil pointer fields are ignored.
type TaskFilter struct {
	// Batchable filters on the is_batchable flag.
	Batchable *bool

	// Batched filters on the is_batched flag.
	Batched *bool

	// Ungrouped, when true, restricts the listing to tasks with no group.
	Ungrouped bool

	// ExcludeStatuses removes tasks in any of the given statuses.
	ExcludeStatuses []domain.TaskStatus

	// OrderByPriority orders results by priority rank descending, then
	// due date ascending with nulls last, then ID. Without it results
	// are ordered by ID ascending.
	OrderByPriority bool
}

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// FindByUser retrieves all tasks owned by the given user that match
	// the filter. Returns an empty slice when nothing matches.
	FindByUser(ctx context.Context, userID uuid.UUID, filter TaskFilter) ([]*domain.Task, error)

	// GetByID retrieves a task by ID, scoped to the owning user, with
	// its dependency set loaded. Returns ErrTaskNotFound if the task
	// does not exist or belongs to another user.
	GetByID(ctx context.Context, id int64, userID uuid.UUID) (*domain.Task, error)

	// FindByTitle retrieves the user's task with exactly the given title.
	// Returns ErrTaskNotFound when no such task exists. When several
	// tasks share the title the oldest one is returned.
	FindByTitle(ctx context.Context, userID uuid.UUID, title string) (*domain.Task, error)

	// Create persists a new task and assigns its ID.
	Create(ctx context.Context, task *domain.Task) error

	// Update persists all mutable fields of an existing task.
	// Returns ErrTaskNotFound if the task does not exist for the user.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task owned by the user.
	// Returns ErrTaskNotFound if the task does not exist for the user.
	Delete(ctx context.Context, id int64, userID uuid.UUID) error

	// UpdatePriority sets a single task's priority, scoped to the owner.
	// Returns ErrTaskNotFound if the task does not exist for the user.
	UpdatePriority(ctx context.Context, id int64, userID uuid.UUID, priority domain.TaskPriority) error

	// AppendDependencies adds dependency edges from the task to each of
	// depIDs. Existing edges are left untouched, so re-appending the
	// same set is a no-op. Self-edges are never written.
	// MUST be run within a transaction alongside the creation of any
	// new dependency tasks; use WithTx.
	AppendDependencies(ctx context.Context, taskID int64, depIDs []int64) error

	// ClaimForGroup atomically assigns the given tasks to a group,
	// setting is_batched, but only for tasks that still belong to the
	// user AND have no group at write time. Returns the IDs actually
	// claimed; callers must treat missing IDs as "already grouped by a
	// concurrent operation" and skip them.
	ClaimForGroup(ctx context.Context, groupID int64, userID uuid.UUID, taskIDs []int64) ([]int64, error)

	// ListByGroup retrieves the member tasks of a group, ordered by ID.
	ListByGroup(ctx context.Context, groupID int64) ([]*domain.Task, error)

	// RemoveFromGroup detaches a task from its group and clears the
	// is_batched flag. Returns ErrTaskNotFound if the task does not
	// exist for the user.
	RemoveFromGroup(ctx context.Context, id int64, userID uuid.UUID) error

	// ClearGroup detaches every member task of the given group. Used
	// before a group is deleted.
	ClearGroup(ctx context.Context, groupID int64) error

	// WithTx returns a TaskStore that runs against the given transaction.
	WithTx(tx *sql.Tx) TaskStore
}
