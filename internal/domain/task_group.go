package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for TaskGroup
var (
	ErrEmptyGroupUserID = errors.New("task group user ID cannot be empty")
	ErrEmptyGroupName   = errors.New("task group name cannot be empty")
)

// TaskGroup is a named collection of tasks owned by one user.
// IsBatch marks groups created by the automatic batching operation
// rather than manually through the API.
type TaskGroup struct {
	ID          int64     `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsBatch     bool      `json:"is_batch"`
	Tasks       []*Task   `json:"tasks,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTaskGroup creates a new TaskGroup with the given owner and name.
// The ID is assigned by the store on creation.
// Returns an error if validation fails.
func NewTaskGroup(userID uuid.UUID, name string) (*TaskGroup, error) {
	group := &TaskGroup{
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := group.Validate(); err != nil {
		return nil, err
	}

	return group, nil
}

// Validate checks if the TaskGroup has valid data.
func (g *TaskGroup) Validate() error {
	if g.UserID == uuid.Nil {
		return ErrEmptyGroupUserID
	}

	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyGroupName
	}

	return nil
}
