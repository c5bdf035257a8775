package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"taskpilot/internal/domain"
	"taskpilot/internal/platform/logger"
	"taskpilot/internal/store"
)

const groupColumns = "id, user_id, name, description, is_batch, created_at, updated_at"

// TaskGroupStore implements store.TaskGroupStore using PostgreSQL.
type TaskGroupStore struct {
	db store.DBTX
}

// NewTaskGroupStore creates a new TaskGroupStore.
func NewTaskGroupStore(db store.DBTX) *TaskGroupStore {
	return &TaskGroupStore{db: db}
}

// WithTx implements store.TaskGroupStore.
func (s *TaskGroupStore) WithTx(tx *sql.Tx) store.TaskGroupStore {
	return &TaskGroupStore{db: tx}
}

func scanGroup(row scanner) (*domain.TaskGroup, error) {
	var group domain.TaskGroup
	err := row.Scan(
		&group.ID,
		&group.UserID,
		&group.Name,
		&group.Description,
		&group.IsBatch,
		&group.CreatedAt,
		&group.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// Create implements store.TaskGroupStore.
func (s *TaskGroupStore) Create(ctx context.Context, group *domain.TaskGroup) error {
	log := logger.FromContext(ctx)

	if err := group.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO task_groups (user_id, name, description, is_batch, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	now := time.Now().UTC()
	group.CreatedAt = now
	group.UpdatedAt = now

	err := s.db.QueryRowContext(ctx, query,
		group.UserID,
		group.Name,
		group.Description,
		group.IsBatch,
		now,
		now,
	).Scan(&group.ID)
	if err != nil {
		log.Error("failed to create task group",
			"user_id", group.UserID,
			"error", err)
		return store.NewStoreError("task_group", "create", "insert failed", err)
	}

	return nil
}

// GetByID implements store.TaskGroupStore.
func (s *TaskGroupStore) GetByID(ctx context.Context, id int64, userID uuid.UUID) (*domain.TaskGroup, error) {
	query := "SELECT " + groupColumns + " FROM task_groups WHERE id = $1 AND user_id = $2"

	group, err := scanGroup(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrTaskGroupNotFound
		}
		return nil, store.NewStoreError("task_group", "get", "query failed", err)
	}

	return group, nil
}

// ListByUser implements store.TaskGroupStore.
func (s *TaskGroupStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.TaskGroup, error) {
	query := "SELECT " + groupColumns + " FROM task_groups WHERE user_id = $1 ORDER BY id ASC"

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, store.NewStoreError("task_group", "list", "query failed", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	groups := []*domain.TaskGroup{}
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, store.NewStoreError("task_group", "list", "scan failed", err)
		}
		groups = append(groups, group)
	}

	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("task_group", "list", "row iteration failed", err)
	}

	return groups, nil
}

// Update implements store.TaskGroupStore.
func (s *TaskGroupStore) Update(ctx context.Context, group *domain.TaskGroup) error {
	if err := group.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE task_groups
		SET name = $1, description = $2, is_batch = $3, updated_at = $4
		WHERE id = $5 AND user_id = $6
	`

	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx, query,
		group.Name,
		group.Description,
		group.IsBatch,
		now,
		group.ID,
		group.UserID,
	)
	if err != nil {
		return store.NewStoreError("task_group", "update", "update failed", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return store.NewStoreError("task_group", "update", "rows affected failed", err)
	}
	if rows == 0 {
		return store.ErrTaskGroupNotFound
	}

	group.UpdatedAt = now
	return nil
}

// Delete implements store.TaskGroupStore.
func (s *TaskGroupStore) Delete(ctx context.Context, id int64, userID uuid.UUID) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM task_groups WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return store.NewStoreError("task_group", "delete", "delete failed", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return store.NewStoreError("task_group", "delete", "rows affected failed", err)
	}
	if rows == 0 {
		return store.ErrTaskGroupNotFound
	}

	return nil
}
