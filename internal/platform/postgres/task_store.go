package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskpilot/internal/domain"
	"taskpilot/internal/platform/logger"
	"taskpilot/internal/store"
)

// taskColumns is the column list every task query selects, in the order
// scanTask expects.
const taskColumns = `id, user_id, title, description, type, status, priority,
	due_date, estimated_duration, is_batchable, is_batched, group_id,
	created_at, updated_at`

// TaskStore implements store.TaskStore using PostgreSQL.
type TaskStore struct {
	db store.DBTX
}

// NewTaskStore creates a new TaskStore.
func NewTaskStore(db store.DBTX) *TaskStore {
	return &TaskStore{db: db}
}

// WithTx implements store.TaskStore.
func (s *TaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &TaskStore{db: tx}
}

// scanTask reads one task row. The caller supplies either *sql.Row or
// *sql.Rows through the scanner interface.
type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (*domain.Task, error) {
	var (
		task      domain.Task
		dueDate   sql.NullTime
		duration  sql.NullInt64
		groupID   sql.NullInt64
		taskType  string
		status    string
		priority  string
		createdAt time.Time
		updatedAt time.Time
	)

	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&taskType,
		&status,
		&priority,
		&dueDate,
		&duration,
		&task.IsBatchable,
		&task.IsBatched,
		&groupID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Type = domain.TaskType(taskType)
	task.Status = domain.TaskStatus(status)
	task.Priority = domain.TaskPriority(priority)
	task.CreatedAt = createdAt
	task.UpdatedAt = updatedAt

	if dueDate.Valid {
		t := dueDate.Time
		task.DueDate = &t
	}
	if duration.Valid {
		d := int(duration.Int64)
		task.EstimatedDuration = &d
	}
	if groupID.Valid {
		g := groupID.Int64
		task.GroupID = &g
	}

	return &task, nil
}

// collectTasks drains a task query's rows.
func collectTasks(rows *sql.Rows) ([]*domain.Task, error) {
	defer func() {
		_ = rows.Close()
	}()

	tasks := []*domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}

	return tasks, nil
}

// FindByUser implements store.TaskStore.
func (s *TaskStore) FindByUser(
	ctx context.Context,
	userID uuid.UUID,
	filter store.TaskFilter,
) ([]*domain.Task, error) {
	log := logger.FromContext(ctx)

	var sb strings.Builder
	sb.WriteString("SELECT " + taskColumns + " FROM tasks WHERE user_id = $1")
	args := []any{userID}

	if filter.Batchable != nil {
		args = append(args, *filter.Batchable)
		fmt.Fprintf(&sb, " AND is_batchable = $%d", len(args))
	}
	if filter.Batched != nil {
		args = append(args, *filter.Batched)
		fmt.Fprintf(&sb, " AND is_batched = $%d", len(args))
	}
	if filter.Ungrouped {
		sb.WriteString(" AND group_id IS NULL")
	}
	for _, status := range filter.ExcludeStatuses {
		args = append(args, string(status))
		fmt.Fprintf(&sb, " AND status <> $%d", len(args))
	}

	if filter.OrderByPriority {
		sb.WriteString(` ORDER BY CASE priority
			WHEN 'critical' THEN 4
			WHEN 'high' THEN 3
			WHEN 'medium' THEN 2
			WHEN 'low' THEN 1
			ELSE 0 END DESC,
			due_date ASC NULLS LAST, id ASC`)
	} else {
		sb.WriteString(" ORDER BY id ASC")
	}

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		log.Error("failed to query tasks",
			"user_id", userID,
			"error", err)
		return nil, store.NewStoreError("task", "find", "query failed", err)
	}

	return collectTasks(rows)
}

// GetByID implements store.TaskStore.
func (s *TaskStore) GetByID(ctx context.Context, id int64, userID uuid.UUID) (*domain.Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks WHERE id = $1 AND user_id = $2"

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrTaskNotFound
		}
		return nil, store.NewStoreError("task", "get", "query failed", err)
	}

	deps, err := s.loadDependencies(ctx, task.ID)
	if err != nil {
		return nil, err
	}
	task.Dependencies = deps

	return task, nil
}

// FindByTitle implements store.TaskStore.
func (s *TaskStore) FindByTitle(ctx context.Context, userID uuid.UUID, title string) (*domain.Task, error) {
	query := "SELECT " + taskColumns + ` FROM tasks
		WHERE user_id = $1 AND title = $2
		ORDER BY id ASC LIMIT 1`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, userID, title))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrTaskNotFound
		}
		return nil, store.NewStoreError("task", "find_by_title", "query failed", err)
	}

	return task, nil
}

// loadDependencies fetches the dependency set of a task.
func (s *TaskStore) loadDependencies(ctx context.Context, taskID int64) ([]*domain.Task, error) {
	// Column names are unambiguous: task_dependencies only carries
	// task_id and depends_on_id.
	query := "SELECT " + taskColumns + ` FROM tasks t
		JOIN task_dependencies d ON d.depends_on_id = t.id
		WHERE d.task_id = $1
		ORDER BY t.id ASC`

	rows, err := s.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, store.NewStoreError("task", "load_dependencies", "query failed", err)
	}

	return collectTasks(rows)
}

// Create implements store.TaskStore.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContext(ctx)

	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO tasks (user_id, title, description, type, status, priority,
			due_date, estimated_duration, is_batchable, is_batched, group_id,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`

	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now

	err := s.db.QueryRowContext(ctx, query,
		task.UserID,
		task.Title,
		task.Description,
		string(task.Type),
		string(task.Status),
		string(task.Priority),
		task.DueDate,
		task.EstimatedDuration,
		task.IsBatchable,
		task.IsBatched,
		task.GroupID,
		now,
		now,
	).Scan(&task.ID)
	if err != nil {
		log.Error("failed to create task",
			"user_id", task.UserID,
			"error", err)
		return store.NewStoreError("task", "create", "insert failed", err)
	}

	return nil
}

// Update implements store.TaskStore.
func (s *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE tasks
		SET title = $1, description = $2, type = $3, status = $4, priority = $5,
			due_date = $6, estimated_duration = $7, is_batchable = $8,
			is_batched = $9, group_id = $10, updated_at = $11
		WHERE id = $12 AND user_id = $13
	`

	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx, query,
		task.Title,
		task.Description,
		string(task.Type),
		string(task.Status),
		string(task.Priority),
		task.DueDate,
		task.EstimatedDuration,
		task.IsBatchable,
		task.IsBatched,
		task.GroupID,
		now,
		task.ID,
		task.UserID,
	)
	if err != nil {
		return store.NewStoreError("task", "update", "update failed", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return store.NewStoreError("task", "update", "rows affected failed", err)
	}
	if rows == 0 {
		return store.ErrTaskNotFound
	}

	task.UpdatedAt = now
	return nil
}

// Delete implements store.TaskStore.
func (s *TaskStore) Delete(ctx context.Context, id int64, userID uuid.UUID) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM tasks WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return store.NewStoreError("task", "delete", "delete failed", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return store.NewStoreError("task", "delete", "rows affected failed", err)
	}
	if rows == 0 {
		return store.ErrTaskNotFound
	}

	return nil
}

// UpdatePriority implements store.TaskStore.
func (s *TaskStore) UpdatePriority(
	ctx context.Context,
	id int64,
	userID uuid.UUID,
	priority domain.TaskPriority,
) error {
	if !domain.IsValidTaskPriority(priority) {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, domain.ErrInvalidTaskPriority)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET priority = $1, updated_at = $2
		WHERE id = $3 AND user_id = $4`,
		string(priority), time.Now().UTC(), id, userID)
	if err != nil {
		return store.NewStoreError("task", "update_priority", "update failed", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return store.NewStoreError("task", "update_priority", "rows affected failed", err)
	}
	if rows == 0 {
		return store.ErrTaskNotFound
	}

	return nil
}

// AppendDependencies implements store.TaskStore. Existing edges and
// self-edges are filtered in SQL so re-appending the same set is a
// no-op and the no-self-dependency invariant holds at the storage layer
// as well.
func (s *TaskStore) AppendDependencies(ctx context.Context, taskID int64, depIDs []int64) error {
	if len(depIDs) == 0 {
		return nil
	}

	query := `
		INSERT INTO task_dependencies (task_id, depends_on_id)
		SELECT $1, dep FROM unnest($2::bigint[]) AS dep
		WHERE dep <> $1
		ON CONFLICT (task_id, depends_on_id) DO NOTHING
	`

	if _, err := s.db.ExecContext(ctx, query, taskID, depIDs); err != nil {
		if isForeignKeyViolation(err) {
			return store.ErrTaskNotFound
		}
		return store.NewStoreError("task", "append_dependencies", "insert failed", err)
	}

	return nil
}

// ClaimForGroup implements store.TaskStore. The group_id IS NULL guard
// is the re-check-before-write rule: a task grouped by a concurrent
// operation between read and write is silently skipped, and the caller
// sees it missing from the returned IDs.
func (s *TaskStore) ClaimForGroup(
	ctx context.Context,
	groupID int64,
	userID uuid.UUID,
	taskIDs []int64,
) ([]int64, error) {
	if len(taskIDs) == 0 {
		return nil, nil
	}

	query := `
		UPDATE tasks
		SET group_id = $1, is_batched = TRUE, updated_at = $2
		WHERE id = ANY($3) AND user_id = $4 AND group_id IS NULL
		RETURNING id
	`

	rows, err := s.db.QueryContext(ctx, query, groupID, time.Now().UTC(), taskIDs, userID)
	if err != nil {
		return nil, store.NewStoreError("task", "claim_for_group", "update failed", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var claimed []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, store.NewStoreError("task", "claim_for_group", "scan failed", err)
		}
		claimed = append(claimed, id)
	}

	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("task", "claim_for_group", "row iteration failed", err)
	}

	return claimed, nil
}

// ListByGroup implements store.TaskStore.
func (s *TaskStore) ListByGroup(ctx context.Context, groupID int64) ([]*domain.Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks WHERE group_id = $1 ORDER BY id ASC"

	rows, err := s.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, store.NewStoreError("task", "list_by_group", "query failed", err)
	}

	return collectTasks(rows)
}

// RemoveFromGroup implements store.TaskStore.
func (s *TaskStore) RemoveFromGroup(ctx context.Context, id int64, userID uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET group_id = NULL, is_batched = FALSE, updated_at = $1
		WHERE id = $2 AND user_id = $3`,
		time.Now().UTC(), id, userID)
	if err != nil {
		return store.NewStoreError("task", "remove_from_group", "update failed", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return store.NewStoreError("task", "remove_from_group", "rows affected failed", err)
	}
	if rows == 0 {
		return store.ErrTaskNotFound
	}

	return nil
}

// ClearGroup implements store.TaskStore.
func (s *TaskStore) ClearGroup(ctx context.Context, groupID int64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET group_id = NULL, is_batched = FALSE, updated_at = $1
		WHERE group_id = $2`,
		time.Now().UTC(), groupID)
	if err != nil {
		return store.NewStoreError("task", "clear_group", "update failed", err)
	}

	return nil
}
