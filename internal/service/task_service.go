package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"taskpilot/internal/domain"
	"taskpilot/internal/store"
)

// CreateTaskInput carries the fields accepted when creating a task.
// Zero-valued enum fields take the domain defaults.
type CreateTaskInput struct {
	Title             string
	Description       string
	Type              domain.TaskType
	Priority          domain.TaskPriority
	DueDate           *time.Time
	EstimatedDuration *int
	IsBatchable       bool
	DependencyIDs     []int64
}

// UpdateTaskInput carries a partial task update. Nil fields are left
// unchanged.
type UpdateTaskInput struct {
	Title             *string
	Description       *string
	Type              *domain.TaskType
	Status            *domain.TaskStatus
	Priority          *domain.TaskPriority
	DueDate           *time.Time
	ClearDueDate      bool
	EstimatedDuration *int
	IsBatchable       *bool
}

// TaskService exposes plain task and group management, without any
// reasoning involvement.
type TaskService interface {
	CreateTask(ctx context.Context, userID uuid.UUID, input CreateTaskInput) (*domain.Task, error)
	ListTasks(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)
	GetTask(ctx context.Context, userID uuid.UUID, id int64) (*domain.Task, error)
	UpdateTask(ctx context.Context, userID uuid.UUID, id int64, input UpdateTaskInput) (*domain.Task, error)
	DeleteTask(ctx context.Context, userID uuid.UUID, id int64) error
	ChangeStatus(ctx context.Context, userID uuid.UUID, id int64, status domain.TaskStatus) (*domain.Task, error)

	CreateGroup(ctx context.Context, userID uuid.UUID, name, description string) (*domain.TaskGroup, error)
	ListGroups(ctx context.Context, userID uuid.UUID) ([]*domain.TaskGroup, error)
	GetGroup(ctx context.Context, userID uuid.UUID, id int64) (*domain.TaskGroup, error)
	UpdateGroup(ctx context.Context, userID uuid.UUID, id int64, name, description string) (*domain.TaskGroup, error)
	DeleteGroup(ctx context.Context, userID uuid.UUID, id int64) error
	AddTaskToGroup(ctx context.Context, userID uuid.UUID, groupID, taskID int64) (*domain.Task, error)
	RemoveTaskFromGroup(ctx context.Context, userID uuid.UUID, taskID int64) (*domain.Task, error)
}

// Tasks implements TaskService against the store interfaces.
type Tasks struct {
	logger *slog.Logger
	tasks  store.TaskStore
	groups store.TaskGroupStore
	tx     store.TxRunner
}

var _ TaskService = (*Tasks)(nil)

// NewTaskService creates a Tasks service with its dependencies.
func NewTaskService(logger *slog.Logger, tasks store.TaskStore, groups store.TaskGroupStore, tx store.TxRunner) *Tasks {
	return &Tasks{
		logger: logger.With(slog.String("component", "task_service")),
		tasks:  tasks,
		groups: groups,
		tx:     tx,
	}
}

// CreateTask implements TaskService. Declared dependency IDs must refer
// to tasks the user owns; the task and its dependency edges are written
// in one transaction.
func (s *Tasks) CreateTask(ctx context.Context, userID uuid.UUID, input CreateTaskInput) (*domain.Task, error) {
	task, err := domain.NewTask(userID, input.Title)
	if err != nil {
		return nil, NewTaskServiceError("create_task", "invalid task", err)
	}

	task.Description = input.Description
	if input.Type != "" {
		task.Type = input.Type
	}
	if input.Priority != "" {
		task.Priority = input.Priority
	}
	task.DueDate = input.DueDate
	task.EstimatedDuration = input.EstimatedDuration
	task.IsBatchable = input.IsBatchable

	if err := task.Validate(); err != nil {
		return nil, NewTaskServiceError("create_task", "invalid task", err)
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		taskStore := s.tasks.WithTx(tx)

		if err := taskStore.Create(ctx, task); err != nil {
			return err
		}

		if len(input.DependencyIDs) == 0 {
			return nil
		}
		for _, depID := range input.DependencyIDs {
			dep, err := taskStore.GetByID(ctx, depID, userID)
			if err != nil {
				return err
			}
			task.Dependencies = append(task.Dependencies, dep)
		}
		return taskStore.AppendDependencies(ctx, task.ID, input.DependencyIDs)
	})
	if err != nil {
		return nil, NewTaskServiceError("create_task", "failed to persist task", err)
	}

	return task, nil
}

// ListTasks implements TaskService.
func (s *Tasks) ListTasks(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	tasks, err := s.tasks.FindByUser(ctx, userID, store.TaskFilter{})
	if err != nil {
		return nil, NewTaskServiceError("list_tasks", "failed to list tasks", err)
	}
	return tasks, nil
}

// GetTask implements TaskService.
func (s *Tasks) GetTask(ctx context.Context, userID uuid.UUID, id int64) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id, userID)
	if err != nil {
		return nil, NewTaskServiceError("get_task", "failed to load task", err)
	}
	return task, nil
}

// UpdateTask implements TaskService.
func (s *Tasks) UpdateTask(ctx context.Context, userID uuid.UUID, id int64, input UpdateTaskInput) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id, userID)
	if err != nil {
		return nil, NewTaskServiceError("update_task", "failed to load task", err)
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Type != nil {
		task.Type = *input.Type
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.EstimatedDuration != nil {
		task.EstimatedDuration = input.EstimatedDuration
	}
	if input.IsBatchable != nil {
		task.IsBatchable = *input.IsBatchable
	}

	if err := task.Validate(); err != nil {
		return nil, NewTaskServiceError("update_task", "invalid task", err)
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, NewTaskServiceError("update_task", "failed to persist task", err)
	}
	return task, nil
}

// DeleteTask implements TaskService.
func (s *Tasks) DeleteTask(ctx context.Context, userID uuid.UUID, id int64) error {
	if err := s.tasks.Delete(ctx, id, userID); err != nil {
		return NewTaskServiceError("delete_task", "failed to delete task", err)
	}
	return nil
}

// ChangeStatus implements TaskService.
func (s *Tasks) ChangeStatus(ctx context.Context, userID uuid.UUID, id int64, status domain.TaskStatus) (*domain.Task, error) {
	if !domain.IsValidTaskStatus(status) {
		return nil, NewTaskServiceError("change_status", "invalid status", domain.ErrInvalidTaskStatus)
	}

	task, err := s.tasks.GetByID(ctx, id, userID)
	if err != nil {
		return nil, NewTaskServiceError("change_status", "failed to load task", err)
	}

	task.Status = status
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, NewTaskServiceError("change_status", "failed to persist task", err)
	}
	return task, nil
}

// CreateGroup implements TaskService.
func (s *Tasks) CreateGroup(ctx context.Context, userID uuid.UUID, name, description string) (*domain.TaskGroup, error) {
	group, err := domain.NewTaskGroup(userID, name)
	if err != nil {
		return nil, NewTaskServiceError("create_group", "invalid group", err)
	}
	group.Description = description

	if err := s.groups.Create(ctx, group); err != nil {
		return nil, NewTaskServiceError("create_group", "failed to persist group", err)
	}
	return group, nil
}

// ListGroups implements TaskService.
func (s *Tasks) ListGroups(ctx context.Context, userID uuid.UUID) ([]*domain.TaskGroup, error) {
	groups, err := s.groups.ListByUser(ctx, userID)
	if err != nil {
		return nil, NewTaskServiceError("list_groups", "failed to list groups", err)
	}
	return groups, nil
}

// GetGroup implements TaskService. The group comes back with its member
// tasks loaded.
func (s *Tasks) GetGroup(ctx context.Context, userID uuid.UUID, id int64) (*domain.TaskGroup, error) {
	group, err := s.groups.GetByID(ctx, id, userID)
	if err != nil {
		return nil, NewTaskServiceError("get_group", "failed to load group", err)
	}

	tasks, err := s.tasks.ListByGroup(ctx, group.ID)
	if err != nil {
		return nil, NewTaskServiceError("get_group", "failed to load group tasks", err)
	}
	group.Tasks = tasks
	return group, nil
}

// UpdateGroup implements TaskService.
func (s *Tasks) UpdateGroup(ctx context.Context, userID uuid.UUID, id int64, name, description string) (*domain.TaskGroup, error) {
	group, err := s.groups.GetByID(ctx, id, userID)
	if err != nil {
		return nil, NewTaskServiceError("update_group", "failed to load group", err)
	}

	group.Name = name
	group.Description = description
	if err := group.Validate(); err != nil {
		return nil, NewTaskServiceError("update_group", "invalid group", err)
	}

	if err := s.groups.Update(ctx, group); err != nil {
		return nil, NewTaskServiceError("update_group", "failed to persist group", err)
	}
	return group, nil
}

// DeleteGroup implements TaskService. Member tasks are detached, not
// deleted; detachment and group removal happen in one transaction.
func (s *Tasks) DeleteGroup(ctx context.Context, userID uuid.UUID, id int64) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		groupStore := s.groups.WithTx(tx)
		taskStore := s.tasks.WithTx(tx)

		// Ownership check before touching member tasks.
		if _, err := groupStore.GetByID(ctx, id, userID); err != nil {
			return err
		}
		if err := taskStore.ClearGroup(ctx, id); err != nil {
			return err
		}
		return groupStore.Delete(ctx, id, userID)
	})
	if err != nil {
		return NewTaskServiceError("delete_group", "failed to delete group", err)
	}
	return nil
}

// AddTaskToGroup implements TaskService. A task already in another
// group moves to the new one.
func (s *Tasks) AddTaskToGroup(ctx context.Context, userID uuid.UUID, groupID, taskID int64) (*domain.Task, error) {
	if _, err := s.groups.GetByID(ctx, groupID, userID); err != nil {
		return nil, NewTaskServiceError("add_task_to_group", "failed to load group", err)
	}

	task, err := s.tasks.GetByID(ctx, taskID, userID)
	if err != nil {
		return nil, NewTaskServiceError("add_task_to_group", "failed to load task", err)
	}

	task.GroupID = &groupID
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, NewTaskServiceError("add_task_to_group", "failed to persist task", err)
	}
	return task, nil
}

// RemoveTaskFromGroup implements TaskService.
func (s *Tasks) RemoveTaskFromGroup(ctx context.Context, userID uuid.UUID, taskID int64) (*domain.Task, error) {
	if err := s.tasks.RemoveFromGroup(ctx, taskID, userID); err != nil {
		return nil, NewTaskServiceError("remove_task_from_group", "failed to detach task", err)
	}

	task, err := s.tasks.GetByID(ctx, taskID, userID)
	if err != nil {
		return nil, NewTaskServiceError("remove_task_from_group", "failed to reload task", err)
	}
	return task, nil
}
