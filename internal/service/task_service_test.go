package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taskpilot/internal/domain"
	"taskpilot/internal/store"
)

func newTestTaskService(tasks *mockTaskStore, groups *mockTaskGroupStore) *Tasks {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewTaskService(logger, tasks, groups, stubTxRunner{})
}

func TestTaskServiceCreateTask(t *testing.T) {
	userID := uuid.New()

	t.Run("creates task with declared dependencies in one transaction", func(t *testing.T) {
		tasks := new(mockTaskStore)
		groups := new(mockTaskGroupStore)

		dep := newTestTask(t, 5, "existing dep")
		dep.UserID = userID

		tasks.On("Create", mock.Anything, mock.AnythingOfType("*domain.Task")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*domain.Task).ID = 9
			}).
			Return(nil)
		tasks.On("GetByID", mock.Anything, int64(5), userID).Return(dep, nil)
		tasks.On("AppendDependencies", mock.Anything, int64(9), []int64{5}).Return(nil)

		svc := newTestTaskService(tasks, groups)
		task, err := svc.CreateTask(context.Background(), userID, CreateTaskInput{
			Title:         "new task",
			Type:          domain.TaskTypeWork,
			Priority:      domain.TaskPriorityHigh,
			DependencyIDs: []int64{5},
		})

		require.NoError(t, err)
		assert.Equal(t, int64(9), task.ID)
		assert.Equal(t, domain.TaskTypeWork, task.Type)
		assert.Equal(t, domain.TaskPriorityHigh, task.Priority)
		assert.True(t, task.DependsOn(5))
	})

	t.Run("unknown dependency aborts the creation", func(t *testing.T) {
		tasks := new(mockTaskStore)
		groups := new(mockTaskGroupStore)

		tasks.On("Create", mock.Anything, mock.AnythingOfType("*domain.Task")).Return(nil)
		tasks.On("GetByID", mock.Anything, int64(404), userID).
			Return(nil, store.ErrTaskNotFound)

		svc := newTestTaskService(tasks, groups)
		_, err := svc.CreateTask(context.Background(), userID, CreateTaskInput{
			Title:         "new task",
			DependencyIDs: []int64{404},
		})

		assert.ErrorIs(t, err, ErrTaskNotFound)
		tasks.AssertNotCalled(t, "AppendDependencies", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("empty title is rejected before any store call", func(t *testing.T) {
		tasks := new(mockTaskStore)
		groups := new(mockTaskGroupStore)

		svc := newTestTaskService(tasks, groups)
		_, err := svc.CreateTask(context.Background(), userID, CreateTaskInput{Title: "   "})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrEmptyTaskTitle)
		tasks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestTaskServiceUpdateTask(t *testing.T) {
	userID := uuid.New()

	t.Run("applies only the provided fields", func(t *testing.T) {
		tasks := new(mockTaskStore)
		groups := new(mockTaskGroupStore)

		existing := newTestTask(t, 1, "old title")
		existing.UserID = userID
		existing.Description = "keep me"

		tasks.On("GetByID", mock.Anything, int64(1), userID).Return(existing, nil)
		tasks.On("Update", mock.Anything, existing).Return(nil)

		newTitle := "new title"
		status := domain.TaskStatusInProgress
		svc := newTestTaskService(tasks, groups)
		task, err := svc.UpdateTask(context.Background(), userID, 1, UpdateTaskInput{
			Title:  &newTitle,
			Status: &status,
		})

		require.NoError(t, err)
		assert.Equal(t, "new title", task.Title)
		assert.Equal(t, domain.TaskStatusInProgress, task.Status)
		assert.Equal(t, "keep me", task.Description)
	})

	t.Run("missing task maps to the service sentinel", func(t *testing.T) {
		tasks := new(mockTaskStore)
		groups := new(mockTaskGroupStore)
		tasks.On("GetByID", mock.Anything, int64(1), userID).
			Return(nil, store.ErrTaskNotFound)

		svc := newTestTaskService(tasks, groups)
		_, err := svc.UpdateTask(context.Background(), userID, 1, UpdateTaskInput{})

		assert.ErrorIs(t, err, ErrTaskNotFound)
	})
}

func TestTaskServiceChangeStatus(t *testing.T) {
	userID := uuid.New()

	t.Run("rejects unknown status without loading the task", func(t *testing.T) {
		tasks := new(mockTaskStore)
		groups := new(mockTaskGroupStore)

		svc := newTestTaskService(tasks, groups)
		_, err := svc.ChangeStatus(context.Background(), userID, 1, domain.TaskStatus("paused"))

		require.Error(t, err)
		tasks.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("persists the new status", func(t *testing.T) {
		tasks := new(mockTaskStore)
		groups := new(mockTaskGroupStore)

		existing := newTestTask(t, 1, "task")
		existing.UserID = userID
		tasks.On("GetByID", mock.Anything, int64(1), userID).Return(existing, nil)
		tasks.On("Update", mock.Anything, existing).Return(nil)

		svc := newTestTaskService(tasks, groups)
		task, err := svc.ChangeStatus(context.Background(), userID, 1, domain.TaskStatusDone)

		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusDone, task.Status)
	})
}

func TestTaskServiceGroups(t *testing.T) {
	userID := uuid.New()

	t.Run("delete detaches members before removing the group", func(t *testing.T) {
		tasks := new(mockTaskStore)
		groups := new(mockTaskGroupStore)

		group, err := domain.NewTaskGroup(userID, "batch")
		require.NoError(t, err)
		group.ID = 3

		groups.On("GetByID", mock.Anything, int64(3), userID).Return(group, nil)
		tasks.On("ClearGroup", mock.Anything, int64(3)).Return(nil)
		groups.On("Delete", mock.Anything, int64(3), userID).Return(nil)

		svc := newTestTaskService(tasks, groups)
		require.NoError(t, svc.DeleteGroup(context.Background(), userID, 3))

		tasks.AssertCalled(t, "ClearGroup", mock.Anything, int64(3))
		groups.AssertCalled(t, "Delete", mock.Anything, int64(3), userID)
	})

	t.Run("delete of foreign group never touches tasks", func(t *testing.T) {
		tasks := new(mockTaskStore)
		groups := new(mockTaskGroupStore)
		groups.On("GetByID", mock.Anything, int64(3), userID).
			Return(nil, store.ErrTaskGroupNotFound)

		svc := newTestTaskService(tasks, groups)
		err := svc.DeleteGroup(context.Background(), userID, 3)

		assert.ErrorIs(t, err, ErrTaskGroupNotFound)
		tasks.AssertNotCalled(t, "ClearGroup", mock.Anything, mock.Anything)
	})

	t.Run("add task to group moves the task", func(t *testing.T) {
		tasks := new(mockTaskStore)
		groups := new(mockTaskGroupStore)

		group, err := domain.NewTaskGroup(userID, "batch")
		require.NoError(t, err)
		group.ID = 3
		task := newTestTask(t, 7, "member")
		task.UserID = userID

		groups.On("GetByID", mock.Anything, int64(3), userID).Return(group, nil)
		tasks.On("GetByID", mock.Anything, int64(7), userID).Return(task, nil)
		tasks.On("Update", mock.Anything, task).Return(nil)

		svc := newTestTaskService(tasks, groups)
		moved, err := svc.AddTaskToGroup(context.Background(), userID, 3, 7)

		require.NoError(t, err)
		require.NotNil(t, moved.GroupID)
		assert.Equal(t, int64(3), *moved.GroupID)
	})

	t.Run("get group loads member tasks", func(t *testing.T) {
		tasks := new(mockTaskStore)
		groups := new(mockTaskGroupStore)

		group, err := domain.NewTaskGroup(userID, "batch")
		require.NoError(t, err)
		group.ID = 3
		member := newTestTask(t, 7, "member")

		groups.On("GetByID", mock.Anything, int64(3), userID).Return(group, nil)
		tasks.On("ListByGroup", mock.Anything, int64(3)).
			Return([]*domain.Task{member}, nil)

		svc := newTestTaskService(tasks, groups)
		loaded, err := svc.GetGroup(context.Background(), userID, 3)

		require.NoError(t, err)
		require.Len(t, loaded.Tasks, 1)
		assert.Equal(t, int64(7), loaded.Tasks[0].ID)
	})
}
