package service

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"taskpilot/internal/domain"
	"taskpilot/internal/store"
)

// mockTaskStore is a testify mock for store.TaskStore.
type mockTaskStore struct {
	mock.Mock
}

func (m *mockTaskStore) FindByUser(ctx context.Context, userID uuid.UUID, filter store.TaskFilter) ([]*domain.Task, error) {
	args := m.Called(ctx, userID, filter)
	if tasks := args.Get(0); tasks != nil {
		return tasks.([]*domain.Task), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTaskStore) GetByID(ctx context.Context, id int64, userID uuid.UUID) (*domain.Task, error) {
	args := m.Called(ctx, id, userID)
	if task := args.Get(0); task != nil {
		return task.(*domain.Task), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTaskStore) FindByTitle(ctx context.Context, userID uuid.UUID, title string) (*domain.Task, error) {
	args := m.Called(ctx, userID, title)
	if task := args.Get(0); task != nil {
		return task.(*domain.Task), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *mockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *mockTaskStore) Delete(ctx context.Context, id int64, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *mockTaskStore) UpdatePriority(ctx context.Context, id int64, userID uuid.UUID, priority domain.TaskPriority) error {
	args := m.Called(ctx, id, userID, priority)
	return args.Error(0)
}

func (m *mockTaskStore) AppendDependencies(ctx context.Context, taskID int64, depIDs []int64) error {
	args := m.Called(ctx, taskID, depIDs)
	return args.Error(0)
}

func (m *mockTaskStore) ClaimForGroup(ctx context.Context, groupID int64, userID uuid.UUID, taskIDs []int64) ([]int64, error) {
	args := m.Called(ctx, groupID, userID, taskIDs)
	if ids := args.Get(0); ids != nil {
		return ids.([]int64), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTaskStore) ListByGroup(ctx context.Context, groupID int64) ([]*domain.Task, error) {
	args := m.Called(ctx, groupID)
	if tasks := args.Get(0); tasks != nil {
		return tasks.([]*domain.Task), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTaskStore) RemoveFromGroup(ctx context.Context, id int64, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *mockTaskStore) ClearGroup(ctx context.Context, groupID int64) error {
	args := m.Called(ctx, groupID)
	return args.Error(0)
}

func (m *mockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return m
}

// mockTaskGroupStore is a testify mock for store.TaskGroupStore.
type mockTaskGroupStore struct {
	mock.Mock
}

func (m *mockTaskGroupStore) Create(ctx context.Context, group *domain.TaskGroup) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *mockTaskGroupStore) GetByID(ctx context.Context, id int64, userID uuid.UUID) (*domain.TaskGroup, error) {
	args := m.Called(ctx, id, userID)
	if group := args.Get(0); group != nil {
		return group.(*domain.TaskGroup), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTaskGroupStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.TaskGroup, error) {
	args := m.Called(ctx, userID)
	if groups := args.Get(0); groups != nil {
		return groups.([]*domain.TaskGroup), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTaskGroupStore) Update(ctx context.Context, group *domain.TaskGroup) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *mockTaskGroupStore) Delete(ctx context.Context, id int64, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *mockTaskGroupStore) WithTx(tx *sql.Tx) store.TaskGroupStore {
	return m
}

// mockReasoningClient is a testify mock for reasoning.Client.
type mockReasoningClient struct {
	mock.Mock
}

func (m *mockReasoningClient) Complete(ctx context.Context, systemInstructions string, payload any) (json.RawMessage, error) {
	args := m.Called(ctx, systemInstructions, payload)
	if raw := args.Get(0); raw != nil {
		return raw.(json.RawMessage), args.Error(1)
	}
	return nil, args.Error(1)
}

// stubTxRunner invokes the transactional function directly, with a nil
// transaction. The mock stores ignore their transaction handle, so the
// orchestrator's transactional code paths run unchanged.
type stubTxRunner struct{}

func (stubTxRunner) WithinTransaction(ctx context.Context, fn store.TxFn) error {
	return fn(ctx, nil)
}
