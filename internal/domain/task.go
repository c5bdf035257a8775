package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskType categorizes a task. The set is closed; values coming from
// outside the system (API payloads, reasoning-service suggestions) are
// normalized with NormalizeTaskType before they reach a Task.
type TaskType string

// Possible task type values
const (
	TaskTypeWork          TaskType = "work"
	TaskTypePersonal      TaskType = "personal"
	TaskTypeLearning      TaskType = "learning"
	TaskTypeMeeting       TaskType = "meeting"
	TaskTypeCreative      TaskType = "creative"
	TaskTypeCommunication TaskType = "communication"
	TaskTypeAdmin         TaskType = "admin"
	TaskTypeOther         TaskType = "other"
)

// TaskStatus represents the lifecycle state of a task
type TaskStatus string

// Possible task status values
const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
	TaskStatusBlocked    TaskStatus = "blocked"
	TaskStatusArchived   TaskStatus = "archived"
)

// TaskPriority represents how urgent a task is
type TaskPriority string

// Possible task priority values, lowest to highest
const (
	TaskPriorityLow      TaskPriority = "low"
	TaskPriorityMedium   TaskPriority = "medium"
	TaskPriorityHigh     TaskPriority = "high"
	TaskPriorityCritical TaskPriority = "critical"
)

// Common validation errors for Task
var (
	ErrEmptyTaskUserID = errors.New("task user ID cannot be empty")
	ErrEmptyTaskTitle  = errors.New("task title cannot be empty")
)

// Task represents a single unit of work owned by exactly one user.
// Dependencies is the informational set of tasks this task depends on;
// it never contains the task itself. GroupID is exclusive: a task
// belongs to at most one group at a time.
type Task struct {
	ID                int64        `json:"id"`
	UserID            uuid.UUID    `json:"user_id"`
	Title             string       `json:"title"`
	Description       string       `json:"description"`
	Type              TaskType     `json:"type"`
	Status            TaskStatus   `json:"status"`
	Priority          TaskPriority `json:"priority"`
	DueDate           *time.Time   `json:"due_date,omitempty"`
	EstimatedDuration *int         `json:"estimated_duration,omitempty"`
	IsBatchable       bool         `json:"is_batchable"`
	IsBatched         bool         `json:"is_batched"`
	GroupID           *int64       `json:"group_id,omitempty"`
	Dependencies      []*Task      `json:"dependencies,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// NewTask creates a new Task with the given owner and title and sensible
// defaults (type other, status todo, priority medium). The ID is assigned
// by the store on creation. Returns an error if validation fails.
func NewTask(userID uuid.UUID, title string) (*Task, error) {
	task := &Task{
		UserID:    userID,
		Title:     title,
		Type:      TaskTypeOther,
		Status:    TaskStatusTodo,
		Priority:  TaskPriorityMedium,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.UserID == uuid.Nil {
		return ErrEmptyTaskUserID
	}

	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTaskTitle
	}

	if !IsValidTaskType(t.Type) {
		return ErrInvalidTaskType
	}

	if !IsValidTaskStatus(t.Status) {
		return ErrInvalidTaskStatus
	}

	if !IsValidTaskPriority(t.Priority) {
		return ErrInvalidTaskPriority
	}

	for _, dep := range t.Dependencies {
		if dep != nil && dep.ID != 0 && dep.ID == t.ID {
			return ErrSelfDependency
		}
	}

	return nil
}

// DependsOn reports whether the task's dependency set already contains
// the given task ID.
func (t *Task) DependsOn(id int64) bool {
	for _, dep := range t.Dependencies {
		if dep != nil && dep.ID == id {
			return true
		}
	}
	return false
}

// EstimatedMinutes returns the task's estimated duration, falling back
// to the given default when no estimate is set.
func (t *Task) EstimatedMinutes(fallback int) int {
	if t.EstimatedDuration == nil || *t.EstimatedDuration <= 0 {
		return fallback
	}
	return *t.EstimatedDuration
}

// IsValidTaskType checks if the given type is a valid TaskType.
func IsValidTaskType(t TaskType) bool {
	switch t {
	case TaskTypeWork, TaskTypePersonal, TaskTypeLearning, TaskTypeMeeting,
		TaskTypeCreative, TaskTypeCommunication, TaskTypeAdmin, TaskTypeOther:
		return true
	default:
		return false
	}
}

// IsValidTaskStatus checks if the given status is a valid TaskStatus.
func IsValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone,
		TaskStatusBlocked, TaskStatusArchived:
		return true
	default:
		return false
	}
}

// IsValidTaskPriority checks if the given priority is a valid TaskPriority.
func IsValidTaskPriority(p TaskPriority) bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityCritical:
		return true
	default:
		return false
	}
}

// NormalizeTaskType maps an arbitrary string onto the TaskType
// enumeration, returning TaskTypeOther for anything unrecognized.
// Reasoning-service suggestions routinely invent types (for example
// "research" or "preparation"), so unknown values degrade rather than fail.
func NormalizeTaskType(s string) TaskType {
	t := TaskType(strings.ToLower(strings.TrimSpace(s)))
	if IsValidTaskType(t) {
		return t
	}
	return TaskTypeOther
}

// NormalizeTaskPriority maps an arbitrary string onto the TaskPriority
// enumeration, returning the given default for anything unrecognized.
func NormalizeTaskPriority(s string, fallback TaskPriority) TaskPriority {
	p := TaskPriority(strings.ToLower(strings.TrimSpace(s)))
	if IsValidTaskPriority(p) {
		return p
	}
	return fallback
}

// PriorityRank returns a numeric rank for a priority, higher meaning
// more urgent. Unknown priorities rank lowest.
func PriorityRank(p TaskPriority) int {
	switch p {
	case TaskPriorityCritical:
		return 4
	case TaskPriorityHigh:
		return 3
	case TaskPriorityMedium:
		return 2
	case TaskPriorityLow:
		return 1
	default:
		return 0
	}
}
