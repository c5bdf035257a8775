package service

import (
	"errors"
	"fmt"

	"taskpilot/internal/store"
)

// Sentinel errors surfaced to callers of the service layer. Reasoning
// failures are deliberately absent: they never leave this layer.
var (
	// ErrTaskNotFound indicates the task does not exist or is not owned
	// by the requesting user.
	ErrTaskNotFound = errors.New("task not found")

	// ErrTaskGroupNotFound indicates the group does not exist or is not
	// owned by the requesting user.
	ErrTaskGroupNotFound = errors.New("task group not found")

	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials indicates a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// TaskServiceError wraps errors from the task services with context.
type TaskServiceError struct {
	// Operation is the operation that failed (e.g., "batch_similar_tasks")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// NewTaskServiceError wraps an error with operation context. Store-level
// not-found errors are mapped onto the service-level sentinels so
// callers never depend on store internals.
func NewTaskServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrTaskNotFound) || errors.Is(err, ErrTaskGroupNotFound) {
		return err
	}

	if errors.Is(err, store.ErrTaskNotFound) {
		return ErrTaskNotFound
	}
	if errors.Is(err, store.ErrTaskGroupNotFound) {
		return ErrTaskGroupNotFound
	}

	return &TaskServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
