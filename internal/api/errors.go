package api

import (
	"errors"
	"net/http"

	"taskpilot/internal/domain"
	"taskpilot/internal/service"
	"taskpilot/internal/service/auth"
	"taskpilot/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes so
// handlers never leak internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, service.ErrTaskGroupNotFound),
		errors.Is(err, store.ErrUserNotFound):
		return http.StatusNotFound

	case errors.Is(err, store.ErrEmailExists),
		errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict

	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrEmptyTaskTitle),
		errors.Is(err, domain.ErrEmptyGroupName),
		errors.Is(err, domain.ErrInvalidTaskType),
		errors.Is(err, domain.ErrInvalidTaskStatus),
		errors.Is(err, domain.ErrInvalidTaskPriority),
		errors.Is(err, domain.ErrSelfDependency):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-facing message for the
// given error.
func GetSafeErrorMessage(err error) string {
	switch {
	case err == nil:
		return "An unexpected error occurred"

	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken):
		return "Invalid token"
	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid credentials"

	case errors.Is(err, service.ErrTaskNotFound):
		return "Task not found"
	case errors.Is(err, service.ErrTaskGroupNotFound):
		return "Task group not found"
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrEmailExists),
		errors.Is(err, service.ErrEmailTaken):
		return "Email already exists"

	case errors.Is(err, domain.ErrSelfDependency):
		return "A task cannot depend on itself"

	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrEmptyTaskTitle),
		errors.Is(err, domain.ErrEmptyGroupName),
		errors.Is(err, domain.ErrInvalidTaskType),
		errors.Is(err, domain.ErrInvalidTaskStatus),
		errors.Is(err, domain.ErrInvalidTaskPriority):
		return "Invalid request data"

	default:
		return "An unexpected error occurred"
	}
}
