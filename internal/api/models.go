package api

import (
	"time"

	"github.com/google/uuid"

	"taskpilot/internal/domain"
	"taskpilot/internal/service"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID uuid.UUID `json:"user_id"`
	Token  string    `json:"token"`
}

// CreateTaskRequest defines the payload for task creation.
type CreateTaskRequest struct {
	Title             string     `json:"title"              validate:"required,max=500"`
	Description       string     `json:"description"        validate:"max=5000"`
	Type              string     `json:"type"               validate:"omitempty,oneof=work personal learning meeting creative communication admin other"`
	Priority          string     `json:"priority"           validate:"omitempty,oneof=low medium high critical"`
	DueDate           *time.Time `json:"due_date"`
	EstimatedDuration *int       `json:"estimated_duration" validate:"omitempty,gt=0"`
	IsBatchable       bool       `json:"is_batchable"`
	DependencyIDs     []int64    `json:"dependency_ids"     validate:"omitempty,dive,gt=0"`
}

// UpdateTaskRequest defines the payload for a partial task update.
// Omitted fields keep their current values.
type UpdateTaskRequest struct {
	Title             *string    `json:"title"              validate:"omitempty,max=500"`
	Description       *string    `json:"description"        validate:"omitempty,max=5000"`
	Type              *string    `json:"type"               validate:"omitempty,oneof=work personal learning meeting creative communication admin other"`
	Status            *string    `json:"status"             validate:"omitempty,oneof=todo in_progress done blocked archived"`
	Priority          *string    `json:"priority"           validate:"omitempty,oneof=low medium high critical"`
	DueDate           *time.Time `json:"due_date"`
	ClearDueDate      bool       `json:"clear_due_date"`
	EstimatedDuration *int       `json:"estimated_duration" validate:"omitempty,gt=0"`
	IsBatchable       *bool      `json:"is_batchable"`
}

// ChangeStatusRequest defines the payload for the status transition endpoint.
type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=todo in_progress done blocked archived"`
}

// GroupRequest defines the payload for group creation and update.
type GroupRequest struct {
	Name        string `json:"name"        validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

// AddTaskToGroupRequest defines the payload for adding a task to a group.
type AddTaskToGroupRequest struct {
	TaskID int64 `json:"task_id" validate:"required,gt=0"`
}

// ScheduleEntryResponse is one slot in a pomodoro schedule response.
type ScheduleEntryResponse struct {
	Task          *domain.Task `json:"task"`
	PomodoroCount int          `json:"pomodoro_count"`
	WorkMinutes   int          `json:"work_minutes"`
	BreakMinutes  int          `json:"break_minutes"`
}

// PomodoroScheduleResponse defines the response for the schedule endpoint.
type PomodoroScheduleResponse struct {
	Schedule          []ScheduleEntryResponse `json:"schedule"`
	TotalWorkMinutes  int                     `json:"total_work_minutes"`
	TotalBreakMinutes int                     `json:"total_break_minutes"`
}

// NewPomodoroScheduleResponse converts a schedule into its API shape,
// attaching the work/break split and totals so clients need not know
// the pomodoro constants.
func NewPomodoroScheduleResponse(schedule []*service.ScheduledTask) PomodoroScheduleResponse {
	resp := PomodoroScheduleResponse{
		Schedule: make([]ScheduleEntryResponse, 0, len(schedule)),
	}
	for _, entry := range schedule {
		resp.Schedule = append(resp.Schedule, ScheduleEntryResponse{
			Task:          entry.Task,
			PomodoroCount: entry.PomodoroCount,
			WorkMinutes:   entry.PomodoroCount * service.PomodoroWorkMinutes,
			BreakMinutes:  entry.PomodoroCount * service.PomodoroBreakMinutes,
		})
		resp.TotalWorkMinutes += entry.PomodoroCount * service.PomodoroWorkMinutes
		resp.TotalBreakMinutes += entry.PomodoroCount * service.PomodoroBreakMinutes
	}
	return resp
}
