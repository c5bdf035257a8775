package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"taskpilot/internal/api/middleware"
	"taskpilot/internal/api/shared"
	"taskpilot/internal/domain"
	"taskpilot/internal/service"
)

// TaskHandler handles task, group, and orchestration API requests.
type TaskHandler struct {
	tasks        service.TaskService
	orchestrator service.TaskOrchestrator
	validator    *validator.Validate
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(tasks service.TaskService, orchestrator service.TaskOrchestrator) *TaskHandler {
	return &TaskHandler{
		tasks:        tasks,
		orchestrator: orchestrator,
		validator:    validator.New(),
	}
}

// userID pulls the authenticated user from the request context. The
// auth middleware guarantees it is present on these routes.
func (h *TaskHandler) userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, false
	}
	return userID, true
}

// pathID parses the named numeric URL parameter.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// respondServiceError maps a service error onto its HTTP shape and logs it.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
}

// CreateTask handles POST /tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	task, err := h.tasks.CreateTask(r.Context(), userID, service.CreateTaskInput{
		Title:             req.Title,
		Description:       req.Description,
		Type:              domain.TaskType(req.Type),
		Priority:          domain.TaskPriority(req.Priority),
		DueDate:           req.DueDate,
		EstimatedDuration: req.EstimatedDuration,
		IsBatchable:       req.IsBatchable,
		DependencyIDs:     req.DependencyIDs,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, task)
}

// ListTasks handles GET /tasks.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	tasks, err := h.tasks.ListTasks(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, tasks)
}

// GetTask handles GET /tasks/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	task, err := h.tasks.GetTask(r.Context(), userID, id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// UpdateTask handles PATCH /tasks/{id}.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	input := service.UpdateTaskInput{
		Title:             req.Title,
		Description:       req.Description,
		DueDate:           req.DueDate,
		ClearDueDate:      req.ClearDueDate,
		EstimatedDuration: req.EstimatedDuration,
		IsBatchable:       req.IsBatchable,
	}
	if req.Type != nil {
		t := domain.TaskType(*req.Type)
		input.Type = &t
	}
	if req.Status != nil {
		s := domain.TaskStatus(*req.Status)
		input.Status = &s
	}
	if req.Priority != nil {
		p := domain.TaskPriority(*req.Priority)
		input.Priority = &p
	}

	task, err := h.tasks.UpdateTask(r.Context(), userID, id, input)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// DeleteTask handles DELETE /tasks/{id}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.tasks.DeleteTask(r.Context(), userID, id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusNoContent, nil)
}

// ChangeStatus handles PATCH /tasks/{id}/status.
func (h *TaskHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req ChangeStatusRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	task, err := h.tasks.ChangeStatus(r.Context(), userID, id, domain.TaskStatus(req.Status))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// BatchTasks handles POST /tasks/batch.
func (h *TaskHandler) BatchTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	groups, err := h.orchestrator.BatchSimilarTasks(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, groups)
}

// InferDependencies handles POST /tasks/{id}/dependencies/infer.
func (h *TaskHandler) InferDependencies(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	task, err := h.orchestrator.InferDependencies(r.Context(), userID, id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// PrioritizeTasks handles POST /tasks/prioritize.
func (h *TaskHandler) PrioritizeTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	tasks, err := h.orchestrator.PrioritizeTasks(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, tasks)
}

// PomodoroSchedule handles GET /tasks/pomodoro.
func (h *TaskHandler) PomodoroSchedule(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	schedule, err := h.orchestrator.BuildPomodoroSchedule(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, NewPomodoroScheduleResponse(schedule))
}

// CreateGroup handles POST /groups.
func (h *TaskHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req GroupRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	group, err := h.tasks.CreateGroup(r.Context(), userID, req.Name, req.Description)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, group)
}

// ListGroups handles GET /groups.
func (h *TaskHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	groups, err := h.tasks.ListGroups(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, groups)
}

// GetGroup handles GET /groups/{id}.
func (h *TaskHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	group, err := h.tasks.GetGroup(r.Context(), userID, id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, group)
}

// UpdateGroup handles PATCH /groups/{id}.
func (h *TaskHandler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req GroupRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	group, err := h.tasks.UpdateGroup(r.Context(), userID, id, req.Name, req.Description)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, group)
}

// DeleteGroup handles DELETE /groups/{id}.
func (h *TaskHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.tasks.DeleteGroup(r.Context(), userID, id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusNoContent, nil)
}

// AddTaskToGroup handles POST /groups/{id}/tasks.
func (h *TaskHandler) AddTaskToGroup(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	groupID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req AddTaskToGroupRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	task, err := h.tasks.AddTaskToGroup(r.Context(), userID, groupID, req.TaskID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// RemoveTaskFromGroup handles DELETE /tasks/{id}/group.
func (h *TaskHandler) RemoveTaskFromGroup(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	task, err := h.tasks.RemoveTaskFromGroup(r.Context(), userID, id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, task)
}
