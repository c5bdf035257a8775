package service

import (
	"context"
	"database/sql"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskpilot/internal/domain"
	"taskpilot/internal/reasoning"
	"taskpilot/internal/store"
)

// ScheduledTask is one slot in a pomodoro schedule: a task together
// with the number of work pomodoros allotted to it.
type ScheduledTask struct {
	Task          *domain.Task `json:"task"`
	PomodoroCount int          `json:"pomodoro_count"`
}

// TaskOrchestrator exposes the reasoning-backed operations over a
// user's tasks. Every operation degrades to a deterministic local
// policy when the reasoning service fails or returns an unusable
// response; callers cannot observe reasoning failures as errors.
type TaskOrchestrator interface {
	// BatchSimilarTasks groups the user's batchable, ungrouped tasks
	// into task groups and persists the grouping. Returns the created
	// groups with their member tasks. Tasks grabbed by a concurrent
	// batching run are skipped; a group left with no members is not kept.
	BatchSimilarTasks(ctx context.Context, userID uuid.UUID) ([]*domain.TaskGroup, error)

	// InferDependencies suggests prerequisite tasks for the given task,
	// creates the ones that do not already exist, and links them as
	// dependencies. Re-running it never duplicates tasks or edges.
	// Returns the task with its dependency set reloaded.
	InferDependencies(ctx context.Context, userID uuid.UUID, taskID int64) (*domain.Task, error)

	// PrioritizeTasks reassigns priorities across the user's active
	// tasks and returns them in priority order. On the fallback path no
	// priority is written; the returned order alone reflects urgency.
	PrioritizeTasks(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// BuildPomodoroSchedule produces an ordered pomodoro plan over the
	// user's active tasks. Read-only; nothing is persisted.
	BuildPomodoroSchedule(ctx context.Context, userID uuid.UUID) ([]*ScheduledTask, error)
}

// Orchestrator implements TaskOrchestrator against the store and
// reasoning interfaces.
type Orchestrator struct {
	logger *slog.Logger
	tasks  store.TaskStore
	groups store.TaskGroupStore
	client reasoning.Client
	tx     store.TxRunner
}

// Ensure Orchestrator implements TaskOrchestrator.
var _ TaskOrchestrator = (*Orchestrator)(nil)

// NewOrchestrator creates an Orchestrator with its dependencies.
func NewOrchestrator(
	logger *slog.Logger,
	tasks store.TaskStore,
	groups store.TaskGroupStore,
	client reasoning.Client,
	tx store.TxRunner,
) *Orchestrator {
	return &Orchestrator{
		logger: logger.With(slog.String("component", "task_orchestrator")),
		tasks:  tasks,
		groups: groups,
		client: client,
		tx:     tx,
	}
}

// activeFilter excludes completed tasks from reasoning operations.
// Only done is filtered; blocked and archived tasks still take part.
func activeFilter() store.TaskFilter {
	return store.TaskFilter{
		ExcludeStatuses: []domain.TaskStatus{domain.TaskStatusDone},
	}
}

// BatchSimilarTasks implements TaskOrchestrator.
func (o *Orchestrator) BatchSimilarTasks(ctx context.Context, userID uuid.UUID) ([]*domain.TaskGroup, error) {
	batchable := true
	batched := false
	candidates, err := o.tasks.FindByUser(ctx, userID, store.TaskFilter{
		Batchable:       &batchable,
		Batched:         &batched,
		Ungrouped:       true,
		ExcludeStatuses: []domain.TaskStatus{domain.TaskStatusDone},
	})
	if err != nil {
		return nil, NewTaskServiceError("batch_similar_tasks", "failed to load batchable tasks", err)
	}

	if len(candidates) == 0 {
		return []*domain.TaskGroup{}, nil
	}

	byID := make(map[int64]*domain.Task, len(candidates))
	payload := make([]batchTaskPayload, 0, len(candidates))
	for _, task := range candidates {
		byID[task.ID] = task
		payload = append(payload, batchTaskPayload{
			ID:          task.ID,
			Title:       task.Title,
			Description: task.Description,
			Type:        string(task.Type),
		})
	}

	suggestions := o.suggestGroups(ctx, candidates, payload)

	created := []*domain.TaskGroup{}
	err = o.tx.WithinTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		taskStore := o.tasks.WithTx(tx)
		groupStore := o.groups.WithTx(tx)

		for _, suggestion := range suggestions {
			memberIDs := knownTaskIDs(suggestion.TaskIDs, byID)
			if len(memberIDs) == 0 {
				continue
			}

			name := strings.TrimSpace(suggestion.Name)
			if name == "" {
				name = "task batch"
			}

			group, err := domain.NewTaskGroup(userID, name)
			if err != nil {
				return err
			}
			group.IsBatch = true

			if err := groupStore.Create(ctx, group); err != nil {
				return err
			}

			claimed, err := taskStore.ClaimForGroup(ctx, group.ID, userID, memberIDs)
			if err != nil {
				return err
			}

			// Every member may have been grabbed by a concurrent run
			// between the candidate read and the claim. An empty group
			// is useless, so it does not survive the transaction.
			if len(claimed) == 0 {
				if err := groupStore.Delete(ctx, group.ID, userID); err != nil {
					return err
				}
				continue
			}

			for _, id := range claimed {
				member := byID[id]
				member.GroupID = &group.ID
				member.IsBatched = true
				group.Tasks = append(group.Tasks, member)
			}
			created = append(created, group)
		}

		return nil
	})
	if err != nil {
		return nil, NewTaskServiceError("batch_similar_tasks", "failed to persist task groups", err)
	}

	return created, nil
}

// suggestGroups asks the reasoning service for a grouping and falls
// back to grouping by type on any failure.
func (o *Orchestrator) suggestGroups(ctx context.Context, candidates []*domain.Task, payload []batchTaskPayload) []reasoning.GroupSuggestion {
	raw, err := o.client.Complete(ctx, batchSystemPrompt, map[string]any{"tasks": payload})
	if err != nil {
		o.logger.Warn("reasoning call failed, batching by type",
			slog.String("operation", "batch_similar_tasks"),
			slog.String("error", err.Error()))
		return batchByType(candidates)
	}

	suggestions, err := reasoning.ParseBatchGroups(raw)
	if err != nil {
		o.logger.Warn("unusable grouping response, batching by type",
			slog.String("operation", "batch_similar_tasks"),
			slog.String("error", err.Error()))
		return batchByType(candidates)
	}

	return suggestions
}

// knownTaskIDs filters suggested IDs down to the candidate set,
// dropping hallucinated IDs and duplicates.
func knownTaskIDs(ids []int64, byID map[int64]*domain.Task) []int64 {
	seen := make(map[int64]bool, len(ids))
	known := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := byID[id]; !ok || seen[id] {
			continue
		}
		seen[id] = true
		known = append(known, id)
	}
	return known
}

// InferDependencies implements TaskOrchestrator.
func (o *Orchestrator) InferDependencies(ctx context.Context, userID uuid.UUID, taskID int64) (*domain.Task, error) {
	task, err := o.tasks.GetByID(ctx, taskID, userID)
	if err != nil {
		return nil, NewTaskServiceError("infer_dependencies", "failed to load task", err)
	}

	candidates := o.suggestDependencies(ctx, task)

	err = o.tx.WithinTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		taskStore := o.tasks.WithTx(tx)

		depIDs := make([]int64, 0, len(candidates))
		for _, candidate := range candidates {
			title := strings.TrimSpace(candidate.Title)
			if title == "" || title == task.Title {
				continue
			}

			dep, err := o.resolveDependency(ctx, taskStore, task, candidate, title)
			if err != nil {
				return err
			}
			if dep.ID == task.ID {
				continue
			}
			depIDs = append(depIDs, dep.ID)
		}

		if len(depIDs) == 0 {
			return nil
		}
		return taskStore.AppendDependencies(ctx, task.ID, depIDs)
	})
	if err != nil {
		return nil, NewTaskServiceError("infer_dependencies", "failed to persist dependencies", err)
	}

	updated, err := o.tasks.GetByID(ctx, taskID, userID)
	if err != nil {
		return nil, NewTaskServiceError("infer_dependencies", "failed to reload task", err)
	}
	return updated, nil
}

// suggestDependencies asks the reasoning service for prerequisite
// candidates and falls back to the fixed stub pair on any failure.
func (o *Orchestrator) suggestDependencies(ctx context.Context, task *domain.Task) []reasoning.DependencyCandidate {
	payload := map[string]any{"task": dependencyTaskPayload{
		Title:       task.Title,
		Description: task.Description,
		Type:        string(task.Type),
	}}

	raw, err := o.client.Complete(ctx, dependenciesSystemPrompt, payload)
	if err != nil {
		o.logger.Warn("reasoning call failed, using stub dependencies",
			slog.String("operation", "infer_dependencies"),
			slog.String("error", err.Error()))
		return stubDependencies(task)
	}

	candidates, err := reasoning.ParseDependencyCandidates(raw)
	if err != nil {
		o.logger.Warn("unusable dependency response, using stub dependencies",
			slog.String("operation", "infer_dependencies"),
			slog.String("error", err.Error()))
		return stubDependencies(task)
	}

	return candidates
}

// resolveDependency finds the user's existing task with the candidate
// title or creates a new one from the candidate. Suggested type and
// priority strings are free-form and get normalized onto the enums.
func (o *Orchestrator) resolveDependency(
	ctx context.Context,
	taskStore store.TaskStore,
	parent *domain.Task,
	candidate reasoning.DependencyCandidate,
	title string,
) (*domain.Task, error) {
	existing, err := taskStore.FindByTitle(ctx, parent.UserID, title)
	if err == nil {
		return existing, nil
	}
	if !store.IsNotFoundError(err) {
		return nil, err
	}

	dep, err := domain.NewTask(parent.UserID, title)
	if err != nil {
		return nil, err
	}
	dep.Description = candidate.Description
	dep.Type = domain.NormalizeTaskType(candidate.Type)
	dep.Priority = domain.NormalizeTaskPriority(candidate.Priority, domain.TaskPriorityMedium)

	if err := taskStore.Create(ctx, dep); err != nil {
		return nil, err
	}
	return dep, nil
}

// PrioritizeTasks implements TaskOrchestrator.
func (o *Orchestrator) PrioritizeTasks(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	tasks, err := o.tasks.FindByUser(ctx, userID, activeFilter())
	if err != nil {
		return nil, NewTaskServiceError("prioritize_tasks", "failed to load tasks", err)
	}

	if len(tasks) == 0 {
		return []*domain.Task{}, nil
	}

	byID := make(map[int64]*domain.Task, len(tasks))
	payload := make([]prioritizeTaskPayload, 0, len(tasks))
	for _, task := range tasks {
		byID[task.ID] = task

		var due *string
		if task.DueDate != nil {
			formatted := task.DueDate.Format(time.RFC3339)
			due = &formatted
		}
		payload = append(payload, prioritizeTaskPayload{
			ID:              task.ID,
			Title:           task.Title,
			Description:     task.Description,
			Type:            string(task.Type),
			CurrentPriority: string(task.Priority),
			DueDate:         due,
		})
	}

	assignments, ok := o.suggestPriorities(ctx, payload)
	if !ok {
		// Fallback: urgency shows only in the returned order, stored
		// priorities stay exactly as the user set them. The result
		// still covers every task, so the urgency-sorted working set
		// is followed by the completed tasks it skipped.
		all, err := o.tasks.FindByUser(ctx, userID, store.TaskFilter{})
		if err != nil {
			return nil, NewTaskServiceError("prioritize_tasks", "failed to reload tasks", err)
		}

		ordered := sortByUrgency(tasks)
		for _, task := range all {
			if _, known := byID[task.ID]; !known {
				ordered = append(ordered, task)
			}
		}
		return ordered, nil
	}

	err = o.tx.WithinTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		taskStore := o.tasks.WithTx(tx)

		for _, assignment := range assignments {
			task, known := byID[assignment.ID]
			if !known {
				continue
			}

			priority := domain.NormalizeTaskPriority(assignment.Priority, task.Priority)
			if priority == task.Priority {
				continue
			}

			if err := taskStore.UpdatePriority(ctx, task.ID, userID, priority); err != nil {
				return err
			}
			task.Priority = priority
		}
		return nil
	})
	if err != nil {
		return nil, NewTaskServiceError("prioritize_tasks", "failed to persist priorities", err)
	}

	// The read-back covers the user's whole task list, completed tasks
	// included, even though only the working set was reprioritized.
	ordered, err := o.tasks.FindByUser(ctx, userID, store.TaskFilter{OrderByPriority: true})
	if err != nil {
		return nil, NewTaskServiceError("prioritize_tasks", "failed to reload tasks", err)
	}
	return ordered, nil
}

// suggestPriorities asks the reasoning service for priority
// assignments. The second return is false when the fallback ordering
// should be used instead.
func (o *Orchestrator) suggestPriorities(ctx context.Context, payload []prioritizeTaskPayload) ([]reasoning.PriorityAssignment, bool) {
	raw, err := o.client.Complete(ctx, prioritizeSystemPrompt, map[string]any{"tasks": payload})
	if err != nil {
		o.logger.Warn("reasoning call failed, sorting by urgency",
			slog.String("operation", "prioritize_tasks"),
			slog.String("error", err.Error()))
		return nil, false
	}

	assignments, err := reasoning.ParsePriorityAssignments(raw)
	if err != nil {
		o.logger.Warn("unusable prioritization response, sorting by urgency",
			slog.String("operation", "prioritize_tasks"),
			slog.String("error", err.Error()))
		return nil, false
	}

	return assignments, true
}

// BuildPomodoroSchedule implements TaskOrchestrator.
func (o *Orchestrator) BuildPomodoroSchedule(ctx context.Context, userID uuid.UUID) ([]*ScheduledTask, error) {
	tasks, err := o.tasks.FindByUser(ctx, userID, activeFilter())
	if err != nil {
		return nil, NewTaskServiceError("build_pomodoro_schedule", "failed to load tasks", err)
	}

	if len(tasks) == 0 {
		return []*ScheduledTask{}, nil
	}

	byID := make(map[int64]*domain.Task, len(tasks))
	payload := make([]pomodoroTaskPayload, 0, len(tasks))
	for _, task := range tasks {
		byID[task.ID] = task
		payload = append(payload, pomodoroTaskPayload{
			ID:       task.ID,
			Title:    task.Title,
			Priority: string(task.Priority),
			Type:     string(task.Type),
			Duration: task.EstimatedMinutes(DefaultEstimatedMinutes),
		})
	}

	entries, ok := o.suggestSchedule(ctx, payload)
	if !ok {
		return greedySchedule(tasks), nil
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Order < entries[j].Order
	})

	schedule := make([]*ScheduledTask, 0, len(entries))
	for _, entry := range entries {
		task, known := byID[entry.TaskID]
		if !known {
			continue
		}

		// A missing or non-positive count defaults to a single
		// pomodoro; the model's sizing is not second-guessed from the
		// duration estimate.
		count := entry.PomodoroCount
		if count < 1 {
			count = 1
		}
		schedule = append(schedule, &ScheduledTask{Task: task, PomodoroCount: count})
	}

	if len(schedule) == 0 {
		o.logger.Warn("schedule response matched no tasks, using greedy schedule",
			slog.String("operation", "build_pomodoro_schedule"))
		return greedySchedule(tasks), nil
	}

	return schedule, nil
}

// suggestSchedule asks the reasoning service for a pomodoro plan. The
// second return is false when the greedy fallback should be used.
func (o *Orchestrator) suggestSchedule(ctx context.Context, payload []pomodoroTaskPayload) ([]reasoning.ScheduleEntry, bool) {
	raw, err := o.client.Complete(ctx, pomodoroSystemPrompt, map[string]any{"tasks": payload})
	if err != nil {
		o.logger.Warn("reasoning call failed, using greedy schedule",
			slog.String("operation", "build_pomodoro_schedule"),
			slog.String("error", err.Error()))
		return nil, false
	}

	entries, err := reasoning.ParsePomodoroPlan(raw)
	if err != nil {
		o.logger.Warn("unusable schedule response, using greedy schedule",
			slog.String("operation", "build_pomodoro_schedule"),
			slog.String("error", err.Error()))
		return nil, false
	}

	return entries, true
}
