package service

import (
	"fmt"
	"sort"

	"taskpilot/internal/domain"
	"taskpilot/internal/reasoning"
)

// Pomodoro sizing. One pomodoro unit is PomodoroWorkMinutes of work
// followed by PomodoroBreakMinutes of break; prompts and the greedy
// fallback both derive from these, so the split is defined exactly once.
const (
	PomodoroWorkMinutes  = 35
	PomodoroBreakMinutes = 5

	// DefaultEstimatedMinutes is assumed for tasks without a duration
	// estimate when sizing pomodoro schedules.
	DefaultEstimatedMinutes = 30
)

// The fallback policies below are pure, deterministic functions over
// in-memory task data, with the same output shapes as the reasoning
// operations they replace. They degrade the quality of grouping,
// prioritization, and ordering on reasoning failure, never the
// completeness: every input task stays accounted for.

// batchByType partitions batchable tasks by their type. Each distinct
// type present becomes one group named "<type> tasks batch", ordered by
// first appearance, so the result is stable for a given input order and
// total: every task lands in exactly one group and no group is empty.
func batchByType(tasks []*domain.Task) []reasoning.GroupSuggestion {
	index := make(map[domain.TaskType]int)
	groups := []reasoning.GroupSuggestion{}

	for _, task := range tasks {
		i, ok := index[task.Type]
		if !ok {
			i = len(groups)
			index[task.Type] = i
			groups = append(groups, reasoning.GroupSuggestion{
				Name:    fmt.Sprintf("%s tasks batch", task.Type),
				TaskIDs: []int64{},
			})
		}
		groups[i].TaskIDs = append(groups[i].TaskIDs, task.ID)
	}

	return groups
}

// stubDependencies returns the fixed two-item synthetic dependency list
// used when the reasoning service is unavailable: a research task and a
// preparation task for the target. Generic on purpose; it signals "no
// AI available" rather than imitating AI judgment. The types fall
// outside the task-type enum and get normalized to "other" during
// resolution, like any unrecognized AI-suggested type.
func stubDependencies(task *domain.Task) []reasoning.DependencyCandidate {
	return []reasoning.DependencyCandidate{
		{
			Title:       fmt.Sprintf("Research for %s", task.Title),
			Description: fmt.Sprintf("Initial research needed for %s", task.Title),
			Type:        "research",
			Priority:    string(domain.TaskPriorityMedium),
		},
		{
			Title:       fmt.Sprintf("Prepare materials for %s", task.Title),
			Description: "Gather all required materials",
			Type:        "preparation",
			Priority:    string(domain.TaskPriorityMedium),
		},
	}
}

// sortByUrgency returns the tasks in fallback-priority order: critical
// tasks first; among the rest, tasks with a due date before tasks
// without, ascending by due date; then work-type tasks before non-work;
// remaining ties keep their input order (stable sort), so repeated
// calls never reorder equals.
func sortByUrgency(tasks []*domain.Task) []*domain.Task {
	sorted := make([]*domain.Task, len(tasks))
	copy(sorted, tasks)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]

		aCritical := a.Priority == domain.TaskPriorityCritical
		bCritical := b.Priority == domain.TaskPriorityCritical
		if aCritical != bCritical {
			return aCritical
		}

		switch {
		case a.DueDate != nil && b.DueDate != nil:
			if !a.DueDate.Equal(*b.DueDate) {
				return a.DueDate.Before(*b.DueDate)
			}
		case a.DueDate != nil:
			return true
		case b.DueDate != nil:
			return false
		}

		aWork := a.Type == domain.TaskTypeWork
		bWork := b.Type == domain.TaskTypeWork
		if aWork != bWork {
			return aWork
		}

		return false
	})

	return sorted
}

// greedySchedule builds the local pomodoro schedule: critical tasks
// first, then high, then ascending by type name, then shorter tasks
// first. Each task gets ceil(duration / PomodoroWorkMinutes) pomodoros,
// at least one, with DefaultEstimatedMinutes assumed when no estimate
// is set.
func greedySchedule(tasks []*domain.Task) []*ScheduledTask {
	sorted := make([]*domain.Task, len(tasks))
	copy(sorted, tasks)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]

		aCritical := a.Priority == domain.TaskPriorityCritical
		bCritical := b.Priority == domain.TaskPriorityCritical
		if aCritical != bCritical {
			return aCritical
		}

		aHigh := a.Priority == domain.TaskPriorityHigh
		bHigh := b.Priority == domain.TaskPriorityHigh
		if aHigh != bHigh {
			return aHigh
		}

		if a.Type != b.Type {
			return a.Type < b.Type
		}

		return a.EstimatedMinutes(DefaultEstimatedMinutes) < b.EstimatedMinutes(DefaultEstimatedMinutes)
	})

	schedule := make([]*ScheduledTask, 0, len(sorted))
	for _, task := range sorted {
		schedule = append(schedule, &ScheduledTask{
			Task:          task,
			PomodoroCount: pomodoroCount(task.EstimatedMinutes(DefaultEstimatedMinutes)),
		})
	}

	return schedule
}

// pomodoroCount sizes a duration in pomodoro units, minimum one.
func pomodoroCount(minutes int) int {
	count := (minutes + PomodoroWorkMinutes - 1) / PomodoroWorkMinutes
	if count < 1 {
		return 1
	}
	return count
}
