package reasoning

import (
	"encoding/json"
	"fmt"
	"strings"
)

// GroupSuggestion is one group in a batching response.
type GroupSuggestion struct {
	Name    string  `json:"name"`
	TaskIDs []int64 `json:"taskIds"`
}

// DependencyCandidate is one suggested prerequisite task in a
// dependency-inference response. Only Title is required; Type and
// Priority are free-form strings normalized by the caller.
type DependencyCandidate struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Priority    string `json:"priority"`
}

// PriorityAssignment is one (task, priority) pair in a prioritization
// response.
type PriorityAssignment struct {
	ID       int64  `json:"id"`
	Priority string `json:"priority"`
}

// ScheduleEntry is one slot in a pomodoro-schedule response.
type ScheduleEntry struct {
	TaskID        int64 `json:"taskId"`
	PomodoroCount int   `json:"pomodoroCount"`
	Order         int   `json:"order"`
}

// ParseBatchGroups validates a batching response of the shape
// {"groups": [{"name": ..., "taskIds": [...]}]}. A missing or
// non-array "groups" field fails the whole response; individual
// entries that are malformed or lack a taskIds array are dropped,
// because a partial grouping is still useful.
func ParseBatchGroups(raw json.RawMessage) ([]GroupSuggestion, error) {
	items, err := arrayField(raw, "groups")
	if err != nil {
		return nil, err
	}

	groups := make([]GroupSuggestion, 0, len(items))
	for _, item := range items {
		var g GroupSuggestion
		if err := json.Unmarshal(item, &g); err != nil {
			continue
		}
		if g.TaskIDs == nil {
			continue
		}
		groups = append(groups, g)
	}

	return groups, nil
}

// ParseDependencyCandidates validates a dependency-inference response
// of the shape {"dependencies": [{"title": ..., ...}]}. A missing or
// non-array "dependencies" field fails the whole response; entries
// without a non-empty string title are dropped individually.
func ParseDependencyCandidates(raw json.RawMessage) ([]DependencyCandidate, error) {
	items, err := arrayField(raw, "dependencies")
	if err != nil {
		return nil, err
	}

	candidates := make([]DependencyCandidate, 0, len(items))
	for _, item := range items {
		var c DependencyCandidate
		if err := json.Unmarshal(item, &c); err != nil {
			continue
		}
		if strings.TrimSpace(c.Title) == "" {
			continue
		}
		candidates = append(candidates, c)
	}

	return candidates, nil
}

// ParsePriorityAssignments validates a prioritization response of the
// shape {"tasks": [{"id": ..., "priority": ...}]}. The whole response
// fails when "tasks" is missing or not an array: a partial priority
// list that silently dropped tasks would leave them stale with no
// signal, so nothing short of the full list shape is trusted.
// Individually malformed entries are skipped; their tasks keep their
// current priority, which the operation contract allows.
func ParsePriorityAssignments(raw json.RawMessage) ([]PriorityAssignment, error) {
	items, err := arrayField(raw, "tasks")
	if err != nil {
		return nil, err
	}

	assignments := make([]PriorityAssignment, 0, len(items))
	for _, item := range items {
		var a PriorityAssignment
		if err := json.Unmarshal(item, &a); err != nil {
			continue
		}
		if a.ID == 0 {
			continue
		}
		assignments = append(assignments, a)
	}

	return assignments, nil
}

// ParsePomodoroPlan validates a schedule response of the shape
// {"schedule": [{"taskId": ..., "pomodoroCount": ..., "order": ...}]}.
// The whole response fails when "schedule" is missing or not an array,
// for the same reason as ParsePriorityAssignments. Entries without a
// usable taskId are skipped.
func ParsePomodoroPlan(raw json.RawMessage) ([]ScheduleEntry, error) {
	items, err := arrayField(raw, "schedule")
	if err != nil {
		return nil, err
	}

	entries := make([]ScheduleEntry, 0, len(items))
	for _, item := range items {
		var e ScheduleEntry
		if err := json.Unmarshal(item, &e); err != nil {
			continue
		}
		if e.TaskID == 0 {
			continue
		}
		entries = append(entries, e)
	}

	return entries, nil
}

// arrayField extracts the named top-level field as a JSON array of raw
// elements. Returns ErrInvalidResponse when the document is not an
// object, the field is absent, or the field is not an array.
func arrayField(raw json.RawMessage, field string) ([]json.RawMessage, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%w: not a JSON object: %v", ErrInvalidResponse, err)
	}

	value, ok := envelope[field]
	if !ok {
		return nil, fmt.Errorf("%w: missing %q field", ErrInvalidResponse, field)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(value, &items); err != nil {
		return nil, fmt.Errorf("%w: %q is not an array: %v", ErrInvalidResponse, field, err)
	}

	return items, nil
}
