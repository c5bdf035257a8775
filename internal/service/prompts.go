package service

import "fmt"

// System instructions for the four reasoning operations. Payloads are
// built from a minimal subset of task fields per operation; full task
// objects never go over the wire, both to bound prompt size and to keep
// unrelated fields out of the request.

const batchSystemPrompt = `You are a task grouping assistant. Analyze the following tasks and group them based on similarity in type, title, and description.
Return a JSON object with a "groups" field containing an array of group objects. Each group should have:
- "name": string (descriptive name for the group)
- "taskIds": number[] (array of task IDs in this group)`

const dependenciesSystemPrompt = `You are a task dependency analyzer. Analyze the following task and suggest 3-5 potential subtasks or dependencies that would be needed to complete it.
Return a JSON object with a "dependencies" field containing an array of task objects. Each task should have:
- "title": string
- "description": string
- "type": string
- "priority": string (critical, high, medium, low)`

const prioritizeSystemPrompt = `You are a task prioritization assistant. Analyze the following tasks and return them with updated priorities (critical, high, medium, low).
Consider due dates, task types, and current priorities. Return a JSON object with a "tasks" field containing an array of objects with "id" and "priority" fields.`

var pomodoroSystemPrompt = fmt.Sprintf(`You are a productivity assistant. Create a pomodoro schedule (%dmin work + %dmin break) for these tasks.
Order critical tasks first, group similar types together, and size each task in pomodoros of %d minutes.
Return a JSON object with a "schedule" field containing an array of objects with "taskId", "pomodoroCount" and "order" fields.`,
	PomodoroWorkMinutes, PomodoroBreakMinutes, PomodoroWorkMinutes)

// Request payload shapes, one per operation.

type batchTaskPayload struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

type dependencyTaskPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

type prioritizeTaskPayload struct {
	ID              int64   `json:"id"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	Type            string  `json:"type"`
	CurrentPriority string  `json:"currentPriority"`
	DueDate         *string `json:"dueDate"`
}

type pomodoroTaskPayload struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Priority string `json:"priority"`
	Type     string `json:"type"`
	Duration int    `json:"duration"`
}
