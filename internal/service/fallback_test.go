package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskpilot/internal/domain"
)

func newTestTask(t *testing.T, id int64, title string) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(uuid.New(), title)
	require.NoError(t, err)
	task.ID = id
	return task
}

func TestBatchByType(t *testing.T) {
	t.Run("groups by type in first-appearance order", func(t *testing.T) {
		write := newTestTask(t, 1, "Write report")
		write.Type = domain.TaskTypeWork
		call := newTestTask(t, 2, "Call dentist")
		call.Type = domain.TaskTypePersonal
		review := newTestTask(t, 3, "Review PR")
		review.Type = domain.TaskTypeWork

		groups := batchByType([]*domain.Task{write, call, review})

		require.Len(t, groups, 2)
		assert.Equal(t, "work tasks batch", groups[0].Name)
		assert.Equal(t, []int64{1, 3}, groups[0].TaskIDs)
		assert.Equal(t, "personal tasks batch", groups[1].Name)
		assert.Equal(t, []int64{2}, groups[1].TaskIDs)
	})

	t.Run("every task lands in exactly one group", func(t *testing.T) {
		tasks := []*domain.Task{}
		types := []domain.TaskType{
			domain.TaskTypeWork,
			domain.TaskTypeLearning,
			domain.TaskTypeWork,
			domain.TaskTypeOther,
			domain.TaskTypeLearning,
		}
		for i, tt := range types {
			task := newTestTask(t, int64(i+1), "task")
			task.Type = tt
			tasks = append(tasks, task)
		}

		groups := batchByType(tasks)

		seen := map[int64]int{}
		for _, g := range groups {
			assert.NotEmpty(t, g.TaskIDs, "no group may be empty")
			for _, id := range g.TaskIDs {
				seen[id]++
			}
		}
		require.Len(t, seen, len(tasks))
		for id, count := range seen {
			assert.Equal(t, 1, count, "task %d assigned %d times", id, count)
		}
	})

	t.Run("empty input yields no groups", func(t *testing.T) {
		assert.Empty(t, batchByType(nil))
	})
}

func TestStubDependencies(t *testing.T) {
	task := newTestTask(t, 7, "Ship release")

	deps := stubDependencies(task)

	require.Len(t, deps, 2)
	assert.Equal(t, "Research for Ship release", deps[0].Title)
	assert.Equal(t, "research", deps[0].Type)
	assert.Equal(t, "medium", deps[0].Priority)
	assert.Equal(t, "Prepare materials for Ship release", deps[1].Title)
	assert.Equal(t, "preparation", deps[1].Type)

	// The stub types are outside the enum on purpose; normalization
	// must land them on "other" rather than reject them.
	assert.Equal(t, domain.TaskTypeOther, domain.NormalizeTaskType(deps[0].Type))
	assert.Equal(t, domain.TaskTypeOther, domain.NormalizeTaskType(deps[1].Type))
}

func TestSortByUrgency(t *testing.T) {
	due := func(daysFromNow int) *time.Time {
		d := time.Now().UTC().AddDate(0, 0, daysFromNow)
		return &d
	}

	t.Run("critical first, then due date beats raw priority", func(t *testing.T) {
		highNoDue := newTestTask(t, 1, "high, no due date")
		highNoDue.Priority = domain.TaskPriorityHigh

		lowDueSoon := newTestTask(t, 2, "low, due soon")
		lowDueSoon.Priority = domain.TaskPriorityLow
		lowDueSoon.DueDate = due(1)

		critical := newTestTask(t, 3, "critical")
		critical.Priority = domain.TaskPriorityCritical

		sorted := sortByUrgency([]*domain.Task{highNoDue, lowDueSoon, critical})

		require.Len(t, sorted, 3)
		assert.Equal(t, int64(3), sorted[0].ID)
		assert.Equal(t, int64(2), sorted[1].ID, "a due date outranks a higher non-critical priority")
		assert.Equal(t, int64(1), sorted[2].ID)
	})

	t.Run("earlier due date wins", func(t *testing.T) {
		later := newTestTask(t, 1, "later")
		later.DueDate = due(5)
		sooner := newTestTask(t, 2, "sooner")
		sooner.DueDate = due(2)

		sorted := sortByUrgency([]*domain.Task{later, sooner})

		assert.Equal(t, int64(2), sorted[0].ID)
		assert.Equal(t, int64(1), sorted[1].ID)
	})

	t.Run("work type breaks remaining ties", func(t *testing.T) {
		personal := newTestTask(t, 1, "personal")
		personal.Type = domain.TaskTypePersonal
		work := newTestTask(t, 2, "work")
		work.Type = domain.TaskTypeWork

		sorted := sortByUrgency([]*domain.Task{personal, work})

		assert.Equal(t, int64(2), sorted[0].ID)
	})

	t.Run("equal tasks keep input order and input is untouched", func(t *testing.T) {
		first := newTestTask(t, 1, "first")
		second := newTestTask(t, 2, "second")
		input := []*domain.Task{second, first}

		sorted := sortByUrgency(input)

		assert.Equal(t, int64(2), sorted[0].ID)
		assert.Equal(t, int64(1), sorted[1].ID)
		assert.Same(t, second, input[0], "input slice must not be reordered")
	})
}

func TestGreedySchedule(t *testing.T) {
	minutes := func(m int) *int { return &m }

	t.Run("orders critical, high, type, then duration", func(t *testing.T) {
		longWork := newTestTask(t, 1, "long work")
		longWork.Type = domain.TaskTypeWork
		longWork.EstimatedDuration = minutes(90)

		shortWork := newTestTask(t, 2, "short work")
		shortWork.Type = domain.TaskTypeWork
		shortWork.EstimatedDuration = minutes(20)

		critical := newTestTask(t, 3, "critical admin")
		critical.Type = domain.TaskTypeAdmin
		critical.Priority = domain.TaskPriorityCritical

		highPersonal := newTestTask(t, 4, "high personal")
		highPersonal.Type = domain.TaskTypePersonal
		highPersonal.Priority = domain.TaskPriorityHigh

		schedule := greedySchedule([]*domain.Task{longWork, shortWork, critical, highPersonal})

		require.Len(t, schedule, 4)
		assert.Equal(t, int64(3), schedule[0].Task.ID)
		assert.Equal(t, int64(4), schedule[1].Task.ID)
		assert.Equal(t, int64(2), schedule[2].Task.ID, "shorter task first within a type")
		assert.Equal(t, int64(1), schedule[3].Task.ID)
	})

	t.Run("sizes tasks in whole pomodoros", func(t *testing.T) {
		cases := []struct {
			name     string
			duration *int
			want     int
		}{
			{"one minute", minutes(1), 1},
			{"exactly one pomodoro", minutes(PomodoroWorkMinutes), 1},
			{"one minute over", minutes(PomodoroWorkMinutes + 1), 2},
			{"no estimate uses the default", nil, 1},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				task := newTestTask(t, 1, "sized")
				task.EstimatedDuration = tc.duration

				schedule := greedySchedule([]*domain.Task{task})

				require.Len(t, schedule, 1)
				assert.Equal(t, tc.want, schedule[0].PomodoroCount)
			})
		}
	})
}

func TestPomodoroCount(t *testing.T) {
	assert.Equal(t, 1, pomodoroCount(0))
	assert.Equal(t, 1, pomodoroCount(-10))
	assert.Equal(t, 1, pomodoroCount(PomodoroWorkMinutes))
	assert.Equal(t, 2, pomodoroCount(PomodoroWorkMinutes*2))
	assert.Equal(t, 3, pomodoroCount(PomodoroWorkMinutes*2+1))
}
