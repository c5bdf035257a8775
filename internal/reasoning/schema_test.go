package reasoning

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBatchGroups(t *testing.T) {
	t.Run("well-formed response", func(t *testing.T) {
		raw := json.RawMessage(`{"groups": [
			{"name": "errands", "taskIds": [1, 2]},
			{"name": "emails", "taskIds": [3]}
		]}`)

		groups, err := ParseBatchGroups(raw)
		require.NoError(t, err)
		require.Len(t, groups, 2)
		assert.Equal(t, "errands", groups[0].Name)
		assert.Equal(t, []int64{1, 2}, groups[0].TaskIDs)
	})

	t.Run("entry missing taskIds is dropped, not fatal", func(t *testing.T) {
		raw := json.RawMessage(`{"groups": [
			{"name": "ok", "taskIds": [1]},
			{"name": "broken"}
		]}`)

		groups, err := ParseBatchGroups(raw)
		require.NoError(t, err)
		require.Len(t, groups, 1)
		assert.Equal(t, "ok", groups[0].Name)
	})

	t.Run("entry with non-array taskIds is dropped", func(t *testing.T) {
		raw := json.RawMessage(`{"groups": [
			{"name": "broken", "taskIds": "1,2"},
			{"name": "ok", "taskIds": [2]}
		]}`)

		groups, err := ParseBatchGroups(raw)
		require.NoError(t, err)
		require.Len(t, groups, 1)
		assert.Equal(t, "ok", groups[0].Name)
	})

	t.Run("missing groups field fails whole response", func(t *testing.T) {
		_, err := ParseBatchGroups(json.RawMessage(`{"clusters": []}`))
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})

	t.Run("groups not an array fails whole response", func(t *testing.T) {
		_, err := ParseBatchGroups(json.RawMessage(`{"groups": {"name": "x"}}`))
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})

	t.Run("non-object document fails", func(t *testing.T) {
		_, err := ParseBatchGroups(json.RawMessage(`[1, 2, 3]`))
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})
}

func TestParseDependencyCandidates(t *testing.T) {
	t.Run("well-formed response", func(t *testing.T) {
		raw := json.RawMessage(`{"dependencies": [
			{"title": "Draft outline", "description": "first pass", "type": "work", "priority": "high"},
			{"title": "Book room"}
		]}`)

		candidates, err := ParseDependencyCandidates(raw)
		require.NoError(t, err)
		require.Len(t, candidates, 2)
		assert.Equal(t, "Draft outline", candidates[0].Title)
		assert.Equal(t, "high", candidates[0].Priority)
		assert.Empty(t, candidates[1].Description)
	})

	t.Run("entries without usable title are dropped individually", func(t *testing.T) {
		raw := json.RawMessage(`{"dependencies": [
			{"title": ""},
			{"title": "   "},
			{"description": "no title"},
			{"title": 42},
			{"title": "keep me"}
		]}`)

		candidates, err := ParseDependencyCandidates(raw)
		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.Equal(t, "keep me", candidates[0].Title)
	})

	t.Run("missing dependencies field fails", func(t *testing.T) {
		_, err := ParseDependencyCandidates(json.RawMessage(`{}`))
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})
}

func TestParsePriorityAssignments(t *testing.T) {
	t.Run("well-formed response", func(t *testing.T) {
		raw := json.RawMessage(`{"tasks": [
			{"id": 1, "priority": "critical"},
			{"id": 2, "priority": "low"}
		]}`)

		assignments, err := ParsePriorityAssignments(raw)
		require.NoError(t, err)
		require.Len(t, assignments, 2)
		assert.Equal(t, int64(1), assignments[0].ID)
		assert.Equal(t, "critical", assignments[0].Priority)
	})

	t.Run("missing tasks field fails whole response", func(t *testing.T) {
		_, err := ParsePriorityAssignments(json.RawMessage(`{"priorities": []}`))
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})

	t.Run("tasks not an array fails whole response", func(t *testing.T) {
		_, err := ParsePriorityAssignments(json.RawMessage(`{"tasks": 3}`))
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})

	t.Run("malformed entry is skipped", func(t *testing.T) {
		raw := json.RawMessage(`{"tasks": [
			{"id": "one", "priority": "high"},
			{"id": 2, "priority": "high"}
		]}`)

		assignments, err := ParsePriorityAssignments(raw)
		require.NoError(t, err)
		require.Len(t, assignments, 1)
		assert.Equal(t, int64(2), assignments[0].ID)
	})
}

func TestParsePomodoroPlan(t *testing.T) {
	t.Run("well-formed response", func(t *testing.T) {
		raw := json.RawMessage(`{"schedule": [
			{"taskId": 3, "pomodoroCount": 2, "order": 1},
			{"taskId": 1, "pomodoroCount": 1, "order": 2}
		]}`)

		entries, err := ParsePomodoroPlan(raw)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, int64(3), entries[0].TaskID)
		assert.Equal(t, 2, entries[0].PomodoroCount)
	})

	t.Run("missing schedule field fails whole response", func(t *testing.T) {
		_, err := ParsePomodoroPlan(json.RawMessage(`{"plan": []}`))
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})

	t.Run("entry without taskId is skipped", func(t *testing.T) {
		raw := json.RawMessage(`{"schedule": [
			{"pomodoroCount": 2, "order": 1},
			{"taskId": 5, "order": 2}
		]}`)

		entries, err := ParsePomodoroPlan(raw)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, int64(5), entries[0].TaskID)
	})
}

func TestExtractJSON(t *testing.T) {
	t.Run("raw JSON object", func(t *testing.T) {
		raw, err := ExtractJSON(`{"groups": []}`)
		require.NoError(t, err)
		assert.JSONEq(t, `{"groups": []}`, string(raw))
	})

	t.Run("fenced JSON block", func(t *testing.T) {
		content := "Here is the grouping you asked for:\n```json\n{\"groups\": [{\"name\": \"a\", \"taskIds\": [1]}]}\n```\nLet me know!"
		raw, err := ExtractJSON(content)
		require.NoError(t, err)
		assert.JSONEq(t, `{"groups": [{"name": "a", "taskIds": [1]}]}`, string(raw))
	})

	t.Run("whitespace around raw JSON", func(t *testing.T) {
		raw, err := ExtractJSON("\n  {\"ok\": true}\n")
		require.NoError(t, err)
		assert.JSONEq(t, `{"ok": true}`, string(raw))
	})

	t.Run("prose without JSON fails", func(t *testing.T) {
		_, err := ExtractJSON("I could not produce a grouping, sorry.")
		assert.ErrorIs(t, err, ErrInvalidPayload)
	})

	t.Run("fenced block with invalid JSON fails", func(t *testing.T) {
		_, err := ExtractJSON("```json\n{not json}\n```")
		assert.ErrorIs(t, err, ErrInvalidPayload)
	})

	t.Run("empty content", func(t *testing.T) {
		_, err := ExtractJSON("   ")
		assert.ErrorIs(t, err, ErrEmptyCompletion)
	})
}
