package openrouter

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskpilot/internal/config"
	"taskpilot/internal/reasoning"
)

func testConfig(endpoint string) config.LLMConfig {
	return config.LLMConfig{
		Provider:       "openrouter",
		APIKey:         "sk-or-test",
		ModelName:      "test-model",
		Endpoint:       endpoint,
		TimeoutSeconds: 2,
	}
}

func completionResponse(content string) string {
	body, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	return string(body)
}

func TestNew(t *testing.T) {
	logger := slog.Default()

	t.Run("valid config", func(t *testing.T) {
		client, err := New(logger, testConfig("https://example.com/v1/chat/completions"))
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("missing API key", func(t *testing.T) {
		cfg := testConfig("https://example.com")
		cfg.APIKey = ""
		_, err := New(logger, cfg)
		assert.ErrorIs(t, err, reasoning.ErrInvalidConfig)
	})

	t.Run("missing model", func(t *testing.T) {
		cfg := testConfig("https://example.com")
		cfg.ModelName = ""
		_, err := New(logger, cfg)
		assert.ErrorIs(t, err, reasoning.ErrInvalidConfig)
	})

	t.Run("nil logger", func(t *testing.T) {
		_, err := New(nil, testConfig("https://example.com"))
		assert.Error(t, err)
	})
}

func TestComplete(t *testing.T) {
	logger := slog.Default()

	t.Run("successful completion with raw JSON", func(t *testing.T) {
		var gotAuth string
		var gotBody chatRequest

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			_, _ = w.Write([]byte(completionResponse(`{"groups": []}`)))
		}))
		defer server.Close()

		client, err := New(logger, testConfig(server.URL))
		require.NoError(t, err)

		raw, err := client.Complete(context.Background(), "You group tasks.", map[string]any{"tasks": []int{1}})
		require.NoError(t, err)
		assert.JSONEq(t, `{"groups": []}`, string(raw))

		assert.Equal(t, "Bearer sk-or-test", gotAuth)
		assert.Equal(t, "test-model", gotBody.Model)
		require.Len(t, gotBody.Messages, 2)
		assert.Equal(t, "system", gotBody.Messages[0].Role)
		assert.Equal(t, "You group tasks.", gotBody.Messages[0].Content)
		assert.Equal(t, "user", gotBody.Messages[1].Role)
		assert.JSONEq(t, `{"tasks": [1]}`, gotBody.Messages[1].Content)
		assert.Equal(t, "json_object", gotBody.ResponseFormat.Type)
	})

	t.Run("completion wrapped in fenced block", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			content := "Sure!\n```json\n{\"tasks\": [{\"id\": 1, \"priority\": \"high\"}]}\n```"
			_, _ = w.Write([]byte(completionResponse(content)))
		}))
		defer server.Close()

		client, err := New(logger, testConfig(server.URL))
		require.NoError(t, err)

		raw, err := client.Complete(context.Background(), "prioritize", nil)
		require.NoError(t, err)
		assert.JSONEq(t, `{"tasks": [{"id": 1, "priority": "high"}]}`, string(raw))
	})

	t.Run("non-2xx status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}))
		defer server.Close()

		client, err := New(logger, testConfig(server.URL))
		require.NoError(t, err)

		_, err = client.Complete(context.Background(), "sys", nil)
		assert.ErrorIs(t, err, reasoning.ErrUnavailable)
	})

	t.Run("empty completion content", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices": []}`))
		}))
		defer server.Close()

		client, err := New(logger, testConfig(server.URL))
		require.NoError(t, err)

		_, err = client.Complete(context.Background(), "sys", nil)
		assert.ErrorIs(t, err, reasoning.ErrEmptyCompletion)
	})

	t.Run("completion that is not JSON at all", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(completionResponse("I cannot help with that.")))
		}))
		defer server.Close()

		client, err := New(logger, testConfig(server.URL))
		require.NoError(t, err)

		_, err = client.Complete(context.Background(), "sys", nil)
		assert.ErrorIs(t, err, reasoning.ErrInvalidPayload)
	})

	t.Run("timeout is abandoned and reported as unavailable", func(t *testing.T) {
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-release
		}))
		defer server.Close()
		defer close(release)

		cfg := testConfig(server.URL)
		cfg.TimeoutSeconds = 1

		client, err := New(logger, cfg)
		require.NoError(t, err)

		start := time.Now()
		_, err = client.Complete(context.Background(), "sys", nil)
		assert.ErrorIs(t, err, reasoning.ErrUnavailable)
		assert.Less(t, time.Since(start), 3*time.Second)
	})

	t.Run("network failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close() // immediately closed: connection refused

		client, err := New(logger, testConfig(server.URL))
		require.NoError(t, err)

		_, err = client.Complete(context.Background(), "sys", nil)
		assert.ErrorIs(t, err, reasoning.ErrUnavailable)
	})
}
