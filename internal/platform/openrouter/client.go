// Package openrouter implements the reasoning.Client interface over the
// OpenRouter chat-completions HTTP API.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"taskpilot/internal/config"
	"taskpilot/internal/reasoning"
)

// chatMessage is one entry of the messages array on the wire.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// responseFormat requests a strictly-JSON completion from the model.
type responseFormat struct {
	Type string `json:"type"`
}

// chatRequest is the chat-completions request body.
type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	ResponseFormat responseFormat `json:"response_format"`
}

// chatResponse is the subset of the chat-completions response we read.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Client calls the OpenRouter chat-completions endpoint. It is
// stateless and safe for concurrent use.
type Client struct {
	logger     *slog.Logger
	httpClient *http.Client
	endpoint   string
	apiKey     string
	model      string
	timeout    time.Duration
}

// New creates a Client from the LLM configuration.
// Returns reasoning.ErrInvalidConfig when required settings are missing.
func New(logger *slog.Logger, cfg config.LLMConfig) (*Client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: API key cannot be empty", reasoning.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", reasoning.ErrInvalidConfig)
	}

	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("%w: endpoint cannot be empty", reasoning.ErrInvalidConfig)
	}

	if cfg.TimeoutSeconds <= 0 {
		return nil, fmt.Errorf("%w: timeout must be positive", reasoning.ErrInvalidConfig)
	}

	return &Client{
		logger:     logger.With(slog.String("component", "openrouter_client")),
		httpClient: &http.Client{},
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
		model:      cfg.ModelName,
		timeout:    time.Duration(cfg.TimeoutSeconds) * time.Second,
	}, nil
}

// Complete implements reasoning.Client. It sends one request carrying
// the system instructions and the JSON-serialized payload, bounded by
// the configured timeout. It never retries: a slow remote dependency
// must not block the user-facing operation, and the caller falls back
// locally on any error.
func (c *Client) Complete(
	ctx context.Context,
	systemInstructions string,
	payload any,
) (json.RawMessage, error) {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal payload: %v", reasoning.ErrInvalidConfig, err)
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemInstructions},
			{Role: "user", Content: string(payloadJSON)},
		},
		ResponseFormat: responseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal request: %v", reasoning.ErrInvalidConfig, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build request: %v", reasoning.ErrUnavailable, err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Covers network failures and the timeout boundary; a timed-out
		// call is abandoned here and no partial result is used.
		c.logger.WarnContext(ctx, "reasoning request failed",
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(start)))
		return nil, fmt.Errorf("%w: %v", reasoning.ErrUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a bounded prefix so the connection can be reused.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.WarnContext(ctx, "reasoning request returned non-2xx status",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(snippet)))
		return nil, fmt.Errorf("%w: status %d", reasoning.ErrUnavailable, resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", reasoning.ErrInvalidPayload, err)
	}

	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return nil, reasoning.ErrEmptyCompletion
	}

	result, err := reasoning.ExtractJSON(parsed.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	c.logger.DebugContext(ctx, "reasoning request completed",
		slog.Duration("elapsed", time.Since(start)),
		slog.Int("content_bytes", len(result)))

	return result, nil
}
