// Package gemini implements the reasoning.Client interface over the
// Gemini API, as an alternative to the OpenRouter HTTP client.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"

	"taskpilot/internal/config"
	"taskpilot/internal/reasoning"
)

// Client calls the Gemini API through the genai SDK. It is stateless
// and safe for concurrent use.
type Client struct {
	logger  *slog.Logger
	client  *genai.Client
	model   string
	timeout time.Duration
}

// New creates a Client from the LLM configuration.
// Returns reasoning.ErrInvalidConfig when required settings are missing.
func New(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: API key cannot be empty", reasoning.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", reasoning.ErrInvalidConfig)
	}

	if cfg.TimeoutSeconds <= 0 {
		return nil, fmt.Errorf("%w: timeout must be positive", reasoning.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", reasoning.ErrInvalidConfig, err)
	}

	return &Client{
		logger:  logger.With(slog.String("component", "gemini_client")),
		client:  client,
		model:   cfg.ModelName,
		timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
	}, nil
}

// Complete implements reasoning.Client. One bounded call, no retries;
// any failure maps onto the reasoning error taxonomy and triggers the
// caller's local fallback.
func (c *Client) Complete(
	ctx context.Context,
	systemInstructions string,
	payload any,
) (json.RawMessage, error) {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal payload: %v", reasoning.ErrInvalidConfig, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	contents := []*genai.Content{
		genai.NewContentFromText(string(payloadJSON), genai.RoleUser),
	}

	genCfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstructions, genai.RoleUser),
		ResponseMIMEType:  "application/json",
	}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, genCfg)
	if err != nil {
		c.logger.WarnContext(ctx, "gemini request failed",
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(start)))
		return nil, fmt.Errorf("%w: %v", reasoning.ErrUnavailable, err)
	}

	text := resp.Text()
	if text == "" {
		return nil, reasoning.ErrEmptyCompletion
	}

	result, err := reasoning.ExtractJSON(text)
	if err != nil {
		return nil, err
	}

	c.logger.DebugContext(ctx, "gemini request completed",
		slog.Duration("elapsed", time.Since(start)),
		slog.Int("content_bytes", len(result)))

	return result, nil
}
