package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// clientOptions holds the connection flags shared by every subcommand.
type clientOptions struct {
	serverURL  string
	token      string
	jsonOutput bool
}

// apiClient is a thin HTTP wrapper over the server's JSON API.
type apiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func newAPIClient(opts *clientOptions) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(opts.serverURL, "/"),
		token:   opts.token,
		// Orchestration endpoints wait on a reasoning call, so the
		// client timeout sits well above the server's.
		http: &http.Client{Timeout: 90 * time.Second},
	}
}

// do performs one API call and decodes the JSON response into out when
// out is non-nil. It returns the raw body for --json printing.
func (c *apiClient) do(method, path string, body, out any) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("server returned %s: %s", resp.Status, apiErr.Error)
		}
		return nil, fmt.Errorf("server returned %s", resp.Status)
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return raw, nil
}

// requireToken fails early when an authenticated command runs without
// credentials.
func (c *apiClient) requireToken() error {
	if c.token == "" {
		return errors.New("no token: run 'taskpilot login' and set TASKPILOT_TOKEN or --token")
	}
	return nil
}

// printJSON pretty-prints a raw API response.
func printJSON(w io.Writer, raw []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		_, writeErr := w.Write(raw)
		return writeErr
	}
	_, err := fmt.Fprintln(w, buf.String())
	return err
}
