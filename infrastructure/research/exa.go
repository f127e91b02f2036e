// Package research provides the Exa research backend client.
package research

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sagohq/sago/domain/research"
)

// ExaClient implements research.Provider against the Exa research API: create
// a task, then poll it until the backend reports a terminal status. Transient
// HTTP failures are retried with exponential backoff.
type ExaClient struct {
	apiKey        string
	baseURL       string
	pollInterval  time.Duration
	maxRetries    int
	initialDelay  time.Duration
	backoffFactor float64
	httpClient    *http.Client
}

// ExaOption is a functional option for ExaClient.
type ExaOption func(*ExaClient)

// WithExaBaseURL sets the base URL (for testing or proxies).
func WithExaBaseURL(url string) ExaOption {
	return func(c *ExaClient) { c.baseURL = url }
}

// WithExaPollInterval sets the poll interval.
func WithExaPollInterval(d time.Duration) ExaOption {
	return func(c *ExaClient) { c.pollInterval = d }
}

// WithExaTimeout sets the per-request HTTP timeout.
func WithExaTimeout(d time.Duration) ExaOption {
	return func(c *ExaClient) { c.httpClient.Timeout = d }
}

// WithExaMaxRetries sets the maximum retry count for transient failures.
func WithExaMaxRetries(n int) ExaOption {
	return func(c *ExaClient) { c.maxRetries = n }
}

// WithExaInitialDelay sets the initial retry delay.
func WithExaInitialDelay(d time.Duration) ExaOption {
	return func(c *ExaClient) { c.initialDelay = d }
}

// NewExaClient creates a new Exa research client.
func NewExaClient(apiKey string, opts ...ExaOption) *ExaClient {
	c := &ExaClient{
		apiKey:        apiKey,
		baseURL:       "https://api.exa.ai",
		pollInterval:  5 * time.Second,
		maxRetries:    5,
		initialDelay:  2 * time.Second,
		backoffFactor: 2.0,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// informationSchema constrains the research output to a single string field so
// every query kind parses the same way.
var informationSchema = map[string]any{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"title":   "Generated schema for Root",
	"type":    "object",
	"properties": map[string]any{
		"information": map[string]any{
			"type": "string",
		},
	},
	"required": []string{"information"},
}

type exaCreateRequest struct {
	Instructions string         `json:"instructions"`
	OutputSchema map[string]any `json:"outputSchema"`
}

type exaCreateResponse struct {
	ResearchID string `json:"researchId"`
}

type exaTaskResponse struct {
	ResearchID string    `json:"researchId"`
	Status     string    `json:"status"`
	Output     exaOutput `json:"output"`
}

type exaOutput struct {
	Parsed exaParsedOutput `json:"parsed"`
}

type exaParsedOutput struct {
	Information string `json:"information"`
}

type exaError struct {
	Error string `json:"error"`
}

// Submit starts a research task for the given instruction.
func (c *ExaClient) Submit(ctx context.Context, instruction string) (research.TaskHandle, error) {
	body, err := json.Marshal(exaCreateRequest{
		Instructions: instruction,
		OutputSchema: informationSchema,
	})
	if err != nil {
		return research.TaskHandle{}, fmt.Errorf("marshal research request: %w", err)
	}

	var resp exaCreateResponse
	if err := c.do(ctx, http.MethodPost, "/research/v1", body, &resp); err != nil {
		return research.TaskHandle{}, fmt.Errorf("create research task: %w", err)
	}
	if resp.ResearchID == "" {
		return research.TaskHandle{}, fmt.Errorf("create research task: empty research id")
	}

	return research.NewTaskHandle(resp.ResearchID), nil
}

// PollUntilFinished blocks until the task reaches a terminal status or the
// context is done.
func (c *ExaClient) PollUntilFinished(ctx context.Context, handle research.TaskHandle) (research.Result, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		task, err := c.getTask(ctx, handle.ID())
		if err != nil {
			return research.Result{}, err
		}

		status := research.Status(task.Status)
		if status.IsTerminal() {
			return research.NewResult(status, task.Output.Parsed.Information), nil
		}

		select {
		case <-ctx.Done():
			return research.Result{}, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *ExaClient) getTask(ctx context.Context, id string) (exaTaskResponse, error) {
	var resp exaTaskResponse
	if err := c.do(ctx, http.MethodGet, "/research/v1/"+id, nil, &resp); err != nil {
		return exaTaskResponse{}, fmt.Errorf("get research task: %w", err)
	}
	return resp, nil
}

// do performs one API call, retrying transient failures with exponential
// backoff. The body is kept as bytes so every attempt resends the same
// payload.
func (c *ExaClient) do(ctx context.Context, method, path string, body []byte, out any) error {
	delay := c.initialDelay
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = c.doOnce(ctx, method, path, body, out)
		if lastErr == nil {
			return nil
		}

		var statusErr *exaStatusError
		if !errors.As(lastErr, &statusErr) || !statusErr.retryable() {
			return lastErr
		}

		if attempt < c.maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay = time.Duration(float64(delay) * c.backoffFactor)
			}
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (c *ExaClient) doOnce(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr exaError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error != "" {
			return &exaStatusError{status: resp.StatusCode, message: apiErr.Error}
		}
		return &exaStatusError{status: resp.StatusCode, message: string(respBody)}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

// exaStatusError is a non-2xx API response.
type exaStatusError struct {
	status  int
	message string
}

func (e *exaStatusError) Error() string {
	return fmt.Sprintf("exa api status %d: %s", e.status, e.message)
}

func (e *exaStatusError) retryable() bool {
	switch e.status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

var _ research.Provider = (*ExaClient)(nil)
