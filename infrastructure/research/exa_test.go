package research_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	domain "github.com/sagohq/sago/domain/research"
	"github.com/sagohq/sago/infrastructure/research"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExaSubmit(t *testing.T) {
	var gotInstructions string
	var gotAPIKey string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/research/v1", r.URL.Path)
		gotAPIKey = r.Header.Get("x-api-key")

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotInstructions, _ = req["instructions"].(string)
		require.Contains(t, req, "outputSchema")

		_ = json.NewEncoder(w).Encode(map[string]string{"researchId": "task-123"})
	}))
	defer server.Close()

	client := research.NewExaClient("secret", research.WithExaBaseURL(server.URL))

	handle, err := client.Submit(context.Background(), "find financial info")
	require.NoError(t, err)
	assert.Equal(t, "task-123", handle.ID())
	assert.Equal(t, "secret", gotAPIKey)
	assert.Equal(t, "find financial info", gotInstructions)
}

func TestExaSubmitEmptyIDFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer server.Close()

	client := research.NewExaClient("secret", research.WithExaBaseURL(server.URL))

	_, err := client.Submit(context.Background(), "instruction")
	assert.ErrorContains(t, err, "empty research id")
}

func TestExaSubmitAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid api key"})
	}))
	defer server.Close()

	client := research.NewExaClient("bad", research.WithExaBaseURL(server.URL))

	_, err := client.Submit(context.Background(), "instruction")
	assert.ErrorContains(t, err, "invalid api key")
	assert.ErrorContains(t, err, "401")
}

func TestExaSubmitRetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "overloaded"})
			return
		}

		// Every retry must carry the full request body again.
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "find financial info", req["instructions"])

		_ = json.NewEncoder(w).Encode(map[string]string{"researchId": "task-123"})
	}))
	defer server.Close()

	client := research.NewExaClient("secret",
		research.WithExaBaseURL(server.URL),
		research.WithExaMaxRetries(3),
		research.WithExaInitialDelay(time.Millisecond),
	)

	handle, err := client.Submit(context.Background(), "find financial info")
	require.NoError(t, err)
	assert.Equal(t, "task-123", handle.ID())
	assert.Equal(t, int32(3), calls.Load())
}

func TestExaSubmitDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "bad instructions"})
	}))
	defer server.Close()

	client := research.NewExaClient("secret",
		research.WithExaBaseURL(server.URL),
		research.WithExaMaxRetries(3),
		research.WithExaInitialDelay(time.Millisecond),
	)

	_, err := client.Submit(context.Background(), "instruction")
	assert.ErrorContains(t, err, "bad instructions")
	assert.Equal(t, int32(1), calls.Load())
}

func TestExaPollUntilFinished(t *testing.T) {
	var polls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/research/v1/task-123", r.URL.Path)

		resp := map[string]any{"researchId": "task-123", "status": "running"}
		if polls.Add(1) >= 3 {
			resp["status"] = "completed"
			resp["output"] = map[string]any{
				"parsed": map[string]any{"information": "the findings"},
			}
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := research.NewExaClient("secret",
		research.WithExaBaseURL(server.URL),
		research.WithExaPollInterval(time.Millisecond),
	)

	result, err := client.PollUntilFinished(context.Background(), domain.NewTaskHandle("task-123"))
	require.NoError(t, err)
	assert.True(t, result.Completed())
	assert.Equal(t, "the findings", result.Information())
	assert.GreaterOrEqual(t, polls.Load(), int32(3))
}

func TestExaPollFailedTask(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"researchId": "task-123", "status": "failed"})
	}))
	defer server.Close()

	client := research.NewExaClient("secret",
		research.WithExaBaseURL(server.URL),
		research.WithExaPollInterval(time.Millisecond),
	)

	result, err := client.PollUntilFinished(context.Background(), domain.NewTaskHandle("task-123"))
	require.NoError(t, err)
	assert.False(t, result.Completed())
	assert.Equal(t, domain.StatusFailed, result.Status())
}

func TestExaPollRespectsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"researchId": "task-123", "status": "running"})
	}))
	defer server.Close()

	client := research.NewExaClient("secret",
		research.WithExaBaseURL(server.URL),
		research.WithExaPollInterval(time.Hour),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.PollUntilFinished(ctx, domain.NewTaskHandle("task-123"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
