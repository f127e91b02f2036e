package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sagohq/sago/domain/company"
	"github.com/sagohq/sago/domain/decision"
	"github.com/sagohq/sago/domain/round"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func anthropicReply(text string) map[string]any {
	return map[string]any{
		"id":          "msg-1",
		"type":        "message",
		"role":        "assistant",
		"model":       "claude-sonnet-4-20250514",
		"stop_reason": "end_turn",
		"content": []map[string]any{
			{"type": "text", "text": text},
		},
		"usage": map[string]any{"input_tokens": 10, "output_tokens": 5},
	}
}

func TestAnthropicChatCompletion(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		System   string `json:"system"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	var gotKey, gotVersion string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/messages", r.URL.Path)
		gotKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(anthropicReply("hello back"))
	}))
	defer server.Close()

	p := NewAnthropicProvider("secret", WithAnthropicBaseURL(server.URL))

	resp, err := p.ChatCompletion(context.Background(), NewChatCompletionRequest([]Message{
		SystemMessage("you are terse"),
		UserMessage("hello"),
	}))
	require.NoError(t, err)

	assert.Equal(t, "hello back", resp.Content())
	assert.Equal(t, "end_turn", resp.FinishReason())
	assert.Equal(t, 15, resp.Usage().TotalTokens())

	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "2023-06-01", gotVersion)

	// The system message rides the dedicated field, not the message list.
	assert.Equal(t, "you are terse", got.System)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
}

func TestAnthropicRetriesOnServerError(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"type": "overloaded_error", "message": "overloaded"})
			return
		}
		_ = json.NewEncoder(w).Encode(anthropicReply("eventually"))
	}))
	defer server.Close()

	p := NewAnthropicProvider("secret",
		WithAnthropicBaseURL(server.URL),
		WithAnthropicMaxRetries(5),
		WithAnthropicInitialDelay(time.Millisecond),
	)

	resp, err := p.ChatCompletion(context.Background(), NewChatCompletionRequest([]Message{
		UserMessage("hello"),
	}))
	require.NoError(t, err)
	assert.Equal(t, "eventually", resp.Content())
	assert.Equal(t, int32(3), calls.Load())
}

func TestAnthropicNoMessages(t *testing.T) {
	p := NewAnthropicProvider("secret")

	_, err := p.ChatCompletion(context.Background(), NewChatCompletionRequest(nil))
	assert.Error(t, err)
}

func TestParseDecision(t *testing.T) {
	t.Run("plain JSON", func(t *testing.T) {
		d, err := parseDecision(`{"shouldInvest": true, "reasoning": "momentum", "outreachMessage": "hi"}`)
		require.NoError(t, err)
		assert.True(t, d.ShouldInvest)
		assert.Equal(t, "momentum", d.Reasoning)
		assert.Equal(t, "hi", d.Outreach())
	})

	t.Run("null outreach", func(t *testing.T) {
		d, err := parseDecision(`{"shouldInvest": false, "reasoning": "still early", "outreachMessage": null}`)
		require.NoError(t, err)
		assert.False(t, d.ShouldInvest)
		assert.Nil(t, d.OutreachMessage)
	})

	t.Run("markdown fence", func(t *testing.T) {
		content := "Here is my decision:\n```json\n{\"shouldInvest\": true, \"reasoning\": \"r\", \"outreachMessage\": \"m\"}\n```\n"
		d, err := parseDecision(content)
		require.NoError(t, err)
		assert.True(t, d.ShouldInvest)
	})

	t.Run("no JSON", func(t *testing.T) {
		_, err := parseDecision("I cannot decide.")
		assert.Error(t, err)
	})
}

func decisionPrompt(t *testing.T) decision.Prompt {
	t.Helper()
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	c := company.New("Acme", "robots", "robotics", "", "", "too early")
	oldRound := round.Reconstruct(1, 1, 1, now, "f1", "s1", "c1", true, now, now)
	newRound := round.Reconstruct(2, 1, 2, now, "f2", "s2", "c2", true, now, now)
	return decision.NewPrompt(c, oldRound, newRound)
}

type stubGenerator struct {
	content string
	request ChatCompletionRequest
}

func (s *stubGenerator) ChatCompletion(_ context.Context, req ChatCompletionRequest) (ChatCompletionResponse, error) {
	s.request = req
	return NewChatCompletionResponse(s.content, "stop", Usage{}), nil
}

func TestDecisionModelDecide(t *testing.T) {
	gen := &stubGenerator{content: `{"shouldInvest": true, "reasoning": "changed", "outreachMessage": "hello"}`}
	model := NewDecisionModel(gen)

	d, err := model.Decide(context.Background(), decisionPrompt(t))
	require.NoError(t, err)
	assert.True(t, d.Actionable())
	assert.Equal(t, "changed", d.Reasoning)

	messages := gen.request.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].Role())
	assert.Contains(t, messages[0].Content(), "venture capital")
	assert.Equal(t, "user", messages[1].Role())
	assert.True(t, gen.request.JSONOutput())
}
