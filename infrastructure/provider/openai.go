package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements text generation using an OpenAI-compatible API.
type OpenAIProvider struct {
	client        *openai.Client
	model         string
	maxRetries    int
	initialDelay  time.Duration
	backoffFactor float64
}

// OpenAIOption is a functional option for OpenAIProvider.
type OpenAIOption func(*OpenAIProvider, *openai.ClientConfig)

// WithOpenAIModel sets the chat completion model.
func WithOpenAIModel(model string) OpenAIOption {
	return func(p *OpenAIProvider, _ *openai.ClientConfig) { p.model = model }
}

// WithOpenAIMaxRetries sets the maximum retry count.
func WithOpenAIMaxRetries(n int) OpenAIOption {
	return func(p *OpenAIProvider, _ *openai.ClientConfig) { p.maxRetries = n }
}

// WithOpenAIInitialDelay sets the initial retry delay.
func WithOpenAIInitialDelay(d time.Duration) OpenAIOption {
	return func(p *OpenAIProvider, _ *openai.ClientConfig) { p.initialDelay = d }
}

// WithOpenAIBackoffFactor sets the backoff multiplier.
func WithOpenAIBackoffFactor(f float64) OpenAIOption {
	return func(p *OpenAIProvider, _ *openai.ClientConfig) { p.backoffFactor = f }
}

// WithOpenAIBaseURL sets the base URL (for testing, proxies, or compatible
// endpoints).
func WithOpenAIBaseURL(url string) OpenAIOption {
	return func(_ *OpenAIProvider, cfg *openai.ClientConfig) { cfg.BaseURL = url }
}

// WithOpenAITimeout sets the HTTP timeout.
func WithOpenAITimeout(d time.Duration) OpenAIOption {
	return func(_ *OpenAIProvider, cfg *openai.ClientConfig) {
		cfg.HTTPClient = &http.Client{Timeout: d}
	}
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(apiKey string, opts ...OpenAIOption) *OpenAIProvider {
	config := openai.DefaultConfig(apiKey)

	p := &OpenAIProvider{
		model:         "gpt-4o",
		maxRetries:    5,
		initialDelay:  2 * time.Second,
		backoffFactor: 2.0,
	}

	for _, opt := range opts {
		opt(p, &config)
	}

	p.client = openai.NewClientWithConfig(config)
	return p
}

// ChatCompletion generates a chat completion.
func (p *OpenAIProvider) ChatCompletion(ctx context.Context, req ChatCompletionRequest) (ChatCompletionResponse, error) {
	messages := req.Messages()
	if len(messages) == 0 {
		return ChatCompletionResponse{}, NewProviderError("chat_completion", 0, "no messages provided", nil)
	}

	apiMessages := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		apiMessages[i] = openai.ChatCompletionMessage{
			Role:    m.Role(),
			Content: m.Content(),
		}
	}

	apiReq := openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    apiMessages,
		MaxTokens:   req.MaxTokens(),
		Temperature: float32(req.Temperature()),
	}
	if req.JSONOutput() {
		apiReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	var resp openai.ChatCompletionResponse
	err := p.withRetry(ctx, func() error {
		var callErr error
		resp, callErr = p.client.CreateChatCompletion(ctx, apiReq)
		return wrapOpenAIError(callErr)
	})
	if err != nil {
		return ChatCompletionResponse{}, err
	}

	if len(resp.Choices) == 0 {
		return ChatCompletionResponse{}, NewProviderError("chat_completion", 0, "no choices in response", nil)
	}

	usage := NewUsage(resp.Usage.PromptTokens, resp.Usage.CompletionTokens, resp.Usage.TotalTokens)
	choice := resp.Choices[0]
	return NewChatCompletionResponse(choice.Message.Content, string(choice.FinishReason), usage), nil
}

// withRetry executes the function with exponential backoff retry.
func (p *OpenAIProvider) withRetry(ctx context.Context, fn func() error) error {
	delay := p.initialDelay
	var lastErr error

	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if !isRetryable(lastErr) {
			return lastErr
		}

		if attempt < p.maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay = time.Duration(float64(delay) * p.backoffFactor)
			}
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// wrapOpenAIError converts go-openai errors into ProviderError so that the
// shared retry classification applies.
func wrapOpenAIError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return NewProviderError("chat_completion", apiErr.HTTPStatusCode, apiErr.Message, err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return NewProviderError("chat_completion", reqErr.HTTPStatusCode, reqErr.Error(), err)
	}

	return NewProviderError("chat_completion", 0, "request failed", err)
}

var _ TextGenerator = (*OpenAIProvider)(nil)
