package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ResendNotifier sends escalation emails through the Resend API.
type ResendNotifier struct {
	apiKey           string
	from             string
	baseURL          string
	dashboardBaseURL string
	httpClient       *http.Client
}

// ResendOption is a functional option for ResendNotifier.
type ResendOption func(*ResendNotifier)

// WithResendBaseURL sets the base URL (for testing or proxies).
func WithResendBaseURL(url string) ResendOption {
	return func(n *ResendNotifier) { n.baseURL = url }
}

// WithResendTimeout sets the HTTP timeout.
func WithResendTimeout(d time.Duration) ResendOption {
	return func(n *ResendNotifier) { n.httpClient.Timeout = d }
}

// WithDashboardBaseURL sets the dashboard root used in deep links.
func WithDashboardBaseURL(url string) ResendOption {
	return func(n *ResendNotifier) { n.dashboardBaseURL = url }
}

// NewResendNotifier creates a ResendNotifier. from is the sender address, in
// "Name <addr>" form.
func NewResendNotifier(apiKey, from string, opts ...ResendOption) *ResendNotifier {
	n := &ResendNotifier{
		apiKey:           apiKey,
		from:             from,
		baseURL:          "https://api.resend.com",
		dashboardBaseURL: "https://sago.lpm.sh",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

type resendError struct {
	Message string `json:"message"`
}

// Notify sends the escalation email.
func (n *ResendNotifier) Notify(ctx context.Context, e Escalation) error {
	body, err := json.Marshal(resendRequest{
		From:    n.from,
		To:      []string{e.Recipient().Email()},
		Subject: Subject,
		Text:    Body(e, n.dashboardBaseURL),
	})
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+n.apiKey)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		var apiErr resendError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Message != "" {
			return fmt.Errorf("resend api status %d: %s", resp.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("resend api status %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

var _ Notifier = (*ResendNotifier)(nil)
