package notify_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sagohq/sago/domain/company"
	"github.com/sagohq/sago/domain/user"
	"github.com/sagohq/sago/infrastructure/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEscalation() notify.Escalation {
	recipient := user.Reconstruct(7, "Pat Partner", "pat@firm.example.com")
	c := company.New("Acme", "robots", "robotics", "", "", "too early").WithID(42)
	return notify.NewEscalation(recipient, c, "momentum changed", "Hi founders, let's talk.")
}

func TestResendNotify(t *testing.T) {
	var got struct {
		From    string   `json:"from"`
		To      []string `json:"to"`
		Subject string   `json:"subject"`
		Text    string   `json:"text"`
	}
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/emails", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "email-1"})
	}))
	defer server.Close()

	notifier := notify.NewResendNotifier("secret", "Sago <sago@firm.example.com>",
		notify.WithResendBaseURL(server.URL),
		notify.WithDashboardBaseURL("https://dash.example.com"),
	)

	require.NoError(t, notifier.Notify(context.Background(), testEscalation()))

	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "Sago <sago@firm.example.com>", got.From)
	assert.Equal(t, []string{"pat@firm.example.com"}, got.To)
	assert.Equal(t, "Updated Investment Decision", got.Subject)

	assert.Contains(t, got.Text, "Hi Pat,")
	assert.Contains(t, got.Text, "Acme might be ready for another look")
	assert.Contains(t, got.Text, "Investment reasoning: momentum changed")
	assert.Contains(t, got.Text, "Template outreach message: Hi founders, let's talk.")
	assert.Contains(t, got.Text, "https://dash.example.com/dash/42")
}

func TestResendNotifyAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "domain not verified"})
	}))
	defer server.Close()

	notifier := notify.NewResendNotifier("secret", "sago@firm.example.com",
		notify.WithResendBaseURL(server.URL))

	err := notifier.Notify(context.Background(), testEscalation())
	assert.ErrorContains(t, err, "domain not verified")
	assert.ErrorContains(t, err, "403")
}

func TestBodyTrimsDashboardSlash(t *testing.T) {
	body := notify.Body(testEscalation(), "https://dash.example.com/")
	assert.Contains(t, body, "https://dash.example.com/dash/42")
}
