package notify

import (
	"context"
	"log/slog"
)

// LogNotifier writes escalations to the log instead of sending email. Used
// when no Resend API key is configured, so local development never needs
// credentials.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *slog.Logger) LogNotifier {
	return LogNotifier{logger: logger}
}

// Notify logs the escalation.
func (n LogNotifier) Notify(_ context.Context, e Escalation) error {
	n.logger.Info("escalation",
		"recipient", e.Recipient().Email(),
		"company", e.Company().Name(),
		"reasoning", e.Reasoning(),
		"outreach", e.Outreach(),
	)
	return nil
}

var _ Notifier = LogNotifier{}
