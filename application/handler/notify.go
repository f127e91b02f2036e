package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sagohq/sago/domain/company"
	"github.com/sagohq/sago/domain/monitor"
	"github.com/sagohq/sago/domain/user"
	"github.com/sagohq/sago/infrastructure/notify"
	"github.com/sagohq/sago/internal/database"
)

// Notify delivers the staged escalation and ends the loop.
type Notify struct {
	users     user.Store
	companies company.Store
	notifier  notify.Notifier
	logger    *slog.Logger
}

// NewNotify creates a Notify handler.
func NewNotify(users user.Store, companies company.Store, notifier notify.Notifier, logger *slog.Logger) Notify {
	return Notify{
		users:     users,
		companies: companies,
		notifier:  notifier,
		logger:    logger,
	}
}

// Execute performs NOTIFYING -> TERMINATED. A missing user is logged and the
// run still terminates; delivery is at-least-once, so a crash after the send
// but before the row write may deliver the same staged content twice.
func (h Notify) Execute(ctx context.Context, run monitor.Run) (monitor.Run, error) {
	recipient, err := h.users.Get(ctx, run.UserID())
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			h.logger.Warn("escalation recipient missing",
				slog.Int64("run_id", run.ID()),
				slog.Int64("user_id", run.UserID()),
			)
			return run.Terminated(), nil
		}
		return run, fmt.Errorf("load user: %w", err)
	}

	c, err := h.companies.Get(ctx, run.CompanyID())
	if err != nil {
		return run, fmt.Errorf("load company: %w", err)
	}

	escalation := notify.NewEscalation(recipient, c, run.Reasoning(), run.Outreach())
	if err := h.notifier.Notify(ctx, escalation); err != nil {
		return run, fmt.Errorf("notify: %w", err)
	}

	h.logger.Info("escalation sent",
		slog.Int64("company_id", run.CompanyID()),
		slog.String("recipient", recipient.Email()),
	)

	return run.Terminated(), nil
}

var _ Handler = Notify{}
