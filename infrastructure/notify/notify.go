// Package notify delivers escalation messages to the partner who tracks a
// company.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/sagohq/sago/domain/company"
	"github.com/sagohq/sago/domain/user"
)

// Escalation is one positive re-evaluation worth a partner's attention.
type Escalation struct {
	recipient user.User
	company   company.Company
	reasoning string
	outreach  string
}

// NewEscalation creates an Escalation.
func NewEscalation(recipient user.User, c company.Company, reasoning, outreach string) Escalation {
	return Escalation{
		recipient: recipient,
		company:   c,
		reasoning: reasoning,
		outreach:  outreach,
	}
}

// Recipient returns the partner to notify.
func (e Escalation) Recipient() user.User { return e.recipient }

// Company returns the re-evaluated company.
func (e Escalation) Company() company.Company { return e.company }

// Reasoning returns the decision reasoning.
func (e Escalation) Reasoning() string { return e.reasoning }

// Outreach returns the template outreach message.
func (e Escalation) Outreach() string { return e.outreach }

// Notifier sends escalations over some channel.
type Notifier interface {
	// Notify delivers the escalation. Implementations are at-least-once: a
	// retried transition may deliver the same escalation again.
	Notify(ctx context.Context, e Escalation) error
}

// Subject is the escalation email subject line.
const Subject = "Updated Investment Decision"

// Body renders the escalation email text. dashboardBaseURL is the root of the
// dashboard that deep links point into.
func Body(e Escalation, dashboardBaseURL string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", e.Recipient().FirstName())
	fmt.Fprintf(&b, "It looks like %s might be ready for another look!\n\n", e.Company().Name())
	fmt.Fprintf(&b, "Investment reasoning: %s\n\n", e.Reasoning())
	fmt.Fprintf(&b, "Template outreach message: %s\n\n", e.Outreach())
	fmt.Fprintf(&b, "View more info on Sago: %s/dash/%d\n", strings.TrimRight(dashboardBaseURL, "/"), e.Company().ID())
	return b.String()
}
