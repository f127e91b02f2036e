// Package decision provides the investment re-evaluation domain: the decision
// value type, the decision model contract, and the comparison prompt.
package decision

import "context"

// Decision is the model's judgement on whether new evidence warrants
// revisiting a past no-invest call.
type Decision struct {
	ShouldInvest    bool    `json:"shouldInvest"`
	Reasoning       string  `json:"reasoning"`
	OutreachMessage *string `json:"outreachMessage"`
}

// Actionable reports whether the decision should trigger an escalation.
// A positive decision without an outreach message is treated as not
// actionable: the notifier must never send with missing content.
func (d Decision) Actionable() bool {
	return d.ShouldInvest && d.OutreachMessage != nil && *d.OutreachMessage != ""
}

// Outreach returns the outreach message, or the empty string when absent.
func (d Decision) Outreach() string {
	if d.OutreachMessage == nil {
		return ""
	}
	return *d.OutreachMessage
}

// Model is the structured-generation contract: given the comparison prompt it
// produces a Decision. Implementations wrap an LLM endpoint.
type Model interface {
	Decide(ctx context.Context, prompt Prompt) (Decision, error)
}
