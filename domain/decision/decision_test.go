package decision

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecisionActionable(t *testing.T) {
	outreach := "Hi, we would love to reconnect."
	empty := ""

	assert.True(t, Decision{ShouldInvest: true, OutreachMessage: &outreach}.Actionable())

	// Positive decisions without usable outreach content never escalate.
	assert.False(t, Decision{ShouldInvest: true}.Actionable())
	assert.False(t, Decision{ShouldInvest: true, OutreachMessage: &empty}.Actionable())

	assert.False(t, Decision{ShouldInvest: false, OutreachMessage: &outreach}.Actionable())
}

func TestDecisionOutreach(t *testing.T) {
	outreach := "Hi there"

	assert.Equal(t, "Hi there", Decision{OutreachMessage: &outreach}.Outreach())
	assert.Empty(t, Decision{}.Outreach())
}
