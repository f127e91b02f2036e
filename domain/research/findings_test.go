package research

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindingsComplete(t *testing.T) {
	assert.False(t, Findings{}.Complete())

	f := FromStrings("financial", "sentiment", "customer")
	assert.True(t, f.Complete())

	f.Sentiment = nil
	assert.False(t, f.Complete())
}

func TestFindingsMissing(t *testing.T) {
	assert.Equal(t,
		[]string{"financial_info", "sentiment", "customer_info"},
		Findings{}.Missing(),
	)

	partial := FromStrings("a", "b", "c")
	partial.CustomerInfo = nil
	assert.Equal(t, []string{"customer_info"}, partial.Missing())

	assert.Empty(t, FromStrings("a", "b", "c").Missing())
}
