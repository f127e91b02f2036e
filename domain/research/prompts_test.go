package research

import (
	"testing"
	"time"

	"github.com/sagohq/sago/domain/company"
	"github.com/sagohq/sago/domain/round"
	"github.com/stretchr/testify/assert"
)

func testCompany() company.Company {
	c := company.New(
		"Acme Robotics",
		"Warehouse automation robots",
		"robotics",
		"https://acme.example.com",
		"https://acme.example.com/logo.png",
		"Market felt too early",
	)
	return c.WithFounders([]company.Founder{
		company.NewFounder("Ada Smith", "Ex-robotics PhD", "@ada", "ada@acme.example.com", "linkedin.com/in/ada"),
	})
}

func TestInstructionFirstRound(t *testing.T) {
	got := Instruction(KindFinancial, testCompany(), nil)

	assert.Contains(t, got, "Find the latest financial information for Acme Robotics, the robotics startup.")
	assert.Contains(t, got, "Name: Acme Robotics")
	assert.Contains(t, got, "Reason for not investing: Market felt too early")
	assert.Contains(t, got, "- Name: Ada Smith, Bio: Ex-robotics PhD, Twitter: @ada")
	assert.NotContains(t, got, "since we last evaluated")
}

func TestInstructionWithPreviousRound(t *testing.T) {
	now := time.Now()
	prev := round.Reconstruct(
		1, 3, 1, now,
		"raised seed", "mixed coverage", "pilot customers",
		true, now, now,
	)

	for _, tc := range []struct {
		kind  Kind
		prior string
	}{
		{KindFinancial, "raised seed"},
		{KindSentiment, "mixed coverage"},
		{KindCustomer, "pilot customers"},
	} {
		got := Instruction(tc.kind, testCompany(), &prev)
		assert.Contains(t, got, "since we last evaluated this company's "+string(tc.kind)+" information, when it was: "+tc.prior)
	}
}

func TestInstructionKindOpeners(t *testing.T) {
	c := testCompany()

	assert.Contains(t, Instruction(KindSentiment, c, nil), "public sentiment about Acme Robotics")
	assert.Contains(t, Instruction(KindCustomer, c, nil), "customer information for Acme Robotics")
}
