package research

import (
	"fmt"
	"strings"

	"github.com/sagohq/sago/domain/company"
	"github.com/sagohq/sago/domain/round"
)

// Kind identifies one of the three independent research queries.
type Kind string

// Kind values.
const (
	KindFinancial Kind = "financial"
	KindSentiment Kind = "sentiment"
	KindCustomer  Kind = "customer"
)

// Instruction builds the natural-language research instruction for the given
// query kind. When a previous round exists the instruction asks for changes
// since that round's corresponding finding.
func Instruction(kind Kind, c company.Company, prev *round.ScrapeRound) string {
	var b strings.Builder

	switch kind {
	case KindFinancial:
		fmt.Fprintf(&b, "Find the latest financial information for %s, the %s startup.\n\n", c.Name(), c.Industry())
	case KindSentiment:
		fmt.Fprintf(&b, "Find the latest public sentiment about %s, the %s startup. Cover press coverage, social media, and community discussion.\n\n", c.Name(), c.Industry())
	case KindCustomer:
		fmt.Fprintf(&b, "Find the latest customer information for %s, the %s startup. List any prominent customers and what they use the product for (guess if you can't find a definitive answer for what a specific customer uses the product for).\n\n", c.Name(), c.Industry())
	}

	b.WriteString(profileBlock(c))

	if prev != nil {
		prior := priorFinding(kind, *prev)
		fmt.Fprintf(&b, "\nYour goal is to find any changes since we last evaluated this company's %s information, when it was: %s\n", kind, prior)
	}

	return b.String()
}

func profileBlock(c company.Company) string {
	var b strings.Builder
	b.WriteString("Company Info:\n")
	fmt.Fprintf(&b, "Name: %s\n", c.Name())
	fmt.Fprintf(&b, "Description: %s\n", c.Description())
	fmt.Fprintf(&b, "Industry: %s\n", c.Industry())
	fmt.Fprintf(&b, "Website: %s\n", c.Website())
	fmt.Fprintf(&b, "Reason for not investing: %s\n", c.ReasonForNotInvesting())
	b.WriteString("Founders:\n")
	b.WriteString(FounderLines(c))
	return b.String()
}

// FounderLines renders one line per founder for prompt embedding.
func FounderLines(c company.Company) string {
	var b strings.Builder
	for _, f := range c.Founders() {
		fmt.Fprintf(&b, "- Name: %s, Bio: %s, Twitter: %s, Email: %s, LinkedIn: %s\n",
			f.Name(), f.Bio(), f.Twitter(), f.Email(), f.Linkedin())
	}
	return b.String()
}

func priorFinding(kind Kind, prev round.ScrapeRound) string {
	switch kind {
	case KindFinancial:
		return prev.FinancialInfo()
	case KindSentiment:
		return prev.Sentiment()
	case KindCustomer:
		return prev.CustomerInfo()
	}
	return ""
}
