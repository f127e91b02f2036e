package decision

import (
	"fmt"
	"strings"
	"time"

	"github.com/sagohq/sago/domain/company"
	"github.com/sagohq/sago/domain/research"
	"github.com/sagohq/sago/domain/round"
)

// SystemPrompt frames the model as a VC assistant revisiting a past pass.
const SystemPrompt = `You are an assistant at a venture capital firm. You help partners make investment decisions about companies they previously chose not to invest in, given new information. You'll be given general company information, financial info, public sentiment about the company, and some information about the company's customers. Your goal is to make an updated decision of whether or not to invest.
Give your reasoning either way. Also, if your decision is yes, create an outreach message to the founders that could be used.
Respond with a JSON object: {"shouldInvest": boolean, "reasoning": string, "outreachMessage": string or null}.`

// Prompt carries the user-message content for one decision call.
type Prompt struct {
	text string
}

// Text returns the rendered prompt.
func (p Prompt) Text() string { return p.text }

// NewPrompt builds the comparison prompt from the company profile and the two
// round snapshots. oldRound must be a completed round from before newRound.
func NewPrompt(c company.Company, oldRound, newRound round.ScrapeRound) Prompt {
	var b strings.Builder

	b.WriteString("Here is the company information:\n")
	fmt.Fprintf(&b, "Name: %s\n", c.Name())
	fmt.Fprintf(&b, "Description: %s\n", c.Description())
	fmt.Fprintf(&b, "Industry: %s\n", c.Industry())
	fmt.Fprintf(&b, "Website: %s\n", c.Website())
	fmt.Fprintf(&b, "Previous reason for not investing: %s\n\n", c.ReasonForNotInvesting())

	b.WriteString("Founders:\n")
	b.WriteString(research.FounderLines(c))

	fmt.Fprintf(&b, "\n<DateOfPreviousDecision>%s</DateOfPreviousDecision>\n", formatTime(oldRound.UpdatedAt()))
	b.WriteString("<PreviousInformationWhenInitialDecisionWasMade>\n")
	fmt.Fprintf(&b, "Financial info when initial decision was made: %s\n", oldRound.FinancialInfo())
	fmt.Fprintf(&b, "Company sentiment when initial decision was made: %s\n", oldRound.Sentiment())
	fmt.Fprintf(&b, "Company customer info when initial decision was made: %s\n", oldRound.CustomerInfo())
	b.WriteString("</PreviousInformationWhenInitialDecisionWasMade>\n\n")

	fmt.Fprintf(&b, "<UpdatedInformationDate>%s</UpdatedInformationDate>\n", formatTime(newRound.UpdatedAt()))
	b.WriteString("<UpdatedInformation>\n")
	fmt.Fprintf(&b, "Updated financial info: %s\n", newRound.FinancialInfo())
	fmt.Fprintf(&b, "Updated company sentiment: %s\n", newRound.Sentiment())
	fmt.Fprintf(&b, "Updated company customer info: %s\n", newRound.CustomerInfo())
	b.WriteString("</UpdatedInformation>\n")

	return Prompt{text: b.String()}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
