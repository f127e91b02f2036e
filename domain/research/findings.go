// Package research provides the research-round domain: findings, research
// instructions, and the asynchronous research backend contract.
package research

// Findings holds the three research results for one round. A nil field means
// that query failed or returned a non-completed terminal status; the round is
// only usable when all three fields are present.
type Findings struct {
	FinancialInfo *string
	Sentiment     *string
	CustomerInfo  *string
}

// Complete reports whether all three findings are present.
func (f Findings) Complete() bool {
	return f.FinancialInfo != nil && f.Sentiment != nil && f.CustomerInfo != nil
}

// Missing returns the names of absent findings, for logging.
func (f Findings) Missing() []string {
	var missing []string
	if f.FinancialInfo == nil {
		missing = append(missing, "financial_info")
	}
	if f.Sentiment == nil {
		missing = append(missing, "sentiment")
	}
	if f.CustomerInfo == nil {
		missing = append(missing, "customer_info")
	}
	return missing
}

// FromStrings builds complete Findings from three plain strings.
func FromStrings(financial, sentiment, customer string) Findings {
	return Findings{
		FinancialInfo: &financial,
		Sentiment:     &sentiment,
		CustomerInfo:  &customer,
	}
}
