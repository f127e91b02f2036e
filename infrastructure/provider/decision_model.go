package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sagohq/sago/domain/decision"
)

// DecisionModel adapts a TextGenerator into the decision.Model contract: it
// sends the comparison prompt and parses the JSON decision out of the
// completion.
type DecisionModel struct {
	generator TextGenerator
}

// NewDecisionModel creates a DecisionModel backed by the given generator.
func NewDecisionModel(generator TextGenerator) DecisionModel {
	return DecisionModel{generator: generator}
}

// Decide runs one decision call and parses the structured result.
func (m DecisionModel) Decide(ctx context.Context, prompt decision.Prompt) (decision.Decision, error) {
	req := NewChatCompletionRequest([]Message{
		SystemMessage(decision.SystemPrompt),
		UserMessage(prompt.Text()),
	}).WithJSONOutput()

	resp, err := m.generator.ChatCompletion(ctx, req)
	if err != nil {
		return decision.Decision{}, fmt.Errorf("decision completion: %w", err)
	}

	parsed, err := parseDecision(resp.Content())
	if err != nil {
		return decision.Decision{}, fmt.Errorf("parse decision: %w", err)
	}
	return parsed, nil
}

// parseDecision extracts the decision JSON from a completion. Models without
// a native JSON mode sometimes wrap the object in a markdown fence or prose,
// so the parser falls back to the outermost braces.
func parseDecision(content string) (decision.Decision, error) {
	var d decision.Decision

	trimmed := strings.TrimSpace(content)
	if err := json.Unmarshal([]byte(trimmed), &d); err == nil {
		return d, nil
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start < 0 || end <= start {
		return decision.Decision{}, fmt.Errorf("no JSON object in completion")
	}

	if err := json.Unmarshal([]byte(trimmed[start:end+1]), &d); err != nil {
		return decision.Decision{}, err
	}
	return d, nil
}

var _ decision.Model = DecisionModel{}
