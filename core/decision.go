package core

import "strings"

// Decision is the moderation outcome after a round. The question is present
// exactly when ShouldAsk is true.
type Decision struct {
	ShouldAsk bool   `json:"should_ask"`
	Question  string `json:"question,omitempty"`
}

// NewDecision normalizes a raw moderation answer. Asking without a question
// is treated as declining.
func NewDecision(shouldAsk bool, question string) Decision {
	q := strings.TrimSpace(question)
	if !shouldAsk || q == "" {
		return Decision{}
	}
	return Decision{ShouldAsk: true, Question: q}
}

// Ask is shorthand for a decision to pause with question.
func Ask(question string) Decision { return NewDecision(true, question) }

// Decline is the decision to continue without pausing.
func Decline() Decision { return Decision{} }
