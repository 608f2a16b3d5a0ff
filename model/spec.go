package model

import (
	"fmt"
	"strings"
)

// Reasoning effort levels accepted by OpenAI-compatible reasoning models.
const (
	EffortMinimal = "minimal"
	EffortLow     = "low"
	EffortMedium  = "medium"
	EffortHigh    = "high"
)

// Spec is a parsed "name[:effort]" model identifier such as "gpt-5-mini:low".
type Spec struct {
	Name            string
	ReasoningEffort string
}

// ParseSpec splits s at its last colon. The suffix is only treated as an
// effort when it names a known level, so "org/model:tag" style names survive.
func ParseSpec(s string) Spec {
	s = strings.TrimSpace(s)
	i := strings.LastIndex(s, ":")
	if i < 0 {
		return Spec{Name: s}
	}
	effort := strings.ToLower(s[i+1:])
	switch effort {
	case EffortMinimal, EffortLow, EffortMedium, EffortHigh:
		return Spec{Name: s[:i], ReasoningEffort: effort}
	default:
		return Spec{Name: s}
	}
}

// Validate reports an empty model name.
func (s Spec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("model name is required")
	}
	return nil
}

// String renders the spec back to its "name[:effort]" form.
func (s Spec) String() string {
	if s.ReasoningEffort == "" {
		return s.Name
	}
	return s.Name + ":" + s.ReasoningEffort
}
