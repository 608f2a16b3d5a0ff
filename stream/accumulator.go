package stream

import (
	"strings"

	"github.com/Ying-Kai-Liao/hot-seat/core"
)

// Delta is one interpreted unit of a stream. It increments exactly one
// accumulator.
type Delta struct {
	Kind core.EventKind
	Text string
}

// Accumulator folds Deltas into the reasoning and content accumulators.
// The zero value is ready to use. Not safe for concurrent use.
type Accumulator struct {
	reasoning strings.Builder
	content   strings.Builder
}

// Apply extends the matching accumulator and returns the cumulative event.
// Empty deltas and unknown kinds change nothing and report false.
func (a *Accumulator) Apply(d Delta) (core.StreamEvent, bool) {
	if d.Text == "" {
		return core.StreamEvent{}, false
	}
	switch d.Kind {
	case core.EventReasoning:
		a.reasoning.WriteString(d.Text)
		return core.StreamEvent{Kind: core.EventReasoning, Text: a.reasoning.String()}, true
	case core.EventContent:
		a.content.WriteString(d.Text)
		return core.StreamEvent{Kind: core.EventContent, Text: a.content.String()}, true
	default:
		return core.StreamEvent{}, false
	}
}

// Reasoning returns the reasoning accumulated so far.
func (a *Accumulator) Reasoning() string { return a.reasoning.String() }

// Content returns the visible text accumulated so far.
func (a *Accumulator) Content() string { return a.content.String() }

// Result returns both accumulators as a Completion.
func (a *Accumulator) Result() core.Completion {
	return core.Completion{Content: a.content.String(), Reasoning: a.reasoning.String()}
}
