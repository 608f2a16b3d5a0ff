package core

import "github.com/google/uuid"

// EventKind discriminates the two accumulators a streamed response feeds.
type EventKind string

const (
	// EventReasoning carries the cumulative reasoning trace.
	EventReasoning EventKind = "reasoning"
	// EventContent carries the cumulative visible text.
	EventContent EventKind = "content"
)

// StreamEvent is a live update for one participant. Text is cumulative: a
// later event of the same kind always extends the earlier one.
type StreamEvent struct {
	Kind EventKind `json:"kind"`
	Text string    `json:"text"`
}

// Completion is the terminal result of an inference call.
type Completion struct {
	Content   string `json:"content"`
	Reasoning string `json:"thinking,omitempty"`
}

// NewID returns a random identifier for sessions and transcript entries.
func NewID() string { return uuid.NewString() }
