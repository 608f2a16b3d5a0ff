package core

import (
	"strings"
	"time"
)

// FounderSpeaker is the speaker label recorded for human contributions.
const FounderSpeaker = "YOU"

// EntryKind distinguishes advisor contributions from founder input.
type EntryKind string

const (
	// EntryAdvisor is a completed advisor response.
	EntryAdvisor EntryKind = "advisor"
	// EntryFounder is a human contribution.
	EntryFounder EntryKind = "founder"
)

// TranscriptEntry is one contribution to the discussion. Entries are
// immutable once appended.
type TranscriptEntry struct {
	ID        string    `json:"id"`
	Speaker   string    `json:"advisor"`
	Round     int       `json:"round"`
	Message   string    `json:"message"`
	Reasoning string    `json:"thinking,omitempty"`
	Kind      EntryKind `json:"kind"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewAdvisorEntry records an advisor's completed response for a round.
func NewAdvisorEntry(speaker string, round int, c Completion) TranscriptEntry {
	return TranscriptEntry{
		ID:        NewID(),
		Speaker:   speaker,
		Round:     round,
		Message:   c.Content,
		Reasoning: c.Reasoning,
		Kind:      EntryAdvisor,
		CreatedAt: time.Now().UTC(),
	}
}

// NewFounderEntry records a human contribution for a round.
func NewFounderEntry(round int, message string) TranscriptEntry {
	return TranscriptEntry{
		ID:        NewID(),
		Speaker:   FounderSpeaker,
		Round:     round,
		Message:   message,
		Kind:      EntryFounder,
		CreatedAt: time.Now().UTC(),
	}
}

// Transcript is the append-only ordered record of a discussion. It is not
// safe for concurrent mutation; the orchestrator owns it and hands out copies.
type Transcript struct {
	entries []TranscriptEntry
}

// NewTranscript creates a transcript seeded with entries.
func NewTranscript(entries ...TranscriptEntry) *Transcript {
	t := &Transcript{}
	t.Append(entries...)
	return t
}

// Append adds entries in the given order.
func (t *Transcript) Append(entries ...TranscriptEntry) {
	t.entries = append(t.entries, entries...)
}

// Len returns the number of entries.
func (t *Transcript) Len() int { return len(t.entries) }

// Entries returns a copy of all entries.
func (t *Transcript) Entries() []TranscriptEntry {
	out := make([]TranscriptEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Last returns a copy of the most recent n entries (all of them if fewer).
func (t *Transcript) Last(n int) []TranscriptEntry {
	if n <= 0 {
		return nil
	}
	start := 0
	if len(t.entries) > n {
		start = len(t.entries) - n
	}
	out := make([]TranscriptEntry, len(t.entries)-start)
	copy(out, t.entries[start:])
	return out
}

// Round returns a copy of the entries recorded for round n.
func (t *Transcript) Round(n int) []TranscriptEntry {
	var out []TranscriptEntry
	for _, e := range t.entries {
		if e.Round == n {
			out = append(out, e)
		}
	}
	return out
}

// Clone returns an independent copy.
func (t *Transcript) Clone() *Transcript {
	return &Transcript{entries: t.Entries()}
}

// FormatLines renders entries as "speaker: message" lines, the shape every
// prompt uses for discussion context.
func FormatLines(entries []TranscriptEntry) string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.Speaker + ": " + e.Message
	}
	return strings.Join(lines, "\n")
}
