package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranscript_AppendOrderAndCopies(t *testing.T) {
	tr := NewTranscript()
	tr.Append(
		NewAdvisorEntry("A", 1, Completion{Content: "a1", Reasoning: "why"}),
		NewAdvisorEntry("B", 1, Completion{Content: "b1"}),
	)
	tr.Append(NewFounderEntry(1, "answer"))

	entries := tr.Entries()
	assert.Len(t, entries, 3)
	assert.Equal(t, "A", entries[0].Speaker)
	assert.Equal(t, "why", entries[0].Reasoning)
	assert.Equal(t, EntryAdvisor, entries[1].Kind)
	assert.Equal(t, FounderSpeaker, entries[2].Speaker)
	assert.Equal(t, EntryFounder, entries[2].Kind)

	entries[0].Message = "changed"
	assert.Equal(t, "a1", tr.Entries()[0].Message, "Entries must return a copy")
}

func TestTranscript_Last(t *testing.T) {
	tr := NewTranscript()
	for i := 0; i < 10; i++ {
		tr.Append(NewFounderEntry(1, string(rune('a'+i))))
	}

	last := tr.Last(8)
	assert.Len(t, last, 8)
	assert.Equal(t, "c", last[0].Message)
	assert.Equal(t, "j", last[7].Message)

	assert.Len(t, tr.Last(50), 10)
	assert.Nil(t, tr.Last(0))
}

func TestTranscript_RoundAndClone(t *testing.T) {
	tr := NewTranscript(
		NewAdvisorEntry("A", 1, Completion{Content: "x"}),
		NewAdvisorEntry("A", 2, Completion{Content: "y"}),
	)
	assert.Len(t, tr.Round(2), 1)
	assert.Empty(t, tr.Round(3))

	clone := tr.Clone()
	clone.Append(NewFounderEntry(2, "z"))
	assert.Equal(t, 2, tr.Len())
	assert.Equal(t, 3, clone.Len())
}

func TestFormatLines(t *testing.T) {
	entries := []TranscriptEntry{
		NewAdvisorEntry("Skeptical VC", 1, Completion{Content: "Too crowded."}),
		NewFounderEntry(1, "We have a moat."),
	}
	assert.Equal(t, "Skeptical VC: Too crowded.\nYOU: We have a moat.", FormatLines(entries))
	assert.Equal(t, "", FormatLines(nil))
}
