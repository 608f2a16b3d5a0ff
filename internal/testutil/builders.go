package testutil

import (
	"github.com/Ying-Kai-Liao/hot-seat/core"
)

// PersonaFor returns the persona text Advisors assigns to name. Scripted
// models use it to recognise which advisor a request belongs to.
func PersonaFor(name string) string { return "You are " + name + "." }

// Advisors builds fixed advisors whose personas embed their names.
func Advisors(names ...string) []core.Advisor {
	out := make([]core.Advisor, len(names))
	for i, n := range names {
		out[i] = core.NewFixedAdvisor(core.Profile{Name: n, Role: "Tester"}, PersonaFor(n))
	}
	return out
}

// Entry builds an advisor transcript entry.
func Entry(speaker string, round int, message string) core.TranscriptEntry {
	return core.NewAdvisorEntry(speaker, round, core.Completion{Content: message})
}

// StateBuilder helps construct session states with fluent chaining.
// Example:
//
//	st := NewStateBuilder("a todo app").Advisors("A", "B").Entry("A", 1, "hi").Build()
type StateBuilder struct {
	idea     string
	task     core.TaskType
	advisors []core.Advisor
	entries  []core.TranscriptEntry
	status   core.Status
	round    int
	summary  *core.Completion
}

// NewStateBuilder creates a builder for a critique session about idea.
func NewStateBuilder(idea string) *StateBuilder {
	return &StateBuilder{idea: idea, task: core.TaskCritique}
}

// Task sets the task type (chainable).
func (b *StateBuilder) Task(t core.TaskType) *StateBuilder {
	b.task = t
	return b
}

// Advisors sets the advisor lineup using Advisors (chainable).
func (b *StateBuilder) Advisors(names ...string) *StateBuilder {
	b.advisors = Advisors(names...)
	return b
}

// Entry appends an advisor entry and advances the round counter (chainable).
func (b *StateBuilder) Entry(speaker string, round int, message string) *StateBuilder {
	b.entries = append(b.entries, Entry(speaker, round, message))
	if round > b.round {
		b.round = round
	}
	return b
}

// Founder appends a founder entry (chainable).
func (b *StateBuilder) Founder(round int, message string) *StateBuilder {
	b.entries = append(b.entries, core.NewFounderEntry(round, message))
	return b
}

// Status sets the status (chainable).
func (b *StateBuilder) Status(s core.Status) *StateBuilder {
	b.status = s
	return b
}

// Summary sets the closing summary (chainable).
func (b *StateBuilder) Summary(text string) *StateBuilder {
	b.summary = &core.Completion{Content: text}
	return b
}

// Build returns the session state.
func (b *StateBuilder) Build() *core.SessionState {
	st := core.NewSessionState(b.idea, b.task, b.advisors)
	st.Transcript.Append(b.entries...)
	st.Round = b.round
	if b.status != "" {
		st.Status = b.status
	}
	st.Summary = b.summary
	return st
}
