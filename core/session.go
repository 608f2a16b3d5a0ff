package core

import "time"

// Status is the lifecycle position of a session.
type Status string

const (
	StatusPending       Status = "pending"
	StatusRunning       Status = "running"
	StatusAwaitingInput Status = "awaiting-input"
	// StatusCompletedByCap means the hard round cap was reached.
	StatusCompletedByCap Status = "completed-by-cap"
	// StatusCompletedBySilence means the silent-round threshold was reached.
	StatusCompletedBySilence Status = "completed-by-silence"
	// StatusCompletedManually means an end-session signal was honored.
	StatusCompletedManually Status = "completed-manually"
	// StatusFailed means the session ended with an error.
	StatusFailed Status = "failed"
)

// Terminal reports whether no further rounds will run.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompletedByCap, StatusCompletedBySilence, StatusCompletedManually, StatusFailed:
		return true
	default:
		return false
	}
}

// SessionState is the single mutable record of a discussion.
//
// Contract:
//   - Only the orchestrator mutates a live SessionState
//   - Everyone else works on a Snapshot
//   - Advisors are fixed at creation and never change
type SessionState struct {
	ID           string
	Idea         string
	Task         TaskType
	Round        int
	SilentRounds int
	Running      bool
	Status       Status
	Transcript   *Transcript
	Advisors     []Advisor
	Summary      *Completion
	Err          string
	Created      time.Time
	Updated      time.Time
}

// NewSessionState creates a pending session for the idea and advisor set.
func NewSessionState(idea string, task TaskType, advisors []Advisor) *SessionState {
	now := time.Now().UTC()
	fixed := make([]Advisor, len(advisors))
	copy(fixed, advisors)
	return &SessionState{
		ID:         NewID(),
		Idea:       idea,
		Task:       task,
		Status:     StatusPending,
		Transcript: NewTranscript(),
		Advisors:   fixed,
		Created:    now,
		Updated:    now,
	}
}

// Touch refreshes the Updated timestamp.
func (s *SessionState) Touch() { s.Updated = time.Now().UTC() }

// Snapshot returns a deep copy safe to hand to other goroutines.
func (s *SessionState) Snapshot() *SessionState {
	clone := *s
	clone.Transcript = s.Transcript.Clone()
	clone.Advisors = make([]Advisor, len(s.Advisors))
	copy(clone.Advisors, s.Advisors)
	if s.Summary != nil {
		summary := *s.Summary
		clone.Summary = &summary
	}
	return &clone
}

// AdvisorNames returns the active advisor names in order.
func (s *SessionState) AdvisorNames() []string { return AdvisorNames(s.Advisors) }

// SessionStore persists session snapshots. Implementations must store and
// return copies so callers never share a live SessionState.
type SessionStore interface {
	Save(state *SessionState) error
	Get(id string) (*SessionState, error)
	List() ([]*SessionState, error)
	Delete(id string) error
}
