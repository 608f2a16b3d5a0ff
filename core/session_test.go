package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionState_Snapshot(t *testing.T) {
	advisors := []Advisor{NewFixedAdvisor(Profile{Name: "A"}, "p")}
	s := NewSessionState("a todo app", TaskCritique, advisors)
	s.Transcript.Append(NewAdvisorEntry("A", 1, Completion{Content: "hm"}))
	s.Summary = &Completion{Content: "sum"}

	snap := s.Snapshot()
	assert.NotSame(t, s, snap)
	assert.Equal(t, s.ID, snap.ID)

	snap.Transcript.Append(NewFounderEntry(1, "extra"))
	snap.Summary.Content = "changed"
	snap.Advisors[0] = NewFixedAdvisor(Profile{Name: "B"}, "")

	assert.Equal(t, 1, s.Transcript.Len())
	assert.Equal(t, "sum", s.Summary.Content)
	assert.Equal(t, []string{"A"}, s.AdvisorNames())
}

func TestNewSessionState_CopiesAdvisors(t *testing.T) {
	advisors := []Advisor{NewFixedAdvisor(Profile{Name: "A"}, "")}
	s := NewSessionState("idea", TaskBrainstorm, advisors)
	advisors[0] = NewFixedAdvisor(Profile{Name: "Z"}, "")

	assert.Equal(t, "A", s.Advisors[0].Name())
	assert.Equal(t, StatusPending, s.Status)
	assert.NotEmpty(t, s.ID)
}

func TestStatus_Terminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusRunning.Terminal())
	assert.False(t, StatusAwaitingInput.Terminal())
	assert.True(t, StatusCompletedByCap.Terminal())
	assert.True(t, StatusCompletedBySilence.Terminal())
	assert.True(t, StatusCompletedManually.Terminal())
	assert.True(t, StatusFailed.Terminal())
}
