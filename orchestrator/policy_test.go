package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ying-Kai-Liao/hot-seat/core"
)

func TestPolicy_Defaults(t *testing.T) {
	p := NewPolicy(0, -1)
	assert.Equal(t, DefaultMaxRounds, p.maxRounds)
	assert.Equal(t, DefaultSilenceCap, p.silenceCap)
	assert.Zero(t, p.Round())
}

func TestPolicy_SilenceCap(t *testing.T) {
	p := NewPolicy(10, 3)
	for i := 1; i <= 3; i++ {
		assert.True(t, p.BeginRound())
		assert.Equal(t, i, p.Round())
		p.RecordDecision(core.Decline())
		assert.Equal(t, i, p.SilentRounds())
	}
	status, done := p.Done()
	assert.True(t, done)
	assert.Equal(t, core.StatusCompletedBySilence, status)
	assert.False(t, p.BeginRound())
	assert.Equal(t, 3, p.Round())
}

func TestPolicy_AskResetsSilence(t *testing.T) {
	p := NewPolicy(10, 3)
	p.BeginRound()
	p.RecordDecision(core.Decline())
	p.BeginRound()
	p.RecordDecision(core.Decline())
	assert.Equal(t, 2, p.SilentRounds())

	p.BeginRound()
	p.RecordDecision(core.Ask("Who is the buyer?"))
	assert.Zero(t, p.SilentRounds())

	p.RecordDecision(core.Decline())
	p.RecordInterjection()
	assert.Zero(t, p.SilentRounds())
}

func TestPolicy_RoundCap(t *testing.T) {
	p := NewPolicy(2, 3)
	assert.True(t, p.BeginRound())
	p.RecordDecision(core.Ask("q"))
	assert.True(t, p.BeginRound())
	p.RecordDecision(core.Ask("q"))
	assert.False(t, p.BeginRound())

	status, done := p.Done()
	assert.True(t, done)
	assert.Equal(t, core.StatusCompletedByCap, status)
}

func TestPolicy_Precedence(t *testing.T) {
	p := NewPolicy(1, 1)
	p.BeginRound()
	p.RecordDecision(core.Decline())

	status, _ := p.Done()
	assert.Equal(t, core.StatusCompletedBySilence, status, "silence wins over the cap")

	p.End()
	status, _ = p.Done()
	assert.Equal(t, core.StatusCompletedManually, status, "manual end wins over everything")
}

func TestPolicy_NotDone(t *testing.T) {
	p := NewPolicy(10, 3)
	p.BeginRound()
	status, done := p.Done()
	assert.False(t, done)
	assert.Empty(t, status)
}
