package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedAdvisor_SystemInstruction(t *testing.T) {
	adv := NewFixedAdvisor(Profile{Name: "Skeptical VC", Role: "Investor"}, "  You are a partner at a top-tier VC firm.  ")

	first, err := adv.SystemInstruction(TaskCritique, 1)
	require.NoError(t, err)
	assert.Contains(t, first, "Round 1.")
	assert.Contains(t, first, TaskCritique.Directive())
	assert.Contains(t, first, "YOUR PERSONA:\nYou are a partner at a top-tier VC firm.\n")
	assert.Contains(t, first, "Give your initial gut reaction")
	assert.NotContains(t, first, "Respond to what others said")

	later, err := adv.SystemInstruction(TaskFindPMF, 3)
	require.NoError(t, err)
	assert.Contains(t, later, "Round 3.")
	assert.Contains(t, later, TaskFindPMF.Directive())
	assert.Contains(t, later, "Respond to what others said")
	assert.NotContains(t, later, "gut reaction")
}

func TestAdvisor_Origins(t *testing.T) {
	fixed := NewFixedAdvisor(Profile{Name: "Bill Gates"}, "p")
	gen := NewGeneratedAdvisor(Profile{Name: "ER Nurse", Role: "Clinician"}, "Works night shifts", "persona")

	assert.Equal(t, OriginFixed, fixed.Origin())
	assert.Equal(t, OriginGenerated, gen.Origin())
	assert.Equal(t, "Works night shifts", gen.Description())
	assert.Equal(t, "persona", gen.Persona())
}

func TestAdvisor_InitialDefaultsToFirstLetter(t *testing.T) {
	gen := NewGeneratedAdvisor(Profile{Name: "école teacher"}, "", "")
	assert.Equal(t, "É", gen.Profile().Initial)

	fixed := NewFixedAdvisor(Profile{Name: "Elon Musk", Initial: "M"}, "")
	assert.Equal(t, "M", fixed.Profile().Initial)
}

func TestAdvisorNames(t *testing.T) {
	advisors := []Advisor{
		NewFixedAdvisor(Profile{Name: "A"}, ""),
		NewGeneratedAdvisor(Profile{Name: "B"}, "", ""),
	}
	assert.Equal(t, []string{"A", "B"}, AdvisorNames(advisors))
}

func TestGeneratedAdvisor_SameTemplateAsFixed(t *testing.T) {
	fixed := NewFixedAdvisor(Profile{Name: "X"}, "persona text")
	gen := NewGeneratedAdvisor(Profile{Name: "Y"}, "desc", "persona text")

	a, err := fixed.SystemInstruction(TaskBrainstorm, 2)
	require.NoError(t, err)
	b, err := gen.SystemInstruction(TaskBrainstorm, 2)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, "You're in a product feedback hot seat session."))
}
