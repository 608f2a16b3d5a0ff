package core

import (
	"strings"

	"github.com/Ying-Kai-Liao/hot-seat/internal/util"
)

// Origin tags where an advisor came from.
type Origin string

const (
	// OriginFixed marks advisors drawn from the static catalog.
	OriginFixed Origin = "fixed"
	// OriginGenerated marks advisors produced for a single session.
	OriginGenerated Origin = "generated"
)

// Profile holds the identity and display attributes of an advisor.
type Profile struct {
	Name    string `json:"name" yaml:"name"`
	Role    string `json:"role" yaml:"role"`
	Color   string `json:"color,omitempty" yaml:"color"`
	Initial string `json:"initial,omitempty" yaml:"initial"`
}

// Advisor is a discussion participant. Implementations are immutable once
// created for a session.
type Advisor interface {
	// Name returns the speaker label used in the transcript.
	Name() string
	// Profile returns identity and display attributes.
	Profile() Profile
	// Origin reports whether the advisor is fixed or generated.
	Origin() Origin
	// Persona returns the opaque persona instruction body.
	Persona() string
	// SystemInstruction composes the system-level instruction for one round.
	SystemInstruction(task TaskType, round int) (string, error)
}

var instructionTemplate = util.MustTemplate("advisor", `You're in a product feedback hot seat session. Round {{.Round}}.

TASK: {{.Task}}

YOUR PERSONA:
{{.Persona}}

RULES:
- Keep responses to 2-4 sentences
- Stay in character
- {{if eq .Round 1}}Give your initial gut reaction{{else}}Respond to what others said{{end}}
- Be specific about THIS product`)

func renderInstruction(persona string, task TaskType, round int) (string, error) {
	return instructionTemplate.Render(map[string]any{
		"Round":   round,
		"Task":    task.Directive(),
		"Persona": strings.TrimSpace(persona),
	})
}

// FixedAdvisor is a catalog persona.
type FixedAdvisor struct {
	profile Profile
	persona string
}

// NewFixedAdvisor creates a catalog advisor. An empty Initial defaults to the
// first letter of the name.
func NewFixedAdvisor(p Profile, persona string) FixedAdvisor {
	return FixedAdvisor{profile: withInitial(p), persona: persona}
}

// Name implements Advisor.
func (a FixedAdvisor) Name() string { return a.profile.Name }

// Profile implements Advisor.
func (a FixedAdvisor) Profile() Profile { return a.profile }

// Origin implements Advisor.
func (a FixedAdvisor) Origin() Origin { return OriginFixed }

// Persona implements Advisor.
func (a FixedAdvisor) Persona() string { return a.persona }

// SystemInstruction implements Advisor.
func (a FixedAdvisor) SystemInstruction(task TaskType, round int) (string, error) {
	return renderInstruction(a.persona, task, round)
}

// GeneratedAdvisor is a persona created for one session from a short
// description, typically by an inference call.
type GeneratedAdvisor struct {
	profile     Profile
	description string
	persona     string
}

// NewGeneratedAdvisor creates a session-scoped advisor.
func NewGeneratedAdvisor(p Profile, description, persona string) GeneratedAdvisor {
	return GeneratedAdvisor{profile: withInitial(p), description: description, persona: persona}
}

// Name implements Advisor.
func (a GeneratedAdvisor) Name() string { return a.profile.Name }

// Profile implements Advisor.
func (a GeneratedAdvisor) Profile() Profile { return a.profile }

// Origin implements Advisor.
func (a GeneratedAdvisor) Origin() Origin { return OriginGenerated }

// Persona implements Advisor.
func (a GeneratedAdvisor) Persona() string { return a.persona }

// Description returns the brief the persona was generated from.
func (a GeneratedAdvisor) Description() string { return a.description }

// SystemInstruction implements Advisor.
func (a GeneratedAdvisor) SystemInstruction(task TaskType, round int) (string, error) {
	return renderInstruction(a.persona, task, round)
}

// AdvisorNames returns the names of advisors in order.
func AdvisorNames(advisors []Advisor) []string {
	names := make([]string, len(advisors))
	for i, a := range advisors {
		names[i] = a.Name()
	}
	return names
}

func withInitial(p Profile) Profile {
	if p.Initial == "" && p.Name != "" {
		p.Initial = strings.ToUpper(string([]rune(p.Name)[0]))
	}
	return p
}
