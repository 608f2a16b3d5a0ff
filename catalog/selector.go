package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sourcegraph/conc/pool"
	"github.com/tidwall/gjson"

	"github.com/Ying-Kai-Liao/hot-seat/core"
	"github.com/Ying-Kai-Liao/hot-seat/internal/util"
	"github.com/Ying-Kai-Liao/hot-seat/logging"
	"github.com/Ying-Kai-Liao/hot-seat/model"
)

// DynamicColors is the color rotation for generated advisors.
var DynamicColors = []string{"#b84dff", "#ff84d4", "#84ffd4", "#ffd484"}

// DefaultFallbackSize is how many catalog advisors are used when a selection
// yields nobody.
const DefaultFallbackSize = 3

var selectionTemplate = util.MustTemplate("selection", `Select advisors for a product feedback session. Pick a mix of 3-5 total advisors.

CORE ADVISORS (pick 2-4):
{{.Catalog}}

DYNAMIC ADVISORS (generate 1-2 based on the product):
Create advisors that are perfect for evaluating THIS specific product. Can be:
- Domain experts: "SMB Restaurant Owner", "Healthcare Admin", "Gen-Z College Student", "Enterprise IT Director"
- Famous figures: "Marc Andreessen" (software eating world), "Warren Buffett" (value investor), "Oprah" (consumer appeal), "Mr. Beast" (viral content), "Paul Graham" (startup wisdom)
- Specific personas: "Skeptical CTO", "Overworked Parent", "Reddit Power User", "TikTok Creator", "Indie Hacker"

Respond with JSON:
{
    "selected": [{{.Example}}],
    "dynamic": [
        {
            "name": "Person or Persona Name",
            "role": "Their expertise/perspective",
            "description": "Why they're perfect for evaluating this product"
        }
    ]
}`)

// PersonaInstructions is the system prompt used to write a generated
// advisor's persona.
const PersonaInstructions = `Create a brief advisor persona (100-150 words) for a product feedback session.

Include: identity, evaluation criteria, communication style.`

// Brief describes an advisor the selection model wants generated.
type Brief struct {
	Name        string `json:"name"`
	Role        string `json:"role"`
	Description string `json:"description"`
}

// Plan is the parsed selection answer.
type Plan struct {
	Selected []string `json:"selected"`
	Dynamic  []Brief  `json:"dynamic"`
}

// ParsePlan reads a selection answer. "dynamic" may be a single object or an
// array; entries without a name are dropped.
func ParsePlan(raw string) (Plan, error) {
	raw = strings.TrimSpace(raw)
	if !gjson.Valid(raw) || !gjson.Parse(raw).IsObject() {
		return Plan{}, errors.New("selection: not a JSON object")
	}

	var plan Plan
	gjson.Get(raw, "selected").ForEach(func(_, v gjson.Result) bool {
		if name := strings.TrimSpace(v.String()); v.Type == gjson.String && name != "" {
			plan.Selected = append(plan.Selected, name)
		}
		return true
	})

	addBrief := func(v gjson.Result) {
		b := Brief{
			Name:        strings.TrimSpace(v.Get("name").String()),
			Role:        strings.TrimSpace(v.Get("role").String()),
			Description: strings.TrimSpace(v.Get("description").String()),
		}
		if b.Name != "" {
			plan.Dynamic = append(plan.Dynamic, b)
		}
	}
	switch dynamic := gjson.Get(raw, "dynamic"); {
	case dynamic.IsArray():
		for _, v := range dynamic.Array() {
			if v.IsObject() {
				addBrief(v)
			}
		}
	case dynamic.IsObject():
		addBrief(dynamic)
	}
	return plan, nil
}

// SelectorOptions configure a Selector.
type SelectorOptions struct {
	// FallbackSize is how many catalog advisors to use when nothing usable
	// was selected.
	FallbackSize int
	// MaxDynamic caps generated advisors. Zero means no cap.
	MaxDynamic int
	Logger     logging.Logger
}

// Selector picks a session's advisors with the model.
type Selector struct {
	model   model.Model
	catalog *Catalog
	opts    SelectorOptions
	logger  logging.Logger
}

// NewSelector creates a Selector over catalog.
func NewSelector(m model.Model, catalog *Catalog, optFns ...func(o *SelectorOptions)) *Selector {
	opts := SelectorOptions{FallbackSize: DefaultFallbackSize, MaxDynamic: 2}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Selector{model: m, catalog: catalog, opts: opts, logger: logging.Component(opts.Logger, "catalog")}
}

// Selection is the advisor panel for a session.
type Selection struct {
	Advisors []core.Advisor
	// Reasoning is the model's selection trace when the provider exposes one.
	Reasoning string
}

// BuildRequest renders the selection call for idea.
func (s *Selector) BuildRequest(idea string) (model.Request, error) {
	names := s.catalog.Names()
	example := make([]string, 0, 3)
	for i := 0; i < len(names) && i < 3; i++ {
		example = append(example, fmt.Sprintf("%q", names[i]))
	}
	instructions, err := selectionTemplate.Render(map[string]any{
		"Catalog": s.catalog.Describe(),
		"Example": strings.Join(example, ", "),
	})
	if err != nil {
		return model.Request{}, err
	}
	return model.Request{Instructions: instructions, Input: "Product: " + idea, JSON: true}, nil
}

// Select asks the model for a panel, resolves catalog names and generates
// personas for dynamic advisors. An unparseable or empty answer falls back
// to the first catalog advisors.
func (s *Selector) Select(ctx context.Context, idea string) (Selection, error) {
	req, err := s.BuildRequest(idea)
	if err != nil {
		return Selection{}, err
	}
	c, err := model.Collect(ctx, s.model, req, nil)
	if err != nil {
		return Selection{}, fmt.Errorf("selection: %w", err)
	}

	plan, err := ParsePlan(c.Content)
	if err != nil {
		s.logger.Warn("Unusable advisor selection, using defaults", "error", err)
	}

	advisors := s.resolve(plan.Selected)
	dynamic := plan.Dynamic
	if s.opts.MaxDynamic > 0 && len(dynamic) > s.opts.MaxDynamic {
		dynamic = dynamic[:s.opts.MaxDynamic]
	}
	generated, err := s.generate(ctx, idea, dynamic, advisors)
	if err != nil {
		return Selection{}, err
	}
	advisors = append(advisors, generated...)

	if len(advisors) == 0 {
		names := s.catalog.Names()
		if len(names) > s.opts.FallbackSize {
			names = names[:s.opts.FallbackSize]
		}
		advisors = s.catalog.Advisors(names...)
	}
	s.logger.Info("Advisors selected", "advisors", strings.Join(core.AdvisorNames(advisors), ", "))
	return Selection{Advisors: advisors, Reasoning: c.Reasoning}, nil
}

func (s *Selector) resolve(names []string) []core.Advisor {
	seen := map[string]bool{}
	var out []core.Advisor
	for _, name := range names {
		if seen[name] {
			continue
		}
		a, ok := s.catalog.Lookup(name)
		if !ok {
			s.logger.Warn("Unknown advisor selected", "name", name)
			continue
		}
		seen[name] = true
		out = append(out, a)
	}
	return out
}

// generate writes personas for the briefs concurrently. Results keep the
// brief order so colors follow the rotation.
func (s *Selector) generate(ctx context.Context, idea string, briefs []Brief, taken []core.Advisor) ([]core.Advisor, error) {
	used := map[string]bool{}
	for _, a := range taken {
		used[a.Name()] = true
	}
	var todo []Brief
	for _, b := range briefs {
		if used[b.Name] {
			s.logger.Warn("Generated advisor clashes with a selected one", "name", b.Name)
			continue
		}
		used[b.Name] = true
		todo = append(todo, b)
	}

	out := make([]core.Advisor, len(todo))
	p := pool.New().WithErrors().WithContext(ctx).WithCancelOnError()
	for i, b := range todo {
		p.Go(func(ctx context.Context) error {
			persona, err := GeneratePersona(ctx, s.model, b, idea)
			if err != nil {
				return fmt.Errorf("persona %s: %w", b.Name, err)
			}
			profile := core.Profile{Name: b.Name, Role: b.Role, Color: DynamicColors[i%len(DynamicColors)]}
			out[i] = core.NewGeneratedAdvisor(profile, b.Description, persona)
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// GeneratePersona writes a persona prompt for b with one non-streaming call.
func GeneratePersona(ctx context.Context, m model.Model, b Brief, idea string) (string, error) {
	input := fmt.Sprintf("\nName: %s\nRole: %s\nDescription: %s\nProduct: %s", b.Name, b.Role, b.Description, idea)
	c, err := model.Collect(ctx, m, model.Request{Instructions: PersonaInstructions, Input: input}, nil)
	if err != nil {
		return "", err
	}
	persona := strings.TrimSpace(c.Content)
	if persona == "" {
		return "", errors.New("empty persona")
	}
	return persona, nil
}
