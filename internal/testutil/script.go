package testutil

import (
	"fmt"
	"strings"
	"sync"

	"github.com/Ying-Kai-Liao/hot-seat/core"
	"github.com/Ying-Kai-Liao/hot-seat/model"
)

// Script describes how a fake provider answers a session's calls. Requests
// are routed by shape:
//   - JSON requests are moderation decisions, answered in order
//   - streaming requests belong to the advisor whose persona appears in the
//     instructions
//   - remaining requests are summaries
//
// Script is safe for concurrent use.
type Script struct {
	mu         sync.Mutex
	advisors   map[string]func(round int) (core.Completion, error)
	gates      map[string]chan struct{}
	decisions  []string
	fallback   string
	summary    core.Completion
	summaryErr error
	rounds     map[string]int
}

// NewScript returns a script where advisors answer "<name> round <n>",
// moderation always declines and the summary is "summary".
func NewScript() *Script {
	return &Script{
		advisors: map[string]func(int) (core.Completion, error){},
		gates:    map[string]chan struct{}{},
		fallback: `{"should_ask": false, "question": null}`,
		summary:  core.Completion{Content: "summary"},
		rounds:   map[string]int{},
	}
}

// Advisor overrides how name answers (chainable).
func (s *Script) Advisor(name string, fn func(round int) (core.Completion, error)) *Script {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advisors[name] = fn
	return s
}

// Fail makes name fail every round with err (chainable).
func (s *Script) Fail(name string, err error) *Script {
	return s.Advisor(name, func(int) (core.Completion, error) { return core.Completion{}, err })
}

// Gate makes name wait until the returned channel is closed.
func (s *Script) Gate(name string) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan struct{})
	s.gates[name] = ch
	return ch
}

// Decisions queues raw moderation payloads. Once exhausted, moderation
// declines (chainable).
func (s *Script) Decisions(raw ...string) *Script {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decisions = append(s.decisions, raw...)
	return s
}

// Ask is a moderation payload asking question.
func Ask(question string) string {
	return fmt.Sprintf(`{"should_ask": true, "question": %q}`, question)
}

// Decline is a moderation payload that does not ask.
const Decline = `{"should_ask": false, "question": null}`

// Summary sets the summary answer (chainable).
func (s *Script) Summary(c core.Completion, err error) *Script {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary, s.summaryErr = c, err
	return s
}

// Model returns a MockModel driven by the script.
func (s *Script) Model() *model.MockModel {
	return model.NewMockModel("scripted", s.respond)
}

func (s *Script) respond(req model.Request) (core.Completion, error) {
	switch {
	case req.JSON:
		s.mu.Lock()
		defer s.mu.Unlock()
		if len(s.decisions) == 0 {
			return core.Completion{Content: s.fallback}, nil
		}
		raw := s.decisions[0]
		s.decisions = s.decisions[1:]
		return core.Completion{Content: raw}, nil
	case req.Stream:
		name := s.speaker(req.Instructions)
		s.mu.Lock()
		s.rounds[name]++
		round := s.rounds[name]
		fn := s.advisors[name]
		gate := s.gates[name]
		s.mu.Unlock()
		if gate != nil {
			<-gate
		}
		if fn != nil {
			return fn(round)
		}
		return core.Completion{Content: fmt.Sprintf("%s round %d", name, round)}, nil
	default:
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.summary, s.summaryErr
	}
}

func (s *Script) speaker(instructions string) string {
	const marker = "You are "
	i := strings.Index(instructions, marker)
	if i < 0 {
		return ""
	}
	rest := instructions[i+len(marker):]
	if j := strings.Index(rest, ".\n"); j >= 0 {
		return rest[:j]
	}
	return strings.TrimSuffix(strings.SplitN(rest, "\n", 2)[0], ".")
}
