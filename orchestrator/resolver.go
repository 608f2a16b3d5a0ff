package orchestrator

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/Ying-Kai-Liao/hot-seat/core"
)

// ErrAlreadyResolved is returned when a HumanInput is resolved twice.
var ErrAlreadyResolved = errors.New("human input already resolved")

// Action is how a pending founder prompt was resolved.
type Action string

const (
	// ActionSubmit carries founder text.
	ActionSubmit Action = "submit"
	// ActionSkip declines to answer.
	ActionSkip Action = "skip"
	// ActionCancel ends the session.
	ActionCancel Action = "cancel"
)

// Reply is the resolution of a HumanInput.
type Reply struct {
	Action Action `json:"action"`
	Text   string `json:"text,omitempty"`
}

// HumanInput is a single-use pending request for founder input. The session
// waits on it without a timeout; any goroutine may resolve it exactly once.
type HumanInput struct {
	id       string
	round    int
	question string
	once     sync.Once
	done     chan struct{}
	reply    Reply
}

func newHumanInput(round int, question string) *HumanInput {
	return &HumanInput{id: core.NewID(), round: round, question: question, done: make(chan struct{})}
}

// ID identifies the prompt.
func (h *HumanInput) ID() string { return h.id }

// Round is the round the prompt belongs to.
func (h *HumanInput) Round() int { return h.round }

// Question is the moderator's question. It is empty for an optional
// interjection prompt.
func (h *HumanInput) Question() string { return h.question }

// Interjection reports whether this prompt offers the founder an optional
// unprompted contribution rather than answering a question.
func (h *HumanInput) Interjection() bool { return h.question == "" }

// Submit resolves the prompt with founder text. Blank text counts as a skip.
func (h *HumanInput) Submit(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return h.resolve(Reply{Action: ActionSkip})
	}
	return h.resolve(Reply{Action: ActionSubmit, Text: text})
}

// Skip resolves the prompt without contributing.
func (h *HumanInput) Skip() error { return h.resolve(Reply{Action: ActionSkip}) }

// Cancel resolves the prompt and requests the session to end.
func (h *HumanInput) Cancel() error { return h.resolve(Reply{Action: ActionCancel}) }

// Done is closed once the prompt is resolved.
func (h *HumanInput) Done() <-chan struct{} { return h.done }

// Wait blocks until the prompt is resolved or ctx is done.
func (h *HumanInput) Wait(ctx context.Context) (Reply, error) {
	select {
	case <-h.done:
		return h.reply, nil
	case <-ctx.Done():
		return Reply{}, ctx.Err()
	}
}

func (h *HumanInput) resolve(r Reply) error {
	resolved := false
	h.once.Do(func() {
		h.reply = r
		resolved = true
		close(h.done)
	})
	if !resolved {
		return ErrAlreadyResolved
	}
	return nil
}
