package model

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Ying-Kai-Liao/hot-seat/core"
	"github.com/Ying-Kai-Liao/hot-seat/stream"
)

// ErrNoCompletion is returned by Collect when a model closed its channels
// without producing a final response.
var ErrNoCompletion = errors.New("model returned no completion")

// Request captures one inference call.
type Request struct {
	Instructions string `json:"instructions"`     // System-level instruction
	Input        string `json:"input"`            // Single user message
	JSON         bool   `json:"json,omitempty"`   // Require a JSON object as output
	Stream       bool   `json:"stream,omitempty"` // Emit partial responses
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is a (partial or final) item emitted by Generate. Partial
// responses carry a cumulative Event; the final response carries the
// Completion.
type Response struct {
	Partial      bool             `json:"partial"`
	Event        core.StreamEvent `json:"event"`
	Completion   core.Completion  `json:"completion"`
	FinishReason string           `json:"finish_reason,omitempty"`
	Usage        *TokenUsage      `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name            string `json:"name"`
	Provider        string `json:"provider"` // "openai", "anthropic", "ark", "mock", ...
	ReasoningEffort string `json:"reasoning_effort,omitempty"`
}

// Model is the minimal interface required to drive generation.
//
// Implementations close both channels when done. At most one error is sent.
// A successful call ends with exactly one non-partial Response.
type Model interface {
	Generate(ctx context.Context, req Request) (<-chan Response, <-chan error)

	// Info returns information about the model implementation.
	Info() Info
}

// Collect drives a Generate call to completion. onEvent, when not nil,
// receives every partial event in order.
func Collect(ctx context.Context, m Model, req Request, onEvent func(core.StreamEvent)) (core.Completion, error) {
	respCh, errCh := m.Generate(ctx, req)

	var (
		final    core.Completion
		gotFinal bool
		err      error
	)
	for respCh != nil || errCh != nil {
		select {
		case resp, ok := <-respCh:
			if !ok {
				respCh = nil
				continue
			}
			if resp.Partial {
				if onEvent != nil {
					onEvent(resp.Event)
				}
				continue
			}
			final, gotFinal = resp.Completion, true
		case e, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			if e != nil && err == nil {
				err = e
			}
		}
	}
	if err != nil {
		return core.Completion{}, err
	}
	if !gotFinal {
		return core.Completion{}, ErrNoCompletion
	}
	return final, nil
}

// Send delivers resp unless ctx is done first. Providers use it so a
// consumer that stopped reading never blocks the producing goroutine.
func Send(ctx context.Context, ch chan<- Response, resp Response) bool {
	select {
	case ch <- resp:
		return true
	case <-ctx.Done():
		return false
	}
}

// Responder produces the completion a MockModel returns for a request.
type Responder func(req Request) (core.Completion, error)

// MockModel is a lightweight in-memory Model useful for tests and examples.
// When streaming it emits reasoning then content one rune at a time, as
// cumulative events.
type MockModel struct {
	info      Info
	respond   Responder
	mu        sync.Mutex
	responses map[string]core.Completion
	calls     []Request
}

// NewMockModel constructs a MockModel. A nil respond falls back to canned
// responses registered with AddResponse, then to an echo of the input.
func NewMockModel(name string, respond Responder) *MockModel {
	return &MockModel{
		info:      Info{Name: name, Provider: "mock"},
		respond:   respond,
		responses: make(map[string]core.Completion),
	}
}

// AddResponse registers a deterministic canned completion for an input.
func (m *MockModel) AddResponse(input string, c core.Completion) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[input] = c
}

// Calls returns a copy of every request received so far.
func (m *MockModel) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.calls))
	copy(out, m.calls)
	return out
}

// Generate implements Model.
func (m *MockModel) Generate(ctx context.Context, req Request) (<-chan Response, <-chan error) {
	respCh := make(chan Response, 16)
	errCh := make(chan error, 1)

	m.mu.Lock()
	m.calls = append(m.calls, req)
	canned, hasCanned := m.responses[req.Input]
	m.mu.Unlock()

	go func() {
		defer close(respCh)
		defer close(errCh)

		var (
			full core.Completion
			err  error
		)
		switch {
		case m.respond != nil:
			full, err = m.respond(req)
		case hasCanned:
			full = canned
		default:
			full = core.Completion{Content: fmt.Sprintf("Mock response to: %s", req.Input)}
		}
		if err != nil {
			errCh <- err
			return
		}

		if req.Stream {
			var acc stream.Accumulator
			for _, d := range runeDeltas(full) {
				ev, ok := acc.Apply(d)
				if !ok {
					continue
				}
				if !Send(ctx, respCh, Response{Partial: true, Event: ev}) {
					errCh <- ctx.Err()
					return
				}
			}
		}
		if !Send(ctx, respCh, Response{Completion: full, FinishReason: "stop"}) {
			errCh <- ctx.Err()
		}
	}()
	return respCh, errCh
}

// Info implements Model interface.
func (m *MockModel) Info() Info { return m.info }

func runeDeltas(c core.Completion) []stream.Delta {
	var out []stream.Delta
	for _, r := range c.Reasoning {
		out = append(out, stream.Delta{Kind: core.EventReasoning, Text: string(r)})
	}
	for _, r := range c.Content {
		out = append(out, stream.Delta{Kind: core.EventContent, Text: string(r)})
	}
	return out
}
