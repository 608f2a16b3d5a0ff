// Package moderation decides, after each round, whether the founder should
// be asked a clarifying question. The decision is one structured (JSON
// object) model call over a bounded window of recent transcript entries.
package moderation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/Ying-Kai-Liao/hot-seat/core"
	"github.com/Ying-Kai-Liao/hot-seat/logging"
	"github.com/Ying-Kai-Liao/hot-seat/model"
)

// DefaultWindow is the number of most recent entries the moderator sees.
const DefaultWindow = 8

// Instructions is the moderator's system prompt.
const Instructions = `You're moderating a product feedback session.

Should we ask the founder a clarifying question?

Ask if: missing info, unvalidated assumptions, key decision needed
Don't ask if: discussion is productive, questions already answered

JSON response:
{
  "should_ask": true/false,
  "question": "The question" or null
}`

// Options configure a Gate.
type Options struct {
	// Window bounds how many recent entries are shown. Non-positive values
	// select DefaultWindow.
	Window int
	Logger logging.Logger
	// OnReasoning, when set, streams the moderator's cumulative reasoning.
	OnReasoning func(ev core.StreamEvent)
}

// Gate produces a core.Decision after each round.
type Gate struct {
	model  model.Model
	opts   Options
	logger logging.Logger
}

// NewGate creates a Gate backed by m.
func NewGate(m model.Model, optFns ...func(o *Options)) *Gate {
	opts := Options{Window: DefaultWindow}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Window <= 0 {
		opts.Window = DefaultWindow
	}
	return &Gate{model: m, opts: opts, logger: logging.Component(opts.Logger, "moderation")}
}

// Decide asks the moderator about the current transcript. Provider failures
// and invalid output are returned as errors; the latter as
// *core.DecisionParseError.
func (g *Gate) Decide(ctx context.Context, idea string, round int, transcript []core.TranscriptEntry) (core.Decision, error) {
	req := BuildRequest(idea, round, window(transcript, g.opts.Window))
	req.Stream = g.opts.OnReasoning != nil

	var onEvent func(core.StreamEvent)
	if g.opts.OnReasoning != nil {
		onEvent = func(ev core.StreamEvent) {
			if ev.Kind == core.EventReasoning {
				g.opts.OnReasoning(ev)
			}
		}
	}

	start := time.Now()
	c, err := model.Collect(ctx, g.model, req, onEvent)
	logging.LogLLMCall(g.logger, g.model.Info().Name, time.Since(start), err)
	if err != nil {
		return core.Decision{}, fmt.Errorf("moderation: %w", err)
	}

	d, err := ParseDecision(c.Content)
	if err != nil {
		return core.Decision{}, err
	}
	g.logger.Debug("Moderation decided", "round", round, "should_ask", d.ShouldAsk)
	return d, nil
}

// BuildRequest renders the moderation call for a window of entries.
func BuildRequest(idea string, round int, recent []core.TranscriptEntry) model.Request {
	input := fmt.Sprintf("Product: %s\nRound: %d\n\nRecent:\n%s", idea, round, core.FormatLines(recent))
	return model.Request{Instructions: Instructions, Input: input, JSON: true}
}

func window(entries []core.TranscriptEntry, n int) []core.TranscriptEntry {
	if len(entries) <= n {
		return entries
	}
	return entries[len(entries)-n:]
}

// ParseDecision validates a moderator reply. The reply must contain a JSON
// object whose should_ask is a boolean and whose question, when present, is
// a string or null. Surrounding prose or code fences are tolerated.
func ParseDecision(raw string) (core.Decision, error) {
	obj, ok := extractObject(raw)
	if !ok {
		return core.Decision{}, &core.DecisionParseError{Raw: raw, Err: errors.New("no JSON object found")}
	}
	if !gjson.Valid(obj) {
		return core.Decision{}, &core.DecisionParseError{Raw: raw, Err: errors.New("invalid JSON")}
	}

	shouldAsk := gjson.Get(obj, "should_ask")
	if shouldAsk.Type != gjson.True && shouldAsk.Type != gjson.False {
		return core.Decision{}, &core.DecisionParseError{Raw: raw, Err: errors.New("should_ask must be a boolean")}
	}

	question := gjson.Get(obj, "question")
	switch question.Type {
	case gjson.String, gjson.Null:
	default:
		return core.Decision{}, &core.DecisionParseError{Raw: raw, Err: errors.New("question must be a string or null")}
	}

	return core.NewDecision(shouldAsk.Bool(), question.String()), nil
}

func extractObject(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}
