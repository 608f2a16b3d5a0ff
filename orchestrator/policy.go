package orchestrator

import "github.com/Ying-Kai-Liao/hot-seat/core"

const (
	// DefaultMaxRounds is the hard round cap.
	DefaultMaxRounds = 10
	// DefaultSilenceCap is the number of consecutive rounds without a
	// question (or founder interjection) after which the session ends.
	DefaultSilenceCap = 3
)

// Policy decides when a session stops. It is driven by the orchestrator's
// goroutine only and is not safe for concurrent use.
//
// Precedence when several conditions hold: manual end, then silence, then
// the round cap.
type Policy struct {
	maxRounds  int
	silenceCap int
	round      int
	silent     int
	manual     bool
}

// NewPolicy creates a policy. Non-positive arguments select the defaults.
func NewPolicy(maxRounds, silenceCap int) *Policy {
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}
	if silenceCap <= 0 {
		silenceCap = DefaultSilenceCap
	}
	return &Policy{maxRounds: maxRounds, silenceCap: silenceCap}
}

// BeginRound starts the next round and reports whether one may run.
func (p *Policy) BeginRound() bool {
	if _, done := p.Done(); done {
		return false
	}
	p.round++
	return true
}

// Round returns the current round number, zero before the first.
func (p *Policy) Round() int { return p.round }

// SilentRounds returns the consecutive rounds without a question.
func (p *Policy) SilentRounds() int { return p.silent }

// RecordDecision updates the silence counter from a moderation decision.
func (p *Policy) RecordDecision(d core.Decision) {
	if d.ShouldAsk {
		p.silent = 0
		return
	}
	p.silent++
}

// RecordInterjection resets the silence counter after the founder spoke
// unprompted.
func (p *Policy) RecordInterjection() { p.silent = 0 }

// End marks the session as manually ended.
func (p *Policy) End() { p.manual = true }

// Done reports whether the session must stop and with which status.
func (p *Policy) Done() (core.Status, bool) {
	switch {
	case p.manual:
		return core.StatusCompletedManually, true
	case p.silent >= p.silenceCap:
		return core.StatusCompletedBySilence, true
	case p.round >= p.maxRounds:
		return core.StatusCompletedByCap, true
	default:
		return "", false
	}
}
