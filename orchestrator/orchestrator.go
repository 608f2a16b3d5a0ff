// Package orchestrator drives a hot seat session from the first round to the
// closing summary.
//
// Each iteration runs one round through the round executor, appends the
// completed entries, asks the moderation gate whether to pause for the
// founder and feeds the outcome to the termination Policy. When the
// moderator asks, the session suspends on a HumanInput until the host
// resolves it.
//
// Key features:
//   - Sequential rounds, concurrent advisors within a round
//   - Single-owner SessionState: only the session goroutine mutates it,
//     observers and the store receive snapshots
//   - Advisory manual end: the in-flight round finishes but its results are
//     discarded, and a pending prompt resolves as cancelled
//   - Optional interactive mode offering the founder an interjection after
//     silent rounds
//   - Fatal errors (authentication, invalid moderation output, summary
//     failure) end the session as failed with the transcript preserved
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/Ying-Kai-Liao/hot-seat/core"
	"github.com/Ying-Kai-Liao/hot-seat/logging"
	"github.com/Ying-Kai-Liao/hot-seat/model"
	"github.com/Ying-Kai-Liao/hot-seat/moderation"
	"github.com/Ying-Kai-Liao/hot-seat/round"
)

var (
	// ErrAlreadyStarted is returned when Run is called more than once.
	ErrAlreadyStarted = errors.New("session already started")
	// ErrNoAdvisors is returned when a session has no advisors.
	ErrNoAdvisors = errors.New("session has no advisors")
	// ErrEmptyIdea is returned when the product idea is blank.
	ErrEmptyIdea = errors.New("product idea is empty")
)

// Setup describes the session to run.
type Setup struct {
	// ID is optional; a random one is assigned when empty.
	ID       string
	Idea     string
	Task     core.TaskType
	Advisors []core.Advisor
}

// Options configure an Orchestrator.
type Options struct {
	MaxRounds        int
	SilenceCap       int
	ModerationWindow int
	// Interactive offers an optional founder interjection after every
	// silent round that did not end the session.
	Interactive bool
	// StreamModeration forwards the moderator's reasoning to the observer.
	StreamModeration bool
	// Moderator overrides the model used for moderation decisions.
	Moderator model.Model
	Logger    logging.Logger
	Observer  Observer
	Store     core.SessionStore
}

// Orchestrator runs a single session. Run may be called once; End and
// Pending may be called from any goroutine.
type Orchestrator struct {
	model    model.Model
	opts     Options
	logger   logging.Logger
	observer Observer

	started atomic.Bool

	mu      sync.Mutex
	ended   bool
	pending *HumanInput

	state  *core.SessionState
	policy *Policy
}

// New creates an Orchestrator that sends advisor and summary calls to m.
func New(m model.Model, optFns ...func(o *Options)) *Orchestrator {
	opts := Options{
		MaxRounds:        DefaultMaxRounds,
		SilenceCap:       DefaultSilenceCap,
		ModerationWindow: moderation.DefaultWindow,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Moderator == nil {
		opts.Moderator = m
	}
	o := &Orchestrator{
		model:    m,
		opts:     opts,
		logger:   logging.OrNoop(opts.Logger),
		observer: opts.Observer,
		policy:   NewPolicy(opts.MaxRounds, opts.SilenceCap),
	}
	if o.observer == nil {
		o.observer = NoopObserver{}
	}
	return o
}

// End requests the session to stop. It is advisory: a running round is
// allowed to finish but its results are discarded, and a pending prompt is
// resolved as cancelled. Calling End more than once has no further effect.
func (o *Orchestrator) End() {
	o.mu.Lock()
	if o.ended {
		o.mu.Unlock()
		return
	}
	o.ended = true
	pending := o.pending
	o.mu.Unlock()

	if pending != nil {
		_ = pending.Cancel()
	}
}

// Ended reports whether End was called.
func (o *Orchestrator) Ended() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.ended
}

// Pending returns the prompt the session is waiting on, or nil.
func (o *Orchestrator) Pending() *HumanInput {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.pending
}

// Run executes the session to completion and returns its final state. On
// failure the returned state has status failed and keeps the transcript
// recorded so far.
func (o *Orchestrator) Run(ctx context.Context, setup Setup) (*core.SessionState, error) {
	if !o.started.CompareAndSwap(false, true) {
		return nil, ErrAlreadyStarted
	}
	if err := validate(setup); err != nil {
		return nil, err
	}

	st := core.NewSessionState(strings.TrimSpace(setup.Idea), setup.Task, setup.Advisors)
	if setup.ID != "" {
		st.ID = setup.ID
	}
	st.Running = true
	st.Status = core.StatusRunning
	o.state = st

	if sl, ok := o.logger.(*logging.SessionLogger); ok {
		o.logger = sl.WithSession(st.ID)
	}
	o.logger.Info("Session started", "advisors", strings.Join(st.AdvisorNames(), ", "), "task", st.Task)
	o.persist()
	o.observer.OnSessionStart(st.Snapshot())

	err := o.loop(ctx)
	if err == nil {
		err = o.summarize(ctx)
	}
	return o.finish(err)
}

func validate(setup Setup) error {
	if strings.TrimSpace(setup.Idea) == "" {
		return ErrEmptyIdea
	}
	if !setup.Task.Valid() {
		return fmt.Errorf("unknown task type %q", setup.Task)
	}
	if len(setup.Advisors) == 0 {
		return ErrNoAdvisors
	}
	return nil
}

func (o *Orchestrator) loop(ctx context.Context) error {
	st := o.state
	executor := round.NewExecutor(o.model, func(opts *round.Options) {
		opts.Logger = o.logger
		opts.Observer = o.observer
	})
	gate := moderation.NewGate(o.opts.Moderator, func(opts *moderation.Options) {
		opts.Window = o.opts.ModerationWindow
		opts.Logger = o.logger
		if o.opts.StreamModeration {
			opts.OnReasoning = func(ev core.StreamEvent) { o.observer.OnModeratorReasoning(st.Round, ev) }
		}
	})

	for {
		if o.Ended() {
			o.policy.End()
		}
		if !o.policy.BeginRound() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		st.Round = o.policy.Round()
		st.Touch()
		o.observer.OnRoundStart(st.Round)

		result := executor.Run(ctx, round.Input{
			Idea:       st.Idea,
			Task:       st.Task,
			Round:      st.Round,
			Advisors:   st.Advisors,
			Transcript: st.Transcript.Entries(),
		})
		if o.Ended() {
			o.logger.Info("Round discarded after end request", "round", st.Round, "responses", len(result.Entries))
			o.policy.End()
			return nil
		}
		if err := firstFatal(result.Failures); err != nil {
			return err
		}

		st.Transcript.Append(result.Entries...)
		st.Touch()
		logging.LogRound(o.logger, st.Round, len(result.Entries), len(result.Failures), result.Duration)
		o.persist()
		o.observer.OnRoundComplete(result)

		decision, err := gate.Decide(ctx, st.Idea, st.Round, st.Transcript.Entries())
		if err != nil {
			return err
		}
		if o.Ended() {
			o.policy.End()
			return nil
		}
		o.policy.RecordDecision(decision)
		st.SilentRounds = o.policy.SilentRounds()
		o.observer.OnDecision(st.Round, decision)

		if decision.ShouldAsk {
			if err := o.awaitFounder(ctx, decision.Question); err != nil {
				return err
			}
			continue
		}
		if _, done := o.policy.Done(); !done && o.opts.Interactive {
			if err := o.awaitFounder(ctx, ""); err != nil {
				return err
			}
		}
	}
}

// firstFatal returns a failure that would repeat for every advisor and every
// round. A missing credential is such a failure.
func firstFatal(failures []round.Failure) error {
	for _, f := range failures {
		if core.IsAuthentication(f.Err) {
			return f.Err
		}
	}
	return nil
}

// awaitFounder suspends until the founder resolves a prompt. An empty
// question opens an optional interjection.
func (o *Orchestrator) awaitFounder(ctx context.Context, question string) error {
	st := o.state
	input := newHumanInput(st.Round, question)

	o.mu.Lock()
	if o.ended {
		o.mu.Unlock()
		o.policy.End()
		return nil
	}
	o.pending = input
	o.mu.Unlock()

	st.Status = core.StatusAwaitingInput
	st.Touch()
	o.persist()
	o.observer.OnAwaitingInput(input)

	reply, err := input.Wait(ctx)

	o.mu.Lock()
	o.pending = nil
	o.mu.Unlock()
	st.Status = core.StatusRunning
	if err != nil {
		return err
	}

	switch reply.Action {
	case ActionSubmit:
		entry := core.NewFounderEntry(st.Round, reply.Text)
		st.Transcript.Append(entry)
		if input.Interjection() {
			o.policy.RecordInterjection()
			st.SilentRounds = o.policy.SilentRounds()
		}
		o.observer.OnFounderEntry(entry)
	case ActionCancel:
		o.policy.End()
	}
	st.Touch()
	o.persist()
	return nil
}

func (o *Orchestrator) summarize(ctx context.Context) error {
	st := o.state
	if st.Transcript.Len() == 0 {
		return nil
	}
	c, err := Summarize(ctx, o.model, o.logger, st.Idea, st.Task, st.Transcript.Entries())
	if err != nil {
		return err
	}
	st.Summary = &c
	o.observer.OnSummary(c)
	return nil
}

func (o *Orchestrator) finish(err error) (*core.SessionState, error) {
	st := o.state
	st.Running = false
	st.SilentRounds = o.policy.SilentRounds()
	if err != nil {
		st.Status = core.StatusFailed
		st.Err = err.Error()
		o.logger.Error("Session failed", "round", st.Round, "error", err)
	} else {
		st.Status, _ = o.policy.Done()
		o.logger.Info("Session ended", "status", st.Status, "rounds", st.Round, "entries", st.Transcript.Len())
	}
	st.Touch()
	o.persist()

	snap := st.Snapshot()
	o.observer.OnSessionEnd(snap, err)
	return snap, err
}

func (o *Orchestrator) persist() {
	if o.opts.Store == nil {
		return
	}
	if err := o.opts.Store.Save(o.state.Snapshot()); err != nil {
		o.logger.Warn("Session not persisted", "error", err)
	}
}
