// Package round runs one discussion round: every advisor answers the same
// transcript snapshot concurrently.
//
// Key features:
//   - All advisor requests start before any is awaited
//   - Each advisor streams into a private slot; nothing is shared between
//     advisors while the round runs
//   - Entries are returned in completion order
//   - A failing (or panicking) advisor is logged and skipped; the round
//     still succeeds with whatever the others produced
//   - A failed advisor's partial stream never reaches the transcript
package round

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"

	"github.com/Ying-Kai-Liao/hot-seat/core"
	"github.com/Ying-Kai-Liao/hot-seat/logging"
	"github.com/Ying-Kai-Liao/hot-seat/model"
)

// Input is everything one round needs. Transcript is the snapshot taken at
// round start and is only read.
type Input struct {
	Idea       string
	Task       core.TaskType
	Round      int
	Advisors   []core.Advisor
	Transcript []core.TranscriptEntry
}

// Failure records an advisor that produced no entry.
type Failure struct {
	Advisor string
	Err     error
}

// Result is the outcome of a round.
type Result struct {
	Round    int
	Entries  []core.TranscriptEntry // completion order
	Failures []Failure
	Duration time.Duration
}

// Options configure an Executor.
type Options struct {
	Logger   logging.Logger
	Observer Observer
}

// Executor fans a round out to every advisor.
type Executor struct {
	model    model.Model
	logger   logging.Logger
	observer Observer
}

// NewExecutor creates an Executor that sends every advisor request to m.
func NewExecutor(m model.Model, optFns ...func(o *Options)) *Executor {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	e := &Executor{
		model:    m,
		logger:   logging.Component(opts.Logger, "round"),
		observer: opts.Observer,
	}
	if e.observer == nil {
		e.observer = NoopObserver{}
	}
	return e
}

type slot struct {
	entry core.TranscriptEntry
	err   error
}

// Run executes one round. It returns once every advisor finished. Advisor
// failures never fail the round; they are listed in Result.Failures.
func (e *Executor) Run(ctx context.Context, in Input) Result {
	start := time.Now()
	input := BuildUserMessage(in.Idea, in.Transcript)

	slots := make([]slot, len(in.Advisors))
	finished := make(chan int, len(in.Advisors))

	var wg conc.WaitGroup
	for i, adv := range in.Advisors {
		wg.Go(func() {
			defer func() { finished <- i }()

			var pc panics.Catcher
			pc.Try(func() { slots[i] = e.runAdvisor(ctx, adv, in, input) })
			if r := pc.Recovered(); r != nil {
				slots[i] = slot{err: r.AsError()}
				e.observer.OnAdvisorDone(adv, in.Round, core.TranscriptEntry{}, slots[i].err)
			}
		})
	}
	wg.Wait()
	close(finished)

	res := Result{Round: in.Round}
	for i := range finished {
		s := slots[i]
		name := in.Advisors[i].Name()
		if s.err != nil {
			e.logger.Warn("Advisor failed", "advisor", name, "round", in.Round, "error", s.err)
			res.Failures = append(res.Failures, Failure{Advisor: name, Err: s.err})
			continue
		}
		res.Entries = append(res.Entries, s.entry)
	}
	res.Duration = time.Since(start)
	return res
}

func (e *Executor) runAdvisor(ctx context.Context, adv core.Advisor, in Input, input string) slot {
	instructions, err := adv.SystemInstruction(in.Task, in.Round)
	if err != nil {
		err = fmt.Errorf("build instruction: %w", err)
		e.observer.OnAdvisorDone(adv, in.Round, core.TranscriptEntry{}, err)
		return slot{err: err}
	}

	// Cancelled on any exit, including a recovered panic, so the provider
	// goroutine never blocks on an undrained channel.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	e.observer.OnAdvisorStart(adv, in.Round)
	start := time.Now()
	completion, err := model.Collect(ctx, e.model, model.Request{
		Instructions: instructions,
		Input:        input,
		Stream:       true,
	}, func(ev core.StreamEvent) {
		e.observer.OnAdvisorUpdate(adv, in.Round, ev)
	})
	logging.LogLLMCall(logging.Advisor(e.logger, adv.Name()), e.model.Info().Name, time.Since(start), err)
	if err != nil {
		e.observer.OnAdvisorDone(adv, in.Round, core.TranscriptEntry{}, err)
		return slot{err: err}
	}

	entry := core.NewAdvisorEntry(adv.Name(), in.Round, completion)
	e.observer.OnAdvisorDone(adv, in.Round, entry, nil)
	return slot{entry: entry}
}

// BuildUserMessage renders the user message every advisor receives: the
// idea, then the discussion so far when there is any.
func BuildUserMessage(idea string, transcript []core.TranscriptEntry) string {
	var b strings.Builder
	b.WriteString("Product: ")
	b.WriteString(idea)
	if len(transcript) > 0 {
		b.WriteString("\n\nDiscussion so far:\n")
		b.WriteString(core.FormatLines(transcript))
	}
	return b.String()
}
