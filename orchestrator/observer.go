package orchestrator

import (
	"github.com/Ying-Kai-Liao/hot-seat/core"
	"github.com/Ying-Kai-Liao/hot-seat/round"
)

// Observer receives session progress for rendering. Advisor callbacks run on
// advisor goroutines; every other callback runs on the session goroutine.
// States handed to callbacks are snapshots.
type Observer interface {
	round.Observer
	OnSessionStart(state *core.SessionState)
	OnRoundStart(round int)
	OnRoundComplete(result round.Result)
	OnModeratorReasoning(round int, ev core.StreamEvent)
	OnDecision(round int, d core.Decision)
	// OnAwaitingInput hands the host the pending prompt to resolve.
	OnAwaitingInput(input *HumanInput)
	OnFounderEntry(entry core.TranscriptEntry)
	OnSummary(summary core.Completion)
	OnSessionEnd(state *core.SessionState, err error)
}

// NoopObserver ignores every notification. Embed it to implement only the
// methods you need.
type NoopObserver struct {
	round.NoopObserver
}

// OnSessionStart implements Observer.
func (NoopObserver) OnSessionStart(*core.SessionState) {}

// OnRoundStart implements Observer.
func (NoopObserver) OnRoundStart(int) {}

// OnRoundComplete implements Observer.
func (NoopObserver) OnRoundComplete(round.Result) {}

// OnModeratorReasoning implements Observer.
func (NoopObserver) OnModeratorReasoning(int, core.StreamEvent) {}

// OnDecision implements Observer.
func (NoopObserver) OnDecision(int, core.Decision) {}

// OnAwaitingInput implements Observer.
func (NoopObserver) OnAwaitingInput(*HumanInput) {}

// OnFounderEntry implements Observer.
func (NoopObserver) OnFounderEntry(core.TranscriptEntry) {}

// OnSummary implements Observer.
func (NoopObserver) OnSummary(core.Completion) {}

// OnSessionEnd implements Observer.
func (NoopObserver) OnSessionEnd(*core.SessionState, error) {}
