package round

import "github.com/Ying-Kai-Liao/hot-seat/core"

// Observer receives per-advisor progress during a round. Methods are called
// from the advisor goroutines concurrently, so implementations must be safe
// for concurrent use and should return quickly.
type Observer interface {
	// OnAdvisorStart fires once the advisor's request is about to be sent.
	OnAdvisorStart(advisor core.Advisor, round int)
	// OnAdvisorUpdate delivers a cumulative reasoning or content update.
	OnAdvisorUpdate(advisor core.Advisor, round int, ev core.StreamEvent)
	// OnAdvisorDone fires when the advisor finished. err is nil on success.
	OnAdvisorDone(advisor core.Advisor, round int, entry core.TranscriptEntry, err error)
}

// NoopObserver ignores every notification. Embed it to implement only the
// methods you need.
type NoopObserver struct{}

// OnAdvisorStart implements Observer.
func (NoopObserver) OnAdvisorStart(core.Advisor, int) {}

// OnAdvisorUpdate implements Observer.
func (NoopObserver) OnAdvisorUpdate(core.Advisor, int, core.StreamEvent) {}

// OnAdvisorDone implements Observer.
func (NoopObserver) OnAdvisorDone(core.Advisor, int, core.TranscriptEntry, error) {}
