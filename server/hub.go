package server

import (
	"sync"

	"github.com/Ying-Kai-Liao/hot-seat/core"
	"github.com/Ying-Kai-Liao/hot-seat/logging"
	"github.com/Ying-Kai-Liao/hot-seat/orchestrator"
	"github.com/Ying-Kai-Liao/hot-seat/round"
)

// Event types published by a Hub.
const (
	EventSessionStart       = "session_start"
	EventRoundStart         = "round_start"
	EventAdvisorStart       = "advisor_start"
	EventAdvisorUpdate      = "advisor_update"
	EventAdvisorDone        = "advisor_done"
	EventAdvisorFailed      = "advisor_failed"
	EventRoundComplete      = "round_complete"
	EventModeratorReasoning = "moderator_reasoning"
	EventDecision           = "decision"
	EventAwaitingInput      = "awaiting_input"
	EventFounderEntry       = "founder_entry"
	EventSummary            = "summary"
	EventSessionEnd         = "session_end"
)

const subscriberBuffer = 256

// Event is one notification sent to subscribers.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// transient events carry cumulative text that a later event supersedes.
// They are neither replayed nor worth disconnecting a slow reader over.
func (e Event) transient() bool {
	return e.Type == EventAdvisorUpdate || e.Type == EventModeratorReasoning
}

// Hub fans out one session's events. It implements orchestrator.Observer.
type Hub struct {
	logger logging.Logger

	mu      sync.Mutex
	history []Event
	subs    map[int]chan Event
	next    int
	closed  bool

	started   chan struct{}
	startOnce sync.Once
	done      chan struct{}
}

var _ orchestrator.Observer = (*Hub)(nil)

// NewHub creates an empty hub.
func NewHub(logger logging.Logger) *Hub {
	return &Hub{
		logger:  logging.OrNoop(logger),
		subs:    map[int]chan Event{},
		started: make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Started is closed once the session announced itself.
func (h *Hub) Started() <-chan struct{} { return h.started }

// Done is closed when the hub was closed.
func (h *Hub) Done() <-chan struct{} { return h.done }

// Subscribe returns a channel that first replays past events and then
// receives new ones. The channel is closed when the hub closes or the
// subscriber falls too far behind. Call the returned func to unsubscribe.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, len(h.history)+subscriberBuffer)
	for _, ev := range h.history {
		ch <- ev
	}
	if h.closed {
		close(ch)
		return ch, func() {}
	}

	id := h.next
	h.next++
	h.subs[id] = ch
	return ch, func() { h.unsubscribe(id) }
}

func (h *Hub) unsubscribe(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(ch)
	}
}

// Publish delivers ev to every subscriber without blocking.
func (h *Hub) Publish(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	if !ev.transient() {
		h.history = append(h.history, ev)
	}
	for id, ch := range h.subs {
		select {
		case ch <- ev:
		default:
			if ev.transient() {
				continue
			}
			h.logger.Warn("Dropping slow subscriber", "event", ev.Type)
			delete(h.subs, id)
			close(ch)
		}
	}
}

// Close ends every subscription. Later events are ignored.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
	close(h.done)
}

type advisorPayload struct {
	Advisor string                `json:"advisor"`
	Round   int                   `json:"round"`
	Kind    core.EventKind        `json:"kind,omitempty"`
	Text    string                `json:"text,omitempty"`
	Entry   *core.TranscriptEntry `json:"entry,omitempty"`
	Error   string                `json:"error,omitempty"`
}

type failurePayload struct {
	Advisor string `json:"advisor"`
	Error   string `json:"error"`
}

type roundPayload struct {
	Round      int              `json:"round"`
	Responses  int              `json:"responses"`
	Failures   []failurePayload `json:"failures,omitempty"`
	DurationMS int64            `json:"durationMs"`
}

type decisionPayload struct {
	Round     int    `json:"round"`
	ShouldAsk bool   `json:"shouldAsk"`
	Question  string `json:"question,omitempty"`
}

type endPayload struct {
	State *StateView `json:"state"`
	Error string     `json:"error,omitempty"`
}

// OnSessionStart implements orchestrator.Observer.
func (h *Hub) OnSessionStart(st *core.SessionState) {
	h.Publish(Event{Type: EventSessionStart, Data: NewStateView(st, nil)})
	h.startOnce.Do(func() { close(h.started) })
}

// OnRoundStart implements orchestrator.Observer.
func (h *Hub) OnRoundStart(r int) {
	h.Publish(Event{Type: EventRoundStart, Data: map[string]int{"round": r}})
}

// OnAdvisorStart implements round.Observer.
func (h *Hub) OnAdvisorStart(a core.Advisor, r int) {
	h.Publish(Event{Type: EventAdvisorStart, Data: advisorPayload{Advisor: a.Name(), Round: r}})
}

// OnAdvisorUpdate implements round.Observer.
func (h *Hub) OnAdvisorUpdate(a core.Advisor, r int, ev core.StreamEvent) {
	h.Publish(Event{Type: EventAdvisorUpdate, Data: advisorPayload{Advisor: a.Name(), Round: r, Kind: ev.Kind, Text: ev.Text}})
}

// OnAdvisorDone implements round.Observer.
func (h *Hub) OnAdvisorDone(a core.Advisor, r int, entry core.TranscriptEntry, err error) {
	if err != nil {
		h.Publish(Event{Type: EventAdvisorFailed, Data: advisorPayload{Advisor: a.Name(), Round: r, Error: err.Error()}})
		return
	}
	h.Publish(Event{Type: EventAdvisorDone, Data: advisorPayload{Advisor: a.Name(), Round: r, Entry: &entry}})
}

// OnRoundComplete implements orchestrator.Observer.
func (h *Hub) OnRoundComplete(res round.Result) {
	p := roundPayload{Round: res.Round, Responses: len(res.Entries), DurationMS: res.Duration.Milliseconds()}
	for _, f := range res.Failures {
		p.Failures = append(p.Failures, failurePayload{Advisor: f.Advisor, Error: f.Err.Error()})
	}
	h.Publish(Event{Type: EventRoundComplete, Data: p})
}

// OnModeratorReasoning implements orchestrator.Observer.
func (h *Hub) OnModeratorReasoning(r int, ev core.StreamEvent) {
	h.Publish(Event{Type: EventModeratorReasoning, Data: map[string]any{"round": r, "text": ev.Text}})
}

// OnDecision implements orchestrator.Observer.
func (h *Hub) OnDecision(r int, d core.Decision) {
	h.Publish(Event{Type: EventDecision, Data: decisionPayload{Round: r, ShouldAsk: d.ShouldAsk, Question: d.Question}})
}

// OnAwaitingInput implements orchestrator.Observer.
func (h *Hub) OnAwaitingInput(in *orchestrator.HumanInput) {
	h.Publish(Event{Type: EventAwaitingInput, Data: newPendingView(in)})
}

// OnFounderEntry implements orchestrator.Observer.
func (h *Hub) OnFounderEntry(entry core.TranscriptEntry) {
	h.Publish(Event{Type: EventFounderEntry, Data: entry})
}

// OnSummary implements orchestrator.Observer.
func (h *Hub) OnSummary(c core.Completion) {
	h.Publish(Event{Type: EventSummary, Data: c})
}

// OnSessionEnd implements orchestrator.Observer.
func (h *Hub) OnSessionEnd(st *core.SessionState, err error) {
	p := endPayload{State: NewStateView(st, nil)}
	if err != nil {
		p.Error = err.Error()
	}
	h.Publish(Event{Type: EventSessionEnd, Data: p})
	h.startOnce.Do(func() { close(h.started) })
	h.Close()
}
