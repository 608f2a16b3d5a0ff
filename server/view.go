package server

import (
	"time"

	"github.com/Ying-Kai-Liao/hot-seat/core"
	"github.com/Ying-Kai-Liao/hot-seat/orchestrator"
)

// StateView is the JSON shape of a session.
type StateView struct {
	ID           string                 `json:"id"`
	ProductIdea  string                 `json:"productIdea"`
	TaskType     core.TaskType          `json:"taskType"`
	Round        int                    `json:"round"`
	SilentRounds int                    `json:"silentRounds"`
	Running      bool                   `json:"running"`
	Status       core.Status            `json:"status"`
	Advisors     []AdvisorView          `json:"advisors"`
	Discussion   []core.TranscriptEntry `json:"discussion"`
	Summary      *string                `json:"summary"`
	Error        string                 `json:"error,omitempty"`
	Pending      *PendingView           `json:"pending,omitempty"`
	Created      time.Time              `json:"created"`
	Updated      time.Time              `json:"updated"`
}

// AdvisorView is an advisor's public profile.
type AdvisorView struct {
	core.Profile
	Origin core.Origin `json:"origin"`
}

// PendingView describes a prompt waiting for the founder.
type PendingView struct {
	ID           string `json:"id"`
	Round        int    `json:"round"`
	Question     string `json:"question,omitempty"`
	Interjection bool   `json:"interjection"`
}

func newPendingView(in *orchestrator.HumanInput) *PendingView {
	if in == nil {
		return nil
	}
	return &PendingView{ID: in.ID(), Round: in.Round(), Question: in.Question(), Interjection: in.Interjection()}
}

// NewStateView renders st. pending may be nil.
func NewStateView(st *core.SessionState, pending *orchestrator.HumanInput) *StateView {
	v := &StateView{
		ID:           st.ID,
		ProductIdea:  st.Idea,
		TaskType:     st.Task,
		Round:        st.Round,
		SilentRounds: st.SilentRounds,
		Running:      st.Running,
		Status:       st.Status,
		Discussion:   st.Transcript.Entries(),
		Error:        st.Err,
		Pending:      newPendingView(pending),
		Created:      st.Created,
		Updated:      st.Updated,
	}
	for _, a := range st.Advisors {
		v.Advisors = append(v.Advisors, AdvisorView{Profile: a.Profile(), Origin: a.Origin()})
	}
	if st.Summary != nil {
		s := st.Summary.Content
		v.Summary = &s
	}
	return v
}
