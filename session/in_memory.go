package session

import (
	"errors"
	"sort"
	"sync"

	"github.com/Ying-Kai-Liao/hot-seat/core"
)

// ErrNotFound is returned when no session exists for an id.
var ErrNotFound = errors.New("session not found")

// InMemoryStore is a volatile SessionStore implementation storing session
// snapshots in a process local map. It is safe for concurrent access and best
// suited for tests, the CLI and single-process servers. States are copied on
// save and on retrieval to prevent external mutation.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*core.SessionState
}

// NewInMemoryStore constructs an empty in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]*core.SessionState)}
}

// Save stores (or replaces) a copy of state.
func (s *InMemoryStore) Save(state *core.SessionState) error {
	if state == nil || state.ID == "" {
		return errors.New("session: state without id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[state.ID] = state.Snapshot()
	return nil
}

// Get returns a copy of the stored state or ErrNotFound.
func (s *InMemoryStore) Get(id string) (*core.SessionState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return st.Snapshot(), nil
}

// List returns copies of all stored states, newest first.
func (s *InMemoryStore) List() ([]*core.SessionState, error) {
	s.mu.RLock()
	out := make([]*core.SessionState, 0, len(s.sessions))
	for _, st := range s.sessions {
		out = append(out, st.Snapshot())
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Created.After(out[j].Created) })
	return out, nil
}

// Delete removes a session. Deleting an unknown id is not an error.
func (s *InMemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
