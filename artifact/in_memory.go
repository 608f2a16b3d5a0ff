package artifact

import (
	"slices"
	"sync"
)

// InMemoryStore keeps artifacts in a nested map guarded by an RWMutex.
//
// Layout: sessionID -> name -> raw bytes
type InMemoryStore struct {
	mu        sync.RWMutex
	artifacts map[string]map[string][]byte
}

var _ Store = (*InMemoryStore)(nil)

// NewInMemoryStore returns an empty in-memory artifact store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{artifacts: make(map[string]map[string][]byte)}
}

// Save stores (or overwrites) a copy of data.
func (a *InMemoryStore) Save(sessionID, name string, data []byte) error {
	if sessionID == "" || !validName(name) {
		return ErrInvalidName
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.artifacts[sessionID]; !exists {
		a.artifacts[sessionID] = make(map[string][]byte)
	}
	a.artifacts[sessionID][name] = slices.Clone(data)
	return nil
}

// Get returns a copy of the stored bytes or ErrNotFound.
func (a *InMemoryStore) Get(sessionID, name string) ([]byte, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	data, ok := a.artifacts[sessionID][name]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(data), nil
}

// List returns the names stored for the session.
func (a *InMemoryStore) List(sessionID string) ([]string, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	names := make([]string, 0, len(a.artifacts[sessionID]))
	for name := range a.artifacts[sessionID] {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// Delete removes the artifact or returns ErrNotFound.
func (a *InMemoryStore) Delete(sessionID, name string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	m, ok := a.artifacts[sessionID]
	if !ok {
		return ErrNotFound
	}
	if _, ok := m[name]; !ok {
		return ErrNotFound
	}
	delete(m, name)
	if len(m) == 0 {
		delete(a.artifacts, sessionID)
	}
	return nil
}
