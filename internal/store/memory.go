package store

import (
	"context"
	"sort"
	"sync"

	"github.com/Gaurav-Gosain/tilecols/internal/layout"
)

// MemoryStore keeps state in process memory. It backs tests and
// `tilecols serve` when no persistent backend is wanted.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]map[string]layout.State
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]map[string]layout.State)}
}

func (m *MemoryStore) Save(_ context.Context, session, strategy string, state layout.State) error {
	if err := validateKey(session, strategy); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.states[session] == nil {
		m.states[session] = make(map[string]layout.State)
	}
	m.states[session][strategy] = state.Clone()
	return nil
}

func (m *MemoryStore) Load(_ context.Context, session, strategy string) (layout.State, error) {
	if err := validateKey(session, strategy); err != nil {
		return layout.State{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	state, ok := m.states[session][strategy]
	if !ok {
		return layout.State{}, ErrStateNotFound
	}
	return state.Clone(), nil
}

func (m *MemoryStore) Delete(_ context.Context, session, strategy string) error {
	if err := validateKey(session, strategy); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states[session], strategy)
	return nil
}

func (m *MemoryStore) List(_ context.Context, session string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	strategies := make([]string, 0, len(m.states[session]))
	for name := range m.states[session] {
		strategies = append(strategies, name)
	}
	sort.Strings(strategies)
	return strategies, nil
}

func (m *MemoryStore) Close() error { return nil }
