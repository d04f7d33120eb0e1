// Package server exposes layout strategies and host sessions over HTTP and
// serves the playground over SSH.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/Gaurav-Gosain/tilecols/internal/host"
	"github.com/Gaurav-Gosain/tilecols/internal/layout"
	"github.com/Gaurav-Gosain/tilecols/internal/store"
	"github.com/charmbracelet/log"
)

var (
	// ErrInvalidSession is returned for session names that cannot be stored.
	ErrInvalidSession = errors.New("invalid session name")
	// ErrUnknownSession is returned when no live session has the name.
	ErrUnknownSession = errors.New("unknown session")
)

// Sessions creates host sessions on first use and keeps them alive.
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*host.Session

	store    store.Store
	logger   *log.Logger
	metrics  *host.Metrics
	strategy string
	screen   layout.Rect
}

// NewSessions creates a session set. New sessions start with strategy on
// screen; metrics may be nil.
func NewSessions(st store.Store, strategy string, screen layout.Rect, logger *log.Logger, metrics *host.Metrics) *Sessions {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Sessions{
		sessions: make(map[string]*host.Session),
		store:    st,
		logger:   logger,
		metrics:  metrics,
		strategy: strategy,
		screen:   screen,
	}
}

// Get returns the named session, creating it if needed.
func (m *Sessions) Get(ctx context.Context, name string) (*host.Session, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\:`) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSession, name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[name]; ok {
		return s, nil
	}
	s, err := host.NewSession(ctx, host.Options{
		Name:     name,
		Strategy: m.strategy,
		Screen:   m.screen,
		Store:    m.store,
		Logger:   m.logger,
		Metrics:  m.metrics,
	})
	if err != nil {
		return nil, err
	}
	m.sessions[name] = s
	m.logger.Info("session created", "session", name)
	return s, nil
}

// Names lists the live sessions, sorted.
func (m *Sessions) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.sessions))
	for name := range m.sessions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Drop forgets a live session. Its saved state stays in the store.
func (m *Sessions) Drop(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.sessions[name]
	delete(m.sessions, name)
	return ok
}
