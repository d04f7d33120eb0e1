// Package host simulates a window manager driving a layout strategy.
//
// A Session owns a screen, a list of windows in host enumeration order and
// the active strategy. Every window operation is translated into a
// layout.Change, fed through the strategy's Update and the resulting state is
// persisted through a store.Store, the way a real window manager integration
// would drive the layout package.
package host

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Gaurav-Gosain/tilecols/internal/layout"
	"github.com/Gaurav-Gosain/tilecols/internal/store"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

var (
	// ErrUnknownWindow is returned when a window reference matches nothing.
	ErrUnknownWindow = errors.New("unknown window")
	// ErrUnknownCommand is returned for commands the active strategy lacks.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrNotPermutation is returned by Report when the reported list is not
	// exactly the open windows.
	ErrNotPermutation = errors.New("reported windows do not match open windows")
)

// Options configures a Session.
type Options struct {
	Name     string
	Strategy string
	Screen   layout.Rect
	Store    store.Store
	Logger   *log.Logger
	Metrics  *Metrics
}

// Session is one simulated screen. It is safe for concurrent use.
type Session struct {
	mu sync.Mutex

	name     string
	strategy layout.Strategy
	state    layout.State
	screen   layout.Rect
	windows  []layout.Window
	focused  layout.WindowID
	opened   int

	store   store.Store
	logger  *log.Logger
	metrics *Metrics
}

// View is a snapshot of a session.
type View struct {
	Session  string          `json:"session" yaml:"session"`
	Strategy string          `json:"strategy" yaml:"strategy"`
	Title    string          `json:"title" yaml:"title"`
	Screen   layout.Rect     `json:"screen" yaml:"screen"`
	Windows  []layout.Window `json:"windows" yaml:"windows"`
	Focused  layout.WindowID `json:"focused,omitempty" yaml:"focused,omitempty"`
	Frames   layout.Frames   `json:"frames" yaml:"frames"`
	State    layout.State    `json:"state" yaml:"state"`
}

// Focus returns the index of the focused window in Windows, or -1.
func (v View) Focus() int {
	return slices.IndexFunc(v.Windows, func(w layout.Window) bool { return w.ID == v.Focused })
}

// NewSession activates opts.Strategy, restoring its saved state when the
// store has one.
func NewSession(ctx context.Context, opts Options) (*Session, error) {
	if opts.Name == "" {
		opts.Name = "default"
	}
	if opts.Store == nil {
		opts.Store = store.NewMemoryStore()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	s := &Session{
		name:    opts.Name,
		screen:  opts.Screen,
		store:   opts.Store,
		logger:  opts.Logger.With("session", opts.Name),
		metrics: opts.Metrics,
	}
	if err := s.activate(ctx, opts.Strategy); err != nil {
		return nil, err
	}
	return s, nil
}

// Name returns the session name.
func (s *Session) Name() string {
	return s.name
}

// activate switches to the named strategy and loads its state. Callers hold
// mu or own s exclusively.
func (s *Session) activate(ctx context.Context, name string) error {
	strat, err := layout.Lookup(name)
	if err != nil {
		return err
	}

	state, err := s.store.Load(ctx, s.name, strat.Name())
	switch {
	case errors.Is(err, store.ErrStateNotFound):
		state = strat.InitialState()
	case err != nil:
		s.metrics.storeFailed("load")
		s.logger.Warn("could not load state, starting fresh", "strategy", strat.Name(), "err", err)
		state = strat.InitialState()
	default:
		s.logger.Debug("restored state", "strategy", strat.Name(), "order", len(state.WindowOrder))
	}

	s.strategy = strat
	s.state = state
	// The restored order may name windows that are gone.
	return s.apply(ctx, layout.WindowsChanged{Windows: s.windowsCopy()})
}

// apply runs change through the strategy and persists the result.
func (s *Session) apply(ctx context.Context, change layout.Change) error {
	s.state = s.strategy.Update(change, s.state)
	kind := layout.ChangeKind(change)
	s.metrics.observeChange(s.strategy.Name(), kind)
	s.metrics.setWindows(s.name, len(s.windows))
	s.logger.Debug("applied change", "strategy", s.strategy.Name(), "kind", kind)

	if err := s.store.Save(ctx, s.name, s.strategy.Name(), s.state); err != nil {
		s.metrics.storeFailed("save")
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

func (s *Session) windowsCopy() []layout.Window {
	return slices.Clone(s.windows)
}

func (s *Session) reportWindows(ctx context.Context) error {
	return s.apply(ctx, layout.WindowsChanged{Windows: s.windowsCopy()})
}

// ordered returns the windows in layout order.
func (s *Session) ordered() []layout.Window {
	return layout.Stabilize(s.windows, s.state.WindowOrder)
}

// Open adds a window and focuses it. An empty title becomes "win-N".
func (s *Session) Open(ctx context.Context, title string) (layout.Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.opened++
	if title == "" {
		title = fmt.Sprintf("win-%d", s.opened)
	}
	w := layout.Window{ID: layout.WindowID(uuid.New().String()), Title: title}
	s.windows = append(s.windows, w)
	s.focused = w.ID
	s.logger.Info("window opened", "title", title, "id", w.ID)
	return w, s.reportWindows(ctx)
}

// Close removes a window. Focus moves to its successor in layout order, or
// its predecessor when it was last.
func (s *Session) Close(ctx context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.resolve(ref)
	if err != nil {
		return err
	}

	if s.focused == id {
		ordered := s.ordered()
		i := slices.IndexFunc(ordered, func(w layout.Window) bool { return w.ID == id })
		s.focused = ""
		switch {
		case i+1 < len(ordered):
			s.focused = ordered[i+1].ID
		case i > 0:
			s.focused = ordered[i-1].ID
		}
	}
	s.windows = slices.DeleteFunc(s.windows, func(w layout.Window) bool { return w.ID == id })
	s.logger.Info("window closed", "id", id)
	return s.reportWindows(ctx)
}

// Focus focuses a window. Focus does not affect the layout.
func (s *Session) Focus(ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.resolve(ref)
	if err != nil {
		return err
	}
	s.focused = id
	return nil
}

// FocusNext moves focus to the next window in layout order, wrapping.
func (s *Session) FocusNext() {
	s.cycleFocus(1)
}

// FocusPrev moves focus to the previous window in layout order, wrapping.
func (s *Session) FocusPrev() {
	s.cycleFocus(-1)
}

func (s *Session) cycleFocus(step int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ordered := s.ordered()
	if len(ordered) == 0 {
		return
	}
	i := slices.IndexFunc(ordered, func(w layout.Window) bool { return w.ID == s.focused })
	if i < 0 {
		s.focused = ordered[0].ID
		return
	}
	s.focused = ordered[(i+step+len(ordered))%len(ordered)].ID
}

// Swap exchanges the layout positions of two windows.
func (s *Session) Swap(ctx context.Context, a, b string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ida, err := s.resolve(a)
	if err != nil {
		return err
	}
	idb, err := s.resolve(b)
	if err != nil {
		return err
	}
	return s.swap(ctx, ida, idb)
}

// swap reports the layout order with a and b exchanged, which the strategy
// adopts as an exact swap.
func (s *Session) swap(ctx context.Context, a, b layout.WindowID) error {
	if a == b {
		return nil
	}
	ordered := s.ordered()
	i := slices.IndexFunc(ordered, func(w layout.Window) bool { return w.ID == a })
	j := slices.IndexFunc(ordered, func(w layout.Window) bool { return w.ID == b })
	ordered[i], ordered[j] = ordered[j], ordered[i]
	s.windows = ordered
	return s.reportWindows(ctx)
}

// SwapNext swaps the focused window with its successor in layout order.
func (s *Session) SwapNext(ctx context.Context) error {
	return s.swapFocused(ctx, 1)
}

// SwapPrev swaps the focused window with its predecessor in layout order.
func (s *Session) SwapPrev(ctx context.Context) error {
	return s.swapFocused(ctx, -1)
}

func (s *Session) swapFocused(ctx context.Context, step int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ordered := s.ordered()
	i := slices.IndexFunc(ordered, func(w layout.Window) bool { return w.ID == s.focused })
	if i < 0 || len(ordered) < 2 {
		return nil
	}
	j := (i + step + len(ordered)) % len(ordered)
	return s.swap(ctx, ordered[i].ID, ordered[j].ID)
}

// Report replaces the host enumeration order with refs, which must name
// every open window exactly once. The strategy decides whether the new order
// is adopted.
func (s *Session) Report(ctx context.Context, refs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(refs) != len(s.windows) {
		return fmt.Errorf("%w: got %d, have %d", ErrNotPermutation, len(refs), len(s.windows))
	}
	byID := make(map[layout.WindowID]layout.Window, len(s.windows))
	for _, w := range s.windows {
		byID[w.ID] = w
	}
	reported := make([]layout.Window, 0, len(refs))
	for _, ref := range refs {
		id, err := s.resolve(ref)
		if err != nil {
			return err
		}
		w, ok := byID[id]
		if !ok {
			return fmt.Errorf("%w: %q listed twice", ErrNotPermutation, ref)
		}
		delete(byID, id)
		reported = append(reported, w)
	}
	s.windows = reported
	return s.reportWindows(ctx)
}

// Command issues a named command of the active strategy.
func (s *Session) Command(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !slices.ContainsFunc(s.strategy.Commands(), func(c layout.Command) bool { return c.Name == name }) {
		return fmt.Errorf("%w %q for %s", ErrUnknownCommand, name, s.strategy.Name())
	}
	return s.apply(ctx, layout.CommandIssued{Command: name})
}

// ResizeMain reports a drag of the main area edge by delta cells.
func (s *Session) ResizeMain(ctx context.Context, delta float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.apply(ctx, layout.ResizedMain{Delta: delta, ScreenWidth: s.screen.Width})
}

// Reset restores the strategy's initial state, then reports the open
// windows again so the order follows the host.
func (s *Session) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.apply(ctx, layout.HardReset{}); err != nil {
		return err
	}
	return s.reportWindows(ctx)
}

// Apply feeds an arbitrary change to the strategy. WindowsChanged is
// rejected unless it matches the open windows; use Report instead.
func (s *Session) Apply(ctx context.Context, change layout.Change) error {
	if wc, ok := change.(layout.WindowsChanged); ok {
		refs := make([]string, len(wc.Windows))
		for i, w := range wc.Windows {
			refs[i] = string(w.ID)
		}
		return s.Report(ctx, refs)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply(ctx, change)
}

// SetStrategy switches strategies. The outgoing state is already saved.
func (s *Session) SetStrategy(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.strategy != nil && s.strategy.Name() == name {
		return nil
	}
	s.logger.Info("switching strategy", "from", s.strategy.Name(), "to", name)
	return s.activate(ctx, name)
}

// NextStrategy activates the strategy after the current one in name order.
func (s *Session) NextStrategy(ctx context.Context) error {
	return s.stepStrategy(ctx, 1)
}

// PrevStrategy activates the strategy before the current one in name order.
func (s *Session) PrevStrategy(ctx context.Context) error {
	return s.stepStrategy(ctx, -1)
}

func (s *Session) stepStrategy(ctx context.Context, step int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := layout.Names()
	i := slices.Index(names, s.strategy.Name())
	next := names[(i+step+len(names))%len(names)]
	s.logger.Info("switching strategy", "from", s.strategy.Name(), "to", next)
	return s.activate(ctx, next)
}

// SetScreen changes the usable screen rectangle.
func (s *Session) SetScreen(r layout.Rect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.screen = r
}

// Strategy returns the active strategy.
func (s *Session) Strategy() layout.Strategy {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.strategy
}

// Snapshot computes the frames and returns the session as a View.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	frames := s.strategy.Frames(s.windowsCopy(), s.screen, s.state)
	s.metrics.observeFrames(s.strategy.Name(), time.Since(start).Seconds())

	return View{
		Session:  s.name,
		Strategy: s.strategy.Name(),
		Title:    s.strategy.Title(),
		Screen:   s.screen,
		Windows:  s.ordered(),
		Focused:  s.focused,
		Frames:   frames,
		State:    s.state.Clone(),
	}
}

// Resolve returns the id of the window ref names: an exact id, an exact
// title, or a unique id prefix, in that order.
func (s *Session) Resolve(ref string) (layout.WindowID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolve(ref)
}

func (s *Session) resolve(ref string) (layout.WindowID, error) {
	if ref == "" {
		return "", fmt.Errorf("%w: empty reference", ErrUnknownWindow)
	}
	for _, w := range s.windows {
		if string(w.ID) == ref {
			return w.ID, nil
		}
	}
	for _, w := range s.windows {
		if w.Title == ref {
			return w.ID, nil
		}
	}

	var match layout.WindowID
	for _, w := range s.windows {
		if strings.HasPrefix(string(w.ID), ref) {
			if match != "" {
				return "", fmt.Errorf("%w: %q is ambiguous", ErrUnknownWindow, ref)
			}
			match = w.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %q", ErrUnknownWindow, ref)
	}
	return match, nil
}
