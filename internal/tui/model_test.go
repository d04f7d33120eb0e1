package tui

import (
	"context"
	"math"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/Gaurav-Gosain/tilecols/internal/config"
	"github.com/Gaurav-Gosain/tilecols/internal/host"
	"github.com/Gaurav-Gosain/tilecols/internal/layout"
	"github.com/Gaurav-Gosain/tilecols/internal/render"
)

func newModel(t *testing.T, strategy string) (*Model, *host.Session) {
	t.Helper()
	s, err := host.NewSession(context.Background(), host.Options{
		Strategy: strategy,
		Screen:   layout.Rect{Width: 80, Height: 23},
	})
	if err != nil {
		t.Fatal(err)
	}
	return New(context.Background(), s, nil, nil), s
}

func press(m *Model, keys ...tea.KeyPressMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(k)
	}
	return cmd
}

func char(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestWindowSize(t *testing.T) {
	m, s := newModel(t, "uniform-columns")
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	if got := s.Snapshot().Screen; got != (layout.Rect{Width: 100, Height: 39}) {
		t.Errorf("screen = %+v, want 100x39", got)
	}
}

func TestKeysDriveSession(t *testing.T) {
	m, s := newModel(t, "centered-primary-columns")

	press(m, char('n'), char('n'), char('n'))
	v := s.Snapshot()
	if len(v.Windows) != 3 {
		t.Fatalf("got %d windows, want 3", len(v.Windows))
	}

	press(m, char('>'))
	if got := s.Snapshot().State.MainRatio; math.Abs(got-0.45) > 1e-9 {
		t.Errorf("MainRatio = %v after expand", got)
	}
	press(m, char('<'), char('<'))
	if got := s.Snapshot().State.MainRatio; math.Abs(got-0.35) > 1e-9 {
		t.Errorf("MainRatio = %v after two shrinks", got)
	}

	// Focus is on win-3; swapping forward wraps it to the front.
	press(m, char('J'))
	if got := s.Snapshot().Windows[0].Title; got != "win-3" {
		t.Errorf("first window = %s after swap", got)
	}

	press(m, tea.KeyPressMsg{Code: tea.KeyTab})
	v = s.Snapshot()
	if v.Windows[v.Focus()].Title != "win-2" {
		t.Errorf("focus = %s after tab", v.Windows[v.Focus()].Title)
	}

	press(m, char('x'))
	if got := len(s.Snapshot().Windows); got != 2 {
		t.Errorf("got %d windows after close", got)
	}

	press(m, char('r'))
	if got := s.Snapshot().State.MainRatio; got != 0.40 {
		t.Errorf("MainRatio = %v after reset", got)
	}
}

func TestStrategyKeys(t *testing.T) {
	m, s := newModel(t, "centered-main-pane")

	press(m, char(']'))
	if got := s.Strategy().Name(); got != "centered-primary-columns" {
		t.Errorf("next strategy = %s", got)
	}
	press(m, char('['), char('['))
	if got := s.Strategy().Name(); got != "uniform-columns" {
		t.Errorf("previous strategy = %s", got)
	}
}

func TestUnsupportedCommandNotice(t *testing.T) {
	m, _ := newModel(t, "uniform-columns")
	press(m, char('n'), char('>'))

	if !strings.Contains(render.Plain(m.Render()), "not available in Uniform Columns") {
		t.Errorf("notice missing from status line:\n%s", render.Plain(m.Render()))
	}

	press(m, char('n'))
	if strings.Contains(render.Plain(m.Render()), "not available") {
		t.Error("notice not cleared by the next key")
	}
}

func TestHelpOverlay(t *testing.T) {
	m, s := newModel(t, "uniform-columns")

	press(m, char('?'))
	out := render.Plain(m.Render())
	for _, want := range []string{"LAYOUT", "WINDOWS", "STRATEGY", "Expand main area", "Shift+Tab, k"} {
		if !strings.Contains(out, want) {
			t.Errorf("help lacks %q", want)
		}
	}

	// Any other key closes help without acting.
	press(m, char('n'))
	if len(s.Snapshot().Windows) != 0 {
		t.Error("key behind the help overlay was dispatched")
	}
	if strings.Contains(render.Plain(m.Render()), "LAYOUT") {
		t.Error("help still shown")
	}
}

func TestQuit(t *testing.T) {
	m, _ := newModel(t, "uniform-columns")
	cmd := press(m, char('q'))
	if cmd == nil {
		t.Fatal("quit returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit did not return tea.Quit")
	}
	if cmd := press(m, char('z')); cmd != nil {
		t.Error("unbound key returned a command")
	}
}

func TestCustomKeybindings(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Keybindings.Layout = map[string][]string{
		config.ActionNewWindow: {"o"},
		config.ActionQuit:      {"ctrl+q"},
	}
	s, err := host.NewSession(context.Background(), host.Options{Strategy: "uniform-columns", Screen: layout.Rect{Width: 40, Height: 10}})
	if err != nil {
		t.Fatal(err)
	}
	m := New(context.Background(), s, config.NewKeybindRegistry(cfg), nil)

	press(m, char('n'), char('o'))
	if got := len(s.Snapshot().Windows); got != 1 {
		t.Errorf("got %d windows, want only the rebound key to open one", got)
	}
	if cmd := press(m, char('q')); cmd != nil {
		t.Error("q still quits after rebinding")
	}
}

func TestDispatcher(t *testing.T) {
	d := NewActionDispatcher()
	for _, action := range []string{
		config.ActionExpandMain, config.ActionShrinkMain, config.ActionIncreaseMainCount,
		config.ActionDecreaseMainCount, config.ActionNewWindow, config.ActionCloseWindow,
		config.ActionFocusNext, config.ActionFocusPrev, config.ActionSwapNext, config.ActionSwapPrev,
		config.ActionNextStrategy, config.ActionPrevStrategy, config.ActionHardReset,
	} {
		if !d.HasAction(action) {
			t.Errorf("%s not registered", action)
		}
	}
	if d.HasAction(config.ActionQuit) {
		t.Error("quit is handled by the model, not the dispatcher")
	}
}
