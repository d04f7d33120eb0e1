package tilecols

import (
	"context"
	"strings"
	"testing"
)

type fakePTY struct{ w, h int }

func (p fakePTY) Width() int  { return p.w }
func (p fakePTY) Height() int { return p.h }

func TestLayoutAPI(t *testing.T) {
	s, err := Lookup("centered-primary-columns")
	if err != nil {
		t.Fatal(err)
	}
	windows := []Window{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	state := s.Update(WindowsChanged{Windows: windows}, s.InitialState())
	state = s.Update(CommandIssued{Command: CommandExpandMain}, state)

	frames := s.Frames(windows, Rect{Width: 120, Height: 30}, state)
	if got := frames["b"]; got != (Rect{X: 33, Width: 54, Height: 30}) {
		t.Errorf("primary frame = %+v", got)
	}
	if info := Describe(s); info.RatioBounds == nil || info.RatioBounds.Max != 0.80 {
		t.Errorf("Describe = %+v", info)
	}
}

func TestNewForPTY(t *testing.T) {
	m, err := NewForPTY(context.Background(), fakePTY{w: 80, h: 25},
		WithStrategy("uniform-columns"),
		WithUserConfig(Config.DefaultConfig()),
		WithASCIIOnly(true),
	)
	if err != nil {
		t.Fatalf("NewForPTY() error = %v", err)
	}
	if out := m.Render(); !strings.Contains(out, "Uniform Columns") {
		t.Errorf("status line missing strategy title:\n%s", out)
	}

	if _, err := New(context.Background(), WithStrategy("spiral"), WithUserConfig(Config.DefaultConfig())); err == nil {
		t.Error("expected an error for an unknown strategy")
	}
}
