package render

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/Gaurav-Gosain/tilecols/internal/host"
	"github.com/Gaurav-Gosain/tilecols/internal/layout"
)

func view(t *testing.T, strategy string, screen layout.Rect, titles ...string) host.View {
	t.Helper()
	s, err := host.NewSession(context.Background(), host.Options{Strategy: strategy, Screen: screen})
	if err != nil {
		t.Fatal(err)
	}
	for _, title := range titles {
		if _, err := s.Open(context.Background(), title); err != nil {
			t.Fatal(err)
		}
	}
	return s.Snapshot()
}

func TestToCells(t *testing.T) {
	screen := layout.Rect{X: 100, Y: 10, Width: 200, Height: 60}
	tests := []struct {
		name string
		r    layout.Rect
		want cell
	}{
		{"full", screen, cell{0, 0, 40, 20}},
		{"left half", layout.Rect{X: 100, Y: 10, Width: 100, Height: 60}, cell{0, 0, 20, 20}},
		{"right half", layout.Rect{X: 200, Y: 10, Width: 100, Height: 60}, cell{20, 0, 20, 20}},
		{"clipped", layout.Rect{X: 50, Y: 10, Width: 100, Height: 600}, cell{0, 0, 10, 20}},
		{"sliver", layout.Rect{X: 100, Y: 10, Width: 1, Height: 60}, cell{0, 0, 0, 20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := toCells(tt.r, screen, 40, 20); got != tt.want {
				t.Errorf("toCells() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFramesASCII(t *testing.T) {
	v := view(t, "uniform-columns", layout.Rect{Width: 30, Height: 6}, "left", "right")
	out := Plain(Frames(v, Options{Border: lipgloss.ASCIIBorder(), ShowLabels: true}))

	if !strings.HasPrefix(out, "+") {
		t.Errorf("output does not start with a corner:\n%s", out)
	}
	for _, want := range []string{"left", "right", "15×6"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestFramesHiddenLabels(t *testing.T) {
	v := view(t, "centered-primary-columns", layout.Rect{Width: 60, Height: 8}, "alpha", "beta", "gamma")
	out := Plain(Frames(v, Options{Border: lipgloss.NormalBorder()}))
	for _, title := range []string{"alpha", "beta", "gamma"} {
		if strings.Contains(out, title) {
			t.Errorf("label %q drawn with labels off", title)
		}
	}
}

func TestFramesEmpty(t *testing.T) {
	v := view(t, "centered-twin-columns", layout.Rect{Width: 40, Height: 5})
	if out := Plain(Frames(v, Options{Border: lipgloss.NormalBorder()})); !strings.Contains(out, "no windows") {
		t.Errorf("empty view rendered as:\n%s", out)
	}
}

func TestFramesScaled(t *testing.T) {
	v := view(t, "uniform-columns", layout.Rect{Width: 1920, Height: 1080}, "a", "b", "c", "d")
	out := Plain(Frames(v, Options{Width: 80, Height: 10, Border: lipgloss.ASCIIBorder(), ShowLabels: true}))
	for _, title := range []string{"a", "b", "c", "d"} {
		if !strings.Contains(out, title) {
			t.Errorf("scaled output lacks %q", title)
		}
	}
	if lines := strings.Split(out, "\n"); len(lines) > 10 {
		t.Errorf("rendered %d lines on a 10 line canvas", len(lines))
	}
}

func TestStatusLine(t *testing.T) {
	v := view(t, "centered-main-pane", layout.Rect{Width: 120, Height: 30}, "editor", "logs")
	line := Plain(StatusLine(v, 120, "unknown key"))

	for _, want := range []string{"Centered Main Pane with Columns", "2 windows", "main×1", "pane 0.50", "focus: logs", "unknown key"} {
		if !strings.Contains(line, want) {
			t.Errorf("status %q lacks %q", line, want)
		}
	}
	if w := lipgloss.Width(StatusLine(v, 20, "")); w != 20 {
		t.Errorf("status width = %d, want 20", w)
	}
}

func TestKnobs(t *testing.T) {
	tests := []struct {
		state layout.State
		want  string
	}{
		{layout.State{}, ""},
		{layout.State{MainRatio: 0.4}, "main 0.40"},
		{layout.State{MainPaneCount: 2, MainPaneRatio: 0.6}, "main×2 pane 0.60"},
	}
	for _, tt := range tests {
		if got := Knobs(host.View{State: tt.state}); got != tt.want {
			t.Errorf("Knobs(%+v) = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestFprint(t *testing.T) {
	var buf bytes.Buffer
	styled := lipgloss.NewStyle().Foreground(lipgloss.Color("#ff0000")).Render("red")
	if err := Fprint(&buf, []string{"TERM=dumb"}, styled); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "red" {
		t.Errorf("Fprint to a non-tty = %q, want plain text", buf.String())
	}
}
