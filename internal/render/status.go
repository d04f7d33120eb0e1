package render

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/Gaurav-Gosain/tilecols/internal/config"
	"github.com/Gaurav-Gosain/tilecols/internal/host"
	"github.com/Gaurav-Gosain/tilecols/internal/theme"
	"github.com/charmbracelet/x/ansi"
)

// Knobs describes the adjustable part of a state, e.g. "main 0.45".
func Knobs(v host.View) string {
	var parts []string
	if v.State.MainPaneCount > 0 {
		parts = append(parts, fmt.Sprintf("main×%d", v.State.MainPaneCount))
	}
	if v.State.MainPaneRatio > 0 {
		parts = append(parts, fmt.Sprintf("pane %.2f", v.State.MainPaneRatio))
	}
	if v.State.MainRatio > 0 {
		parts = append(parts, fmt.Sprintf("main %.2f", v.State.MainRatio))
	}
	return strings.Join(parts, " ")
}

// StatusLine renders a one line summary of v, width cells wide.
func StatusLine(v host.View, width int, notice string) string {
	base := lipgloss.NewStyle().Foreground(theme.StatusFg()).Background(theme.StatusBg())
	accent := base.Foreground(theme.StatusAccent()).Bold(true)

	sep := base.Render(config.Separator())
	segments := []string{
		accent.Render(" " + v.Title),
		base.Render(fmt.Sprintf("%d windows", len(v.Windows))),
	}
	if knobs := Knobs(v); knobs != "" {
		segments = append(segments, base.Render(knobs))
	}
	if i := v.Focus(); i >= 0 {
		segments = append(segments, base.Render("focus: "+v.Windows[i].Title))
	}
	if notice != "" {
		segments = append(segments, base.Foreground(theme.ErrorFg()).Render(notice))
	}

	line := ansi.Truncate(strings.Join(segments, sep), width, "…")
	return base.Width(width).MaxWidth(width).Render(line)
}
