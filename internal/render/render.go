// Package render draws a session's frames as terminal text.
package render

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/Gaurav-Gosain/tilecols/internal/config"
	"github.com/Gaurav-Gosain/tilecols/internal/host"
	"github.com/Gaurav-Gosain/tilecols/internal/layout"
	"github.com/Gaurav-Gosain/tilecols/internal/theme"
	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/x/ansi"
)

// Options controls how a view is drawn.
type Options struct {
	// Width and Height are the canvas size in cells. Zero means the size of
	// the view's screen; frames are scaled to fit otherwise.
	Width, Height int
	Border        lipgloss.Border
	ShowLabels    bool
}

// DefaultOptions reads the border and label settings from config.
func DefaultOptions(width, height int) Options {
	return Options{
		Width:      width,
		Height:     height,
		Border:     config.GetBorderForStyle(),
		ShowLabels: config.ShowLabels,
	}
}

// cell is a frame converted to canvas cells.
type cell struct {
	x, y, w, h int
}

// toCells scales r from screen coordinates onto a w×h canvas. Edges are
// rounded independently so adjacent frames share their seam.
func toCells(r, screen layout.Rect, w, h int) cell {
	sx := float64(w) / screen.Width
	sy := float64(h) / screen.Height
	round := func(v float64) int { return int(math.Floor(v + 0.5)) }

	x0 := clampInt(round((r.X-screen.X)*sx), 0, w)
	x1 := clampInt(round((r.Right()-screen.X)*sx), 0, w)
	y0 := clampInt(round((r.Y-screen.Y)*sy), 0, h)
	y1 := clampInt(round((r.Bottom()-screen.Y)*sy), 0, h)
	return cell{x: x0, y: y0, w: x1 - x0, h: y1 - y0}
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

// Canvas composes one layer per frame. Windows without a frame are not drawn.
func Canvas(v host.View, opts Options) *lipgloss.Canvas {
	width, height := opts.Width, opts.Height
	if width <= 0 {
		width = int(v.Screen.Width)
	}
	if height <= 0 {
		height = int(v.Screen.Height)
	}
	canvas := lipgloss.NewCanvas(width, height)

	if len(v.Frames) == 0 || v.Screen.Empty() {
		msg := lipgloss.NewStyle().Foreground(theme.BorderUnfocused()).Render("no windows")
		canvas.Compose(lipgloss.NewLayer(lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, msg)).ID("empty"))
		return canvas
	}

	for i, w := range v.Windows {
		r, ok := v.Frames[w.ID]
		if !ok {
			continue
		}
		c := toCells(r, v.Screen, width, height)
		if c.w <= 0 || c.h <= 0 {
			continue
		}

		focused := w.ID == v.Focused
		z := 1
		if focused {
			z = 2
		}
		content := frameBox(w, i, focused, c, opts)
		canvas.Compose(lipgloss.NewLayer(content).X(c.x).Y(c.y).Z(z).ID(string(w.ID)))
	}
	return canvas
}

// frameBox draws one frame. Cells too small for a border are filled.
func frameBox(w layout.Window, i int, focused bool, c cell, opts Options) string {
	var border color.Color = theme.BorderUnfocused()
	if focused {
		border = theme.BorderFocused()
	}

	if c.w < 2 || c.h < 2 {
		fill := strings.Repeat(strings.Repeat("░", c.w)+"\n", c.h)
		return lipgloss.NewStyle().Foreground(theme.WindowColor(i)).Render(strings.TrimSuffix(fill, "\n"))
	}

	innerW, innerH := c.w-2, c.h-2
	var lines []string
	if opts.ShowLabels && innerW > 0 && innerH > 0 {
		label := w.Title
		if label == "" {
			label = string(w.ID)
		}
		if focused {
			label = config.FocusMarker() + " " + label
		}
		labelStyle := lipgloss.NewStyle().Foreground(theme.WindowColor(i)).Bold(focused)
		lines = append(lines, labelStyle.Render(ansi.Truncate(label, innerW, "…")))
		if innerH > 1 {
			size := fmt.Sprintf("%d×%d", c.w, c.h)
			if config.UseASCIIOnly {
				size = fmt.Sprintf("%dx%d", c.w, c.h)
			}
			dim := lipgloss.NewStyle().Foreground(theme.BorderUnfocused())
			lines = append(lines, dim.Render(ansi.Truncate(size, innerW, "")))
		}
	}

	return lipgloss.NewStyle().
		Border(opts.Border).
		BorderForeground(border).
		Width(c.w).
		Height(c.h).
		MaxWidth(c.w).
		MaxHeight(c.h).
		Render(strings.Join(lines, "\n"))
}

// Frames renders v to a string.
func Frames(v host.View, opts Options) string {
	return Canvas(v, opts).Render()
}

// Fprint writes s to w, downsampling colors to what environ's terminal
// supports.
func Fprint(w io.Writer, environ []string, s string) error {
	pw := colorprofile.NewWriter(w, environ)
	_, err := io.WriteString(pw, s)
	return err
}

// Plain removes all styling from s.
func Plain(s string) string {
	return ansi.Strip(s)
}
