// Package theme provides the colors used to draw frame previews.
package theme

import (
	"fmt"
	"image/color"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/log"
	tint "github.com/lrstanley/bubbletint/v2"
)

var enabled bool

// Initialize sets up the theme registry with the specified theme name.
// If themeName is empty, theming is disabled and ANSI colors are used.
// Unknown names fall back to bubbletint's default tint.
func Initialize(themeName string) error {
	if themeName == "" {
		enabled = false
		return nil
	}

	enabled = true
	tint.NewDefaultRegistry()

	if themesDir, err := GetThemesDir(); err == nil {
		if _, err := LoadCustomThemes(themesDir); err != nil {
			log.Warn("error loading custom themes", "dir", themesDir, "err", err)
		}
	}

	if !tint.SetTintID(themeName) {
		tint.SetTintID("default")
		return fmt.Errorf("theme %q not found, using default", themeName)
	}
	return nil
}

// IsEnabled returns true if theming is enabled
func IsEnabled() bool {
	return enabled
}

// Current returns the currently active theme, or nil when theming is off.
func Current() *tint.Tint {
	if !enabled {
		return nil
	}
	return tint.Current()
}

// Names lists every registered theme id, including custom ones.
func Names() []string {
	if !enabled {
		tint.NewDefaultRegistry()
		if dir, err := GetThemesDir(); err == nil {
			_, _ = LoadCustomThemes(dir)
		}
	}
	return tint.TintIDs()
}

// WindowColors is the palette frames cycle through.
func WindowColors() []color.Color {
	t := Current()
	if t == nil {
		return []color.Color{
			lipgloss.Color("4"), lipgloss.Color("5"), lipgloss.Color("6"),
			lipgloss.Color("2"), lipgloss.Color("3"), lipgloss.Color("1"),
		}
	}
	return []color.Color{t.Blue, t.Purple, t.Cyan, t.Green, t.Yellow, t.Red}
}

// WindowColor returns the palette entry for the i-th window.
func WindowColor(i int) color.Color {
	colors := WindowColors()
	if i < 0 {
		i = -i
	}
	return colors[i%len(colors)]
}

// BorderFocused returns the border color of the focused frame.
func BorderFocused() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#AFFFFF")
	}
	return t.BrightCyan
}

// BorderUnfocused returns the border color of the other frames.
func BorderUnfocused() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("8")
	}
	return t.BrightBlack
}

// LabelFg returns the color of window titles.
func LabelFg() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("15")
	}
	return t.Fg
}

// StatusBg returns the background of the playground status line.
func StatusBg() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("0")
	}
	return t.Bg
}

// StatusFg returns the text color of the playground status line.
func StatusFg() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("7")
	}
	return t.White
}

// StatusAccent highlights the strategy name in the status line.
func StatusAccent() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("13")
	}
	return t.BrightPurple
}

// ErrorFg colors error notices.
func ErrorFg() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("9")
	}
	return t.BrightRed
}

// CLITableHeader returns the color for CLI table headers.
func CLITableHeader() color.Color {
	return lipgloss.Color("12")
}

// CLITableBorder returns the color for CLI table borders.
func CLITableBorder() color.Color {
	return lipgloss.Color("14")
}

// CLITableKey returns the color for CLI table keys.
func CLITableKey() color.Color {
	return lipgloss.Color("11")
}

// CLITableDim returns the dimmed color for CLI table elements.
func CLITableDim() color.Color {
	return lipgloss.Color("8")
}

// ColorToString converts a color.Color to a hex string
func ColorToString(c color.Color) string {
	if c == nil {
		return "#000000"
	}
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", uint8(r>>8), uint8(g>>8), uint8(b>>8))
}
