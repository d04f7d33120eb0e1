// Package config provides configuration constants, keybinding management, and user settings.
package config

import (
	"charm.land/lipgloss/v2"
)

// =============================================================================
// Defaults
// =============================================================================

const (
	// DefaultStrategy is the strategy the playground starts with.
	DefaultStrategy = "centered-primary-columns"

	// DefaultSession is the state store key used when none is configured.
	DefaultSession = "default"

	// DefaultScreenWidth is the simulated screen width for CLI output.
	DefaultScreenWidth = 120

	// DefaultScreenHeight is the simulated screen height for CLI output.
	DefaultScreenHeight = 30

	// MinScreenWidth and MinScreenHeight bound the configured screen.
	MinScreenWidth  = 10
	MinScreenHeight = 3

	// NormalFPS caps the playground's redraw rate.
	NormalFPS = 30
)

// =============================================================================
// Layout actions
// =============================================================================

// Action names used as keys of [keybindings.layout].
const (
	ActionExpandMain        = "expand_main"
	ActionShrinkMain        = "shrink_main"
	ActionIncreaseMainCount = "increase_main_count"
	ActionDecreaseMainCount = "decrease_main_count"
	ActionNewWindow         = "new_window"
	ActionCloseWindow       = "close_window"
	ActionFocusNext         = "focus_next"
	ActionFocusPrev         = "focus_prev"
	ActionSwapNext          = "swap_next"
	ActionSwapPrev          = "swap_prev"
	ActionNextStrategy      = "next_strategy"
	ActionPrevStrategy      = "prev_strategy"
	ActionHardReset         = "hard_reset"
	ActionToggleHelp        = "toggle_help"
	ActionQuit              = "quit"
)

// =============================================================================
// Runtime Configuration
// =============================================================================

// UseASCIIOnly draws previews with ASCII borders and separators.
// Set via --ascii-only flag or appearance.ascii_only config
var UseASCIIOnly = false

// BorderStyle controls which border style to use for frames
// Set via --border-style flag or appearance.border_style config
var BorderStyle = "rounded"

// ShowLabels controls whether window titles are printed inside frames
var ShowLabels = true

// BorderStyles lists the accepted values of appearance.border_style.
var BorderStyles = []string{"rounded", "normal", "thick", "double", "hidden", "block", "ascii"}

// GetBorderForStyle returns the lipgloss Border for the current style
func GetBorderForStyle() lipgloss.Border {
	return BorderFor(BorderStyle, UseASCIIOnly)
}

// BorderFor maps a border style name to a lipgloss Border.
func BorderFor(style string, asciiOnly bool) lipgloss.Border {
	if asciiOnly || style == "ascii" {
		return lipgloss.ASCIIBorder()
	}
	switch style {
	case "normal":
		return lipgloss.NormalBorder()
	case "thick":
		return lipgloss.ThickBorder()
	case "double":
		return lipgloss.DoubleBorder()
	case "hidden":
		return lipgloss.HiddenBorder()
	case "block":
		return lipgloss.BlockBorder()
	default:
		return lipgloss.RoundedBorder()
	}
}

// Separator returns the status line separator.
func Separator() string {
	if UseASCIIOnly {
		return " | "
	}
	return " │ "
}

// FocusMarker is drawn before the focused window's label.
func FocusMarker() string {
	if UseASCIIOnly {
		return "*"
	}
	return "●"
}
