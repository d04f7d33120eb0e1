package config

import (
	"github.com/Gaurav-Gosain/tilecols/internal/theme"
	"github.com/charmbracelet/log"
)

// Overrides contains CLI flag values that can override user config.
// Zero values indicate the flag was not set and should use the user config default.
type Overrides struct {
	// ASCIIOnly draws previews with ASCII characters
	ASCIIOnly bool

	// BorderStyle overrides the frame border style
	BorderStyle string

	// HideLabels hides window titles inside frames
	HideLabels bool

	// ThemeName is the theme to load
	ThemeName string

	// Strategy overrides layout.default_strategy
	Strategy string

	// Session overrides layout.session
	Session string

	// StoreBackend overrides store.backend
	StoreBackend string

	// LogLevel overrides log.level
	LogLevel string
}

// ApplyOverrides applies CLI flag overrides to global config, falling back to user config defaults.
// If userConfig is nil, only CLI flag values (when set) are applied.
func ApplyOverrides(overrides Overrides, userConfig *UserConfig) {
	UseASCIIOnly = overrides.ASCIIOnly || (userConfig != nil && userConfig.Appearance.ASCIIOnly)

	if overrides.BorderStyle != "" {
		BorderStyle = overrides.BorderStyle
	} else if userConfig != nil && userConfig.Appearance.BorderStyle != "" {
		BorderStyle = userConfig.Appearance.BorderStyle
	}

	ShowLabels = !overrides.HideLabels && (userConfig == nil || userConfig.ShowLabels())

	if userConfig != nil {
		if overrides.Strategy != "" {
			userConfig.Layout.DefaultStrategy = overrides.Strategy
		}
		if overrides.Session != "" {
			userConfig.Layout.Session = overrides.Session
		}
		if overrides.StoreBackend != "" {
			userConfig.Store.Backend = overrides.StoreBackend
		}
		if overrides.LogLevel != "" {
			userConfig.Log.Level = overrides.LogLevel
		}
	}

	themeName := overrides.ThemeName
	if themeName == "" && userConfig != nil {
		themeName = userConfig.Appearance.Theme
	}
	if err := theme.Initialize(themeName); err != nil {
		log.Warn("failed to load theme", "theme", themeName, "err", err)
	}
}
