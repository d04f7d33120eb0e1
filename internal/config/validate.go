package config

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strconv"

	"github.com/Gaurav-Gosain/tilecols/internal/layout"
	"github.com/charmbracelet/log"
)

// ValidationIssue is a single problem found in the config file.
type ValidationIssue struct {
	Field   string // config section, e.g. "layout"
	Key     string
	Message string
}

func (i ValidationIssue) String() string {
	return fmt.Sprintf("[%s] %s: %s", i.Field, i.Key, i.Message)
}

// ValidationResult collects fatal errors and non-fatal warnings.
type ValidationResult struct {
	Errors   []ValidationIssue
	Warnings []ValidationIssue
}

// HasErrors reports whether any fatal issue was found.
func (r *ValidationResult) HasErrors() bool { return len(r.Errors) > 0 }

// HasWarnings reports whether any warning was found.
func (r *ValidationResult) HasWarnings() bool { return len(r.Warnings) > 0 }

// Err joins all errors into one, or returns nil.
func (r *ValidationResult) Err() error {
	if !r.HasErrors() {
		return nil
	}
	errs := make([]error, len(r.Errors))
	for i, issue := range r.Errors {
		errs[i] = errors.New(issue.String())
	}
	return fmt.Errorf("configuration has %d error(s): %w", len(r.Errors), errors.Join(errs...))
}

func (r *ValidationResult) addError(field, key, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationIssue{field, key, fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) addWarning(field, key, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationIssue{field, key, fmt.Sprintf(format, args...)})
}

var storeBackends = []string{"file", "redis", "sqlite", "memory"}

// ValidateConfig checks cfg. Recoverable problems are fixed in place and
// reported as warnings.
func ValidateConfig(cfg *UserConfig) *ValidationResult {
	r := &ValidationResult{}

	if _, err := layout.Lookup(cfg.Layout.DefaultStrategy); err != nil {
		r.addError("layout", "default_strategy", "%q is not a strategy (have %v)", cfg.Layout.DefaultStrategy, layout.Names())
	}
	if cfg.Layout.ScreenWidth < MinScreenWidth {
		r.addError("layout", "screen_width", "must be at least %d", MinScreenWidth)
	}
	if cfg.Layout.ScreenHeight < MinScreenHeight {
		r.addError("layout", "screen_height", "must be at least %d", MinScreenHeight)
	}

	if !slices.Contains(BorderStyles, cfg.Appearance.BorderStyle) {
		r.addWarning("appearance", "border_style", "unknown style %q, using rounded", cfg.Appearance.BorderStyle)
		cfg.Appearance.BorderStyle = "rounded"
	}

	if !slices.Contains(storeBackends, cfg.Store.Backend) {
		r.addError("store", "backend", "%q is not one of %v", cfg.Store.Backend, storeBackends)
	}
	if cfg.Store.RedisDB < 0 {
		r.addError("store", "redis_db", "must not be negative")
	}

	if cfg.Server.SSHPort != "" {
		if port, err := strconv.Atoi(cfg.Server.SSHPort); err != nil || port < 1 || port > 65535 {
			r.addError("server", "ssh_port", "%q is not a valid port", cfg.Server.SSHPort)
		}
	}

	if _, err := log.ParseLevel(cfg.Log.Level); err != nil {
		r.addError("log", "level", "%v", err)
	}

	validateKeybinds(r, cfg.Keybindings.Layout)
	return r
}

func validateKeybinds(r *ValidationResult, binds map[string][]string) {
	known := getDefaultLayoutKeybinds()
	actions := make([]string, 0, len(binds))
	for action := range binds {
		actions = append(actions, action)
	}
	sort.Strings(actions)

	owner := map[string]string{}
	for _, action := range actions {
		if _, ok := known[action]; !ok {
			r.addWarning("keybindings.layout", action, "unknown action, ignored")
			continue
		}
		for _, key := range binds[action] {
			if key == "" {
				r.addWarning("keybindings.layout", action, "empty key")
				continue
			}
			if prev, taken := owner[key]; taken {
				r.addWarning("keybindings.layout", action, "key %q is already bound to %s", key, prev)
				continue
			}
			owner[key] = action
		}
	}
}
