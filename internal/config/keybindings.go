package config

import (
	"sort"
	"strings"
)

// Keybinding represents a single keybinding entry
type Keybinding struct {
	Key         string
	Description string
}

// KeybindingSection represents a section of related keybindings
type KeybindingSection struct {
	Title    string
	Bindings []Keybinding
}

// KeybindRegistry resolves pressed keys to actions.
type KeybindRegistry struct {
	byKey    map[string]string
	byAction map[string][]string
}

// NewKeybindRegistry builds a registry from cfg. A nil cfg uses defaults.
// When two actions claim a key the alphabetically first action keeps it,
// matching what ValidateConfig warns about.
func NewKeybindRegistry(cfg *UserConfig) *KeybindRegistry {
	binds := getDefaultLayoutKeybinds()
	if cfg != nil && cfg.Keybindings.Layout != nil {
		binds = cfg.Keybindings.Layout
	}

	known := getDefaultLayoutKeybinds()
	actions := make([]string, 0, len(binds))
	for action := range binds {
		if _, ok := known[action]; ok {
			actions = append(actions, action)
		}
	}
	sort.Strings(actions)

	r := &KeybindRegistry{
		byKey:    make(map[string]string),
		byAction: make(map[string][]string),
	}
	for _, action := range actions {
		for _, key := range binds[action] {
			if key == "" {
				continue
			}
			if _, taken := r.byKey[key]; taken {
				continue
			}
			r.byKey[key] = action
			r.byAction[action] = append(r.byAction[action], key)
		}
	}
	return r
}

// GetAction returns the action bound to key, or "".
func (r *KeybindRegistry) GetAction(key string) string {
	return r.byKey[key]
}

// GetKeys returns the keys bound to action.
func (r *KeybindRegistry) GetKeys(action string) []string {
	return r.byAction[action]
}

// GetKeysForDisplay returns the keys of action formatted for help screens.
func (r *KeybindRegistry) GetKeysForDisplay(action string) string {
	keys := r.byAction[action]
	pretty := make([]string, len(keys))
	for i, k := range keys {
		pretty[i] = displayKey(k)
	}
	return strings.Join(pretty, ", ")
}

func displayKey(key string) string {
	parts := strings.Split(key, "+")
	for i, p := range parts {
		if len(p) > 1 {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, "+")
}

// GetKeybindings returns all keybinding sections for the help menu
func GetKeybindings(registry *KeybindRegistry) []KeybindingSection {
	if registry == nil {
		registry = NewKeybindRegistry(nil)
	}

	groups := []struct {
		title   string
		actions [][2]string
	}{
		{"LAYOUT", [][2]string{
			{ActionExpandMain, "Expand main area"},
			{ActionShrinkMain, "Shrink main area"},
			{ActionIncreaseMainCount, "More windows in the main pane"},
			{ActionDecreaseMainCount, "Fewer windows in the main pane"},
			{ActionHardReset, "Reset strategy state"},
		}},
		{"WINDOWS", [][2]string{
			{ActionNewWindow, "New window"},
			{ActionCloseWindow, "Close focused window"},
			{ActionFocusNext, "Focus next window"},
			{ActionFocusPrev, "Focus previous window"},
			{ActionSwapNext, "Swap with next window"},
			{ActionSwapPrev, "Swap with previous window"},
		}},
		{"STRATEGY", [][2]string{
			{ActionNextStrategy, "Next strategy"},
			{ActionPrevStrategy, "Previous strategy"},
		}},
		{"", [][2]string{
			{ActionToggleHelp, "Toggle help"},
			{ActionQuit, "Quit"},
		}},
	}

	var sections []KeybindingSection
	for _, g := range groups {
		section := KeybindingSection{Title: g.title}
		for _, a := range g.actions {
			addBinding(&section, registry, a[0], a[1])
		}
		if len(section.Bindings) > 0 {
			sections = append(sections, section)
		}
	}
	return sections
}

// addBinding adds a keybinding to a section if the action has keys configured
func addBinding(section *KeybindingSection, registry *KeybindRegistry, action, description string) {
	keys := registry.GetKeysForDisplay(action)
	if keys != "" {
		section.Bindings = append(section.Bindings, Keybinding{
			Key:         keys,
			Description: description,
		})
	}
}
