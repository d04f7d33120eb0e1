package layout

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownStrategy is returned by Lookup for names that are not registered.
var ErrUnknownStrategy = errors.New("unknown layout strategy")

// State is the persisted state of a strategy. Every strategy fills the
// fields it uses in InitialState; fields it does not use stay zero and pass
// through Update unchanged.
type State struct {
	WindowOrder   []WindowID `json:"window_order" toml:"window_order" yaml:"window_order"`
	MainRatio     float64    `json:"main_ratio,omitempty" toml:"main_ratio,omitempty" yaml:"main_ratio,omitempty"`
	MainPaneCount int        `json:"main_pane_count,omitempty" toml:"main_pane_count,omitempty" yaml:"main_pane_count,omitempty"`
	MainPaneRatio float64    `json:"main_pane_ratio,omitempty" toml:"main_pane_ratio,omitempty" yaml:"main_pane_ratio,omitempty"`
}

// Clone returns a copy of s that shares no memory with it.
func (s State) Clone() State {
	s.WindowOrder = cloneIDs(s.WindowOrder)
	return s
}

// Command is an entry of a strategy's command table, meant for keybindings
// and menus.
type Command struct {
	Name        string
	Description string
	UpdateState func(State) State
}

// Strategy is a tiling layout.
type Strategy interface {
	// Name is the registry key, e.g. "centered-twin-columns".
	Name() string
	// Title is the human readable name.
	Title() string
	// InitialState is the state at activation and after a hard reset.
	InitialState() State
	// Frames computes a rectangle for every window that fits on screen.
	Frames(windows []Window, screen Rect, state State) Frames
	// Update returns the state that follows change.
	Update(change Change, state State) State
	// Commands lists the commands the strategy understands.
	Commands() []Command
}

var registry = map[string]Strategy{}

// Register adds s to the registry, replacing any strategy with the same name.
func Register(s Strategy) {
	registry[s.Name()] = s
}

// Lookup returns the registered strategy called name.
func Lookup(name string) (Strategy, error) {
	s, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
	return s, nil
}

// Names returns the registered strategy names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns the registered strategies sorted by name.
func All() []Strategy {
	names := Names()
	all := make([]Strategy, len(names))
	for i, name := range names {
		all[i] = registry[name]
	}
	return all
}

// RunCommand applies the command called name from s's table. It reports
// false and returns state unchanged when s has no such command.
func RunCommand(s Strategy, name string, state State) (State, bool) {
	for _, cmd := range s.Commands() {
		if cmd.Name == name {
			return cmd.UpdateState(state.Clone()), true
		}
	}
	return state, false
}

// CommandInfo is the serializable part of a Command.
type CommandInfo struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// Info describes a strategy for listings and APIs. RatioBounds is set for
// strategies with a ratio knob.
type Info struct {
	Name         string        `json:"name" yaml:"name"`
	Title        string        `json:"title" yaml:"title"`
	InitialState State         `json:"initial_state" yaml:"initial_state"`
	Commands     []CommandInfo `json:"commands" yaml:"commands"`
	RatioBounds  *Bounds       `json:"ratio_bounds,omitempty" yaml:"ratio_bounds,omitempty"`
}

// Describe returns the Info of s.
func Describe(s Strategy) Info {
	info := Info{
		Name:         s.Name(),
		Title:        s.Title(),
		InitialState: s.InitialState(),
		Commands:     []CommandInfo{},
	}
	for _, c := range s.Commands() {
		info.Commands = append(info.Commands, CommandInfo{Name: c.Name, Description: c.Description})
	}
	if rb, ok := s.(interface{ RatioBounds() Bounds }); ok {
		b := rb.RatioBounds()
		info.RatioBounds = &b
	}
	return info
}

func init() {
	Register(UniformColumns{})
	Register(CenteredPrimaryColumns{})
	Register(CenteredMainPane{})
	Register(CenteredTwinColumns{})
}
