// Package tilecols provides column tiling layout strategies for window
// managers, and a playground model that can be embedded in other Bubble Tea
// applications.
//
// # Layouts
//
// A strategy turns the visible windows, the usable screen and a small State
// into one frame per window. The host keeps the State and feeds every change
// back through Update:
//
//	s, _ := tilecols.Lookup("centered-primary-columns")
//	state := s.InitialState()
//	state = s.Update(tilecols.WindowsChanged{Windows: windows}, state)
//	state = s.Update(tilecols.CommandIssued{Command: tilecols.CommandExpandMain}, state)
//	for id, r := range s.Frames(windows, screen, state) {
//		move(id, r)
//	}
//
// # Playground
//
// New returns a tea.Model that simulates windows on the terminal:
//
//	model, err := tilecols.New(ctx, tilecols.WithStrategy("centered-twin-columns"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	p := tea.NewProgram(model, tilecols.ProgramOptions()...)
package tilecols

import (
	"context"

	tea "charm.land/bubbletea/v2"
	"github.com/Gaurav-Gosain/tilecols/internal/config"
	"github.com/Gaurav-Gosain/tilecols/internal/host"
	"github.com/Gaurav-Gosain/tilecols/internal/layout"
	"github.com/Gaurav-Gosain/tilecols/internal/store"
	"github.com/Gaurav-Gosain/tilecols/internal/theme"
	"github.com/Gaurav-Gosain/tilecols/internal/tui"
	"github.com/charmbracelet/log"
)

// Layout types.
type (
	WindowID       = layout.WindowID
	Window         = layout.Window
	Rect           = layout.Rect
	Frames         = layout.Frames
	Bounds         = layout.Bounds
	State          = layout.State
	Strategy       = layout.Strategy
	Command        = layout.Command
	Info           = layout.Info
	Change         = layout.Change
	WindowsChanged = layout.WindowsChanged
	CommandIssued  = layout.CommandIssued
	ResizedMain    = layout.ResizedMain
	HardReset      = layout.HardReset
)

// Built-in strategies.
type (
	UniformColumns         = layout.UniformColumns
	CenteredPrimaryColumns = layout.CenteredPrimaryColumns
	CenteredMainPane       = layout.CenteredMainPane
	CenteredTwinColumns    = layout.CenteredTwinColumns
)

// Command names.
const (
	CommandExpandMain        = layout.CommandExpandMain
	CommandShrinkMain        = layout.CommandShrinkMain
	CommandIncreaseMain      = layout.CommandIncreaseMain
	CommandDecreaseMain      = layout.CommandDecreaseMain
	CommandIncreaseMainCount = layout.CommandIncreaseMainCount
	CommandDecreaseMainCount = layout.CommandDecreaseMainCount
)

// ErrUnknownStrategy is returned by Lookup.
var ErrUnknownStrategy = layout.ErrUnknownStrategy

// Registry and order helpers.
var (
	Register     = layout.Register
	Lookup       = layout.Lookup
	Names        = layout.Names
	All          = layout.All
	Describe     = layout.Describe
	RunCommand   = layout.RunCommand
	Stabilize    = layout.Stabilize
	Reconcile    = layout.Reconcile
	IDs          = layout.IDs
	DecodeChange = layout.DecodeChange
	EncodeChange = layout.EncodeChange
)

// Model is the playground model. It implements tea.Model.
type Model = tui.Model

// Store persists strategy state per session and strategy.
type Store = store.Store

// Options configures the playground.
type Options struct {
	// Strategy is the strategy to start with. Default is the config's
	// layout.default_strategy.
	Strategy string

	// Session names the state kept in Store.
	Session string

	// Store persists strategy state. Default is an in-memory store.
	Store Store

	// Theme is the color theme name (e.g., "dracula", "nord").
	// Leave empty to use standard terminal colors.
	Theme string

	// ASCIIOnly draws frames with ASCII characters only.
	ASCIIOnly bool

	// BorderStyle sets the frame border style.
	// Valid values: "rounded", "normal", "thick", "double", "hidden", "block", "ascii"
	BorderStyle string

	// Width and Height are the initial terminal size. The model also
	// follows tea.WindowSizeMsg.
	Width, Height int

	// Logger receives session events. Default discards them.
	Logger *log.Logger

	// UserConfig is a custom user configuration. If nil, the user's config
	// file is loaded.
	UserConfig *config.UserConfig
}

// Option is a functional option for configuring the playground.
type Option func(*Options)

// WithStrategy sets the starting strategy.
func WithStrategy(name string) Option {
	return func(o *Options) {
		o.Strategy = name
	}
}

// WithSession sets the session name.
func WithSession(name string) Option {
	return func(o *Options) {
		o.Session = name
	}
}

// WithStore sets the state store.
func WithStore(s Store) Option {
	return func(o *Options) {
		o.Store = s
	}
}

// WithTheme sets the color theme.
func WithTheme(name string) Option {
	return func(o *Options) {
		o.Theme = name
	}
}

// WithASCIIOnly enables ASCII-only frames.
func WithASCIIOnly(enabled bool) Option {
	return func(o *Options) {
		o.ASCIIOnly = enabled
	}
}

// WithBorderStyle sets the frame border style.
func WithBorderStyle(style string) Option {
	return func(o *Options) {
		o.BorderStyle = style
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(o *Options) {
		o.Width = width
		o.Height = height
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithUserConfig sets a custom user configuration.
func WithUserConfig(cfg *config.UserConfig) Option {
	return func(o *Options) {
		o.UserConfig = cfg
	}
}

// PTY is anything that knows its size, such as an SSH or web terminal
// session.
type PTY interface {
	Width() int
	Height() int
}

// New creates a playground model with the given options.
func New(ctx context.Context, opts ...Option) (*Model, error) {
	var options Options
	for _, opt := range opts {
		opt(&options)
	}
	return newModel(ctx, options)
}

// NewForPTY creates a playground model sized to pty.
func NewForPTY(ctx context.Context, pty PTY, opts ...Option) (*Model, error) {
	var options Options
	for _, opt := range opts {
		opt(&options)
	}
	options.Width = pty.Width()
	options.Height = pty.Height()
	return newModel(ctx, options)
}

func newModel(ctx context.Context, options Options) (*Model, error) {
	userConfig := options.UserConfig
	if userConfig == nil {
		var err error
		if userConfig, err = config.LoadUserConfig(); err != nil {
			userConfig = config.DefaultConfig()
		}
	}

	if options.ASCIIOnly {
		config.UseASCIIOnly = true
	}
	if options.BorderStyle != "" {
		config.BorderStyle = options.BorderStyle
	}
	if options.Theme != "" {
		_ = theme.Initialize(options.Theme)
	}

	if options.Strategy == "" {
		options.Strategy = userConfig.Layout.DefaultStrategy
	}
	if options.Session == "" {
		options.Session = userConfig.Layout.Session
	}
	if options.Store == nil {
		options.Store = store.NewMemoryStore()
	}

	session, err := host.NewSession(ctx, host.Options{
		Name:     options.Session,
		Strategy: options.Strategy,
		// The bottom row is the status line.
		Screen: Rect{Width: float64(options.Width), Height: float64(max(options.Height-1, 0))},
		Store:  options.Store,
		Logger: options.Logger,
	})
	if err != nil {
		return nil, err
	}
	return tui.New(ctx, session, config.NewKeybindRegistry(userConfig), options.Logger), nil
}

// ProgramOptions returns recommended tea.ProgramOption values for running
// the playground.
func ProgramOptions() []tea.ProgramOption {
	return []tea.ProgramOption{
		tea.WithFPS(config.NormalFPS),
	}
}

// Config re-exports the config package for customization.
// This allows users to access configuration types without importing internal packages.
var Config = struct {
	// LoadUserConfig loads the user's configuration file.
	LoadUserConfig func() (*config.UserConfig, error)
	// DefaultConfig returns the default configuration.
	DefaultConfig func() *config.UserConfig
	// GetConfigPath returns the path to the configuration file.
	GetConfigPath func() (string, error)
}{
	LoadUserConfig: config.LoadUserConfig,
	DefaultConfig:  config.DefaultConfig,
	GetConfigPath:  config.GetConfigPath,
}
