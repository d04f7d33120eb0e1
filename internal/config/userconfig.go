package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
)

// configFile is the config path relative to the XDG config home.
const configFile = "tilecols/config.toml"

// UserConfig represents the user's custom configuration
type UserConfig struct {
	Layout      LayoutConfig      `toml:"layout"`
	Appearance  AppearanceConfig  `toml:"appearance"`
	Keybindings KeybindingsConfig `toml:"keybindings"`
	Store       StoreConfig       `toml:"store"`
	Server      ServerConfig      `toml:"server"`
	Log         LogConfig         `toml:"log"`

	warnings []ValidationIssue
}

// LayoutConfig holds the playground's starting point.
type LayoutConfig struct {
	DefaultStrategy string `toml:"default_strategy"` // Strategy name, see `tilecols strategies`
	ScreenWidth     int    `toml:"screen_width"`     // Simulated screen width for CLI commands (cells)
	ScreenHeight    int    `toml:"screen_height"`    // Simulated screen height for CLI commands (cells)
	Session         string `toml:"session"`          // Session name used as the state store key
}

// AppearanceConfig holds appearance-related settings
type AppearanceConfig struct {
	BorderStyle string `toml:"border_style"` // rounded, normal, thick, double, hidden, block, ascii
	Theme       string `toml:"theme"`        // Color theme name (e.g., dracula, nord, my-custom-theme)
	ASCIIOnly   bool   `toml:"ascii_only"`   // Draw previews with ASCII characters only
	ShowLabels  *bool  `toml:"show_labels"`  // Print window titles inside frames (default: true)
}

// KeybindingsConfig maps actions to keys. Only the layout group exists today;
// the table shape matches what `tilecols keybinds list` prints.
type KeybindingsConfig struct {
	Layout map[string][]string `toml:"layout"`
}

// StoreConfig selects where strategy state is persisted.
type StoreConfig struct {
	Backend     string `toml:"backend"`      // file, redis, sqlite or memory
	Path        string `toml:"path"`         // Directory (file) or database path (sqlite); empty uses the XDG state dir
	RedisAddr   string `toml:"redis_addr"`   // host:port of the redis server
	RedisDB     int    `toml:"redis_db"`     // redis logical database
	RedisPrefix string `toml:"redis_prefix"` // key prefix for redis entries
}

// ServerConfig holds listen addresses for `tilecols serve` and `tilecols ssh`.
type ServerConfig struct {
	HTTPAddr   string `toml:"http_addr"`
	SSHHost    string `toml:"ssh_host"`
	SSHPort    string `toml:"ssh_port"`
	SSHKeyPath string `toml:"ssh_key_path"`
}

// LogConfig controls the charmbracelet/log logger.
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the default configuration
func DefaultConfig() *UserConfig {
	showLabels := true
	return &UserConfig{
		Layout: LayoutConfig{
			DefaultStrategy: DefaultStrategy,
			ScreenWidth:     DefaultScreenWidth,
			ScreenHeight:    DefaultScreenHeight,
			Session:         DefaultSession,
		},
		Appearance: AppearanceConfig{
			BorderStyle: "rounded",
			ShowLabels:  &showLabels,
		},
		Keybindings: KeybindingsConfig{
			Layout: getDefaultLayoutKeybinds(),
		},
		Store: StoreConfig{
			Backend:     "file",
			RedisAddr:   "localhost:6379",
			RedisPrefix: "tilecols:state:",
		},
		Server: ServerConfig{
			HTTPAddr: ":8080",
			SSHHost:  "localhost",
			SSHPort:  "2222",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// getDefaultLayoutKeybinds returns the playground keybindings.
func getDefaultLayoutKeybinds() map[string][]string {
	return map[string][]string{
		ActionExpandMain:        {">", "l"},
		ActionShrinkMain:        {"<", "h"},
		ActionIncreaseMainCount: {"+", "="},
		ActionDecreaseMainCount: {"-", "_"},
		ActionNewWindow:         {"n", "enter"},
		ActionCloseWindow:       {"x", "w"},
		ActionFocusNext:         {"tab", "j"},
		ActionFocusPrev:         {"shift+tab", "k"},
		ActionSwapNext:          {"J", "ctrl+right"},
		ActionSwapPrev:          {"K", "ctrl+left"},
		ActionNextStrategy:      {"]", "s"},
		ActionPrevStrategy:      {"[", "S"},
		ActionHardReset:         {"r"},
		ActionToggleHelp:        {"?"},
		ActionQuit:              {"q", "ctrl+c"},
	}
}

// LoadUserConfig loads the user configuration from XDG config directory
func LoadUserConfig() (*UserConfig, error) {
	configPath, err := xdg.SearchConfigFile(configFile)
	if err != nil {
		return createDefaultConfig()
	}
	return LoadConfigFile(configPath)
}

// LoadConfigFile reads, completes and validates the config at path.
func LoadConfigFile(path string) (*UserConfig, error) {
	// #nosec G304 - path is the user's own config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg UserConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	defaultCfg := DefaultConfig()
	fillMissingLayout(&cfg, defaultCfg)
	fillMissingAppearance(&cfg, defaultCfg)
	fillMissingStore(&cfg, defaultCfg)
	fillMissingServer(&cfg, defaultCfg)
	fillMissingKeybinds(&cfg, defaultCfg)

	validation := ValidateConfig(&cfg)
	if validation.HasErrors() {
		return nil, validation.Err()
	}
	cfg.warnings = validation.Warnings

	return &cfg, nil
}

// Warnings returns the non-fatal validation findings from loading.
func (c *UserConfig) Warnings() []ValidationIssue {
	return c.warnings
}

// createDefaultConfig creates a default config file in the user's config directory
func createDefaultConfig() (*UserConfig, error) {
	cfg := DefaultConfig()
	if err := WriteDefaultConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WriteDefaultConfig writes the commented default configuration, replacing
// any existing file.
func WriteDefaultConfig() error {
	configPath, err := xdg.ConfigFile(configFile)
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("# tilecols configuration\n")
	sb.WriteString("#\n")
	sb.WriteString("# Location: " + configPath + "\n")
	sb.WriteString("# Keybindings: tilecols keybinds list\n")
	sb.WriteString("# Strategies:  tilecols strategies\n\n")

	sb.WriteString("# [layout]\n")
	sb.WriteString("#   default_strategy: uniform-columns, centered-primary-columns,\n")
	sb.WriteString("#                     centered-main-pane, centered-twin-columns\n")
	sb.WriteString("#   screen_width / screen_height: simulated screen for CLI output\n")
	sb.WriteString("#\n")
	sb.WriteString("# [appearance]\n")
	sb.WriteString("#   border_style: rounded, normal, thick, double, hidden, block, ascii\n")
	sb.WriteString("#   theme: bubbletint theme id; empty keeps terminal colors.\n")
	sb.WriteString("#          Custom themes: ~/.config/tilecols/themes/*.json\n")
	sb.WriteString("#\n")
	sb.WriteString("# [store]\n")
	sb.WriteString("#   backend: file (default), redis, sqlite, memory\n")
	sb.WriteString("#\n")
	sb.WriteString("# [log]\n")
	sb.WriteString("#   level: debug, info, warn, error\n\n")

	sb.Write(data)

	if err := os.WriteFile(configPath, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func fillMissingLayout(cfg, defaultCfg *UserConfig) {
	if cfg.Layout.DefaultStrategy == "" {
		cfg.Layout.DefaultStrategy = defaultCfg.Layout.DefaultStrategy
	}
	if cfg.Layout.ScreenWidth <= 0 {
		cfg.Layout.ScreenWidth = defaultCfg.Layout.ScreenWidth
	}
	if cfg.Layout.ScreenHeight <= 0 {
		cfg.Layout.ScreenHeight = defaultCfg.Layout.ScreenHeight
	}
	if cfg.Layout.Session == "" {
		cfg.Layout.Session = defaultCfg.Layout.Session
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaultCfg.Log.Level
	}
}

// fillMissingAppearance fills in any missing appearance settings with defaults
func fillMissingAppearance(cfg, defaultCfg *UserConfig) {
	if cfg.Appearance.BorderStyle == "" {
		cfg.Appearance.BorderStyle = defaultCfg.Appearance.BorderStyle
	}
	// nil means the key was absent; false is an explicit choice
	if cfg.Appearance.ShowLabels == nil {
		cfg.Appearance.ShowLabels = defaultCfg.Appearance.ShowLabels
	}
}

func fillMissingStore(cfg, defaultCfg *UserConfig) {
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = defaultCfg.Store.Backend
	}
	if cfg.Store.RedisAddr == "" {
		cfg.Store.RedisAddr = defaultCfg.Store.RedisAddr
	}
	if cfg.Store.RedisPrefix == "" {
		cfg.Store.RedisPrefix = defaultCfg.Store.RedisPrefix
	}
}

func fillMissingServer(cfg, defaultCfg *UserConfig) {
	if cfg.Server.HTTPAddr == "" {
		cfg.Server.HTTPAddr = defaultCfg.Server.HTTPAddr
	}
	if cfg.Server.SSHHost == "" {
		cfg.Server.SSHHost = defaultCfg.Server.SSHHost
	}
	if cfg.Server.SSHPort == "" {
		cfg.Server.SSHPort = defaultCfg.Server.SSHPort
	}
}

// fillMissingKeybinds fills in any missing keybindings with defaults
func fillMissingKeybinds(cfg, defaultCfg *UserConfig) {
	if cfg.Keybindings.Layout == nil {
		cfg.Keybindings.Layout = make(map[string][]string)
	}
	fillMapDefaults(cfg.Keybindings.Layout, defaultCfg.Keybindings.Layout)
}

func fillMapDefaults(target, defaults map[string][]string) {
	for k, v := range defaults {
		if _, exists := target[k]; !exists {
			target[k] = v
		}
	}
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	path, err := xdg.SearchConfigFile(configFile)
	if err != nil {
		// Return where it would be created
		return xdg.ConfigFile(configFile)
	}
	return path, nil
}

// StateDir returns the directory the file store writes to when
// [store] path is empty.
func StateDir() (string, error) {
	keep, err := xdg.StateFile("tilecols/state/.keep")
	if err != nil {
		return "", fmt.Errorf("failed to get state directory: %w", err)
	}
	return filepath.Dir(keep), nil
}

// ShowLabels reports the effective show_labels setting.
func (c *UserConfig) ShowLabels() bool {
	return c.Appearance.ShowLabels == nil || *c.Appearance.ShowLabels
}
