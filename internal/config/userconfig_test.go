package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/adrg/xdg"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	r := ValidateConfig(DefaultConfig())
	if r.HasErrors() {
		t.Errorf("default config has errors: %v", r.Errors)
	}
	if r.HasWarnings() {
		t.Errorf("default config has warnings: %v", r.Warnings)
	}
}

func TestLoadConfigFileFillsMissing(t *testing.T) {
	path := writeConfig(t, `
[layout]
default_strategy = "centered-twin-columns"

[appearance]
show_labels = false

[keybindings.layout]
quit = ["Q"]
`)

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile() error = %v", err)
	}

	if cfg.Layout.DefaultStrategy != "centered-twin-columns" {
		t.Errorf("DefaultStrategy = %q", cfg.Layout.DefaultStrategy)
	}
	if cfg.Layout.ScreenWidth != DefaultScreenWidth || cfg.Layout.ScreenHeight != DefaultScreenHeight {
		t.Errorf("screen = %dx%d, want defaults", cfg.Layout.ScreenWidth, cfg.Layout.ScreenHeight)
	}
	if cfg.Appearance.BorderStyle != "rounded" {
		t.Errorf("BorderStyle = %q, want rounded", cfg.Appearance.BorderStyle)
	}
	if cfg.ShowLabels() {
		t.Error("ShowLabels() = true, want explicit false to survive")
	}
	if got := cfg.Keybindings.Layout[ActionQuit]; !reflect.DeepEqual(got, []string{"Q"}) {
		t.Errorf("quit keys = %v, want [Q]", got)
	}
	if got := cfg.Keybindings.Layout[ActionExpandMain]; len(got) == 0 {
		t.Error("expand_main should be filled from defaults")
	}
	if cfg.Store.Backend != "file" || cfg.Log.Level != "info" {
		t.Errorf("store/log defaults not filled: %+v %+v", cfg.Store, cfg.Log)
	}
}

func TestLoadConfigFileErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown strategy", "[layout]\ndefault_strategy = \"spiral\"\n", "default_strategy"},
		{"bad backend", "[store]\nbackend = \"etcd\"\n", "backend"},
		{"bad log level", "[log]\nlevel = \"loud\"\n", "level"},
		{"bad ssh port", "[server]\nssh_port = \"http\"\n", "ssh_port"},
		{"tiny screen", "[layout]\nscreen_width = 4\n", "screen_width"},
		{"not toml", "[layout\n", "parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfigFile(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestValidateConfigWarnings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Appearance.BorderStyle = "wavy"
	cfg.Keybindings.Layout["teleport"] = []string{"t"}
	cfg.Keybindings.Layout[ActionQuit] = []string{"q", "n"}

	r := ValidateConfig(cfg)
	if r.HasErrors() {
		t.Fatalf("unexpected errors: %v", r.Errors)
	}
	if cfg.Appearance.BorderStyle != "rounded" {
		t.Errorf("BorderStyle = %q, want fallback to rounded", cfg.Appearance.BorderStyle)
	}

	var keys []string
	for _, w := range r.Warnings {
		keys = append(keys, w.Key)
	}
	want := []string{"border_style", "quit", "teleport"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("warning keys = %v, want %v", keys, want)
	}
}

func TestLoadUserConfigCreatesDefault(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_CONFIG_DIRS", dir)
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	cfg, err := LoadUserConfig()
	if err != nil {
		t.Fatalf("LoadUserConfig() error = %v", err)
	}
	if cfg.Layout.DefaultStrategy != DefaultStrategy {
		t.Errorf("DefaultStrategy = %q", cfg.Layout.DefaultStrategy)
	}

	path := filepath.Join(dir, "tilecols", "config.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("default config not written: %v", err)
	}
	if !strings.HasPrefix(string(data), "# tilecols configuration") {
		t.Error("default config is missing its header")
	}

	again, err := LoadUserConfig()
	if err != nil {
		t.Fatalf("reloading written config: %v", err)
	}
	if !reflect.DeepEqual(again.Keybindings, cfg.Keybindings) {
		t.Error("written config does not round-trip keybindings")
	}

	got, err := GetConfigPath()
	if err != nil || got != path {
		t.Errorf("GetConfigPath() = %q, %v; want %q", got, err, path)
	}
}
