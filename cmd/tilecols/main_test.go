package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Gaurav-Gosain/tilecols/internal/layout"
	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the XDG directories at a temp dir so commands never touch
// the user's config or state.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CONFIG_DIRS", filepath.Join(dir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	xdg.Reload()
	t.Cleanup(xdg.Reload)
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestComputeView(t *testing.T) {
	v, err := computeView(framesInput{
		Strategy: "centered-primary-columns",
		Screen:   "120x30",
		Windows:  []string{"a", "b", " c "},
		Commands: []string{layout.CommandExpandMain},
	})
	require.NoError(t, err)

	assert.Equal(t, layout.WindowID("a"), v.Focused)
	assert.InDelta(t, 0.45, v.State.MainRatio, 1e-9)
	assert.Equal(t, layout.Rect{X: 33, Y: 0, Width: 54, Height: 30}, v.Frames["b"])
	assert.Equal(t, layout.Rect{X: 0, Y: 0, Width: 33, Height: 30}, v.Frames["a"])
	assert.Equal(t, layout.Rect{X: 87, Y: 0, Width: 33, Height: 30}, v.Frames["c"])
}

func TestComputeViewState(t *testing.T) {
	v, err := computeView(framesInput{
		Strategy: "uniform-columns",
		Screen:   "0 0 99 10",
		Windows:  []string{"a", "b", "c"},
		State:    `{"window_order":["c","a","b"]}`,
	})
	require.NoError(t, err)
	// A rotation of the saved order is not a swap, so the saved order stays.
	assert.Equal(t, []layout.WindowID{"c", "a", "b"}, layout.IDs(v.Windows))
	assert.Equal(t, layout.Rect{X: 0, Y: 0, Width: 33, Height: 10}, v.Frames["c"])

	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"window_order":[],"main_pane_count":2,"main_pane_ratio":0.6}`), 0o600))
	v, err = computeView(framesInput{Strategy: "centered-main-pane", Screen: "100x10", State: "@" + path})
	require.NoError(t, err)
	assert.Equal(t, 2, v.State.MainPaneCount)
	assert.Empty(t, v.Frames)
}

func TestComputeViewErrors(t *testing.T) {
	tests := []struct {
		name string
		in   framesInput
		want string
	}{
		{"unknown strategy", framesInput{Strategy: "spiral", Screen: "10x10"}, "unknown layout strategy"},
		{"bad screen", framesInput{Strategy: "uniform-columns", Screen: "wide"}, "invalid screen size"},
		{"bad state", framesInput{Strategy: "uniform-columns", Screen: "10x10", State: "{"}, "invalid state"},
		{"duplicate", framesInput{Strategy: "uniform-columns", Screen: "10x10", Windows: []string{"a", "a"}}, "duplicate window"},
		{"unsupported command", framesInput{Strategy: "uniform-columns", Screen: "10x10", Commands: []string{"expandMain"}}, "has no command"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := computeView(tt.in)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestFramesCommand(t *testing.T) {
	isolate(t)

	out, err := execute(t, "frames", "--windows", "a,b,c", "--screen", "120x30", "-o", "json")
	require.NoError(t, err)
	var v struct {
		Strategy string                          `json:"strategy"`
		Frames   map[layout.WindowID]layout.Rect `json:"frames"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, "centered-primary-columns", v.Strategy)
	assert.Equal(t, layout.Rect{X: 36, Y: 0, Width: 48, Height: 30}, v.Frames["b"])

	out, err = execute(t, "--strategy", "centered-twin-columns", "frames", "--windows", "a,b", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "strategy: centered-twin-columns")
	assert.Contains(t, out, "main_ratio: 0.5")

	out, err = execute(t, "--ascii-only", "frames", "--windows", "left,right", "--screen", "40x8")
	require.NoError(t, err)
	assert.Contains(t, out, "WINDOW")
	assert.Contains(t, out, "right")

	_, err = execute(t, "frames", "-o", "xml")
	assert.ErrorContains(t, err, "unknown output format")
}

func TestStrategiesCommand(t *testing.T) {
	isolate(t)

	out, err := execute(t, "strategies", "-o", "json")
	require.NoError(t, err)
	var infos []layout.Info
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	require.Len(t, infos, len(layout.Names()))
	assert.Equal(t, "centered-main-pane", infos[0].Name)
	assert.Equal(t, 1, infos[0].InitialState.MainPaneCount)

	out, err = execute(t, "strategies")
	require.NoError(t, err)
	for _, name := range layout.Names() {
		assert.Contains(t, out, name)
	}
}

func TestPlayPersistsState(t *testing.T) {
	dir := isolate(t)

	path := filepath.Join(dir, "demo.tiles")
	src := strings.Join([]string{
		"Strategy centered-primary-columns",
		"Screen 120x30",
		"Open a",
		"Open b",
		"Command expandMain",
		`ExpectState main_ratio 0.45`,
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))

	_, err := execute(t, "--store", "file", "play", "--persist", path)
	require.NoError(t, err)

	out, err := execute(t, "--store", "file", "state", "show", "-o", "json")
	require.NoError(t, err)
	var states []savedState
	require.NoError(t, json.Unmarshal([]byte(out), &states))
	require.Len(t, states, 1)
	assert.Equal(t, "centered-primary-columns", states[0].Strategy)
	assert.InDelta(t, 0.45, states[0].State.MainRatio, 1e-9)
	assert.Len(t, states[0].State.WindowOrder, 2)

	out, err = execute(t, "--store", "file", "state", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "reset default/centered-primary-columns")

	out, err = execute(t, "--store", "file", "state", "show", "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}

func TestPlayFailsOnExpectation(t *testing.T) {
	dir := isolate(t)

	path := filepath.Join(dir, "bad.tiles")
	require.NoError(t, os.WriteFile(path, []byte("Open a\nExpectOrder b\n"), 0o600))
	_, err := execute(t, "play", path)
	assert.ErrorContains(t, err, "line 2")
}

func TestValidateCommand(t *testing.T) {
	dir := isolate(t)

	good := filepath.Join(dir, "good.tiles")
	bad := filepath.Join(dir, "bad.tiles")
	require.NoError(t, os.WriteFile(good, []byte("Open a\nFocusNext\n"), 0o600))
	require.NoError(t, os.WriteFile(bad, []byte("Teleport a\n"), 0o600))

	out, err := execute(t, "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "ok (2 commands)")

	out, err = execute(t, "validate", good, bad)
	assert.ErrorContains(t, err, "1 of 2 scripts invalid")
	assert.Contains(t, out, "bad.tiles")
}

func TestConfigCommands(t *testing.T) {
	dir := isolate(t)

	out, err := execute(t, "config", "path")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), filepath.Join(dir, "config")), out)

	_, err = execute(t, "config", "reset", "--yes")
	require.NoError(t, err)
	out, err = execute(t, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, ": ok")

	out, err = execute(t, "keybinds", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Expand main area")
}

func TestConfirm(t *testing.T) {
	var out bytes.Buffer
	assert.True(t, confirm(strings.NewReader("y\n"), &out, "Sure?"))
	assert.True(t, confirm(strings.NewReader("YES"), &out, "Sure?"))
	assert.False(t, confirm(strings.NewReader("\n"), &out, "Sure?"))
	assert.False(t, confirm(strings.NewReader(""), &out, "Sure?"))
	assert.Contains(t, out.String(), "Sure? [y/N]")
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "0b7e3f4a", shortID("0b7e3f4a-1c2d-4e5f-8a9b-0c1d2e3f4a5b"))
	assert.Equal(t, "editor", shortID("editor"))
}
