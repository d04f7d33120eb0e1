// Package main implements tilecols, a playground and toolbox for column
// tiling layouts. It runs the layout strategies against simulated windows in
// the terminal, over SSH and over HTTP, and replays .tiles scripts.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Gaurav-Gosain/tilecols/internal/layout"
	"github.com/Gaurav-Gosain/tilecols/internal/theme"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

// Global flags
var (
	debugMode    bool
	logLevel     string
	asciiOnly    bool
	themeName    string
	listThemes   bool
	borderStyle  string
	hideLabels   bool
	strategyName string
	sessionName  string
	storeBackend string
)

func main() {
	rootCmd := newRootCmd()
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s\nBuilt: %s\nBy: %s", version, commit, date, builtBy)),
	); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tilecols",
		Short: "Column tiling layout playground",
		Long: `tilecols - column tiling layouts

Runs the column tiling strategies (uniform, centered primary, centered main
pane and centered twin columns) against simulated windows. The interactive
playground persists each strategy's state per session, the same way a
window manager integration would.`,
		Example: `  # Open the interactive playground
  tilecols

  # Start with a specific strategy and theme
  tilecols --strategy centered-twin-columns --theme dracula

  # Compute frames for three windows
  tilecols frames --windows editor,logs,notes --screen 160x40

  # Replay a script
  tilecols play demo.tiles

  # Serve the HTTP API
  tilecols serve --addr :8080

  # Run the playground as an SSH server
  tilecols ssh --port 2222`,
		Version: version,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if listThemes {
				for _, t := range theme.Names() {
					fmt.Fprintln(cmd.OutOrStdout(), t)
				}
				return nil
			}
			return runLocal(cmd.Context())
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default: from config or info)")
	rootCmd.PersistentFlags().BoolVar(&asciiOnly, "ascii-only", false, "Draw frames with ASCII characters only")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", "", "Color theme to use (e.g., dracula, nord). Leave empty to use standard terminal colors")
	rootCmd.PersistentFlags().BoolVar(&listThemes, "list-themes", false, "List all available themes and exit")
	rootCmd.PersistentFlags().StringVar(&borderStyle, "border-style", "", "Frame border style: rounded, normal, thick, double, hidden, block, ascii (default: from config or rounded)")
	rootCmd.PersistentFlags().BoolVar(&hideLabels, "hide-labels", false, "Hide window titles inside frames")
	rootCmd.PersistentFlags().StringVar(&strategyName, "strategy", "", "Layout strategy (default: from config)")
	rootCmd.PersistentFlags().StringVar(&sessionName, "session", "", "Session name used to persist strategy state (default: from config)")
	rootCmd.PersistentFlags().StringVar(&storeBackend, "store", "", "State store backend: file, redis, sqlite, memory (default: from config)")
	_ = rootCmd.RegisterFlagCompletionFunc("strategy", completeStrategies)

	rootCmd.AddCommand(newStrategiesCmd(), newFramesCmd())
	rootCmd.AddCommand(newPlayCmd(), newValidateCmd())
	rootCmd.AddCommand(newServeCmd(), newSSHCmd())
	rootCmd.AddCommand(newConfigCmd(), newKeybindsCmd(), newStateCmd())
	return rootCmd
}

func completeStrategies(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return layout.Names(), cobra.ShellCompDirectiveNoFileComp
}
