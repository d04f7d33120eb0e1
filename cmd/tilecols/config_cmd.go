package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/Gaurav-Gosain/tilecols/internal/config"
	"github.com/Gaurav-Gosain/tilecols/internal/layout"
	"github.com/Gaurav-Gosain/tilecols/internal/store"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage tilecols configuration",
		Long:  `Manage the tilecols configuration file and settings`,
	}

	configPathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print configuration file path",
		Long:  `Print the path to the tilecols configuration file`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	configEditCmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit configuration in $EDITOR",
		Long: `Open the tilecols configuration file in your default editor

The editor is determined by checking $EDITOR, $VISUAL, or common editors
like vim, vi, nano, and emacs in that order. The file is validated after
the editor exits.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return editConfigFile(cmd)
		},
	}

	var assumeYes bool
	configResetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset configuration to defaults",
		Long: `Reset the tilecols configuration file to default settings

This will overwrite your existing configuration after confirmation.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			if !assumeYes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Overwrite %s with defaults?", path)) {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
			if err := config.WriteDefaultConfig(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration reset: %s\n", path)
			return nil
		},
	}
	configResetCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")

	configValidateCmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a configuration file",
		Long:  `Check a configuration file (default: the active one) and list every problem`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				var err error
				if path, err = config.GetConfigPath(); err != nil {
					return err
				}
			}
			return validateConfigFile(cmd.OutOrStdout(), path)
		},
	}

	configCmd.AddCommand(configPathCmd, configEditCmd, configResetCmd, configValidateCmd)
	return configCmd
}

func validateConfigFile(out io.Writer, path string) error {
	cfg, err := config.LoadConfigFile(path)
	if err != nil {
		return err
	}
	for _, w := range cfg.Warnings() {
		fmt.Fprintf(out, "warning: %s\n", w)
	}
	fmt.Fprintf(out, "%s: ok\n", path)
	return nil
}

// findEditor returns the user's editor command line.
func findEditor() (string, error) {
	for _, env := range []string{"EDITOR", "VISUAL"} {
		if editor := strings.TrimSpace(os.Getenv(env)); editor != "" {
			return editor, nil
		}
	}
	for _, candidate := range []string{"vim", "vi", "nano", "emacs"} {
		if path, err := exec.LookPath(candidate); err == nil {
			return path, nil
		}
	}
	return "", errors.New("no editor found; set $EDITOR")
}

func editConfigFile(cmd *cobra.Command) error {
	path, err := config.GetConfigPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := config.WriteDefaultConfig(); err != nil {
			return err
		}
	}

	editor, err := findEditor()
	if err != nil {
		return err
	}
	fields := strings.Fields(editor)
	// #nosec G204 - the editor comes from the user's own environment
	c := exec.CommandContext(cmd.Context(), fields[0], append(fields[1:], path)...)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("editor failed: %w", err)
	}
	return validateConfigFile(cmd.OutOrStdout(), path)
}

// confirm asks a yes/no question on out and reads the answer from in.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func newKeybindsCmd() *cobra.Command {
	keybindsCmd := &cobra.Command{
		Use:     "keybinds",
		Aliases: []string{"keys", "kb"},
		Short:   "View keybinding configuration",
		Long:    `View and inspect the playground keybindings`,
	}

	var output string
	keybindsListCmd := &cobra.Command{
		Use:   "list",
		Short: "List all keybindings",
		Long:  `Display all configured keybindings in a formatted table`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := loadConfig()
			sections := config.GetKeybindings(config.NewKeybindRegistry(cfg))
			return writeOutput(cmd.OutOrStdout(), output, cfg.Keybindings.Layout, func() string {
				t := newTable("KEYS", "ACTION", "GROUP")
				for _, s := range sections {
					for _, b := range s.Bindings {
						t.Row(b.Key, b.Description, s.Title)
					}
				}
				return t.Render()
			})
		},
	}
	keybindsListCmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format: table, json, yaml")

	keybindsCmd.AddCommand(keybindsListCmd)
	return keybindsCmd
}

// savedState is one strategy's persisted state.
type savedState struct {
	Strategy string       `json:"strategy" yaml:"strategy"`
	State    layout.State `json:"state" yaml:"state"`
}

func loadSavedStates(ctx context.Context, st store.Store, session string) ([]savedState, error) {
	names, err := st.List(ctx, session)
	if err != nil {
		return nil, err
	}
	out := make([]savedState, 0, len(names))
	for _, name := range names {
		state, err := st.Load(ctx, session, name)
		if errors.Is(err, store.ErrStateNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		out = append(out, savedState{Strategy: name, State: state})
	}
	return out, nil
}

func newStateCmd() *cobra.Command {
	stateCmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect persisted strategy state",
		Long: `Inspect and reset the strategy state saved for a session

The session and store come from the --session and --store flags or the
config file.`,
	}

	var output string
	stateShowCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the saved state of every strategy",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			defer e.close()

			states, err := loadSavedStates(cmd.Context(), e.store, e.cfg.Layout.Session)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), output, states, func() string {
				t := newTable("STRATEGY", "ORDER", "RATIO", "MAIN COUNT")
				for _, s := range states {
					ratio, count := "-", "-"
					if s.State.MainPaneCount > 0 {
						ratio = fmt.Sprintf("%.2f", s.State.MainPaneRatio)
						count = fmt.Sprint(s.State.MainPaneCount)
					} else if s.State.MainRatio > 0 {
						ratio = fmt.Sprintf("%.2f", s.State.MainRatio)
					}
					order := make([]string, len(s.State.WindowOrder))
					for i, id := range s.State.WindowOrder {
						order[i] = shortID(string(id))
					}
					t.Row(s.Strategy, strings.Join(order, " "), ratio, count)
				}
				return t.Render()
			})
		},
	}
	stateShowCmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format: table, json, yaml")

	stateResetCmd := &cobra.Command{
		Use:   "reset [strategy]...",
		Short: "Delete saved state",
		Long:  `Delete the saved state of the given strategies, or of all strategies in the session`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			defer e.close()

			ctx := cmd.Context()
			session := e.cfg.Layout.Session
			if len(args) == 0 {
				if args, err = e.store.List(ctx, session); err != nil {
					return err
				}
			}
			for _, name := range args {
				if err := e.store.Delete(ctx, session, name); err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "reset %s/%s\n", session, name)
			}
			return nil
		},
		ValidArgsFunction: completeStrategies,
	}

	stateCmd.AddCommand(stateShowCmd, stateResetCmd)
	return stateCmd
}

// shortID trims generated window ids to their first block.
func shortID(id string) string {
	if len(id) == 36 && strings.Count(id, "-") == 4 {
		return id[:8]
	}
	return id
}
