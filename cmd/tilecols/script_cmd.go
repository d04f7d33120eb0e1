package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Gaurav-Gosain/tilecols/internal/host"
	"github.com/Gaurav-Gosain/tilecols/internal/script"
	"github.com/Gaurav-Gosain/tilecols/internal/store"
	"github.com/spf13/cobra"
)

func readScript(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	// #nosec G304 - the user names the script on the command line
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read script: %w", err)
	}
	return string(data), nil
}

func scriptLong(intro string) string {
	return intro + "\n\nCommands:\n  " + strings.Join(script.Usage(), "\n  ")
}

func newPlayCmd() *cobra.Command {
	var persist bool

	cmd := &cobra.Command{
		Use:   "play <file.tiles>",
		Short: "Run a .tiles script",
		Long: scriptLong(`Run a .tiles script against a fresh session

Each line is a command. Expect lines fail the run on the first mismatch.
By default the script runs on an in-memory store so runs are reproducible;
--persist uses the configured store and session instead. Use - to read the
script from stdin.`),
		Example: `  # Run a script
  tilecols play demo.tiles

  # Keep the strategy state it produces
  tilecols play --persist --session demo demo.tiles`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readScript(args[0])
			if err != nil {
				return err
			}

			cfg := loadConfig()
			logger := newLogger(cfg)
			opts := host.Options{
				Name:     cfg.Layout.Session,
				Strategy: cfg.Layout.DefaultStrategy,
				Screen:   screenFromConfig(cfg),
				Store:    store.NewMemoryStore(),
				Logger:   logger,
			}
			if persist {
				st, err := store.Open(cfg.Store)
				if err != nil {
					return fmt.Errorf("failed to open %s store: %w", cfg.Store.Backend, err)
				}
				defer func() { _ = st.Close() }()
				opts.Store = st
			}

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()
			if err := script.Play(ctx, src, opts, cmd.OutOrStdout()); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			logger.Debug("script passed", "file", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVar(&persist, "persist", false, "Use the configured store instead of an in-memory one")
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file.tiles>...",
		Short: "Check .tiles scripts without running them",
		Long:  scriptLong(`Parse .tiles scripts and report every syntax error`),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				src, err := readScript(path)
				if err == nil {
					var cmds []script.Command
					if cmds, err = script.Parse(src); err == nil {
						fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d commands)\n", path, len(cmds))
						continue
					}
				}
				failed++
				fmt.Fprintf(cmd.ErrOrStderr(), "%s:\n%v\n", path, err)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d scripts invalid", failed, len(args))
			}
			return nil
		},
	}
}
