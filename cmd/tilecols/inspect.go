package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/Gaurav-Gosain/tilecols/internal/config"
	"github.com/Gaurav-Gosain/tilecols/internal/host"
	"github.com/Gaurav-Gosain/tilecols/internal/layout"
	"github.com/Gaurav-Gosain/tilecols/internal/render"
	"github.com/Gaurav-Gosain/tilecols/internal/script"
	"github.com/Gaurav-Gosain/tilecols/internal/theme"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by --output.
const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

var outputFormats = []string{outputTable, outputJSON, outputYAML}

// writeOutput encodes v as JSON or YAML, or prints the table built by tbl.
func writeOutput(w io.Writer, format string, v any, tbl func() string) error {
	switch format {
	case "", outputTable:
		_, err := fmt.Fprintln(w, tbl())
		return err
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q (want %s)", format, strings.Join(outputFormats, ", "))
	}
}

func newTable(headers ...string) *table.Table {
	headerStyle := lipgloss.NewStyle().Foreground(theme.CLITableHeader()).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(theme.CLITableKey())
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.CLITableBorder())).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle.Padding(0, 1)
			case col == 0:
				return keyStyle.Padding(0, 1)
			default:
				return cellStyle
			}
		})
}

func newStrategiesCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "strategies",
		Aliases: []string{"ls"},
		Short:   "List layout strategies",
		Long:    `List the registered layout strategies with their commands and initial state`,
		Example: `  # Table of strategies
  tilecols strategies

  # Commands of every strategy as JSON
  tilecols strategies -o json | jq '.[].commands'`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loadConfig()
			entries := make([]layout.Info, 0, len(layout.Names()))
			for _, s := range layout.All() {
				entries = append(entries, layout.Describe(s))
			}
			return writeOutput(cmd.OutOrStdout(), output, entries, func() string {
				t := newTable("NAME", "TITLE", "COMMANDS", "RATIO")
				for _, e := range entries {
					names := make([]string, len(e.Commands))
					for i, c := range e.Commands {
						names[i] = c.Name
					}
					ratio := "-"
					if e.RatioBounds != nil {
						ratio = fmt.Sprintf("%.2f [%.2f, %.2f]", initialRatio(e.InitialState), e.RatioBounds.Min, e.RatioBounds.Max)
					}
					t.Row(e.Name, e.Title, strings.Join(names, ", "), ratio)
				}
				return t.Render()
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format: table, json, yaml")
	return cmd
}

// initialRatio is the ratio a strategy's knob starts at.
func initialRatio(s layout.State) float64 {
	if s.MainPaneCount > 0 {
		return s.MainPaneRatio
	}
	return s.MainRatio
}

// framesInput is everything `tilecols frames` needs to compute a layout.
type framesInput struct {
	Strategy string
	Screen   string
	Windows  []string
	State    string
	Commands []string
}

// computeView runs the strategy the way a host would: report the windows,
// apply the commands, then ask for frames.
func computeView(in framesInput) (host.View, error) {
	s, err := layout.Lookup(in.Strategy)
	if err != nil {
		return host.View{}, err
	}
	screen, err := script.ParseScreen(strings.Fields(in.Screen))
	if err != nil {
		return host.View{}, err
	}

	state := s.InitialState()
	if in.State != "" {
		data := []byte(in.State)
		if path, ok := strings.CutPrefix(in.State, "@"); ok {
			// #nosec G304 - the user names the file on the command line
			if data, err = os.ReadFile(path); err != nil {
				return host.View{}, fmt.Errorf("failed to read state: %w", err)
			}
		}
		if err := json.Unmarshal(data, &state); err != nil {
			return host.View{}, fmt.Errorf("invalid state: %w", err)
		}
	}

	windows := make([]layout.Window, 0, len(in.Windows))
	for _, title := range in.Windows {
		if title = strings.TrimSpace(title); title == "" {
			continue
		}
		id := layout.WindowID(title)
		if slices.ContainsFunc(windows, func(w layout.Window) bool { return w.ID == id }) {
			return host.View{}, fmt.Errorf("duplicate window %q", title)
		}
		windows = append(windows, layout.Window{ID: id, Title: title})
	}
	state = s.Update(layout.WindowsChanged{Windows: windows}, state)

	for _, name := range in.Commands {
		var ok bool
		if state, ok = layout.RunCommand(s, name, state); !ok {
			return host.View{}, fmt.Errorf("%s has no command %q", s.Name(), name)
		}
	}

	ordered := layout.Stabilize(windows, state.WindowOrder)
	v := host.View{
		Strategy: s.Name(),
		Title:    s.Title(),
		Screen:   screen,
		Windows:  ordered,
		Frames:   s.Frames(ordered, screen, state),
		State:    state,
	}
	if len(ordered) > 0 {
		v.Focused = ordered[0].ID
	}
	return v, nil
}

func framesTable(v host.View) string {
	t := newTable("WINDOW", "X", "Y", "WIDTH", "HEIGHT")
	num := func(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
	for _, w := range v.Windows {
		r, ok := v.Frames[w.ID]
		if !ok {
			t.Row(w.Title, "-", "-", "-", "-")
			continue
		}
		t.Row(w.Title, num(r.X), num(r.Y), num(r.Width), num(r.Height))
	}
	return t.Render()
}

// previewSize fits the preview into the terminal on stdout, keeping the
// screen's aspect ratio when it is larger than the terminal.
func previewSize(screen layout.Rect) (int, int) {
	w, h := int(screen.Width), int(screen.Height)
	fd := int(os.Stdout.Fd()) // #nosec G115 - file descriptors fit in int
	if !term.IsTerminal(fd) {
		return min(w, script.MaxPrintWidth), min(h, script.MaxPrintHeight)
	}
	tw, th, err := term.GetSize(fd)
	if err != nil {
		return w, h
	}
	return min(w, tw), min(h, max(th-2, 1))
}

func newFramesCmd() *cobra.Command {
	var (
		in      framesInput
		output  string
		preview bool
	)

	cmd := &cobra.Command{
		Use:   "frames",
		Short: "Compute window frames for a strategy",
		Long: `Compute the frame of every window for a layout strategy

Windows are given in host enumeration order. The state may be inline JSON or
@file; it defaults to the strategy's initial state. Commands run in order
before the frames are computed.`,
		Example: `  # Three windows on a 120x30 screen
  tilecols frames --windows a,b,c

  # Widen the main area twice and draw it
  tilecols frames --strategy centered-main-pane --windows a,b,c,d -c increaseMainCount -c expandMain --preview

  # Feed a saved state
  tilecols frames --windows a,b --state '{"window_order":["b","a"],"main_ratio":0.6}' -o yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := loadConfig()
			in.Strategy = cfg.Layout.DefaultStrategy
			if in.Screen == "" {
				r := screenFromConfig(cfg)
				in.Screen = fmt.Sprintf("%gx%g", r.Width, r.Height)
			}

			v, err := computeView(in)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if preview {
				w, h := previewSize(v.Screen)
				if err := render.Fprint(out, os.Environ(), render.Frames(v, render.DefaultOptions(w, h))+"\n"); err != nil {
					return err
				}
			}
			return writeOutput(out, output, v, func() string { return framesTable(v) })
		},
	}

	cmd.Flags().StringVar(&in.Screen, "screen", "", `Screen as WIDTHxHEIGHT or "X Y WIDTH HEIGHT" (default: from config)`)
	cmd.Flags().StringSliceVarP(&in.Windows, "windows", "w", nil, "Window titles in host enumeration order")
	cmd.Flags().StringVar(&in.State, "state", "", "Strategy state as JSON, or @file")
	cmd.Flags().StringArrayVarP(&in.Commands, "command", "c", nil, "Command to run before computing frames (repeatable)")
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format: table, json, yaml")
	cmd.Flags().BoolVarP(&preview, "preview", "p", false, "Draw the frames above the output")
	_ = cmd.RegisterFlagCompletionFunc("output", cobra.FixedCompletions(outputFormats, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

// screenFromConfig is the simulated screen CLI commands use by default.
func screenFromConfig(cfg *config.UserConfig) layout.Rect {
	return layout.Rect{Width: float64(cfg.Layout.ScreenWidth), Height: float64(cfg.Layout.ScreenHeight)}
}
