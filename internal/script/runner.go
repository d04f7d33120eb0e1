package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/Gaurav-Gosain/tilecols/internal/host"
	"github.com/Gaurav-Gosain/tilecols/internal/layout"
	"github.com/Gaurav-Gosain/tilecols/internal/render"
)

// ErrExpectation is wrapped by every failed Expect* command.
var ErrExpectation = errors.New("expectation failed")

// Preview size limits for Print, in cells.
const (
	MaxPrintWidth  = 120
	MaxPrintHeight = 40
)

// Runner executes commands against a session.
type Runner struct {
	session *host.Session
	out     io.Writer

	// Tolerance is how far Expect lets a coordinate differ.
	Tolerance float64
}

// NewRunner creates a runner writing Print and Frames output to out.
func NewRunner(session *host.Session, out io.Writer) *Runner {
	if out == nil {
		out = os.Stdout
	}
	return &Runner{session: session, out: out, Tolerance: 1e-6}
}

// Run executes cmds in order and stops at the first failure.
func (r *Runner) Run(ctx context.Context, cmds []Command) error {
	for _, cmd := range cmds {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.Execute(ctx, cmd); err != nil {
			return fmt.Errorf("line %d: %s: %w", cmd.Line, cmd.Type, err)
		}
	}
	return nil
}

// Execute runs a single command.
func (r *Runner) Execute(ctx context.Context, cmd Command) error {
	s := r.session
	switch cmd.Type {
	case CommandTypeStrategy:
		return s.SetStrategy(ctx, cmd.Args[0])
	case CommandTypeNextStrategy:
		return s.NextStrategy(ctx)
	case CommandTypePrevStrategy:
		return s.PrevStrategy(ctx)

	case CommandTypeScreen:
		screen, err := ParseScreen(cmd.Args)
		if err != nil {
			return err
		}
		s.SetScreen(screen)

	case CommandTypeOpen:
		if len(cmd.Args) == 0 {
			_, err := s.Open(ctx, "")
			return err
		}
		for _, title := range cmd.Args {
			if _, err := s.Open(ctx, title); err != nil {
				return err
			}
		}

	case CommandTypeClose:
		for _, ref := range cmd.Args {
			if err := s.Close(ctx, ref); err != nil {
				return err
			}
		}

	case CommandTypeFocus:
		return s.Focus(cmd.Args[0])
	case CommandTypeFocusNext:
		s.FocusNext()
	case CommandTypeFocusPrev:
		s.FocusPrev()

	case CommandTypeSwap:
		return s.Swap(ctx, cmd.Args[0], cmd.Args[1])
	case CommandTypeSwapNext:
		return s.SwapNext(ctx)
	case CommandTypeSwapPrev:
		return s.SwapPrev(ctx)
	case CommandTypeReport:
		return s.Report(ctx, cmd.Args)

	case CommandTypeCommand:
		return s.Command(ctx, cmd.Args[0])
	case CommandTypeResize:
		delta, err := strconv.ParseFloat(cmd.Args[0], 64)
		if err != nil {
			return err
		}
		return s.ResizeMain(ctx, delta)
	case CommandTypeReset:
		return s.Reset(ctx)

	case CommandTypeExpect:
		return r.expectFrame(cmd.Args)
	case CommandTypeExpectOrder:
		return r.expectOrder(cmd.Args)
	case CommandTypeExpectState:
		return r.expectState(cmd.Args[0], cmd.Args[1])
	case CommandTypeExpectNoFrame:
		return r.expectNoFrame(cmd.Args[0])

	case CommandTypePrint:
		return r.print()
	case CommandTypeFrames:
		return r.frames()

	default:
		return fmt.Errorf("unsupported command %s", cmd.Type)
	}
	return nil
}

func (r *Runner) expectFrame(args []string) error {
	id, err := r.session.Resolve(args[0])
	if err != nil {
		return err
	}
	n, err := parseNumbers(args[1:])
	if err != nil {
		return err
	}
	want := layout.Rect{X: n[0], Y: n[1], Width: n[2], Height: n[3]}

	got, ok := r.session.Snapshot().Frames[id]
	if !ok {
		return fmt.Errorf("%w: %s has no frame, want %s", ErrExpectation, args[0], formatRect(want))
	}
	tol := r.Tolerance
	if math.Abs(got.X-want.X) > tol || math.Abs(got.Y-want.Y) > tol ||
		math.Abs(got.Width-want.Width) > tol || math.Abs(got.Height-want.Height) > tol {
		return fmt.Errorf("%w: %s is %s, want %s", ErrExpectation, args[0], formatRect(got), formatRect(want))
	}
	return nil
}

func (r *Runner) expectNoFrame(ref string) error {
	id, err := r.session.Resolve(ref)
	if err != nil {
		return err
	}
	if got, ok := r.session.Snapshot().Frames[id]; ok {
		return fmt.Errorf("%w: %s has frame %s, want none", ErrExpectation, ref, formatRect(got))
	}
	return nil
}

func (r *Runner) expectOrder(refs []string) error {
	want := make([]layout.WindowID, len(refs))
	for i, ref := range refs {
		id, err := r.session.Resolve(ref)
		if err != nil {
			return err
		}
		want[i] = id
	}

	v := r.session.Snapshot()
	if got := layout.IDs(v.Windows); !slices.Equal(got, want) {
		return fmt.Errorf("%w: order is [%s], want [%s]", ErrExpectation, titlesOf(v.Windows), strings.Join(refs, " "))
	}
	return nil
}

func (r *Runner) expectState(field, value string) error {
	want, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return err
	}
	state := r.session.Snapshot().State

	var got float64
	switch field {
	case "main_ratio":
		got = state.MainRatio
	case "main_pane_count":
		got = float64(state.MainPaneCount)
	case "main_pane_ratio":
		got = state.MainPaneRatio
	default:
		return fmt.Errorf("unknown state field %q", field)
	}
	if math.Abs(got-want) > 1e-9 {
		return fmt.Errorf("%w: %s is %g, want %g", ErrExpectation, field, got, want)
	}
	return nil
}

func (r *Runner) print() error {
	v := r.session.Snapshot()
	width := int(min(v.Screen.Width, MaxPrintWidth))
	height := int(min(v.Screen.Height, MaxPrintHeight))
	out := render.Plain(render.Frames(v, render.DefaultOptions(width, height)))
	_, err := fmt.Fprintln(r.out, out)
	return err
}

func (r *Runner) frames() error {
	v := r.session.Snapshot()
	for _, w := range v.Windows {
		f, ok := v.Frames[w.ID]
		line := "(no frame)"
		if ok {
			line = formatRect(f)
		}
		if _, err := fmt.Fprintf(r.out, "%-16s %s\n", w.Title, line); err != nil {
			return err
		}
	}
	return nil
}

func formatRect(r layout.Rect) string {
	return fmt.Sprintf("x=%g y=%g w=%g h=%g", r.X, r.Y, r.Width, r.Height)
}

func titlesOf(windows []layout.Window) string {
	out := make([]string, len(windows))
	for i, w := range windows {
		out[i] = w.Title
	}
	return strings.Join(out, " ")
}

// Play parses src and runs it on a new session created from opts.
func Play(ctx context.Context, src string, opts host.Options, out io.Writer) error {
	cmds, err := Parse(src)
	if err != nil {
		return err
	}
	session, err := host.NewSession(ctx, opts)
	if err != nil {
		return err
	}
	return NewRunner(session, out).Run(ctx, cmds)
}
