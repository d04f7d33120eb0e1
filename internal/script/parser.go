package script

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/Gaurav-Gosain/tilecols/internal/layout"
)

// ParseError is a syntax error on one script line.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Parser turns lexed lines into commands.
type Parser struct {
	lexer *Lexer
}

// NewParser creates a parser reading from l.
func NewParser(l *Lexer) *Parser {
	return &Parser{lexer: l}
}

// Parse reads every command. All syntax errors are reported together.
func (p *Parser) Parse() ([]Command, error) {
	var (
		cmds []Command
		errs []error
	)
	for {
		tokens, line, err := p.lexer.NextLine()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			errs = append(errs, &ParseError{Line: line, Msg: err.Error()})
			continue
		}

		cmd, err := parseLine(tokens, line)
		if err != nil {
			errs = append(errs, &ParseError{Line: line, Msg: err.Error()})
			continue
		}
		cmds = append(cmds, cmd)
	}
	return cmds, errors.Join(errs...)
}

// Parse is a shorthand for NewParser(New(src)).Parse().
func Parse(src string) ([]Command, error) {
	return NewParser(New(src)).Parse()
}

func parseLine(tokens []Token, line int) (Command, error) {
	spec, ok := lookupCommand(tokens[0].Text)
	if !ok {
		return Command{}, fmt.Errorf("unknown command %q", tokens[0].Text)
	}

	args := make([]string, len(tokens)-1)
	for i, t := range tokens[1:] {
		args[i] = t.Text
	}
	if len(args) < spec.min || (spec.max >= 0 && len(args) > spec.max) {
		return Command{}, fmt.Errorf("usage: %s", spec.usage)
	}

	cmd := Command{Type: spec.typ, Args: args, Line: line}
	if err := validate(cmd); err != nil {
		return Command{}, err
	}
	return cmd, nil
}

// validate checks argument syntax that does not depend on session state.
func validate(cmd Command) error {
	switch cmd.Type {
	case CommandTypeStrategy:
		_, err := layout.Lookup(cmd.Args[0])
		return err
	case CommandTypeScreen:
		_, err := ParseScreen(cmd.Args)
		return err
	case CommandTypeResize:
		_, err := parseNumbers(cmd.Args)
		return err
	case CommandTypeExpect:
		_, err := parseNumbers(cmd.Args[1:])
		return err
	case CommandTypeExpectState:
		if !slices.Contains(stateFields, cmd.Args[0]) {
			return fmt.Errorf("unknown state field %q (want one of %s)", cmd.Args[0], strings.Join(stateFields, ", "))
		}
		_, err := strconv.ParseFloat(cmd.Args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid value %q", cmd.Args[1])
		}
	}
	return nil
}

var stateFields = []string{"main_ratio", "main_pane_count", "main_pane_ratio"}

func parseNumbers(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", a)
		}
		out[i] = v
	}
	return out, nil
}

// ParseScreen parses "<w>x<h>" or four numbers "x y w h" into a rectangle.
func ParseScreen(args []string) (layout.Rect, error) {
	switch len(args) {
	case 1:
		w, h, ok := strings.Cut(strings.ToLower(args[0]), "x")
		if !ok {
			return layout.Rect{}, fmt.Errorf("invalid screen size %q, want WIDTHxHEIGHT", args[0])
		}
		n, err := parseNumbers([]string{w, h})
		if err != nil {
			return layout.Rect{}, err
		}
		return layout.Rect{Width: n[0], Height: n[1]}, nil
	case 4:
		n, err := parseNumbers(args)
		if err != nil {
			return layout.Rect{}, err
		}
		return layout.Rect{X: n[0], Y: n[1], Width: n[2], Height: n[3]}, nil
	default:
		return layout.Rect{}, fmt.Errorf("screen takes WIDTHxHEIGHT or X Y WIDTH HEIGHT")
	}
}
