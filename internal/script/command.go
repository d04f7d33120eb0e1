package script

import "strings"

// CommandType identifies a script command.
type CommandType int

// Script commands.
const (
	CommandTypeStrategy CommandType = iota
	CommandTypeNextStrategy
	CommandTypePrevStrategy
	CommandTypeScreen
	CommandTypeOpen
	CommandTypeClose
	CommandTypeFocus
	CommandTypeFocusNext
	CommandTypeFocusPrev
	CommandTypeSwap
	CommandTypeSwapNext
	CommandTypeSwapPrev
	CommandTypeReport
	CommandTypeCommand
	CommandTypeResize
	CommandTypeReset
	CommandTypeExpect
	CommandTypeExpectOrder
	CommandTypeExpectState
	CommandTypeExpectNoFrame
	CommandTypePrint
	CommandTypeFrames
)

type commandSpec struct {
	typ      CommandType
	name     string
	min, max int // argument count; max < 0 means unbounded
	usage    string
}

var commandSpecs = []commandSpec{
	{CommandTypeStrategy, "Strategy", 1, 1, "Strategy <name>"},
	{CommandTypeNextStrategy, "NextStrategy", 0, 0, "NextStrategy"},
	{CommandTypePrevStrategy, "PrevStrategy", 0, 0, "PrevStrategy"},
	{CommandTypeScreen, "Screen", 1, 4, "Screen <width>x<height> | Screen <x> <y> <width> <height>"},
	{CommandTypeOpen, "Open", 0, -1, "Open [title...]"},
	{CommandTypeClose, "Close", 1, -1, "Close <window...>"},
	{CommandTypeFocus, "Focus", 1, 1, "Focus <window>"},
	{CommandTypeFocusNext, "FocusNext", 0, 0, "FocusNext"},
	{CommandTypeFocusPrev, "FocusPrev", 0, 0, "FocusPrev"},
	{CommandTypeSwap, "Swap", 2, 2, "Swap <window> <window>"},
	{CommandTypeSwapNext, "SwapNext", 0, 0, "SwapNext"},
	{CommandTypeSwapPrev, "SwapPrev", 0, 0, "SwapPrev"},
	{CommandTypeReport, "Report", 0, -1, "Report <window...>"},
	{CommandTypeCommand, "Command", 1, 1, "Command <name>"},
	{CommandTypeResize, "Resize", 1, 1, "Resize <delta>"},
	{CommandTypeReset, "Reset", 0, 0, "Reset"},
	{CommandTypeExpect, "Expect", 5, 5, "Expect <window> <x> <y> <width> <height>"},
	{CommandTypeExpectOrder, "ExpectOrder", 0, -1, "ExpectOrder <window...>"},
	{CommandTypeExpectState, "ExpectState", 2, 2, "ExpectState <field> <value>"},
	{CommandTypeExpectNoFrame, "ExpectNoFrame", 1, 1, "ExpectNoFrame <window>"},
	{CommandTypePrint, "Print", 0, 0, "Print"},
	{CommandTypeFrames, "Frames", 0, 0, "Frames"},
}

// String returns the script keyword of t.
func (t CommandType) String() string {
	for _, s := range commandSpecs {
		if s.typ == t {
			return s.name
		}
	}
	return "Unknown"
}

// lookupCommand finds a keyword, ignoring case.
func lookupCommand(name string) (commandSpec, bool) {
	for _, s := range commandSpecs {
		if strings.EqualFold(s.name, name) {
			return s, true
		}
	}
	return commandSpec{}, false
}

// Command is a parsed script line.
type Command struct {
	Type CommandType
	Args []string
	Line int
}

// String formats the command back into script syntax.
func (c Command) String() string {
	parts := []string{c.Type.String()}
	for _, a := range c.Args {
		if a == "" || strings.ContainsAny(a, " \t#\"") {
			a = `"` + strings.ReplaceAll(strings.ReplaceAll(a, `\`, `\\`), `"`, `\"`) + `"`
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}

// Usage lists the syntax of every command.
func Usage() []string {
	out := make([]string, len(commandSpecs))
	for i, s := range commandSpecs {
		out[i] = s.usage
	}
	return out
}
