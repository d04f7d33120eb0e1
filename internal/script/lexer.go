// Package script runs .tiles scripts: line based command files that drive a
// host session and assert on the resulting frames.
//
//	# three windows, then widen the primary column
//	Strategy centered-primary-columns
//	Screen 120x30
//	Open editor
//	Open "build logs"
//	Open notes
//	Command expandMain
//	ExpectOrder editor "build logs" notes
//	Expect "build logs" 33 0 54 30
package script

import (
	"errors"
	"io"
	"strings"
	"unicode"
)

// Token is one word of a script line.
type Token struct {
	Text   string
	Line   int
	Column int
}

// Lexer splits a script into lines of tokens. Words are separated by
// whitespace, double quotes group words and # starts a comment.
type Lexer struct {
	lines []string
	line  int
}

// New creates a lexer for src.
func New(src string) *Lexer {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	return &Lexer{lines: strings.Split(src, "\n")}
}

// NextLine returns the tokens of the next non-empty line and its 1-based
// number, or io.EOF at the end of input.
func (l *Lexer) NextLine() ([]Token, int, error) {
	for l.line < len(l.lines) {
		text := l.lines[l.line]
		l.line++
		tokens, err := lexLine(text, l.line)
		if err != nil {
			return nil, l.line, err
		}
		if len(tokens) > 0 {
			return tokens, l.line, nil
		}
	}
	return nil, l.line, io.EOF
}

func lexLine(text string, line int) ([]Token, error) {
	var (
		tokens []Token
		cur    strings.Builder
		start  = -1
		quoted bool
	)
	flush := func() {
		if start >= 0 {
			tokens = append(tokens, Token{Text: cur.String(), Line: line, Column: start + 1})
		}
		cur.Reset()
		start = -1
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case quoted && r == '\\' && i+1 < len(runes):
			i++
			cur.WriteRune(runes[i])
		case quoted && r == '"':
			quoted = false
		case quoted:
			cur.WriteRune(r)
		case r == '"':
			if start < 0 {
				start = i
			}
			quoted = true
		case r == '#':
			flush()
			return tokens, nil
		case unicode.IsSpace(r):
			flush()
		default:
			if start < 0 {
				start = i
			}
			cur.WriteRune(r)
		}
	}
	if quoted {
		return nil, errors.New("unterminated string")
	}
	flush()
	return tokens, nil
}
