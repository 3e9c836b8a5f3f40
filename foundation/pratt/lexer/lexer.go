// File: lexer.go
// Title: Registry Driven Lexer
// Description: Turns an input string into parser tokens using a grammar
//              Registry. Tokens are produced lazily as the parser pulls
//              them. Scanning stops at the first character no lexeme
//              matches; the problem is reported by Err.
// Author: msto63
// Version: v0.1.1
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial implementation
// - 2026-10-15 v0.1.1: Whitespace ends a run of digit tokens

package lexer

import (
	"fmt"
	"iter"
	"unicode"
	"unicode/utf8"

	mdwerror "github.com/msto63/pratt/foundation/core/error"
	"github.com/msto63/pratt/foundation/pratt/grammar"
	"github.com/msto63/pratt/foundation/pratt/parser"
)

// Lexeme is a scanned token with its source text and byte offset
type Lexeme struct {
	Text   string
	Offset int
	Token  parser.Token
}

// Error describes input the lexer could not scan
type Error struct {
	Offset int
	Text   string
	Reason string
	Cause  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %q at offset %d", e.Reason, e.Text, e.Offset)
}

// Unwrap returns the error of the number scanner, if any
func (e *Error) Unwrap() error {
	return e.Cause
}

// Code implements mdwerror.Coded
func (e *Error) Code() mdwerror.Code {
	return mdwerror.CodeLexError
}

// Lexer scans one input string. It is single use and not safe for
// concurrent use.
type Lexer struct {
	reg     *grammar.Registry
	input   string
	pos     int
	offsets []int
	err     error
}

// New creates a lexer for input
func New(reg *grammar.Registry, input string) *Lexer {
	return &Lexer{reg: reg, input: input}
}

// Tokens yields the tokens of the input. Check Err after the parse; a
// scan error ends the sequence early.
func (l *Lexer) Tokens() iter.Seq[parser.Token] {
	return func(yield func(parser.Token) bool) {
		for {
			lx, ok := l.next()
			if !ok {
				return
			}
			if !yield(lx.Token) {
				return
			}
		}
	}
}

// All scans the whole input eagerly
func (l *Lexer) All() ([]Lexeme, error) {
	var out []Lexeme
	for {
		lx, ok := l.next()
		if !ok {
			return out, l.err
		}
		out = append(out, lx)
	}
}

// Err returns the scan error, if any
func (l *Lexer) Err() error {
	return l.err
}

// Offset returns the byte offset of the i-th token. Indexes past the last
// scanned token map to the scan error position or the end of input.
func (l *Lexer) Offset(i int) int {
	if i >= 0 && i < len(l.offsets) {
		return l.offsets[i]
	}
	if e, ok := l.err.(*Error); ok {
		return e.Offset
	}
	return len(l.input)
}

// Input returns the scanned text
func (l *Lexer) Input() string {
	return l.input
}

func (l *Lexer) next() (Lexeme, bool) {
	if l.err != nil {
		return Lexeme{}, false
	}

	skipped := l.pos
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if !unicode.IsSpace(r) {
			break
		}
		l.pos += size
	}
	spaced := l.pos > skipped && len(l.offsets) > 0
	if l.pos >= len(l.input) {
		return Lexeme{}, false
	}

	start := l.pos
	rest := l.input[start:]
	r, _ := utf8.DecodeRuneInString(rest)

	var (
		text string
		tok  parser.Token
	)

	switch number := l.reg.Number(); {
	case number != nil && startsNumber(rest):
		text = scanNumber(rest)
		t, err := number(text)
		if err != nil {
			return l.fail(start, text, "invalid number", err)
		}
		tok = t

	case r == '_' || unicode.IsLetter(r):
		text = scanWord(rest)
		t, ok := l.reg.Word(text)
		if !ok {
			return l.fail(start, text, "unknown word", nil)
		}
		tok = t

	default:
		t, n, ok := l.reg.MatchSymbol(rest)
		if !ok {
			_, size := utf8.DecodeRuneInString(rest)
			return l.fail(start, rest[:size], "unexpected character", nil)
		}
		text = rest[:n]
		tok = t
	}

	if s, ok := tok.(grammar.Separable); ok && spaced {
		tok = s.Separated()
	}

	l.pos += len(text)
	l.offsets = append(l.offsets, start)
	return Lexeme{Text: text, Offset: start, Token: tok}, true
}

func (l *Lexer) fail(offset int, text, reason string, cause error) (Lexeme, bool) {
	l.err = &Error{Offset: offset, Text: text, Reason: reason, Cause: cause}
	return Lexeme{}, false
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func startsNumber(s string) bool {
	if isDigit(s[0]) {
		return true
	}
	return s[0] == '.' && len(s) > 1 && isDigit(s[1])
}

// scanNumber reads digits with at most one fractional part
func scanNumber(s string) string {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i < len(s) && s[i] == '.' && i+1 < len(s) && isDigit(s[i+1]) {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	}
	return s[:i]
}

func scanWord(s string) string {
	for i, r := range s {
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return s[:i]
		}
	}
	return s
}
