// File: lexer_test.go
// Title: Lexer Tests
// Description: Scanning with digit and decimal number modes, longest
//              symbol matching, words, offsets and scan errors.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15

package lexer

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	mdwerror "github.com/msto63/pratt/foundation/core/error"
	"github.com/msto63/pratt/foundation/pratt/grammar"
	"github.com/msto63/pratt/foundation/pratt/parser"
)

var errTooBig = errors.New("too big")

func stringSemantics() grammar.Semantics[string] {
	id := func(s string) (string, error) { return s, nil }
	return grammar.Semantics[string]{
		Number: func(s string) (string, error) {
			if len(s) > 6 {
				return "", errTooBig
			}
			return s, nil
		},
		Digit:       func(d int) (string, error) { return strconv.Itoa(d), nil },
		AppendDigit: func(l string, d int) (string, error) { return l + strconv.Itoa(d), nil },
		Literal:     id,
		Binary:      func(op, l, r string) (string, error) { return "(" + op + " " + l + " " + r + ")", nil },
		Unary:       func(op, x string) (string, error) { return "(" + op + " " + x + ")", nil },
		Postfix:     func(op, x string) (string, error) { return "(" + op + " " + x + ")", nil },
		Ternary:     func(c, a, b string) (string, error) { return "(? " + c + " " + a + " " + b + ")", nil },
		Conditional: func(c, a string, b *string) (string, error) { return "(if " + c + " " + a + ")", nil },
	}
}

func registry(t *testing.T, numbers string) *grammar.Registry {
	t.Helper()
	def := grammar.Default()
	def.Numbers = numbers
	def.Operators = append(def.Operators, grammar.OperatorDef{Symbol: "<=", Kind: grammar.OpInfix, BP: 10, Op: "le"})
	reg, err := grammar.Build(def, stringSemantics())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return reg
}

func texts(lexemes []Lexeme) []string {
	out := make([]string, len(lexemes))
	for i, lx := range lexemes {
		out[i] = lx.Text
	}
	return out
}

func TestAll(t *testing.T) {
	tests := []struct {
		name    string
		numbers string
		input   string
		want    []string
	}{
		{"digits", grammar.NumbersDigits, "12+3", []string{"1", "2", "+", "3"}},
		{"decimal", grammar.NumbersDecimal, "12+3.25", []string{"12", "+", "3.25"}},
		{"leading dot", grammar.NumbersDecimal, ".5*2", []string{".5", "*", "2"}},
		{"longest match", grammar.NumbersDecimal, "1<=2<3", []string{"1", "<=", "2", "<", "3"}},
		{"words", grammar.NumbersDecimal, "if true then 1 else 2 end", []string{"if", "true", "then", "1", "else", "2", "end"}},
		{"whitespace", grammar.NumbersDigits, " \t1 \n+ 2 ", []string{"1", "+", "2"}},
		{"empty", grammar.NumbersDigits, "   ", nil},
		{"word glued to symbol", grammar.NumbersDecimal, "not(1)", []string{"not", "(", "1", ")"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lexemes, err := New(registry(t, tt.numbers), tt.input).All()
			if err != nil {
				t.Fatalf("All() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, texts(lexemes)); diff != "" {
				t.Errorf("All() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScanErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		offset int
		text   string
		reason string
	}{
		{"unknown character", "1 + $", 4, "$", "unexpected character"},
		{"unknown word", "1 + x", 4, "x", "unknown word"},
		{"number rejected", "1234567 + 1", 0, "1234567", "invalid number"},
		{"unicode character", "1 + €", 4, "€", "unexpected character"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lx := New(registry(t, grammar.NumbersDecimal), tt.input)
			_, err := lx.All()

			var lexErr *Error
			if !errors.As(err, &lexErr) {
				t.Fatalf("All() error = %v, want *Error", err)
			}
			if lexErr.Offset != tt.offset || lexErr.Text != tt.text || lexErr.Reason != tt.reason {
				t.Errorf("error = %+v", lexErr)
			}
			if !mdwerror.HasCode(err, mdwerror.CodeLexError) {
				t.Errorf("code = %v, want LEX_ERROR", mdwerror.GetCode(err))
			}
			if lx.Offset(99) != tt.offset {
				t.Errorf("Offset(past end) = %d, want %d", lx.Offset(99), tt.offset)
			}
		})
	}
}

func TestNumberErrorIsWrapped(t *testing.T) {
	_, err := New(registry(t, grammar.NumbersDecimal), "1234567").All()
	if !errors.Is(err, errTooBig) {
		t.Errorf("error = %v, want wrapped errTooBig", err)
	}
}

func TestTokensFeedParser(t *testing.T) {
	lx := New(registry(t, grammar.NumbersDigits), "2 ^ 3 ^ 2 + -1")

	got, err := parser.Parse[string](lx.Tokens(), parser.RequireEnd())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if want := "(add (pow 2 (pow 3 2)) (neg 1))"; got != want {
		t.Errorf("Parse() = %s, want %s", got, want)
	}
	if lx.Err() != nil {
		t.Errorf("Err() = %v", lx.Err())
	}
}

func TestOffsets(t *testing.T) {
	input := "(1 +  22)"
	lx := New(registry(t, grammar.NumbersDecimal), input)

	_, err := parser.Parse[string](lx.Tokens(), parser.RequireEnd())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := []int{0, 1, 3, 6, 8}
	for i, off := range want {
		if got := lx.Offset(i); got != off {
			t.Errorf("Offset(%d) = %d, want %d", i, got, off)
		}
	}
	if got := lx.Offset(len(want)); got != len(input) {
		t.Errorf("Offset(end) = %d, want %d", got, len(input))
	}
}

func TestParseErrorPointsAtToken(t *testing.T) {
	input := "1 + (2 * 3"
	lx := New(registry(t, grammar.NumbersDecimal), input)

	_, err := parser.Parse[string](lx.Tokens(), parser.RequireEnd())
	pe, ok := parser.AsParseError(err)
	if !ok {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if off := lx.Offset(pe.Index); off != len(input) {
		t.Errorf("Offset(%d) = %d, want end of input %d", pe.Index, off, len(input))
	}

	lx = New(registry(t, grammar.NumbersDecimal), "1 + )")
	_, err = parser.Parse[string](lx.Tokens(), parser.RequireEnd())
	pe, _ = parser.AsParseError(err)
	if got := lx.Offset(pe.Index); got != strings.Index("1 + )", ")") {
		t.Errorf("Offset() = %d, want position of ')'", got)
	}
}

func TestStopsAfterError(t *testing.T) {
	lx := New(registry(t, grammar.NumbersDecimal), "1 $ 2")

	var n int
	for range lx.Tokens() {
		n++
	}
	if n != 1 {
		t.Errorf("yielded %d tokens, want 1", n)
	}
	if lx.Err() == nil {
		t.Error("Err() = nil after scan error")
	}
	if lexemes, _ := lx.All(); len(lexemes) != 0 {
		t.Error("scanning continued after an error")
	}
}

func TestWhitespaceEndsDigitRun(t *testing.T) {
	lexemes, err := New(registry(t, grammar.NumbersDigits), "12 3+ 4").All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}

	var bps []int
	for _, lx := range lexemes {
		bps = append(bps, lx.Token.BindingPower())
	}
	// the digit after the operator is separated too; it only starts a number
	want := []int{grammar.DefaultDigitBP, grammar.DefaultDigitBP, 0, 20, 0}
	if diff := cmp.Diff(want, bps); diff != "" {
		t.Errorf("binding powers mismatch (-want +got):\n%s", diff)
	}

	lx := New(registry(t, grammar.NumbersDigits), "12 3")
	_, err = parser.Parse[string](lx.Tokens(), parser.RequireEnd())
	pe, ok := parser.AsParseError(err)
	if !ok || pe.Kind != parser.UnexpectedToken {
		t.Fatalf("Parse() error = %v, want unexpected token", err)
	}
	if got := lx.Offset(pe.Index); got != 3 {
		t.Errorf("Offset(%d) = %d, want 3", pe.Index, got)
	}
}
