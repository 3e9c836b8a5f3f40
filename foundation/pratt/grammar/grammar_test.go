// File: grammar_test.go
// Title: Grammar Kit Tests
// Description: Builds the default definition with string semantics that
//              print Lisp-style forms, and checks precedence, associativity
//              and every token variant.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15

package grammar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	mdwerror "github.com/msto63/pratt/foundation/core/error"
	"github.com/msto63/pratt/foundation/pratt/parser"
)

var lispSemantics = Semantics[string]{
	Number:      func(lexeme string) (string, error) { return lexeme, nil },
	Digit:       func(d int) (string, error) { return strconv.Itoa(d), nil },
	AppendDigit: func(left string, d int) (string, error) { return left + strconv.Itoa(d), nil },
	Literal:     func(value string) (string, error) { return value, nil },
	Binary: func(op, left, right string) (string, error) {
		return fmt.Sprintf("(%s %s %s)", op, left, right), nil
	},
	Unary: func(op, operand string) (string, error) {
		return fmt.Sprintf("(%s %s)", op, operand), nil
	},
	Postfix: func(op, operand string) (string, error) {
		return fmt.Sprintf("(%s %s)", op, operand), nil
	},
	Ternary: func(cond, then, otherwise string) (string, error) {
		return fmt.Sprintf("(? %s %s %s)", cond, then, otherwise), nil
	},
	Conditional: func(cond, then string, otherwise *string) (string, error) {
		if otherwise == nil {
			return fmt.Sprintf("(if %s %s)", cond, then), nil
		}
		return fmt.Sprintf("(if %s %s %s)", cond, then, *otherwise), nil
	},
}

// tokensOf looks up space separated lexemes; digit runs are split into
// single digits
func tokensOf(t *testing.T, reg *Registry, input string) []parser.Token {
	t.Helper()
	var out []parser.Token
	for _, field := range strings.Fields(input) {
		if tok, ok := reg.Word(field); ok {
			out = append(out, tok)
			continue
		}
		if tok, ok := reg.Symbol(field); ok {
			out = append(out, tok)
			continue
		}
		for _, c := range field {
			tok, ok := reg.Symbol(string(c))
			if !ok {
				t.Fatalf("no token for %q", field)
			}
			out = append(out, tok)
		}
	}
	return out
}

func parseLisp(t *testing.T, reg *Registry, input string) (string, error) {
	t.Helper()
	return parser.Run[string](parser.SliceSource(tokensOf(t, reg, input)...), parser.RequireEnd())
}

func TestDefaultGrammar(t *testing.T) {
	reg, err := Build(Default(), lispSemantics)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2 * 3", "(add 1 (mul 2 3))"},
		{"( 1 + 2 ) * 3", "(mul (add 1 2) 3)"},
		{"1 - 2 - 3", "(sub (sub 1 2) 3)"},
		{"2 ^ 3 ^ 2", "(pow 2 (pow 3 2))"},
		{"- 3 + 4", "(add (neg 3) 4)"},
		{"+ 5", "(pos 5)"},
		{"2 * - 3", "(mul 2 (neg 3))"},
		{"12 + 345", "(add 12 345)"},
		{"3 ! * 2", "(mul (fact 3) 2)"},
		{"- 3 !", "(fact (neg 3))"},
		{"not 1 = 2", "(not (eq 1 2))"},
		{"1 < 2 ? 3 : 4", "(? (lt 1 2) 3 4)"},
		{"1 ? 2 : 3 ? 4 : 5", "(? 1 2 (? 3 4 5))"},
		{"if true then 1 end", "(if true 1)"},
		{"if 1 > 2 then 3 else 4 end", "(if (gt 1 2) 3 4)"},
		{"if 1 then if 2 then 3 end else 4 end", "(if 1 (if 2 3) 4)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseLisp(t, reg, tt.input)
			if err != nil {
				t.Fatalf("parse(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("parse(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestDefaultGrammarErrors(t *testing.T) {
	reg, err := Build(Default(), lispSemantics)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	tests := []struct {
		input    string
		sentinel error
		expected string
	}{
		{")", parser.ErrMissingPrefixHandler, ""},
		{"( 1 + 2", parser.ErrUnexpectedToken, `")"`},
		{"if 1 then 2", parser.ErrUnexpectedToken, `"end"`},
		{"if 1 2 end", parser.ErrUnexpectedToken, `"then"`},
		{"1 ? 2", parser.ErrUnexpectedToken, `":"`},
		{"1 not", parser.ErrUnexpectedToken, "end of input"},
		{"then", parser.ErrMissingPrefixHandler, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := parseLisp(t, reg, tt.input)
			if !errors.Is(err, tt.sentinel) {
				t.Fatalf("error = %v, want %v", err, tt.sentinel)
			}
			pe, _ := parser.AsParseError(err)
			if pe.Expected != tt.expected {
				t.Errorf("Expected = %q, want %q", pe.Expected, tt.expected)
			}
		})
	}
}

func TestDecimalNumbers(t *testing.T) {
	def := Default()
	def.Numbers = NumbersDecimal

	reg, err := Build(def, lispSemantics)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if reg.Number() == nil {
		t.Fatal("Number() = nil in decimal mode")
	}
	if _, ok := reg.Symbol("1"); ok {
		t.Error("digit symbols registered in decimal mode")
	}

	tok, err := reg.Number()("2.5")
	if err != nil {
		t.Fatalf("Number()(2.5) error = %v", err)
	}
	got, err := parser.Run[string](parser.SliceSource(tok, mustSymbol(t, reg, "*"), tok), parser.RequireEnd())
	if err != nil || got != "(mul 2.5 2.5)" {
		t.Errorf("Run() = %q, %v", got, err)
	}
}

func mustSymbol(t *testing.T, reg *Registry, s string) parser.Token {
	t.Helper()
	tok, ok := reg.Symbol(s)
	if !ok {
		t.Fatalf("symbol %q not registered", s)
	}
	return tok
}

func TestBuildMissingSemantics(t *testing.T) {
	sem := lispSemantics
	sem.Ternary = nil

	_, err := Build(Default(), sem)
	if !mdwerror.HasCode(err, mdwerror.CodeInvalidConfig) {
		t.Errorf("Build() error = %v, want INVALID_CONFIG", err)
	}
	if err == nil || !strings.Contains(err.Error(), "ternary") {
		t.Errorf("Build() error = %v, want mention of ternary", err)
	}
}

func TestBuildWithoutElse(t *testing.T) {
	def := Default()
	def.Conditional.Else = ""

	reg, err := Build(def, lispSemantics)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if _, ok := reg.Word("else"); ok {
		t.Error("else registered although the definition has none")
	}
	got, err := parseLisp(t, reg, "if 1 then 2 end")
	if err != nil || got != "(if 1 2)" {
		t.Errorf("parse() = %q, %v", got, err)
	}
}

func TestTokenMetadata(t *testing.T) {
	reg, err := Build(Default(), lispSemantics)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	tests := []struct {
		lexeme string
		kind   string
		bp     int
		nud    bool
		led    bool
	}{
		{"7", KindDigit, DefaultDigitBP, true, true},
		{"+", KindOperator, 20, true, true},
		{"*", KindOperator, 30, false, true},
		{"!", KindOperator, 50, false, true},
		{"not", KindOperator, 0, true, false},
		{"(", KindGroup, 0, true, false},
		{")", KindDelimiter, 0, false, false},
		{"?", KindOperator, 5, false, true},
		{"if", KindConditional, 0, true, false},
		{"true", KindLiteral, 0, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.lexeme, func(t *testing.T) {
			tok, ok := reg.Word(tt.lexeme)
			if !ok {
				tok, ok = reg.Symbol(tt.lexeme)
			}
			if !ok {
				t.Fatalf("%q not registered", tt.lexeme)
			}
			if k := tok.(parser.Kinded).Kind(); k != tt.kind {
				t.Errorf("Kind() = %s, want %s", k, tt.kind)
			}
			if bp := tok.BindingPower(); bp != tt.bp {
				t.Errorf("BindingPower() = %d, want %d", bp, tt.bp)
			}
			if got := parser.HasPrefix[string](tok); got != tt.nud {
				t.Errorf("HasPrefix = %v, want %v", got, tt.nud)
			}
			if got := parser.HasInfix[string](tok); got != tt.led {
				t.Errorf("HasInfix = %v, want %v", got, tt.led)
			}
			if s := tok.(fmt.Stringer).String(); s != tt.lexeme {
				t.Errorf("String() = %q, want %q", s, tt.lexeme)
			}
		})
	}
}

func TestAssoc(t *testing.T) {
	if AssocLeft.RightBindingPower(20) != 20 {
		t.Error("left associative operators recurse with their own binding power")
	}
	if AssocRight.RightBindingPower(40) != 39 {
		t.Error("right associative operators recurse with one less")
	}
	if a, err := ParseAssoc("RIGHT"); err != nil || a != AssocRight {
		t.Errorf("ParseAssoc(RIGHT) = %v, %v", a, err)
	}
	if _, err := ParseAssoc("middle"); err == nil {
		t.Error("ParseAssoc(middle) should fail")
	}
}
