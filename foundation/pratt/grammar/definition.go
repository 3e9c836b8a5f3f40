// File: definition.go
// Title: Grammar Definitions
// Description: A declarative operator table that can be stored as TOML or
//              YAML. Definitions say which lexemes exist, their binding
//              powers and associativity and which named operation each one
//              performs; Build turns them into a Registry for a concrete
//              result type.
// Author: msto63
// Version: v0.1.1
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial implementation
// - 2026-10-15 v0.1.1: Operators must bind below digit_bp in digit mode

package grammar

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	mdwconfig "github.com/msto63/pratt/foundation/core/config"
	mdwerror "github.com/msto63/pratt/foundation/core/error"
)

// Operator kinds in a definition
const (
	OpInfix   = "infix"
	OpBifix   = "bifix"
	OpPrefix  = "prefix"
	OpPostfix = "postfix"
)

// Number modes in a definition
const (
	// NumbersDigits registers one token per decimal digit
	NumbersDigits = "digits"

	// NumbersDecimal scans whole numbers, optionally with a fraction
	NumbersDecimal = "decimal"
)

// Definition is an operator table
type Definition struct {
	Name        string          `toml:"name" yaml:"name"`
	Numbers     string          `toml:"numbers" yaml:"numbers"`
	DigitBP     int             `toml:"digit_bp,omitempty" yaml:"digit_bp,omitempty"`
	Operators   []OperatorDef   `toml:"operators" yaml:"operators"`
	Groups      []GroupDef      `toml:"groups,omitempty" yaml:"groups,omitempty"`
	Literals    []LiteralDef    `toml:"literals,omitempty" yaml:"literals,omitempty"`
	Ternary     *TernaryDef     `toml:"ternary,omitempty" yaml:"ternary,omitempty"`
	Conditional *ConditionalDef `toml:"conditional,omitempty" yaml:"conditional,omitempty"`
}

// OperatorDef describes one operator token
type OperatorDef struct {
	Symbol   string `toml:"symbol" yaml:"symbol"`
	Kind     string `toml:"kind" yaml:"kind"`
	BP       int    `toml:"bp" yaml:"bp"`
	Assoc    string `toml:"assoc,omitempty" yaml:"assoc,omitempty"`
	Op       string `toml:"op" yaml:"op"`
	PrefixOp string `toml:"prefix_op,omitempty" yaml:"prefix_op,omitempty"`
	PrefixBP int    `toml:"prefix_bp,omitempty" yaml:"prefix_bp,omitempty"`
}

// GroupDef describes a bracket pair
type GroupDef struct {
	Open  string `toml:"open" yaml:"open"`
	Close string `toml:"close" yaml:"close"`
	BP    int    `toml:"bp,omitempty" yaml:"bp,omitempty"`
}

// LiteralDef binds a word to a constant, e.g. true
type LiteralDef struct {
	Word  string `toml:"word" yaml:"word"`
	Value string `toml:"value" yaml:"value"`
}

// TernaryDef describes the cond ? a : b operator
type TernaryDef struct {
	Symbol    string `toml:"symbol" yaml:"symbol"`
	Separator string `toml:"separator" yaml:"separator"`
	BP        int    `toml:"bp" yaml:"bp"`
}

// ConditionalDef describes the if/then/else/end keywords
type ConditionalDef struct {
	If   string `toml:"if" yaml:"if"`
	Then string `toml:"then" yaml:"then"`
	Else string `toml:"else" yaml:"else"`
	End  string `toml:"end" yaml:"end"`
}

// DefaultDigitBP is the binding power of digit tokens. It is higher than
// every operator so adjacent digits always join.
const DefaultDigitBP = 100

// Default returns the built-in arithmetic grammar
func Default() Definition {
	return Definition{
		Name:    "arithmetic",
		Numbers: NumbersDigits,
		DigitBP: DefaultDigitBP,
		Operators: []OperatorDef{
			{Symbol: "=", Kind: OpInfix, BP: 10, Op: "eq"},
			{Symbol: "<", Kind: OpInfix, BP: 10, Op: "lt"},
			{Symbol: ">", Kind: OpInfix, BP: 10, Op: "gt"},
			{Symbol: "+", Kind: OpBifix, BP: 20, Op: "add", PrefixOp: "pos"},
			{Symbol: "-", Kind: OpBifix, BP: 20, Op: "sub", PrefixOp: "neg"},
			{Symbol: "*", Kind: OpInfix, BP: 30, Op: "mul"},
			{Symbol: "/", Kind: OpInfix, BP: 30, Op: "div"},
			{Symbol: "^", Kind: OpInfix, BP: 40, Assoc: "right", Op: "pow"},
			{Symbol: "!", Kind: OpPostfix, BP: 50, Op: "fact"},
			{Symbol: "not", Kind: OpPrefix, BP: 9, Op: "not"},
		},
		Groups:   []GroupDef{{Open: "(", Close: ")"}},
		Literals: []LiteralDef{{Word: "true", Value: "true"}, {Word: "false", Value: "false"}},
		Ternary:  &TernaryDef{Symbol: "?", Separator: ":", BP: 5},
		Conditional: &ConditionalDef{
			If: "if", Then: "then", Else: "else", End: "end",
		},
	}
}

// LoadDefinition reads and validates a definition file
func LoadDefinition(path string) (Definition, error) {
	var def Definition
	if err := mdwconfig.DecodeFile(path, mdwconfig.FormatAuto, &def); err != nil {
		return Definition{}, err
	}
	if err := def.Validate(); err != nil {
		return Definition{}, mdwerror.Wrap(err, "grammar "+path)
	}
	return def, nil
}

// ParseDefinition decodes and validates a definition from text
func ParseDefinition(content string, format mdwconfig.Format) (Definition, error) {
	var def Definition
	if err := mdwconfig.DecodeString(content, format, &def); err != nil {
		return Definition{}, err
	}
	if err := def.Validate(); err != nil {
		return Definition{}, err
	}
	return def, nil
}

// Encode writes the definition in the given format
func (d Definition) Encode(w io.Writer, format mdwconfig.Format) error {
	return mdwconfig.Encode(w, format, d)
}

// Lexemes returns every lexeme the definition declares, in declaration order
func (d Definition) Lexemes() []string {
	var out []string
	for _, op := range d.Operators {
		out = append(out, op.Symbol)
	}
	for _, g := range d.Groups {
		out = append(out, g.Open, g.Close)
	}
	for _, l := range d.Literals {
		out = append(out, l.Word)
	}
	if d.Ternary != nil {
		out = append(out, d.Ternary.Symbol, d.Ternary.Separator)
	}
	if c := d.Conditional; c != nil {
		out = append(out, c.If, c.Then, c.End)
		if c.Else != "" {
			out = append(out, c.Else)
		}
	}
	return out
}

// Validate checks the definition for problems Build would trip over
func (d Definition) Validate() error {
	invalid := func(format string, args ...interface{}) error {
		return mdwerror.Newf(format, args...).
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("grammar.Validate").
			WithDetail("grammar", d.Name)
	}

	switch d.Numbers {
	case "", NumbersDigits, NumbersDecimal:
	default:
		return invalid("unknown number mode %q", d.Numbers)
	}
	if d.DigitBP < 0 {
		return invalid("digit_bp must not be negative")
	}
	if len(d.Operators) == 0 {
		return invalid("grammar %q has no operators", d.Name)
	}
	digitBP := d.DigitBP
	if digitBP == 0 {
		digitBP = DefaultDigitBP
	}

	for i, op := range d.Operators {
		where := fmt.Sprintf("operator %d (%q)", i, op.Symbol)
		switch op.Kind {
		case OpInfix, OpBifix, OpPrefix, OpPostfix:
		default:
			return invalid("%s: unknown kind %q", where, op.Kind)
		}
		if op.BP < 1 {
			return invalid("%s: binding power must be at least 1, got %d", where, op.BP)
		}
		if _, err := ParseAssoc(op.Assoc); err != nil {
			return invalid("%s: unknown associativity %q", where, op.Assoc)
		}
		if strings.TrimSpace(op.Op) == "" {
			return invalid("%s: missing op name", where)
		}
		if op.Kind == OpBifix && op.PrefixOp == "" {
			return invalid("%s: bifix operator needs prefix_op", where)
		}
		if op.PrefixBP < 0 {
			return invalid("%s: prefix_bp must not be negative", where)
		}
		if d.Numbers != NumbersDecimal && (op.BP >= digitBP || op.PrefixBP >= digitBP) {
			return invalid("%s: binding powers must stay below digit_bp %d", where, digitBP)
		}
	}

	for i, g := range d.Groups {
		if g.Open == "" || g.Close == "" {
			return invalid("group %d: open and close are required", i)
		}
		if g.BP < 0 {
			return invalid("group %d: bp must not be negative", i)
		}
	}
	if t := d.Ternary; t != nil {
		if t.Symbol == "" || t.Separator == "" {
			return invalid("ternary: symbol and separator are required")
		}
		if t.BP < 1 {
			return invalid("ternary: binding power must be at least 1, got %d", t.BP)
		}
	}
	if c := d.Conditional; c != nil {
		if c.If == "" || c.Then == "" || c.End == "" {
			return invalid("conditional: if, then and end are required")
		}
	}

	seen := make(map[string]bool)
	for _, lexeme := range d.Lexemes() {
		if lexeme == "" || strings.ContainsFunc(lexeme, unicode.IsSpace) {
			return invalid("invalid lexeme %q", lexeme)
		}
		if unicode.IsDigit(rune(lexeme[0])) || (lexeme[0] == '.' && d.Numbers == NumbersDecimal) {
			return invalid("lexeme %q collides with number syntax", lexeme)
		}
		if seen[lexeme] {
			return invalid("lexeme %q declared twice", lexeme)
		}
		seen[lexeme] = true
	}
	return nil
}
