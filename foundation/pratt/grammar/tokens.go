// File: tokens.go
// Title: Reusable Token Variants
// Description: Token types covering the usual expression forms: literals,
//              digit-by-digit numbers, infix, bifix, prefix and postfix
//              operators, bracket groups, delimiters, the ternary operator
//              and if/then/else/end conditionals. Each variant is generic
//              over the result type and delegates the meaning of an
//              operation to a callback.
// Author: msto63
// Version: v0.1.1
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial implementation
// - 2026-10-15 v0.1.1: Separated digit form

package grammar

import (
	"github.com/msto63/pratt/foundation/pratt/parser"
)

// SuperRight is the operand binding power of prefix forms that should bind
// tighter than every infix operator
const SuperRight = 1000000

// Token kinds reported by Kind()
const (
	KindLiteral     = "literal"
	KindDigit       = "digit"
	KindOperator    = "operator"
	KindGroup       = "group"
	KindDelimiter   = "delimiter"
	KindConditional = "conditional"
)

// Literal is a constant: a number lexeme or a keyword like true
type Literal[R any] struct {
	Lexeme string
	Value  R
}

func (t *Literal[R]) BindingPower() int { return 0 }
func (t *Literal[R]) Kind() string      { return KindLiteral }
func (t *Literal[R]) String() string    { return t.Lexeme }

// Nud returns the constant
func (t *Literal[R]) Nud(*parser.Parser[R]) (R, error) {
	return t.Value, nil
}

// Digit is a single decimal digit. In prefix position it starts a number;
// in infix position it appends itself to the number on its left, so that
// multi-digit numbers need no lexer support.
type Digit[R any] struct {
	Value  int
	BP     int
	Make   func(d int) (R, error)
	Append func(left R, d int) (R, error)
}

func (t *Digit[R]) BindingPower() int { return t.BP }
func (t *Digit[R]) Kind() string      { return KindDigit }
func (t *Digit[R]) String() string    { return string(rune('0' + t.Value)) }

func (t *Digit[R]) Nud(*parser.Parser[R]) (R, error) {
	return t.Make(t.Value)
}

func (t *Digit[R]) Led(_ *parser.Parser[R], left R) (R, error) {
	return t.Append(left, t.Value)
}

// Separated returns the digit as it appears after whitespace. It can only
// start a number; with binding power 0 it never joins the number before it.
func (t *Digit[R]) Separated() parser.Token {
	d := *t
	d.BP = 0
	return &d
}

// Separable is implemented by tokens that change form when whitespace
// precedes them
type Separable interface {
	Separated() parser.Token
}

// Infix is a binary operator
type Infix[R any] struct {
	Symbol  string
	Op      string
	BP      int
	Assoc   Assoc
	Combine func(op string, left, right R) (R, error)
}

func (t *Infix[R]) BindingPower() int { return t.BP }
func (t *Infix[R]) Kind() string      { return KindOperator }
func (t *Infix[R]) String() string    { return t.Symbol }

func (t *Infix[R]) Led(p *parser.Parser[R], left R) (R, error) {
	right, err := p.Expression(t.Assoc.RightBindingPower(t.BP))
	if err != nil {
		var zero R
		return zero, err
	}
	return t.Combine(t.Op, left, right)
}

// Bifix is an operator with both an infix and a prefix form, like minus
type Bifix[R any] struct {
	Infix[R]
	PrefixOp string
	PrefixBP int
	Unary    func(op string, operand R) (R, error)
}

func (t *Bifix[R]) Nud(p *parser.Parser[R]) (R, error) {
	bp := t.PrefixBP
	if bp == 0 {
		bp = SuperRight
	}
	operand, err := p.Expression(bp)
	if err != nil {
		var zero R
		return zero, err
	}
	return t.Unary(t.PrefixOp, operand)
}

// Prefix is an operator that only appears before its operand. BP is the
// binding power of the operand; the token itself never continues an
// expression.
type Prefix[R any] struct {
	Symbol string
	Op     string
	BP     int
	Unary  func(op string, operand R) (R, error)
}

func (t *Prefix[R]) BindingPower() int { return 0 }
func (t *Prefix[R]) Kind() string      { return KindOperator }
func (t *Prefix[R]) String() string    { return t.Symbol }

func (t *Prefix[R]) Nud(p *parser.Parser[R]) (R, error) {
	operand, err := p.Expression(t.BP)
	if err != nil {
		var zero R
		return zero, err
	}
	return t.Unary(t.Op, operand)
}

// Postfix is an operator that follows its operand
type Postfix[R any] struct {
	Symbol string
	Op     string
	BP     int
	Apply  func(op string, operand R) (R, error)
}

func (t *Postfix[R]) BindingPower() int { return t.BP }
func (t *Postfix[R]) Kind() string      { return KindOperator }
func (t *Postfix[R]) String() string    { return t.Symbol }

func (t *Postfix[R]) Led(_ *parser.Parser[R], left R) (R, error) {
	return t.Apply(t.Op, left)
}

// Delimiter has no handlers. Closing brackets and keywords like then or
// end are delimiters; they stop Expression and are consumed with Expect.
type Delimiter struct {
	Lexeme string
	BP     int
}

func (t *Delimiter) BindingPower() int { return t.BP }
func (t *Delimiter) Kind() string      { return KindDelimiter }
func (t *Delimiter) String() string    { return t.Lexeme }

// Group is an opening bracket. It parses a full expression and requires
// its Close delimiter.
type Group[R any] struct {
	Open  string
	Close *Delimiter
	BP    int
}

func (t *Group[R]) BindingPower() int { return t.BP }
func (t *Group[R]) Kind() string      { return KindGroup }
func (t *Group[R]) String() string    { return t.Open }

func (t *Group[R]) Nud(p *parser.Parser[R]) (R, error) {
	var zero R
	inner, err := p.Expression(0)
	if err != nil {
		return zero, err
	}
	if err := p.Expect(parser.Is(t.Close)); err != nil {
		return zero, err
	}
	return inner, nil
}

// Ternary is the right-associative cond ? a : b operator
type Ternary[R any] struct {
	Symbol    string
	BP        int
	Separator *Delimiter
	Select    func(cond, then, otherwise R) (R, error)
}

func (t *Ternary[R]) BindingPower() int { return t.BP }
func (t *Ternary[R]) Kind() string      { return KindOperator }
func (t *Ternary[R]) String() string    { return t.Symbol }

func (t *Ternary[R]) Led(p *parser.Parser[R], cond R) (R, error) {
	var zero R
	then, err := p.Expression(0)
	if err != nil {
		return zero, err
	}
	if err := p.Expect(parser.Is(t.Separator)); err != nil {
		return zero, err
	}
	otherwise, err := p.Expression(t.BP - 1)
	if err != nil {
		return zero, err
	}
	return t.Select(cond, then, otherwise)
}

// Conditional parses if cond then a [else b] end. A missing else branch
// is passed to Build as nil.
type Conditional[R any] struct {
	Keyword string
	Then    *Delimiter
	Else    *Delimiter
	End     *Delimiter
	Build   func(cond, then R, otherwise *R) (R, error)
}

func (t *Conditional[R]) BindingPower() int { return 0 }
func (t *Conditional[R]) Kind() string      { return KindConditional }
func (t *Conditional[R]) String() string    { return t.Keyword }

func (t *Conditional[R]) Nud(p *parser.Parser[R]) (R, error) {
	var zero R

	cond, err := p.Expression(0)
	if err != nil {
		return zero, err
	}
	if err := p.Expect(parser.Is(t.Then)); err != nil {
		return zero, err
	}
	then, err := p.Expression(0)
	if err != nil {
		return zero, err
	}

	var otherwise *R
	if t.Else != nil && p.TryConsume(parser.Is(t.Else)) {
		v, err := p.Expression(0)
		if err != nil {
			return zero, err
		}
		otherwise = &v
	}

	if err := p.Expect(parser.Is(t.End)); err != nil {
		return zero, err
	}
	return t.Build(cond, then, otherwise)
}
