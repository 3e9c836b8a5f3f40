// File: build.go
// Title: Registry Construction
// Description: Builds a Registry for a concrete result type from a
//              Definition and a set of semantic callbacks. The same
//              definition yields an evaluator or a tree builder depending
//              on the callbacks.
// Author: msto63
// Version: v0.1.1
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial implementation
// - 2026-10-15 v0.1.1: Prefix operand of a bifix keeps absorbing digits

package grammar

import (
	"strconv"

	mdwerror "github.com/msto63/pratt/foundation/core/error"
	"github.com/msto63/pratt/foundation/pratt/parser"
)

// Semantics gives meaning to the named operations of a definition
type Semantics[R any] struct {
	// Number converts a number lexeme (decimal mode)
	Number func(lexeme string) (R, error)

	// Digit and AppendDigit build numbers digit by digit (digits mode)
	Digit       func(d int) (R, error)
	AppendDigit func(left R, d int) (R, error)

	// Literal converts the value of a literal word
	Literal func(value string) (R, error)

	Binary      func(op string, left, right R) (R, error)
	Unary       func(op string, operand R) (R, error)
	Postfix     func(op string, operand R) (R, error)
	Ternary     func(cond, then, otherwise R) (R, error)
	Conditional func(cond, then R, otherwise *R) (R, error)
}

// Build validates def and registers one token per lexeme
func Build[R any](def Definition, sem Semantics[R]) (*Registry, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	missing := func(what string) error {
		return mdwerror.Newf("grammar %q needs %s semantics", def.Name, what).
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("grammar.Build")
	}

	b := NewBuilder(def.Name)

	digitBP := def.DigitBP
	if digitBP == 0 {
		digitBP = DefaultDigitBP
	}

	switch def.Numbers {
	case NumbersDecimal:
		if sem.Number == nil {
			return nil, missing("number")
		}
		b.Numbers(func(lexeme string) (parser.Token, error) {
			v, err := sem.Number(lexeme)
			if err != nil {
				return nil, err
			}
			return &Literal[R]{Lexeme: lexeme, Value: v}, nil
		})
	default:
		if sem.Digit == nil || sem.AppendDigit == nil {
			return nil, missing("digit")
		}
		for d := 0; d <= 9; d++ {
			b.Add(strconv.Itoa(d), &Digit[R]{Value: d, BP: digitBP, Make: sem.Digit, Append: sem.AppendDigit})
		}
	}

	for _, op := range def.Operators {
		assoc, _ := ParseAssoc(op.Assoc)
		infix := Infix[R]{Symbol: op.Symbol, Op: op.Op, BP: op.BP, Assoc: assoc, Combine: sem.Binary}

		switch op.Kind {
		case OpInfix:
			if sem.Binary == nil {
				return nil, missing("binary")
			}
			b.Add(op.Symbol, &infix)
		case OpBifix:
			if sem.Binary == nil || sem.Unary == nil {
				return nil, missing("binary and unary")
			}
			prefixBP := op.PrefixBP
			if prefixBP == 0 && def.Numbers != NumbersDecimal {
				// the operand must still absorb the digits that follow
				prefixBP = digitBP - 1
			}
			b.Add(op.Symbol, &Bifix[R]{Infix: infix, PrefixOp: op.PrefixOp, PrefixBP: prefixBP, Unary: sem.Unary})
		case OpPrefix:
			if sem.Unary == nil {
				return nil, missing("unary")
			}
			b.Add(op.Symbol, &Prefix[R]{Symbol: op.Symbol, Op: op.Op, BP: op.BP, Unary: sem.Unary})
		case OpPostfix:
			if sem.Postfix == nil {
				return nil, missing("postfix")
			}
			b.Add(op.Symbol, &Postfix[R]{Symbol: op.Symbol, Op: op.Op, BP: op.BP, Apply: sem.Postfix})
		}
	}

	for _, g := range def.Groups {
		closer := &Delimiter{Lexeme: g.Close}
		b.Add(g.Open, &Group[R]{Open: g.Open, Close: closer, BP: g.BP})
		b.Add(g.Close, closer)
	}

	for _, l := range def.Literals {
		if sem.Literal == nil {
			return nil, missing("literal")
		}
		v, err := sem.Literal(l.Value)
		if err != nil {
			return nil, mdwerror.Wrap(err, "literal "+l.Word).
				WithCode(mdwerror.CodeInvalidConfig).
				WithOperation("grammar.Build")
		}
		b.Add(l.Word, &Literal[R]{Lexeme: l.Word, Value: v})
	}

	if t := def.Ternary; t != nil {
		if sem.Ternary == nil {
			return nil, missing("ternary")
		}
		sep := &Delimiter{Lexeme: t.Separator}
		b.Add(t.Symbol, &Ternary[R]{Symbol: t.Symbol, BP: t.BP, Separator: sep, Select: sem.Ternary})
		b.Add(t.Separator, sep)
	}

	if c := def.Conditional; c != nil {
		if sem.Conditional == nil {
			return nil, missing("conditional")
		}
		cond := &Conditional[R]{
			Keyword: c.If,
			Then:    &Delimiter{Lexeme: c.Then},
			End:     &Delimiter{Lexeme: c.End},
			Build:   sem.Conditional,
		}
		b.Add(c.If, cond).Add(c.Then, cond.Then).Add(c.End, cond.End)
		if c.Else != "" {
			cond.Else = &Delimiter{Lexeme: c.Else}
			b.Add(c.Else, cond.Else)
		}
	}

	return b.Build()
}
