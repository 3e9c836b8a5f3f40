// File: parser.go
// Title: Top-Down Operator Precedence Parser
// Description: The parsing engine. It keeps exactly one token of lookahead
//              and drives the nud/led handlers of the tokens by comparing
//              binding powers. Handlers call back into Expression, Expect
//              and TryConsume to parse their operands.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial implementation

package parser

import (
	"iter"

	mdwlog "github.com/msto63/pratt/foundation/core/log"
)

// Parser holds the state of one parse over one Source. It is not safe for
// concurrent use; create one per parse.
type Parser[R any] struct {
	src       Source
	lookahead Token
	index     int
	depth     int
	logger    *mdwlog.Logger
	opts      options
}

type options struct {
	logger     *mdwlog.Logger
	requireEnd bool
}

// Option configures a Parser
type Option func(*options)

// WithLogger enables trace logging of every handler dispatch
func WithLogger(logger *mdwlog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// RequireEnd makes Run fail with UnexpectedToken when tokens remain after
// the top-level expression. Without it trailing tokens are left unread.
func RequireEnd() Option {
	return func(o *options) {
		o.requireEnd = true
	}
}

// New creates a Parser over src and pulls the first token
func New[R any](src Source, opts ...Option) *Parser[R] {
	p := &Parser[R]{src: src}
	for _, opt := range opts {
		opt(&p.opts)
	}
	if p.opts.logger != nil {
		p.logger = p.opts.logger.WithField("component", "pratt-parser")
	}
	p.lookahead = src.Next()
	return p
}

// Run parses one expression from src at binding power 0
func Run[R any](src Source, opts ...Option) (R, error) {
	return New[R](src, opts...).Run()
}

// Parse is Run over a token sequence
func Parse[R any](seq iter.Seq[Token], opts ...Option) (R, error) {
	src := NewSource(seq)
	defer src.Stop()
	return Run[R](src, opts...)
}

// Run parses the top-level expression
func (p *Parser[R]) Run() (R, error) {
	var zero R

	result, err := p.Expression(0)
	if err != nil {
		return zero, err
	}
	if p.opts.requireEnd {
		if err := p.Expect(EndOfInput()); err != nil {
			return zero, err
		}
	}
	return result, nil
}

// Expression parses an expression whose operators bind tighter than rbp
func (p *Parser[R]) Expression(rbp int) (R, error) {
	var zero R

	p.depth++
	defer func() { p.depth-- }()

	t, idx := p.advance()
	nud, ok := t.(Prefix[R])
	if !ok {
		return zero, &ParseError{Kind: MissingPrefixHandler, Token: t, Index: idx}
	}
	p.trace("nud", t, rbp, idx)

	left, err := nud.Nud(p)
	if err != nil {
		return zero, err
	}

	for p.lookahead.BindingPower() > rbp {
		t, idx = p.advance()
		led, ok := t.(Infix[R])
		if !ok {
			return zero, &ParseError{Kind: MissingInfixHandler, Token: t, Index: idx}
		}
		p.trace("led", t, rbp, idx)

		left, err = led.Led(p, left)
		if err != nil {
			return zero, err
		}
	}

	return left, nil
}

// Expect consumes the lookahead if m matches it and fails with
// UnexpectedToken otherwise
func (p *Parser[R]) Expect(m Matcher) error {
	if !m.Match(p.lookahead) {
		return &ParseError{
			Kind:     UnexpectedToken,
			Token:    p.lookahead,
			Expected: m.String(),
			Index:    p.index,
		}
	}
	p.advance()
	return nil
}

// TryConsume consumes the lookahead if m matches it and reports whether it did
func (p *Parser[R]) TryConsume(m Matcher) bool {
	if !m.Match(p.lookahead) {
		return false
	}
	p.advance()
	return true
}

// Peek returns the lookahead without consuming it
func (p *Parser[R]) Peek() Token {
	return p.lookahead
}

// Consumed returns the number of tokens consumed so far
func (p *Parser[R]) Consumed() int {
	return p.index
}

// AtEnd reports whether all real tokens have been consumed
func (p *Parser[R]) AtEnd() bool {
	return IsEnd(p.lookahead)
}

func (p *Parser[R]) advance() (Token, int) {
	t, idx := p.lookahead, p.index
	if !IsEnd(t) {
		p.index++
	}
	p.lookahead = p.src.Next()
	return t, idx
}

func (p *Parser[R]) trace(handler string, t Token, rbp, idx int) {
	if !p.logger.IsLevelEnabled(mdwlog.LevelTrace) {
		return
	}
	p.logger.Trace("dispatch "+handler, mdwlog.Fields{
		"token":         Describe(t),
		"binding_power": t.BindingPower(),
		"rbp":           rbp,
		"index":         idx,
		"depth":         p.depth,
	})
}
