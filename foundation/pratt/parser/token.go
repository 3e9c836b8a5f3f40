// File: token.go
// Title: Token Capability Contract
// Description: Defines what the engine requires from a token (a binding
//              power) and the two optional handler capabilities a token may
//              provide: prefix (nud) and infix/postfix (led). Absence of a
//              capability is detected with a type assertion.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial implementation

package parser

// Token is the minimal contract every token value satisfies. Higher binding
// powers bind tighter. Zero is reserved for End; real operators use 1 or more.
type Token interface {
	BindingPower() int
}

// Prefix is implemented by tokens that can start an expression, such as
// literals, unary operators and opening brackets.
type Prefix[R any] interface {
	Token
	Nud(p *Parser[R]) (R, error)
}

// Infix is implemented by tokens that continue an expression, given the
// result parsed so far. Binary and postfix operators both use it.
type Infix[R any] interface {
	Token
	Led(p *Parser[R], left R) (R, error)
}

// Kinded tokens report a category name. OfKind matches on it.
type Kinded interface {
	Kind() string
}

type endToken struct{}

func (endToken) BindingPower() int { return 0 }
func (endToken) Kind() string      { return "end" }
func (endToken) String() string    { return "end of input" }

// End is the sentinel that follows the last real token. It has binding
// power 0 and no handlers, so it stops every Expression loop.
var End Token = endToken{}

// IsEnd reports whether t is the End sentinel
func IsEnd(t Token) bool {
	_, ok := t.(endToken)
	return ok
}

// HasPrefix reports whether t can start an expression for result type R
func HasPrefix[R any](t Token) bool {
	_, ok := t.(Prefix[R])
	return ok
}

// HasInfix reports whether t can continue an expression for result type R
func HasInfix[R any](t Token) bool {
	_, ok := t.(Infix[R])
	return ok
}
