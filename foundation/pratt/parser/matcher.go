// File: matcher.go
// Title: Token Matchers
// Description: Matchers describe the token Expect and TryConsume look for.
//              A grammar can match by identity, by kind or by an arbitrary
//              predicate on the lookahead.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial implementation

package parser

import (
	"fmt"
	"strconv"
)

// Matcher tests the lookahead token. String describes the expected token
// in UnexpectedToken errors.
type Matcher interface {
	Match(t Token) bool
	String() string
}

type identityMatcher struct {
	want Token
}

// Is matches exactly tok. Tokens compared this way must be comparable;
// pointer tokens compare by identity.
func Is(tok Token) Matcher {
	return identityMatcher{want: tok}
}

func (m identityMatcher) Match(t Token) bool { return t == m.want }
func (m identityMatcher) String() string     { return Describe(m.want) }

type kindMatcher struct {
	kind string
}

// OfKind matches any token whose Kind() equals kind
func OfKind(kind string) Matcher {
	return kindMatcher{kind: kind}
}

func (m kindMatcher) Match(t Token) bool {
	k, ok := t.(Kinded)
	return ok && k.Kind() == m.kind
}

func (m kindMatcher) String() string { return m.kind }

type funcMatcher struct {
	desc string
	fn   func(Token) bool
}

// MatchFunc matches tokens for which fn returns true
func MatchFunc(desc string, fn func(Token) bool) Matcher {
	return funcMatcher{desc: desc, fn: fn}
}

func (m funcMatcher) Match(t Token) bool { return m.fn(t) }
func (m funcMatcher) String() string     { return m.desc }

// EndOfInput matches only the End sentinel
func EndOfInput() Matcher {
	return Is(End)
}

// Describe renders a token for messages: quoted String() when the token
// has one, otherwise its Go type.
func Describe(t Token) string {
	switch v := t.(type) {
	case nil:
		return "<nil>"
	case endToken:
		return v.String()
	case fmt.Stringer:
		return strconv.Quote(v.String())
	default:
		return fmt.Sprintf("%T", t)
	}
}
