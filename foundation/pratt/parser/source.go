// File: source.go
// Title: Token Sources
// Description: Adapts arbitrary token producers to the pull interface the
//              engine consumes. Every source yields its tokens in order and
//              then End on every further call.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial implementation

package parser

import "iter"

// Source produces the tokens of one parse. After the last real token it
// returns End forever. A Source is single-pass and owned by one Parser.
type Source interface {
	Next() Token
}

// SeqSource pulls tokens lazily from an iter.Seq. A nil token in the
// sequence ends it early.
type SeqSource struct {
	next func() (Token, bool)
	stop func()
	done bool
}

// NewSource wraps seq. Call Stop if the source is abandoned before End.
func NewSource(seq iter.Seq[Token]) *SeqSource {
	next, stop := iter.Pull(seq)
	return &SeqSource{next: next, stop: stop}
}

// Next returns the next token, or End once the sequence is exhausted
func (s *SeqSource) Next() Token {
	if s.done {
		return End
	}
	t, ok := s.next()
	if !ok || t == nil {
		s.Stop()
		return End
	}
	return t
}

// Stop releases the underlying producer. It is safe to call more than once.
func (s *SeqSource) Stop() {
	if s.done {
		return
	}
	s.done = true
	s.stop()
}

type sliceSource struct {
	tokens []Token
	pos    int
}

// SliceSource returns a Source over a fixed list of tokens
func SliceSource(tokens ...Token) Source {
	return &sliceSource{tokens: tokens}
}

func (s *sliceSource) Next() Token {
	if s.pos >= len(s.tokens) || s.tokens[s.pos] == nil {
		s.pos = len(s.tokens)
		return End
	}
	t := s.tokens[s.pos]
	s.pos++
	return t
}

type funcSource struct {
	fn   func() (Token, bool)
	done bool
}

// FuncSource returns a Source that calls fn until it reports false
func FuncSource(fn func() (Token, bool)) Source {
	return &funcSource{fn: fn}
}

func (s *funcSource) Next() Token {
	if s.done {
		return End
	}
	t, ok := s.fn()
	if !ok || t == nil {
		s.done = true
		return End
	}
	return t
}
