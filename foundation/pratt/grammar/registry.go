// File: registry.go
// Title: Lexeme Registry
// Description: Immutable mapping from lexemes to tokens, consulted by the
//              lexer. Symbols are matched longest first; words are looked
//              up whole. Registries are built once with a Builder and may
//              be shared by concurrent parses.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial implementation

package grammar

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	mdwerror "github.com/msto63/pratt/foundation/core/error"
	"github.com/msto63/pratt/foundation/pratt/parser"
)

// NumberFunc turns a number lexeme such as "12" or "1.5" into a token
type NumberFunc func(lexeme string) (parser.Token, error)

// Registry maps lexemes to tokens
type Registry struct {
	name      string
	symbols   map[string]parser.Token
	words     map[string]parser.Token
	maxSymbol int
	number    NumberFunc
}

// Name returns the name of the grammar the registry was built for
func (r *Registry) Name() string {
	return r.name
}

// Symbol returns the token registered for an exact symbol lexeme
func (r *Registry) Symbol(lexeme string) (parser.Token, bool) {
	t, ok := r.symbols[lexeme]
	return t, ok
}

// Word returns the token registered for a word lexeme
func (r *Registry) Word(lexeme string) (parser.Token, bool) {
	t, ok := r.words[lexeme]
	return t, ok
}

// MatchSymbol returns the longest registered symbol that prefixes input,
// with its byte length
func (r *Registry) MatchSymbol(input string) (parser.Token, int, bool) {
	n := min(r.maxSymbol, len(input))
	for ; n > 0; n-- {
		if t, ok := r.symbols[input[:n]]; ok {
			return t, n, true
		}
	}
	return nil, 0, false
}

// Number returns the number scanner, nil when numbers are made of digit
// tokens registered as symbols
func (r *Registry) Number() NumberFunc {
	return r.number
}

// Lexemes returns all registered lexemes in sorted order
func (r *Registry) Lexemes() []string {
	out := make([]string, 0, len(r.symbols)+len(r.words))
	for s := range r.symbols {
		out = append(out, s)
	}
	for w := range r.words {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of registered lexemes
func (r *Registry) Len() int {
	return len(r.symbols) + len(r.words)
}

// Builder collects registrations. The first error is kept and returned
// by Build.
type Builder struct {
	reg *Registry
	err error
}

// NewBuilder starts a registry for the named grammar
func NewBuilder(name string) *Builder {
	return &Builder{reg: &Registry{
		name:    name,
		symbols: make(map[string]parser.Token),
		words:   make(map[string]parser.Token),
	}}
}

// Add registers tok under lexeme. Lexemes starting with a letter or
// underscore are words, everything else is a symbol.
func (b *Builder) Add(lexeme string, tok parser.Token) *Builder {
	if b.err != nil {
		return b
	}
	if lexeme == "" || strings.ContainsFunc(lexeme, unicode.IsSpace) {
		b.err = mdwerror.Newf("invalid lexeme %q", lexeme).
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("grammar.Builder.Add")
		return b
	}
	if tok == nil {
		b.err = mdwerror.Newf("nil token for lexeme %q", lexeme).
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("grammar.Builder.Add")
		return b
	}

	target := b.reg.symbols
	if IsWord(lexeme) {
		target = b.reg.words
	}
	if _, exists := target[lexeme]; exists {
		b.err = mdwerror.Newf("lexeme %q registered twice", lexeme).
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("grammar.Builder.Add").
			WithDetail("lexeme", lexeme)
		return b
	}

	target[lexeme] = tok
	if !IsWord(lexeme) && len(lexeme) > b.reg.maxSymbol {
		b.reg.maxSymbol = len(lexeme)
	}
	return b
}

// Numbers sets the number scanner
func (b *Builder) Numbers(fn NumberFunc) *Builder {
	b.reg.number = fn
	return b
}

// Build returns the registry or the first registration error. The Builder
// must not be used afterwards.
func (b *Builder) Build() (*Registry, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.reg, nil
}

// IsWord reports whether lexeme is looked up as a word
func IsWord(lexeme string) bool {
	r, _ := utf8.DecodeRuneInString(lexeme)
	return r == '_' || unicode.IsLetter(r)
}
