// Package grammar provides reusable token variants and a declarative way
// to assemble them into a language for the parser engine.
//
// A Definition is an operator table (usually loaded from TOML or YAML).
// Build combines it with Semantics, the callbacks that give each named
// operation a meaning for a concrete result type, and returns a Registry
// the lexer uses to turn text into tokens:
//
//	reg, err := grammar.Build(grammar.Default(), grammar.Semantics[float64]{...})
//
// The same Definition can back an evaluator and a tree builder at the same
// time; only the Semantics differ.
package grammar
