// File: nodes.go
// Title: Expression Tree Nodes
// Description: Node types produced by the tree-building grammar. Every node
//              prints itself Lisp style with String and as an indented
//              tree with Pretty.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial implementation

package ast

import (
	"strconv"
	"strings"
)

// Node is an expression tree node
type Node interface {
	// String returns the Lisp-style form, e.g. (+ 1 (* 2 3))
	String() string

	// Pretty returns the indented multi-line form
	Pretty(indent string) string

	// Accept implements the visitor pattern
	Accept(v Visitor) (interface{}, error)

	// Children returns the direct sub-nodes in source order
	Children() []Node
}

// Indent is the per-level indentation of Pretty
const Indent = "  "

// Number is a numeric literal
type Number struct {
	Value float64
	Text  string
}

// Bool is a boolean literal
type Bool struct {
	Value bool
}

// Unary is a prefix operation. Op names the operation, Symbol is the
// operator as written.
type Unary struct {
	Op      string
	Symbol  string
	Operand Node
}

// Binary is an infix operation
type Binary struct {
	Op     string
	Symbol string
	Left   Node
	Right  Node
}

// Postfix is an operation written after its operand
type Postfix struct {
	Op      string
	Symbol  string
	Operand Node
}

// Ternary is cond ? then : else
type Ternary struct {
	Cond Node
	Then Node
	Else Node
}

// Conditional is if cond then a [else b] end. Else is nil when absent.
type Conditional struct {
	Cond Node
	Then Node
	Else Node
}

func (n *Number) String() string {
	if n.Text != "" {
		return n.Text
	}
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

func (n *Number) Pretty(indent string) string { return indent + n.String() }
func (n *Number) Children() []Node           { return nil }

func (n *Bool) String() string              { return strconv.FormatBool(n.Value) }
func (n *Bool) Pretty(indent string) string { return indent + n.String() }
func (n *Bool) Children() []Node            { return nil }

func (n *Unary) String() string   { return form(n.Symbol, n.Operand) }
func (n *Unary) Children() []Node { return []Node{n.Operand} }
func (n *Unary) Pretty(indent string) string {
	return pretty(indent, n.Symbol, n.Operand)
}

func (n *Binary) String() string   { return form(n.Symbol, n.Left, n.Right) }
func (n *Binary) Children() []Node { return []Node{n.Left, n.Right} }
func (n *Binary) Pretty(indent string) string {
	return pretty(indent, n.Symbol, n.Left, n.Right)
}

func (n *Postfix) String() string   { return form(n.Symbol, n.Operand) }
func (n *Postfix) Children() []Node { return []Node{n.Operand} }
func (n *Postfix) Pretty(indent string) string {
	return pretty(indent, n.Symbol, n.Operand)
}

func (n *Ternary) String() string   { return form("?", n.Cond, n.Then, n.Else) }
func (n *Ternary) Children() []Node { return []Node{n.Cond, n.Then, n.Else} }
func (n *Ternary) Pretty(indent string) string {
	return pretty(indent, "?", n.Cond, n.Then, n.Else)
}

func (n *Conditional) String() string { return form("if", n.Children()...) }
func (n *Conditional) Pretty(indent string) string {
	return pretty(indent, "if", n.Children()...)
}

func (n *Conditional) Children() []Node {
	if n.Else == nil {
		return []Node{n.Cond, n.Then}
	}
	return []Node{n.Cond, n.Then, n.Else}
}

func form(head string, args ...Node) string {
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(head)
	for _, a := range args {
		b.WriteString(" ")
		b.WriteString(a.String())
	}
	b.WriteString(")")
	return b.String()
}

func pretty(indent, head string, args ...Node) string {
	var b strings.Builder
	b.WriteString(indent)
	b.WriteString("(")
	b.WriteString(head)
	for _, a := range args {
		b.WriteString("\n")
		b.WriteString(a.Pretty(indent + Indent))
	}
	b.WriteString(")")
	return b.String()
}
