// File: visitor.go
// Title: Expression Tree Visitors
// Description: Visitor pattern over expression trees plus small traversal
//              helpers used by the CLI and the evaluation service.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial implementation

package ast

// Visitor is implemented by tree consumers
type Visitor interface {
	VisitNumber(n *Number) (interface{}, error)
	VisitBool(n *Bool) (interface{}, error)
	VisitUnary(n *Unary) (interface{}, error)
	VisitBinary(n *Binary) (interface{}, error)
	VisitPostfix(n *Postfix) (interface{}, error)
	VisitTernary(n *Ternary) (interface{}, error)
	VisitConditional(n *Conditional) (interface{}, error)
}

func (n *Number) Accept(v Visitor) (interface{}, error)      { return v.VisitNumber(n) }
func (n *Bool) Accept(v Visitor) (interface{}, error)        { return v.VisitBool(n) }
func (n *Unary) Accept(v Visitor) (interface{}, error)       { return v.VisitUnary(n) }
func (n *Binary) Accept(v Visitor) (interface{}, error)      { return v.VisitBinary(n) }
func (n *Postfix) Accept(v Visitor) (interface{}, error)     { return v.VisitPostfix(n) }
func (n *Ternary) Accept(v Visitor) (interface{}, error)     { return v.VisitTernary(n) }
func (n *Conditional) Accept(v Visitor) (interface{}, error) { return v.VisitConditional(n) }

// BaseVisitor visits every child and returns nil. Embed it and override
// the methods of interest; overridden methods must visit children
// themselves.
type BaseVisitor struct {
	// Self is the outer visitor children are dispatched to; nil means
	// the BaseVisitor itself
	Self Visitor
}

func (b *BaseVisitor) self() Visitor {
	if b.Self != nil {
		return b.Self
	}
	return b
}

func (b *BaseVisitor) children(n Node) (interface{}, error) {
	for _, c := range n.Children() {
		if _, err := c.Accept(b.self()); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func (b *BaseVisitor) VisitNumber(*Number) (interface{}, error)        { return nil, nil }
func (b *BaseVisitor) VisitBool(*Bool) (interface{}, error)            { return nil, nil }
func (b *BaseVisitor) VisitUnary(n *Unary) (interface{}, error)        { return b.children(n) }
func (b *BaseVisitor) VisitBinary(n *Binary) (interface{}, error)      { return b.children(n) }
func (b *BaseVisitor) VisitPostfix(n *Postfix) (interface{}, error)    { return b.children(n) }
func (b *BaseVisitor) VisitTernary(n *Ternary) (interface{}, error)    { return b.children(n) }
func (b *BaseVisitor) VisitConditional(n *Conditional) (interface{}, error) {
	return b.children(n)
}

// Walk calls fn for n and its descendants in depth-first pre-order.
// Returning false from fn skips the children of that node.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children() {
		Walk(c, fn)
	}
}

// Count returns the number of nodes in the tree
func Count(n Node) int {
	count := 0
	Walk(n, func(Node) bool {
		count++
		return true
	})
	return count
}

// Depth returns the height of the tree; a single leaf has depth 1
func Depth(n Node) int {
	if n == nil {
		return 0
	}
	deepest := 0
	for _, c := range n.Children() {
		deepest = max(deepest, Depth(c))
	}
	return deepest + 1
}
