// File: visit.go
// Title: Tree Evaluation
// Description: Evaluates expression trees with the same operations the
//              Evaluator applies while parsing.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial implementation

package calc

import (
	"github.com/msto63/pratt/foundation/pratt/ast"
)

// EvalNode evaluates a tree. Every branch is evaluated before a ternary
// or conditional selects one, as happens when evaluating while parsing,
// so both paths fail on the same inputs.
func EvalNode(n ast.Node) (Value, error) {
	v, err := n.Accept(evalVisitor{})
	if err != nil {
		return Value{}, err
	}
	return v.(Value), nil
}

type evalVisitor struct{}

func (ev evalVisitor) eval(nodes ...ast.Node) ([]Value, error) {
	values := make([]Value, len(nodes))
	for i, n := range nodes {
		v, err := EvalNode(n)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

func (ev evalVisitor) VisitNumber(n *ast.Number) (interface{}, error) {
	return Number(n.Value), nil
}

func (ev evalVisitor) VisitBool(n *ast.Bool) (interface{}, error) {
	return Bool(n.Value), nil
}

func (ev evalVisitor) VisitUnary(n *ast.Unary) (interface{}, error) {
	v, err := ev.eval(n.Operand)
	if err != nil {
		return nil, err
	}
	return Unary(n.Op, v[0])
}

func (ev evalVisitor) VisitPostfix(n *ast.Postfix) (interface{}, error) {
	v, err := ev.eval(n.Operand)
	if err != nil {
		return nil, err
	}
	return Unary(n.Op, v[0])
}

func (ev evalVisitor) VisitBinary(n *ast.Binary) (interface{}, error) {
	v, err := ev.eval(n.Left, n.Right)
	if err != nil {
		return nil, err
	}
	return Binary(n.Op, v[0], v[1])
}

func (ev evalVisitor) VisitTernary(n *ast.Ternary) (interface{}, error) {
	v, err := ev.eval(n.Cond, n.Then, n.Else)
	if err != nil {
		return nil, err
	}
	return Select(v[0], v[1], v[2])
}

func (ev evalVisitor) VisitConditional(n *ast.Conditional) (interface{}, error) {
	v, err := ev.eval(n.Children()...)
	if err != nil {
		return nil, err
	}
	var otherwise *Value
	if len(v) == 3 {
		otherwise = &v[2]
	}
	return If(v[0], v[1], otherwise)
}
