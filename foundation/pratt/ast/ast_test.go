// File: ast_test.go
// Title: Expression Tree Tests
// Description: Tests rendering, visitors and traversal helpers.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial implementation

package ast

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func num(v float64) *Number { return &Number{Value: v} }

// (+ (- 3) 4)
func sample() Node {
	return &Binary{
		Op: "add", Symbol: "+",
		Left:  &Unary{Op: "neg", Symbol: "-", Operand: num(3)},
		Right: num(4),
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want string
	}{
		{"number", num(42), "42"},
		{"number text", &Number{Value: 1.5, Text: "1.50"}, "1.50"},
		{"fraction", num(0.25), "0.25"},
		{"bool", &Bool{Value: true}, "true"},
		{"binary", sample(), "(+ (- 3) 4)"},
		{"postfix", &Postfix{Op: "fact", Symbol: "!", Operand: num(3)}, "(! 3)"},
		{"ternary", &Ternary{Cond: &Bool{}, Then: num(1), Else: num(2)}, "(? false 1 2)"},
		{"if else", &Conditional{Cond: &Bool{Value: true}, Then: num(1), Else: num(2)}, "(if true 1 2)"},
		{"if no else", &Conditional{Cond: &Bool{Value: true}, Then: num(1)}, "(if true 1)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPretty(t *testing.T) {
	want := strings.Join([]string{
		"(+",
		"  (-",
		"    3)",
		"  4)",
	}, "\n")

	if diff := cmp.Diff(want, sample().Pretty("")); diff != "" {
		t.Errorf("Pretty() mismatch (-want +got):\n%s", diff)
	}

	if got := num(7).Pretty("    "); got != "    7" {
		t.Errorf("Pretty() = %q, want %q", got, "    7")
	}
}

func TestChildren(t *testing.T) {
	cond := &Conditional{Cond: num(1), Then: num(2)}
	if got := len(cond.Children()); got != 2 {
		t.Errorf("len(Children()) = %d, want 2", got)
	}
	cond.Else = num(3)
	if got := len(cond.Children()); got != 3 {
		t.Errorf("len(Children()) = %d, want 3", got)
	}
}

func TestCountDepth(t *testing.T) {
	tests := []struct {
		name  string
		node  Node
		count int
		depth int
	}{
		{"nil", nil, 0, 0},
		{"leaf", num(1), 1, 1},
		{"sample", sample(), 4, 3},
		{"ternary", &Ternary{Cond: &Bool{}, Then: num(1), Else: sample()}, 7, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Count(tt.node); got != tt.count {
				t.Errorf("Count() = %d, want %d", got, tt.count)
			}
			if got := Depth(tt.node); got != tt.depth {
				t.Errorf("Depth() = %d, want %d", got, tt.depth)
			}
		})
	}
}

func TestWalkPreOrder(t *testing.T) {
	var seen []string
	Walk(sample(), func(n Node) bool {
		seen = append(seen, n.String())
		return true
	})

	want := []string{"(+ (- 3) 4)", "(- 3)", "3", "4"}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Errorf("Walk() order mismatch (-want +got):\n%s", diff)
	}
}

func TestWalkSkip(t *testing.T) {
	var seen int
	Walk(sample(), func(n Node) bool {
		seen++
		_, unary := n.(*Unary)
		return !unary
	})
	if seen != 3 {
		t.Errorf("Walk() visited %d nodes, want 3", seen)
	}
}

// numberCollector overrides one method and relies on BaseVisitor for the rest
type numberCollector struct {
	BaseVisitor
	values []float64
}

func (c *numberCollector) VisitNumber(n *Number) (interface{}, error) {
	c.values = append(c.values, n.Value)
	return nil, nil
}

func TestBaseVisitor(t *testing.T) {
	c := &numberCollector{}
	c.Self = c

	tree := &Conditional{Cond: &Bool{Value: true}, Then: sample(), Else: &Postfix{Symbol: "!", Operand: num(5)}}
	if _, err := tree.Accept(c); err != nil {
		t.Fatalf("Accept() error = %v", err)
	}

	if diff := cmp.Diff([]float64{3, 4, 5}, c.values); diff != "" {
		t.Errorf("visited numbers mismatch (-want +got):\n%s", diff)
	}
}
