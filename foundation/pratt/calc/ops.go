// File: ops.go
// Title: Calculator Operations
// Description: The named operations a grammar definition can refer to and
//              their meaning over Values.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial implementation

package calc

import (
	"math"
	"sort"
	"strconv"

	mdwerror "github.com/msto63/pratt/foundation/core/error"
)

// MaxFactorial is the largest operand fact accepts; larger results
// overflow float64
const MaxFactorial = 170

type (
	binaryFunc func(l, r float64) (Value, error)
	unaryFunc  func(v Value) (Value, error)
)

func arith(f func(l, r float64) float64) binaryFunc {
	return func(l, r float64) (Value, error) { return Number(f(l, r)), nil }
}

func compare(f func(l, r float64) bool) binaryFunc {
	return func(l, r float64) (Value, error) { return Bool(f(l, r)), nil }
}

var numericOps = map[string]binaryFunc{
	"add": arith(func(l, r float64) float64 { return l + r }),
	"sub": arith(func(l, r float64) float64 { return l - r }),
	"mul": arith(func(l, r float64) float64 { return l * r }),
	"div": func(l, r float64) (Value, error) {
		if r == 0 {
			return Value{}, evalError(mdwerror.CodeDivision, "div", "division by zero")
		}
		return Number(l / r), nil
	},
	"mod": func(l, r float64) (Value, error) {
		if r == 0 {
			return Value{}, evalError(mdwerror.CodeDivision, "mod", "division by zero")
		}
		return Number(math.Mod(l, r)), nil
	},
	"pow": arith(math.Pow),
	"lt":  compare(func(l, r float64) bool { return l < r }),
	"gt":  compare(func(l, r float64) bool { return l > r }),
	"le":  compare(func(l, r float64) bool { return l <= r }),
	"ge":  compare(func(l, r float64) bool { return l >= r }),
}

var unaryOps = map[string]unaryFunc{
	"neg": numeric("neg", func(f float64) (Value, error) { return Number(-f), nil }),
	"pos": numeric("pos", func(f float64) (Value, error) { return Number(f), nil }),
	"not": func(v Value) (Value, error) {
		b, ok := v.Boolean()
		if !ok {
			return Value{}, mismatch("not", "bool", v)
		}
		return Bool(!b), nil
	},
	"fact": numeric("fact", factorial),
}

func numeric(op string, f func(float64) (Value, error)) unaryFunc {
	return func(v Value) (Value, error) {
		n, ok := v.Float()
		if !ok {
			return Value{}, mismatch(op, "number", v)
		}
		return f(n)
	}
}

func factorial(n float64) (Value, error) {
	if n < 0 || n != math.Trunc(n) {
		return Value{}, evalError(mdwerror.CodeEvaluation, "fact", "operand must be a non-negative integer, got %s", strconv.FormatFloat(n, 'g', -1, 64))
	}
	if n > MaxFactorial {
		return Value{}, evalError(mdwerror.CodeEvaluation, "fact", "operand %g exceeds %d", n, MaxFactorial)
	}
	result := 1.0
	for i := 2.0; i <= n; i++ {
		result *= i
	}
	return Number(result), nil
}

func mismatch(op, want string, got Value) error {
	return evalError(mdwerror.CodeTypeMismatch, op, "expected %s, got %s", want, got.Kind())
}

// Binary applies a binary operation. eq compares values of any kind; the
// others need numbers.
func Binary(op string, l, r Value) (Value, error) {
	if op == "eq" {
		return Bool(l.Equal(r)), nil
	}
	if op == "ne" {
		return Bool(!l.Equal(r)), nil
	}

	f, ok := numericOps[op]
	if !ok {
		return Value{}, evalError(mdwerror.CodeEvaluation, op, "unknown binary operation")
	}
	lf, ok := l.Float()
	if !ok {
		return Value{}, mismatch(op, "number", l)
	}
	rf, ok := r.Float()
	if !ok {
		return Value{}, mismatch(op, "number", r)
	}
	return f(lf, rf)
}

// Unary applies a prefix or postfix operation
func Unary(op string, v Value) (Value, error) {
	f, ok := unaryOps[op]
	if !ok {
		return Value{}, evalError(mdwerror.CodeEvaluation, op, "unknown unary operation")
	}
	return f(v)
}

// Select implements cond ? then : otherwise
func Select(cond, then, otherwise Value) (Value, error) {
	b, ok := cond.Boolean()
	if !ok {
		return Value{}, mismatch("?", "bool", cond)
	}
	if b {
		return then, nil
	}
	return otherwise, nil
}

// If implements if cond then a [else b] end; a false condition without
// an else branch yields nil
func If(cond, then Value, otherwise *Value) (Value, error) {
	b, ok := cond.Boolean()
	if !ok {
		return Value{}, mismatch("if", "bool", cond)
	}
	switch {
	case b:
		return then, nil
	case otherwise != nil:
		return *otherwise, nil
	default:
		return Nil(), nil
	}
}

// Literal converts the value of a literal word
func Literal(value string) (Value, error) {
	switch value {
	case "true":
		return Bool(true), nil
	case "false":
		return Bool(false), nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return Value{}, evalError(mdwerror.CodeEvaluation, "literal", "unsupported literal value %q", value)
	}
	return Number(f), nil
}

// Operations lists the operation names definitions may use
func Operations() (binary, unary []string) {
	binary = []string{"eq", "ne"}
	for name := range numericOps {
		binary = append(binary, name)
	}
	for name := range unaryOps {
		unary = append(unary, name)
	}
	sort.Strings(binary)
	sort.Strings(unary)
	return binary, unary
}
