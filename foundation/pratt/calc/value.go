// File: value.go
// Title: Calculator Values
// Description: The dynamically typed result of evaluating an expression:
//              nothing, a number or a boolean.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial implementation

package calc

import (
	"encoding/json"
	"strconv"
)

// Kind is the type of a Value
type Kind int

const (
	KindNil Kind = iota
	KindNumber
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	default:
		return "nil"
	}
}

// Value is an evaluation result. The zero Value is nil; an if without
// else whose condition is false evaluates to nil.
type Value struct {
	kind Kind
	num  float64
	b    bool
}

// Nil returns the nil value
func Nil() Value { return Value{} }

// Number returns a numeric value
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Bool returns a boolean value
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Kind returns the type of v
func (v Value) Kind() Kind { return v.kind }

// IsNil reports whether v is the nil value
func (v Value) IsNil() bool { return v.kind == KindNil }

// Float returns the number held by v
func (v Value) Float() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// Boolean returns the boolean held by v
func (v Value) Boolean() (bool, bool) {
	return v.b, v.kind == KindBool
}

// Interface returns v as nil, float64 or bool
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	default:
		return nil
	}
}

// Equal reports whether both values have the same kind and content
func (v Value) Equal(o Value) bool {
	return v.kind == o.kind && v.num == o.num && v.b == o.b
}

func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return "nil"
	}
}

// MarshalJSON encodes v as a JSON number, boolean or null
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}
