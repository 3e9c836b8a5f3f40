// File: assoc.go
// Title: Operator Associativity
// Description: Associativity of binary operators and the right binding
//              power it implies.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial implementation

package grammar

import (
	"strings"

	mdwerror "github.com/msto63/pratt/foundation/core/error"
)

// Assoc is the associativity of a binary operator
type Assoc int

const (
	AssocLeft Assoc = iota
	AssocRight
)

// String returns "left" or "right"
func (a Assoc) String() string {
	if a == AssocRight {
		return "right"
	}
	return "left"
}

// RightBindingPower returns the bound used to parse the right operand of
// an operator with binding power bp
func (a Assoc) RightBindingPower(bp int) int {
	if a == AssocRight {
		return bp - 1
	}
	return bp
}

// ParseAssoc parses "left", "right" or "" (left)
func ParseAssoc(s string) (Assoc, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "left":
		return AssocLeft, nil
	case "right":
		return AssocRight, nil
	default:
		return AssocLeft, mdwerror.Newf("unknown associativity %q", s).
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("grammar.ParseAssoc")
	}
}
