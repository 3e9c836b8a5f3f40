// File: errors.go
// Title: Calculator Errors
// Description: Evaluation failures and the input position attached to
//              syntax errors.
// Author: msto63
// Version: v0.1.1
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial implementation
// - 2026-10-15 v0.1.1: Caret column counts runes, not bytes

package calc

import (
	"fmt"
	"strings"
	"unicode/utf8"

	mdwerror "github.com/msto63/pratt/foundation/core/error"
	"github.com/msto63/pratt/foundation/pratt/lexer"
	"github.com/msto63/pratt/foundation/pratt/parser"
)

// EvalError is returned when an operation cannot be applied to its
// operands
type EvalError struct {
	Op      string
	Message string
	code    mdwerror.Code
}

func evalError(code mdwerror.Code, op, format string, args ...interface{}) *EvalError {
	return &EvalError{Op: op, Message: fmt.Sprintf(format, args...), code: code}
}

func (e *EvalError) Error() string {
	if e.Op == "" {
		return e.Message
	}
	return e.Op + ": " + e.Message
}

// Code returns TYPE_MISMATCH, DIVISION_BY_ZERO or EVALUATION_ERROR
func (e *EvalError) Code() mdwerror.Code {
	return e.code
}

// InputError ties a syntax or lex error to its byte offset in the input
type InputError struct {
	Input  string
	Offset int
	Err    error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s (at offset %d)", e.Err.Error(), e.Offset)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// Code returns the code of the wrapped error
func (e *InputError) Code() mdwerror.Code {
	return mdwerror.GetCode(e.Err)
}

// Caret renders the input with a caret under the failing position
func (e *InputError) Caret() string {
	offset := min(max(e.Offset, 0), len(e.Input))
	column := utf8.RuneCountInString(e.Input[:offset])
	return e.Input + "\n" + strings.Repeat(" ", column) + "^"
}

// locate attaches an offset to parse and lex errors; other errors come
// from handlers and pass through unchanged
func locate(lx *lexer.Lexer, err error) error {
	if lexErr := lx.Err(); lexErr != nil {
		return &InputError{Input: lx.Input(), Offset: lx.Offset(-1), Err: lexErr}
	}
	if pe, ok := parser.AsParseError(err); ok {
		return &InputError{Input: lx.Input(), Offset: lx.Offset(pe.Index), Err: err}
	}
	return err
}
