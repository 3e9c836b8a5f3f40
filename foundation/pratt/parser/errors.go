// File: errors.go
// Title: Parse Errors
// Description: The three failure kinds of the engine. Each ParseError names
//              the offending token and its position in the token stream and
//              unwraps to a sentinel so callers can use errors.Is.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial implementation

package parser

import (
	"errors"
	"fmt"

	mdwerror "github.com/msto63/pratt/foundation/core/error"
)

// ErrorKind classifies a ParseError
type ErrorKind int

const (
	// MissingPrefixHandler: a token without Nud appeared where an
	// expression had to start
	MissingPrefixHandler ErrorKind = iota + 1

	// MissingInfixHandler: a token without Led bound tighter than the
	// current right binding power
	MissingInfixHandler

	// UnexpectedToken: Expect found a token its matcher rejected
	UnexpectedToken
)

var (
	ErrMissingPrefixHandler = errors.New("missing prefix handler")
	ErrMissingInfixHandler  = errors.New("missing infix handler")
	ErrUnexpectedToken      = errors.New("unexpected token")
)

// String returns the kind name used in logs and service responses
func (k ErrorKind) String() string {
	switch k {
	case MissingPrefixHandler:
		return "missing_prefix_handler"
	case MissingInfixHandler:
		return "missing_infix_handler"
	case UnexpectedToken:
		return "unexpected_token"
	default:
		return "unknown"
	}
}

// Sentinel returns the error value ParseErrors of this kind unwrap to
func (k ErrorKind) Sentinel() error {
	switch k {
	case MissingPrefixHandler:
		return ErrMissingPrefixHandler
	case MissingInfixHandler:
		return ErrMissingInfixHandler
	default:
		return ErrUnexpectedToken
	}
}

// Code maps the kind to a foundation error code
func (k ErrorKind) Code() mdwerror.Code {
	switch k {
	case MissingPrefixHandler:
		return mdwerror.CodeMissingPrefix
	case MissingInfixHandler:
		return mdwerror.CodeMissingInfix
	default:
		return mdwerror.CodeUnexpectedToken
	}
}

// ParseError describes why a parse stopped
type ParseError struct {
	Kind ErrorKind

	// Token is the offending token; End when input ran out
	Token Token

	// Expected is the matcher description for UnexpectedToken
	Expected string

	// Index is the zero-based ordinal of Token in the stream
	Index int
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case MissingPrefixHandler:
		return fmt.Sprintf("%s cannot start an expression (token %d)", Describe(e.Token), e.Index)
	case MissingInfixHandler:
		return fmt.Sprintf("%s cannot follow an expression (token %d)", Describe(e.Token), e.Index)
	default:
		return fmt.Sprintf("unexpected %s at token %d, expected %s", Describe(e.Token), e.Index, e.Expected)
	}
}

// Unwrap returns the sentinel of the error kind
func (e *ParseError) Unwrap() error {
	return e.Kind.Sentinel()
}

// Code returns the foundation error code of the error kind
func (e *ParseError) Code() mdwerror.Code {
	return e.Kind.Code()
}

// AsParseError extracts a *ParseError from err's chain
func AsParseError(err error) (*ParseError, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
