// File: codes.go
// Title: Error Code Definitions
// Description: Defines the error codes used across the pratt module. Codes
//              classify failures of the parsing engine, the grammars built
//              on top of it, configuration loading, storage and the
//              evaluation service.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-15
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core error codes
// - 2026-10-15 v0.2.0: Replaced platform codes with parsing and evaluation codes

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeTimeout      Code = "TIMEOUT"

	// Syntax
	CodeMissingPrefix   Code = "MISSING_PREFIX_HANDLER"
	CodeMissingInfix    Code = "MISSING_INFIX_HANDLER"
	CodeUnexpectedToken Code = "UNEXPECTED_TOKEN"
	CodeLexError        Code = "LEX_ERROR"

	// Evaluation
	CodeEvaluation   Code = "EVALUATION_ERROR"
	CodeTypeMismatch Code = "TYPE_MISMATCH"
	CodeDivision     Code = "DIVISION_BY_ZERO"

	// Configuration
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeInvalidConfig Code = "INVALID_CONFIG"

	// Storage
	CodeDatabaseError Code = "DATABASE_ERROR"

	// Service
	CodeServiceUnavailable Code = "SERVICE_UNAVAILABLE"
	CodeNetworkError       Code = "NETWORK_ERROR"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid checks if the error code is a known valid code
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeNotFound, CodeInvalidInput, CodeTimeout,
		CodeMissingPrefix, CodeMissingInfix, CodeUnexpectedToken, CodeLexError,
		CodeEvaluation, CodeTypeMismatch, CodeDivision,
		CodeConfigError, CodeInvalidConfig,
		CodeDatabaseError,
		CodeServiceUnavailable, CodeNetworkError:
		return true
	default:
		return false
	}
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodeMissingPrefix, CodeMissingInfix, CodeUnexpectedToken, CodeLexError:
		return "syntax"
	case CodeEvaluation, CodeTypeMismatch, CodeDivision:
		return "evaluation"
	case CodeConfigError, CodeInvalidConfig:
		return "configuration"
	case CodeDatabaseError:
		return "storage"
	case CodeServiceUnavailable, CodeNetworkError, CodeTimeout:
		return "service"
	default:
		return "generic"
	}
}

// IsUserError reports whether the code describes a problem with the
// submitted input rather than with the system
func (c Code) IsUserError() bool {
	switch c.Category() {
	case "syntax", "evaluation":
		return true
	}
	return c == CodeInvalidInput || c == CodeNotFound
}

// HTTPStatus returns the appropriate HTTP status code for this error code
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return 404
	case CodeInvalidInput, CodeMissingPrefix, CodeMissingInfix, CodeUnexpectedToken, CodeLexError:
		return 400
	case CodeEvaluation, CodeTypeMismatch, CodeDivision:
		return 422
	case CodeTimeout:
		return 408
	case CodeServiceUnavailable, CodeDatabaseError:
		return 503
	default:
		return 500
	}
}
