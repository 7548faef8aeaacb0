// File: codes.go
// Title: Error Code Definitions
// Description: Defines the error codes used across Euler. Calculation codes
//              classify every failure the calculator core can report; the
//              generic codes cover storage, configuration and transport.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-16
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core error codes
// - 2026-10-16 v0.2.0: Calculation codes, trimmed to the codes Euler uses

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

	// Calculation
	CodeInvalidExpression    Code = "INVALID_EXPRESSION"
	CodeInvalidFormat        Code = "INVALID_FORMAT"
	CodeUnsupportedOperation Code = "UNSUPPORTED_OPERATION"
	CodeDomainError          Code = "DOMAIN_ERROR"

	// Database and storage
	CodeDatabaseError    Code = "DATABASE_ERROR"
	CodeConnectionFailed Code = "CONNECTION_FAILED"

	// Configuration and environment
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeMissingConfig Code = "MISSING_CONFIG"
	CodeInvalidConfig Code = "INVALID_CONFIG"

	// Service and network
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
		CodeInvalidExpression, CodeInvalidFormat, CodeUnsupportedOperation, CodeDomainError,
		CodeDatabaseError, CodeConnectionFailed,
		CodeConfigError, CodeMissingConfig, CodeInvalidConfig,
		CodeServiceUnavailable, CodeNetworkError:
		return true
	default:
		return false
	}
}

// IsCalculation reports whether the code belongs to the calculator core.
func (c Code) IsCalculation() bool {
	return c.Category() == "calculation"
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodeInvalidExpression, CodeInvalidFormat, CodeUnsupportedOperation, CodeDomainError:
		return "calculation"
	case CodeDatabaseError, CodeConnectionFailed:
		return "database"
	case CodeConfigError, CodeMissingConfig, CodeInvalidConfig:
		return "configuration"
	case CodeServiceUnavailable, CodeNetworkError:
		return "service"
	default:
		return "generic"
	}
}

// HTTPStatus returns the appropriate HTTP status code for this error code
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return 404
	case CodeInvalidInput, CodeInvalidFormat, CodeInvalidExpression:
		return 400
	case CodeDomainError, CodeUnsupportedOperation:
		return 422
	case CodeTimeout:
		return 408
	case CodeServiceUnavailable, CodeDatabaseError, CodeConnectionFailed:
		return 503
	default:
		return 500
	}
}
