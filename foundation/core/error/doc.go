// Package error provides structured error handling for Euler.
//
// Package: error
// Title: Euler Error Handling Framework
// Description: This package implements coded errors with contextual details
//              and stack traces. Every failure of the calculator core is an
//              *Error carrying one of the calculation codes, so callers can
//              branch on the code instead of parsing messages.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-16
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with contextual errors and codes
// - 2026-10-16 v0.2.0: Calculation codes
//
// Usage:
//
//	import eulererr "github.com/msto63/euler/foundation/core/error"
//
//	err := eulererr.New("Invalid triangle dimensions").
//		WithCode(eulererr.CodeDomainError).
//		WithDetail("expression", expr)
//
//	if eulererr.HasCode(err, eulererr.CodeDomainError) {
//		// handle domain errors specifically
//	}
package error
