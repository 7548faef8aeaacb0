// ============================================================================
// Euler - Free-form Calculator
// ============================================================================
//
// Package:     algebra
// Description: Pattern-based linear equation solver and symbolic stubs
// Author:      Mike Stoffels
// Created:     2025-12-09
// License:     MIT
// ============================================================================

// Package algebra solves linear equations of the form a·x ± b = c and
// answers the solve/expand/factor/simplify commands. Unrecognized requests
// produce a descriptive success string rather than an error.
package algebra

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	eulererr "github.com/msto63/euler/foundation/core/error"
	"github.com/msto63/euler/internal/euler/format"
)

// Fixed outcome strings. All of them are successful results.
const (
	CouldNotSolve          = "Could not solve equation"
	SolveNeedsEquation     = "Solve function requires an equation"
	ExpandLimited          = "Expand function limited to simple cases"
	FactorNotImplemented   = "Factor function not implemented yet"
	SimplifyNotImplemented = "Simplify function not implemented yet"
	NotSupported           = "Algebra calculation not supported yet"

	EquationUsage = "2x + 3 = 7"
)

var (
	linearRe = regexp.MustCompile(`(-?\d*\.?\d*)x\s*([+-])\s*(\d+\.?\d*)`)
	squareRe = regexp.MustCompile(`\(([^+]+)\+([^)]+)\)\^2`)

	// longest numeric prefix, as a lenient float reader would take it
	leadingNumberRe = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

// Solve dispatches an algebra-classified expression. An equation is
// recognized by '=' before any command prefix is considered.
func Solve(expr string) (string, error) {
	lower := strings.ToLower(expr)

	switch {
	case strings.Contains(expr, "="):
		return SolveLinear(expr)
	case strings.HasPrefix(lower, "solve("):
		inner, ok := callArgument(expr, len("solve"))
		if ok && strings.Contains(inner, "=") {
			return SolveLinear(inner)
		}
		return SolveNeedsEquation, nil
	case strings.HasPrefix(lower, "expand("):
		inner, _ := callArgument(expr, len("expand"))
		return Expand(inner), nil
	case strings.HasPrefix(lower, "factor("):
		return FactorNotImplemented, nil
	case strings.HasPrefix(lower, "simplify("):
		return SimplifyNotImplemented, nil
	}
	return NotSupported, nil
}

// SolveLinear solves the first "a x ± b" term found left of '=' against
// the number leading the right side. Only the first two '='-separated
// parts are read.
func SolveLinear(equation string) (string, error) {
	parts := strings.Split(equation, "=")
	left := strings.TrimSpace(parts[0])
	right := ""
	if len(parts) > 1 {
		right = strings.TrimSpace(parts[1])
	}

	m := linearRe.FindStringSubmatch(left)
	if m == nil {
		return CouldNotSolve, nil
	}

	a, ok := coefficient(m[1])
	if !ok {
		return "", invalidEquation(equation, "coefficient is not a number")
	}
	b, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return "", invalidEquation(equation, "constant is not a number")
	}
	c, ok := leadingNumber(right)
	if !ok {
		return "", invalidEquation(equation, "right side is not a number")
	}

	rhs := c + b
	if m[2] == "+" {
		rhs = c - b
	}
	x := rhs / a
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return "", invalidEquation(equation, "equation has no finite solution")
	}
	return "x = " + format.Number(x), nil
}

// Expand handles the single shape (A+B)^2.
func Expand(inner string) string {
	m := squareRe.FindStringSubmatch(inner)
	if m == nil {
		return ExpandLimited
	}
	a := strings.TrimSpace(m[1])
	b := strings.TrimSpace(m[2])
	return a + "² + 2(" + a + ")(" + b + ") + " + b + "²"
}

// callArgument returns the text between the '(' at offset open and its
// matching ')'.
func callArgument(expr string, open int) (string, bool) {
	if open >= len(expr) || expr[open] != '(' {
		return "", false
	}
	depth := 0
	for i := open; i < len(expr); i++ {
		switch expr[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return expr[open+1 : i], true
			}
		}
	}
	return "", false
}

func coefficient(s string) (float64, bool) {
	switch s {
	case "":
		return 1, true
	case "-":
		return -1, true
	}
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

func leadingNumber(s string) (float64, bool) {
	prefix := leadingNumberRe.FindString(s)
	if prefix == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(prefix, 64)
	return v, err == nil
}

func invalidEquation(equation, reason string) error {
	return eulererr.New("Invalid equation format. Use: "+EquationUsage).
		WithCode(eulererr.CodeInvalidFormat).
		WithOperation("algebra.SolveLinear").
		WithDetail("equation", equation).
		WithDetail("reason", reason)
}
