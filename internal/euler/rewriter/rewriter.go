// ============================================================================
// Euler - Free-form Calculator
// ============================================================================
//
// Package:     rewriter
// Description: Expands named functions into the evaluator's fixed namespace
// Author:      Mike Stoffels
// Created:     2025-12-08
// License:     MIT
// ============================================================================

// Package rewriter turns named function calls and the ^ operator into calls
// the evaluator understands. Each pass is a single regular expression scan
// over the whole string; passes never re-scan their own output, so nested
// calls of the same function stay partially unrewritten.
package rewriter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/msto63/euler/internal/euler/notation"
)

// Pass is one rewrite stage.
type Pass struct {
	Name  string
	Apply func(expr string, mode AngleMode) string
}

// argument: the run of non-')' characters up to the first ')'
const arg = `\(([^)]+)\)`

var (
	trigRe    = regexp.MustCompile(`\b(sin|cos|tan)` + arg)
	invTrigRe = regexp.MustCompile(`\b(asin|acos|atan)` + arg)
	logRe     = regexp.MustCompile(`\blog` + arg)
	lnRe      = regexp.MustCompile(`\bln` + arg)
	expRe     = regexp.MustCompile(`\bexp` + arg)
	miscRe    = regexp.MustCompile(`\b(sqrt|abs|floor|ceil|round)` + arg)
	factRe    = regexp.MustCompile(`\bfactorial` + arg)
	powRe     = regexp.MustCompile(`([^*+\-/()]+)\^([^*+\-/()]+)`)
)

// Passes lists the rewrite stages in the order they are applied.
var Passes = []Pass{
	{Name: "trig", Apply: rewriteTrig},
	{Name: "inverse-trig", Apply: rewriteInverseTrig},
	{Name: "log", Apply: rewriteLogs},
	{Name: "misc", Apply: rewriteMisc},
	{Name: "factorial", Apply: rewriteFactorial},
	{Name: "power", Apply: rewritePower},
}

// Rewrite applies every pass once, in order.
func Rewrite(expr string, mode AngleMode) string {
	for _, p := range Passes {
		expr = p.Apply(expr, mode)
	}
	return expr
}

func rewriteTrig(expr string, mode AngleMode) string {
	return trigRe.ReplaceAllStringFunc(expr, func(m string) string {
		sub := trigRe.FindStringSubmatch(m)
		name, angle := sub[1], sub[2]
		if mode == Degrees {
			return fmt.Sprintf("math.%s((%s) * %s / 180)", name, angle, notation.Pi)
		}
		return fmt.Sprintf("math.%s(%s)", name, angle)
	})
}

func rewriteInverseTrig(expr string, mode AngleMode) string {
	return invTrigRe.ReplaceAllStringFunc(expr, func(m string) string {
		sub := invTrigRe.FindStringSubmatch(m)
		name, val := sub[1], sub[2]
		if mode == Degrees {
			return fmt.Sprintf("(math.%s(%s) * 180 / %s)", name, val, notation.Pi)
		}
		return fmt.Sprintf("math.%s(%s)", name, val)
	})
}

func rewriteLogs(expr string, _ AngleMode) string {
	expr = logRe.ReplaceAllString(expr, "math.log10(${1})")
	expr = lnRe.ReplaceAllString(expr, "math.log(${1})")
	expr = expRe.ReplaceAllString(expr, "math.exp(${1})")
	return expr
}

func rewriteMisc(expr string, _ AngleMode) string {
	return miscRe.ReplaceAllString(expr, "math.${1}(${2})")
}

func rewriteFactorial(expr string, _ AngleMode) string {
	return factRe.ReplaceAllString(expr, "calc.factorial(${1})")
}

func rewritePower(expr string, _ AngleMode) string {
	if !strings.Contains(expr, "^") {
		return expr
	}
	return powRe.ReplaceAllString(expr, "math.pow(${1}, ${2})")
}
