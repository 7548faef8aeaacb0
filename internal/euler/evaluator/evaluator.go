// ============================================================================
// Euler - Free-form Calculator
// ============================================================================
//
// Package:     evaluator
// Description: Closed-grammar arithmetic evaluator for rewritten expressions
// Author:      Mike Stoffels
// Created:     2025-12-08
// License:     MIT
// ============================================================================

// Package evaluator evaluates rewritten expressions. The grammar is closed:
// numbers, + - * /, unary signs, parentheses and calls to the fixed
// math.* and calc.factorial namespace. Anything else is rejected as an
// invalid expression.
package evaluator

import (
	"errors"
	"math"
	"sync"

	eulererr "github.com/msto63/euler/foundation/core/error"
	eulerlog "github.com/msto63/euler/foundation/core/log"
)

const (
	DefaultMaxInputLength = 4096
	DefaultMaxDepth       = 64
)

// Options configures evaluator limits
type Options struct {
	Logger         *eulerlog.Logger
	MaxInputLength int
	MaxDepth       int
}

// Evaluator is safe for concurrent use.
type Evaluator struct {
	logger  *eulerlog.Logger
	options Options
}

// New creates an evaluator; zero limits take the defaults.
func New(opts Options) *Evaluator {
	if opts.Logger == nil {
		opts.Logger = eulerlog.GetDefault()
	}
	if opts.MaxInputLength <= 0 {
		opts.MaxInputLength = DefaultMaxInputLength
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	return &Evaluator{
		logger:  opts.Logger.WithField("component", "evaluator"),
		options: opts,
	}
}

var defaultEvaluator = sync.OnceValue(func() *Evaluator {
	return New(Options{})
})

// Evaluate evaluates expr with the default limits.
func Evaluate(expr string) (float64, error) {
	return defaultEvaluator().Evaluate(expr)
}

// Evaluate parses and evaluates a rewritten expression. A NaN or infinite
// final result is reported as an invalid expression.
func (e *Evaluator) Evaluate(expr string) (float64, error) {
	if len(expr) > e.options.MaxInputLength {
		return 0, invalidExpression("input exceeds maximum length").
			WithDetail("length", len(expr)).
			WithDetail("max_length", e.options.MaxInputLength)
	}

	tree, err := newParser(expr, e.options.MaxDepth).parse()
	if err != nil {
		e.logger.Debug("expression rejected", eulerlog.Fields{
			"expression": expr,
			"error":      err.Error(),
		})
		out := invalidExpression(err.Error())
		var pe *parseError
		if errors.As(err, &pe) {
			out = out.WithDetail("position", pe.Position)
		}
		return 0, out
	}

	result, err := tree.eval()
	if err != nil {
		return 0, err
	}
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0, invalidExpression("result is not a finite number")
	}

	e.logger.Trace("expression evaluated", eulerlog.Fields{
		"expression": expr,
		"result":     result,
	})
	return result, nil
}

func invalidExpression(reason string) *eulererr.Error {
	return eulererr.New("Invalid expression").
		WithCode(eulererr.CodeInvalidExpression).
		WithOperation("evaluator.Evaluate").
		WithDetail("reason", reason)
}
