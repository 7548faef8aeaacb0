// ============================================================================
// Euler - Free-form Calculator
// ============================================================================
//
// Package:     service
// Description: Calculate entry point, session state and input modes
// Author:      Mike Stoffels
// Created:     2025-12-09
// License:     MIT
// ============================================================================

// Package service is the single entry point of the calculator core.
// Calculate classifies a raw expression, routes it to the geometry or
// algebra solver or through normalize → rewrite → evaluate, and converts
// every failure into a structured Result.
package service

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	eulererr "github.com/msto63/euler/foundation/core/error"
	eulerlog "github.com/msto63/euler/foundation/core/log"
	"github.com/msto63/euler/internal/euler/algebra"
	"github.com/msto63/euler/internal/euler/classifier"
	"github.com/msto63/euler/internal/euler/evaluator"
	"github.com/msto63/euler/internal/euler/format"
	"github.com/msto63/euler/internal/euler/geometry"
	"github.com/msto63/euler/internal/euler/notation"
	"github.com/msto63/euler/internal/euler/rewriter"
	"github.com/msto63/euler/pkg/core/cache"
)

// Result is the outcome of one calculation. Exactly one of Result or
// (ErrorKind, Message) is set.
type Result struct {
	OK        bool              `json:"ok"`
	Result    string            `json:"result,omitempty"`
	Domain    classifier.Domain `json:"domain"`
	ErrorKind eulererr.Code     `json:"error_kind,omitempty"`
	Message   string            `json:"message,omitempty"`
}

// Err returns the failure as a coded error, or nil for a success.
func (r Result) Err() error {
	if r.OK {
		return nil
	}
	return eulererr.New(r.Message).WithCode(r.ErrorKind)
}

// String renders the result or the error message.
func (r Result) String() string {
	if r.OK {
		return r.Result
	}
	return "Error: " + r.Message
}

// Options configures a Calculator
type Options struct {
	Logger         *eulerlog.Logger
	MaxInputLength int
	MaxDepth       int
	// Cache memoizes results by angle mode and expression; nil disables it
	Cache *cache.Cache[string, Result]
}

// rewriteGrowth bounds how much longer the rewritten text may be than the
// raw input; "sin(30)" alone grows about five times in degrees mode.
const rewriteGrowth = 16

// defaultLogOutput receives warnings from calculators created without a
// logger. Calculation failures log below warn and stay silent.
var defaultLogOutput io.Writer = os.Stderr

// Calculator holds the evaluator limits and logger. It carries no
// per-calculation state and is safe for concurrent use.
type Calculator struct {
	logger         *eulerlog.Logger
	evaluator      *evaluator.Evaluator
	results        *cache.Cache[string, Result]
	maxInputLength int
}

// NewCalculator creates a calculator with the given options
func NewCalculator(opts Options) *Calculator {
	if opts.Logger == nil {
		opts.Logger = eulerlog.NewWithConfig(eulerlog.Config{
			Level:  eulerlog.LevelWarn,
			Format: eulerlog.FormatLogfmt,
			Output: defaultLogOutput,
			Name:   "euler",
		})
	}
	if opts.MaxInputLength <= 0 {
		opts.MaxInputLength = evaluator.DefaultMaxInputLength
	}
	logger := opts.Logger.WithField("component", "calculator")
	return &Calculator{
		logger:         logger,
		results:        opts.Cache,
		maxInputLength: opts.MaxInputLength,
		evaluator: evaluator.New(evaluator.Options{
			Logger:         opts.Logger,
			MaxInputLength: opts.MaxInputLength * rewriteGrowth,
			MaxDepth:       opts.MaxDepth,
		}),
	}
}

var defaultCalculator = sync.OnceValue(func() *Calculator {
	return NewCalculator(Options{})
})

// Calculate evaluates expr with the default calculator.
func Calculate(expr string, mode rewriter.AngleMode) Result {
	return defaultCalculator().Calculate(expr, mode)
}

// Calculate evaluates a raw expression in the given angle mode. It never
// panics and never returns an error: failures are reported in the Result.
func (c *Calculator) Calculate(expr string, mode rewriter.AngleMode) Result {
	expr = strings.TrimSpace(expr)
	if c.results == nil {
		return c.calculate(expr, mode)
	}

	key := mode.String() + "\x00" + expr
	return c.results.GetOrSet(key, func() Result {
		return c.calculate(expr, mode)
	})
}

func (c *Calculator) calculate(expr string, mode rewriter.AngleMode) Result {
	timer := c.logger.StartTimer("calculate").WithField("angle_mode", mode.String())
	domain, out, err := c.solve(expr, mode)
	timer.WithField("domain", domain.String())

	if err != nil {
		timer.StopWithError(err)
		return failure(domain, err)
	}
	timer.Stop()
	return Result{OK: true, Result: out, Domain: domain}
}

func (c *Calculator) solve(expr string, mode rewriter.AngleMode) (domain classifier.Domain, out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = ""
			err = eulererr.New("Invalid expression").
				WithCode(eulererr.CodeInvalidExpression).
				WithOperation("service.Calculate").
				WithDetail("panic", fmt.Sprint(r))
		}
	}()

	if expr == "" {
		return classifier.Math, "", eulererr.New("Invalid expression").
			WithCode(eulererr.CodeInvalidExpression).
			WithOperation("service.Calculate").
			WithDetail("reason", "empty expression")
	}
	if len(expr) > c.maxInputLength {
		return classifier.Math, "", eulererr.New("Invalid expression").
			WithCode(eulererr.CodeInvalidExpression).
			WithOperation("service.Calculate").
			WithDetail("reason", "input exceeds maximum length").
			WithDetail("length", len(expr)).
			WithDetail("max_length", c.maxInputLength)
	}

	domain = classifier.Classify(expr)
	switch domain {
	case classifier.Geometry:
		out, err = geometry.Solve(expr)
	case classifier.Algebra:
		out, err = algebra.Solve(expr)
	default:
		out, err = c.evaluate(expr, mode)
	}
	return domain, out, err
}

func (c *Calculator) evaluate(expr string, mode rewriter.AngleMode) (string, error) {
	rewritten := rewriter.Rewrite(notation.Normalize(expr), mode)
	value, err := c.evaluator.Evaluate(rewritten)
	if err != nil {
		return "", err
	}
	return format.Number(value), nil
}

// failure maps err onto a Result; anything without a calculation code is
// reported as an invalid expression.
func failure(domain classifier.Domain, err error) Result {
	res := Result{
		Domain:    domain,
		ErrorKind: eulererr.CodeInvalidExpression,
		Message:   "Invalid expression",
	}
	if e, ok := eulererr.As(err); ok && e.Code().IsCalculation() {
		res.ErrorKind = e.Code()
		res.Message = e.Message()
	}
	return res
}
