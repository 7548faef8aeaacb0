package evaluator

import (
	"math"
	"strconv"

	eulererr "github.com/msto63/euler/foundation/core/error"
)

// MaxFactorial is the largest argument whose factorial fits in a float64.
const MaxFactorial = 170

type function struct {
	arity int
	call  func(args []float64) (float64, error)
}

func unary(f func(float64) float64) function {
	return function{arity: 1, call: func(args []float64) (float64, error) {
		return f(args[0]), nil
	}}
}

// functions is the complete set of resolvable names.
var functions = map[string]function{
	"math.sin":   unary(math.Sin),
	"math.cos":   unary(math.Cos),
	"math.tan":   unary(math.Tan),
	"math.asin":  unary(math.Asin),
	"math.acos":  unary(math.Acos),
	"math.atan":  unary(math.Atan),
	"math.log10": unary(math.Log10),
	"math.log":   unary(math.Log),
	"math.exp":   unary(math.Exp),
	"math.sqrt":  unary(math.Sqrt),
	"math.abs":   unary(math.Abs),
	"math.floor": unary(math.Floor),
	"math.ceil":  unary(math.Ceil),
	"math.round": unary(RoundHalfUp),
	"math.pow": {arity: 2, call: func(args []float64) (float64, error) {
		return math.Pow(args[0], args[1]), nil
	}},
	"calc.factorial": {arity: 1, call: func(args []float64) (float64, error) {
		return Factorial(args[0])
	}},
}

// Functions returns the resolvable function names.
func Functions() []string {
	names := make([]string, 0, len(functions))
	for name := range functions {
		names = append(names, name)
	}
	return names
}

// RoundHalfUp rounds to the nearest integer, ties toward +Inf:
// 2.5 → 3, -2.5 → -2.
func RoundHalfUp(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	f := math.Floor(x)
	if x-f >= 0.5 {
		return f + 1
	}
	return f
}

// Factorial computes n! for integers 0..MaxFactorial.
func Factorial(n float64) (float64, error) {
	if n < 0 || math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
		return 0, eulererr.New("Factorial requires non-negative integer").
			WithCode(eulererr.CodeDomainError).
			WithOperation("evaluator.Factorial").
			WithDetail("argument", strconv.FormatFloat(n, 'g', -1, 64))
	}
	if n > MaxFactorial {
		return 0, eulererr.New("Invalid expression").
			WithCode(eulererr.CodeInvalidExpression).
			WithOperation("evaluator.Factorial").
			WithDetail("reason", "factorial overflow").
			WithDetail("argument", strconv.FormatFloat(n, 'g', -1, 64))
	}
	return factorial(n), nil
}

func factorial(n float64) float64 {
	if n == 0 || n == 1 {
		return 1
	}
	return n * factorial(n-1)
}
