// Package notation canonicalizes display notation before rewriting.
package notation

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// display symbol → canonical token
	symbols = strings.NewReplacer(
		"×", "*",
		"÷", "/",
		"−", "-",
		"π", "PI",
	)

	digitParen    = regexp.MustCompile(`(\d)\(`)
	parenDigit    = regexp.MustCompile(`\)(\d)`)
	digitConstant = regexp.MustCompile(`(\d)(PI|E)`)

	// Pi and E in shortest round-trip form
	Pi = strconv.FormatFloat(math.Pi, 'g', -1, 64)
	E  = strconv.FormatFloat(math.E, 'g', -1, 64)
)

// Normalize rewrites display symbols, inserts the implicit multiplications
// digit-paren, paren-digit and digit-constant, then substitutes the
// uppercase constants PI and E with their values.
//
// Only those adjacency cases are handled: "PI(" or "2sin(" are left as is.
func Normalize(expr string) string {
	expr = symbols.Replace(expr)

	expr = digitParen.ReplaceAllString(expr, "${1}*(")
	expr = parenDigit.ReplaceAllString(expr, ")*${1}")
	expr = digitConstant.ReplaceAllString(expr, "${1}*${2}")

	expr = strings.ReplaceAll(expr, "PI", Pi)
	expr = strings.ReplaceAll(expr, "E", E)

	return expr
}
