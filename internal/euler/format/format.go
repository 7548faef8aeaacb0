// Package format renders calculation results as canonical decimal strings.
package format

import (
	"math"
	"strconv"
)

// Precision is the number of fractional digits kept for non-integral values.
const Precision = 10

// Number formats n for display. Integral values are printed without a
// fractional part; everything else is rounded to Precision decimals with
// trailing zeros removed. The output never uses exponent notation and
// negative zero is printed as "0".
func Number(n float64) string {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}

	if n != math.Trunc(n) {
		// round-trip through the fixed representation to drop trailing zeros
		fixed := strconv.FormatFloat(n, 'f', Precision, 64)
		n, _ = strconv.ParseFloat(fixed, 64)
	}

	if n == 0 {
		return "0"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// WithUnit formats n followed by a space and unit.
func WithUnit(n float64, unit string) string {
	return Number(n) + " " + unit
}
