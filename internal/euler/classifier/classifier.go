// Package classifier routes a raw expression to the solver that handles it.
package classifier

import (
	"fmt"
	"regexp"
	"strings"
)

// Domain names the solver family for an expression.
type Domain int

const (
	Math Domain = iota
	Algebra
	Geometry
)

var (
	geometryKeywords = []string{"area", "volume", "perimeter", "distance", "midpoint", "slope"}
	algebraKeywords  = regexp.MustCompile(`(solve|expand|factor|simplify|derivative|integral)([^a-z]|$)`)
)

// String returns "math", "algebra" or "geometry".
func (d Domain) String() string {
	switch d {
	case Algebra:
		return "algebra"
	case Geometry:
		return "geometry"
	default:
		return "math"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Domain) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Domain) UnmarshalText(text []byte) error {
	switch string(text) {
	case "math":
		*d = Math
	case "algebra":
		*d = Algebra
	case "geometry":
		*d = Geometry
	default:
		return fmt.Errorf("unknown domain %q", text)
	}
	return nil
}

// Classify picks the domain of expr. Geometry keywords win over algebra
// keywords, which win over plain arithmetic. Keywords match
// case-insensitively; the variable test looks for a lowercase x, y or z
// together with '='.
//
// Geometry keywords match anywhere. Algebra keywords must not run into a
// following letter, so factorial(5) stays arithmetic.
func Classify(expr string) Domain {
	lower := strings.ToLower(expr)
	if containsAny(lower, geometryKeywords) {
		return Geometry
	}
	if algebraKeywords.MatchString(lower) {
		return Algebra
	}
	if strings.ContainsAny(expr, "xyz") && strings.Contains(expr, "=") {
		return Algebra
	}
	return Math
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
