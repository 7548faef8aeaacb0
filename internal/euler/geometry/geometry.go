// Package geometry answers named area, volume, perimeter and distance
// queries written as keywords followed by key=value parameters.
package geometry

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	eulererr "github.com/msto63/euler/foundation/core/error"
	"github.com/msto63/euler/internal/euler/format"
)

// NotRecognized is returned, without error, when no query keyword matches.
const NotRecognized = "Geometry calculation not recognized"

const (
	UnitSquare = "square units"
	UnitCubic  = "cubic units"
	UnitLinear = "units"
)

const num = `(\d+\.?\d*)`

// Query is one recognized geometry request.
type Query struct {
	Keyword string // dispatch keyword, e.g. "area circle"
	Name    string // shape and measure, e.g. "circle area"
	Usage   string
	Unit    string
	pattern *regexp.Regexp
	compute func(v []float64) (float64, error)
}

// Queries are tried in order; the first keyword contained in the
// lowercased expression wins.
var Queries = []Query{
	{
		Keyword: "area circle",
		Name:    "circle area",
		Usage:   "area circle r=5",
		Unit:    UnitSquare,
		pattern: regexp.MustCompile(`r\s*=\s*` + num),
		compute: func(v []float64) (float64, error) {
			return math.Pi * v[0] * v[0], nil
		},
	},
	{
		Keyword: "area triangle",
		Name:    "triangle area",
		Usage:   "area triangle a=3 b=4 c=5",
		Unit:    UnitSquare,
		pattern: regexp.MustCompile(`a\s*=\s*` + num + `\s+b\s*=\s*` + num + `\s+c\s*=\s*` + num),
		compute: heron,
	},
	{
		Keyword: "area rectangle",
		Name:    "rectangle area",
		Usage:   "area rectangle l=5 w=3",
		Unit:    UnitSquare,
		pattern: regexp.MustCompile(`l\s*=\s*` + num + `\s+w\s*=\s*` + num),
		compute: func(v []float64) (float64, error) {
			return v[0] * v[1], nil
		},
	},
	{
		Keyword: "volume sphere",
		Name:    "sphere volume",
		Usage:   "volume sphere r=5",
		Unit:    UnitCubic,
		pattern: regexp.MustCompile(`r\s*=\s*` + num),
		compute: func(v []float64) (float64, error) {
			r := v[0]
			return (4.0 / 3.0) * math.Pi * r * r * r, nil
		},
	},
	{
		Keyword: "volume cylinder",
		Name:    "cylinder volume",
		Usage:   "volume cylinder r=3 h=5",
		Unit:    UnitCubic,
		pattern: regexp.MustCompile(`r\s*=\s*` + num + `\s+h\s*=\s*` + num),
		compute: func(v []float64) (float64, error) {
			return math.Pi * v[0] * v[0] * v[1], nil
		},
	},
	{
		Keyword: "perimeter circle",
		Name:    "circle perimeter",
		Usage:   "perimeter circle r=5",
		Unit:    UnitLinear,
		pattern: regexp.MustCompile(`r\s*=\s*` + num),
		compute: func(v []float64) (float64, error) {
			return 2 * math.Pi * v[0], nil
		},
	},
	{
		Keyword: "distance",
		Name:    "distance",
		Usage:   "distance (x1,y1) (x2,y2)",
		Unit:    UnitLinear,
		pattern: regexp.MustCompile(`\(` + num + `,\s*` + num + `\)\s+\(` + num + `,\s*` + num + `\)`),
		compute: func(v []float64) (float64, error) {
			dx, dy := v[2]-v[0], v[3]-v[1]
			return math.Sqrt(dx*dx + dy*dy), nil
		},
	},
}

// Solve matches expr against the known queries and returns the formatted
// measurement with its unit.
func Solve(expr string) (string, error) {
	lower := strings.ToLower(expr)
	for _, q := range Queries {
		if strings.Contains(lower, q.Keyword) {
			return q.solve(lower)
		}
	}
	return NotRecognized, nil
}

func (q Query) solve(expr string) (string, error) {
	m := q.pattern.FindStringSubmatch(expr)
	if m == nil {
		return "", eulererr.New("Invalid "+q.Name+" format. Use: "+q.Usage).
			WithCode(eulererr.CodeInvalidFormat).
			WithOperation("geometry.Solve").
			WithDetail("query", q.Keyword)
	}

	values := make([]float64, 0, len(m)-1)
	for _, s := range m[1:] {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return "", eulererr.Wrap(err, "Invalid "+q.Name+" format. Use: "+q.Usage).
				WithCode(eulererr.CodeInvalidFormat).
				WithOperation("geometry.Solve")
		}
		values = append(values, v)
	}

	result, err := q.compute(values)
	if err != nil {
		return "", err
	}
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return "", eulererr.New("Geometry result is not a finite number").
			WithCode(eulererr.CodeDomainError).
			WithOperation("geometry.Solve").
			WithDetail("query", q.Keyword)
	}
	return format.WithUnit(result, q.Unit), nil
}

// heron computes a triangle's area from its three sides.
func heron(v []float64) (float64, error) {
	a, b, c := v[0], v[1], v[2]
	s := (a + b + c) / 2
	product := s * (s - a) * (s - b) * (s - c)
	if product < 0 {
		return 0, eulererr.Newf("Invalid triangle: sides %s, %s and %s violate the triangle inequality",
			format.Number(a), format.Number(b), format.Number(c)).
			WithCode(eulererr.CodeDomainError).
			WithOperation("geometry.heron")
	}
	return math.Sqrt(product), nil
}
