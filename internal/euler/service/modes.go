package service

import (
	"fmt"
	"strings"
)

// Mode is an input mode. It only changes the hints offered to the user;
// every mode accepts every expression.
type Mode string

const (
	ModeBasic      Mode = "basic"
	ModeScientific Mode = "scientific"
	ModeAlgebra    Mode = "algebra"
	ModeGeometry   Mode = "geometry"
)

// ModeInfo describes the hints of one input mode
type ModeInfo struct {
	Mode        Mode     `json:"mode"`
	Placeholder string   `json:"placeholder"`
	Templates   []string `json:"templates"`
}

// Modes lists the input modes in cycling order.
var Modes = []ModeInfo{
	{
		Mode:        ModeBasic,
		Placeholder: "Enter expression (e.g., 2 + 3 * 4)",
		Templates:   []string{"2 + 3 * 4", "(1 + 2) × 3", "10 ÷ 4"},
	},
	{
		Mode:        ModeScientific,
		Placeholder: "Enter expression (e.g., sin(30), log(100))",
		Templates:   []string{"sin(30)", "log(100)", "sqrt(16)", "factorial(5)", "2^10", "2PI"},
	},
	{
		Mode:        ModeAlgebra,
		Placeholder: "Enter equation (e.g., 2x + 3 = 7, solve(x^2 - 4))",
		Templates:   []string{"2x + 3 = 7", "solve(2x + 3 = 7)", "expand((a+b)^2)"},
	},
	{
		Mode:        ModeGeometry,
		Placeholder: "Enter geometry problem (e.g., area circle r=5)",
		Templates: []string{
			"area circle r=5",
			"area triangle a=3 b=4 c=5",
			"area rectangle l=5 w=3",
			"volume sphere r=5",
			"volume cylinder r=3 h=5",
			"perimeter circle r=5",
			"distance (0,0) (3,4)",
		},
	},
}

// ParseMode parses a mode name, case-insensitive.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := LookupMode(m); !ok {
		return ModeBasic, fmt.Errorf("unknown input mode %q", s)
	}
	return m, nil
}

// LookupMode returns the hints for m.
func LookupMode(m Mode) (ModeInfo, bool) {
	for _, info := range Modes {
		if info.Mode == m {
			return info, true
		}
	}
	return ModeInfo{}, false
}

// Next returns the mode after m, wrapping around.
func (m Mode) Next() Mode {
	for i, info := range Modes {
		if info.Mode == m {
			return Modes[(i+1)%len(Modes)].Mode
		}
	}
	return ModeBasic
}
