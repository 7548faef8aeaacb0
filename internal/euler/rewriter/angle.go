package rewriter

import (
	"fmt"
	"strings"
)

// AngleMode selects how trigonometric arguments and results are interpreted.
type AngleMode int

const (
	// Degrees is the default mode
	Degrees AngleMode = iota
	Radians
)

// String returns "degrees" or "radians".
func (m AngleMode) String() string {
	switch m {
	case Radians:
		return "radians"
	default:
		return "degrees"
	}
}

// Toggle returns the other mode.
func (m AngleMode) Toggle() AngleMode {
	if m == Radians {
		return Degrees
	}
	return Radians
}

// ParseAngleMode parses "degrees"/"deg" or "radians"/"rad", case-insensitive.
func ParseAngleMode(s string) (AngleMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "degrees", "degree", "deg":
		return Degrees, nil
	case "radians", "radian", "rad":
		return Radians, nil
	default:
		return Degrees, fmt.Errorf("invalid angle mode %q, use degrees or radians", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m AngleMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *AngleMode) UnmarshalText(text []byte) error {
	parsed, err := ParseAngleMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
