package rewriter

import (
	"encoding/json"
	"testing"
)

const pi = "3.141592653589793"

func TestRewrite(t *testing.T) {
	tests := []struct {
		name string
		in   string
		mode AngleMode
		want string
	}{
		{"sin degrees", "sin(30)", Degrees, "math.sin((30) * " + pi + " / 180)"},
		{"sin radians", "sin(1.5)", Radians, "math.sin(1.5)"},
		{"cos and tan", "cos(0)+tan(45)", Radians, "math.cos(0)+math.tan(45)"},
		{"degrees wraps whole argument", "sin(30+60)", Degrees, "math.sin((30+60) * " + pi + " / 180)"},
		{"asin degrees", "asin(0.5)", Degrees, "(math.asin(0.5) * 180 / " + pi + ")"},
		{"asin radians", "asin(1)", Radians, "math.asin(1)"},
		{"atan is not rewritten as tan", "atan(1)", Radians, "math.atan(1)"},
		{"log", "log(100)", Degrees, "math.log10(100)"},
		{"ln", "ln(2)", Degrees, "math.log(2)"},
		{"exp", "exp(1)", Degrees, "math.exp(1)"},
		{"misc", "sqrt(16)+abs(-2)+floor(1.5)+ceil(1.2)+round(2.5)", Degrees,
			"math.sqrt(16)+math.abs(-2)+math.floor(1.5)+math.ceil(1.2)+math.round(2.5)"},
		{"factorial", "factorial(5)", Degrees, "calc.factorial(5)"},
		{"power", "2^10", Degrees, "math.pow(2, 10)"},
		{"power stops at operators", "1+2^3*4", Degrees, "1+math.pow(2, 3)*4"},
		{"power keeps spaces", "2 ^ 3", Degrees, "math.pow(2 ,  3)"},
		{"power chain takes longest base", "2^3^2", Degrees, "math.pow(2^3, 2)"},
		{"power after paren not matched", "(1+1)^2", Degrees, "(1+1)^2"},
		{"arg stops at first paren", "sqrt((16))", Degrees, "math.sqrt((16))"},
		{"nested same function left partially", "sqrt(sqrt(16))", Degrees, "math.sqrt(sqrt(16))"},
		{"no functions", "1+2", Degrees, "1+2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Rewrite(tt.in, tt.mode); got != tt.want {
				t.Errorf("Rewrite(%q, %v) =\n  %q\nwant\n  %q", tt.in, tt.mode, got, tt.want)
			}
		})
	}
}

func TestPassesOrder(t *testing.T) {
	want := []string{"trig", "inverse-trig", "log", "misc", "factorial", "power"}
	if len(Passes) != len(want) {
		t.Fatalf("len(Passes) = %d, want %d", len(Passes), len(want))
	}
	for i, p := range Passes {
		if p.Name != want[i] {
			t.Errorf("Passes[%d] = %q, want %q", i, p.Name, want[i])
		}
	}
}

func TestParseAngleMode(t *testing.T) {
	tests := []struct {
		in      string
		want    AngleMode
		wantErr bool
	}{
		{"degrees", Degrees, false},
		{"DEG", Degrees, false},
		{"radians", Radians, false},
		{" rad ", Radians, false},
		{"gradians", Degrees, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAngleMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAngleMode() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseAngleMode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAngleModeTextRoundTrip(t *testing.T) {
	var payload struct {
		Mode AngleMode `json:"mode"`
	}
	if err := json.Unmarshal([]byte(`{"mode":"radians"}`), &payload); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if payload.Mode != Radians {
		t.Errorf("Mode = %v, want radians", payload.Mode)
	}
	if payload.Mode.Toggle() != Degrees || Degrees.Toggle() != Radians {
		t.Error("Toggle() mismatch")
	}
	if err := json.Unmarshal([]byte(`{"mode":"turns"}`), &payload); err == nil {
		t.Error("Unmarshal() should reject unknown modes")
	}
}
