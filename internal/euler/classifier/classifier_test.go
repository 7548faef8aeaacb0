package classifier

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		expr string
		want Domain
	}{
		{"1+2", Math},
		{"sin(30)", Math},
		{"area circle r=5", Geometry},
		{"VOLUME sphere r=2", Geometry},
		{"distance (0,0) (3,4)", Geometry},
		{"slope of line", Geometry},
		{"area x=5 and x+2=7", Geometry},
		{"2x + 3 = 7", Algebra},
		{"y = 4", Algebra},
		{"solve(2x+3=7)", Algebra},
		{"Factor(x^2-4)", Algebra},
		{"derivative of x", Algebra},
		{"x + 1", Math},
		{"X = 2", Math},
		{"exp(2)", Math},
		{"factorial(5)", Math},
		{"factorial(-3)", Math},
		{"factor(x^2-4)", Algebra},
		{"solve", Algebra},
		{"solved(1)", Math},
		{"3 = 3", Math},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			if got := Classify(tt.expr); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestDomainString(t *testing.T) {
	tests := map[Domain]string{
		Math:       "math",
		Algebra:    "algebra",
		Geometry:   "geometry",
		Domain(42): "math",
	}
	for d, want := range tests {
		if got := d.String(); got != want {
			t.Errorf("Domain(%d).String() = %q, want %q", int(d), got, want)
		}
		text, _ := d.MarshalText()
		if string(text) != want {
			t.Errorf("MarshalText() = %q, want %q", text, want)
		}
	}
}

func TestDomainUnmarshalText(t *testing.T) {
	for _, d := range []Domain{Math, Algebra, Geometry} {
		text, _ := d.MarshalText()
		var got Domain
		if err := got.UnmarshalText(text); err != nil || got != d {
			t.Errorf("UnmarshalText(%q) = %v, %v", text, got, err)
		}
	}

	var d Domain
	if err := d.UnmarshalText([]byte("calculus")); err == nil {
		t.Error("UnmarshalText(calculus) succeeded")
	}
}
