package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	eulererr "github.com/msto63/euler/foundation/core/error"
	eulerlog "github.com/msto63/euler/foundation/core/log"
	"github.com/msto63/euler/internal/euler/classifier"
	"github.com/msto63/euler/internal/euler/rewriter"
	"github.com/msto63/euler/pkg/core/cache"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name   string
		expr   string
		mode   rewriter.AngleMode
		want   string
		domain classifier.Domain
	}{
		{"degrees trig", "sin(30)", rewriter.Degrees, "0.5", classifier.Math},
		{"radians trig", "sin(1.5707963268)", rewriter.Radians, "1", classifier.Math},
		{"degrees cosine", "cos(60)", rewriter.Degrees, "0.5", classifier.Math},
		{"inverse trig degrees", "asin(1)", rewriter.Degrees, "90", classifier.Math},
		{"precedence", "1 + 2 * 3", rewriter.Degrees, "7", classifier.Math},
		{"implicit multiplication", "2(3+1)", rewriter.Degrees, "8", classifier.Math},
		{"pi symbol", "2π", rewriter.Degrees, "6.2831853072", classifier.Math},
		{"display operators", "3 × 4 ÷ 2", rewriter.Degrees, "6", classifier.Math},
		{"unicode minus", "5 − 7", rewriter.Degrees, "-2", classifier.Math},
		{"power", "2^10", rewriter.Degrees, "1024", classifier.Math},
		{"misc functions", "sqrt(16) + abs(-4)", rewriter.Degrees, "8", classifier.Math},
		{"factorial", "factorial(5)", rewriter.Degrees, "120", classifier.Math},
		{"log", "log(1000)", rewriter.Degrees, "3", classifier.Math},
		{"round", "round(2.5)", rewriter.Degrees, "3", classifier.Math},
		{"float noise removed", "0.1 + 0.2", rewriter.Degrees, "0.3", classifier.Math},
		{"surrounding space", "  7  ", rewriter.Degrees, "7", classifier.Math},
		{"linear equation", "2x + 3 = 7", rewriter.Degrees, "x = 2", classifier.Algebra},
		{"unsolvable equation", "y = 4", rewriter.Degrees, "Could not solve equation", classifier.Algebra},
		{"unsupported algebra", "factor(x^2-4)", rewriter.Degrees, "Factor function not implemented yet", classifier.Algebra},
		{"expand", "expand((a+b)^2)", rewriter.Degrees, "a² + 2(a)(b) + b²", classifier.Algebra},
		{"circle area", "area circle r=5", rewriter.Degrees, "78.5398163397 square units", classifier.Geometry},
		{"triangle area", "area triangle a=3 b=4 c=5", rewriter.Degrees, "6 square units", classifier.Geometry},
		{"distance", "distance (0,0) (3,4)", rewriter.Degrees, "5 units", classifier.Geometry},
		{"geometry priority", "area x=5 and x+2=7", rewriter.Degrees, "Geometry calculation not recognized", classifier.Geometry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Calculate(tt.expr, tt.mode)
			if !res.OK {
				t.Fatalf("Calculate(%q) failed: %s (%s)", tt.expr, res.Message, res.ErrorKind)
			}
			if res.Result != tt.want {
				t.Errorf("Calculate(%q) = %q, want %q", tt.expr, res.Result, tt.want)
			}
			if res.Domain != tt.domain {
				t.Errorf("Calculate(%q) domain = %v, want %v", tt.expr, res.Domain, tt.domain)
			}
		})
	}
}

func TestCalculateErrors(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		kind    eulererr.Code
		message string
	}{
		{"empty", "", eulererr.CodeInvalidExpression, "Invalid expression"},
		{"blank", "   ", eulererr.CodeInvalidExpression, "Invalid expression"},
		{"malformed geometry", "area circle x=5", eulererr.CodeInvalidFormat, "Invalid circle area format. Use: area circle r=5"},
		{"factorial domain", "factorial(-3)", eulererr.CodeDomainError, "Factorial requires non-negative integer"},
		{"division by zero", "1/0", eulererr.CodeInvalidExpression, "Invalid expression"},
		{"invalid equation", "2x + 3 = abc", eulererr.CodeInvalidFormat, "Invalid equation format. Use: 2x + 3 = 7"},
		{"script injection", "alert('x')", eulererr.CodeInvalidExpression, "Invalid expression"},
		{"nan", "sqrt(-1)", eulererr.CodeInvalidExpression, "Invalid expression"},
		{"impossible triangle", "area triangle a=1 b=2 c=10", eulererr.CodeDomainError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Calculate(tt.expr, rewriter.Degrees)
			if res.OK {
				t.Fatalf("Calculate(%q) = %q, want error", tt.expr, res.Result)
			}
			if res.ErrorKind != tt.kind {
				t.Errorf("ErrorKind = %s, want %s", res.ErrorKind, tt.kind)
			}
			if tt.message != "" && res.Message != tt.message {
				t.Errorf("Message = %q, want %q", res.Message, tt.message)
			}
			if res.Result != "" {
				t.Errorf("Result = %q, want empty on failure", res.Result)
			}
		})
	}
}

func TestCalculateResultInvariant(t *testing.T) {
	inputs := []string{"1+1", "1/0", "area circle r=2", "area circle", "x + 1 = 2", "solve(x)", "", "((", "factorial(171)"}
	for _, expr := range inputs {
		res := Calculate(expr, rewriter.Degrees)
		hasResult := res.Result != ""
		hasError := res.ErrorKind != "" || res.Message != ""
		if hasResult == hasError || res.OK != hasResult {
			t.Errorf("Calculate(%q) = %+v violates result/error exclusivity", expr, res)
		}
	}
}

func TestCalculateDeterministic(t *testing.T) {
	for _, expr := range []string{"sin(45)", "area circle r=3", "2x - 1 = 4"} {
		first := Calculate(expr, rewriter.Degrees)
		for i := 0; i < 5; i++ {
			if got := Calculate(expr, rewriter.Degrees); got != first {
				t.Fatalf("Calculate(%q) not deterministic: %+v vs %+v", expr, got, first)
			}
		}
	}
}

func TestCalculatorLogsFailures(t *testing.T) {
	var buf bytes.Buffer
	logger := eulerlog.NewWithConfig(eulerlog.Config{
		Level:  eulerlog.LevelDebug,
		Format: eulerlog.FormatLogfmt,
		Output: &buf,
		Name:   "test",
	})
	calc := NewCalculator(Options{Logger: logger})

	calc.Calculate("1+1", rewriter.Degrees)
	calc.Calculate("1/0", rewriter.Radians)

	out := buf.String()
	if !strings.Contains(out, "calculate completed") {
		t.Errorf("missing completion line:\n%s", out)
	}
	if !strings.Contains(out, "error_code=INVALID_EXPRESSION") {
		t.Errorf("missing error code:\n%s", out)
	}
	if !strings.Contains(out, `angle_mode="radians"`) {
		t.Errorf("missing angle mode:\n%s", out)
	}
}

func TestCalculatorLimits(t *testing.T) {
	calc := NewCalculator(Options{MaxInputLength: 8})
	if res := calc.Calculate("1+2+3+4+5", rewriter.Degrees); res.OK || res.ErrorKind != eulererr.CodeInvalidExpression {
		t.Errorf("Calculate() = %+v, want INVALID_EXPRESSION", res)
	}
}

func TestCalculatorLimitsApplyToRawInput(t *testing.T) {
	// each term grows about five times when rewritten for degrees
	long := strings.Repeat("sin(30)+", 100) + "0"
	res := NewCalculator(Options{}).Calculate(long, rewriter.Degrees)
	if !res.OK || res.Result != "50" {
		t.Errorf("Calculate(%d chars) = %+v, want 50", len(long), res)
	}

	calc := NewCalculator(Options{MaxInputLength: len(long)})
	if res := calc.Calculate("  "+long+"  ", rewriter.Degrees); !res.OK {
		t.Errorf("surrounding whitespace counted against the limit: %+v", res)
	}
	if res := calc.Calculate(long+"+1", rewriter.Degrees); res.OK || res.ErrorKind != eulererr.CodeInvalidExpression {
		t.Errorf("Calculate() over limit = %+v, want INVALID_EXPRESSION", res)
	}

	short := NewCalculator(Options{MaxInputLength: 20})
	if res := short.Calculate("area triangle a=3 b=4 c=5", rewriter.Degrees); res.OK || res.ErrorKind != eulererr.CodeInvalidExpression {
		t.Errorf("geometry over limit = %+v, want INVALID_EXPRESSION", res)
	}
	if res := short.Calculate("2x + 3 = 7", rewriter.Degrees); !res.OK {
		t.Errorf("algebra within limit = %+v", res)
	}
}

func TestNewCalculatorDefaultLoggerIsQuiet(t *testing.T) {
	buf := &bytes.Buffer{}
	saved := defaultLogOutput
	defaultLogOutput = buf
	t.Cleanup(func() { defaultLogOutput = saved })

	calc := NewCalculator(Options{})
	if res := calc.Calculate("1/0", rewriter.Degrees); res.OK {
		t.Errorf("Calculate(1/0) = %+v", res)
	}
	if res := calc.Calculate("sqrt(-1)", rewriter.Degrees); res.OK {
		t.Errorf("Calculate(sqrt(-1)) = %+v", res)
	}
	if res, err := NewSession(calc, nil, rewriter.Degrees).Calculate(context.Background(), "2+2"); err != nil || res.Result != "4" {
		t.Errorf("Session.Calculate() = %+v, %v", res, err)
	}
	if buf.Len() != 0 {
		t.Errorf("default logger wrote failures:\n%s", buf.String())
	}
}

func TestCalculatorCache(t *testing.T) {
	results := cache.New[string, Result](cache.Config{MaxItems: 16})
	calc := NewCalculator(Options{Cache: results})

	first := calc.Calculate(" sin(90) ", rewriter.Degrees)
	second := calc.Calculate("sin(90)", rewriter.Degrees)
	if first != second || first.Result != "1" {
		t.Errorf("cached result = %+v, first = %+v", second, first)
	}

	// the angle mode is part of the key
	if res := calc.Calculate("sin(90)", rewriter.Radians); res.Result != "0.8939966636" {
		t.Errorf("radians result = %+v", res)
	}

	if res := calc.Calculate("1/0", rewriter.Degrees); res.OK {
		t.Errorf("Calculate(1/0) = %+v", res)
	}
	if res := calc.Calculate("1/0", rewriter.Degrees); res.ErrorKind != eulererr.CodeInvalidExpression {
		t.Errorf("cached failure = %+v", res)
	}

	stats := results.Stats()
	if stats.Size != 3 || stats.Hits != 2 || stats.Misses != 3 {
		t.Errorf("Stats() = %+v", stats)
	}
}

func TestResultErr(t *testing.T) {
	ok := Result{OK: true, Result: "2"}
	if ok.Err() != nil || ok.String() != "2" {
		t.Errorf("success result: %v %q", ok.Err(), ok.String())
	}

	failed := Result{ErrorKind: eulererr.CodeDomainError, Message: "bad"}
	if !eulererr.HasCode(failed.Err(), eulererr.CodeDomainError) {
		t.Errorf("Err() = %v", failed.Err())
	}
	if failed.String() != "Error: bad" {
		t.Errorf("String() = %q", failed.String())
	}
}

func TestModes(t *testing.T) {
	if ModeBasic.Next() != ModeScientific || ModeGeometry.Next() != ModeBasic {
		t.Error("Next() does not cycle")
	}
	if Mode("bogus").Next() != ModeBasic {
		t.Error("unknown mode should restart at basic")
	}

	m, err := ParseMode(" Geometry ")
	if err != nil || m != ModeGeometry {
		t.Errorf("ParseMode() = %v, %v", m, err)
	}
	if _, err := ParseMode("matrix"); err == nil {
		t.Error("ParseMode() should reject unknown modes")
	}

	// every template is accepted by the calculator
	for _, info := range Modes {
		if info.Placeholder == "" {
			t.Errorf("mode %s has no placeholder", info.Mode)
		}
		for _, tpl := range info.Templates {
			if res := Calculate(tpl, rewriter.Degrees); !res.OK {
				t.Errorf("template %q of %s fails: %s", tpl, info.Mode, res.Message)
			}
		}
	}
}
