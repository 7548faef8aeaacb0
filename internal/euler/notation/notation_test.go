package notation

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "1+2", "1+2"},
		{"multiply sign", "3×4", "3*4"},
		{"divide sign", "8÷2", "8/2"},
		{"unicode minus", "5−3", "5-3"},
		{"pi symbol", "π", "3.141592653589793"},
		{"PI token", "PI/2", "3.141592653589793/2"},
		{"E token", "E", "2.718281828459045"},
		{"lowercase pi untouched", "pi", "pi"},
		{"lowercase e untouched", "e", "e"},
		{"digit paren", "2(3+1)", "2*(3+1)"},
		{"paren digit", "(3+1)2", "(3+1)*2"},
		{"digit pi symbol", "2π", "2*3.141592653589793"},
		{"digit PI", "2PI", "2*3.141592653589793"},
		{"digit E", "3E", "3*2.718281828459045"},
		{"both sides", "2(1)3", "2*(1)*3"},
		{"PI paren not multiplied", "PI(2)", "3.141592653589793(2)"},
		{"function not multiplied", "2sin(30)", "2sin(30)"},
		{"paren paren not multiplied", "(1)(2)", "(1)(2)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
