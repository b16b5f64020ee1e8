package normalize

import (
	"testing"
)

func TestAsInteger(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want interface{}
	}{
		{"plain", "42", int64(42)},
		{"leading zeros", "007", int64(7)},
		{"currency formatting", "$1,234", int64(1234)},
		{"negative", "-15", int64(-15)},
		{"empty", "", nil},
		{"whitespace", "   ", nil},
		{"not a number", "abc", nil},
		{"lone minus", "-", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := asInteger(tt.in); got != tt.want {
				t.Errorf("asInteger(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestAsFloat(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want interface{}
	}{
		{"thousand separators", "1,234.50", 1234.50},
		{"plain", "99.9", 99.9},
		{"integer-shaped", "100", 100.0},
		{"negative", "-0.5", -0.5},
		{"empty", "", nil},
		{"garbage", "n/a", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := asFloat(tt.in); got != tt.want {
				t.Errorf("asFloat(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestAsDate(t *testing.T) {
	if got := asDate("2024-01-15"); got != "2024-01-15" {
		t.Errorf("asDate passthrough = %v", got)
	}
	if got := asDate(""); got != nil {
		t.Errorf("asDate(\"\") = %v, want nil", got)
	}
	if got := asDate("  "); got != nil {
		t.Errorf("asDate(blank) = %v, want nil", got)
	}
}

func TestAsString(t *testing.T) {
	if got := asString(""); got != "" {
		t.Errorf("asString(\"\") = %v, want empty string", got)
	}
	if got := asString("hello"); got != "hello" {
		t.Errorf("asString = %v", got)
	}
}
