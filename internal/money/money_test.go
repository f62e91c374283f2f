package money

import (
	"math"
	"testing"
)

func TestParse_ValidAmounts(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int64
	}{
		{"whole", "500", 5_000_000},
		{"two decimals", "500.00", 5_000_000},
		{"cents", "0.50", 5_000},
		{"smallest unit", "0.0001", 1},
		{"negative", "-1250.50", -12_505_000},
		{"negative whole", "-3", -30_000},
		{"zero", "0", 0},
		{"zero decimal", "0.00", 0},
		{"negative zero", "-0.00", 0},
		{"short frac", "1.5", 15_000},
		{"four decimals", "1.1234", 11_234},
		{"leading zeros", "007.50", 75_000},
		{"large", "999999999.9999", 9_999_999_999_999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tt.input, err)
			}
			if int64(got) != tt.expected {
				t.Errorf("Parse(%q) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParse_InvalidAmounts(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"just minus", "-"},
		{"just dot", "."},
		{"minus dot", "-."},
		{"double dot", "1.2.3"},
		{"letters", "abc"},
		{"trailing letters", "12x"},
		{"plus sign", "+5"},
		{"comma separator", "1,250.00"},
		{"too many decimals", "1.12345"},
		{"whitespace", " 5"},
		{"scientific", "1e3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.input); err == nil {
				t.Errorf("Parse(%q) should fail", tt.input)
			}
		})
	}
}

func TestParse_Int64Boundary(t *testing.T) {
	// Largest representable amount: math.MaxInt64 units = 922337203685477.5807.
	max, err := Parse("922337203685477.5807")
	if err != nil {
		t.Fatalf("Parse(max) returned error: %v", err)
	}
	if int64(max) != math.MaxInt64 {
		t.Errorf("Parse(max) = %d, want %d", max, int64(math.MaxInt64))
	}
	min, err := Parse("-922337203685477.5807")
	if err != nil {
		t.Fatalf("Parse(min) returned error: %v", err)
	}
	if int64(min) != -math.MaxInt64 {
		t.Errorf("Parse(min) = %d, want %d", min, int64(-math.MaxInt64))
	}

	// Anything past the boundary must fail, never wrap. A wrapped value
	// shows up as a small (possibly negative) amount and corrupts that
	// account's population statistics for every other entry.
	for _, s := range []string{
		"922337203685477.5808",
		"9223372036854775.0000",
		"-9223372036854775808.0000",
		"99999999999999999999",
	} {
		got, err := Parse(s)
		if err == nil {
			t.Errorf("Parse(%q) = %d, want overflow error", s, got)
		}
	}
}

func TestString_RoundTrip(t *testing.T) {
	for _, s := range []string{"0.0000", "1.5000", "-1.5000", "500.0000", "-0.0001", "123456.7890"} {
		a := MustParse(s)
		if got := a.String(); got != s {
			t.Errorf("MustParse(%q).String() = %q", s, got)
		}
	}
}

func TestAbs(t *testing.T) {
	if got := MustParse("-12.50").Abs(); got != MustParse("12.50") {
		t.Errorf("Abs(-12.50) = %v", got)
	}
	if got := MustParse("12.50").Abs(); got != MustParse("12.50") {
		t.Errorf("Abs(12.50) = %v", got)
	}
}

func TestIsMultipleOf(t *testing.T) {
	tests := []struct {
		amount string
		n      int64
		want   bool
	}{
		{"500.00", 100, true},
		{"-500.00", 100, true},
		{"0.00", 100, true},
		{"500.01", 100, false},
		{"520.00", 100, false},
		{"100.0001", 100, false},
		{"1000000.00", 100, true},
		{"500.00", 0, false},
	}
	for _, tt := range tests {
		a := MustParse(tt.amount)
		if got := a.IsMultipleOf(tt.n); got != tt.want {
			t.Errorf("(%s).IsMultipleOf(%d) = %v, want %v", tt.amount, tt.n, got, tt.want)
		}
	}
}

func TestFloat64(t *testing.T) {
	if got := MustParse("130.00").Float64(); got != 130.0 {
		t.Errorf("Float64 = %v, want 130", got)
	}
	if got := MustParse("-0.5").Float64(); got != -0.5 {
		t.Errorf("Float64 = %v, want -0.5", got)
	}
}
