// Package money provides parsing and formatting for signed fixed-precision
// ledger amounts.
//
// Amounts are stored as int64 in the smallest unit with 4 decimal places
// (1.00 = 10000 units). General-ledger feeds rarely carry more than 2
// decimals, but 4 covers foreign-currency and allocation lines without
// rounding on intake.
package money

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
)

const Decimals = 4

// unitsPerWhole is 10^Decimals.
const unitsPerWhole = 10000

// ErrInvalidAmount reports a value that cannot be parsed as a decimal amount.
var ErrInvalidAmount = errors.New("invalid amount")

// Amount is a signed fixed-precision monetary value in smallest units.
type Amount int64

// Parse converts a decimal string (e.g. "-1250.50") to an Amount.
//
// Rules:
//   - An optional leading "-" marks a negative amount ("+" is rejected)
//   - At most one decimal point
//   - Fractional digits beyond 4 places are rejected, not silently truncated
//     (aggregate statistics must not be corrupted by lossy intake)
//   - Empty string and bare "-" or "." are rejected
func Parse(s string) (Amount, error) {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	if s == "" || s == "." {
		return 0, ErrInvalidAmount
	}

	whole, frac, found := strings.Cut(s, ".")
	if strings.Contains(frac, ".") {
		return 0, ErrInvalidAmount
	}
	if found && frac == "" && whole == "" {
		return 0, ErrInvalidAmount
	}
	if len(frac) > Decimals {
		return 0, ErrInvalidAmount
	}
	for len(frac) < Decimals {
		frac += "0"
	}

	var units int64
	for _, c := range whole + frac {
		if c < '0' || c > '9' {
			return 0, ErrInvalidAmount
		}
		d := int64(c - '0')
		if units > (math.MaxInt64-d)/10 {
			// Out of int64 minor-unit range. Rejecting beats wrapping: a
			// wrapped amount would poison its account's mean and stddev.
			return 0, ErrInvalidAmount
		}
		units = units*10 + d
	}
	if neg {
		units = -units
	}
	return Amount(units), nil
}

// MustParse parses s or panics. For tests and constants only.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic("money: " + err.Error() + ": " + s)
	}
	return a
}

// String formats the amount with exactly 4 decimal places (e.g. "-1.5000").
func (a Amount) String() string {
	neg := a < 0
	units := int64(a)
	if neg {
		units = -units
	}
	whole := units / unitsPerWhole
	frac := units % unitsPerWhole

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(itoa(whole))
	b.WriteByte('.')
	f := itoa(frac)
	for i := len(f); i < Decimals; i++ {
		b.WriteByte('0')
	}
	b.WriteString(f)
	return b.String()
}

// Abs returns the absolute value.
func (a Amount) Abs() Amount {
	if a < 0 {
		return -a
	}
	return a
}

// Float64 returns the amount as a float64 in whole-currency units.
// Statistical use only; never round-trip this back into an Amount.
func (a Amount) Float64() float64 {
	return float64(a) / unitsPerWhole
}

// IsMultipleOf reports whether the absolute amount is an exact multiple of
// n whole currency units (e.g. IsMultipleOf(100) for round-hundred values).
func (a Amount) IsMultipleOf(n int64) bool {
	if n <= 0 {
		return false
	}
	return int64(a.Abs())%(n*unitsPerWhole) == 0
}

// MarshalJSON encodes the amount as a decimal string ("-1.5000"), never as a
// float.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes a decimal string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return ErrInvalidAmount
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

func itoa(n int64) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
