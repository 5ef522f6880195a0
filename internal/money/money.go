package money

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned for values that are not finite decimals or do not fit in cents.
var ErrInvalidAmount = errors.New("invalid money amount")

// Inputs outside these bounds cannot be a representable amount. They are
// rejected before any rescaling, which would otherwise expand the number.
const (
	minExponent        = -20
	maxExponent        = 18
	maxCoefficientBits = 127
)

var (
	maxAmount = decimal.New(math.MaxInt64, -2)
	minAmount = decimal.New(math.MinInt64, -2)
)

// Amount is a signed monetary value stored as integer cents.
// Sums of Amounts are exact, unlike sums of float64 currency values.
type Amount int64

// Cents returns the raw minor-unit value.
func (a Amount) Cents() int64 {
	return int64(a)
}

// Decimal returns the amount as a two-place decimal.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -2)
}

// Float64 returns an approximation for display purposes such as charts.
func (a Amount) Float64() float64 {
	f, _ := a.Decimal().Float64()
	return f
}

// String formats the amount with exactly two decimal places, e.g. "-12.50".
func (a Amount) String() string {
	return a.Decimal().StringFixed(2)
}

// FromDecimal converts d to cents, rounding half away from zero at the third decimal place.
func FromDecimal(d decimal.Decimal) (Amount, error) {
	if d.IsZero() {
		return 0, nil
	}
	if e := d.Exponent(); e < minExponent || e > maxExponent || d.Coefficient().BitLen() > maxCoefficientBits {
		return 0, fmt.Errorf("%w: out of range", ErrInvalidAmount)
	}
	if d.GreaterThan(maxAmount) || d.LessThan(minAmount) {
		return 0, fmt.Errorf("%w: out of range", ErrInvalidAmount)
	}

	cents := d.Shift(2).Round(0).BigInt()
	if !cents.IsInt64() {
		return 0, fmt.Errorf("%w: out of range", ErrInvalidAmount)
	}
	return Amount(cents.Int64()), nil
}

// Parse reads a decimal string such as "42.5" or "-3".
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, truncate(s))
	}
	return FromDecimal(d)
}

func truncate(s string) string {
	const limit = 32
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}

// FromCents wraps a minor-unit value.
func FromCents(c int64) Amount {
	return Amount(c)
}

// MarshalJSON writes the amount as a JSON number with two decimal places.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON accepts either a JSON number or a numeric string.
func (a *Amount) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	s := string(bytes.Trim(b, `"`))
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}
