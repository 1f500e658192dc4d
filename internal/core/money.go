// Package core holds the domain model of the shared expense ledger:
// money, categories, transactions and the persisted ledger document.
package core

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Money is an amount in paise (hundredths of a rupee). Integer cents keep
// monthly sums exact; floats appear only at the JSON boundary.
type Money struct {
	Cents int64
}

// Rupees returns the rupee value as a float64 for display purposes.
// Use cents for calculations to avoid floating-point precision issues.
func (m Money) Rupees() float64 {
	return float64(m.Cents) / 100.0
}

// Add returns the sum of the two amounts.
func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

// Sub returns m minus o; the result may be negative.
func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool {
	return m.Cents > 0
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// MarshalJSON renders the amount as a plain decimal number of rupees,
// matching the persisted document layout ({"amount": 150.5}).
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(m.Rupees(), 'f', -1, 64)), nil
}

// UnmarshalJSON parses a JSON number of rupees, rounding half-up to cents.
// Malformed or non-finite stored values decode as zero; callers decide
// whether zero is acceptable in context.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		m.Cents = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		m.Cents = 0
		return nil
	}
	cents, err := CentsFromFloat(v)
	if err != nil {
		m.Cents = 0
		return nil
	}
	m.Cents = cents
	return nil
}

// CentsFromFloat converts a rupee value to cents with half-up rounding.
// Non-finite values are rejected.
func CentsFromFloat(v float64) (int64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidAmount
	}
	return int64(math.Round(v * 100)), nil
}

// FromRupees converts a positive finite rupee value to Money.
func FromRupees(v float64) (Money, error) {
	cents, err := CentsFromFloat(v)
	if err != nil {
		return Money{}, err
	}
	if cents <= 0 {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: cents}, nil
}

// ParseDecimalToCents converts a decimal string to cents with proper rounding.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and performs
// half-up rounding on the third decimal place. The result is always positive
// cents. Returns an error for invalid formats, negative values, or zero
// amounts.
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		// Only positive values allowed
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	// Take first two fractional digits; then half-up rounding on third
	var fracCents int64
	if len(fracPart) > 0 {
		d1 := int64(fracPart[0] - '0')
		fracCents = d1 * 10
		if len(fracPart) > 1 {
			d2 := int64(fracPart[1] - '0')
			fracCents += d2
			if len(fracPart) > 2 {
				if fracPart[2] >= '5' {
					fracCents++
				}
			}
		}
	}
	cents := iv*100 + fracCents
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}
