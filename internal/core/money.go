// Package core provides money parsing and handling utilities.
//
// This file contains the Money value type and the functions that turn
// user-entered amounts into cents.
package core

import (
	"errors"
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an amount expressed in integer cents.
type Money struct {
	Cents int64
}

var maxCents = decimal.NewFromInt(math.MaxInt64).Shift(-2)

// ParseAmount converts a decimal string to a strictly positive Money value.
//
// It accepts a dot (12.34) or a single comma (12,34) as the decimal mark and
// commas as thousands separators when every group has three digits
// (1,000.50). Any other use of commas is rejected. Rounds half away from
// zero on the third decimal place.
//
// Examples:
//
//	ParseAmount("12.345")   -> 1235 cents
//	ParseAmount("1,000")    -> 100000 cents
//	ParseAmount("1,000.50") -> 100050 cents
//	ParseAmount("0")        -> ErrInvalidAmount
func ParseAmount(s string) (Money, error) {
	m, err := parseDecimal(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	if err := m.Validate(); err != nil {
		return Money{}, err
	}
	return m, nil
}

// ParseBalance converts a decimal string to Money, allowing zero and
// negative values. Used for the bank amount.
func ParseBalance(s string) (Money, error) {
	m, err := parseDecimal(s)
	if err != nil {
		return Money{}, ErrInvalidBankAmount
	}
	return m, nil
}

func parseDecimal(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	s, err := normalizeSeparators(s)
	if err != nil {
		return Money{}, err
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}
	return fromDecimal(d)
}

var groupedAmount = regexp.MustCompile(`^[-+]?\d{1,3}(,\d{3})+(\.\d+)?$`)

var errAmbiguousSeparator = errors.New("ambiguous comma in amount")

// normalizeSeparators rewrites s so it only uses a dot as the decimal mark.
func normalizeSeparators(s string) (string, error) {
	switch n := strings.Count(s, ","); {
	case n == 0:
		return s, nil
	case groupedAmount.MatchString(s):
		return strings.ReplaceAll(s, ",", ""), nil
	case n == 1 && !strings.Contains(s, "."):
		return strings.Replace(s, ",", ".", 1), nil
	default:
		return "", errAmbiguousSeparator
	}
}

func fromDecimal(d decimal.Decimal) (Money, error) {
	d = d.Round(2)
	if d.Abs().GreaterThan(maxCents) {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: d.Shift(2).IntPart()}, nil
}

// Validate reports whether m is usable as a transaction amount.
func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (m Money) Add(o Money) Money { return Money{Cents: m.Cents + o.Cents} }

func (m Money) Sub(o Money) Money { return Money{Cents: m.Cents - o.Cents} }

func (m Money) IsZero() bool { return m.Cents == 0 }

// Decimal returns the exact decimal value of m.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// String formats m with exactly two decimals, e.g. "1150.00".
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// MarshalJSON encodes m as a bare JSON number (200, 12.5) so persisted
// ledgers keep the plain numeric amount layout.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal().String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted numeric string.
func (m *Money) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return err
	}
	v, err := fromDecimal(d)
	if err != nil {
		return err
	}
	*m = v
	return nil
}
