// Package core provides money parsing and handling utilities.
//
// Amounts are exact decimals; display formatting rounds to cents and uses the
// dollar sign, matching the tracker's single-currency scope.
package core

import (
	"errors"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var (
	ErrAmountRequired   = errors.New("is required")
	ErrAmountNotANumber = errors.New("must be a number")
	ErrAmountNegative   = errors.New("must not be negative")
)

// Money is an exact decimal amount in currency units.
type Money struct {
	value decimal.Decimal
}

// NewMoney builds money from a float, e.g. NewMoney(12.5).
func NewMoney(v float64) Money { return Money{value: decimal.NewFromFloat(v)} }

// MoneyFromCents builds money from an integer number of cents.
func MoneyFromCents(cents int64) Money { return Money{value: decimal.New(cents, -2)} }

// ParseMoney parses a non-negative decimal amount such as "12", "12.34" or
// " 0 ". Zero is a valid amount.
//
// Examples:
//
//	ParseMoney("12.34") -> 12.34, nil
//	ParseMoney("0")     -> 0, nil
//	ParseMoney("-1")    -> ErrAmountNegative
//	ParseMoney("abc")   -> ErrAmountNotANumber
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrAmountRequired
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrAmountNotANumber
	}
	if d.IsNegative() {
		return Money{}, ErrAmountNegative
	}
	return Money{value: d}, nil
}

func (m Money) Add(n Money) Money        { return Money{value: m.value.Add(n.value)} }
func (m Money) Sub(n Money) Money        { return Money{value: m.value.Sub(n.value)} }
func (m Money) Neg() Money               { return Money{value: m.value.Neg()} }
func (m Money) IsZero() bool             { return m.value.IsZero() }
func (m Money) IsNegative() bool         { return m.value.IsNegative() }
func (m Money) Equal(n Money) bool       { return m.value.Equal(n.value) }
func (m Money) Decimal() decimal.Decimal { return m.value }

// Float64 returns the value for charting. Use Money for calculations.
func (m Money) Float64() float64 { return m.value.InexactFloat64() }

// Cents returns the amount rounded half away from zero to whole cents.
func (m Money) Cents() int64 { return m.value.Round(2).Shift(2).IntPart() }

// String returns the plain decimal form, as the user would type it.
func (m Money) String() string { return m.value.String() }

// Display formats the amount as dollars with two decimals, e.g. "$1,234.50".
func (m Money) Display() string {
	return money.New(m.Cents(), money.USD).Display()
}
