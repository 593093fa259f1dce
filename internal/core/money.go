// Package core holds the budgeting domain: money, transactions, budgets and
// the aggregation and evaluation rules applied to them.
//
// This file contains the exact decimal Money type used for every amount and
// limit. Values only leave decimal form at the serialization boundary.
package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// PercentPlaces is the number of decimal places kept by Money.Percent.
const PercentPlaces = 2

// Bounds accepted by ParseMoney. MaxDigits matches the DynamoDB number limit.
const (
	MaxExponent = 18
	MaxDigits   = 38
)

var hundred = decimal.NewFromInt(100)

// Money is an arbitrary-precision decimal amount. The zero value is zero.
type Money struct {
	d decimal.Decimal
}

// Zero is the zero amount.
var Zero = Money{}

// ParseMoney parses a decimal string such as "12", "12.5" or "-3.25".
//
// Examples:
//
//	ParseMoney("12.00") -> 12
//	ParseMoney(" 7.5 ") -> 7.5
//	ParseMoney("abc")   -> ErrInvalidAmount
//	ParseMoney("1e30")  -> ErrInvalidAmount
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	if exp := d.Exponent(); exp < -MaxExponent || exp > MaxExponent {
		return Money{}, ErrInvalidAmount
	}
	if len(strings.TrimPrefix(d.Coefficient().String(), "-")) > MaxDigits {
		return Money{}, ErrInvalidAmount
	}
	return Money{d: d}, nil
}

// MustParseMoney is like ParseMoney but panics on invalid input.
func MustParseMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(fmt.Sprintf("core: invalid money literal %q", s))
	}
	return m
}

// MoneyFromInt returns a whole amount.
func MoneyFromInt(v int64) Money {
	return Money{d: decimal.NewFromInt(v)}
}

// MoneyFromDecimal wraps an existing decimal value.
func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money{d: d}
}

// Decimal returns the underlying decimal value.
func (m Money) Decimal() decimal.Decimal {
	return m.d
}

func (m Money) Add(o Money) Money { return Money{d: m.d.Add(o.d)} }
func (m Money) Sub(o Money) Money { return Money{d: m.d.Sub(o.d)} }
func (m Money) Mul(o Money) Money { return Money{d: m.d.Mul(o.d)} }

func (m Money) Cmp(o Money) int                 { return m.d.Cmp(o.d) }
func (m Money) Equal(o Money) bool              { return m.d.Equal(o.d) }
func (m Money) GreaterThan(o Money) bool        { return m.d.GreaterThan(o.d) }
func (m Money) GreaterThanOrEqual(o Money) bool { return m.d.GreaterThanOrEqual(o.d) }
func (m Money) LessThan(o Money) bool           { return m.d.LessThan(o.d) }

func (m Money) IsZero() bool     { return m.d.IsZero() }
func (m Money) IsNegative() bool { return m.d.IsNegative() }
func (m Money) IsPositive() bool { return m.d.IsPositive() }
func (m Money) Sign() int        { return m.d.Sign() }

// Percent returns m as a percentage of of, rounded to PercentPlaces.
// A zero base yields zero instead of a division error.
func (m Money) Percent(of Money) Money {
	if of.d.IsZero() {
		return Money{}
	}
	return Money{d: m.d.Mul(hundred).DivRound(of.d, PercentPlaces)}
}

// String renders whole values without a fractional part and trims trailing
// zeros otherwise: 12.00 -> "12", 12.50 -> "12.5".
func (m Money) String() string {
	return m.d.String()
}

// Float64 is for display only. Never feed the result back into arithmetic.
func (m Money) Float64() float64 {
	return m.d.InexactFloat64()
}

// MarshalJSON emits the amount as a bare JSON number using String's format,
// so whole amounts serialize as integers.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a JSON string.
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*m = Money{}
		return nil
	}
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return ErrInvalidAmount
		}
	}
	parsed, err := ParseMoney(raw)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Sum adds all amounts.
func Sum(amounts ...Money) Money {
	total := Money{}
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
