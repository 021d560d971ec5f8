// Package core holds the Finovo domain model: money, profiles, ledger
// entries, goals and the budget analysis built from them.
package core

import (
	"errors"
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency is the single display currency.
const Currency = money.INR

// Money is an amount in minor units (paise).
type Money struct {
	Cents int64
}

// maxCents keeps amounts well inside int64 once summed.
var maxCents = decimal.NewFromInt(math.MaxInt64 / 100)

// parseCents reads a decimal string with a dot or comma separator, rounds
// it half-up to paise and rejects values whose magnitude overflows.
func parseCents(s string) (int64, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", "."))
	if err != nil {
		return 0, ErrInvalidAmount
	}
	cents := d.Shift(2).Round(0)
	if cents.Abs().GreaterThan(maxCents) {
		return 0, ErrInvalidAmount
	}
	return cents.IntPart(), nil
}

// ParseAmount converts a decimal string to Money. Both dot (12.34) and comma
// (12,34) separators are accepted and the value is rounded half-up to two
// places. Zero and negative amounts are rejected.
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Money{}, ErrInvalidAmount
	}
	cents, err := parseCents(s)
	if err != nil || cents <= 0 {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: cents}, nil
}

// MoneyFromFloat rounds a calculator result to the nearest paisa.
func MoneyFromFloat(v float64) Money {
	return Money{Cents: decimal.NewFromFloat(v).Shift(2).Round(0).IntPart()}
}

// Decimal returns the amount in major units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// Float is for display and ratios; sums stay in cents.
func (m Money) Float() float64 {
	return m.Decimal().InexactFloat64()
}

func (m Money) Add(o Money) Money { return Money{Cents: m.Cents + o.Cents} }
func (m Money) Sub(o Money) Money { return Money{Cents: m.Cents - o.Cents} }

// Percent returns p percent of m, rounded to the nearest paisa.
func (m Money) Percent(p int64) Money {
	return Money{Cents: m.Decimal().Mul(decimal.NewFromInt(p)).Div(decimal.NewFromInt(100)).Shift(2).Round(0).IntPart()}
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// String formats the amount in the display currency, e.g. "₹1,200,000.00".
func (m Money) String() string {
	return money.New(m.Cents, Currency).Display()
}

// Rounded formats the amount to the nearest whole unit.
func (m Money) Rounded() string {
	whole := m.Decimal().Round(0).IntPart()
	return strings.TrimSuffix(money.New(whole*100, Currency).Display(), ".00")
}

// MarshalJSON encodes the amount as a JSON number in major units.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal().StringFixed(2)), nil
}

// UnmarshalJSON accepts a JSON number or a numeric string. Sign checks are
// left to Validate; only overflow is rejected here.
func (m *Money) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "" || raw == "null" {
		return errors.New("amount is required")
	}
	cents, err := parseCents(raw)
	if err != nil {
		return err
	}
	m.Cents = cents
	return nil
}
