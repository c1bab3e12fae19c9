package budget

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money represents a monetary value. Entity records persist amounts as plain
// integers in minor currency units; Money is the reporting-side view of such
// an amount with its currency attached.
type Money struct {
	minor int64 // amount in minor currency units (e.g. cents)
	cur   string
}

// M builds a Money from an amount in minor currency units.
func M(minor int64, currency string) Money {
	return Money{minor: minor, cur: currency}
}

// currency returns the money's currency, never nil.
func (m Money) currency() *money.Currency {
	return money.New(0, m.cur).Currency()
}

// String returns the formatted representation of the money value, e.g. "$200.00".
func (m Money) String() string {
	return m.currency().Formatter().Format(m.minor)
}

// Minor returns the amount in minor currency units, as persisted.
func (m Money) Minor() int64 { return m.minor }

// Major returns the amount in major currency units as an exact decimal.
func (m Money) Major() decimal.Decimal {
	return decimal.New(m.minor, 0).Shift(-int32(m.currency().Fraction))
}

func (m Money) Currency() string       { return m.cur }
func (m Money) IsZero() bool           { return m.minor == 0 }
func (m Money) IsPositive() bool       { return m.minor > 0 }
func (m Money) IsNegative() bool       { return m.minor < 0 }
func (m Money) Equal(n Money) bool     { return m.minor == n.minor && m.cur == n.cur }
func (m Money) LessThan(n Money) bool  { return m.minor < n.minor }
func (m Money) Neg() Money             { return Money{minor: -m.minor, cur: m.cur} }

// Abs returns the absolute value of the amount.
func (m Money) Abs() Money {
	if m.minor < 0 {
		return m.Neg()
	}
	return m
}

// binary operators.
func (m Money) Add(n Money) Money { return Money{minor: m.minor + n.minor, cur: cur(m, n)} }
func (m Money) Sub(n Money) Money { return Money{minor: m.minor - n.minor, cur: cur(m, n)} }

// makes the "" currency totally weak.
func cur(a, b Money) string {
	if a.cur == "" {
		return b.cur
	}
	if b.cur == "" {
		return a.cur
	}
	if a.cur != b.cur {
		panic("currency mismatch " + a.cur + "!=" + b.cur)
	}
	return a.cur
}
