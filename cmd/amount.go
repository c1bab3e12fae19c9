package cmd

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// parseAmount converts a user-typed amount in major units ("12.50", "-3")
// into minor units of the given currency. It rejects amounts with more
// decimals than the currency carries.
func parseAmount(s, currency string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	fraction := money.New(0, currency).Currency().Fraction
	minor := d.Shift(int32(fraction))
	if !minor.IsInteger() {
		return 0, fmt.Errorf("amount %q has more than %d decimals", s, fraction)
	}
	return minor.IntPart(), nil
}
