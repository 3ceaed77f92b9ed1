package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("invalid money amount")

// ParsePositive parses a user-supplied decimal amount and rejects anything
// that is not a strictly positive number. All money-entry paths (direct
// booking, CSV rows, bill amounts) go through this.
func ParsePositive(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	if d.Sign() <= 0 {
		return decimal.Zero, fmt.Errorf("%w: must be positive", ErrInvalidAmount)
	}
	return d, nil
}

// Format renders an amount with two decimal places for display.
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}
