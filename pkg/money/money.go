// Package money converts payout amounts between the remote API's integer
// minor-unit representation and the decimal representation stored locally.
package money

import (
	"errors"
	"fmt"

	"github.com/cmoyo/payouts/pkg/currency"
	"github.com/shopspring/decimal"
)

// ErrInexactAmount is returned by ToRemote when a decimal amount cannot be
// expressed as a whole number of minor units for the given currency.
var ErrInexactAmount = errors.New("money: amount is not a whole number of minor units")

// ToLocal converts a raw remote amount (minor units, or whole units for
// zero-decimal currencies) into the decimal amount stored locally.
// The conversion is exact; no rounding is introduced.
func ToLocal(raw int64, code string) (decimal.Decimal, error) {
	meta, err := currency.Get(code)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("convert amount for %q: %w", code, err)
	}
	return decimal.NewFromInt(raw).Shift(int32(-meta.Decimals)), nil
}

// ToRemote converts a local decimal amount into the integer minor-unit
// representation the remote API expects. It is the exact inverse of ToLocal.
func ToRemote(amount decimal.Decimal, code string) (int64, error) {
	meta, err := currency.Get(code)
	if err != nil {
		return 0, fmt.Errorf("convert amount for %q: %w", code, err)
	}
	scaled := amount.Shift(int32(meta.Decimals))
	if !scaled.IsInteger() {
		return 0, fmt.Errorf("%w: %s %s", ErrInexactAmount, amount, meta.Code)
	}
	return scaled.IntPart(), nil
}
