package domain

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// MaxDecimals is the largest decimals value used in practice.
const MaxDecimals = 9

var (
	// ErrFractionalAmount is returned when supply has more precision than decimals allow.
	ErrFractionalAmount = errors.New("supply has more fractional digits than decimals")

	// ErrAmountOverflow is returned when the base-unit amount does not fit in a u64.
	ErrAmountOverflow = errors.New("supply exceeds the maximum representable amount")
)

var maxUint64 = decimal.NewFromUint64(math.MaxUint64)

// BaseUnits computes supply × 10^decimals as an exact integer.
func BaseUnits(supply decimal.Decimal, decimals uint8) (uint64, error) {
	if supply.IsNegative() {
		return 0, fmt.Errorf("negative supply %s", supply.String())
	}
	scaled := supply.Shift(int32(decimals))
	if !scaled.Equal(scaled.Truncate(0)) {
		return 0, fmt.Errorf("%w: %s with %d decimals", ErrFractionalAmount, supply.String(), decimals)
	}
	if scaled.GreaterThan(maxUint64) {
		return 0, fmt.Errorf("%w: %s with %d decimals", ErrAmountOverflow, supply.String(), decimals)
	}
	return scaled.BigInt().Uint64(), nil
}

// FromBaseUnits converts a base-unit amount back to a whole-token amount.
func FromBaseUnits(amount uint64, decimals uint8) decimal.Decimal {
	return decimal.NewFromUint64(amount).Shift(-int32(decimals))
}

// MaxSupply returns the largest whole-token supply representable for decimals.
// It is informational: creation requests are not rejected against it.
func MaxSupply(decimals uint8) decimal.Decimal {
	return maxUint64.Shift(-int32(decimals)).Truncate(0)
}
