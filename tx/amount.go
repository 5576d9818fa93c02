package tx

import (
	"fmt"
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

var (
	satsPerBCH = decimal.NewFromInt(SatoshisPerBCH)
	maxSats    = decimal.NewFromInt(math.MaxInt64)
)

// ToSatoshis converts a BCH amount to satoshis. The amount must be positive
// and a whole number of satoshis; nothing is rounded.
func ToSatoshis(bch decimal.Decimal) (uint64, error) {
	if !bch.IsPositive() {
		return 0, fmt.Errorf("%w: %s BCH is not positive", ErrInvalidAmount, bch)
	}
	sats := bch.Mul(satsPerBCH)
	if !sats.Equal(sats.Truncate(0)) {
		return 0, fmt.Errorf("%w: %s BCH is not a whole number of satoshis", ErrInvalidAmount, bch)
	}
	if sats.GreaterThan(maxSats) {
		return 0, fmt.Errorf("%w: %s BCH overflows", ErrInvalidAmount, bch)
	}
	return uint64(sats.IntPart()), nil
}

// FromSatoshis converts satoshis to BCH.
func FromSatoshis(sats uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(sats), -8)
}
