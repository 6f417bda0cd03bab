package pool

import "math/big"

// Fee retention: a swap keeps 997/1000 of the input as effective, the
// remaining 0.3% accrues to the reserves.
const (
	feeRetentionNumerator = 997
	feeDenominator        = 1000
)

// MinimumLiquidity is the share quantity permanently credited to the sink
// account on the pool's first deposit.
var MinimumLiquidity = big.NewInt(1000)

var (
	feeRetention = big.NewInt(feeRetentionNumerator)
	feeDenom     = big.NewInt(feeDenominator)
)

// AmountOut returns the output amount for amountIn against the given
// reserves under the fee-adjusted constant-product curve:
//
//	floor(reserveOut * amountIn*997 / (reserveIn*1000 + amountIn*997))
//
// The result is strictly increasing in amountIn and strictly below
// reserveOut for any finite input.
func AmountOut(amountIn, reserveIn, reserveOut *big.Int) (*big.Int, error) {
	if amountIn == nil || amountIn.Sign() <= 0 {
		return nil, ErrInsufficientInputAmount
	}
	if reserveIn == nil || reserveOut == nil || reserveIn.Sign() <= 0 || reserveOut.Sign() <= 0 {
		return nil, ErrInsufficientLiquidity
	}

	amountInWithFee := new(big.Int).Mul(amountIn, feeRetention)
	numerator := new(big.Int).Mul(amountInWithFee, reserveOut)
	denominator := new(big.Int).Mul(reserveIn, feeDenom)
	denominator.Add(denominator, amountInWithFee)
	return numerator.Div(numerator, denominator), nil
}

// sqrtFloor returns floor(sqrt(value)).
func sqrtFloor(value *big.Int) *big.Int {
	return new(big.Int).Sqrt(value)
}

// minInt returns the smaller of a and b.
func minInt(a, b *big.Int) *big.Int {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}
