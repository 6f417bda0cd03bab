package pool

import "errors"

// Engine sentinel errors. Every failure aborts the enclosing operation with
// zero observable state mutation; none are retried internally.
var (
	ErrInsufficientInputAmount     = errors.New("insufficient input amount")
	ErrInsufficientOutputAmount    = errors.New("output amount below minimum")
	ErrInsufficientLiquidity       = errors.New("insufficient liquidity")
	ErrInsufficientLiquidityMinted = errors.New("insufficient liquidity minted")
	ErrInsufficientLiquidityBurned = errors.New("insufficient liquidity burned")
	ErrReserveOverflow             = errors.New("reserve overflow")
	ErrInvariantViolation          = errors.New("constant product invariant violated")
	ErrIdenticalAssets             = errors.New("identical assets")
	ErrZeroAddress                 = errors.New("zero address")
	ErrLockedShares                = errors.New("locked shares are not redeemable")
	ErrUnknownAsset                = errors.New("asset not in pair")
)
