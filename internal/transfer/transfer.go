package transfer

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Port moves underlying assets between external holders and pool custody.
// Both calls are synchronous and all-or-nothing: on error no assets moved.
type Port interface {
	// Pull moves amount of asset from the holder into custody.
	Pull(ctx context.Context, asset, from common.Address, amount *big.Int) error
	// Push moves amount of asset from custody to the recipient.
	Push(ctx context.Context, asset, to common.Address, amount *big.Int) error
}
