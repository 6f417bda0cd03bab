package transfer

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// ErrInsufficientFunds is returned when a transfer exceeds the source balance.
var ErrInsufficientFunds = errors.New("insufficient asset balance")

// custodyKey is the internal account holding pulled assets.
var custodyKey = common.HexToAddress("0x0000000000000000000000000000000000000001")

// Bank is an in-memory Port implementation backed by a per-asset balance table.
// It serves the replay runner and tests; a production deployment would satisfy
// Port with the real asset-transfer mechanism instead.
type Bank struct {
	mu       sync.Mutex
	balances map[common.Address]map[common.Address]*big.Int
}

func NewBank() *Bank {
	return &Bank{
		balances: make(map[common.Address]map[common.Address]*big.Int),
	}
}

// Fund credits the holder with amount of asset out of thin air.
func (b *Bank) Fund(asset, holder common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return errors.New("fund amount must be non-negative")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.credit(asset, holder, amount)
	return nil
}

// Pull moves amount of asset from the holder into custody.
func (b *Bank) Pull(ctx context.Context, asset, from common.Address, amount *big.Int) error {
	return b.move(asset, from, custodyKey, amount)
}

// Push moves amount of asset from custody to the recipient.
func (b *Bank) Push(ctx context.Context, asset, to common.Address, amount *big.Int) error {
	return b.move(asset, custodyKey, to, amount)
}

// BalanceOf returns a copy of the holder's balance of asset.
func (b *Bank) BalanceOf(asset, holder common.Address) *big.Int {
	b.mu.Lock()
	defer b.mu.Unlock()
	holders, ok := b.balances[asset]
	if !ok {
		return big.NewInt(0)
	}
	balance, ok := holders[holder]
	if !ok {
		return big.NewInt(0)
	}
	return new(big.Int).Set(balance)
}

// CustodyBalance returns a copy of the custody balance of asset.
func (b *Bank) CustodyBalance(asset common.Address) *big.Int {
	return b.BalanceOf(asset, custodyKey)
}

func (b *Bank) move(asset, from, to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return errors.New("transfer amount must be non-negative")
	}
	if amount.Sign() == 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	holders, ok := b.balances[asset]
	if !ok {
		return ErrInsufficientFunds
	}
	source, ok := holders[from]
	if !ok || source.Cmp(amount) < 0 {
		return ErrInsufficientFunds
	}

	source.Sub(source, amount)
	b.credit(asset, to, amount)
	return nil
}

func (b *Bank) credit(asset, holder common.Address, amount *big.Int) {
	holders, ok := b.balances[asset]
	if !ok {
		holders = make(map[common.Address]*big.Int)
		b.balances[asset] = holders
	}
	balance, ok := holders[holder]
	if !ok {
		balance = big.NewInt(0)
		holders[holder] = balance
	}
	balance.Add(balance, amount)
}
