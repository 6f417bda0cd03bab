package ledger

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ErrInsufficientBalance is returned when a debit exceeds the holder's balance.
var ErrInsufficientBalance = errors.New("insufficient share balance")

// Ledger tracks fungible ownership shares per holder and the total issued supply.
// The sum of all holder balances equals the total supply at all times.
type Ledger struct {
	balances map[common.Address]*big.Int
	total    *big.Int
}

func New() *Ledger {
	return &Ledger{
		balances: make(map[common.Address]*big.Int),
		total:    big.NewInt(0),
	}
}

// Credit adds shares to the holder's balance and to the total supply.
func (l *Ledger) Credit(holder common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return fmt.Errorf("credit amount must be non-negative")
	}
	balance, ok := l.balances[holder]
	if !ok {
		balance = big.NewInt(0)
		l.balances[holder] = balance
	}
	balance.Add(balance, amount)
	l.total.Add(l.total, amount)
	return nil
}

// Debit removes shares from the holder's balance and from the total supply.
func (l *Ledger) Debit(holder common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return fmt.Errorf("debit amount must be non-negative")
	}
	balance, ok := l.balances[holder]
	if !ok || balance.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	balance.Sub(balance, amount)
	l.total.Sub(l.total, amount)
	return nil
}

// BalanceOf returns a copy of the holder's share balance.
func (l *Ledger) BalanceOf(holder common.Address) *big.Int {
	balance, ok := l.balances[holder]
	if !ok {
		return big.NewInt(0)
	}
	return new(big.Int).Set(balance)
}

// TotalSupply returns a copy of the total issued supply.
func (l *Ledger) TotalSupply() *big.Int {
	return new(big.Int).Set(l.total)
}

// Holders returns the addresses with a non-zero balance.
func (l *Ledger) Holders() []common.Address {
	holders := make([]common.Address, 0, len(l.balances))
	for holder, balance := range l.balances {
		if balance.Sign() > 0 {
			holders = append(holders, holder)
		}
	}
	return holders
}
