package ledger

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestCreditDebit(t *testing.T) {
	l := New()
	holder := common.HexToAddress("0x1111111111111111111111111111111111111111")

	if err := l.Credit(holder, big.NewInt(500)); err != nil {
		t.Fatalf("credit: %v", err)
	}
	if got := l.BalanceOf(holder); got.Cmp(big.NewInt(500)) != 0 {
		t.Fatalf("balance mismatch: %s", got)
	}
	if got := l.TotalSupply(); got.Cmp(big.NewInt(500)) != 0 {
		t.Fatalf("total mismatch: %s", got)
	}

	if err := l.Debit(holder, big.NewInt(200)); err != nil {
		t.Fatalf("debit: %v", err)
	}
	if got := l.BalanceOf(holder); got.Cmp(big.NewInt(300)) != 0 {
		t.Fatalf("balance after debit: %s", got)
	}
	if got := l.TotalSupply(); got.Cmp(big.NewInt(300)) != 0 {
		t.Fatalf("total after debit: %s", got)
	}
}

func TestDebitInsufficient(t *testing.T) {
	l := New()
	holder := common.HexToAddress("0x2222222222222222222222222222222222222222")

	if err := l.Debit(holder, big.NewInt(1)); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}

	if err := l.Credit(holder, big.NewInt(10)); err != nil {
		t.Fatalf("credit: %v", err)
	}
	if err := l.Debit(holder, big.NewInt(11)); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if got := l.BalanceOf(holder); got.Cmp(big.NewInt(10)) != 0 {
		t.Fatalf("failed debit must not mutate balance: %s", got)
	}
}

func TestConservation(t *testing.T) {
	l := New()
	holders := []common.Address{
		common.HexToAddress("0x1111111111111111111111111111111111111111"),
		common.HexToAddress("0x2222222222222222222222222222222222222222"),
		common.HexToAddress("0x3333333333333333333333333333333333333333"),
	}

	for i, holder := range holders {
		if err := l.Credit(holder, big.NewInt(int64(100*(i+1)))); err != nil {
			t.Fatalf("credit: %v", err)
		}
	}
	if err := l.Debit(holders[1], big.NewInt(50)); err != nil {
		t.Fatalf("debit: %v", err)
	}

	sum := big.NewInt(0)
	for _, holder := range holders {
		sum.Add(sum, l.BalanceOf(holder))
	}
	if sum.Cmp(l.TotalSupply()) != 0 {
		t.Fatalf("total supply %s != sum of balances %s", l.TotalSupply(), sum)
	}
}

func TestBalanceOfReturnsCopy(t *testing.T) {
	l := New()
	holder := common.HexToAddress("0x4444444444444444444444444444444444444444")
	if err := l.Credit(holder, big.NewInt(7)); err != nil {
		t.Fatalf("credit: %v", err)
	}

	got := l.BalanceOf(holder)
	got.SetInt64(999)
	if l.BalanceOf(holder).Cmp(big.NewInt(7)) != 0 {
		t.Fatalf("BalanceOf must return a copy")
	}
}
