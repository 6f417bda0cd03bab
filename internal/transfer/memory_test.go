package transfer

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

var (
	testAsset  = common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	testHolder = common.HexToAddress("0x1111111111111111111111111111111111111111")
)

func TestFundPullPush(t *testing.T) {
	ctx := context.Background()
	bank := NewBank()

	if err := bank.Fund(testAsset, testHolder, big.NewInt(1000)); err != nil {
		t.Fatalf("fund: %v", err)
	}
	if got := bank.BalanceOf(testAsset, testHolder); got.Cmp(big.NewInt(1000)) != 0 {
		t.Fatalf("balance after fund: %s", got)
	}

	if err := bank.Pull(ctx, testAsset, testHolder, big.NewInt(400)); err != nil {
		t.Fatalf("pull: %v", err)
	}
	if got := bank.BalanceOf(testAsset, testHolder); got.Cmp(big.NewInt(600)) != 0 {
		t.Fatalf("balance after pull: %s", got)
	}
	if got := bank.CustodyBalance(testAsset); got.Cmp(big.NewInt(400)) != 0 {
		t.Fatalf("custody after pull: %s", got)
	}

	recipient := common.HexToAddress("0x2222222222222222222222222222222222222222")
	if err := bank.Push(ctx, testAsset, recipient, big.NewInt(150)); err != nil {
		t.Fatalf("push: %v", err)
	}
	if got := bank.BalanceOf(testAsset, recipient); got.Cmp(big.NewInt(150)) != 0 {
		t.Fatalf("recipient after push: %s", got)
	}
	if got := bank.CustodyBalance(testAsset); got.Cmp(big.NewInt(250)) != 0 {
		t.Fatalf("custody after push: %s", got)
	}
}

func TestPullInsufficient(t *testing.T) {
	ctx := context.Background()
	bank := NewBank()

	if err := bank.Pull(ctx, testAsset, testHolder, big.NewInt(1)); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	if err := bank.Fund(testAsset, testHolder, big.NewInt(10)); err != nil {
		t.Fatalf("fund: %v", err)
	}
	if err := bank.Pull(ctx, testAsset, testHolder, big.NewInt(11)); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if got := bank.BalanceOf(testAsset, testHolder); got.Cmp(big.NewInt(10)) != 0 {
		t.Fatalf("failed pull must not mutate balance: %s", got)
	}
}

func TestZeroAmountMoveIsNoop(t *testing.T) {
	ctx := context.Background()
	bank := NewBank()

	if err := bank.Pull(ctx, testAsset, testHolder, big.NewInt(0)); err != nil {
		t.Fatalf("zero pull: %v", err)
	}
	if err := bank.Push(ctx, testAsset, testHolder, big.NewInt(0)); err != nil {
		t.Fatalf("zero push: %v", err)
	}
}
