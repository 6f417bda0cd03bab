package pool

import (
	"errors"
	"math/big"
	"testing"
)

func bi(t *testing.T, value string) *big.Int {
	t.Helper()
	parsed, ok := new(big.Int).SetString(value, 10)
	if !ok {
		t.Fatalf("invalid int literal: %s", value)
	}
	return parsed
}

func TestAmountOutKnownValues(t *testing.T) {
	cases := []struct {
		name       string
		amountIn   string
		reserveIn  string
		reserveOut string
		want       string
	}{
		{
			name:       "small pool",
			amountIn:   "100",
			reserveIn:  "1000",
			reserveOut: "1000",
			want:       "90",
		},
		{
			name:       "asymmetric reserves",
			amountIn:   "1000",
			reserveIn:  "5000",
			reserveOut: "10000",
			want:       "1662",
		},
		{
			name:       "18 decimal units",
			amountIn:   "1000000000000000000",
			reserveIn:  "100000000000000000000",
			reserveOut: "100000000000000000000",
			want:       "987158034397061298",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := AmountOut(bi(t, tc.amountIn), bi(t, tc.reserveIn), bi(t, tc.reserveOut))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.String() != tc.want {
				t.Fatalf("amount out mismatch: got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestAmountOutErrors(t *testing.T) {
	if _, err := AmountOut(big.NewInt(0), big.NewInt(100), big.NewInt(100)); !errors.Is(err, ErrInsufficientInputAmount) {
		t.Fatalf("expected ErrInsufficientInputAmount for zero input, got %v", err)
	}
	if _, err := AmountOut(big.NewInt(-1), big.NewInt(100), big.NewInt(100)); !errors.Is(err, ErrInsufficientInputAmount) {
		t.Fatalf("expected ErrInsufficientInputAmount for negative input, got %v", err)
	}
	if _, err := AmountOut(nil, big.NewInt(100), big.NewInt(100)); !errors.Is(err, ErrInsufficientInputAmount) {
		t.Fatalf("expected ErrInsufficientInputAmount for nil input, got %v", err)
	}
	if _, err := AmountOut(big.NewInt(1), big.NewInt(0), big.NewInt(100)); !errors.Is(err, ErrInsufficientLiquidity) {
		t.Fatalf("expected ErrInsufficientLiquidity for empty reserveIn, got %v", err)
	}
	if _, err := AmountOut(big.NewInt(1), big.NewInt(100), big.NewInt(0)); !errors.Is(err, ErrInsufficientLiquidity) {
		t.Fatalf("expected ErrInsufficientLiquidity for empty reserveOut, got %v", err)
	}
}

func TestAmountOutMonotonic(t *testing.T) {
	reserveIn := bi(t, "100000000000000000000")
	reserveOut := bi(t, "100000000000000000000")

	prev := big.NewInt(-1)
	amountIn := big.NewInt(1000)
	for i := 0; i < 40; i++ {
		got, err := AmountOut(amountIn, reserveIn, reserveOut)
		if err != nil {
			t.Fatalf("amount out: %v", err)
		}
		if got.Cmp(prev) <= 0 {
			t.Fatalf("output not strictly increasing at input %s: %s <= %s", amountIn, got, prev)
		}
		if got.Cmp(reserveOut) >= 0 {
			t.Fatalf("output %s must stay below reserveOut %s", got, reserveOut)
		}
		prev = got
		amountIn = new(big.Int).Mul(amountIn, big.NewInt(3))
	}
}

func TestAmountOutNeverDrainsReserve(t *testing.T) {
	reserveIn := big.NewInt(1000)
	reserveOut := big.NewInt(1000)

	// Even an absurdly large input cannot buy the entire opposing reserve.
	huge := new(big.Int).Lsh(big.NewInt(1), 200)
	got, err := AmountOut(huge, reserveIn, reserveOut)
	if err != nil {
		t.Fatalf("amount out: %v", err)
	}
	if got.Cmp(reserveOut) >= 0 {
		t.Fatalf("output %s must stay below reserveOut %s", got, reserveOut)
	}
}
