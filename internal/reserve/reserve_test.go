package reserve

import (
	"errors"
	"math/big"
	"testing"
)

func TestSetGet(t *testing.T) {
	s := New()

	a, b := s.Get()
	if a.Sign() != 0 || b.Sign() != 0 {
		t.Fatalf("new store must be empty, got %s/%s", a, b)
	}

	if err := s.Set(big.NewInt(100), big.NewInt(200)); err != nil {
		t.Fatalf("set: %v", err)
	}
	a, b = s.Get()
	if a.Cmp(big.NewInt(100)) != 0 || b.Cmp(big.NewInt(200)) != 0 {
		t.Fatalf("reserves mismatch: %s/%s", a, b)
	}
}

func TestSetBounds(t *testing.T) {
	s := New()

	overMax := new(big.Int).Add(Max, big.NewInt(1))
	if err := s.Set(overMax, big.NewInt(1)); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds for reserveA, got %v", err)
	}
	if err := s.Set(big.NewInt(1), overMax); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds for reserveB, got %v", err)
	}
	if err := s.Set(big.NewInt(-1), big.NewInt(1)); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds for negative, got %v", err)
	}
	if err := s.Set(nil, big.NewInt(1)); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds for nil, got %v", err)
	}

	a, b := s.Get()
	if a.Sign() != 0 || b.Sign() != 0 {
		t.Fatalf("failed set must not mutate reserves, got %s/%s", a, b)
	}

	if err := s.Set(Max, Max); err != nil {
		t.Fatalf("Max itself must be accepted: %v", err)
	}
}

func TestGetReturnsCopies(t *testing.T) {
	s := New()
	if err := s.Set(big.NewInt(5), big.NewInt(6)); err != nil {
		t.Fatalf("set: %v", err)
	}

	a, _ := s.Get()
	a.SetInt64(999)
	a2, _ := s.Get()
	if a2.Cmp(big.NewInt(5)) != 0 {
		t.Fatalf("Get must return copies")
	}
}
