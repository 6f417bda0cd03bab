package reserve

import (
	"errors"
	"math/big"
)

// Max is the largest reserve magnitude the store accepts (2^112 - 1).
var Max = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 112), big.NewInt(1))

// ErrOutOfBounds is returned when a reserve would be negative or exceed Max.
var ErrOutOfBounds = errors.New("reserve out of bounds")

// Store holds the two pooled reserve quantities. Both values stay within
// [0, Max]; a Set that would leave the range is rejected with no effect.
type Store struct {
	reserveA *big.Int
	reserveB *big.Int
}

func New() *Store {
	return &Store{
		reserveA: big.NewInt(0),
		reserveB: big.NewInt(0),
	}
}

// Get returns copies of both reserves.
func (s *Store) Get() (*big.Int, *big.Int) {
	return new(big.Int).Set(s.reserveA), new(big.Int).Set(s.reserveB)
}

// Set replaces both reserves after bounds checking. Either both values are
// committed or neither is.
func (s *Store) Set(reserveA, reserveB *big.Int) error {
	if !inBounds(reserveA) || !inBounds(reserveB) {
		return ErrOutOfBounds
	}
	s.reserveA.Set(reserveA)
	s.reserveB.Set(reserveB)
	return nil
}

func inBounds(value *big.Int) bool {
	if value == nil || value.Sign() < 0 {
		return false
	}
	return value.Cmp(Max) <= 0
}
