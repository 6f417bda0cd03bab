package stats

import (
	"fmt"
	"math/big"
	"time"

	"poolCore/internal/model"
)

// swapFeePermille is the fee share of every swap input (0.3%).
const swapFeePermille = 3

// Accumulator holds aggregate values for one pool window.
type Accumulator struct {
	AssetA      string
	AssetB      string
	WindowStart uint64
	WindowEnd   uint64
	SwapCount   uint64
	MintCount   uint64
	BurnCount   uint64
	VolumeA     *big.Int
	VolumeB     *big.Int
	FeeA        *big.Int
	FeeB        *big.Int
}

func NewAccumulator(assetA, assetB string, windowStart, windowEnd uint64) *Accumulator {
	return &Accumulator{
		AssetA:      assetA,
		AssetB:      assetB,
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
		VolumeA:     big.NewInt(0),
		VolumeB:     big.NewInt(0),
		FeeA:        big.NewInt(0),
		FeeB:        big.NewInt(0),
	}
}

// AddOperation folds one applied operation into the window totals.
func (a *Accumulator) AddOperation(op model.AppliedOperation) error {
	switch op.Op {
	case model.OpSwap:
		amountIn, err := parseBigInt(op.AmountIn)
		if err != nil {
			return err
		}
		amountOut, err := parseBigInt(op.AmountOut)
		if err != nil {
			return err
		}
		if op.Asset == a.AssetA {
			a.VolumeA.Add(a.VolumeA, amountIn)
			a.VolumeB.Add(a.VolumeB, amountOut)
			a.FeeA.Add(a.FeeA, feeFromInput(amountIn))
		} else {
			a.VolumeB.Add(a.VolumeB, amountIn)
			a.VolumeA.Add(a.VolumeA, amountOut)
			a.FeeB.Add(a.FeeB, feeFromInput(amountIn))
		}
		a.SwapCount++
	case model.OpMint:
		a.MintCount++
	case model.OpBurn:
		a.BurnCount++
	}
	return nil
}

// Stats converts the accumulator into a persistable row.
func (a *Accumulator) Stats(windowSeconds uint64) model.PoolWindowStats {
	return model.PoolWindowStats{
		AssetA:         a.AssetA,
		AssetB:         a.AssetB,
		WindowSizeSecs: int64(windowSeconds),
		WindowStart:    time.Unix(int64(a.WindowStart), 0).UTC(),
		WindowEnd:      time.Unix(int64(a.WindowEnd), 0).UTC(),
		SwapCount:      a.SwapCount,
		MintCount:      a.MintCount,
		BurnCount:      a.BurnCount,
		VolumeA:        a.VolumeA.String(),
		VolumeB:        a.VolumeB.String(),
		FeeA:           a.FeeA.String(),
		FeeB:           a.FeeB.String(),
	}
}

func parseBigInt(value string) (*big.Int, error) {
	if value == "" {
		return big.NewInt(0), nil
	}
	parsed, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, fmt.Errorf("invalid int: %s", value)
	}
	return parsed, nil
}

func feeFromInput(amountIn *big.Int) *big.Int {
	fee := new(big.Int).Mul(amountIn, big.NewInt(swapFeePermille))
	return fee.Div(fee, big.NewInt(1000))
}
