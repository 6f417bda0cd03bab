package stats

import (
	"testing"

	"poolCore/internal/model"
)

const (
	assetA = "0xAAaAaAaaAaAaAaaAaAAAAAAAAaaaAaAaAaaAaaAa"
	assetB = "0xBbbBBbBbbBbbbBbBbbbbBBbBbbbbBbBbBBBBBbBb"
)

func TestAccumulatorSwapOrientation(t *testing.T) {
	acc := NewAccumulator(assetA, assetB, 0, 300)

	err := acc.AddOperation(model.AppliedOperation{
		Op:        model.OpSwap,
		Asset:     assetA,
		AmountIn:  "10000",
		AmountOut: "9000",
	})
	if err != nil {
		t.Fatalf("add swap: %v", err)
	}
	err = acc.AddOperation(model.AppliedOperation{
		Op:        model.OpSwap,
		Asset:     assetB,
		AmountIn:  "2000",
		AmountOut: "1800",
	})
	if err != nil {
		t.Fatalf("add swap: %v", err)
	}

	if acc.SwapCount != 2 {
		t.Fatalf("swap count mismatch: %d", acc.SwapCount)
	}
	if acc.VolumeA.String() != "11800" {
		t.Fatalf("volumeA mismatch: %s", acc.VolumeA)
	}
	if acc.VolumeB.String() != "11000" {
		t.Fatalf("volumeB mismatch: %s", acc.VolumeB)
	}
	if acc.FeeA.String() != "30" {
		t.Fatalf("feeA mismatch: %s", acc.FeeA)
	}
	if acc.FeeB.String() != "6" {
		t.Fatalf("feeB mismatch: %s", acc.FeeB)
	}
}

func TestAccumulatorCountsMintBurn(t *testing.T) {
	acc := NewAccumulator(assetA, assetB, 0, 300)

	if err := acc.AddOperation(model.AppliedOperation{Op: model.OpMint}); err != nil {
		t.Fatalf("add mint: %v", err)
	}
	if err := acc.AddOperation(model.AppliedOperation{Op: model.OpBurn}); err != nil {
		t.Fatalf("add burn: %v", err)
	}
	if err := acc.AddOperation(model.AppliedOperation{Op: model.OpFund}); err != nil {
		t.Fatalf("add fund: %v", err)
	}

	if acc.MintCount != 1 || acc.BurnCount != 1 || acc.SwapCount != 0 {
		t.Fatalf("counts mismatch: %d/%d/%d", acc.MintCount, acc.BurnCount, acc.SwapCount)
	}
}

func TestAccumulatorStatsRow(t *testing.T) {
	acc := NewAccumulator(assetA, assetB, 600, 900)
	if err := acc.AddOperation(model.AppliedOperation{
		Op:        model.OpSwap,
		Asset:     assetA,
		AmountIn:  "1000",
		AmountOut: "900",
	}); err != nil {
		t.Fatalf("add swap: %v", err)
	}

	row := acc.Stats(300)
	if row.WindowSizeSecs != 300 {
		t.Fatalf("window size mismatch: %d", row.WindowSizeSecs)
	}
	if row.WindowStart.Unix() != 600 || row.WindowEnd.Unix() != 900 {
		t.Fatalf("window bounds mismatch: %v/%v", row.WindowStart, row.WindowEnd)
	}
	if row.VolumeA != "1000" || row.VolumeB != "900" || row.FeeA != "3" {
		t.Fatalf("row values mismatch: %+v", row)
	}
}

func TestWindowStart(t *testing.T) {
	if got := windowStart(1700000123, 300); got != 1700000100 {
		t.Fatalf("window start mismatch: %d", got)
	}
	if got := windowStart(1700000100, 300); got != 1700000100 {
		t.Fatalf("window start on boundary mismatch: %d", got)
	}
}
