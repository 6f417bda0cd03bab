package model

import "time"

// PoolWindowStats stores aggregated activity for one pool window.
type PoolWindowStats struct {
	AssetA         string
	AssetB         string
	WindowSizeSecs int64
	WindowStart    time.Time
	WindowEnd      time.Time
	SwapCount      uint64
	MintCount      uint64
	BurnCount      uint64
	VolumeA        string
	VolumeB        string
	FeeA           string
	FeeB           string
}
