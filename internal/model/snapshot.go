package model

// PoolSnapshot is the persisted pool state record.
type PoolSnapshot struct {
	AssetA      string `json:"asset_a"`
	AssetB      string `json:"asset_b"`
	ReserveA    string `json:"reserve_a"`
	ReserveB    string `json:"reserve_b"`
	TotalShares string `json:"total_shares"`
	LastSeq     uint64 `json:"last_seq"`
}
