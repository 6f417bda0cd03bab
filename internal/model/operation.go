package model

// Operation kinds accepted by the replay runner.
const (
	OpFund = "fund"
	OpMint = "mint"
	OpBurn = "burn"
	OpSwap = "swap"
)

// OperationRequest is one replay input line. Amounts are decimal strings;
// unused fields stay empty depending on the operation kind.
type OperationRequest struct {
	Seq          uint64 `json:"seq"`
	Op           string `json:"op"`
	Caller       string `json:"caller"`
	Recipient    string `json:"recipient,omitempty"`
	Asset        string `json:"asset,omitempty"`
	Amount       string `json:"amount,omitempty"`
	AmountA      string `json:"amount_a,omitempty"`
	AmountB      string `json:"amount_b,omitempty"`
	Shares       string `json:"shares,omitempty"`
	AmountIn     string `json:"amount_in,omitempty"`
	MinAmountOut string `json:"min_amount_out,omitempty"`
	Timestamp    uint64 `json:"timestamp"`
}

// AppliedOperation records a successfully applied operation together with
// the pool state after it committed.
type AppliedOperation struct {
	Seq         uint64 `json:"seq"`
	Op          string `json:"op"`
	Caller      string `json:"caller"`
	Recipient   string `json:"recipient,omitempty"`
	Asset       string `json:"asset,omitempty"`
	Amount      string `json:"amount,omitempty"`
	AmountA     string `json:"amount_a,omitempty"`
	AmountB     string `json:"amount_b,omitempty"`
	Shares      string `json:"shares,omitempty"`
	AmountIn    string `json:"amount_in,omitempty"`
	AmountOut   string `json:"amount_out,omitempty"`
	ReserveA    string `json:"reserve_a"`
	ReserveB    string `json:"reserve_b"`
	TotalShares string `json:"total_shares"`
	Timestamp   uint64 `json:"timestamp"`
	AppliedAt   string `json:"applied_at"`
}

// OperationError records a request the engine rejected.
type OperationError struct {
	Seq    uint64 `json:"seq"`
	Op     string `json:"op"`
	Caller string `json:"caller"`
	Error  string `json:"error"`
}
