package model

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestAppliedOperationJSONRoundTrip(t *testing.T) {
	original := AppliedOperation{
		Seq:         42,
		Op:          OpSwap,
		Caller:      "0x1111111111111111111111111111111111111111",
		Recipient:   "0x2222222222222222222222222222222222222222",
		Asset:       "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		AmountIn:    "1000000000000000000",
		AmountOut:   "987158034397061298",
		ReserveA:    "101000000000000000000",
		ReserveB:    "99012841965602938702",
		TotalShares: "100000000000000000000",
		Timestamp:   1700000000,
		AppliedAt:   "2024-01-01T00:00:00Z",
	}

	b, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded AppliedOperation
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if !reflect.DeepEqual(original, decoded) {
		t.Fatalf("round-trip mismatch: %+v != %+v", original, decoded)
	}
}

func TestOperationRequestOmitsEmptyFields(t *testing.T) {
	request := OperationRequest{
		Seq:    1,
		Op:     OpFund,
		Caller: "0x1111111111111111111111111111111111111111",
		Asset:  "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		Amount: "1000",
	}

	b, err := json.Marshal(request)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if _, ok := raw["amount_a"]; ok {
		t.Fatalf("empty amount_a must be omitted: %s", b)
	}
	if _, ok := raw["min_amount_out"]; ok {
		t.Fatalf("empty min_amount_out must be omitted: %s", b)
	}
}
