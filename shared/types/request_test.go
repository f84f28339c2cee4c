package types

import (
	"math"
	"testing"

	"github.com/holiman/uint256"
)

func TestBatchRequest_Validate(t *testing.T) {
	cases := []struct {
		name string
		req  BatchRequest
		err  error
	}{
		{"single", BatchRequest{MineRequest: MineRequest{Timestamp: 1}, Count: 1}, nil},
		{"empty", BatchRequest{MineRequest: MineRequest{Timestamp: 1}}, ErrInvalidBatch},
		{"last fits", BatchRequest{MineRequest: MineRequest{Timestamp: math.MaxUint64 - 2}, Count: 3, Interval: 1}, nil},
		{"last overflows", BatchRequest{MineRequest: MineRequest{Timestamp: math.MaxUint64 - 1}, Count: 3, Interval: 1}, ErrTimestampOverflow},
		{"offset overflows", BatchRequest{Count: math.MaxUint64, Interval: 2}, ErrTimestampOverflow},
		{"zero interval", BatchRequest{MineRequest: MineRequest{Timestamp: math.MaxUint64}, Count: math.MaxUint64}, nil},
	}

	for _, tc := range cases {
		if err := tc.req.Validate(); err != tc.err {
			t.Errorf("%s: got %v want %v", tc.name, err, tc.err)
		}
	}
}

func TestBatchRequest_CapacityHint(t *testing.T) {
	cases := map[uint64]int{
		1:               1,
		maxCapacityHint: maxCapacityHint,
		math.MaxUint64:  maxCapacityHint,
	}

	for count, want := range cases {
		if got := (BatchRequest{Count: count}).CapacityHint(); got != want {
			t.Errorf("count %d: got %d want %d", count, got, want)
		}
	}
}

func TestBatchRequest_At(t *testing.T) {
	reward := uint256.NewInt(2)
	req := BatchRequest{
		MineRequest: MineRequest{Timestamp: 1000, MinerReward: reward},
		Count:       3,
		Interval:    15,
	}

	for i := uint64(0); i < req.Count; i++ {
		r := req.At(i)
		if r.Timestamp != 1000+15*i {
			t.Errorf("block %d: wrong timestamp %d", i, r.Timestamp)
		}
		if r.MinerReward != reward {
			t.Errorf("block %d: reward not passed", i)
		}
	}

	if req.Timestamp != 1000 {
		t.Error("At mutated the batch")
	}
}

func TestMineResult_Header(t *testing.T) {
	var r *MineResult
	if r.Header() != nil {
		t.Error("nil result has header")
	}

	r = &MineResult{Block: &Block{Header: &Header{Number: 4, ExtraData: []byte{1}}}}
	cpy := r.Header().Copy()
	cpy.ExtraData[0] = 2

	if r.Header().ExtraData[0] != 1 {
		t.Error("header copy shares extra data")
	}
}
