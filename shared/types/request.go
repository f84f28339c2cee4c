package types

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	rmath "github.com/raidoNetwork/rdo-dualminer/shared/math"
)

var (
	ErrInvalidBatch      = errors.New("batch must contain at least one block")
	ErrTimestampOverflow = errors.New("batch timestamps overflow uint64")
)

// MineRequest holds the inputs of a single block.
// BaseFeePerGas is optional; nil lets the engine derive it.
type MineRequest struct {
	Timestamp     uint64
	MinerReward   *uint256.Int
	BaseFeePerGas *uint256.Int
}

// BatchRequest mines Count blocks, the i-th one at Timestamp + i*Interval.
type BatchRequest struct {
	MineRequest
	Count    uint64
	Interval uint64
}

// Validate checks the batch size and that the last timestamp fits into uint64.
func (r BatchRequest) Validate() error {
	if r.Count == 0 {
		return ErrInvalidBatch
	}

	offset, overflow := rmath.Mul64(r.Count-1, r.Interval)
	if overflow {
		return ErrTimestampOverflow
	}

	if _, overflow := rmath.Add64(r.Timestamp, offset); overflow {
		return ErrTimestampOverflow
	}

	return nil
}

// maxCapacityHint bounds slice preallocation for a batch. Count comes from the caller.
const maxCapacityHint = 1024

// CapacityHint returns the capacity to preallocate for the batch results.
func (r BatchRequest) CapacityHint() int {
	if r.Count > maxCapacityHint {
		return maxCapacityHint
	}
	return int(r.Count)
}

// At returns the request of the i-th block of the batch.
// Callers must validate the batch first.
func (r BatchRequest) At(i uint64) MineRequest {
	req := r.MineRequest
	req.Timestamp = r.Timestamp + i*r.Interval
	return req
}
