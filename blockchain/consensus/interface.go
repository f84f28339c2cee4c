package consensus

import (
	"context"

	"github.com/raidoNetwork/rdo-dualminer/shared/types"
)

// BlockMiner is the capability of a block production engine.
// Every call mutates the engine chain state: a result only makes sense
// relative to the state the engine had before the call.
type BlockMiner interface {
	// MineBlock produces a single block on top of the current head.
	MineBlock(context.Context, types.MineRequest) (*types.MineResult, error)

	// MineBlocks produces exactly req.Count blocks, advancing the timestamp
	// by req.Interval after each one, or fails without a partial result.
	MineBlocks(context.Context, types.BatchRequest) ([]*types.MineResult, error)
}
