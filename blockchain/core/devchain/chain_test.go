package devchain

import (
	"context"
	"math"
	"testing"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/raidoNetwork/rdo-dualminer/blockchain/consensus"
	"github.com/raidoNetwork/rdo-dualminer/blockchain/consensus/miner"
	"github.com/raidoNetwork/rdo-dualminer/shared/common"
	"github.com/raidoNetwork/rdo-dualminer/shared/crypto"
	"github.com/raidoNetwork/rdo-dualminer/shared/hashutil"
	"github.com/raidoNetwork/rdo-dualminer/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice    = common.HexToAddress("0xa11ce")
	bob      = common.HexToAddress("0xb0b")
	carol    = common.HexToAddress("0xca401")
	coinbase = common.HexToAddress("0xc014ba5e")
)

func testConfig() *Config {
	return &Config{
		GasLimit:       50000,
		Coinbase:       coinbase,
		InitialBaseFee: uint256.NewInt(0),
		Alloc: map[common.Address]*uint256.Int{
			alice: uint256.NewInt(1000000),
			carol: uint256.NewInt(100),
		},
	}
}

func transfer(from, to common.Address, nonce, value uint64) *Transaction {
	return &Transaction{
		From:     from,
		To:       to,
		Nonce:    nonce,
		Value:    uint256.NewInt(value),
		GasLimit: IntrinsicGas,
		GasPrice: uint256.NewInt(1),
	}
}

func request(timestamp uint64) types.MineRequest {
	return types.MineRequest{Timestamp: timestamp, MinerReward: uint256.NewInt(2)}
}

func TestNew_Genesis(t *testing.T) {
	a, b := New("a", testConfig()), New("b", testConfig())

	assert.Equal(t, a.Head(), b.Head())
	assert.Equal(t, uint64(GenesisBlockNum), a.Head().Number)
	assert.Equal(t, GenesisHash, a.Head().ParentHash)
	assert.Equal(t, hashutil.EmptyRoot, a.Head().ReceiptsRoot)
	assert.Equal(t, uint256.NewInt(1000000), a.Balance(alice))
	assert.True(t, a.Balance(bob).IsZero())
}

func TestAddTransaction(t *testing.T) {
	e := New("test", testConfig())

	tx := transfer(alice, bob, 0, 10)
	require.NoError(t, e.AddTransaction(tx))
	assert.Equal(t, ErrTxExists, e.AddTransaction(tx))

	tx = transfer(alice, bob, 1, 10)
	tx.GasLimit = IntrinsicGas - 1
	assert.Equal(t, ErrIntrinsicGas, e.AddTransaction(tx))

	assert.Equal(t, 1, e.PendingCount())
}

func TestMineBlock_EmptyPool(t *testing.T) {
	e := New("test", testConfig())
	genesis := e.Head()

	res, err := e.MineBlock(context.Background(), types.MineRequest{Timestamp: 10})
	require.NoError(t, err)

	h := res.Header()
	assert.Equal(t, uint64(1), h.Number)
	assert.Equal(t, uint64(10), h.Timestamp)
	assert.Equal(t, genesis.Hash, h.ParentHash)
	assert.Equal(t, genesis.StateRoot, h.StateRoot)
	assert.Equal(t, hashutil.EmptyRoot, h.ReceiptsRoot)
	assert.Zero(t, h.GasUsed)
	assert.Empty(t, res.Block.Transactions)
	assert.Empty(t, res.Excluded)
	assert.Equal(t, h, e.Head())
}

func TestMineBlock_Reward(t *testing.T) {
	e := New("test", testConfig())
	genesis := e.Head()

	res, err := e.MineBlock(context.Background(), request(10))
	require.NoError(t, err)

	assert.NotEqual(t, genesis.StateRoot, res.Header().StateRoot)
	assert.Equal(t, uint256.NewInt(2), e.Balance(coinbase))
}

func TestMineBlock_Transfers(t *testing.T) {
	e := New("test", testConfig())

	first, second := transfer(alice, bob, 0, 100), transfer(alice, bob, 1, 50)
	require.NoError(t, e.AddTransaction(first))
	require.NoError(t, e.AddTransaction(second))

	res, err := e.MineBlock(context.Background(), request(10))
	require.NoError(t, err)

	require.Len(t, res.Block.Transactions, 2)
	assert.Equal(t, first.Hash(), res.Block.Transactions[0].Hash)
	assert.Equal(t, second.Hash(), res.Block.Transactions[1].Hash)
	assert.Equal(t, types.TxSuccess, res.Block.Transactions[0].Status)
	assert.Equal(t, 2*IntrinsicGas, res.Header().GasUsed)
	assert.NotEqual(t, hashutil.EmptyRoot, res.Header().ReceiptsRoot)

	digest := crypto.Keccak256(bob[:])
	assert.True(t, res.Header().LogsBloom.Test(digest))

	// 150 transferred, 2 * 21000 gas at price 1, base fee 0 so the whole fee is a tip
	assert.Equal(t, uint256.NewInt(1000000-150-2*IntrinsicGas), e.Balance(alice))
	assert.Equal(t, uint256.NewInt(150), e.Balance(bob))
	assert.Equal(t, uint256.NewInt(2*IntrinsicGas+2), e.Balance(coinbase))
	assert.Zero(t, e.PendingCount())
}

func TestMineBlock_Revert(t *testing.T) {
	e := New("test", testConfig())

	tx := transfer(alice, bob, 0, 100)
	tx.GasLimit = 30000
	tx.Revert = true
	require.NoError(t, e.AddTransaction(tx))

	res, err := e.MineBlock(context.Background(), request(10))
	require.NoError(t, err)

	require.Len(t, res.Block.Transactions, 1)
	assert.Equal(t, types.TxFailed, res.Block.Transactions[0].Status)
	assert.Equal(t, uint64(30000), res.Block.Transactions[0].GasUsed)
	assert.Equal(t, uint256.NewInt(1000000-30000), e.Balance(alice))
	assert.True(t, e.Balance(bob).IsZero())
	assert.False(t, res.Header().LogsBloom.Test(crypto.Keccak256(bob[:])))
}

func TestMineBlock_Exclusions(t *testing.T) {
	e := New("test", testConfig())

	future := transfer(alice, bob, 5, 1)
	poor := transfer(carol, bob, 0, 1000)
	stranger := transfer(bob, alice, 0, 0)
	fits := transfer(alice, bob, 0, 1)
	fits2 := transfer(alice, bob, 1, 1)
	overflow := transfer(alice, bob, 2, 1)

	for _, tx := range []*Transaction{future, poor, stranger, fits, fits2, overflow} {
		require.NoError(t, e.AddTransaction(tx))
	}

	res, err := e.MineBlock(context.Background(), request(10))
	require.NoError(t, err)

	assert.Len(t, res.Block.Transactions, 2)
	assert.Equal(t, []types.ExcludedTx{
		{Hash: future.Hash(), Reason: types.ReasonInvalidNonce},
		{Hash: poor.Hash(), Reason: types.ReasonInsufficientBalance},
		{Hash: stranger.Hash(), Reason: types.ReasonInsufficientBalance},
		{Hash: overflow.Hash(), Reason: types.ReasonGasLimitExceeded},
	}, res.Excluded)
	assert.Len(t, res.Warnings, 1)

	// future nonce and gas limit exclusions stay in the pool
	assert.Equal(t, 2, e.PendingCount())

	res, err = e.MineBlock(context.Background(), request(11))
	require.NoError(t, err)
	require.Len(t, res.Block.Transactions, 1)
	assert.Equal(t, overflow.Hash(), res.Block.Transactions[0].Hash)
}

func TestMineBlock_FeeTooLow(t *testing.T) {
	e := New("test", testConfig())

	tx := transfer(alice, bob, 0, 1)
	require.NoError(t, e.AddTransaction(tx))

	req := request(10)
	req.BaseFeePerGas = uint256.NewInt(2)

	res, err := e.MineBlock(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []types.ExcludedTx{{Hash: tx.Hash(), Reason: types.ReasonFeeTooLow}}, res.Excluded)
	assert.Equal(t, uint256.NewInt(2), res.Header().BaseFeePerGas)
	assert.Equal(t, 1, e.PendingCount())

	// base fee is inherited from the parent
	res, err = e.MineBlock(context.Background(), request(11))
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(2), res.Header().BaseFeePerGas)
}

func TestMineBlock_InvalidTimestamp(t *testing.T) {
	e := New("test", testConfig())

	_, err := e.MineBlock(context.Background(), request(10))
	require.NoError(t, err)
	head := e.Head()

	_, err = e.MineBlock(context.Background(), request(10))
	require.Error(t, err)
	assert.True(t, consensus.IsUpstreamError(err))
	assert.True(t, errors.Is(err, consensus.ErrInvalidTimestamp))
	assert.Equal(t, head, e.Head())
}

func TestMineBlock_Cancelled(t *testing.T) {
	e := New("test", testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.MineBlock(ctx, request(10))
	assert.Equal(t, context.Canceled, err)
	assert.Equal(t, uint64(0), e.Head().Number)
}

func TestMineBlocks(t *testing.T) {
	e := New("test", testConfig())
	require.NoError(t, e.AddTransaction(transfer(alice, bob, 0, 1)))

	req := types.BatchRequest{MineRequest: request(100), Count: 3, Interval: 12}
	results, err := e.MineBlocks(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, res := range results {
		assert.Equal(t, uint64(i+1), res.Header().Number)
		assert.Equal(t, uint64(100+12*i), res.Header().Timestamp)
	}

	assert.Len(t, results[0].Block.Transactions, 1)
	assert.Empty(t, results[1].Block.Transactions)
	assert.Equal(t, results[2].Header(), e.Head())
}

func TestMineBlocks_Atomic(t *testing.T) {
	e := New("test", testConfig())
	require.NoError(t, e.AddTransaction(transfer(alice, bob, 0, 1)))

	// the second block repeats the timestamp of the first one
	req := types.BatchRequest{MineRequest: request(100), Count: 2}
	_, err := e.MineBlocks(context.Background(), req)
	assert.True(t, errors.Is(err, consensus.ErrInvalidTimestamp))

	assert.Equal(t, uint64(0), e.Head().Number)
	assert.Equal(t, 1, e.PendingCount())
	assert.True(t, e.Balance(bob).IsZero())
}

func TestMineBlocks_HugeCount(t *testing.T) {
	e := New("test", testConfig())

	req := types.BatchRequest{MineRequest: request(100), Count: math.MaxUint64}
	results, err := e.MineBlocks(context.Background(), req)
	assert.Nil(t, results)
	assert.True(t, errors.Is(err, consensus.ErrInvalidTimestamp))
	assert.Equal(t, uint64(0), e.Head().Number)
}

func TestMineBlocks_InvalidBatch(t *testing.T) {
	e := New("test", testConfig())

	_, err := e.MineBlocks(context.Background(), types.BatchRequest{MineRequest: request(100)})
	assert.True(t, consensus.IsUpstreamError(err))
	assert.True(t, errors.Is(err, types.ErrInvalidBatch))
}

func TestEngines_Deterministic(t *testing.T) {
	a, b := New("a", testConfig()), New("b", testConfig())

	for _, e := range []*Engine{a, b} {
		require.NoError(t, e.AddTransaction(transfer(alice, bob, 0, 7)))
		require.NoError(t, e.AddTransaction(transfer(carol, bob, 0, 1000)))
	}

	req := types.BatchRequest{MineRequest: request(100), Count: 2, Interval: 1}

	ra, err := a.MineBlocks(context.Background(), req)
	require.NoError(t, err)
	rb, err := b.MineBlocks(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, ra, rb)
}

func TestDualMiner_DevEngines(t *testing.T) {
	ref := New(miner.ReferenceEngine, testConfig())
	canCfg := testConfig()
	canCfg.GasLimit = IntrinsicGas
	can := New(miner.CanonicalEngine, canCfg)

	for _, e := range []*Engine{ref, can} {
		require.NoError(t, e.AddTransaction(transfer(alice, bob, 0, 7)))
	}

	m, err := miner.NewDualMiner(ref, can, nil)
	require.NoError(t, err)

	// a single transfer fits both gas limits
	res, err := m.MineBlock(context.Background(), request(10))
	require.NoError(t, err)
	assert.Len(t, res.Block.Transactions, 1)

	for _, e := range []*Engine{ref, can} {
		require.NoError(t, e.AddTransaction(transfer(alice, bob, 1, 7)))
		require.NoError(t, e.AddTransaction(transfer(alice, bob, 2, 7)))
	}

	_, err = m.MineBlock(context.Background(), request(11))

	var divErr *miner.DivergenceError
	require.True(t, errors.As(err, &divErr))
	assert.Contains(t, divErr.Fields(), miner.FieldExcluded)
	assert.Contains(t, divErr.Fields(), miner.FieldGasUsed)
}

func TestDualMiner_EmptyPools(t *testing.T) {
	ref, can := New(miner.ReferenceEngine, testConfig()), New(miner.CanonicalEngine, testConfig())

	m, err := miner.NewDualMiner(ref, can, nil)
	require.NoError(t, err)

	res, err := m.MineBlock(context.Background(), types.MineRequest{Timestamp: 1000, MinerReward: uint256.NewInt(2)})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), res.Header().Number)
	assert.Empty(t, res.Block.Transactions)
	assert.Equal(t, ref.Head().StateRoot, can.Head().StateRoot)

	req := types.BatchRequest{
		MineRequest: types.MineRequest{Timestamp: 1001, MinerReward: uint256.NewInt(2)},
		Count:       3,
		Interval:    1,
	}
	results, err := m.MineBlocks(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, r := range results {
		assert.Equal(t, uint64(1001+i), r.Header().Timestamp)
	}
	assert.Equal(t, ref.Head(), can.Head())
}
