package devchain

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/raidoNetwork/rdo-dualminer/blockchain/consensus"
	"github.com/raidoNetwork/rdo-dualminer/shared/common"
	"github.com/raidoNetwork/rdo-dualminer/shared/crypto"
	"github.com/raidoNetwork/rdo-dualminer/shared/hashutil"
	"github.com/raidoNetwork/rdo-dualminer/shared/types"
	"github.com/raidoNetwork/rdo-dualminer/utils/hash"
	"github.com/sirupsen/logrus"
)

const GenesisBlockNum = 0

var (
	GenesisHash = crypto.Keccak256Hash([]byte("genesis-hash"))

	ErrTxExists     = errors.New("tx already exists in pool")
	ErrIntrinsicGas = errors.New("tx gas limit is below intrinsic gas")

	log = logrus.WithField("prefix", "devchain")
)

// Config of the development engine.
type Config struct {
	GasLimit       uint64
	Coinbase       common.Address
	InitialBaseFee *uint256.Int
	ExtraData      []byte
	Alloc          map[common.Address]*uint256.Int
}

var _ consensus.BlockMiner = (*Engine)(nil)

// Engine is a deterministic in-memory block production engine. Two engines
// created with equal configs and fed equal transactions mine equal blocks.
type Engine struct {
	name string
	cfg  *Config
	lock sync.Mutex
	st   *state
}

// New creates engine with a genesis block holding cfg.Alloc.
func New(name string, cfg *Config) *Engine {
	st := &state{
		accounts: make(map[common.Address]*account, len(cfg.Alloc)),
	}

	for addr, balance := range cfg.Alloc {
		st.accounts[addr] = &account{balance: amount(balance)}
	}

	genesis := &types.Header{
		Number:        GenesisBlockNum,
		ParentHash:    GenesisHash,
		StateRoot:     st.root(),
		ReceiptsRoot:  hashutil.EmptyRoot,
		BaseFeePerGas: amount(cfg.InitialBaseFee),
		Coinbase:      cfg.Coinbase,
	}
	genesis.Hash = hash.HeaderHash(genesis)
	st.head = genesis

	return &Engine{
		name: name,
		cfg:  cfg,
		st:   st,
	}
}

// AddTransaction puts tx to the end of the pending pool.
func (e *Engine) AddTransaction(tx *Transaction) error {
	if tx.GasLimit < IntrinsicGas {
		return ErrIntrinsicGas
	}

	e.lock.Lock()
	defer e.lock.Unlock()

	txHash := tx.Hash()
	for _, ptx := range e.st.pending {
		if ptx.Hash() == txHash {
			return ErrTxExists
		}
	}

	e.st.pending = append(e.st.pending, tx.copy())

	return nil
}

// Head returns a copy of the last mined header.
func (e *Engine) Head() *types.Header {
	e.lock.Lock()
	defer e.lock.Unlock()

	return e.st.head.Copy()
}

// PendingCount returns the number of transactions waiting in the pool.
func (e *Engine) PendingCount() int {
	e.lock.Lock()
	defer e.lock.Unlock()

	return len(e.st.pending)
}

// Balance returns the balance of the given address.
func (e *Engine) Balance(addr common.Address) *uint256.Int {
	e.lock.Lock()
	defer e.lock.Unlock()

	acc, exists := e.st.accounts[addr]
	if !exists {
		return new(uint256.Int)
	}
	return amount(acc.balance)
}

// MineBlock mines a block on top of the current head.
func (e *Engine) MineBlock(ctx context.Context, req types.MineRequest) (*types.MineResult, error) {
	e.lock.Lock()
	defer e.lock.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	next := e.st.copy()
	res, err := e.mine(next, req)
	if err != nil {
		return nil, err
	}

	e.st = next

	return res, nil
}

// MineBlocks mines the whole batch or nothing.
func (e *Engine) MineBlocks(ctx context.Context, req types.BatchRequest) ([]*types.MineResult, error) {
	if err := req.Validate(); err != nil {
		return nil, consensus.NewUpstreamError("invalid batch", err)
	}

	e.lock.Lock()
	defer e.lock.Unlock()

	next := e.st.copy()

	results := make([]*types.MineResult, 0, req.CapacityHint())
	for i := uint64(0); i < req.Count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res, err := e.mine(next, req.At(i))
		if err != nil {
			return nil, err
		}

		results = append(results, res)
	}

	e.st = next

	return results, nil
}

func (e *Engine) mine(st *state, req types.MineRequest) (*types.MineResult, error) {
	start := time.Now()

	if req.Timestamp <= st.head.Timestamp {
		return nil, consensus.NewUpstreamError(
			fmt.Sprintf("timestamp %d, parent timestamp %d", req.Timestamp, st.head.Timestamp),
			consensus.ErrInvalidTimestamp,
		)
	}

	baseFee := amount(st.head.BaseFeePerGas)
	if req.BaseFeePerGas != nil {
		baseFee = amount(req.BaseFeePerGas)
	}

	header := &types.Header{
		Number:        st.head.Number + 1,
		Timestamp:     req.Timestamp,
		ParentHash:    st.head.Hash,
		BaseFeePerGas: baseFee,
		Coinbase:      e.cfg.Coinbase,
		ExtraData:     append([]byte{}, e.cfg.ExtraData...),
	}

	res := &types.MineResult{
		Block: &types.Block{Header: header},
	}

	var receipts [][]byte
	gasLeft := e.cfg.GasLimit
	postponed := 0
	remaining := make([]*Transaction, 0, len(st.pending))

	for _, tx := range st.pending {
		txHash := tx.Hash()
		sender, exists := st.accounts[tx.From]
		if !exists {
			sender = &account{balance: new(uint256.Int)}
		}

		reason, keep := e.check(sender, tx, gasLeft, baseFee)
		if reason != "" {
			res.Excluded = append(res.Excluded, types.ExcludedTx{Hash: txHash, Reason: reason})
			if keep {
				remaining = append(remaining, tx)
			}
			if reason == types.ReasonGasLimitExceeded {
				postponed++
			}
			continue
		}

		outcome := e.execute(st, tx, baseFee)
		outcome.Hash = txHash

		gasLeft -= outcome.GasUsed
		header.GasUsed += outcome.GasUsed

		if outcome.Status == types.TxSuccess {
			header.LogsBloom.Add(crypto.Keccak256(tx.From[:]))
			header.LogsBloom.Add(crypto.Keccak256(tx.To[:]))
		}

		res.Block.Transactions = append(res.Block.Transactions, outcome)
		receipts = append(receipts, hash.Receipt(outcome.Status, header.GasUsed, txHash))
	}

	if postponed > 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("block gas limit reached: %d transactions postponed", postponed))
	}

	if req.MinerReward != nil {
		coinbase := st.account(e.cfg.Coinbase)
		coinbase.balance.Add(coinbase.balance, req.MinerReward)
	}

	header.StateRoot = st.root()
	header.ReceiptsRoot = hashutil.MerkleeRoot(receipts)
	header.Hash = hash.HeaderHash(header)

	st.head = header
	st.pending = remaining

	log.WithField("engine", e.name).Debugf("Mined block %d with %d transactions, %d excluded in %s",
		header.Number, len(res.Block.Transactions), len(res.Excluded), common.StatFmt(time.Since(start)))

	return res, nil
}

// check returns the exclusion reason of tx, if any, and whether tx stays in the pool.
func (e *Engine) check(sender *account, tx *Transaction, gasLeft uint64, baseFee *uint256.Int) (types.ExcludeReason, bool) {
	if tx.Nonce != sender.nonce {
		// stale nonces can never be mined
		return types.ReasonInvalidNonce, tx.Nonce > sender.nonce
	}

	if tx.GasLimit > gasLeft {
		return types.ReasonGasLimitExceeded, true
	}

	gasPrice := amount(tx.GasPrice)
	if gasPrice.Lt(baseFee) {
		return types.ReasonFeeTooLow, true
	}

	// cost = gasLimit * gasPrice + value
	cost, overflow := new(uint256.Int).MulOverflow(uint256.NewInt(tx.GasLimit), gasPrice)
	if !overflow {
		_, overflow = cost.AddOverflow(cost, amount(tx.Value))
	}

	if overflow || sender.balance.Lt(cost) {
		return types.ReasonInsufficientBalance, false
	}

	return "", false
}

// execute applies tx to the state. The sender pays gasUsed * gasPrice,
// the tip above base fee goes to coinbase and the base fee part is burnt.
func (e *Engine) execute(st *state, tx *Transaction, baseFee *uint256.Int) types.TxOutcome {
	outcome := types.TxOutcome{Status: types.TxSuccess, GasUsed: IntrinsicGas}
	if tx.Revert {
		outcome.Status = types.TxFailed
		outcome.GasUsed = tx.GasLimit
	}

	gasPrice := amount(tx.GasPrice)
	gasUsed := uint256.NewInt(outcome.GasUsed)

	sender := st.account(tx.From)
	fee := new(uint256.Int).Mul(gasUsed, gasPrice)
	sender.balance.Sub(sender.balance, fee)
	sender.nonce++

	if outcome.Status == types.TxSuccess {
		value := amount(tx.Value)
		sender.balance.Sub(sender.balance, value)

		recipient := st.account(tx.To)
		recipient.balance.Add(recipient.balance, value)
	}

	tip := new(uint256.Int).Sub(gasPrice, baseFee)
	tip.Mul(tip, gasUsed)

	coinbase := st.account(e.cfg.Coinbase)
	coinbase.balance.Add(coinbase.balance, tip)

	return outcome
}
