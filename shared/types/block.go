package types

import (
	"github.com/holiman/uint256"
	"github.com/raidoNetwork/rdo-dualminer/shared/common"
)

// TxStatus is the execution status of an included transaction.
type TxStatus uint8

const (
	TxFailed TxStatus = iota
	TxSuccess
)

func (s TxStatus) String() string {
	if s == TxSuccess {
		return "success"
	}
	return "failed"
}

// ExcludeReason is the code an engine attaches to a pending transaction it left out of a block.
type ExcludeReason string

const (
	ReasonGasLimitExceeded    ExcludeReason = "gasLimitExceeded"
	ReasonFeeTooLow           ExcludeReason = "feeTooLow"
	ReasonInsufficientBalance ExcludeReason = "insufficientBalance"
	ReasonInvalidNonce        ExcludeReason = "invalidNonce"
)

// Header is the part of a mined block engines are compared on.
type Header struct {
	Number        uint64
	Timestamp     uint64
	ParentHash    common.Hash
	Hash          common.Hash
	StateRoot     common.Hash
	ReceiptsRoot  common.Hash
	GasUsed       uint64
	LogsBloom     common.Bloom
	BaseFeePerGas *uint256.Int
	Coinbase      common.Address
	ExtraData     []byte
}

// Copy returns a deep copy of the header.
func (h *Header) Copy() *Header {
	cpy := *h
	if h.BaseFeePerGas != nil {
		cpy.BaseFeePerGas = new(uint256.Int).Set(h.BaseFeePerGas)
	}
	if h.ExtraData != nil {
		cpy.ExtraData = append([]byte{}, h.ExtraData...)
	}
	return &cpy
}

// TxOutcome describes a transaction included in a block.
type TxOutcome struct {
	Hash    common.Hash
	Status  TxStatus
	GasUsed uint64
}

// Block is a mined header with its transactions in execution order.
type Block struct {
	Header       *Header
	Transactions []TxOutcome
}

// ExcludedTx is a pending transaction the engine did not include.
type ExcludedTx struct {
	Hash   common.Hash
	Reason ExcludeReason
}

// MineResult is everything an engine reports about one mined block.
type MineResult struct {
	Block    *Block
	Excluded []ExcludedTx
	Warnings []string
}

// Header returns the block header or nil.
func (r *MineResult) Header() *Header {
	if r == nil || r.Block == nil {
		return nil
	}
	return r.Block.Header
}
