package devchain

import (
	ssz "github.com/ferranbt/fastssz"
	"github.com/holiman/uint256"
	"github.com/raidoNetwork/rdo-dualminer/shared/common"
	"github.com/raidoNetwork/rdo-dualminer/shared/crypto"
	"github.com/raidoNetwork/rdo-dualminer/utils/hash"
)

// IntrinsicGas is the gas every transaction consumes.
const IntrinsicGas uint64 = 21000

// Transaction is a value transfer waiting in the engine pool.
type Transaction struct {
	From     common.Address
	To       common.Address
	Nonce    uint64
	Value    *uint256.Int
	GasLimit uint64
	GasPrice *uint256.Int

	// Revert makes execution fail and consume the whole gas limit.
	Revert bool
}

// Hash count tx hash
// hash = Keccak256(from + to + nonce + value + gasLimit + gasPrice + revert)
func (tx *Transaction) Hash() common.Hash {
	buf := make([]byte, 0, 2*common.AddressLength+3*8+2*32+1)
	buf = append(buf, tx.From[:]...)
	buf = append(buf, tx.To[:]...)
	buf = ssz.MarshalUint64(buf, tx.Nonce)
	buf = hash.AppendAmount(buf, tx.Value)
	buf = ssz.MarshalUint64(buf, tx.GasLimit)
	buf = hash.AppendAmount(buf, tx.GasPrice)
	buf = ssz.MarshalBool(buf, tx.Revert)

	return crypto.Keccak256Hash(buf)
}

func (tx *Transaction) copy() *Transaction {
	cpy := *tx
	cpy.Value = amount(tx.Value)
	cpy.GasPrice = amount(tx.GasPrice)
	return &cpy
}

// amount returns a copy of v, treating nil as zero.
func amount(v *uint256.Int) *uint256.Int {
	if v == nil {
		return new(uint256.Int)
	}
	return new(uint256.Int).Set(v)
}
