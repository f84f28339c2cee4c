package hash

import (
	ssz "github.com/ferranbt/fastssz"
	"github.com/holiman/uint256"
	"github.com/raidoNetwork/rdo-dualminer/shared/common"
	"github.com/raidoNetwork/rdo-dualminer/shared/crypto"
	"github.com/raidoNetwork/rdo-dualminer/shared/types"
)

const amountSize = 32

// HeaderHash count block hash
// hash = Keccak256(num + timestamp + parent + stateRoot + receiptsRoot + gasUsed + bloom + baseFee + coinbase + extra)
func HeaderHash(h *types.Header) common.Hash {
	res := make([]byte, 0, 3*8+3*common.HashLength+common.BloomLength+amountSize+common.AddressLength+len(h.ExtraData))
	res = ssz.MarshalUint64(res, h.Number)
	res = ssz.MarshalUint64(res, h.Timestamp)

	res = append(res, h.ParentHash[:]...)
	res = append(res, h.StateRoot[:]...)
	res = append(res, h.ReceiptsRoot[:]...)

	res = ssz.MarshalUint64(res, h.GasUsed)

	res = append(res, h.LogsBloom[:]...)
	res = AppendAmount(res, h.BaseFeePerGas)
	res = append(res, h.Coinbase[:]...)
	res = append(res, h.ExtraData...)

	return crypto.Keccak256Hash(res)
}

// Receipt encodes receipt tree leaf
// receipt = status + cumulativeGas + txHash
func Receipt(status types.TxStatus, cumulativeGas uint64, txHash common.Hash) []byte {
	res := make([]byte, 0, 1+8+common.HashLength)
	res = ssz.MarshalUint8(res, uint8(status))
	res = ssz.MarshalUint64(res, cumulativeGas)
	return append(res, txHash[:]...)
}

// AccountLeaf encodes state tree leaf
// leaf = address + balance + nonce
func AccountLeaf(addr common.Address, balance *uint256.Int, nonce uint64) []byte {
	res := make([]byte, 0, common.AddressLength+amountSize+8)
	res = append(res, addr[:]...)
	res = AppendAmount(res, balance)
	return ssz.MarshalUint64(res, nonce)
}

// AppendAmount puts 32 bytes big endian v to dst. Nil is written as zero.
func AppendAmount(dst []byte, v *uint256.Int) []byte {
	if v == nil {
		return append(dst, make([]byte, amountSize)...)
	}

	b := v.Bytes32()
	return append(dst, b[:]...)
}
