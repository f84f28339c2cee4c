package hash

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/raidoNetwork/rdo-dualminer/shared/common"
	"github.com/raidoNetwork/rdo-dualminer/shared/types"
)

func TestHeaderHash(t *testing.T) {
	h := &types.Header{
		Number:        1,
		Timestamp:     100,
		ParentHash:    common.HexToHash("0x01"),
		BaseFeePerGas: uint256.NewInt(7),
	}

	base := HeaderHash(h)
	if base != HeaderHash(h.Copy()) {
		t.Fatal("equal headers hash differently")
	}

	cpy := h.Copy()
	cpy.ExtraData = []byte("x")
	if HeaderHash(cpy) == base {
		t.Error("extra data is not hashed")
	}

	cpy = h.Copy()
	cpy.BaseFeePerGas = nil
	if HeaderHash(cpy) == base {
		t.Error("base fee is not hashed")
	}

	cpy = h.Copy()
	cpy.Hash = common.HexToHash("0xff")
	if HeaderHash(cpy) != base {
		t.Error("hash field must not affect header hash")
	}
}

func TestAppendAmount(t *testing.T) {
	zero := AppendAmount(nil, nil)
	if len(zero) != amountSize {
		t.Fatalf("wrong size %d", len(zero))
	}

	if string(zero) != string(AppendAmount(nil, new(uint256.Int))) {
		t.Error("nil and zero amounts must be encoded equally")
	}

	enc := AppendAmount([]byte{1}, uint256.NewInt(0x0102))
	if len(enc) != 1+amountSize || enc[amountSize-1] != 0x01 || enc[amountSize] != 0x02 {
		t.Errorf("wrong encoding %x", enc)
	}
}

func TestReceipt(t *testing.T) {
	txHash := common.HexToHash("0xaa")

	ok := Receipt(types.TxSuccess, 21000, txHash)
	failed := Receipt(types.TxFailed, 21000, txHash)

	if len(ok) != 1+8+common.HashLength {
		t.Fatalf("wrong receipt size %d", len(ok))
	}

	if string(ok) == string(failed) {
		t.Error("status is not encoded")
	}
}
