package miner

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/raidoNetwork/rdo-dualminer/shared/common"
	"github.com/raidoNetwork/rdo-dualminer/shared/types"
)

const nilValue = "<nil>"

// render turns one field of a result into a string. Renderings are
// injective, so two results agree on a field iff their renderings are equal.
type render func(*types.MineResult) string

var renderers = map[Field]render{
	FieldNumber: headerField(func(h *types.Header) string {
		return strconv.FormatUint(h.Number, 10)
	}),
	FieldTimestamp: headerField(func(h *types.Header) string {
		return strconv.FormatUint(h.Timestamp, 10)
	}),
	FieldParentHash: headerField(func(h *types.Header) string {
		return h.ParentHash.Hex()
	}),
	FieldHash: headerField(func(h *types.Header) string {
		return h.Hash.Hex()
	}),
	FieldStateRoot: headerField(func(h *types.Header) string {
		return h.StateRoot.Hex()
	}),
	FieldReceiptsRoot: headerField(func(h *types.Header) string {
		return h.ReceiptsRoot.Hex()
	}),
	FieldGasUsed: headerField(func(h *types.Header) string {
		return strconv.FormatUint(h.GasUsed, 10)
	}),
	FieldLogsBloom: headerField(func(h *types.Header) string {
		return h.LogsBloom.Hex()
	}),
	FieldBaseFeePerGas: headerField(func(h *types.Header) string {
		if h.BaseFeePerGas == nil {
			return nilValue
		}
		return h.BaseFeePerGas.Dec()
	}),
	FieldCoinbase: headerField(func(h *types.Header) string {
		return h.Coinbase.Hex()
	}),
	FieldExtraData: headerField(func(h *types.Header) string {
		return common.Encode(h.ExtraData)
	}),
	FieldTransactions: func(r *types.MineResult) string {
		if r == nil || r.Block == nil {
			return nilValue
		}

		hashes := make([]string, len(r.Block.Transactions))
		for i, tx := range r.Block.Transactions {
			hashes[i] = tx.Hash.Hex()
		}
		return "[" + strings.Join(hashes, ",") + "]"
	},
	FieldTxStatus: func(r *types.MineResult) string {
		if r == nil || r.Block == nil {
			return nilValue
		}

		statuses := make([]string, len(r.Block.Transactions))
		for i, tx := range r.Block.Transactions {
			statuses[i] = fmt.Sprintf("%s:%d", tx.Status, tx.GasUsed)
		}
		return "[" + strings.Join(statuses, ",") + "]"
	},
	FieldExcluded: func(r *types.MineResult) string {
		if r == nil {
			return nilValue
		}

		excluded := make([]string, len(r.Excluded))
		for i, tx := range r.Excluded {
			excluded[i] = fmt.Sprintf("%s:%s", tx.Hash.Hex(), tx.Reason)
		}
		return "[" + strings.Join(excluded, ",") + "]"
	},
	FieldWarnings: func(r *types.MineResult) string {
		if r == nil {
			return nilValue
		}

		warnings := make([]string, len(r.Warnings))
		for i, w := range r.Warnings {
			warnings[i] = strconv.Quote(w)
		}
		return "[" + strings.Join(warnings, ",") + "]"
	},
}

func headerField(fn func(*types.Header) string) render {
	return func(r *types.MineResult) string {
		h := r.Header()
		if h == nil {
			return nilValue
		}
		return fn(h)
	}
}

// Comparator checks two mine results for exact equality on a set of fields.
type Comparator struct {
	fields []Field
}

// NewComparator creates comparator over the given fields.
func NewComparator(fields FieldSet) *Comparator {
	return &Comparator{fields: fields.List()}
}

// Fields returns compared fields in registry order.
func (c *Comparator) Fields() []Field {
	return append([]Field{}, c.fields...)
}

// Compare returns the record of all compared fields the results disagree on.
// The record is empty when the results are equivalent.
func (c *Comparator) Compare(reference, canonical *types.MineResult) *DivergenceRecord {
	record := &DivergenceRecord{}
	if h := canonical.Header(); h != nil {
		record.BlockNumber = h.Number
	}

	for _, f := range c.fields {
		fn := renderers[f]

		refValue, canValue := fn(reference), fn(canonical)
		if refValue != canValue {
			record.Diffs = append(record.Diffs, FieldDiff{
				Field:     f,
				Reference: refValue,
				Canonical: canValue,
			})
		}
	}

	return record
}
