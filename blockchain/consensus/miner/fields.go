package miner

import (
	"sort"

	"github.com/pkg/errors"
)

// Field identifies a part of a mine result the comparator can check.
type Field string

const (
	FieldNumber        Field = "number"
	FieldTimestamp     Field = "timestamp"
	FieldParentHash    Field = "parentHash"
	FieldHash          Field = "hash"
	FieldStateRoot     Field = "stateRoot"
	FieldReceiptsRoot  Field = "receiptsRoot"
	FieldGasUsed       Field = "gasUsed"
	FieldLogsBloom     Field = "logsBloom"
	FieldBaseFeePerGas Field = "baseFeePerGas"
	FieldCoinbase      Field = "coinbase"
	FieldExtraData     Field = "extraData"
	FieldTransactions  Field = "transactions"
	FieldTxStatus      Field = "transactionStatus"
	FieldExcluded      Field = "excludedTransactions"
	FieldWarnings      Field = "warnings"
)

var ErrUnknownField = errors.New("Unknown compared field.")

// fieldOrder is the registry of known fields. Divergence records list
// their fields in this order.
var fieldOrder = []Field{
	FieldNumber,
	FieldTimestamp,
	FieldParentHash,
	FieldHash,
	FieldStateRoot,
	FieldReceiptsRoot,
	FieldGasUsed,
	FieldLogsBloom,
	FieldBaseFeePerGas,
	FieldCoinbase,
	FieldExtraData,
	FieldTransactions,
	FieldTxStatus,
	FieldExcluded,
	FieldWarnings,
}

var fieldRank = func() map[Field]int {
	rank := make(map[Field]int, len(fieldOrder))
	for i, f := range fieldOrder {
		rank[f] = i
	}
	return rank
}()

// Known reports whether f is a registered field.
func (f Field) Known() bool {
	_, ok := fieldRank[f]
	return ok
}

// FieldSet is a set of compared fields.
type FieldSet map[Field]struct{}

// NewFieldSet builds a set from the given fields and rejects unknown ones.
func NewFieldSet(fields ...Field) (FieldSet, error) {
	set := make(FieldSet, len(fields))
	for _, f := range fields {
		if !f.Known() {
			return nil, errors.Wrapf(ErrUnknownField, "%q", f)
		}
		set[f] = struct{}{}
	}

	return set, nil
}

// ParseFieldSet builds a set from field names as written in config files.
func ParseFieldSet(names []string) (FieldSet, error) {
	fields := make([]Field, 0, len(names))
	for _, name := range names {
		fields = append(fields, Field(name))
	}

	return NewFieldSet(fields...)
}

// DefaultFields returns the fields compared when nothing else is configured.
// Hashes, coinbase, extra data, timestamps and warnings may legitimately
// differ between engines and are left out.
func DefaultFields() FieldSet {
	return FieldSet{
		FieldNumber:       {},
		FieldStateRoot:    {},
		FieldReceiptsRoot: {},
		FieldGasUsed:      {},
		FieldLogsBloom:    {},
		FieldTransactions: {},
		FieldTxStatus:     {},
		FieldExcluded:     {},
	}
}

// AllFields returns every known field.
func AllFields() FieldSet {
	set := make(FieldSet, len(fieldOrder))
	for _, f := range fieldOrder {
		set[f] = struct{}{}
	}
	return set
}

func (s FieldSet) Has(f Field) bool {
	_, ok := s[f]
	return ok
}

// List returns the fields in registry order.
func (s FieldSet) List() []Field {
	list := make([]Field, 0, len(s))
	for f := range s {
		list = append(list, f)
	}

	sortFields(list)
	return list
}

// Strings returns field names in registry order.
func (s FieldSet) Strings() []string {
	list := s.List()
	names := make([]string, len(list))
	for i, f := range list {
		names[i] = string(f)
	}
	return names
}

func sortFields(list []Field) {
	sort.Slice(list, func(i, j int) bool {
		return fieldRank[list[i]] < fieldRank[list[j]]
	})
}
