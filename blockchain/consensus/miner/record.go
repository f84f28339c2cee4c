package miner

import (
	"fmt"
	"strings"
)

// FieldDiff is a single disagreement between engine results.
type FieldDiff struct {
	Field     Field  `json:"field"`
	Reference string `json:"reference"`
	Canonical string `json:"canonical"`
}

// DivergenceRecord lists every compared field two results disagree on.
type DivergenceRecord struct {
	BlockNumber uint64      `json:"blockNumber"`
	Index       uint64      `json:"index"` // position of the block in a batch
	Diffs       []FieldDiff `json:"diffs"`
}

// Empty reports whether the results were equivalent.
func (r *DivergenceRecord) Empty() bool {
	return r == nil || len(r.Diffs) == 0
}

// Fields returns the names of the differing fields.
func (r *DivergenceRecord) Fields() []Field {
	if r == nil {
		return nil
	}

	fields := make([]Field, len(r.Diffs))
	for i, d := range r.Diffs {
		fields[i] = d.Field
	}
	return fields
}

func (r *DivergenceRecord) String() string {
	if r == nil {
		return nilValue
	}

	parts := make([]string, len(r.Diffs))
	for i, d := range r.Diffs {
		parts[i] = fmt.Sprintf("%s: reference=%s canonical=%s", d.Field, d.Reference, d.Canonical)
	}

	return fmt.Sprintf("block %d: %s", r.BlockNumber, strings.Join(parts, "; "))
}

func fieldNames(fields []Field) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
