package miner

import (
	"fmt"

	"github.com/pkg/errors"
)

const (
	ReferenceEngine = "reference"
	CanonicalEngine = "canonical"
)

var (
	ErrNilEngine       = errors.New("Mining engine is not set.")
	ErrUnknownPolicy   = errors.New("Unknown divergence policy.")
	ErrUnknownDispatch = errors.New("Unknown engine dispatch mode.")
)

// DivergenceError is returned under the strict policy when engine results disagree.
type DivergenceError struct {
	Record *DivergenceRecord
}

func (e *DivergenceError) Error() string {
	return fmt.Sprintf("engines diverged at block %d on fields: %s", e.Record.BlockNumber, fieldNames(e.Record.Fields()))
}

// Fields returns the names of the differing fields.
func (e *DivergenceError) Fields() []Field {
	return e.Record.Fields()
}

// PartialMigrationError is returned when a call was interrupted after one engine
// had already mutated its state and the other had not completed.
// The two engines are out of step afterwards.
type PartialMigrationError struct {
	Completed string
	Pending   string
	Timestamp uint64
	Err       error
}

func (e *PartialMigrationError) Error() string {
	return fmt.Sprintf("%s engine mined block at timestamp %d but %s engine did not complete: %s",
		e.Completed, e.Timestamp, e.Pending, e.Err)
}

func (e *PartialMigrationError) Unwrap() error {
	return e.Err
}
