package consensus

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrInvalidTransaction  = errors.New("Invalid transaction.")
	ErrInsufficientBalance = errors.New("Insufficient balance.")
	ErrInvalidTimestamp    = errors.New("Block timestamp is not greater than parent timestamp.")
	ErrEngineFault         = errors.New("Internal engine fault.")
)

// UpstreamMiningError is returned by a mining engine that could not produce a block.
type UpstreamMiningError struct {
	Reason string
	Err    error
}

// NewUpstreamError creates mining error with given reason and optional cause.
func NewUpstreamError(reason string, err error) *UpstreamMiningError {
	return &UpstreamMiningError{Reason: reason, Err: err}
}

func (e *UpstreamMiningError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("mining failed: %s", e.Reason)
	}

	return fmt.Sprintf("mining failed: %s: %s", e.Reason, e.Err)
}

func (e *UpstreamMiningError) Unwrap() error {
	return e.Err
}

// IsUpstreamError reports whether err carries an UpstreamMiningError.
func IsUpstreamError(err error) bool {
	var upstream *UpstreamMiningError
	return errors.As(err, &upstream)
}
