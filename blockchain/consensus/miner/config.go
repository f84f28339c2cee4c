package miner

import (
	"github.com/hashicorp/go-multierror"
	"github.com/mohae/deepcopy"
	"github.com/pkg/errors"
)

// Policy decides what a divergence does to the call.
type Policy string

const (
	// PolicyStrict fails the call with DivergenceError.
	PolicyStrict Policy = "strict"
	// PolicyObservational reports the divergence and returns the canonical result.
	PolicyObservational Policy = "observational"
)

// Dispatch decides how the two engines are invoked.
type Dispatch string

const (
	DispatchSequential Dispatch = "sequential"
	// DispatchConcurrent runs both engines at once. Only use it when
	// the engines share no locks or external state.
	DispatchConcurrent Dispatch = "concurrent"
)

func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case PolicyStrict, PolicyObservational:
		return p, nil
	default:
		return "", errors.Wrapf(ErrUnknownPolicy, "%q", s)
	}
}

func ParseDispatch(s string) (Dispatch, error) {
	switch d := Dispatch(s); d {
	case DispatchSequential, DispatchConcurrent:
		return d, nil
	default:
		return "", errors.Wrapf(ErrUnknownDispatch, "%q", s)
	}
}

// Config dual miner options
type Config struct {
	Policy   Policy
	Fields   FieldSet
	Dispatch Dispatch
}

// DefaultConfig returns strict sequential comparison over DefaultFields.
func DefaultConfig() *Config {
	return &Config{
		Policy:   PolicyStrict,
		Fields:   DefaultFields(),
		Dispatch: DispatchSequential,
	}
}

// Validate reports every problem of the config at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	if _, err := ParsePolicy(string(c.Policy)); err != nil {
		result = multierror.Append(result, err)
	}

	if _, err := ParseDispatch(string(c.Dispatch)); err != nil {
		result = multierror.Append(result, err)
	}

	if len(c.Fields) == 0 {
		result = multierror.Append(result, errors.New("compared field set is empty"))
	}

	for f := range c.Fields {
		if !f.Known() {
			result = multierror.Append(result, errors.Wrapf(ErrUnknownField, "%q", f))
		}
	}

	return result.ErrorOrNil()
}

// Copy returns a copy of the config object.
func (c *Config) Copy() *Config {
	config, ok := deepcopy.Copy(*c).(Config)
	if !ok {
		config = *DefaultConfig()
	}
	return &config
}
