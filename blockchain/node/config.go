package node

import (
	"github.com/hashicorp/go-multierror"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/raidoNetwork/rdo-dualminer/blockchain/consensus/miner"
	"github.com/raidoNetwork/rdo-dualminer/blockchain/core/devchain"
	"github.com/raidoNetwork/rdo-dualminer/shared/cmd"
	"github.com/raidoNetwork/rdo-dualminer/shared/common"
	"github.com/raidoNetwork/rdo-dualminer/shared/params"
	"github.com/urfave/cli/v2"
)

// configureMinerConfig gets config from yaml file
func configureMinerConfig(cliCtx *cli.Context) error {
	if cliCtx.IsSet(cmd.MinerConfigFileFlag.Name) {
		return params.LoadConfigFile(cliCtx.String(cmd.MinerConfigFileFlag.Name))
	}

	return nil
}

// MinerConfig converts the yaml config into dual miner options.
func MinerConfig(c *params.DualMinerConfig) (*miner.Config, error) {
	var result *multierror.Error

	policy, err := miner.ParsePolicy(c.Policy)
	if err != nil {
		result = multierror.Append(result, err)
	}

	dispatch, err := miner.ParseDispatch(c.Dispatch)
	if err != nil {
		result = multierror.Append(result, err)
	}

	fields, err := miner.ParseFieldSet(c.ComparedFields)
	if err != nil {
		result = multierror.Append(result, err)
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, errors.Wrap(err, "invalid miner config")
	}

	return &miner.Config{
		Policy:   policy,
		Fields:   fields,
		Dispatch: dispatch,
	}, nil
}

// DevEngineConfig converts the yaml config into development engine options.
func DevEngineConfig(c *params.DualMinerConfig) (*devchain.Config, error) {
	if !common.IsHexAddress(c.DevCoinbase) {
		return nil, errors.Errorf("bad coinbase address %q", c.DevCoinbase)
	}

	alloc := make(map[common.Address]*uint256.Int, len(c.DevAlloc))
	for addr, balance := range c.DevAlloc {
		if !common.IsHexAddress(addr) {
			return nil, errors.Errorf("bad alloc address %q", addr)
		}
		alloc[common.HexToAddress(addr)] = uint256.NewInt(balance)
	}

	return &devchain.Config{
		GasLimit:       c.DevGasLimit,
		Coinbase:       common.HexToAddress(c.DevCoinbase),
		InitialBaseFee: uint256.NewInt(c.DevInitialBaseFee),
		Alloc:          alloc,
	}, nil
}
