package params

// DualMinerConfig contains settings of the dual miner and of the development engines it drives.
type DualMinerConfig struct {
	Policy         string   `yaml:"POLICY"`          // Policy is strict or observational.
	ComparedFields []string `yaml:"COMPARED_FIELDS"` // ComparedFields lists result fields engines must agree on.
	Dispatch       string   `yaml:"DISPATCH"`        // Dispatch is sequential or concurrent.

	// Development engine
	DevGasLimit       uint64            `yaml:"DEV_GAS_LIMIT"`        // DevGasLimit defines block gas limit.
	DevCoinbase       string            `yaml:"DEV_COINBASE"`         // DevCoinbase receives miner rewards and tips.
	DevInitialBaseFee uint64            `yaml:"DEV_INITIAL_BASE_FEE"` // DevInitialBaseFee is the genesis base fee per gas.
	DevAlloc          map[string]uint64 `yaml:"DEV_ALLOC"`            // DevAlloc maps hex addresses to genesis balances.
}
