package params

// DefaultConfig returns the configuration used when no config file is given.
func DefaultConfig() *DualMinerConfig {
	return defaultMinerConfig
}

// UseDefaultConfig for dual miner services.
func UseDefaultConfig() {
	minerConfig = DefaultConfig()
}

var defaultMinerConfig = &DualMinerConfig{
	Policy: "strict",
	ComparedFields: []string{
		"number",
		"stateRoot",
		"receiptsRoot",
		"gasUsed",
		"logsBloom",
		"transactions",
		"transactionStatus",
		"excludedTransactions",
	},
	Dispatch:          "sequential",
	DevGasLimit:       30000000,
	DevCoinbase:       "0xc014ba5ec014ba5ec014ba5ec014ba5ec014ba5e",
	DevInitialBaseFee: 0,
}
