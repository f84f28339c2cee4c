package flags

import (
	"github.com/urfave/cli/v2"
	"github.com/urfave/cli/v2/altsrc"
)

var (
	// TimestampFlag defines the timestamp of the first mined block.
	TimestampFlag = &cli.Uint64Flag{
		Name:  "timestamp",
		Usage: "Timestamp of the first mined block. Current time is used if not set",
	}
	// MinerRewardFlag defines the reward paid to coinbase for every block.
	MinerRewardFlag = altsrc.NewStringFlag(&cli.StringFlag{
		Name:  "miner-reward",
		Usage: "Decimal reward paid to the coinbase for every block",
		Value: "2",
	})
	// BaseFeeFlag overrides the base fee per gas of mined blocks.
	BaseFeeFlag = altsrc.NewStringFlag(&cli.StringFlag{
		Name:  "base-fee",
		Usage: "Decimal base fee per gas. Engines derive it from the parent block if not set",
	})
	// CountFlag defines how many blocks to mine.
	CountFlag = &cli.Uint64Flag{
		Name:  "count",
		Usage: "Number of blocks to mine",
		Value: 1,
	}
	// IntervalFlag defines the timestamp step between mined blocks.
	IntervalFlag = &cli.Uint64Flag{
		Name:  "interval",
		Usage: "Timestamp step between mined blocks",
		Value: 1,
	}
	// JournalFlag enables the divergence journal.
	JournalFlag = altsrc.NewBoolFlag(&cli.BoolFlag{
		Name:  "journal",
		Usage: "Store divergence reports in the data directory",
	})
	// MonitoringPortFlag defines the http port used to serve prometheus metrics.
	MonitoringPortFlag = altsrc.NewIntFlag(&cli.IntFlag{
		Name:  "monitoring-port",
		Usage: "Port used to listening and respond metrics for prometheus. Zero disables the endpoint.",
	})
)
