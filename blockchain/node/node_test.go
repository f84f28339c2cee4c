package node

import (
	"flag"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/raidoNetwork/rdo-dualminer/blockchain/consensus/miner"
	"github.com/raidoNetwork/rdo-dualminer/blockchain/db/kv"
	"github.com/raidoNetwork/rdo-dualminer/cmd/dualminer/flags"
	"github.com/raidoNetwork/rdo-dualminer/shared/cmd"
	"github.com/raidoNetwork/rdo-dualminer/shared/common"
	"github.com/raidoNetwork/rdo-dualminer/shared/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func testContext(t *testing.T, journal bool) *cli.Context {
	set := flag.NewFlagSet("test", 0)
	set.Uint64(flags.TimestampFlag.Name, 1000, "")
	set.String(flags.MinerRewardFlag.Name, "5", "")
	set.String(flags.BaseFeeFlag.Name, "", "")
	set.Uint64(flags.CountFlag.Name, 3, "")
	set.Uint64(flags.IntervalFlag.Name, 12, "")
	set.Bool(flags.JournalFlag.Name, journal, "")
	set.String(cmd.DataDirFlag.Name, filepath.Join(t.TempDir(), "data"), "")

	return cli.NewContext(nil, set, nil)
}

func TestMinerConfig_Default(t *testing.T) {
	cfg, err := MinerConfig(params.DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, miner.DefaultConfig(), cfg)
}

func TestMinerConfig_Errors(t *testing.T) {
	conf := params.DefaultConfig().Copy()
	conf.Policy = "loose"
	conf.ComparedFields = []string{"nonce"}

	_, err := MinerConfig(conf)
	require.Error(t, err)
	assert.True(t, errors.Is(err, miner.ErrUnknownPolicy))
	assert.True(t, errors.Is(err, miner.ErrUnknownField))
}

func TestDevEngineConfig(t *testing.T) {
	conf := params.DefaultConfig().Copy()
	conf.DevAlloc = map[string]uint64{"0x00000000000000000000000000000000000a11ce": 77}

	cfg, err := DevEngineConfig(conf)
	require.NoError(t, err)
	assert.Equal(t, uint64(30000000), cfg.GasLimit)
	assert.Equal(t, uint64(77), cfg.Alloc[common.HexToAddress("0xa11ce")].Uint64())

	conf.DevCoinbase = "coinbase"
	_, err = DevEngineConfig(conf)
	assert.Error(t, err)
}

func TestBatchRequest(t *testing.T) {
	req, err := BatchRequest(testContext(t, false))
	require.NoError(t, err)

	assert.Equal(t, uint64(1000), req.Timestamp)
	assert.Equal(t, uint64(5), req.MinerReward.Uint64())
	assert.Nil(t, req.BaseFeePerGas)
	assert.Equal(t, uint64(3), req.Count)
	assert.Equal(t, uint64(1012), req.At(1).Timestamp)
}

func TestBatchRequest_BadReward(t *testing.T) {
	cliCtx := testContext(t, false)
	require.NoError(t, cliCtx.Set(flags.MinerRewardFlag.Name, "two"))

	_, err := BatchRequest(cliCtx)
	assert.Error(t, err)
}

func TestNode_Run(t *testing.T) {
	n, err := New(testContext(t, false))
	require.NoError(t, err)

	require.NoError(t, n.Run())

	head := n.canonical.Head()
	assert.Equal(t, uint64(3), head.Number)
	assert.Equal(t, uint64(1024), head.Timestamp)
	assert.Equal(t, head, n.reference.Head())

	statuses := n.Statuses()
	assert.NoError(t, statuses["miner"])
	assert.NotContains(t, statuses, "journal")
}

func TestNode_RunFailure(t *testing.T) {
	cliCtx := testContext(t, false)
	require.NoError(t, cliCtx.Set(flags.CountFlag.Name, "0"))

	n, err := New(cliCtx)
	require.NoError(t, err)
	assert.Error(t, n.Run())
}

func TestNode_Journal(t *testing.T) {
	cliCtx := testContext(t, true)

	n, err := New(cliCtx)
	require.NoError(t, err)
	require.NotNil(t, n.journal)
	require.NoError(t, n.Run())
	assert.Contains(t, n.Statuses(), "journal")

	dbPath := filepath.Join(cliCtx.String(cmd.DataDirFlag.Name), kv.JournalDirName)
	assert.FileExists(t, kv.KVStoreDatafilePath(dbPath))

	require.NoError(t, ListJournal(cliCtx))
}
