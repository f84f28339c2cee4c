package node

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/raidoNetwork/rdo-dualminer/blockchain/consensus/miner"
	"github.com/raidoNetwork/rdo-dualminer/blockchain/core/devchain"
	"github.com/raidoNetwork/rdo-dualminer/blockchain/db/kv"
	"github.com/raidoNetwork/rdo-dualminer/cmd/dualminer/flags"
	"github.com/raidoNetwork/rdo-dualminer/events"
	"github.com/raidoNetwork/rdo-dualminer/metrics"
	"github.com/raidoNetwork/rdo-dualminer/shared/cmd"
	"github.com/raidoNetwork/rdo-dualminer/shared/params"
	"github.com/raidoNetwork/rdo-dualminer/shared/types"
	"github.com/raidoNetwork/rdo-dualminer/shared/version"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var log = logrus.WithField("prefix", "node")

// DualMinerNode drives a mining session through the dual miner: two development
// engines, the divergence journal, the report feed and the metrics endpoint.
type DualMinerNode struct {
	cliCtx     *cli.Context
	ctx        context.Context
	cancel     context.CancelFunc
	reference  *devchain.Engine
	canonical  *devchain.Engine
	miner      *miner.DualMiner
	feed       *events.Feed[*miner.DivergenceReport]
	journal    *kv.Store
	monitoring *metrics.Service
	lock       sync.Mutex
	closed     bool

	statusLock sync.Mutex
	mineErr    error
}

// New creates a new node instance, sets up configuration options and
// the dual miner with its reporters.
func New(cliCtx *cli.Context) (*DualMinerNode, error) {
	// load miner config from file if special file has been given
	if err := configureMinerConfig(cliCtx); err != nil {
		return nil, err
	}

	conf := params.MinerConfig()

	minerCfg, err := MinerConfig(conf)
	if err != nil {
		return nil, err
	}

	devCfg, err := DevEngineConfig(conf)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(cliCtx.Context)
	n := &DualMinerNode{
		cliCtx:    cliCtx,
		ctx:       ctx,
		cancel:    cancel,
		reference: devchain.New(miner.ReferenceEngine, devCfg),
		canonical: devchain.New(miner.CanonicalEngine, devCfg),
		feed:      new(events.Feed[*miner.DivergenceReport]),
	}

	reporters := []miner.Reporter{miner.FeedReporter(n.feed)}

	if cliCtx.Bool(flags.JournalFlag.Name) {
		if err := n.startJournal(minerCfg.Policy); err != nil {
			cancel()
			return nil, err
		}

		reporters = append(reporters, n.journal)
	}

	n.miner, err = miner.NewDualMiner(n.reference, n.canonical, minerCfg, reporters...)
	if err != nil {
		n.Close()
		return nil, err
	}

	return n, nil
}

// Miner returns the node dual miner.
func (n *DualMinerNode) Miner() *miner.DualMiner {
	return n.miner
}

// Feed returns the feed of divergence reports.
func (n *DualMinerNode) Feed() *events.Feed[*miner.DivergenceReport] {
	return n.feed
}

// Run mines the batch described by the cli flags and shuts the node down.
func (n *DualMinerNode) Run() error {
	log.WithField("Version", version.Version()).Info("Starting dual miner node")

	defer n.Close()

	req, err := BatchRequest(n.cliCtx)
	if err != nil {
		return err
	}

	n.startMonitoring()

	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigc)

		select {
		case <-sigc:
			log.Info("Got interrupt, shutting down...")
			n.cancel()
		case <-n.ctx.Done():
		}
	}()

	results, err := n.miner.MineBlocks(n.ctx, req)
	if err != nil {
		n.statusLock.Lock()
		n.mineErr = err
		n.statusLock.Unlock()

		return errors.Wrap(err, "mining session failed")
	}

	for _, res := range results {
		h := res.Header()
		log.WithFields(logrus.Fields{
			"number":    h.Number,
			"timestamp": h.Timestamp,
			"txs":       len(res.Block.Transactions),
			"stateRoot": h.StateRoot.Hex(),
		}).Info("Mined block")
	}

	return nil
}

// Close handles graceful shutdown of the system.
func (n *DualMinerNode) Close() {
	n.lock.Lock()
	defer n.lock.Unlock()

	if n.closed {
		return
	}
	n.closed = true

	log.Info("Stopping dual miner node")

	if n.monitoring != nil {
		if err := n.monitoring.Stop(); err != nil {
			log.Errorf("Failed to stop monitoring server: %v", err)
		}
	}

	if n.journal != nil {
		if err := n.journal.Close(); err != nil {
			log.Errorf("Failed to close journal: %v", err)
		}
	}

	n.cancel()
}

func (n *DualMinerNode) startJournal(policy miner.Policy) error {
	dbPath := filepath.Join(n.cliCtx.String(cmd.DataDirFlag.Name), kv.JournalDirName)
	kvCfg := &kv.Config{
		InitialMMapSize: n.cliCtx.Int(cmd.BoltMMapInitialSizeFlag.Name),
	}

	log.WithField("database-path", dbPath).Info("Checking journal")

	d, err := kv.NewKVStore(n.ctx, dbPath, kvCfg)
	if err != nil {
		return err
	}

	if n.cliCtx.Bool(cmd.ClearJournal.Name) {
		log.Warning("Removing journal")
		if err := d.Close(); err != nil {
			return errors.Wrap(err, "could not close journal prior to clearing")
		}
		if err := d.ClearDB(); err != nil {
			return errors.Wrap(err, "could not clear journal")
		}
		d, err = kv.NewKVStore(n.ctx, dbPath, kvCfg)
		if err != nil {
			return errors.Wrap(err, "could not create new journal")
		}
	}

	if err := d.SavePolicy(policy); err != nil {
		d.Close()
		return err
	}

	n.journal = d
	return nil
}

func (n *DualMinerNode) startMonitoring() {
	port := n.cliCtx.Int(flags.MonitoringPortFlag.Name)
	if port == 0 {
		return
	}

	n.monitoring = metrics.New(fmt.Sprintf(":%d", port), n)
	n.monitoring.Start()
}

// Statuses reports the health of the node components.
func (n *DualMinerNode) Statuses() map[string]error {
	n.statusLock.Lock()
	defer n.statusLock.Unlock()

	statuses := map[string]error{
		"miner": n.mineErr,
	}

	if n.journal != nil {
		statuses["journal"] = nil
	}

	if n.monitoring != nil {
		statuses["monitoring"] = n.monitoring.Status()
	}

	return statuses
}

// BatchRequest builds the mining request from the cli flags.
func BatchRequest(cliCtx *cli.Context) (types.BatchRequest, error) {
	reward, err := uint256.FromDecimal(cliCtx.String(flags.MinerRewardFlag.Name))
	if err != nil {
		return types.BatchRequest{}, errors.Wrap(err, "bad miner reward")
	}

	req := types.BatchRequest{
		MineRequest: types.MineRequest{
			Timestamp:   cliCtx.Uint64(flags.TimestampFlag.Name),
			MinerReward: reward,
		},
		Count:    cliCtx.Uint64(flags.CountFlag.Name),
		Interval: cliCtx.Uint64(flags.IntervalFlag.Name),
	}

	if req.Timestamp == 0 {
		req.Timestamp = uint64(time.Now().Unix())
	}

	if baseFee := cliCtx.String(flags.BaseFeeFlag.Name); baseFee != "" {
		req.BaseFeePerGas, err = uint256.FromDecimal(baseFee)
		if err != nil {
			return types.BatchRequest{}, errors.Wrap(err, "bad base fee")
		}
	}

	return req, req.Validate()
}

// ListJournal prints stored divergence reports.
func ListJournal(cliCtx *cli.Context) error {
	dbPath := filepath.Join(cliCtx.String(cmd.DataDirFlag.Name), kv.JournalDirName)

	d, err := kv.NewKVStore(cliCtx.Context, dbPath, &kv.Config{
		InitialMMapSize: cliCtx.Int(cmd.BoltMMapInitialSizeFlag.Name),
	})
	if err != nil {
		return err
	}
	defer d.Close()

	policy, err := d.Policy()
	if err != nil {
		return err
	}

	reports, err := d.ReadReports()
	if err != nil {
		return err
	}

	fmt.Printf("Journal %s (policy %s): %d reports\n", dbPath, policy, len(reports))
	for i, r := range reports {
		fmt.Printf("#%d %s %s\n", i+1, r.Time.Format(time.RFC3339), r.Record)
	}

	return nil
}
