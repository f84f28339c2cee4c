package miner

import (
	"context"
	"reflect"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/raidoNetwork/rdo-dualminer/blockchain/consensus"
	"github.com/raidoNetwork/rdo-dualminer/shared/common"
	"github.com/raidoNetwork/rdo-dualminer/shared/types"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var log = logrus.WithField("prefix", "Miner")

var _ consensus.BlockMiner = (*DualMiner)(nil)

// DualMiner mines every block on a reference engine and a canonical engine,
// compares both results and returns the canonical one. The reference engine
// is only used as an oracle for the canonical engine.
type DualMiner struct {
	reference  consensus.BlockMiner
	canonical  consensus.BlockMiner
	cfg        *Config
	comparator *Comparator
	reporters  []Reporter

	// held for a whole call: each call depends on the state left by the previous one
	lock sync.Mutex
}

// NewDualMiner creates dual miner over the given engines. A nil config means DefaultConfig.
// Reporters receive divergences found under the observational policy.
func NewDualMiner(reference, canonical consensus.BlockMiner, cfg *Config, reporters ...Reporter) (*DualMiner, error) {
	if isNilEngine(reference) || isNilEngine(canonical) {
		return nil, ErrNilEngine
	}

	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid dual miner config")
	}

	cfg = cfg.Copy()

	log.WithFields(logrus.Fields{
		"policy":   cfg.Policy,
		"dispatch": cfg.Dispatch,
		"fields":   cfg.Fields.Strings(),
	}).Info("Dual miner configured")

	return &DualMiner{
		reference:  reference,
		canonical:  canonical,
		cfg:        cfg,
		comparator: NewComparator(cfg.Fields),
		reporters:  reporters,
	}, nil
}

// Config returns a copy of the miner configuration.
func (m *DualMiner) Config() *Config {
	return m.cfg.Copy()
}

// MineBlock mines one block on both engines and returns the canonical result.
func (m *DualMiner) MineBlock(ctx context.Context, req types.MineRequest) (*types.MineResult, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	return m.mineBlock(ctx, req, 0)
}

// MineBlocks mines the batch block by block, comparing each block before the next one
// is mined. Canonical results are returned only when every block succeeded.
func (m *DualMiner) MineBlocks(ctx context.Context, req types.BatchRequest) ([]*types.MineResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	start := time.Now()

	results := make([]*types.MineResult, 0, req.CapacityHint())
	for i := uint64(0); i < req.Count; i++ {
		if i > 0 {
			if err := ctx.Err(); err != nil {
				return nil, errors.Wrapf(err, "batch interrupted after %d of %d blocks", i, req.Count)
			}
		}

		res, err := m.mineBlock(ctx, req.At(i), i)
		if err != nil {
			log.WithError(err).Errorf("Batch stopped at block %d of %d", i+1, req.Count)
			return nil, err
		}

		results = append(results, res)
	}

	log.Infof("Mined batch of %d blocks in %s", req.Count, common.StatFmt(time.Since(start)))

	return results, nil
}

func (m *DualMiner) mineBlock(ctx context.Context, req types.MineRequest, index uint64) (*types.MineResult, error) {
	// nothing is mutated yet
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var ref, can *types.MineResult
	var err error
	if m.cfg.Dispatch == DispatchConcurrent {
		ref, can, err = m.dispatchConcurrent(ctx, req)
	} else {
		ref, can, err = m.dispatchSequential(ctx, req)
	}

	if err != nil {
		return nil, err
	}

	record := m.comparator.Compare(ref, can)
	record.Index = index
	comparedBlocksCounter.Inc()

	if record.Empty() {
		return can, nil
	}

	updateDivergenceMetrics(m.cfg.Policy, record)

	log.WithFields(logrus.Fields{
		"block":  record.BlockNumber,
		"fields": fieldNames(record.Fields()),
		"policy": m.cfg.Policy,
	}).Warn("Engines diverged")

	if m.cfg.Policy == PolicyStrict {
		return nil, &DivergenceError{Record: record}
	}

	m.report(&DivergenceReport{
		Record:    record,
		Policy:    m.cfg.Policy,
		Timestamp: req.Timestamp,
		Time:      time.Now(),
	})

	return can, nil
}

// dispatchSequential invokes reference then canonical. A reference failure
// returns before the canonical engine is touched.
func (m *DualMiner) dispatchSequential(ctx context.Context, req types.MineRequest) (*types.MineResult, *types.MineResult, error) {
	ref, err := m.invoke(ctx, ReferenceEngine, m.reference, req)
	if err != nil {
		return nil, nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, m.partial(ReferenceEngine, CanonicalEngine, req, err)
	}

	can, err := m.invoke(ctx, CanonicalEngine, m.canonical, req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, m.partial(ReferenceEngine, CanonicalEngine, req, err)
		}
		return nil, nil, err
	}

	return ref, can, nil
}

// dispatchConcurrent invokes both engines at once. The canonical call is cancelled
// as soon as the reference one fails, and its result is discarded in that case.
func (m *DualMiner) dispatchConcurrent(ctx context.Context, req types.MineRequest) (*types.MineResult, *types.MineResult, error) {
	canCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		g              errgroup.Group
		ref, can       *types.MineResult
		refErr, canErr error
	)

	g.Go(func() error {
		ref, refErr = m.invoke(ctx, ReferenceEngine, m.reference, req)
		if refErr != nil {
			cancel()
		}
		return refErr
	})
	g.Go(func() error {
		can, canErr = m.invoke(canCtx, CanonicalEngine, m.canonical, req)
		return canErr
	})

	if err := g.Wait(); err == nil {
		return ref, can, nil
	}

	interrupted := ctx.Err() != nil

	switch {
	case refErr != nil && canErr == nil && interrupted:
		return nil, nil, m.partial(CanonicalEngine, ReferenceEngine, req, refErr)
	case refErr != nil:
		if canErr == nil {
			log.Warnf("Discard canonical block at timestamp %d: reference engine failed", req.Timestamp)
		}
		return nil, nil, refErr
	case interrupted:
		return nil, nil, m.partial(ReferenceEngine, CanonicalEngine, req, canErr)
	default:
		return nil, nil, canErr
	}
}

// invoke calls a single engine. Engine errors are returned as is.
func (m *DualMiner) invoke(ctx context.Context, name string, engine consensus.BlockMiner, req types.MineRequest) (*types.MineResult, error) {
	start := time.Now()
	res, err := engine.MineBlock(ctx, req)
	end := time.Since(start)

	updateMineMetrics(name, end, err)

	if err != nil {
		log.WithError(err).WithField("engine", name).Errorf("Mining block at timestamp %d failed", req.Timestamp)
		return nil, err
	}

	log.WithField("engine", name).Debugf("Mined block at timestamp %d in %s", req.Timestamp, common.StatFmt(end))

	return res, nil
}

func (m *DualMiner) partial(completed, pending string, req types.MineRequest, cause error) error {
	partialMigrationCounter.Inc()

	log.WithError(cause).Errorf("Engines are out of step: %s engine mined block at timestamp %d, %s engine did not", completed, req.Timestamp, pending)

	return &PartialMigrationError{
		Completed: completed,
		Pending:   pending,
		Timestamp: req.Timestamp,
		Err:       cause,
	}
}

func (m *DualMiner) report(r *DivergenceReport) {
	for _, reporter := range m.reporters {
		if err := reporter.Report(r); err != nil {
			log.WithError(err).Error("Failed to report divergence")
		}
	}
}

// isNilEngine also catches a nil pointer stored in the interface.
func isNilEngine(engine consensus.BlockMiner) bool {
	if engine == nil {
		return true
	}

	v := reflect.ValueOf(engine)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
