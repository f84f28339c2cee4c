package miner

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/raidoNetwork/rdo-dualminer/shared/common"
)

var (
	comparedBlocksCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dual_miner_compared_blocks_total",
		Help: "Blocks mined by both engines and compared",
	})
	divergentBlocksCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dual_miner_divergent_blocks_total",
		Help: "Blocks the engines disagreed on, by policy",
	}, []string{"policy"})
	divergentFieldsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dual_miner_divergent_fields_total",
		Help: "Disagreements per compared field",
	}, []string{"field"})
	engineErrorsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dual_miner_engine_errors_total",
		Help: "Failed engine calls",
	}, []string{"engine"})
	partialMigrationCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dual_miner_partial_migrations_total",
		Help: "Calls interrupted after only one engine mined",
	})
	mineBlockTime = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dual_miner_mine_block_time",
		Help:    "Engine block mining time in milliseconds",
		Buckets: common.MillisecondsBuckets,
	}, []string{"engine"})
)

func updateMineMetrics(engine string, dur time.Duration, err error) {
	mineBlockTime.WithLabelValues(engine).Observe(float64(dur.Milliseconds()))
	if err != nil {
		engineErrorsCounter.WithLabelValues(engine).Inc()
	}
}

func updateDivergenceMetrics(policy Policy, record *DivergenceRecord) {
	divergentBlocksCounter.WithLabelValues(string(policy)).Inc()
	for _, f := range record.Fields() {
		divergentFieldsCounter.WithLabelValues(string(f)).Inc()
	}
}
