package miner

import (
	"time"

	"github.com/raidoNetwork/rdo-dualminer/events"
)

// DivergenceReport is what the dual miner hands to reporters when engines disagree.
type DivergenceReport struct {
	Record    *DivergenceRecord `json:"record"`
	Policy    Policy            `json:"policy"`
	Timestamp uint64            `json:"timestamp"` // requested block timestamp
	Time      time.Time         `json:"time"`
}

// Reporter receives divergence reports of the observational policy.
type Reporter interface {
	Report(*DivergenceReport) error
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(*DivergenceReport) error

func (f ReporterFunc) Report(r *DivergenceReport) error {
	return f(r)
}

// FeedReporter forwards reports to every subscriber of the feed.
func FeedReporter(feed *events.Feed[*DivergenceReport]) Reporter {
	return ReporterFunc(func(r *DivergenceReport) error {
		sent := feed.Send(r)
		log.Debugf("Divergence report of block %d sent to %d subscribers", r.Record.BlockNumber, sent)
		return nil
	})
}
