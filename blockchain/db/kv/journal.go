package kv

import (
	"encoding/binary"

	"github.com/golang/snappy"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/raidoNetwork/rdo-dualminer/blockchain/consensus/miner"
	bolt "go.etcd.io/bbolt"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var _ miner.Reporter = (*Store)(nil)

// Report appends divergence report to the journal. It makes Store usable as a dual miner reporter.
func (s *Store) Report(r *miner.DivergenceReport) error {
	_, err := s.WriteReport(r)
	return err
}

// WriteReport stores report under the next sequence number and returns that number.
func (s *Store) WriteReport(r *miner.DivergenceReport) (uint64, error) {
	data, err := marshalReport(r)
	if err != nil {
		return 0, err
	}

	var seq uint64
	err = s.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(divergenceBucket)

		seq, err = bkt.NextSequence()
		if err != nil {
			return err
		}

		return bkt.Put(seqKey(seq), data)
	})
	if err != nil {
		return 0, errors.Wrap(err, "could not write divergence report")
	}

	log.Debugf("Saved divergence report #%d of block %d", seq, r.Record.BlockNumber)

	return seq, nil
}

// ReadReport returns report with given sequence number or nil if it does not exist.
func (s *Store) ReadReport(seq uint64) (*miner.DivergenceReport, error) {
	var r *miner.DivergenceReport
	err := s.db.View(func(tx *bolt.Tx) error {
		enc := tx.Bucket(divergenceBucket).Get(seqKey(seq))
		if enc == nil {
			return nil
		}

		var err error
		r, err = unmarshalReport(enc)
		return err
	})

	return r, err
}

// ReadReports returns all stored reports in insertion order.
func (s *Store) ReadReports() ([]*miner.DivergenceReport, error) {
	reports := make([]*miner.DivergenceReport, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(divergenceBucket).ForEach(func(_, enc []byte) error {
			r, err := unmarshalReport(enc)
			if err != nil {
				return err
			}

			reports = append(reports, r)
			return nil
		})
	})

	return reports, err
}

// CountReports returns the number of stored reports.
func (s *Store) CountReports() (int, error) {
	num := 0
	err := s.db.View(func(tx *bolt.Tx) error {
		num = tx.Bucket(divergenceBucket).Stats().KeyN
		return nil
	})

	return num, err
}

// SavePolicy remembers the policy the journal was written under.
func (s *Store) SavePolicy(p miner.Policy) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(metaBucket).Put(policyKey, []byte(p))
	})
}

// Policy returns the stored policy or an empty string.
func (s *Store) Policy() (miner.Policy, error) {
	var p miner.Policy
	err := s.db.View(func(tx *bolt.Tx) error {
		p = miner.Policy(tx.Bucket(metaBucket).Get(policyKey))
		return nil
	})

	return p, err
}

func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}

func marshalReport(r *miner.DivergenceReport) ([]byte, error) {
	enc, err := json.Marshal(r)
	if err != nil {
		return nil, errors.Wrap(err, "could not marshal divergence report")
	}

	return snappy.Encode(nil, enc), nil
}

func unmarshalReport(enc []byte) (*miner.DivergenceReport, error) {
	dec, err := snappy.Decode(nil, enc)
	if err != nil {
		return nil, errors.Wrap(err, "could not decompress divergence report")
	}

	r := &miner.DivergenceReport{}
	if err := json.Unmarshal(dec, r); err != nil {
		return nil, errors.Wrap(err, "could not unmarshal divergence report")
	}

	return r, nil
}
