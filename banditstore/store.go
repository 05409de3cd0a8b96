// Copyright (C) 2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package banditstore hosts bandit instances under string keys: it owns their
// lifecycle, serializes access per key, persists versioned snapshots, appends
// mutations to a replication log, and serves structural digests and memory
// accounting over them.
package banditstore

import (
	"errors"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/ava-labs/banditdb/bandit"
	"github.com/ava-labs/banditdb/database"
	"github.com/ava-labs/banditdb/database/prefixdb"
	"github.com/ava-labs/banditdb/utils/hashing"
	"github.com/ava-labs/banditdb/utils/logging"
	"github.com/ava-labs/banditdb/utils/sampler"
)

const (
	// maxKeyLen is the maximum allowed length of a key
	maxKeyLen = 1024

	// typeBandit tags snapshot blobs so a key holding some other value is
	// detected before any decode is attempted.
	typeBandit byte = 0x01
)

var (
	ErrNotInitialized = errors.New("bandit needs to be initialized first")
	ErrWrongType      = errors.New("key holds a value of the wrong type")
	ErrParamMismatch  = errors.New("cannot change arms or exploration constant of an existing bandit")

	errEmptyKey   = errors.New("empty key")
	errKeyTooLong = fmt.Errorf("key exceeds maximum length of %d bytes", maxKeyLen)

	snapshotPrefix = []byte("snapshots")
	oplogPrefix    = []byte("oplog")
)

// Store is the host keyspace for bandits. A single lock serializes all
// operations, which satisfies the bandits' single-writer-per-key contract;
// bandits for different keys are otherwise fully independent.
type Store struct {
	lock    sync.Mutex
	log     logging.Logger
	metrics *metrics
	sampler sampler.Uniform

	bandits map[string]*bandit.State

	snapshotDB database.Database
	oplog      *opLog
}

// New returns a store over [db]. Existing snapshots are rehydrated eagerly so
// digests and accounting see the whole keyspace immediately.
func New(
	log logging.Logger,
	namespace string,
	registerer prometheus.Registerer,
	db database.Database,
) (*Store, error) {
	m, err := newMetrics(namespace, registerer)
	if err != nil {
		return nil, err
	}

	oplog, err := newOpLog(prefixdb.New(oplogPrefix, db))
	if err != nil {
		return nil, err
	}

	s := &Store{
		log:        log,
		metrics:    m,
		sampler:    sampler.NewUniform(),
		bandits:    make(map[string]*bandit.State),
		snapshotDB: prefixdb.New(snapshotPrefix, db),
		oplog:      oplog,
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// load rehydrates every persisted snapshot into memory
func (s *Store) load() error {
	it := s.snapshotDB.NewIterator()
	defer it.Release()

	for it.Next() {
		key := string(it.Key())
		b, err := parseSnapshot(it.Value())
		if err != nil {
			return fmt.Errorf("loading %q: %w", key, err)
		}
		s.bandits[key] = b
	}
	if err := it.Error(); err != nil {
		return err
	}

	s.metrics.keys.Set(float64(len(s.bandits)))
	s.metrics.footprint.Set(float64(s.totalFootprint()))
	s.log.Info("loaded bandits",
		zap.Int("count", len(s.bandits)),
	)
	return nil
}

func parseSnapshot(blob []byte) (*bandit.State, error) {
	if len(blob) == 0 {
		return nil, ErrWrongType
	}
	if blob[0] != typeBandit {
		return nil, fmt.Errorf("%w: type tag %d", ErrWrongType, blob[0])
	}
	return bandit.Parse(blob[1:])
}

func checkKey(key string) error {
	switch {
	case key == "":
		return errEmptyKey
	case len(key) > maxKeyLen:
		return errKeyTooLong
	default:
		return nil
	}
}

// Init creates the bandit at [key], or re-zeroes an existing one. The arm
// count and exploration constant of an existing bandit cannot be changed;
// migrating requires Drop followed by Init. Returns the arm count.
func (s *Store) Init(key string, narms uint32, c float64) (uint32, error) {
	if err := checkKey(key); err != nil {
		return 0, err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	return s.init(key, narms, c, true)
}

func (s *Store) init(key string, narms uint32, c float64, logged bool) (uint32, error) {
	b, ok := s.bandits[key]
	if ok && (b.NArms() != narms || b.C() != c) {
		if logged {
			return 0, ErrParamMismatch
		}
		// A replayed init is authoritative. The log may legitimately hold a
		// drop followed by an init with different parameters, while the live
		// instance was rehydrated from the final snapshot; the logged
		// parameters win.
		b.Release()
		delete(s.bandits, key)
		b, ok = nil, false
	}
	if ok {
		b.Reset()
	} else {
		var err error
		b, err = bandit.New(narms, c)
		if err != nil {
			return 0, err
		}
		s.bandits[key] = b
	}

	if err := s.persist(key, b); err != nil {
		return 0, err
	}
	if logged {
		if err := s.oplog.append(bandit.InitOp{Key: key, NArms: narms, C: c}); err != nil {
			return 0, err
		}
	}

	s.metrics.inits.Inc()
	s.metrics.keys.Set(float64(len(s.bandits)))
	s.metrics.footprint.Set(float64(s.totalFootprint()))
	return b.NArms(), nil
}

// Record adds one reward observation for [arm] of the bandit at [key] and
// returns the updated count and mean.
func (s *Store) Record(key string, arm uint32, reward float64) (uint64, float64, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.record(key, arm, reward, true)
}

func (s *Store) record(key string, arm uint32, reward float64, logged bool) (uint64, float64, error) {
	b, err := s.getBandit(key)
	if err != nil {
		return 0, 0, err
	}
	count, mean, err := b.Record(arm, reward)
	if err != nil {
		return 0, 0, err
	}

	if err := s.persist(key, b); err != nil {
		return 0, 0, err
	}
	if logged {
		if err := s.oplog.append(bandit.RecordOp{Key: key, Arm: arm, Reward: reward}); err != nil {
			return 0, 0, err
		}
	}

	s.metrics.records.Inc()
	return count, mean, nil
}

// Set overwrites the count and mean of [arm] of the bandit at [key]
func (s *Store) Set(key string, arm uint32, count uint64, mean float64) (uint64, float64, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.set(key, arm, count, mean, true)
}

func (s *Store) set(key string, arm uint32, count uint64, mean float64, logged bool) (uint64, float64, error) {
	b, err := s.getBandit(key)
	if err != nil {
		return 0, 0, err
	}
	count, mean, err = b.Set(arm, count, mean)
	if err != nil {
		return 0, 0, err
	}

	if err := s.persist(key, b); err != nil {
		return 0, 0, err
	}
	if logged {
		if err := s.oplog.append(bandit.SetOp{Key: key, Arm: arm, Count: count, Mean: mean}); err != nil {
			return 0, 0, err
		}
	}

	s.metrics.sets.Inc()
	return count, mean, nil
}

// Pick selects an arm of the bandit at [key]. Pick mutates nothing and is
// neither persisted nor logged.
func (s *Store) Pick(key string) (uint32, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	b, err := s.getBandit(key)
	if err != nil {
		return 0, err
	}
	arm, err := b.Pick(s.sampler)
	if err != nil {
		return 0, err
	}

	s.metrics.picks.Inc()
	return arm, nil
}

// Counts returns the pull count of every arm of the bandit at [key]
func (s *Store) Counts(key string) ([]uint64, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	b, err := s.getBandit(key)
	if err != nil {
		return nil, err
	}
	return b.Counts(nil), nil
}

// Means returns the mean reward of every arm of the bandit at [key]
func (s *Store) Means(key string) ([]float64, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	b, err := s.getBandit(key)
	if err != nil {
		return nil, err
	}
	return b.Means(nil), nil
}

// Bounds returns the current UCB bound of every arm of the bandit at [key]
func (s *Store) Bounds(key string) ([]float64, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	b, err := s.getBandit(key)
	if err != nil {
		return nil, err
	}
	return b.Bounds(nil), nil
}

// Drop releases the bandit at [key] and deletes its snapshot
func (s *Store) Drop(key string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.drop(key, true)
}

func (s *Store) drop(key string, logged bool) error {
	b, err := s.getBandit(key)
	if err != nil {
		return err
	}

	if err := s.snapshotDB.Delete([]byte(key)); err != nil {
		return err
	}
	if logged {
		if err := s.oplog.append(DropOp{Key: key}); err != nil {
			return err
		}
	}

	b.Release()
	delete(s.bandits, key)

	s.metrics.drops.Inc()
	s.metrics.keys.Set(float64(len(s.bandits)))
	s.metrics.footprint.Set(float64(s.totalFootprint()))
	return nil
}

// Keys returns every live key in ascending order
func (s *Store) Keys() []string {
	s.lock.Lock()
	defer s.lock.Unlock()

	keys := maps.Keys(s.bandits)
	slices.Sort(keys)
	return keys
}

// Digest returns the structural fingerprint of the bandit at [key]
func (s *Store) Digest(key string) (hashing.Hash256, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	b, err := s.getBandit(key)
	if err != nil {
		return hashing.Hash256{}, err
	}

	d := hashing.NewDigest()
	b.AppendDigest(d)
	return d.Sum256(), nil
}

// DigestAll combines the fingerprint of every key, in key order, into one
// keyspace digest for replica comparison.
func (s *Store) DigestAll() hashing.Hash256 {
	s.lock.Lock()
	defer s.lock.Unlock()

	keys := maps.Keys(s.bandits)
	slices.Sort(keys)

	d := hashing.NewDigest()
	for _, key := range keys {
		d.AddBytes([]byte(key))
		s.bandits[key].AppendDigest(d)
	}
	return d.Sum256()
}

// Footprint returns the approximate memory usage of the bandit at [key]
func (s *Store) Footprint(key string) (uint64, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	b, err := s.getBandit(key)
	if err != nil {
		return 0, err
	}
	return b.Footprint(), nil
}

// TotalFootprint returns the approximate memory usage of all live bandits
func (s *Store) TotalFootprint() uint64 {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.totalFootprint()
}

func (s *Store) totalFootprint() uint64 {
	var total uint64
	for _, b := range s.bandits {
		total += b.Footprint()
	}
	return total
}

// ReplayLog re-applies the persisted op log against the store. Replayed
// mutations are persisted but not re-logged. Replay is idempotent with
// respect to the aggregate state the log reconstructs.
func (s *Store) ReplayLog() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.oplog.replay(func(op bandit.Op) error {
		var err error
		switch op := op.(type) {
		case bandit.InitOp:
			_, err = s.init(op.Key, op.NArms, op.C, false)
		case bandit.RecordOp:
			_, _, err = s.record(op.Key, op.Arm, op.Reward, false)
		case bandit.SetOp:
			_, _, err = s.set(op.Key, op.Arm, op.Count, op.Mean, false)
		case DropOp:
			err = s.drop(op.Key, false)
			if errors.Is(err, ErrNotInitialized) {
				err = nil
			}
		default:
			err = fmt.Errorf("%w: %T", errUnknownOp, op)
		}
		return err
	})
}

// CompactLog rewrites the op log as the minimal reconstruction sequence for
// the live keyspace: per key, one init entry followed by one set entry per
// arm.
func (s *Store) CompactLog() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	before, err := s.oplog.size()
	if err != nil {
		return err
	}

	keys := maps.Keys(s.bandits)
	slices.Sort(keys)

	var ops []bandit.Op
	for _, key := range keys {
		ops = append(ops, s.bandits[key].Rewrite(key)...)
	}
	if err := s.oplog.rewrite(ops); err != nil {
		return err
	}

	s.log.Info("compacted op log",
		zap.Int("entriesBefore", before),
		zap.Int("entriesAfter", len(ops)),
	)
	return nil
}

// getBandit returns the live bandit at [key]. The caller must hold the lock.
func (s *Store) getBandit(key string) (*bandit.State, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	b, ok := s.bandits[key]
	if !ok {
		// The in-memory map mirrors the snapshot keyspace, but check the
		// database anyway so a foreign blob surfaces as a type error rather
		// than as an uninitialized key.
		blob, err := s.snapshotDB.Get([]byte(key))
		if err == database.ErrNotFound {
			return nil, fmt.Errorf("%w: %q", ErrNotInitialized, key)
		}
		if err != nil {
			return nil, err
		}
		b, err = parseSnapshot(blob)
		if err != nil {
			return nil, err
		}
		s.bandits[key] = b
	}
	return b, nil
}

func (s *Store) persist(key string, b *bandit.State) error {
	snapshot := b.Bytes()
	blob := make([]byte, 0, 1+len(snapshot))
	blob = append(blob, typeBandit)
	blob = append(blob, snapshot...)
	s.metrics.snapshotBytes.Observe(float64(len(blob)))
	return s.snapshotDB.Put([]byte(key), blob)
}
