// Copyright (C) 2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package bandit implements a UCB1 multi-armed bandit as a host-managed data
// type: a fixed set of arms, per-arm pull counts and running mean rewards,
// and an upper-confidence-bound selection rule that trades exploration of
// under-sampled arms against exploitation of high-reward ones.
package bandit

import (
	"errors"
	"fmt"
	"math"

	"github.com/ava-labs/banditdb/utils/wrappers"
)

// MaxArms is the largest arm cardinality a bandit may be created with. The
// ceiling is part of the creation contract, not an implicit storage limit.
const MaxArms = 64

// stateOverhead approximates the fixed in-memory cost of a State, independent
// of its arm count. Used only for advisory accounting.
const stateOverhead = 64

var (
	ErrNoArms      = errors.New("bandit must have at least one arm")
	ErrTooManyArms = fmt.Errorf("bandit must have at most %d arms", MaxArms)
	ErrNonFinite   = errors.New("value must be finite")
	ErrInvalidArm  = errors.New("invalid arm")
)

// State is the per-key bandit object. The arm count and exploration constant
// are fixed at creation; counts and means always hold exactly [narms]
// elements. A State is exclusively owned by its host key, which serializes
// access to it, so no internal locking is performed.
type State struct {
	narms uint32
	c     float64

	counts []uint64
	means  []float64

	// Scratch reused across Pick and Bounds calls. Safe because the host
	// guarantees a single writer per key; every call fully recomputes the
	// contents before reading them.
	choices []uint32
	bounds  []float64
}

// New returns a zeroed bandit with [narms] arms and exploration constant [c].
func New(narms uint32, c float64) (*State, error) {
	switch {
	case narms == 0:
		return nil, ErrNoArms
	case narms > MaxArms:
		return nil, fmt.Errorf("%w: %d", ErrTooManyArms, narms)
	case math.IsNaN(c) || math.IsInf(c, 0):
		return nil, fmt.Errorf("%w: exploration constant", ErrNonFinite)
	}

	return &State{
		narms:   narms,
		c:       c,
		counts:  make([]uint64, narms),
		means:   make([]float64, narms),
		choices: make([]uint32, 0, MaxArms),
		bounds:  make([]float64, MaxArms),
	}, nil
}

// Reset zeroes all counts and means in place. The arm count and exploration
// constant are not changed; migrating to a different arm count requires
// constructing a fresh State.
func (s *State) Reset() {
	for i := range s.counts {
		s.counts[i] = 0
	}
	for i := range s.means {
		s.means[i] = 0
	}
}

// Release drops the owned sequences. The State must not be used afterwards.
func (s *State) Release() {
	s.counts = nil
	s.means = nil
	s.choices = nil
	s.bounds = nil
}

// NArms returns the arm cardinality fixed at creation
func (s *State) NArms() uint32 {
	return s.narms
}

// C returns the exploration constant fixed at creation
func (s *State) C() float64 {
	return s.c
}

// Count returns the number of recorded pulls for [arm]
func (s *State) Count(arm uint32) (uint64, error) {
	if arm >= s.narms {
		return 0, fmt.Errorf("%w: %d", ErrInvalidArm, arm)
	}
	return s.counts[arm], nil
}

// Mean returns the running mean reward for [arm]. The mean of an unpulled arm
// is 0 by convention.
func (s *State) Mean(arm uint32) (float64, error) {
	if arm >= s.narms {
		return 0, fmt.Errorf("%w: %d", ErrInvalidArm, arm)
	}
	return s.means[arm], nil
}

// Counts appends the pull count of every arm to [dst] and returns it
func (s *State) Counts(dst []uint64) []uint64 {
	return append(dst, s.counts...)
}

// Means appends the mean reward of every arm to [dst] and returns it
func (s *State) Means(dst []float64) []float64 {
	return append(dst, s.means...)
}

// Footprint returns the approximate memory usage of this bandit, in bytes.
// The value is advisory; the host uses it for accounting and eviction
// heuristics only.
func (s *State) Footprint() uint64 {
	return uint64(s.narms)*(wrappers.LongLen+wrappers.DoubleLen) + stateOverhead
}
