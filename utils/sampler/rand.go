// Copyright (C) 2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sampler

import (
	"math"
	"sync"
	"time"

	"gonum.org/v1/gonum/mathext/prng"
)

// globalRNG is seeded exactly once, at process start, from the wall clock.
// Arm selection is not an adversarial context, so a cryptographically secure
// source is not required. Seeding is explicit here rather than inherited from
// a library default so that tie-breaking differs across process restarts.
var globalRNG = newRNG()

func newRNG() *rng {
	source := prng.NewMT19937()
	source.Seed(uint64(time.Now().UnixNano()))
	return &rng{rng: source}
}

type rng struct {
	lock sync.Mutex
	rng  Source
}

type Source interface {
	// Uint64 returns a random number in [0, MaxUint64] and advances the
	// generator's state.
	Uint64() uint64
}

// Uint64Inclusive returns a pseudo-random number in [0,n].
//
// To avoid modulo bias, raw draws outside the largest multiple of n+1 that
// fits in the source's range are rejected and redrawn. The accepted draw is
// then reduced mod n+1, which is uniform by construction.
func (r *rng) Uint64Inclusive(n uint64) uint64 {
	switch {
	// n+1 is a power of two, so masking cannot introduce bias.
	//
	// Note: this also covers n == MaxUint64, as overflow is defined by the
	// language specification: https://go.dev/ref/spec#Integer_overflow
	case n&(n+1) == 0:
		return r.uint64() & n

	// n is greater than MaxInt64, so the rejection region below would not be
	// expressible. Iterate until the draw lands in the requested range.
	case n > math.MaxInt64:
		v := r.uint64()
		for v > n {
			v = r.uint64()
		}
		return v

	// Draw from [0, k*(n+1)) where k is the largest integer such that k*(n+1)
	// does not exceed MaxInt64, rejecting anything at or above the limit.
	default:
		limit := (1 << 63) - 1 - (1<<63)%(n+1)
		v := r.uint63()
		for v > limit {
			v = r.uint63()
		}
		return v % (n + 1)
	}
}

// Seed replaces the generator with one deterministically seeded by [seed]
func (r *rng) Seed(seed int64) {
	source := prng.NewMT19937()
	source.Seed(uint64(seed))

	r.lock.Lock()
	r.rng = source
	r.lock.Unlock()
}

// uint63 returns a random number in [0, MaxInt64]
func (r *rng) uint63() uint64 {
	return r.uint64() & math.MaxInt64
}

// uint64 returns a random number in [0, MaxUint64]
func (r *rng) uint64() uint64 {
	// The source advances its internal state on every draw, so even reads
	// must hold the write lock.
	r.lock.Lock()
	n := r.rng.Uint64()
	r.lock.Unlock()
	return n
}
