// Copyright (C) 2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sampler

import "errors"

var (
	ErrOutOfRange = errors.New("out of range")

	_ Uniform = (*uniform)(nil)
)

// Uniform samples a single value uniformly from [0, n)
type Uniform interface {
	// Next returns an unbiased draw from [0, n). n must be > 0.
	Next(n uint64) (uint64, error)

	Seed(int64)
	ClearSeed()
}

// NewUniform returns a sampler backed by the process-global generator until
// Seed is called.
func NewUniform() Uniform {
	return &uniform{
		rng:       globalRNG,
		seededRNG: newRNG(),
	}
}

type uniform struct {
	rng       *rng
	seededRNG *rng
}

func (s *uniform) Next(n uint64) (uint64, error) {
	if n == 0 {
		return 0, ErrOutOfRange
	}
	return s.rng.Uint64Inclusive(n - 1), nil
}

func (s *uniform) Seed(seed int64) {
	s.rng = s.seededRNG
	s.rng.Seed(seed)
}

func (s *uniform) ClearSeed() {
	s.rng = globalRNG
}
