// Copyright (C) 2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bandit

import (
	"errors"
	"math"

	"github.com/ava-labs/banditdb/utils/sampler"
)

// ErrNoChoices is defensive: an empty candidate set is unreachable as long as
// the creation invariant narms >= 1 holds.
var ErrNoChoices = errors.New("no choices")

// Pick selects an arm. Arms with zero observations take absolute precedence:
// while any unpulled arm exists, the candidate set is exactly the unpulled
// arms, regardless of any bound value. Once every arm has been pulled at
// least once, the candidates are the arms whose UCB1 bound equals the maximum
// bound exactly.
//
// Exact float64 equality is deliberate here. Ties are not probability-zero
// events for this type: equal counts with equal (often all-zero) rewards
// yield bit-identical bounds, and every exact maximum deserves equal
// selection probability.
//
// A singleton candidate set is returned directly without consuming
// randomness; larger sets are resolved by an unbiased draw from [u]. Pick
// mutates nothing, so repeated calls do not affect future picks and the
// operation needs no replication.
func (s *State) Pick(u sampler.Uniform) (uint32, error) {
	choices := s.choices[:0]
	for arm := uint32(0); arm < s.narms; arm++ {
		if s.counts[arm] == 0 {
			choices = append(choices, arm)
		}
	}

	if len(choices) == 0 {
		// Every count is >= 1 here, so T >= narms >= 1, ln(T) >= 0, and the
		// bound formula is well-defined for every arm.
		bounds := s.bounds[:s.narms]
		s.computeBounds(bounds)

		bestBound := math.Inf(-1)
		for _, bound := range bounds {
			if bound > bestBound {
				bestBound = bound
			}
		}
		for arm := uint32(0); arm < s.narms; arm++ {
			if bounds[arm] == bestBound {
				choices = append(choices, arm)
			}
		}
	}

	switch len(choices) {
	case 0:
		return 0, ErrNoChoices
	case 1:
		return choices[0], nil
	default:
		i, err := u.Next(uint64(len(choices)))
		if err != nil {
			return 0, err
		}
		return choices[i], nil
	}
}

// Bounds appends the current UCB1 bound of every arm to [dst] and returns it.
// Bounds of unpulled arms are computed with the same formula and may be
// non-finite; they are reported as-is.
func (s *State) Bounds(dst []float64) []float64 {
	bounds := s.bounds[:s.narms]
	s.computeBounds(bounds)
	return append(dst, bounds...)
}

// computeBounds fills [dst] with mean + c*sqrt(ln(T)/count) per arm, where T
// is the total pull count across all arms.
func (s *State) computeBounds(dst []float64) {
	var total uint64
	for _, count := range s.counts {
		total += count
	}

	logt := math.Log(float64(total))
	for arm := range dst {
		z := s.c * math.Sqrt(logt/float64(s.counts[arm]))
		dst[arm] = s.means[arm] + z
	}
}
