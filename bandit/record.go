// Copyright (C) 2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bandit

import (
	"fmt"
	"math"
)

// Record adds one observed reward for [arm] and returns the updated count and
// mean. The mean is maintained with Welford's incremental formula, which
// bounds rounding error for long-lived arms compared to storing a running sum
// and dividing. Validation happens before any mutation.
func (s *State) Record(arm uint32, reward float64) (uint64, float64, error) {
	if arm >= s.narms {
		return 0, 0, fmt.Errorf("%w: %d", ErrInvalidArm, arm)
	}
	if math.IsNaN(reward) || math.IsInf(reward, 0) {
		return 0, 0, fmt.Errorf("%w: reward", ErrNonFinite)
	}

	updatedCount := s.counts[arm] + 1
	s.counts[arm] = updatedCount

	if updatedCount == 1 {
		// The previous mean is meaningless at count 0; take the reward
		// directly rather than folding it in.
		s.means[arm] = reward
	} else {
		s.means[arm] += (reward - s.means[arm]) / float64(updatedCount)
	}
	return updatedCount, s.means[arm], nil
}

// Set overwrites the count and mean of [arm] with caller-supplied values and
// returns them. This is an authoritative overwrite used to replay persisted
// or replicated state; no consistency with observation history is checked.
func (s *State) Set(arm uint32, count uint64, mean float64) (uint64, float64, error) {
	if arm >= s.narms {
		return 0, 0, fmt.Errorf("%w: %d", ErrInvalidArm, arm)
	}
	if math.IsNaN(mean) || math.IsInf(mean, 0) {
		return 0, 0, fmt.Errorf("%w: mean", ErrNonFinite)
	}

	s.counts[arm] = count
	s.means[arm] = mean
	return count, mean, nil
}
