// Copyright (C) 2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bandit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/banditdb/utils/sampler"
)

func newSeededSampler(seed int64) sampler.Uniform {
	u := sampler.NewUniform()
	u.Seed(seed)
	return u
}

func TestPickPrefersUnpulledArms(t *testing.T) {
	require := require.New(t)

	s, err := New(2, 1)
	require.NoError(err)
	u := newSeededSampler(0)

	// Both arms unpulled: either may be returned.
	arm, err := s.Pick(u)
	require.NoError(err)
	require.Less(arm, uint32(2))

	// Give arm 0 a high reward. Arm 1 is still unpulled and must win
	// regardless of any bound value.
	_, _, err = s.Record(0, 5)
	require.NoError(err)
	for i := 0; i < 100; i++ {
		arm, err := s.Pick(u)
		require.NoError(err)
		require.Equal(uint32(1), arm)
	}
}

func TestPickNeverReturnsPulledWhileUnpulledRemain(t *testing.T) {
	require := require.New(t)

	s, err := New(8, 0.5)
	require.NoError(err)
	u := newSeededSampler(42)

	pulled := make(map[uint32]bool, 8)
	for len(pulled) < 8 {
		arm, err := s.Pick(u)
		require.NoError(err)
		require.False(pulled[arm], "picked arm %d while unpulled arms remain", arm)
		pulled[arm] = true
		_, _, err = s.Record(arm, float64(arm))
		require.NoError(err)
	}
}

func TestPickTwoArmScenario(t *testing.T) {
	require := require.New(t)

	s, err := New(2, 1)
	require.NoError(err)
	u := newSeededSampler(7)

	_, _, err = s.Record(0, 5)
	require.NoError(err)
	_, _, err = s.Record(1, 3)
	require.NoError(err)

	bonus := math.Sqrt(math.Log(2))
	bounds := s.Bounds(nil)
	require.Equal([]float64{5 + bonus, 3 + bonus}, bounds)

	// Arm 0's bound is strictly higher, so the pick is deterministic.
	for i := 0; i < 100; i++ {
		arm, err := s.Pick(u)
		require.NoError(err)
		require.Equal(uint32(0), arm)
	}
}

func TestPickReturnsOnlyMaximalBounds(t *testing.T) {
	require := require.New(t)

	s, err := New(4, 1)
	require.NoError(err)
	u := newSeededSampler(3)

	// Arms 0 and 2 tie exactly; arms 1 and 3 are strictly worse.
	for arm, reward := range map[uint32]float64{0: 4, 1: 1, 2: 4, 3: 0} {
		_, _, err := s.Record(arm, reward)
		require.NoError(err)
	}

	for i := 0; i < 200; i++ {
		arm, err := s.Pick(u)
		require.NoError(err)
		require.Contains([]uint32{0, 2}, arm)
	}
}

func TestPickTieIsNotStarved(t *testing.T) {
	require := require.New(t)

	// All arms pulled once with identical rewards: every bound is
	// bit-identical, so all arms tie. Over enough trials every arm must be
	// returned.
	s, err := New(4, 1)
	require.NoError(err)
	u := newSeededSampler(11)

	for arm := uint32(0); arm < 4; arm++ {
		_, _, err := s.Record(arm, 2.5)
		require.NoError(err)
	}

	seen := make(map[uint32]bool, 4)
	for i := 0; i < 1000; i++ {
		arm, err := s.Pick(u)
		require.NoError(err)
		seen[arm] = true
	}
	require.Len(seen, 4)
}

func TestPickDoesNotMutate(t *testing.T) {
	require := require.New(t)

	s, err := New(3, 1)
	require.NoError(err)
	u := newSeededSampler(1)

	for arm := uint32(0); arm < 3; arm++ {
		_, _, err := s.Record(arm, float64(arm))
		require.NoError(err)
	}
	counts := s.Counts(nil)
	means := s.Means(nil)

	for i := 0; i < 50; i++ {
		_, err := s.Pick(u)
		require.NoError(err)
	}
	require.Equal(counts, s.Counts(nil))
	require.Equal(means, s.Means(nil))
}

func TestBoundsSingleArm(t *testing.T) {
	require := require.New(t)

	// With one arm pulled once, T=1 and ln(T)=0, so the bound collapses to
	// the mean.
	s, err := New(1, 3)
	require.NoError(err)
	_, _, err = s.Record(0, 1.25)
	require.NoError(err)

	require.Equal([]float64{1.25}, s.Bounds(nil))
}
