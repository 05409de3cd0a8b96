// Copyright (C) 2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bandit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecordFirstObservation(t *testing.T) {
	require := require.New(t)

	s, err := New(2, 1)
	require.NoError(err)

	count, mean, err := s.Record(0, 5)
	require.NoError(err)
	require.Equal(uint64(1), count)
	require.Equal(float64(5), mean)
}

func TestRecordRunningMean(t *testing.T) {
	require := require.New(t)

	s, err := New(1, 1)
	require.NoError(err)

	rewards := []float64{3, -1, 4, 1.5, -9, 2.625, 5, 3.5}
	var (
		sum   float64
		count uint64
		mean  float64
	)
	for _, reward := range rewards {
		sum += reward
		var err error
		count, mean, err = s.Record(0, reward)
		require.NoError(err)
	}

	require.Equal(uint64(len(rewards)), count)
	require.InDelta(sum/float64(len(rewards)), mean, 1e-12)
}

func TestRecordValidatesBeforeMutation(t *testing.T) {
	require := require.New(t)

	s, err := New(2, 1)
	require.NoError(err)

	_, _, err = s.Record(2, 1)
	require.ErrorIs(err, ErrInvalidArm)

	_, _, err = s.Record(0, math.NaN())
	require.ErrorIs(err, ErrNonFinite)
	_, _, err = s.Record(0, math.Inf(-1))
	require.ErrorIs(err, ErrNonFinite)

	// A rejected reward must not have touched the arm.
	require.Equal([]uint64{0, 0}, s.Counts(nil))
	require.Equal([]float64{0, 0}, s.Means(nil))
}

func TestSetOverwrites(t *testing.T) {
	require := require.New(t)

	s, err := New(3, 1)
	require.NoError(err)

	count, mean, err := s.Set(1, 10, 2.5)
	require.NoError(err)
	require.Equal(uint64(10), count)
	require.Equal(2.5, mean)

	// The overwrite is authoritative: a second call leaves exactly the second
	// value in place regardless of prior state.
	count, mean, err = s.Set(1, 3, -0.5)
	require.NoError(err)
	require.Equal(uint64(3), count)
	require.Equal(-0.5, mean)

	require.Equal([]uint64{0, 3, 0}, s.Counts(nil))
	require.Equal([]float64{0, -0.5, 0}, s.Means(nil))
}

func TestSetValidation(t *testing.T) {
	require := require.New(t)

	s, err := New(2, 1)
	require.NoError(err)

	_, _, err = s.Set(2, 1, 1)
	require.ErrorIs(err, ErrInvalidArm)
	_, _, err = s.Set(0, 1, math.NaN())
	require.ErrorIs(err, ErrNonFinite)
}
