// Copyright (C) 2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bandit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name        string
		narms       uint32
		c           float64
		expectedErr error
	}{
		{
			name:        "zero arms",
			narms:       0,
			c:           1,
			expectedErr: ErrNoArms,
		},
		{
			name:        "too many arms",
			narms:       MaxArms + 1,
			c:           1,
			expectedErr: ErrTooManyArms,
		},
		{
			name:        "NaN exploration constant",
			narms:       2,
			c:           math.NaN(),
			expectedErr: ErrNonFinite,
		},
		{
			name:        "infinite exploration constant",
			narms:       2,
			c:           math.Inf(1),
			expectedErr: ErrNonFinite,
		},
		{
			name:  "max arms",
			narms: MaxArms,
			c:     1,
		},
		{
			name:  "negative exploration constant",
			narms: 1,
			c:     -2.5,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)

			s, err := New(test.narms, test.c)
			if test.expectedErr != nil {
				require.ErrorIs(err, test.expectedErr)
				require.Nil(s)
				return
			}
			require.NoError(err)
			require.Equal(test.narms, s.NArms())
			require.Equal(test.c, s.C())
		})
	}
}

func TestNewStartsZeroed(t *testing.T) {
	require := require.New(t)

	for narms := uint32(1); narms <= MaxArms; narms++ {
		s, err := New(narms, 1.5)
		require.NoError(err)

		counts := s.Counts(nil)
		means := s.Means(nil)
		require.Len(counts, int(narms))
		require.Len(means, int(narms))
		for arm := uint32(0); arm < narms; arm++ {
			require.Zero(counts[arm])
			require.Zero(means[arm])
		}
	}
}

func TestReset(t *testing.T) {
	require := require.New(t)

	s, err := New(3, 2)
	require.NoError(err)

	_, _, err = s.Record(0, 5)
	require.NoError(err)
	_, _, err = s.Set(2, 10, 2.5)
	require.NoError(err)

	s.Reset()

	require.Equal(uint32(3), s.NArms())
	require.Equal(float64(2), s.C())
	require.Equal([]uint64{0, 0, 0}, s.Counts(nil))
	require.Equal([]float64{0, 0, 0}, s.Means(nil))
}

func TestArmAccessorsRange(t *testing.T) {
	require := require.New(t)

	s, err := New(2, 1)
	require.NoError(err)

	_, err = s.Count(2)
	require.ErrorIs(err, ErrInvalidArm)
	_, err = s.Mean(2)
	require.ErrorIs(err, ErrInvalidArm)
}

func TestFootprintGrowsWithArms(t *testing.T) {
	require := require.New(t)

	small, err := New(1, 1)
	require.NoError(err)
	large, err := New(MaxArms, 1)
	require.NoError(err)

	require.Less(small.Footprint(), large.Footprint())
	require.Equal(
		uint64(MaxArms-1)*16,
		large.Footprint()-small.Footprint(),
	)
}
