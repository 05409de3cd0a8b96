// Copyright (C) 2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bandit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRewriteShape(t *testing.T) {
	require := require.New(t)

	s, err := New(3, 0.5)
	require.NoError(err)
	_, _, err = s.Record(1, 4)
	require.NoError(err)
	_, _, err = s.Record(1, 2)
	require.NoError(err)

	ops := s.Rewrite("decisions")
	require.Len(ops, 4)

	require.Equal(InitOp{
		Key:   "decisions",
		NArms: 3,
		C:     0.5,
	}, ops[0])
	require.Equal(SetOp{Key: "decisions", Arm: 0}, ops[1])
	require.Equal(SetOp{
		Key:   "decisions",
		Arm:   1,
		Count: 2,
		Mean:  3,
	}, ops[2])
	require.Equal(SetOp{Key: "decisions", Arm: 2}, ops[3])
}

func TestRewriteReconstructsState(t *testing.T) {
	require := require.New(t)

	s, err := New(4, 2)
	require.NoError(err)
	for arm := uint32(0); arm < 4; arm++ {
		for i := 0; i <= int(arm); i++ {
			_, _, err := s.Record(arm, float64(i)-1.5)
			require.NoError(err)
		}
	}

	// Replay the rewrite sequence against a fresh key.
	var rebuilt *State
	for _, op := range s.Rewrite("k") {
		switch op := op.(type) {
		case InitOp:
			rebuilt, err = New(op.NArms, op.C)
			require.NoError(err)
		case SetOp:
			_, _, err := rebuilt.Set(op.Arm, op.Count, op.Mean)
			require.NoError(err)
		default:
			require.FailNow("unexpected op type")
		}
	}

	require.Equal(s.Counts(nil), rebuilt.Counts(nil))
	require.Equal(s.Means(nil), rebuilt.Means(nil))
	require.Equal(s.Bytes(), rebuilt.Bytes())
}
