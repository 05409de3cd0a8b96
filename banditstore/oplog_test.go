// Copyright (C) 2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package banditstore

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/banditdb/bandit"
	"github.com/ava-labs/banditdb/database"
	"github.com/ava-labs/banditdb/database/memdb"
)

func TestOpLogRoundTrip(t *testing.T) {
	require := require.New(t)

	ops := []bandit.Op{
		bandit.InitOp{Key: "traffic", NArms: 3, C: 2},
		bandit.RecordOp{Key: "traffic", Arm: 1, Reward: 4.5},
		bandit.SetOp{Key: "traffic", Arm: 2, Count: 7, Mean: -1.25},
		DropOp{Key: "traffic"},
	}
	for _, op := range ops {
		bytes, err := encodeOp(op)
		require.NoError(err)
		decoded, err := decodeOp(bytes)
		require.NoError(err)
		require.Equal(op, decoded)
	}
}

func TestOpLogDecodeRejectsGarbage(t *testing.T) {
	require := require.New(t)

	_, err := decodeOp(nil)
	require.Error(err)

	_, err = decodeOp([]byte{0xff})
	require.ErrorIs(err, errUnknownOp)

	bytes, err := encodeOp(DropOp{Key: "k"})
	require.NoError(err)
	_, err = decodeOp(append(bytes, 0))
	require.Error(err)
	_, err = decodeOp(bytes[:len(bytes)-1])
	require.Error(err)
}

func TestOpLogAppendOrder(t *testing.T) {
	require := require.New(t)
	l, err := newOpLog(memdb.New())
	require.NoError(err)

	want := []bandit.Op{
		bandit.InitOp{Key: "a", NArms: 2, C: 1},
		bandit.RecordOp{Key: "a", Arm: 0, Reward: 1},
		bandit.RecordOp{Key: "a", Arm: 1, Reward: 2},
	}
	for _, op := range want {
		require.NoError(l.append(op))
	}

	var got []bandit.Op
	require.NoError(l.replay(func(op bandit.Op) error {
		got = append(got, op)
		return nil
	}))
	require.Equal(want, got)
}

func TestOpLogResumesSequence(t *testing.T) {
	require := require.New(t)
	db := memdb.New()

	l, err := newOpLog(db)
	require.NoError(err)
	require.NoError(l.append(bandit.InitOp{Key: "a", NArms: 2, C: 1}))
	require.NoError(l.append(bandit.RecordOp{Key: "a", Arm: 0, Reward: 1}))

	// Reopening must continue after the persisted entries, not overwrite
	// them.
	reopened, err := newOpLog(db)
	require.NoError(err)
	require.Equal(uint64(2), reopened.nextSeq)
	require.NoError(reopened.append(DropOp{Key: "a"}))

	var got []bandit.Op
	require.NoError(reopened.replay(func(op bandit.Op) error {
		got = append(got, op)
		return nil
	}))
	require.Len(got, 3)
	require.Equal(DropOp{Key: "a"}, got[2])
}

func TestOpLogRewrite(t *testing.T) {
	require := require.New(t)
	l, err := newOpLog(memdb.New())
	require.NoError(err)

	for i := 0; i < 20; i++ {
		require.NoError(l.append(bandit.RecordOp{Key: "a", Arm: 0, Reward: float64(i)}))
	}

	want := []bandit.Op{
		bandit.InitOp{Key: "a", NArms: 1, C: 2},
		bandit.SetOp{Key: "a", Arm: 0, Count: 20, Mean: 9.5},
	}
	require.NoError(l.rewrite(want))

	n, err := l.size()
	require.NoError(err)
	require.Equal(2, n)

	var got []bandit.Op
	require.NoError(l.replay(func(op bandit.Op) error {
		got = append(got, op)
		return nil
	}))
	require.Equal(want, got)
}

func TestOpLogReplayStopsOnCorruptEntry(t *testing.T) {
	require := require.New(t)
	db := memdb.New()

	l, err := newOpLog(db)
	require.NoError(err)
	require.NoError(l.append(bandit.InitOp{Key: "a", NArms: 2, C: 1}))
	require.NoError(db.Put(database.PackUInt64(l.nextSeq), []byte{0xff, 0xff}))

	var applied int
	err = l.replay(func(bandit.Op) error {
		applied++
		return nil
	})
	require.Error(err)
	require.Equal(1, applied)
}
