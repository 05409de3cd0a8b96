// Copyright (C) 2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package banditstore

import (
	"errors"
	"fmt"

	"github.com/ava-labs/banditdb/bandit"
	"github.com/ava-labs/banditdb/database"
	"github.com/ava-labs/banditdb/utils/wrappers"
)

// Op tags on the wire. The tag is the first byte of every encoded entry.
const (
	opInit byte = iota
	opRecord
	opSet
	opDrop
)

// maxOpSize bounds an encoded entry: tag, a length-prefixed key, and at most
// three fixed-width operands.
const maxOpSize = wrappers.ByteLen +
	wrappers.ShortLen + maxKeyLen +
	wrappers.IntLen + wrappers.LongLen + wrappers.DoubleLen

var errUnknownOp = errors.New("unknown op")

// DropOp removes the bandit at a key. It is a store-level entry: bandit
// rewrites never emit it, live Drop calls do.
type DropOp struct {
	Key string
}

func (op DropOp) Target() string {
	return op.Key
}

// opLog is an append-only command log over a dedicated database. Entries are
// keyed by a big-endian sequence number so database iteration order is append
// order. Replaying the log against an empty store reproduces its aggregate
// state; compaction rewrites the log to the minimal reconstruction sequence.
type opLog struct {
	db      database.Database
	nextSeq uint64
}

func newOpLog(db database.Database) (*opLog, error) {
	l := &opLog{db: db}

	// Resume the sequence counter after the last persisted entry.
	it := db.NewIterator()
	defer it.Release()
	for it.Next() {
		seq, err := database.ParseUInt64(it.Key())
		if err != nil {
			return nil, err
		}
		l.nextSeq = seq + 1
	}
	return l, it.Error()
}

func (l *opLog) append(op bandit.Op) error {
	bytes, err := encodeOp(op)
	if err != nil {
		return err
	}
	if err := l.db.Put(database.PackUInt64(l.nextSeq), bytes); err != nil {
		return err
	}
	l.nextSeq++
	return nil
}

// replay applies every logged entry, in append order, through [apply]. An
// undecodable entry poisons the log from that point on and stops the replay.
func (l *opLog) replay(apply func(bandit.Op) error) error {
	it := l.db.NewIterator()
	defer it.Release()

	for it.Next() {
		op, err := decodeOp(it.Value())
		if err != nil {
			return fmt.Errorf("corrupt op log at seq %x: %w", it.Key(), err)
		}
		if err := apply(op); err != nil {
			return err
		}
	}
	return it.Error()
}

// rewrite replaces the log's contents with the provided reconstruction
// sequence and restarts the sequence counter.
func (l *opLog) rewrite(ops []bandit.Op) error {
	if err := database.AtomicClearPrefix(l.db, l.db, nil); err != nil {
		return err
	}
	l.nextSeq = 0
	for _, op := range ops {
		if err := l.append(op); err != nil {
			return err
		}
	}
	return nil
}

// size returns the number of persisted entries
func (l *opLog) size() (int, error) {
	return database.Count(l.db)
}

func encodeOp(op bandit.Op) ([]byte, error) {
	p := wrappers.Packer{
		MaxSize: maxOpSize,
		Bytes:   make([]byte, 0, wrappers.ByteLen+wrappers.ShortLen+len(op.Target())),
	}
	switch op := op.(type) {
	case bandit.InitOp:
		p.PackByte(opInit)
		p.PackStr(op.Key)
		p.PackInt(op.NArms)
		p.PackDouble(op.C)
	case bandit.RecordOp:
		p.PackByte(opRecord)
		p.PackStr(op.Key)
		p.PackInt(op.Arm)
		p.PackDouble(op.Reward)
	case bandit.SetOp:
		p.PackByte(opSet)
		p.PackStr(op.Key)
		p.PackInt(op.Arm)
		p.PackLong(op.Count)
		p.PackDouble(op.Mean)
	case DropOp:
		p.PackByte(opDrop)
		p.PackStr(op.Key)
	default:
		return nil, fmt.Errorf("%w: %T", errUnknownOp, op)
	}
	return p.Bytes, p.Err
}

func decodeOp(bytes []byte) (bandit.Op, error) {
	p := wrappers.Packer{Bytes: bytes}

	var op bandit.Op
	switch tag := p.UnpackByte(); tag {
	case opInit:
		op = bandit.InitOp{
			Key:   p.UnpackStr(),
			NArms: p.UnpackInt(),
			C:     p.UnpackDouble(),
		}
	case opRecord:
		op = bandit.RecordOp{
			Key:    p.UnpackStr(),
			Arm:    p.UnpackInt(),
			Reward: p.UnpackDouble(),
		}
	case opSet:
		op = bandit.SetOp{
			Key:   p.UnpackStr(),
			Arm:   p.UnpackInt(),
			Count: p.UnpackLong(),
			Mean:  p.UnpackDouble(),
		}
	case opDrop:
		op = DropOp{
			Key: p.UnpackStr(),
		}
	default:
		return nil, fmt.Errorf("%w: tag %d", errUnknownOp, tag)
	}

	switch {
	case p.Errored():
		return nil, p.Err
	case p.Offset != len(bytes):
		return nil, fmt.Errorf("%w: trailing bytes", errUnknownOp)
	}
	return op, nil
}
