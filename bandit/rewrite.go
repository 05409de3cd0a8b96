// Copyright (C) 2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bandit

// Op is one replication-log entry: a command that, replayed against the host
// in order, contributes to reconstructing a bandit.
type Op interface {
	// Target returns the host key the op applies to
	Target() string
}

// InitOp creates (or re-zeroes) the bandit at a key
type InitOp struct {
	Key   string
	NArms uint32
	C     float64
}

func (op InitOp) Target() string {
	return op.Key
}

// RecordOp logs one reward observation. Live mutations are logged as the
// command that caused them; rewrites never emit RecordOps.
type RecordOp struct {
	Key    string
	Arm    uint32
	Reward float64
}

func (op RecordOp) Target() string {
	return op.Key
}

// SetOp overwrites one arm's count and mean
type SetOp struct {
	Key   string
	Arm   uint32
	Count uint64
	Mean  float64
}

func (op SetOp) Target() string {
	return op.Key
}

// Rewrite returns the idempotent reconstruction sequence for this bandit: one
// InitOp followed by exactly one SetOp per arm. Replaying the sequence
// against an empty key reproduces the aggregate state exactly; it does not
// reproduce the original per-observation history.
func (s *State) Rewrite(key string) []Op {
	ops := make([]Op, 0, 1+s.narms)
	ops = append(ops, InitOp{
		Key:   key,
		NArms: s.narms,
		C:     s.c,
	})
	for arm := uint32(0); arm < s.narms; arm++ {
		ops = append(ops, SetOp{
			Key:   key,
			Arm:   arm,
			Count: s.counts[arm],
			Mean:  s.means[arm],
		})
	}
	return ops
}
