// Copyright (C) 2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bandit

import "github.com/ava-labs/banditdb/utils/hashing"

// AppendDigest feeds a structural fingerprint of this bandit into [d]: the
// arm count, every count, then every mean truncated to an integer, closing
// the value sequence at the end.
//
// Truncating means is a deliberate precision trade-off inherited from the
// on-wire contract: the digest is a cheap structural comparison between
// replicas, not a detector of sub-integer mean divergence.
func (s *State) AppendDigest(d *hashing.Digest) {
	d.AddUint64(uint64(s.narms))
	for _, count := range s.counts {
		d.AddUint64(count)
	}
	for _, mean := range s.means {
		d.AddInt64(int64(mean))
	}
	d.EndSequence()
}
