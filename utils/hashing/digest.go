// Copyright (C) 2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package hashing

import (
	"crypto/sha256"
	"encoding/binary"
	"hash"
)

// Digest is an order-dependent incremental accumulator used to fingerprint
// structured values. Callers feed in a sequence of integers, close the
// sequence, and read the resulting hash. Equal sequences produce equal sums;
// the accumulator makes no attempt to detect reordering across separate
// sequences fed into separate digests.
type Digest struct {
	hash hash.Hash
	buf  [8]byte
}

func NewDigest() *Digest {
	return &Digest{hash: sha256.New()}
}

// AddUint64 feeds an unsigned integer into the accumulator
func (d *Digest) AddUint64(v uint64) {
	binary.BigEndian.PutUint64(d.buf[:], v)
	// sha256.Write never errors
	_, _ = d.hash.Write(d.buf[:])
}

// AddInt64 feeds a signed integer into the accumulator
func (d *Digest) AddInt64(v int64) {
	d.AddUint64(uint64(v))
}

// AddBytes feeds a length-prefixed byte slice into the accumulator
func (d *Digest) AddBytes(b []byte) {
	d.AddUint64(uint64(len(b)))
	_, _ = d.hash.Write(b)
}

// EndSequence closes the current value sequence. Values fed after EndSequence
// contribute to the same digest but cannot collide with a continuation of the
// closed sequence.
func (d *Digest) EndSequence() {
	_, _ = d.hash.Write([]byte{0})
}

// Sum256 returns the accumulated fingerprint
func (d *Digest) Sum256() Hash256 {
	var out Hash256
	copy(out[:], d.hash.Sum(nil))
	return out
}
