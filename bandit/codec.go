// Copyright (C) 2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bandit

import (
	"errors"
	"fmt"

	"github.com/ava-labs/banditdb/utils/wrappers"
)

// CodecVersion tags the snapshot layout. The field order below is fixed for
// version 0 and must not change without introducing a new version.
const CodecVersion uint16 = 0

// maxSnapshotSize bounds a version-tagged snapshot of a MaxArms bandit.
const maxSnapshotSize = wrappers.ShortLen +
	wrappers.IntLen +
	wrappers.DoubleLen +
	MaxArms*(wrappers.LongLen+wrappers.DoubleLen)

var (
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")

	errCorruptSnapshot = errors.New("corrupt snapshot")
	errExtraSpace      = errors.New("trailing snapshot space")
)

// Bytes returns the versioned binary snapshot of this bandit: the codec
// version, then the arm count, the exploration constant, all counts, and all
// means. The bytes are opaque to the host; it stores and returns them without
// interpretation.
func (s *State) Bytes() []byte {
	p := wrappers.Packer{
		MaxSize: maxSnapshotSize,
		Bytes:   make([]byte, 0, s.snapshotSize()),
	}
	p.PackShort(CodecVersion)
	p.PackInt(s.narms)
	p.PackDouble(s.c)
	for _, count := range s.counts {
		p.PackLong(count)
	}
	for _, mean := range s.means {
		p.PackDouble(mean)
	}
	return p.Bytes
}

func (s *State) snapshotSize() int {
	return wrappers.ShortLen +
		wrappers.IntLen +
		wrappers.DoubleLen +
		int(s.narms)*(wrappers.LongLen+wrappers.DoubleLen)
}

// Parse reconstructs a bandit from snapshot bytes produced by Bytes. Unknown
// codec versions fail with ErrUnsupportedVersion and construct nothing. No
// checksum is stored; integrity checks belong to the digest, out of band.
func Parse(bytes []byte) (*State, error) {
	p := wrappers.Packer{Bytes: bytes}

	version := p.UnpackShort()
	if p.Errored() {
		return nil, fmt.Errorf("%w: %s", errCorruptSnapshot, p.Err)
	}
	if version != CodecVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	narms := p.UnpackInt()
	c := p.UnpackDouble()
	if p.Errored() {
		return nil, fmt.Errorf("%w: %s", errCorruptSnapshot, p.Err)
	}

	s, err := New(narms, c)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errCorruptSnapshot, err)
	}
	for arm := range s.counts {
		s.counts[arm] = p.UnpackLong()
	}
	for arm := range s.means {
		s.means[arm] = p.UnpackDouble()
	}
	switch {
	case p.Errored():
		return nil, fmt.Errorf("%w: %s", errCorruptSnapshot, p.Err)
	case p.Offset != len(bytes):
		return nil, errExtraSpace
	}
	return s, nil
}
