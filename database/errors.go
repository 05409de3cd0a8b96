// Copyright (C) 2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package database

import "errors"

var (
	ErrClosed   = errors.New("closed")
	ErrNotFound = errors.New("not found")
)
