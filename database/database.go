// Copyright (C) 2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package database defines the key-value storage interfaces the host store is
// built on.
package database

import "io"

// KeyValueReader wraps the Has and Get methods of a backing store
type KeyValueReader interface {
	// Has retrieves if a key is present in the store
	Has(key []byte) (bool, error)

	// Get retrieves the given key if it's present in the store
	Get(key []byte) ([]byte, error)
}

// KeyValueWriter wraps the Put method of a backing store
type KeyValueWriter interface {
	// Put inserts the given value into the store
	Put(key []byte, value []byte) error
}

// KeyValueDeleter wraps the Delete method of a backing store
type KeyValueDeleter interface {
	// Delete removes the key from the store
	Delete(key []byte) error
}

// KeyValueWriterDeleter groups the mutation methods of a backing store
type KeyValueWriterDeleter interface {
	KeyValueWriter
	KeyValueDeleter
}

// Batcher wraps the NewBatch method of a backing store
type Batcher interface {
	// NewBatch creates a write-only database that buffers changes to its host
	// db until a final write is called.
	NewBatch() Batch
}

// Iteratee wraps the NewIterator methods of a backing store
type Iteratee interface {
	// NewIterator creates an iterator over the entire keyspace contained
	// within the store.
	NewIterator() Iterator

	// NewIteratorWithPrefix creates an iterator over a subset of database
	// content with a particular key prefix.
	NewIteratorWithPrefix(prefix []byte) Iterator

	// NewIteratorWithStartAndPrefix creates an iterator over a subset of
	// database content with a particular key prefix, starting at a particular
	// initial key.
	NewIteratorWithStartAndPrefix(start, prefix []byte) Iterator
}

// Compacter wraps the Compact method of a backing store
type Compacter interface {
	// Compact flattens the underlying data store for the given key range.
	// A nil start is treated as a key before all keys; a nil limit is treated
	// as a key after all keys.
	Compact(start []byte, limit []byte) error
}

// Database contains all of the methods an underlying store must implement
type Database interface {
	KeyValueReader
	KeyValueWriter
	KeyValueDeleter
	Batcher
	Iteratee
	Compacter
	io.Closer
}
