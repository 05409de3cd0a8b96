// Copyright (C) 2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package memdb provides an ephemeral key-value store, used for tests and
// non-durable deployments.
package memdb

import (
	"slices"
	"strings"
	"sync"

	"github.com/ava-labs/banditdb/database"
)

var (
	_ database.Database = (*Database)(nil)
	_ database.Batch    = (*batch)(nil)
	_ database.Iterator = (*iterator)(nil)
)

// Database is a map guarded by a lock. A nil map marks the database closed.
type Database struct {
	lock    sync.RWMutex
	entries map[string][]byte
}

func New() *Database {
	return &Database{entries: make(map[string][]byte)}
}

func (db *Database) Has(key []byte) (bool, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.entries == nil {
		return false, database.ErrClosed
	}
	_, ok := db.entries[string(key)]
	return ok, nil
}

func (db *Database) Get(key []byte) ([]byte, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.entries == nil {
		return nil, database.ErrClosed
	}
	value, ok := db.entries[string(key)]
	if !ok {
		return nil, database.ErrNotFound
	}
	return slices.Clone(value), nil
}

func (db *Database) Put(key []byte, value []byte) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.entries == nil {
		return database.ErrClosed
	}
	db.entries[string(key)] = slices.Clone(value)
	return nil
}

func (db *Database) Delete(key []byte) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.entries == nil {
		return database.ErrClosed
	}
	delete(db.entries, string(key))
	return nil
}

func (db *Database) NewBatch() database.Batch {
	return &batch{db: db}
}

func (db *Database) NewIterator() database.Iterator {
	return db.NewIteratorWithStartAndPrefix(nil, nil)
}

func (db *Database) NewIteratorWithPrefix(prefix []byte) database.Iterator {
	return db.NewIteratorWithStartAndPrefix(nil, prefix)
}

// NewIteratorWithStartAndPrefix snapshots the matching keys in sorted order.
// Mutations made after the iterator is constructed are not observed; closing
// the database mid-iteration is.
func (db *Database) NewIteratorWithStartAndPrefix(start, prefix []byte) database.Iterator {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.entries == nil {
		return &database.IteratorError{
			Err: database.ErrClosed,
		}
	}

	var keys []string
	for key := range db.entries {
		if key >= string(start) && strings.HasPrefix(key, string(prefix)) {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)

	values := make([][]byte, len(keys))
	for i, key := range keys {
		values[i] = db.entries[key]
	}
	return &iterator{
		db:     db,
		cursor: -1,
		keys:   keys,
		values: values,
	}
}

func (db *Database) Compact(_, _ []byte) error {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.entries == nil {
		return database.ErrClosed
	}
	return nil
}

func (db *Database) Close() error {
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.entries == nil {
		return database.ErrClosed
	}
	db.entries = nil
	return nil
}

type batch struct {
	database.BatchOps

	db *Database
}

func (b *batch) Write() error {
	b.db.lock.Lock()
	defer b.db.lock.Unlock()

	if b.db.entries == nil {
		return database.ErrClosed
	}
	for _, op := range b.Ops {
		if op.Delete {
			delete(b.db.entries, string(op.Key))
		} else {
			b.db.entries[string(op.Key)] = op.Value
		}
	}
	return nil
}

func (b *batch) Inner() database.Batch {
	return b
}

// iterator walks a sorted snapshot with a cursor. The cursor starts before
// the first entry, per the Iterator contract.
type iterator struct {
	db     *Database
	cursor int
	keys   []string
	values [][]byte
	err    error
}

func (it *iterator) Next() bool {
	db := it.db
	db.lock.RLock()
	closed := db.entries == nil
	db.lock.RUnlock()
	if closed {
		it.Release()
		it.err = database.ErrClosed
		return false
	}

	if it.cursor < len(it.keys) {
		it.cursor++
	}
	return it.cursor < len(it.keys)
}

func (it *iterator) Error() error {
	return it.err
}

func (it *iterator) Key() []byte {
	if it.cursor < 0 || it.cursor >= len(it.keys) {
		return nil
	}
	return []byte(it.keys[it.cursor])
}

func (it *iterator) Value() []byte {
	if it.cursor < 0 || it.cursor >= len(it.values) {
		return nil
	}
	return it.values[it.cursor]
}

func (it *iterator) Release() {
	it.cursor = 0
	it.keys = nil
	it.values = nil
}