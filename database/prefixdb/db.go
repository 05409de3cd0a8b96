// Copyright (C) 2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package prefixdb partitions a database into sub-databases by prefixing all
// keys with a unique value.
package prefixdb

import (
	"slices"
	"sync"

	"github.com/ava-labs/banditdb/database"
)

var (
	_ database.Database = (*Database)(nil)
	_ database.Batch    = (*batch)(nil)
	_ database.Iterator = (*iterator)(nil)
)

// Database prefixes all keys with a byte slice before delegating to an
// underlying database.
type Database struct {
	// All keys in this db begin with this byte slice
	dbPrefix []byte

	// lock needs to be held during Close to guarantee db will not be closed
	// concurrently with another operation. All other operations can hold
	// RLock.
	lock   sync.RWMutex
	db     database.Database
	closed bool
}

// New returns a new prefixed database
func New(prefix []byte, db database.Database) *Database {
	if prefixDB, ok := db.(*Database); ok {
		return &Database{
			dbPrefix: JoinPrefixes(prefixDB.dbPrefix, prefix),
			db:       prefixDB.db,
		}
	}
	return &Database{
		dbPrefix: slices.Clone(prefix),
		db:       db,
	}
}

func JoinPrefixes(firstPrefix, secondPrefix []byte) []byte {
	joined := make([]byte, 0, len(firstPrefix)+len(secondPrefix))
	joined = append(joined, firstPrefix...)
	return append(joined, secondPrefix...)
}

// prefix returns the key prefixed with this database's prefix
func (db *Database) prefix(key []byte) []byte {
	prefixed := make([]byte, 0, len(db.dbPrefix)+len(key))
	prefixed = append(prefixed, db.dbPrefix...)
	return append(prefixed, key...)
}

func (db *Database) Has(key []byte) (bool, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return false, database.ErrClosed
	}
	return db.db.Has(db.prefix(key))
}

func (db *Database) Get(key []byte) ([]byte, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return nil, database.ErrClosed
	}
	return db.db.Get(db.prefix(key))
}

func (db *Database) Put(key, value []byte) error {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return database.ErrClosed
	}
	return db.db.Put(db.prefix(key), value)
}

func (db *Database) Delete(key []byte) error {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return database.ErrClosed
	}
	return db.db.Delete(db.prefix(key))
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

func (db *Database) NewIteratorWithStartAndPrefix(start, prefix []byte) database.Iterator {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return &database.IteratorError{
			Err: database.ErrClosed,
		}
	}

	var prefixedStart []byte
	if len(start) > 0 {
		prefixedStart = db.prefix(start)
	}
	return &iterator{
		Iterator:  db.db.NewIteratorWithStartAndPrefix(prefixedStart, db.prefix(prefix)),
		prefixLen: len(db.dbPrefix),
	}
}

func (db *Database) Compact(start, limit []byte) error {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return database.ErrClosed
	}

	prefixedLimit := db.prefix(limit)
	if limit == nil {
		// Lexically one greater than the prefix, covering this database's
		// whole key range.
		prefixedLimit = incrementByteSlice(db.dbPrefix)
	}
	return db.db.Compact(db.prefix(start), prefixedLimit)
}

func incrementByteSlice(orig []byte) []byte {
	buf := slices.Clone(orig)
	for i := len(buf) - 1; i >= 0; i-- {
		buf[i]++
		if buf[i] != 0 {
			break
		}
	}
	return buf
}

// Close flags this database as unusable; the underlying database is left
// open, as it may back other prefixes.
func (db *Database) Close() error {
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.closed {
		return database.ErrClosed
	}
	db.closed = true
	return nil
}

type batch struct {
	database.BatchOps

	db *Database
}

func (b *batch) Write() error {
	b.db.lock.RLock()
	defer b.db.lock.RUnlock()

	if b.db.closed {
		return database.ErrClosed
	}

	inner := b.db.db.NewBatch()
	for _, op := range b.Ops {
		if op.Delete {
			if err := inner.Delete(b.db.prefix(op.Key)); err != nil {
				return err
			}
		} else if err := inner.Put(b.db.prefix(op.Key), op.Value); err != nil {
			return err
		}
	}
	return inner.Write()
}

func (b *batch) Inner() database.Batch {
	return b
}

// iterator strips this database's prefix from the keys the underlying
// iterator returns.
type iterator struct {
	database.Iterator
	prefixLen int
}

func (it *iterator) Key() []byte {
	key := it.Iterator.Key()
	if len(key) >= it.prefixLen {
		return key[it.prefixLen:]
	}
	return key
}
