// Copyright (C) 2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package leveldb provides a durable key-value store backed by goleveldb.
package leveldb

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/ava-labs/banditdb/database"
)

const (
	// Name is the name of this database for database switches
	Name = "leveldb"

	// writeBufferSize bounds the memtable before a flush is forced
	writeBufferSize = 4 * opt.MiB
	handleCap       = 64
)

var (
	_ database.Database = (*Database)(nil)
	_ database.Batch    = (*batch)(nil)
	_ database.Iterator = (*iter)(nil)
)

// Database is a persistent key-value store backed by a leveldb instance on
// disk.
type Database struct {
	db *leveldb.DB
}

// New opens (creating if necessary) the leveldb instance rooted at [file].
func New(file string) (*Database, error) {
	db, err := leveldb.OpenFile(file, &opt.Options{
		WriteBuffer:            writeBufferSize,
		OpenFilesCacheCapacity: handleCap,
	})
	if err != nil {
		return nil, err
	}
	return &Database{db: db}, nil
}

func (db *Database) Has(key []byte) (bool, error) {
	has, err := db.db.Has(key, nil)
	return has, translateError(err)
}

func (db *Database) Get(key []byte) ([]byte, error) {
	value, err := db.db.Get(key, nil)
	return value, translateError(err)
}

func (db *Database) Put(key, value []byte) error {
	return translateError(db.db.Put(key, value, nil))
}

func (db *Database) Delete(key []byte) error {
	return translateError(db.db.Delete(key, nil))
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
	r := util.BytesPrefix(prefix)
	if len(start) > 0 {
		r.Start = start
	}
	return &iter{it: db.db.NewIterator(r, nil)}
}

func (db *Database) Compact(start, limit []byte) error {
	return translateError(db.db.CompactRange(util.Range{Start: start, Limit: limit}))
}

func (db *Database) Close() error {
	return translateError(db.db.Close())
}

func translateError(err error) error {
	switch err {
	case leveldb.ErrNotFound:
		return database.ErrNotFound
	case leveldb.ErrClosed:
		return database.ErrClosed
	default:
		return err
	}
}

type batch struct {
	database.BatchOps

	db *Database
}

func (b *batch) Write() error {
	inner := new(leveldb.Batch)
	for _, op := range b.Ops {
		if op.Delete {
			inner.Delete(op.Key)
		} else {
			inner.Put(op.Key, op.Value)
		}
	}
	return translateError(b.db.db.Write(inner, nil))
}

func (b *batch) Inner() database.Batch {
	return b
}

type iter struct {
	it iterator.Iterator
}

func (it *iter) Next() bool {
	return it.it.Next()
}

func (it *iter) Error() error {
	return translateError(it.it.Error())
}

func (it *iter) Key() []byte {
	return it.it.Key()
}

func (it *iter) Value() []byte {
	return it.it.Value()
}

func (it *iter) Release() {
	it.it.Release()
}
