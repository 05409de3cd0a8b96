// Copyright (C) 2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package leveldb

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/banditdb/database"
)

func newTestDatabase(t *testing.T) *Database {
	db, err := New(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func TestPutGetDelete(t *testing.T) {
	require := require.New(t)
	db := newTestDatabase(t)

	key := []byte("hello")
	value := []byte("world")

	has, err := db.Has(key)
	require.NoError(err)
	require.False(has)

	_, err = db.Get(key)
	require.ErrorIs(err, database.ErrNotFound)

	require.NoError(db.Put(key, value))
	got, err := db.Get(key)
	require.NoError(err)
	require.Equal(value, got)

	require.NoError(db.Delete(key))
	_, err = db.Get(key)
	require.ErrorIs(err, database.ErrNotFound)
}

func TestBatch(t *testing.T) {
	require := require.New(t)
	db := newTestDatabase(t)

	require.NoError(db.Put([]byte("doomed"), []byte("x")))

	b := db.NewBatch()
	require.NoError(b.Put([]byte("a"), []byte("1")))
	require.NoError(b.Put([]byte("b"), []byte("2")))
	require.NoError(b.Delete([]byte("doomed")))

	// Nothing lands until the batch is written.
	_, err := db.Get([]byte("a"))
	require.ErrorIs(err, database.ErrNotFound)

	require.NoError(b.Write())
	got, err := db.Get([]byte("a"))
	require.NoError(err)
	require.Equal([]byte("1"), got)
	_, err = db.Get([]byte("doomed"))
	require.ErrorIs(err, database.ErrNotFound)
}

func TestIteratorPrefix(t *testing.T) {
	require := require.New(t)
	db := newTestDatabase(t)

	require.NoError(db.Put([]byte("a/1"), []byte("1")))
	require.NoError(db.Put([]byte("a/2"), []byte("2")))
	require.NoError(db.Put([]byte("b/1"), []byte("3")))

	it := db.NewIteratorWithPrefix([]byte("a/"))
	defer it.Release()

	var keys []string
	for it.Next() {
		keys = append(keys, string(it.Key()))
	}
	require.NoError(it.Error())
	require.Equal([]string{"a/1", "a/2"}, keys)
}

func TestPersistenceAcrossReopen(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()

	db, err := New(dir)
	require.NoError(err)
	require.NoError(db.Put([]byte("k"), []byte("v")))
	require.NoError(db.Close())

	reopened, err := New(dir)
	require.NoError(err)
	defer func() {
		_ = reopened.Close()
	}()

	got, err := reopened.Get([]byte("k"))
	require.NoError(err)
	require.Equal([]byte("v"), got)
}

func TestClosed(t *testing.T) {
	require := require.New(t)

	db, err := New(t.TempDir())
	require.NoError(err)
	require.NoError(db.Close())

	err = db.Put([]byte("k"), []byte("v"))
	require.ErrorIs(err, database.ErrClosed)
	_, err = db.Get([]byte("k"))
	require.ErrorIs(err, database.ErrClosed)
}
