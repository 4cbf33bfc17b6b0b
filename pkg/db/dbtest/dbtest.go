// Package dbtest holds the behavior every db.Engine driver must share.
package dbtest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eigerco/levelbind/pkg/db"
)

// Run exercises engine against the driver contract. base is the open
// configuration every test starts from; it must create missing locations.
func Run(t *testing.T, engine db.Engine, base db.OpenSettings) {
	tests := []struct {
		name string
		fn   func(t *testing.T, engine db.Engine, store db.Store)
	}{
		{
			name: "basic_put_get",
			fn:   testBasicPutGet,
		},
		{
			name: "empty_value",
			fn:   testEmptyValue,
		},
		{
			name: "delete_operations",
			fn:   testDelete,
		},
		{
			name: "iterator_order",
			fn:   testIteratorOrder,
		},
		{
			name: "iterator_seek",
			fn:   testIteratorSeek,
		},
		{
			name: "iterator_reverse",
			fn:   testIteratorReverse,
		},
		{
			name: "snapshot_isolation",
			fn:   testSnapshotIsolation,
		},
		{
			name: "sync_write",
			fn:   testSyncWrite,
		},
		{
			name: "property",
			fn:   testProperty,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store, err := engine.Open(filepath.Join(t.TempDir(), "db"), base)
			require.NoError(t, err)
			defer store.Close() //nolint:errcheck // closed again by some tests

			tc.fn(t, engine, store)
		})
	}

	lifecycle := []struct {
		name string
		fn   func(t *testing.T, engine db.Engine, base db.OpenSettings)
	}{
		{
			name: "reopen_persists",
			fn:   testReopenPersists,
		},
		{
			name: "create_if_missing_false",
			fn:   testCreateIfMissingFalse,
		},
		{
			name: "error_if_exists",
			fn:   testErrorIfExists,
		},
		{
			name: "destroy",
			fn:   testDestroy,
		},
		{
			name: "destroy_missing_location",
			fn:   testDestroyMissing,
		},
		{
			name: "destroy_keeps_foreign_files",
			fn:   testDestroyKeepsForeignFiles,
		},
		{
			name: "destroy_plain_directory",
			fn:   testDestroyPlainDirectory,
		},
		{
			name: "foreign_snapshot",
			fn:   testForeignSnapshot,
		},
		{
			name: "negative_size_rejected",
			fn:   testNegativeSize,
		},
	}

	for _, tc := range lifecycle {
		t.Run(tc.name, func(t *testing.T) {
			tc.fn(t, engine, base)
		})
	}
}

func testBasicPutGet(t *testing.T, _ db.Engine, store db.Store) {
	key := []byte("test-key")
	value := []byte("test-value")

	require.NoError(t, store.Put(nil, key, value))

	retrieved, err := store.Get(nil, key)
	require.NoError(t, err)
	assert.Equal(t, value, retrieved)

	_, err = store.Get(nil, []byte("non-existent"))
	assert.ErrorIs(t, err, db.ErrNotFound)

	// Overwrite
	require.NoError(t, store.Put(nil, key, []byte("v2")))
	retrieved, err = store.Get(nil, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), retrieved)
}

func testEmptyValue(t *testing.T, _ db.Engine, store db.Store) {
	require.NoError(t, store.Put(nil, []byte("k"), []byte{}))

	retrieved, err := store.Get(nil, []byte("k"))
	require.NoError(t, err)
	assert.NotNil(t, retrieved)
	assert.Empty(t, retrieved)
}

func testDelete(t *testing.T, _ db.Engine, store db.Store) {
	key := []byte("delete-test")

	require.NoError(t, store.Put(nil, key, []byte("to-be-deleted")))
	require.NoError(t, store.Delete(nil, key))

	_, err := store.Get(nil, key)
	assert.ErrorIs(t, err, db.ErrNotFound)

	// Deleting an absent key is not an error
	assert.NoError(t, store.Delete(nil, []byte("non-existent")))
}

func put(t *testing.T, store db.Store, kv ...string) {
	t.Helper()
	for i := 0; i+1 < len(kv); i += 2 {
		require.NoError(t, store.Put(nil, []byte(kv[i]), []byte(kv[i+1])))
	}
}

func collect(t *testing.T, it db.Iterator, forward bool) []string {
	t.Helper()
	var keys []string
	for it.Valid() {
		keys = append(keys, string(it.Key()))
		if forward {
			it.Next()
		} else {
			it.Prev()
		}
	}
	require.NoError(t, it.Error())
	return keys
}

func testIteratorOrder(t *testing.T, _ db.Engine, store db.Store) {
	put(t, store, "c", "3", "a", "1", "b", "2", "d", "4")

	it, err := store.NewIterator(nil)
	require.NoError(t, err)
	defer it.Close() //nolint:errcheck

	assert.False(t, it.Valid(), "fresh iterator must not be positioned")

	it.SeekToFirst()
	require.True(t, it.Valid())
	assert.Equal(t, []byte("1"), it.Value())
	assert.Equal(t, []string{"a", "b", "c", "d"}, collect(t, it, true))
}

func testIteratorSeek(t *testing.T, _ db.Engine, store db.Store) {
	put(t, store, "a", "1", "c", "3", "e", "5")

	it, err := store.NewIterator(nil)
	require.NoError(t, err)
	defer it.Close() //nolint:errcheck

	it.Seek([]byte("b"))
	require.True(t, it.Valid())
	assert.Equal(t, []byte("c"), it.Key())

	it.Seek([]byte("e"))
	require.True(t, it.Valid())
	assert.Equal(t, []byte("e"), it.Key())

	it.Seek([]byte("f"))
	assert.False(t, it.Valid())
}

func testIteratorReverse(t *testing.T, _ db.Engine, store db.Store) {
	put(t, store, "a", "1", "b", "2", "c", "3")

	it, err := store.NewIterator(nil)
	require.NoError(t, err)
	defer it.Close() //nolint:errcheck

	it.SeekToLast()
	require.True(t, it.Valid())
	assert.Equal(t, []string{"c", "b", "a"}, collect(t, it, false))
}

func testSnapshotIsolation(t *testing.T, engine db.Engine, store db.Store) {
	put(t, store, "k", "before", "gone", "x")

	snap, err := store.NewSnapshot()
	require.NoError(t, err)

	put(t, store, "k", "after", "new", "y")
	require.NoError(t, store.Delete(nil, []byte("gone")))

	ro, err := engine.NewReadOptions(db.ReadSettings{Snapshot: snap})
	require.NoError(t, err)
	defer ro.Destroy()

	v, err := store.Get(ro, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("before"), v)

	_, err = store.Get(ro, []byte("new"))
	assert.ErrorIs(t, err, db.ErrNotFound)

	it, err := store.NewIterator(ro)
	require.NoError(t, err)
	it.SeekToFirst()
	assert.Equal(t, []string{"gone", "k"}, collect(t, it, true))
	require.NoError(t, it.Close())

	// Without the snapshot the latest state is visible
	v, err = store.Get(nil, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("after"), v)

	require.NoError(t, store.ReleaseSnapshot(snap))
}

func testSyncWrite(t *testing.T, engine db.Engine, store db.Store) {
	wo, err := engine.NewWriteOptions(db.WriteSettings{Sync: db.Set(true)})
	require.NoError(t, err)
	defer wo.Destroy()

	require.NoError(t, store.Put(wo, []byte("k"), []byte("v")))
	require.NoError(t, store.Delete(wo, []byte("k")))

	ro, err := engine.NewReadOptions(db.ReadSettings{
		VerifyChecksums: db.Set(true),
		FillCache:       db.Set(false),
	})
	require.NoError(t, err)
	defer ro.Destroy()

	_, err = store.Get(ro, []byte("k"))
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func testProperty(t *testing.T, _ db.Engine, store db.Store) {
	put(t, store, "a", "1")

	stats, ok := store.Property("leveldb.stats")
	assert.True(t, ok)
	assert.NotEmpty(t, stats)

	_, ok = store.Property("leveldb.no-such-property")
	assert.False(t, ok)
}

func testReopenPersists(t *testing.T, engine db.Engine, base db.OpenSettings) {
	name := filepath.Join(t.TempDir(), "db")

	store, err := engine.Open(name, base)
	require.NoError(t, err)
	put(t, store, "persist", "yes")
	require.NoError(t, store.Close())

	store, err = engine.Open(name, base)
	require.NoError(t, err)
	defer store.Close() //nolint:errcheck

	v, err := store.Get(nil, []byte("persist"))
	require.NoError(t, err)
	assert.Equal(t, []byte("yes"), v)
}

func testCreateIfMissingFalse(t *testing.T, engine db.Engine, base db.OpenSettings) {
	name := filepath.Join(t.TempDir(), "missing")

	s := base
	s.CreateIfMissing = db.Set(false)
	_, err := engine.Open(name, s)
	require.Error(t, err)

	ok, err := db.Initialized(name)
	require.NoError(t, err)
	assert.False(t, ok)
}

func testErrorIfExists(t *testing.T, engine db.Engine, base db.OpenSettings) {
	name := filepath.Join(t.TempDir(), "db")

	store, err := engine.Open(name, base)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	s := base
	s.ErrorIfExists = db.Set(true)
	_, err = engine.Open(name, s)
	assert.Error(t, err)
}

func testDestroy(t *testing.T, engine db.Engine, base db.OpenSettings) {
	name := filepath.Join(t.TempDir(), "db")

	store, err := engine.Open(name, base)
	require.NoError(t, err)
	put(t, store, "k", "v")
	require.NoError(t, store.Close())

	require.NoError(t, engine.Destroy(name))

	ok, err := db.Initialized(name)
	require.NoError(t, err)
	assert.False(t, ok)

	// A fresh open sees an empty location
	store, err = engine.Open(name, base)
	require.NoError(t, err)
	defer store.Close() //nolint:errcheck

	_, err = store.Get(nil, []byte("k"))
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func testDestroyMissing(t *testing.T, engine db.Engine, _ db.OpenSettings) {
	name := filepath.Join(t.TempDir(), "never-created")

	require.NoError(t, engine.Destroy(name))
	_, err := os.Stat(name)
	assert.True(t, os.IsNotExist(err))
}

func testDestroyKeepsForeignFiles(t *testing.T, engine db.Engine, base db.OpenSettings) {
	name := filepath.Join(t.TempDir(), "db")

	store, err := engine.Open(name, base)
	require.NoError(t, err)
	put(t, store, "k", "v")
	require.NoError(t, store.Close())

	foreign := filepath.Join(name, "notes.txt")
	require.NoError(t, os.WriteFile(foreign, []byte("keep"), 0o600))

	require.NoError(t, engine.Destroy(name))

	_, err = os.Stat(foreign)
	assert.NoError(t, err)

	ok, err := db.Initialized(name)
	require.NoError(t, err)
	assert.False(t, ok)
}

func testDestroyPlainDirectory(t *testing.T, engine db.Engine, _ db.OpenSettings) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "important.doc")
	require.NoError(t, os.WriteFile(doc, []byte("keep"), 0o600))

	require.NoError(t, engine.Destroy(dir))

	_, err := os.Stat(doc)
	assert.NoError(t, err)
}

func testForeignSnapshot(t *testing.T, engine db.Engine, base db.OpenSettings) {
	dir := t.TempDir()

	first, err := engine.Open(filepath.Join(dir, "first"), base)
	require.NoError(t, err)
	defer first.Close() //nolint:errcheck

	second, err := engine.Open(filepath.Join(dir, "second"), base)
	require.NoError(t, err)
	defer second.Close() //nolint:errcheck

	snap, err := first.NewSnapshot()
	require.NoError(t, err)
	defer first.ReleaseSnapshot(snap) //nolint:errcheck

	ro, err := engine.NewReadOptions(db.ReadSettings{Snapshot: snap})
	require.NoError(t, err)
	defer ro.Destroy()

	_, err = second.Get(ro, []byte("k"))
	assert.ErrorIs(t, err, db.ErrForeignObject)

	_, err = second.NewIterator(ro)
	assert.ErrorIs(t, err, db.ErrForeignObject)

	assert.ErrorIs(t, second.ReleaseSnapshot(snap), db.ErrForeignObject)
}

func testNegativeSize(t *testing.T, engine db.Engine, base db.OpenSettings) {
	s := base
	s.WriteBufferSize = db.Set(-1)

	_, err := engine.Open(filepath.Join(t.TempDir(), "db"), s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write_buffer_size")
}
