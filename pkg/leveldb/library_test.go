package leveldb

import (
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eigerco/levelbind/internal/handle"
)

func TestLibrary(t *testing.T) {
	tests := []struct {
		name string
		fn   func(t *testing.T, lib *Library)
	}{
		{name: "create_if_missing", fn: testCreateIfMissing},
		{name: "error_if_exists", fn: testErrorIfExists},
		{name: "invalid_connect_options", fn: testInvalidConnectOptions},
		{name: "reopen_persists", fn: testReopenPersists},
		{name: "destroy", fn: testDestroy},
		{name: "destroy_keeps_foreign_files", fn: testDestroyKeepsForeignFiles},
		{name: "close_releases_everything", fn: testLibraryClose},
	}

	for _, e := range engines {
		t.Run(e.name, func(t *testing.T) {
			for _, tc := range tests {
				t.Run(tc.name, func(t *testing.T) {
					tc.fn(t, newLibrary(t, e.new()))
				})
			}
		})
	}
}

func testCreateIfMissing(t *testing.T, lib *Library) {
	name := filepath.Join(t.TempDir(), "db")

	_, err := lib.Connect(name, CreateIfMissing(false))
	var openErr *OpenError
	require.ErrorAs(t, err, &openErr)
	assert.Equal(t, name, openErr.Name)
	assert.Zero(t, lib.live(handle.KindDB))

	d, err := lib.Connect(name, CreateIfMissing(true))
	require.NoError(t, err)
	assert.Equal(t, name, d.Name())
	_, err = d.Close(true)
	require.NoError(t, err)
}

func testErrorIfExists(t *testing.T, lib *Library) {
	name := filepath.Join(t.TempDir(), "db")
	d, err := lib.Connect(name, CreateIfMissing(true))
	require.NoError(t, err)
	_, err = d.Close(true)
	require.NoError(t, err)

	_, err = lib.Connect(name, ErrorIfExists(true))
	var openErr *OpenError
	assert.ErrorAs(t, err, &openErr)
}

func testInvalidConnectOptions(t *testing.T, lib *Library) {
	name := filepath.Join(t.TempDir(), "db")

	tests := []struct {
		name string
		opt  ConnectOption
	}{
		{name: "write_buffer_size", opt: WriteBufferSize(-1)},
		{name: "max_open_files", opt: MaxOpenFiles(-1)},
		{name: "cache_capacity", opt: CacheCapacity(-1)},
		{name: "block_size", opt: BlockSize(-1)},
		{name: "bloom_bits", opt: BloomFilterBitsPerKey(-1)},
	}
	if strconv.IntSize == 64 {
		limit := int64(math.MaxInt32)
		tests = append(tests, []struct {
			name string
			opt  ConnectOption
		}{
			{name: "max_open_files_beyond_c_int", opt: MaxOpenFiles(int(limit + 1))},
			{name: "bloom_bits_beyond_c_int", opt: BloomFilterBitsPerKey(int(limit << 1))},
		}...)
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := lib.Connect(name, CreateIfMissing(true), tc.opt)
			var argErr *ArgumentTypeError
			assert.ErrorAs(t, err, &argErr)
		})
	}

	_, err := os.Stat(name)
	assert.True(t, os.IsNotExist(err), "nothing is created for rejected options")
}

func testReopenPersists(t *testing.T, lib *Library) {
	name := filepath.Join(t.TempDir(), "db")
	d, err := lib.Connect(name,
		CreateIfMissing(true),
		ParanoidChecks(true),
		WriteBufferSize(1<<20),
		MaxOpenFiles(64),
		CacheCapacity(1<<20),
		BlockSize(4096),
		UseCompression(false),
		BloomFilterBitsPerKey(10),
	)
	require.NoError(t, err)
	require.NoError(t, d.Put("a", "1", nil))
	_, err = d.Close(true)
	require.NoError(t, err)

	d, err = lib.Connect(name)
	require.NoError(t, err)
	v, err := d.Get("a", false, true, nil)
	require.NoError(t, err)
	assert.Equal(t, "1", v.String())
	_, err = d.Close(true)
	require.NoError(t, err)
}

func testDestroy(t *testing.T, lib *Library) {
	name := filepath.Join(t.TempDir(), "db")
	d, err := lib.Connect(name, CreateIfMissing(true))
	require.NoError(t, err)
	require.NoError(t, d.Put("a", "1", nil))

	err = lib.Destroy(name)
	var destroyErr *DestroyError
	require.ErrorAs(t, err, &destroyErr)
	assert.ErrorIs(t, err, errLocationOpen)

	_, err = d.Close(true)
	require.NoError(t, err)
	require.NoError(t, lib.Destroy(name))

	_, err = lib.Connect(name, CreateIfMissing(false))
	var openErr *OpenError
	assert.ErrorAs(t, err, &openErr)

	assert.NoError(t, lib.Destroy(filepath.Join(t.TempDir(), "missing")))
}

func testDestroyKeepsForeignFiles(t *testing.T, lib *Library) {
	name := filepath.Join(t.TempDir(), "db")
	d, err := lib.Connect(name, CreateIfMissing(true))
	require.NoError(t, err)
	require.NoError(t, d.Put("a", "1", nil))
	_, err = d.Close(true)
	require.NoError(t, err)

	notes := filepath.Join(name, "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("keep"), 0o600))
	require.NoError(t, lib.Destroy(name))
	_, err = os.Stat(notes)
	assert.NoError(t, err)

	plain := t.TempDir()
	doc := filepath.Join(plain, "important.doc")
	require.NoError(t, os.WriteFile(doc, []byte("keep"), 0o600))
	require.NoError(t, lib.Destroy(plain))
	_, err = os.Stat(doc)
	assert.NoError(t, err)
}

func testLibraryClose(t *testing.T, lib *Library) {
	d := connect(t, lib)
	it, err := d.NewIterator(nil)
	require.NoError(t, err)
	snap, err := d.NewSnapshot()
	require.NoError(t, err)
	ro, err := lib.NewReadOptions(AtSnapshot(snap))
	require.NoError(t, err)
	wo, err := lib.NewWriteOptions()
	require.NoError(t, err)

	require.NoError(t, lib.Close())
	require.NoError(t, lib.Close())

	for _, kind := range []handle.Kind{
		handle.KindDB, handle.KindIterator, handle.KindSnapshot,
		handle.KindReadOptions, handle.KindWriteOptions,
	} {
		assert.Zero(t, lib.live(kind), kind.String())
	}

	assert.ErrorIs(t, d.Put("a", "1", nil), ErrHandleClosed)
	assert.ErrorIs(t, it.SeekToFirst(), ErrHandleClosed)
	_, err = snap.Release(true)
	assert.ErrorIs(t, err, ErrHandleClosed)
	_, err = ro.Destroy(true)
	assert.ErrorIs(t, err, ErrHandleClosed)
	wasOpen, err := wo.Destroy(false)
	require.NoError(t, err)
	assert.False(t, wasOpen)

	_, err = lib.Connect(filepath.Join(t.TempDir(), "db"), CreateIfMissing(true))
	assert.ErrorIs(t, err, ErrHandleClosed)
}

func TestCleanup(t *testing.T) {
	tests := []struct {
		name string
		kind handle.Kind
		drop func(t *testing.T, lib *Library, d *DB)
	}{
		{
			name: "database",
			kind: handle.KindDB,
			drop: func(t *testing.T, lib *Library, _ *DB) {
				_ = connect(t, lib)
			},
		},
		{
			name: "iterator",
			kind: handle.KindIterator,
			drop: func(t *testing.T, _ *Library, d *DB) {
				it, err := d.NewIterator(nil)
				require.NoError(t, err)
				require.NoError(t, it.SeekToFirst())
			},
		},
		{
			name: "snapshot",
			kind: handle.KindSnapshot,
			drop: func(t *testing.T, _ *Library, d *DB) {
				_, err := d.NewSnapshot()
				require.NoError(t, err)
			},
		},
		{
			name: "read_options_with_snapshot",
			kind: handle.KindSnapshot,
			drop: func(t *testing.T, lib *Library, d *DB) {
				snap, err := d.NewSnapshot()
				require.NoError(t, err)
				_, err = lib.NewReadOptions(AtSnapshot(snap))
				require.NoError(t, err)
			},
		},
		{
			name: "write_options",
			kind: handle.KindWriteOptions,
			drop: func(t *testing.T, lib *Library, _ *DB) {
				_, err := lib.NewWriteOptions(Sync(true))
				require.NoError(t, err)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lib := newLibrary(t, engines[0].new())
			d := connect(t, lib)
			before := lib.live(tc.kind)

			tc.drop(t, lib, d)
			require.Equal(t, before+1, lib.live(tc.kind))

			require.Eventually(t, func() bool {
				runtime.GC()
				return lib.live(tc.kind) == before
			}, 5*time.Second, 10*time.Millisecond)

			// The database held by the test is untouched
			require.NoError(t, d.Put("a", "1", nil))
			runtime.KeepAlive(d)
		})
	}
}
