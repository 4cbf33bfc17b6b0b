package leveldb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIterator(t *testing.T) {
	forEngine(t, []struct {
		name string
		fn   func(t *testing.T, lib *Library, d *DB)
	}{
		{name: "unpositioned", fn: testIteratorUnpositioned},
		{name: "seek", fn: testIteratorSeek},
		{name: "walk_off_both_ends", fn: testIteratorWalkOffEnds},
		{name: "values", fn: testIteratorValues},
		{name: "empty_database", fn: testIteratorEmpty},
		{name: "destroy_policy", fn: testIteratorDestroyPolicy},
	})
}

func seed(t *testing.T, d *DB, kv ...string) {
	t.Helper()
	for i := 0; i+1 < len(kv); i += 2 {
		require.NoError(t, d.Put(kv[i], kv[i+1], nil))
	}
}

func testIteratorUnpositioned(t *testing.T, _ *Library, d *DB) {
	seed(t, d, "a", "1")

	it, err := d.NewIterator(nil)
	require.NoError(t, err)
	assert.False(t, it.Valid())

	k, err := it.Key(false, false)
	require.NoError(t, err)
	assert.True(t, k.IsAbsent())

	_, err = it.Value(false, true)
	assert.ErrorIs(t, err, ErrIteratorInvalid)

	// Moving an unpositioned iterator is a no-op
	require.NoError(t, it.Next())
	require.NoError(t, it.Prev())
	assert.False(t, it.Valid())
}

func testIteratorSeek(t *testing.T, _ *Library, d *DB) {
	seed(t, d, "b", "2", "d", "4", "f", "6")

	it, err := d.NewIterator(nil)
	require.NoError(t, err)

	tests := []struct {
		seek  any
		want  string
		valid bool
	}{
		{seek: "a", want: "b", valid: true},
		{seek: "d", want: "d", valid: true},
		{seek: []byte("e"), want: "f", valid: true},
		{seek: "g", valid: false},
	}
	for _, tc := range tests {
		require.NoError(t, it.Seek(tc.seek))
		require.Equal(t, tc.valid, it.Valid(), "seek %v", tc.seek)
		if !tc.valid {
			continue
		}
		k, err := it.Key(false, true)
		require.NoError(t, err)
		assert.Equal(t, tc.want, k.String())
	}

	var argErr *ArgumentTypeError
	assert.ErrorAs(t, it.Seek(1), &argErr)
}

func testIteratorWalkOffEnds(t *testing.T, _ *Library, d *DB) {
	seed(t, d, "a", "1", "b", "2")

	it, err := d.NewIterator(nil)
	require.NoError(t, err)

	require.NoError(t, it.SeekToLast())
	require.NoError(t, it.Next())
	assert.False(t, it.Valid())
	// Stays invalid until repositioned
	require.NoError(t, it.Prev())
	assert.False(t, it.Valid())

	require.NoError(t, it.SeekToFirst())
	require.NoError(t, it.Prev())
	assert.False(t, it.Valid())

	require.NoError(t, it.SeekToFirst())
	assert.True(t, it.Valid())
}

func testIteratorValues(t *testing.T, _ *Library, d *DB) {
	require.NoError(t, d.Put("text", "plain", nil))
	require.NoError(t, d.Put("zraw", []byte{0, 0xff}, nil))

	it, err := d.NewIterator(nil)
	require.NoError(t, err)
	require.NoError(t, it.SeekToFirst())

	v, err := it.Value(false, true)
	require.NoError(t, err)
	assert.Equal(t, Text, v.Kind())
	assert.Equal(t, "plain", v.String())

	v, err = it.Value(true, true)
	require.NoError(t, err)
	assert.Equal(t, Raw, v.Kind())

	require.NoError(t, it.Next())
	v, err = it.Value(false, true)
	require.NoError(t, err)
	assert.Equal(t, Raw, v.Kind())
	assert.Equal(t, []byte{0, 0xff}, v.Bytes())

	k, err := it.Key(true, true)
	require.NoError(t, err)
	assert.Equal(t, []byte("zraw"), k.Interface())
}

func testIteratorEmpty(t *testing.T, _ *Library, d *DB) {
	it, err := d.NewIterator(nil)
	require.NoError(t, err)

	require.NoError(t, it.SeekToFirst())
	assert.False(t, it.Valid())
	require.NoError(t, it.SeekToLast())
	assert.False(t, it.Valid())

	keys, err := d.Keys(false, nil)
	require.NoError(t, err)
	assert.Empty(t, keys)

	n, err := d.KeysLen(nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func testIteratorDestroyPolicy(t *testing.T, _ *Library, d *DB) {
	it, err := d.NewIterator(nil)
	require.NoError(t, err)

	wasOpen, err := it.Destroy(true)
	require.NoError(t, err)
	assert.True(t, wasOpen)

	wasOpen, err = it.Destroy(false)
	require.NoError(t, err)
	assert.False(t, wasOpen)

	_, err = it.Destroy(true)
	assert.ErrorIs(t, err, ErrHandleClosed)

	assert.ErrorIs(t, it.SeekToFirst(), ErrHandleClosed)
	assert.False(t, it.Valid())

	// The database is unaffected
	require.NoError(t, d.Put("a", "1", nil))
}
