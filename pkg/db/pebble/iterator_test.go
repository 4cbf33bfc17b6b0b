package pebble

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eigerco/levelbind/pkg/db"
)

func TestIterator(t *testing.T) {
	tests := []struct {
		name string
		fn   func(t *testing.T, store db.Store)
	}{
		{
			name: "full_range_iteration",
			fn:   testFullRangeIteration,
		},
		{
			name: "iterator_validity",
			fn:   testIteratorValidity,
		},
		{
			name: "copies_survive_moves",
			fn:   testCopiesSurviveMoves,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store, err := New().Open(filepath.Join(t.TempDir(), "db"), db.OpenSettings{})
			require.NoError(t, err)
			defer store.Close() //nolint:errcheck

			tc.fn(t, store)
		})
	}
}

func testFullRangeIteration(t *testing.T, store db.Store) {
	data := map[string]string{
		"a": "value-a",
		"b": "value-b",
		"c": "value-c",
		"d": "value-d",
	}

	for k, v := range data {
		err := store.Put(nil, []byte(k), []byte(v))
		require.NoError(t, err)
	}

	iter, err := store.NewIterator(nil)
	require.NoError(t, err)
	defer iter.Close() //nolint:errcheck

	count := 0
	for iter.SeekToFirst(); iter.Valid(); iter.Next() {
		expectedValue, exists := data[string(iter.Key())]
		assert.True(t, exists)
		assert.Equal(t, []byte(expectedValue), iter.Value())
		count++
	}
	require.NoError(t, iter.Error())
	assert.Equal(t, len(data), count)
}

func testIteratorValidity(t *testing.T, store db.Store) {
	testData := map[string]string{
		"key1": "value1",
		"key2": "value2",
	}

	for k, v := range testData {
		err := store.Put(nil, []byte(k), []byte(v))
		require.NoError(t, err)
	}

	iter, err := store.NewIterator(nil)
	require.NoError(t, err)
	defer iter.Close() //nolint:errcheck

	// Initial state - iterator is not positioned
	assert.False(t, iter.Valid())

	iter.SeekToFirst()
	assert.True(t, iter.Valid())
	assert.Equal(t, "key1", string(iter.Key()))

	iter.Next()
	assert.True(t, iter.Valid())
	assert.Equal(t, "value2", string(iter.Value()))

	// No more elements
	iter.Next()
	assert.False(t, iter.Valid())
	assert.NoError(t, iter.Error())
}

func testCopiesSurviveMoves(t *testing.T, store db.Store) {
	require.NoError(t, store.Put(nil, []byte("a"), []byte("1")))
	require.NoError(t, store.Put(nil, []byte("b"), []byte("2")))

	iter, err := store.NewIterator(nil)
	require.NoError(t, err)

	iter.SeekToFirst()
	key, value := iter.Key(), iter.Value()
	iter.Next()
	require.NoError(t, iter.Close())

	assert.Equal(t, []byte("a"), key)
	assert.Equal(t, []byte("1"), value)
}
