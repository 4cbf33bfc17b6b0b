package db

import (
	"fmt"
	"math"
)

// Setting is an engine setting that may be left unset, in which case the
// engine keeps its built-in default.
type Setting[T any] struct {
	value T
	set   bool
}

// Set returns a setting holding v.
func Set[T any](v T) Setting[T] {
	return Setting[T]{value: v, set: true}
}

// Get returns the value and whether it was set.
func (s Setting[T]) Get() (T, bool) {
	return s.value, s.set
}

func (s Setting[T]) IsSet() bool {
	return s.set
}

// OpenSettings configures Engine.Open.
type OpenSettings struct {
	CreateIfMissing       Setting[bool]
	ErrorIfExists         Setting[bool]
	ParanoidChecks        Setting[bool]
	WriteBufferSize       Setting[int]
	MaxOpenFiles          Setting[int]
	CacheCapacity         Setting[int]
	BlockSize             Setting[int]
	UseCompression        Setting[bool]
	BloomFilterBitsPerKey Setting[int]
}

// Validate rejects negative sizes and counts, and counts that do not fit the
// C int of the LevelDB options API.
func (s OpenSettings) Validate() error {
	sizes := []struct {
		name    string
		setting Setting[int]
	}{
		{"write_buffer_size", s.WriteBufferSize},
		{"max_open_files", s.MaxOpenFiles},
		{"cache_capacity", s.CacheCapacity},
		{"block_size", s.BlockSize},
		{"bloom_filter_bits_per_key", s.BloomFilterBitsPerKey},
	}
	for _, sz := range sizes {
		if v, ok := sz.setting.Get(); ok && v < 0 {
			return fmt.Errorf("%s: expected a non-negative size, got %d", sz.name, v)
		}
	}
	counts := []struct {
		name    string
		setting Setting[int]
	}{
		{"max_open_files", s.MaxOpenFiles},
		{"bloom_filter_bits_per_key", s.BloomFilterBitsPerKey},
	}
	for _, c := range counts {
		if v, ok := c.setting.Get(); ok && int64(v) > math.MaxInt32 {
			return fmt.Errorf("%s: expected at most %d, got %d", c.name, math.MaxInt32, v)
		}
	}
	return nil
}

// ReadSettings configures Engine.NewReadOptions.
type ReadSettings struct {
	VerifyChecksums Setting[bool]
	FillCache       Setting[bool]
	// Snapshot, if not nil, pins reads to that view.
	Snapshot Snapshot
}

// WriteSettings configures Engine.NewWriteOptions.
type WriteSettings struct {
	Sync Setting[bool]
}
