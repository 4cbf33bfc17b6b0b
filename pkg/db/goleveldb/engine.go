// Package goleveldb drives github.com/syndtr/goleveldb, a pure Go port of
// LevelDB. It is the default engine.
package goleveldb

import (
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/eigerco/levelbind/pkg/db"
)

const (
	Name = "goleveldb"

	versionMajor = 1
	versionMinor = 0
)

type Engine struct{}

func New() *Engine {
	return &Engine{}
}

func (*Engine) Name() string {
	return Name
}

func (*Engine) Version() (int, int) {
	return versionMajor, versionMinor
}

func (e *Engine) Open(name string, s db.OpenSettings) (db.Store, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if err := db.RequireInitialized(name, s); err != nil {
		return nil, err
	}
	ldb, err := leveldb.OpenFile(name, openOptions(s))
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", name, err)
	}
	return newStore(ldb), nil
}

func openOptions(s db.OpenSettings) *opt.Options {
	o := &opt.Options{}
	if v, ok := s.CreateIfMissing.Get(); ok {
		o.ErrorIfMissing = !v
	}
	if v, ok := s.ErrorIfExists.Get(); ok {
		o.ErrorIfExist = v
	}
	if v, ok := s.ParanoidChecks.Get(); ok && v {
		o.Strict = opt.StrictAll
	}
	if v, ok := s.WriteBufferSize.Get(); ok {
		o.WriteBuffer = v
	}
	if v, ok := s.MaxOpenFiles.Get(); ok {
		o.OpenFilesCacheCapacity = v
	}
	if v, ok := s.CacheCapacity.Get(); ok {
		o.BlockCacheCapacity = v
	}
	if v, ok := s.BlockSize.Get(); ok {
		o.BlockSize = v
	}
	if v, ok := s.UseCompression.Get(); ok {
		if v {
			o.Compression = opt.SnappyCompression
		} else {
			o.Compression = opt.NoCompression
		}
	}
	if v, ok := s.BloomFilterBitsPerKey.Get(); ok && v > 0 {
		o.Filter = filter.NewBloomFilter(v)
	}
	return o
}

type readOptions struct {
	ro   *opt.ReadOptions
	snap *snapshot
}

func (*readOptions) Destroy() {}

type writeOptions struct {
	wo *opt.WriteOptions
}

func (*writeOptions) Destroy() {}

func (e *Engine) NewReadOptions(s db.ReadSettings) (db.ReadOptions, error) {
	ro := &readOptions{ro: &opt.ReadOptions{}}
	if v, ok := s.VerifyChecksums.Get(); ok && v {
		ro.ro.Strict = opt.StrictBlockChecksum
	}
	if v, ok := s.FillCache.Get(); ok {
		ro.ro.DontFillCache = !v
	}
	if s.Snapshot != nil {
		snap, ok := s.Snapshot.(*snapshot)
		if !ok {
			return nil, db.ErrForeignObject
		}
		ro.snap = snap
	}
	return ro, nil
}

func (e *Engine) NewWriteOptions(s db.WriteSettings) (db.WriteOptions, error) {
	wo := &writeOptions{wo: &opt.WriteOptions{}}
	if v, ok := s.Sync.Get(); ok {
		wo.wo.Sync = v
	}
	return wo, nil
}
