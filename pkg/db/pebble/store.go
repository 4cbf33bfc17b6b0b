// Package pebble drives github.com/cockroachdb/pebble through the db engine
// boundary.
package pebble

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/bloom"

	"github.com/eigerco/levelbind/pkg/db"
	"github.com/eigerco/levelbind/pkg/log"
)

const (
	Name = "pebble"

	versionMajor = 1
	versionMinor = 1

	numFilesAtLevel = "leveldb.num-files-at-level"
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

	opts := &pebble.Options{
		Logger: engineLogger{},
	}
	if v, ok := s.CreateIfMissing.Get(); ok {
		opts.ErrorIfNotExists = !v
	}
	if v, ok := s.ErrorIfExists.Get(); ok {
		opts.ErrorIfExists = v
	}
	if _, ok := s.ParanoidChecks.Get(); ok {
		log.Engine.Debug().Str("engine", Name).Msg("paranoid_checks has no pebble equivalent; ignored")
	}
	if v, ok := s.WriteBufferSize.Get(); ok {
		opts.MemTableSize = uint64(v)
	}
	if v, ok := s.MaxOpenFiles.Get(); ok {
		opts.MaxOpenFiles = v
	}
	if v, ok := s.CacheCapacity.Get(); ok {
		cache := pebble.NewCache(int64(v))
		defer cache.Unref()
		opts.Cache = cache
	}
	if level, ok := levelOptions(s); ok {
		opts.Levels = []pebble.LevelOptions{level}
	}

	pdb, err := pebble.Open(name, opts)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", name, err)
	}
	return &Store{db: pdb}, nil
}

func levelOptions(s db.OpenSettings) (pebble.LevelOptions, bool) {
	var (
		level pebble.LevelOptions
		set   bool
	)
	if v, ok := s.BlockSize.Get(); ok {
		level.BlockSize = v
		set = true
	}
	if v, ok := s.UseCompression.Get(); ok {
		level.Compression = pebble.NoCompression
		if v {
			level.Compression = pebble.SnappyCompression
		}
		set = true
	}
	if v, ok := s.BloomFilterBitsPerKey.Get(); ok && v > 0 {
		level.FilterPolicy = bloom.FilterPolicy(v)
		set = true
	}
	return level, set
}

type readOptions struct {
	snap *snapshot
}

func (*readOptions) Destroy() {}

type writeOptions struct {
	wo *pebble.WriteOptions
}

func (*writeOptions) Destroy() {}

// NewReadOptions binds the snapshot, if any. Pebble always verifies block
// checksums and has no per-read cache bypass, so those settings are ignored.
func (e *Engine) NewReadOptions(s db.ReadSettings) (db.ReadOptions, error) {
	ro := &readOptions{}
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
	wo := &writeOptions{}
	if v, ok := s.Sync.Get(); ok {
		wo.wo = pebble.NoSync
		if v {
			wo.wo = pebble.Sync
		}
	}
	return wo, nil
}

type Store struct {
	db     *pebble.DB
	closed bool
	mu     sync.RWMutex
}

type snapshot struct {
	snap  *pebble.Snapshot
	owner *Store
}

func (p *Store) snapshotFor(r db.ReadOptions) (*pebble.Snapshot, error) {
	if r == nil {
		return nil, nil
	}
	ro, ok := r.(*readOptions)
	if !ok {
		return nil, db.ErrForeignObject
	}
	if ro.snap == nil {
		return nil, nil
	}
	if ro.snap.owner != p {
		return nil, db.ErrForeignObject
	}
	return ro.snap.snap, nil
}

func writeOpts(w db.WriteOptions) (*pebble.WriteOptions, error) {
	if w == nil {
		return nil, nil
	}
	wo, ok := w.(*writeOptions)
	if !ok {
		return nil, db.ErrForeignObject
	}
	return wo.wo, nil
}

func (p *Store) Get(r db.ReadOptions, key []byte) ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return nil, ErrClosed
	}
	snap, err := p.snapshotFor(r)
	if err != nil {
		return nil, err
	}

	var reader pebble.Reader = p.db
	if snap != nil {
		reader = snap
	}
	value, closer, err := reader.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	result := make([]byte, len(value))
	copy(result, value)
	return result, nil
}

func (p *Store) Put(w db.WriteOptions, key, value []byte) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrClosed
	}
	wo, err := writeOpts(w)
	if err != nil {
		return err
	}
	return p.db.Set(key, value, wo)
}

func (p *Store) Delete(w db.WriteOptions, key []byte) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrClosed
	}
	wo, err := writeOpts(w)
	if err != nil {
		return err
	}
	return p.db.Delete(key, wo)
}

func (p *Store) NewSnapshot() (db.Snapshot, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return nil, ErrClosed
	}
	return &snapshot{snap: p.db.NewSnapshot(), owner: p}, nil
}

func (p *Store) ReleaseSnapshot(v db.Snapshot) error {
	snap, ok := v.(*snapshot)
	if !ok || snap.owner != p {
		return db.ErrForeignObject
	}
	return snap.snap.Close()
}

func (p *Store) Property(name string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return "", false
	}
	m := p.db.Metrics()
	switch {
	case name == "leveldb.stats" || name == "pebble.metrics":
		return m.String(), true
	case name == "leveldb.approximate-memory-usage":
		return strconv.FormatUint(m.MemTable.Size+uint64(m.BlockCache.Size), 10), true
	case strings.HasPrefix(name, numFilesAtLevel):
		level, err := strconv.Atoi(strings.TrimPrefix(name, numFilesAtLevel))
		if err != nil || level < 0 || level >= len(m.Levels) {
			return "", false
		}
		return strconv.FormatInt(m.Levels[level].NumFiles, 10), true
	default:
		return "", false
	}
}

func (p *Store) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	return p.db.Close()
}

// engineLogger routes pebble's own logging into log.Engine.
type engineLogger struct{}

func (engineLogger) Infof(format string, args ...interface{}) {
	log.Engine.Info().Str("engine", Name).Msgf(format, args...)
}

func (engineLogger) Errorf(format string, args ...interface{}) {
	log.Engine.Error().Str("engine", Name).Msgf(format, args...)
}

func (engineLogger) Fatalf(format string, args ...interface{}) {
	log.Engine.Error().Str("engine", Name).Msgf(format, args...)
	panic(fmt.Sprintf(format, args...))
}
