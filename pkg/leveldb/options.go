package leveldb

import (
	"fmt"
	"runtime"

	"github.com/eigerco/levelbind/internal/handle"
	"github.com/eigerco/levelbind/pkg/db"
)

// ConnectOption sets one open setting. Settings that are not given keep the
// engine's built-in default.
type ConnectOption func(*db.OpenSettings)

func CreateIfMissing(v bool) ConnectOption {
	return func(s *db.OpenSettings) { s.CreateIfMissing = db.Set(v) }
}

func ErrorIfExists(v bool) ConnectOption {
	return func(s *db.OpenSettings) { s.ErrorIfExists = db.Set(v) }
}

func ParanoidChecks(v bool) ConnectOption {
	return func(s *db.OpenSettings) { s.ParanoidChecks = db.Set(v) }
}

func WriteBufferSize(n int) ConnectOption {
	return func(s *db.OpenSettings) { s.WriteBufferSize = db.Set(n) }
}

func MaxOpenFiles(n int) ConnectOption {
	return func(s *db.OpenSettings) { s.MaxOpenFiles = db.Set(n) }
}

// CacheCapacity sizes the block cache in bytes.
func CacheCapacity(n int) ConnectOption {
	return func(s *db.OpenSettings) { s.CacheCapacity = db.Set(n) }
}

func BlockSize(n int) ConnectOption {
	return func(s *db.OpenSettings) { s.BlockSize = db.Set(n) }
}

// UseCompression toggles Snappy block compression.
func UseCompression(v bool) ConnectOption {
	return func(s *db.OpenSettings) { s.UseCompression = db.Set(v) }
}

// BloomFilterBitsPerKey installs a bloom filter policy; zero means none.
func BloomFilterBitsPerKey(n int) ConnectOption {
	return func(s *db.OpenSettings) { s.BloomFilterBitsPerKey = db.Set(n) }
}

type readConfig struct {
	settings db.ReadSettings
	snap     *Snapshot
}

type ReadOption func(*readConfig)

func VerifyChecksums(v bool) ReadOption {
	return func(c *readConfig) { c.settings.VerifyChecksums = db.Set(v) }
}

func FillCache(v bool) ReadOption {
	return func(c *readConfig) { c.settings.FillCache = db.Set(v) }
}

// AtSnapshot pins reads and iterators to s. The options can only be used with
// the database s was taken from, and only until s is released.
func AtSnapshot(s *Snapshot) ReadOption {
	return func(c *readConfig) { c.snap = s }
}

type WriteOption func(*db.WriteSettings)

func Sync(v bool) WriteOption {
	return func(s *db.WriteSettings) { s.Sync = db.Set(v) }
}

// ReadOptions is a reusable read configuration. A nil *ReadOptions passed to
// any read selects the library default.
type ReadOptions struct {
	lib  *Library
	cell *handle.Cell[db.ReadOptions]
	// Keeps the bound snapshot reachable for as long as these options are.
	snap *Snapshot
}

// WriteOptions is a reusable write configuration. A nil *WriteOptions
// selects the library default.
type WriteOptions struct {
	lib  *Library
	cell *handle.Cell[db.WriteOptions]
}

func destroyReadOptions(ro db.ReadOptions) error {
	ro.Destroy()
	return nil
}

func destroyWriteOptions(wo db.WriteOptions) error {
	wo.Destroy()
	return nil
}

func (l *Library) NewReadOptions(opts ...ReadOption) (*ReadOptions, error) {
	var c readConfig
	for _, o := range opts {
		o(&c)
	}

	if c.snap != nil {
		if err := c.snap.check(l); err != nil {
			return nil, err
		}
		es, unlock, err := c.snap.cell.Shared()
		if err != nil {
			return nil, err
		}
		defer unlock()
		c.settings.Snapshot = es
	}

	ero, err := l.engine.NewReadOptions(c.settings)
	if err != nil {
		return nil, fmt.Errorf("create read options: %w", err)
	}
	cell, err := handle.Wrap(l.reg, handle.KindReadOptions, 0, ero, destroyReadOptions)
	if err != nil {
		ero.Destroy()
		return nil, err
	}
	ro := &ReadOptions{lib: l, cell: cell, snap: c.snap}
	runtime.AddCleanup(ro, (*handle.Cell[db.ReadOptions]).Finalize, cell)
	return ro, nil
}

func (l *Library) NewWriteOptions(opts ...WriteOption) (*WriteOptions, error) {
	var s db.WriteSettings
	for _, o := range opts {
		o(&s)
	}

	ewo, err := l.engine.NewWriteOptions(s)
	if err != nil {
		return nil, fmt.Errorf("create write options: %w", err)
	}
	cell, err := handle.Wrap(l.reg, handle.KindWriteOptions, 0, ewo, destroyWriteOptions)
	if err != nil {
		ewo.Destroy()
		return nil, err
	}
	wo := &WriteOptions{lib: l, cell: cell}
	runtime.AddCleanup(wo, (*handle.Cell[db.WriteOptions]).Finalize, cell)
	return wo, nil
}

// Destroy releases the options. It reports whether they were still live.
func (ro *ReadOptions) Destroy(errorIfClosed bool) (bool, error) {
	if ro == nil || ro.lib == nil {
		return false, invalidHandle(handle.KindReadOptions)
	}
	if err := ro.cell.Check(ro.lib.reg, handle.KindReadOptions); err != nil {
		return false, err
	}
	return ro.cell.Release(errorIfClosed)
}

func (wo *WriteOptions) Destroy(errorIfClosed bool) (bool, error) {
	if wo == nil || wo.lib == nil {
		return false, invalidHandle(handle.KindWriteOptions)
	}
	if err := wo.cell.Check(wo.lib.reg, handle.KindWriteOptions); err != nil {
		return false, err
	}
	return wo.cell.Release(errorIfClosed)
}

// readOptions resolves ro for a read on d, which the caller holds shared.
// nil selects the library default. The returned unlock must be called once
// the engine call is done.
func (l *Library) readOptions(d *DB, ro *ReadOptions) (db.ReadOptions, func(), error) {
	if ro == nil {
		return l.defaultRO, func() {}, nil
	}
	if err := ro.cell.Check(l.reg, handle.KindReadOptions); err != nil {
		return nil, nil, err
	}
	ero, unlock, err := ro.cell.Shared()
	if err != nil {
		return nil, nil, err
	}
	if ro.snap == nil {
		return ero, unlock, nil
	}
	if ro.snap.dbID != d.cell.ID() {
		unlock()
		return nil, nil, fmt.Errorf("%w: read options are bound to a snapshot of another database", ErrInvalidHandleKind)
	}
	_, sunlock, err := ro.snap.cell.Shared()
	if err != nil {
		unlock()
		return nil, nil, fmt.Errorf("read options snapshot: %w", err)
	}
	return ero, func() {
		sunlock()
		unlock()
	}, nil
}

func (l *Library) writeOptions(wo *WriteOptions) (db.WriteOptions, func(), error) {
	if wo == nil {
		return l.defaultWO, func() {}, nil
	}
	if err := wo.cell.Check(l.reg, handle.KindWriteOptions); err != nil {
		return nil, nil, err
	}
	return wo.cell.Shared()
}
