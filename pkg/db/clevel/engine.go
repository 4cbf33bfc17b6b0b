// Package clevel drives the reference C++ LevelDB through its C API. The
// shared library is loaded at runtime with purego, so no cgo toolchain is
// needed to build this package.
package clevel

import (
	"fmt"
	"unsafe"

	"github.com/eigerco/levelbind/pkg/db"
	"github.com/eigerco/levelbind/pkg/log"
)

const (
	Name = "libleveldb"

	compressionNone   = 0
	compressionSnappy = 1
)

type Engine struct{}

// New loads libleveldb from path (see Load) and returns the engine.
func New(path string) (*Engine, error) {
	if err := Load(path); err != nil {
		return nil, err
	}
	return &Engine{}, nil
}

func (*Engine) Name() string {
	return Name
}

func (*Engine) Version() (int, int) {
	return int(leveldbMajorVersion()), int(leveldbMinorVersion())
}

// openOptions is a C options object plus the cache and filter policy it
// references; all three must outlive the database.
type openOptions struct {
	opt    uintptr
	cache  uintptr
	filter uintptr
}

func newOpenOptions(s db.OpenSettings) *openOptions {
	o := &openOptions{opt: leveldbOptionsCreate()}
	if v, ok := s.CreateIfMissing.Get(); ok {
		leveldbOptionsSetCreateIfMissing(o.opt, cbool(v))
	}
	if v, ok := s.ErrorIfExists.Get(); ok {
		leveldbOptionsSetErrorIfExists(o.opt, cbool(v))
	}
	if v, ok := s.ParanoidChecks.Get(); ok {
		leveldbOptionsSetParanoidChecks(o.opt, cbool(v))
	}
	if v, ok := s.WriteBufferSize.Get(); ok {
		leveldbOptionsSetWriteBufferSize(o.opt, uintptr(v))
	}
	if v, ok := s.MaxOpenFiles.Get(); ok {
		leveldbOptionsSetMaxOpenFiles(o.opt, int32(v))
	}
	if v, ok := s.CacheCapacity.Get(); ok {
		o.cache = leveldbCacheCreateLRU(uintptr(v))
		leveldbOptionsSetCache(o.opt, o.cache)
	}
	if v, ok := s.BlockSize.Get(); ok {
		leveldbOptionsSetBlockSize(o.opt, uintptr(v))
	}
	if v, ok := s.UseCompression.Get(); ok {
		c := int32(compressionNone)
		if v {
			c = compressionSnappy
		}
		leveldbOptionsSetCompression(o.opt, c)
	}
	if v, ok := s.BloomFilterBitsPerKey.Get(); ok && v > 0 {
		o.filter = leveldbFilterPolicyCreateBloom(int32(v))
		leveldbOptionsSetFilterPolicy(o.opt, o.filter)
	}
	return o
}

func (o *openOptions) destroy() {
	leveldbOptionsDestroy(o.opt)
	if o.cache != 0 {
		leveldbCacheDestroy(o.cache)
	}
	if o.filter != 0 {
		leveldbFilterPolicyDestroy(o.filter)
	}
}

func (e *Engine) Open(name string, s db.OpenSettings) (db.Store, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if err := db.RequireInitialized(name, s); err != nil {
		return nil, err
	}

	opts := newOpenOptions(s)
	var cerr unsafe.Pointer
	ptr := leveldbOpen(opts.opt, name, unsafe.Pointer(&cerr))
	if err := readErrorAndFree(cerr); err != nil {
		opts.destroy()
		return nil, fmt.Errorf("open %q: %w", name, err)
	}
	log.Engine.Debug().Str("engine", Name).Str("name", name).Msg("opened")
	return &Store{
		ptr:       ptr,
		opts:      opts,
		defaultRO: leveldbReadOptionsCreate(),
		defaultWO: leveldbWriteOptionsCreate(),
	}, nil
}

// Destroy calls leveldb_destroy_db, which refuses a location that is open and
// treats a missing one as already destroyed.
func (e *Engine) Destroy(name string) error {
	opt := leveldbOptionsCreate()
	defer leveldbOptionsDestroy(opt)

	var cerr unsafe.Pointer
	leveldbDestroyDB(opt, name, unsafe.Pointer(&cerr))
	if err := readErrorAndFree(cerr); err != nil {
		return fmt.Errorf("destroy %q: %w", name, err)
	}
	return nil
}

type readOptions struct {
	ptr  uintptr
	snap *snapshot
}

func (ro *readOptions) Destroy() {
	if ro.ptr != 0 {
		leveldbReadOptionsDestroy(ro.ptr)
		ro.ptr = 0
	}
}

type writeOptions struct {
	ptr uintptr
}

func (wo *writeOptions) Destroy() {
	if wo.ptr != 0 {
		leveldbWriteOptionsDestroy(wo.ptr)
		wo.ptr = 0
	}
}

func (e *Engine) NewReadOptions(s db.ReadSettings) (db.ReadOptions, error) {
	ro := &readOptions{}
	if s.Snapshot != nil {
		snap, ok := s.Snapshot.(*snapshot)
		if !ok {
			return nil, db.ErrForeignObject
		}
		ro.snap = snap
	}

	ro.ptr = leveldbReadOptionsCreate()
	if v, ok := s.VerifyChecksums.Get(); ok {
		leveldbReadOptionsSetVerifyChecksums(ro.ptr, cbool(v))
	}
	if v, ok := s.FillCache.Get(); ok {
		leveldbReadOptionsSetFillCache(ro.ptr, cbool(v))
	}
	if ro.snap != nil {
		leveldbReadOptionsSetSnapshot(ro.ptr, ro.snap.ptr)
	}
	return ro, nil
}

func (e *Engine) NewWriteOptions(s db.WriteSettings) (db.WriteOptions, error) {
	wo := &writeOptions{ptr: leveldbWriteOptionsCreate()}
	if v, ok := s.Sync.Get(); ok {
		leveldbWriteOptionsSetSync(wo.ptr, cbool(v))
	}
	return wo, nil
}
