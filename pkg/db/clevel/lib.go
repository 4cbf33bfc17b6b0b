package clevel

import (
	"errors"
	"sync"
	"unsafe"
)

var ErrUnavailable = errors.New("clevel: libleveldb is not available")

// Functions of the LevelDB C API (include/leveldb/c.h). Opaque C objects are
// passed as uintptr, buffers as unsafe.Pointer plus a size_t length.
var (
	leveldbOpen            func(options uintptr, name string, errptr unsafe.Pointer) uintptr
	leveldbClose           func(db uintptr)
	leveldbPut             func(db, wo uintptr, key unsafe.Pointer, keylen uintptr, val unsafe.Pointer, vallen uintptr, errptr unsafe.Pointer)
	leveldbDelete          func(db, wo uintptr, key unsafe.Pointer, keylen uintptr, errptr unsafe.Pointer)
	leveldbGet             func(db, ro uintptr, key unsafe.Pointer, keylen uintptr, vallen unsafe.Pointer, errptr unsafe.Pointer) unsafe.Pointer
	leveldbCreateIterator  func(db, ro uintptr) uintptr
	leveldbCreateSnapshot  func(db uintptr) uintptr
	leveldbReleaseSnapshot func(db, snapshot uintptr)
	leveldbPropertyValue   func(db uintptr, name string) unsafe.Pointer
	leveldbDestroyDB       func(options uintptr, name string, errptr unsafe.Pointer)
	leveldbFree            func(ptr unsafe.Pointer)
	leveldbMajorVersion    func() int32
	leveldbMinorVersion    func() int32

	leveldbIterDestroy     func(it uintptr)
	leveldbIterValid       func(it uintptr) uint8
	leveldbIterSeekToFirst func(it uintptr)
	leveldbIterSeekToLast  func(it uintptr)
	leveldbIterSeek        func(it uintptr, key unsafe.Pointer, keylen uintptr)
	leveldbIterNext        func(it uintptr)
	leveldbIterPrev        func(it uintptr)
	leveldbIterKey         func(it uintptr, keylen unsafe.Pointer) unsafe.Pointer
	leveldbIterValue       func(it uintptr, vallen unsafe.Pointer) unsafe.Pointer
	leveldbIterGetError    func(it uintptr, errptr unsafe.Pointer)

	leveldbOptionsCreate             func() uintptr
	leveldbOptionsDestroy            func(opt uintptr)
	leveldbOptionsSetCreateIfMissing func(opt uintptr, v uint8)
	leveldbOptionsSetErrorIfExists   func(opt uintptr, v uint8)
	leveldbOptionsSetParanoidChecks  func(opt uintptr, v uint8)
	leveldbOptionsSetWriteBufferSize func(opt uintptr, v uintptr)
	leveldbOptionsSetMaxOpenFiles    func(opt uintptr, v int32)
	leveldbOptionsSetCache           func(opt, cache uintptr)
	leveldbOptionsSetBlockSize       func(opt uintptr, v uintptr)
	leveldbOptionsSetCompression     func(opt uintptr, v int32)
	leveldbOptionsSetFilterPolicy    func(opt, policy uintptr)

	leveldbCacheCreateLRU          func(capacity uintptr) uintptr
	leveldbCacheDestroy            func(cache uintptr)
	leveldbFilterPolicyCreateBloom func(bitsPerKey int32) uintptr
	leveldbFilterPolicyDestroy     func(policy uintptr)

	leveldbReadOptionsCreate             func() uintptr
	leveldbReadOptionsDestroy            func(ro uintptr)
	leveldbReadOptionsSetVerifyChecksums func(ro uintptr, v uint8)
	leveldbReadOptionsSetFillCache       func(ro uintptr, v uint8)
	leveldbReadOptionsSetSnapshot        func(ro, snapshot uintptr)

	leveldbWriteOptionsCreate  func() uintptr
	leveldbWriteOptionsDestroy func(wo uintptr)
	leveldbWriteOptionsSetSync func(wo uintptr, v uint8)
)

type symbol struct {
	fptr any
	name string
}

var symbols = []symbol{
	{&leveldbOpen, "leveldb_open"},
	{&leveldbClose, "leveldb_close"},
	{&leveldbPut, "leveldb_put"},
	{&leveldbDelete, "leveldb_delete"},
	{&leveldbGet, "leveldb_get"},
	{&leveldbCreateIterator, "leveldb_create_iterator"},
	{&leveldbCreateSnapshot, "leveldb_create_snapshot"},
	{&leveldbReleaseSnapshot, "leveldb_release_snapshot"},
	{&leveldbPropertyValue, "leveldb_property_value"},
	{&leveldbDestroyDB, "leveldb_destroy_db"},
	{&leveldbFree, "leveldb_free"},
	{&leveldbMajorVersion, "leveldb_major_version"},
	{&leveldbMinorVersion, "leveldb_minor_version"},

	{&leveldbIterDestroy, "leveldb_iter_destroy"},
	{&leveldbIterValid, "leveldb_iter_valid"},
	{&leveldbIterSeekToFirst, "leveldb_iter_seek_to_first"},
	{&leveldbIterSeekToLast, "leveldb_iter_seek_to_last"},
	{&leveldbIterSeek, "leveldb_iter_seek"},
	{&leveldbIterNext, "leveldb_iter_next"},
	{&leveldbIterPrev, "leveldb_iter_prev"},
	{&leveldbIterKey, "leveldb_iter_key"},
	{&leveldbIterValue, "leveldb_iter_value"},
	{&leveldbIterGetError, "leveldb_iter_get_error"},

	{&leveldbOptionsCreate, "leveldb_options_create"},
	{&leveldbOptionsDestroy, "leveldb_options_destroy"},
	{&leveldbOptionsSetCreateIfMissing, "leveldb_options_set_create_if_missing"},
	{&leveldbOptionsSetErrorIfExists, "leveldb_options_set_error_if_exists"},
	{&leveldbOptionsSetParanoidChecks, "leveldb_options_set_paranoid_checks"},
	{&leveldbOptionsSetWriteBufferSize, "leveldb_options_set_write_buffer_size"},
	{&leveldbOptionsSetMaxOpenFiles, "leveldb_options_set_max_open_files"},
	{&leveldbOptionsSetCache, "leveldb_options_set_cache"},
	{&leveldbOptionsSetBlockSize, "leveldb_options_set_block_size"},
	{&leveldbOptionsSetCompression, "leveldb_options_set_compression"},
	{&leveldbOptionsSetFilterPolicy, "leveldb_options_set_filter_policy"},

	{&leveldbCacheCreateLRU, "leveldb_cache_create_lru"},
	{&leveldbCacheDestroy, "leveldb_cache_destroy"},
	{&leveldbFilterPolicyCreateBloom, "leveldb_filterpolicy_create_bloom"},
	{&leveldbFilterPolicyDestroy, "leveldb_filterpolicy_destroy"},

	{&leveldbReadOptionsCreate, "leveldb_readoptions_create"},
	{&leveldbReadOptionsDestroy, "leveldb_readoptions_destroy"},
	{&leveldbReadOptionsSetVerifyChecksums, "leveldb_readoptions_set_verify_checksums"},
	{&leveldbReadOptionsSetFillCache, "leveldb_readoptions_set_fill_cache"},
	{&leveldbReadOptionsSetSnapshot, "leveldb_readoptions_set_snapshot"},

	{&leveldbWriteOptionsCreate, "leveldb_writeoptions_create"},
	{&leveldbWriteOptionsDestroy, "leveldb_writeoptions_destroy"},
	{&leveldbWriteOptionsSetSync, "leveldb_writeoptions_set_sync"},
}

var (
	loadOnce sync.Once
	loadErr  error
)

// Load opens the shared library at path, or the platform default if path is
// empty, and binds the C API. Only the first call loads anything; later calls
// return its result.
func Load(path string) error {
	loadOnce.Do(func() {
		if path == "" {
			path = defaultLibrary
		}
		loadErr = load(path)
	})
	return loadErr
}

// readErrorAndFree copies a LevelDB error string and releases it.
func readErrorAndFree(cerr unsafe.Pointer) error {
	if cerr == nil {
		return nil
	}
	defer leveldbFree(cerr)
	return errors.New(copyCString(cerr))
}

func copyCString(p unsafe.Pointer) string {
	if p == nil {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Add(p, n)) != 0 {
		n++
	}
	return string(unsafe.Slice((*byte)(p), n))
}

// copyBytes copies n bytes of C memory into a Go slice.
func copyBytes(p unsafe.Pointer, n uintptr) []byte {
	result := make([]byte, n)
	if n > 0 {
		copy(result, unsafe.Slice((*byte)(p), n))
	}
	return result
}

var empty byte

// bytesPtr returns a pointer to the first element of b, or a non-nil dummy
// for an empty slice.
func bytesPtr(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return unsafe.Pointer(&empty)
	}
	return unsafe.Pointer(&b[0])
}

func cbool(v bool) uint8 {
	if v {
		return 1
	}
	return 0
}
