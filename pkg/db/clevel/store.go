package clevel

import (
	"errors"
	"runtime"
	"sync"
	"unsafe"

	"github.com/eigerco/levelbind/pkg/db"
)

var (
	ErrClosed           = errors.New("clevel: database is closed")
	ErrSnapshotReleased = errors.New("clevel: snapshot is released")
)

// Store owns a leveldb_t and the C objects it was opened with.
type Store struct {
	ptr  uintptr
	opts *openOptions

	// Used when a call passes nil options.
	defaultRO uintptr
	defaultWO uintptr

	closed bool
	mu     sync.RWMutex
}

type snapshot struct {
	ptr   uintptr
	owner *Store
}

func (s *Store) readOptions(r db.ReadOptions) (uintptr, error) {
	if r == nil {
		return s.defaultRO, nil
	}
	ro, ok := r.(*readOptions)
	if !ok || ro.ptr == 0 {
		return 0, db.ErrForeignObject
	}
	if ro.snap != nil {
		if ro.snap.owner != s {
			return 0, db.ErrForeignObject
		}
		if ro.snap.ptr == 0 {
			return 0, ErrSnapshotReleased
		}
	}
	return ro.ptr, nil
}

func (s *Store) writeOptions(w db.WriteOptions) (uintptr, error) {
	if w == nil {
		return s.defaultWO, nil
	}
	wo, ok := w.(*writeOptions)
	if !ok || wo.ptr == 0 {
		return 0, db.ErrForeignObject
	}
	return wo.ptr, nil
}

func (s *Store) Get(r db.ReadOptions, key []byte) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}
	ro, err := s.readOptions(r)
	if err != nil {
		return nil, err
	}

	var (
		vallen uintptr
		cerr   unsafe.Pointer
	)
	val := leveldbGet(s.ptr, ro, bytesPtr(key), uintptr(len(key)), unsafe.Pointer(&vallen), unsafe.Pointer(&cerr))
	runtime.KeepAlive(key)
	if err := readErrorAndFree(cerr); err != nil {
		return nil, err
	}
	if val == nil {
		return nil, db.ErrNotFound
	}
	defer leveldbFree(val)
	return copyBytes(val, vallen), nil
}

func (s *Store) Put(w db.WriteOptions, key, value []byte) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return ErrClosed
	}
	wo, err := s.writeOptions(w)
	if err != nil {
		return err
	}

	var cerr unsafe.Pointer
	leveldbPut(s.ptr, wo, bytesPtr(key), uintptr(len(key)), bytesPtr(value), uintptr(len(value)), unsafe.Pointer(&cerr))
	runtime.KeepAlive(key)
	runtime.KeepAlive(value)
	return readErrorAndFree(cerr)
}

func (s *Store) Delete(w db.WriteOptions, key []byte) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return ErrClosed
	}
	wo, err := s.writeOptions(w)
	if err != nil {
		return err
	}

	var cerr unsafe.Pointer
	leveldbDelete(s.ptr, wo, bytesPtr(key), uintptr(len(key)), unsafe.Pointer(&cerr))
	runtime.KeepAlive(key)
	return readErrorAndFree(cerr)
}

func (s *Store) NewIterator(r db.ReadOptions) (db.Iterator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}
	ro, err := s.readOptions(r)
	if err != nil {
		return nil, err
	}
	return &Iterator{ptr: leveldbCreateIterator(s.ptr, ro)}, nil
}

func (s *Store) NewSnapshot() (db.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}
	return &snapshot{ptr: leveldbCreateSnapshot(s.ptr), owner: s}, nil
}

func (s *Store) ReleaseSnapshot(v db.Snapshot) error {
	snap, ok := v.(*snapshot)
	if !ok || snap.owner != s {
		return db.ErrForeignObject
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return ErrClosed
	}
	if snap.ptr != 0 {
		leveldbReleaseSnapshot(s.ptr, snap.ptr)
		snap.ptr = 0
	}
	return nil
}

func (s *Store) Property(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return "", false
	}
	val := leveldbPropertyValue(s.ptr, name)
	if val == nil {
		return "", false
	}
	defer leveldbFree(val)
	return copyCString(val), true
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	leveldbClose(s.ptr)
	s.opts.destroy()
	if s.defaultRO != 0 {
		leveldbReadOptionsDestroy(s.defaultRO)
	}
	if s.defaultWO != 0 {
		leveldbWriteOptionsDestroy(s.defaultWO)
	}
	return nil
}
