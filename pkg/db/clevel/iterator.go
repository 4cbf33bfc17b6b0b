package clevel

import (
	"runtime"
	"unsafe"
)

// Iterator wraps a leveldb_iterator_t. It is not safe for concurrent use.
type Iterator struct {
	ptr uintptr
}

func (it *Iterator) Valid() bool {
	return leveldbIterValid(it.ptr) != 0
}

func (it *Iterator) SeekToFirst() {
	leveldbIterSeekToFirst(it.ptr)
}

func (it *Iterator) SeekToLast() {
	leveldbIterSeekToLast(it.ptr)
}

func (it *Iterator) Seek(key []byte) {
	leveldbIterSeek(it.ptr, bytesPtr(key), uintptr(len(key)))
	runtime.KeepAlive(key)
}

func (it *Iterator) Next() {
	leveldbIterNext(it.ptr)
}

func (it *Iterator) Prev() {
	leveldbIterPrev(it.ptr)
}

// Key copies the current key out of iterator-owned memory.
func (it *Iterator) Key() []byte {
	var n uintptr
	p := leveldbIterKey(it.ptr, unsafe.Pointer(&n))
	return copyBytes(p, n)
}

func (it *Iterator) Value() []byte {
	var n uintptr
	p := leveldbIterValue(it.ptr, unsafe.Pointer(&n))
	return copyBytes(p, n)
}

func (it *Iterator) Error() error {
	var cerr unsafe.Pointer
	leveldbIterGetError(it.ptr, unsafe.Pointer(&cerr))
	return readErrorAndFree(cerr)
}

func (it *Iterator) Close() error {
	if it.ptr == 0 {
		return nil
	}
	err := it.Error()
	leveldbIterDestroy(it.ptr)
	it.ptr = 0
	return err
}
