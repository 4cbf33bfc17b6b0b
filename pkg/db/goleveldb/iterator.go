package goleveldb

import (
	"github.com/syndtr/goleveldb/leveldb/iterator"
)

type Iterator struct {
	iter iterator.Iterator
}

func (it *Iterator) Valid() bool {
	return it.iter.Valid()
}

func (it *Iterator) SeekToFirst() {
	it.iter.First()
}

func (it *Iterator) SeekToLast() {
	it.iter.Last()
}

func (it *Iterator) Seek(key []byte) {
	it.iter.Seek(key)
}

func (it *Iterator) Next() {
	it.iter.Next()
}

func (it *Iterator) Prev() {
	it.iter.Prev()
}

// Key returns a copy; the iterator reuses its buffer on every move.
func (it *Iterator) Key() []byte {
	return clone(it.iter.Key())
}

func (it *Iterator) Value() []byte {
	return clone(it.iter.Value())
}

func (it *Iterator) Error() error {
	return it.iter.Error()
}

func (it *Iterator) Close() error {
	err := it.iter.Error()
	it.iter.Release()
	return err
}

func clone(b []byte) []byte {
	result := make([]byte, len(b))
	copy(result, b)
	return result
}
