package pebble

import (
	"fmt"

	"github.com/cockroachdb/pebble"

	"github.com/eigerco/levelbind/pkg/db"
)

type Iterator struct {
	iter *pebble.Iterator
	err  error
}

func (p *Store) NewIterator(r db.ReadOptions) (db.Iterator, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return nil, ErrClosed
	}
	snap, err := p.snapshotFor(r)
	if err != nil {
		return nil, err
	}

	var iter *pebble.Iterator
	if snap != nil {
		iter, err = snap.NewIter(&pebble.IterOptions{})
	} else {
		iter, err = p.db.NewIter(&pebble.IterOptions{})
	}
	if err != nil {
		return nil, fmt.Errorf(ErrInIteratorCreation, err)
	}
	return &Iterator{iter: iter}, nil
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
	it.iter.SeekGE(key)
}

func (it *Iterator) Next() {
	it.iter.Next()
}

func (it *Iterator) Prev() {
	it.iter.Prev()
}

func (it *Iterator) Key() []byte {
	key := it.iter.Key()
	result := make([]byte, len(key))
	copy(result, key)
	return result
}

// Value returns nil and records the error if a lazily fetched value cannot be
// read; Error reports it.
func (it *Iterator) Value() []byte {
	val, err := it.iter.ValueAndErr()
	if err != nil {
		it.err = fmt.Errorf(ErrIteratorValue, err)
		return nil
	}

	result := make([]byte, len(val))
	copy(result, val)
	return result
}

func (it *Iterator) Error() error {
	if it.err != nil {
		return it.err
	}
	return it.iter.Error()
}

func (it *Iterator) Close() error {
	return it.iter.Close()
}
