package leveldb

import (
	"fmt"
	"runtime"

	"github.com/eigerco/levelbind/internal/handle"
	"github.com/eigerco/levelbind/pkg/db"
)

// Iterator traverses a database in key order. A new iterator is not
// positioned; call SeekToFirst, SeekToLast or Seek first. Moving past either
// end leaves it invalid, which is not an error.
//
// An Iterator is not safe for concurrent use; calls are serialized.
type Iterator struct {
	db   *DB
	cell *handle.Cell[db.Iterator]
}

func closeIterator(it db.Iterator) error {
	return it.Close()
}

// NewIterator creates an iterator reading through ro, or the library default
// if ro is nil.
func (d *DB) NewIterator(ro *ReadOptions) (*Iterator, error) {
	store, unlock, err := d.store()
	if err != nil {
		return nil, err
	}
	defer unlock()

	ero, rounlock, err := d.lib.readOptions(d, ro)
	if err != nil {
		return nil, err
	}
	defer rounlock()

	eit, err := store.NewIterator(ero)
	if err != nil {
		return nil, &ReadError{Op: "create iterator", Err: err}
	}
	cell, err := handle.Wrap(d.lib.reg, handle.KindIterator, d.cell.ID(), eit, closeIterator)
	if err != nil {
		eit.Close() //nolint:errcheck // the registration error is the one to report
		return nil, err
	}

	it := &Iterator{db: d, cell: cell}
	runtime.AddCleanup(it, (*handle.Cell[db.Iterator]).Finalize, cell)
	return it, nil
}

func (it *Iterator) cursor() (db.Iterator, func(), error) {
	if it == nil || it.db == nil || it.db.lib == nil {
		return nil, nil, invalidHandle(handle.KindIterator)
	}
	if err := it.cell.Check(it.db.lib.reg, handle.KindIterator); err != nil {
		return nil, nil, err
	}
	return it.cell.Exclusive()
}

// move runs fn on the cursor and surfaces any cursor error.
func (it *Iterator) move(op string, fn func(db.Iterator)) error {
	c, unlock, err := it.cursor()
	if err != nil {
		return err
	}
	defer unlock()

	fn(c)
	if err := c.Error(); err != nil {
		return &ReadError{Op: op, Err: err}
	}
	return nil
}

// Valid reports whether the iterator is positioned on an entry. A released
// iterator is never valid.
func (it *Iterator) Valid() bool {
	c, unlock, err := it.cursor()
	if err != nil {
		return false
	}
	defer unlock()
	return c.Valid()
}

func (it *Iterator) SeekToFirst() error {
	return it.move("seek to first", db.Iterator.SeekToFirst)
}

func (it *Iterator) SeekToLast() error {
	return it.move("seek to last", db.Iterator.SeekToLast)
}

// Seek positions the iterator at the first key at or after key.
func (it *Iterator) Seek(key any) error {
	k, err := toBytes("key", key)
	if err != nil {
		return err
	}
	return it.move("seek", func(c db.Iterator) {
		c.Seek(k)
	})
}

// Next advances the iterator. It does nothing on an invalid iterator.
func (it *Iterator) Next() error {
	return it.move("next", func(c db.Iterator) {
		if c.Valid() {
			c.Next()
		}
	})
}

// Prev steps the iterator back. It does nothing on an invalid iterator.
func (it *Iterator) Prev() error {
	return it.move("prev", func(c db.Iterator) {
		if c.Valid() {
			c.Prev()
		}
	})
}

// Key returns the current key. On an invalid iterator it returns an absent
// Value, or ErrIteratorInvalid if errorIfInvalid.
func (it *Iterator) Key(forceRaw, errorIfInvalid bool) (Value, error) {
	return it.read(forceRaw, errorIfInvalid, db.Iterator.Key)
}

// Value is Key for the current value.
func (it *Iterator) Value(forceRaw, errorIfInvalid bool) (Value, error) {
	return it.read(forceRaw, errorIfInvalid, db.Iterator.Value)
}

func (it *Iterator) read(forceRaw, errorIfInvalid bool, fn func(db.Iterator) []byte) (Value, error) {
	c, unlock, err := it.cursor()
	if err != nil {
		return Value{}, err
	}
	defer unlock()

	if !c.Valid() {
		if errorIfInvalid {
			return Value{}, ErrIteratorInvalid
		}
		return Value{}, nil
	}
	b := fn(c)
	if err := c.Error(); err != nil {
		return Value{}, &ReadError{Op: "read iterator", Err: err}
	}
	return fromBytes(b, forceRaw), nil
}

// Destroy releases the iterator. It reports whether it was live; an iterator
// whose database was closed first is reported as already released.
func (it *Iterator) Destroy(errorIfClosed bool) (bool, error) {
	if it == nil || it.db == nil || it.db.lib == nil {
		return false, invalidHandle(handle.KindIterator)
	}
	if err := it.cell.Check(it.db.lib.reg, handle.KindIterator); err != nil {
		return false, err
	}
	wasOpen, err := it.cell.Release(errorIfClosed)
	if err != nil {
		return wasOpen, fmt.Errorf("destroy iterator: %w", err)
	}
	return wasOpen, nil
}
