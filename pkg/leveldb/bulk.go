package leveldb

import (
	"bytes"

	"github.com/eigerco/levelbind/pkg/db"
)

// scan runs fn with a fresh engine cursor over d, closing it afterwards. No
// Iterator handle is created.
func (d *DB) scan(op string, ro *ReadOptions, fn func(db.Iterator) error) error {
	store, unlock, err := d.store()
	if err != nil {
		return err
	}
	defer unlock()

	ero, rounlock, err := d.lib.readOptions(d, ro)
	if err != nil {
		return err
	}
	defer rounlock()

	it, err := store.NewIterator(ero)
	if err != nil {
		return &ReadError{Op: op, Err: err}
	}
	if err := fn(it); err != nil {
		it.Close() //nolint:errcheck // fn's error is the one to report
		return &ReadError{Op: op, Err: err}
	}
	if err := it.Close(); err != nil {
		return &ReadError{Op: op, Err: err}
	}
	return nil
}

// Keys returns every key in order. asRaw forces raw values.
func (d *DB) Keys(asRaw bool, ro *ReadOptions) ([]Value, error) {
	var keys []Value
	err := d.scan("keys", ro, func(it db.Iterator) error {
		for it.SeekToFirst(); it.Valid(); it.Next() {
			keys = append(keys, fromBytes(it.Key(), asRaw))
		}
		return it.Error()
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// KeysLen counts the keys.
func (d *DB) KeysLen(ro *ReadOptions) (int, error) {
	n := 0
	err := d.scan("keys_len", ro, func(it db.Iterator) error {
		for it.SeekToFirst(); it.Valid(); it.Next() {
			n++
		}
		return it.Error()
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Exists reports whether key is present.
func (d *DB) Exists(key any, ro *ReadOptions) (bool, error) {
	k, err := toBytes("key", key)
	if err != nil {
		return false, err
	}
	found := false
	err = d.scan("exists", ro, func(it db.Iterator) error {
		it.Seek(k)
		found = it.Valid() && bytes.Equal(it.Key(), k)
		return it.Error()
	})
	if err != nil {
		return false, err
	}
	return found, nil
}
