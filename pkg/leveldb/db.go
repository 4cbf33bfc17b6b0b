package leveldb

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/eigerco/levelbind/internal/handle"
	"github.com/eigerco/levelbind/pkg/db"
	"github.com/eigerco/levelbind/pkg/log"
)

// DB is an open database. Its iterators and snapshots are released when it
// is closed. A DB that becomes unreachable without Close is closed by a
// runtime cleanup.
type DB struct {
	lib  *Library
	name string
	cell *handle.Cell[db.Store]
}

// Connect opens the location name with the given settings.
func (l *Library) Connect(name string, opts ...ConnectOption) (*DB, error) {
	var s db.OpenSettings
	for _, o := range opts {
		o(&s)
	}
	if err := s.Validate(); err != nil {
		return nil, &ArgumentTypeError{Arg: "connect option", Reason: err.Error()}
	}

	abs, err := filepath.Abs(name)
	if err != nil {
		return nil, &OpenError{Name: name, Err: err}
	}
	if err := l.track(abs); err != nil {
		return nil, err
	}

	store, err := l.engine.Open(name, s)
	if err != nil {
		l.untrack(abs)
		return nil, &OpenError{Name: name, Err: err}
	}
	cell, err := handle.Wrap(l.reg, handle.KindDB, 0, store, func(s db.Store) error {
		defer l.untrack(abs)
		log.Binding.Debug().Str("name", name).Msg("closing")
		return s.Close()
	})
	if err != nil {
		store.Close() //nolint:errcheck // the registration error is the one to report
		l.untrack(abs)
		return nil, err
	}

	d := &DB{lib: l, name: name, cell: cell}
	runtime.AddCleanup(d, (*handle.Cell[db.Store]).Finalize, cell)
	log.Binding.Debug().Str("name", name).Uint64("id", uint64(cell.ID())).Msg("connected")
	return d, nil
}

func (d *DB) check() error {
	if d == nil || d.lib == nil {
		return invalidHandle(handle.KindDB)
	}
	return d.cell.Check(d.lib.reg, handle.KindDB)
}

func (d *DB) store() (db.Store, func(), error) {
	if err := d.check(); err != nil {
		return nil, nil, err
	}
	return d.cell.Shared()
}

// Name returns the location the database was opened at.
func (d *DB) Name() string {
	return d.name
}

// Close releases the database and everything derived from it. It reports
// whether the database was open.
func (d *DB) Close(errorIfClosed bool) (bool, error) {
	if err := d.check(); err != nil {
		return false, err
	}
	return d.cell.Release(errorIfClosed)
}

// Property returns an engine diagnostic such as "leveldb.stats". An unknown
// name yields ("", false, nil), or ErrPropertyNotFound if errorIfMissing.
func (d *DB) Property(name string, errorIfMissing bool) (string, bool, error) {
	store, unlock, err := d.store()
	if err != nil {
		return "", false, err
	}
	defer unlock()

	value, ok := store.Property(name)
	if !ok {
		if errorIfMissing {
			return "", false, fmt.Errorf("%w: %q", ErrPropertyNotFound, name)
		}
		return "", false, nil
	}
	return value, true, nil
}

// Get looks up key. A miss yields an absent Value, or ErrKeyNotFound if
// errorIfMissing.
func (d *DB) Get(key any, forceRaw, errorIfMissing bool, ro *ReadOptions) (Value, error) {
	k, err := toBytes("key", key)
	if err != nil {
		return Value{}, err
	}
	store, unlock, err := d.store()
	if err != nil {
		return Value{}, err
	}
	defer unlock()

	ero, rounlock, err := d.lib.readOptions(d, ro)
	if err != nil {
		return Value{}, err
	}
	defer rounlock()

	v, err := store.Get(ero, k)
	if errors.Is(err, db.ErrNotFound) {
		if errorIfMissing {
			return Value{}, ErrKeyNotFound
		}
		return Value{}, nil
	}
	if err != nil {
		return Value{}, &ReadError{Op: "get", Err: err}
	}
	return fromBytes(v, forceRaw), nil
}

func (d *DB) Put(key, value any, wo *WriteOptions) error {
	k, err := toBytes("key", key)
	if err != nil {
		return err
	}
	v, err := toBytes("value", value)
	if err != nil {
		return err
	}
	store, unlock, err := d.store()
	if err != nil {
		return err
	}
	defer unlock()

	ewo, wounlock, err := d.lib.writeOptions(wo)
	if err != nil {
		return err
	}
	defer wounlock()

	if err := store.Put(ewo, k, v); err != nil {
		return &WriteError{Op: "put", Err: err}
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (d *DB) Delete(key any, wo *WriteOptions) error {
	k, err := toBytes("key", key)
	if err != nil {
		return err
	}
	store, unlock, err := d.store()
	if err != nil {
		return err
	}
	defer unlock()

	ewo, wounlock, err := d.lib.writeOptions(wo)
	if err != nil {
		return err
	}
	defer wounlock()

	if err := store.Delete(ewo, k); err != nil {
		return &WriteError{Op: "delete", Err: err}
	}
	return nil
}
