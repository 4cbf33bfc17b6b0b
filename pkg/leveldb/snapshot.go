package leveldb

import (
	"fmt"
	"runtime"

	"github.com/eigerco/levelbind/internal/handle"
	"github.com/eigerco/levelbind/pkg/db"
)

// Snapshot is a point-in-time view of a database. It refers to its database
// by registry ID only, so it does not keep the database open or reachable;
// once the database is closed the snapshot is implicitly released.
type Snapshot struct {
	lib  *Library
	dbID handle.ID
	cell *handle.Cell[db.Snapshot]
}

func (d *DB) NewSnapshot() (*Snapshot, error) {
	store, unlock, err := d.store()
	if err != nil {
		return nil, err
	}
	defer unlock()

	es, err := store.NewSnapshot()
	if err != nil {
		return nil, &ReadError{Op: "create snapshot", Err: err}
	}
	cell, err := handle.Wrap(d.lib.reg, handle.KindSnapshot, d.cell.ID(), es, store.ReleaseSnapshot)
	if err != nil {
		store.ReleaseSnapshot(es) //nolint:errcheck // the registration error is the one to report
		return nil, err
	}

	s := &Snapshot{lib: d.lib, dbID: d.cell.ID(), cell: cell}
	runtime.AddCleanup(s, (*handle.Cell[db.Snapshot]).Finalize, cell)
	return s, nil
}

func (s *Snapshot) check(l *Library) error {
	if s == nil || s.lib == nil {
		return invalidHandle(handle.KindSnapshot)
	}
	return s.cell.Check(l.reg, handle.KindSnapshot)
}

// Release releases the snapshot. It reports whether it was live. Releasing
// after the database was closed makes no engine call.
func (s *Snapshot) Release(errorIfReleased bool) (bool, error) {
	if s == nil || s.lib == nil {
		return false, invalidHandle(handle.KindSnapshot)
	}
	if err := s.check(s.lib); err != nil {
		return false, err
	}
	wasOpen, err := s.cell.Release(errorIfReleased)
	if err != nil {
		return wasOpen, fmt.Errorf("release snapshot: %w", err)
	}
	return wasOpen, nil
}
