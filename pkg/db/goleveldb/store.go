package goleveldb

import (
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/eigerco/levelbind/pkg/db"
)

type Store struct {
	db *leveldb.DB
}

type snapshot struct {
	snap  *leveldb.Snapshot
	owner *Store
}

func newStore(ldb *leveldb.DB) *Store {
	return &Store{db: ldb}
}

func (s *Store) readOptions(r db.ReadOptions) (*opt.ReadOptions, *leveldb.Snapshot, error) {
	if r == nil {
		return nil, nil, nil
	}
	ro, ok := r.(*readOptions)
	if !ok {
		return nil, nil, db.ErrForeignObject
	}
	if ro.snap == nil {
		return ro.ro, nil, nil
	}
	if ro.snap.owner != s {
		return nil, nil, db.ErrForeignObject
	}
	return ro.ro, ro.snap.snap, nil
}

func writeOpts(w db.WriteOptions) (*opt.WriteOptions, error) {
	if w == nil {
		return nil, nil
	}
	wo, ok := w.(*writeOptions)
	if !ok {
		return nil, db.ErrForeignObject
	}
	return wo.wo, nil
}

func (s *Store) Get(r db.ReadOptions, key []byte) ([]byte, error) {
	ro, snap, err := s.readOptions(r)
	if err != nil {
		return nil, err
	}
	var value []byte
	if snap != nil {
		value, err = snap.Get(key, ro)
	} else {
		value, err = s.db.Get(key, ro)
	}
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if value == nil {
		value = []byte{}
	}
	return value, nil
}

func (s *Store) Put(w db.WriteOptions, key, value []byte) error {
	wo, err := writeOpts(w)
	if err != nil {
		return err
	}
	return s.db.Put(key, value, wo)
}

func (s *Store) Delete(w db.WriteOptions, key []byte) error {
	wo, err := writeOpts(w)
	if err != nil {
		return err
	}
	return s.db.Delete(key, wo)
}

func (s *Store) NewIterator(r db.ReadOptions) (db.Iterator, error) {
	ro, snap, err := s.readOptions(r)
	if err != nil {
		return nil, err
	}
	if snap != nil {
		return &Iterator{iter: snap.NewIterator(nil, ro)}, nil
	}
	return &Iterator{iter: s.db.NewIterator(nil, ro)}, nil
}

func (s *Store) NewSnapshot() (db.Snapshot, error) {
	snap, err := s.db.GetSnapshot()
	if err != nil {
		return nil, fmt.Errorf("create snapshot: %w", err)
	}
	return &snapshot{snap: snap, owner: s}, nil
}

func (s *Store) ReleaseSnapshot(v db.Snapshot) error {
	snap, ok := v.(*snapshot)
	if !ok || snap.owner != s {
		return db.ErrForeignObject
	}
	snap.snap.Release()
	return nil
}

func (s *Store) Property(name string) (string, bool) {
	value, err := s.db.GetProperty(name)
	if err != nil {
		return "", false
	}
	return value, true
}

func (s *Store) Close() error {
	return s.db.Close()
}
