// Package mocks provides testify mocks of the engine boundary for exercising
// failure paths the real drivers cannot produce on demand.
package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/eigerco/levelbind/pkg/db"
)

type MockEngine struct {
	mock.Mock
}

func NewMockEngine() *MockEngine {
	return &MockEngine{}
}

func (m *MockEngine) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockEngine) Version() (int, int) {
	args := m.Called()
	return args.Int(0), args.Int(1)
}

func (m *MockEngine) Open(name string, s db.OpenSettings) (db.Store, error) {
	args := m.Called(name, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(db.Store), args.Error(1)
}

func (m *MockEngine) Destroy(name string) error {
	args := m.Called(name)
	return args.Error(0)
}

func (m *MockEngine) NewReadOptions(s db.ReadSettings) (db.ReadOptions, error) {
	args := m.Called(s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(db.ReadOptions), args.Error(1)
}

func (m *MockEngine) NewWriteOptions(s db.WriteSettings) (db.WriteOptions, error) {
	args := m.Called(s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(db.WriteOptions), args.Error(1)
}

// MockStore implements db.Store.
type MockStore struct {
	mock.Mock
}

func NewMockStore() *MockStore {
	return &MockStore{}
}

func (m *MockStore) Get(ro db.ReadOptions, key []byte) ([]byte, error) {
	args := m.Called(ro, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockStore) Put(wo db.WriteOptions, key, value []byte) error {
	args := m.Called(wo, key, value)
	return args.Error(0)
}

func (m *MockStore) Delete(wo db.WriteOptions, key []byte) error {
	args := m.Called(wo, key)
	return args.Error(0)
}

func (m *MockStore) NewIterator(ro db.ReadOptions) (db.Iterator, error) {
	args := m.Called(ro)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(db.Iterator), args.Error(1)
}

func (m *MockStore) NewSnapshot() (db.Snapshot, error) {
	args := m.Called()
	return args.Get(0), args.Error(1)
}

func (m *MockStore) ReleaseSnapshot(s db.Snapshot) error {
	args := m.Called(s)
	return args.Error(0)
}

func (m *MockStore) Property(name string) (string, bool) {
	args := m.Called(name)
	return args.String(0), args.Bool(1)
}

func (m *MockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockIterator implements db.Iterator.
type MockIterator struct {
	mock.Mock
}

func NewMockIterator() *MockIterator {
	return &MockIterator{}
}

func (m *MockIterator) Valid() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockIterator) SeekToFirst() {
	m.Called()
}

func (m *MockIterator) SeekToLast() {
	m.Called()
}

func (m *MockIterator) Seek(key []byte) {
	m.Called(key)
}

func (m *MockIterator) Next() {
	m.Called()
}

func (m *MockIterator) Prev() {
	m.Called()
}

func (m *MockIterator) Key() []byte {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]byte)
}

func (m *MockIterator) Value() []byte {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]byte)
}

func (m *MockIterator) Error() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockIterator) Close() error {
	args := m.Called()
	return args.Error(0)
}

// Options is a no-op engine options object usable as both db.ReadOptions and
// db.WriteOptions.
type Options struct{}

func (*Options) Destroy() {}
