package db

// Engine is the boundary to an embedded, ordered key-value storage engine.
// Every object an Engine hands out is owned by the caller and must be given
// back through the matching Close, Destroy or ReleaseSnapshot call.
type Engine interface {
	// Name identifies the driver, e.g. "goleveldb".
	Name() string
	Version() (major, minor int)
	Open(name string, settings OpenSettings) (Store, error)
	// Destroy removes all on-disk state of the named location.
	Destroy(name string) error
	NewReadOptions(settings ReadSettings) (ReadOptions, error)
	NewWriteOptions(settings WriteSettings) (WriteOptions, error)
}

// Store is one open engine instance. A nil ReadOptions or WriteOptions means
// the engine defaults.
type Store interface {
	// Get returns ErrNotFound if the key is absent.
	Get(ro ReadOptions, key []byte) ([]byte, error)
	Put(wo WriteOptions, key, value []byte) error
	Delete(wo WriteOptions, key []byte) error
	NewIterator(ro ReadOptions) (Iterator, error)
	NewSnapshot() (Snapshot, error)
	ReleaseSnapshot(s Snapshot) error
	// Property reports a named engine diagnostic; false if the name is unknown.
	Property(name string) (string, bool)
	Close() error
}

// Iterator is an engine cursor. A fresh iterator is not positioned. Next and
// Prev must only be called while Valid reports true.
type Iterator interface {
	Valid() bool
	SeekToFirst()
	SeekToLast()
	Seek(key []byte)
	Next()
	Prev()
	// Key and Value return copies owned by the caller.
	Key() []byte
	Value() []byte
	Error() error
	Close() error
}

// Snapshot is an opaque point-in-time view. Only the Store that created it
// may interpret or release it.
type Snapshot interface{}

// ReadOptions is an engine read configuration object.
type ReadOptions interface {
	Destroy()
}

// WriteOptions is an engine write configuration object.
type WriteOptions interface {
	Destroy()
}
