// Package leveldb exposes an embedded ordered key-value engine through
// handles whose native resources are released exactly once, either
// explicitly or by a runtime cleanup when the handle becomes unreachable.
//
// A Library binds one engine (see pkg/db for the drivers). Databases own
// their iterators and snapshots: closing a database releases them first,
// and releasing them afterwards is a no-op. Snapshots only refer to their
// database by ID.
//
// Keys and values are passed in as string, []byte or Value and come back as
// Value, which is text for printable UTF-8 without NUL bytes and raw
// otherwise.
//
//	db, err := leveldb.Connect("data", leveldb.CreateIfMissing(true))
//	if err != nil {
//		return err
//	}
//	defer db.Close(false)
//
//	if err := db.Put("a", "1", nil); err != nil {
//		return err
//	}
//	v, err := db.Get("a", false, true, nil)
package leveldb
