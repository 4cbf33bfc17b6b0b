package goleveldb

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/syndtr/goleveldb/leveldb/storage"
)

// Files the storage layer owns but does not list.
var unlistedFiles = []string{"CURRENT", "CURRENT.bak", "LOCK", "LOG", "LOG.old"}

// Destroy removes the engine files at name the way LevelDB's DestroyDB does:
// it takes the location lock first, so a location open anywhere (this
// process included) is refused, and it leaves foreign files alone. A missing
// location is not an error.
func (e *Engine) Destroy(name string) error {
	if _, err := os.Stat(name); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	stor, err := storage.OpenFile(name, false)
	if err != nil {
		return fmt.Errorf("lock %q: %w", name, err)
	}
	fds, err := stor.List(storage.TypeAll)
	if err != nil {
		stor.Close() //nolint:errcheck // the list error is the one to report
		return fmt.Errorf("list %q: %w", name, err)
	}
	var errs []error
	for _, fd := range fds {
		if err := stor.Remove(fd); err != nil {
			errs = append(errs, err)
		}
	}
	if err := stor.Close(); err != nil {
		errs = append(errs, err)
	}
	for _, f := range unlistedFiles {
		if err := os.Remove(filepath.Join(name, f)); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	// Ignore the error in case the directory holds foreign files.
	_ = os.Remove(name)
	return nil
}
