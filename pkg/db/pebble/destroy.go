package pebble

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/pebble/vfs"
)

const lockFile = "LOCK"

// Name patterns of the files pebble writes into a location.
var ownedFiles = []string{
	"CURRENT",
	"OPTIONS-*",
	"MANIFEST-*",
	"marker.*",
	"*.log",
	"*.sst",
	"*.dbtmp",
}

func owned(name string) bool {
	for _, pattern := range ownedFiles {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// Destroy removes the pebble files at name. It takes the location lock
// first, so an open location is refused, and it leaves foreign files alone.
// A missing location is not an error.
func (e *Engine) Destroy(name string) error {
	if _, err := os.Stat(name); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	lock, err := vfs.Default.Lock(filepath.Join(name, lockFile))
	if err != nil {
		return fmt.Errorf("lock %q: %w", name, err)
	}
	entries, err := os.ReadDir(name)
	if err != nil {
		lock.Close() //nolint:errcheck // the read error is the one to report
		return fmt.Errorf("list %q: %w", name, err)
	}

	var errs []error
	for _, entry := range entries {
		if entry.IsDir() || !owned(entry.Name()) {
			continue
		}
		if err := os.Remove(filepath.Join(name, entry.Name())); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
	}
	if err := lock.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := os.Remove(filepath.Join(name, lockFile)); err != nil && !os.IsNotExist(err) {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	// Ignore the error in case the directory holds foreign files.
	_ = os.Remove(name)
	return nil
}
