package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var (
	ErrNotFound = errors.New("db: key not found")
	// ErrForeignObject is returned when an options object or snapshot created
	// by one engine or store is handed to another.
	ErrForeignObject = errors.New("db: object belongs to another engine or store")
	ErrMissing       = errors.New("db: location does not exist")
)

const (
	// currentFile points at the live manifest in LevelDB locations.
	currentFile = "CURRENT"
	// manifestMarker replaces CURRENT in newer pebble format versions.
	manifestMarker = "marker.manifest.*"
)

// Initialized reports whether name holds an engine location.
func Initialized(name string) (bool, error) {
	_, err := os.Stat(filepath.Join(name, currentFile))
	if err == nil {
		return true, nil
	}
	if !os.IsNotExist(err) {
		return false, err
	}
	markers, err := filepath.Glob(filepath.Join(name, manifestMarker))
	if err != nil {
		return false, err
	}
	return len(markers) > 0, nil
}

// RequireInitialized fails with ErrMissing when create_if_missing was
// explicitly disabled and the location is not initialized. Drivers call it
// before opening so a failed open leaves nothing behind on disk.
func RequireInitialized(name string, s OpenSettings) error {
	create, ok := s.CreateIfMissing.Get()
	if !ok || create {
		return nil
	}
	exists, err := Initialized(name)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s/%s (create_if_missing is false)", ErrMissing, name, currentFile)
	}
	return nil
}
