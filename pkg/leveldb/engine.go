package leveldb

import (
	"fmt"
	"sync"

	"github.com/eigerco/levelbind/pkg/config"
	"github.com/eigerco/levelbind/pkg/db"
	"github.com/eigerco/levelbind/pkg/db/clevel"
	"github.com/eigerco/levelbind/pkg/db/goleveldb"
	"github.com/eigerco/levelbind/pkg/db/pebble"
	"github.com/eigerco/levelbind/pkg/log"
)

// OpenEngine returns the engine driver cfg selects.
func OpenEngine(cfg *config.Config) (db.Engine, error) {
	switch cfg.Engine {
	case config.EngineGoLevelDB:
		return goleveldb.New(), nil
	case config.EnginePebble:
		return pebble.New(), nil
	case config.EngineLibLevelDB:
		return clevel.New(cfg.LibraryPath)
	default:
		return nil, fmt.Errorf("unknown engine %q", cfg.Engine)
	}
}

// Load initializes logging from cfg and returns a Library over the engine it
// selects.
func Load(cfg *config.Config) (*Library, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Init(cfg.LogOptions())

	engine, err := OpenEngine(cfg)
	if err != nil {
		return nil, err
	}
	return NewLibrary(engine)
}

var (
	defaultMu  sync.Mutex
	defaultLib *Library
)

// Default returns the process-wide Library, creating it on first use from
// config.LoadConfig("").
func Default() (*Library, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultLib != nil {
		return defaultLib, nil
	}
	cfg, err := config.LoadConfig("")
	if err != nil {
		return nil, err
	}
	lib, err := Load(cfg)
	if err != nil {
		return nil, err
	}
	defaultLib = lib
	return lib, nil
}

// Shutdown closes the process-wide Library if it was created. A later call
// to Default creates a new one.
func Shutdown() error {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultLib == nil {
		return nil
	}
	err := defaultLib.Close()
	defaultLib = nil
	return err
}

// Connect opens name through the process-wide Library.
func Connect(name string, opts ...ConnectOption) (*DB, error) {
	lib, err := Default()
	if err != nil {
		return nil, err
	}
	return lib.Connect(name, opts...)
}

// Destroy removes name through the process-wide Library.
func Destroy(name string) error {
	lib, err := Default()
	if err != nil {
		return err
	}
	return lib.Destroy(name)
}
