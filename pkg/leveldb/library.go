package leveldb

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/eigerco/levelbind/internal/handle"
	"github.com/eigerco/levelbind/pkg/db"
	"github.com/eigerco/levelbind/pkg/log"
)

// Library binds one storage engine. It owns the handle registry and the
// default read/write options used whenever a call passes nil options.
type Library struct {
	engine db.Engine
	reg    *handle.Registry

	// Created in NewLibrary, destroyed in Close, never handed out.
	defaultRO db.ReadOptions
	defaultWO db.WriteOptions

	mu sync.Mutex
	// Open databases per absolute location.
	open   map[string]int
	closed bool
}

func NewLibrary(engine db.Engine) (*Library, error) {
	ro, err := engine.NewReadOptions(db.ReadSettings{})
	if err != nil {
		return nil, fmt.Errorf("create default read options: %w", err)
	}
	wo, err := engine.NewWriteOptions(db.WriteSettings{})
	if err != nil {
		ro.Destroy()
		return nil, fmt.Errorf("create default write options: %w", err)
	}

	major, minor := engine.Version()
	log.Binding.Debug().Str("engine", engine.Name()).Int("major", major).Int("minor", minor).
		Msg("library initialized")

	return &Library{
		engine:    engine,
		reg:       handle.NewRegistry(),
		defaultRO: ro,
		defaultWO: wo,
		open:      make(map[string]int),
	}, nil
}

// Engine returns the engine name.
func (l *Library) Engine() string {
	return l.engine.Name()
}

func (l *Library) Version() (major, minor int) {
	return l.engine.Version()
}

// Close releases every live handle, databases first together with their
// iterators and snapshots, then destroys the default options. Handles held by
// callers stay valid Go values but report ErrHandleClosed.
func (l *Library) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	l.mu.Unlock()

	err := l.reg.Close()
	l.defaultRO.Destroy()
	l.defaultWO.Destroy()
	log.Binding.Debug().Str("engine", l.engine.Name()).Msg("library closed")
	return err
}

// Destroy removes all engine state at name. A location that is open through
// this library is refused.
func (l *Library) Destroy(name string) error {
	abs, err := filepath.Abs(name)
	if err != nil {
		return &DestroyError{Name: name, Err: err}
	}

	l.mu.Lock()
	if l.open[abs] > 0 {
		l.mu.Unlock()
		return &DestroyError{Name: name, Err: errLocationOpen}
	}
	l.mu.Unlock()

	if err := l.engine.Destroy(name); err != nil {
		return &DestroyError{Name: name, Err: err}
	}
	log.Binding.Debug().Str("name", name).Msg("destroyed")
	return nil
}

func (l *Library) track(abs string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return fmt.Errorf("%w: library is closed", ErrHandleClosed)
	}
	l.open[abs]++
	return nil
}

func (l *Library) untrack(abs string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.open[abs]--; l.open[abs] <= 0 {
		delete(l.open, abs)
	}
}

// live counts the open handles of a kind.
func (l *Library) live(kind handle.Kind) int {
	return l.reg.Live(kind)
}
