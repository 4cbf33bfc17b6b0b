package leveldb

import (
	"errors"
	"fmt"

	"github.com/eigerco/levelbind/internal/handle"
)

var (
	// ErrInvalidHandleKind is returned when a handle is nil, zero-valued,
	// of the wrong kind or created by another Library.
	ErrInvalidHandleKind = handle.ErrInvalidKind
	// ErrHandleClosed is returned for operations on a released handle.
	ErrHandleClosed = handle.ErrClosed

	ErrKeyNotFound      = errors.New("leveldb: key not found")
	ErrIteratorInvalid  = errors.New("leveldb: iterator is not positioned on an entry")
	ErrPropertyNotFound = errors.New("leveldb: unknown property")

	errLocationOpen = errors.New("location is open in this process")
)

// OpenError is an engine failure while opening a location.
type OpenError struct {
	Name string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("leveldb: open %q: %v", e.Name, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

// DestroyError is a failure to remove a location.
type DestroyError struct {
	Name string
	Err  error
}

func (e *DestroyError) Error() string {
	return fmt.Sprintf("leveldb: destroy %q: %v", e.Name, e.Err)
}

func (e *DestroyError) Unwrap() error {
	return e.Err
}

// WriteError is an engine failure in Put or Delete.
type WriteError struct {
	Op  string
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("leveldb: %s: %v", e.Op, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// ReadError is an engine failure in a read or while moving a cursor.
type ReadError struct {
	Op  string
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("leveldb: %s: %v", e.Op, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// ArgumentTypeError reports an argument of the wrong type or shape.
type ArgumentTypeError struct {
	Arg    string
	Reason string
}

func (e *ArgumentTypeError) Error() string {
	return fmt.Sprintf("leveldb: invalid %s: %s", e.Arg, e.Reason)
}

func invalidHandle(kind handle.Kind) error {
	return fmt.Errorf("%w: expected a %s handle, got an uninitialized one", ErrInvalidHandleKind, kind)
}
