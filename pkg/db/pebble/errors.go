package pebble

import "errors"

var (
	ErrClosed = errors.New("pebble: database is closed")
)

const (
	ErrInIteratorCreation = "failed to create iterator: %w"
	ErrIteratorValue      = "failed to read iterator value: %w"
)
