package leveldb

import (
	"bytes"
	"fmt"
	"unicode/utf8"
)

type ValueKind uint8

const (
	Absent ValueKind = iota
	Text
	Raw
)

func (k ValueKind) String() string {
	switch k {
	case Absent:
		return "absent"
	case Text:
		return "text"
	case Raw:
		return "raw"
	default:
		return "unknown"
	}
}

// Value is a key or value read back from the engine. It is text when the
// bytes are printable UTF-8 without NUL bytes, raw otherwise, and absent for
// a miss under the non-strict policy.
type Value struct {
	kind ValueKind
	b    []byte
}

// TextValue and RawValue build values to pass back in as keys or values.
func TextValue(s string) Value {
	return Value{kind: Text, b: []byte(s)}
}

func RawValue(b []byte) Value {
	return Value{kind: Raw, b: bytes.Clone(b)}
}

func (v Value) Kind() ValueKind {
	return v.kind
}

func (v Value) IsAbsent() bool {
	return v.kind == Absent
}

// String returns the bytes as a string, empty for an absent value.
func (v Value) String() string {
	return string(v.b)
}

// Bytes returns the underlying bytes, nil for an absent value.
func (v Value) Bytes() []byte {
	return v.b
}

// Interface returns nil, a string or a []byte according to Kind.
func (v Value) Interface() any {
	switch v.kind {
	case Text:
		return string(v.b)
	case Raw:
		return v.b
	default:
		return nil
	}
}

// toBytes accepts a string, a []byte or a non-absent Value.
func toBytes(arg string, x any) ([]byte, error) {
	switch v := x.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		if v == nil {
			return []byte{}, nil
		}
		return v, nil
	case Value:
		if v.IsAbsent() {
			return nil, &ArgumentTypeError{Arg: arg, Reason: "absent value"}
		}
		return v.b, nil
	default:
		return nil, &ArgumentTypeError{Arg: arg, Reason: fmt.Sprintf("expected string or []byte, got %T", x)}
	}
}

// fromBytes takes ownership of b.
func fromBytes(b []byte, forceRaw bool) Value {
	if forceRaw || isSerialized(b) || bytes.IndexByte(b, 0) >= 0 || !utf8.Valid(b) {
		return Value{kind: Raw, b: b}
	}
	return Value{kind: Text, b: b}
}

// isSerialized reports whether b looks like a binary serialization stream:
// an 'X' or 'B' format byte, a newline, and a NUL somewhere in the payload.
func isSerialized(b []byte) bool {
	if len(b) <= 2 {
		return false
	}
	if (b[0] != 'X' && b[0] != 'B') || b[1] != '\n' {
		return false
	}
	return bytes.IndexByte(b, 0) >= 0
}
