//go:build !darwin && !linux && !freebsd

package clevel

const defaultLibrary = ""

func load(string) error {
	return ErrUnavailable
}
