//go:build darwin || linux || freebsd

package clevel

import (
	"fmt"

	"github.com/ebitengine/purego"
)

func load(path string) error {
	lib, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	for _, s := range symbols {
		sym, err := purego.Dlsym(lib, s.name)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrUnavailable, s.name, err)
		}
		purego.RegisterFunc(s.fptr, sym)
	}
	return nil
}
