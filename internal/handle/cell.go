package handle

import (
	"errors"
	"fmt"
	"sync"

	"github.com/eigerco/levelbind/pkg/log"
)

// Cell owns one native resource on behalf of a caller-visible handle.
type Cell[T any] struct {
	mu      sync.RWMutex
	reg     *Registry
	cid     ID
	ckind   Kind
	parent  ID
	res     T
	open    bool
	destroy func(T) error
}

// Wrap registers res under reg. destroy runs exactly once, either from
// Release, from the parent's release or from Registry.Close. On error the
// caller still owns res.
func Wrap[T any](reg *Registry, kind Kind, parent ID, res T, destroy func(T) error) (*Cell[T], error) {
	c := &Cell[T]{
		reg:     reg,
		ckind:   kind,
		parent:  parent,
		res:     res,
		open:    true,
		destroy: destroy,
	}
	if err := reg.add(c, parent); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Cell[T]) ID() ID {
	return c.cid
}

func (c *Cell[T]) Kind() Kind {
	return c.ckind
}

// Parent returns the ID of the owning cell, zero for roots.
func (c *Cell[T]) Parent() ID {
	return c.parent
}

// Check fails with ErrInvalidKind unless c is a cell of the given kind that
// was registered with reg.
func (c *Cell[T]) Check(reg *Registry, kind Kind) error {
	if c == nil {
		return fmt.Errorf("%w: expected a %s handle, got an uninitialized one", ErrInvalidKind, kind)
	}
	if c.ckind != kind {
		return fmt.Errorf("%w: expected a %s handle, got a %s handle", ErrInvalidKind, kind, c.ckind)
	}
	if c.reg != reg {
		return fmt.Errorf("%w: %s handle belongs to another library", ErrInvalidKind, kind)
	}
	return nil
}

// Shared read-locks the cell and returns its resource. unlock must be called
// once the caller is done with the resource. An empty cell fails with
// ErrClosed.
func (c *Cell[T]) Shared() (res T, unlock func(), err error) {
	c.mu.RLock()
	if !c.open {
		c.mu.RUnlock()
		return res, nil, fmt.Errorf("%w: %s", ErrClosed, c.ckind)
	}
	return c.res, c.mu.RUnlock, nil
}

// Exclusive is Shared with a write lock, for resources that are not safe
// for concurrent use.
func (c *Cell[T]) Exclusive() (res T, unlock func(), err error) {
	c.mu.Lock()
	if !c.open {
		c.mu.Unlock()
		return res, nil, fmt.Errorf("%w: %s", ErrClosed, c.ckind)
	}
	return c.res, c.mu.Unlock, nil
}

// Release destroys the resource and empties the cell, children first. It
// reports whether the cell was open. Releasing an empty cell fails with
// ErrClosed only if errorIfClosed is set.
//
// The parent is re-resolved by ID. If it has already been released the
// resource is treated as implicitly invalid and destroy is not called.
func (c *Cell[T]) Release(errorIfClosed bool) (bool, error) {
	return c.release(errorIfClosed)
}

// Finalize is Release for a handle the caller dropped without releasing.
func (c *Cell[T]) Finalize() {
	wasOpen, err := c.release(false)
	if err != nil {
		log.Finalizer.Error().Err(err).Stringer("kind", c.ckind).Uint64("id", uint64(c.cid)).
			Msg("destructor failed during cleanup")
		return
	}
	if wasOpen {
		log.Finalizer.Warn().Stringer("kind", c.ckind).Uint64("id", uint64(c.cid)).
			Msg("handle was never released; reclaimed by cleanup")
	}
}

func (c *Cell[T]) release(errorIfClosed bool) (bool, error) {
	parentOpen := true
	if c.parent != 0 {
		p := c.reg.lookup(c.parent)
		if p == nil {
			parentOpen = false
		} else {
			p.rlock()
			defer p.runlock()
			parentOpen = p.isOpen()
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.open {
		if errorIfClosed {
			return false, fmt.Errorf("%w: %s already released", ErrClosed, c.ckind)
		}
		return false, nil
	}
	if !parentOpen {
		c.clear()
		c.reg.remove(c.cid, c.parent)
		return false, nil
	}
	return c.releaseLocked()
}

func (c *Cell[T]) releaseLocked() (bool, error) {
	var errs []error
	for _, child := range c.reg.detachChildren(c.cid) {
		if _, err := child.releaseChild(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := c.destroy(c.res); err != nil {
		errs = append(errs, fmt.Errorf("destroy %s: %w", c.ckind, err))
	}
	c.clear()
	c.reg.remove(c.cid, c.parent)
	return true, errors.Join(errs...)
}

func (c *Cell[T]) clear() {
	var zero T
	c.res = zero
	c.open = false
}

func (c *Cell[T]) setID(id ID) {
	c.cid = id
}

func (c *Cell[T]) id() ID {
	return c.cid
}

func (c *Cell[T]) parentID() ID {
	return c.parent
}

func (c *Cell[T]) kind() Kind {
	return c.ckind
}

func (c *Cell[T]) rlock() {
	c.mu.RLock()
}

func (c *Cell[T]) runlock() {
	c.mu.RUnlock()
}

func (c *Cell[T]) isOpen() bool {
	return c.open
}

func (c *Cell[T]) releaseChild() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.open {
		return false, nil
	}
	return c.releaseLocked()
}
