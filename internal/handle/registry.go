// Package handle tracks native resources handed out to callers. Every
// resource lives in exactly one Cell; a Cell is either open and owns its
// resource, or empty. Cells may have a parent, in which case they are
// released before the parent's own destructor runs.
//
// Lock order is always parent before child.
package handle

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync"
)

type Kind uint8

const (
	KindDB Kind = iota + 1
	KindIterator
	KindSnapshot
	KindReadOptions
	KindWriteOptions
)

func (k Kind) String() string {
	switch k {
	case KindDB:
		return "database"
	case KindIterator:
		return "iterator"
	case KindSnapshot:
		return "snapshot"
	case KindReadOptions:
		return "read options"
	case KindWriteOptions:
		return "write options"
	default:
		return "unknown"
	}
}

// ID identifies a cell within its registry. Zero is never assigned.
type ID uint64

var (
	ErrInvalidKind = errors.New("invalid handle")
	ErrClosed      = errors.New("handle is closed")
)

// node is the type-erased view of a Cell kept by the registry.
type node interface {
	setID(ID)
	id() ID
	parentID() ID
	kind() Kind
	rlock()
	runlock()
	// isOpen must be called with the node locked.
	isOpen() bool
	// releaseChild is called by the parent while it holds its own lock.
	releaseChild() (bool, error)
	release(errorIfClosed bool) (bool, error)
}

type Registry struct {
	mu       sync.Mutex
	nextID   ID
	nodes    map[ID]node
	children map[ID]map[ID]node
	closed   bool
}

func NewRegistry() *Registry {
	return &Registry{
		nodes:    make(map[ID]node),
		children: make(map[ID]map[ID]node),
	}
}

func (r *Registry) add(n node, parent ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return fmt.Errorf("%w: registry is torn down", ErrClosed)
	}
	if parent != 0 {
		if _, ok := r.nodes[parent]; !ok {
			return fmt.Errorf("%w: parent %d is gone", ErrClosed, parent)
		}
	}
	r.nextID++
	id := r.nextID
	n.setID(id)
	r.nodes[id] = n
	if parent != 0 {
		kids, ok := r.children[parent]
		if !ok {
			kids = make(map[ID]node)
			r.children[parent] = kids
		}
		kids[id] = n
	}
	return nil
}

func (r *Registry) remove(id, parent ID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.nodes, id)
	delete(r.children, id)
	if kids, ok := r.children[parent]; ok {
		delete(kids, id)
	}
}

func (r *Registry) lookup(id ID) node {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.nodes[id]
}

// detachChildren removes and returns the children of id, oldest first.
func (r *Registry) detachChildren(id ID) []node {
	r.mu.Lock()
	kids := r.children[id]
	delete(r.children, id)
	r.mu.Unlock()

	out := make([]node, 0, len(kids))
	for _, n := range kids {
		out = append(out, n)
	}
	slices.SortFunc(out, func(a, b node) int {
		return cmp.Compare(a.id(), b.id())
	})
	return out
}

// Live counts the open cells of the given kind.
func (r *Registry) Live(kind Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, c := range r.nodes {
		if c.kind() == kind {
			n++
		}
	}
	return n
}

// Close refuses further registrations and releases every live cell. Roots
// are released in creation order, each taking its children with it.
func (r *Registry) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	var roots []node
	for _, n := range r.nodes {
		if n.parentID() == 0 {
			roots = append(roots, n)
		}
	}
	r.mu.Unlock()

	slices.SortFunc(roots, func(a, b node) int {
		return cmp.Compare(a.id(), b.id())
	})
	var errs []error
	for _, n := range roots {
		if _, err := n.release(false); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
