package renderer

import (
	"sync"
	"sync/atomic"
)

// resource is a GPU object that must be destroyed explicitly.
type resource interface {
	destroy()
}

type refCount[T resource] struct {
	val T
	n   atomic.Int32
}

// Ref is a counted reference to a GPU resource. The resource is destroyed
// when the last Ref to it is released, which may be after it has been
// unloaded from its registry.
//
// Every Ref obtained from the renderer must be released exactly once.
// Release is idempotent per Ref; a Ref must not be used after Release.
type Ref[T resource] struct {
	rc       *refCount[T]
	released atomic.Bool
}

func newRef[T resource](v T) *Ref[T] {
	rc := &refCount[T]{val: v}
	rc.n.Store(1)
	return &Ref[T]{rc: rc}
}

// Value returns the referenced resource.
func (r *Ref[T]) Value() T { return r.rc.val }

// Clone returns a new Ref to the same resource.
func (r *Ref[T]) Clone() *Ref[T] {
	r.rc.n.Add(1)
	return &Ref[T]{rc: r.rc}
}

// Release drops r. Releasing the last reference destroys the resource.
func (r *Ref[T]) Release() {
	if r.released.Swap(true) {
		return
	}
	if r.rc.n.Add(-1) == 0 {
		r.rc.val.destroy()
	}
}

// Count returns the number of live references to the resource.
func (r *Ref[T]) Count() int { return int(r.rc.n.Load()) }

// registry maps ids to counted references. It holds one reference per entry.
type registry[I comparable, T resource] struct {
	mu sync.Mutex
	m  map[I]*Ref[T]
}

// load inserts v under id unless id is taken. On false, v still belongs to
// the caller.
func (g *registry[I, T]) load(id I, v T) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.m[id]; ok {
		return false
	}
	if g.m == nil {
		g.m = make(map[I]*Ref[T])
	}
	g.m[id] = newRef(v)
	return true
}

// unload removes id and drops the registry's reference.
func (g *registry[I, T]) unload(id I) bool {
	g.mu.Lock()
	ref, ok := g.m[id]
	delete(g.m, id)
	g.mu.Unlock()
	if ok {
		ref.Release()
	}
	return ok
}

// get returns a new reference to the resource under id, or nil.
func (g *registry[I, T]) get(id I) *Ref[T] {
	g.mu.Lock()
	defer g.mu.Unlock()
	if ref, ok := g.m[id]; ok {
		return ref.Clone()
	}
	return nil
}

func (g *registry[I, T]) loaded(id I) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.m[id]
	return ok
}

func (g *registry[I, T]) len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.m)
}

// clear unloads everything.
func (g *registry[I, T]) clear() {
	g.mu.Lock()
	m := g.m
	g.m = nil
	g.mu.Unlock()
	for _, ref := range m {
		ref.Release()
	}
}
