// Package swap implements the single-writer/many-reader rebind primitive
// described in spec §4.C: a pointer-sized slot that names which concrete
// binding a parameter currently delegates to, replaceable by the control
// thread without ever blocking or tearing a read on the audio thread.
package swap

import (
	"sync/atomic"

	"github.com/x37v/go-xsched/core/binding"
)

// Get is a swappable Get[T]: it owns an atomic.Pointer to the currently
// bound Get[T] and dispatches every read through it. Reads never allocate
// and never block; the pointer itself is read with a single atomic load.
type Get[T any] struct {
	cur atomic.Pointer[binding.Get[T]]
}

// NewGet returns a swap cell pre-bound to zero, a Constant holding T's
// zero value, per spec §4.C ("unbind resets the slot to a zero source").
func NewGet[T any](zero T) *Get[T] {
	g := &Get[T]{}
	g.Unbind(zero)
	return g
}

// Get dispatches through whichever binding is currently installed.
func (g *Get[T]) Get() T {
	p := g.cur.Load()
	return (*p).Get()
}

// Bind atomically replaces the inner binding. The previous inner remains
// alive for as long as any in-flight reader still holds a copy of the old
// pointer — ordinary Go GC reference counting, not deferred destruction.
func (g *Get[T]) Bind(inner binding.Get[T]) {
	g.cur.Store(&inner)
}

// Unbind resets the cell to a constant holding zero so reads stay defined.
func (g *Get[T]) Unbind(zero T) {
	var c binding.Get[T] = binding.NewConstant(zero)
	g.cur.Store(&c)
}

// Set is a swappable Set[T]: the mirror of Get for the write direction.
type Set[T any] struct {
	cur atomic.Pointer[binding.Set[T]]
}

// NewSet returns a swap cell pre-bound to a sink that drops every write
// (the Set-direction equivalent of a zero source).
func NewSet[T any]() *Set[T] {
	s := &Set[T]{}
	s.Unbind()
	return s
}

// Set dispatches through whichever binding is currently installed.
func (s *Set[T]) Set(v T) {
	p := s.cur.Load()
	(*p).Set(v)
}

// Bind atomically replaces the inner binding.
func (s *Set[T]) Bind(inner binding.Set[T]) {
	s.cur.Store(&inner)
}

// Unbind resets the cell to a sink that discards writes.
func (s *Set[T]) Unbind() {
	var sink binding.Set[T] = discard[T]{}
	s.cur.Store(&sink)
}

type discard[T any] struct{}

func (discard[T]) Set(T) {}
