// Package graph implements the graph-item and children-container layer
// (spec §4.F, §4.G): leaves, internal nodes, roots, and the swappable
// container that drives child iteration.
package graph

import (
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/x37v/go-xsched/core/swap"
)

// ExecContext is passed to every child during child_exec_range and to
// every dispatched scheduler event; it carries the timing facts an exec
// needs without it reaching back into scheduler internals.
type ExecContext struct {
	Now        uint64 // max(dispatch tick, scheduler's tick-before-run)
	End        uint64 // scheduler's tick-before-run + frames
	SampleRate uint64
}

// Child is anything a children container can iterate: a graph item's own
// Exec entry point plus its identity. *Item satisfies this directly.
type Child interface {
	UUID() uuid.UUID
	Exec(ctx *ExecContext)
}

// ContainerKind is the closed set of children-container shapes (spec §3).
type ContainerKind int

const (
	ContainerNone ContainerKind = iota
	ContainerNChild
	ContainerIndexed
)

func (k ContainerKind) String() string {
	switch k {
	case ContainerNone:
		return "None"
	case ContainerNChild:
		return "NChild"
	case ContainerIndexed:
		return "Indexed"
	default:
		return "?"
	}
}

// CountKind distinguishes a finite child count from the "replayed forever"
// NChild count.
type CountKind int

const (
	CountNone CountKind = iota
	CountInf
	CountSome
)

// Count is the reported size of a children container.
type Count struct {
	Kind CountKind
	N    int
}

// Container is one immutable snapshot of a children arrangement: None, a
// single replayed child (NChild), or an index-addressed vector (Indexed).
// It is swapped as a whole unit by SwapChildren, never mutated in place.
type Container struct {
	kind    ContainerKind
	nchild  Child
	indexed []Child
	uuids   []uuid.UUID
}

// NewNoneContainer returns the empty children container.
func NewNoneContainer() *Container {
	return &Container{kind: ContainerNone}
}

// NewNChildContainer returns a container that replays the same child for
// every index in a range.
func NewNChildContainer(c Child) *Container {
	return &Container{kind: ContainerNChild, nchild: c, uuids: []uuid.UUID{c.UUID()}}
}

// NewIndexedContainer returns a container addressed by position.
func NewIndexedContainer(cs []Child) *Container {
	uuids := make([]uuid.UUID, len(cs))
	for i, c := range cs {
		uuids[i] = c.UUID()
	}
	cp := make([]Child, len(cs))
	copy(cp, cs)
	return &Container{kind: ContainerIndexed, indexed: cp, uuids: uuids}
}

// Kind reports which variant this container is.
func (c *Container) Kind() ContainerKind { return c.kind }

// ChildUUIDs lists the UUIDs of children in this container, for
// introspection.
func (c *Container) ChildUUIDs() []uuid.UUID {
	out := make([]uuid.UUID, len(c.uuids))
	copy(out, c.uuids)
	return out
}

// Count reports this container's declared child count.
func (c *Container) Count() Count {
	switch c.kind {
	case ContainerNone:
		return Count{Kind: CountNone}
	case ContainerNChild:
		return Count{Kind: CountInf}
	default:
		return Count{Kind: CountSome, N: len(c.indexed)}
	}
}

// execRange runs children [lo,hi), setting childExecIndex to i before
// running child i, per spec §4.G. Excess indices beyond an Indexed
// container's length are silently skipped.
func (c *Container) execRange(ctx *ExecContext, lo, hi int, childExecIndex *swap.Set[uint64]) {
	switch c.kind {
	case ContainerNone:
		return
	case ContainerNChild:
		for i := lo; i < hi; i++ {
			childExecIndex.Set(uint64(i))
			c.nchild.Exec(ctx)
		}
	case ContainerIndexed:
		for i := lo; i < hi; i++ {
			if i >= len(c.indexed) {
				continue
			}
			childExecIndex.Set(uint64(i))
			c.indexed[i].Exec(ctx)
		}
	}
}

// SwapChildren wraps a Container plus the single swap cell its owning
// Node/Root sets as child_exec_index (spec §4.G). Replacement is a single
// atomic pointer store; readers in flight continue safely against the
// pre-swap container.
type SwapChildren struct {
	cur            atomic.Pointer[Container]
	childExecIndex *swap.Set[uint64]
}

// NewSwapChildren returns a SwapChildren starting out empty (None),
// driving the given child_exec_index swap cell.
func NewSwapChildren(childExecIndex *swap.Set[uint64]) *SwapChildren {
	s := &SwapChildren{childExecIndex: childExecIndex}
	s.cur.Store(NewNoneContainer())
	return s
}

// Count reports the current container's child count.
func (s *SwapChildren) Count() Count {
	return s.cur.Load().Count()
}

// ChildUUIDs lists the current container's child UUIDs.
func (s *SwapChildren) ChildUUIDs() []uuid.UUID {
	return s.cur.Load().ChildUUIDs()
}

// TypeName returns the current container's variant name.
func (s *SwapChildren) TypeName() string {
	return s.cur.Load().Kind().String()
}

// ExecRange runs the current container's children over [lo,hi), reading a
// single consistent container snapshot for the whole call.
func (s *SwapChildren) ExecRange(ctx *ExecContext, lo, hi int) {
	c := s.cur.Load()
	c.execRange(ctx, lo, hi, s.childExecIndex)
}

// Swap atomically installs a new container, returning the one it
// replaced.
func (s *SwapChildren) Swap(next *Container) *Container {
	return s.cur.Swap(next)
}
