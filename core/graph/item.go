package graph

import (
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/x37v/go-xsched/core/param"
	"github.com/x37v/go-xsched/core/swap"
)

// Kind distinguishes the three GraphItem variants (spec §3).
type Kind int

const (
	Leaf Kind = iota
	Node
	Root
)

func (k Kind) String() string {
	switch k {
	case Leaf:
		return "Leaf"
	case Node:
		return "Node"
	case Root:
		return "Root"
	default:
		return "?"
	}
}

// ChildExecIndexName is the reserved parameter-slot name every Node and
// Root pre-registers, per spec §4.F.
const ChildExecIndexName = "child_exec_index"

// ExecFunc is a graph item's own behavior: what a Leaf does on dispatch,
// or what a Node/Root does to drive its children (typically calling
// ExecRange on its own SwapChildren). It is supplied by the graph factory
// that constructs the item.
type ExecFunc func(ctx *ExecContext)

// Item is a Leaf, Node, or Root (spec §3/§4.F). Internal and root variants
// carry a swappable children container and a pre-wired child_exec_index
// slot; roots additionally carry a gate used to start/stop them.
type Item struct {
	id       uuid.UUID
	typeName string
	kind     Kind
	params   *param.Map
	exec     ExecFunc

	children *SwapChildren // nil for Leaf

	gate atomic.Pointer[atomic.Bool] // nil (zero value) when inactive; Root only
}

// NewLeaf constructs a leaf item: no children, no gate.
func NewLeaf(typeName string, params *param.Map, exec ExecFunc) *Item {
	if params == nil {
		params = param.NewMap(nil)
	}
	return &Item{id: uuid.New(), typeName: typeName, kind: Leaf, params: params, exec: exec}
}

// NewNode constructs an internal node: it gets a SwapChildren and a
// pre-wired child_exec_index Set[uint64] slot, installed into params
// under ChildExecIndexName, matching the slot's swap cell exactly (spec
// §4.F: "wired to the same swap cell the item will Set when it
// iterates its children").
func NewNode(typeName string, params *param.Map, exec ExecFunc) *Item {
	it, childExecIndex := newWithChildren(typeName, Node, params, exec)
	_ = childExecIndex
	return it
}

// NewRoot constructs a root item: same child_exec_index contract as Node,
// plus a gate used by RootEvent/RootDeactivate.
func NewRoot(typeName string, params *param.Map, exec ExecFunc) *Item {
	it, _ := newWithChildren(typeName, Root, params, exec)
	return it
}

func newWithChildren(typeName string, kind Kind, params *param.Map, exec ExecFunc) (*Item, *swap.Set[uint64]) {
	if params == nil {
		params = param.NewMap(nil)
	}
	slot, _, setCell := param.NewSlot[uint64](ChildExecIndexName, param.AccessSet)
	params.InsertUnbound(ChildExecIndexName, slot)
	children := NewSwapChildren(setCell)
	return &Item{
		id:       uuid.New(),
		typeName: typeName,
		kind:     kind,
		params:   params,
		exec:     exec,
		children: children,
	}, setCell
}

func (it *Item) UUID() uuid.UUID    { return it.id }

// PinUUID overrides the id NewLeaf/NewNode/NewRoot just assigned with one
// the control plane was asked to use instead (the command envelope's
// optional GraphItemCreate.id, spec §6). Only safe to call on a freshly
// constructed Item the interpreter has not yet published into the
// system's graph map.
func (it *Item) PinUUID(id uuid.UUID) { it.id = id }
func (it *Item) TypeName() string   { return it.typeName }
func (it *Item) Kind() Kind         { return it.kind }
func (it *Item) Params() *param.Map { return it.params }

// SetExec installs this item's own behavior after construction, for
// factories whose exec closure needs to capture the *Item itself (e.g. to
// call its own ChildExecRange/ChildCount). Construction-time-only; not
// meant to be called once an item is live in the graph.
func (it *Item) SetExec(fn ExecFunc) { it.exec = fn }

// Exec runs this item's own behavior: a leaf's payload, or a node/root's
// child-driving logic.
func (it *Item) Exec(ctx *ExecContext) {
	if it.exec != nil {
		it.exec(ctx)
	}
}

// ChildrenUUIDs lists child UUIDs for Node/Root; nil for Leaf (spec
// §4.F "Option<Vec<Uuid>>").
func (it *Item) ChildrenUUIDs() []uuid.UUID {
	if it.children == nil {
		return nil
	}
	return it.children.ChildUUIDs()
}

// ChildrenTypeName reports "None"/"NChild"/"Indexed" for Node/Root, or
// "" for a Leaf, which has no children container at all.
func (it *Item) ChildrenTypeName() string {
	if it.children == nil {
		return ""
	}
	return it.children.TypeName()
}

// ChildrenSwap atomically replaces the whole children container on a
// Node/Root. Leaves refuse with ok=false. Callers (the command
// interpreter) are expected to have already resolved every child UUID
// against the live graph map before calling this, since an unknown UUID
// must be refused before any swap happens, leaving the previous children
// installed (spec §4.F, §7).
func (it *Item) ChildrenSwap(next *Container) (old *Container, ok bool) {
	if it.children == nil {
		return nil, false
	}
	return it.children.Swap(next), true
}

// ChildExecRange drives children [lo,hi) on a Node/Root; a no-op on Leaf.
func (it *Item) ChildExecRange(ctx *ExecContext, lo, hi int) {
	if it.children == nil {
		return
	}
	it.children.ExecRange(ctx, lo, hi)
}

// ChildCount reports the current child count for Node/Root.
func (it *Item) ChildCount() Count {
	if it.children == nil {
		return Count{Kind: CountNone}
	}
	return it.children.Count()
}

// RootActive reports the gate's current state for a Root, or (false,
// false) for Leaf/Node (spec §4.F "Option<bool>").
func (it *Item) RootActive() (active bool, isRoot bool) {
	if it.kind != Root {
		return false, false
	}
	g := it.gate.Load()
	if g == nil {
		return false, true
	}
	return g.Load(), true
}

// RootEvent arms a fresh gate (true) for a Root and returns it, quieting
// any previously-live gate first so its chain drops on its next dispatch
// (spec §4.F). It panics if called on a non-Root, which is a factory
// programming error, not a runtime condition.
func (it *Item) RootEvent() *atomic.Bool {
	if it.kind != Root {
		panic("graph: RootEvent called on non-Root item")
	}
	fresh := &atomic.Bool{}
	fresh.Store(true)
	if old := it.gate.Swap(fresh); old != nil {
		old.Store(false)
	}
	return fresh
}

// RootDeactivate stores false into the current gate and clears it, so no
// further dispatch of this root's event chain occurs (spec §4.F). It is
// a no-op on Leaf/Node and safe to call more than once.
func (it *Item) RootDeactivate() {
	if it.kind != Root {
		return
	}
	if g := it.gate.Swap(nil); g != nil {
		g.Store(false)
	}
}

// Close deactivates a Root if it is one, matching spec §3's "Dropping a
// Root must deactivate it first."
func (it *Item) Close() error {
	it.RootDeactivate()
	return nil
}
