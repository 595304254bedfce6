package graph

import (
	"testing"

	"github.com/google/uuid"

	"github.com/x37v/go-xsched/core/binding"
	"github.com/x37v/go-xsched/core/param"
)

type recordChild struct {
	id  uuid.UUID
	ran []int
}

func newRecordChild() *recordChild { return &recordChild{id: uuid.New()} }

func (c *recordChild) UUID() uuid.UUID { return c.id }
func (c *recordChild) Exec(ctx *ExecContext) {
	c.ran = append(c.ran, int(ctx.Now))
}

// indexProbeChild reads a node's child_exec_index through a Param bound
// into that slot, the same way an external consumer observes "which
// child is currently running" per spec §4.F/§4.G.
type indexProbeChild struct {
	id   uuid.UUID
	cell *binding.USizeCell
	seen *[]uint64
}

func (c *indexProbeChild) UUID() uuid.UUID { return c.id }
func (c *indexProbeChild) Exec(ctx *ExecContext) {
	*c.seen = append(*c.seen, c.cell.Get())
}

func TestChildExecIndexContract(t *testing.T) {
	// spec §8 "Children iteration": at the moment child i runs,
	// the child_exec_index slot reads i.
	node := NewNode("node::fanout", nil, nil)

	cell := binding.NewUSizeCell(0)
	consumer := param.New[uint64]("val::usize", param.AccessGetSet, cell, nil, nil)
	if err := node.Params().TryBind(ChildExecIndexName, consumer); err != nil {
		t.Fatalf("TryBind child_exec_index: %v", err)
	}

	var seen []uint64
	probe := &indexProbeChild{id: uuid.New(), cell: cell, seen: &seen}
	container := NewIndexedContainer([]Child{probe, probe, probe})
	if _, ok := node.ChildrenSwap(container); !ok {
		t.Fatalf("ChildrenSwap on a Node should succeed")
	}

	node.ChildExecRange(&ExecContext{}, 0, 3)
	want := []uint64{0, 1, 2}
	if len(seen) != len(want) {
		t.Fatalf("ran %d times, want %d", len(seen), len(want))
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("child_exec_index at run %d = %d, want %d", i, seen[i], want[i])
		}
	}
}

func TestIndexedExcessSkipped(t *testing.T) {
	// spec §4.G: "If hi > cs.len() the excess indices are silently
	// skipped."
	node := NewNode("node::fanout", nil, nil)
	a, b := newRecordChild(), newRecordChild()
	container := NewIndexedContainer([]Child{a, b})
	node.ChildrenSwap(container)

	node.ChildExecRange(&ExecContext{Now: 5}, 0, 5)
	if len(a.ran) != 1 || len(b.ran) != 1 {
		t.Fatalf("a ran %d times, b ran %d times, want 1 each", len(a.ran), len(b.ran))
	}
}

func TestNChildReplaysSameChild(t *testing.T) {
	c := newRecordChild()
	container := NewNChildContainer(c)
	node := NewNode("node::fanout", nil, nil)
	node.ChildrenSwap(container)

	node.ChildExecRange(&ExecContext{}, 0, 4)
	if len(c.ran) != 4 {
		t.Fatalf("NChild child ran %d times, want 4", len(c.ran))
	}
	if node.ChildCount().Kind != CountInf {
		t.Errorf("NChild container should report CountInf")
	}
}

func TestNoneContainerDoesNothing(t *testing.T) {
	node := NewNode("node::fanout", nil, nil)
	// Fresh node starts out None.
	node.ChildExecRange(&ExecContext{}, 0, 10)
	if node.ChildCount().Kind != CountNone {
		t.Errorf("fresh node should report CountNone, got %v", node.ChildCount().Kind)
	}
}

func TestLeafRefusesChildrenSwap(t *testing.T) {
	leaf := NewLeaf("leaf::midi::note", nil, nil)
	if _, ok := leaf.ChildrenSwap(NewNoneContainer()); ok {
		t.Fatalf("a Leaf must refuse ChildrenSwap")
	}
	if got := leaf.ChildrenUUIDs(); got != nil {
		t.Errorf("a Leaf's ChildrenUUIDs should be nil, got %v", got)
	}
}

func TestRootGateLifecycle(t *testing.T) {
	root := NewRoot("root::clock", nil, nil)
	if active, isRoot := root.RootActive(); !isRoot || active {
		t.Fatalf("a freshly constructed Root should report (false, true) before RootEvent, got (%v, %v)", active, isRoot)
	}

	gate := root.RootEvent()
	if !gate.Load() {
		t.Fatalf("RootEvent should arm a true gate")
	}
	if active, _ := root.RootActive(); !active {
		t.Errorf("after RootEvent, RootActive should report true")
	}

	root.RootDeactivate()
	if gate.Load() {
		t.Errorf("RootDeactivate should flip the gate to false")
	}
	if active, _ := root.RootActive(); active {
		t.Errorf("after RootDeactivate, RootActive should report false")
	}
}

func TestRootEventQuietsPreviousGate(t *testing.T) {
	root := NewRoot("root::clock", nil, nil)
	first := root.RootEvent()
	second := root.RootEvent()
	if first.Load() {
		t.Errorf("arming a fresh gate should quiet the previous one")
	}
	if !second.Load() {
		t.Errorf("the newly armed gate should be true")
	}
}

func TestCloseDeactivatesRoot(t *testing.T) {
	root := NewRoot("root::clock", nil, nil)
	gate := root.RootEvent()
	if err := root.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if gate.Load() {
		t.Errorf("Close should deactivate the root's current gate")
	}
}

func TestPinUUID(t *testing.T) {
	it := NewLeaf("leaf::midi::note", nil, nil)
	want := uuid.New()
	it.PinUUID(want)
	if it.UUID() != want {
		t.Errorf("after PinUUID, UUID() = %v, want %v", it.UUID(), want)
	}
}
