package control

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"

	"github.com/x37v/go-xsched/core/factory"
	"github.com/x37v/go-xsched/core/param"
	"github.com/x37v/go-xsched/core/xserr"
)

func newTestSystem(t *testing.T) *System {
	t.Helper()
	pf := factory.NewParamFactories()
	factory.RegisterDefaults(pf)
	gf := factory.NewGraphFactories()
	factory.RegisterDefaultGraph(gf)
	return NewSystem(pf, gf, &factory.FactoryContext{})
}

// TestConstRebindScenario is spec §8 scenario 1, driven entirely through
// the command envelope the way the OSCQuery transport would submit it.
func TestConstRebindScenario(t *testing.T) {
	s := newTestSystem(t)

	errs := s.Interpret(Command{ParamCreate: &ParamCreateCmd{TypeName: "const::usize", Args: json.RawMessage("7")}})
	if len(errs) != 0 {
		t.Fatalf("ParamCreate const::usize: %v", errs)
	}
	errs = s.Interpret(Command{ParamCreate: &ParamCreateCmd{TypeName: "val::usize", Args: json.RawMessage("0")}})
	if len(errs) != 0 {
		t.Fatalf("ParamCreate val::usize: %v", errs)
	}

	var p1, p2 uuid.UUID
	for _, id := range s.ParamIDs() {
		p, _ := s.Param(id)
		if p.TypeName() == "const::usize" {
			p1 = id
		} else {
			p2 = id
		}
	}

	errs = s.Interpret(Command{GraphItemCreate: &GraphItemCreateCmd{TypeName: "node::fanout"}})
	if len(errs) != 0 {
		t.Fatalf("GraphItemCreate node::fanout: %v", errs)
	}
	var nodeID uuid.UUID
	for _, id := range s.GraphItemIDs() {
		nodeID = id
	}

	node, _ := s.GraphItem(nodeID)
	// node::fanout exposes no "x" slot of its own; install one directly
	// to mirror the scenario's "N.params['x']" fixture.
	slot, getCell, _ := param.NewSlot[uint64]("x", param.AccessGet)
	node.Params().InsertUnbound("x", slot)

	errs = s.Interpret(Command{ParamBind: &ParamBindCmd{Owner: Owner{GraphItem: &nodeID}, ParamName: "x", ParamID: p1}})
	if len(errs) != 0 {
		t.Fatalf("ParamBind x=p1: %v", errs)
	}
	if got := getCell.Get(); got != 7 {
		t.Fatalf("after bind to const=7, Get() = %d, want 7", got)
	}

	errs = s.Interpret(Command{ParamBind: &ParamBindCmd{Owner: Owner{GraphItem: &nodeID}, ParamName: "x", ParamID: p2}})
	if len(errs) != 0 {
		t.Fatalf("ParamBind x=p2: %v", errs)
	}
	if got := getCell.Get(); got != 0 {
		t.Fatalf("after rebind to val=0, Get() = %d, want 0", got)
	}

	p2Param, _ := s.Param(p2)
	setter, err := param.AsSet[uint64](p2Param)
	if err != nil {
		t.Fatalf("AsSet on p2: %v", err)
	}
	setter.Set(9)
	if got := getCell.Get(); got != 9 {
		t.Fatalf("after Set(p2, 9), Get() = %d, want 9", got)
	}

	errs = s.Interpret(Command{ParamUnbind: &ParamUnbindCmd{Owner: Owner{GraphItem: &nodeID}, ParamName: "x"}})
	if len(errs) != 0 {
		t.Fatalf("ParamUnbind x: %v", errs)
	}
	if got := getCell.Get(); got != 0 {
		t.Fatalf("after unbind, Get() = %d, want the zero default 0", got)
	}
}

// TestTagMismatchScenario is spec §8 scenario 6.
func TestTagMismatchScenario(t *testing.T) {
	s := newTestSystem(t)

	errs := s.Interpret(Command{ParamCreate: &ParamCreateCmd{TypeName: "const::bool", Args: json.RawMessage("true")}})
	if len(errs) != 0 {
		t.Fatalf("ParamCreate const::bool: %v", errs)
	}
	var boolID uuid.UUID
	for _, id := range s.ParamIDs() {
		boolID = id
	}

	errs = s.Interpret(Command{GraphItemCreate: &GraphItemCreateCmd{TypeName: "node::fanout"}})
	if len(errs) != 0 {
		t.Fatalf("GraphItemCreate: %v", errs)
	}
	var nodeID uuid.UUID
	for _, id := range s.GraphItemIDs() {
		nodeID = id
	}
	node, _ := s.GraphItem(nodeID)
	slot, getCell, _ := param.NewSlot[uint64]("x", param.AccessGet)
	node.Params().InsertUnbound("x", slot)

	errs = s.Interpret(Command{ParamBind: &ParamBindCmd{Owner: Owner{GraphItem: &nodeID}, ParamName: "x", ParamID: boolID}})
	if len(errs) != 1 || errs[0] != xserr.ErrTagMismatch {
		t.Fatalf("ParamBind bool into usize slot = %v, want [ErrTagMismatch]", errs)
	}
	if got := getCell.Get(); got != 0 {
		t.Errorf("slot should remain unbound at its zero value, got %d", got)
	}
}

func TestBatchIsSequenceNotTransaction(t *testing.T) {
	// spec §5: "A Batch command is processed as a sequence, not a
	// transaction" — a failing sub-command doesn't roll back or skip the
	// rest.
	s := newTestSystem(t)
	batch := Command{Batch: []Command{
		{ParamCreate: &ParamCreateCmd{TypeName: "const::usize", Args: json.RawMessage("1")}},
		{ParamBind: &ParamBindCmd{Owner: Owner{Param: &uuid.Nil}, ParamName: "nope", ParamID: uuid.New()}}, // fails: unknown owner
		{ParamCreate: &ParamCreateCmd{TypeName: "const::usize", Args: json.RawMessage("2")}},
	}}
	errs := s.Interpret(batch)
	if len(errs) != 1 {
		t.Fatalf("Interpret(batch) returned %d errors, want exactly 1 (the middle command)", len(errs))
	}
	if len(s.ParamIDs()) != 2 {
		t.Fatalf("both ParamCreate commands should have applied despite the middle failure, got %d params", len(s.ParamIDs()))
	}
}

func TestNotFoundForUnknownOwner(t *testing.T) {
	s := newTestSystem(t)
	unknown := uuid.New()
	errs := s.Interpret(Command{ParamBind: &ParamBindCmd{Owner: Owner{Param: &unknown}, ParamName: "x", ParamID: uuid.New()}})
	if len(errs) != 1 || errs[0] != xserr.ErrNotFound {
		t.Fatalf("errs = %v, want [ErrNotFound]", errs)
	}
}

func TestChildrenSwapRefusesUnknownUUID(t *testing.T) {
	s := newTestSystem(t)
	s.Interpret(Command{GraphItemCreate: &GraphItemCreateCmd{TypeName: "node::fanout"}})
	var parentID uuid.UUID
	for _, id := range s.GraphItemIDs() {
		parentID = id
	}

	errs := s.Interpret(Command{GraphNodeSetChildren: &GraphNodeSetChildrenCmd{
		ParentID: parentID,
		Children: GraphNodeChildren{Indexed: []uuid.UUID{uuid.New()}},
	}})
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error for an unknown child uuid, got %v", errs)
	}
	parent, _ := s.GraphItem(parentID)
	if parent.ChildrenTypeName() != "None" {
		t.Fatalf("a refused swap must leave the previous (empty) children installed, got %q", parent.ChildrenTypeName())
	}
}

func TestPinUUIDViaParamCreate(t *testing.T) {
	s := newTestSystem(t)
	want := uuid.New()
	errs := s.Interpret(Command{ParamCreate: &ParamCreateCmd{ID: &want, TypeName: "const::bool", Args: json.RawMessage("true")}})
	if len(errs) != 0 {
		t.Fatalf("ParamCreate: %v", errs)
	}
	if _, ok := s.Param(want); !ok {
		t.Fatalf("Param pinned to id %v should be reachable by that id", want)
	}
}
