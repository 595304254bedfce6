package factory

import (
	"github.com/x37v/go-xsched/core/graph"
	"github.com/x37v/go-xsched/core/midi"
	"github.com/x37v/go-xsched/core/sched"
	"github.com/x37v/go-xsched/core/xserr"
)

// FactoryContext carries the scheduler queue handles a graph factory may
// need to wire a new item into, per spec §4.K ("the scheduler's queue
// handles").
type FactoryContext struct {
	Scheduler *sched.Scheduler
	MIDIQueue *midi.Queue
}

// GraphFunc accepts optional JSON args plus the scheduler's queue handles
// and returns a fully constructed GraphItem.
type GraphFunc func(ctx *FactoryContext, args []byte) (*graph.Item, error)

// GraphFactories is the type_name-keyed registry of graph item
// constructors (spec §4.K).
type GraphFactories struct {
	fns map[string]GraphFunc
}

// NewGraphFactories returns an empty registry; populate it with
// RegisterDefaultGraph.
func NewGraphFactories() *GraphFactories {
	return &GraphFactories{fns: make(map[string]GraphFunc)}
}

// Register installs fn under typeName.
func (f *GraphFactories) Register(typeName string, fn GraphFunc) {
	if _, exists := f.fns[typeName]; exists {
		panic("factory: duplicate graph type_name " + typeName)
	}
	f.fns[typeName] = fn
}

// Create builds a GraphItem named typeName from args, or TypeNotFound.
func (f *GraphFactories) Create(ctx *FactoryContext, typeName string, args []byte) (*graph.Item, error) {
	fn, ok := f.fns[typeName]
	if !ok {
		return nil, xserr.ErrTypeNotFound
	}
	return fn(ctx, args)
}

// RegisterDefaultGraph installs the minimum catalogue of spec §6:
// root::clock, node::clock_ratio, node::gate, node::one_hot,
// node::fanout, node::step_seq, leaf::midi::note.
func RegisterDefaultGraph(f *GraphFactories) {
	registerRootClock(f)
	registerNodeClockRatio(f)
	registerNodeGate(f)
	registerNodeOneHot(f)
	registerNodeFanout(f)
	registerNodeStepSeq(f)
	registerLeafMIDINote(f)
}
