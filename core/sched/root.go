package sched

import (
	"github.com/x37v/go-xsched/core/binding"
	"github.com/x37v/go-xsched/core/graph"
)

// ArmRoot starts a root: it arms a fresh gate via root.RootEvent (quieting
// any previous gate first), builds the canonical root-clock event over
// periodMicros, wraps it in a GateEvent, and enqueues it at startTick.
// This is the factory-time wiring spec §4.F/§4.I/§4.J describe together.
func ArmRoot(s *Scheduler, root *graph.Item, periodMicros binding.Get[float64], startTick uint64) {
	gate := root.RootEvent()
	clock := NewRootClockEvent(periodMicros, root)
	s.Enqueue(startTick, NewGateEvent(gate, clock))
}
