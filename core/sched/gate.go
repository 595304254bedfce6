package sched

import (
	"sync/atomic"

	"github.com/x37v/go-xsched/core/graph"
)

// GateEvent wraps an Event and a shared boolean gate (spec §4.J): while
// the gate is true it delegates dispatch and reschedule identically to
// the wrapped event; once false, it reports "do not reschedule" so the
// disposal path drops it. A Root's RootEvent produces exactly this
// wrapping around a fresh gate.
type GateEvent struct {
	gate  *atomic.Bool
	inner Event
}

// NewGateEvent wraps inner with gate.
func NewGateEvent(gate *atomic.Bool, inner Event) *GateEvent {
	return &GateEvent{gate: gate, inner: inner}
}

// Dispatch implements Event.
func (g *GateEvent) Dispatch(ctx *graph.ExecContext) (resched bool, delta uint64) {
	if !g.gate.Load() {
		return false, 0
	}
	return g.inner.Dispatch(ctx)
}
