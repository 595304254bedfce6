package sched

import (
	"sync/atomic"
	"testing"

	"github.com/x37v/go-xsched/core/binding"
	"github.com/x37v/go-xsched/core/graph"
)

// onceEvent dispatches once, records the tick it ran at, and never
// reschedules.
type onceEvent struct {
	ran *[]uint64
}

func (e *onceEvent) Dispatch(ctx *graph.ExecContext) (bool, uint64) {
	*e.ran = append(*e.ran, ctx.Now)
	return false, 0
}

func TestSchedulerFIFOAtSameTick(t *testing.T) {
	// spec §8 "Scheduler FIFO": two events enqueued in order at the same
	// tick dispatch in that order.
	s := New()
	var order []int
	e1 := &orderEvent{tag: 1, order: &order}
	e2 := &orderEvent{tag: 2, order: &order}
	s.Enqueue(5, e1)
	s.Enqueue(5, e2)

	s.Run(10, 48000)

	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("dispatch order = %v, want [1 2]", order)
	}
}

type orderEvent struct {
	tag   int
	order *[]int
}

func (e *orderEvent) Dispatch(ctx *graph.ExecContext) (bool, uint64) {
	*e.order = append(*e.order, e.tag)
	return false, 0
}

func TestSchedulerBoundary(t *testing.T) {
	// spec §8 "Scheduler boundary": Run(frames, sr) dispatches exactly
	// the events whose tick < current_tick_before + frames.
	s := New()
	var ran []uint64
	s.Enqueue(0, &onceEvent{ran: &ran})
	s.Enqueue(24, &onceEvent{ran: &ran})
	s.Enqueue(25, &onceEvent{ran: &ran}) // exactly at the boundary: not due
	s.Enqueue(100, &onceEvent{ran: &ran})

	s.Run(25, 48000)

	if len(ran) != 2 {
		t.Fatalf("dispatched %d events, want exactly 2 (ticks 0 and 24)", len(ran))
	}
	if s.TickNext() != 25 {
		t.Errorf("TickNext() = %d, want 25", s.TickNext())
	}
}

func TestRootClockThreeDispatchesIn25Frames(t *testing.T) {
	// spec §8 scenario 3: period_micros such that delta=10 ticks; a
	// single Run(25, sr) call dispatches exactly 3 times, at ticks
	// 0, 10, 20; the 4th is left pending.
	s := New()
	root := graph.NewRoot("root::clock", nil, nil)

	sampleRate := uint64(1_000_000) // 1 tick per microsecond at this rate
	period := binding.NewConstant(10.0)

	ArmRoot(s, root, period, 0)
	s.Run(25, sampleRate)

	dropped := s.DisposalDropped()
	if dropped != 0 {
		t.Fatalf("unexpected disposal drops: %d", dropped)
	}
	if s.heap.Len() != 1 {
		t.Fatalf("after Run(25,...), exactly one pending dispatch should remain queued (for tick 30), got %d", s.heap.Len())
	}
	if got := s.heap[0].tick; got != 30 {
		t.Errorf("next pending tick = %d, want 30", got)
	}
}

func TestGateDeactivationStopsFurtherDispatch(t *testing.T) {
	// spec §8 scenario 4: arm root, observe dispatches, deactivate, then
	// a further huge Run produces zero additional dispatches.
	s := New()
	root := graph.NewRoot("root::clock", nil, nil)
	period := binding.NewConstant(10.0)
	sampleRate := uint64(1_000_000)

	ArmRoot(s, root, period, 0)
	s.Run(100, sampleRate)
	if s.heap.Len() == 0 {
		t.Fatalf("expected a pending re-enqueued dispatch after the first Run")
	}

	root.RootDeactivate()
	s.Run(1_000_000, sampleRate)

	if s.heap.Len() != 0 {
		t.Fatalf("after deactivation, no further reschedules should remain queued, got %d", s.heap.Len())
	}
}

func TestGateEventDropsWhenFalse(t *testing.T) {
	gate := &atomic.Bool{}
	gate.Store(false)
	var calls int
	inner := &callCountEvent{calls: &calls}
	g := NewGateEvent(gate, inner)

	resched, _ := g.Dispatch(&graph.ExecContext{})
	if resched {
		t.Fatalf("a false gate should report no reschedule")
	}
	if calls != 0 {
		t.Errorf("a false gate should never delegate to the wrapped event")
	}
}

func TestGateEventDelegatesWhenTrue(t *testing.T) {
	gate := &atomic.Bool{}
	gate.Store(true)
	var calls int
	inner := &callCountEvent{calls: &calls, resched: true, delta: 3}
	g := NewGateEvent(gate, inner)

	resched, delta := g.Dispatch(&graph.ExecContext{})
	if !resched || delta != 3 {
		t.Fatalf("Dispatch() = (%v, %d), want (true, 3)", resched, delta)
	}
	if calls != 1 {
		t.Errorf("a true gate should delegate exactly once, got %d calls", calls)
	}
}

type callCountEvent struct {
	calls   *int
	resched bool
	delta   uint64
}

func (e *callCountEvent) Dispatch(ctx *graph.ExecContext) (bool, uint64) {
	*e.calls++
	return e.resched, e.delta
}
