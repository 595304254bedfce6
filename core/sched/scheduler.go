package sched

import (
	"container/heap"
	"sync/atomic"

	"github.com/x37v/go-xsched/core/graph"
)

// DisposalOverflowCapacity is the default bound on the disposal channel
// (spec §5 "bounded MPSC channel; overflow drops and counts").
const DisposalOverflowCapacity = 1024

// PendingCapacity bounds the control-thread-to-audio-thread enqueue
// handoff channel (spec §5 "bounded concurrent queue drained by the
// executor at the top of each run").
const PendingCapacity = 4096

// pendingOp is a control-thread request to add an event at a tick.
type pendingOp struct {
	tick uint64
	seq  uint64
	ev   Event
}

// Scheduler is the tick-indexed priority-queue executor of spec §4.H. Its
// internal heap is touched only by the single real-time consumer thread
// that calls Run; everything else reaches it through the bounded Pending
// channel or the bounded Disposal channel.
type Scheduler struct {
	heap eventHeap

	currentTick atomic.Uint64
	seq         atomic.Uint64 // shared sequence source for pending + internal re-enqueues

	pending chan pendingOp

	disposal         chan Event
	disposalDropped  atomic.Uint64
}

// New returns a Scheduler whose logical tick cursor starts at 0.
func New() *Scheduler {
	s := &Scheduler{
		pending:  make(chan pendingOp, PendingCapacity),
		disposal: make(chan Event, DisposalOverflowCapacity),
	}
	heap.Init(&s.heap)
	return s
}

// TickNext returns the scheduler's current logical tick cursor. The host
// callback reads this before and after Run to compute frame offsets for
// outgoing events (spec §6).
func (s *Scheduler) TickNext() uint64 { return s.currentTick.Load() }

// Enqueue schedules ev to dispatch at tick (absolute). Safe to call from
// any thread; if the pending channel is momentarily full the call blocks
// briefly rather than silently dropping a freshly-created event — only
// already-queued, already-dispatched events are subject to the lossy
// disposal-overflow policy.
func (s *Scheduler) Enqueue(tick uint64, ev Event) {
	op := pendingOp{tick: tick, seq: s.seq.Add(1), ev: ev}
	s.pending <- op
}

// TryEnqueue is the non-blocking variant of Enqueue; it reports whether
// the event was accepted.
func (s *Scheduler) TryEnqueue(tick uint64, ev Event) bool {
	op := pendingOp{tick: tick, seq: s.seq.Add(1), ev: ev}
	select {
	case s.pending <- op:
		return true
	default:
		return false
	}
}

// Disposal returns the channel evicted (non-reschedule) events are sent
// to. Overflow does not block the audio thread: see DisposalDropped.
func (s *Scheduler) Disposal() <-chan Event { return s.disposal }

// DisposalDropped returns the number of disposed events dropped because
// the disposal channel was full (spec §5, §7).
func (s *Scheduler) DisposalDropped() uint64 { return s.disposalDropped.Load() }

func (s *Scheduler) dispose(ev Event) {
	select {
	case s.disposal <- ev:
	default:
		s.disposalDropped.Add(1)
	}
}

func (s *Scheduler) drainPending() {
	for {
		select {
		case op := <-s.pending:
			heap.Push(&s.heap, entry{tick: op.tick, seq: op.seq, ev: op.ev})
		default:
			return
		}
	}
}

// Run advances the logical clock by frames at sample_rate, dispatching
// every event due before the new tick boundary, per spec §4.H:
//
//  1. now = current_tick
//  2. end = now + frames
//  3. while earliest queued tick t < end: dequeue (t, e), dispatch with
//     ctx = {now: max(t, now), end, sample_rate}; reschedule at
//     max(t, now) + delta, or dispose.
//  4. current_tick = end
//
// Run must only ever be called from the single real-time consumer
// thread.
func (s *Scheduler) Run(frames uint64, sampleRate uint64) {
	s.drainPending()

	now := s.currentTick.Load()
	end := now + frames

	for s.heap.Len() > 0 && s.heap[0].tick < end {
		e := heap.Pop(&s.heap).(entry)
		effectiveNow := e.tick
		if now > effectiveNow {
			effectiveNow = now
		}
		ctx := &graph.ExecContext{Now: effectiveNow, End: end, SampleRate: sampleRate}

		resched, delta := e.ev.Dispatch(ctx)
		if resched {
			heap.Push(&s.heap, entry{tick: effectiveNow + delta, seq: s.seq.Add(1), ev: e.ev})
		} else {
			s.dispose(e.ev)
		}
	}

	s.currentTick.Store(end)
}
