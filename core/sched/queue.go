// Package sched implements the tick scheduler (spec §4.H): a tick-indexed
// priority queue of events, a single-threaded executor, the root-clock
// event (§4.I), and the gate wrapper that lets roots stop safely (§4.J).
package sched

import (
	"container/heap"

	"github.com/x37v/go-xsched/core/graph"
)

// Event is anything the scheduler can dispatch: a root clock, a gated
// wrapper around one, or any other reschedulable unit of work. Dispatch
// must be non-blocking and must not allocate on its hot path (spec §4.H).
type Event interface {
	Dispatch(ctx *graph.ExecContext) (resched bool, delta uint64)
}

// entry is one slot in the priority queue: a due tick, a strictly
// increasing sequence number that breaks ties in FIFO insertion order,
// and the event itself.
type entry struct {
	tick uint64
	seq  uint64
	ev   Event
}

// eventHeap is a container/heap.Interface min-heap ordered by (tick, seq),
// which is exactly what gives the scheduler its stable FIFO tie-break at
// equal ticks (spec §3 EventQueue, §8 "Scheduler FIFO").
type eventHeap []entry

func (h eventHeap) Len() int { return len(h) }
func (h eventHeap) Less(i, j int) bool {
	if h[i].tick != h[j].tick {
		return h[i].tick < h[j].tick
	}
	return h[i].seq < h[j].seq
}
func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(entry))
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

var _ heap.Interface = (*eventHeap)(nil)
