package sched

import (
	"math"

	"github.com/x37v/go-xsched/core/binding"
	"github.com/x37v/go-xsched/core/graph"
)

// MinDeltaTicks is the floor on a root clock's reschedule interval (spec
// §4.I: "minimum Δ = 1").
const MinDeltaTicks = 1

// RootClockEvent is the canonical reschedulable event (spec §4.I): given
// a Get[float64] for period_micros, it converts that period to ticks
// using the dispatch sample rate, drives its root's children once, and
// requests a reschedule of that many ticks.
type RootClockEvent struct {
	periodMicros binding.Get[float64]
	root         *graph.Item
}

// NewRootClockEvent builds a root-clock event bound to periodMicros and
// driving root's children on every dispatch.
func NewRootClockEvent(periodMicros binding.Get[float64], root *graph.Item) *RootClockEvent {
	return &RootClockEvent{periodMicros: periodMicros, root: root}
}

// Dispatch implements Event. Per spec §4.I step 3, an unbounded (NChild)
// child count is saturated to a single pass at the root — "the root
// treats an unbounded child as a single-pass invocation."
func (e *RootClockEvent) Dispatch(ctx *graph.ExecContext) (resched bool, delta uint64) {
	us := e.periodMicros.Get()
	delta = deltaTicks(us, ctx.SampleRate)

	count := e.root.ChildCount()
	hi := 0
	switch count.Kind {
	case graph.CountInf:
		hi = 1
	case graph.CountSome:
		hi = count.N
	}
	if hi > 0 {
		e.root.ChildExecRange(ctx, 0, hi)
	}

	return true, delta
}

// deltaTicks converts a period in microseconds to a tick count at the
// given sample rate: Δ = round(period_micros * sample_rate * 1e-6),
// floored at MinDeltaTicks (spec §4.I step 2).
func deltaTicks(periodMicros float64, sampleRate uint64) uint64 {
	d := math.Round(periodMicros * float64(sampleRate) * 1e-6)
	if d < MinDeltaTicks {
		return MinDeltaTicks
	}
	return uint64(d)
}
