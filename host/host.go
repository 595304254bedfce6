// Package host implements the audio-thread adapter contract of spec §6:
// each callback advances the scheduler by a block of frames, then drains
// the outgoing MIDI queue for everything due before the new tick cursor
// and writes it out at the correct frame offset within the block. The
// shape follows the original implementation's JACK process handler
// (tick_next, then Run, then dequeue_lt against the new tick_next,
// offset by max(t, now) - now) one-for-one; only the transport underneath
// MidiWriter changes per backend.
package host

import (
	"github.com/x37v/go-xsched/core/midi"
	"github.com/x37v/go-xsched/core/sched"
)

// MidiWriter writes a raw 1-3 byte MIDI message at a frame offset within
// the current callback block. Implementations must be safe to call only
// from the audio thread that invokes Callback; they must not block or
// allocate (spec §5's real-time discipline extends to this boundary).
type MidiWriter interface {
	WriteMidi(frameOffset uint32, bytes []byte)
}

// Adapter drives a Scheduler and MidiQueue from a host's audio callback.
// It holds no goroutines of its own; Callback is meant to be invoked
// directly on the host's real-time thread once per audio block.
type Adapter struct {
	sched *sched.Scheduler
	midi  *midi.Queue
}

// NewAdapter wires an Adapter to the given scheduler and outgoing MIDI
// queue. Both are normally shared with the control-plane System that
// constructs graph items against the same scheduler/queue pair (spec
// §4.K's FactoryContext).
func NewAdapter(s *sched.Scheduler, q *midi.Queue) *Adapter {
	return &Adapter{sched: s, midi: q}
}

// Callback advances the scheduler by frames at sampleRate and writes out
// every MIDI message due within the block, per spec §6:
//
//  1. now = scheduler.TickNext()
//  2. scheduler.Run(frames, sampleRate)
//  3. next = scheduler.TickNext()
//  4. for each (t, bytes) with t < next, drained in tick order: write
//     bytes at frame offset max(t, now) - now.
//
// Callback must only ever be invoked from the single real-time thread
// the host dedicates to audio processing.
func (a *Adapter) Callback(frames uint64, sampleRate uint64, w MidiWriter) {
	now := a.sched.TickNext()
	a.sched.Run(frames, sampleRate)
	next := a.sched.TickNext()

	for _, m := range a.midi.Drain(next) {
		t := m.Tick
		if t < now {
			t = now
		}
		w.WriteMidi(uint32(t-now), m.Bytes[:m.Len])
	}
}
