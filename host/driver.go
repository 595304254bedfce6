package host

import (
	"log"
	"time"
)

// LogWriter is a MidiWriter that logs every message instead of writing to
// a real port; useful for the reference TickerDriver and for tests.
type LogWriter struct{}

func (LogWriter) WriteMidi(frameOffset uint32, bytes []byte) {
	log.Printf("host: midi out +%d frames: % x", frameOffset, bytes)
}

// TickerDriver is a reference Adapter driver for environments with no
// real audio device (the retrieval pack carries no Go audio library with
// a callback-driven real-time hook suitable for MIDI-only output; see
// the grounding ledger). It calls Callback once per period on its own
// goroutine, at a fixed frames/sampleRate pair, standing in for a real
// device's audio thread until one is wired in.
type TickerDriver struct {
	adapter    *Adapter
	writer     MidiWriter
	frames     uint64
	sampleRate uint64
	period     time.Duration

	stop chan struct{}
	done chan struct{}
}

// NewTickerDriver builds a driver that calls adapter.Callback(frames,
// sampleRate, writer) once every period.
func NewTickerDriver(adapter *Adapter, writer MidiWriter, frames, sampleRate uint64, period time.Duration) *TickerDriver {
	if writer == nil {
		writer = LogWriter{}
	}
	return &TickerDriver{
		adapter:    adapter,
		writer:     writer,
		frames:     frames,
		sampleRate: sampleRate,
		period:     period,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Run blocks ticking the driver until Stop is called.
func (d *TickerDriver) Run() {
	defer close(d.done)
	t := time.NewTicker(d.period)
	defer t.Stop()
	for {
		select {
		case <-d.stop:
			return
		case <-t.C:
			d.adapter.Callback(d.frames, d.sampleRate, d.writer)
		}
	}
}

// Stop signals Run to return and waits for it to do so.
func (d *TickerDriver) Stop() {
	close(d.stop)
	<-d.done
}
