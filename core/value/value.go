// Package value defines the closed set of data types the scheduler binds:
// the ValueTag enum, one default/name/clip policy per tag, and the three
// compound records (ClockData, TickResched, TickSched). Adding a new
// ValueTag is the only way to introduce a new bindable type; everything
// above this package is generic over the tag set.
package value

import "fmt"

// Tag identifies one of the closed set of bindable value types.
type Tag int

const (
	Bool Tag = iota
	U8
	USize
	ISize
	Float
	Clock
	TickReschedTag
	TickSchedTag
)

// String returns the human name used in OSCQuery type introspection and
// log output.
func (t Tag) String() string {
	switch t {
	case Bool:
		return "Bool"
	case U8:
		return "U8"
	case USize:
		return "USize"
	case ISize:
		return "ISize"
	case Float:
		return "Float"
	case Clock:
		return "ClockData"
	case TickReschedTag:
		return "TickResched"
	case TickSchedTag:
		return "TickSched"
	default:
		return fmt.Sprintf("Tag(%d)", int(t))
	}
}

// OSCWireType names the OSCQuery wire type used for a tag, per spec §4.A.
func (t Tag) OSCWireType() string {
	switch t {
	case Bool:
		return "Bool"
	case U8:
		return "Int"
	case USize, ISize:
		return "Long"
	case Float:
		return "Double"
	case Clock:
		return "Triple(Double,Long,Double)"
	case TickReschedTag, TickSchedTag:
		return "(String,Long)"
	default:
		return "?"
	}
}

// ClipU8 clamps a U8 to [0,255] on both ends, per spec §4.A.
func ClipU8(v int64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// ClipUSize clamps a USize at its low end to 0; no upper bound.
func ClipUSize(v int64) uint64 {
	if v < 0 {
		return 0
	}
	return uint64(v)
}

// ClockData is the mutually-redundant {bpm, ppq, period_micros} record
// described in spec §3. period_micros = 60_000_000 / (bpm * ppq).
type ClockData struct {
	BPM          float64
	PPQ          uint64
	PeriodMicros float64
}

// DefaultClockData is the tag default: 120 BPM, 96 PPQ.
func DefaultClockData() ClockData {
	c := ClockData{BPM: 120, PPQ: 96}
	c.recompute()
	return c
}

func (c *ClockData) recompute() {
	if c.BPM < 0 {
		c.BPM = 0
	}
	if c.PPQ < 1 {
		c.PPQ = 1
	}
	if c.BPM == 0 {
		c.PeriodMicros = 0
		return
	}
	c.PeriodMicros = 60_000_000 / (c.BPM * float64(c.PPQ))
}

// SetBPM updates bpm and recomputes period_micros.
func (c *ClockData) SetBPM(bpm float64) {
	c.BPM = bpm
	c.recompute()
}

// SetPPQ updates ppq and recomputes period_micros.
func (c *ClockData) SetPPQ(ppq uint64) {
	c.PPQ = ppq
	c.recompute()
}

// SetPeriodMicros sets period_micros directly without touching bpm/ppq;
// callers that want the redundant fields kept consistent should instead
// call SetBPM/SetPPQ, which recompute it.
func (c *ClockData) SetPeriodMicros(us float64) {
	if us < 0 {
		us = 0
	}
	c.PeriodMicros = us
}

// Equal reports field-wise equality, used by the GetSet round-trip test
// property in spec §8.
func (c ClockData) Equal(o ClockData) bool {
	return c.BPM == o.BPM && c.PPQ == o.PPQ && c.PeriodMicros == o.PeriodMicros
}

// TickReschedKind is the closed variant tag for TickResched.
type TickReschedKind int

const (
	ReschedNone TickReschedKind = iota
	ReschedRelative
	ReschedContextRelative
)

// TickResched drives how long to wait before the next invocation of an
// event, relative to either the wall tick or an enclosing context tick.
type TickResched struct {
	Kind TickReschedKind
	N    uint64 // ticks, meaningful for Relative/ContextRelative
}

// DefaultTickResched is the tag default: None.
func DefaultTickResched() TickResched { return TickResched{Kind: ReschedNone} }

// Equal reports field-wise equality.
func (t TickResched) Equal(o TickResched) bool {
	if t.Kind != o.Kind {
		return false
	}
	if t.Kind == ReschedNone {
		return true
	}
	return t.N == o.N
}

// TickSchedKind is the closed variant tag for TickSched.
type TickSchedKind int

const (
	SchedNone TickSchedKind = iota
	SchedAbsolute
	SchedContextRelative
)

// TickSched is an absolute-tick scheduling hint.
type TickSched struct {
	Kind TickSchedKind
	N    uint64
}

// DefaultTickSched is the tag default: None.
func DefaultTickSched() TickSched { return TickSched{Kind: SchedNone} }

// Equal reports field-wise equality.
func (t TickSched) Equal(o TickSched) bool {
	if t.Kind != o.Kind {
		return false
	}
	if t.Kind == SchedNone {
		return true
	}
	return t.N == o.N
}
