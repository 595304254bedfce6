package midi

import "testing"

func TestPushDrainTickOrder(t *testing.T) {
	q := NewQueue(8)
	q.Push(10, []byte{0x90, 60, 100})
	q.Push(0, []byte{0x80, 60, 0})
	q.Push(5, []byte{0x90, 62, 100})

	out := q.Drain(11)
	if len(out) != 3 {
		t.Fatalf("Drain(11) returned %d messages, want 3", len(out))
	}
	wantTicks := []uint64{0, 5, 10}
	for i, w := range wantTicks {
		if out[i].Tick != w {
			t.Errorf("out[%d].Tick = %d, want %d", i, out[i].Tick, w)
		}
	}
}

func TestDrainRespectsBeforeBound(t *testing.T) {
	q := NewQueue(8)
	q.Push(5, []byte{0x90, 60, 100})
	q.Push(50, []byte{0x80, 60, 0})

	out := q.Drain(10)
	if len(out) != 1 || out[0].Tick != 5 {
		t.Fatalf("Drain(10) = %+v, want exactly the tick-5 message", out)
	}

	rest := q.Drain(51)
	if len(rest) != 1 || rest[0].Tick != 50 {
		t.Fatalf("Drain(51) = %+v, want exactly the tick-50 message", rest)
	}
}

func TestPushIgnoresOutOfRangeLength(t *testing.T) {
	q := NewQueue(8)
	q.Push(0, nil)
	q.Push(0, []byte{1, 2, 3, 4})
	q.Push(0, []byte{0xF8}) // 1 byte is valid (e.g. MIDI clock)

	out := q.Drain(1)
	if len(out) != 1 {
		t.Fatalf("Drain(1) returned %d messages, want 1 (only the valid 1-byte message)", len(out))
	}
	if out[0].Len != 1 || out[0].Bytes[0] != 0xF8 {
		t.Errorf("surviving message = %+v, want a single 0xF8 byte", out[0])
	}
}

func TestPushDropsAtCapacity(t *testing.T) {
	q := NewQueue(2)
	q.Push(0, []byte{1})
	q.Push(1, []byte{2})
	q.Push(2, []byte{3}) // dropped: queue is at capacity

	if q.Dropped() != 1 {
		t.Fatalf("Dropped() = %d, want 1", q.Dropped())
	}
	out := q.Drain(100)
	if len(out) != 2 {
		t.Fatalf("Drain returned %d messages, want 2 (capacity bound)", len(out))
	}
}
