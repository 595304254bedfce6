package value

import "testing"

func TestTagString(t *testing.T) {
	cases := []struct {
		tag  Tag
		want string
	}{
		{Bool, "Bool"},
		{U8, "U8"},
		{USize, "USize"},
		{ISize, "ISize"},
		{Float, "Float"},
		{Clock, "ClockData"},
		{TickReschedTag, "TickResched"},
		{TickSchedTag, "TickSched"},
	}
	for _, c := range cases {
		if got := c.tag.String(); got != c.want {
			t.Errorf("Tag(%d).String() = %q, want %q", c.tag, got, c.want)
		}
	}
}

func TestClipU8(t *testing.T) {
	cases := []struct {
		in   int64
		want uint8
	}{
		{-5, 0},
		{0, 0},
		{255, 255},
		{256, 255},
		{1000, 255},
	}
	for _, c := range cases {
		if got := ClipU8(c.in); got != c.want {
			t.Errorf("ClipU8(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestClipUSize(t *testing.T) {
	if got := ClipUSize(-1); got != 0 {
		t.Errorf("ClipUSize(-1) = %d, want 0", got)
	}
	if got := ClipUSize(42); got != 42 {
		t.Errorf("ClipUSize(42) = %d, want 42", got)
	}
}

func TestClockDataDefault(t *testing.T) {
	c := DefaultClockData()
	if c.BPM != 120 || c.PPQ != 96 {
		t.Fatalf("DefaultClockData() = %+v, want bpm=120 ppq=96", c)
	}
	want := 60_000_000 / (120.0 * 96.0)
	if c.PeriodMicros != want {
		t.Errorf("PeriodMicros = %v, want %v", c.PeriodMicros, want)
	}
}

func TestClockDataSetBPMRecomputes(t *testing.T) {
	c := DefaultClockData()
	c.SetBPM(60)
	want := 60_000_000 / (60.0 * 96.0)
	if c.PeriodMicros != want {
		t.Errorf("after SetBPM(60), PeriodMicros = %v, want %v", c.PeriodMicros, want)
	}
}

func TestClockDataSetPPQRejectsZero(t *testing.T) {
	c := DefaultClockData()
	c.SetPPQ(0)
	if c.PPQ != 1 {
		t.Errorf("SetPPQ(0) left PPQ = %d, want 1 (clamped)", c.PPQ)
	}
}

func TestClockDataEqual(t *testing.T) {
	a := DefaultClockData()
	b := DefaultClockData()
	if !a.Equal(b) {
		t.Errorf("two DefaultClockData() values should be Equal")
	}
	b.SetBPM(140)
	if a.Equal(b) {
		t.Errorf("values with different BPM should not be Equal")
	}
}

func TestTickReschedEqual(t *testing.T) {
	a := DefaultTickResched()
	b := TickResched{Kind: ReschedNone, N: 999}
	if !a.Equal(b) {
		t.Errorf("ReschedNone should compare equal regardless of N")
	}
	c := TickResched{Kind: ReschedRelative, N: 4}
	d := TickResched{Kind: ReschedRelative, N: 5}
	if c.Equal(d) {
		t.Errorf("different N under Relative should not be Equal")
	}
}
