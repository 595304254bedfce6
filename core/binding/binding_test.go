package binding

import "testing"

func TestConstant(t *testing.T) {
	c := NewConstant(42)
	if got := c.Get(); got != 42 {
		t.Errorf("Get() = %d, want 42", got)
	}
	c.Set(99) // ignored
	if got := c.Get(); got != 42 {
		t.Errorf("Set should be a no-op on Constant, Get() = %d", got)
	}
}

func TestBinaryOpMax(t *testing.T) {
	left := NewConstant(3)
	right := NewConstant(7)
	max := NewBinaryOp(left, right, func(a, b int) int {
		if a > b {
			return a
		}
		return b
	})
	if got := max.Get(); got != 7 {
		t.Errorf("Get() = %d, want 7", got)
	}
}

func TestBinaryOpRebindSource(t *testing.T) {
	left := NewConstant(3)
	right := NewConstant(7)
	sum := NewBinaryOp(left, right, func(a, b int) int { return a + b })
	if got := sum.Get(); got != 10 {
		t.Fatalf("Get() = %d, want 10", got)
	}
	sum.SetLeftSource(NewConstant(100))
	if got := sum.Get(); got != 107 {
		t.Errorf("after rebinding left, Get() = %d, want 107", got)
	}
}

func TestAtomicCells(t *testing.T) {
	b := NewBoolCell(false)
	b.Set(true)
	if !b.Get() {
		t.Errorf("BoolCell: Get() = false, want true")
	}

	u := NewU8Cell(10)
	u.Set(255)
	if got := u.Get(); got != 255 {
		t.Errorf("U8Cell: Get() = %d, want 255", got)
	}

	us := NewUSizeCell(0)
	us.Set(1 << 40)
	if got := us.Get(); got != 1<<40 {
		t.Errorf("USizeCell: Get() = %d, want %d", got, 1<<40)
	}

	is := NewISizeCell(0)
	is.Set(-5)
	if got := is.Get(); got != -5 {
		t.Errorf("ISizeCell: Get() = %d, want -5", got)
	}

	fl := NewFloatCell(0)
	fl.Set(3.5)
	if got := fl.Get(); got != 3.5 {
		t.Errorf("FloatCell: Get() = %v, want 3.5", got)
	}
}

func TestSpinlockCell(t *testing.T) {
	type rec struct{ A, B int }
	c := NewSpinlockCell(rec{A: 1, B: 2})
	if got := c.Get(); got != (rec{1, 2}) {
		t.Fatalf("Get() = %+v, want {1 2}", got)
	}
	c.Set(rec{A: 3, B: 4})
	if got := c.Get(); got != (rec{3, 4}) {
		t.Errorf("after Set, Get() = %+v, want {3 4}", got)
	}
}

func TestLastValueCache(t *testing.T) {
	var stored int
	inner := NewConstant(5)
	cache := NewLastValueCache(inner, func(v int) { stored = v }, func() int { return stored })

	if got := cache.LastObserved(); got != 0 {
		t.Fatalf("before any Get, LastObserved() = %d, want 0", got)
	}
	if got := cache.Get(); got != 5 {
		t.Fatalf("Get() = %d, want 5", got)
	}
	if got := cache.LastObserved(); got != 5 {
		t.Errorf("after Get, LastObserved() = %d, want 5", got)
	}
}

func TestHistoryRecent(t *testing.T) {
	var n int
	inner := GetFunc[int](func() int { n++; return n })
	h := NewHistory[int](inner, 3)

	for i := 0; i < 5; i++ {
		h.Get()
	}
	// Capacity 3: only the last 3 of 1..5 survive, i.e. 3,4,5.
	got := h.Recent(10)
	want := []int{3, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("Recent(10) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Recent(10)[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}
