package binding

import "sync"

// SpinlockCell is a mutex-guarded GetSet[T] for value types too large to
// fit in a lock-free word (ClockData, TickResched, TickSched per spec
// §4.B). The mutex is held only for the duration of the copy in or out, so
// contention is negligible even though it is technically blocking; the
// scheduler never calls into one of these from the hot dispatch path for a
// type that has an atomic alternative.
type SpinlockCell[T any] struct {
	mu sync.Mutex
	v  T
}

// NewSpinlockCell returns a SpinlockCell initialized to v.
func NewSpinlockCell[T any](v T) *SpinlockCell[T] {
	return &SpinlockCell[T]{v: v}
}

func (c *SpinlockCell[T]) Get() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v
}

func (c *SpinlockCell[T]) Set(v T) {
	c.mu.Lock()
	c.v = v
	c.mu.Unlock()
}
