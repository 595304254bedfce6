package binding

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// History wraps an underlying Get[T] and remembers a bounded trailing
// window of observed values, keyed by an incrementing sequence number in
// an LRU cache. Where LastValueCache answers "what was it last", History
// answers "what has it been recently" — useful as a Param's shadow access
// for introspection clients that want more than a single sample (spec
// §9). Per the same resolved open question, a History is installed only
// as a shadow, never as the live access the audio thread goes through.
type History[T any] struct {
	inner Get[T]
	cache *lru.Cache[uint64, T]
	seq   uint64
}

// NewHistory wraps inner, keeping at most capacity of its most recently
// observed values.
func NewHistory[T any](inner Get[T], capacity int) *History[T] {
	c, err := lru.New[uint64, T](capacity)
	if err != nil {
		// Only returned for capacity <= 0, a construction-time bug.
		panic(err)
	}
	return &History[T]{inner: inner, cache: c}
}

// Get re-evaluates inner, records the result, and returns it.
func (h *History[T]) Get() T {
	v := h.inner.Get()
	h.seq++
	h.cache.Add(h.seq, v)
	return v
}

// Recent returns up to n of the most recently recorded values, oldest
// first. It does not itself evaluate inner.
func (h *History[T]) Recent(n int) []T {
	keys := h.cache.Keys()
	if n > 0 && len(keys) > n {
		keys = keys[len(keys)-n:]
	}
	out := make([]T, 0, len(keys))
	for _, k := range keys {
		if v, ok := h.cache.Peek(k); ok {
			out = append(out, v)
		}
	}
	return out
}
