package binding

import (
	"go.uber.org/atomic"
)

// BoolCell is a lock-free GetSet[bool] backed by go.uber.org/atomic.
type BoolCell struct {
	v atomic.Bool
}

// NewBoolCell returns a BoolCell initialized to v.
func NewBoolCell(v bool) *BoolCell {
	c := &BoolCell{}
	c.v.Store(v)
	return c
}

func (c *BoolCell) Get() bool  { return c.v.Load() }
func (c *BoolCell) Set(v bool) { c.v.Store(v) }

// U8Cell is a lock-free GetSet[uint8] backed by an atomic uint32, clipped
// to [0,255] on write per spec §4.A.
type U8Cell struct {
	v atomic.Uint32
}

// NewU8Cell returns a U8Cell initialized to v.
func NewU8Cell(v uint8) *U8Cell {
	c := &U8Cell{}
	c.v.Store(uint32(v))
	return c
}

func (c *U8Cell) Get() uint8 { return uint8(c.v.Load()) }
func (c *U8Cell) Set(v uint8) { c.v.Store(uint32(v)) }

// USizeCell is a lock-free GetSet[uint64], clamped to [0, ∞) on write.
type USizeCell struct {
	v atomic.Uint64
}

// NewUSizeCell returns a USizeCell initialized to v.
func NewUSizeCell(v uint64) *USizeCell {
	c := &USizeCell{}
	c.v.Store(v)
	return c
}

func (c *USizeCell) Get() uint64  { return c.v.Load() }
func (c *USizeCell) Set(v uint64) { c.v.Store(v) }

// ISizeCell is a lock-free GetSet[int64] with no range restriction.
type ISizeCell struct {
	v atomic.Int64
}

// NewISizeCell returns an ISizeCell initialized to v.
func NewISizeCell(v int64) *ISizeCell {
	c := &ISizeCell{}
	c.v.Store(v)
	return c
}

func (c *ISizeCell) Get() int64  { return c.v.Load() }
func (c *ISizeCell) Set(v int64) { c.v.Store(v) }

// FloatCell is a lock-free GetSet[float64].
type FloatCell struct {
	v atomic.Float64
}

// NewFloatCell returns a FloatCell initialized to v.
func NewFloatCell(v float64) *FloatCell {
	c := &FloatCell{}
	c.v.Store(v)
	return c
}

func (c *FloatCell) Get() float64  { return c.v.Load() }
func (c *FloatCell) Set(v float64) { c.v.Store(v) }
