package param

import (
	"fmt"

	"github.com/x37v/go-xsched/core/value"
)

// TagOf returns the ValueTag for T. T must be one of the eight closed
// bindable types (spec §3); anything else is a programmer error caught at
// init time via the panic below, never at request time.
func TagOf[T any]() value.Tag {
	var zero T
	switch any(zero).(type) {
	case bool:
		return value.Bool
	case uint8:
		return value.U8
	case uint64:
		return value.USize
	case int64:
		return value.ISize
	case float64:
		return value.Float
	case value.ClockData:
		return value.Clock
	case value.TickResched:
		return value.TickReschedTag
	case value.TickSched:
		return value.TickSchedTag
	default:
		panic(fmt.Sprintf("param: unsupported binding type %T", zero))
	}
}

// ZeroOf returns T's tag default, per the table in spec §4.A.
func ZeroOf[T any]() T {
	var zero T
	switch any(zero).(type) {
	case bool:
		return any(false).(T)
	case uint8:
		return any(uint8(0)).(T)
	case uint64:
		return any(uint64(0)).(T)
	case int64:
		return any(int64(0)).(T)
	case float64:
		return any(float64(0)).(T)
	case value.ClockData:
		return any(value.DefaultClockData()).(T)
	case value.TickResched:
		return any(value.DefaultTickResched()).(T)
	case value.TickSched:
		return any(value.DefaultTickSched()).(T)
	default:
		panic(fmt.Sprintf("param: unsupported binding type %T", zero))
	}
}
