// Package factory implements the type_name-keyed constructor registries
// of spec §4.K: the param factory (const::<T>/val::<T> for every value
// tag) and the graph factory (the node/leaf catalogue of §6).
package factory

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/x37v/go-xsched/core/binding"
	"github.com/x37v/go-xsched/core/param"
	"github.com/x37v/go-xsched/core/value"
	"github.com/x37v/go-xsched/core/xserr"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ParamFunc accepts a JSON args value and returns a newly constructed
// Param, or InvalidArgs if parsing or construction fails.
type ParamFunc func(args []byte) (*param.Param, error)

// ParamFactories is a read-only-after-init registry of ParamFuncs keyed
// by type_name, mirroring the teacher's CoreFactory-implements-an-
// interface shape generalized to a name table (spec §4.K, and the
// registry-by-name idiom in purpleidea/mgmt's funcs.ModuleRegister).
type ParamFactories struct {
	fns map[string]ParamFunc
}

// NewParamFactories returns an empty registry; Register the catalogue
// with RegisterDefaults.
func NewParamFactories() *ParamFactories {
	return &ParamFactories{fns: make(map[string]ParamFunc)}
}

// Register installs fn under typeName. Re-registering the same name is a
// factory-table construction bug and panics, matching param.Map's own
// duplicate-slot policy.
func (f *ParamFactories) Register(typeName string, fn ParamFunc) {
	if _, exists := f.fns[typeName]; exists {
		panic("factory: duplicate param type_name " + typeName)
	}
	f.fns[typeName] = fn
}

// Create builds a Param named typeName from args, or TypeNotFound if no
// such factory is registered.
func (f *ParamFactories) Create(typeName string, args []byte) (*param.Param, error) {
	fn, ok := f.fns[typeName]
	if !ok {
		return nil, xserr.ErrTypeNotFound
	}
	return fn(args)
}

// RegisterDefaults installs const::<T> and val::<T> for every ValueTag,
// the minimum catalogue spec §4.K requires.
func RegisterDefaults(f *ParamFactories) {
	registerBool(f)
	registerU8(f)
	registerUSize(f)
	registerISize(f)
	registerFloat(f)
	registerClock(f)
	registerTickResched(f)
	registerTickSched(f)
}

func parseArg[T any](args []byte, into *T) error {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, into); err != nil {
		return xserr.ErrInvalidArgs
	}
	return nil
}

func registerBool(f *ParamFactories) {
	f.Register("const::bool", func(args []byte) (*param.Param, error) {
		v := false
		if err := parseArg(args, &v); err != nil {
			return nil, err
		}
		return param.New[bool]("const::bool", param.AccessGet, binding.NewConstant(v), nil, nil), nil
	})
	f.Register("val::bool", func(args []byte) (*param.Param, error) {
		v := false
		if err := parseArg(args, &v); err != nil {
			return nil, err
		}
		return param.New[bool]("val::bool", param.AccessGetSet, binding.NewBoolCell(v), nil, nil), nil
	})
}

func registerU8(f *ParamFactories) {
	f.Register("const::u8", func(args []byte) (*param.Param, error) {
		var raw int64
		if err := parseArg(args, &raw); err != nil {
			return nil, err
		}
		v := value.ClipU8(raw)
		return param.New[uint8]("const::u8", param.AccessGet, binding.NewConstant(v), nil, nil), nil
	})
	f.Register("val::u8", func(args []byte) (*param.Param, error) {
		var raw int64
		if err := parseArg(args, &raw); err != nil {
			return nil, err
		}
		v := value.ClipU8(raw)
		return param.New[uint8]("val::u8", param.AccessGetSet, binding.NewU8Cell(v), nil, nil), nil
	})
}

func registerUSize(f *ParamFactories) {
	f.Register("const::usize", func(args []byte) (*param.Param, error) {
		var raw int64
		if err := parseArg(args, &raw); err != nil {
			return nil, err
		}
		v := value.ClipUSize(raw)
		return param.New[uint64]("const::usize", param.AccessGet, binding.NewConstant(v), nil, nil), nil
	})
	f.Register("val::usize", func(args []byte) (*param.Param, error) {
		var raw int64
		if err := parseArg(args, &raw); err != nil {
			return nil, err
		}
		v := value.ClipUSize(raw)
		return param.New[uint64]("val::usize", param.AccessGetSet, binding.NewUSizeCell(v), nil, nil), nil
	})
}

func registerISize(f *ParamFactories) {
	f.Register("const::isize", func(args []byte) (*param.Param, error) {
		var v int64
		if err := parseArg(args, &v); err != nil {
			return nil, err
		}
		return param.New[int64]("const::isize", param.AccessGet, binding.NewConstant(v), nil, nil), nil
	})
	f.Register("val::isize", func(args []byte) (*param.Param, error) {
		var v int64
		if err := parseArg(args, &v); err != nil {
			return nil, err
		}
		return param.New[int64]("val::isize", param.AccessGetSet, binding.NewISizeCell(v), nil, nil), nil
	})
}

func registerFloat(f *ParamFactories) {
	f.Register("const::float", func(args []byte) (*param.Param, error) {
		var v float64
		if err := parseArg(args, &v); err != nil {
			return nil, err
		}
		return param.New[float64]("const::float", param.AccessGet, binding.NewConstant(v), nil, nil), nil
	})
	f.Register("val::float", func(args []byte) (*param.Param, error) {
		var v float64
		if err := parseArg(args, &v); err != nil {
			return nil, err
		}
		return param.New[float64]("val::float", param.AccessGetSet, binding.NewFloatCell(v), nil, nil), nil
	})
}

// clockArgs mirrors ClockData's JSON shape for const::/val:: construction.
type clockArgs struct {
	BPM          float64 `json:"bpm"`
	PPQ          uint64  `json:"ppq"`
	PeriodMicros float64 `json:"period_micros"`
}

func clockDataFromArgs(args []byte) (value.ClockData, error) {
	c := value.DefaultClockData()
	if len(args) == 0 {
		return c, nil
	}
	var a clockArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return value.ClockData{}, xserr.ErrInvalidArgs
	}
	if a.BPM != 0 {
		c.SetBPM(a.BPM)
	}
	if a.PPQ != 0 {
		c.SetPPQ(a.PPQ)
	}
	if a.PeriodMicros != 0 {
		c.SetPeriodMicros(a.PeriodMicros)
	}
	return c, nil
}

// historyCapacity bounds the trailing introspection window kept for the
// SpinlockCell-backed value types, where a read is expensive enough
// (copies a whole record under a mutex) that remembering more than the
// single last sample is worth the LRU bookkeeping.
const historyCapacity = 32

func registerClock(f *ParamFactories) {
	f.Register("const::clock_data", func(args []byte) (*param.Param, error) {
		v, err := clockDataFromArgs(args)
		if err != nil {
			return nil, err
		}
		return param.New[value.ClockData]("const::clock_data", param.AccessGet, binding.NewConstant(v), nil, nil), nil
	})
	f.Register("val::clock_data", func(args []byte) (*param.Param, error) {
		v, err := clockDataFromArgs(args)
		if err != nil {
			return nil, err
		}
		cell := binding.NewSpinlockCell(v)
		shadow := binding.NewHistory[value.ClockData](cell, historyCapacity)
		return param.New[value.ClockData]("val::clock_data", param.AccessGetSet, cell, shadow, nil), nil
	})
}

func registerTickResched(f *ParamFactories) {
	f.Register("const::tick_resched", func(args []byte) (*param.Param, error) {
		v := value.DefaultTickResched()
		return param.New[value.TickResched]("const::tick_resched", param.AccessGet, binding.NewConstant(v), nil, nil), nil
	})
	f.Register("val::tick_resched", func(args []byte) (*param.Param, error) {
		v := value.DefaultTickResched()
		cell := binding.NewSpinlockCell(v)
		shadow := binding.NewHistory[value.TickResched](cell, historyCapacity)
		return param.New[value.TickResched]("val::tick_resched", param.AccessGetSet, cell, shadow, nil), nil
	})
}

func registerTickSched(f *ParamFactories) {
	f.Register("const::tick_sched", func(args []byte) (*param.Param, error) {
		v := value.DefaultTickSched()
		return param.New[value.TickSched]("const::tick_sched", param.AccessGet, binding.NewConstant(v), nil, nil), nil
	})
	f.Register("val::tick_sched", func(args []byte) (*param.Param, error) {
		v := value.DefaultTickSched()
		cell := binding.NewSpinlockCell(v)
		shadow := binding.NewHistory[value.TickSched](cell, historyCapacity)
		return param.New[value.TickSched]("val::tick_sched", param.AccessGetSet, cell, shadow, nil), nil
	})
}
