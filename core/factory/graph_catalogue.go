package factory

import (
	gomidi "gitlab.com/gomidi/midi/v2"

	"github.com/x37v/go-xsched/core/binding"
	"github.com/x37v/go-xsched/core/graph"
	"github.com/x37v/go-xsched/core/param"
	"github.com/x37v/go-xsched/core/sched"
	"github.com/x37v/go-xsched/core/value"
)

// clockBPM/clockPPQ/clockPeriodMicros are Get/Set views over one field of
// a shared ClockData spinlock cell, per spec §4.A's "combined setter
// recomputes period_micros from the updated fields." It is bound
// directly into a node's own slot swap cell at construction (the same
// direct-bind discipline child_exec_index uses), never through TryBind:
// these accessors aren't sourced from an external Param, they're
// synthesized views over root::clock's own internal clock data, and
// routing bpm/ppq/period_micros through independent external Params
// would let them drift out of the redundant relationship the record
// requires.
type clockBPM struct{ cell *binding.SpinlockCell[value.ClockData] }

func (c clockBPM) Get() float64 { return c.cell.Get().BPM }
func (c clockBPM) Set(v float64) {
	cd := c.cell.Get()
	cd.SetBPM(v)
	c.cell.Set(cd)
}

type clockPPQ struct{ cell *binding.SpinlockCell[value.ClockData] }

func (c clockPPQ) Get() uint64 { return c.cell.Get().PPQ }
func (c clockPPQ) Set(v uint64) {
	cd := c.cell.Get()
	cd.SetPPQ(v)
	c.cell.Set(cd)
}

type clockPeriodMicros struct{ cell *binding.SpinlockCell[value.ClockData] }

func (c clockPeriodMicros) Get() float64 { return c.cell.Get().PeriodMicros }
func (c clockPeriodMicros) Set(v float64) {
	cd := c.cell.Get()
	cd.SetPeriodMicros(v)
	c.cell.Set(cd)
}

// nodeChildHi resolves a node's own reported child count down to a
// concrete exclusive upper bound for ChildExecRange: a finite Indexed
// count as-is, an unbounded NChild count saturated to a single pass (the
// same convention spec §4.I prescribes for root::clock, applied here to
// every node in the catalogue so "drive my children once" means the same
// thing everywhere), and None to zero passes.
func nodeChildHi(it *graph.Item) int {
	switch c := it.ChildCount(); c.Kind {
	case graph.CountInf:
		return 1
	case graph.CountSome:
		return c.N
	default:
		return 0
	}
}

// constParam wraps v in a read-only Param of the given type_name, used to
// seed a catalogue node's configuration slots with their factory-args
// value. The slot itself stays independently rebindable afterward via a
// ParamBind command; this is just the initial occupant.
func constParam[T any](typeName string, v T) *param.Param {
	return param.New[T](typeName, param.AccessGet, binding.NewConstant(v), nil, nil)
}

// bindArgSlot installs a Get-direction slot named name on params, seeded
// with a constParam holding initial, and returns the swap cell the node's
// own exec reads through directly. The slot stays independently
// rebindable afterward via a ParamBind command naming it; panics only on
// a programmer error (duplicate name), never at request time.
func bindArgSlot[T any](params *param.Map, name string, initial T) binding.Get[T] {
	slot, getCell, _ := param.NewSlot[T](name, param.AccessGet)
	params.InsertUnbound(name, slot)
	if err := params.TryBind(name, constParam(name, initial)); err != nil {
		panic("factory: seeding " + name + ": " + err.Error())
	}
	return getCell
}

func registerNodeClockRatio(f *GraphFactories) {
	type args struct {
		Mul uint64 `json:"mul"`
		Div uint64 `json:"div"`
	}
	f.Register("node::clock_ratio", func(_ *FactoryContext, raw []byte) (*graph.Item, error) {
		a := args{Mul: 1, Div: 1}
		if err := parseArg(raw, &a); err != nil {
			return nil, err
		}
		if a.Mul == 0 {
			a.Mul = 1
		}
		if a.Div == 0 {
			a.Div = 1
		}
		params := param.NewMap(nil)
		mulGet := bindArgSlot(params, "mul", a.Mul)
		divGet := bindArgSlot(params, "div", a.Div)

		item := graph.NewNode("node::clock_ratio", params, nil)
		var acc uint64
		item.SetExec(func(ctx *graph.ExecContext) {
			div := divGet.Get()
			if div == 0 {
				div = 1
			}
			acc += mulGet.Get()
			hi := nodeChildHi(item)
			for acc >= div {
				acc -= div
				if hi > 0 {
					item.ChildExecRange(ctx, 0, hi)
				}
			}
		})
		return item, nil
	})
}

func registerNodeGate(f *GraphFactories) {
	type args struct {
		Gate bool `json:"gate"`
	}
	f.Register("node::gate", func(_ *FactoryContext, raw []byte) (*graph.Item, error) {
		var a args
		if err := parseArg(raw, &a); err != nil {
			return nil, err
		}
		params := param.NewMap(nil)
		gateGet := bindArgSlot(params, "gate", a.Gate)

		item := graph.NewNode("node::gate", params, nil)
		item.SetExec(func(ctx *graph.ExecContext) {
			if !gateGet.Get() {
				return
			}
			if hi := nodeChildHi(item); hi > 0 {
				item.ChildExecRange(ctx, 0, hi)
			}
		})
		return item, nil
	})
}

func registerNodeOneHot(f *GraphFactories) {
	type args struct {
		Sel uint64 `json:"sel"`
	}
	f.Register("node::one_hot", func(_ *FactoryContext, raw []byte) (*graph.Item, error) {
		var a args
		if err := parseArg(raw, &a); err != nil {
			return nil, err
		}
		params := param.NewMap(nil)
		selGet := bindArgSlot(params, "sel", a.Sel)

		item := graph.NewNode("node::one_hot", params, nil)
		item.SetExec(func(ctx *graph.ExecContext) {
			sel := int(selGet.Get())
			item.ChildExecRange(ctx, sel, sel+1)
		})
		return item, nil
	})
}

func registerNodeFanout(f *GraphFactories) {
	f.Register("node::fanout", func(_ *FactoryContext, _ []byte) (*graph.Item, error) {
		params := param.NewMap(nil)
		item := graph.NewNode("node::fanout", params, nil)
		item.SetExec(func(ctx *graph.ExecContext) {
			if hi := nodeChildHi(item); hi > 0 {
				item.ChildExecRange(ctx, 0, hi)
			}
		})
		return item, nil
	})
}

func registerNodeStepSeq(f *GraphFactories) {
	type args struct {
		StepTicks uint64 `json:"step_ticks"`
		Steps     uint64 `json:"steps"`
	}
	f.Register("node::step_seq", func(_ *FactoryContext, raw []byte) (*graph.Item, error) {
		a := args{StepTicks: 1, Steps: 1}
		if err := parseArg(raw, &a); err != nil {
			return nil, err
		}
		if a.StepTicks == 0 {
			a.StepTicks = 1
		}
		if a.Steps == 0 {
			a.Steps = 1
		}
		params := param.NewMap(nil)
		stepTicksGet := bindArgSlot(params, "step_ticks", a.StepTicks)
		stepsGet := bindArgSlot(params, "steps", a.Steps)

		item := graph.NewNode("node::step_seq", params, nil)
		var acc uint64
		var step uint64
		var lastNow uint64
		var haveLast bool
		item.SetExec(func(ctx *graph.ExecContext) {
			st := stepTicksGet.Get()
			if st == 0 {
				st = 1
			}
			n := stepsGet.Get()
			if n == 0 {
				n = 1
			}
			if !haveLast {
				haveLast = true
			} else if ctx.Now > lastNow {
				acc += ctx.Now - lastNow
			}
			lastNow = ctx.Now
			for acc >= st {
				acc -= st
				step = (step + 1) % n
			}
			item.ChildExecRange(ctx, int(step), int(step)+1)
		})
		return item, nil
	})
}

// registerRootClock wires root::clock, the canonical recurring event of
// spec §4.I. Creating one immediately arms it against the scheduler
// handed in via FactoryContext: a root::clock only exists armed, since
// the closed command envelope (spec §6) has no separate "start" verb —
// GraphItemCreate is the start.
func registerRootClock(f *GraphFactories) {
	f.Register("root::clock", func(fctx *FactoryContext, raw []byte) (*graph.Item, error) {
		cd, err := clockDataFromArgs(raw)
		if err != nil {
			return nil, err
		}
		cell := binding.NewSpinlockCell(cd)

		params := param.NewMap(nil)
		bpmSlot, bpmGet, bpmSet := param.NewSlot[float64]("bpm", param.AccessGetSet)
		ppqSlot, ppqGet, ppqSet := param.NewSlot[uint64]("ppq", param.AccessGetSet)
		periodSlot, periodGet, periodSet := param.NewSlot[float64]("period_micros", param.AccessGetSet)
		params.InsertUnbound("bpm", bpmSlot)
		params.InsertUnbound("ppq", ppqSlot)
		params.InsertUnbound("period_micros", periodSlot)
		bpmGet.Bind(clockBPM{cell})
		bpmSet.Bind(clockBPM{cell})
		ppqGet.Bind(clockPPQ{cell})
		ppqSet.Bind(clockPPQ{cell})
		periodGet.Bind(clockPeriodMicros{cell})
		periodSet.Bind(clockPeriodMicros{cell})

		item := graph.NewRoot("root::clock", params, nil)

		if fctx != nil && fctx.Scheduler != nil {
			sched.ArmRoot(fctx.Scheduler, item, clockPeriodMicros{cell}, fctx.Scheduler.TickNext())
		}
		return item, nil
	})
}

func registerLeafMIDINote(f *GraphFactories) {
	type args struct {
		Chan   uint8  `json:"chan"`
		Num    uint8  `json:"num"`
		OnVel  uint8  `json:"on_vel"`
		OffVel uint8  `json:"off_vel"`
		Dur    uint64 `json:"dur"`
	}
	f.Register("leaf::midi::note", func(fctx *FactoryContext, raw []byte) (*graph.Item, error) {
		a := args{OnVel: 100, Dur: 1}
		if err := parseArg(raw, &a); err != nil {
			return nil, err
		}
		params := param.NewMap(nil)
		chanGet := bindArgSlot(params, "chan", a.Chan)
		numGet := bindArgSlot(params, "num", a.Num)
		onVelGet := bindArgSlot(params, "on_vel", a.OnVel)
		offVelGet := bindArgSlot(params, "off_vel", a.OffVel)
		durGet := bindArgSlot(params, "dur", a.Dur)

		item := graph.NewLeaf("leaf::midi::note", params, func(ctx *graph.ExecContext) {
			if fctx == nil || fctx.MIDIQueue == nil {
				return
			}
			ch := chanGet.Get()
			num := numGet.Get()
			on := gomidi.NoteOn(ch, num, onVelGet.Get())
			off := gomidi.NoteOffVelocity(ch, num, offVelGet.Get())
			fctx.MIDIQueue.Push(ctx.Now, on.Bytes())
			fctx.MIDIQueue.Push(ctx.Now+durGet.Get(), off.Bytes())
		})
		return item, nil
	})
}
