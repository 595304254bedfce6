// Package oscctrl implements the external OSCQuery-facing surface of
// spec §6: the /xsched address tree (served as JSON over HTTP in the
// OSCQuery CONTENTS shape; no HOST_INFO reply is served) and the OSC/UDP
// transport that carries the command envelope and per-parameter value
// writes (per-parameter reads go over HTTP). This package is the external collaborator spec §1 scopes out
// of the core's algorithms; it only ever calls into core/control.System.
package oscctrl

import (
	"encoding/json"
	"fmt"

	"github.com/x37v/go-xsched/core/param"
	"github.com/x37v/go-xsched/core/value"
)

// readParamValue reads p's typed value for the OSCQuery `.../value`
// getter, preferring the shadow access per spec §9's resolved open
// question and falling back to a best-effort read of the live data when
// there is no shadow.
func readParamValue(p *param.Param) (any, error) {
	switch p.Tag() {
	case value.Bool:
		return readOne[bool](p)
	case value.U8:
		return readOne[uint8](p)
	case value.USize:
		return readOne[uint64](p)
	case value.ISize:
		return readOne[int64](p)
	case value.Float:
		return readOne[float64](p)
	case value.Clock:
		return readOne[value.ClockData](p)
	case value.TickReschedTag:
		return readOne[value.TickResched](p)
	case value.TickSchedTag:
		return readOne[value.TickSched](p)
	default:
		return nil, fmt.Errorf("oscctrl: unknown value tag %v", p.Tag())
	}
}

func readOne[T any](p *param.Param) (any, error) {
	if g, ok := param.AsShadowGet[T](p); ok {
		return g.Get(), nil
	}
	g, err := param.AsGet[T](p)
	if err != nil {
		return nil, err
	}
	return g.Get(), nil
}

// writeParamValue writes v into p's typed value for the OSCQuery
// `.../value` setter, again preferring the shadow access and falling
// back to the live data's Set.
func writeParamValue(p *param.Param, v any) error {
	switch p.Tag() {
	case value.Bool:
		return writeOne(p, v.(bool))
	case value.U8:
		return writeOne(p, v.(uint8))
	case value.USize:
		return writeOne(p, v.(uint64))
	case value.ISize:
		return writeOne(p, v.(int64))
	case value.Float:
		return writeOne(p, v.(float64))
	case value.Clock:
		return writeOne(p, v.(value.ClockData))
	case value.TickReschedTag:
		return writeOne(p, v.(value.TickResched))
	case value.TickSchedTag:
		return writeOne(p, v.(value.TickSched))
	default:
		return fmt.Errorf("oscctrl: unknown value tag %v", p.Tag())
	}
}

func writeOne[T any](p *param.Param, v T) error {
	if s, ok := param.AsShadowSet[T](p); ok {
		s.Set(v)
		return nil
	}
	s, err := param.AsSet[T](p)
	if err != nil {
		return err
	}
	s.Set(v)
	return nil
}

// decodeValueForTag unmarshals raw JSON into the concrete Go type p's tag
// calls for, so the result can be handed straight to writeParamValue's
// type switch. Used by both the HTTP PUT and OSC .../value set paths.
func decodeValueForTag(tag value.Tag, raw []byte) (any, error) {
	switch tag {
	case value.Bool:
		return decodeOne[bool](raw)
	case value.U8:
		return decodeOne[uint8](raw)
	case value.USize:
		return decodeOne[uint64](raw)
	case value.ISize:
		return decodeOne[int64](raw)
	case value.Float:
		return decodeOne[float64](raw)
	case value.Clock:
		return decodeOne[value.ClockData](raw)
	case value.TickReschedTag:
		return decodeOne[value.TickResched](raw)
	case value.TickSchedTag:
		return decodeOne[value.TickSched](raw)
	default:
		return nil, fmt.Errorf("oscctrl: unknown value tag %v", tag)
	}
}

func decodeOne[T any](raw []byte) (any, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}
