package param

import (
	"github.com/google/uuid"

	"github.com/x37v/go-xsched/core/binding"
	"github.com/x37v/go-xsched/core/value"
	"github.com/x37v/go-xsched/core/xserr"
)

// Param packages a typed access (the "data"), an optional off-thread
// "shadow" access, a sub-parameter map, a UUID, and a type_name (spec
// §3/§4.D). It is always safely shareable: once constructed it is only
// ever held behind a pointer, never mutated field-by-field by more than
// one goroutine, and the one mutable piece of state it has — which source
// occupies which sub-parameter slot — lives in the slots' own swap cells.
type Param struct {
	id       uuid.UUID
	typeName string
	tag      value.Tag
	kind     AccessKind

	// data is the live access the audio thread reads/writes through. It
	// is always present and is one of binding.Get[T]/Set[T]/GetSet[T] for
	// this Param's T, boxed.
	data any

	// shadow is the optional off-thread access the OSCQuery value getter
	// reads. Per spec §9 it must never be the same accessor instance the
	// audio thread uses for a type that could tear under concurrent
	// reads — callers should pass a SpinlockCell/LastValueCache wrapper
	// here, never the exact same pointer as data.
	shadow any

	params *Map
}

// New constructs a Param of value type T. kind must describe what data
// actually implements (Get[T], Set[T], or both); shadow may be nil.
func New[T any](typeName string, kind AccessKind, data any, shadow any, params *Map) *Param {
	p := &Param{
		id:       uuid.New(),
		typeName: typeName,
		tag:      TagOf[T](),
		kind:     kind,
		data:     data,
		shadow:   shadow,
	}
	if params == nil {
		params = NewMap(nil)
	}
	params.owner = p
	p.params = params
	return p
}

func (p *Param) UUID() uuid.UUID       { return p.id }

// PinUUID overrides the id a factory just assigned with one the control
// plane was asked to use instead (the command envelope's optional
// ParamCreate.id, spec §6, mirroring the original's id-taking constructor
// overload in src/param.rs). Only ever safe to call on a freshly
// constructed Param the interpreter has not yet published into the
// system's params map or shared with any other goroutine.
func (p *Param) PinUUID(id uuid.UUID) { p.id = id }
func (p *Param) TypeName() string      { return p.typeName }
func (p *Param) AccessName() string    { return p.kind.String() }
func (p *Param) DataTypeName() string  { return p.tag.String() }
func (p *Param) Tag() value.Tag        { return p.tag }
func (p *Param) Kind() AccessKind      { return p.kind }
func (p *Param) Params() *Map          { return p.params }
func (p *Param) HasShadow() bool       { return p.shadow != nil }

// Shadow returns the raw boxed shadow access, or nil if this Param has
// none. Most callers want AsShadowGet instead.
func (p *Param) Shadow() any { return p.shadow }

// AsGet returns this Param's data as a Get[T], if its tag matches T and its
// access kind includes Get.
func AsGet[T any](p *Param) (binding.Get[T], error) {
	if p.tag != TagOf[T]() {
		return nil, xserr.ErrTagMismatch
	}
	g, ok := p.data.(binding.Get[T])
	if !ok {
		return nil, xserr.ErrNoGet
	}
	return g, nil
}

// AsSet returns this Param's data as a Set[T], if its tag matches T and its
// access kind includes Set.
func AsSet[T any](p *Param) (binding.Set[T], error) {
	if p.tag != TagOf[T]() {
		return nil, xserr.ErrTagMismatch
	}
	s, ok := p.data.(binding.Set[T])
	if !ok {
		return nil, xserr.ErrNoSet
	}
	return s, nil
}

// AsShadowGet returns this Param's shadow as a Get[T], if it has one of a
// matching type. The OSCQuery `.../value` getter uses this; if there is no
// shadow it falls back to a best-effort read of the live data (AsGet).
func AsShadowGet[T any](p *Param) (binding.Get[T], bool) {
	if p.shadow == nil || p.tag != TagOf[T]() {
		return nil, false
	}
	g, ok := p.shadow.(binding.Get[T])
	return g, ok
}

// AsShadowSet returns this Param's shadow as a Set[T], if it has one.
func AsShadowSet[T any](p *Param) (binding.Set[T], bool) {
	if p.shadow == nil || p.tag != TagOf[T]() {
		return nil, false
	}
	s, ok := p.shadow.(binding.Set[T])
	return s, ok
}
