package param

import (
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/x37v/go-xsched/core/swap"
	"github.com/x37v/go-xsched/core/value"
	"github.com/x37v/go-xsched/core/xserr"
)

// Slot is the type-erased control-plane view of one parameter slot: a
// static name/tag/kind, the swap cell(s) the owning item's exec reads or
// writes through, and the id of whatever Param currently occupies it
// (spec §3/§4.E). The concrete, typed swap cell handles are returned
// separately to the constructing item by NewSlot so its exec code never
// pays the price of the type erasure this struct needs for a heterogeneous
// by-name map.
type Slot struct {
	name         string
	tag          value.Tag
	kind         AccessKind
	dataTypeName string

	current atomic.Pointer[Param]

	bindFn   func(src *Param) error
	unbindFn func() *Param
}

// NewSlot builds a Slot of value type T plus the typed swap-cell handles
// the owning item keeps for its own direct reads/writes. getCell/setCell
// are nil when kind doesn't include that direction.
func NewSlot[T any](name string, kind AccessKind) (slot *Slot, getCell *swap.Get[T], setCell *swap.Set[T]) {
	zero := ZeroOf[T]()
	tag := TagOf[T]()

	if kind.HasGet() {
		getCell = swap.NewGet[T](zero)
	}
	if kind.HasSet() {
		setCell = swap.NewSet[T]()
	}

	s := &Slot{
		name:         name,
		tag:          tag,
		kind:         kind,
		dataTypeName: tag.String(),
	}

	s.bindFn = func(src *Param) error {
		if src.tag != tag {
			return xserr.ErrTagMismatch
		}
		if getCell != nil {
			g, err := AsGet[T](src)
			if err != nil {
				return err
			}
			getCell.Bind(g)
		}
		if setCell != nil {
			st, err := AsSet[T](src)
			if err != nil {
				return err
			}
			setCell.Bind(st)
		}
		s.current.Store(src)
		return nil
	}
	s.unbindFn = func() *Param {
		old := s.current.Swap(nil)
		if getCell != nil {
			getCell.Unbind(zero)
		}
		if setCell != nil {
			setCell.Unbind()
		}
		return old
	}

	return s, getCell, setCell
}

func (s *Slot) Name() string         { return s.name }
func (s *Slot) Kind() AccessKind     { return s.kind }
func (s *Slot) DataTypeName() string { return s.dataTypeName }
func (s *Slot) Tag() value.Tag       { return s.tag }

// BoundSource returns the Param currently occupying this slot, or nil.
func (s *Slot) BoundSource() *Param { return s.current.Load() }

// BoundUUID returns the UUID of the currently bound source, or uuid.Nil.
func (s *Slot) BoundUUID() uuid.UUID {
	if p := s.current.Load(); p != nil {
		return p.UUID()
	}
	return uuid.Nil
}
