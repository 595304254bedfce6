package param

import (
	"sync"

	"github.com/google/uuid"

	"github.com/x37v/go-xsched/core/xserr"
)

// Map is the per-item ParamHashMap of spec §4.E: a name -> Slot table,
// shared by both Params (their sub-parameters) and GraphItems (their
// bindable parameters). Binds and unbinds are control-thread-only
// operations; the slots themselves are what the audio thread reads
// through, lock-free.
type Map struct {
	mu    sync.RWMutex
	slots map[string]*Slot
	order []string // insertion order, for stable Keys()

	// owner is set only when this Map is a Param's own sub-parameter map;
	// it is nil for a GraphItem's parameter map. Cycle detection only
	// applies to the former, since only Params participate in the
	// sub-parameter reference graph spec §4.E worries about.
	owner *Param
}

// NewMap returns an empty Map. owner should be nil for a GraphItem's
// parameter map; Param's own constructor (New) sets it automatically.
func NewMap(owner *Param) *Map {
	return &Map{slots: make(map[string]*Slot), owner: owner}
}

// InsertUnbound is the construction-time helper that installs a new,
// unbound slot. Duplicate names are an implementer bug and panic, per
// spec §4.E.
func (m *Map) InsertUnbound(name string, slot *Slot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.slots[name]; exists {
		panic("param: duplicate slot name " + name)
	}
	m.slots[name] = slot
	m.order = append(m.order, name)
}

// Keys returns the slot names in insertion order.
func (m *Map) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// IsEmpty reports whether this map has no slots.
func (m *Map) IsEmpty() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.slots) == 0
}

// Contains reports whether a slot with this name exists.
func (m *Map) Contains(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.slots[name]
	return ok
}

func (m *Map) slot(name string) (*Slot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.slots[name]
	if !ok {
		return nil, xserr.ErrKeyMissing
	}
	return s, nil
}

// AccessName returns the AccessKind of the named slot, as a string.
func (m *Map) AccessName(name string) (string, error) {
	s, err := m.slot(name)
	if err != nil {
		return "", err
	}
	return s.Kind().String(), nil
}

// DataTypeName returns the ValueTag name of the named slot.
func (m *Map) DataTypeName(name string) (string, error) {
	s, err := m.slot(name)
	if err != nil {
		return "", err
	}
	return s.DataTypeName(), nil
}

// UUID returns the UUID of the Param currently bound into the named slot,
// or uuid.Nil if unbound.
func (m *Map) UUID(name string) (uuid.UUID, error) {
	s, err := m.slot(name)
	if err != nil {
		return uuid.Nil, err
	}
	return s.BoundUUID(), nil
}

// TryBind wires src into the named slot. It is idempotent for equal
// arguments: binding the same already-bound Param again is a harmless
// no-op repeat of the same swap. Steps, per spec §4.E:
//  1. look up the slot or fail KeyMissing
//  2. (if owned by a Param) refuse if it would create a cycle
//  3. obtain the matching-direction, matching-tag access from src,
//     failing TagMismatch/NoGet/NoSet
//  4. install into the swap cell(s) and replace current_source
func (m *Map) TryBind(name string, src *Param) error {
	s, err := m.slot(name)
	if err != nil {
		return err
	}
	if m.owner != nil && wouldCycle(src, m.owner.UUID()) {
		return xserr.ErrCycleDetected
	}
	return s.bindFn(src)
}

// Unbind resets the named slot to zero and returns the evicted Param, if
// any was bound.
func (m *Map) Unbind(name string) (*Param, error) {
	s, err := m.slot(name)
	if err != nil {
		return nil, err
	}
	return s.unbindFn(), nil
}

// wouldCycle reports whether binding src somewhere that is (transitively)
// a sub-parameter of ownerID would create a cycle — i.e. whether ownerID
// is reachable by walking src's own sub-parameter bindings outward. This
// is the bind-time reachability check spec §9 requires rather than the
// central-weak-registry alternative.
func wouldCycle(src *Param, ownerID uuid.UUID) bool {
	if src == nil {
		return false
	}
	visited := make(map[uuid.UUID]bool)
	var walk func(p *Param) bool
	walk = func(p *Param) bool {
		if p.UUID() == ownerID {
			return true
		}
		if visited[p.UUID()] {
			return false
		}
		visited[p.UUID()] = true
		for _, name := range p.Params().Keys() {
			sub := p.Params().slotBoundSource(name)
			if sub != nil && walk(sub) {
				return true
			}
		}
		return false
	}
	return walk(src)
}

func (m *Map) slotBoundSource(name string) *Param {
	s, err := m.slot(name)
	if err != nil {
		return nil
	}
	return s.BoundSource()
}
