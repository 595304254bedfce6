package control

import (
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/x37v/go-xsched/core/factory"
	"github.com/x37v/go-xsched/core/graph"
	"github.com/x37v/go-xsched/core/param"
	"github.com/x37v/go-xsched/core/xserr"
)

// CommandQueueCapacity bounds the OSC-transport-to-control-thread command
// handoff, mirroring the scheduler's own bounded pending/disposal queues
// (spec §5).
const CommandQueueCapacity = 256

// System owns the control-side maps (spec §3 "Params are created by the
// control plane, held by the system's params map") and interprets the
// closed command envelope of spec §6 against them. It never touches the
// scheduler's internal heap directly; graph factories reach the
// scheduler only through the FactoryContext handed to NewSystem, exactly
// the "queue handles" spec §4.K describes.
type System struct {
	mu     sync.RWMutex
	params map[uuid.UUID]*param.Param
	graph  map[uuid.UUID]*graph.Item

	paramFactories *factory.ParamFactories
	graphFactories *factory.GraphFactories
	factoryCtx     *factory.FactoryContext

	commands chan Command
}

// NewSystem returns an empty System wired to the given factories and
// scheduler/MIDI queue handles.
func NewSystem(pf *factory.ParamFactories, gf *factory.GraphFactories, fctx *factory.FactoryContext) *System {
	return &System{
		params:         make(map[uuid.UUID]*param.Param),
		graph:          make(map[uuid.UUID]*graph.Item),
		paramFactories: pf,
		graphFactories: gf,
		factoryCtx:     fctx,
		commands:       make(chan Command, CommandQueueCapacity),
	}
}

// Param looks up a Param by id under the read lock.
func (s *System) Param(id uuid.UUID) (*param.Param, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.params[id]
	return p, ok
}

// GraphItem looks up a GraphItem by id under the read lock.
func (s *System) GraphItem(id uuid.UUID) (*graph.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.graph[id]
	return it, ok
}

// ParamIDs lists every Param UUID currently known to the system, for the
// OSCQuery address tree builder.
func (s *System) ParamIDs() []uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]uuid.UUID, 0, len(s.params))
	for id := range s.params {
		out = append(out, id)
	}
	return out
}

// GraphItemIDs lists every GraphItem UUID currently known to the system.
func (s *System) GraphItemIDs() []uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]uuid.UUID, 0, len(s.graph))
	for id := range s.graph {
		out = append(out, id)
	}
	return out
}

// Submit enqueues cmd for the control thread's Run loop to pick up. Safe
// to call from any thread (the OSC handler's goroutine); non-blocking —
// if the queue is momentarily full, the command is dropped and logged,
// matching the scheduler's own lossy-overflow policy rather than
// stalling the caller.
func (s *System) Submit(cmd Command) {
	select {
	case s.commands <- cmd:
	default:
		log.Printf("control: command queue full, dropping command")
	}
}

// Run drains the command queue until stop is closed. It is meant to be
// the sole goroutine that ever calls Interpret, so System's maps need no
// locking against themselves — only against the introspection readers
// (Param/GraphItem) that may run concurrently from the OSCQuery server.
func (s *System) Run(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case cmd := <-s.commands:
			for _, err := range s.Interpret(cmd) {
				log.Printf("control: command error: %v", err)
			}
		}
	}
}

// Interpret applies cmd synchronously and returns every error
// encountered. A Batch is a sequence, not a transaction (spec §5): each
// sub-command is applied in order and a failure does not roll back or
// skip the rest.
func (s *System) Interpret(cmd Command) []error {
	switch {
	case cmd.Batch != nil:
		var errs []error
		for _, sub := range cmd.Batch {
			errs = append(errs, s.Interpret(sub)...)
		}
		return errs
	case cmd.ParamCreate != nil:
		return errSlice(s.paramCreate(cmd.ParamCreate))
	case cmd.ParamBind != nil:
		return errSlice(s.paramBind(cmd.ParamBind))
	case cmd.ParamUnbind != nil:
		return errSlice(s.paramUnbind(cmd.ParamUnbind))
	case cmd.GraphItemCreate != nil:
		return errSlice(s.graphItemCreate(cmd.GraphItemCreate))
	case cmd.GraphNodeSetChildren != nil:
		return errSlice(s.graphNodeSetChildren(cmd.GraphNodeSetChildren))
	default:
		return nil
	}
}

func errSlice(err error) []error {
	if err == nil {
		return nil
	}
	return []error{err}
}

func (s *System) paramCreate(c *ParamCreateCmd) error {
	p, err := s.paramFactories.Create(c.TypeName, c.Args)
	if err != nil {
		return err
	}
	if c.ID != nil {
		p.PinUUID(*c.ID)
	}
	for name, srcID := range c.Params {
		src, ok := s.Param(srcID)
		if !ok {
			return xserr.ErrNotFound
		}
		if err := p.Params().TryBind(name, src); err != nil {
			return err
		}
	}
	s.mu.Lock()
	s.params[p.UUID()] = p
	s.mu.Unlock()
	return nil
}

func (s *System) paramBind(c *ParamBindCmd) error {
	owner, err := s.ownerParamMap(c.Owner)
	if err != nil {
		return err
	}
	src, ok := s.Param(c.ParamID)
	if !ok {
		return xserr.ErrNotFound
	}
	return owner.TryBind(c.ParamName, src)
}

func (s *System) paramUnbind(c *ParamUnbindCmd) error {
	owner, err := s.ownerParamMap(c.Owner)
	if err != nil {
		return err
	}
	_, err = owner.Unbind(c.ParamName)
	return err
}

// ownerParamMap resolves an Owner to the *param.Map a ParamBind/
// ParamUnbind command should act on: a Param's own sub-parameter map, or
// a GraphItem's parameter map.
func (s *System) ownerParamMap(o Owner) (*param.Map, error) {
	switch {
	case o.Param != nil:
		p, ok := s.Param(*o.Param)
		if !ok {
			return nil, xserr.ErrNotFound
		}
		return p.Params(), nil
	case o.GraphItem != nil:
		it, ok := s.GraphItem(*o.GraphItem)
		if !ok {
			return nil, xserr.ErrNotFound
		}
		return it.Params(), nil
	default:
		return nil, xserr.ErrNotFound
	}
}

func (s *System) graphItemCreate(c *GraphItemCreateCmd) error {
	it, err := s.graphFactories.Create(s.factoryCtx, c.TypeName, c.Args)
	if err != nil {
		return err
	}
	if c.ID != nil {
		it.PinUUID(*c.ID)
	}
	for name, srcID := range c.Params {
		src, ok := s.Param(srcID)
		if !ok {
			return xserr.ErrNotFound
		}
		if err := it.Params().TryBind(name, src); err != nil {
			return err
		}
	}
	if c.Children != nil {
		container, err := s.resolveChildren(*c.Children)
		if err != nil {
			return err
		}
		if _, ok := it.ChildrenSwap(container); !ok {
			return xserr.ErrInvalidArgs
		}
	}
	s.mu.Lock()
	s.graph[it.UUID()] = it
	s.mu.Unlock()
	return nil
}

func (s *System) graphNodeSetChildren(c *GraphNodeSetChildrenCmd) error {
	parent, ok := s.GraphItem(c.ParentID)
	if !ok {
		return xserr.ErrNotFound
	}
	container, err := s.resolveChildren(c.Children)
	if err != nil {
		return err
	}
	// Every child UUID is resolved against the live graph map before the
	// swap is attempted, so an unknown UUID is refused atomically and the
	// previous children remain installed (spec §4.F, §7).
	if _, ok := parent.ChildrenSwap(container); !ok {
		return xserr.ErrInvalidArgs
	}
	return nil
}

// resolveChildren turns a wire-level GraphNodeChildren into a concrete
// graph.Container, resolving every named UUID against the live graph map
// first so a reference to an unknown child fails before anything is
// swapped.
func (s *System) resolveChildren(c GraphNodeChildren) (*graph.Container, error) {
	switch {
	case c.NChild != nil:
		child, ok := s.GraphItem(*c.NChild)
		if !ok {
			return nil, xserr.ErrNotFound
		}
		return graph.NewNChildContainer(child), nil
	case len(c.Indexed) > 0:
		children := make([]graph.Child, len(c.Indexed))
		for i, id := range c.Indexed {
			child, ok := s.GraphItem(id)
			if !ok {
				return nil, xserr.ErrNotFound
			}
			children[i] = child
		}
		return graph.NewIndexedContainer(children), nil
	default:
		return graph.NewNoneContainer(), nil
	}
}
