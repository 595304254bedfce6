package oscctrl

import (
	"fmt"

	"github.com/hypebeast/go-osc/osc"

	"github.com/x37v/go-xsched/core/control"
)

// CommandAddress is the OSC address a /xsched/command Set arrives on
// (spec §6).
const CommandAddress = "/xsched/command"

// ValuePattern is the wildcard OSC address pattern a GetSet param's
// .../value Set arrives on (spec §6); the concrete uuid segment is
// pulled back out of the matched message's own Address.
const ValuePattern = "/xsched/params/uuids/*/value"

// OSCServer is the OSC/UDP half of the transport: it receives a
// JSON-encoded command envelope as the single string argument of a
// message on CommandAddress and submits it to the control-plane System,
// and it receives per-parameter value writes on ValuePattern, routing
// each through the same writeParamValue path the HTTP half's PUT uses.
// Per-parameter reads are served by the HTTP half (oscctrl.Server); an
// OSCQuery client resolves addresses through the HTTP discovery tree and
// then writes values back over this OSC/UDP transport.
type OSCServer struct {
	sys    *control.System
	server *osc.Server
}

// NewOSCServer builds an OSC/UDP server bound to addr (e.g. "0.0.0.0:3010")
// that dispatches command envelopes and value writes to sys.
func NewOSCServer(addr string, sys *control.System) *OSCServer {
	d := osc.NewStandardDispatcher()
	s := &OSCServer{sys: sys}
	_ = d.AddMsgHandler(CommandAddress, s.handleCommand)
	_ = d.AddMsgHandler(ValuePattern, s.handleValueSet)
	s.server = &osc.Server{Addr: addr, Dispatcher: d}
	return s
}

// ListenAndServe blocks receiving OSC packets until the server's
// connection is closed. Meant to run on its own supervised goroutine.
func (s *OSCServer) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Close tears down the underlying UDP connection, unblocking
// ListenAndServe.
func (s *OSCServer) Close() error {
	return s.server.CloseConnection()
}

func (s *OSCServer) handleCommand(msg *osc.Message) {
	if len(msg.Arguments) != 1 {
		return
	}
	raw, ok := msg.Arguments[0].(string)
	if !ok {
		return
	}
	cmd, err := control.DecodeCommand([]byte(raw))
	if err != nil {
		fmt.Printf("oscctrl: bad command on %s: %v\n", CommandAddress, err)
		return
	}
	s.sys.Submit(cmd)
}

// handleValueSet implements the write half of a GetSet param's
// .../value endpoint over OSC: the single argument is the JSON-encoded
// value, typed per the param's own ValueTag.
func (s *OSCServer) handleValueSet(msg *osc.Message) {
	id, ok := paramIDFromValuePath(msg.Address)
	if !ok {
		return
	}
	p, ok := s.sys.Param(id)
	if !ok {
		return
	}
	if len(msg.Arguments) != 1 {
		return
	}
	raw, ok := msg.Arguments[0].(string)
	if !ok {
		return
	}
	v, err := decodeValueForTag(p.Tag(), []byte(raw))
	if err != nil {
		fmt.Printf("oscctrl: bad value on %s: %v\n", msg.Address, err)
		return
	}
	if err := writeParamValue(p, v); err != nil {
		fmt.Printf("oscctrl: write rejected on %s: %v\n", msg.Address, err)
	}
}
