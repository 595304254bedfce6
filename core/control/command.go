// Package control implements the command envelope and interpreter of
// spec §4.K/§6: the closed Batch/ParamCreate/ParamBind/ParamUnbind/
// GraphItemCreate/GraphNodeSetChildren variant, decoded from the JSON the
// OSCQuery transport hands in on a Set of /xsched/command, and a System
// that owns the control-side params/graph maps those commands mutate.
package control

import (
	stdjson "encoding/json"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Owner names what a ParamBind/ParamUnbind's param_name is a sub-parameter
// slot of: either another Param (its own sub-parameter map) or a
// GraphItem (its exported parameter map). Exactly one of the two fields
// is set, mirroring the source's externally-tagged {Param:uuid} |
// {GraphItem:uuid} shape.
type Owner struct {
	Param     *uuid.UUID `json:"Param,omitempty"`
	GraphItem *uuid.UUID `json:"GraphItem,omitempty"`
}

// GraphNodeChildren is the closed children-arrangement payload of spec
// §6: None (both fields nil), {NChild: uuid}, or {Indexed: [uuid,...]}.
type GraphNodeChildren struct {
	NChild  *uuid.UUID  `json:"NChild,omitempty"`
	Indexed []uuid.UUID `json:"Indexed,omitempty"`
}

// ParamCreateCmd constructs a new Param via the param factory. ID lets a
// caller pin a specific UUID (useful for reproducible test fixtures and
// scripted setup); when nil the System assigns the factory's own
// freshly-generated id. Params optionally pre-binds the new Param's own
// sub-parameter slots to already-existing Params by name.
type ParamCreateCmd struct {
	ID       *uuid.UUID           `json:"id,omitempty"`
	TypeName string               `json:"type_name"`
	Args     stdjson.RawMessage  `json:"args,omitempty"`
	Params   map[string]uuid.UUID `json:"params,omitempty"`
}

// ParamBindCmd wires param_id into the named slot on owner.
type ParamBindCmd struct {
	Owner     Owner     `json:"owner"`
	ParamName string    `json:"param_name"`
	ParamID   uuid.UUID `json:"param_id"`
}

// ParamUnbindCmd resets the named slot on owner to zero.
type ParamUnbindCmd struct {
	Owner     Owner  `json:"owner"`
	ParamName string `json:"param_name"`
}

// GraphItemCreateCmd constructs a new GraphItem via the graph factory.
// Children, if present, is installed as the item's initial children
// arrangement (Node/Root only); Params pre-binds named parameter slots to
// existing Params, same as ParamCreateCmd.
type GraphItemCreateCmd struct {
	ID       *uuid.UUID           `json:"id,omitempty"`
	TypeName string               `json:"type_name"`
	Args     stdjson.RawMessage  `json:"args,omitempty"`
	Children *GraphNodeChildren   `json:"children,omitempty"`
	Params   map[string]uuid.UUID `json:"params,omitempty"`
}

// GraphNodeSetChildrenCmd atomically replaces parent_id's children.
type GraphNodeSetChildrenCmd struct {
	ParentID uuid.UUID         `json:"parent_id"`
	Children GraphNodeChildren `json:"children"`
}

// Command is the closed envelope variant of spec §6, decoded from JSON in
// the source's externally-tagged enum shape: exactly one field is set.
type Command struct {
	Batch                []Command                `json:"Batch,omitempty"`
	ParamCreate          *ParamCreateCmd           `json:"ParamCreate,omitempty"`
	ParamBind            *ParamBindCmd             `json:"ParamBind,omitempty"`
	ParamUnbind          *ParamUnbindCmd           `json:"ParamUnbind,omitempty"`
	GraphItemCreate      *GraphItemCreateCmd       `json:"GraphItemCreate,omitempty"`
	GraphNodeSetChildren *GraphNodeSetChildrenCmd  `json:"GraphNodeSetChildren,omitempty"`
}

// DecodeCommand parses one JSON-encoded Command envelope, the payload
// every /xsched/command Set carries.
func DecodeCommand(raw []byte) (Command, error) {
	var c Command
	err := json.Unmarshal(raw, &c)
	return c, err
}
