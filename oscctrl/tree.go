package oscctrl

import (
	"github.com/google/uuid"

	"github.com/x37v/go-xsched/core/control"
	"github.com/x37v/go-xsched/core/graph"
	"github.com/x37v/go-xsched/core/param"
)

// Attribute is one OSCQuery address-tree node: a DESCRIPTION, an
// optional TYPE/VALUE pair for a leaf endpoint, and CONTENTS for a
// container, following the OSCQuery CONTENTS JSON shape.
type Attribute struct {
	FullPath    string                `json:"FULL_PATH"`
	Description string                `json:"DESCRIPTION,omitempty"`
	TypeTag     string                `json:"TYPE,omitempty"`
	Value       []any                 `json:"VALUE,omitempty"`
	Access      int                   `json:"ACCESS,omitempty"` // 1=read, 2=write, 3=read+write
	Contents    map[string]*Attribute `json:"CONTENTS,omitempty"`
}

func container(path, desc string) *Attribute {
	return &Attribute{FullPath: path, Description: desc, Contents: map[string]*Attribute{}}
}

// BuildTree constructs the full /xsched address tree (spec §6) as a
// snapshot of sys's current params and graph items. It is cheap enough
// to rebuild on every request: the scheduler's hot path never touches
// this package.
func BuildTree(sys *control.System) *Attribute {
	root := container("/xsched", "xsched scheduler root")
	root.Contents["command"] = &Attribute{
		FullPath:    "/xsched/command",
		Description: "JSON-encoded command envelope",
		TypeTag:     "s",
		Access:      2,
	}

	paramsNode := container("/xsched/params", "bindable value sources")
	uuidsNode := container("/xsched/params/uuids", "params by uuid")
	for _, id := range sys.ParamIDs() {
		p, ok := sys.Param(id)
		if !ok {
			continue
		}
		uuidsNode.Contents[id.String()] = buildParamNode(p)
	}
	paramsNode.Contents["uuids"] = uuidsNode
	root.Contents["params"] = paramsNode

	graphNode := container("/xsched/graph", "graph items")
	graphUUIDs := container("/xsched/graph/uuids", "graph items by uuid")
	for _, id := range sys.GraphItemIDs() {
		it, ok := sys.GraphItem(id)
		if !ok {
			continue
		}
		graphUUIDs.Contents[id.String()] = buildGraphNode(it)
	}
	graphNode.Contents["uuids"] = graphUUIDs
	root.Contents["graph"] = graphNode

	return root
}

func buildParamNode(p *param.Param) *Attribute {
	base := container("/xsched/params/uuids/"+p.UUID().String(), p.TypeName())

	access := 1
	if p.Kind().HasSet() {
		access = 3
		if !p.Kind().HasGet() {
			access = 2
		}
	}
	valueAttr := &Attribute{
		FullPath: base.FullPath + "/value",
		TypeTag:  p.Tag().OSCWireType(),
		Access:   access,
	}
	if v, err := readParamValue(p); err == nil {
		valueAttr.Value = []any{v}
	}
	base.Contents["value"] = valueAttr

	base.Contents["type"] = &Attribute{
		FullPath: base.FullPath + "/type",
		TypeTag:  "sss",
		Access:   1,
		Value:    []any{p.TypeName(), p.AccessName(), p.DataTypeName()},
	}

	subParams := container(base.FullPath+"/params", "sub-parameter bindings")
	for _, name := range p.Params().Keys() {
		subParams.Contents[name] = boundSourceAttribute(base.FullPath+"/params/"+name, p.Params(), name)
	}
	base.Contents["params"] = subParams

	return base
}

func buildGraphNode(it *graph.Item) *Attribute {
	base := container("/xsched/graph/uuids/"+it.UUID().String(), it.TypeName())
	base.Contents["type"] = &Attribute{
		FullPath: base.FullPath + "/type",
		TypeTag:  "s",
		Access:   1,
		Value:    []any{it.TypeName()},
	}

	if it.Kind() != graph.Leaf {
		children := container(base.FullPath+"/children", "children arrangement")
		ids := it.ChildrenUUIDs()
		strs := make([]any, len(ids))
		for i, id := range ids {
			strs[i] = id.String()
		}
		children.Contents["ids"] = &Attribute{
			FullPath: children.FullPath + "/ids",
			TypeTag:  tagRepeat("s", len(strs)),
			Access:   1,
			Value:    strs,
		}
		children.Contents["type"] = &Attribute{
			FullPath: children.FullPath + "/type",
			TypeTag:  "s",
			Access:   1,
			Value:    []any{it.ChildrenTypeName()},
		}
		base.Contents["children"] = children
	}

	subParams := container(base.FullPath+"/params", "parameter bindings")
	for _, name := range it.Params().Keys() {
		subParams.Contents[name] = boundSourceAttribute(base.FullPath+"/params/"+name, it.Params(), name)
	}
	base.Contents["params"] = subParams

	return base
}

func boundSourceAttribute(path string, m *param.Map, name string) *Attribute {
	id, err := m.UUID(name)
	v := ""
	if err == nil && id != uuid.Nil {
		v = id.String()
	}
	return &Attribute{FullPath: path, TypeTag: "s", Access: 1, Value: []any{v}}
}

func tagRepeat(tag string, n int) string {
	out := make([]byte, n)
	for i := range out {
		out[i] = tag[0]
	}
	return string(out)
}
