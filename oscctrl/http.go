package oscctrl

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/x37v/go-xsched/core/control"
)

// Server is the HTTP half of the OSCQuery transport: it serves the
// /xsched address tree as JSON (the OSCQuery CONTENTS shape; a ?HOST_INFO
// query is not answered separately and gets the addressed node like any
// other GET) and accepts command envelopes posted to
// /xsched/command as a convenience alongside the OSC/UDP Set path
// implemented in transport.go.
type Server struct {
	sys  *control.System
	http *http.Server
}

// NewServer builds an HTTP server bound to addr (e.g. ":3000") that
// serves sys's live address tree.
func NewServer(addr string, sys *control.System) *Server {
	s := &Server{sys: sys}
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handle)
	s.http = &http.Server{Addr: addr, Handler: mux}
	return s
}

// ListenAndServe blocks serving HTTP requests until the server is
// closed. Intended to run on its own goroutine, supervised the same way
// cmd/xsched supervises the OSC/UDP listener.
func (s *Server) ListenAndServe() error {
	return s.http.ListenAndServe()
}

// Close shuts the HTTP server down.
func (s *Server) Close() error {
	return s.http.Close()
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost && r.URL.Path == "/xsched/command" {
		s.handleCommand(w, r)
		return
	}
	if r.Method == http.MethodPut && strings.HasSuffix(r.URL.Path, "/value") {
		s.handleValueWrite(w, r)
		return
	}

	tree := BuildTree(s.sys)
	node := find(tree, r.URL.Path)
	if node == nil {
		http.NotFound(w, r)
		return
	}
	if _, wantValue := r.URL.Query()["VALUE"]; wantValue && node.Value != nil {
		writeJSON(w, node.Value)
		return
	}
	writeJSON(w, node)
}

// handleValueWrite implements the GetSet half of spec §6's
// /xsched/params/uuids/<uuid>/value endpoint: a PUT of a JSON-encoded
// value, typed per the param's ValueTag, routed through writeParamValue
// the same way the tree's advertised ACCESS=3 on that node promises.
func (s *Server) handleValueWrite(w http.ResponseWriter, r *http.Request) {
	id, ok := paramIDFromValuePath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	p, ok := s.sys.Param(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	v, err := decodeValueForTag(p.Tag(), body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := writeParamValue(p, v); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// paramIDFromValuePath extracts <uuid> out of
// "/xsched/params/uuids/<uuid>/value"; ok is false for any other shape.
func paramIDFromValuePath(path string) (id uuid.UUID, ok bool) {
	segs := strings.Split(strings.Trim(path, "/"), "/")
	if len(segs) != 5 || segs[0] != "xsched" || segs[1] != "params" || segs[2] != "uuids" || segs[4] != "value" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(segs[3])
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	cmd, err := control.DecodeCommand(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.sys.Submit(cmd)
	w.WriteHeader(http.StatusAccepted)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// find walks tree by path ("/xsched/params/uuids/<id>/value") and returns
// the matching Attribute, or nil.
func find(tree *Attribute, path string) *Attribute {
	path = strings.Trim(path, "/")
	if path == "" || path == "xsched" {
		return tree
	}
	segs := strings.Split(path, "/")
	if len(segs) == 0 || segs[0] != "xsched" {
		return nil
	}
	cur := tree
	for _, seg := range segs[1:] {
		if cur.Contents == nil {
			return nil
		}
		next, ok := cur.Contents[seg]
		if !ok {
			return nil
		}
		cur = next
	}
	return cur
}
