package fqb

import (
	"strconv"
	"strings"
)

// Edge is one node or edge of the Graph resource tree. A nested Edge compiles
// to a field selector that is embedded in its parent's fields parameter.
type Edge struct {
	name   string
	fields []selector
	limit  int
	isRoot bool
}

// selector is one entry of an edge's ordered field list: either a plain
// field name or a nested edge compiled when the parent compiles.
type selector struct {
	name string
	edge *Edge
}

func (s selector) compile() string {
	if s.edge != nil {
		return s.edge.CompileEdge()
	}

	return s.name
}

// NewEdge creates a nested edge with optional initial fields.
func NewEdge(name string, fields ...string) *Edge {
	edge := &Edge{name: name}
	edge.Fields(fields...)

	return edge
}

// Name returns the node or edge name.
func (e *Edge) Name() string {
	return e.name
}

// IsRoot reports whether this edge emits a full request path.
func (e *Edge) IsRoot() bool {
	return e.isRoot
}

// Fields appends fields in order. A slice is passed as Fields(list...).
// Repeated calls accumulate; duplicates are kept.
func (e *Edge) Fields(fields ...string) *Edge {
	for _, field := range fields {
		e.fields = append(e.fields, selector{name: field})
	}

	return e
}

// Edges appends nested edges to the field list. They share insertion order
// with plain fields. Edges form a tree: nil edges and edges that already
// contain e, including e itself, are skipped.
func (e *Edge) Edges(edges ...*Edge) *Edge {
	for _, edge := range edges {
		if edge == nil || edge.contains(e) {
			continue
		}

		e.fields = append(e.fields, selector{edge: edge})
	}

	return e
}

// Limit sets the pagination bound. Values <= 0 disable it.
func (e *Edge) Limit(limit int) *Edge {
	e.limit = limit

	return e
}

// contains reports whether target is e or nested anywhere below it.
func (e *Edge) contains(target *Edge) bool {
	if e == target {
		return true
	}

	for _, field := range e.fields {
		if field.edge != nil && field.edge.contains(target) {
			return true
		}
	}

	return false
}

// LimitValue returns the configured pagination bound.
func (e *Edge) LimitValue() int {
	return e.limit
}

// FieldList returns the compiled field selectors in insertion order.
func (e *Edge) FieldList() []string {
	list := make([]string, 0, len(e.fields))
	for _, field := range e.fields {
		list = append(list, field.compile())
	}

	return list
}

// CompileEdge compiles the edge into a field selector of the form
// name[.limit(n)][{f1,f2}].
func (e *Edge) CompileEdge() string {
	var builder strings.Builder

	builder.WriteString(e.name)

	if e.limit > 0 {
		builder.WriteString(".limit(")
		builder.WriteString(strconv.Itoa(e.limit))
		builder.WriteString(")")
	}

	if len(e.fields) > 0 {
		builder.WriteString("{")
		builder.WriteString(strings.Join(e.FieldList(), ","))
		builder.WriteString("}")
	}

	return builder.String()
}

// String implements fmt.Stringer.
func (e *Edge) String() string {
	return e.CompileEdge()
}

// RootEdge is the outermost edge of a request. It owns path compilation.
type RootEdge struct {
	Edge
}

// NewRootEdge creates a root edge with optional initial fields.
func NewRootEdge(name string, fields ...string) *RootEdge {
	root := &RootEdge{Edge: Edge{name: name, isRoot: true}}
	root.Fields(fields...)

	return root
}

// Fields appends fields to the root edge.
func (r *RootEdge) Fields(fields ...string) *RootEdge {
	r.Edge.Fields(fields...)

	return r
}

// Edges appends nested edges to the root edge.
func (r *RootEdge) Edges(edges ...*Edge) *RootEdge {
	r.Edge.Edges(edges...)

	return r
}

// Limit sets the limit query parameter. No upper bound is enforced.
func (r *RootEdge) Limit(limit int) *RootEdge {
	r.Edge.Limit(limit)

	return r
}

// CompileEdge compiles the request path:
//
//	/<name>[?limit=<n>][&fields=<f1>,<f2>]
//
// The limit segment always precedes the fields segment. Names and fields are
// not escaped.
func (r *RootEdge) CompileEdge() string {
	compiledValues := make([]string, 0, 2)

	if r.limit > 0 {
		compiledValues = append(compiledValues, "limit="+strconv.Itoa(r.limit))
	}

	if len(r.fields) > 0 {
		compiledValues = append(compiledValues, "fields="+strings.Join(r.FieldList(), ","))
	}

	path := "/" + r.name
	if len(compiledValues) > 0 {
		path += "?" + strings.Join(compiledValues, "&")
	}

	return path
}

// String implements fmt.Stringer.
func (r *RootEdge) String() string {
	return r.CompileEdge()
}
