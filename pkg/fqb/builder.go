package fqb

import (
	"context"
	"fmt"
)

type connectionContextKey struct{}

// NewContext returns a copy of ctx carrying conn. Builders without their
// own connection dispatch through it.
func NewContext(ctx context.Context, conn *Connection) context.Context {
	return context.WithValue(ctx, connectionContextKey{}, conn)
}

// FromContext returns the connection stored in ctx, if any.
func FromContext(ctx context.Context) (*Connection, bool) {
	conn, ok := ctx.Value(connectionContextKey{}).(*Connection)

	return conn, ok && conn != nil
}

// FQB builds and dispatches a single Graph API request. It is not safe for
// concurrent use.
type FQB struct {
	rootEdge *RootEdge
	postData map[string]interface{}
	conn     *Connection
}

// New creates a builder without a root edge, to be used as a factory for
// Object and Edge. conn may be nil, in which case requests use the
// connection carried by their context.
func New(conn *Connection) *FQB {
	return &FQB{conn: conn, postData: map[string]interface{}{}}
}

// Object creates a new builder for the named node sharing this builder's
// connection.
func (b *FQB) Object(name string, fields ...string) *FQB {
	return &FQB{
		rootEdge: NewRootEdge(name, fields...),
		postData: map[string]interface{}{},
		conn:     b.conn,
	}
}

// Edge creates a nested edge for use with Edges.
func (b *FQB) Edge(name string, fields ...string) *Edge {
	return NewEdge(name, fields...)
}

// WithConnection sets the connection used by this builder.
func (b *FQB) WithConnection(conn *Connection) *FQB {
	b.conn = conn

	return b
}

// RootEdge returns the root edge, or nil for a factory builder.
func (b *FQB) RootEdge() *RootEdge {
	return b.rootEdge
}

// PostData returns the data sent by Post.
func (b *FQB) PostData() map[string]interface{} {
	return b.postData
}

// Fields appends fields to the root edge.
func (b *FQB) Fields(fields ...string) *FQB {
	if b.rootEdge != nil {
		b.rootEdge.Fields(fields...)
	}

	return b
}

// Edges appends nested edges to the root edge.
func (b *FQB) Edges(edges ...*Edge) *FQB {
	if b.rootEdge != nil {
		b.rootEdge.Edges(edges...)
	}

	return b
}

// Limit sets the limit of the root edge.
func (b *FQB) Limit(limit int) *FQB {
	if b.rootEdge != nil {
		b.rootEdge.Limit(limit)
	}

	return b
}

// With replaces the POST body.
func (b *FQB) With(data map[string]interface{}) *FQB {
	b.postData = data

	return b
}

// QueryURL returns the compiled request path.
func (b *FQB) QueryURL() string {
	if b.rootEdge == nil {
		return ""
	}

	return b.rootEdge.CompileEdge()
}

// String implements fmt.Stringer.
func (b *FQB) String() string {
	return b.QueryURL()
}

// Get merges fields into the root edge and sends a GET request.
func (b *FQB) Get(ctx context.Context, fields ...string) (*Response, error) {
	conn, err := b.connection(ctx)
	if err != nil {
		return nil, err
	}

	b.rootEdge.Fields(fields...)

	return conn.Get(ctx, b.rootEdge)
}

// Post sends a POST request with the data set by With.
func (b *FQB) Post(ctx context.Context) (*Response, error) {
	conn, err := b.connection(ctx)
	if err != nil {
		return nil, err
	}

	return conn.Post(ctx, b.rootEdge, b.postData)
}

// Delete sends a DELETE request.
func (b *FQB) Delete(ctx context.Context) (*Response, error) {
	conn, err := b.connection(ctx)
	if err != nil {
		return nil, err
	}

	return conn.Delete(ctx, b.rootEdge)
}

func (b *FQB) connection(ctx context.Context) (*Connection, error) {
	if b.rootEdge == nil {
		return nil, ErrNoRootEdge
	}

	if b.conn != nil {
		return b.conn, nil
	}

	if conn, ok := FromContext(ctx); ok {
		return conn, nil
	}

	return nil, fmt.Errorf("dispatching %s: %w", b.rootEdge.CompileEdge(), ErrNoConnection)
}
