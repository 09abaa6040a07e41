package fqb_test

import (
	"testing"

	"github.com/fivetwenty-io/fqb/pkg/fqb"
	"github.com/stretchr/testify/assert"
)

//nolint:funlen // Test functions can be longer for detailed testing
func TestRootEdge_CompileEdge(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		edge     *fqb.RootEdge
		expected string
	}{
		{
			name:     "name only",
			edge:     fqb.NewRootEdge("me"),
			expected: "/me",
		},
		{
			name:     "fields without limit",
			edge:     fqb.NewRootEdge("me", "a", "b", "c"),
			expected: "/me?fields=a,b,c",
		},
		{
			name:     "limit without fields",
			edge:     fqb.NewRootEdge("me").Limit(5),
			expected: "/me?limit=5",
		},
		{
			name:     "limit precedes fields",
			edge:     fqb.NewRootEdge("me", "a").Limit(5),
			expected: "/me?limit=5&fields=a",
		},
		{
			name:     "zero limit is omitted",
			edge:     fqb.NewRootEdge("me", "id").Limit(0),
			expected: "/me?fields=id",
		},
		{
			name:     "negative limit is omitted",
			edge:     fqb.NewRootEdge("me").Limit(-3),
			expected: "/me",
		},
		{
			name:     "numeric node id",
			edge:     fqb.NewRootEdge("1234567890", "name"),
			expected: "/1234567890?fields=name",
		},
		{
			name:     "edge path",
			edge:     fqb.NewRootEdge("me/photos").Limit(25),
			expected: "/me/photos?limit=25",
		},
		{
			name:     "large limit is passed through",
			edge:     fqb.NewRootEdge("me").Limit(100000),
			expected: "/me?limit=100000",
		},
		{
			name:     "names are not escaped",
			edge:     fqb.NewRootEdge("me", "first name", "a&b"),
			expected: "/me?fields=first name,a&b",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, tt.edge.CompileEdge())
			assert.Equal(t, tt.expected, tt.edge.String())
		})
	}
}

func TestRootEdge_FieldsForms(t *testing.T) {
	t.Parallel()

	list := []string{"a", "b"}

	variadic := fqb.NewRootEdge("me").Fields("a", "b")
	sequence := fqb.NewRootEdge("me").Fields(list...)

	assert.Equal(t, variadic.FieldList(), sequence.FieldList())
	assert.Equal(t, variadic.CompileEdge(), sequence.CompileEdge())
}

func TestRootEdge_FieldsAccumulate(t *testing.T) {
	t.Parallel()

	edge := fqb.NewRootEdge("me", "id")
	edge.Fields("name")
	edge.Fields("id", "email")

	assert.Equal(t, []string{"id", "name", "id", "email"}, edge.FieldList())
	assert.Equal(t, "/me?fields=id,name,id,email", edge.CompileEdge())
}

func TestRootEdge_CompileIsIdempotent(t *testing.T) {
	t.Parallel()

	edge := fqb.NewRootEdge("me", "id", "name").Limit(10)
	edge.Edges(fqb.NewEdge("photos", "source").Limit(2))

	first := edge.CompileEdge()
	second := edge.CompileEdge()

	assert.Equal(t, first, second)
	assert.Equal(t, "/me?limit=10&fields=id,name,photos.limit(2){source}", first)
	assert.Len(t, edge.FieldList(), 3)
}

func TestRootEdge_Accessors(t *testing.T) {
	t.Parallel()

	root := fqb.NewRootEdge("me").Limit(7)
	assert.Equal(t, "me", root.Name())
	assert.True(t, root.IsRoot())
	assert.Equal(t, 7, root.LimitValue())
	assert.Empty(t, root.FieldList())

	edge := fqb.NewEdge("photos")
	assert.Equal(t, "photos", edge.Name())
	assert.False(t, edge.IsRoot())
}

func TestEdge_CompileEdge(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		edge     *fqb.Edge
		expected string
	}{
		{
			name:     "name only",
			edge:     fqb.NewEdge("photos"),
			expected: "photos",
		},
		{
			name:     "with fields",
			edge:     fqb.NewEdge("photos", "id", "source"),
			expected: "photos{id,source}",
		},
		{
			name:     "with limit",
			edge:     fqb.NewEdge("photos").Limit(3),
			expected: "photos.limit(3)",
		},
		{
			name:     "with limit and fields",
			edge:     fqb.NewEdge("photos", "id").Limit(3),
			expected: "photos.limit(3){id}",
		},
		{
			name: "nested edges keep insertion order",
			edge: fqb.NewEdge("albums", "id").
				Edges(fqb.NewEdge("photos", "source").Limit(1)).
				Fields("name"),
			expected: "albums{id,photos.limit(1){source},name}",
		},
		{
			name:     "nil edges are skipped",
			edge:     fqb.NewEdge("albums", "id").Edges(nil),
			expected: "albums{id}",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, tt.edge.CompileEdge())
			assert.Equal(t, tt.expected, tt.edge.String())
		})
	}
}

func TestRootEdge_NestedEdgeChangesAfterAdd(t *testing.T) {
	t.Parallel()

	photos := fqb.NewEdge("photos", "id")
	root := fqb.NewRootEdge("me").Edges(photos)

	assert.Equal(t, "/me?fields=photos{id}", root.CompileEdge())

	photos.Fields("source")
	assert.Equal(t, "/me?fields=photos{id,source}", root.CompileEdge())
}

func TestEdge_CyclesAreSkipped(t *testing.T) {
	t.Parallel()

	t.Run("self reference", func(t *testing.T) {
		t.Parallel()

		photos := fqb.NewEdge("photos", "id")
		photos.Edges(photos)

		assert.Equal(t, "photos{id}", photos.CompileEdge())
	})

	t.Run("indirect cycle", func(t *testing.T) {
		t.Parallel()

		albums := fqb.NewEdge("albums", "name")
		photos := fqb.NewEdge("photos", "id")
		comments := fqb.NewEdge("comments", "message")

		albums.Edges(photos)
		photos.Edges(comments)
		comments.Edges(albums)

		assert.Equal(t, "albums{name,photos{id,comments{message}}}", albums.CompileEdge())
		assert.Equal(t, "comments{message}", comments.CompileEdge())
	})

	t.Run("shared edge is not a cycle", func(t *testing.T) {
		t.Parallel()

		likes := fqb.NewEdge("likes").Limit(1)
		root := fqb.NewRootEdge("me").Edges(
			fqb.NewEdge("posts").Edges(likes),
			fqb.NewEdge("photos").Edges(likes),
		)

		assert.Equal(t, "/me?fields=posts{likes.limit(1)},photos{likes.limit(1)}", root.CompileEdge())
	})
}
