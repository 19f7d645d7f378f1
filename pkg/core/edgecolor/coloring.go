package edgecolor

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/colortrade/pkg/core/graph"
)

// Constraints maps every vertex to the colors its incident edges must use.
// A slice rather than a set so duplicates can be reported and so the list
// order fixes the order in which candidate colors are tried.
type Constraints[V, C comparable] map[V][]C

// Coloring assigns one color to every edge of a graph. Colors are stored in
// the graph's canonical edge order.
//
// A Coloring is immutable once returned: accessors hand out copies, and the
// edge list shared between colorings of one solve is never written.
type Coloring[V, C comparable] struct {
	edges  *edgeIndex[V]
	colors []C
}

// edgeIndex is the canonical edge list of one solve, shared read-only by
// every coloring it produced.
type edgeIndex[V comparable] struct {
	edges  []graph.Edge[V]
	lookup map[graph.Edge[V]]int
}

func newEdgeIndex[V comparable](edges []graph.Edge[V]) *edgeIndex[V] {
	idx := &edgeIndex[V]{
		edges:  edges,
		lookup: make(map[graph.Edge[V]]int, 2*len(edges)),
	}
	for i, e := range edges {
		idx.lookup[e] = i
		idx.lookup[e.Reversed()] = i
	}
	return idx
}

// NewColoring builds a coloring from parallel edge and color slices, for
// example when decoding a stored solution. Both slices are copied.
func NewColoring[V, C comparable](edges []graph.Edge[V], colors []C) (Coloring[V, C], error) {
	if len(edges) != len(colors) {
		return Coloring[V, C]{}, fmt.Errorf("%w: %d edges but %d colors", ErrInvalidColoring, len(edges), len(colors))
	}
	return Coloring[V, C]{
		edges:  newEdgeIndex(slices.Clone(edges)),
		colors: slices.Clone(colors),
	}, nil
}

// Len returns the number of colored edges.
func (c Coloring[V, C]) Len() int { return len(c.colors) }

// Edge returns the i-th edge in canonical order.
func (c Coloring[V, C]) Edge(i int) graph.Edge[V] { return c.edges.edges[i] }

// ColorAt returns the color of the i-th edge in canonical order.
func (c Coloring[V, C]) ColorAt(i int) C { return c.colors[i] }

// Color returns the color of the edge joining u and v, in either order.
func (c Coloring[V, C]) Color(u, v V) (C, bool) {
	if c.edges == nil {
		var zero C
		return zero, false
	}
	i, ok := c.edges.lookup[graph.Edge[V]{U: u, V: v}]
	if !ok {
		var zero C
		return zero, false
	}
	return c.colors[i], true
}

// Edges returns a copy of the edges in canonical order.
func (c Coloring[V, C]) Edges() []graph.Edge[V] {
	if c.edges == nil {
		return nil
	}
	return slices.Clone(c.edges.edges)
}

// Colors returns a copy of the colors in canonical edge order.
func (c Coloring[V, C]) Colors() []C { return slices.Clone(c.colors) }

// Map returns the coloring as a fresh edge -> color map. Edges are keyed
// exactly as they were added to the graph.
func (c Coloring[V, C]) Map() map[graph.Edge[V]]C {
	m := make(map[graph.Edge[V]]C, len(c.colors))
	for i, col := range c.colors {
		m[c.edges.edges[i]] = col
	}
	return m
}

// Equal reports whether both colorings assign the same colors to the same
// edge sequence.
func (c Coloring[V, C]) Equal(o Coloring[V, C]) bool {
	if len(c.colors) != len(o.colors) {
		return false
	}
	for i := range c.colors {
		if c.colors[i] != o.colors[i] || c.edges.edges[i] != o.edges.edges[i] {
			return false
		}
	}
	return true
}

// String formats the coloring as "{u-v:c, ...}" in canonical edge order.
func (c Coloring[V, C]) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, col := range c.colors {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%v:%v", c.edges.edges[i], col)
	}
	b.WriteByte('}')
	return b.String()
}
