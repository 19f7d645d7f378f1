package edgecolor

import (
	"fmt"
	"slices"

	"github.com/matzehuels/colortrade/pkg/core/graph"
)

// Validate checks required against g without searching. It returns nil or a
// *ConstraintError. Checks run in a fixed order: vertex set first, then for
// each vertex in graph order duplicates before degree.
func Validate[V, C comparable](g *graph.Graph[V], required Constraints[V, C]) error {
	vertices := g.Vertices()

	var missing, extra []any
	for _, v := range vertices {
		if _, ok := required[v]; !ok {
			missing = append(missing, v)
		}
	}
	for v := range required {
		if !g.HasVertex(v) {
			extra = append(extra, v)
		}
	}
	if len(missing) > 0 || len(extra) > 0 {
		slices.SortFunc(extra, func(a, b any) int {
			return compareStrings(fmt.Sprint(a), fmt.Sprint(b))
		})
		return &ConstraintError{Kind: ErrVertexSetMismatch, Missing: missing, Extra: extra}
	}

	for _, v := range vertices {
		cs := required[v]
		seen := make(map[C]struct{}, len(cs))
		for _, c := range cs {
			if _, dup := seen[c]; dup {
				return &ConstraintError{Kind: ErrDuplicateColor, Vertex: v, Color: c}
			}
			seen[c] = struct{}{}
		}
		if d := g.Degree(v); d != len(cs) {
			return &ConstraintError{Kind: ErrDegreeMismatch, Vertex: v, Degree: d, Size: len(cs)}
		}
	}
	return nil
}

// Verify checks that c is a valid solution for g and required: it covers
// exactly the edges of g and every vertex sees each of its required colors
// exactly once. It is independent of the search and meant for checking
// colorings that come from storage or from another solver.
func Verify[V, C comparable](g *graph.Graph[V], required Constraints[V, C], c Coloring[V, C]) error {
	if c.Len() != g.EdgeCount() {
		return fmt.Errorf("%w: %d colored edges, graph has %d", ErrInvalidColoring, c.Len(), g.EdgeCount())
	}
	seen := make(map[V]map[C]struct{}, g.VertexCount())
	for i := 0; i < c.Len(); i++ {
		e := c.Edge(i)
		if !g.HasEdge(e.U, e.V) {
			return fmt.Errorf("%w: edge %v not in graph", ErrInvalidColoring, e)
		}
		col := c.ColorAt(i)
		for _, w := range []V{e.U, e.V} {
			if seen[w] == nil {
				seen[w] = make(map[C]struct{})
			}
			if _, dup := seen[w][col]; dup {
				return fmt.Errorf("%w: color %v repeated at %v", ErrInvalidColoring, col, w)
			}
			seen[w][col] = struct{}{}
		}
	}
	for _, v := range g.Vertices() {
		want := required[v]
		if len(seen[v]) != len(want) {
			return fmt.Errorf("%w: vertex %v uses %d colors, requires %d", ErrInvalidColoring, v, len(seen[v]), len(want))
		}
		for _, col := range want {
			if _, ok := seen[v][col]; !ok {
				return fmt.Errorf("%w: vertex %v does not use %v", ErrInvalidColoring, v, col)
			}
		}
	}
	return nil
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
