// Package edgecolor enumerates edge colorings of a simple undirected graph in
// which every vertex uses exactly a prescribed set of colors.
//
// # Problem
//
// Each vertex v carries a required color set R(v) with |R(v)| == deg(v). A
// solution assigns one color to every edge so that, at every vertex, the
// incident edges carry each color of R(v) exactly once. Such a coloring is
// automatically proper: no color repeats at a vertex.
//
// # Search
//
// [Enumerate] walks the edges in the graph's canonical order with depth-first
// backtracking. For the edge (u, v) the candidates are the colors still
// unused at both endpoints, tried in the order they appear in R(u). After a
// tentative assignment the search checks, for both endpoints, that the
// colors still required there fit into the incident edges still uncolored,
// and abandons the branch otherwise. Every assignment is undone before the
// next candidate is tried, so sibling branches share nothing.
//
// The output order is fully determined by the edge order and the order of
// the constraint lists. Running with several workers splits the candidates
// of the first edge across goroutines, each with private state, and joins the
// branch results in candidate order, so the output is identical to a
// sequential run.
//
// # Validation
//
// Constraints are checked before any search work:
//
//   - the constraint keys must equal the vertex set ([ErrVertexSetMismatch])
//   - no vertex may list a color twice ([ErrDuplicateColor])
//   - every list must be as long as the vertex degree ([ErrDegreeMismatch])
//
// Failures are reported as *[ConstraintError]. A well-formed instance with no
// solution is not an error; it yields an empty slice.
package edgecolor
