package graph

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrDuplicateVertex is returned by [Graph.AddVertex] when the vertex is
	// already present. Vertex identifiers must be unique within a graph.
	ErrDuplicateVertex = errors.New("duplicate vertex")

	// ErrUnknownVertex is returned by [Graph.AddEdge] when either endpoint
	// has not been added to the graph.
	ErrUnknownVertex = errors.New("unknown vertex")

	// ErrSelfLoop is returned by [Graph.AddEdge] when both endpoints are the
	// same vertex.
	ErrSelfLoop = errors.New("self-loop not allowed")

	// ErrDuplicateEdge is returned by [Graph.AddEdge] when the two endpoints
	// are already joined, in either orientation.
	ErrDuplicateEdge = errors.New("parallel edge not allowed")
)

// Edge is an unordered pair of distinct vertices. The endpoint order is the
// order given to AddEdge and is preserved so callers can address an edge by
// exactly the pair they supplied.
type Edge[T comparable] struct {
	U T
	V T
}

// Reversed returns the edge with its endpoints swapped.
func (e Edge[T]) Reversed() Edge[T] { return Edge[T]{U: e.V, V: e.U} }

// Has reports whether x is one of the edge's endpoints.
func (e Edge[T]) Has(x T) bool { return e.U == x || e.V == x }

// Other returns the endpoint opposite x. The result is meaningless if x is
// not an endpoint.
func (e Edge[T]) Other(x T) T {
	if e.U == x {
		return e.V
	}
	return e.U
}

// String formats the edge as "u-v".
func (e Edge[T]) String() string { return fmt.Sprintf("%v-%v", e.U, e.V) }

// Graph is a simple undirected graph with insertion-ordered vertices and edges.
//
// The zero value is not usable - use New to create a Graph.
// Graph is not safe for concurrent mutation; concurrent readers are fine once
// construction is complete.
type Graph[T comparable] struct {
	vertices []T
	index    map[T]int       // vertex -> position in vertices
	edges    []Edge[T]       // canonical order
	edgeIdx  map[Edge[T]]int // both orientations -> position in edges
	adj      map[T][]T
}

// New creates an empty graph.
func New[T comparable]() *Graph[T] {
	return &Graph[T]{
		index:   make(map[T]int),
		edgeIdx: make(map[Edge[T]]int),
		adj:     make(map[T][]T),
	}
}

// AddVertex adds an isolated vertex. Returns ErrDuplicateVertex if v exists.
func (g *Graph[T]) AddVertex(v T) error {
	if _, ok := g.index[v]; ok {
		return fmt.Errorf("%w: %v", ErrDuplicateVertex, v)
	}
	g.index[v] = len(g.vertices)
	g.vertices = append(g.vertices, v)
	return nil
}

// AddEdge joins u and v and appends the edge to the canonical order.
// Both endpoints must already exist.
func (g *Graph[T]) AddEdge(u, v T) error {
	if _, ok := g.index[u]; !ok {
		return fmt.Errorf("%w: %v", ErrUnknownVertex, u)
	}
	if _, ok := g.index[v]; !ok {
		return fmt.Errorf("%w: %v", ErrUnknownVertex, v)
	}
	if u == v {
		return fmt.Errorf("%w: %v", ErrSelfLoop, u)
	}
	e := Edge[T]{U: u, V: v}
	if _, ok := g.edgeIdx[e]; ok {
		return fmt.Errorf("%w: %v", ErrDuplicateEdge, e)
	}
	i := len(g.edges)
	g.edges = append(g.edges, e)
	g.edgeIdx[e] = i
	g.edgeIdx[e.Reversed()] = i
	g.adj[u] = append(g.adj[u], v)
	g.adj[v] = append(g.adj[v], u)
	return nil
}

// HasVertex reports whether v is in the graph.
func (g *Graph[T]) HasVertex(v T) bool {
	_, ok := g.index[v]
	return ok
}

// HasEdge reports whether u and v are adjacent.
func (g *Graph[T]) HasEdge(u, v T) bool {
	_, ok := g.edgeIdx[Edge[T]{U: u, V: v}]
	return ok
}

// EdgeIndex returns the canonical position of the edge joining u and v,
// accepting either endpoint order.
func (g *Graph[T]) EdgeIndex(u, v T) (int, bool) {
	i, ok := g.edgeIdx[Edge[T]{U: u, V: v}]
	return i, ok
}

// Vertices returns a copy of the vertices in insertion order.
func (g *Graph[T]) Vertices() []T { return slices.Clone(g.vertices) }

// Edges returns a copy of the edges in canonical (insertion) order.
func (g *Graph[T]) Edges() []Edge[T] { return slices.Clone(g.edges) }

// VertexCount returns the number of vertices.
func (g *Graph[T]) VertexCount() int { return len(g.vertices) }

// EdgeCount returns the number of edges.
func (g *Graph[T]) EdgeCount() int { return len(g.edges) }

// Degree returns the number of edges incident to v, or 0 if v is unknown.
func (g *Graph[T]) Degree(v T) int { return len(g.adj[v]) }

// Neighbors returns the vertices adjacent to v in edge insertion order.
// The returned slice is a read-only view.
func (g *Graph[T]) Neighbors(v T) []T { return g.adj[v] }

// Degrees returns the degree of every vertex, in vertex order.
func (g *Graph[T]) Degrees() []int {
	out := make([]int, len(g.vertices))
	for i, v := range g.vertices {
		out[i] = len(g.adj[v])
	}
	return out
}

// Components returns the connected components. Components are listed in
// order of their first vertex; vertices within a component appear in
// breadth-first order from that vertex.
func (g *Graph[T]) Components() [][]T {
	seen := make(map[T]bool, len(g.vertices))
	var comps [][]T
	for _, start := range g.vertices {
		if seen[start] {
			continue
		}
		seen[start] = true
		comp := []T{start}
		for head := 0; head < len(comp); head++ {
			for _, n := range g.adj[comp[head]] {
				if !seen[n] {
					seen[n] = true
					comp = append(comp, n)
				}
			}
		}
		comps = append(comps, comp)
	}
	return comps
}

// ComponentSizes returns the size of each connected component, largest first.
func (g *Graph[T]) ComponentSizes() []int {
	comps := g.Components()
	sizes := make([]int, len(comps))
	for i, c := range comps {
		sizes[i] = len(c)
	}
	slices.SortFunc(sizes, func(a, b int) int { return cmp.Compare(b, a) })
	return sizes
}
