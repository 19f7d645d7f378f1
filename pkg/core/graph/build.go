package graph

import "fmt"

// FromEdges builds a graph from a vertex list and an edge list. Edges keep
// the order given, which becomes the canonical edge order.
func FromEdges[T comparable](vertices []T, edges []Edge[T]) (*Graph[T], error) {
	g := New[T]()
	for _, v := range vertices {
		if err := g.AddVertex(v); err != nil {
			return nil, err
		}
	}
	for i, e := range edges {
		if err := g.AddEdge(e.U, e.V); err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
	}
	return g, nil
}

// Cycle returns the cycle C_n on vertices 0..n-1 with edges
// (0,1), (1,2), ..., (n-2,n-1), (n-1,0). n must be at least 3.
func Cycle(n int) (*Graph[int], error) {
	if n < 3 {
		return nil, fmt.Errorf("cycle needs at least 3 vertices, got %d", n)
	}
	g := Empty(n)
	for i := 0; i < n; i++ {
		_ = g.AddEdge(i, (i+1)%n)
	}
	return g, nil
}

// Complete returns the complete graph K_n on vertices 0..n-1 with edges in
// lexicographic order.
func Complete(n int) *Graph[int] {
	g := Empty(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			_ = g.AddEdge(i, j)
		}
	}
	return g
}

// Empty returns n isolated vertices 0..n-1.
func Empty(n int) *Graph[int] {
	g := New[int]()
	for i := 0; i < n; i++ {
		_ = g.AddVertex(i)
	}
	return g
}
