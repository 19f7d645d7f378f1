// Package graph provides a small generic simple undirected graph.
//
// A [Graph] keeps vertices and edges in insertion order. The edge order is
// the canonical order used by the edge-coloring search, so building the same
// graph the same way always yields the same enumeration order.
//
// Self-loops and parallel edges are rejected: the graphs handled here are
// simple by construction, and the solver relies on that.
//
// # Queries
//
// Besides adjacency and degree lookups, the package offers the handful of
// structural queries the trade-graph analysis needs: connected components
// (breadth-first, in vertex order) and degree listings.
package graph
