// Package trade relates the solutions of one edge-coloring instance.
//
// Two colorings of the same graph form a trade when they disagree on every
// edge: no edge carries the same color in both. The trade graph has one
// vertex per solution (its index in the solver output) and an edge between
// every pair of solutions that trade.
//
// [Build] compares all pairs edge by edge, O(n²·m) for n solutions over m
// edges. Solution counts for puzzle-sized instances are small, so the scan is
// left naive. [Analyze] derives the summary the command-line tool prints:
// trade count, component sizes and the degree spectrum.
package trade
