package trade

import (
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/colortrade/pkg/core/edgecolor"
	"github.com/matzehuels/colortrade/pkg/core/graph"
)

// IsTrade reports whether a and b give every edge a different color.
// Colorings of different sizes never trade.
func IsTrade[V, C comparable](a, b edgecolor.Coloring[V, C]) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		if a.ColorAt(i) == b.ColorAt(i) {
			return false
		}
	}
	return true
}

// Build returns the trade graph of sols: vertices 0..len(sols)-1 and an edge
// (i, j), i < j, whenever sols[i] and sols[j] trade. Edges are added in
// lexicographic (i, j) order.
func Build[V, C comparable](sols []edgecolor.Coloring[V, C]) *graph.Graph[int] {
	tg := graph.Empty(len(sols))
	for i := range sols {
		for j := i + 1; j < len(sols); j++ {
			if IsTrade(sols[i], sols[j]) {
				_ = tg.AddEdge(i, j)
			}
		}
	}
	return tg
}

// BuildContext is Build with the pairwise scan spread over workers
// goroutines, one row i at a time. The resulting graph, including its edge
// order, is identical to Build's.
func BuildContext[V, C comparable](ctx context.Context, sols []edgecolor.Coloring[V, C], workers int) (*graph.Graph[int], error) {
	if workers < 2 {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("build trade graph: %w", err)
		}
		return Build(sols), nil
	}

	rows := make([][]int, len(sols))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i := range sols {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			for j := i + 1; j < len(sols); j++ {
				if IsTrade(sols[i], sols[j]) {
					rows[i] = append(rows[i], j)
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("build trade graph: %w", err)
	}

	tg := graph.Empty(len(sols))
	for i, row := range rows {
		for _, j := range row {
			_ = tg.AddEdge(i, j)
		}
	}
	return tg, nil
}

// Partners returns the solutions that trade with solution i, ascending.
func Partners(tg *graph.Graph[int], i int) []int {
	return slices.Sorted(slices.Values(tg.Neighbors(i)))
}
