package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/matzehuels/colortrade/pkg/core/edgecolor"
	"github.com/matzehuels/colortrade/pkg/core/graph"
	"github.com/matzehuels/colortrade/pkg/core/trade"
	apperr "github.com/matzehuels/colortrade/pkg/errors"
	"github.com/matzehuels/colortrade/pkg/instance"
	"github.com/matzehuels/colortrade/pkg/observability"
)

// Enumerate runs the solver without caching. Progress goes to the solve
// hooks, to opts.Progress and, at debug level, to the logger.
func Enumerate(ctx context.Context, name string, g *graph.Graph[instance.Label], req Constraints, opts Options) ([]Solution, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	hooks := observability.Solve()
	hooks.OnSolveStart(ctx, name, g.VertexCount(), g.EdgeCount())

	observer := func(p edgecolor.Progress) {
		hooks.OnSolveProgress(ctx, name, p.Nodes, p.Solutions)
		if opts.Progress != nil {
			opts.Progress(p)
		}
	}
	opts.Logger.Debug("solving", "instance", name, "workers", opts.Workers, "limit", opts.Limit)

	start := time.Now()
	sols, err := edgecolor.Enumerate(ctx, g, req,
		edgecolor.WithWorkers(opts.Workers),
		edgecolor.WithLimit(opts.Limit),
		edgecolor.WithObserver(observer),
	)
	hooks.OnSolveComplete(ctx, name, len(sols), time.Since(start), err)
	if err != nil {
		return nil, classify(err, "solve %s", name)
	}
	return sols, nil
}

// BuildTradeGraph builds the trade graph without caching.
func BuildTradeGraph(ctx context.Context, sols []Solution, opts Options) (*graph.Graph[int], error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	hooks := observability.Trade()
	hooks.OnTradeStart(ctx, len(sols))

	start := time.Now()
	tg, err := trade.BuildContext(ctx, sols, opts.Workers)
	if err != nil {
		hooks.OnTradeComplete(ctx, len(sols), 0, 0, time.Since(start), err)
		return nil, classify(err, "build trade graph")
	}
	hooks.OnTradeComplete(ctx, len(sols), tg.EdgeCount(), len(tg.Components()), time.Since(start), nil)
	return tg, nil
}

// classify attaches an error code to a solver or trade-graph failure.
func classify(err error, format string, args ...any) error {
	var ce *edgecolor.ConstraintError
	switch {
	case errors.As(err, &ce):
		return apperr.Wrap(apperr.ErrCodeInvalidConstraint, err, format, args...)
	case errors.Is(err, context.DeadlineExceeded):
		return apperr.Wrap(apperr.ErrCodeTimeout, err, format, args...)
	case errors.Is(err, context.Canceled):
		return apperr.Wrap(apperr.ErrCodeCanceled, err, format, args...)
	default:
		return apperr.Wrap(apperr.ErrCodeInternal, err, format, args...)
	}
}

// solutionSet is the cached form of a solve: the edge order it was computed
// for and one color list per coloring in enumeration order.
type solutionSet struct {
	Edges     []instance.Edge    `json:"edges"`
	Colorings [][]instance.Label `json:"colorings"`
}

func encodeSolutions(g *graph.Graph[instance.Label], sols []Solution) ([]byte, error) {
	set := solutionSet{
		Edges:     make([]instance.Edge, 0, g.EdgeCount()),
		Colorings: make([][]instance.Label, len(sols)),
	}
	for _, e := range g.Edges() {
		set.Edges = append(set.Edges, instance.Edge{e.U, e.V})
	}
	for i, s := range sols {
		set.Colorings[i] = s.Colors()
	}
	return json.Marshal(set)
}

// decodeSolutions rebuilds cached colorings and checks each one against the
// current graph and constraints.
func decodeSolutions(data []byte, g *graph.Graph[instance.Label], req Constraints) ([]Solution, error) {
	var set solutionSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, err
	}
	edges := g.Edges()
	if len(set.Edges) != len(edges) {
		return nil, fmt.Errorf("cached edge count %d, graph has %d", len(set.Edges), len(edges))
	}
	for i, e := range edges {
		if set.Edges[i] != (instance.Edge{e.U, e.V}) {
			return nil, fmt.Errorf("cached edge %d is %s-%s, graph has %v", i, set.Edges[i][0], set.Edges[i][1], e)
		}
	}

	sols := make([]Solution, 0, len(set.Colorings))
	for i, colors := range set.Colorings {
		c, err := edgecolor.NewColoring(edges, colors)
		if err != nil {
			return nil, fmt.Errorf("coloring %d: %w", i, err)
		}
		if err := edgecolor.Verify(g, req, c); err != nil {
			return nil, fmt.Errorf("coloring %d: %w", i, err)
		}
		sols = append(sols, c)
	}
	return sols, nil
}

// tradeEntry is the cached form of a trade graph.
type tradeEntry struct {
	Colorings int      `json:"colorings"`
	Pairs     [][2]int `json:"pairs"`
}

func encodeTradeGraph(tg *graph.Graph[int]) ([]byte, error) {
	entry := tradeEntry{Colorings: tg.VertexCount(), Pairs: make([][2]int, 0, tg.EdgeCount())}
	for _, e := range tg.Edges() {
		entry.Pairs = append(entry.Pairs, [2]int{e.U, e.V})
	}
	return json.Marshal(entry)
}

func decodeTradeGraph(data []byte, n int) (*graph.Graph[int], error) {
	var entry tradeEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	if entry.Colorings != n {
		return nil, fmt.Errorf("cached trade graph has %d colorings, want %d", entry.Colorings, n)
	}
	tg := graph.Empty(n)
	for _, p := range entry.Pairs {
		if p[0] >= p[1] {
			return nil, fmt.Errorf("cached trade pair %v out of order", p)
		}
		if err := tg.AddEdge(p[0], p[1]); err != nil {
			return nil, err
		}
	}
	return tg, nil
}
