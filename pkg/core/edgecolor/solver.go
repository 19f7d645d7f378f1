package edgecolor

import (
	"context"
	"fmt"
	"slices"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/colortrade/pkg/core/graph"
)

const (
	// cancelCheckInterval is how many search nodes pass between context polls.
	cancelCheckInterval = 1 << 10

	// ProgressInterval is how many search nodes pass between observer calls.
	ProgressInterval = 1 << 16
)

// Progress reports how far a running enumeration has come. Values are totals
// across all workers.
type Progress struct {
	Nodes     uint64 // candidate assignments tried
	Solutions int64  // complete colorings found
}

// Option configures an enumeration.
type Option func(*config)

type config struct {
	workers  int
	limit    int
	observer func(Progress)
}

// WithWorkers splits the search across n goroutines at the first edge.
// Values below 2 run sequentially. The output does not depend on n.
func WithWorkers(n int) Option {
	return func(c *config) { c.workers = n }
}

// WithLimit stops the enumeration after n colorings. Zero means no limit.
// The colorings returned are the first n of the unlimited output.
func WithLimit(n int) Option {
	return func(c *config) { c.limit = n }
}

// WithObserver registers fn to receive periodic progress reports. With more
// than one worker fn is called concurrently and must be safe for that.
func WithObserver(fn func(Progress)) Option {
	return func(c *config) { c.observer = fn }
}

// Enumerate returns every coloring of g in which each vertex v uses exactly
// the colors required[v]. Constraints are validated before searching; see
// the package documentation for the error kinds.
//
// The result is never nil on success: an infeasible instance returns an
// empty slice, and a graph without edges returns a single empty coloring.
// Cancelling ctx aborts the search and returns the context error.
func Enumerate[V, C comparable](ctx context.Context, g *graph.Graph[V], required Constraints[V, C], opts ...Option) ([]Coloring[V, C], error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	p, err := prepare(g, required)
	if err != nil {
		return nil, err
	}
	out, _, err := p.run(ctx, cfg, true)
	return out, err
}

// Count returns the number of colorings Enumerate would return, without
// keeping them.
func Count[V, C comparable](ctx context.Context, g *graph.Graph[V], required Constraints[V, C], opts ...Option) (int, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	p, err := prepare(g, required)
	if err != nil {
		return 0, err
	}
	_, n, err := p.run(ctx, cfg, false)
	return n, err
}

// problem is a validated instance translated to vertex indices. It is
// read-only; every search owns its own mutable state.
type problem[V, C comparable] struct {
	index  *edgeIndex[V]
	eu, ev []int // endpoint vertex indices per edge
	degree []int
	colors [][]C // required colors per vertex, in constraint order
}

func prepare[V, C comparable](g *graph.Graph[V], required Constraints[V, C]) (*problem[V, C], error) {
	if err := Validate(g, required); err != nil {
		return nil, err
	}
	vertices := g.Vertices()
	pos := make(map[V]int, len(vertices))
	p := &problem[V, C]{
		degree: make([]int, len(vertices)),
		colors: make([][]C, len(vertices)),
	}
	for i, v := range vertices {
		pos[v] = i
		p.degree[i] = g.Degree(v)
		p.colors[i] = slices.Clone(required[v])
	}
	edges := g.Edges()
	p.index = newEdgeIndex(edges)
	p.eu = make([]int, len(edges))
	p.ev = make([]int, len(edges))
	for i, e := range edges {
		p.eu[i] = pos[e.U]
		p.ev[i] = pos[e.V]
	}
	return p, nil
}

// run enumerates sequentially or, when configured, in parallel over the
// candidates of the first edge. keep controls whether colorings are stored.
func (p *problem[V, C]) run(ctx context.Context, cfg config, keep bool) ([]Coloring[V, C], int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, fmt.Errorf("enumerate: %w", err)
	}
	shared := &counters{observer: cfg.observer}
	if cfg.workers < 2 || len(p.eu) == 0 {
		s := p.newSearch(ctx, cfg.limit, keep, shared)
		s.walk(0)
		if s.err != nil {
			return nil, 0, s.err
		}
		return s.out, s.found, nil
	}

	first := p.newSearch(ctx, 0, false, shared).candidates(0)
	branches := make([]*search[V, C], len(first))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(cfg.workers)
	for i, c := range first {
		s := p.newSearch(egCtx, cfg.limit, keep, shared)
		branches[i] = s
		eg.Go(func() error {
			s.try(0, c)
			return s.err
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, 0, err
	}

	out := make([]Coloring[V, C], 0)
	total := 0
	for _, s := range branches {
		out = append(out, s.out...)
		total += s.found
	}
	if cfg.limit > 0 && total > cfg.limit {
		total = cfg.limit
		if keep {
			out = out[:cfg.limit]
		}
	}
	return out, total, nil
}

// counters aggregates progress across concurrent searches.
type counters struct {
	nodes     atomic.Uint64
	solutions atomic.Int64
	observer  func(Progress)
}

func (c *counters) add(nodes uint64, solutions int64) {
	n := c.nodes.Add(nodes)
	s := c.solutions.Add(solutions)
	if c.observer != nil && nodes > 0 {
		c.observer(Progress{Nodes: n, Solutions: s})
	}
}

// search is the mutable state of one depth-first walk. It is owned by a
// single goroutine for the duration of one Enumerate call.
type search[V, C comparable] struct {
	p      *problem[V, C]
	ctx    context.Context
	limit  int
	keep   bool
	shared *counters

	remaining []map[C]struct{} // colors of R(v) not yet placed at v
	placed    []int            // colored edges incident to v
	assign    []C              // color per edge, valid below the current depth

	out   []Coloring[V, C]
	found int
	nodes uint64
	err   error
}

func (p *problem[V, C]) newSearch(ctx context.Context, limit int, keep bool, shared *counters) *search[V, C] {
	s := &search[V, C]{
		p:         p,
		ctx:       ctx,
		limit:     limit,
		keep:      keep,
		shared:    shared,
		remaining: make([]map[C]struct{}, len(p.colors)),
		placed:    make([]int, len(p.colors)),
		assign:    make([]C, len(p.eu)),
		out:       make([]Coloring[V, C], 0),
	}
	for v, cs := range p.colors {
		set := make(map[C]struct{}, len(cs))
		for _, c := range cs {
			set[c] = struct{}{}
		}
		s.remaining[v] = set
	}
	return s
}

// walk colors edges k.. and reports whether the search should go on.
func (s *search[V, C]) walk(k int) bool {
	if k == len(s.p.eu) {
		if s.complete() {
			s.record()
		}
		return s.limit == 0 || s.found < s.limit
	}
	for _, c := range s.candidates(k) {
		if !s.try(k, c) {
			return false
		}
	}
	return true
}

// candidates returns the colors still open at both endpoints of edge k, in
// the order of the first endpoint's constraint list.
func (s *search[V, C]) candidates(k int) []C {
	u, v := s.p.eu[k], s.p.ev[k]
	var out []C
	for _, c := range s.p.colors[u] {
		if _, ok := s.remaining[u][c]; !ok {
			continue
		}
		if _, ok := s.remaining[v][c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// try assigns c to edge k, recurses if both endpoints can still be
// completed, and always restores the state before returning.
func (s *search[V, C]) try(k int, c C) bool {
	if !s.tick() {
		return false
	}
	u, v := s.p.eu[k], s.p.ev[k]
	s.place(k, u, v, c)
	defer s.unplace(u, v, c)

	if !s.fits(u) || !s.fits(v) {
		return true
	}
	return s.walk(k + 1)
}

func (s *search[V, C]) place(k, u, v int, c C) {
	s.assign[k] = c
	delete(s.remaining[u], c)
	delete(s.remaining[v], c)
	s.placed[u]++
	s.placed[v]++
}

func (s *search[V, C]) unplace(u, v int, c C) {
	s.placed[u]--
	s.placed[v]--
	s.remaining[u][c] = struct{}{}
	s.remaining[v][c] = struct{}{}
}

// fits is the forward check: the colors still required at w must not
// outnumber the uncolored edges left at w.
func (s *search[V, C]) fits(w int) bool {
	return len(s.remaining[w]) <= s.p.degree[w]-s.placed[w]
}

// complete guards against bookkeeping drift: with every edge colored, every
// vertex must have used all of its colors.
func (s *search[V, C]) complete() bool {
	for _, r := range s.remaining {
		if len(r) != 0 {
			return false
		}
	}
	return true
}

func (s *search[V, C]) record() {
	s.found++
	s.shared.add(0, 1)
	if s.keep {
		s.out = append(s.out, Coloring[V, C]{edges: s.p.index, colors: slices.Clone(s.assign)})
	}
}

// tick counts a search node, polls the context and feeds the observer.
func (s *search[V, C]) tick() bool {
	if s.err != nil {
		return false
	}
	s.nodes++
	if s.nodes%cancelCheckInterval == 0 {
		if err := s.ctx.Err(); err != nil {
			s.err = fmt.Errorf("enumerate: %w", err)
			return false
		}
	}
	if s.nodes%ProgressInterval == 0 {
		s.shared.add(ProgressInterval, 0)
	}
	return true
}
