// Package pipeline runs the colortrade workflow: load an instance, enumerate
// its exact edge colorings, build the trade graph and summarize it.
//
// The CLI and the HTTP API both go through a [Runner], so caching, logging
// and metrics behave the same from every entry point.
//
// # Stages
//
//  1. Solve: enumerate every coloring of the instance (cached by fingerprint)
//  2. Trade: connect colorings that differ on every edge (cached per solve)
//  3. Analyze: component sizes and degree spectrum of the trade graph
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	defer runner.Close()
//
//	result, err := runner.ExecuteFile(ctx, "hexagon.json", pipeline.Options{Workers: 4})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Trade.Components)
//
// Stages can also run on their own:
//
//	sols, hit, err := runner.SolveWithCacheInfo(ctx, in, opts)
//	tg, hit, err := runner.TradeWithCacheInfo(ctx, sols, solveKey, opts)
package pipeline

import (
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/colortrade/pkg/cache"
	"github.com/matzehuels/colortrade/pkg/core/edgecolor"
	"github.com/matzehuels/colortrade/pkg/core/graph"
	"github.com/matzehuels/colortrade/pkg/core/trade"
	apperr "github.com/matzehuels/colortrade/pkg/errors"
	"github.com/matzehuels/colortrade/pkg/instance"
)

const (
	// MaxWorkers caps the goroutines used for the search and the trade scan.
	MaxWorkers = 256

	// MaxLimit caps the number of colorings a single run may keep.
	MaxLimit = 1 << 24
)

// DefaultWorkers is the worker count used when Options.Workers is zero.
func DefaultWorkers() int {
	return runtime.GOMAXPROCS(0)
}

// Solution is one edge coloring of an instance.
type Solution = edgecolor.Coloring[instance.Label, instance.Label]

// Constraints are the required colors per vertex of an instance.
type Constraints = edgecolor.Constraints[instance.Label, instance.Label]

// Options configures a pipeline run. It is decoded from API requests, so it
// carries JSON tags and validator rules.
type Options struct {
	// Workers is the number of goroutines for search and trade scan.
	// Zero selects DefaultWorkers. The output never depends on it.
	Workers int `json:"workers,omitempty" validate:"gte=0,lte=256"`

	// Limit stops the enumeration after this many colorings. Zero means all.
	Limit int `json:"limit,omitempty" validate:"gte=0,lte=16777216"`

	// Refresh ignores cached results but still stores fresh ones.
	Refresh bool `json:"refresh,omitempty"`

	// SkipTrades stops after the solve stage.
	SkipTrades bool `json:"skip_trades,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger              `json:"-"`
	Progress func(edgecolor.Progress) `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks the options and fills in defaults.
// Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Workers < 0 || o.Workers > MaxWorkers {
		return apperr.New(apperr.ErrCodeInvalidInput, "workers must be between 0 and %d, got %d", MaxWorkers, o.Workers)
	}
	if o.Limit < 0 || o.Limit > MaxLimit {
		return apperr.New(apperr.ErrCodeInvalidInput, "limit must be between 0 and %d, got %d", MaxLimit, o.Limit)
	}
	if o.Workers == 0 {
		o.Workers = DefaultWorkers()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// SolveKeyOpts returns the cache key options for the solve stage.
func (o *Options) SolveKeyOpts() cache.SolveKeyOpts {
	return cache.SolveKeyOpts{Limit: o.Limit}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the run in logs and API responses.
	RunID uuid.UUID

	Instance    *instance.Instance
	Graph       *graph.Graph[instance.Label]
	Constraints Constraints

	// SolveKey is the cache key of the solution set.
	SolveKey string

	// Solutions are the colorings in enumeration order.
	Solutions []Solution

	// TradeGraph has one vertex per solution index. Nil with SkipTrades.
	TradeGraph *graph.Graph[int]

	// Trade summarizes TradeGraph.
	Trade trade.Stats

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains timing and size information.
type Stats struct {
	Vertices  int
	Edges     int
	SolveTime time.Duration
	TradeTime time.Duration
}

// CacheInfo tracks which stages hit the cache.
type CacheInfo struct {
	SolveHit bool
	TradeHit bool
}

// Partners returns the trade partners of solution i. It returns a
// SOLUTION_NOT_FOUND error for an index outside the solution set.
func (r *Result) Partners(i int) ([]int, error) {
	if err := apperr.ValidateSolutionIndex(i, len(r.Solutions)); err != nil {
		return nil, err
	}
	if r.TradeGraph == nil {
		return nil, apperr.New(apperr.ErrCodeUnsupported, "trade graph was not built")
	}
	return trade.Partners(r.TradeGraph, i), nil
}
