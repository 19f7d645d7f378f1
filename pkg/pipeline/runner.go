package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/colortrade/pkg/cache"
	"github.com/matzehuels/colortrade/pkg/core/graph"
	"github.com/matzehuels/colortrade/pkg/core/trade"
	apperr "github.com/matzehuels/colortrade/pkg/errors"
	"github.com/matzehuels/colortrade/pkg/instance"
	"github.com/matzehuels/colortrade/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner holds no per-run state. Multiple goroutines can use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the per-stage cache lifetimes when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// A nil keyer selects DefaultKeyer; a nil cache disables caching.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// ExecuteFile loads ref (a file or built-in name) and executes it.
func (r *Runner) ExecuteFile(ctx context.Context, ref string, opts Options) (*Result, error) {
	in, err := Load(ref)
	if err != nil {
		return nil, err
	}
	return r.Execute(ctx, in, opts)
}

// Execute runs solve -> trade -> analyze on in with caching.
func (r *Runner) Execute(ctx context.Context, in *instance.Instance, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	g, req, err := in.Problem()
	if err != nil {
		return nil, err
	}

	result := &Result{
		RunID:       uuid.New(),
		Instance:    in,
		Graph:       g,
		Constraints: req,
		Stats:       Stats{Vertices: g.VertexCount(), Edges: g.EdgeCount()},
	}
	logger := opts.Logger.With("run", result.RunID.String()[:8])
	opts.Logger = logger

	// Stage 1: Solve
	solveStart := time.Now()
	sols, key, solveHit, err := r.solve(ctx, in, g, req, opts)
	if err != nil {
		return nil, err
	}
	result.Solutions = sols
	result.SolveKey = key
	result.Stats.SolveTime = time.Since(solveStart)
	result.CacheInfo.SolveHit = solveHit

	logger.Info("enumerated colorings",
		"instance", in.Summary(),
		"colorings", len(sols),
		"cached", solveHit,
		"duration", result.Stats.SolveTime)

	if opts.SkipTrades {
		result.Trade = trade.Stats{Colorings: len(sols)}
		return result, nil
	}

	// Stage 2: Trade graph
	tradeStart := time.Now()
	tg, tradeHit, err := r.TradeWithCacheInfo(ctx, sols, key, opts)
	if err != nil {
		return nil, err
	}
	result.TradeGraph = tg
	result.CacheInfo.TradeHit = tradeHit

	// Stage 3: Analyze
	result.Trade = trade.Analyze(tg)
	result.Stats.TradeTime = time.Since(tradeStart)

	logger.Info("built trade graph",
		"trades", result.Trade.Trades,
		"components", result.Trade.Components,
		"cached", tradeHit,
		"duration", result.Stats.TradeTime)

	return result, nil
}

// SolveWithCacheInfo enumerates the colorings of in, using the cache unless
// opts.Refresh is set, and reports whether the result came from the cache.
func (r *Runner) SolveWithCacheInfo(ctx context.Context, in *instance.Instance, opts Options) ([]Solution, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	g, req, err := in.Problem()
	if err != nil {
		return nil, false, err
	}
	sols, _, hit, err := r.solve(ctx, in, g, req, opts)
	return sols, hit, err
}

// Solve is SolveWithCacheInfo without the cache hit info.
func (r *Runner) Solve(ctx context.Context, in *instance.Instance, opts Options) ([]Solution, error) {
	sols, _, err := r.SolveWithCacheInfo(ctx, in, opts)
	return sols, err
}

func (r *Runner) solve(ctx context.Context, in *instance.Instance, g *graph.Graph[instance.Label], req Constraints, opts Options) ([]Solution, string, bool, error) {
	fp, err := in.Fingerprint()
	if err != nil {
		return nil, "", false, apperr.Wrap(apperr.ErrCodeInternal, err, "fingerprint instance")
	}
	key := r.Keyer.SolveKey(fp, opts.SolveKeyOpts())
	hooks := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			sols, err := decodeSolutions(data, g, req)
			if err == nil {
				hooks.OnCacheHit(ctx, "solve")
				return sols, key, true, nil
			}
			// A stale or corrupt entry is recomputed and overwritten.
			opts.Logger.Warn("discarding cached solutions", "key", key, "err", err)
		} else if err != nil {
			opts.Logger.Debug("cache read failed", "key", key, "err", err)
		}
	}
	hooks.OnCacheMiss(ctx, "solve")

	sols, err := Enumerate(ctx, instanceName(in), g, req, opts)
	if err != nil {
		return nil, "", false, err
	}

	if data, err := encodeSolutions(g, sols); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.ttl(cache.TTLSolve)); err != nil {
			opts.Logger.Debug("cache write failed", "key", key, "err", err)
		} else {
			hooks.OnCacheSet(ctx, "solve", len(data))
		}
	}
	return sols, key, false, nil
}

// TradeWithCacheInfo builds the trade graph of sols. solveKey identifies the
// solution set in the cache; an empty key skips the cache.
func (r *Runner) TradeWithCacheInfo(ctx context.Context, sols []Solution, solveKey string, opts Options) (*graph.Graph[int], bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	hooks := observability.Cache()
	var key string
	if solveKey != "" {
		key = r.Keyer.TradeKey(solveKey)
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				tg, err := decodeTradeGraph(data, len(sols))
				if err == nil {
					hooks.OnCacheHit(ctx, "trade")
					return tg, true, nil
				}
				opts.Logger.Warn("discarding cached trade graph", "key", key, "err", err)
			}
		}
		hooks.OnCacheMiss(ctx, "trade")
	}

	tg, err := BuildTradeGraph(ctx, sols, opts)
	if err != nil {
		return nil, false, err
	}

	if key != "" {
		if data, err := encodeTradeGraph(tg); err == nil {
			if err := r.Cache.Set(ctx, key, data, r.ttl(cache.TTLTrade)); err == nil {
				hooks.OnCacheSet(ctx, "trade", len(data))
			}
		}
	}
	return tg, false, nil
}

// Trade is TradeWithCacheInfo without the cache hit info.
func (r *Runner) Trade(ctx context.Context, sols []Solution, solveKey string, opts Options) (*graph.Graph[int], error) {
	tg, _, err := r.TradeWithCacheInfo(ctx, sols, solveKey, opts)
	return tg, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func instanceName(in *instance.Instance) string {
	if in.Name == "" {
		return "unnamed"
	}
	return in.Name
}

// String describes the cache state of a result for log lines.
func (c CacheInfo) String() string {
	return fmt.Sprintf("solve=%t trade=%t", c.SolveHit, c.TradeHit)
}
