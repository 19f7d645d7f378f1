// Package observability provides hooks for metrics and tracing.
//
// Libraries emit events through small hook interfaces; the binary decides
// what receives them. The defaults are no-ops, so packages such as pipeline
// and server never depend on a metrics backend directly.
//
// # Usage
//
// Register hooks at application startup:
//
//	m := observability.NewMetrics()
//	m.Register()
//	defer m.WriteTextfile("/var/lib/node_exporter/colortrade.prom")
//
// Libraries call hooks to emit events:
//
//	observability.Solve().OnSolveStart(ctx, name, vertices, edges)
//	// ... enumerate ...
//	observability.Solve().OnSolveComplete(ctx, name, len(sols), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// SolveHooks receives events from edge-coloring enumeration.
type SolveHooks interface {
	OnSolveStart(ctx context.Context, instance string, vertices, edges int)
	// OnSolveProgress reports cumulative counters of the running search.
	OnSolveProgress(ctx context.Context, instance string, nodes uint64, solutions int64)
	OnSolveComplete(ctx context.Context, instance string, solutions int, duration time.Duration, err error)
}

// TradeHooks receives events from trade graph construction.
type TradeHooks interface {
	OnTradeStart(ctx context.Context, colorings int)
	OnTradeComplete(ctx context.Context, colorings, trades, components int, duration time.Duration, err error)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from the API server.
type HTTPHooks interface {
	// OnRequest records an incoming request. route is the matched pattern,
	// not the raw path.
	OnRequest(ctx context.Context, method, route string)

	// OnResponse records the status written for a request.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)

	// OnError records a request that failed with an error code.
	OnError(ctx context.Context, method, route string, code string)
}

// NoopSolveHooks is a no-op implementation of SolveHooks.
type NoopSolveHooks struct{}

func (NoopSolveHooks) OnSolveStart(context.Context, string, int, int)                     {}
func (NoopSolveHooks) OnSolveProgress(context.Context, string, uint64, int64)             {}
func (NoopSolveHooks) OnSolveComplete(context.Context, string, int, time.Duration, error) {}

// NoopTradeHooks is a no-op implementation of TradeHooks.
type NoopTradeHooks struct{}

func (NoopTradeHooks) OnTradeStart(context.Context, int)                                    {}
func (NoopTradeHooks) OnTradeComplete(context.Context, int, int, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string)                {}

var (
	solveHooks SolveHooks = NoopSolveHooks{}
	tradeHooks TradeHooks = NoopTradeHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
	hooksMu    sync.RWMutex
)

// SetSolveHooks registers custom solve hooks. Nil is ignored.
func SetSolveHooks(h SolveHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		solveHooks = h
	}
}

// SetTradeHooks registers custom trade hooks. Nil is ignored.
func SetTradeHooks(h TradeHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		tradeHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Solve returns the registered solve hooks.
func Solve() SolveHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return solveHooks
}

// Trade returns the registered trade hooks.
func Trade() TradeHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return tradeHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	solveHooks = NoopSolveHooks{}
	tradeHooks = NoopTradeHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
