package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	s := NoopSolveHooks{}
	s.OnSolveStart(ctx, "hexagon", 6, 6)
	s.OnSolveProgress(ctx, "hexagon", 1<<16, 2)
	s.OnSolveComplete(ctx, "hexagon", 2, time.Second, nil)

	tr := NoopTradeHooks{}
	tr.OnTradeStart(ctx, 2)
	tr.OnTradeComplete(ctx, 2, 1, 1, time.Second, errors.New("boom"))

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "solve")
	c.OnCacheMiss(ctx, "trade")
	c.OnCacheSet(ctx, "solve", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/v1/solve")
	h.OnResponse(ctx, "POST", "/v1/solve", 200, time.Second)
	h.OnError(ctx, "POST", "/v1/solve", "INVALID_INPUT")
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Solve().(NoopSolveHooks); !ok {
		t.Error("Solve() should return NoopSolveHooks by default")
	}
	if _, ok := Trade().(NoopTradeHooks); !ok {
		t.Error("Trade() should return NoopTradeHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customSolve := &testSolveHooks{}
	SetSolveHooks(customSolve)
	if Solve() != customSolve {
		t.Error("SetSolveHooks should set custom hooks")
	}

	customTrade := &testTradeHooks{}
	SetTradeHooks(customTrade)
	if Trade() != customTrade {
		t.Error("SetTradeHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Solve().(NoopSolveHooks); !ok {
		t.Error("Reset() should restore NoopSolveHooks")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("Reset() should restore NoopHTTPHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testSolveHooks{}
	SetSolveHooks(custom)
	SetSolveHooks(nil)
	if Solve() != custom {
		t.Error("SetSolveHooks(nil) should be ignored")
	}

	SetTradeHooks(nil)
	if _, ok := Trade().(NoopTradeHooks); !ok {
		t.Error("SetTradeHooks(nil) should be ignored")
	}
}

type testSolveHooks struct{ NoopSolveHooks }
type testTradeHooks struct{ NoopTradeHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
