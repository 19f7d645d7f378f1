package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/colortrade/pkg/cache"
	"github.com/matzehuels/colortrade/pkg/core/edgecolor"
	apperr "github.com/matzehuels/colortrade/pkg/errors"
	"github.com/matzehuels/colortrade/pkg/instance"
	"github.com/matzehuels/colortrade/pkg/observability"
)

func TestValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"zero value", Options{}, false},
		{"explicit workers", Options{Workers: 4, Limit: 10}, false},
		{"negative workers", Options{Workers: -1}, true},
		{"too many workers", Options{Workers: MaxWorkers + 1}, true},
		{"negative limit", Options{Limit: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateAndSetDefaults() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !apperr.Is(err, apperr.ErrCodeInvalidInput) {
					t.Errorf("error code = %q, want INVALID_INPUT", apperr.GetCode(err))
				}
				return
			}
			if tt.opts.Workers < 1 {
				t.Errorf("Workers = %d, want >= 1", tt.opts.Workers)
			}
			if tt.opts.Logger == nil {
				t.Error("Logger should default to a discard logger")
			}
		})
	}
}

func TestValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	workers := opts.Workers
	opts.Workers = 3
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Workers != 3 || workers != DefaultWorkers() {
		t.Errorf("second call changed options: workers=%d default=%d", opts.Workers, workers)
	}
}

func mustBuiltin(t *testing.T, name string) *instance.Instance {
	t.Helper()
	in, ok := instance.Builtin(name)
	if !ok {
		t.Fatalf("no built-in %q", name)
	}
	return in
}

func TestExecuteHexagon(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), mustBuiltin(t, "hexagon"), Options{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(res.Solutions) != 2 {
		t.Fatalf("solutions = %d, want 2", len(res.Solutions))
	}
	if res.Trade.Trades != 1 || res.Trade.Components != 1 {
		t.Errorf("trade stats = %+v, want 1 trade in 1 component", res.Trade)
	}
	if !reflect.DeepEqual(res.Trade.ComponentSizes, []int{2}) {
		t.Errorf("component sizes = %v, want [2]", res.Trade.ComponentSizes)
	}
	if res.Stats.Vertices != 6 || res.Stats.Edges != 6 {
		t.Errorf("stats = %+v", res.Stats)
	}
	if res.RunID.String() == "" || res.SolveKey == "" {
		t.Error("run id and solve key should be set")
	}

	partners, err := res.Partners(0)
	if err != nil || !reflect.DeepEqual(partners, []int{1}) {
		t.Errorf("Partners(0) = %v, %v; want [1]", partners, err)
	}
	if _, err := res.Partners(2); !apperr.Is(err, apperr.ErrCodeSolutionNotFound) {
		t.Errorf("Partners(2) error = %v, want SOLUTION_NOT_FOUND", err)
	}
}

func TestExecuteWorkersDoNotChangeOutput(t *testing.T) {
	in, err := instance.Complete(6, "1", "2", "3", "4", "5")
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(nil, nil, nil)
	seq, err := r.Execute(context.Background(), in, Options{Workers: 1})
	if err != nil {
		t.Fatal(err)
	}
	par, err := r.Execute(context.Background(), in, Options{Workers: 4})
	if err != nil {
		t.Fatal(err)
	}
	if len(seq.Solutions) != len(par.Solutions) {
		t.Fatalf("solution counts differ: %d vs %d", len(seq.Solutions), len(par.Solutions))
	}
	for i := range seq.Solutions {
		if !seq.Solutions[i].Equal(par.Solutions[i]) {
			t.Fatalf("solution %d differs", i)
		}
	}
	if !reflect.DeepEqual(seq.Trade, par.Trade) {
		t.Errorf("trade stats differ: %+v vs %+v", seq.Trade, par.Trade)
	}
}

func newFileRunner(t *testing.T) (*Runner, *cache.FileCache) {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)
	t.Cleanup(func() { r.Close() })
	return r, fc
}

func TestExecuteCacheRoundTrip(t *testing.T) {
	r, _ := newFileRunner(t)
	ctx := context.Background()

	first, err := r.Execute(ctx, mustBuiltin(t, "k4"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.SolveHit || first.CacheInfo.TradeHit {
		t.Errorf("first run should miss: %v", first.CacheInfo)
	}

	second, err := r.Execute(ctx, mustBuiltin(t, "k4"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.SolveHit || !second.CacheInfo.TradeHit {
		t.Errorf("second run should hit: %v", second.CacheInfo)
	}
	if len(second.Solutions) != 6 {
		t.Fatalf("cached solutions = %d, want 6", len(second.Solutions))
	}
	for i := range first.Solutions {
		if !reflect.DeepEqual(first.Solutions[i].Colors(), second.Solutions[i].Colors()) {
			t.Errorf("cached solution %d differs", i)
		}
	}
	if !reflect.DeepEqual(first.Trade, second.Trade) {
		t.Errorf("cached trade stats differ: %+v vs %+v", first.Trade, second.Trade)
	}

	refreshed, err := r.Execute(ctx, mustBuiltin(t, "k4"), Options{Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.CacheInfo.SolveHit || refreshed.CacheInfo.TradeHit {
		t.Errorf("refresh should bypass the cache: %v", refreshed.CacheInfo)
	}
}

func TestExecuteRenamedInstanceReusesCache(t *testing.T) {
	r, _ := newFileRunner(t)
	ctx := context.Background()

	if _, err := r.Execute(ctx, mustBuiltin(t, "square"), Options{}); err != nil {
		t.Fatal(err)
	}
	in := mustBuiltin(t, "square")
	in.Name = "renamed"
	in.Layout = nil
	res, err := r.Execute(ctx, in, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !res.CacheInfo.SolveHit {
		t.Error("name and layout should not affect the cache key")
	}
}

func TestExecuteDiscardsBadCacheEntries(t *testing.T) {
	in := mustBuiltin(t, "hexagon")
	fp, err := in.Fingerprint()
	if err != nil {
		t.Fatal(err)
	}

	wrong, _ := json.Marshal(solutionSet{
		Edges:     []instance.Edge{{"0", "1"}, {"1", "2"}, {"2", "3"}, {"3", "4"}, {"4", "5"}, {"5", "0"}},
		Colorings: [][]instance.Label{instance.Labels("orange", "orange", "orange", "orange", "orange", "orange")},
	})

	tests := []struct {
		name string
		data []byte
	}{
		{"corrupt", []byte("not json")},
		{"invalid coloring", wrong},
		{"wrong edges", []byte(`{"edges":[["0","1"]],"colorings":[]}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, fc := newFileRunner(t)
			key := r.Keyer.SolveKey(fp, cache.SolveKeyOpts{})
			if err := fc.Set(context.Background(), key, tt.data, time.Hour); err != nil {
				t.Fatal(err)
			}

			res, err := r.Execute(context.Background(), in, Options{})
			if err != nil {
				t.Fatalf("Execute: %v", err)
			}
			if res.CacheInfo.SolveHit {
				t.Error("bad entry should not count as a hit")
			}
			if len(res.Solutions) != 2 {
				t.Errorf("solutions = %d, want 2", len(res.Solutions))
			}

			data, hit, err := fc.Get(context.Background(), key)
			if err != nil || !hit || bytes.Equal(data, tt.data) {
				t.Error("bad entry should be overwritten")
			}
		})
	}
}

func TestExecuteErrors(t *testing.T) {
	mismatch := &instance.Instance{
		Vertices: instance.Vertices{
			{ID: "0", Colors: instance.Labels("x", "y")},
			{ID: "1", Colors: instance.Labels("x")},
			{ID: "2", Colors: instance.Labels("y")},
			{ID: "3", Colors: instance.Labels("x")},
		},
		Edges: []instance.Edge{{"0", "1"}, {"0", "2"}, {"0", "3"}},
	}
	selfLoop := &instance.Instance{
		Vertices: instance.Vertices{{ID: "a", Colors: instance.Labels("x", "y")}},
		Edges:    []instance.Edge{{"a", "a"}},
	}

	tests := []struct {
		name string
		in   *instance.Instance
		opts Options
		code apperr.Code
	}{
		{"degree mismatch", mismatch, Options{}, apperr.ErrCodeInvalidConstraint},
		{"self loop", selfLoop, Options{}, apperr.ErrCodeInvalidInstance},
		{"bad options", mustBuiltin(t, "hexagon"), Options{Limit: -3}, apperr.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRunner(nil, nil, nil).Execute(context.Background(), tt.in, tt.opts)
			if !apperr.Is(err, tt.code) {
				t.Fatalf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestExecuteDegreeMismatchKeepsCause(t *testing.T) {
	in := &instance.Instance{
		Vertices: instance.Vertices{
			{ID: "a", Colors: instance.Labels("x", "y")},
			{ID: "b", Colors: instance.Labels("x")},
		},
		Edges: []instance.Edge{{"a", "b"}},
	}
	_, err := NewRunner(nil, nil, nil).Execute(context.Background(), in, Options{})
	var ce *edgecolor.ConstraintError
	if !errors.As(err, &ce) || ce.Vertex != instance.Label("a") {
		t.Fatalf("error = %v, want a ConstraintError for vertex a", err)
	}
}

func TestExecuteCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(nil, nil, nil).Execute(ctx, mustBuiltin(t, "k4"), Options{})
	if !apperr.Is(err, apperr.ErrCodeCanceled) {
		t.Fatalf("error = %v, want CANCELED", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Error("context.Canceled should stay in the chain")
	}
}

func TestExecuteSkipTradesAndLimit(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), mustBuiltin(t, "k4"), Options{Limit: 4, SkipTrades: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Solutions) != 4 {
		t.Errorf("solutions = %d, want 4", len(res.Solutions))
	}
	if res.TradeGraph != nil || res.Trade.Colorings != 4 {
		t.Errorf("trade graph should be skipped: %+v", res.Trade)
	}
	if _, err := res.Partners(0); !apperr.Is(err, apperr.ErrCodeUnsupported) {
		t.Errorf("Partners without trade graph: %v", err)
	}
}

func TestExecuteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tri.yaml")
	if err := instance.Save(mustBuiltin(t, "triangle"), path); err != nil {
		t.Fatal(err)
	}

	r := NewRunner(nil, nil, nil)
	res, err := r.ExecuteFile(context.Background(), path, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Solutions) != 1 || res.Trade.Isolated != 1 {
		t.Errorf("triangle: %d solutions, stats %+v", len(res.Solutions), res.Trade)
	}

	res, err = r.ExecuteFile(context.Background(), "bowtie", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Instance.Name != "bowtie" || len(res.Solutions) != 1 {
		t.Errorf("bowtie: %s with %d solutions", res.Instance.Name, len(res.Solutions))
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		ref  string
		code apperr.Code
	}{
		{"empty", "", apperr.ErrCodeInvalidInput},
		{"unknown name", "dodecahedron", apperr.ErrCodeNotFound},
		{"missing file", filepath.Join(dir, "missing.json"), apperr.ErrCodeFileNotFound},
		{"bad extension", filepath.Join(dir, "graph.txt"), apperr.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.ref)
			if !apperr.Is(err, tt.code) {
				t.Fatalf("Load(%q) error = %v, want %s", tt.ref, err, tt.code)
			}
		})
	}

	// Relative paths resolve against the working directory.
	t.Chdir(dir)
	in, _ := instance.Cycle(4, "a", "b")
	if err := instance.Save(in, "hexagon.json"); err != nil {
		t.Fatal(err)
	}
	got, err := Load("hexagon.json")
	if err != nil || len(got.Vertices) != 4 {
		t.Errorf("Load(hexagon.json) = %v, %v", got, err)
	}
}

type recordingHooks struct {
	observability.NoopSolveHooks
	observability.NoopCacheHooks

	mu        sync.Mutex
	started   int
	completed int
	hits      map[string]int
	misses    map[string]int
}

func (h *recordingHooks) OnSolveStart(context.Context, string, int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.started++
}

func (h *recordingHooks) OnSolveComplete(context.Context, string, int, time.Duration, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.completed++
}

func (h *recordingHooks) OnCacheHit(_ context.Context, stage string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hits[stage]++
}

func (h *recordingHooks) OnCacheMiss(_ context.Context, stage string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.misses[stage]++
}

func TestExecuteCallsHooks(t *testing.T) {
	observability.Reset()
	defer observability.Reset()
	h := &recordingHooks{hits: map[string]int{}, misses: map[string]int{}}
	observability.SetSolveHooks(h)
	observability.SetCacheHooks(h)

	r, _ := newFileRunner(t)
	for range 2 {
		if _, err := r.Execute(context.Background(), mustBuiltin(t, "square"), Options{}); err != nil {
			t.Fatal(err)
		}
	}

	if h.started != 1 || h.completed != 1 {
		t.Errorf("solve hooks: started=%d completed=%d, want 1/1", h.started, h.completed)
	}
	want := map[string]int{"solve": 1, "trade": 1}
	if !reflect.DeepEqual(h.hits, want) || !reflect.DeepEqual(h.misses, want) {
		t.Errorf("cache hooks: hits=%v misses=%v", h.hits, h.misses)
	}
}
