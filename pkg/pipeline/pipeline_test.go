package pipeline

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wellpos/pkg/cache"
	"github.com/matzehuels/wellpos/pkg/distance"
	apperrors "github.com/matzehuels/wellpos/pkg/errors"
	"github.com/matzehuels/wellpos/pkg/observability"
)

func rightTriangle(t *testing.T) *distance.Matrix {
	t.Helper()
	m, err := distance.New([][]float64{{0, 3, 5}, {3, 0, 4}, {5, 4, 0}})
	if err != nil {
		t.Fatal(err)
	}
	return m
}

var wells = []string{"B1", "B2", "B3"}

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, log.New(&bytes.Buffer{}))
	t.Cleanup(func() { r.Close() })
	return r
}

type countingCacheHooks struct {
	mu                sync.Mutex
	hits, misses, set map[string]int
}

func newCountingCacheHooks() *countingCacheHooks {
	return &countingCacheHooks{hits: map[string]int{}, misses: map[string]int{}, set: map[string]int{}}
}

func (h *countingCacheHooks) OnCacheHit(_ context.Context, k string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hits[k]++
}

func (h *countingCacheHooks) OnCacheMiss(_ context.Context, k string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.misses[k]++
}

func (h *countingCacheHooks) OnCacheSet(_ context.Context, k string, _ int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.set[k]++
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"dot", false},
		{"json", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateStyle(t *testing.T) {
	tests := []struct {
		style   string
		wantErr bool
	}{
		{"panels", false},
		{"nodelink", false},
		{"tower", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateStyle(tt.style)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateStyle(%q) error = %v, wantErr %v", tt.style, err, tt.wantErr)
		}
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("zero options should be valid: %v", err)
	}
	if opts.Tolerance != DefaultTolerance {
		t.Errorf("Tolerance = %g, want %g", opts.Tolerance, DefaultTolerance)
	}
	if opts.Style != DefaultStyle || opts.PanelSize != DefaultPanelSize {
		t.Errorf("render defaults not applied: %+v", opts)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}

	opts.Tolerance = -1
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Error("ValidateAndSetDefaults should be idempotent once validated")
	}
}

func TestValidateAndSetDefaultsErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code apperrors.Code
	}{
		{"negative tolerance", Options{Tolerance: -1}, apperrors.ErrCodeInvalidTolerance},
		{"negative workers", Options{Workers: -2}, apperrors.ErrCodeInvalidInput},
		{"negative frontier", Options{MaxFrontier: -1}, apperrors.ErrCodeInvalidInput},
		{"unknown style", Options{Style: "tower"}, apperrors.ErrCodeInvalidInput},
		{"unknown format", Options{Formats: []string{"json"}}, apperrors.ErrCodeInvalidFormat},
		{"dot needs nodelink", Options{Formats: []string{"dot"}}, apperrors.ErrCodeInvalidFormat},
		{"negative solution", Options{Style: StyleNodelink, Solution: -1}, apperrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !apperrors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	panelsOpts := Options{Style: StylePanels, Solution: 3}
	if k := panelsOpts.ArtifactKeyOpts("svg", nil); k.Solution != 0 {
		t.Error("solution index should not split panel artifacts")
	}
	nodelinkOpts := Options{Style: StyleNodelink, Solution: 3}
	if k := nodelinkOpts.ArtifactKeyOpts("svg", wells); k.Solution != 3 || len(k.Names) != 3 {
		t.Errorf("unexpected key opts: %+v", k)
	}
}

func TestRunnerSolveCaches(t *testing.T) {
	hooks := newCountingCacheHooks()
	observability.SetCacheHooks(hooks)
	t.Cleanup(observability.Reset)

	r := newTestRunner(t)
	ctx := context.Background()
	m := rightTriangle(t)

	first, hit, err := r.SolveWithCacheInfo(ctx, m, Options{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if hit {
		t.Error("first solve should miss")
	}
	if len(first.Solutions) != 2 {
		t.Fatalf("got %d solutions, want 2", len(first.Solutions))
	}

	second, hit, err := r.SolveWithCacheInfo(ctx, m, Options{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !hit {
		t.Error("second solve should hit")
	}
	if len(second.Solutions) != len(first.Solutions) {
		t.Fatalf("cached set has %d solutions, want %d", len(second.Solutions), len(first.Solutions))
	}
	for i := range first.Solutions {
		if !first.Solutions[i].Equal(second.Solutions[i], 1e-12) {
			t.Errorf("cached solution %d differs", i)
		}
	}

	if _, hit, _ := r.SolveWithCacheInfo(ctx, m, Options{Refresh: true}); hit {
		t.Error("refresh should bypass the cache")
	}
	if _, hit, _ := r.SolveWithCacheInfo(ctx, m, Options{Exhaustive: true}); hit {
		t.Error("different options should miss")
	}
	if _, hit, _ := r.SolveWithCacheInfo(ctx, m, Options{Workers: 1}); !hit {
		t.Error("worker count should not change the cache key")
	}

	if hooks.hits[keyTypeSolve] != 2 || hooks.misses[keyTypeSolve] != 2 || hooks.set[keyTypeSolve] != 3 {
		t.Errorf("hooks hits=%d misses=%d sets=%d, want 2, 2, 3",
			hooks.hits[keyTypeSolve], hooks.misses[keyTypeSolve], hooks.set[keyTypeSolve])
	}
}

func TestRunnerSolveInvalidMatrix(t *testing.T) {
	r := newTestRunner(t)
	m, err := distance.New([][]float64{{0, 1, 1}, {1, 0, 5}, {1, 5, 0}})
	if err != nil {
		t.Fatal(err)
	}
	_, err = r.Solve(context.Background(), m, Options{})
	if !apperrors.Is(err, apperrors.ErrCodeInvalidMatrix) {
		t.Errorf("err = %v, want %s", err, apperrors.ErrCodeInvalidMatrix)
	}

	set, err := r.Solve(context.Background(), m, Options{AllowViolations: true})
	if err != nil {
		t.Fatalf("AllowViolations: %v", err)
	}
	if len(set.Violations) == 0 {
		t.Error("violations should be reported")
	}
}

func TestRunnerRenderCaches(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()
	m := rightTriangle(t)
	set, err := r.Solve(ctx, m, Options{})
	if err != nil {
		t.Fatal(err)
	}

	opts := Options{Formats: []string{FormatSVG}, ShowEdges: true}
	first, hit, err := r.RenderWithCacheInfo(ctx, set, wells, m, opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if hit {
		t.Error("first render should miss")
	}
	svg := string(first[FormatSVG])
	if !strings.Contains(svg, "Result 2") || !strings.Contains(svg, `class="edge"`) {
		t.Errorf("unexpected svg: %.200s", svg)
	}

	second, hit, err := r.RenderWithCacheInfo(ctx, set, wells, m, opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !hit {
		t.Error("second render should hit")
	}
	if !bytes.Equal(first[FormatSVG], second[FormatSVG]) {
		t.Error("cached artifact differs")
	}

	other, hit, err := r.RenderWithCacheInfo(ctx, set, []string{"X", "Y", "Z"}, m, opts)
	if err != nil {
		t.Fatal(err)
	}
	if hit || !strings.Contains(string(other[FormatSVG]), ">Z</text>") {
		t.Error("different names should render anew")
	}
}

func TestRenderNodelink(t *testing.T) {
	m := rightTriangle(t)
	set, err := NewRunner(nil, nil, nil).Solve(context.Background(), m, Options{})
	if err != nil {
		t.Fatal(err)
	}

	opts := Options{Style: StyleNodelink, Formats: []string{FormatDOT}, Solution: 1, ShowEdges: true}
	artifacts, err := Render(context.Background(), set, wells, m, opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	dot := string(artifacts[FormatDOT])
	for _, want := range []string{"layout=neato", `label="B3"`, `label="4.00"`} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}

	opts.Solution = 2
	if _, err := Render(context.Background(), set, wells, m, opts); !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("out of range solution: err = %v", err)
	}
}

func TestExecute(t *testing.T) {
	r := newTestRunner(t)
	res, err := r.Execute(context.Background(), rightTriangle(t), wells, Options{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Set == nil || len(res.Set.Solutions) != 2 {
		t.Fatalf("unexpected set: %+v", res.Set)
	}
	if len(res.Artifacts[FormatSVG]) == 0 {
		t.Error("default format should be rendered")
	}
	if res.MatrixHash != MatrixHash(rightTriangle(t)) {
		t.Error("result should carry the matrix hash")
	}
	if res.CacheInfo.SolveHit || res.CacheInfo.RenderHit {
		t.Error("fresh runner should not hit")
	}

	res, err = r.Execute(context.Background(), rightTriangle(t), wells, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !res.CacheInfo.SolveHit || !res.CacheInfo.RenderHit {
		t.Errorf("second run should hit both stages: %+v", res.CacheInfo)
	}
}

func TestHashes(t *testing.T) {
	a := rightTriangle(t)
	b, err := a.With(0, 1, 3.5)
	if err != nil {
		t.Fatal(err)
	}
	if MatrixHash(a) != MatrixHash(rightTriangle(t)) {
		t.Error("MatrixHash should be deterministic")
	}
	if MatrixHash(a) == MatrixHash(b) {
		t.Error("different matrices should hash differently")
	}

	h1, err := SolutionHash(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	h2, _ := SolutionHash(nil, a)
	if h1 == h2 {
		t.Error("distances should change the solution hash")
	}
}
