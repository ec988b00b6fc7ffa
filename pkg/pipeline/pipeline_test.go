package pipeline

import (
	"context"
	stderrors "errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/beavr/pkg/cache"
	"github.com/matzehuels/beavr/pkg/color"
	"github.com/matzehuels/beavr/pkg/combine"
	"github.com/matzehuels/beavr/pkg/errors"
	"github.com/matzehuels/beavr/pkg/layout"
	"github.com/matzehuels/beavr/pkg/source"
)

// Two paths 0-1-2 and 3-4-5 colored alike, plus a 4-cycle that no
// treedepth coloring of step 1 can explain.
const testDataset = `{
  "graph": {
    "vertices": [0, 1, 2, 3, 4, 5, 6, 7, 8, 9],
    "edges": [[0, 1], [1, 2], [3, 4], [4, 5], [6, 7], [7, 8], [8, 9], [6, 9]]
  },
  "colorings": [
    [0, 1, 2, 0, 1, 2, 3, 4, 5, 6],
    [0, 1, 2, 0, 1, 2, 7, 8, 7, 8]
  ],
  "colors": [0, 1, 2, 3, 4, 5, 6, 7, 8, 9],
  "pattern_size": 4,
  "min_size": 2,
  "pattern_colorings": [[0, 6], [1, 2, 3]],
  "counts": [
    {"colors": [0, 1], "count": 4},
    {"colors": [1, 2], "count": 6},
    {"colors": [0, 1, 2], "count": 2}
  ]
}`

func testData(t *testing.T) *source.Dataset {
	t.Helper()
	ds, err := source.ReadJSON(strings.NewReader(testDataset))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	return ds
}

func testRunner(c cache.Cache) *Runner {
	return NewRunner(c, nil, log.NewWithOptions(io.Discard, log.Options{}))
}

func TestDecompose(t *testing.T) {
	r := testRunner(nil)
	dec, err := r.Decompose(context.Background(), testData(t), DecomposeRequest{Colors: color.NewSet(0, 1, 2)})
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}
	if len(dec.Components) != 1 {
		t.Fatalf("got %d components, want 1", len(dec.Components))
	}
	c := dec.Components[0]
	if c.Occ != 2 || len(c.Vertices) != 3 || len(c.Edges) != 2 {
		t.Errorf("component = %+v", c)
	}
	if dec.Stats.Occurrences != 2 || dec.Stats.Vertices != 6 {
		t.Errorf("stats = %+v", dec.Stats)
	}
	if len(dec.Trees) != 1 || dec.Trees[0].Height != 3 || len(dec.Trees[0].Parents) != 2 {
		t.Errorf("trees = %+v", dec.Trees)
	}
	if len(dec.Layouts) != 1 || len(dec.Layouts[0]) != 3 {
		t.Fatalf("layouts = %v", dec.Layouts)
	}
	for v, p := range dec.Layouts[0] {
		if p.X < 0 || p.X > 1 || p.Y < 0 || p.Y > 1 {
			t.Errorf("vertex %d at %v outside the unit square", v, p)
		}
	}
	if dec.Oversized {
		t.Error("3 colors should not exceed pattern size 4")
	}
	if dec.RunID == "" {
		t.Error("missing run id")
	}
}

func TestDecomposeOversized(t *testing.T) {
	r := testRunner(nil)
	dec, err := r.Decompose(context.Background(), testData(t), DecomposeRequest{Colors: color.NewSet(0, 1, 2, 3, 4)})
	if err != nil {
		t.Fatal(err)
	}
	if !dec.Oversized {
		t.Error("5 colors should exceed pattern size 4")
	}
}

func TestDecomposeCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := testRunner(fc)
	ds := testData(t)
	req := DecomposeRequest{Colors: color.NewSet(0, 1, 2), Layout: layout.Options{Engine: layout.EngineSpring}}

	first, err := r.Decompose(context.Background(), ds, req)
	if err != nil {
		t.Fatal(err)
	}
	if first.Stats.CacheHit {
		t.Error("first run should miss the cache")
	}

	second, err := r.Decompose(context.Background(), ds, req)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Stats.CacheHit {
		t.Error("second run should hit the cache")
	}
	if second.RunID == first.RunID {
		t.Error("run ids should differ between runs")
	}
	if len(second.Components) != len(first.Components) || second.Components[0].Occ != first.Components[0].Occ {
		t.Errorf("cached result differs: %+v", second.Components)
	}

	req.Refresh = true
	third, err := r.Decompose(context.Background(), ds, req)
	if err != nil {
		t.Fatal(err)
	}
	if third.Stats.CacheHit {
		t.Error("refresh should bypass the cache")
	}
}

func TestDecomposeErrors(t *testing.T) {
	tests := []struct {
		name string
		req  DecomposeRequest
		code errors.Code
	}{
		{"cycle without unique color", DecomposeRequest{Step: 1, Colors: color.NewSet(7, 8)}, errors.ErrCodeInvalidTreedepthColoring},
		{"step out of range", DecomposeRequest{Step: 2, Colors: color.NewSet(0)}, errors.ErrCodeInvalidInput},
		{"negative color", DecomposeRequest{Colors: color.Set{-1}}, errors.ErrCodeInvalidInput},
		{"bad engine", DecomposeRequest{Colors: color.NewSet(0), Layout: layout.Options{Engine: "circo"}}, errors.ErrCodeInvalidInput},
	}
	r := testRunner(nil)
	ds := testData(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Decompose(context.Background(), ds, tt.req)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestCombine(t *testing.T) {
	r := testRunner(nil)
	comb, err := r.Combine(context.Background(), testData(t), CombineRequest{PatternSize: FromDataset, MinSize: FromDataset})
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}
	if comb.PatternSize != 4 || comb.MinSize != 2 || comb.Colors != 10 {
		t.Errorf("bounds = %d/%d over %d colors", comb.PatternSize, comb.MinSize, comb.Colors)
	}
	if len(comb.Pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(comb.Pages))
	}

	first := comb.Pages[0]
	if first.Title != "{0, 6}" {
		t.Errorf("title = %q", first.Title)
	}
	wantProducts := []int64{28, -64, 37}
	if len(first.Terms) != len(wantProducts) {
		t.Fatalf("got %d terms, want %d", len(first.Terms), len(wantProducts))
	}
	for i, want := range wantProducts {
		if first.Terms[i].Product != want {
			t.Errorf("term %d product = %d, want %d", i, first.Terms[i].Product, want)
		}
	}
	if first.Result.Total != 1 {
		t.Errorf("total = %d, want 1", first.Result.Total)
	}

	if comb.Totals == nil {
		t.Fatal("expected a totals page")
	}
	if len(comb.Totals.Terms) != 3 {
		t.Fatalf("totals terms = %+v", comb.Totals.Terms)
	}
	if got := comb.Totals.Terms[2]; got.Size != 2 || got.Count != 10 || got.Omitted != 0 {
		t.Errorf("size 2 totals term = %+v", got)
	}
	if got := comb.Totals.Terms[0]; got.Size != 4 || got.Count != 0 {
		t.Errorf("size 4 totals term = %+v", got)
	}
}

func TestCombineDisplayLimit(t *testing.T) {
	ds := &source.Dataset{
		Colors:           color.Range(4),
		PatternColorings: []color.Set{color.NewSet()},
	}
	comb, err := testRunner(nil).Combine(context.Background(), ds, CombineRequest{PatternSize: 2, MinSize: 1})
	if err != nil {
		t.Fatal(err)
	}
	terms := comb.Pages[0].Terms
	if len(terms) != 2 {
		t.Fatalf("terms = %+v", terms)
	}
	if terms[0].Count != 6 || len(terms[0].Sets) != 6 || terms[0].Omitted != 0 {
		t.Errorf("size 2 term = %+v", terms[0])
	}
	if terms[1].Count != 4 || len(terms[1].Sets) != 1 || terms[1].Omitted != 3 {
		t.Errorf("size 1 term = %+v", terms[1])
	}
	if comb.Totals != nil {
		t.Error("no counts, no totals page")
	}
}

func TestCombineLargeUniverse(t *testing.T) {
	ds := &source.Dataset{
		Colors:           color.Range(24),
		PatternColorings: []color.Set{color.NewSet()},
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	comb, err := testRunner(nil).Combine(ctx, ds, CombineRequest{PatternSize: 12, MinSize: 0})
	if err != nil {
		t.Fatal(err)
	}
	terms := comb.Pages[0].Terms
	if len(terms) != 13 {
		t.Fatalf("got %d terms, want 13", len(terms))
	}
	if terms[0].Size != 12 || terms[0].Count != 2704156 {
		t.Errorf("first term = {%d %d}, want {12 2704156}", terms[0].Size, terms[0].Count)
	}
	for _, term := range terms {
		limit := displayLimit(12, term.Size)
		if len(term.Sets) > limit {
			t.Errorf("size %d lists %d sets, limit %d", term.Size, len(term.Sets), limit)
		}
		if term.Omitted != term.Count-int64(len(term.Sets)) {
			t.Errorf("size %d omitted %d, want %d", term.Size, term.Omitted, term.Count-int64(len(term.Sets)))
		}
	}
}

func TestCombineDeadline(t *testing.T) {
	ds := &source.Dataset{
		Colors:           color.Range(24),
		PatternColorings: []color.Set{color.NewSet(), color.NewSet(0)},
		Counts:           []combine.Observation{{Set: color.NewSet(0, 1), Count: 3}},
	}
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := testRunner(nil).Combine(ctx, ds, CombineRequest{PatternSize: 12, MinSize: 0})
	if !stderrors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want context.DeadlineExceeded", err)
	}
}

func TestDisplayLimit(t *testing.T) {
	tests := []struct {
		p, size, want int
	}{
		{4, 4, 100},
		{4, 2, 50},
		{1, 1, 1},
		{12, 0, 1},
	}
	for _, tt := range tests {
		if got := displayLimit(tt.p, tt.size); got != tt.want {
			t.Errorf("displayLimit(%d, %d) = %d, want %d", tt.p, tt.size, got, tt.want)
		}
	}
}

func TestCombineErrors(t *testing.T) {
	r := testRunner(nil)
	ds := testData(t)

	_, err := r.Combine(context.Background(), ds, CombineRequest{PatternSize: 11, MinSize: 2})
	if !errors.Is(err, errors.ErrCodeChooseDomain) {
		t.Errorf("pattern larger than universe: error = %v, want CHOOSE_DOMAIN", err)
	}
	_, err = r.Combine(context.Background(), ds, CombineRequest{PatternSize: 4, MinSize: -2})
	if err != nil {
		t.Errorf("negative min size should use the dataset value: %v", err)
	}
}

func TestCombineCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := testRunner(fc)
	ds := testData(t)
	req := CombineRequest{PatternSize: FromDataset, MinSize: FromDataset}

	if first, err := r.Combine(context.Background(), ds, req); err != nil || first.CacheHit {
		t.Fatalf("first run = %+v, %v", first, err)
	}
	second, err := r.Combine(context.Background(), ds, req)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit || second.Pages[0].Result.Total != 1 {
		t.Errorf("second run = %+v", second)
	}
}

func TestSample(t *testing.T) {
	r := testRunner(nil)
	sets, err := r.Sample(color.Range(10), 3, 0)
	if err != nil {
		t.Fatal(err)
	}
	want := []color.Set{{0, 1, 2}, {3, 4, 5}, {1, 2, 3}, {0, 1, 6}}
	if len(sets) != len(want) {
		t.Fatalf("got %v, want %v", sets, want)
	}
	for i := range want {
		if !sets[i].Equal(want[i]) {
			t.Errorf("set %d = %v, want %v", i, sets[i], want[i])
		}
	}

	a, _ := r.Sample(color.Range(10), 3, 7)
	b, _ := r.Sample(color.Range(10), 3, 7)
	for i := range a {
		if !a[i].Equal(b[i]) {
			t.Errorf("seeded samples differ at %d: %v vs %v", i, a[i], b[i])
		}
	}

	if _, err := r.Sample(color.Range(4), 2, 0); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("p too large: error = %v", err)
	}
}
