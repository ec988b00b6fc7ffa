package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/beavr/pkg/cache"
	"github.com/matzehuels/beavr/pkg/color"
	"github.com/matzehuels/beavr/pkg/combine"
	"github.com/matzehuels/beavr/pkg/decompose"
	"github.com/matzehuels/beavr/pkg/layout"
	"github.com/matzehuels/beavr/pkg/observability"
	"github.com/matzehuels/beavr/pkg/sample"
	"github.com/matzehuels/beavr/pkg/source"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration // Expiry of stored results, 0 for the defaults
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
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

// =============================================================================
// Decompose
// =============================================================================

// Decompose extracts the components of ds under the coloring of req.Step for
// req.Colors, reconstructs their trees and lays them out.
func (r *Runner) Decompose(ctx context.Context, ds *source.Dataset, req DecomposeRequest) (*Decomposition, error) {
	coloring, err := ds.Coloring(req.Step)
	if err != nil {
		return nil, err
	}
	if err := validateColors(req.Colors); err != nil {
		return nil, err
	}
	req.Colors = color.NewSet(req.Colors...)
	if req.Layout.Logger == nil {
		req.Layout.Logger = r.Logger
	}
	opts := req.Layout.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Pipeline().OnDecomposeStart(ctx, req.Step, req.Colors.Key())

	key, err := r.decomposeKey(ds, req, opts)
	if err != nil {
		return nil, err
	}

	var dec *Decomposition
	if !req.Refresh {
		dec = r.lookupDecomposition(ctx, key)
	}
	if dec == nil {
		dec, err = r.decompose(ctx, ds, coloring, req, opts)
		if err != nil {
			observability.Pipeline().OnDecomposeComplete(ctx, req.Step, 0, time.Since(start), err)
			return nil, err
		}
		dec.Stats.Duration = time.Since(start)
		r.store(ctx, "decompose", key, dec, cache.TTLDecomposition)
	}
	dec.RunID = uuid.NewString()
	dec.Oversized = req.Colors.Len() > ds.PatternSize

	observability.Pipeline().OnDecomposeComplete(ctx, req.Step, len(dec.Components), time.Since(start), nil)
	r.Logger.Info("decomposed",
		"step", req.Step,
		"colors", req.Colors.String(),
		"components", len(dec.Components),
		"occurrences", dec.Stats.Occurrences,
		"cached", dec.Stats.CacheHit,
		"duration", time.Since(start))
	return dec, nil
}

func (r *Runner) decompose(ctx context.Context, ds *source.Dataset, coloring color.Coloring, req DecomposeRequest, opts layout.Options) (*Decomposition, error) {
	comps, err := decompose.Extract(ds.Graph, coloring, req.Colors)
	if err != nil {
		return nil, err
	}
	trees, err := decompose.Trees(comps)
	if err != nil {
		return nil, fmt.Errorf("step %d: %w", req.Step, err)
	}

	layoutStart := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, string(opts.Engine), len(trees))
	layouts, err := layout.Trees(ctx, trees, opts)
	observability.Pipeline().OnLayoutComplete(ctx, string(opts.Engine), time.Since(layoutStart), err)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	r.Logger.Debug("computed layouts", "engine", opts.Engine, "trees", len(trees), "duration", time.Since(layoutStart))

	dec := &Decomposition{
		Step:       req.Step,
		ColorSet:   req.Colors,
		Components: make([]ComponentView, len(comps)),
		Trees:      make([]TreeView, len(trees)),
		Layouts:    layouts,
	}
	for i, c := range comps {
		dec.Components[i] = ComponentView{
			Vertices: c.Vertices(),
			Edges:    edgePairs(c.Edges()),
			Colors:   c.Colors,
			Occ:      c.Occ,
		}
		dec.Stats.Vertices += c.Graph.VertexCount() * c.Occ
	}
	for i, t := range trees {
		tv := TreeView{Root: t.Root, Height: t.Height(), Parents: make(map[int]int, t.Len())}
		for _, v := range t.Vertices() {
			if p, ok := t.Parent(v); ok {
				tv.Parents[v] = p
			}
		}
		dec.Trees[i] = tv
	}
	dec.Stats.Components = len(comps)
	dec.Stats.Occurrences = decompose.TotalOccurrences(comps)
	return dec, nil
}

func (r *Runner) decomposeKey(ds *source.Dataset, req DecomposeRequest, opts layout.Options) (string, error) {
	hash, err := cache.HashJSON(ds)
	if err != nil {
		return "", err
	}
	return r.Keyer.DecomposeKey(hash, cache.DecomposeKeyOpts{
		Step:       req.Step,
		Colors:     req.Colors.Key(),
		Engine:     string(opts.Engine),
		Margin:     opts.Margin,
		Seed:       opts.Seed,
		Iterations: opts.Iterations,
	}), nil
}

func (r *Runner) lookupDecomposition(ctx context.Context, key string) *Decomposition {
	var dec Decomposition
	if !r.lookup(ctx, "decompose", key, &dec) {
		return nil
	}
	dec.Stats.CacheHit = true
	return &dec
}

// =============================================================================
// Combine
// =============================================================================

// Combine expands the inclusion-exclusion terms of every pattern coloring in
// ds and, when ds carries observed counts, the totals page. Pages are
// computed concurrently.
func (r *Runner) Combine(ctx context.Context, ds *source.Dataset, req CombineRequest) (*Combination, error) {
	req = req.resolve(ds.PatternSize, ds.MinSize)
	start := time.Now()
	pages := len(ds.PatternColorings)
	observability.Pipeline().OnCombineStart(ctx, pages)

	key, err := r.combineKey(ds, req)
	if err != nil {
		return nil, err
	}

	var comb *Combination
	if !req.Refresh {
		var cached Combination
		if r.lookup(ctx, "combine", key, &cached) {
			cached.CacheHit = true
			comb = &cached
		}
	}
	if comb == nil {
		comb, err = r.combine(ctx, ds, req)
		if err != nil {
			observability.Pipeline().OnCombineComplete(ctx, pages, time.Since(start), err)
			return nil, err
		}
		r.store(ctx, "combine", key, comb, cache.TTLCombine)
	}
	comb.RunID = uuid.NewString()

	observability.Pipeline().OnCombineComplete(ctx, pages, time.Since(start), nil)
	r.Logger.Info("combined",
		"pattern_size", req.PatternSize,
		"min_size", req.MinSize,
		"pages", len(comb.Pages),
		"totals", comb.Totals != nil,
		"duration", time.Since(start))
	return comb, nil
}

func (r *Runner) combine(ctx context.Context, ds *source.Dataset, req CombineRequest) (*Combination, error) {
	comb := &Combination{
		PatternSize: req.PatternSize,
		MinSize:     req.MinSize,
		Colors:      ds.Colors.Len(),
		Pages:       make([]Page, len(ds.PatternColorings)),
	}

	g, ctx := errgroup.WithContext(ctx)
	for i, used := range ds.PatternColorings {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			limit := func(size int) int { return displayLimit(req.PatternSize, size) }
			terms, err := combine.ExpandLimited(ctx, used, ds.Colors, req.PatternSize, req.MinSize, limit)
			if err != nil {
				return fmt.Errorf("pattern coloring %s: %w", used, err)
			}
			page, err := newPage(used.String(), used, terms, req.PatternSize, enumerated)
			if err != nil {
				return fmt.Errorf("pattern coloring %s: %w", used, err)
			}
			comb.Pages[i] = page
			return nil
		})
	}
	if len(ds.Counts) > 0 {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			terms, err := combine.Totals(ds.Counts, ds.Colors, req.PatternSize, req.MinSize)
			if err != nil {
				return fmt.Errorf("totals: %w", err)
			}
			page, err := newPage("totals", nil, terms, req.PatternSize, observed)
			if err != nil {
				return fmt.Errorf("totals: %w", err)
			}
			comb.Totals = &page
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return comb, nil
}

// enumerated and observed report how many sets a term stands for: every
// generated set on an expansion page, only the listed ones on the totals page.
func enumerated(t combine.Term) int64 { return t.Count }
func observed(t combine.Term) int64 { return int64(len(t.Sets)) }

// newPage evaluates terms and trims their sets to displayLimit.
func newPage(title string, used color.Set, terms []combine.Term, patternSize int, total func(combine.Term) int64) (Page, error) {
	res, err := combine.Evaluate(terms)
	if err != nil {
		return Page{}, err
	}
	page := Page{Title: title, Used: used, Terms: make([]TermView, len(terms)), Result: res}
	for i, t := range terms {
		all := total(t)
		if limit := displayLimit(patternSize, t.Size); len(t.Sets) > limit {
			t.Sets = t.Sets[:limit]
		}
		page.Terms[i] = TermView{Term: t, Product: res.Products[i], Omitted: max(all-int64(len(t.Sets)), 0)}
	}
	return page, nil
}

// displayLimit returns how many sets of a term with sets of setSize colors
// are worth listing; it grows logarithmically with the set size and reaches
// 100 at the pattern size.
func displayLimit(patternSize, setSize int) int {
	if patternSize <= 1 || setSize <= 1 {
		return 1
	}
	return int(100 * (math.Log2(float64(setSize)) / math.Log2(float64(patternSize))))
}

func (r *Runner) combineKey(ds *source.Dataset, req CombineRequest) (string, error) {
	hash, err := cache.HashJSON(ds)
	if err != nil {
		return "", err
	}
	return r.Keyer.CombineKey(hash, cache.CombineKeyOpts{
		PatternSize: req.PatternSize,
		MinSize:     req.MinSize,
	}), nil
}

// =============================================================================
// Sample
// =============================================================================

// Sample returns up to four color sets of size p from colors. A zero seed
// keeps the colors in ascending order; any other seed shuffles them first.
func (r *Runner) Sample(colors color.Set, p int, seed uint64) ([]color.Set, error) {
	if err := validateColors(colors); err != nil {
		return nil, err
	}
	var sets []color.Set
	var err error
	if seed == 0 {
		sets, err = sample.FourColorSets(colors, p, nil)
	} else {
		sets, err = sample.FourColorSets(colors, p, sample.NewRand(seed))
	}
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("sampled color sets", "colors", colors.Len(), "pattern_size", p, "sets", len(sets))
	return sets, nil
}

// =============================================================================
// Cache Helpers
// =============================================================================

// lookup decodes a cached entry into v. Cache failures count as misses.
func (r *Runner) lookup(ctx context.Context, keyType, key string, v any) bool {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "type", keyType, "err", err)
		return false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		r.Logger.Warn("discarding unreadable cache entry", "type", keyType, "err", err)
		observability.Cache().OnCacheMiss(ctx, keyType)
		return false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return true
}

// store writes v to the cache. Failures are logged, not returned.
func (r *Runner) store(ctx context.Context, keyType, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		r.Logger.Warn("cannot encode result for cache", "type", keyType, "err", err)
		return
	}
	if r.TTL > 0 {
		ttl = r.TTL
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
