// Package pipeline runs the beavr backend end to end.
//
// This package ties the core packages together so the CLI and the HTTP API
// share one code path, one cache layout and one set of defaults:
//
//  1. Decompose: extract the components of one coloring step for a color
//     set, reconstruct their trees and lay them out in a packed grid
//  2. Combine: expand the inclusion-exclusion terms for every pattern
//     coloring, and for the observed counts when the dataset has them
//  3. Sample: pick four color sets of pattern size from the color universe
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	ds, err := source.JSONFile{Path: "data.json"}.Load(ctx)
//	if err != nil {
//	    return err
//	}
//	dec, err := runner.Decompose(ctx, ds, pipeline.DecomposeRequest{
//	    Colors: color.NewSet(0, 1, 2),
//	})
//
// Results are plain JSON-serializable values; the same bytes are stored in
// the cache and returned by the API.
package pipeline

import (
	"time"

	"github.com/matzehuels/beavr/pkg/color"
	"github.com/matzehuels/beavr/pkg/combine"
	"github.com/matzehuels/beavr/pkg/errors"
	"github.com/matzehuels/beavr/pkg/graph"
	"github.com/matzehuels/beavr/pkg/layout"
)

// FromDataset selects the dataset's value for a combine bound.
const FromDataset = -1

// =============================================================================
// Requests
// =============================================================================

// DecomposeRequest selects what to decompose.
type DecomposeRequest struct {
	Step    int            `json:"step"`
	Colors  color.Set      `json:"colors"`
	Layout  layout.Options `json:"-"`
	Refresh bool           `json:"refresh,omitempty"` // Skip the cache lookup
}

// CombineRequest selects the pattern bounds. Negative values take the
// dataset's pattern_size and min_size.
type CombineRequest struct {
	PatternSize int  `json:"pattern_size"`
	MinSize     int  `json:"min_size"`
	Refresh     bool `json:"refresh,omitempty"`
}

func (r CombineRequest) resolve(patternSize, minSize int) CombineRequest {
	if r.PatternSize < 0 {
		r.PatternSize = patternSize
	}
	if r.MinSize < 0 {
		r.MinSize = minSize
	}
	return r
}

// =============================================================================
// Decomposition
// =============================================================================

// Decomposition is the result of one decompose run.
type Decomposition struct {
	RunID      string          `json:"run_id"`
	Step       int             `json:"step"`
	ColorSet   color.Set       `json:"colors"`
	Oversized  bool            `json:"oversized"` // More colors than the pattern size
	Components []ComponentView `json:"components"`
	Trees      []TreeView      `json:"trees"`
	Layouts    []layout.Layout `json:"layouts"`
	Stats      Stats           `json:"stats"`
}

// ComponentView is the serialized form of a deduplicated component.
type ComponentView struct {
	Vertices []int       `json:"vertices"`
	Edges    [][2]int    `json:"edges"`
	Colors   map[int]int `json:"colors"`
	Occ      int         `json:"occ"`
}

// TreeView is the serialized form of a reconstructed tree. Parents maps
// every non-root vertex to its parent.
type TreeView struct {
	Root    int         `json:"root"`
	Height  int         `json:"height"`
	Parents map[int]int `json:"parents"`
}

// Stats contains run statistics.
type Stats struct {
	Vertices    int           `json:"vertices"`    // Vertices of the induced subgraph
	Components  int           `json:"components"`  // Distinct components after merging
	Occurrences int           `json:"occurrences"` // Components before merging
	Duration    time.Duration `json:"duration"`
	CacheHit    bool          `json:"cache_hit"`
}

// =============================================================================
// Combination
// =============================================================================

// Combination is the result of one combine run.
type Combination struct {
	RunID       string `json:"run_id"`
	PatternSize int    `json:"pattern_size"`
	MinSize     int    `json:"min_size"`
	Colors      int    `json:"colors"`
	Pages       []Page `json:"pages"`
	Totals      *Page  `json:"totals,omitempty"` // Present when counts were observed
	CacheHit    bool   `json:"cache_hit"`
}

// Page is the expansion for one pattern coloring, or for the observed
// totals.
type Page struct {
	Title  string         `json:"title"`
	Used   color.Set      `json:"used,omitempty"`
	Terms  []TermView     `json:"terms"`
	Result combine.Result `json:"result"`
}

// TermView is a term with its display-limited sets.
type TermView struct {
	combine.Term
	Product int64 `json:"product"`
	Omitted int64 `json:"omitted"` // Sets not listed in Sets
}

// =============================================================================
// Conversions
// =============================================================================

func edgePairs(edges []graph.Edge) [][2]int {
	out := make([][2]int, len(edges))
	for i, e := range edges {
		out[i] = [2]int{e.U, e.V}
	}
	return out
}

func validateColors(s color.Set) error {
	for _, c := range s {
		if c < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "negative color %d", c)
		}
	}
	return nil
}
