// Package source loads the inputs of the backend.
//
// A [DataSource] produces a [Dataset]: the graph, one coloring per pipeline
// step, the color universe, the pattern parameters, the colorings of the
// pattern and, for the totals view, the observed count per color set.
//
// [JSONFile] reads the dataset from a single JSON document:
//
//	{
//	  "graph": {"vertices": [0, 1, 2], "edges": [[0, 1], [1, 2]]},
//	  "colorings": [[0, 1, 2]],
//	  "colors": [0, 1, 2, 3],
//	  "pattern_size": 3,
//	  "min_size": 1,
//	  "pattern_colorings": [[0, 1, 2]],
//	  "counts": [{"colors": [0, 1, 2], "count": 4}]
//	}
//
// Colorings are arrays indexed by vertex id. "colors" defaults to the colors
// used by the last coloring. Malformed documents fail with INVALID_FORMAT.
package source

import (
	"context"

	"github.com/matzehuels/beavr/pkg/color"
	"github.com/matzehuels/beavr/pkg/combine"
	"github.com/matzehuels/beavr/pkg/errors"
	"github.com/matzehuels/beavr/pkg/graph"
)

// DataSource produces a dataset.
type DataSource interface {
	Load(ctx context.Context) (*Dataset, error)
}

// Dataset is everything the backend needs for one pipeline run.
type Dataset struct {
	Graph            *graph.Graph
	Colorings        []color.Coloring
	Colors           color.Set
	PatternSize      int
	MinSize          int
	PatternColorings []color.Set
	Counts           []combine.Observation
}

// Steps returns the number of colorings.
func (d *Dataset) Steps() int { return len(d.Colorings) }

// Coloring returns the coloring of a step.
func (d *Dataset) Coloring(step int) (color.Coloring, error) {
	if step < 0 || step >= len(d.Colorings) {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"step %d out of range, dataset has %d colorings", step, len(d.Colorings))
	}
	return d.Colorings[step], nil
}

// Static is a DataSource over an already loaded dataset.
type Static struct {
	Dataset *Dataset
}

// Load returns the wrapped dataset.
func (s Static) Load(context.Context) (*Dataset, error) {
	if s.Dataset == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no dataset")
	}
	return s.Dataset, nil
}
