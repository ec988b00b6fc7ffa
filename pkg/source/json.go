package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/beavr/pkg/color"
	"github.com/matzehuels/beavr/pkg/combine"
	"github.com/matzehuels/beavr/pkg/errors"
	"github.com/matzehuels/beavr/pkg/graph"
)

// =============================================================================
// Wire Format
// =============================================================================

// Document is the JSON form of a dataset.
type Document struct {
	Graph            graph.Data   `json:"graph"`
	Colorings        [][]int      `json:"colorings"`
	Colors           []int        `json:"colors,omitempty"`
	PatternSize      int          `json:"pattern_size"`
	MinSize          int          `json:"min_size"`
	PatternColorings [][]int      `json:"pattern_colorings,omitempty"`
	Counts           []CountEntry `json:"counts,omitempty"`
}

// CountEntry is one observed count.
type CountEntry struct {
	Colors []int `json:"colors"`
	Count  int64 `json:"count"`
}

// ToDocument converts a dataset to its JSON form.
func ToDocument(d *Dataset) Document {
	g := d.Graph
	if g == nil {
		g = graph.New()
	}
	doc := Document{
		Graph:       graph.ToData(g),
		Colorings:   make([][]int, len(d.Colorings)),
		Colors:      d.Colors,
		PatternSize: d.PatternSize,
		MinSize:     d.MinSize,
	}
	for i, c := range d.Colorings {
		doc.Colorings[i] = c.Slice()
	}
	for _, s := range d.PatternColorings {
		doc.PatternColorings = append(doc.PatternColorings, s)
	}
	for _, o := range d.Counts {
		doc.Counts = append(doc.Counts, CountEntry{Colors: o.Set, Count: o.Count})
	}
	return doc
}

// FromDocument validates a document and builds the dataset.
func FromDocument(doc Document) (*Dataset, error) {
	g, err := graph.FromData(doc.Graph)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "graph")
	}
	if len(doc.Colorings) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "dataset has no colorings")
	}
	if doc.PatternSize < 0 || doc.MinSize < 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat,
			"pattern_size %d and min_size %d must not be negative", doc.PatternSize, doc.MinSize)
	}

	d := &Dataset{
		Graph:       g,
		Colorings:   make([]color.Coloring, len(doc.Colorings)),
		PatternSize: doc.PatternSize,
		MinSize:     doc.MinSize,
	}
	for i, raw := range doc.Colorings {
		c := color.FromSlice(raw)
		if err := c.Validate(g); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "coloring %d", i)
		}
		d.Colorings[i] = c.Restrict(g.Vertices())
	}

	if len(doc.Colors) > 0 {
		d.Colors = color.NewSet(doc.Colors...)
	} else {
		d.Colors = d.Colorings[len(d.Colorings)-1].Colors()
	}
	for _, c := range d.Colors {
		if c < 0 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "negative color %d", c)
		}
	}

	for _, pc := range doc.PatternColorings {
		d.PatternColorings = append(d.PatternColorings, color.NewSet(pc...))
	}
	for _, e := range doc.Counts {
		if e.Count < 0 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "negative count %d for %v", e.Count, e.Colors)
		}
		d.Counts = append(d.Counts, combine.Observation{Set: color.NewSet(e.Colors...), Count: e.Count})
	}
	return d, nil
}

// MarshalJSON implements json.Marshaler.
func (d *Dataset) MarshalJSON() ([]byte, error) {
	return json.Marshal(ToDocument(d))
}

// =============================================================================
// Readers
// =============================================================================

// JSONFile loads a dataset from a JSON file.
type JSONFile struct {
	Path string
}

// Load reads and validates the file.
func (f JSONFile) Load(ctx context.Context) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(f.Path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "dataset %s", f.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Path, err)
	}
	defer file.Close()

	d, err := ReadJSON(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Path, err)
	}
	return d, nil
}

// ReadJSON decodes and validates a dataset document.
func ReadJSON(r io.Reader) (*Dataset, error) {
	var doc Document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode dataset")
	}
	return FromDocument(doc)
}

// WriteJSON encodes a dataset as indented JSON.
func WriteJSON(d *Dataset, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ToDocument(d)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
