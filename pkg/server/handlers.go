package server

import (
	"net/http"

	"github.com/matzehuels/beavr/pkg/color"
	"github.com/matzehuels/beavr/pkg/layout"
	"github.com/matzehuels/beavr/pkg/pipeline"
	"github.com/matzehuels/beavr/pkg/source"
)

// LayoutRequest is the optional layout section of a decompose request. An
// omitted margin takes the default; an explicit 0 lays out without margin.
type LayoutRequest struct {
	Engine     string   `json:"engine"`
	Margin     *float64 `json:"margin"`
	Seed       uint64   `json:"seed"`
	Iterations int      `json:"iterations"`
}

func (l LayoutRequest) options() layout.Options {
	opts := layout.Options{
		Engine:     layout.Engine(l.Engine),
		Seed:       l.Seed,
		Iterations: l.Iterations,
	}
	if l.Margin != nil {
		opts.Margin = *l.Margin
		opts.KeepMargin = true
	}
	return opts
}

// DecomposeRequest is the body of POST /v1/decompose.
type DecomposeRequest struct {
	Dataset source.Document `json:"dataset"`
	Step    int             `json:"step"`
	Colors  []int           `json:"colors"`
	Layout  LayoutRequest   `json:"layout"`
	Refresh bool            `json:"refresh"`
}

// CombineRequest is the body of POST /v1/combine. Omitted bounds take the
// dataset's values.
type CombineRequest struct {
	Dataset     source.Document `json:"dataset"`
	PatternSize *int            `json:"pattern_size"`
	MinSize     *int            `json:"min_size"`
	Refresh     bool            `json:"refresh"`
}

// SampleRequest is the body of POST /v1/sample.
type SampleRequest struct {
	Colors      []int  `json:"colors"`
	PatternSize int    `json:"pattern_size"`
	Seed        uint64 `json:"seed"`
}

// SampleResponse lists the sampled sets.
type SampleResponse struct {
	Sets []color.Set `json:"sets"`
}

func (s *Server) decompose(w http.ResponseWriter, r *http.Request) {
	var req DecomposeRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	ds, err := source.FromDocument(req.Dataset)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	dec, err := s.runner.Decompose(r.Context(), ds, pipeline.DecomposeRequest{
		Step:    req.Step,
		Colors:  color.NewSet(req.Colors...),
		Layout:  req.Layout.options(),
		Refresh: req.Refresh,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, dec)
}

func (s *Server) combine(w http.ResponseWriter, r *http.Request) {
	var req CombineRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	ds, err := source.FromDocument(req.Dataset)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	creq := pipeline.CombineRequest{PatternSize: pipeline.FromDataset, MinSize: pipeline.FromDataset, Refresh: req.Refresh}
	if req.PatternSize != nil {
		creq.PatternSize = *req.PatternSize
	}
	if req.MinSize != nil {
		creq.MinSize = *req.MinSize
	}
	comb, err := s.runner.Combine(r.Context(), ds, creq)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, comb)
}

func (s *Server) sample(w http.ResponseWriter, r *http.Request) {
	var req SampleRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	sets, err := s.runner.Sample(color.NewSet(req.Colors...), req.PatternSize, req.Seed)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, SampleResponse{Sets: sets})
}
