package decompose

import (
	"github.com/matzehuels/beavr/pkg/color"
	"github.com/matzehuels/beavr/pkg/errors"
	"github.com/matzehuels/beavr/pkg/graph"
)

// Component is a connected, color-tagged induced subgraph together with the
// number of isomorphic copies that were merged into it.
type Component struct {
	Graph  *graph.Graph   // Induced subgraph
	Colors color.Coloring // Color tag of every vertex in Graph
	Occ    int            // Number of merged copies, at least 1
}

// Vertices returns the component's vertices in ascending order.
func (c *Component) Vertices() []int { return c.Graph.Vertices() }

// Edges returns the component's edges in lexicographic order.
func (c *Component) Edges() []graph.Edge { return c.Graph.Edges() }

// ColorSet returns the colors present in the component.
func (c *Component) ColorSet() color.Set { return c.Colors.Colors() }

// Tree reconstructs the rooted tree of the component from its color tags.
func (c *Component) Tree() (*Tree, error) {
	return Reconstruct(c.Graph, c.Colors)
}

// Extractor computes deduplicated color-induced components of one graph
// under one coloring.
type Extractor struct {
	g        *graph.Graph
	coloring color.Coloring
}

// NewExtractor validates that coloring is total on g and returns an
// extractor for the pair.
func NewExtractor(g *graph.Graph, coloring color.Coloring) (*Extractor, error) {
	if err := coloring.Validate(g); err != nil {
		return nil, err
	}
	return &Extractor{g: g, coloring: coloring}, nil
}

// Extract returns the connected components induced by the vertices whose
// color lies in set, merged up to color-preserving isomorphism.
//
// Components are listed in the order of their first occurrence, which is
// ascending by minimum vertex id. An empty set or graph yields an empty slice.
func (e *Extractor) Extract(set color.Set) []*Component {
	sub := e.g.Induced(e.coloring.Select(e.g, set))

	accepted := []*Component{}
	buckets := make(map[string][]*Component)
	for _, part := range sub.Components() {
		c := &Component{
			Graph:  part,
			Colors: e.coloring.Restrict(part.Vertices()),
			Occ:    1,
		}
		cert := Certificate(c)
		if match := findIsomorphic(buckets[cert], c); match != nil {
			match.Occ++
			continue
		}
		buckets[cert] = append(buckets[cert], c)
		accepted = append(accepted, c)
	}
	return accepted
}

// Extract is a convenience wrapper around [NewExtractor] and
// [Extractor.Extract].
func Extract(g *graph.Graph, coloring color.Coloring, set color.Set) ([]*Component, error) {
	ex, err := NewExtractor(g, coloring)
	if err != nil {
		return nil, err
	}
	return ex.Extract(set), nil
}

// TotalOccurrences sums Occ over the given components.
func TotalOccurrences(comps []*Component) int {
	n := 0
	for _, c := range comps {
		n += c.Occ
	}
	return n
}

func findIsomorphic(candidates []*Component, c *Component) *Component {
	for _, cand := range candidates {
		if Isomorphic(cand, c) {
			return cand
		}
	}
	return nil
}

// Trees reconstructs the tree of every component, stopping at the first
// coloring violation.
func Trees(comps []*Component) ([]*Tree, error) {
	trees := make([]*Tree, 0, len(comps))
	for _, c := range comps {
		t, err := c.Tree()
		if err != nil {
			return nil, err
		}
		trees = append(trees, t)
	}
	return trees, nil
}

// validateConnected rejects inputs the tree reconstruction cannot accept.
func validateConnected(g *graph.Graph) error {
	if g.VertexCount() > 0 && !g.IsConnected() {
		return errors.New(errors.ErrCodeInvalidInput, "component %v is not connected", g.Vertices())
	}
	return nil
}
