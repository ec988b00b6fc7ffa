package graph

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// NoVertex marks the absence of a vertex, e.g. the root of an empty tree.
const NoVertex = -1

var (
	// ErrNegativeVertex is returned by [Graph.AddVertex] for ids below zero.
	ErrNegativeVertex = errors.New("vertex id must not be negative")

	// ErrSelfLoop is returned by [Graph.AddEdge] when both endpoints are equal.
	ErrSelfLoop = errors.New("self loops are not allowed")

	// ErrUnknownVertex is returned by [Graph.AddEdge] when an endpoint has not
	// been added to the graph.
	ErrUnknownVertex = errors.New("unknown vertex")
)

// Edge is an undirected edge. Edges returned by the graph are normalized so
// that U < V.
type Edge struct {
	U, V int
}

// NewEdge returns the normalized edge between u and v.
func NewEdge(u, v int) Edge {
	if u > v {
		u, v = v, u
	}
	return Edge{U: u, V: v}
}

// String renders the edge as "(u, v)".
func (e Edge) String() string { return fmt.Sprintf("(%d, %d)", e.U, e.V) }

func compareEdges(a, b Edge) int {
	if a.U != b.U {
		return a.U - b.U
	}
	return a.V - b.V
}

// Graph is an undirected simple graph over integer vertex ids.
//
// The zero value is not usable - use New or FromEdges.
type Graph struct {
	adj   map[int]map[int]struct{}
	edges int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{adj: make(map[int]map[int]struct{})}
}

// FromEdges builds a graph from explicit vertices plus the endpoints of the
// given edges. Vertices that appear only in edges are added implicitly.
func FromEdges(vertices []int, edges []Edge) (*Graph, error) {
	g := New()
	for _, v := range vertices {
		if err := g.AddVertex(v); err != nil {
			return nil, err
		}
	}
	for _, e := range edges {
		for _, v := range []int{e.U, e.V} {
			if err := g.AddVertex(v); err != nil {
				return nil, err
			}
		}
		if err := g.AddEdge(e.U, e.V); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// AddVertex adds v to the graph. Adding an existing vertex is a no-op.
func (g *Graph) AddVertex(v int) error {
	if v < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeVertex, v)
	}
	if _, ok := g.adj[v]; !ok {
		g.adj[v] = make(map[int]struct{})
	}
	return nil
}

// AddEdge connects two existing vertices. Duplicate edges are ignored.
func (g *Graph) AddEdge(u, v int) error {
	if u == v {
		return fmt.Errorf("%w: %d", ErrSelfLoop, u)
	}
	nu, ok := g.adj[u]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownVertex, u)
	}
	nv, ok := g.adj[v]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownVertex, v)
	}
	if _, dup := nu[v]; dup {
		return nil
	}
	nu[v] = struct{}{}
	nv[u] = struct{}{}
	g.edges++
	return nil
}

// HasVertex reports whether v is in the graph.
func (g *Graph) HasVertex(v int) bool {
	_, ok := g.adj[v]
	return ok
}

// HasEdge reports whether u and v are adjacent.
func (g *Graph) HasEdge(u, v int) bool {
	_, ok := g.adj[u][v]
	return ok
}

// VertexCount returns the number of vertices.
func (g *Graph) VertexCount() int { return len(g.adj) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return g.edges }

// Degree returns the number of neighbors of v, or 0 if v is unknown.
func (g *Graph) Degree(v int) int { return len(g.adj[v]) }

// Vertices returns all vertices in ascending order.
func (g *Graph) Vertices() []int {
	return slices.Sorted(maps.Keys(g.adj))
}

// Neighbors returns the neighbors of v in ascending order.
func (g *Graph) Neighbors(v int) []int {
	return slices.Sorted(maps.Keys(g.adj[v]))
}

// Edges returns every edge once, normalized to U < V, in lexicographic order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, g.edges)
	for u, nbrs := range g.adj {
		for v := range nbrs {
			if u < v {
				out = append(out, Edge{U: u, V: v})
			}
		}
	}
	slices.SortFunc(out, compareEdges)
	return out
}

// MinVertex returns the smallest vertex id, or NoVertex for an empty graph.
func (g *Graph) MinVertex() int {
	if len(g.adj) == 0 {
		return NoVertex
	}
	return slices.Min(slices.Collect(maps.Keys(g.adj)))
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	c := &Graph{adj: make(map[int]map[int]struct{}, len(g.adj)), edges: g.edges}
	for v, nbrs := range g.adj {
		c.adj[v] = maps.Clone(nbrs)
	}
	return c
}

// Induced returns the subgraph induced by the given vertices. Ids that are
// not in g are skipped.
func (g *Graph) Induced(vertices []int) *Graph {
	keep := make(map[int]struct{}, len(vertices))
	for _, v := range vertices {
		if g.HasVertex(v) {
			keep[v] = struct{}{}
		}
	}
	sub := &Graph{adj: make(map[int]map[int]struct{}, len(keep))}
	for v := range keep {
		nbrs := make(map[int]struct{})
		for w := range g.adj[v] {
			if _, ok := keep[w]; ok {
				nbrs[w] = struct{}{}
				if v < w {
					sub.edges++
				}
			}
		}
		sub.adj[v] = nbrs
	}
	return sub
}

// Without returns a copy of g with the given vertices and their incident
// edges removed.
func (g *Graph) Without(vertices ...int) *Graph {
	drop := make(map[int]struct{}, len(vertices))
	for _, v := range vertices {
		drop[v] = struct{}{}
	}
	keep := make([]int, 0, len(g.adj))
	for v := range g.adj {
		if _, ok := drop[v]; !ok {
			keep = append(keep, v)
		}
	}
	return g.Induced(keep)
}

// Components splits the graph into its connected components, each returned
// as an induced subgraph. Components are ordered by their minimum vertex.
func (g *Graph) Components() []*Graph {
	seen := make(map[int]bool, len(g.adj))
	out := []*Graph{}
	for _, start := range g.Vertices() {
		if seen[start] {
			continue
		}
		members := g.bfs(start, seen)
		out = append(out, g.Induced(members))
	}
	return out
}

// IsConnected reports whether the graph has exactly one component.
// The empty graph is not connected.
func (g *Graph) IsConnected() bool {
	if len(g.adj) == 0 {
		return false
	}
	seen := make(map[int]bool, len(g.adj))
	return len(g.bfs(g.MinVertex(), seen)) == len(g.adj)
}

// bfs visits the component of start, marking vertices in seen.
func (g *Graph) bfs(start int, seen map[int]bool) []int {
	seen[start] = true
	queue := []int{start}
	members := []int{}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		members = append(members, v)
		for _, w := range g.Neighbors(v) {
			if !seen[w] {
				seen[w] = true
				queue = append(queue, w)
			}
		}
	}
	return members
}
