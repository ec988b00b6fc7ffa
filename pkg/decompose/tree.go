package decompose

import (
	"fmt"
	"slices"

	"github.com/matzehuels/beavr/pkg/color"
	"github.com/matzehuels/beavr/pkg/errors"
	"github.com/matzehuels/beavr/pkg/graph"
)

// TreedepthError lists the vertices of a component in which no color occurs
// exactly once. It is the cause of INVALID_TREEDEPTH_COLORING errors.
type TreedepthError struct {
	Vertices []int
	Colors   color.Set
}

func (e *TreedepthError) Error() string {
	return fmt.Sprintf("no uniquely colored vertex among %v (colors %v)", e.Vertices, e.Colors)
}

// Tree is a rooted tree over the vertices of a component.
//
// The zero value is not usable - trees are created by [Reconstruct].
type Tree struct {
	Root int // Root vertex, or graph.NoVertex for the empty tree

	parent   map[int]int
	children map[int][]int
	depth    map[int]int
}

func newTree() *Tree {
	return &Tree{
		Root:     graph.NoVertex,
		parent:   make(map[int]int),
		children: make(map[int][]int),
		depth:    make(map[int]int),
	}
}

// Len returns the number of vertices in the tree.
func (t *Tree) Len() int { return len(t.depth) }

// Parent returns the parent of v. The root and unknown vertices have none.
func (t *Tree) Parent(v int) (int, bool) {
	p, ok := t.parent[v]
	return p, ok
}

// Children returns the children of v in ascending order.
func (t *Tree) Children(v int) []int { return slices.Clone(t.children[v]) }

// Depth returns the distance from the root to v, or -1 if v is not in the tree.
func (t *Tree) Depth(v int) int {
	d, ok := t.depth[v]
	if !ok {
		return -1
	}
	return d
}

// Height returns the number of levels of the tree: 0 for the empty tree and
// 1 for a single vertex.
func (t *Tree) Height() int {
	h := 0
	for _, d := range t.depth {
		h = max(h, d+1)
	}
	return h
}

// Vertices returns all vertices in ascending order.
func (t *Tree) Vertices() []int {
	vs := make([]int, 0, len(t.depth))
	for v := range t.depth {
		vs = append(vs, v)
	}
	slices.Sort(vs)
	return vs
}

// Edges returns the parent-child edges, normalized to U < V and sorted.
func (t *Tree) Edges() []graph.Edge {
	es := make([]graph.Edge, 0, len(t.parent))
	for v, p := range t.parent {
		es = append(es, graph.NewEdge(p, v))
	}
	slices.SortFunc(es, func(a, b graph.Edge) int {
		if a.U != b.U {
			return a.U - b.U
		}
		return a.V - b.V
	})
	return es
}

// Subtree returns the vertices below and including v, in ascending order.
func (t *Tree) Subtree(v int) []int {
	if _, ok := t.depth[v]; !ok {
		return nil
	}
	out := []int{}
	stack := []int{v}
	for len(stack) > 0 {
		u := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, u)
		stack = append(stack, t.children[u]...)
	}
	slices.Sort(out)
	return out
}

// Leaves returns the number of leaves below and including v.
func (t *Tree) Leaves(v int) int {
	kids := t.children[v]
	if len(kids) == 0 {
		return 1
	}
	n := 0
	for _, c := range kids {
		n += t.Leaves(c)
	}
	return n
}

// Graph returns the tree as an undirected graph.
func (t *Tree) Graph() *graph.Graph {
	g, _ := graph.FromEdges(t.Vertices(), t.Edges())
	return g
}

// Reconstruct recovers the rooted tree of a connected component.
//
// At every level the root is the smallest vertex whose color occurs exactly
// once among the remaining vertices. The root is removed from a fresh copy,
// each resulting component is reconstructed recursively and its root becomes
// a child of the level's root. Sibling branches never share a graph.
//
// An empty component yields an empty tree. A component without a uniquely
// colored vertex at some level yields an INVALID_TREEDEPTH_COLORING error.
func Reconstruct(component *graph.Graph, coloring color.Coloring) (*Tree, error) {
	if err := coloring.Validate(component); err != nil {
		return nil, err
	}
	if err := validateConnected(component); err != nil {
		return nil, err
	}
	t := newTree()
	if component.VertexCount() == 0 {
		return t, nil
	}
	root, err := t.build(component, coloring, graph.NoVertex, 0)
	if err != nil {
		return nil, err
	}
	t.Root = root
	return t, nil
}

func (t *Tree) build(g *graph.Graph, coloring color.Coloring, parent, depth int) (int, error) {
	vs := g.Vertices()
	root, ok := uniqueColored(vs, coloring)
	if !ok {
		return graph.NoVertex, errors.Wrap(errors.ErrCodeInvalidTreedepthColoring,
			&TreedepthError{Vertices: vs, Colors: coloring.Of(vs)},
			"coloring is not a treedepth coloring")
	}

	t.depth[root] = depth
	if parent != graph.NoVertex {
		t.parent[root] = parent
	}
	for _, sub := range g.Without(root).Components() {
		child, err := t.build(sub, coloring, root, depth+1)
		if err != nil {
			return graph.NoVertex, err
		}
		t.children[root] = append(t.children[root], child)
	}
	slices.Sort(t.children[root])
	return root, nil
}

// uniqueColored returns the smallest vertex of vs whose color occurs exactly
// once in vs.
func uniqueColored(vs []int, coloring color.Coloring) (int, bool) {
	hist := coloring.Histogram(vs)
	for _, v := range vs {
		if hist[coloring[v]] == 1 {
			return v, true
		}
	}
	return graph.NoVertex, false
}
