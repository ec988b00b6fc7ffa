package decompose

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/beavr/pkg/color"
	"github.com/matzehuels/beavr/pkg/graph"
)

// =============================================================================
// Color Refinement
// =============================================================================

// refinement is the stable vertex partition reached by iterated color
// refinement, seeded with the vertex colors.
type refinement struct {
	labels map[int]uint64
	rounds int
}

// refine runs color refinement until the number of distinct labels stops
// growing. Labels are hashes of (previous label, sorted neighbor labels), so
// they are comparable across graphs refined for the same number of rounds.
func refine(g *graph.Graph, tags color.Coloring) refinement {
	vs := g.Vertices()
	labels := make(map[int]uint64, len(vs))
	for _, v := range vs {
		labels[v] = hashLabel(uint64(tags[v]), nil)
	}

	distinct := countDistinct(labels)
	rounds := 0
	for {
		next := make(map[int]uint64, len(vs))
		for _, v := range vs {
			nbrs := g.Neighbors(v)
			nl := make([]uint64, len(nbrs))
			for i, w := range nbrs {
				nl[i] = labels[w]
			}
			slices.Sort(nl)
			next[v] = hashLabel(labels[v], nl)
		}
		d := countDistinct(next)
		if d <= distinct {
			return refinement{labels: labels, rounds: rounds}
		}
		labels, distinct = next, d
		rounds++
	}
}

func hashLabel(self uint64, nbrs []uint64) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], self)
	h.Write(buf[:])
	for _, n := range nbrs {
		binary.LittleEndian.PutUint64(buf[:], n)
		h.Write(buf[:])
	}
	return h.Sum64()
}

func countDistinct(labels map[int]uint64) int {
	seen := make(map[uint64]struct{}, len(labels))
	for _, l := range labels {
		seen[l] = struct{}{}
	}
	return len(seen)
}

// histogram returns the sorted multiset of labels.
func (r refinement) histogram() []uint64 {
	return slices.Sorted(maps.Values(r.labels))
}

// Certificate returns a string that is equal for isomorphic components.
// Unequal certificates prove non-isomorphism; equal certificates do not
// prove isomorphism, [Isomorphic] decides that.
func Certificate(c *Component) string {
	r := refine(c.Graph, c.Colors)
	var b strings.Builder
	fmt.Fprintf(&b, "%d:%d:%d", c.Graph.VertexCount(), c.Graph.EdgeCount(), r.rounds)
	for _, l := range r.histogram() {
		fmt.Fprintf(&b, ":%x", l)
	}
	return b.String()
}

// =============================================================================
// Isomorphism
// =============================================================================

// Isomorphic reports whether a bijection between the vertices of a and b
// exists that preserves adjacency and color tags.
func Isomorphic(a, b *Component) bool {
	ga, gb := a.Graph, b.Graph
	if ga.VertexCount() != gb.VertexCount() || ga.EdgeCount() != gb.EdgeCount() {
		return false
	}
	if !maps.Equal(a.Colors.Histogram(ga.Vertices()), b.Colors.Histogram(gb.Vertices())) {
		return false
	}

	ra, rb := refine(ga, a.Colors), refine(gb, b.Colors)
	if ra.rounds != rb.rounds || !slices.Equal(ra.histogram(), rb.histogram()) {
		return false
	}

	m := &matcher{
		a: a, b: b,
		la: ra.labels, lb: rb.labels,
		order:   searchOrder(ga, ra.labels),
		forward: make(map[int]int, ga.VertexCount()),
		used:    make(map[int]bool, gb.VertexCount()),
	}
	m.byLabel = make(map[uint64][]int)
	for _, w := range gb.Vertices() {
		m.byLabel[rb.labels[w]] = append(m.byLabel[rb.labels[w]], w)
	}
	return m.match(0)
}

// matcher is the state of the backtracking search for an isomorphism.
type matcher struct {
	a, b    *Component
	la, lb  map[int]uint64
	order   []int
	byLabel map[uint64][]int
	forward map[int]int
	used    map[int]bool
}

func (m *matcher) match(i int) bool {
	if i == len(m.order) {
		return true
	}
	v := m.order[i]
	for _, w := range m.byLabel[m.la[v]] {
		if m.used[w] || !m.consistent(v, w) {
			continue
		}
		m.forward[v] = w
		m.used[w] = true
		if m.match(i + 1) {
			return true
		}
		delete(m.forward, v)
		m.used[w] = false
	}
	return false
}

// consistent checks that mapping v to w keeps colors and agrees with every
// vertex mapped so far on adjacency.
func (m *matcher) consistent(v, w int) bool {
	if m.a.Colors[v] != m.b.Colors[w] {
		return false
	}
	for u, x := range m.forward {
		if m.a.Graph.HasEdge(u, v) != m.b.Graph.HasEdge(x, w) {
			return false
		}
	}
	return true
}

// searchOrder lists the vertices of g breadth first, starting each component
// at the vertex whose label class is smallest, so that early choices are the
// most constrained.
func searchOrder(g *graph.Graph, labels map[int]uint64) []int {
	classSize := make(map[uint64]int)
	for _, l := range labels {
		classSize[l]++
	}
	starts := g.Vertices()
	slices.SortStableFunc(starts, func(x, y int) int {
		return classSize[labels[x]] - classSize[labels[y]]
	})

	seen := make(map[int]bool, len(starts))
	order := make([]int, 0, len(starts))
	for _, s := range starts {
		if seen[s] {
			continue
		}
		seen[s] = true
		queue := []int{s}
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			order = append(order, v)
			for _, w := range g.Neighbors(v) {
				if !seen[w] {
					seen[w] = true
					queue = append(queue, w)
				}
			}
		}
	}
	return order
}
