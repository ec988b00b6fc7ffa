// Package color models vertex colorings and color sets.
//
// A [Coloring] assigns every vertex of a graph a non-negative integer color.
// A [Set] is a sorted, duplicate-free collection of colors; it is used both to
// induce subgraphs (select every vertex whose color is in the set) and to key
// terms of the inclusion-exclusion expansion.
//
// Sets are values: every operation returns a fresh slice and never modifies
// its receiver, so they are safe to share between goroutines.
package color

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/matzehuels/beavr/pkg/errors"
	"github.com/matzehuels/beavr/pkg/graph"
)

// =============================================================================
// Set
// =============================================================================

// Set is a sorted, duplicate-free set of colors.
// The zero value is the empty set.
type Set []int

// NewSet builds a Set from arbitrary colors, sorting and removing duplicates.
func NewSet(colors ...int) Set {
	s := Set(lo.Uniq(colors))
	slices.Sort(s)
	return s
}

// Range returns the set {0, 1, ..., n-1}. Non-positive n yields the empty set.
func Range(n int) Set {
	if n <= 0 {
		return Set{}
	}
	return Set(lo.Range(n))
}

// Parse reads a comma separated list of colors such as "0,1,5".
// Whitespace is ignored; the empty string yields the empty set.
func Parse(s string) (Set, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Set{}, nil
	}
	parts := strings.Split(s, ",")
	colors := make([]int, 0, len(parts))
	for _, p := range parts {
		c, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse color %q", p)
		}
		if c < 0 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "negative color %d", c)
		}
		colors = append(colors, c)
	}
	return NewSet(colors...), nil
}

// Len returns the number of colors in the set.
func (s Set) Len() int { return len(s) }

// Contains reports whether c is a member of s.
func (s Set) Contains(c int) bool {
	_, ok := slices.BinarySearch(s, c)
	return ok
}

// Union returns s ∪ o.
func (s Set) Union(o Set) Set {
	return NewSet(lo.Union(s, o)...)
}

// Difference returns s − o.
func (s Set) Difference(o Set) Set {
	d := lo.Without(s, o...)
	if d == nil {
		return Set{}
	}
	return Set(d)
}

// Equal reports whether both sets contain the same colors.
func (s Set) Equal(o Set) bool { return slices.Equal(s, o) }

// SubsetOf reports whether every color of s is in o.
func (s Set) SubsetOf(o Set) bool {
	return lo.EveryBy(s, o.Contains)
}

// Key returns a canonical string key, suitable for map keys and cache keys.
func (s Set) Key() string {
	return strings.Join(lo.Map(s, func(c int, _ int) string { return strconv.Itoa(c) }), ",")
}

// String renders the set as "{0, 1, 5}".
func (s Set) String() string {
	return "{" + strings.Join(lo.Map(s, func(c int, _ int) string { return strconv.Itoa(c) }), ", ") + "}"
}

// Toggle returns s with c added if absent or removed if present.
func (s Set) Toggle(c int) Set {
	if s.Contains(c) {
		return s.Difference(Set{c})
	}
	return s.Union(Set{c})
}

// =============================================================================
// Coloring
// =============================================================================

// Coloring maps vertex ids to colors.
type Coloring map[int]int

// FromSlice builds a Coloring from a slice indexed by vertex id, which is how
// datasets store colorings.
func FromSlice(colors []int) Coloring {
	c := make(Coloring, len(colors))
	for v, col := range colors {
		c[v] = col
	}
	return c
}

// Validate checks that the coloring is total on g and that no color is
// negative. Failures carry the INVALID_COLORING code.
func (c Coloring) Validate(g *graph.Graph) error {
	for _, v := range g.Vertices() {
		col, ok := c[v]
		if !ok {
			return errors.New(errors.ErrCodeInvalidColoring, "vertex %d has no color", v)
		}
		if col < 0 {
			return errors.New(errors.ErrCodeInvalidColoring, "vertex %d has negative color %d", v, col)
		}
	}
	return nil
}

// Colors returns the set of colors used by the coloring.
func (c Coloring) Colors() Set {
	return NewSet(lo.Values(c)...)
}

// Of returns the set of colors used by the given vertices.
func (c Coloring) Of(vertices []int) Set {
	return NewSet(lo.Map(vertices, func(v int, _ int) int { return c[v] })...)
}

// Histogram counts how often each color occurs among the given vertices.
func (c Coloring) Histogram(vertices []int) map[int]int {
	return lo.CountValuesBy(vertices, func(v int) int { return c[v] })
}

// Select returns, in ascending order, the vertices of g whose color is in s.
func (c Coloring) Select(g *graph.Graph, s Set) []int {
	return lo.Filter(g.Vertices(), func(v int, _ int) bool {
		col, ok := c[v]
		return ok && s.Contains(col)
	})
}

// Restrict returns the coloring limited to the given vertices.
func (c Coloring) Restrict(vertices []int) Coloring {
	out := make(Coloring, len(vertices))
	for _, v := range vertices {
		if col, ok := c[v]; ok {
			out[v] = col
		}
	}
	return out
}

// Slice returns the coloring as a slice indexed by vertex id, filling gaps
// with -1. It is the inverse of [FromSlice] for dense colorings.
func (c Coloring) Slice() []int {
	if len(c) == 0 {
		return []int{}
	}
	out := make([]int, lo.Max(lo.Keys(c))+1)
	for i := range out {
		out[i] = -1
	}
	for v, col := range c {
		out[v] = col
	}
	return out
}

// GoString is used by %#v and keeps test failure output readable.
func (c Coloring) GoString() string {
	return fmt.Sprintf("color.FromSlice(%v)", c.Slice())
}
