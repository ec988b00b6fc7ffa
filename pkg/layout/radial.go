package layout

import (
	"math"

	"github.com/matzehuels/beavr/pkg/decompose"
)

// Radial computes a layered circular layout: the root at the origin, depth d
// on the circle of radius d and each subtree inside an angular wedge sized by
// its number of leaves. Wedges of siblings do not overlap, so edges never
// cross.
func Radial(t *decompose.Tree) Layout {
	out := make(Layout, t.Len())
	if t.Len() == 0 {
		return out
	}
	placeWedge(t, t.Root, 0, 2*math.Pi, out)
	return out
}

func placeWedge(t *decompose.Tree, v int, from, to float64, out Layout) {
	r := float64(t.Depth(v))
	mid := (from + to) / 2
	out[v] = Point{X: r * math.Cos(mid), Y: r * math.Sin(mid)}

	total := float64(t.Leaves(v))
	start := from
	for _, c := range t.Children(v) {
		span := (to - from) * float64(t.Leaves(c)) / total
		placeWedge(t, c, start, start+span, out)
		start += span
	}
}
