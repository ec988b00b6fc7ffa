package layout

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/beavr/pkg/decompose"
)

// Spring computes a Fruchterman-Reingold layout of the tree. Initial
// positions come from a PCG generator seeded with seed, so equal inputs give
// equal layouts.
func Spring(t *decompose.Tree, seed uint64, iterations int) Layout {
	vs := t.Vertices()
	out := make(Layout, len(vs))
	if len(vs) == 0 {
		return out
	}
	if len(vs) == 1 {
		out[vs[0]] = Point{}
		return out
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	pos := make([]Point, len(vs))
	index := make(map[int]int, len(vs))
	for i, v := range vs {
		index[v] = i
		pos[i] = Point{X: rng.Float64(), Y: rng.Float64()}
	}
	edges := t.Edges()

	k := math.Sqrt(1 / float64(len(vs)))
	temp := 0.1
	cool := temp / float64(iterations+1)
	disp := make([]Point, len(vs))

	for range iterations {
		clear(disp)
		for i := range pos {
			for j := i + 1; j < len(pos); j++ {
				dx, dy, d := delta(pos[i], pos[j])
				f := k * k / d
				disp[i].X += dx / d * f
				disp[i].Y += dy / d * f
				disp[j].X -= dx / d * f
				disp[j].Y -= dy / d * f
			}
		}
		for _, e := range edges {
			i, j := index[e.U], index[e.V]
			dx, dy, d := delta(pos[i], pos[j])
			f := d * d / k
			disp[i].X -= dx / d * f
			disp[i].Y -= dy / d * f
			disp[j].X += dx / d * f
			disp[j].Y += dy / d * f
		}
		for i := range pos {
			l := math.Hypot(disp[i].X, disp[i].Y)
			if l > 0 {
				step := math.Min(l, temp)
				pos[i].X += disp[i].X / l * step
				pos[i].Y += disp[i].Y / l * step
			}
		}
		temp -= cool
	}

	for i, v := range vs {
		out[v] = pos[i]
	}
	return out
}

// delta returns a-b and its length, nudged away from zero.
func delta(a, b Point) (dx, dy, d float64) {
	dx, dy = a.X-b.X, a.Y-b.Y
	d = math.Hypot(dx, dy)
	if d < 1e-9 {
		dx, d = 1e-9, 1e-9
	}
	return dx, dy, d
}
