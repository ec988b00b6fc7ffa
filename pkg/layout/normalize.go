package layout

import (
	"math"

	"github.com/matzehuels/beavr/pkg/errors"
)

// Box is an axis-aligned bounding box.
type Box struct {
	Min, Max Point
}

// Width returns the horizontal extent.
func (b Box) Width() float64 { return b.Max.X - b.Min.X }

// Height returns the vertical extent.
func (b Box) Height() float64 { return b.Max.Y - b.Min.Y }

// Center returns the midpoint of the box.
func (b Box) Center() Point {
	return Point{X: (b.Min.X + b.Max.X) / 2, Y: (b.Min.Y + b.Max.Y) / 2}
}

// Bounds returns the bounding box of l. The empty layout has a zero box.
func Bounds(l Layout) Box {
	if len(l) == 0 {
		return Box{}
	}
	b := Box{
		Min: Point{X: math.Inf(1), Y: math.Inf(1)},
		Max: Point{X: math.Inf(-1), Y: math.Inf(-1)},
	}
	for _, p := range l {
		b.Min.X = math.Min(b.Min.X, p.X)
		b.Min.Y = math.Min(b.Min.Y, p.Y)
		b.Max.X = math.Max(b.Max.X, p.X)
		b.Max.Y = math.Max(b.Max.Y, p.Y)
	}
	return b
}

// Normalize recentres raw on the midpoint of its bounding box and rescales
// each axis so that the extremes land on margin and 1-margin. An axis with
// zero extent keeps scale 1, which puts every point on 0.5.
func Normalize(raw Layout, margin float64) (Layout, error) {
	if margin < 0 || margin >= 0.5 || math.IsNaN(margin) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "margin %v outside [0, 0.5)", margin)
	}
	out := make(Layout, len(raw))
	if len(raw) == 0 {
		return out, nil
	}

	b := Bounds(raw)
	c := b.Center()
	half := 0.5 - margin
	sx, sy := axisScale(b.Width(), half), axisScale(b.Height(), half)
	for v, p := range raw {
		out[v] = Point{
			X: clamp(0.5+(p.X-c.X)*sx, margin, 1-margin),
			Y: clamp(0.5+(p.Y-c.Y)*sy, margin, 1-margin),
		}
	}
	return out, nil
}

func axisScale(extent, half float64) float64 {
	if extent == 0 {
		return 1
	}
	return 2 * half / extent
}

// clamp absorbs floating point drift at the extremes.
func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

// Columns returns the number of grid columns used to pack n layouts.
func Columns(n int) int {
	if n <= 0 {
		return 0
	}
	return int(math.Ceil(math.Sqrt(float64(n))))
}

// Pack translates copies of the layouts into a grid of unit cells. Layout i
// is offset by (i mod c, i div c) with c = ⌈√n⌉. The inputs are not modified.
func Pack(layouts []Layout) []Layout {
	c := Columns(len(layouts))
	out := make([]Layout, len(layouts))
	for i, l := range layouts {
		dx, dy := float64(i%c), float64(i/c)
		moved := make(Layout, len(l))
		for v, p := range l {
			moved[v] = Point{X: p.X + dx, Y: p.Y + dy}
		}
		out[i] = moved
	}
	return out
}
