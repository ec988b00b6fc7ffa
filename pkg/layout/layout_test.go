package layout

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/beavr/pkg/color"
	"github.com/matzehuels/beavr/pkg/decompose"
	"github.com/matzehuels/beavr/pkg/errors"
	"github.com/matzehuels/beavr/pkg/graph"
)

func buildTree(t *testing.T, n int, edges [][2]int, coloring []int) *decompose.Tree {
	t.Helper()
	es := make([]graph.Edge, len(edges))
	for i, e := range edges {
		es[i] = graph.NewEdge(e[0], e[1])
	}
	vs := make([]int, n)
	for i := range vs {
		vs[i] = i
	}
	g, err := graph.FromEdges(vs, es)
	if err != nil {
		t.Fatal(err)
	}
	tr, err := decompose.Reconstruct(g, color.FromSlice(coloring))
	if err != nil {
		t.Fatal(err)
	}
	return tr
}

func testTrees(t *testing.T) map[string]*decompose.Tree {
	return map[string]*decompose.Tree{
		"Single": buildTree(t, 1, nil, []int{0}),
		"Edge":   buildTree(t, 2, [][2]int{{0, 1}}, []int{0, 1}),
		"Path7": buildTree(t, 7, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 6}},
			[]int{0, 1, 0, 2, 0, 1, 0}),
		"Star": buildTree(t, 5, [][2]int{{0, 1}, {0, 2}, {0, 3}, {0, 4}}, []int{9, 1, 1, 1, 1}),
		"Caterpillar": buildTree(t, 8, [][2]int{{0, 1}, {0, 2}, {0, 3}, {3, 4}, {3, 5}, {5, 6}, {5, 7}},
			[]int{0, 1, 1, 2, 3, 4, 5, 5}),
	}
}

func TestTreeBounds(t *testing.T) {
	ctx := context.Background()
	for _, engine := range Engines {
		for name, tr := range testTrees(t) {
			t.Run(string(engine)+"/"+name, func(t *testing.T) {
				l, err := Tree(ctx, tr, Options{Engine: engine})
				if err != nil {
					t.Fatalf("Tree: %v", err)
				}
				if len(l) != tr.Len() {
					t.Fatalf("layout has %d points, want %d", len(l), tr.Len())
				}
				for v, p := range l {
					if p.X < DefaultMargin || p.X > 1-DefaultMargin || p.Y < DefaultMargin || p.Y > 1-DefaultMargin {
						t.Errorf("vertex %d at %v outside [%v, %v]²", v, p, DefaultMargin, 1-DefaultMargin)
					}
				}
			})
		}
	}
}

func TestRadialStructure(t *testing.T) {
	tr := testTrees(t)["Path7"]
	raw := Radial(tr)

	if p := raw[tr.Root]; p.X != 0 || p.Y != 0 {
		t.Errorf("root at %v, want origin", p)
	}
	for _, v := range tr.Vertices() {
		r := math.Hypot(raw[v].X, raw[v].Y)
		if math.Abs(r-float64(tr.Depth(v))) > 1e-9 {
			t.Errorf("vertex %d at radius %v, want depth %d", v, r, tr.Depth(v))
		}
	}
}

func TestSpringDeterministic(t *testing.T) {
	tr := testTrees(t)["Caterpillar"]
	a := Spring(tr, 7, 50)
	b := Spring(tr, 7, 50)
	for v := range a {
		if a[v] != b[v] {
			t.Fatalf("vertex %d: %v != %v", v, a[v], b[v])
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		raw    Layout
		margin float64
		want   Layout
	}{
		{
			name:   "Square",
			raw:    Layout{0: {X: -2, Y: -1}, 1: {X: 2, Y: 3}},
			margin: 0.1,
			want:   Layout{0: {X: 0.1, Y: 0.1}, 1: {X: 0.9, Y: 0.9}},
		},
		{
			name:   "ZeroWidth",
			raw:    Layout{0: {X: 5, Y: 0}, 1: {X: 5, Y: 10}},
			margin: 0.05,
			want:   Layout{0: {X: 0.5, Y: 0.05}, 1: {X: 0.5, Y: 0.95}},
		},
		{
			name:   "SinglePoint",
			raw:    Layout{3: {X: 7, Y: -7}},
			margin: 0.2,
			want:   Layout{3: {X: 0.5, Y: 0.5}},
		},
		{
			name:   "NoMargin",
			raw:    Layout{0: {X: 0, Y: 0}, 1: {X: 1, Y: 4}, 2: {X: 0.5, Y: 1}},
			margin: 0,
			want:   Layout{0: {X: 0, Y: 0}, 1: {X: 1, Y: 1}, 2: {X: 0.5, Y: 0.25}},
		},
		{
			name:   "Empty",
			raw:    Layout{},
			margin: 0.05,
			want:   Layout{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.raw, tt.margin)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d points, want %d", len(got), len(tt.want))
			}
			for v, w := range tt.want {
				if math.Abs(got[v].X-w.X) > 1e-9 || math.Abs(got[v].Y-w.Y) > 1e-9 {
					t.Errorf("vertex %d = %v, want %v", v, got[v], w)
				}
			}
		})
	}
}

func TestNormalizeInvalidMargin(t *testing.T) {
	for _, m := range []float64{-0.1, 0.5, 0.7, math.NaN()} {
		if _, err := Normalize(Layout{0: {}}, m); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Normalize(margin=%v) err = %v, want INVALID_INPUT", m, err)
		}
	}
	if _, err := Tree(context.Background(), testTrees(t)["Edge"], Options{Margin: 0.6}); err == nil {
		t.Error("Tree accepted margin 0.6")
	}
	if _, err := Tree(context.Background(), testTrees(t)["Edge"], Options{Engine: "dot"}); err == nil {
		t.Error("Tree accepted unknown engine")
	}
}

func TestPack(t *testing.T) {
	unit := Layout{0: {X: 0.5, Y: 0.5}}
	in := []Layout{unit, unit, unit, unit, unit}
	out := Pack(in)

	want := []Point{{X: 0.5, Y: 0.5}, {X: 1.5, Y: 0.5}, {X: 2.5, Y: 0.5}, {X: 0.5, Y: 1.5}, {X: 1.5, Y: 1.5}}
	for i, l := range out {
		if l[0] != want[i] {
			t.Errorf("cell %d = %v, want %v", i, l[0], want[i])
		}
	}
	if unit[0] != (Point{X: 0.5, Y: 0.5}) {
		t.Error("Pack modified its input")
	}
	if got := Pack(nil); len(got) != 0 {
		t.Errorf("Pack(nil) = %v", got)
	}
}

func TestColumns(t *testing.T) {
	tests := []struct{ n, want int }{{0, 0}, {1, 1}, {2, 2}, {4, 2}, {5, 3}, {9, 3}, {10, 4}}
	for _, tt := range tests {
		if got := Columns(tt.n); got != tt.want {
			t.Errorf("Columns(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestTreesPacksCells(t *testing.T) {
	trees := []*decompose.Tree{testTrees(t)["Edge"], testTrees(t)["Star"], testTrees(t)["Single"]}
	layouts, err := Trees(context.Background(), trees, Options{})
	if err != nil {
		t.Fatal(err)
	}
	for i, l := range layouts {
		cx, cy := float64(i%2), float64(i/2)
		for v, p := range l {
			if p.X < cx || p.X > cx+1 || p.Y < cy || p.Y > cy+1 {
				t.Errorf("layout %d vertex %d at %v outside cell (%v, %v)", i, v, p, cx, cy)
			}
		}
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testTrees(t)["Edge"])
	for _, want := range []string{`root="v0"`, "v0 -- v1;", "v1;"} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestTwopi(t *testing.T) {
	for name, tr := range testTrees(t) {
		t.Run(name, func(t *testing.T) {
			raw, err := Twopi(context.Background(), tr)
			if err != nil {
				t.Fatalf("Twopi: %v", err)
			}
			if len(raw) != tr.Len() {
				t.Fatalf("got %d positions, want %d", len(raw), tr.Len())
			}
			for _, v := range tr.Vertices() {
				p, ok := raw[v]
				if !ok {
					t.Errorf("vertex %d has no position", v)
					continue
				}
				if math.IsNaN(p.X) || math.IsNaN(p.Y) {
					t.Errorf("vertex %d at %v", v, p)
				}
			}
		})
	}
}

func TestParsePosition(t *testing.T) {
	tests := []struct {
		name, node, pos string
		wantV           int
		want            Point
		wantErr         bool
	}{
		{"plain", "v0", "36,36", 0, Point{X: 36, Y: 36}, false},
		{"pinned exponent", "v12", "-1.5e+01,72!", 12, Point{X: -15, Y: 72}, false},
		{"foreign node", "x1", "1,2", 0, Point{}, true},
		{"bad id", "vx", "1,2", 0, Point{}, true},
		{"missing pos", "v1", "", 0, Point{}, true},
		{"bad coordinate", "v1", "1,y", 0, Point{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, p, err := parsePosition(tt.node, tt.pos)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && (v != tt.wantV || p != tt.want) {
				t.Errorf("got %d %v, want %d %v", v, p, tt.wantV, tt.want)
			}
		})
	}
}
