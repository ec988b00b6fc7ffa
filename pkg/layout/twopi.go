package layout

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/beavr/pkg/decompose"
)

// ToDOT converts a tree to an undirected Graphviz graph whose twopi root is
// the tree root. Vertex v is named "v<id>".
func ToDOT(t *decompose.Tree) string {
	var buf bytes.Buffer
	buf.WriteString("graph T {\n")
	fmt.Fprintf(&buf, "  root=%q;\n", nodeName(t.Root))
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  node [shape=point];\n")
	buf.WriteString("\n")
	for _, v := range t.Vertices() {
		fmt.Fprintf(&buf, "  %s;\n", nodeName(v))
	}
	for _, e := range t.Edges() {
		fmt.Fprintf(&buf, "  %s -- %s;\n", nodeName(e.U), nodeName(e.V))
	}
	buf.WriteString("}\n")
	return buf.String()
}

func nodeName(v int) string { return "v" + strconv.Itoa(v) }

// Twopi runs Graphviz twopi on the tree and returns the raw node positions.
func Twopi(ctx context.Context, t *decompose.Tree) (Layout, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.TWOPI)

	g, err := graphviz.ParseBytes([]byte(ToDOT(t)))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	// Rendering attaches the computed "pos" attribute to every node.
	if err := gv.Render(ctx, g, graphviz.XDOT, io.Discard); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	raw := make(Layout, t.Len())
	n, err := g.FirstNode()
	for n != nil && err == nil {
		name, nerr := n.Name()
		if nerr != nil {
			return nil, fmt.Errorf("node name: %w", nerr)
		}
		v, p, perr := parsePosition(name, n.GetStr("pos"))
		if perr != nil {
			return nil, perr
		}
		raw[v] = p
		n, err = g.NextNode(n)
	}
	if err != nil {
		return nil, fmt.Errorf("walk nodes: %w", err)
	}

	for _, v := range t.Vertices() {
		if _, ok := raw[v]; !ok {
			return nil, fmt.Errorf("twopi output has no position for vertex %d", v)
		}
	}
	return raw, nil
}

// parsePosition reads a node named by [ToDOT] and its "x,y" pos attribute.
// A trailing "!" (pinned position) is ignored.
func parsePosition(name, pos string) (int, Point, error) {
	id, ok := strings.CutPrefix(name, "v")
	if !ok {
		return 0, Point{}, fmt.Errorf("unexpected node %q", name)
	}
	v, err := strconv.Atoi(id)
	if err != nil {
		return 0, Point{}, fmt.Errorf("parse node %q: %w", name, err)
	}
	xs, ys, ok := strings.Cut(strings.TrimSuffix(pos, "!"), ",")
	if !ok {
		return 0, Point{}, fmt.Errorf("node %s has no position (pos=%q)", name, pos)
	}
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return 0, Point{}, fmt.Errorf("parse x of %s: %w", name, err)
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return 0, Point{}, fmt.Errorf("parse y of %s: %w", name, err)
	}
	return v, Point{X: x, Y: y}, nil
}
