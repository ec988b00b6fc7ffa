package source

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/beavr/pkg/color"
	"github.com/matzehuels/beavr/pkg/errors"
)

const sixVertices = `{
  "graph": {"vertices": [0, 1, 2, 3, 4, 5], "edges": [[0, 1], [1, 2], [3, 4], [4, 5]]},
  "colorings": [[0, 1, 2, 0, 1, 2], [0, 1, 2, 0, 1, 3]],
  "pattern_size": 3,
  "min_size": 1,
  "pattern_colorings": [[0, 1, 2]],
  "counts": [{"colors": [0, 1, 2], "count": 4}, {"colors": [1, 2], "count": 2}]
}`

func TestReadJSON(t *testing.T) {
	d, err := ReadJSON(strings.NewReader(sixVertices))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if d.Graph.VertexCount() != 6 || d.Graph.EdgeCount() != 4 {
		t.Errorf("graph = %d vertices, %d edges", d.Graph.VertexCount(), d.Graph.EdgeCount())
	}
	if d.Steps() != 2 {
		t.Errorf("Steps() = %d, want 2", d.Steps())
	}
	if want := color.NewSet(0, 1, 2, 3); !d.Colors.Equal(want) {
		t.Errorf("Colors = %v, want %v (last coloring)", d.Colors, want)
	}
	if d.PatternSize != 3 || d.MinSize != 1 {
		t.Errorf("pattern = %d/%d", d.PatternSize, d.MinSize)
	}
	if len(d.PatternColorings) != 1 || !d.PatternColorings[0].Equal(color.NewSet(0, 1, 2)) {
		t.Errorf("PatternColorings = %v", d.PatternColorings)
	}
	if len(d.Counts) != 2 || d.Counts[0].Count != 4 {
		t.Errorf("Counts = %v", d.Counts)
	}

	c, err := d.Coloring(1)
	if err != nil {
		t.Fatalf("Coloring(1): %v", err)
	}
	if c[5] != 3 {
		t.Errorf("Coloring(1)[5] = %d, want 3", c[5])
	}
	if _, err := d.Coloring(2); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Coloring(2) error = %v, want INVALID_INPUT", err)
	}
}

func TestReadJSONExplicitColors(t *testing.T) {
	doc := `{"graph":{"vertices":[0,1],"edges":[[0,1]]},"colorings":[[0,1]],"colors":[0,1,2,3,4],"pattern_size":2,"min_size":0}`
	d, err := ReadJSON(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if d.Colors.Len() != 5 {
		t.Errorf("Colors = %v, want 5 colors", d.Colors)
	}
}

func TestReadJSONInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{`},
		{"unknown field", `{"graph":{"vertices":[0]},"colorings":[[0]],"extra":1}`},
		{"no colorings", `{"graph":{"vertices":[0]},"colorings":[]}`},
		{"uncolored vertex", `{"graph":{"vertices":[0,1,2]},"colorings":[[0,1]]}`},
		{"negative color", `{"graph":{"vertices":[0]},"colorings":[[-2]]}`},
		{"self loop", `{"graph":{"vertices":[0],"edges":[[0,0]]},"colorings":[[0]]}`},
		{"negative pattern", `{"graph":{"vertices":[0]},"colorings":[[0]],"pattern_size":-1}`},
		{"negative count", `{"graph":{"vertices":[0]},"colorings":[[0]],"counts":[{"colors":[0],"count":-1}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.doc))
			if !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("error = %v, want INVALID_FORMAT", err)
			}
		})
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	d, err := ReadJSON(strings.NewReader(sixVertices))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteJSON(d, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	back, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON(WriteJSON): %v", err)
	}
	if back.Steps() != d.Steps() || !back.Colors.Equal(d.Colors) || len(back.Counts) != len(d.Counts) {
		t.Errorf("round trip changed dataset: %+v", back)
	}
}

func TestJSONFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	if err := os.WriteFile(path, []byte(sixVertices), 0o644); err != nil {
		t.Fatal(err)
	}

	d, err := JSONFile{Path: path}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.Steps() != 2 {
		t.Errorf("Steps() = %d", d.Steps())
	}

	_, err = JSONFile{Path: filepath.Join(dir, "missing.json")}.Load(context.Background())
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestStatic(t *testing.T) {
	if _, err := (Static{}).Load(context.Background()); err == nil {
		t.Error("empty Static should fail")
	}
	d := &Dataset{}
	got, err := Static{Dataset: d}.Load(context.Background())
	if err != nil || got != d {
		t.Errorf("Load() = %v, %v", got, err)
	}
}
