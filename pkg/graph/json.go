package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Wire Format
// =============================================================================

// Data is the serialization format for graphs.
type Data struct {
	Vertices []int    `json:"vertices"`
	Edges    [][2]int `json:"edges"`
}

// ToData converts a graph to its wire format. Vertices and edges are sorted
// for deterministic output.
func ToData(g *Graph) Data {
	d := Data{Vertices: g.Vertices(), Edges: make([][2]int, 0, g.EdgeCount())}
	for _, e := range g.Edges() {
		d.Edges = append(d.Edges, [2]int{e.U, e.V})
	}
	return d
}

// FromData builds a graph from its wire format.
func FromData(d Data) (*Graph, error) {
	edges := make([]Edge, 0, len(d.Edges))
	for _, e := range d.Edges {
		edges = append(edges, Edge{U: e[0], V: e[1]})
	}
	return FromEdges(d.Vertices, edges)
}

// MarshalJSON implements json.Marshaler.
func (g *Graph) MarshalJSON() ([]byte, error) {
	return json.Marshal(ToData(g))
}

// UnmarshalJSON implements json.Unmarshaler.
func (g *Graph) UnmarshalJSON(b []byte) error {
	var d Data
	if err := json.Unmarshal(b, &d); err != nil {
		return err
	}
	parsed, err := FromData(d)
	if err != nil {
		return err
	}
	*g = *parsed
	return nil
}

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts a graph to indented JSON bytes.
func MarshalGraph(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeGraphTo(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraphFile writes a graph to a JSON file.
func WriteGraphFile(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeGraphTo(g, f)
}

// WriteGraph writes a graph as JSON to an io.Writer.
func WriteGraph(g *Graph, w io.Writer) error {
	return writeGraphTo(g, w)
}

// ReadGraphFile reads a JSON file and returns the decoded graph.
func ReadGraphFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readGraphFrom(f)
}

// ReadGraph decodes a JSON graph from an io.Reader.
func ReadGraph(r io.Reader) (*Graph, error) {
	return readGraphFrom(r)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeGraphTo(g *Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ToData(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readGraphFrom(r io.Reader) (*Graph, error) {
	var d Data
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return FromData(d)
}
