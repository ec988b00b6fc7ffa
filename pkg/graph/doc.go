// Package graph provides the undirected simple graph the backend works on.
//
// Vertices are non-negative integer ids. Edges are unordered pairs of
// distinct vertices; self loops are rejected and duplicate edges are ignored.
// Every listing ([Graph.Vertices], [Graph.Edges], [Graph.Neighbors]) is
// sorted so that results are deterministic regardless of insertion order.
//
// # Derived Graphs
//
// Derivations never modify the receiver, they return fresh graphs:
//
//	sub := g.Induced([]int{0, 1, 2})   // induced subgraph
//	rest := g.Without(3)               // g minus vertex 3
//	parts := g.Components()            // connected components, by minimum vertex
//
// # Serialization
//
// Graphs use a compact JSON format:
//
//	{
//	  "vertices": [0, 1, 2],
//	  "edges": [[0, 1], [1, 2]]
//	}
//
// Use [ReadGraph], [ReadGraphFile], [WriteGraph], [WriteGraphFile] and
// [MarshalGraph] to convert between files, readers and graphs.
//
// # Concurrency
//
// A Graph is safe for concurrent reads but not concurrent writes.
package graph
