// Package decompose splits colored graphs into components and recovers the
// rooted trees behind them.
//
// # Components
//
// An [Extractor] selects the vertices whose color lies in a color set,
// induces the subgraph on them and splits it into connected components.
// Components that are isomorphic under a color-preserving bijection are
// merged: the first occurrence is kept and its [Component.Occ] counter is
// incremented for every further copy.
//
//	ex, err := decompose.NewExtractor(g, coloring)
//	comps := ex.Extract(color.NewSet(0, 1, 2))
//
// # Trees
//
// Under a treedepth coloring every connected component has a vertex whose
// color occurs exactly once in it. [Reconstruct] makes that vertex the root,
// removes it and recurses into the remaining components, attaching each
// subtree root to the parent root. When no such vertex exists the coloring is
// rejected with an INVALID_TREEDEPTH_COLORING error whose cause is a
// [*TreedepthError] listing the offending vertices.
//
// # Concurrency
//
// All functions are pure and allocate fresh results; an [Extractor] may be
// shared between goroutines.
package decompose
