// Package layout places reconstructed trees in the unit square.
//
// # Engines
//
// Three engines compute a raw placement for a [decompose.Tree]:
//
//   - [EngineRadial]: layered circular layout computed in-process. The root
//     sits at the centre, depth d lies on ring d and every subtree owns an
//     angular wedge proportional to its number of leaves.
//   - [EngineTwopi]: Graphviz twopi rooted at the tree root, run in-process
//     through go-graphviz.
//   - [EngineSpring]: seeded Fruchterman-Reingold force simulation.
//
// When twopi fails, [Tree] logs a warning and falls back to the spring
// engine. Whatever engine ran, the result is passed through [Normalize], so
// every point of a single layout lies in [margin, 1-margin]².
//
// # Packing
//
// [Pack] tiles several normalized layouts into a grid of unit cells with
// ⌈√n⌉ columns, row-major, rows advancing along +y.
//
//	layouts, err := layout.Trees(ctx, trees, layout.Options{})
package layout
