// Package pkg holds the beavr libraries.
//
// beavr splits a colored graph into the components induced by a color set,
// rebuilds the treedepth tree of every component from its colors, lays the
// trees out, and expands the inclusion-exclusion terms that turn per-color-set
// pattern counts into a total.
//
// # Packages
//
// Core:
//
//   - [graph]: undirected graphs with integer vertices and their JSON form
//   - [color]: color sets and vertex colorings
//   - [decompose]: component extraction, isomorphism merging, tree rebuilding
//   - [layout]: radial, twopi and spring layouts normalized to a grid
//   - [combine]: binomials, color set enumeration, inclusion-exclusion
//   - [sample]: four representative color sets of pattern size
//
// Plumbing:
//
//   - [source]: dataset loading
//   - [pipeline]: cached decompose and combine runs shared by CLI and API
//   - [cache]: null, file and redis result caches
//   - [config]: the TOML configuration file
//   - [server]: the JSON HTTP API
//   - [observability]: hooks for pipeline, cache and HTTP events
//   - [errors]: structured errors with codes
//   - [buildinfo]: version information
//
// # Data Flow
//
//	dataset.json
//	     ↓
//	[source] ──→ [color].Coloring per step
//	     ↓
//	[decompose].Extract ──→ [decompose].Reconstruct ──→ [layout].Trees
//	     ↓
//	[pipeline].Decomposition (cached, served, printed)
//
//	pattern colorings / observed counts ──→ [combine].Expand / Totals ──→ Evaluate
package pkg
