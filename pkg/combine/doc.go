// Package combine enumerates and evaluates the inclusion-exclusion expansion
// that turns per-color-set pattern counts into a final total.
//
// # Enumeration
//
// [Enumerate] lists, for each admissible size from the pattern size down to
// the minimum size, every color set that extends the used colors by unused
// ones. Each size forms one [Group].
//
//	groups, _ := combine.Enumerate(color.NewSet(0, 6), color.Range(10), 4, 2)
//	// three groups of 28, 8 and 1 sets
//
// # Evaluation
//
// Two paths produce [Term] lists that [Evaluate] multiplies out:
//
//   - [Expand] derives coefficients from the color counts and uses the number
//     of generated sets as the count of each term. Signs alternate starting
//     with + on the largest group.
//   - [Totals] aggregates externally observed counts by color set size and
//     takes coefficients from the precomputed [Table].
//
// All arithmetic is exact int64 arithmetic; overflow is reported as an
// OVERFLOW error, never wrapped silently.
package combine
