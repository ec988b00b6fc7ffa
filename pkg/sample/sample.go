// Package sample picks small representative color sets from a color
// universe, for demonstrations and tests of the decomposition views.
package sample

import (
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/beavr/pkg/color"
	"github.com/matzehuels/beavr/pkg/errors"
)

// FourColorSets returns up to four color sets of size p drawn from colors:
//
//   - with 2p+1 <= |C|: the first p colors, the next p, the window
//     [p/2, 3p/2) overlapping both, and the first p−1 plus color 2p;
//   - otherwise: the first p, the last p, a centred window of p colors, and
//     the first p−1 plus the last color.
//
// "First" and "last" refer to the universe sorted ascending and then
// shuffled with rng; a nil rng keeps the sorted order. Duplicate sets are
// dropped, keeping the first occurrence. p must satisfy 1 <= p <= |C|−3.
func FourColorSets(colors color.Set, p int, rng *rand.Rand) ([]color.Set, error) {
	n := colors.Len()
	if p < 1 || p > n-3 {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"pattern size %d needs 1 <= p <= %d for %d colors", p, n-3, n)
	}

	cs := slices.Clone(colors)
	if rng != nil {
		rng.Shuffle(len(cs), func(i, j int) { cs[i], cs[j] = cs[j], cs[i] })
	}

	var candidates [][]int
	if 2*p+1 <= n {
		candidates = [][]int{
			cs[:p],
			cs[p : 2*p],
			cs[p/2 : 3*p/2],
			append(slices.Clone(cs[:p-1]), cs[2*p]),
		}
	} else {
		candidates = [][]int{
			cs[:p],
			cs[n-p:],
			cs[(n-p)/2 : n+floorDiv(p-n, 2)],
			append(slices.Clone(cs[:p-1]), cs[n-1]),
		}
	}

	out := make([]color.Set, 0, len(candidates))
	for _, c := range candidates {
		s := color.NewSet(c...)
		if !slices.ContainsFunc(out, s.Equal) {
			out = append(out, s)
		}
	}
	return out, nil
}

// NewRand returns the generator used for seeded sampling.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
