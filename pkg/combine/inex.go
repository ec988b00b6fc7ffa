package combine

import (
	"context"
	"math"

	"github.com/emirpasic/gods/maps/treemap"

	"github.com/matzehuels/beavr/pkg/color"
	"github.com/matzehuels/beavr/pkg/errors"
)

// Term is one signed summand of the inclusion-exclusion expansion.
type Term struct {
	Size        int         `json:"size"`        // Number of colors in each set of the term
	Coefficient int64       `json:"coefficient"` // Signed coefficient
	Count       int64       `json:"count"`       // Generated sets or observed count
	Sets        []color.Set `json:"sets"`        // Color sets belonging to the term
}

// Observation is an externally measured pattern count for one color set.
type Observation struct {
	Set   color.Set `json:"colors"`
	Count int64     `json:"count"`
}

// Result is the evaluated expansion.
type Result struct {
	Products []int64 `json:"products"` // Coefficient × Count per term
	Total    int64   `json:"total"`    // Sum of Products
}

// Coefficient returns the unsigned coefficient of a term covering termSize
// colors: 1 + Σ_{i=1}^{patternSize−termSize} C(remaining, i).
func Coefficient(patternSize, termSize, remaining int) (int64, error) {
	var coef int64 = 1
	for i := 1; i <= patternSize-termSize; i++ {
		c, err := Choose(remaining, i)
		if err != nil {
			return 0, err
		}
		if coef, err = add(coef, c); err != nil {
			return 0, errors.Wrap(errors.ErrCodeOverflow, err, "coefficient for size %d", termSize)
		}
	}
	return coef, nil
}

// Table returns the signed coefficients indexed by patternSize − setSize,
// for set sizes from patternSize down to 0. Entry d accounts for how often a
// set of patternSize−d colors was already counted by the larger sets:
//
//	t[d] = 1 − Σ_{i<d} C(numColors − (patternSize−d), d−i) · t[i]
func Table(patternSize, numColors int) ([]int64, error) {
	if patternSize < 0 {
		return nil, errors.New(errors.ErrCodeInvalidCombinationBounds, "negative pattern size %d", patternSize)
	}
	if patternSize > numColors {
		return nil, errors.New(errors.ErrCodeChooseDomain,
			"pattern size %d exceeds the %d available colors", patternSize, numColors)
	}
	table := make([]int64, 0, patternSize+1)
	for d := 0; d <= patternSize; d++ {
		remaining := numColors - (patternSize - d)
		var sum int64
		for i, t := range table {
			c, err := Choose(remaining, d-i)
			if err != nil {
				return nil, err
			}
			p, err := mulSigned(c, t)
			if err != nil {
				return nil, err
			}
			if sum, err = add(sum, p); err != nil {
				return nil, err
			}
		}
		if sum == math.MinInt64 {
			return nil, errOverflow
		}
		v, err := add(1, -sum)
		if err != nil {
			return nil, err
		}
		table = append(table, v)
	}
	return table, nil
}

// Expand builds the terms of one color-set page: the groups from
// [Enumerate], magnitudes from [Coefficient] with remaining = |colors| − size,
// signs alternating from + on the first group, and the number of generated
// sets as count.
func Expand(used, colors color.Set, patternSize, minSize int) ([]Term, error) {
	groups, err := Enumerate(used, colors, patternSize, minSize)
	if err != nil {
		return nil, err
	}
	terms := make([]Term, 0, len(groups))
	for i, g := range groups {
		mag, err := Coefficient(patternSize, g.Size, colors.Len()-g.Size)
		if err != nil {
			return nil, err
		}
		if i%2 == 1 {
			mag = -mag
		}
		terms = append(terms, Term{
			Size:        g.Size,
			Coefficient: mag,
			Count:       int64(len(g.Sets)),
			Sets:        g.Sets,
		})
	}
	return terms, nil
}

// ExpandLimited is [Expand] for color universes too large to list. Counts
// come from [Choose] instead of from the listed sets, and each term lists at
// most limit(size) sets: the first ones in the order of [Enumerate]. A nil
// limit lists every set. ctx is checked before every listed set.
func ExpandLimited(ctx context.Context, used, colors color.Set, patternSize, minSize int, limit func(size int) int) ([]Term, error) {
	if err := checkBounds(patternSize, minSize); err != nil {
		return nil, err
	}
	unused := colors.Difference(used)
	hi := patternSize - used.Len()
	lo := max(minSize-used.Len(), 0)

	terms := []Term{}
	for k := hi; k >= lo; k-- {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		size := used.Len() + k
		mag, err := Coefficient(patternSize, size, colors.Len()-size)
		if err != nil {
			return nil, err
		}
		if len(terms)%2 == 1 {
			mag = -mag
		}
		var count int64
		if k <= len(unused) {
			if count, err = Choose(len(unused), k); err != nil {
				return nil, err
			}
		}

		want := -1
		if limit != nil {
			want = max(limit(size), 0)
		}
		sets := []color.Set{}
		forEachSubset(unused, k, func(s []int) bool {
			if want >= 0 && len(sets) >= want {
				return false
			}
			if err = ctx.Err(); err != nil {
				return false
			}
			sets = append(sets, used.Union(s))
			return true
		})
		if err != nil {
			return nil, err
		}
		terms = append(terms, Term{Size: size, Coefficient: mag, Count: count, Sets: sets})
	}
	return terms, nil
}

// Totals builds the terms of the totals page from observed counts. Counts
// are aggregated by color set size; sizes from patternSize down to minSize
// each get one term whose coefficient is Table[patternSize − size]. Sizes
// without observations get a zero count.
func Totals(observed []Observation, colors color.Set, patternSize, minSize int) ([]Term, error) {
	if err := checkBounds(patternSize, minSize); err != nil {
		return nil, err
	}
	if minSize > patternSize {
		return []Term{}, nil
	}
	table, err := Table(patternSize, colors.Len())
	if err != nil {
		return nil, err
	}

	counts, sets, err := aggregate(observed)
	if err != nil {
		return nil, err
	}

	terms := make([]Term, 0, patternSize-minSize+1)
	for size := patternSize; size >= minSize; size-- {
		t := Term{Size: size, Coefficient: table[patternSize-size], Sets: []color.Set{}}
		if c, ok := counts.Get(size); ok {
			t.Count = c.(int64)
		}
		if s, ok := sets.Get(size); ok {
			t.Sets = s.([]color.Set)
		}
		terms = append(terms, t)
	}
	return terms, nil
}

// aggregate sums observed counts and collects observed sets per set size,
// in ordered maps keyed by size.
func aggregate(observed []Observation) (counts, sets *treemap.Map, err error) {
	counts = treemap.NewWithIntComparator()
	sets = treemap.NewWithIntComparator()
	for _, o := range observed {
		size := o.Set.Len()
		var sum int64
		if prev, ok := counts.Get(size); ok {
			sum = prev.(int64)
		}
		if sum, err = add(sum, o.Count); err != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeOverflow, err, "aggregate counts of size %d", size)
		}
		counts.Put(size, sum)

		var group []color.Set
		if prev, ok := sets.Get(size); ok {
			group = prev.([]color.Set)
		}
		sets.Put(size, append(group, o.Set))
	}
	return counts, sets, nil
}

// CountsBySize returns the observed counts summed per color set size, in
// ascending order of size.
func CountsBySize(observed []Observation) ([]SizeCount, error) {
	counts, _, err := aggregate(observed)
	if err != nil {
		return nil, err
	}
	out := make([]SizeCount, 0, counts.Size())
	it := counts.Iterator()
	for it.Next() {
		out = append(out, SizeCount{Size: it.Key().(int), Count: it.Value().(int64)})
	}
	return out, nil
}

// SizeCount is the aggregated observed count of one set size.
type SizeCount struct {
	Size  int   `json:"size"`
	Count int64 `json:"count"`
}

// Evaluate multiplies every term's coefficient by its count and sums the
// products.
func Evaluate(terms []Term) (Result, error) {
	r := Result{Products: make([]int64, 0, len(terms))}
	for _, t := range terms {
		p, err := mulSigned(t.Coefficient, t.Count)
		if err != nil {
			return Result{}, errors.Wrap(errors.ErrCodeOverflow, err, "term of size %d", t.Size)
		}
		r.Products = append(r.Products, p)
		if r.Total, err = add(r.Total, p); err != nil {
			return Result{}, errors.Wrap(errors.ErrCodeOverflow, err, "total")
		}
	}
	return r, nil
}
