package combine

import (
	"github.com/matzehuels/beavr/pkg/color"
	"github.com/matzehuels/beavr/pkg/errors"
)

// Group holds every enumerated color set of one size.
type Group struct {
	Size int         `json:"size"`
	Sets []color.Set `json:"sets"`
}

// Enumerate lists the color sets used ∪ s for every subset s of the unused
// colors whose size lies in [max(minSize−|used|, 0), patternSize−|used|].
// Groups are ordered by decreasing size; sets inside a group are in
// lexicographic order of s.
//
// minSize > patternSize and patternSize < |used| yield an empty result.
// Negative sizes fail with INVALID_COMBINATION_BOUNDS.
func Enumerate(used, colors color.Set, patternSize, minSize int) ([]Group, error) {
	if err := checkBounds(patternSize, minSize); err != nil {
		return nil, err
	}
	unused := colors.Difference(used)
	hi := patternSize - used.Len()
	lo := max(minSize-used.Len(), 0)

	groups := []Group{}
	for k := hi; k >= lo; k-- {
		g := Group{Size: used.Len() + k, Sets: []color.Set{}}
		forEachSubset(unused, k, func(s []int) bool {
			g.Sets = append(g.Sets, used.Union(s))
			return true
		})
		groups = append(groups, g)
	}
	return groups, nil
}

func checkBounds(patternSize, minSize int) error {
	if patternSize < 0 || minSize < 0 {
		return errors.New(errors.ErrCodeInvalidCombinationBounds,
			"pattern size %d and min size %d must not be negative", patternSize, minSize)
	}
	return nil
}

// forEachSubset calls fn with every k-subset of items in lexicographic order
// of indices until fn returns false. The slice passed to fn is reused between
// calls.
func forEachSubset(items []int, k int, fn func([]int) bool) {
	n := len(items)
	if k < 0 || k > n {
		return
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	buf := make([]int, k)
	for {
		for i, j := range idx {
			buf[i] = items[j]
		}
		if !fn(buf) {
			return
		}

		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}
