package combine

import (
	"testing"

	"github.com/matzehuels/beavr/pkg/color"
	"github.com/matzehuels/beavr/pkg/errors"
)

func TestEnumerateScenario(t *testing.T) {
	groups, err := Enumerate(color.NewSet(0, 6), color.Range(10), 4, 2)
	if err != nil {
		t.Fatal(err)
	}

	wantLens := []int{28, 8, 1}
	if len(groups) != len(wantLens) {
		t.Fatalf("got %d groups, want %d", len(groups), len(wantLens))
	}
	for i, g := range groups {
		if len(g.Sets) != wantLens[i] {
			t.Errorf("group %d has %d sets, want %d", i, len(g.Sets), wantLens[i])
		}
		if i > 0 && g.Size >= groups[i-1].Size {
			t.Errorf("group sizes not strictly decreasing: %d after %d", g.Size, groups[i-1].Size)
		}
	}
	last := groups[2].Sets
	if !last[0].Equal(color.Set{0, 6}) {
		t.Errorf("last group = %v, want [{0, 6}]", last)
	}
	if first := groups[0].Sets[0]; !first.Equal(color.Set{0, 1, 2, 6}) {
		t.Errorf("first set = %v, want {0, 1, 2, 6}", first)
	}
}

func TestEnumerateBounds(t *testing.T) {
	tests := []struct {
		name     string
		used     color.Set
		colors   color.Set
		p, min   int
		wantLens []int
	}{
		{"NoUsed", color.Set{}, color.Range(5), 3, 1, []int{10, 10, 5}},
		{"MinAboveUsed", color.Set{1}, color.Range(6), 3, 3, []int{10}},
		{"MinBelowUsed", color.Set{0, 1, 2}, color.Range(5), 4, 1, []int{2, 1}},
		{"MinGreaterThanPattern", color.Set{0}, color.Range(5), 2, 3, []int{}},
		{"PatternSmallerThanUsed", color.Set{0, 1, 2}, color.Range(5), 2, 0, []int{}},
		{"NotEnoughUnused", color.Set{0}, color.Range(2), 3, 1, []int{0, 1, 1}},
		{"Empty", color.Set{}, color.Set{}, 0, 0, []int{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups, err := Enumerate(tt.used, tt.colors, tt.p, tt.min)
			if err != nil {
				t.Fatal(err)
			}
			if groups == nil || len(groups) != len(tt.wantLens) {
				t.Fatalf("got %d groups, want %d", len(groups), len(tt.wantLens))
			}
			lo := max(tt.min-tt.used.Len(), 0) + tt.used.Len()
			for i, g := range groups {
				if len(g.Sets) != tt.wantLens[i] {
					t.Errorf("group %d: %d sets, want %d", i, len(g.Sets), tt.wantLens[i])
				}
				for _, s := range g.Sets {
					if s.Len() != g.Size || s.Len() < lo || s.Len() > tt.p {
						t.Errorf("set %v has size %d, group size %d", s, s.Len(), g.Size)
					}
					if !tt.used.SubsetOf(s) {
						t.Errorf("set %v does not contain %v", s, tt.used)
					}
				}
			}
		})
	}
}

func TestEnumerateNegative(t *testing.T) {
	for _, b := range [][2]int{{-1, 0}, {3, -1}} {
		_, err := Enumerate(color.Set{}, color.Range(4), b[0], b[1])
		if !errors.Is(err, errors.ErrCodeInvalidCombinationBounds) {
			t.Errorf("Enumerate(p=%d, min=%d) err = %v", b[0], b[1], err)
		}
	}
}
