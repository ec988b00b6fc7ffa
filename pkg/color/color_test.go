package color

import (
	"slices"
	"testing"

	"github.com/matzehuels/beavr/pkg/errors"
	"github.com/matzehuels/beavr/pkg/graph"
)

func TestNewSet(t *testing.T) {
	tests := []struct {
		name  string
		input []int
		want  Set
	}{
		{"Empty", nil, Set{}},
		{"Sorted", []int{0, 1, 2}, Set{0, 1, 2}},
		{"Unsorted", []int{5, 1, 3}, Set{1, 3, 5}},
		{"Duplicates", []int{2, 2, 0, 2}, Set{0, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewSet(tt.input...); !got.Equal(tt.want) {
				t.Errorf("NewSet(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSetOperations(t *testing.T) {
	a := NewSet(0, 1, 2, 6)
	b := NewSet(2, 3, 6)

	if got := a.Union(b); !got.Equal(Set{0, 1, 2, 3, 6}) {
		t.Errorf("Union = %v", got)
	}
	if got := a.Difference(b); !got.Equal(Set{0, 1}) {
		t.Errorf("Difference = %v", got)
	}
	if got := b.Difference(b); got == nil || got.Len() != 0 {
		t.Errorf("Difference with itself = %#v, want empty non-nil", got)
	}
	if !a.Contains(6) || a.Contains(3) {
		t.Error("Contains mismatch")
	}
	if !NewSet(0, 6).SubsetOf(a) || b.SubsetOf(a) {
		t.Error("SubsetOf mismatch")
	}
	if got := a.Toggle(1); !got.Equal(Set{0, 2, 6}) {
		t.Errorf("Toggle(1) = %v", got)
	}
	if got := a.Toggle(4); !got.Equal(Set{0, 1, 2, 4, 6}) {
		t.Errorf("Toggle(4) = %v", got)
	}
	if !a.Equal(Set{0, 1, 2, 6}) {
		t.Error("operations modified the receiver")
	}
}

func TestSetFormatting(t *testing.T) {
	s := NewSet(5, 0, 1)
	if got := s.Key(); got != "0,1,5" {
		t.Errorf("Key() = %q", got)
	}
	if got := s.String(); got != "{0, 1, 5}" {
		t.Errorf("String() = %q", got)
	}
	if got := (Set{}).String(); got != "{}" {
		t.Errorf("empty String() = %q", got)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    Set
		wantErr bool
	}{
		{"0,1,5", Set{0, 1, 5}, false},
		{" 5 , 1 ", Set{1, 5}, false},
		{"", Set{}, false},
		{"1,x", nil, true},
		{"-1", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidInput) {
					t.Errorf("error code = %q, want INVALID_INPUT", errors.GetCode(err))
				}
				return
			}
			if !got.Equal(tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRange(t *testing.T) {
	if got := Range(4); !got.Equal(Set{0, 1, 2, 3}) {
		t.Errorf("Range(4) = %v", got)
	}
	if got := Range(0); got.Len() != 0 {
		t.Errorf("Range(0) = %v", got)
	}
}

func TestColoringValidate(t *testing.T) {
	g, _ := graph.FromEdges([]int{0, 1, 2}, []graph.Edge{{U: 0, V: 1}})

	tests := []struct {
		name     string
		coloring Coloring
		wantErr  bool
	}{
		{"Total", FromSlice([]int{0, 1, 0}), false},
		{"ExtraVertices", FromSlice([]int{0, 1, 0, 3}), false},
		{"Missing", Coloring{0: 0, 1: 1}, true},
		{"Negative", Coloring{0: 0, 1: -1, 2: 2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.coloring.Validate(g)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidColoring) {
				t.Errorf("code = %q, want INVALID_COLORING", errors.GetCode(err))
			}
		})
	}
}

func TestColoringQueries(t *testing.T) {
	g, _ := graph.FromEdges([]int{0, 1, 2, 3, 4}, nil)
	c := FromSlice([]int{2, 0, 2, 1, 0})

	if got := c.Colors(); !got.Equal(Set{0, 1, 2}) {
		t.Errorf("Colors() = %v", got)
	}
	if got := c.Of([]int{0, 2, 3}); !got.Equal(Set{1, 2}) {
		t.Errorf("Of() = %v", got)
	}
	if got := c.Select(g, Set{0, 1}); !slices.Equal(got, []int{1, 3, 4}) {
		t.Errorf("Select() = %v", got)
	}
	hist := c.Histogram([]int{0, 1, 2, 3})
	if hist[2] != 2 || hist[0] != 1 || hist[1] != 1 {
		t.Errorf("Histogram() = %v", hist)
	}
	if got := c.Restrict([]int{1, 3}); len(got) != 2 || got[3] != 1 {
		t.Errorf("Restrict() = %v", got)
	}
	if got := c.Slice(); !slices.Equal(got, []int{2, 0, 2, 1, 0}) {
		t.Errorf("Slice() = %v", got)
	}
}
