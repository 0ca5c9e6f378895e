package bucket

import (
	"fmt"
	"sort"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestIndex(t *testing.T) {
	bounds := Bounds{10, 20, 30, 40}

	tests := []struct {
		value uint64
		want  int
	}{
		{0, 0},
		{5, 0},
		{10, 0},
		{19, 0},
		{20, 1},
		{25, 1},
		{30, 2},
		{39, 2},
		{40, 3},
		{100, 3},
		{^uint64(0), 3},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.value), func(t *testing.T) {
			if got := Index(bounds, tt.value); got != tt.want {
				t.Errorf("Index(%v, %d) = %d, want %d", bounds, tt.value, got, tt.want)
			}
		})
	}
}

func TestIndexEqualBounds(t *testing.T) {
	tests := []struct {
		name   string
		bounds Bounds
		value  uint64
		want   int
	}{
		{"all equal below", Bounds{5, 5, 5, 5}, 4, 0},
		{"all equal at", Bounds{5, 5, 5, 5}, 5, 0},
		{"all equal above", Bounds{5, 5, 5, 5}, 6, 3},
		{"shared lower bound", Bounds{10, 10, 20, 30}, 10, 0},
		{"zero bounds", Bounds{}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Index(tt.bounds, tt.value); got != tt.want {
				t.Errorf("Index(%v, %d) = %d, want %d", tt.bounds, tt.value, got, tt.want)
			}
		})
	}
}

func TestPick(t *testing.T) {
	bounds := Bounds{10, 20, 30, 40}
	colours := Colours{"c0", "c1", "c2", "c3"}

	for value, want := range map[uint64]string{5: "c0", 25: "c1", 40: "c3", 100: "c3"} {
		if got := colours.Pick(bounds, value); got != want {
			t.Errorf("Pick(%d) = %q, want %q", value, got, want)
		}
	}
}

func TestAscending(t *testing.T) {
	if !(Bounds{1, 2, 2, 3}).Ascending() {
		t.Error("Bounds{1, 2, 2, 3} should be ascending")
	}
	if (Bounds{1, 3, 2, 4}).Ascending() {
		t.Error("Bounds{1, 3, 2, 4} should not be ascending")
	}
}

// strictBounds generates strictly ascending bounds.
func strictBounds() gopter.Gen {
	return gen.SliceOfN(Count, gen.UInt64Range(0, 1<<40)).
		SuchThat(func(v []uint64) bool {
			seen := make(map[uint64]bool, len(v))
			for _, x := range v {
				if seen[x] {
					return false
				}
				seen[x] = true
			}
			return true
		}).
		Map(func(v []uint64) Bounds {
			sort.Slice(v, func(i, j int) bool { return v[i] < v[j] })
			return Bounds{v[0], v[1], v[2], v[3]}
		})
}

func TestIndexProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 1000
	properties := gopter.NewProperties(parameters)

	properties.Property("below the first bound is bucket 0", prop.ForAll(
		func(b Bounds, value uint64) bool {
			if value >= b[0] {
				return true
			}
			return Index(b, value) == 0
		},
		strictBounds(),
		gen.UInt64Range(0, 1<<40),
	))

	properties.Property("at or above the last bound is bucket 3", prop.ForAll(
		func(b Bounds, delta uint64) bool {
			return Index(b, b[3]+delta) == Count-1
		},
		strictBounds(),
		gen.UInt64Range(0, 1<<20),
	))

	properties.Property("between two bounds is the lower bucket", prop.ForAll(
		func(b Bounds, i int, frac uint64) bool {
			width := b[i+1] - b[i]
			value := b[i] + frac%width
			return Index(b, value) == i
		},
		strictBounds(),
		gen.IntRange(0, Count-2),
		gen.UInt64(),
	))

	properties.Property("index is always in range", prop.ForAll(
		func(a, b, c, d, value uint64) bool {
			i := Index(Bounds{a, b, c, d}, value)
			return i >= 0 && i < Count
		},
		gen.UInt64(), gen.UInt64(), gen.UInt64(), gen.UInt64(), gen.UInt64(),
	))

	properties.TestingRun(t)
}

func ExampleIndex() {
	bounds := Bounds{10, 20, 30, 40}
	for _, v := range []uint64{5, 25, 40, 100} {
		fmt.Println(v, Index(bounds, v))
	}
	// Output:
	// 5 0
	// 25 1
	// 40 3
	// 100 3
}
