package geometry

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestPositionOf(t *testing.T) {
	tests := []struct {
		index, columns int
		want           GridPosition
	}{
		{0, 3, GridPosition{0, 0}},
		{2, 3, GridPosition{0, 2}},
		{3, 3, GridPosition{1, 0}},
		{8, 3, GridPosition{2, 2}},
		{5, 1, GridPosition{5, 0}},
		{4, 0, GridPosition{}},
		{-1, 3, GridPosition{}},
	}

	for _, tt := range tests {
		if got := PositionOf(tt.index, tt.columns); got != tt.want {
			t.Errorf("PositionOf(%d, %d) = %v, want %v", tt.index, tt.columns, got, tt.want)
		}
	}
}

func TestOrigins(t *testing.T) {
	p := GridPosition{Row: 1, Column: 2}
	cell := CellOrigin(p)
	pitch := BlockLength + BlockDistance

	if want := (Point{EdgeMargin + StrokeWidth + 2*pitch, EdgeMargin + StrokeWidth + pitch}); cell != want {
		t.Errorf("CellOrigin = %v, want %v", cell, want)
	}

	core := Origin(p, KindCore)
	router := Origin(p, KindRouter)
	if core.X != cell.X || core.Y != cell.Y+RouterOffset {
		t.Errorf("core origin = %v, want bottom-left of cell %v", core, cell)
	}
	if router.X != core.X+RouterOffset || router.Y != core.Y-RouterOffset {
		t.Errorf("router origin = %v, want diagonal neighbour of core %v", router, core)
	}
}

func TestRouterDoesNotOverlapCore(t *testing.T) {
	p := GridPosition{Row: 3, Column: 4}
	core := Origin(p, KindCore)
	router := Origin(p, KindRouter)

	overlapX := router.X < core.X+SideLength && core.X < router.X+SideLength
	overlapY := router.Y < core.Y+SideLength && core.Y < router.Y+SideLength
	if overlapX && overlapY {
		t.Errorf("router box %v overlaps core box %v", router, core)
	}
}

func TestTextOrigin(t *testing.T) {
	p := GridPosition{}
	core := Origin(p, KindCore)
	router := Origin(p, KindRouter)

	if got, want := TextOrigin(p, KindCore), core.Offset(1, 1); got != want {
		t.Errorf("core TextOrigin = %v, want %v", got, want)
	}
	if got, want := TextOrigin(p, KindRouter), router.Offset(99, 1); got != want {
		t.Errorf("router TextOrigin = %v, want %v", got, want)
	}
	if KindCore.TextAnchor() != "start" || KindRouter.TextAnchor() != "end" {
		t.Errorf("anchors = %q/%q, want start/end", KindCore.TextAnchor(), KindRouter.TextAnchor())
	}
}

func TestCoordinatesAnchor(t *testing.T) {
	p := GridPosition{Row: 1, Column: 1}
	core := Origin(p, KindCore)
	got := CoordinatesAnchor(p)
	if got.X != core.X+HalfSideLength || got.Y != core.Y+SideLength {
		t.Errorf("CoordinatesAnchor = %v, want centre-bottom of %v", got, core)
	}
}

func TestGridSize(t *testing.T) {
	w, h := GridSize(2, 3)
	if want := 3*BlockLength + 2*BlockDistance + 2*StrokeWidth; w != want {
		t.Errorf("width = %d, want %d", w, want)
	}
	if want := 2*BlockLength + BlockDistance + 2*StrokeWidth; h != want {
		t.Errorf("height = %d, want %d", h, want)
	}
	if w, h := GridSize(0, 0); w != 0 || h != 0 {
		t.Errorf("GridSize(0, 0) = %d, %d, want 0, 0", w, h)
	}
}

func TestSaturation(t *testing.T) {
	tests := []struct {
		name string
		got  int
		want int
	}{
		{"add overflow", Add(MaxCoordinate, 10), MaxCoordinate},
		{"add underflow", Add(5, -10), 0},
		{"add negative input", Add(-5, 3), 3},
		{"mul overflow", Mul(MaxCoordinate, 2), MaxCoordinate},
		{"mul negative", Mul(-3, 7), 0},
		{"far cell", CellOrigin(GridPosition{Row: MaxCoordinate, Column: MaxCoordinate}).X, MaxCoordinate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %d, want %d", tt.got, tt.want)
			}
		})
	}
}

func TestGeometryProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("index and position are inverse", prop.ForAll(
		func(index, columns int) bool {
			return PositionOf(index, columns).Index(columns) == index
		},
		gen.IntRange(0, 255*255),
		gen.IntRange(1, 255),
	))

	properties.Property("coordinates are never negative", prop.ForAll(
		func(row, column int) bool {
			p := GridPosition{Row: row, Column: column}
			for _, k := range []Kind{KindCore, KindRouter} {
				o := Origin(p, k)
				if o.X < 0 || o.Y < 0 || o.X > MaxCoordinate || o.Y > MaxCoordinate {
					return false
				}
			}
			return true
		},
		gen.IntRange(-1000, 1<<40),
		gen.IntRange(-1000, 1<<40),
	))

	properties.Property("neighbouring cells never overlap", prop.ForAll(
		func(row, column int) bool {
			here := CellOrigin(GridPosition{Row: row, Column: column})
			right := CellOrigin(GridPosition{Row: row, Column: column + 1})
			below := CellOrigin(GridPosition{Row: row + 1, Column: column})
			return right.X-here.X == BlockLength+BlockDistance && below.Y-here.Y == BlockLength+BlockDistance
		},
		gen.IntRange(0, 254),
		gen.IntRange(0, 254),
	))

	properties.TestingRun(t)
}
