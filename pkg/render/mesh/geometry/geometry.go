// Package geometry maps grid positions to pixel coordinates.
//
// Every processing element occupies a square cell of [BlockLength] pixels.
// Its core box sits in the bottom-left corner of the cell and its router box
// in the top-right corner, touching the core diagonally:
//
//	        +--------+
//	        | router |
//	+-------+--------+
//	| core  |
//	+-------+
//
// Cells are separated by [BlockDistance] pixels, which hold the link arrows.
// The whole grid is inset by [EdgeMargin] so that sinks and sources drawn
// around the border keep non-negative coordinates.
//
// All arithmetic saturates: results are clamped to [0, MaxCoordinate]
// instead of wrapping.
package geometry

import "math"

// Geometry constants, in SVG user units.
const (
	SideLength       = 100
	HalfSideLength   = SideLength / 2
	RouterOffset     = SideLength
	BlockLength      = SideLength + RouterOffset
	BlockDistance    = 80
	StrokeWidth      = 1
	EdgeMargin       = 120
	OffsetFromBorder = 1
	FontSize         = 16
	LineHeight       = FontSize + 2
)

// MaxCoordinate is the largest coordinate the engine produces.
const MaxCoordinate = math.MaxInt32

// Kind selects the box of a cell.
type Kind uint8

const (
	KindCore Kind = iota
	KindRouter
)

// TextAnchor returns the SVG text-anchor used for text inside a box of this
// kind. Core text grows rightwards from the left padding point, router text
// grows leftwards from the right padding point.
func (k Kind) TextAnchor() string {
	if k == KindRouter {
		return "end"
	}
	return "start"
}

// GridPosition is the (row, column) of a cell.
type GridPosition struct {
	Row, Column int
}

// PositionOf returns the grid position of the cell with the given linear
// index in a grid of the given column count. Indices run row-major.
func PositionOf(index, columns int) GridPosition {
	if columns <= 0 || index < 0 {
		return GridPosition{}
	}
	return GridPosition{Row: index / columns, Column: index % columns}
}

// Index returns the linear index of p in a grid of the given column count.
func (p GridPosition) Index(columns int) int {
	return Add(Mul(p.Row, columns), p.Column)
}

// Point is a pixel coordinate.
type Point struct {
	X, Y int
}

// Offset returns p moved by (dx, dy) with saturating arithmetic.
func (p Point) Offset(dx, dy int) Point {
	return Point{X: Add(p.X, dx), Y: Add(p.Y, dy)}
}

// CellOrigin returns the top-left corner of the cell at p.
func CellOrigin(p GridPosition) Point {
	pitch := BlockLength + BlockDistance
	return Point{
		X: Add(EdgeMargin+StrokeWidth, Mul(p.Column, pitch)),
		Y: Add(EdgeMargin+StrokeWidth, Mul(p.Row, pitch)),
	}
}

// Origin returns the top-left corner of the box of the given kind at p.
func Origin(p GridPosition, k Kind) Point {
	core := CellOrigin(p).Offset(0, RouterOffset)
	if k == KindRouter {
		return core.Offset(RouterOffset, -RouterOffset)
	}
	return core
}

// TextOrigin returns the anchor point of the first text line of a box:
// the box's near-left (core) or near-right (router) corner, padded inwards.
func TextOrigin(p GridPosition, k Kind) Point {
	o := Origin(p, k)
	if k == KindRouter {
		return o.Offset(SideLength-OffsetFromBorder, OffsetFromBorder)
	}
	return o.Offset(OffsetFromBorder, OffsetFromBorder)
}

// CoordinatesAnchor returns where the "(row,col)" label of a cell is drawn:
// centred just below the core box.
func CoordinatesAnchor(p GridPosition) Point {
	return Origin(p, KindCore).Offset(HalfSideLength, SideLength)
}

// GridSize returns the width and height of the grid area, strokes included.
func GridSize(rows, columns int) (width, height int) {
	return span(columns), span(rows)
}

func span(n int) int {
	if n <= 0 {
		return 0
	}
	return Add(Add(Mul(n, BlockLength), Mul(n-1, BlockDistance)), 2*StrokeWidth)
}

// Add returns a+b clamped to [0, MaxCoordinate].
func Add(a, b int) int {
	return clamp(int64(clamp(int64(a))) + int64(clampSigned(b)))
}

// Mul returns a*b clamped to [0, MaxCoordinate].
func Mul(a, b int) int {
	return clamp(int64(clamp(int64(a))) * int64(clamp(int64(b))))
}

func clamp(v int64) int {
	switch {
	case v < 0:
		return 0
	case v > MaxCoordinate:
		return MaxCoordinate
	}
	return int(v)
}

// clampSigned bounds an offset to the coordinate range in both directions.
func clampSigned(v int) int {
	switch {
	case v < -MaxCoordinate:
		return -MaxCoordinate
	case v > MaxCoordinate:
		return MaxCoordinate
	}
	return v
}
