package mesh

import (
	"fmt"

	"github.com/matzehuels/meshview/pkg/render/mesh/geometry"
)

// ViewBox is the visible canvas region.
type ViewBox struct {
	X, Y, Width, Height int
}

// baseViewBox frames the grid alone. The grid is inset by the edge margin,
// so the base origin is not the canvas origin.
func baseViewBox(width, height int) ViewBox {
	return ViewBox{X: geometry.EdgeMargin, Y: geometry.EdgeMargin, Width: width, Height: height}
}

// Reset restores the base extent of a width x height grid.
func (v *ViewBox) Reset(width, height int) {
	*v = baseViewBox(width, height)
}

// InsertEdges widens the box by the edge margin on every side, bringing
// sinks and sources into view.
func (v *ViewBox) InsertEdges() {
	v.X = geometry.Add(v.X, -geometry.EdgeMargin)
	v.Y = geometry.Add(v.Y, -geometry.EdgeMargin)
	v.Width = geometry.Add(v.Width, 2*geometry.EdgeMargin)
	v.Height = geometry.Add(v.Height, 2*geometry.EdgeMargin)
}

// String returns the SVG viewBox attribute value.
func (v ViewBox) String() string {
	return fmt.Sprintf("%d %d %d %d", v.X, v.Y, v.Width, v.Height)
}
