// Package grid composes the static part of a mesh document: one core and
// router box per grid cell, the connection topology between routers, and
// the edge membership of border cells.
//
// A [Layout] is built once per architecture description by [Compose] and is
// read-only afterwards.
package grid

import (
	"fmt"

	"github.com/matzehuels/meshview/pkg/errors"
	"github.com/matzehuels/meshview/pkg/manycore"
	"github.com/matzehuels/meshview/pkg/render/mesh/geometry"
)

// Link geometry, in SVG user units.
const (
	// EdgeLinkLength is the length of a link between a border router and
	// its sink or source.
	EdgeLinkLength = geometry.BlockDistance
	// DecorationSize is the side of a sink or source box.
	DecorationSize = 24

	laneNear = geometry.SideLength / 3
	laneFar  = 2 * geometry.SideLength / 3

	// labelGap separates a link label from its lane.
	labelGap = 4
)

// Box is a core or router box.
type Box struct {
	Kind   geometry.Kind
	Origin geometry.Point
}

// Cell is one grid cell: a core and its router.
type Cell struct {
	Index         int
	CoreID        int
	Position      geometry.GridPosition
	Core          Box
	Router        Box
	AllocatedTask *uint16
	// Edges is the set of off-grid directions of a border cell.
	Edges manycore.LinkSet
	// Border holds the sinks and sources attached to the cell, if any.
	Border *manycore.BorderEntry
}

// ConnectionType tells whether a connection carries traffic out of or into
// a router.
type ConnectionType uint8

const (
	Output ConnectionType = iota
	Input
)

func (t ConnectionType) String() string {
	if t == Input {
		return "input"
	}
	return "output"
}

// Connection is a drawn link lane.
type Connection struct {
	// ID is the SVG id of the path.
	ID        string
	Type      ConnectionType
	Direction manycore.Direction
	From, To  geometry.Point
	// Label is where the load text of the connection is anchored.
	Label       geometry.Point
	LabelAnchor string
	// Edge is set for links between a border router and a sink or source.
	Edge bool
}

// Path returns the SVG path data of the connection.
func (c Connection) Path() string {
	return fmt.Sprintf("M%d %d L%d %d", c.From.X, c.From.Y, c.To.X, c.To.Y)
}

// Link holds both lanes of one router port.
type Link struct {
	Output Connection
	Input  Connection
}

// Layout is the composed static grid.
type Layout struct {
	Rows, Columns int
	Width, Height int
	Cells         []Cell

	links map[int]map[manycore.Direction]Link
}

// Compose lays out sys. The core count must equal rows x columns.
func Compose(sys *manycore.System) (*Layout, error) {
	if sys == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "architecture description cannot be nil")
	}
	if sys.Rows <= 0 || sys.Columns <= 0 {
		return nil, errors.ConfigurationError("grid must have at least one row and one column, got %dx%d", sys.Rows, sys.Columns)
	}
	if n := len(sys.Cores); n != sys.Rows*sys.Columns {
		return nil, errors.ConfigurationError("%d cores do not fill a %dx%d grid", n, sys.Rows, sys.Columns)
	}

	w, h := geometry.GridSize(sys.Rows, sys.Columns)
	l := &Layout{
		Rows:    sys.Rows,
		Columns: sys.Columns,
		Width:   w,
		Height:  h,
		Cells:   make([]Cell, len(sys.Cores)),
		links:   make(map[int]map[manycore.Direction]Link, len(sys.Cores)),
	}
	borders := sys.BorderMap()

	for i := range sys.Cores {
		core := &sys.Cores[i]
		if core.ID != i {
			return nil, errors.ConfigurationError("core at position %d has id %d; ids must be contiguous", i, core.ID)
		}
		pos := geometry.PositionOf(i, sys.Columns)
		cell := Cell{
			Index:         i,
			CoreID:        core.ID,
			Position:      pos,
			Core:          Box{Kind: geometry.KindCore, Origin: geometry.Origin(pos, geometry.KindCore)},
			Router:        Box{Kind: geometry.KindRouter, Origin: geometry.Origin(pos, geometry.KindRouter)},
			AllocatedTask: core.AllocatedTask,
			Edges:         sys.EdgeDirections(i),
		}
		if b, ok := borders[i]; ok {
			cell.Border = &b
		}
		l.Cells[i] = cell

		ports := make(map[manycore.Direction]Link, len(core.Channels))
		for _, ch := range core.Channels {
			ports[ch.Direction] = l.link(cell, ch.Direction)
		}
		l.links[core.ID] = ports
	}
	return l, nil
}

// Connection returns the link of core coreID in direction d.
func (l *Layout) Connection(coreID int, d manycore.Direction) (Link, error) {
	ports, ok := l.links[coreID]
	if !ok {
		return Link{}, errors.MissingConnections(coreID)
	}
	link, ok := ports[d]
	if !ok {
		return Link{}, errors.ConnectionError(coreID, d)
	}
	return link, nil
}

// Links returns the links of core coreID in rendering order.
func (l *Layout) Links(coreID int) []Link {
	ports := l.links[coreID]
	out := make([]Link, 0, len(ports))
	for _, d := range manycore.AllDirections {
		if link, ok := ports[d]; ok {
			out = append(out, link)
		}
	}
	return out
}

// link builds both lanes of the port of cell in direction d. Ports facing
// off the grid lead to the cell's sink (output) and source (input).
func (l *Layout) link(cell Cell, d manycore.Direction) Link {
	edge := cell.Edges.Has(d)
	length := geometry.BlockDistance + geometry.BlockLength - geometry.SideLength
	if edge {
		length = EdgeLinkLength
	}

	out := lane(cell.Router.Origin, d, length)
	out.ID = fmt.Sprintf("%s%d%s", manycore.VariantChannel, cell.CoreID, d)
	out.Type = Output
	out.Edge = edge

	var in Connection
	if edge {
		in = lane(cell.Router.Origin, d.Opposite(), length)
		// Source lanes sit on the off-grid side of the router and point inwards.
		in = translate(in, d, geometry.SideLength+length)
		in.ID = fmt.Sprintf("source%d%s", cell.CoreID, d)
	} else {
		neighbour := neighbourOrigin(cell.Router.Origin, d)
		in = lane(neighbour, d.Opposite(), length)
		in.ID = fmt.Sprintf("%s%d%s", manycore.VariantChannel, neighbourID(cell.Index, l.Columns, d), d.Opposite())
	}
	in.Type = Input
	in.Edge = edge
	return Link{Output: out, Input: in}
}

// lane returns the outgoing lane of a router at origin in direction d.
// Each side of a router carries two lanes: outgoing traffic uses the near
// lane for North and East and the far lane for South and West, so opposite
// lanes between neighbours never coincide.
func lane(origin geometry.Point, d manycore.Direction, length int) Connection {
	c := Connection{Direction: d}
	switch d {
	case manycore.North:
		c.From = origin.Offset(laneNear, 0)
		c.To = c.From.Offset(0, -length)
		c.Label = c.From.Offset(-labelGap, -length/2)
		c.LabelAnchor = "end"
	case manycore.East:
		c.From = origin.Offset(geometry.SideLength, laneNear)
		c.To = c.From.Offset(length, 0)
		c.Label = c.From.Offset(length/2, -labelGap-geometry.LineHeight)
		c.LabelAnchor = "middle"
	case manycore.South:
		c.From = origin.Offset(laneFar, geometry.SideLength)
		c.To = c.From.Offset(0, length)
		c.Label = c.From.Offset(labelGap, length/2)
		c.LabelAnchor = "start"
	case manycore.West:
		c.From = origin.Offset(0, laneFar)
		c.To = c.From.Offset(-length, 0)
		c.Label = c.From.Offset(-length/2, labelGap)
		c.LabelAnchor = "middle"
	}
	return c
}

// translate moves every point of c by distance in direction d.
func translate(c Connection, d manycore.Direction, distance int) Connection {
	dx, dy := step(d, distance)
	c.From = c.From.Offset(dx, dy)
	c.To = c.To.Offset(dx, dy)
	c.Label = c.Label.Offset(dx, dy)
	return c
}

func neighbourOrigin(origin geometry.Point, d manycore.Direction) geometry.Point {
	dx, dy := step(d, geometry.BlockLength+geometry.BlockDistance)
	return origin.Offset(dx, dy)
}

func neighbourID(index, columns int, d manycore.Direction) int {
	switch d {
	case manycore.North:
		return index - columns
	case manycore.East:
		return index + 1
	case manycore.South:
		return index + columns
	default:
		return index - 1
	}
}

func step(d manycore.Direction, distance int) (dx, dy int) {
	switch d {
	case manycore.North:
		return 0, -distance
	case manycore.East:
		return distance, 0
	case manycore.South:
		return 0, distance
	default:
		return -distance, 0
	}
}
