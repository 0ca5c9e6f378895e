package grid

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/meshview/pkg/render/mesh/geometry"
	"github.com/matzehuels/meshview/pkg/render/mesh/styles"
)

// SVG ids of the static groups and of the shared arrow marker.
const (
	ProcessingGroupID  = "processingGroup"
	ConnectionsGroupID = "connectionsGroup"
	MarkerID           = "arrowHead"
)

// WriteProcessing writes one box pair per cell.
func (l *Layout) WriteProcessing(buf *bytes.Buffer) {
	fmt.Fprintf(buf, `  <g id="%s">`+"\n", ProcessingGroupID)
	for _, c := range l.Cells {
		fmt.Fprintf(buf, `    <g id="pe%d">`+"\n", c.CoreID)
		writeBox(buf, "core", c.CoreID, c.Core)
		writeBox(buf, "router", c.CoreID, c.Router)
		if c.AllocatedTask != nil {
			p := c.Core.Origin.Offset(geometry.SideLength-geometry.OffsetFromBorder, geometry.SideLength-geometry.OffsetFromBorder)
			fmt.Fprintf(buf, `      <text class="task" x="%d" y="%d" font-size="12px" font-family="Roboto Mono" text-anchor="end" dominant-baseline="text-after-edge">T%d</text>`+"\n",
				p.X, p.Y, *c.AllocatedTask)
		}
		buf.WriteString("    </g>\n")
	}
	buf.WriteString("  </g>\n")
}

func writeBox(buf *bytes.Buffer, variant string, id int, b Box) {
	fmt.Fprintf(buf, `      <rect id="%s%d" class="%s" x="%d" y="%d" width="%d" height="%d" stroke="black" stroke-width="%d"/>`+"\n",
		variant, id, styles.BaseFillClass, b.Origin.X, b.Origin.Y, geometry.SideLength, geometry.SideLength, geometry.StrokeWidth)
}

// WriteConnections writes the outgoing lane of every router port that leads
// to another router. Incoming lanes are the neighbours' outgoing ones.
func (l *Layout) WriteConnections(buf *bytes.Buffer) {
	fmt.Fprintf(buf, `  <g id="%s">`+"\n", ConnectionsGroupID)
	for _, c := range l.Cells {
		for _, link := range l.Links(c.CoreID) {
			if link.Output.Edge {
				continue
			}
			writeConnection(buf, link.Output)
		}
	}
	buf.WriteString("  </g>\n")
}

// WriteSinksSources writes the border links together with the sink and
// source boxes they lead to. The group is hidden unless the stylesheet
// shows it.
func (l *Layout) WriteSinksSources(buf *bytes.Buffer) {
	fmt.Fprintf(buf, `  <g id="%s">`+"\n", styles.SinksSourcesID)
	for _, c := range l.Cells {
		if c.Edges.Empty() {
			continue
		}
		for _, link := range l.Links(c.CoreID) {
			if !link.Output.Edge {
				continue
			}
			writeConnection(buf, link.Output)
			writeConnection(buf, link.Input)
		}
		if c.Border == nil {
			continue
		}
		for _, d := range c.Border.Sinks {
			if link, err := l.Connection(c.CoreID, d); err == nil && link.Output.Edge {
				writeDecoration(buf, "sink", link.Output.To)
			}
		}
		for _, d := range c.Border.Sources {
			if link, err := l.Connection(c.CoreID, d); err == nil && link.Input.Edge {
				writeDecoration(buf, "source", link.Input.From)
			}
		}
	}
	buf.WriteString("  </g>\n")
}

func writeConnection(buf *bytes.Buffer, c Connection) {
	fmt.Fprintf(buf, `    <path id="%s" d="%s" fill="none" stroke="black" stroke-width="%d" marker-end="url(#%s)"/>`+"\n",
		c.ID, c.Path(), geometry.StrokeWidth, MarkerID)
}

func writeDecoration(buf *bytes.Buffer, class string, centre geometry.Point) {
	o := centre.Offset(-DecorationSize/2, -DecorationSize/2)
	fmt.Fprintf(buf, `    <rect class="%s" x="%d" y="%d" width="%d" height="%d" stroke="black" stroke-width="%d"/>`+"\n",
		class, o.X, o.Y, DecorationSize, DecorationSize, geometry.StrokeWidth)
}
