package mesh

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/meshview/pkg/render/mesh/geometry"
	"github.com/matzehuels/meshview/pkg/render/mesh/grid"
	"github.com/matzehuels/meshview/pkg/render/mesh/overlay"
)

// SVG ids of the document-level elements.
const (
	MainGroupID        = "mainGroup"
	InformationGroupID = "information"
	ClipPathID         = "mainClip"
	ExportingAidID     = "exportingAid"
)

const defs = `  <defs>
    <marker id="` + grid.MarkerID + `" viewBox="0 0 10 10" refX="10" refY="5" markerWidth="6" markerHeight="6" orient="auto-start-reverse">
      <path d="M0 0 L10 5 L0 10 z"/>
    </marker>
    <filter id="` + overlay.TextBackgroundID + `" x="0" y="0" width="1" height="1">
      <feFlood flood-color="#ffffff" flood-opacity="0.75"/>
      <feComposite in="SourceGraphic" operator="over"/>
    </filter>
  </defs>
`

// Render returns the complete SVG document in its current state.
func (d *Document) Render() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:svg="http://www.w3.org/2000/svg" preserveAspectRatio="xMidYMid meet" class="mx-auto" viewBox="%s">`+"\n",
		d.viewBox)
	buf.WriteString(defs)
	fmt.Fprintf(&buf, "  <style>%s</style>\n", d.css)

	if d.clipPath != "" {
		fmt.Fprintf(&buf, `  <clipPath id="%s"><polygon points="%s"/></clipPath>`+"\n", ClipPathID, d.clipPath)
		fmt.Fprintf(&buf, `  <g id="%s" clip-path="url(#%s)">`+"\n", MainGroupID, ClipPathID)
	} else {
		fmt.Fprintf(&buf, `  <g id="%s">`+"\n", MainGroupID)
	}

	d.layout.WriteProcessing(&buf)
	d.layout.WriteConnections(&buf)
	fmt.Fprintf(&buf, `  <g id="%s">`, InformationGroupID)
	overlay.WriteLayers(&buf, d.layers)
	buf.WriteString("</g>\n")
	d.layout.WriteSinksSources(&buf)
	buf.WriteString("  </g>\n")

	// Full-canvas rect so exporters keep the margins around the grid.
	w := geometry.Add(d.layout.Width, 2*geometry.EdgeMargin)
	h := geometry.Add(d.layout.Height, 2*geometry.EdgeMargin)
	fmt.Fprintf(&buf, `  <rect id="%s" x="0" y="0" width="%d" height="%d" fill="none" stroke="none"/>`+"\n", ExportingAidID, w, h)

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}
