// Package nodelink renders a many-core topology as a node-link diagram.
//
// # Overview
//
// Where the mesh renderer draws the chip as the hardware engineer sees it,
// this package draws the interconnect as a graph: one node per core, one
// edge per channel, labelled with the channel's load. It is useful to read
// a routing result at a glance.
//
// # Usage
//
// Route first so that channels carry loads, then convert and render:
//
//	if _, err := sys.Route("RowFirst"); err != nil {
//	    return err
//	}
//	dot := nodelink.ToDOT(sys, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Layout
//
// The generated DOT uses the neato engine with pinned positions, so cores
// keep their grid arrangement. Overloaded channels (load above bandwidth)
// are drawn in red.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
