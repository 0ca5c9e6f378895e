// Package mesh renders many-core architecture descriptions as SVG.
//
// # Overview
//
// A [Document] is built once per [manycore.System]. Building composes the
// static grid (core and router boxes, links, sinks and sources); it never
// changes afterwards. What the user configures, which attributes are shown
// and how they are colour-coded, is applied with [Document.Update]:
//
//	doc, err := mesh.New(sys, mesh.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	svg := doc.Render() // full document, once
//
//	res, err := doc.Update(cfg) // after every configuration change
//	// res.Style, res.InformationGroup and res.ViewBox replace the
//	// corresponding parts of the rendered document.
//
// # Reconfiguration
//
// Update runs in fixed phases: an optional routing pass (the channel key
// "@routingAlgorithm"), a reset of overlay, stylesheet and viewBox, the
// border toggle (the channel key "@borderRouters"), and, unless the
// configuration is empty, one overlay layer per core in id order. A routing
// failure aborts before the reset, leaving the previous state in place.
//
// # Subpackages
//
//   - geometry: pixel coordinates of boxes and text anchors
//   - bucket: four-bucket colour classification
//   - attributes: the configuration model
//   - styles: the stylesheet accumulator
//   - overlay: per-cell information layers
//   - grid: static composition and link topology
package mesh
