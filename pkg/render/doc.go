// Package render converts rendered SVG into other output formats.
//
// # Overview
//
// The mesh renderer itself lives in the [mesh] subpackage; this package
// holds what every renderer shares:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - Node-link topology diagrams (in [nodelink] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg):
//
//	svg := doc.Render()
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// [mesh]: github.com/matzehuels/meshview/pkg/render/mesh
// [nodelink]: github.com/matzehuels/meshview/pkg/render/nodelink
package render
