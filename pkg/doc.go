// Package pkg provides the libraries behind meshview, a renderer for
// many-core processor grids.
//
// # Overview
//
// meshview draws a grid of cores, routers and links from an architecture
// description and overlays a configurable set of per-element attributes.
// The pkg directory is organized into four areas:
//
//  1. Domain: [manycore] (descriptions, routing tables) and [render/mesh]
//     (layout, overlay and incremental reconfiguration)
//  2. Outputs: [render] (PNG/PDF conversion) and [render/nodelink]
//     (Graphviz topology diagrams)
//  3. Infrastructure: [cache], [session], [settings], [metrics],
//     [observability], [httputil]
//  4. Orchestration: [pipeline] (load → compose → update → render) and
//     [server] (HTTP sessions for the interactive visualizer)
//
// # Data flow
//
//	description (json/yaml/toml)
//	         ↓
//	    [io] decode + validate
//	         ↓
//	    [render/mesh] compose the static grid once
//	         ↓
//	    configuration → Update → {style, informationGroup, viewBox}
//	         ↓
//	    SVG / PNG / PDF / JSON / DOT
//
// [manycore]: github.com/matzehuels/meshview/pkg/manycore
// [render/mesh]: github.com/matzehuels/meshview/pkg/render/mesh
// [render]: github.com/matzehuels/meshview/pkg/render
// [render/nodelink]: github.com/matzehuels/meshview/pkg/render/nodelink
// [cache]: github.com/matzehuels/meshview/pkg/cache
// [session]: github.com/matzehuels/meshview/pkg/session
// [settings]: github.com/matzehuels/meshview/pkg/settings
// [metrics]: github.com/matzehuels/meshview/pkg/metrics
// [observability]: github.com/matzehuels/meshview/pkg/observability
// [httputil]: github.com/matzehuels/meshview/pkg/httputil
// [pipeline]: github.com/matzehuels/meshview/pkg/pipeline
// [server]: github.com/matzehuels/meshview/pkg/server
// [io]: github.com/matzehuels/meshview/pkg/io
package pkg
