package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/meshview/pkg/manycore"
	"github.com/matzehuels/meshview/pkg/render"
	"github.com/matzehuels/meshview/pkg/render/mesh/geometry"
)

// Options configures topology diagram rendering.
type Options struct {
	// Detailed includes the allocated task and every core attribute in node
	// labels. When false, only the core id and coordinates are shown.
	Detailed bool

	// Borders draws the sinks and sources declared by the description.
	Borders bool
}

// inches between neighbouring cores in the pinned layout.
const pitch = 2.0

// ToDOT converts a system to Graphviz DOT source. Cores are pinned to their
// grid positions (neato, pos="x,y!") and every channel that leads to a
// neighbour becomes an edge labelled with its current load.
func ToDOT(sys *manycore.System, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph Mesh {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=\"#e5e5e5\", fontname=\"Roboto Mono\", fontsize=12];\n")
	buf.WriteString("  edge [fontname=\"Roboto Mono\", fontsize=10, arrowsize=0.6];\n")
	buf.WriteString("\n")

	for i := range sys.Cores {
		c := &sys.Cores[i]
		p := geometry.PositionOf(i, sys.Columns)
		fmt.Fprintf(&buf, "  %q [label=%q, pos=%q];\n", nodeID(c.ID), fmtLabel(c, p, opts.Detailed), pos(p.Row, p.Column, sys.Rows))
	}

	if opts.Borders {
		buf.WriteString("\n")
		writeBorders(&buf, sys)
	}

	buf.WriteString("\n")
	for i := range sys.Cores {
		c := &sys.Cores[i]
		for _, ch := range c.Channels {
			to, ok := neighbour(i, ch.Direction, sys.Rows, sys.Columns)
			if !ok {
				continue
			}
			fmt.Fprintf(&buf, "  %q -> %q [%s];\n", nodeID(c.ID), nodeID(sys.Cores[to].ID), strings.Join(edgeAttrs(ch), ", "))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(coreID int) string { return "core" + strconv.Itoa(coreID) }

// pos pins a node; Graphviz's y axis points up, so rows are flipped.
func pos(row, column, rows int) string {
	return fmt.Sprintf("%.1f,%.1f!", float64(column)*pitch, float64(rows-1-row)*pitch)
}

func fmtLabel(c *manycore.Core, p geometry.GridPosition, detailed bool) string {
	label := fmt.Sprintf("core %d\n(%d,%d)", c.ID, p.Row+1, p.Column+1)
	if !detailed {
		return label
	}

	var parts []string
	if c.AllocatedTask != nil {
		parts = append(parts, fmt.Sprintf("task: T%d", *c.AllocatedTask))
	}
	for _, k := range slices.Sorted(maps.Keys(c.Attributes)) {
		parts = append(parts, fmt.Sprintf("%s: %s", k, c.Attributes[k]))
	}
	if len(parts) == 0 {
		return label
	}
	return label + "\n" + strings.Join(parts, "\n")
}

func edgeAttrs(ch manycore.Channel) []string {
	var attrs []string
	if ch.Load > 0 {
		attrs = append(attrs, fmt.Sprintf("label=%q", strconv.FormatUint(uint64(ch.Load), 10)))
		if ch.Bandwidth > 0 && ch.Load > ch.Bandwidth {
			attrs = append(attrs, `color="#dc2626"`, `fontcolor="#dc2626"`)
		}
	} else {
		attrs = append(attrs, `color="#a3a3a3"`)
	}
	return attrs
}

func writeBorders(buf *bytes.Buffer, sys *manycore.System) {
	for _, b := range sys.Borders {
		if b.Core < 0 || b.Core >= len(sys.Cores) {
			continue
		}
		p := geometry.PositionOf(b.Core, sys.Columns)
		core := nodeID(sys.Cores[b.Core].ID)
		for _, d := range b.Sinks {
			id := fmt.Sprintf("sink%d%s", b.Core, d)
			fmt.Fprintf(buf, "  %q [label=\"sink\", shape=invhouse, fillcolor=\"#bfdbfe\", pos=%q];\n", id, outside(p, d, sys.Rows, -0.25))
			fmt.Fprintf(buf, "  %q -> %q [style=dashed];\n", core, id)
		}
		for _, d := range b.Sources {
			id := fmt.Sprintf("source%d%s", b.Core, d)
			fmt.Fprintf(buf, "  %q [label=\"source\", shape=house, fillcolor=\"#fde68a\", pos=%q];\n", id, outside(p, d, sys.Rows, 0.25))
			style := "style=dashed"
			if ch, ok := sys.Cores[b.Core].Channel(d); ok && ch.SourceLoad > 0 {
				style += fmt.Sprintf(", label=%q", strconv.FormatUint(uint64(ch.SourceLoad), 10))
			}
			fmt.Fprintf(buf, "  %q -> %q [%s];\n", id, core, style)
		}
	}
}

// outside places a border node half a pitch beyond p in direction d,
// shifted sideways by skew so a sink and source on the same side do not
// overlap.
func outside(p geometry.GridPosition, d manycore.Direction, rows int, skew float64) string {
	x, y := float64(p.Column)*pitch, float64(rows-1-p.Row)*pitch
	switch d {
	case manycore.North:
		y, x = y+pitch/2, x+skew*pitch
	case manycore.South:
		y, x = y-pitch/2, x+skew*pitch
	case manycore.East:
		x, y = x+pitch/2, y+skew*pitch
	case manycore.West:
		x, y = x-pitch/2, y+skew*pitch
	}
	return fmt.Sprintf("%.2f,%.2f!", x, y)
}

// neighbour returns the index of the cell adjacent to index in direction d.
func neighbour(index int, d manycore.Direction, rows, columns int) (int, bool) {
	p := geometry.PositionOf(index, columns)
	switch d {
	case manycore.North:
		p.Row--
	case manycore.South:
		p.Row++
	case manycore.East:
		p.Column++
	case manycore.West:
		p.Column--
	}
	if p.Row < 0 || p.Row >= rows || p.Column < 0 || p.Column >= columns {
		return 0, false
	}
	return p.Index(columns), true
}

// RenderSVG renders DOT source to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's svg tag, which carries point-based
// width and height, with a unitless one sized like the viewBox.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPDF renders DOT source as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders DOT source as PNG via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
