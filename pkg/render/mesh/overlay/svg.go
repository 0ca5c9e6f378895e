package overlay

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/meshview/pkg/render/mesh/styles"
)

// WriteLayers writes one group per layer. The output is the inner content
// of the document's information group.
func WriteLayers(buf *bytes.Buffer, layers []Layer) {
	for i := range layers {
		layers[i].write(buf)
	}
}

func (l *Layer) write(buf *bytes.Buffer) {
	fmt.Fprintf(buf, `<g id="information%d">`, l.CoreID)
	l.Core.write(buf)
	l.Router.write(buf)
	if len(l.Channels.Texts) > 0 {
		l.Channels.write(buf)
	}
	if l.Coordinates != nil {
		l.Coordinates.write(buf)
	}
	buf.WriteString("</g>")
}

func (g *Group) write(buf *bytes.Buffer) {
	if g.Filter != "" {
		fmt.Fprintf(buf, `<g filter="%s">`, g.Filter)
	} else {
		buf.WriteString("<g>")
	}
	for i := range g.Texts {
		g.Texts[i].write(buf)
	}
	buf.WriteString("</g>")
}

func (t *Text) write(buf *bytes.Buffer) {
	fmt.Fprintf(buf, `<text x="%d" y="%d" font-size="%s" font-family="%s" text-anchor="%s" dominant-baseline="%s" fill="%s">%s</text>`,
		t.X, t.Y, FontSize, FontFamily, t.Anchor, Baseline, styles.EscapeXML(t.Fill), styles.EscapeXML(t.Value))
}
