// Package styles holds the CSS of a mesh document.
//
// A [Stylesheet] is reset to one of two bases at the start of every
// reconfiguration pass and then only appended to while the overlay is
// generated. Element rules select SVG ids, e.g. "#core3 {fill: red;}".
package styles

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

const (
	// DefaultFill is the fill of core and router boxes with no fill rule.
	DefaultFill = "#e5e5e5"
	// BaseFillClass is the class carried by every box that takes a fill rule.
	BaseFillClass = "baseFill"
	// SinksSourcesID is the id of the border decoration group.
	SinksSourcesID = "sinksSources"

	SinkFill   = "#bfdbfe"
	SourceFill = "#fde68a"
)

const (
	baseFill = "." + BaseFillClass + "{fill: " + DefaultFill + ";}"

	// Minimal is the base stylesheet with border decorations hidden.
	Minimal = baseFill + "\n#" + SinksSourcesID + "{display: none;}"

	// Extended is the base stylesheet with border decorations shown.
	Extended = baseFill + "\n.sink{fill: " + SinkFill + ";}" + "\n.source{fill: " + SourceFill + ";}"
)

// Stylesheet accumulates the CSS of one reconfiguration pass.
type Stylesheet struct {
	b        strings.Builder
	extended bool
}

// New returns a stylesheet holding the minimal base.
func New() *Stylesheet {
	s := &Stylesheet{}
	s.Reset(false)
	return s
}

// Reset discards every appended rule and restores a base: the extended one
// when borders are shown, the minimal one otherwise.
func (s *Stylesheet) Reset(extended bool) {
	s.b.Reset()
	s.extended = extended
	if extended {
		s.b.WriteString(Extended)
	} else {
		s.b.WriteString(Minimal)
	}
}

// Extended reports whether the extended base is active.
func (s *Stylesheet) Extended() bool { return s.extended }

// AppendFill binds the element with the given variant and id to colour.
func (s *Stylesheet) AppendFill(variant string, id int, colour string) {
	fmt.Fprintf(&s.b, "\n#%s%d {fill: %s;}", variant, id, colour)
}

// AppendStroke colours the outline of the element with the given SVG id.
func (s *Stylesheet) AppendStroke(elementID string, colour string) {
	fmt.Fprintf(&s.b, "\n#%s {stroke: %s;}", elementID, colour)
}

// String returns the accumulated CSS.
func (s *Stylesheet) String() string { return s.b.String() }

// EscapeXML escapes s for use as SVG text or attribute content.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
