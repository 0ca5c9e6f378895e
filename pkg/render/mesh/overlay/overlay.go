// Package overlay generates the information layer of a mesh document: the
// configured attribute text of every core, router and loaded link, plus the
// CSS fill rules of colour-coded elements.
package overlay

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/meshview/pkg/errors"
	"github.com/matzehuels/meshview/pkg/manycore"
	"github.com/matzehuels/meshview/pkg/render/mesh/attributes"
	"github.com/matzehuels/meshview/pkg/render/mesh/geometry"
	"github.com/matzehuels/meshview/pkg/render/mesh/grid"
	"github.com/matzehuels/meshview/pkg/render/mesh/styles"
)

// Text attributes shared by every overlay line.
const (
	FontSize     = "16px"
	FontFamily   = "Roboto Mono"
	Baseline     = "text-before-edge"
	DefaultColor = "black"

	// TextBackgroundID is the id of the filter drawn behind text on filled boxes.
	TextBackgroundID = "textBackground"
	textFilter       = "url(#" + TextBackgroundID + ")"
)

// Text is one positioned line.
type Text struct {
	X, Y   int
	Anchor string
	Fill   string
	Value  string
}

// Group is the text of one element.
type Group struct {
	// Filter references the text background filter, or is empty.
	Filter string
	Texts  []Text
}

// Layer is the overlay of one grid cell.
type Layer struct {
	CoreID      int
	Core        Group
	Router      Group
	Channels    Group
	Coordinates *Text
}

// Generator builds overlay groups, appending fill rules to a shared
// stylesheet.
type Generator struct {
	css    *styles.Stylesheet
	logger *log.Logger
}

// NewGenerator returns a generator writing rules to css. A nil logger
// discards diagnostics.
func NewGenerator(css *styles.Stylesheet, logger *log.Logger) *Generator {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Generator{css: css, logger: logger}
}

// Generate builds the group of el, whose box text starts at origin.
//
// An "@id" key configured as Text is always the first line. Other keys are
// processed in ascending order; keys the element has no value for are
// skipped. Fill and ColouredText values that are not unsigned integers
// degrade instead of failing: Fill emits no rule, ColouredText keeps the
// default colour.
func (g *Generator) Generate(origin geometry.Point, set attributes.Set, el manycore.Element, anchor string) Group {
	var group Group
	cursor := origin

	line := func(value, fill string) {
		group.Texts = append(group.Texts, Text{X: cursor.X, Y: cursor.Y, Anchor: anchor, Fill: fill, Value: value})
		cursor = cursor.Offset(0, geometry.LineHeight)
	}

	if t, ok := set[manycore.IDKey].(attributes.Text); ok {
		line(fmt.Sprintf("%s: %d", t.Label, el.ElementID()), DefaultColor)
	}

	for _, key := range set.Keys() {
		if key == manycore.IDKey || key == manycore.CoordinatesKey || attributes.IsDirective(key) {
			continue
		}
		value, ok := el.Attribute(key)
		if !ok {
			continue
		}

		switch f := set[key].(type) {
		case attributes.Text:
			line(fmt.Sprintf("%s: %s", f.Label, value), DefaultColor)
		case attributes.Fill:
			n, err := strconv.ParseUint(value, 10, 64)
			if err != nil {
				g.logger.Debug("skipping fill of non-numeric attribute",
					"element", fmt.Sprintf("%s%d", el.Variant(), el.ElementID()), "key", key, "value", value)
				continue
			}
			g.css.AppendFill(el.Variant(), el.ElementID(), f.Colours.Pick(f.Bounds, n))
			group.Filter = textFilter
		case attributes.ColouredText:
			fill := DefaultColor
			if n, err := strconv.ParseUint(value, 10, 64); err == nil {
				fill = f.Colours.Pick(f.Bounds, n)
			} else {
				g.logger.Debug("colouring non-numeric attribute with default colour",
					"element", fmt.Sprintf("%s%d", el.Variant(), el.ElementID()), "key", key, "value", value)
			}
			line(fmt.Sprintf("%s: %s", f.Label, value), fill)
		}
	}
	return group
}

// Layer builds the overlay of cell. routed is the outcome of the routing
// pass, or nil when no routing was requested; the cell's loaded links and
// border sources are only annotated after routing.
//
// Every loaded link must exist in the layout (CONNECTION_ERROR otherwise)
// and in the core's channels (MANYCORE_MISMATCH otherwise). Every source of
// a routed border cell needs a load record on its port (MANYCORE_MISMATCH
// otherwise).
func (g *Generator) Layer(cell grid.Cell, cfg *attributes.Configuration, core *manycore.Core, routed manycore.RoutingResult, layout *grid.Layout) (Layer, error) {
	layer := Layer{CoreID: core.ID}
	if cfg == nil {
		return layer, nil
	}

	if _, ok := cfg.Core[manycore.CoordinatesKey]; ok {
		p := geometry.CoordinatesAnchor(cell.Position)
		layer.Coordinates = &Text{
			X:      p.X,
			Y:      p.Y,
			Anchor: "middle",
			Fill:   DefaultColor,
			Value:  fmt.Sprintf("(%d,%d)", cell.Position.Row+1, cell.Position.Column+1),
		}
	}

	layer.Core = g.Generate(geometry.TextOrigin(cell.Position, geometry.KindCore), cfg.Core, core, geometry.KindCore.TextAnchor())
	layer.Router = g.Generate(geometry.TextOrigin(cell.Position, geometry.KindRouter), cfg.Router, core.RouterElement(), geometry.KindRouter.TextAnchor())

	f := cfg.Channel[manycore.LoadKey]
	if f == nil || routed == nil {
		return layer, nil
	}
	channels, err := g.channels(f, core, routed.LoadsFor(core.ID), layout)
	if err != nil {
		return Layer{}, err
	}
	if cell.Border != nil {
		sources, err := g.sources(f, core, cell.Border.Sources, layout)
		if err != nil {
			return Layer{}, err
		}
		channels.Texts = append(channels.Texts, sources...)
	}
	layer.Channels = channels
	return layer, nil
}

// channels renders the load of every loaded outgoing link of core.
func (g *Generator) channels(f attributes.Field, core *manycore.Core, loads manycore.LinkSet, layout *grid.Layout) (Group, error) {
	var group Group
	for _, d := range loads.Directions() {
		link, err := layout.Connection(core.ID, d)
		if err != nil {
			return Group{}, err
		}
		ch, ok := core.Channel(d)
		if !ok {
			return Group{}, errors.MissingChannel(core.ID, d)
		}
		if text, ok := g.load(f, link.Output, ch.Load); ok {
			group.Texts = append(group.Texts, text)
		}
	}
	return group, nil
}

// sources renders the load every border source of core feeds into its
// incoming lane. Sources without load are left blank.
func (g *Generator) sources(f attributes.Field, core *manycore.Core, dirs []manycore.Direction, layout *grid.Layout) ([]Text, error) {
	var texts []Text
	for _, d := range dirs {
		ch, ok := core.Channel(d)
		if !ok {
			return nil, errors.MissingSourceLoad(core.ID, d)
		}
		if ch.SourceLoad == 0 {
			continue
		}
		link, err := layout.Connection(core.ID, d)
		if err != nil {
			return nil, err
		}
		if text, ok := g.load(f, link.Input, ch.SourceLoad); ok {
			texts = append(texts, text)
		}
	}
	return texts, nil
}

// load renders the load of one lane. Fill colours the lane instead of
// producing text.
func (g *Generator) load(f attributes.Field, lane grid.Connection, load uint32) (Text, bool) {
	text := Text{X: lane.Label.X, Y: lane.Label.Y, Anchor: lane.LabelAnchor, Fill: DefaultColor}
	switch v := f.(type) {
	case attributes.Text:
		text.Value = fmt.Sprintf("%s: %d", v.Label, load)
	case attributes.ColouredText:
		text.Value = fmt.Sprintf("%s: %d", v.Label, load)
		text.Fill = v.Colours.Pick(v.Bounds, uint64(load))
	case attributes.Fill:
		g.css.AppendStroke(lane.ID, v.Colours.Pick(v.Bounds, uint64(load)))
		return Text{}, false
	default:
		return Text{}, false
	}
	return text, true
}
