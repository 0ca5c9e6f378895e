package mesh

import (
	"bytes"
	"io"
	"regexp"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/meshview/pkg/errors"
	"github.com/matzehuels/meshview/pkg/manycore"
	"github.com/matzehuels/meshview/pkg/render/mesh/attributes"
	"github.com/matzehuels/meshview/pkg/render/mesh/grid"
	"github.com/matzehuels/meshview/pkg/render/mesh/overlay"
	"github.com/matzehuels/meshview/pkg/render/mesh/styles"
)

// Router computes link loads for a routing algorithm. [*manycore.System]
// implements it with the description's precomputed tables.
type Router interface {
	Route(algorithm string) (manycore.RoutingResult, error)
}

// UpdateResult is the payload of a reconfiguration: everything that changes
// between two configurations, and nothing else.
type UpdateResult struct {
	Style            string `json:"style"`
	InformationGroup string `json:"informationGroup"`
	ViewBox          string `json:"viewBox"`
}

// Option configures a Document.
type Option func(*Document)

// WithLogger sets the logger used for debug diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(d *Document) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithRouter replaces the routing collaborator. By default the document
// routes with the system it was built from.
func WithRouter(r Router) Option {
	return func(d *Document) { d.router = r }
}

// Document is a rendered mesh: the static grid composed once, and the
// overlay, stylesheet and viewBox rebuilt on every [Document.Update].
//
// A Document is not safe for concurrent use. Callers serialize access.
type Document struct {
	sys    *manycore.System
	layout *grid.Layout
	router Router
	logger *log.Logger

	css      *styles.Stylesheet
	viewBox  ViewBox
	layers   []overlay.Layer
	clipPath string
}

// New composes the static grid of sys. The core count must match the grid
// dimensions (INVALID_CONFIGURATION otherwise).
func New(sys *manycore.System, opts ...Option) (*Document, error) {
	layout, err := grid.Compose(sys)
	if err != nil {
		return nil, err
	}
	d := &Document{
		sys:     sys,
		layout:  layout,
		router:  sys,
		logger:  log.New(io.Discard),
		css:     styles.New(),
		viewBox: baseViewBox(layout.Width, layout.Height),
		layers:  make([]overlay.Layer, 0, len(layout.Cells)),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// System returns the architecture description the document was built from.
func (d *Document) System() *manycore.System { return d.sys }

// Layout returns the composed static grid.
func (d *Document) Layout() *grid.Layout { return d.layout }

// ViewBox returns the current viewBox.
func (d *Document) ViewBox() ViewBox { return d.viewBox }

// Style returns the current stylesheet text.
func (d *Document) Style() string { return d.css.String() }

// Update applies cfg and returns the regenerated dynamic parts.
//
// A routing directive is resolved first; if routing fails the document is
// left untouched and the error is returned. Otherwise the overlay,
// stylesheet and viewBox are rebuilt from scratch, so equal configurations
// on an unchanged system yield equal payloads.
func (d *Document) Update(cfg *attributes.Configuration) (*UpdateResult, error) {
	var routed manycore.RoutingResult
	if algorithm, ok := cfg.RoutingAlgorithm(); ok {
		d.logger.Debug("routing", "algorithm", algorithm)
		result, err := d.router.Route(algorithm)
		if err != nil {
			return nil, err
		}
		routed = result
		if routed == nil {
			routed = manycore.RoutingResult{}
		}
	}

	borders := cfg.ShowBorders()
	d.layers = d.layers[:0]
	d.css.Reset(borders)
	d.viewBox.Reset(d.layout.Width, d.layout.Height)
	if borders {
		d.viewBox.InsertEdges()
	}

	if !cfg.IsEmpty() {
		gen := overlay.NewGenerator(d.css, d.logger)
		for i, cell := range d.layout.Cells {
			core := &d.sys.Cores[i]
			layer, err := gen.Layer(cell, cfg, core, routed, d.layout)
			if err != nil {
				d.layers = d.layers[:0]
				d.css.Reset(borders)
				return nil, err
			}
			d.layers = append(d.layers, layer)
		}
	}
	d.logger.Debug("overlay regenerated", "layers", len(d.layers), "borders", borders)

	return &UpdateResult{
		Style:            d.css.String(),
		InformationGroup: d.informationGroup(),
		ViewBox:          d.viewBox.String(),
	}, nil
}

func (d *Document) informationGroup() string {
	var buf bytes.Buffer
	overlay.WriteLayers(&buf, d.layers)
	return buf.String()
}

var polygonPoints = regexp.MustCompile(`^\s*-?\d+(\.\d+)?[ ,]-?\d+(\.\d+)?(\s+-?\d+(\.\d+)?[ ,]-?\d+(\.\d+)?)*\s*$`)

// SetClipPath clips the main group to the polygon with the given SVG points
// ("x1,y1 x2,y2 ...").
func (d *Document) SetClipPath(points string) error {
	if !polygonPoints.MatchString(points) {
		return errors.New(errors.ErrCodeInvalidInput, "invalid clip path polygon %q", points)
	}
	d.clipPath = points
	return nil
}

// ClearClipPath removes the clip path.
func (d *Document) ClearClipPath() { d.clipPath = "" }

// ClipPath returns the current clip polygon, or "" when unclipped.
func (d *Document) ClipPath() string { return d.clipPath }
