package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/meshview/pkg/errors"
	"github.com/matzehuels/meshview/pkg/observability"
	"github.com/matzehuels/meshview/pkg/render"
	"github.com/matzehuels/meshview/pkg/render/mesh"
	"github.com/matzehuels/meshview/pkg/render/nodelink"
)

// Render generates output artifacts in the requested formats from a
// composed (and possibly updated) document.
func (r *Runner) Render(ctx context.Context, doc *mesh.Document, update *mesh.UpdateResult, opts Options) (map[string][]byte, error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	var artifacts map[string][]byte
	var err error
	if opts.IsTopology() {
		artifacts, err = renderTopology(ctx, doc, opts)
	} else {
		artifacts, err = renderMesh(ctx, doc, update, opts)
	}
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

// renderMesh generates mesh view outputs.
func renderMesh(ctx context.Context, doc *mesh.Document, update *mesh.UpdateResult, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte)
	var svg []byte
	svgOnce := func() []byte {
		if svg == nil {
			svg = doc.Render()
		}
		return svg
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = svgOnce()
		case FormatPNG:
			data, err = render.ToPNG(ctx, svgOnce(), opts.Scale)
		case FormatPDF:
			data, err = render.ToPDF(ctx, svgOnce())
		case FormatJSON:
			if update == nil {
				return nil, errors.New(errors.ErrCodeInternal, "json output requires an update payload")
			}
			data, err = json.Marshal(update)
		case FormatDOT:
			data = []byte(topologyDOT(doc, opts))
		default:
			return nil, errors.New(errors.ErrCodeUnsupported, "unsupported mesh format: %s", format)
		}

		if err != nil {
			return nil, renderError(format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// renderTopology generates node-link diagram outputs.
func renderTopology(ctx context.Context, doc *mesh.Document, opts Options) (map[string][]byte, error) {
	dot := topologyDOT(doc, opts)
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot, opts.Scale)
		case FormatPDF:
			data, err = nodelink.RenderPDF(ctx, dot)
		case FormatDOT:
			data = []byte(dot)
		default:
			return nil, errors.New(errors.ErrCodeUnsupported, "unsupported topology format: %s", format)
		}

		if err != nil {
			return nil, renderError(format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func topologyDOT(doc *mesh.Document, opts Options) string {
	return nodelink.ToDOT(doc.System(), nodelink.Options{
		Detailed: opts.Detailed,
		Borders:  opts.Configuration.ShowBorders(),
	})
}

// renderError keeps the code of structured errors and marks anything else
// internal.
func renderError(format string, err error) error {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	return errors.Wrap(code, err, "render %s", format)
}
