package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/meshview/pkg/cache"
	"github.com/matzehuels/meshview/pkg/manycore"
	"github.com/matzehuels/meshview/pkg/observability"
	"github.com/matzehuels/meshview/pkg/render/mesh"
)

// Compose builds the mesh document of sys and returns it with its initial
// SVG. The SVG of a description seen before comes from the cache.
func (r *Runner) Compose(ctx context.Context, sys *manycore.System) (*mesh.Document, []byte, error) {
	hash, err := HashDescription(sys)
	if err != nil {
		return nil, nil, err
	}
	doc, err := r.compose(ctx, Options{System: sys, Logger: r.Logger})
	if err != nil {
		return nil, nil, err
	}

	key := r.Keyer.DocumentKey(hash)
	if svg, hit := cache.Lookup(ctx, r.Cache, cache.KeyTypeDocument, key); hit {
		return doc, svg, nil
	}
	svg := doc.Render()
	if err := cache.Store(ctx, r.Cache, cache.KeyTypeDocument, key, svg, TTLDocument); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "err", err)
	}
	return doc, svg, nil
}

// compose builds the document and reports the stage to the pipeline hooks.
func (r *Runner) compose(ctx context.Context, opts Options) (*mesh.Document, error) {
	sys := opts.System
	hooks := observability.Pipeline()
	hooks.OnComposeStart(ctx, sys.Rows, sys.Columns)
	start := time.Now()

	logger := opts.Logger
	if logger == nil {
		logger = r.Logger
	}
	doc, err := mesh.New(sys, mesh.WithLogger(logger))
	cells := 0
	if doc != nil {
		cells = len(doc.Layout().Cells)
	}
	hooks.OnComposeComplete(ctx, cells, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return doc, nil
}
