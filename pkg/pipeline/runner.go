package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/meshview/pkg/cache"
	"github.com/matzehuels/meshview/pkg/errors"
	"github.com/matzehuels/meshview/pkg/observability"
	"github.com/matzehuels/meshview/pkg/render/mesh"
	"github.com/matzehuels/meshview/pkg/render/mesh/attributes"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete compose → update → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}
	result.Stats.Cores = len(opts.System.Cores)

	// Hash before anything routes: routing rewrites channel loads.
	descHash, err := HashDescription(opts.System)
	if err != nil {
		return nil, err
	}
	result.DescriptionHash = descHash
	cfgHash, err := hashConfiguration(opts)
	if err != nil {
		return nil, err
	}

	if !opts.Refresh {
		if artifacts, ok := r.cachedArtifacts(ctx, descHash, cfgHash, opts); ok {
			result.Artifacts = artifacts
			result.CacheInfo.RenderHit = true
			if data, ok := artifacts[FormatJSON]; ok {
				var u mesh.UpdateResult
				if json.Unmarshal(data, &u) == nil {
					result.Update = &u
				}
			}
			opts.Logger.Info("served from cache", "formats", opts.Formats)
			return result, nil
		}
	}

	// Stage 1: Compose
	composeStart := time.Now()
	doc, err := r.compose(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.ComposeTime = time.Since(composeStart)
	opts.Logger.Info("composed grid",
		"rows", opts.System.Rows,
		"columns", opts.System.Columns,
		"duration", result.Stats.ComposeTime)

	// Stage 2: Update
	if opts.Configuration != nil || wants(opts.Formats, FormatJSON) {
		updateStart := time.Now()
		res, err := r.Update(ctx, doc, opts.Configuration)
		if err != nil {
			return nil, err
		}
		result.Update = res
		result.Stats.UpdateTime = time.Since(updateStart)
		opts.Logger.Info("applied configuration", "duration", result.Stats.UpdateTime)
	}
	if opts.ClipPath != "" {
		if err := doc.SetClipPath(opts.ClipPath); err != nil {
			return nil, err
		}
	}

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, err := r.Render(ctx, doc, result.Update, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	for format, data := range artifacts {
		key := r.Keyer.ArtifactKey(descHash, opts.ArtifactKeyOpts(format, cfgHash))
		if err := cache.Store(ctx, r.Cache, cache.KeyTypeArtifact, key, data, TTLArtifact); err != nil {
			opts.Logger.Warn("cache write failed", "format", format, "err", err)
		}
	}

	return result, nil
}

// cachedArtifacts returns every requested artifact from the cache, or false
// if any is missing.
func (r *Runner) cachedArtifacts(ctx context.Context, descHash, cfgHash string, opts Options) (map[string][]byte, bool) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(descHash, opts.ArtifactKeyOpts(format, cfgHash))
		data, hit := cache.Lookup(ctx, r.Cache, cache.KeyTypeArtifact, key)
		if !hit {
			return nil, false
		}
		artifacts[format] = data
	}
	return artifacts, true
}

// Update applies cfg to doc and reports the stage to the pipeline hooks.
func (r *Runner) Update(ctx context.Context, doc *mesh.Document, cfg *attributes.Configuration) (*mesh.UpdateResult, error) {
	hooks := observability.Pipeline()
	hooks.OnUpdateStart(ctx, cfg.Len())
	start := time.Now()
	res, err := doc.Update(cfg)
	hooks.OnUpdateComplete(ctx, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func wants(formats []string, format string) bool {
	for _, f := range formats {
		if f == format {
			return true
		}
	}
	return false
}

func hashConfiguration(opts Options) (string, error) {
	if opts.Configuration == nil {
		return "", nil
	}
	h, err := cache.HashJSON(opts.Configuration)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hash configuration")
	}
	return h, nil
}
