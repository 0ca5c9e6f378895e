// Package pipeline provides the core rendering pipeline for meshview.
//
// This package implements the complete load → compose → update → render
// pipeline used by the CLI and the HTTP server, so that both entry points
// behave the same and share one caching strategy.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Load: Read and validate an architecture description (JSON, YAML or TOML)
//  2. Compose: Build the static grid of the mesh document
//  3. Update: Apply an attribute configuration (optional)
//  4. Render: Generate output in various formats (SVG, PNG, PDF, JSON, DOT)
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    System:        sys,
//	    Configuration: cfg,
//	    Formats:       []string{"svg", "json"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	sys, err := runner.Load(ctx, "mesh.yaml")
//	doc, svg, err := runner.Compose(ctx, sys)
//	res, err := runner.Update(ctx, doc, cfg)
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/meshview/pkg/cache"
	"github.com/matzehuels/meshview/pkg/errors"
	"github.com/matzehuels/meshview/pkg/manycore"
	"github.com/matzehuels/meshview/pkg/render/mesh"
	"github.com/matzehuels/meshview/pkg/render/mesh/attributes"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0

	// DefaultView is the default visualization.
	DefaultView = ViewMesh

	// TTLDocument is how long rendered documents stay cached.
	TTLDocument = 7 * 24 * time.Hour

	// TTLArtifact is how long exported artifacts stay cached.
	TTLArtifact = 24 * time.Hour
)

// Visualizations.
const (
	// ViewMesh is the chip floor plan rendered by pkg/render/mesh.
	ViewMesh = "mesh"

	// ViewTopology is the Graphviz node-link diagram of pkg/render/nodelink.
	ViewTopology = "topology"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// ValidViews is the set of supported visualizations.
var ValidViews = map[string]bool{
	ViewMesh:     true,
	ViewTopology: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the rendering pipeline.
type Options struct {
	// System is the architecture description to render.
	System *manycore.System `json:"system"`

	// Configuration selects and styles the displayed attributes. Nil renders
	// the bare grid.
	Configuration *attributes.Configuration `json:"configuration,omitempty"`

	// ClipPath clips the mesh view to a polygon ("x1,y1 x2,y2 ...").
	ClipPath string `json:"clip_path,omitempty"`

	// Render options
	View     string   `json:"view,omitempty"`
	Formats  []string `json:"formats,omitempty"`
	Scale    float64  `json:"scale,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`
	Refresh  bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// DescriptionHash is the content hash of the architecture description.
	DescriptionHash string

	// Update is the reconfiguration payload, nil without a configuration.
	Update *mesh.UpdateResult

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Cores       int
	ComposeTime time.Duration
	UpdateTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: %s)", format, strings.Join(sortedKeys(ValidFormats), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateView checks that a visualization is valid.
func ValidateView(view string) error {
	if !ValidViews[view] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid view: %q (must be one of: %s)", view, strings.Join(sortedKeys(ValidViews), ", "))
	}
	return nil
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// Calling it more than once has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.System == nil {
		return errors.New(errors.ErrCodeInvalidInput, "architecture description is required")
	}
	if o.View == "" {
		o.View = DefaultView
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if err := ValidateView(o.View); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.View == ViewTopology && slices.Contains(o.Formats, FormatJSON) {
		return errors.New(errors.ErrCodeUnsupported, "json output is only available for the mesh view")
	}
	return nil
}

// IsTopology returns true if this is a node-link topology rendering.
func (o *Options) IsTopology() bool {
	return o.View == ViewTopology
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format, configurationHash string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:            o.View + "/" + format,
		ConfigurationHash: configurationHash,
		ClipPath:          o.ClipPath,
		Scale:             o.Scale,
		Detailed:          o.Detailed,
	}
}
