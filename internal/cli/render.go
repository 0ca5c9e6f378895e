package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/meshview/pkg/pipeline"
)

// renderOpts holds the flags shared by render, update and topology.
type renderOpts struct {
	output   string   // output file (single format) or base path
	config   string   // attribute configuration file
	clip     string   // clip polygon "x1,y1 x2,y2 ..."
	formats  []string // svg, png, pdf, json, dot
	scale    float64  // PNG scale factor
	detailed bool     // topology: attributes in node labels
	noCache  bool     // bypass the render cache entirely
	refresh  bool     // re-render and overwrite cached artifacts
}

func (o *renderOpts) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&o.config, "config-file", "c", "", "attribute configuration (json, yaml or toml)")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().BoolVar(&o.refresh, "refresh", false, "ignore cached renders")
}

// newRenderCmd renders the mesh view of a description.
func newRenderCmd() *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: pipeline.DefaultScale}

	cmd := &cobra.Command{
		Use:   "render [description]",
		Short: "Render a many-core description to SVG, PNG, PDF, JSON or DOT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return runRender(cmd.Context(), args[0], pipeline.ViewMesh, &opts)
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot (comma-separated)")
	cmd.Flags().StringVar(&opts.clip, "clip", "", `clip the grid to a polygon, e.g. "0,0 400,0 400,400"`)
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	return cmd
}

// newTopologyCmd renders the node-link diagram of the routed link loads.
func newTopologyCmd() *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: pipeline.DefaultScale}

	cmd := &cobra.Command{
		Use:   "topology [description]",
		Short: "Render the link topology with loads as a node-link diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return runRender(cmd.Context(), args[0], pipeline.ViewTopology, &opts)
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show tasks and attributes in node labels")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	return cmd
}

// newUpdateCmd prints the reconfiguration payload a visualizer would apply.
func newUpdateCmd() *cobra.Command {
	opts := renderOpts{formats: []string{pipeline.FormatJSON}}

	cmd := &cobra.Command{
		Use:   "update [description]",
		Short: "Print the style, information group and viewBox of a configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd.Context(), args[0], &opts)
		},
	}
	opts.addFlags(cmd)
	return cmd
}

func loadInputs(ctx context.Context, r *pipeline.Runner, input string, opts *renderOpts, view string) (pipeline.Options, error) {
	sys, err := r.Load(ctx, input)
	if err != nil {
		return pipeline.Options{}, err
	}
	p := pipeline.Options{
		System:   sys,
		ClipPath: opts.clip,
		View:     view,
		Formats:  opts.formats,
		Scale:    opts.scale,
		Detailed: opts.detailed,
		Refresh:  opts.refresh,
	}
	if opts.config != "" {
		cfg, err := r.LoadConfiguration(ctx, opts.config)
		if err != nil {
			return pipeline.Options{}, err
		}
		p.Configuration = cfg
	}
	return p, nil
}

// execute runs the pipeline, behind a spinner when a slow external
// conversion is involved.
func execute(ctx context.Context, r *pipeline.Runner, p pipeline.Options) (*pipeline.Result, error) {
	slow := slices.Contains(p.Formats, pipeline.FormatPNG) || slices.Contains(p.Formats, pipeline.FormatPDF)
	if !slow {
		return r.Execute(ctx, p)
	}
	var result *pipeline.Result
	err := withSpinner(ctx, "Converting...", "Converted", func() error {
		var err error
		result, err = r.Execute(ctx, p)
		return err
	})
	return result, err
}

func runRender(ctx context.Context, input, view string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	r, err := newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer r.Close()

	p, err := loadInputs(ctx, r, input, opts, view)
	if err != nil {
		return err
	}
	result, err := execute(ctx, r, p)
	if err != nil {
		return err
	}

	paths := outputPaths(input, view, opts)
	for _, format := range opts.formats {
		data, ok := result.Artifacts[format]
		if !ok {
			continue
		}
		if err := writeFile(paths[format], data); err != nil {
			return fmt.Errorf("write %s: %w", format, err)
		}
		printFile(paths[format])
	}
	fmt.Println(statsLine(p.System.Rows, p.System.Columns, p.Configuration.Len(), result.CacheInfo.RenderHit))
	prog.done(fmt.Sprintf("Rendered %d output(s)", len(result.Artifacts)))
	return nil
}

// outputPaths maps each requested format to its file. A single format
// with an explicit output is written exactly there.
func outputPaths(input, view string, opts *renderOpts) map[string]string {
	paths := make(map[string]string, len(opts.formats))
	if len(opts.formats) == 1 && opts.output != "" {
		paths[opts.formats[0]] = opts.output
		return paths
	}
	base := basePath(opts.output, input)
	if view == pipeline.ViewTopology && opts.output == "" {
		base += "_topology"
	}
	for _, f := range opts.formats {
		paths[f] = base + "." + f
	}
	return paths
}

func runUpdate(ctx context.Context, input string, opts *renderOpts) error {
	r, err := newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer r.Close()

	p, err := loadInputs(ctx, r, input, opts, pipeline.ViewMesh)
	if err != nil {
		return err
	}
	result, err := r.Execute(ctx, p)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, result.Artifacts[pipeline.FormatJSON], "", "  "); err != nil {
		return fmt.Errorf("format update payload: %w", err)
	}
	buf.WriteByte('\n')

	out := opts.output
	if out == "" {
		out = "-"
	}
	return writeFile(out, buf.Bytes())
}
