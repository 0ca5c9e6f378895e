// Package cli implements the meshview command-line interface.
//
// # Commands
//
//   - render: render a many-core description to SVG, PNG, PDF, JSON or DOT
//   - update: print the reconfiguration payload of a configuration
//   - topology: render the link-load node-link diagram
//   - inspect: summarize a description as a table
//   - configure: pick attributes interactively and write a configuration
//   - serve: run the HTTP API for the interactive visualizer
//   - cache: manage the render cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// and the loaded settings travel through context.Context.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/meshview/pkg/cache"
	"github.com/matzehuels/meshview/pkg/pipeline"
	"github.com/matzehuels/meshview/pkg/settings"
)

// appName is the application name used for directories and display.
const appName = "meshview"

type settingsKey struct{}

func withSettings(ctx context.Context, s settings.Settings) context.Context {
	return context.WithValue(ctx, settingsKey{}, s)
}

// settingsFromContext returns the loaded settings, or the defaults when the
// root command did not run (tests call commands directly).
func settingsFromContext(ctx context.Context) settings.Settings {
	if s, ok := ctx.Value(settingsKey{}).(settings.Settings); ok {
		return s
	}
	return settings.Default()
}

// newRunner creates a pipeline runner backed by the configured cache.
func newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	logger := loggerFromContext(ctx)
	if noCache {
		return pipeline.NewRunner(cache.NewNullCache(), nil, logger), nil
	}
	c, err := cache.Open(ctx, settingsFromContext(ctx).Cache)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return pipeline.NewRunner(c, nil, logger), nil
}

// parseFormats parses a comma-separated format string into a slice.
// If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// basePath derives the base output path from the output and input paths.
// Known format extensions are stripped from output; an empty output falls
// back to the input path without its extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput opens path for writing, or stdout when path is "-".
func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}

func writeFile(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
