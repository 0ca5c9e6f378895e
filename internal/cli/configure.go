package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	meshio "github.com/matzehuels/meshview/pkg/io"
)

const (
	defaultBounds  = "25,50,75,100"
	defaultColours = "#2ca02c,#ffdd57,#ff7f0e,#d62728"
)

// newConfigureCmd opens the interactive picker and writes the resulting
// attribute configuration.
func newConfigureCmd() *cobra.Command {
	var output, bounds, colours string

	cmd := &cobra.Command{
		Use:   "configure [description]",
		Short: "Pick overlay attributes interactively and save a configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parsePalette(bounds, colours)
			if err != nil {
				return err
			}
			return runConfigure(cmd.Context(), args[0], output, p)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "overlay.toml", "configuration file to write (json, yaml or toml)")
	cmd.Flags().StringVar(&bounds, "bounds", defaultBounds, "four ascending bucket bounds for coloured attributes")
	cmd.Flags().StringVar(&colours, "colours", defaultColours, "four bucket colours for coloured attributes")
	return cmd
}

// parsePalette parses comma-separated bounds and colours. Count and order
// are checked later, when the configuration is built.
func parsePalette(bounds, colours string) (Palette, error) {
	var p Palette
	for _, s := range strings.Split(bounds, ",") {
		v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return p, fmt.Errorf("invalid bound %q: %w", s, err)
		}
		p.Bounds = append(p.Bounds, v)
	}
	for _, s := range strings.Split(colours, ",") {
		p.Colours = append(p.Colours, strings.TrimSpace(s))
	}
	return p, nil
}

func runConfigure(ctx context.Context, input, output string, p Palette) error {
	logger := loggerFromContext(ctx)
	sys, err := meshio.ImportSystem(input)
	if err != nil {
		return err
	}

	final, err := tea.NewProgram(NewConfigureModel(sys), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("configure: %w", err)
	}
	m := final.(ConfigureModel)
	if m.Cancelled || !m.Done {
		printInfo("Cancelled, nothing written")
		return nil
	}

	cfg, err := m.Document(p).Build()
	if err != nil {
		return err
	}
	if err := meshio.ExportConfiguration(cfg, output); err != nil {
		return err
	}
	logger.Debug("wrote configuration", "path", output, "keys", cfg.Len())

	printSuccess("Saved %d attribute(s)", cfg.Len())
	printFile(output)
	printNextStep("Render it", fmt.Sprintf("%s render %s -c %s", appName, input, output))
	return nil
}
