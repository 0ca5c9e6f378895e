package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/meshview/pkg/buildinfo"
	"github.com/matzehuels/meshview/pkg/settings"
)

// Execute runs the meshview CLI until ctx is cancelled.
//
// Settings are read from --config, or from the user config directory when
// the flag is absent (a missing default file is not an error). The log
// level comes from the settings; --verbose forces debug.
func Execute(ctx context.Context) error {
	return RootCommand().ExecuteContext(ctx)
}

// RootCommand creates the root cobra command with all subcommands registered.
func RootCommand() *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          appName,
		Short:        "meshview renders many-core processor grids as SVG",
		Long:         `meshview renders many-core architecture descriptions as SVG grids of cores, routers and links, with a configurable overlay of per-element attributes and routed link loads.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(configPath)
			if err != nil {
				return err
			}
			level, err := charmlog.ParseLevel(s.Log.Level)
			if err != nil {
				level = charmlog.InfoLevel
			}
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(withSettings(ctx, s))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "settings file (default: "+settings.FileName+" in the user config directory)")

	root.AddCommand(newRenderCmd())
	root.AddCommand(newUpdateCmd())
	root.AddCommand(newTopologyCmd())
	root.AddCommand(newInspectCmd())
	root.AddCommand(newConfigureCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newCacheCmd())
	root.AddCommand(newCompletionCmd())

	return root
}

func loadSettings(path string) (settings.Settings, error) {
	if path != "" {
		return settings.Load(path, false)
	}
	def, err := settings.DefaultPath()
	if err != nil {
		return settings.Default(), nil
	}
	return settings.Load(def, true)
}
