package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
	logLevel   string
	theme      string
	size       string
	preset     string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "pulse-widgets",
		Short:         "Themed, resizable terminal widgets driven by one appearance hub",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGallery(cmd.Context(), flags, galleryFlags{})
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Path to config.toml (default: $XDG_CONFIG_HOME/pulse-widgets/config.toml)")
	pf.StringVar(&flags.logLevel, "log-level", "", "Override the configured log level")
	pf.StringVarP(&flags.theme, "theme", "t", "", "Override the starting theme")
	pf.StringVarP(&flags.size, "size", "s", "", "Override the starting global size (xs, s, m, l, xl)")
	pf.StringVarP(&flags.preset, "preset", "p", "", "Gallery preset (showcase, weather, system, loaders)")

	cmd.AddCommand(newGalleryCmd(flags))
	cmd.AddCommand(newPreviewCmd(flags))
	cmd.AddCommand(newThemesCmd(flags))
	cmd.AddCommand(newWeatherCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
