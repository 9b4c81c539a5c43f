package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"gitlab.com/tinyland/lab/pulse-widgets/pkg/terminal"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/theme"
)

func newThemesCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "themes",
		Short: "List available themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setup(root, false)
			if err != nil {
				return err
			}
			defer rt.Close()

			profile := terminal.DetectCapabilities().Profile
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, name := range rt.themes.Names() {
				marker := " "
				if name == rt.hub.Theme() {
					marker = "*"
				}
				t := theme.Adapt(rt.themes.Get(name), profile)
				fmt.Fprintf(tw, "%s %s\t%s\n", marker, name, t.Swatch())
			}
			return tw.Flush()
		},
	}
	cmd.AddCommand(newThemesExportCmd(root))
	return cmd
}

func newThemesExportCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "export <name>",
		Short: "Print a theme as TOML, ready to edit and drop into the theme directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(root, false)
			if err != nil {
				return err
			}
			defer rt.Close()

			t, err := rt.themes.Lookup(args[0])
			if err != nil {
				return err
			}
			data, err := theme.SaveToTOML(t)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
