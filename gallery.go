package main

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"gitlab.com/tinyland/lab/pulse-widgets/pkg/app"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/dispatch"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/terminal"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/widgets"
)

type galleryFlags struct {
	noMouse bool
	inline  bool
}

func newGalleryCmd(root *rootFlags) *cobra.Command {
	flags := galleryFlags{}
	cmd := &cobra.Command{
		Use:   "gallery",
		Short: "Run the interactive widget gallery",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGallery(cmd.Context(), root, flags)
		},
	}
	cmd.Flags().BoolVar(&flags.noMouse, "no-mouse", false, "Disable click-to-focus")
	cmd.Flags().BoolVar(&flags.inline, "inline", false, "Render inline instead of in the alternate screen")
	return cmd
}

func runGallery(ctx context.Context, root *rootFlags, flags galleryFlags) error {
	rt, err := setup(root, !flags.inline)
	if err != nil {
		return err
	}
	defer rt.Close()

	caps := terminal.DetectCapabilities()
	exec := app.NewExecutor()
	defer exec.Close()

	env := buildEnv(rt, exec, caps)
	ws, err := widgets.Build(rt.cfg.Gallery.WidgetList(), env, widgets.DefaultsFromConfig(rt.cfg))
	if err != nil {
		return err
	}

	mouse := caps.Mouse && !flags.noMouse
	cfg := app.DefaultConfig()
	cfg.Mouse = mouse
	m := app.NewAppModel(cfg, env, ws...)
	defer m.Close()

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if !flags.inline {
		opts = append(opts, tea.WithAltScreen())
	}
	if mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(m, opts...)
	exec.Connect(p)

	rt.logger.Info().
		Int("widgets", len(ws)).
		Str("terminal", caps.Term.String()).
		Bool("mouse", mouse).
		Msg("gallery started")
	if _, err := p.Run(); err != nil && !(errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil) {
		return err
	}
	return nil
}

func buildEnv(rt *runtimeEnv, exec dispatch.Executor, caps *terminal.Capabilities) widgets.Env {
	return widgets.Env{
		Hub:     rt.hub,
		Themes:  rt.themes,
		Sources: rt.sources,
		Exec:    exec,
		Profile: caps.Profile,
		Logger:  rt.logger,
	}
}
