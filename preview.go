package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"gitlab.com/tinyland/lab/pulse-widgets/pkg/app"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/dispatch"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/terminal"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/widgets"
)

type previewFlags struct {
	width  int
	height int
	wait   time.Duration
}

func newPreviewCmd(root *rootFlags) *cobra.Command {
	flags := previewFlags{}
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Print one frame of the gallery and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPreview(cmd.Context(), root, flags)
		},
	}
	cmd.Flags().IntVar(&flags.width, "width", 0, "Frame width (default: terminal width)")
	cmd.Flags().IntVar(&flags.height, "height", 0, "Frame height (default: terminal height)")
	cmd.Flags().DurationVar(&flags.wait, "wait", 2*time.Second, "How long to let widgets load before rendering")
	return cmd
}

func runPreview(ctx context.Context, root *rootFlags, flags previewFlags) error {
	rt, err := setup(root, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	caps := terminal.DetectCapabilities()
	width, height := flags.width, flags.height
	if width <= 0 {
		width = caps.Size.Cols
	}
	if height <= 0 {
		height = caps.Size.Rows
	}

	loop := dispatch.NewLoop(dispatch.WithLoopLogger(rt.logger))
	defer loop.Close()

	env := buildEnv(rt, loop, caps)
	ws, err := widgets.Build(rt.cfg.Gallery.WidgetList(), env, widgets.DefaultsFromConfig(rt.cfg))
	if err != nil {
		return err
	}

	cfg := app.DefaultConfig()
	cfg.Mouse = false
	var m app.AppModel
	loop.Do(func() {
		m = app.NewAppModel(cfg, env, ws...)
		updated, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: height})
		m = updated.(app.AppModel)
	})
	defer loop.Do(m.Close)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(flags.wait):
	}

	var frame string
	loop.Do(func() { frame = m.View() })
	fmt.Println(frame)
	return nil
}
