package loaders

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/pulse-widgets/pkg/appearance"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/components"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/theme"
)

// spinnerAnimation cycles the frames of a bubbles spinner. From Small up the
// glyph is followed by a label with animated dots.
func spinnerAnimation(sp spinner.Spinner, size appearance.SizeTier, pal theme.Theme) animation {
	glyph := lipgloss.NewStyle().Foreground(lipgloss.Color(pal.LoaderPrimary))
	label := lipgloss.NewStyle().Foreground(lipgloss.Color(pal.LoaderSecondary))
	interval := sp.FPS
	if interval <= 0 {
		interval = time.Second / 10
	}
	return animation{
		interval: interval,
		render: func(n int) string {
			frame := strings.TrimRight(sp.Frames[n%len(sp.Frames)], " ")
			out := glyph.Render(frame)
			if size >= appearance.Small {
				dots := strings.Repeat(".", n/3%4)
				out += " " + label.Render(components.PadRight("loading"+dots, 10))
			}
			return out
		},
	}
}

// shimmer sweeps a highlight across a track.
func shimmer(width int, pal theme.Theme) animation {
	track := lipgloss.NewStyle().Foreground(lipgloss.Color(pal.Track))
	hot := lipgloss.NewStyle().Foreground(lipgloss.Color(pal.LoaderSecondary))
	const span = 3
	return animation{
		interval: time.Second / 15,
		render: func(n int) string {
			head := n % (width + span)
			var b strings.Builder
			for i := range width {
				if i <= head && i > head-span {
					b.WriteString(hot.Render("━"))
				} else {
					b.WriteString(track.Render("─"))
				}
			}
			return b.String()
		},
	}
}
