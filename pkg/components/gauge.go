package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/pulse-widgets/pkg/theme"
)

// Eighth-block runes give bars sub-cell precision.
var gaugeBlocks = [9]rune{' ', '▏', '▎', '▍', '▌', '▋', '▊', '▉', '█'}

// Gauge renders a labelled horizontal bar colored by threshold.
type Gauge struct {
	Label       string
	LabelWidth  int // 0 means len(Label)+1
	ShowPercent bool

	// Ratios at which the fill switches to the warn and error colors.
	// Zero disables the threshold.
	Warn     float64
	Critical float64
}

// DefaultGauge returns a gauge with a percent label and 70/90% thresholds.
func DefaultGauge(label string) Gauge {
	return Gauge{Label: label, ShowPercent: true, Warn: 0.7, Critical: 0.9}
}

// Level maps ratio onto a status using the gauge thresholds.
func (g Gauge) Level(ratio float64) theme.Status {
	ratio = clamp01(ratio)
	switch {
	case g.Critical > 0 && ratio >= g.Critical:
		return theme.StatusError
	case g.Warn > 0 && ratio >= g.Warn:
		return theme.StatusWarn
	}
	return theme.StatusOK
}

// Render draws the gauge with the bar taking barWidth cells.
func (g Gauge) Render(ratio float64, barWidth int, th theme.Theme) string {
	ratio = clamp01(ratio)
	var b strings.Builder
	if g.Label != "" {
		lw := g.LabelWidth
		if lw <= 0 {
			lw = VisibleLen(g.Label) + 1
		}
		b.WriteString(th.DimStyle().Render(Fit(g.Label, lw)))
	}
	b.WriteString(Bar(ratio, barWidth, th.StatusColor(g.Level(ratio)), lipgloss.Color(th.Track)))
	if g.ShowPercent {
		fmt.Fprintf(&b, " %3d%%", int(math.Round(ratio*100)))
	}
	return b.String()
}

// Bar draws a bar of width cells filled to ratio.
func Bar(ratio float64, width int, fill, track lipgloss.TerminalColor) string {
	if width <= 0 {
		return ""
	}
	units := int(math.Round(clamp01(ratio) * float64(width*8)))
	full, part := units/8, units%8
	empty := width - full
	if part > 0 {
		empty--
	}

	filled := strings.Repeat(string(gaugeBlocks[8]), full)
	if part > 0 {
		filled += string(gaugeBlocks[part])
	}
	fillStyle := lipgloss.NewStyle().Foreground(fill).Background(track)
	trackStyle := lipgloss.NewStyle().Background(track)

	var b strings.Builder
	if filled != "" {
		b.WriteString(fillStyle.Render(filled))
	}
	if empty > 0 {
		b.WriteString(trackStyle.Render(strings.Repeat(" ", empty)))
	}
	return b.String()
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
