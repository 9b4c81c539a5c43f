// Package components holds the small renderers the widgets share: width
// aware text fitting, threshold gauges and sparklines. Everything here works
// in terminal cells and ignores ANSI escapes when measuring.
package components

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Ellipsis is appended to text cut by Fit.
const Ellipsis = "…"

// VisibleLen returns the width of s in terminal cells. Escape sequences
// count as zero and wide runes as two.
func VisibleLen(s string) int {
	return ansi.StringWidth(s)
}

// Truncate cuts s to at most width cells, keeping escape sequences intact.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "")
}

// Fit returns s truncated with an ellipsis and then padded so that it is
// exactly width cells wide.
func Fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if VisibleLen(s) > width {
		s = ansi.Truncate(s, width, Ellipsis)
	}
	return PadRight(s, width)
}

// FitLines applies Fit to every line of s.
func FitLines(s string, width int) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = Fit(l, width)
	}
	return strings.Join(lines, "\n")
}

// PadRight pads s with spaces up to width cells.
func PadRight(s string, width int) string {
	vis := VisibleLen(s)
	if vis >= width {
		return s
	}
	return s + strings.Repeat(" ", width-vis)
}

// PadCenter centers s within width cells; an odd remainder goes right.
func PadCenter(s string, width int) string {
	vis := VisibleLen(s)
	if vis >= width {
		return s
	}
	left := (width - vis) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-vis-left)
}

// Wrap word-wraps s at width cells and returns the lines.
func Wrap(s string, width int) []string {
	if width <= 0 {
		return []string{s}
	}
	return strings.Split(ansi.Wrap(s, width, ""), "\n")
}

// Columns joins a left and a right string so the right one ends at width.
// The left side is cut when both do not fit.
func Columns(left, right string, width int) string {
	rw := VisibleLen(right)
	if rw >= width {
		return Truncate(right, width)
	}
	lw := width - rw - 1
	if lw <= 0 {
		return PadRight("", width-rw) + right
	}
	return Fit(left, lw) + " " + right
}
