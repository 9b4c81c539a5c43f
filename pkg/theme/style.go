package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Status is a coarse health state used to pick a status color.
type Status int

const (
	StatusUnknown Status = iota
	StatusOK
	StatusWarn
	StatusError
)

// ParseStatus maps free-form status strings onto a Status.
func ParseStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ok", "healthy", "running":
		return StatusOK
	case "warn", "warning", "stale":
		return StatusWarn
	case "error", "err", "critical", "failed":
		return StatusError
	}
	return StatusUnknown
}

// StatusColor returns the palette color for s.
func (t Theme) StatusColor(s Status) lipgloss.Color {
	switch s {
	case StatusOK:
		return lipgloss.Color(t.StatusOK)
	case StatusWarn:
		return lipgloss.Color(t.StatusWarn)
	case StatusError:
		return lipgloss.Color(t.StatusError)
	}
	return lipgloss.Color(t.StatusUnknown)
}

// Frame returns the rounded border style for a widget card.
func (t Theme) Frame(focused bool) lipgloss.Style {
	border := t.Border
	if focused {
		border = t.BorderFocus
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Foreground(lipgloss.Color(t.Foreground)).
		Padding(0, 1)
}

// TitleStyle styles widget titles.
func (t Theme) TitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(t.Title))
}

// DimStyle styles secondary text.
func (t Theme) DimStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.Dim))
}

// AccentStyle styles highlighted text.
func (t Theme) AccentStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent))
}

// StatusStyle styles text in the color for s.
func (t Theme) StatusStyle(s Status) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.StatusColor(s))
}

// Swatch renders one block per palette color, for theme listings.
func (t Theme) Swatch() string {
	var b strings.Builder
	for _, c := range t.colors() {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(*c.value)).Render("█"))
	}
	return b.String()
}
