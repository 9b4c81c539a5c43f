package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickCmd returns a Cmd that sends a TickEvent after d.
func TickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickEvent{Time: t}
	})
}

// Post returns a Cmd that runs fn on the UI context.
func Post(fn func()) tea.Cmd {
	return func() tea.Msg {
		return RunMsg{Fn: fn}
	}
}
