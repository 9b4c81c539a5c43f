// Package app is the interactive gallery: a bubbletea program that lays out
// widgets, routes keys and mouse clicks, and serves as the UI context every
// widget callback runs on.
package app

import (
	"time"

	"gitlab.com/tinyland/lab/pulse-widgets/pkg/appearance"
)

// RunMsg carries a function posted to the UI context. Update calls it.
type RunMsg struct {
	Fn func()
}

// TickEvent is sent periodically to redraw animations.
type TickEvent struct {
	Time time.Time
}

// WidgetFocusEvent requests that focus move to a specific widget.
type WidgetFocusEvent struct {
	WidgetID string
}

// ThemeChangeEvent switches the active theme through the hub.
type ThemeChangeEvent struct {
	Theme string
}

// SizeChangeEvent sets the global size through the hub.
type SizeChangeEvent struct {
	Size appearance.SizeTier
}
