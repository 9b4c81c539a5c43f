// Package widgets provides the concrete controls of the gallery: cards,
// loaders, the weather widget and the system card. Every control embeds a
// Control, which ties it to the appearance hub for as long as it is attached
// to a tree.
//
// Controls are not safe for concurrent use. Attach, Detach, setters and View
// run on the UI context; background work hands its results back through the
// Env executor.
package widgets

import (
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"

	"gitlab.com/tinyland/lab/pulse-widgets/pkg/appearance"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/collectors"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/dispatch"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/scope"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/theme"
)

// Widget is the interface the gallery drives.
type Widget interface {
	ID() string
	Title() string
	Node() *scope.Element

	// Attach inserts the widget under parent and subscribes it to the hub.
	Attach(parent *scope.Element)
	// Detach releases the subscription and stops everything the widget runs.
	Detach()

	Size() appearance.SizeTier
	SetSize(appearance.SizeTier)
	View(focused bool) string
}

// Refresher is implemented by widgets that load data.
type Refresher interface {
	Refresh()
}

// VariantCycler is implemented by widgets with selectable visuals.
type VariantCycler interface {
	NextVariant()
}

// Env holds the collaborators shared by every widget of one tree.
type Env struct {
	Hub     *appearance.Hub
	Themes  *theme.Registry
	Sources *collectors.Registry

	// Exec is the UI context. Nil runs callbacks inline.
	Exec dispatch.Executor

	// Profile degrades palettes for the terminal. The zero value is
	// TrueColor.
	Profile termenv.Profile

	Logger zerolog.Logger
}

func (e Env) palette() theme.Theme {
	themes := e.Themes
	if themes == nil {
		themes = theme.NewRegistry()
	}
	id := theme.DefaultName
	if e.Hub != nil {
		id = e.Hub.Theme()
	}
	return theme.Adapt(themes.Get(id), e.Profile)
}
