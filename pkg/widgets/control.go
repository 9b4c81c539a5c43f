package widgets

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"gitlab.com/tinyland/lab/pulse-widgets/pkg/appearance"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/components"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/lifecycle"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/scope"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/theme"
)

// Option configures a Control.
type Option func(*Control)

// WithSize gives the widget an explicit size, which the global size never
// overrides.
func WithSize(s appearance.SizeTier) Option {
	return func(c *Control) {
		if s.Valid() {
			c.size, c.explicit = s, true
		}
	}
}

// WithIgnoreGlobalSize opts the widget and its descendants out of global
// size broadcasts.
func WithIgnoreGlobalSize(v bool) Option {
	return func(c *Control) { c.SetIgnoreGlobalSize(v) }
}

// WithSizeSubscription controls whether the widget follows global size
// changes at all. Enabled by default.
func WithSizeSubscription(v bool) Option {
	return func(c *Control) { c.followSize = v }
}

// WithTitle overrides the default title.
func WithTitle(title string) Option {
	return func(c *Control) { c.title = title }
}

// hooks are the owner callbacks a Control drives.
type hooks struct {
	// rebuild runs after the palette or size changed while attached.
	rebuild func()
	// attached runs once the coordinator finished attaching.
	attached func()
	// detached runs after the hub subscriptions are released.
	detached func()
}

// Control is the base every widget embeds. It owns a scope element, an
// explicit-size flag and, while attached, a lifecycle coordinator.
type Control struct {
	scope.Element

	id         string
	title      string
	env        Env
	logger     zerolog.Logger
	size       appearance.SizeTier
	explicit   bool
	followSize bool
	palette    theme.Theme
	hooks      hooks

	coord   *lifecycle.Coordinator
	live    bool
	ownRoot bool
	applies int
	resizes int
}

func (c *Control) init(id, title string, env Env, h hooks, opts []Option) {
	c.id = id
	c.title = title
	c.env = env
	c.size = appearance.Medium
	c.followSize = true
	c.palette = env.palette()
	c.hooks = h
	for _, opt := range opts {
		opt(c)
	}
	c.logger = env.Logger.With().Str("widget", id).Logger()
}

// ID returns the widget id.
func (c *Control) ID() string { return c.id }

// Title returns the widget title.
func (c *Control) Title() string { return c.title }

// Node returns the widget's tree node.
func (c *Control) Node() *scope.Element { return &c.Element }

// Size returns the current size tier.
func (c *Control) Size() appearance.SizeTier { return c.size }

// HasExplicitSize reports whether the size was set on the widget itself.
func (c *Control) HasExplicitSize() bool { return c.explicit }

// Palette returns the adapted palette of the active theme.
func (c *Control) Palette() theme.Theme { return c.palette }

// Attached reports whether the widget is attached.
func (c *Control) Attached() bool { return c.live }

// Applies returns how many times the appearance was re-applied.
func (c *Control) Applies() int { return c.applies }

// SetSize sets an explicit size. The global size no longer applies until
// ClearExplicitSize.
func (c *Control) SetSize(s appearance.SizeTier) {
	if !s.Valid() {
		return
	}
	c.explicit = true
	c.resize(s)
}

// ClearExplicitSize drops the explicit size. An attached widget that takes
// part in global sizing adopts the global size at once.
func (c *Control) ClearExplicitSize() {
	c.explicit = false
	hub := c.env.Hub
	if !c.live || hub == nil || !c.followSize {
		return
	}
	if hub.UseGlobalSizeByDefault() && !scope.ShouldIgnoreGlobalSize(&c.Element) {
		c.resize(hub.GlobalSize())
	}
}

// Attach inserts the widget under parent and connects it to the hub. A nil
// parent leaves the element where it is; if it hangs off no live tree it
// becomes a root until Detach. Attaching an attached widget does nothing.
func (c *Control) Attach(parent *scope.Element) {
	if c.live {
		return
	}
	if parent != nil {
		parent.AddChild(&c.Element)
	} else if !c.Element.Attached() {
		c.Element.SetRoot(true)
		c.ownRoot = true
	}
	c.coord = lifecycle.New(c.env.Hub, lifecycle.Hooks{
		ApplyAll:        c.applyAll,
		Size:            c.Size,
		SetSize:         c.globalResize,
		HasExplicitSize: c.HasExplicitSize,
		Node:            &c.Element,
	}, lifecycle.WithSizeSubscription(c.followSize), lifecycle.WithLogger(c.logger))
	c.coord.HandleAttached()
	c.live = true
	c.logger.Debug().Stringer("size", c.size).Msg("attached")
	if c.hooks.attached != nil {
		c.hooks.attached()
	}
}

// Detach disconnects the widget from the hub and removes it from its
// parent. It is safe to call more than once and before Attach.
func (c *Control) Detach() {
	if c.coord == nil {
		return
	}
	c.coord.HandleDetached()
	c.coord = nil
	c.live = false
	c.Element.RemoveFromParent()
	if c.ownRoot {
		c.Element.SetRoot(false)
		c.ownRoot = false
	}
	if c.hooks.detached != nil {
		c.hooks.detached()
	}
	c.logger.Debug().Msg("detached")
}

// applyAll re-reads the theme and rebuilds.
func (c *Control) applyAll() {
	c.palette = c.env.palette()
	c.applies++
	if c.hooks.rebuild != nil {
		c.hooks.rebuild()
	}
}

// globalResize applies a size coming from the hub. An explicit size wins.
func (c *Control) globalResize(s appearance.SizeTier) {
	if c.explicit {
		return
	}
	c.resize(s)
}

// resize changes the size. While attaching, the coordinator applies
// appearance right after, so only a live widget rebuilds here.
func (c *Control) resize(s appearance.SizeTier) {
	if s == c.size {
		return
	}
	c.size = s
	c.resizes++
	if c.live && c.hooks.rebuild != nil {
		c.hooks.rebuild()
	}
}

// innerWidth is the content width inside the frame at the current size.
func (c *Control) innerWidth() int {
	return c.size.Cells() - 4
}

// frame renders body inside the widget border with a title row.
func (c *Control) frame(focused bool, badge string, body string) string {
	pal := c.palette
	inner := c.innerWidth()

	title := pal.TitleStyle().Render(components.Truncate(c.title, inner))
	if badge != "" {
		title = components.Columns(title, pal.DimStyle().Render(badge), inner)
	}

	lines := []string{components.Fit(title, inner)}
	if body != "" {
		for _, l := range strings.Split(body, "\n") {
			lines = append(lines, components.Fit(l, inner))
		}
	}
	return pal.Frame(focused).Width(inner + 2).Render(strings.Join(lines, "\n"))
}

// sizeBadge is the short size label shown in the title row.
func (c *Control) sizeBadge() string {
	var b string
	switch c.size {
	case appearance.ExtraSmall:
		b = "xs"
	case appearance.Small:
		b = "s"
	case appearance.Large:
		b = "l"
	case appearance.ExtraLarge:
		b = "xl"
	default:
		b = "m"
	}
	if c.explicit {
		return fmt.Sprintf("[%s]", b)
	}
	return b
}
