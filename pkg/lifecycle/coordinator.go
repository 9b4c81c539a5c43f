// Package lifecycle connects one widget instance to the appearance hub for
// the time it is part of a live tree.
//
// A Coordinator is created alongside its widget but only reads shared state
// once the widget is attached: declarative configuration (explicit size,
// opt-out flags) is assigned after construction and at or before attach, so
// applying the global size any earlier would overwrite it.
package lifecycle

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"gitlab.com/tinyland/lab/pulse-widgets/pkg/appearance"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/scope"
)

// State is a coordinator lifecycle state.
type State int

const (
	Unattached State = iota
	Attached
	Detached
)

func (s State) String() string {
	switch s {
	case Unattached:
		return "unattached"
	case Attached:
		return "attached"
	case Detached:
		return "detached"
	}
	return "unknown"
}

// Hooks are the widget callbacks a Coordinator drives. Nil hooks are
// treated as no-ops.
type Hooks struct {
	// ApplyAll re-synchronizes the widget's whole appearance.
	ApplyAll func()

	// Size returns the widget's current size tier.
	Size func() appearance.SizeTier

	// SetSize applies a size tier coming from the global setting.
	SetSize func(appearance.SizeTier)

	// HasExplicitSize reports whether the widget was given its own size.
	HasExplicitSize func() bool

	// Node locates the widget in its tree for scope resolution.
	Node scope.Node
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithSizeSubscription controls whether the coordinator follows global size
// broadcasts. Enabled by default.
func WithSizeSubscription(enabled bool) Option {
	return func(c *Coordinator) { c.followSize = enabled }
}

// WithLogger sets the coordinator's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

// Coordinator owns one widget's hub subscriptions.
type Coordinator struct {
	id         string
	hub        *appearance.Hub
	hooks      Hooks
	followSize bool
	logger     zerolog.Logger

	mu       sync.Mutex
	state    State
	themeSub *appearance.Subscription
	sizeSub  *appearance.Subscription
}

// New records configuration only; it does not touch hub state.
func New(hub *appearance.Hub, hooks Hooks, opts ...Option) *Coordinator {
	c := &Coordinator{
		id:         uuid.NewString(),
		hub:        hub,
		hooks:      hooks,
		followSize: true,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With().Str("coordinator", c.id).Logger()
	return c
}

// ID returns the coordinator's unique id.
func (c *Coordinator) ID() string {
	return c.id
}

// State returns the current lifecycle state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// FollowsSize reports whether size broadcasts are subscribed on attach.
func (c *Coordinator) FollowsSize() bool {
	return c.followSize
}

// HandleAttached subscribes to the hub, adopts the global size when the
// widget participates and has no size of its own, then applies appearance
// once. It does nothing unless the coordinator is Unattached.
func (c *Coordinator) HandleAttached() {
	c.mu.Lock()
	if c.state != Unattached {
		state := c.state
		c.mu.Unlock()
		c.logger.Debug().Stringer("state", state).Msg("attach ignored")
		return
	}
	if c.hub == nil {
		c.state = Attached
		c.mu.Unlock()
		c.applyAll()
		return
	}
	c.state = Attached
	c.themeSub = c.hub.SubscribeTheme(c.onThemeChanged)
	if c.followSize {
		c.sizeSub = c.hub.SubscribeSize(c.onSizeChanged)
	}
	c.mu.Unlock()

	if c.followSize && c.hub.UseGlobalSizeByDefault() &&
		!scope.ShouldIgnoreGlobalSize(c.hooks.Node) && !c.hasExplicitSize() {
		c.setSize(c.hub.GlobalSize())
	}
	c.applyAll()
}

// HandleDetached releases every subscription. It is idempotent and safe to
// call before HandleAttached.
func (c *Coordinator) HandleDetached() {
	c.mu.Lock()
	c.state = Detached
	themeSub, sizeSub := c.themeSub, c.sizeSub
	c.themeSub, c.sizeSub = nil, nil
	c.mu.Unlock()

	themeSub.Unsubscribe()
	sizeSub.Unsubscribe()
}

func (c *Coordinator) onThemeChanged(id string) {
	if c.State() != Attached {
		return
	}
	c.logger.Debug().Str("theme", id).Msg("theme changed")
	c.applyAll()
}

func (c *Coordinator) onSizeChanged(size appearance.SizeTier) {
	if c.State() != Attached {
		return
	}
	if scope.ShouldIgnoreGlobalSize(c.hooks.Node) {
		return
	}
	if c.hub.UseGlobalSizeByDefault() {
		c.setSize(size)
	}
}

func (c *Coordinator) applyAll() {
	if c.hooks.ApplyAll != nil {
		c.hooks.ApplyAll()
	}
}

func (c *Coordinator) setSize(s appearance.SizeTier) {
	if c.hooks.SetSize != nil {
		c.hooks.SetSize(s)
	}
}

func (c *Coordinator) hasExplicitSize() bool {
	if c.hooks.HasExplicitSize == nil {
		return false
	}
	return c.hooks.HasExplicitSize()
}

// Size returns the widget's size through its hook, or Medium without one.
func (c *Coordinator) Size() appearance.SizeTier {
	if c.hooks.Size == nil {
		return appearance.Medium
	}
	return c.hooks.Size()
}
