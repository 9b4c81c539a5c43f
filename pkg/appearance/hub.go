// Package appearance holds the process-wide appearance state (active theme,
// global size tier, and whether widgets follow the global size by default)
// and broadcasts changes to subscribed widgets.
//
// A Hub is constructed explicitly and passed to every lifecycle coordinator;
// there is no package-level instance, so tests can run independent hubs in
// parallel. Setters are expected to be called from the UI context only.
package appearance

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

var (
	// ErrUnknownTheme is returned by SetTheme when a validator rejects the id.
	ErrUnknownTheme = errors.New("appearance: unknown theme")

	// ErrReentrant is returned when a setter is called from inside a
	// notification pass.
	ErrReentrant = errors.New("appearance: setter called during notification")
)

// DefaultTheme is the theme id a Hub starts with unless WithTheme is given.
const DefaultTheme = "default"

// Option configures a Hub.
type Option func(*Hub)

// WithTheme sets the initial theme id.
func WithTheme(id string) Option {
	return func(h *Hub) { h.theme = id }
}

// WithGlobalSize sets the initial global size tier.
func WithGlobalSize(s SizeTier) Option {
	return func(h *Hub) { h.size = s }
}

// WithUseGlobalSizeByDefault sets whether widgets follow the global size.
func WithUseGlobalSizeByDefault(v bool) Option {
	return func(h *Hub) { h.useGlobal = v }
}

// WithThemeValidator rejects SetTheme calls for ids the validator refuses.
func WithThemeValidator(valid func(id string) bool) Option {
	return func(h *Hub) { h.validTheme = valid }
}

// WithLogger sets the logger used to report subscriber failures.
func WithLogger(l zerolog.Logger) Option {
	return func(h *Hub) { h.logger = l }
}

// Hub is the shared appearance state plus its subscriber registries.
type Hub struct {
	mu         sync.Mutex
	theme      string
	size       SizeTier
	useGlobal  bool
	notifying  bool
	validTheme func(string) bool
	logger     zerolog.Logger

	themeSubs registry[string]
	sizeSubs  registry[SizeTier]
}

// NewHub returns a Hub with the default theme, Medium global size and
// global sizing disabled, adjusted by opts.
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		theme:  DefaultTheme,
		size:   Medium,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Theme returns the active theme id.
func (h *Hub) Theme() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.theme
}

// GlobalSize returns the active global size tier.
func (h *Hub) GlobalSize() SizeTier {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.size
}

// UseGlobalSizeByDefault reports whether size broadcasts are enabled.
func (h *Hub) UseGlobalSizeByDefault() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.useGlobal
}

// SetUseGlobalSizeByDefault toggles global sizing. Toggling does not by
// itself broadcast; the next SetGlobalSize change does.
func (h *Hub) SetUseGlobalSizeByDefault(v bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.useGlobal = v
}

// SetTheme stores id and, when it differs from the current theme, notifies
// every theme subscriber registered at the moment of the call. It reports
// whether a notification pass ran.
func (h *Hub) SetTheme(id string) (bool, error) {
	h.mu.Lock()
	if h.notifying {
		h.mu.Unlock()
		h.logger.Warn().Str("theme", id).Msg("ignoring reentrant SetTheme")
		return false, ErrReentrant
	}
	if h.validTheme != nil && !h.validTheme(id) {
		h.mu.Unlock()
		return false, fmt.Errorf("%w: %q", ErrUnknownTheme, id)
	}
	if id == h.theme {
		h.mu.Unlock()
		return false, nil
	}
	h.theme = id
	subs := h.themeSubs.snapshot()
	h.notifying = true
	h.mu.Unlock()

	h.logger.Debug().Str("theme", id).Int("subscribers", len(subs)).Msg("broadcasting theme")
	for _, e := range subs {
		h.deliver("theme", e.id, func() { e.fn(id) })
	}

	h.mu.Lock()
	h.notifying = false
	h.mu.Unlock()
	return true, nil
}

// SetGlobalSize stores size and, when it changed and global sizing is
// enabled, notifies every size subscriber registered at the moment of the
// call. It reports whether a notification pass ran.
func (h *Hub) SetGlobalSize(size SizeTier) (bool, error) {
	if !size.Valid() {
		return false, fmt.Errorf("appearance: invalid size tier %d", int(size))
	}

	h.mu.Lock()
	if h.notifying {
		h.mu.Unlock()
		h.logger.Warn().Stringer("size", size).Msg("ignoring reentrant SetGlobalSize")
		return false, ErrReentrant
	}
	if size == h.size {
		h.mu.Unlock()
		return false, nil
	}
	h.size = size
	if !h.useGlobal {
		h.mu.Unlock()
		return false, nil
	}
	subs := h.sizeSubs.snapshot()
	h.notifying = true
	h.mu.Unlock()

	h.logger.Debug().Stringer("size", size).Int("subscribers", len(subs)).Msg("broadcasting global size")
	for _, e := range subs {
		h.deliver("size", e.id, func() { e.fn(size) })
	}

	h.mu.Lock()
	h.notifying = false
	h.mu.Unlock()
	return true, nil
}

// SubscribeTheme registers fn for theme changes.
func (h *Hub) SubscribeTheme(fn func(id string)) *Subscription {
	if fn == nil {
		return &Subscription{}
	}
	h.mu.Lock()
	id := h.themeSubs.add(fn)
	h.mu.Unlock()
	return newSubscription(func() {
		h.mu.Lock()
		h.themeSubs.remove(id)
		h.mu.Unlock()
	})
}

// SubscribeSize registers fn for global size changes.
func (h *Hub) SubscribeSize(fn func(size SizeTier)) *Subscription {
	if fn == nil {
		return &Subscription{}
	}
	h.mu.Lock()
	id := h.sizeSubs.add(fn)
	h.mu.Unlock()
	return newSubscription(func() {
		h.mu.Lock()
		h.sizeSubs.remove(id)
		h.mu.Unlock()
	})
}

// ThemeSubscribers returns the number of live theme registrations.
func (h *Hub) ThemeSubscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.themeSubs.len()
}

// SizeSubscribers returns the number of live size registrations.
func (h *Hub) SizeSubscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sizeSubs.len()
}

// deliver runs one subscriber callback, containing any panic so the rest of
// the snapshot still gets notified.
func (h *Hub) deliver(kind string, id uint64, call func()) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error().
				Str("kind", kind).
				Uint64("subscriber", id).
				Interface("panic", r).
				Msg("subscriber failed during broadcast")
		}
	}()
	call()
}
