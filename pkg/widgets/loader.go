package widgets

import (
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/appearance"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/loaders"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/session"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/theme"
)

// BuildFunc builds an animated visual. loaders.Build is the default.
type BuildFunc func(variant string, size appearance.SizeTier, palette theme.Theme) (*loaders.Visual, error)

// Loader shows one animated loader variant. Every rebuild closes the
// previous session, and with it every animation the previous visual
// started, before the next visual is built.
type Loader struct {
	Control
	variant string
	build   BuildFunc

	session *session.Session
	visual  *loaders.Visual
	err     error
	builds  int
}

// NewLoader creates a loader for variant.
func NewLoader(id, variant string, env Env, opts ...Option) *Loader {
	if variant == "" {
		variant = loaders.DefaultVariant
	}
	l := &Loader{variant: variant, build: loaders.Build}
	l.init(id, "Loader", env, hooks{
		rebuild:  l.rebuild,
		detached: l.teardown,
	}, opts)
	return l
}

// Variant returns the current variant.
func (l *Loader) Variant() string { return l.variant }

// SetVariant switches variant, rebuilding when attached.
func (l *Loader) SetVariant(v string) {
	if v == "" || v == l.variant {
		return
	}
	l.variant = v
	if l.Attached() {
		l.rebuild()
	}
}

// NextVariant moves to the next variant in name order.
func (l *Loader) NextVariant() {
	names := loaders.Variants()
	next := names[0]
	for i, n := range names {
		if n == l.variant {
			next = names[(i+1)%len(names)]
			break
		}
	}
	l.SetVariant(next)
}

// Session returns the current animation session, or nil.
func (l *Loader) Session() *session.Session { return l.session }

// Builds returns how many visuals have been built.
func (l *Loader) Builds() int { return l.builds }

// Err returns the last build error.
func (l *Loader) Err() error { return l.err }

func (l *Loader) rebuild() {
	l.teardown()

	s := session.New(session.WithLogger(l.logger))
	s.Open()
	l.session = s
	l.builds++

	v, err := l.build(l.variant, l.size, l.palette)
	if err != nil {
		l.err = err
		l.logger.Warn().Err(err).Str("variant", l.variant).Msg("building loader failed")
		return
	}
	l.err = nil
	l.visual = v
	for _, h := range v.Handles() {
		s.Track(h)
	}
}

// teardown closes the current session. Close returns only after every
// tracked animation stopped.
func (l *Loader) teardown() {
	if l.session != nil {
		l.session.Close()
	}
	l.visual = nil
}

// View renders the current frame of the visual.
func (l *Loader) View(focused bool) string {
	body := ""
	switch {
	case l.err != nil:
		body = l.palette.StatusStyle(theme.StatusError).Render(l.err.Error())
	case l.visual != nil:
		body = l.visual.View()
	default:
		body = l.palette.DimStyle().Render("idle")
	}
	return l.frame(focused, l.variant+" "+l.sizeBadge(), body)
}
