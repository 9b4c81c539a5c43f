// Package loaders builds the animated loading visuals used by the loader
// widget and by data widgets while a refresh is in flight. Build starts every
// animation a visual needs and hands back the handles, so the owning session
// can stop them when the widget detaches.
package loaders

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/spinner"

	"gitlab.com/tinyland/lab/pulse-widgets/pkg/appearance"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/session"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/theme"
)

// ErrUnknownVariant is returned by Build for unregistered variant names.
var ErrUnknownVariant = errors.New("loaders: unknown variant")

// DefaultVariant is used when a loader is configured without a variant.
const DefaultVariant = "dots"

var spinners = map[string]spinner.Spinner{
	"dots":   spinner.Dot,
	"line":   spinner.Line,
	"pulse":  spinner.Pulse,
	"globe":  spinner.Globe,
	"points": spinner.Points,
	"moon":   spinner.Moon,
	"meter":  spinner.Meter,
}

var springs = map[string]func(width int, pal theme.Theme) animation{
	"breathe": newBreathe,
	"bounce":  newBounce,
}

// Variants lists every variant name, sorted.
func Variants() []string {
	names := make([]string, 0, len(spinners)+len(springs))
	for n := range spinners {
		names = append(names, n)
	}
	for n := range springs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Known reports whether variant can be built.
func Known(variant string) bool {
	_, ok := spinners[variant]
	if !ok {
		_, ok = springs[variant]
	}
	return ok
}

// animation renders frame n of one part of a visual.
type animation struct {
	interval time.Duration
	render   func(n int) string
}

// layer is one animated part with its latest frame.
type layer struct {
	mu   sync.RWMutex
	view string
}

func (l *layer) set(s string) {
	l.mu.Lock()
	l.view = s
	l.mu.Unlock()
}

func (l *layer) get() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.view
}

// Visual is a built loader scene. It is safe for concurrent use.
type Visual struct {
	variant string
	size    appearance.SizeTier
	width   int

	layers  []*layer
	loops   []*session.FrameLoop
	frames  atomic.Int64
	stopped atomic.Bool
}

// Build creates the scene for variant at size, colored with palette, and
// starts its animations. Large and extra-large scenes add a second animated
// track under the main one.
func Build(variant string, size appearance.SizeTier, palette theme.Theme) (*Visual, error) {
	if variant == "" {
		variant = DefaultVariant
	}
	if !size.Valid() {
		size = appearance.Medium
	}
	width := max(size.Cells()-4, 4)

	var anims []animation
	if sp, ok := spinners[variant]; ok {
		anims = append(anims, spinnerAnimation(sp, size, palette))
	} else if mk, ok := springs[variant]; ok {
		anims = append(anims, mk(width, palette))
	} else {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, variant)
	}
	if size >= appearance.Large {
		anims = append(anims, shimmer(width, palette))
	}

	v := &Visual{variant: variant, size: size, width: width}
	for _, a := range anims {
		l := &layer{view: a.render(0)}
		render := a.render
		loop := session.NewFrameLoop(a.interval, func(n int) {
			l.set(render(n))
			v.frames.Add(1)
		})
		v.layers = append(v.layers, l)
		v.loops = append(v.loops, loop)
	}
	for _, loop := range v.loops {
		loop.Start()
	}
	return v, nil
}

// Variant returns the variant name.
func (v *Visual) Variant() string { return v.variant }

// Size returns the tier the scene was built for.
func (v *Visual) Size() appearance.SizeTier { return v.size }

// Width returns the scene width in cells.
func (v *Visual) Width() int { return v.width }

// View returns the latest frame of every layer, one per line.
func (v *Visual) View() string {
	parts := make([]string, len(v.layers))
	for i, l := range v.layers {
		parts[i] = l.get()
	}
	return strings.Join(parts, "\n")
}

// Frames returns how many frames have been drawn since Build.
func (v *Visual) Frames() int64 { return v.frames.Load() }

// Handles returns one handle per running animation.
func (v *Visual) Handles() []session.Handle {
	hs := make([]session.Handle, len(v.loops))
	for i, l := range v.loops {
		hs[i] = l
	}
	return hs
}

// Stop halts every animation. It is safe to call more than once.
func (v *Visual) Stop() {
	if !v.stopped.CompareAndSwap(false, true) {
		return
	}
	for _, l := range v.loops {
		l.Stop()
	}
}

// Stopped reports whether every animation has been stopped, either by Stop
// or through its handles.
func (v *Visual) Stopped() bool {
	if v.stopped.Load() {
		return true
	}
	for _, l := range v.loops {
		if !l.Stopped() {
			return false
		}
	}
	return true
}
