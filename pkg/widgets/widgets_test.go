package widgets

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/tinyland/lab/pulse-widgets/pkg/appearance"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/collectors"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/collectors/sysmetrics"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/collectors/weather"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/config"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/dispatch"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/loaders"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/refresh"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/scope"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/session"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/theme"
)

func newEnv(t *testing.T, opts ...appearance.Option) Env {
	t.Helper()
	themes := theme.NewRegistry()
	opts = append([]appearance.Option{appearance.WithThemeValidator(themes.Has)}, opts...)
	return Env{
		Hub:     appearance.NewHub(opts...),
		Themes:  themes,
		Sources: collectors.NewRegistry(zerolog.Nop()),
	}
}

func TestControlAdoptsGlobalSizeOnAttach(t *testing.T) {
	t.Parallel()
	env := newEnv(t, appearance.WithUseGlobalSizeByDefault(true), appearance.WithGlobalSize(appearance.Large))
	root := scope.NewRoot()

	c := NewCard("c", "Card", "", env)
	assert.Equal(t, appearance.Medium, c.Size(), "construction must not read the hub")

	c.Attach(root)
	assert.Equal(t, appearance.Large, c.Size())
	assert.Equal(t, 1, c.Applies())
	assert.True(t, c.Attached())
}

func TestControlKeepsExplicitSize(t *testing.T) {
	t.Parallel()
	env := newEnv(t, appearance.WithUseGlobalSizeByDefault(true), appearance.WithGlobalSize(appearance.Large))
	root := scope.NewRoot()

	c := NewCard("c", "Card", "", env, WithSize(appearance.Small))
	c.Attach(root)
	assert.Equal(t, appearance.Small, c.Size())
	assert.True(t, c.HasExplicitSize())

	c.ClearExplicitSize()
	assert.Equal(t, appearance.Large, c.Size(), "clearing adopts the global size")
	assert.False(t, c.HasExplicitSize())
}

func TestGlobalSizePropagationThroughCards(t *testing.T) {
	t.Parallel()
	env := newEnv(t, appearance.WithUseGlobalSizeByDefault(true))
	root := scope.NewRoot()

	w1 := NewCard("w1", "W1", "", env)
	w2 := NewCard("w2", "W2", "", env, WithIgnoreGlobalSize(true))
	w3 := NewLoader("w3", "line", env)
	w2.Add(w3)

	w1.Attach(root)
	w2.Attach(root)
	defer w2.Detach()

	before2, before3 := w2.Size(), w3.Size()
	_, err := env.Hub.SetGlobalSize(appearance.Large)
	require.NoError(t, err)

	assert.Equal(t, appearance.Large, w1.Size())
	assert.Equal(t, before2, w2.Size())
	assert.Equal(t, before3, w3.Size(), "child inherits the card's override")
}

func TestThemeChangeReappliesAttachedWidgets(t *testing.T) {
	t.Parallel()
	env := newEnv(t)
	root := scope.NewRoot()

	var ws []*Card
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		c := NewCard(id, id, "", env)
		c.Attach(root)
		ws = append(ws, c)
	}
	gone := NewCard("gone", "gone", "", env)
	gone.Attach(root)
	gone.Detach()

	_, err := env.Hub.SetTheme("nord")
	require.NoError(t, err)

	for _, c := range ws {
		assert.Equal(t, 2, c.Applies(), c.ID())
		assert.Equal(t, "nord", c.Palette().Name)
	}
	assert.Equal(t, 1, gone.Applies())
}

func TestDetachIsIdempotent(t *testing.T) {
	t.Parallel()
	env := newEnv(t)
	root := scope.NewRoot()

	c := NewCard("c", "Card", "", env)
	c.Detach()

	for range 20 {
		c.Attach(root)
		c.Detach()
		c.Detach()
	}
	assert.Zero(t, env.Hub.ThemeSubscribers())
	assert.Zero(t, env.Hub.SizeSubscribers())
	assert.Empty(t, root.Children())
	assert.False(t, c.Attached())
}

func TestCardAttachesChildren(t *testing.T) {
	t.Parallel()
	env := newEnv(t)
	root := scope.NewRoot()

	card := NewCard("card", "Card", "hello", env)
	child := NewCard("child", "Child", "", env)
	card.Add(child)
	assert.False(t, child.Attached())

	card.Attach(root)
	assert.True(t, child.Attached())
	assert.Equal(t, 2, env.Hub.ThemeSubscribers())

	late := NewCard("late", "Late", "", env)
	card.Add(late)
	assert.True(t, late.Attached(), "children added to a live card attach at once")

	assert.True(t, card.Remove("late"))
	assert.False(t, late.Attached())
	assert.False(t, card.Remove("late"))

	card.Detach()
	assert.False(t, child.Attached())
	assert.Zero(t, env.Hub.ThemeSubscribers())

	view := ansi.Strip(card.View(false))
	assert.Contains(t, view, "hello")
	assert.Contains(t, view, "Child")
}

func TestWithoutSizeSubscription(t *testing.T) {
	t.Parallel()
	env := newEnv(t, appearance.WithUseGlobalSizeByDefault(true), appearance.WithGlobalSize(appearance.Small))
	root := scope.NewRoot()

	c := NewCard("c", "Card", "", env, WithSizeSubscription(false))
	c.Attach(root)
	defer c.Detach()
	assert.Equal(t, appearance.Medium, c.Size())
	assert.Zero(t, env.Hub.SizeSubscribers())
}

// stopCounter is a handle that counts Stop calls.
type stopCounter struct {
	mu    sync.Mutex
	stops int
}

func (s *stopCounter) Stop() {
	s.mu.Lock()
	s.stops++
	s.mu.Unlock()
}

func (s *stopCounter) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stops
}

func TestLoaderRebuildClosesPreviousSession(t *testing.T) {
	t.Parallel()
	env := newEnv(t, appearance.WithUseGlobalSizeByDefault(true))
	root := scope.NewRoot()

	l := NewLoader("l", "dots", env)
	var visuals []*loaders.Visual
	l.build = func(variant string, size appearance.SizeTier, pal theme.Theme) (*loaders.Visual, error) {
		v, err := loaders.Build(variant, size, pal)
		if err == nil {
			visuals = append(visuals, v)
		}
		return v, err
	}

	l.Attach(root)
	require.Len(t, visuals, 1)
	first := l.Session()

	_, err := env.Hub.SetTheme("dracula")
	require.NoError(t, err)
	require.Len(t, visuals, 2)
	assert.Equal(t, session.Closed, first.State())
	assert.True(t, visuals[0].Stopped())
	assert.False(t, visuals[1].Stopped())

	_, err = env.Hub.SetGlobalSize(appearance.Large)
	require.NoError(t, err)
	require.Len(t, visuals, 3)
	assert.True(t, visuals[1].Stopped())
	assert.Len(t, visuals[2].Handles(), 2, "large scenes run two animations")

	l.SetVariant("bounce")
	require.Len(t, visuals, 4)
	assert.True(t, visuals[2].Stopped())
	assert.Equal(t, "bounce", l.Variant())

	l.Detach()
	assert.True(t, visuals[3].Stopped())
	assert.Equal(t, session.Closed, l.Session().State())
	assert.Equal(t, 4, l.Builds())
}

func TestLoaderClosesEveryTrackedHandle(t *testing.T) {
	t.Parallel()
	env := newEnv(t)
	root := scope.NewRoot()

	l := NewLoader("l", "dots", env)
	l.Attach(root)

	extra := &stopCounter{}
	l.Session().Track(extra)
	l.Detach()
	assert.Equal(t, 1, extra.count())

	late := &stopCounter{}
	l.Session().Track(late)
	assert.Equal(t, 1, late.count(), "tracking on a closed session stops at once")
	visuals, timers := l.Session().Tracked()
	assert.Zero(t, visuals+timers)
}

func TestLoaderBuildErrorIsShown(t *testing.T) {
	t.Parallel()
	env := newEnv(t)
	l := NewLoader("l", "no-such-variant", env)
	l.Attach(scope.NewRoot())
	defer l.Detach()

	require.Error(t, l.Err())
	assert.True(t, errors.Is(l.Err(), loaders.ErrUnknownVariant))
	assert.Contains(t, ansi.Strip(l.View(false)), "unknown variant")

	l.SetVariant("line")
	assert.NoError(t, l.Err())
}

func TestLoaderNextVariantCycles(t *testing.T) {
	t.Parallel()
	l := NewLoader("l", "", newEnv(t))
	assert.Equal(t, loaders.DefaultVariant, l.Variant())

	seen := map[string]bool{}
	for range len(loaders.Variants()) {
		seen[l.Variant()] = true
		l.NextVariant()
	}
	assert.Len(t, seen, len(loaders.Variants()))
	assert.Equal(t, loaders.DefaultVariant, l.Variant())
	assert.Zero(t, l.Builds(), "a detached loader does not build")
}

func sampleReport() weather.Report {
	return weather.Report{
		Location:    weather.Location{Name: "Berlin", Country: "Germany"},
		Units:       weather.Metric,
		Temperature: 14.2,
		Humidity:    71,
		Code:        3,
		FetchedAt:   time.Now(),
	}
}

// uiEnv returns an Env whose executor is a Loop, and the loop.
func uiEnv(t *testing.T, src collectors.Source) (Env, *dispatch.Loop) {
	t.Helper()
	env := newEnv(t)
	loop := dispatch.NewLoop()
	t.Cleanup(loop.Close)
	env.Exec = loop
	if src != nil {
		require.NoError(t, env.Sources.Register(src))
	}
	return env, loop
}

func TestWeatherLoadsOnAttach(t *testing.T) {
	t.Parallel()
	src := collectors.NewMockSource(weather.SourceName, time.Minute, collectors.WithData(sampleReport()))
	env, loop := uiEnv(t, src)

	w := NewWeather("w", "Berlin", env, nil)
	loop.Do(func() { w.Attach(scope.NewRoot()) })
	require.Eventually(t, func() bool {
		var done bool
		loop.Do(func() { done = w.Report() != nil && !w.Loading() })
		return done
	}, 2*time.Second, 5*time.Millisecond)

	loop.Do(func() {
		view := ansi.Strip(w.View(false))
		assert.Contains(t, view, "14°C")
		assert.Contains(t, view, "Berlin, Germany")
		assert.Empty(t, w.ErrorMessage())
		w.Detach()
	})
}

func TestWeatherFailureKeepsStaleReport(t *testing.T) {
	t.Parallel()
	src := collectors.NewMockSource(weather.SourceName, time.Minute, collectors.WithData(sampleReport()))
	env, loop := uiEnv(t, src)

	w := NewWeather("w", "Berlin", env, nil)
	loop.Do(func() { w.Attach(scope.NewRoot()) })
	require.Eventually(t, func() bool {
		var ok bool
		loop.Do(func() { ok = w.Report() != nil })
		return ok
	}, 2*time.Second, 5*time.Millisecond)

	src.SetError(weather.ErrNotFound)
	loop.Do(w.Refresh)
	require.Eventually(t, func() bool {
		var msg string
		loop.Do(func() { msg = w.ErrorMessage() })
		return msg != ""
	}, 2*time.Second, 5*time.Millisecond)

	loop.Do(func() {
		assert.Equal(t, "place not found", w.ErrorMessage())
		assert.NotNil(t, w.Report(), "previous report stays visible")
		view := ansi.Strip(w.View(false))
		assert.Contains(t, view, "14°C")
		assert.Contains(t, view, "place not found")
		assert.False(t, w.Loading())
		w.Detach()
	})
}

func TestWeatherLatestRefreshWins(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	var calls sync.Mutex
	n := 0
	src := collectors.NewMockSource(weather.SourceName, time.Minute,
		collectors.WithFetchFunc(func(ctx context.Context, key string) (any, error) {
			calls.Lock()
			n++
			call := n
			calls.Unlock()
			r := sampleReport()
			if call == 1 {
				// The first load ignores cancellation and finishes late.
				<-release
				r.Temperature = -40
				return r, nil
			}
			r.Temperature = 21
			return r, nil
		}))
	env, loop := uiEnv(t, src)

	started := func() int {
		calls.Lock()
		defer calls.Unlock()
		return n
	}

	w := NewWeather("w", "Berlin", env, nil)
	loop.Do(func() { w.Attach(scope.NewRoot()) })
	require.Eventually(t, func() bool { return started() == 1 }, 2*time.Second, 5*time.Millisecond)
	loop.Do(w.Refresh)
	require.Eventually(t, func() bool {
		var ok bool
		loop.Do(func() { ok = w.Report() != nil })
		return ok
	}, 2*time.Second, 5*time.Millisecond)

	var ctrl *refresh.Controller[weather.Report]
	loop.Do(func() { ctrl = w.Controller() })
	close(release)
	ctrl.Wait()
	loop.Do(func() {
		assert.Equal(t, 21.0, w.Report().Temperature, "superseded load must not overwrite")
		assert.Equal(t, 2, w.Fetches())
		w.Detach()
	})
}

func TestWeatherAutoRefreshStopsOnDetach(t *testing.T) {
	t.Parallel()
	src := collectors.NewMockSource(weather.SourceName, time.Minute, collectors.WithData(sampleReport()))
	env, loop := uiEnv(t, src)

	const interval = 20 * time.Millisecond
	w := NewWeather("w", "Berlin", env, []WeatherOption{WithAutoRefresh(interval)})
	loop.Do(func() { w.Attach(scope.NewRoot()) })

	var auto *refresh.AutoRefresh
	var ctrl *refresh.Controller[weather.Report]
	loop.Do(func() { auto, ctrl = w.AutoRefresh(), w.Controller() })
	require.NotNil(t, auto)
	require.Eventually(t, func() bool { return auto.Ticks() >= 2 }, 2*time.Second, 5*time.Millisecond)

	loop.Do(w.Detach)
	// Loads started before the detach may still reach the source.
	ctrl.Wait()
	after := src.CallCount()
	time.Sleep(5 * interval)
	assert.Equal(t, after, src.CallCount(), "no fetch after detach")

	loop.Do(func() {
		assert.Nil(t, w.AutoRefresh())
		assert.False(t, w.Loading())
	})
}

type cachedSource struct {
	*collectors.MockSource
	report weather.Report
}

func (c cachedSource) LastKnown(string) (weather.Report, bool) {
	r := c.report
	r.Stale = true
	return r, true
}

func TestWeatherShowsLastKnownWhileLoading(t *testing.T) {
	t.Parallel()
	mock := collectors.NewMockSource(weather.SourceName, time.Minute,
		collectors.WithDelay(time.Hour), collectors.WithData(sampleReport()))
	env, loop := uiEnv(t, cachedSource{MockSource: mock, report: sampleReport()})

	w := NewWeather("w", "Berlin", env, nil)
	loop.Do(func() {
		w.Attach(scope.NewRoot())
		if assert.NotNil(t, w.Report()) {
			assert.True(t, w.Report().Stale)
		}
		assert.True(t, w.Loading())
		assert.Contains(t, ansi.Strip(w.View(false)), "as of")
		w.Detach()
		assert.False(t, w.Loading())
	})
}

func TestWeatherWithoutSource(t *testing.T) {
	t.Parallel()
	env, loop := uiEnv(t, nil)
	w := NewWeather("w", "Berlin", env, nil)
	loop.Do(func() { w.Attach(scope.NewRoot()) })
	require.Eventually(t, func() bool {
		var msg string
		loop.Do(func() { msg = w.ErrorMessage() })
		return msg != ""
	}, 2*time.Second, 5*time.Millisecond)
	loop.Do(func() {
		assert.Equal(t, "no weather source", w.ErrorMessage())
		w.Detach()
	})
}

func TestWeatherRefreshWhileDetachedIsNoop(t *testing.T) {
	t.Parallel()
	src := collectors.NewMockSource(weather.SourceName, time.Minute, collectors.WithData(sampleReport()))
	env, _ := uiEnv(t, src)
	w := NewWeather("w", "Berlin", env, nil)
	w.Refresh()
	assert.Zero(t, w.Fetches())
	assert.Zero(t, src.CallCount())
}

func TestSystemCardRendersSnapshot(t *testing.T) {
	t.Parallel()
	snap := sysmetrics.Snapshot{
		Host:       "box",
		CPUPercent: 42,
		MemUsedPct: 25,
		Disks:      []sysmetrics.Disk{{Path: "/", UsedPercent: 60}, {Path: "/home", UsedPercent: 10}},
		Uptime:     50 * time.Hour,
	}
	src := collectors.NewMockSource(sysmetrics.SourceName, time.Second, collectors.WithData(snap))
	env, loop := uiEnv(t, src)

	s := NewSystemCard("sys", 0, env, WithSize(appearance.Large))
	loop.Do(func() { s.Attach(scope.NewRoot()) })
	require.Eventually(t, func() bool {
		var n int
		loop.Do(func() { n = s.Samples() })
		return n == 1
	}, 2*time.Second, 5*time.Millisecond)

	loop.Do(func() {
		view := ansi.Strip(s.View(true))
		assert.Contains(t, view, "cpu")
		assert.Contains(t, view, " 42%")
		assert.Contains(t, view, "home")
		assert.Contains(t, view, "up 2d 2h")
		assert.Contains(t, view, "box")

		s.SetSize(appearance.ExtraSmall)
		small := ansi.Strip(s.View(false))
		assert.NotContains(t, small, "mem")
		s.Detach()
	})
}

func TestBuildFromShowcasePreset(t *testing.T) {
	t.Parallel()
	env := newEnv(t, appearance.WithUseGlobalSizeByDefault(true))
	ws, err := Build(config.GalleryPreset("showcase"), env, Defaults{
		LoaderVariant:   "line",
		Locations:       []string{"Berlin"},
		WeatherInterval: time.Hour,
		SystemInterval:  time.Hour,
	})
	require.NoError(t, err)
	require.Len(t, ws, 5)

	ids := make([]string, len(ws))
	for i, w := range ws {
		ids[i] = w.ID()
	}
	assert.Equal(t, []string{"weather-1", "system-1", "card-1", "card-2", "loader-1"}, ids)

	pinned := ws[3].(*Card)
	require.Len(t, pinned.Children(), 1)
	child := pinned.Children()[0].(*Loader)
	assert.Equal(t, "card-2.loader-1", child.ID())
	assert.Equal(t, "pulse", child.Variant())
	assert.Equal(t, "line", ws[4].(*Loader).Variant())

	root := scope.NewRoot()
	pinned.Attach(root)
	defer pinned.Detach()
	assert.True(t, scope.ShouldIgnoreGlobalSize(child.Node()))
}

func TestBuildRejectsBadDeclarations(t *testing.T) {
	t.Parallel()
	env := newEnv(t)
	_, err := Build([]config.WidgetConfig{{Type: "weather"}}, env, Defaults{})
	assert.Error(t, err, "weather without a location")

	_, err = Build([]config.WidgetConfig{{Type: "loader", Children: []config.WidgetConfig{{Type: "card"}}}}, env, Defaults{})
	assert.Error(t, err)

	_, err = Build([]config.WidgetConfig{{Type: "card", Size: "huge"}}, env, Defaults{})
	assert.Error(t, err)
}

func TestExplicitSizeSurvivesGlobalBroadcast(t *testing.T) {
	t.Parallel()
	env := newEnv(t, appearance.WithUseGlobalSizeByDefault(true))
	root := scope.NewRoot()

	fixed := NewCard("fixed", "Fixed", "", env, WithSize(appearance.Small))
	follower := NewCard("follower", "Follower", "", env)
	fixed.Attach(root)
	follower.Attach(root)
	defer fixed.Detach()
	defer follower.Detach()

	_, err := env.Hub.SetGlobalSize(appearance.ExtraLarge)
	require.NoError(t, err)
	assert.Equal(t, appearance.Small, fixed.Size())
	assert.Equal(t, appearance.ExtraLarge, follower.Size())

	fixed.SetSize(appearance.Large)
	_, err = env.Hub.SetGlobalSize(appearance.ExtraSmall)
	require.NoError(t, err)
	assert.Equal(t, appearance.Large, fixed.Size(), "SetSize makes the size explicit")

	fixed.ClearExplicitSize()
	assert.Equal(t, appearance.ExtraSmall, fixed.Size())
	_, err = env.Hub.SetGlobalSize(appearance.Medium)
	require.NoError(t, err)
	assert.Equal(t, appearance.Medium, fixed.Size())
}

func TestAttachWithoutParentKeepsIgnoreFlag(t *testing.T) {
	t.Parallel()
	env := newEnv(t, appearance.WithUseGlobalSizeByDefault(true), appearance.WithGlobalSize(appearance.Large))

	c := NewCard("c", "Card", "", env, WithIgnoreGlobalSize(true))
	c.Attach(nil)
	assert.True(t, c.Node().Attached())
	assert.True(t, scope.ShouldIgnoreGlobalSize(c.Node()))
	assert.Equal(t, appearance.Medium, c.Size())

	_, err := env.Hub.SetGlobalSize(appearance.ExtraLarge)
	require.NoError(t, err)
	assert.Equal(t, appearance.Medium, c.Size())

	c.Detach()
	assert.False(t, c.Node().Attached(), "the root mark goes with the attachment")

	// Under a live tree the widget is not made a root.
	root := scope.NewRoot()
	child := NewCard("child", "Child", "", env)
	root.AddChild(child.Node())
	child.Attach(nil)
	assert.Equal(t, appearance.ExtraLarge, child.Size())
	child.Detach()
}

func TestWeatherThemeChangeStartsNewRefresh(t *testing.T) {
	t.Parallel()
	src := collectors.NewMockSource(weather.SourceName, time.Minute, collectors.WithData(sampleReport()))
	env, loop := uiEnv(t, src)

	w := NewWeather("w", "Berlin", env, nil)
	loop.Do(func() { w.Attach(scope.NewRoot()) })
	loop.Do(func() { assert.Equal(t, 1, w.Fetches()) })

	var err error
	loop.Do(func() { _, err = env.Hub.SetTheme("nord") })
	require.NoError(t, err)
	loop.Do(func() { w.SetSize(appearance.Large) })

	loop.Do(func() { assert.Equal(t, 3, w.Fetches()) })
	require.Eventually(t, func() bool {
		var done bool
		loop.Do(func() { done = w.Report() != nil && !w.Loading() })
		return done
	}, 2*time.Second, 5*time.Millisecond)
	loop.Do(w.Detach)
}
