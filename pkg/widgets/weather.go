package widgets

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gitlab.com/tinyland/lab/pulse-widgets/pkg/appearance"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/collectors"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/collectors/weather"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/components"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/loaders"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/refresh"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/session"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/theme"
)

// lastKnown is implemented by sources that can serve a cached report.
type lastKnown interface {
	LastKnown(place string) (weather.Report, bool)
}

// WeatherOption configures a Weather widget.
type WeatherOption func(*Weather)

// WithAutoRefresh refreshes every interval while attached. Zero disables it.
func WithAutoRefresh(interval time.Duration) WeatherOption {
	return func(w *Weather) { w.interval = interval }
}

// WithSourceName selects the registry source to fetch from.
func WithSourceName(name string) WeatherOption {
	return func(w *Weather) { w.source = name }
}

// Weather shows current conditions for one place. A refresh runs on attach,
// on Refresh and on the auto refresh timer; starting one supersedes the one
// in flight. On failure the previous report stays visible, marked stale.
type Weather struct {
	Control
	place    string
	source   string
	interval time.Duration

	ctrl    *refresh.Controller[weather.Report]
	auto    *refresh.AutoRefresh
	spinner *session.Session
	visual  *loaders.Visual

	report   *weather.Report
	errMsg   string
	loading  bool
	fetches  int
	failures int
}

// NewWeather creates a weather widget for place.
func NewWeather(id, place string, env Env, wopts []WeatherOption, opts ...Option) *Weather {
	w := &Weather{place: place, source: weather.SourceName}
	for _, opt := range wopts {
		opt(w)
	}
	w.init(id, place, env, hooks{
		rebuild:  w.rebuild,
		attached: w.start,
		detached: w.stop,
	}, opts)
	return w
}

// Place returns the place name.
func (w *Weather) Place() string { return w.place }

// Report returns the last report shown, or nil.
func (w *Weather) Report() *weather.Report { return w.report }

// ErrorMessage returns the message of the last failed refresh, or "".
func (w *Weather) ErrorMessage() string { return w.errMsg }

// Loading reports whether a refresh is in flight.
func (w *Weather) Loading() bool { return w.loading }

// Fetches returns how many refreshes were started.
func (w *Weather) Fetches() int { return w.fetches }

// AutoRefresh returns the running auto refresh loop, or nil.
func (w *Weather) AutoRefresh() *refresh.AutoRefresh { return w.auto }

// Controller returns the refresh controller of the current attachment.
func (w *Weather) Controller() *refresh.Controller[weather.Report] { return w.ctrl }

func (w *Weather) start() {
	w.ctrl = refresh.NewController[weather.Report](
		refresh.WithExecutor(w.env.Exec),
		refresh.WithLogger(w.logger),
	)
	if w.report == nil {
		if src, ok := w.lookup(); ok {
			if r, ok := src.LastKnown(w.place); ok {
				w.report = &r
			}
		}
	}
	if w.interval > 0 {
		auto, err := refresh.NewAutoRefresh(w.interval, w.Refresh,
			refresh.WithExecutor(w.env.Exec),
			refresh.WithLogger(w.logger),
		)
		if err == nil {
			w.auto = auto
			auto.Start()
		}
	}
	w.Refresh()
}

func (w *Weather) stop() {
	if w.auto != nil {
		w.auto.Stop()
		w.auto = nil
	}
	if w.ctrl != nil {
		w.ctrl.Close()
	}
	w.setLoading(false)
}

func (w *Weather) lookup() (lastKnown, bool) {
	if w.env.Sources == nil {
		return nil, false
	}
	src, ok := w.env.Sources.Get(w.source)
	if !ok {
		return nil, false
	}
	lk, ok := src.(lastKnown)
	return lk, ok
}

// Refresh starts a new fetch, superseding any fetch in flight. It does
// nothing while detached.
func (w *Weather) Refresh() {
	if !w.Attached() || w.ctrl == nil {
		return
	}
	w.fetches++
	w.setLoading(true)

	sources, name, place := w.env.Sources, w.source, w.place
	w.ctrl.Start(
		func(tok *refresh.Token) (weather.Report, error) {
			if sources == nil {
				return weather.Report{}, collectors.ErrUnknownSource
			}
			return collectors.FetchAs[weather.Report](tok.Context(), sources, name, place)
		},
		func(r weather.Report) {
			w.report = &r
			w.errMsg = ""
		},
		func(err error) {
			w.failures++
			w.errMsg = describeError(err)
			w.logger.Warn().Err(err).Str("place", place).Msg("weather refresh failed")
		},
		func() { w.setLoading(false) },
	)
}

// setLoading toggles the loading indicator. The spinner runs in its own
// session so it is stopped with the indicator.
func (w *Weather) setLoading(v bool) {
	w.loading = v
	if v {
		w.rebuildSpinner()
		return
	}
	if w.spinner != nil {
		w.spinner.Close()
		w.spinner = nil
	}
	w.visual = nil
}

// rebuild runs on theme and size changes. A live widget starts a new
// refresh cycle, which supersedes the one in flight.
func (w *Weather) rebuild() {
	if w.Attached() && w.ctrl != nil {
		w.Refresh()
		return
	}
	w.rebuildSpinner()
}

func (w *Weather) rebuildSpinner() {
	if !w.loading {
		return
	}
	if w.spinner != nil {
		w.spinner.Close()
	}
	w.spinner = session.New(session.WithLogger(w.logger))
	w.spinner.Open()
	w.visual = nil
	v, err := loaders.Build("dots", appearance.ExtraSmall, w.palette)
	if err != nil {
		return
	}
	w.visual = v
	for _, h := range v.Handles() {
		w.spinner.Track(h)
	}
}

func describeError(err error) string {
	switch {
	case errors.Is(err, weather.ErrNotFound):
		return "place not found"
	case errors.Is(err, collectors.ErrUnknownSource):
		return "no weather source"
	case errors.Is(err, refresh.ErrPanic):
		return "internal error"
	}
	var he *weather.HTTPError
	if errors.As(err, &he) {
		return fmt.Sprintf("service error (%d)", he.Status)
	}
	return "unavailable"
}

// View renders the report, the loading indicator and any error.
func (w *Weather) View(focused bool) string {
	pal := w.palette
	var lines []string

	if w.report == nil {
		if w.loading && w.visual != nil {
			lines = append(lines, w.visual.View())
		} else if w.errMsg == "" {
			lines = append(lines, pal.DimStyle().Render("no data"))
		}
	} else {
		lines = append(lines, w.reportLines(*w.report)...)
	}

	if w.errMsg != "" {
		lines = append(lines, pal.StatusStyle(theme.StatusError).Render("! "+w.errMsg))
	}

	badge := w.sizeBadge()
	if w.loading && w.report != nil && w.visual != nil {
		badge = w.visual.View() + " " + badge
	}
	return w.frame(focused, badge, strings.Join(lines, "\n"))
}

func (w *Weather) reportLines(r weather.Report) []string {
	pal := w.palette
	text, glyph := r.Condition()
	temp := fmt.Sprintf("%.0f%s", r.Temperature, r.Units.TempSuffix())

	status := theme.StatusOK
	if r.Stale || w.errMsg != "" {
		status = theme.StatusWarn
	}
	head := pal.StatusStyle(status).Render(glyph+" "+temp) + " " + text
	lines := []string{head}

	if w.size <= appearance.ExtraSmall {
		return lines
	}
	where := r.Location.Name
	if r.Location.Country != "" {
		where += ", " + r.Location.Country
	}
	lines = append(lines, pal.AccentStyle().Render(where))
	lines = append(lines, pal.DimStyle().Render(fmt.Sprintf("feels %.0f%s  hum %d%%",
		r.FeelsLike, r.Units.TempSuffix(), r.Humidity)))

	if w.size >= appearance.Medium {
		lines = append(lines, pal.DimStyle().Render(fmt.Sprintf("wind %.0f %s", r.WindSpeed, r.Units.SpeedSuffix())))
	}
	if w.size >= appearance.Large {
		inner := w.innerWidth()
		for _, d := range r.Days {
			_, g := weather.Describe(d.Code)
			lines = append(lines, components.Columns(d.Date, fmt.Sprintf("%s %.0f/%.0f", g, d.High, d.Low), inner))
		}
	}
	if r.Stale || w.errMsg != "" {
		lines = append(lines, pal.DimStyle().Render("as of "+r.FetchedAt.Format("15:04")))
	}
	return lines
}
