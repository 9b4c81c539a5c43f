// Package weather is the Open-Meteo data source behind the weather widget.
// Concurrent fetches for the same place share one request, and every
// successful report is written to the disk cache so the widget can show the
// last known conditions while the first refresh is still in flight.
package weather

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"gitlab.com/tinyland/lab/pulse-widgets/pkg/cache"
)

// SourceName is the registry name of the weather source.
const SourceName = "weather"

// ErrNotFound is returned when a place name cannot be geocoded.
var ErrNotFound = errors.New("weather: place not found")

// ErrNoPlace is returned when Fetch is called with an empty place.
var ErrNoPlace = errors.New("weather: no place given")

// Units selects the measurement system.
type Units string

const (
	Metric   Units = "metric"
	Imperial Units = "imperial"
)

// TempSuffix returns the temperature unit label.
func (u Units) TempSuffix() string {
	if u == Imperial {
		return "°F"
	}
	return "°C"
}

// SpeedSuffix returns the wind speed unit label.
func (u Units) SpeedSuffix() string {
	if u == Imperial {
		return "mph"
	}
	return "km/h"
}

// Location is a geocoded place.
type Location struct {
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
}

// Day is one forecast day.
type Day struct {
	Date string  `json:"date"`
	High float64 `json:"high"`
	Low  float64 `json:"low"`
	Code int     `json:"code"`
}

// Report is the value Fetch returns.
type Report struct {
	Location    Location  `json:"location"`
	Units       Units     `json:"units"`
	Temperature float64   `json:"temperature"`
	FeelsLike   float64   `json:"feels_like"`
	Humidity    int       `json:"humidity"`
	WindSpeed   float64   `json:"wind_speed"`
	Code        int       `json:"code"`
	Days        []Day     `json:"days"`
	FetchedAt   time.Time `json:"fetched_at"`

	// Stale is set on reports read back from the cache.
	Stale bool `json:"-"`
}

// Condition returns the text and glyph for the current weather code.
func (r Report) Condition() (text, glyph string) {
	return Describe(r.Code)
}

// Config configures a Source.
type Config struct {
	ForecastEndpoint string
	GeocodeEndpoint  string
	Units            Units
	Interval         time.Duration
	Timeout          time.Duration

	// HTTPClient defaults to a client with Timeout.
	HTTPClient *http.Client

	// Cache, when set, stores the last report per place.
	Cache *cache.Store

	Logger zerolog.Logger
}

// Source fetches weather reports. It implements collectors.Source.
type Source struct {
	cfg    Config
	client *client
	group  singleflight.Group
	logger zerolog.Logger

	mu        sync.Mutex
	locations map[string]Location
	healthy   bool
}

// New returns a Source with defaults filled in.
func New(cfg Config) *Source {
	if cfg.ForecastEndpoint == "" {
		cfg.ForecastEndpoint = DefaultForecastEndpoint
	}
	if cfg.GeocodeEndpoint == "" {
		cfg.GeocodeEndpoint = DefaultGeocodeEndpoint
	}
	if cfg.Units != Imperial {
		cfg.Units = Metric
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Minute
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	return &Source{
		cfg: cfg,
		client: &client{
			http:            hc,
			forecastURL:     cfg.ForecastEndpoint,
			geocodeURL:      cfg.GeocodeEndpoint,
			userAgent:       "pulse-widgets",
			maxResponseSize: 1 << 20,
		},
		logger:    cfg.Logger,
		locations: make(map[string]Location),
		healthy:   true,
	}
}

// Name returns SourceName.
func (s *Source) Name() string { return SourceName }

// Interval returns the configured refresh interval.
func (s *Source) Interval() time.Duration { return s.cfg.Interval }

// Units returns the configured units.
func (s *Source) Units() Units { return s.cfg.Units }

// Healthy reports whether the last fetch succeeded.
func (s *Source) Healthy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.healthy
}

// Fetch returns the current Report for place. Concurrent calls for the same
// place share one upstream request; each caller still returns as soon as its
// own ctx is done.
func (s *Source) Fetch(ctx context.Context, place string) (any, error) {
	place = strings.TrimSpace(place)
	if place == "" {
		return nil, ErrNoPlace
	}
	key := cacheKey(place, s.cfg.Units)

	ch := s.group.DoChan(key, func() (any, error) {
		// Detached from the first caller so its cancel cannot fail the
		// other waiters; the timeout still bounds the request.
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.Timeout)
		defer cancel()
		return s.fetch(fctx, place)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		s.setHealthy(res.Err == nil)
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val, nil
	}
}

func (s *Source) fetch(ctx context.Context, place string) (Report, error) {
	loc, err := s.location(ctx, place)
	if err != nil {
		return Report{}, err
	}
	fc, err := s.client.forecast(ctx, loc, s.cfg.Units)
	if err != nil {
		return Report{}, err
	}

	r := Report{
		Location:    loc,
		Units:       s.cfg.Units,
		Temperature: fc.Current.Temperature,
		FeelsLike:   fc.Current.ApparentTemperature,
		Humidity:    fc.Current.RelativeHumidity,
		WindSpeed:   fc.Current.WindSpeed,
		Code:        fc.Current.WeatherCode,
		FetchedAt:   time.Now(),
	}
	d := fc.Daily
	for i := range d.Time {
		if i >= len(d.Max) || i >= len(d.Min) || i >= len(d.WeatherCode) {
			break
		}
		r.Days = append(r.Days, Day{Date: d.Time[i], High: d.Max[i], Low: d.Min[i], Code: d.WeatherCode[i]})
	}

	if s.cfg.Cache != nil {
		if err := cache.PutTyped(s.cfg.Cache, cacheKey(place, s.cfg.Units), r); err != nil {
			s.logger.Warn().Err(err).Str("place", place).Msg("caching weather report failed")
		}
	}
	return r, nil
}

// location geocodes place once per process.
func (s *Source) location(ctx context.Context, place string) (Location, error) {
	norm := strings.ToLower(place)
	s.mu.Lock()
	loc, ok := s.locations[norm]
	s.mu.Unlock()
	if ok {
		return loc, nil
	}

	loc, err := s.client.geocode(ctx, place)
	if err != nil {
		return Location{}, err
	}
	s.mu.Lock()
	s.locations[norm] = loc
	s.mu.Unlock()
	return loc, nil
}

// LastKnown returns the cached report for place, if any, marked stale.
func (s *Source) LastKnown(place string) (Report, bool) {
	if s.cfg.Cache == nil {
		return Report{}, false
	}
	t, ok := cache.GetTyped[Report](s.cfg.Cache, cacheKey(strings.TrimSpace(place), s.cfg.Units))
	if !ok {
		return Report{}, false
	}
	r := t.Value
	r.Stale = true
	return r, true
}

func (s *Source) setHealthy(h bool) {
	s.mu.Lock()
	s.healthy = h
	s.mu.Unlock()
}

func cacheKey(place string, units Units) string {
	return "weather:" + string(units) + ":" + strings.ToLower(place)
}
