package weather

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"gitlab.com/tinyland/lab/pulse-widgets/pkg/cache"
)

const geocodeBody = `{"results":[{"name":"Berlin","country":"Germany","latitude":52.52,"longitude":13.41,"timezone":"Europe/Berlin"}]}`

const forecastBody = `{
  "current": {"time":"2026-10-19T12:00","temperature_2m":14.2,"apparent_temperature":12.9,
              "relative_humidity_2m":71,"wind_speed_10m":11.5,"weather_code":3},
  "daily": {"time":["2026-10-19","2026-10-20"],"weather_code":[3,61],
            "temperature_2m_max":[15.1,13.0],"temperature_2m_min":[8.4,7.9]}
}`

type fakeAPI struct {
	geocodes  atomic.Int64
	forecasts atomic.Int64
	lastQuery atomic.Value
	gate      chan struct{}
	server    *httptest.Server
}

func newFakeAPI(t *testing.T, gated bool) *fakeAPI {
	t.Helper()
	api := &fakeAPI{}
	if gated {
		api.gate = make(chan struct{})
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		api.geocodes.Add(1)
		if r.URL.Query().Get("name") == "Nowhere" {
			fmt.Fprint(w, `{}`)
			return
		}
		fmt.Fprint(w, geocodeBody)
	})
	mux.HandleFunc("/forecast", func(w http.ResponseWriter, r *http.Request) {
		api.forecasts.Add(1)
		api.lastQuery.Store(r.URL.Query())
		if api.gate != nil {
			<-api.gate
		}
		fmt.Fprint(w, forecastBody)
	})
	api.server = httptest.NewServer(mux)
	t.Cleanup(api.server.Close)
	return api
}

func (a *fakeAPI) source(cfg Config) *Source {
	cfg.ForecastEndpoint = a.server.URL + "/forecast"
	cfg.GeocodeEndpoint = a.server.URL + "/search"
	return New(cfg)
}

func TestFetchBuildsReport(t *testing.T) {
	api := newFakeAPI(t, false)
	s := api.source(Config{})

	v, err := s.Fetch(context.Background(), "Berlin")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	r := v.(Report)
	if r.Location.Name != "Berlin" || r.Location.Country != "Germany" {
		t.Errorf("Location = %+v", r.Location)
	}
	if r.Temperature != 14.2 || r.Humidity != 71 || r.Code != 3 {
		t.Errorf("current = %+v", r)
	}
	if len(r.Days) != 2 || r.Days[1].Code != 61 || r.Days[1].Low != 7.9 {
		t.Errorf("Days = %+v", r.Days)
	}
	if text, _ := r.Condition(); text != "Overcast" {
		t.Errorf("Condition() = %q", text)
	}
	if r.Units != Metric || r.Stale {
		t.Errorf("units=%q stale=%v", r.Units, r.Stale)
	}
}

func TestFetchGeocodesOnce(t *testing.T) {
	api := newFakeAPI(t, false)
	s := api.source(Config{})

	for range 3 {
		if _, err := s.Fetch(context.Background(), "Berlin"); err != nil {
			t.Fatalf("Fetch: %v", err)
		}
	}
	if got := api.geocodes.Load(); got != 1 {
		t.Errorf("geocode calls = %d, want 1", got)
	}
	if got := api.forecasts.Load(); got != 3 {
		t.Errorf("forecast calls = %d, want 3", got)
	}
}

func TestFetchImperialQuery(t *testing.T) {
	api := newFakeAPI(t, false)
	s := api.source(Config{Units: Imperial})

	if _, err := s.Fetch(context.Background(), "Berlin"); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	q := api.lastQuery.Load().(url.Values)
	if got := q["temperature_unit"]; len(got) != 1 || got[0] != "fahrenheit" {
		t.Errorf("temperature_unit = %v", got)
	}
	if got := q["wind_speed_unit"]; len(got) != 1 || got[0] != "mph" {
		t.Errorf("wind_speed_unit = %v", got)
	}
	if Imperial.TempSuffix() != "°F" || Metric.SpeedSuffix() != "km/h" {
		t.Error("unit suffixes wrong")
	}
}

func TestFetchNotFound(t *testing.T) {
	api := newFakeAPI(t, false)
	s := api.source(Config{})

	_, err := s.Fetch(context.Background(), "Nowhere")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if s.Healthy() {
		t.Error("source should be unhealthy after a failed fetch")
	}
}

func TestFetchEmptyPlace(t *testing.T) {
	s := New(Config{})
	if _, err := s.Fetch(context.Background(), "  "); !errors.Is(err, ErrNoPlace) {
		t.Errorf("err = %v", err)
	}
}

func TestFetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":true,"reason":"Latitude must be in range"}`)
	}))
	t.Cleanup(srv.Close)

	s := New(Config{ForecastEndpoint: srv.URL, GeocodeEndpoint: srv.URL})
	_, err := s.Fetch(context.Background(), "Berlin")
	var he *HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("err = %v, want *HTTPError", err)
	}
	if he.Status != http.StatusBadRequest || he.Reason != "Latitude must be in range" {
		t.Errorf("HTTPError = %+v", he)
	}
}

func TestConcurrentFetchSharesRequest(t *testing.T) {
	api := newFakeAPI(t, true)
	s := api.source(Config{})

	// Warm the geocode cache so the callers meet at the forecast request.
	if _, err := s.location(context.Background(), "Berlin"); err != nil {
		t.Fatalf("warmup: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Fetch(context.Background(), "Berlin")
			errs <- err
		}()
	}
	// Let the callers pile up on the in-flight request.
	deadline := time.Now().Add(2 * time.Second)
	for api.forecasts.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(50 * time.Millisecond)
	close(api.gate)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("Fetch: %v", err)
		}
	}
	if got := api.forecasts.Load(); got != 1 {
		t.Errorf("forecast calls = %d, want 1", got)
	}
}

func TestCallerCancelDoesNotFailOthers(t *testing.T) {
	api := newFakeAPI(t, true)
	s := api.source(Config{})

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := s.Fetch(ctx, "Berlin")
		first <- err
	}()

	second := make(chan error, 1)
	go func() {
		for api.geocodes.Load() == 0 {
			time.Sleep(time.Millisecond)
		}
		_, err := s.Fetch(context.Background(), "Berlin")
		second <- err
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()
	if err := <-first; !errors.Is(err, context.Canceled) {
		t.Errorf("first err = %v", err)
	}
	close(api.gate)
	if err := <-second; err != nil {
		t.Errorf("second err = %v", err)
	}
}

func TestLastKnownFromCache(t *testing.T) {
	api := newFakeAPI(t, false)
	store, err := cache.NewStore(cache.Options{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	s := api.source(Config{Cache: store})

	if _, ok := s.LastKnown("Berlin"); ok {
		t.Fatal("LastKnown before any fetch should miss")
	}
	if _, err := s.Fetch(context.Background(), "Berlin"); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	// A second source sharing the store sees the report.
	s2 := api.source(Config{Cache: store})
	r, ok := s2.LastKnown("berlin")
	if !ok {
		t.Fatal("LastKnown should hit after a fetch")
	}
	if !r.Stale || r.Temperature != 14.2 || r.Location.Name != "Berlin" {
		t.Errorf("LastKnown = %+v", r)
	}

	// Units are part of the key.
	s3 := api.source(Config{Cache: store, Units: Imperial})
	if _, ok := s3.LastKnown("Berlin"); ok {
		t.Error("imperial source should not see the metric report")
	}
}

func TestDescribeUnknownCode(t *testing.T) {
	text, glyph := Describe(1234)
	if text != "Unknown" || glyph != "?" {
		t.Errorf("Describe(1234) = %q %q", text, glyph)
	}
}
