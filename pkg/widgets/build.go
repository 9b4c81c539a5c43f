package widgets

import (
	"fmt"
	"strings"
	"time"

	"gitlab.com/tinyland/lab/pulse-widgets/pkg/appearance"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/config"
)

// Defaults fill in what a widget declaration leaves out.
type Defaults struct {
	LoaderVariant   string
	Locations       []string
	WeatherInterval time.Duration
	SystemInterval  time.Duration
}

// DefaultsFromConfig derives Defaults from a loaded configuration.
func DefaultsFromConfig(cfg *config.Config) Defaults {
	return Defaults{
		LoaderVariant:   cfg.Loader.Variant,
		Locations:       cfg.Weather.Locations,
		WeatherInterval: cfg.Weather.RefreshInterval.Or(10 * time.Minute),
		SystemInterval:  cfg.System.RefreshInterval.Or(2 * time.Second),
	}
}

// Build creates the widgets declared in decls, in order. Ids are derived
// from type and position ("weather-1", "card-2.loader-1"). Configuration
// is applied before anything attaches.
func Build(decls []config.WidgetConfig, env Env, def Defaults) ([]Widget, error) {
	return buildLevel(decls, env, def, "")
}

func buildLevel(decls []config.WidgetConfig, env Env, def Defaults, prefix string) ([]Widget, error) {
	counts := map[string]int{}
	out := make([]Widget, 0, len(decls))
	for _, d := range decls {
		counts[d.Type]++
		id := fmt.Sprintf("%s%s-%d", prefix, d.Type, counts[d.Type])
		w, err := buildOne(id, d, env, def)
		if err != nil {
			return nil, fmt.Errorf("widget %s: %w", id, err)
		}
		out = append(out, w)
	}
	return out, nil
}

func buildOne(id string, d config.WidgetConfig, env Env, def Defaults) (Widget, error) {
	var opts []Option
	if d.Size != "" {
		size, err := appearance.ParseSizeTier(d.Size)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithSize(size))
	}
	if d.IgnoreGlobalSize {
		opts = append(opts, WithIgnoreGlobalSize(true))
	}
	if d.Title != "" {
		opts = append(opts, WithTitle(d.Title))
	}
	if len(d.Children) > 0 && d.Type != "card" {
		return nil, fmt.Errorf("only cards take children, not %q", d.Type)
	}

	switch strings.ToLower(d.Type) {
	case "card":
		c := NewCard(id, d.Title, d.Body, env, opts...)
		children, err := buildLevel(d.Children, env, def, id+".")
		if err != nil {
			return nil, err
		}
		for _, ch := range children {
			c.Add(ch)
		}
		return c, nil
	case "loader":
		variant := d.Variant
		if variant == "" {
			variant = def.LoaderVariant
		}
		return NewLoader(id, variant, env, opts...), nil
	case "weather":
		place := d.Location
		if place == "" && len(def.Locations) > 0 {
			place = def.Locations[0]
		}
		if place == "" {
			return nil, fmt.Errorf("weather widget needs a location")
		}
		return NewWeather(id, place, env, []WeatherOption{WithAutoRefresh(def.WeatherInterval)}, opts...), nil
	case "system":
		return NewSystemCard(id, def.SystemInterval, env, opts...), nil
	}
	return nil, fmt.Errorf("unknown widget type %q", d.Type)
}
