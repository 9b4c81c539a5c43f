package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"gitlab.com/tinyland/lab/pulse-widgets/pkg/appearance"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/cache"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/collectors"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/collectors/sysmetrics"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/collectors/weather"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/config"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/logging"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/theme"
)

// runtimeEnv is everything a command needs, built from the config file
// and the persistent flags.
type runtimeEnv struct {
	cfg     *config.Config
	logger  zerolog.Logger
	themes  *theme.Registry
	hub     *appearance.Hub
	store   *cache.Store
	sources *collectors.Registry

	closers []io.Closer
}

func (r *runtimeEnv) Close() {
	for _, c := range r.closers {
		_ = c.Close()
	}
}

// setup loads configuration and builds the shared services. With
// fullscreen set, logs go only to the configured log file so they cannot
// corrupt the alternate screen.
func setup(flags *rootFlags, fullscreen bool) (*runtimeEnv, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}

	rt := &runtimeEnv{cfg: cfg}
	rt.logger, err = openLogger(cfg.Log, fullscreen, &rt.closers)
	if err != nil {
		return nil, err
	}

	rt.themes = theme.NewRegistry()
	if dir := cfg.Appearance.ThemeDir; dir != "" {
		loaded, err := rt.themes.LoadDir(dir)
		if err != nil {
			rt.logger.Warn().Err(err).Str("dir", dir).Msg("some theme files were skipped")
		}
		if len(loaded) > 0 {
			rt.logger.Debug().Strs("themes", loaded).Msg("loaded theme files")
		}
	}
	if !rt.themes.Has(cfg.Appearance.Theme) {
		rt.Close()
		return nil, fmt.Errorf("unknown theme %q", cfg.Appearance.Theme)
	}

	rt.hub = appearance.NewHub(
		appearance.WithTheme(cfg.Appearance.Theme),
		appearance.WithGlobalSize(cfg.Appearance.GlobalSizeTier()),
		appearance.WithUseGlobalSizeByDefault(cfg.Appearance.UseGlobalSizeByDefault),
		appearance.WithThemeValidator(rt.themes.Has),
		appearance.WithLogger(logging.Component(rt.logger, "appearance")),
	)

	if cfg.Cache.Dir != "" {
		rt.store, err = cache.NewStore(cache.Options{
			Dir:       cfg.Cache.Dir,
			MaxSizeMB: cfg.Cache.MaxSizeMB,
			TTL:       cfg.Cache.TTL.Duration,
			Logger:    logging.Component(rt.logger, "cache"),
		})
		if err != nil {
			// Last-known results are optional.
			rt.logger.Warn().Err(err).Msg("disk cache disabled")
			rt.store = nil
		}
	}

	rt.sources = collectors.NewRegistry(logging.Component(rt.logger, "collectors"))
	if cfg.Weather.Enabled {
		src := weather.New(weather.Config{
			ForecastEndpoint: cfg.Weather.Endpoint,
			GeocodeEndpoint:  cfg.Weather.GeocodeEndpoint,
			Units:            weather.Units(cfg.Weather.Units),
			Interval:         cfg.Weather.RefreshInterval.Duration,
			Timeout:          cfg.Weather.Timeout.Duration,
			Cache:            rt.store,
			Logger:           logging.Component(rt.logger, "weather"),
		})
		if err := rt.sources.Register(src); err != nil {
			rt.Close()
			return nil, err
		}
	}
	if cfg.System.Enabled {
		src := sysmetrics.New(sysmetrics.Config{
			Interval: cfg.System.RefreshInterval.Duration,
			Mounts:   cfg.System.Mounts,
		})
		if err := rt.sources.Register(src); err != nil {
			rt.Close()
			return nil, err
		}
	}
	return rt, nil
}

func loadConfig(flags *rootFlags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if flags.configPath != "" {
		cfg, err = config.LoadFromFile(flags.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if flags.theme != "" {
		cfg.Appearance.Theme = flags.theme
	}
	if flags.size != "" {
		cfg.Appearance.GlobalSize = flags.size
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if flags.preset != "" {
		cfg.Gallery.Preset = flags.preset
		cfg.Gallery.Widgets = nil
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openLogger tags every line with a per-run id so interleaved runs can be
// told apart in a shared log file.
func openLogger(lc config.LogConfig, fullscreen bool, closers *[]io.Closer) (zerolog.Logger, error) {
	var w io.Writer = os.Stderr
	switch {
	case lc.File != "":
		if err := os.MkdirAll(filepath.Dir(lc.File), 0o755); err != nil {
			return zerolog.Nop(), fmt.Errorf("log dir: %w", err)
		}
		f, err := os.OpenFile(lc.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("log file: %w", err)
		}
		*closers = append(*closers, f)
		w = f
	case fullscreen:
		return logging.Discard(), nil
	}

	l, err := logging.New(logging.Options{Level: lc.Level, Writer: w})
	if err != nil {
		return zerolog.Nop(), errors.Join(fmt.Errorf("log level %q", lc.Level), err)
	}
	return l.With().Str("run_id", uuid.NewString()).Logger(), nil
}
