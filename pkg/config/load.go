package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// AppName names the config and cache directories.
const AppName = "pulse-widgets"

// Load reads configuration from the standard config path.
// Search order:
//  1. $XDG_CONFIG_HOME/pulse-widgets/config.toml
//  2. ~/.config/pulse-widgets/config.toml
//
// If no file exists, returns DefaultConfig() with env overrides applied.
func Load() (*Config, error) {
	for _, p := range configSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return LoadFromFile(p)
		}
	}
	cfg := DefaultConfig()
	applyEnvOverrides(cfg)
	return cfg, Validate(cfg)
}

// LoadFromFile reads configuration from a specific file path. A missing
// file yields the defaults.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			applyEnvOverrides(cfg)
			return cfg, Validate(cfg)
		}
		return nil, err
	}
	defer f.Close()
	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes TOML over the defaults, applies env overrides and
// validates the result.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	applyEnvOverrides(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()

	return &Config{
		Appearance: AppearanceConfig{
			Theme:      "default",
			GlobalSize: "medium",
			ThemeDir:   filepath.Join(xdgConfigHome(home), AppName, "themes"),
		},
		Gallery: GalleryConfig{
			Preset: "showcase",
		},
		Weather: WeatherConfig{
			Enabled:         true,
			Locations:       []string{"Berlin"},
			Units:           "metric",
			RefreshInterval: Duration{Duration: 10 * time.Minute},
			Timeout:         Duration{Duration: 10 * time.Second},
		},
		System: SystemConfig{
			Enabled:         true,
			RefreshInterval: Duration{Duration: 2 * time.Second},
			Mounts:          []string{"/"},
		},
		Loader: LoaderConfig{
			Variant: "dots",
		},
		Cache: CacheConfig{
			Dir:       filepath.Join(xdgCacheHome(home), AppName),
			TTL:       Duration{Duration: time.Hour},
			MaxSizeMB: 10,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// applyEnvOverrides checks environment variables and overrides config values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PWIDGETS_THEME"); v != "" {
		cfg.Appearance.Theme = v
	}
	if v := os.Getenv("PWIDGETS_SIZE"); v != "" {
		cfg.Appearance.GlobalSize = v
	}
	if v := os.Getenv("PWIDGETS_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("PWIDGETS_WEATHER_ENDPOINT"); v != "" {
		cfg.Weather.Endpoint = v
	}
}

// configSearchPaths returns the ordered list of config file paths to try.
func configSearchPaths() []string {
	home, _ := os.UserHomeDir()
	var paths []string

	xdg := xdgConfigHome(home)
	paths = append(paths, filepath.Join(xdg, AppName, "config.toml"))

	// If XDG_CONFIG_HOME was explicitly set, also try the fallback default.
	defaultXDG := filepath.Join(home, ".config")
	if xdg != defaultXDG {
		paths = append(paths, filepath.Join(defaultXDG, AppName, "config.toml"))
	}

	return paths
}

// xdgConfigHome returns XDG_CONFIG_HOME or ~/.config as fallback.
func xdgConfigHome(home string) string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".config")
}

// xdgCacheHome returns XDG_CACHE_HOME or ~/.cache as fallback.
func xdgCacheHome(home string) string {
	if v := os.Getenv("XDG_CACHE_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".cache")
}
