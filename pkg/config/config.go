// Package config provides TOML-based configuration for pulse-widgets.
package config

// Config is the root configuration document.
type Config struct {
	Appearance AppearanceConfig `toml:"appearance"`
	Gallery    GalleryConfig    `toml:"gallery"`
	Weather    WeatherConfig    `toml:"weather"`
	System     SystemConfig     `toml:"system"`
	Loader     LoaderConfig     `toml:"loader"`
	Cache      CacheConfig      `toml:"cache"`
	Log        LogConfig        `toml:"log"`
}

// AppearanceConfig seeds the appearance hub.
type AppearanceConfig struct {
	Theme string `toml:"theme" validate:"required"`

	// GlobalSize is a size tier name: extra-small, small, medium, large,
	// extra-large (or xs, s, m, l, xl).
	GlobalSize string `toml:"global_size" validate:"required,sizetier"`

	UseGlobalSizeByDefault bool `toml:"use_global_size_by_default"`

	// ThemeDir holds extra .toml/.yaml theme files.
	ThemeDir string `toml:"theme_dir"`
}

// GalleryConfig selects which widgets the gallery shows.
type GalleryConfig struct {
	// Preset names a built-in widget set. Ignored when Widgets is set.
	Preset  string         `toml:"preset" validate:"omitempty,oneof=showcase weather system loaders"`
	Widgets []WidgetConfig `toml:"widgets" validate:"dive"`
}

// WidgetConfig declares one widget. Size and IgnoreGlobalSize are applied
// before the widget attaches.
type WidgetConfig struct {
	Type             string `toml:"type" validate:"required,oneof=card loader weather system"`
	Title            string `toml:"title"`
	Size             string `toml:"size" validate:"omitempty,sizetier"`
	IgnoreGlobalSize bool   `toml:"ignore_global_size"`
	Variant          string `toml:"variant"`
	Location         string `toml:"location"`
	Body             string `toml:"body"`

	// Children nest widgets inside a card, inheriting IgnoreGlobalSize.
	Children []WidgetConfig `toml:"children" validate:"dive"`
}

// WeatherConfig configures the weather source.
type WeatherConfig struct {
	Enabled         bool     `toml:"enabled"`
	Locations       []string `toml:"locations"`
	Units           string   `toml:"units" validate:"oneof=metric imperial"`
	RefreshInterval Duration `toml:"refresh_interval"`
	Endpoint        string   `toml:"endpoint" validate:"omitempty,url"`
	GeocodeEndpoint string   `toml:"geocode_endpoint" validate:"omitempty,url"`
	Timeout         Duration `toml:"timeout"`
}

// SystemConfig configures the system metrics source.
type SystemConfig struct {
	Enabled         bool     `toml:"enabled"`
	RefreshInterval Duration `toml:"refresh_interval"`
	Mounts          []string `toml:"mounts"`
}

// LoaderConfig configures loading indicators.
type LoaderConfig struct {
	Variant string `toml:"variant" validate:"required"`
}

// CacheConfig configures the last-known-result disk cache.
type CacheConfig struct {
	Dir       string   `toml:"dir"`
	TTL       Duration `toml:"ttl"`
	MaxSizeMB int      `toml:"max_size_mb" validate:"gte=0"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level" validate:"oneof=trace debug info warn error disabled"`
	File  string `toml:"file"`
}
