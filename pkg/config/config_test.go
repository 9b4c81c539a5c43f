package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gitlab.com/tinyland/lab/pulse-widgets/pkg/appearance"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := Validate(cfg); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Appearance.GlobalSizeTier() != appearance.Medium {
		t.Errorf("default global size = %v", cfg.Appearance.GlobalSizeTier())
	}
	if cfg.Weather.RefreshInterval.Duration != 10*time.Minute {
		t.Errorf("weather refresh = %v", cfg.Weather.RefreshInterval)
	}
}

func TestLoadFromReader(t *testing.T) {
	const doc = `
[appearance]
theme = "nord"
global_size = "xl"
use_global_size_by_default = true

[weather]
locations = ["Lisbon", "Oslo"]
units = "imperial"
refresh_interval = "90s"

[[gallery.widgets]]
type = "card"
title = "Pinned"
ignore_global_size = true

  [[gallery.widgets.children]]
  type = "loader"
  variant = "bounce"
  size = "small"
`
	cfg, err := LoadFromReader(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if cfg.Appearance.Theme != "nord" || !cfg.Appearance.UseGlobalSizeByDefault {
		t.Errorf("appearance = %+v", cfg.Appearance)
	}
	if cfg.Appearance.GlobalSizeTier() != appearance.ExtraLarge {
		t.Errorf("global size = %v", cfg.Appearance.GlobalSizeTier())
	}
	if cfg.Weather.RefreshInterval.Duration != 90*time.Second {
		t.Errorf("refresh = %v", cfg.Weather.RefreshInterval)
	}
	if cfg.System.RefreshInterval.Duration != 2*time.Second {
		t.Error("unset sections should keep defaults")
	}

	widgets := cfg.Gallery.WidgetList()
	if len(widgets) != 1 || len(widgets[0].Children) != 1 {
		t.Fatalf("widgets = %+v", widgets)
	}
	if widgets[0].Children[0].Variant != "bounce" {
		t.Errorf("child = %+v", widgets[0].Children[0])
	}
}

func TestValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"bad size", "[appearance]\nglobal_size = \"huge\"\n", "GlobalSize"},
		{"bad units", "[weather]\nunits = \"kelvin\"\n", "Units"},
		{"bad level", "[log]\nlevel = \"chatty\"\n", "Level"},
		{"bad widget", "[[gallery.widgets]]\ntype = \"clock\"\n", "Type"},
		{"bad endpoint", "[weather]\nendpoint = \"not a url\"\n", "Endpoint"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromReader(strings.NewReader(tt.doc))
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %s", err, tt.want)
			}
		})
	}
}

func TestNegativeDurationRejected(t *testing.T) {
	_, err := LoadFromReader(strings.NewReader("[system]\nrefresh_interval = \"-1s\"\n"))
	if err == nil {
		t.Fatal("negative duration accepted")
	}
}

func TestDurationForms(t *testing.T) {
	doc := "[weather]\nrefresh_interval = 300\n[system]\nrefresh_interval = \"off\"\n[cache]\nttl = \"2h\"\n"
	cfg, err := LoadFromReader(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if got := cfg.Weather.RefreshInterval.Or(time.Minute); got != 5*time.Minute {
		t.Errorf("integer seconds = %v", got)
	}
	if got := cfg.System.RefreshInterval.Or(time.Minute); got != 0 {
		t.Errorf("off = %v, want 0", got)
	}
	if got := cfg.Cache.TTL.Or(time.Minute); got != 2*time.Hour {
		t.Errorf("ttl = %v", got)
	}
	if got := (Duration{}).Or(time.Minute); got != time.Minute {
		t.Errorf("unset = %v, want fallback", got)
	}

	out, _ := cfg.System.RefreshInterval.MarshalText()
	if string(out) != "off" {
		t.Errorf("MarshalText = %q", out)
	}
	if _, err := LoadFromReader(strings.NewReader("[system]\nrefresh_interval = -5\n")); err == nil {
		t.Error("negative integer accepted")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PWIDGETS_THEME", "dracula")
	t.Setenv("PWIDGETS_SIZE", "small")
	t.Setenv("PWIDGETS_LOG_LEVEL", "debug")

	cfg, err := LoadFromReader(strings.NewReader("[appearance]\ntheme = \"nord\"\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Appearance.Theme != "dracula" {
		t.Errorf("theme = %q, env should win", cfg.Appearance.Theme)
	}
	if cfg.Appearance.GlobalSizeTier() != appearance.Small {
		t.Errorf("size = %v", cfg.Appearance.GlobalSizeTier())
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("level = %q", cfg.Log.Level)
	}
}

func TestLoadSearchesXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("PWIDGETS_THEME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Appearance.Theme != "default" {
		t.Errorf("no file: theme = %q", cfg.Appearance.Theme)
	}

	path := filepath.Join(dir, AppName, "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[appearance]\ntheme = \"gruvbox\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Appearance.Theme != "gruvbox" {
		t.Errorf("theme = %q, want gruvbox", cfg.Appearance.Theme)
	}
}

func TestGalleryPresets(t *testing.T) {
	for _, name := range []string{"showcase", "weather", "system", "loaders"} {
		widgets := GalleryPreset(name)
		if len(widgets) == 0 {
			t.Errorf("preset %s is empty", name)
		}
		cfg := DefaultConfig()
		cfg.Gallery.Preset = name
		cfg.Gallery.Widgets = widgets
		if err := Validate(cfg); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
	if len(GalleryPreset("unknown")) != len(GalleryPreset("showcase")) {
		t.Error("unknown preset should fall back to showcase")
	}

	var pinned bool
	for _, w := range GalleryPreset("showcase") {
		if w.IgnoreGlobalSize && len(w.Children) > 0 {
			pinned = true
		}
	}
	if !pinned {
		t.Error("showcase should include a pinned subtree")
	}
}
