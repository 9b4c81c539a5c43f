package config

// GalleryPreset returns the widget list for a named gallery preset.
// If the name is not recognized, the "showcase" preset is returned.
func GalleryPreset(name string) []WidgetConfig {
	switch name {
	case "weather":
		return weatherPreset()
	case "system":
		return systemPreset()
	case "loaders":
		return loadersPreset()
	case "showcase":
		return showcasePreset()
	default:
		return showcasePreset()
	}
}

// WidgetList returns the configured widget list, or the preset's when none is
// declared explicitly.
func (g GalleryConfig) WidgetList() []WidgetConfig {
	if len(g.Widgets) > 0 {
		return g.Widgets
	}
	return GalleryPreset(g.Preset)
}

// showcasePreset shows one of everything, plus a pinned subtree that opts
// out of global sizing.
//
//	[weather] [system]
//	[card: about]  [card: pinned, ignore_global_size [loader]]
//	[loader]
func showcasePreset() []WidgetConfig {
	return []WidgetConfig{
		{Type: "weather", Title: "Weather"},
		{Type: "system", Title: "System"},
		{Type: "card", Title: "About", Body: "Widgets follow the global size while it is enabled."},
		{
			Type:             "card",
			Title:            "Pinned",
			Body:             "This card and its children keep their own size.",
			IgnoreGlobalSize: true,
			Children: []WidgetConfig{
				{Type: "loader", Title: "Pinned loader", Variant: "pulse"},
			},
		},
		{Type: "loader", Title: "Loader"},
	}
}

func weatherPreset() []WidgetConfig {
	return []WidgetConfig{
		{Type: "weather", Title: "Weather"},
		{Type: "weather", Title: "Weather (large)", Size: "large"},
	}
}

func systemPreset() []WidgetConfig {
	return []WidgetConfig{
		{Type: "system", Title: "System"},
		{Type: "system", Title: "System (small)", Size: "small"},
	}
}

// loadersPreset shows every loader variant side by side.
func loadersPreset() []WidgetConfig {
	return []WidgetConfig{
		{Type: "loader", Title: "dots", Variant: "dots"},
		{Type: "loader", Title: "line", Variant: "line"},
		{Type: "loader", Title: "pulse", Variant: "pulse"},
		{Type: "loader", Title: "globe", Variant: "globe"},
		{Type: "loader", Title: "breathe", Variant: "breathe"},
		{Type: "loader", Title: "bounce", Variant: "bounce"},
	}
}
