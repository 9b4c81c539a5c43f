package theme

// DefaultName is the name of the theme used when none is configured.
const DefaultName = "default"

// Builtins returns every built-in theme.
func Builtins() []Theme {
	return []Theme{
		Default(),
		lightTheme(),
		gruvboxTheme(),
		nordTheme(),
		catppuccinTheme(),
		draculaTheme(),
		tokyoNightTheme(),
	}
}

// Default returns the dark neutral theme with a purple accent.
func Default() Theme {
	return Theme{
		Name:       DefaultName,
		Background: "#1e1e1e",
		Foreground: "#d4d4d4",
		Dim:        "#6b6b6b",
		Accent:     "#7c3aed",

		Border:      "#3e3e3e",
		BorderFocus: "#7c3aed",
		Title:       "#d4d4d4",

		StatusOK:      "#4ec970",
		StatusWarn:    "#e5c07b",
		StatusError:   "#e06c75",
		StatusUnknown: "#6b6b6b",

		LoaderPrimary:   "#7c3aed",
		LoaderSecondary: "#5b21b6",
		Track:           "#3e3e3e",

		HelpKey:  "#7c3aed",
		HelpDesc: "#6b6b6b",
	}
}

func lightTheme() Theme {
	return Theme{
		Name:       "light",
		Background: "#fafafa",
		Foreground: "#383a42",
		Dim:        "#a0a1a7",
		Accent:     "#4078f2",

		Border:      "#d3d3d3",
		BorderFocus: "#4078f2",
		Title:       "#383a42",

		StatusOK:      "#50a14f",
		StatusWarn:    "#c18401",
		StatusError:   "#e45649",
		StatusUnknown: "#a0a1a7",

		LoaderPrimary:   "#4078f2",
		LoaderSecondary: "#a626a4",
		Track:           "#e5e5e6",

		HelpKey:  "#4078f2",
		HelpDesc: "#a0a1a7",
	}
}

func gruvboxTheme() Theme {
	return Theme{
		Name:       "gruvbox",
		Background: "#282828",
		Foreground: "#ebdbb2",
		Dim:        "#928374",
		Accent:     "#fe8019",

		Border:      "#504945",
		BorderFocus: "#fe8019",
		Title:       "#ebdbb2",

		StatusOK:      "#b8bb26",
		StatusWarn:    "#fabd2f",
		StatusError:   "#fb4934",
		StatusUnknown: "#928374",

		LoaderPrimary:   "#fe8019",
		LoaderSecondary: "#d65d0e",
		Track:           "#504945",

		HelpKey:  "#fe8019",
		HelpDesc: "#928374",
	}
}

func nordTheme() Theme {
	return Theme{
		Name:       "nord",
		Background: "#2e3440",
		Foreground: "#eceff4",
		Dim:        "#4c566a",
		Accent:     "#88c0d0",

		Border:      "#3b4252",
		BorderFocus: "#88c0d0",
		Title:       "#eceff4",

		StatusOK:      "#a3be8c",
		StatusWarn:    "#ebcb8b",
		StatusError:   "#bf616a",
		StatusUnknown: "#4c566a",

		LoaderPrimary:   "#88c0d0",
		LoaderSecondary: "#5e81ac",
		Track:           "#3b4252",

		HelpKey:  "#88c0d0",
		HelpDesc: "#4c566a",
	}
}

func catppuccinTheme() Theme {
	return Theme{
		Name:       "catppuccin",
		Background: "#1e1e2e",
		Foreground: "#cdd6f4",
		Dim:        "#6c7086",
		Accent:     "#cba6f7",

		Border:      "#313244",
		BorderFocus: "#cba6f7",
		Title:       "#cdd6f4",

		StatusOK:      "#a6e3a1",
		StatusWarn:    "#f9e2af",
		StatusError:   "#f38ba8",
		StatusUnknown: "#6c7086",

		LoaderPrimary:   "#cba6f7",
		LoaderSecondary: "#9399b2",
		Track:           "#313244",

		HelpKey:  "#cba6f7",
		HelpDesc: "#6c7086",
	}
}

func draculaTheme() Theme {
	return Theme{
		Name:       "dracula",
		Background: "#282a36",
		Foreground: "#f8f8f2",
		Dim:        "#6272a4",
		Accent:     "#bd93f9",

		Border:      "#44475a",
		BorderFocus: "#bd93f9",
		Title:       "#f8f8f2",

		StatusOK:      "#50fa7b",
		StatusWarn:    "#f1fa8c",
		StatusError:   "#ff5555",
		StatusUnknown: "#6272a4",

		LoaderPrimary:   "#bd93f9",
		LoaderSecondary: "#8be9fd",
		Track:           "#44475a",

		HelpKey:  "#bd93f9",
		HelpDesc: "#6272a4",
	}
}

func tokyoNightTheme() Theme {
	return Theme{
		Name:       "tokyo-night",
		Background: "#1a1b26",
		Foreground: "#c0caf5",
		Dim:        "#565f89",
		Accent:     "#7aa2f7",

		Border:      "#292e42",
		BorderFocus: "#7aa2f7",
		Title:       "#c0caf5",

		StatusOK:      "#9ece6a",
		StatusWarn:    "#e0af68",
		StatusError:   "#f7768e",
		StatusUnknown: "#565f89",

		LoaderPrimary:   "#7aa2f7",
		LoaderSecondary: "#7dcfff",
		Track:           "#292e42",

		HelpKey:  "#7aa2f7",
		HelpDesc: "#565f89",
	}
}
