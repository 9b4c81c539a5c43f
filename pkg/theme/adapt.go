package theme

import (
	"strconv"

	"github.com/muesli/termenv"
)

// Adapt converts every color in t to what the profile can display: hex is
// kept for TrueColor, 256-color or 16-color indices are substituted for
// ANSI256 and ANSI, and colors are cleared for Ascii.
func Adapt(t Theme, p termenv.Profile) Theme {
	if p == termenv.TrueColor {
		return t
	}
	for _, c := range t.colors() {
		*c.value = convertColor(p, *c.value)
	}
	return t
}

func convertColor(p termenv.Profile, value string) string {
	switch c := p.Color(value).(type) {
	case termenv.RGBColor:
		return string(c)
	case termenv.ANSI256Color:
		return strconv.Itoa(int(c))
	case termenv.ANSIColor:
		return strconv.Itoa(int(c))
	}
	return ""
}
