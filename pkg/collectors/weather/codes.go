package weather

// condition describes a WMO weather interpretation code.
type condition struct {
	text  string
	glyph string
}

var conditions = map[int]condition{
	0:  {"Clear sky", "☀"},
	1:  {"Mainly clear", "🌤"},
	2:  {"Partly cloudy", "⛅"},
	3:  {"Overcast", "☁"},
	45: {"Fog", "🌫"},
	48: {"Rime fog", "🌫"},
	51: {"Light drizzle", "🌦"},
	53: {"Drizzle", "🌦"},
	55: {"Dense drizzle", "🌧"},
	56: {"Freezing drizzle", "🌧"},
	57: {"Freezing drizzle", "🌧"},
	61: {"Light rain", "🌦"},
	63: {"Rain", "🌧"},
	65: {"Heavy rain", "🌧"},
	66: {"Freezing rain", "🌧"},
	67: {"Freezing rain", "🌧"},
	71: {"Light snow", "🌨"},
	73: {"Snow", "🌨"},
	75: {"Heavy snow", "❄"},
	77: {"Snow grains", "🌨"},
	80: {"Rain showers", "🌦"},
	81: {"Rain showers", "🌧"},
	82: {"Violent showers", "⛈"},
	85: {"Snow showers", "🌨"},
	86: {"Snow showers", "❄"},
	95: {"Thunderstorm", "⛈"},
	96: {"Thunderstorm, hail", "⛈"},
	99: {"Thunderstorm, hail", "⛈"},
}

// Describe returns a short text and a glyph for a WMO weather code.
func Describe(code int) (text, glyph string) {
	if c, ok := conditions[code]; ok {
		return c.text, c.glyph
	}
	return "Unknown", "?"
}
