package config

import (
	"fmt"
	"strings"
	"time"
)

// Duration is a config interval. In TOML it is a Go duration string
// ("90s", "10m"), a bare integer number of seconds, or "off" to disable
// the periodic work it controls.
type Duration struct {
	time.Duration

	// Off is set by "off". Or then yields zero instead of the fallback.
	Off bool
}

// UnmarshalTOML accepts the integer form on top of the string forms.
func (d *Duration) UnmarshalTOML(v any) error {
	switch v := v.(type) {
	case int64:
		if v < 0 {
			return fmt.Errorf("negative duration %d not allowed", v)
		}
		*d = Duration{Duration: time.Duration(v) * time.Second}
		return nil
	case string:
		return d.UnmarshalText([]byte(v))
	default:
		return fmt.Errorf("duration must be a string or integer seconds, got %T", v)
	}
}

// UnmarshalText parses the string forms. It also serves YAML and env
// values.
func (d *Duration) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	switch strings.ToLower(s) {
	case "":
		*d = Duration{}
		return nil
	case "off", "never":
		*d = Duration{Off: true}
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if parsed < 0 {
		return fmt.Errorf("negative duration %q not allowed", s)
	}
	*d = Duration{Duration: parsed}
	return nil
}

// MarshalText writes "off" or the Go duration string.
func (d Duration) MarshalText() ([]byte, error) {
	if d.Off {
		return []byte("off"), nil
	}
	return []byte(d.Duration.String()), nil
}

// Or returns the configured interval: zero when off, fallback when unset.
func (d Duration) Or(fallback time.Duration) time.Duration {
	switch {
	case d.Off:
		return 0
	case d.Duration <= 0:
		return fallback
	}
	return d.Duration
}
