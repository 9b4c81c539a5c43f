package appearance

import (
	"fmt"
	"strings"
)

// SizeTier is one of the ordered UI scale levels shared by every widget.
type SizeTier int

const (
	ExtraSmall SizeTier = iota
	Small
	Medium
	Large
	ExtraLarge
)

var sizeNames = [...]string{
	ExtraSmall: "extra-small",
	Small:      "small",
	Medium:     "medium",
	Large:      "large",
	ExtraLarge: "extra-large",
}

// SizeTiers lists every tier from smallest to largest.
func SizeTiers() []SizeTier {
	return []SizeTier{ExtraSmall, Small, Medium, Large, ExtraLarge}
}

// Valid reports whether s is one of the defined tiers.
func (s SizeTier) Valid() bool {
	return s >= ExtraSmall && s <= ExtraLarge
}

// String returns the kebab-case tier name.
func (s SizeTier) String() string {
	if !s.Valid() {
		return fmt.Sprintf("size(%d)", int(s))
	}
	return sizeNames[s]
}

// Larger returns the next tier up, clamped at ExtraLarge.
func (s SizeTier) Larger() SizeTier {
	if s >= ExtraLarge {
		return ExtraLarge
	}
	return s + 1
}

// Smaller returns the next tier down, clamped at ExtraSmall.
func (s SizeTier) Smaller() SizeTier {
	if s <= ExtraSmall {
		return ExtraSmall
	}
	return s - 1
}

// Cells returns the base width budget, in terminal cells, for a widget
// rendered at this tier.
func (s SizeTier) Cells() int {
	switch s {
	case ExtraSmall:
		return 16
	case Small:
		return 22
	case Large:
		return 40
	case ExtraLarge:
		return 52
	default:
		return 30
	}
}

// ParseSizeTier accepts tier names case-insensitively. Short aliases
// ("xs", "s", "m", "l", "xl") and underscores are allowed.
func ParseSizeTier(v string) (SizeTier, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(v)), "_", "-")
	switch norm {
	case "xs", "extra-small", "extrasmall":
		return ExtraSmall, nil
	case "s", "small":
		return Small, nil
	case "m", "medium":
		return Medium, nil
	case "l", "large":
		return Large, nil
	case "xl", "extra-large", "extralarge":
		return ExtraLarge, nil
	}
	return Medium, fmt.Errorf("appearance: unknown size tier %q", v)
}

// MarshalText implements encoding.TextMarshaler.
func (s SizeTier) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("appearance: invalid size tier %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML and YAML.
func (s *SizeTier) UnmarshalText(text []byte) error {
	parsed, err := ParseSizeTier(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
