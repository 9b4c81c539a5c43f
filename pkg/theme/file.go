package theme

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// fileTheme is the on-disk layout shared by TOML and YAML theme files.
type fileTheme struct {
	Name   string     `toml:"name" yaml:"name"`
	Base   fileBase   `toml:"base" yaml:"base"`
	Widget fileWidget `toml:"widget" yaml:"widget"`
	Status fileStatus `toml:"status" yaml:"status"`
	Loader fileLoader `toml:"loader" yaml:"loader"`
	Help   fileHelp   `toml:"help" yaml:"help"`
}

type fileBase struct {
	Background string `toml:"background" yaml:"background"`
	Foreground string `toml:"foreground" yaml:"foreground"`
	Dim        string `toml:"dim" yaml:"dim"`
	Accent     string `toml:"accent" yaml:"accent"`
}

type fileWidget struct {
	Border      string `toml:"border" yaml:"border"`
	BorderFocus string `toml:"border_focus" yaml:"border_focus"`
	Title       string `toml:"title" yaml:"title"`
}

type fileStatus struct {
	OK      string `toml:"ok" yaml:"ok"`
	Warn    string `toml:"warn" yaml:"warn"`
	Error   string `toml:"error" yaml:"error"`
	Unknown string `toml:"unknown" yaml:"unknown"`
}

type fileLoader struct {
	Primary   string `toml:"primary" yaml:"primary"`
	Secondary string `toml:"secondary" yaml:"secondary"`
	Track     string `toml:"track" yaml:"track"`
}

type fileHelp struct {
	Key  string `toml:"key" yaml:"key"`
	Desc string `toml:"desc" yaml:"desc"`
}

func (f fileTheme) theme() Theme {
	return Theme{
		Name:       f.Name,
		Background: f.Base.Background,
		Foreground: f.Base.Foreground,
		Dim:        f.Base.Dim,
		Accent:     f.Base.Accent,

		Border:      f.Widget.Border,
		BorderFocus: f.Widget.BorderFocus,
		Title:       f.Widget.Title,

		StatusOK:      f.Status.OK,
		StatusWarn:    f.Status.Warn,
		StatusError:   f.Status.Error,
		StatusUnknown: f.Status.Unknown,

		LoaderPrimary:   f.Loader.Primary,
		LoaderSecondary: f.Loader.Secondary,
		Track:           f.Loader.Track,

		HelpKey:  f.Help.Key,
		HelpDesc: f.Help.Desc,
	}
}

func toFile(t Theme) fileTheme {
	return fileTheme{
		Name:   t.Name,
		Base:   fileBase{Background: t.Background, Foreground: t.Foreground, Dim: t.Dim, Accent: t.Accent},
		Widget: fileWidget{Border: t.Border, BorderFocus: t.BorderFocus, Title: t.Title},
		Status: fileStatus{OK: t.StatusOK, Warn: t.StatusWarn, Error: t.StatusError, Unknown: t.StatusUnknown},
		Loader: fileLoader{Primary: t.LoaderPrimary, Secondary: t.LoaderSecondary, Track: t.Track},
		Help:   fileHelp{Key: t.HelpKey, Desc: t.HelpDesc},
	}
}

// LoadFromTOML parses and validates a TOML theme definition.
func LoadFromTOML(data []byte) (Theme, error) {
	var f fileTheme
	if err := toml.Unmarshal(data, &f); err != nil {
		return Theme{}, fmt.Errorf("theme: parse TOML: %w", err)
	}
	t := f.theme()
	if err := Validate(t); err != nil {
		return Theme{}, err
	}
	return t, nil
}

// LoadFromYAML parses and validates a YAML theme definition.
func LoadFromYAML(data []byte) (Theme, error) {
	var f fileTheme
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Theme{}, fmt.Errorf("theme: parse YAML: %w", err)
	}
	t := f.theme()
	if err := Validate(t); err != nil {
		return Theme{}, err
	}
	return t, nil
}

// SaveToTOML serializes a theme to TOML.
func SaveToTOML(t Theme) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(toFile(t)); err != nil {
		return nil, fmt.Errorf("theme: encode TOML: %w", err)
	}
	return buf.Bytes(), nil
}

// LoadFile loads a theme file, picking the parser from its extension.
func LoadFile(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, fmt.Errorf("theme: read %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return LoadFromTOML(data)
	case ".yaml", ".yml":
		return LoadFromYAML(data)
	}
	return Theme{}, fmt.Errorf("theme: unsupported file type %q", filepath.Ext(path))
}

// LoadDir registers every .toml, .yaml and .yml theme in dir. A missing
// directory is not an error. Files that fail to load are skipped and their
// errors joined into the returned error; the rest are still registered.
func (r *Registry) LoadDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("theme: read dir: %w", err)
	}

	var loaded []string
	var errs []error
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".toml", ".yaml", ".yml":
		default:
			continue
		}
		t, err := LoadFile(filepath.Join(dir, e.Name()))
		if err == nil {
			err = r.Register(t)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", e.Name(), err))
			continue
		}
		loaded = append(loaded, strings.ToLower(t.Name))
	}
	sort.Strings(loaded)
	return loaded, errors.Join(errs...)
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Validate checks that the theme has a name and that every color is a
// #RRGGBB hex string.
func Validate(t Theme) error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("theme: missing required field %q", "name")
	}
	for _, c := range t.colors() {
		if *c.value == "" {
			return fmt.Errorf("theme %s: missing required field %q", t.Name, c.field)
		}
		if !hexColor.MatchString(*c.value) {
			return fmt.Errorf("theme %s: invalid hex color %q for field %q (expected #RRGGBB)", t.Name, *c.value, c.field)
		}
	}
	return nil
}

type colorField struct {
	field string
	value *string
}

// colors lists every color slot in a stable order.
func (t *Theme) colors() []colorField {
	return []colorField{
		{"background", &t.Background},
		{"foreground", &t.Foreground},
		{"dim", &t.Dim},
		{"accent", &t.Accent},
		{"border", &t.Border},
		{"border_focus", &t.BorderFocus},
		{"title", &t.Title},
		{"status_ok", &t.StatusOK},
		{"status_warn", &t.StatusWarn},
		{"status_error", &t.StatusError},
		{"status_unknown", &t.StatusUnknown},
		{"loader_primary", &t.LoaderPrimary},
		{"loader_secondary", &t.LoaderSecondary},
		{"track", &t.Track},
		{"help_key", &t.HelpKey},
		{"help_desc", &t.HelpDesc},
	}
}
