package theme

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/muesli/termenv"
)

func TestRegistryBuiltins(t *testing.T) {
	r := NewRegistry()

	want := []string{"catppuccin", "default", "dracula", "gruvbox", "light", "nord", "tokyo-night"}
	got := r.Names()
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	for _, th := range Builtins() {
		if err := Validate(th); err != nil {
			t.Errorf("builtin %s invalid: %v", th.Name, err)
		}
	}
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	r := NewRegistry()
	th, err := r.Lookup("GruvBox")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if th.Accent != "#fe8019" {
		t.Errorf("gruvbox accent = %q", th.Accent)
	}
	if !r.Has("NORD") {
		t.Error("Has(NORD) = false")
	}
}

func TestGetUnknownFallsBackToDefault(t *testing.T) {
	r := NewRegistry()
	if got := r.Get("no-such-theme").Name; got != DefaultName {
		t.Errorf("Get(unknown).Name = %q, want %q", got, DefaultName)
	}
	if _, err := r.Lookup("no-such-theme"); err == nil {
		t.Error("Lookup(unknown) should fail")
	}

	var empty Registry
	if got := empty.Get("anything").Name; got != DefaultName {
		t.Errorf("empty registry Get = %q", got)
	}
}

func TestNextWraps(t *testing.T) {
	r := NewRegistry()
	names := r.Names()
	if got := r.Next(names[len(names)-1]); got != names[0] {
		t.Errorf("Next(last) = %q, want %q", got, names[0])
	}
	if got := r.Next("missing"); got != names[0] {
		t.Errorf("Next(missing) = %q, want %q", got, names[0])
	}
}

func TestRegisterRejectsInvalid(t *testing.T) {
	r := NewRegistry()
	bad := Default()
	bad.Name = "broken"
	bad.Accent = "purple"
	if err := r.Register(bad); err == nil {
		t.Fatal("Register accepted an invalid color")
	}
	if r.Has("broken") {
		t.Error("invalid theme was registered")
	}

	unnamed := Default()
	unnamed.Name = " "
	if err := Validate(unnamed); err == nil {
		t.Error("Validate accepted a blank name")
	}
}

func TestTOMLRoundTripKeepsEveryColor(t *testing.T) {
	orig := gruvboxTheme()
	orig.Name = "gruvbox-copy"
	data, err := SaveToTOML(orig)
	if err != nil {
		t.Fatalf("SaveToTOML: %v", err)
	}
	got, err := LoadFromTOML(data)
	if err != nil {
		t.Fatalf("LoadFromTOML: %v", err)
	}
	if got != orig {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, orig)
	}
}

const yamlTheme = `
name: solar
base:
  background: "#002b36"
  foreground: "#839496"
  dim: "#586e75"
  accent: "#b58900"
widget:
  border: "#073642"
  border_focus: "#b58900"
  title: "#93a1a1"
status:
  ok: "#859900"
  warn: "#cb4b16"
  error: "#dc322f"
  unknown: "#586e75"
loader:
  primary: "#268bd2"
  secondary: "#2aa198"
  track: "#073642"
help:
  key: "#b58900"
  desc: "#586e75"
`

func TestLoadFromYAML(t *testing.T) {
	th, err := LoadFromYAML([]byte(yamlTheme))
	if err != nil {
		t.Fatalf("LoadFromYAML: %v", err)
	}
	if th.Name != "solar" || th.LoaderPrimary != "#268bd2" {
		t.Errorf("unexpected theme: %+v", th)
	}

	if _, err := LoadFromYAML([]byte("name: half\nbase:\n  background: \"#000000\"\n")); err == nil {
		t.Error("incomplete YAML theme should fail validation")
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	custom := nordTheme()
	custom.Name = "Arctic"
	data, err := SaveToTOML(custom)
	if err != nil {
		t.Fatal(err)
	}
	write("arctic.toml", string(data))
	write("solar.yml", yamlTheme)
	write("broken.toml", "name = [")
	write("notes.txt", "ignored")

	r := NewRegistry()
	loaded, err := r.LoadDir(dir)
	if err == nil || !strings.Contains(err.Error(), "broken.toml") {
		t.Errorf("LoadDir error = %v, want one naming broken.toml", err)
	}
	if len(loaded) != 2 || loaded[0] != "arctic" || loaded[1] != "solar" {
		t.Errorf("loaded = %v", loaded)
	}
	if !r.Has("arctic") || !r.Has("solar") {
		t.Error("loaded themes not registered")
	}

	if loaded, err := r.LoadDir(filepath.Join(dir, "missing")); err != nil || loaded != nil {
		t.Errorf("missing dir: loaded=%v err=%v", loaded, err)
	}
}

func TestAdapt(t *testing.T) {
	th := Default()

	if got := Adapt(th, termenv.TrueColor); got != th {
		t.Error("TrueColor should keep hex colors")
	}

	a256 := Adapt(th, termenv.ANSI256)
	for _, c := range a256.colors() {
		if strings.HasPrefix(*c.value, "#") || *c.value == "" {
			t.Errorf("ANSI256 %s = %q, want an index", c.field, *c.value)
		}
	}

	ascii := Adapt(th, termenv.Ascii)
	if ascii.Accent != "" || ascii.Background != "" {
		t.Errorf("Ascii should clear colors, got accent=%q", ascii.Accent)
	}
	if ascii.Name != th.Name {
		t.Error("Adapt must keep the name")
	}
}

func TestParseStatus(t *testing.T) {
	tests := map[string]Status{
		"ok":      StatusOK,
		"Running": StatusOK,
		"stale":   StatusWarn,
		"FAILED":  StatusError,
		"":        StatusUnknown,
	}
	for in, want := range tests {
		if got := ParseStatus(in); got != want {
			t.Errorf("ParseStatus(%q) = %v, want %v", in, got, want)
		}
	}

	th := Default()
	if th.StatusColor(StatusError) != "#e06c75" {
		t.Errorf("StatusColor(error) = %q", th.StatusColor(StatusError))
	}
}
