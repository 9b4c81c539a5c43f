// Package theme defines named color palettes for widgets and the registry
// the appearance hub validates theme ids against.
package theme

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrNotFound is returned when a theme name is not registered.
var ErrNotFound = errors.New("theme: not found")

// Theme is the complete palette a widget renders with. Colors are hex
// strings ("#1a1b26") or, after Adapt, ANSI color indices ("196").
type Theme struct {
	Name string

	// Base colors
	Background string
	Foreground string
	Dim        string // secondary text
	Accent     string

	// Widget frame
	Border      string
	BorderFocus string
	Title       string

	// Status colors
	StatusOK      string
	StatusWarn    string
	StatusError   string
	StatusUnknown string

	// Loader colors
	LoaderPrimary   string
	LoaderSecondary string
	Track           string // unfilled part of bars and rings

	// Help overlay
	HelpKey  string
	HelpDesc string
}

// Registry holds themes by lowercase name. The zero value is empty and
// ready to use; NewRegistry preloads the built-ins.
type Registry struct {
	mu     sync.RWMutex
	themes map[string]Theme
}

// NewRegistry returns a registry holding every built-in theme.
func NewRegistry() *Registry {
	r := &Registry{}
	for _, t := range Builtins() {
		// Built-ins are valid by construction.
		_ = r.Register(t)
	}
	return r
}

// Register validates t and stores it, replacing any theme with the same
// name.
func (r *Registry) Register(t Theme) error {
	if err := Validate(t); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.themes == nil {
		r.themes = make(map[string]Theme)
	}
	r.themes[strings.ToLower(t.Name)] = t
	return nil
}

// Lookup returns the named theme.
func (r *Registry) Lookup(name string) (Theme, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.themes[strings.ToLower(name)]
	if !ok {
		return Theme{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return t, nil
}

// Get returns the named theme, falling back to the default theme.
func (r *Registry) Get(name string) Theme {
	if t, err := r.Lookup(name); err == nil {
		return t
	}
	if t, err := r.Lookup(DefaultName); err == nil {
		return t
	}
	return Default()
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, err := r.Lookup(name)
	return err == nil
}

// Names returns all registered names sorted alphabetically.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.themes))
	for name := range r.themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Next returns the theme name after current in sorted order, wrapping.
func (r *Registry) Next(current string) string {
	names := r.Names()
	if len(names) == 0 {
		return current
	}
	current = strings.ToLower(current)
	for i, n := range names {
		if n == current {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}
