package app

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the gallery key bindings. It implements help.KeyMap.
type KeyMap struct {
	Next       key.Binding
	Prev       key.Binding
	Expand     key.Binding
	Collapse   key.Binding
	Theme      key.Binding
	Larger     key.Binding
	Smaller    key.Binding
	UseGlobal  key.Binding
	WidgetUp   key.Binding
	WidgetDown key.Binding
	ClearSize  key.Binding
	Variant    key.Binding
	Refresh    key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
		Prev:       key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev")),
		Expand:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "expand")),
		Collapse:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "collapse")),
		Theme:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "next theme")),
		Larger:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "global size up")),
		Smaller:    key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "global size down")),
		UseGlobal:  key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "toggle global size")),
		WidgetUp:   key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "widget size up")),
		WidgetDown: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "widget size down")),
		ClearSize:  key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "follow global size")),
		Variant:    key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "next variant")),
		Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Theme, k.Larger, k.Smaller, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Expand, k.Collapse},
		{k.Theme, k.Larger, k.Smaller, k.UseGlobal},
		{k.WidgetUp, k.WidgetDown, k.ClearSize},
		{k.Variant, k.Refresh, k.Help, k.Quit},
	}
}
