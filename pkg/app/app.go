package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/rs/zerolog"

	"gitlab.com/tinyland/lab/pulse-widgets/pkg/appearance"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/components"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/layout"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/scope"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/theme"
	"gitlab.com/tinyland/lab/pulse-widgets/pkg/widgets"
)

// Config controls the gallery program.
type Config struct {
	// TickInterval is the redraw period for animations.
	TickInterval time.Duration

	// Mouse enables click-to-focus.
	Mouse bool

	// Title is shown in the header.
	Title string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		TickInterval: 100 * time.Millisecond,
		Mouse:        true,
		Title:        "pulse-widgets",
	}
}

// binder is implemented by executors that must learn which goroutine is
// the UI context.
type binder interface {
	Bind()
	IsBound() bool
}

// AppModel is the root bubbletea model. The widgets are attached to a root
// element for the life of the model; Close detaches them.
type AppModel struct {
	cfg    Config
	env    widgets.Env
	logger zerolog.Logger

	root           *scope.Element
	widgets        map[string]widgets.Widget
	widgetOrder    []string
	focusedWidget  string
	expandedWidget string

	width    int
	height   int
	status   string
	quitting bool

	keys  KeyMap
	help  help.Model
	zones *zone.Manager
}

// NewAppModel attaches ws to a fresh root element and returns the model.
// Widgets with duplicate ids are skipped.
func NewAppModel(cfg Config, env widgets.Env, ws ...widgets.Widget) AppModel {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultConfig().TickInterval
	}
	if env.Hub == nil {
		env.Hub = appearance.NewHub()
	}
	if env.Themes == nil {
		env.Themes = theme.NewRegistry()
	}

	m := AppModel{
		cfg:     cfg,
		env:     env,
		logger:  env.Logger.With().Str("component", "app").Logger(),
		root:    scope.NewRoot(),
		widgets: make(map[string]widgets.Widget, len(ws)),
		keys:    DefaultKeyMap(),
		help:    help.New(),
	}
	if cfg.Mouse {
		m.zones = zone.New()
	}

	for _, w := range ws {
		if w == nil {
			continue
		}
		if _, dup := m.widgets[w.ID()]; dup {
			m.logger.Warn().Str("widget", w.ID()).Msg("duplicate widget id skipped")
			continue
		}
		w.Attach(m.root)
		m.widgets[w.ID()] = w
		m.widgetOrder = append(m.widgetOrder, w.ID())
	}
	if len(m.widgetOrder) > 0 {
		m.focusedWidget = m.widgetOrder[0]
	}
	return m
}

// Init binds the UI context and starts the redraw ticker.
func (m AppModel) Init() tea.Cmd {
	m.bind()
	return TickCmd(m.cfg.TickInterval)
}

// Close detaches every widget and stops the zone manager.
func (m AppModel) Close() {
	for _, id := range m.widgetOrder {
		m.widgets[id].Detach()
	}
	if m.zones != nil {
		m.zones.Close()
	}
}

// Update handles one message.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.bind()

	switch msg := msg.(type) {
	case RunMsg:
		if msg.Fn != nil {
			msg.Fn()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickEvent:
		return m, TickCmd(m.cfg.TickInterval)

	case WidgetFocusEvent:
		m.FocusWidget(msg.WidgetID)
		return m, nil

	case ThemeChangeEvent:
		m.setTheme(msg.Theme)
		return m, nil

	case SizeChangeEvent:
		m.setGlobalSize(msg.Size)
		return m, nil

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *AppModel) bind() {
	if b, ok := m.env.Exec.(binder); ok && !b.IsBound() {
		b.Bind()
	}
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, k.Next):
		m.CycleFocusForward()
	case key.Matches(msg, k.Prev):
		m.CycleFocusBackward()
	case key.Matches(msg, k.Expand):
		m.ToggleExpand()
	case key.Matches(msg, k.Collapse):
		m.expandedWidget = ""
	case key.Matches(msg, k.Theme):
		m.setTheme(m.env.Themes.Next(m.env.Hub.Theme()))
	case key.Matches(msg, k.Larger):
		m.setGlobalSize(m.env.Hub.GlobalSize().Larger())
	case key.Matches(msg, k.Smaller):
		m.setGlobalSize(m.env.Hub.GlobalSize().Smaller())
	case key.Matches(msg, k.UseGlobal):
		v := !m.env.Hub.UseGlobalSizeByDefault()
		m.env.Hub.SetUseGlobalSizeByDefault(v)
		m.status = fmt.Sprintf("global size %s", onOff(v))
	case key.Matches(msg, k.WidgetUp):
		if w := m.focused(); w != nil {
			w.SetSize(w.Size().Larger())
		}
	case key.Matches(msg, k.WidgetDown):
		if w := m.focused(); w != nil {
			w.SetSize(w.Size().Smaller())
		}
	case key.Matches(msg, k.ClearSize):
		if c, ok := m.focused().(interface{ ClearExplicitSize() }); ok {
			c.ClearExplicitSize()
		}
	case key.Matches(msg, k.Variant):
		if v, ok := m.focused().(widgets.VariantCycler); ok {
			v.NextVariant()
		}
	case key.Matches(msg, k.Refresh):
		if r, ok := m.focused().(widgets.Refresher); ok {
			r.Refresh()
		}
	}
	return m, nil
}

func (m *AppModel) handleMouse(msg tea.MouseMsg) {
	if m.zones == nil || msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return
	}
	for _, id := range m.widgetOrder {
		if m.zones.Get(id).InBounds(msg) {
			m.focusedWidget = id
			return
		}
	}
}

func (m *AppModel) setTheme(id string) {
	if _, err := m.env.Hub.SetTheme(id); err != nil {
		m.status = err.Error()
		return
	}
	m.status = "theme " + m.env.Hub.Theme()
}

func (m *AppModel) setGlobalSize(s appearance.SizeTier) {
	changed, err := m.env.Hub.SetGlobalSize(s)
	switch {
	case err != nil:
		m.status = err.Error()
	case !changed && !m.env.Hub.UseGlobalSizeByDefault():
		m.status = fmt.Sprintf("global size %s (not broadcast, press g)", m.env.Hub.GlobalSize())
	default:
		m.status = fmt.Sprintf("global size %s", m.env.Hub.GlobalSize())
	}
}

func (m AppModel) focused() widgets.Widget {
	return m.widgets[m.focusedWidget]
}

// View renders the gallery.
func (m AppModel) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	pal := theme.Adapt(m.env.Themes.Get(m.env.Hub.Theme()), m.env.Profile)
	m.help.Styles = helpStyles(pal)
	footer := m.help.View(m.keys)

	areas := layout.Split(
		layout.Rect{Width: m.width, Height: m.height},
		layout.Vertical,
		layout.Length{Value: 1},
		layout.Fill{Weight: 1},
		layout.Length{Value: lipgloss.Height(footer)},
	)
	header := m.headerView(pal, areas[0].Width)
	body := m.bodyView(areas[1])

	out := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	if m.zones != nil {
		out = m.zones.Scan(out)
	}
	return out
}

func (m AppModel) headerView(pal theme.Theme, width int) string {
	hub := m.env.Hub
	left := pal.TitleStyle().Render(m.cfg.Title)
	right := pal.DimStyle().Render(fmt.Sprintf("theme %s  size %s  global %s",
		hub.Theme(), hub.GlobalSize(), onOff(hub.UseGlobalSizeByDefault())))
	if m.status != "" {
		left += "  " + pal.AccentStyle().Render(m.status)
	}
	return components.Columns(left, right, width)
}

func (m AppModel) bodyView(area layout.Rect) string {
	if area.Empty() {
		return ""
	}
	if w, ok := m.widgets[m.expandedWidget]; ok {
		return lipgloss.Place(area.Width, area.Height, lipgloss.Center, lipgloss.Center, m.mark(w.ID(), w.View(true)))
	}
	if len(m.widgetOrder) == 0 {
		return lipgloss.Place(area.Width, area.Height, lipgloss.Center, lipgloss.Center, "no widgets")
	}

	tiles := make([]string, len(m.widgetOrder))
	widths := make([]int, len(m.widgetOrder))
	focusIdx := 0
	for i, id := range m.widgetOrder {
		tiles[i] = m.mark(id, m.widgets[id].View(id == m.focusedWidget))
		widths[i] = lipgloss.Width(tiles[i])
		if id == m.focusedWidget {
			focusIdx = i
		}
	}

	var lines []string
	focusTop, focusBottom := 0, 0
	for _, row := range layout.Flow(widths, area.Width, 1) {
		parts := make([]string, 0, 2*len(row))
		for j, i := range row {
			if j > 0 {
				parts = append(parts, " ")
			}
			parts = append(parts, tiles[i])
			if i == focusIdx {
				focusTop = len(lines)
				focusBottom = focusTop + lipgloss.Height(tiles[i])
			}
		}
		lines = append(lines, strings.Split(lipgloss.JoinHorizontal(lipgloss.Top, parts...), "\n")...)
	}

	offset := scrollOffset(len(lines), area.Height, focusTop, focusBottom)
	lines = lines[offset:min(len(lines), offset+area.Height)]
	for len(lines) < area.Height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m AppModel) mark(id, view string) string {
	if m.zones == nil {
		return view
	}
	return m.zones.Mark(id, view)
}

// scrollOffset returns the first visible line so that the focused tile
// (lines top to bottom) is on screen, preferring its top edge.
func scrollOffset(total, height, top, bottom int) int {
	if total <= height {
		return 0
	}
	off := 0
	if bottom > height {
		off = bottom - height
	}
	if top < off {
		off = top
	}
	return min(off, total-height)
}

func helpStyles(pal theme.Theme) help.Styles {
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(pal.HelpKey))
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(pal.HelpDesc))
	sepStyle := pal.DimStyle()
	return help.Styles{
		Ellipsis:       sepStyle,
		ShortKey:       keyStyle,
		ShortDesc:      descStyle,
		ShortSeparator: sepStyle,
		FullKey:        keyStyle,
		FullDesc:       descStyle,
		FullSeparator:  sepStyle,
	}
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// Width returns the terminal width.
func (m AppModel) Width() int { return m.width }

// Height returns the terminal height.
func (m AppModel) Height() int { return m.height }

// FocusedWidgetID returns the focused widget id.
func (m AppModel) FocusedWidgetID() string { return m.focusedWidget }

// ExpandedWidgetID returns the expanded widget id, or "".
func (m AppModel) ExpandedWidgetID() string { return m.expandedWidget }

// Quitting reports whether quit was requested.
func (m AppModel) Quitting() bool { return m.quitting }

// HelpVisible reports whether the full help is shown.
func (m AppModel) HelpVisible() bool { return m.help.ShowAll }

// Status returns the last status line message.
func (m AppModel) Status() string { return m.status }

// Root returns the element the widgets are attached under.
func (m AppModel) Root() *scope.Element { return m.root }

// Widget returns the widget with id.
func (m AppModel) Widget(id string) (widgets.Widget, bool) {
	w, ok := m.widgets[id]
	return w, ok
}
