package app

// CycleFocusForward moves focus to the next widget, wrapping around.
func (m *AppModel) CycleFocusForward() { m.stepFocus(1) }

// CycleFocusBackward moves focus to the previous widget, wrapping around.
func (m *AppModel) CycleFocusBackward() { m.stepFocus(-1) }

func (m *AppModel) stepFocus(delta int) {
	n := len(m.widgetOrder)
	if n == 0 {
		return
	}
	idx := (m.focusedIndex() + delta + n) % n
	m.focusedWidget = m.widgetOrder[idx]
}

// FocusWidget focuses the widget with id. Unknown ids are ignored.
func (m *AppModel) FocusWidget(id string) {
	if _, ok := m.widgets[id]; ok {
		m.focusedWidget = id
	}
}

// ToggleExpand expands the focused widget, or collapses it when it is
// already expanded. Expanding moves from any other expanded widget.
func (m *AppModel) ToggleExpand() {
	switch m.focusedWidget {
	case "":
	case m.expandedWidget:
		m.expandedWidget = ""
	default:
		m.expandedWidget = m.focusedWidget
	}
}

// focusedIndex returns the position of the focused widget, or 0.
func (m *AppModel) focusedIndex() int {
	for i, id := range m.widgetOrder {
		if id == m.focusedWidget {
			return i
		}
	}
	return 0
}
