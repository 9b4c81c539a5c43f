package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/pulse-widgets/pkg/components"
)

// Card shows static text and hosts child widgets below it. Children are
// attached under the card's element, so an ignore-global-size flag on the
// card covers them too.
type Card struct {
	Control
	body     string
	children []Widget
}

// NewCard creates a card.
func NewCard(id, title, body string, env Env, opts ...Option) *Card {
	c := &Card{body: body}
	c.init(id, title, env, hooks{
		attached: c.attachChildren,
		detached: c.detachChildren,
	}, opts)
	return c
}

// Body returns the card text.
func (c *Card) Body() string { return c.body }

// SetBody replaces the card text.
func (c *Card) SetBody(body string) { c.body = body }

// Children returns the child widgets.
func (c *Card) Children() []Widget {
	out := make([]Widget, len(c.children))
	copy(out, c.children)
	return out
}

// Add appends a child. On an attached card the child is attached at once.
func (c *Card) Add(w Widget) {
	if w == nil {
		return
	}
	c.children = append(c.children, w)
	if c.Attached() {
		w.Attach(c.Node())
	}
}

// Remove detaches and drops the child with id.
func (c *Card) Remove(id string) bool {
	for i, w := range c.children {
		if w.ID() == id {
			w.Detach()
			c.children = append(c.children[:i], c.children[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Card) attachChildren() {
	for _, w := range c.children {
		w.Attach(c.Node())
	}
}

func (c *Card) detachChildren() {
	for _, w := range c.children {
		w.Detach()
	}
}

// View renders the text wrapped to the card width, then every child.
func (c *Card) View(focused bool) string {
	var parts []string
	if c.body != "" {
		parts = append(parts, strings.Join(components.Wrap(c.body, c.innerWidth()), "\n"))
	}
	for _, w := range c.children {
		parts = append(parts, w.View(false))
	}
	body := lipgloss.JoinVertical(lipgloss.Left, parts...)
	return c.frame(focused, c.sizeBadge(), body)
}
