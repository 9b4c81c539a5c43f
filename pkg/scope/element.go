package scope

import "sync"

// Element is a framework-independent tree node. Widgets embed one to take
// part in ancestor-scoped settings. An element is attached when its topmost
// ancestor was created with NewRoot.
type Element struct {
	mu       sync.RWMutex
	parent   *Element
	children []*Element
	ignore   bool
	root     bool
}

// NewRoot creates the root of a live tree.
func NewRoot() *Element {
	return &Element{root: true}
}

// Parent returns the enclosing element, or nil.
func (e *Element) Parent() Node {
	e.mu.RLock()
	p := e.parent
	e.mu.RUnlock()
	if p == nil {
		return nil
	}
	return p
}

// IgnoresGlobalSize reports this element's own flag, without ancestors.
func (e *Element) IgnoresGlobalSize() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ignore
}

// SetIgnoreGlobalSize sets this element's own flag.
func (e *Element) SetIgnoreGlobalSize(v bool) {
	e.mu.Lock()
	e.ignore = v
	e.mu.Unlock()
}

// SetRoot marks e as the root of a live tree, or clears the mark.
func (e *Element) SetRoot(v bool) {
	e.mu.Lock()
	e.root = v
	e.mu.Unlock()
}

// Attached reports whether the element hangs off a root created by NewRoot.
func (e *Element) Attached() bool {
	cur := e
	for depth := 0; depth < MaxDepth; depth++ {
		cur.mu.RLock()
		root, parent := cur.root, cur.parent
		cur.mu.RUnlock()
		if root {
			return true
		}
		if parent == nil {
			return false
		}
		cur = parent
	}
	return false
}

// AddChild appends child, detaching it from any previous parent first.
func (e *Element) AddChild(child *Element) {
	if child == nil || child == e {
		return
	}
	child.RemoveFromParent()

	child.mu.Lock()
	child.parent = e
	child.mu.Unlock()

	e.mu.Lock()
	e.children = append(e.children, child)
	e.mu.Unlock()
}

// RemoveChild detaches child if it belongs to e.
func (e *Element) RemoveChild(child *Element) {
	if child == nil {
		return
	}
	e.mu.Lock()
	found := false
	for i, c := range e.children {
		if c == child {
			e.children = append(e.children[:i], e.children[i+1:]...)
			found = true
			break
		}
	}
	e.mu.Unlock()

	if found {
		child.mu.Lock()
		child.parent = nil
		child.mu.Unlock()
	}
}

// RemoveFromParent detaches e from its parent, if any.
func (e *Element) RemoveFromParent() {
	e.mu.RLock()
	parent := e.parent
	e.mu.RUnlock()
	if parent != nil {
		parent.RemoveChild(e)
	}
}

// Children returns a copy of the direct children.
func (e *Element) Children() []*Element {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]*Element(nil), e.children...)
}

// Walk visits e and every descendant depth-first, parents before children.
func (e *Element) Walk(fn func(*Element)) {
	fn(e)
	for _, c := range e.Children() {
		c.Walk(fn)
	}
}
