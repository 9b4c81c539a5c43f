// Package scope resolves whether a widget participates in the global size
// broadcast by walking its ancestor chain for an "ignore global size" flag.
package scope

import "reflect"

// MaxDepth bounds the ancestor walk so a malformed, cyclic chain cannot
// hang the caller.
const MaxDepth = 256

// Node is the minimal tree capability the resolver needs.
type Node interface {
	// Parent returns the enclosing node, or nil at the root.
	Parent() Node

	// IgnoresGlobalSize reports whether this node opts its subtree out of
	// the global size broadcast.
	IgnoresGlobalSize() bool
}

// Attachable is implemented by nodes that know whether they are part of a
// live tree yet.
type Attachable interface {
	Attached() bool
}

// ShouldIgnoreGlobalSize reports whether node, or any of its ancestors,
// carries the ignore-global-size flag. A nil node, or one that reports it is
// not attached, participates in global sizing.
func ShouldIgnoreGlobalSize(node Node) bool {
	if isNil(node) {
		return false
	}
	if a, ok := node.(Attachable); ok && !a.Attached() {
		return false
	}
	for depth := 0; !isNil(node) && depth < MaxDepth; depth++ {
		if node.IgnoresGlobalSize() {
			return true
		}
		node = node.Parent()
	}
	return false
}

// isNil also catches typed nil pointers stored in the interface.
func isNil(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
