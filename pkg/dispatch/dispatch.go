// Package dispatch marshals work onto the UI context. Widget state is only
// mutated from that context; background goroutines hand their results over
// through an Executor.
package dispatch

// Executor runs functions on the UI context.
type Executor interface {
	// IsOnUIThread reports whether the caller is already on the UI context.
	IsOnUIThread() bool

	// Post queues fn to run on the UI context. It never blocks on fn.
	Post(fn func())
}

// Run calls fn synchronously when the caller is already on the UI context,
// and posts it otherwise.
func Run(exec Executor, fn func()) {
	if fn == nil {
		return
	}
	if exec == nil || exec.IsOnUIThread() {
		fn()
		return
	}
	exec.Post(fn)
}

// Immediate treats every caller as the UI context. It suits headless use
// and tests that have no event loop.
type Immediate struct{}

// IsOnUIThread always reports true.
func (Immediate) IsOnUIThread() bool { return true }

// Post runs fn straight away.
func (Immediate) Post(fn func()) {
	if fn != nil {
		fn()
	}
}
