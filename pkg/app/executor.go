package app

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/pulse-widgets/pkg/dispatch"
)

// Executor makes the bubbletea event loop the UI context. Widgets are built
// with it before the program exists; posts queue up until Connect.
type Executor struct {
	*dispatch.Bound

	connectOnce sync.Once
	closeOnce   sync.Once
	ready       chan struct{}
	quit        chan struct{}
	target      func(tea.Msg)
}

// NewExecutor returns an executor that is not yet connected to a program.
func NewExecutor() *Executor {
	e := &Executor{
		ready: make(chan struct{}),
		quit:  make(chan struct{}),
	}
	e.Bound = dispatch.NewBound(e.send)
	return e
}

// Connect starts delivering posted functions to p as RunMsg.
func (e *Executor) Connect(p *tea.Program) {
	e.connect(p.Send)
}

func (e *Executor) connect(target func(tea.Msg)) {
	e.connectOnce.Do(func() {
		e.target = target
		close(e.ready)
	})
}

// Close drops pending posts. Safe to call more than once.
func (e *Executor) Close() {
	e.closeOnce.Do(func() { close(e.quit) })
	e.Bound.Close()
}

func (e *Executor) send(fn func()) {
	select {
	case <-e.ready:
		e.target(RunMsg{Fn: fn})
	case <-e.quit:
	}
}
