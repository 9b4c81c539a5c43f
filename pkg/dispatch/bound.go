package dispatch

import (
	"sync"
	"sync/atomic"

	"github.com/petermattis/goid"
)

// Bound is an Executor for an event loop owned by someone else, such as a
// bubbletea program. The loop goroutine identifies itself with Bind; Post
// queues functions and a pump goroutine hands them to send in order. The
// loop is expected to call each function it receives.
type Bound struct {
	send func(fn func())
	id   atomic.Int64

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []func()
	closed bool
	done   chan struct{}
}

// NewBound starts the pump. send may block until the loop accepts fn.
func NewBound(send func(fn func())) *Bound {
	b := &Bound{send: send, done: make(chan struct{})}
	b.cond = sync.NewCond(&b.mu)
	go b.pump()
	return b
}

// Bind records the calling goroutine as the UI context.
func (b *Bound) Bind() {
	b.id.Store(goid.Get())
}

// IsBound reports whether Bind has been called.
func (b *Bound) IsBound() bool {
	return b.id.Load() != 0
}

// IsOnUIThread reports whether the caller is the bound goroutine.
func (b *Bound) IsOnUIThread() bool {
	id := b.id.Load()
	return id != 0 && id == goid.Get()
}

// Post queues fn for the loop. Posts after Close are dropped.
func (b *Bound) Post(fn func()) {
	if fn == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.queue = append(b.queue, fn)
	b.cond.Signal()
}

// Close stops the pump and drops anything still queued.
func (b *Bound) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.queue = nil
	b.cond.Broadcast()
	b.mu.Unlock()
	<-b.done
}

func (b *Bound) pump() {
	defer close(b.done)
	for {
		b.mu.Lock()
		for len(b.queue) == 0 && !b.closed {
			b.cond.Wait()
		}
		if b.closed {
			b.mu.Unlock()
			return
		}
		fn := b.queue[0]
		b.queue[0] = nil
		b.queue = b.queue[1:]
		b.mu.Unlock()

		b.send(fn)
	}
}
