package dispatch

import (
	"sync"
	"sync/atomic"

	"github.com/petermattis/goid"
	"github.com/rs/zerolog"
)

// Loop is an Executor backed by one dedicated goroutine draining an
// unbounded FIFO. Functions run in the order they were posted.
type Loop struct {
	logger zerolog.Logger

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []func()
	closed bool

	id   atomic.Int64
	done chan struct{}
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithLoopLogger sets the logger used to report panicking functions.
func WithLoopLogger(l zerolog.Logger) LoopOption {
	return func(lp *Loop) { lp.logger = l }
}

// NewLoop starts the loop goroutine.
func NewLoop(opts ...LoopOption) *Loop {
	l := &Loop{
		logger: zerolog.Nop(),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.cond = sync.NewCond(&l.mu)

	started := make(chan struct{})
	go l.run(started)
	<-started
	return l
}

// IsOnUIThread reports whether the caller is the loop goroutine.
func (l *Loop) IsOnUIThread() bool {
	id := goid.Get()
	return id != 0 && id == l.id.Load()
}

// Post queues fn. Posts after Close are dropped.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.queue = append(l.queue, fn)
	l.cond.Signal()
}

// Do runs fn on the loop and waits for it to return. Called from the loop
// itself, it runs fn inline. It returns false if the loop is closed.
func (l *Loop) Do(fn func()) bool {
	if l.IsOnUIThread() {
		fn()
		return true
	}
	finished := make(chan struct{})
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, func() {
		defer close(finished)
		fn()
	})
	l.cond.Signal()
	l.mu.Unlock()

	select {
	case <-finished:
		return true
	case <-l.done:
		// The loop drains its queue before exiting.
		<-finished
		return true
	}
}

// Close stops accepting work, runs what is already queued and waits for the
// loop goroutine to exit. It must not be called from the loop itself.
func (l *Loop) Close() {
	l.mu.Lock()
	if !l.closed {
		l.closed = true
		l.cond.Broadcast()
	}
	l.mu.Unlock()
	<-l.done
}

func (l *Loop) run(started chan<- struct{}) {
	defer close(l.done)
	l.id.Store(goid.Get())
	close(started)

	for {
		l.mu.Lock()
		for len(l.queue) == 0 && !l.closed {
			l.cond.Wait()
		}
		if len(l.queue) == 0 && l.closed {
			l.mu.Unlock()
			return
		}
		fn := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		l.mu.Unlock()

		l.call(fn)
	}
}

func (l *Loop) call(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error().Interface("panic", r).Msg("posted function panicked")
		}
	}()
	fn()
}
