package session

import (
	"context"
	"sync"
	"time"
)

// Handle is anything a session can stop: a running animation, a ticker, a
// pending timer, a background fetch.
type Handle interface {
	Stop()
}

// HandleFunc adapts a plain function. Stop runs it at most once.
func HandleFunc(fn func()) Handle {
	return &funcHandle{fn: fn}
}

type funcHandle struct {
	once sync.Once
	fn   func()
}

func (h *funcHandle) Stop() {
	h.once.Do(func() {
		if h.fn != nil {
			h.fn()
		}
	})
}

// TickerHandle adapts a time.Ticker.
func TickerHandle(t *time.Ticker) Handle {
	return HandleFunc(t.Stop)
}

// TimerHandle adapts a time.Timer.
func TimerHandle(t *time.Timer) Handle {
	return HandleFunc(func() { t.Stop() })
}

// CancelHandle adapts a context cancel function.
func CancelHandle(cancel context.CancelFunc) Handle {
	return HandleFunc(cancel)
}

// FrameLoop calls a frame function on a fixed interval from its own
// goroutine until stopped. Stop waits for the goroutine to exit, so no frame
// runs after Stop returns.
type FrameLoop struct {
	interval time.Duration
	frame    func(n int)

	startOnce sync.Once
	stopOnce  sync.Once
	stop      chan struct{}
	done      chan struct{}
	started   bool
	mu        sync.Mutex
}

// NewFrameLoop returns a stopped loop. A non-positive interval defaults to
// 100ms, close to a spinner frame rate.
func NewFrameLoop(interval time.Duration, frame func(n int)) *FrameLoop {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return &FrameLoop{
		interval: interval,
		frame:    frame,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the frame goroutine. Later calls, and calls after Stop,
// do nothing.
func (l *FrameLoop) Start() {
	l.startOnce.Do(func() {
		l.mu.Lock()
		select {
		case <-l.stop:
			l.mu.Unlock()
			return
		default:
		}
		l.started = true
		l.mu.Unlock()
		go l.run()
	})
}

func (l *FrameLoop) run() {
	defer close(l.done)
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	n := 0
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			// Stop may have raced the tick.
			select {
			case <-l.stop:
				return
			default:
			}
			n++
			if l.frame != nil {
				l.frame(n)
			}
		}
	}
}

// Stop ends the loop and waits for the frame goroutine to exit. It must not
// be called from inside the frame function.
func (l *FrameLoop) Stop() {
	l.stopOnce.Do(func() {
		l.mu.Lock()
		close(l.stop)
		started := l.started
		l.mu.Unlock()
		if started {
			<-l.done
		}
	})
}

// Stopped reports whether Stop has been called.
func (l *FrameLoop) Stopped() bool {
	select {
	case <-l.stop:
		return true
	default:
		return false
	}
}
