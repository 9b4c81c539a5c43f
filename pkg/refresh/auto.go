package refresh

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"gitlab.com/tinyland/lab/pulse-widgets/pkg/dispatch"
)

// ErrInvalidInterval is returned for a non-positive auto refresh interval.
var ErrInvalidInterval = errors.New("refresh: interval must be positive")

// AutoRefresh calls fire on the UI context every interval until stopped.
// Cancellation is checked before and after each delay and once more on the
// UI context right before fire, so a Stop issued from the UI context
// guarantees no later tick.
type AutoRefresh struct {
	interval time.Duration
	fire     func()
	opts     options

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	ticks  atomic.Int64
}

// NewAutoRefresh returns a stopped loop.
func NewAutoRefresh(interval time.Duration, fire func(), opts ...Option) (*AutoRefresh, error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	return &AutoRefresh{
		interval: interval,
		fire:     fire,
		opts:     buildOptions(opts),
	}, nil
}

// Interval returns the delay between ticks.
func (a *AutoRefresh) Interval() time.Duration {
	return a.interval
}

// Start begins ticking, restarting the loop if it is already running.
func (a *AutoRefresh) Start() {
	ctx, cancel := context.WithCancel(a.opts.parent)
	done := make(chan struct{})

	a.mu.Lock()
	prevCancel := a.cancel
	a.cancel, a.done = cancel, done
	a.mu.Unlock()

	if prevCancel != nil {
		prevCancel()
	}
	a.opts.logger.Debug().Dur("interval", a.interval).Msg("auto refresh started")
	go a.run(ctx, done)
}

func (a *AutoRefresh) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	timer := time.NewTimer(a.interval)
	defer timer.Stop()

	for {
		if ctx.Err() != nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		if ctx.Err() != nil {
			return
		}
		dispatch.Run(a.opts.exec, func() {
			if ctx.Err() != nil {
				return
			}
			a.ticks.Add(1)
			if a.fire != nil {
				a.fire()
			}
		})
		timer.Reset(a.interval)
	}
}

// Stop cancels the loop without waiting for its goroutine.
func (a *AutoRefresh) Stop() {
	a.mu.Lock()
	cancel := a.cancel
	a.cancel = nil
	a.mu.Unlock()
	if cancel != nil {
		cancel()
		a.opts.logger.Debug().Msg("auto refresh stopped")
	}
}

// Running reports whether the loop has been started and not stopped.
func (a *AutoRefresh) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cancel != nil
}

// Ticks returns how many times fire has been called.
func (a *AutoRefresh) Ticks() int64 {
	return a.ticks.Load()
}

// Wait blocks until the most recently started loop goroutine exits.
func (a *AutoRefresh) Wait() {
	a.mu.Lock()
	done := a.done
	a.mu.Unlock()
	if done != nil {
		<-done
	}
}
