package refresh

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"gitlab.com/tinyland/lab/pulse-widgets/pkg/dispatch"
)

// ErrPanic wraps a panic raised inside a work function.
var ErrPanic = errors.New("refresh: work panicked")

// Work loads a value. It should return promptly once tok is cancelled.
type Work[T any] func(tok *Token) (T, error)

// Option configures a Controller or an AutoRefresh.
type Option func(*options)

type options struct {
	exec   dispatch.Executor
	parent context.Context
	logger zerolog.Logger
}

func buildOptions(opts []Option) options {
	o := options{
		exec:   dispatch.Immediate{},
		parent: context.Background(),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithExecutor sets where outcomes are delivered. Defaults to
// dispatch.Immediate.
func WithExecutor(exec dispatch.Executor) Option {
	return func(o *options) {
		if exec != nil {
			o.exec = exec
		}
	}
}

// WithContext sets the parent of every token; cancelling it cancels them.
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.parent = ctx
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Controller runs at most one current load at a time. Starting a new load
// supersedes the previous one: its outcome is dropped without any callback.
type Controller[T any] struct {
	opts options

	mu      sync.Mutex
	current *Token
	closed  bool
	wg      sync.WaitGroup
}

// NewController returns an idle controller.
func NewController[T any](opts ...Option) *Controller[T] {
	return &Controller[T]{opts: buildOptions(opts)}
}

// Start cancels any in-flight load, issues a new token and runs work on a
// new goroutine. Callbacks run on the executor, at most once each:
//
//   - superseded (a newer Start, or Close): nothing runs
//   - cancelled: onSettled only
//   - failed: onFailure, then onSettled
//   - succeeded: onSuccess, then onSettled
//
// Any callback may be nil. After Close, Start returns a cancelled token and
// runs nothing.
func (c *Controller[T]) Start(work Work[T], onSuccess func(T), onFailure func(error), onSettled func()) *Token {
	tok := newToken(c.opts.parent)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		tok.Cancel()
		return tok
	}
	prev := c.current
	c.current = tok
	c.wg.Add(1)
	c.mu.Unlock()

	prev.Cancel()
	c.opts.logger.Debug().Uint64("generation", tok.generation).Msg("refresh started")

	go func() {
		defer c.wg.Done()
		v, err := c.run(work, tok)
		dispatch.Run(c.opts.exec, func() {
			c.deliver(tok, v, err, onSuccess, onFailure, onSettled)
		})
	}()
	return tok
}

func (c *Controller[T]) run(work Work[T], tok *Token) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	if work == nil {
		return v, nil
	}
	return work(tok)
}

func (c *Controller[T]) deliver(tok *Token, v T, err error, onSuccess func(T), onFailure func(error), onSettled func()) {
	c.mu.Lock()
	if c.closed || c.current != tok {
		c.mu.Unlock()
		c.opts.logger.Debug().Uint64("generation", tok.generation).Msg("dropping superseded refresh")
		return
	}
	c.current = nil
	c.mu.Unlock()

	switch {
	case tok.Cancelled():
	case err != nil:
		c.opts.logger.Debug().Err(err).Uint64("generation", tok.generation).Msg("refresh failed")
		if onFailure != nil {
			onFailure(err)
		}
	default:
		if onSuccess != nil {
			onSuccess(v)
		}
	}
	if onSettled != nil {
		onSettled()
	}
}

// Cancel cancels the current load, if any. Its outcome is reduced to the
// settled callback.
func (c *Controller[T]) Cancel() {
	c.mu.Lock()
	tok := c.current
	c.mu.Unlock()
	tok.Cancel()
}

// Current returns the in-flight token, or nil when idle.
func (c *Controller[T]) Current() *Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Busy reports whether a load is in flight.
func (c *Controller[T]) Busy() bool {
	return c.Current() != nil
}

// Close cancels the current load and drops every outcome still pending. The
// controller accepts no further work.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	c.closed = true
	tok := c.current
	c.current = nil
	c.mu.Unlock()
	tok.Cancel()
}

// Wait blocks until every started work function has returned and its
// outcome has been handed to the executor.
func (c *Controller[T]) Wait() {
	c.wg.Wait()
}
