// Package refresh runs data loads in the background and delivers their
// outcome on the UI context, dropping results that a newer load, a cancel,
// or teardown has made irrelevant.
package refresh

import (
	"context"
	"sync/atomic"
)

var generations atomic.Uint64

// Token identifies one refresh operation. Work functions poll Cancelled or
// pass Context to blocking calls.
type Token struct {
	generation uint64
	ctx        context.Context
	cancel     context.CancelFunc
}

func newToken(parent context.Context) *Token {
	ctx, cancel := context.WithCancel(parent)
	return &Token{
		generation: generations.Add(1),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Generation returns the token's process-unique, increasing number.
func (t *Token) Generation() uint64 {
	if t == nil {
		return 0
	}
	return t.generation
}

// Cancel marks the token cancelled. Safe to call more than once.
func (t *Token) Cancel() {
	if t != nil {
		t.cancel()
	}
}

// Cancelled reports whether the token was cancelled.
func (t *Token) Cancelled() bool {
	return t == nil || t.ctx.Err() != nil
}

// Context is cancelled together with the token.
func (t *Token) Context() context.Context {
	if t == nil {
		return context.Background()
	}
	return t.ctx
}

// Done is closed when the token is cancelled.
func (t *Token) Done() <-chan struct{} {
	return t.Context().Done()
}

// Err returns context.Canceled once the token is cancelled.
func (t *Token) Err() error {
	if t == nil {
		return context.Canceled
	}
	return t.ctx.Err()
}
