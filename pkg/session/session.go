// Package session tracks the animations and timers a widget starts while it
// is live, so they can all be stopped together when the widget goes away.
//
// Each Open allocates a new generation. Async visual builders capture the
// generation (or the session Context) when they start and compare it when
// they finish; a builder that finishes after Close hands its handles to
// Track, which stops them immediately instead of keeping them.
package session

import (
	"context"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// generations is shared by every session in the process so a generation
// number is never reused, even across sessions.
var generations atomic.Uint64

// State is a session's lifecycle state.
type State int

const (
	Idle State = iota
	Live
	Closed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Live:
		return "live"
	case Closed:
		return "closed"
	}
	return "unknown"
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used to report failing Stop calls.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// Session owns the running visual and timer handles of one widget.
type Session struct {
	logger zerolog.Logger

	mu         sync.Mutex
	state      State
	generation uint64
	visuals    []Handle
	timers     []Handle
	ctx        context.Context
	cancel     context.CancelFunc
}

// New returns an idle session.
func New(opts ...Option) *Session {
	s := &Session{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	return s
}

// Open marks the session live and returns its generation. Opening a live
// session returns the current generation; a closed session stays closed and
// returns 0.
func (s *Session) Open() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case Live:
		return s.generation
	case Closed:
		return 0
	}
	s.state = Live
	s.generation = generations.Add(1)
	return s.generation
}

// Live reports whether the session is open.
func (s *Session) Live() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == Live
}

// State returns the lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Generation returns the generation allocated by Open, or 0.
func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Current reports whether gen is still the live generation.
func (s *Session) Current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == Live && gen != 0 && gen == s.generation
}

// Context is cancelled when the session closes.
func (s *Session) Context() context.Context {
	return s.ctx
}

// Track registers a visual handle. On a closed session the handle is stopped
// at once and not retained.
func (s *Session) Track(h Handle) {
	s.track(h, false)
}

// TrackTimer registers a timer handle, with the same closed-session rule as
// Track.
func (s *Session) TrackTimer(h Handle) {
	s.track(h, true)
}

func (s *Session) track(h Handle, timer bool) {
	if h == nil {
		return
	}
	s.mu.Lock()
	if s.state == Closed {
		s.mu.Unlock()
		s.logger.Debug().Msg("stopping handle tracked after close")
		s.stop(h)
		return
	}
	if contains(s.visuals, h) || contains(s.timers, h) {
		s.mu.Unlock()
		return
	}
	if timer {
		s.timers = append(s.timers, h)
	} else {
		s.visuals = append(s.visuals, h)
	}
	s.mu.Unlock()
}

// contains reports whether h is already in hs. Handles of a non-comparable
// type never match.
func contains(hs []Handle, h Handle) bool {
	if !reflect.TypeOf(h).Comparable() {
		return false
	}
	for _, x := range hs {
		if x == h {
			return true
		}
	}
	return false
}

// Tracked returns the number of retained visual and timer handles.
func (s *Session) Tracked() (visuals, timers int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.visuals), len(s.timers)
}

// Close stops every tracked handle exactly once and clears both sets. It is
// idempotent and safe on a session that was never opened.
func (s *Session) Close() {
	s.mu.Lock()
	if s.state == Closed {
		s.mu.Unlock()
		return
	}
	s.state = Closed
	visuals, timers := s.visuals, s.timers
	s.visuals, s.timers = nil, nil
	s.mu.Unlock()

	s.cancel()
	for _, h := range visuals {
		s.stop(h)
	}
	for _, h := range timers {
		s.stop(h)
	}
	s.logger.Debug().
		Int("visuals", len(visuals)).
		Int("timers", len(timers)).
		Msg("session closed")
}

// stop calls h.Stop, containing a panic so the remaining handles still stop.
func (s *Session) stop(h Handle) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Interface("panic", r).Msg("handle stop failed")
		}
	}()
	h.Stop()
}
