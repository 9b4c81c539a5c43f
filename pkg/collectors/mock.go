package collectors

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// MockSource implements Source for tests and the offline gallery. It
// records how many times Fetch was called.
type MockSource struct {
	name     string
	interval time.Duration

	mu      sync.RWMutex
	data    any
	err     error
	healthy bool
	delay   time.Duration
	fetchFn func(ctx context.Context, key string) (any, error)

	calls atomic.Int64
}

// MockOption configures a MockSource.
type MockOption func(*MockSource)

// WithData sets the value Fetch returns.
func WithData(data any) MockOption {
	return func(m *MockSource) { m.data = data }
}

// WithError sets the error Fetch returns.
func WithError(err error) MockOption {
	return func(m *MockSource) { m.err = err }
}

// WithDelay makes Fetch wait before returning, honoring ctx.
func WithDelay(d time.Duration) MockOption {
	return func(m *MockSource) { m.delay = d }
}

// WithFetchFunc overrides Fetch entirely.
func WithFetchFunc(fn func(ctx context.Context, key string) (any, error)) MockOption {
	return func(m *MockSource) { m.fetchFn = fn }
}

// NewMockSource returns a healthy mock source.
func NewMockSource(name string, interval time.Duration, opts ...MockOption) *MockSource {
	m := &MockSource{name: name, interval: interval, healthy: true}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Name returns the source name.
func (m *MockSource) Name() string { return m.name }

// Interval returns the configured interval.
func (m *MockSource) Interval() time.Duration { return m.interval }

// Healthy reports whether the last Fetch returned no error.
func (m *MockSource) Healthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.healthy
}

// SetData replaces the returned value.
func (m *MockSource) SetData(data any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
}

// SetError replaces the returned error.
func (m *MockSource) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Fetch returns the configured value and error after the configured delay.
func (m *MockSource) Fetch(ctx context.Context, key string) (any, error) {
	m.calls.Add(1)

	m.mu.RLock()
	fn, delay := m.fetchFn, m.delay
	m.mu.RUnlock()

	if delay > 0 {
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			m.setHealthy(false)
			return nil, ctx.Err()
		case <-t.C:
		}
	}

	var data any
	var err error
	if fn != nil {
		data, err = fn(ctx, key)
	} else {
		m.mu.RLock()
		data, err = m.data, m.err
		m.mu.RUnlock()
	}
	m.setHealthy(err == nil)
	return data, err
}

func (m *MockSource) setHealthy(h bool) {
	m.mu.Lock()
	m.healthy = h
	m.mu.Unlock()
}

// CallCount returns how many times Fetch was called.
func (m *MockSource) CallCount() int64 {
	return m.calls.Load()
}
