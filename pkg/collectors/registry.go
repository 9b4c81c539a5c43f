package collectors

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Registry manages a set of named sources. It is safe for concurrent use.
type Registry struct {
	logger zerolog.Logger

	mu       sync.RWMutex
	sources  map[string]Source
	statuses map[string]*SourceStatus
}

// NewRegistry returns an empty registry.
func NewRegistry(logger zerolog.Logger) *Registry {
	return &Registry{
		logger:   logger,
		sources:  make(map[string]Source),
		statuses: make(map[string]*SourceStatus),
	}
}

// Register adds a source. It returns an error if a source with the same
// name is already registered.
func (r *Registry) Register(s Source) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := s.Name()
	if _, exists := r.sources[name]; exists {
		return fmt.Errorf("source %q already registered", name)
	}
	r.sources[name] = s
	r.statuses[name] = &SourceStatus{Name: name, Healthy: true}
	return nil
}

// Unregister removes a source by name. It is a no-op if the name is not
// found.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sources, name)
	delete(r.statuses, name)
}

// Get returns the named source.
func (r *Registry) Get(name string) (Source, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sources[name]
	return s, ok
}

// List returns the registered names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Status returns a copy of the named source's status.
func (r *Registry) Status(name string) (SourceStatus, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.statuses[name]
	if !ok {
		return SourceStatus{}, false
	}
	return *s, true
}

// AllStatus returns a copy of every status, sorted by name.
func (r *Registry) AllStatus() []SourceStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]SourceStatus, 0, len(r.statuses))
	for _, s := range r.statuses {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// Fetch runs the named source and records the outcome in its status.
func (r *Registry) Fetch(ctx context.Context, name, key string) (any, error) {
	s, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, name)
	}

	start := time.Now()
	data, err := s.Fetch(ctx, key)
	latency := time.Since(start)

	r.updateStatus(name, func(st *SourceStatus) {
		st.LastRun = start
		st.LastLatency = latency
		st.RunCount++
		st.LastError = err
		if err != nil {
			st.ErrorCount++
		}
		st.Healthy = s.Healthy()
	})

	level := zerolog.DebugLevel
	if err != nil {
		level = zerolog.WarnLevel
	}
	r.logger.WithLevel(level).Err(err).
		Str("source", name).
		Str("key", key).
		Dur("latency", latency).
		Msg("fetch finished")
	return data, err
}

// FetchAs runs the named source and asserts its result type.
func FetchAs[T any](ctx context.Context, r *Registry, name, key string) (T, error) {
	var zero T
	data, err := r.Fetch(ctx, name, key)
	if err != nil {
		return zero, err
	}
	v, ok := data.(T)
	if !ok {
		return zero, fmt.Errorf("collectors: source %q returned %T, want %T", name, data, zero)
	}
	return v, nil
}

// updateStatus applies fn to the named status under the write lock.
func (r *Registry) updateStatus(name string, fn func(s *SourceStatus)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.statuses[name]; ok {
		fn(s)
	}
}
