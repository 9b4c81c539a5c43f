// Package collectors defines the data sources widgets refresh from and a
// registry that runs them and tracks their health. Sources live in
// sub-packages (weather, sysmetrics); widgets fetch through the registry
// from a refresh controller's worker goroutine.
package collectors

import (
	"context"
	"errors"
	"time"
)

// ErrUnknownSource is returned when fetching from a name that is not
// registered.
var ErrUnknownSource = errors.New("collectors: unknown source")

// Source is the interface every data source implements.
type Source interface {
	// Name returns a unique identifier, e.g. "weather".
	Name() string

	// Fetch loads one value. key selects what to load (a place name for
	// weather); sources without keys ignore it. Fetch must honor ctx.
	Fetch(ctx context.Context, key string) (any, error)

	// Interval is the suggested auto refresh interval.
	Interval() time.Duration

	// Healthy reports whether the last fetch succeeded. A source that has
	// never run is healthy.
	Healthy() bool
}

// SourceStatus tracks the runtime state of one source. The registry updates
// it after every fetch.
type SourceStatus struct {
	Name        string
	Healthy     bool
	LastRun     time.Time
	LastError   error
	RunCount    int64
	ErrorCount  int64
	LastLatency time.Duration
}
