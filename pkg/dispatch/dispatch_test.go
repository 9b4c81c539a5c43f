package dispatch

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImmediateRunsInline(t *testing.T) {
	t.Parallel()

	ran := false
	Run(Immediate{}, func() { ran = true })
	assert.True(t, ran)

	ran = false
	Run(nil, func() { ran = true })
	assert.True(t, ran, "nil executor runs inline")
}

func TestLoopRunsInOrderOnItsOwnGoroutine(t *testing.T) {
	t.Parallel()

	l := NewLoop()
	defer l.Close()

	assert.False(t, l.IsOnUIThread())

	var mu sync.Mutex
	var order []int
	var onUI []bool
	for i := 0; i < 20; i++ {
		i := i
		l.Post(func() {
			mu.Lock()
			order = append(order, i)
			onUI = append(onUI, l.IsOnUIThread())
			mu.Unlock()
		})
	}
	require.True(t, l.Do(func() {}))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, order, 20)
	for i, v := range order {
		assert.Equal(t, i, v)
		assert.True(t, onUI[i])
	}
}

func TestRunOnLoopIsSynchronousFromInside(t *testing.T) {
	t.Parallel()

	l := NewLoop()
	defer l.Close()

	var steps []string
	l.Do(func() {
		Run(l, func() { steps = append(steps, "inner") })
		steps = append(steps, "after")
	})
	assert.Equal(t, []string{"inner", "after"}, steps)
}

func TestLoopSurvivesPanics(t *testing.T) {
	t.Parallel()

	l := NewLoop()
	defer l.Close()

	l.Post(func() { panic("boom") })
	ran := false
	require.True(t, l.Do(func() { ran = true }))
	assert.True(t, ran)
}

func TestLoopCloseDrainsQueue(t *testing.T) {
	t.Parallel()

	l := NewLoop()
	count := 0
	for i := 0; i < 10; i++ {
		l.Post(func() { count++ })
	}
	l.Close()
	assert.Equal(t, 10, count)

	l.Post(func() { count++ })
	assert.False(t, l.Do(func() { count++ }))
	assert.Equal(t, 10, count)
}

func TestBoundOnlyOnBindingGoroutine(t *testing.T) {
	t.Parallel()

	b := NewBound(func(fn func()) { fn() })
	defer b.Close()

	bound := make(chan struct{})
	release := make(chan struct{})
	onLoop := make(chan bool, 1)
	go func() {
		b.Bind()
		onLoop <- b.IsOnUIThread()
		close(bound)
		<-release
	}()
	<-bound
	assert.True(t, <-onLoop)
	assert.True(t, b.IsBound())
	assert.False(t, b.IsOnUIThread(), "the test goroutine is not the UI context")
	close(release)
}

func TestBoundPostsThroughSend(t *testing.T) {
	t.Parallel()

	msgs := make(chan func())
	b := NewBound(func(fn func()) { msgs <- fn })
	defer b.Close()

	assert.False(t, b.IsBound())
	assert.False(t, b.IsOnUIThread(), "unbound executor has no UI context")

	results := make(chan bool, 3)
	done := make(chan struct{})
	go func() {
		defer close(done)
		b.Bind()
		for range 3 {
			fn := <-msgs
			fn()
		}
	}()

	for range 3 {
		b.Post(func() { results <- b.IsOnUIThread() })
	}
	<-done
	close(results)
	for onUI := range results {
		assert.True(t, onUI)
	}
	assert.True(t, b.IsBound())
	assert.False(t, b.IsOnUIThread())
}

func TestBoundRunInlineOnLoop(t *testing.T) {
	t.Parallel()

	b := NewBound(func(fn func()) { fn() })
	defer b.Close()

	b.Bind()
	ran := false
	Run(b, func() { ran = true })
	assert.True(t, ran, "Run from the bound goroutine is synchronous")
}

func TestBoundDropsAfterClose(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	calls := 0
	b := NewBound(func(fn func()) {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	b.Close()
	b.Close()
	b.Post(func() {})

	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, calls)
}
