package shutdown

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTriggerIdempotent checks that firing twice is the same as firing once.
func TestTriggerIdempotent(t *testing.T) {
	trigger, listener := New()
	assert.False(t, listener.Triggered())

	trigger.Trigger()
	assert.True(t, listener.Triggered())
	trigger.Trigger()
	assert.True(t, listener.Triggered())

	select {
	case <-listener.Done():
	default:
		t.Fatal("Done not closed after trigger")
	}
}

// TestListenersObserveFire checks that listeners waiting before the fire and
// listeners arriving after it all observe it.
func TestListenersObserveFire(t *testing.T) {
	trigger, listener := New()

	const waiters = 20
	var wg sync.WaitGroup
	observed := make(chan struct{}, waiters)
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func(l Listener) {
			defer wg.Done()
			if err := l.Wait(context.Background()); err == nil {
				observed <- struct{}{}
			}
		}(listener)
	}

	trigger.Trigger()
	wg.Wait()
	assert.Len(t, observed, waiters)

	// A listener copied after the fire resolves immediately, every time.
	late := listener
	for i := 0; i < 3; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		assert.NoError(t, late.Wait(ctx))
		cancel()
	}
}

// TestConcurrentTriggers fires the latch from many goroutines at once.
func TestConcurrentTriggers(t *testing.T) {
	trigger, listener := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			trigger.Trigger()
		}()
	}
	wg.Wait()
	assert.True(t, listener.Triggered())
}

// TestWaitContext checks that Wait gives up when its context is done.
func TestWaitContext(t *testing.T) {
	_, listener := New()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := listener.Wait(ctx)
	require.Error(t, err)
	assert.Equal(t, context.DeadlineExceeded, err)
	assert.False(t, listener.Triggered())
}

// TestIndependentSignals checks that two signals do not share a latch.
func TestIndependentSignals(t *testing.T) {
	t1, l1 := New()
	_, l2 := New()
	t1.Trigger()
	assert.True(t, l1.Triggered())
	assert.False(t, l2.Triggered())
}
