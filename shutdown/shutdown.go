// Package shutdown provides the broadcast-once shutdown signal of the daemon
// and the watcher that fires it.
//
// A signal is a Trigger and a Listener over one latch. The latch goes from
// "not fired" to "fired" at most once. Every Listener, including ones that
// start waiting after the fire, observes the fired state permanently. There
// is no payload and no way to reset the latch.
package shutdown

import (
	"context"

	"gitlab.com/NebulousLabs/threadgroup"
)

type (
	// Trigger fires the latch.
	Trigger struct {
		tg *threadgroup.ThreadGroup
	}

	// Listener observes the latch. Copies share the latch and may be handed
	// to any number of goroutines.
	Listener struct {
		tg *threadgroup.ThreadGroup
	}
)

// New returns the two sides of a fresh, unfired shutdown signal.
func New() (Trigger, Listener) {
	tg := new(threadgroup.ThreadGroup)
	return Trigger{tg: tg}, Listener{tg: tg}
}

// Trigger fires the latch. Firing an already fired latch is a no-op; it is
// safe to call from several goroutines at once.
func (t Trigger) Trigger() {
	// Stop only fails with ErrStopped on a repeated call, which is exactly
	// the idempotent case.
	_ = t.tg.Stop()
}

// Done returns a channel that is closed once the latch fires.
func (l Listener) Done() <-chan struct{} {
	return l.tg.StopChan()
}

// Triggered reports whether the latch has fired.
func (l Listener) Triggered() bool {
	select {
	case <-l.Done():
		return true
	default:
		return false
	}
}

// Wait blocks until the latch fires or ctx is done. It returns nil if the
// latch fired.
func (l Listener) Wait(ctx context.Context) error {
	select {
	case <-l.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
