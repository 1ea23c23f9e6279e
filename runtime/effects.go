package runtime

import (
	"context"
	"sync/atomic"
)

// EffectHandle controls a launched effect. Dropping an effect means calling
// Cancel: the effect's context is cancelled and the goroutine observes it at
// its next suspension point.
type EffectHandle struct {
	cancel context.CancelFunc
	done   chan struct{}
	active atomic.Bool
}

// Cancel stops the effect at its next suspension point. The handle's scope
// is marked inactive synchronously.
func (h *EffectHandle) Cancel() {
	h.active.Store(false)
	h.cancel()
}

// Active reports whether the effect has not been cancelled and has not
// finished.
func (h *EffectHandle) Active() bool {
	return h.active.Load()
}

// Done is closed when the effect's function has returned.
func (h *EffectHandle) Done() <-chan struct{} {
	return h.done
}

// Launch starts background work driven by the frame clock. The function runs
// on its own goroutine and must suspend via clock.NextFrame(ctx); writes back
// into UI state should go through RunInMutableSnapshot from a frame callback
// rather than directly from the goroutine.
func Launch(sched *Scheduler, fn func(ctx context.Context, clock *FrameClock)) *EffectHandle {
	ctx, cancel := context.WithCancel(context.Background())
	h := &EffectHandle{cancel: cancel, done: make(chan struct{})}
	h.active.Store(true)
	clock := NewFrameClock(sched)

	go func() {
		defer close(h.done)
		defer h.active.Store(false)
		fn(ctx, clock)
	}()

	return h
}
