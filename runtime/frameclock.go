package runtime

import "context"

// FrameClock lets background work suspend until the host's next render tick.
// It is the only suspension primitive in the core: launched effects await
// NextFrame, and cancellation is observed there.
type FrameClock struct {
	sched *Scheduler
}

// NewFrameClock creates a clock driven by the scheduler's drain.
func NewFrameClock(sched *Scheduler) *FrameClock {
	return &FrameClock{sched: sched}
}

// NextFrame blocks until the next DrainFrameCallbacks, returning the frame
// time, or until the context is cancelled.
func (c *FrameClock) NextFrame(ctx context.Context) (nowNanos int64, err error) {
	ch := make(chan int64, 1)
	id := c.sched.RegisterFrameCallback(func(now int64) {
		ch <- now
	})
	select {
	case now := <-ch:
		return now, nil
	case <-ctx.Done():
		c.sched.CancelFrameCallback(id)
		return 0, ctx.Err()
	}
}
