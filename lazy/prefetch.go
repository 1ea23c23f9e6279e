package lazy

import "github.com/agiangrant/reflow/runtime"

// DefaultPrefetchCount is how many items ahead of the scroll direction are
// warmed per frame.
const DefaultPrefetchCount = 2

// Prefetcher pre-composes upcoming items on a frame callback so they are
// warm when scrolled into view. Warm runs after the frame that scheduled
// it, never inside the measure pass.
type Prefetcher struct {
	sched *runtime.Scheduler
	warm  func(index int)

	pending   []int
	scheduled bool
}

// NewPrefetcher creates a prefetcher; warm subcomposes one item off the
// critical path.
func NewPrefetcher(sched *runtime.Scheduler, warm func(index int)) *Prefetcher {
	return &Prefetcher{sched: sched, warm: warm}
}

// Schedule replaces the pending index set. Duplicate scheduling before the
// callback fires coalesces into one run.
func (p *Prefetcher) Schedule(indices []int) {
	p.pending = append(p.pending[:0], indices...)
	if len(p.pending) == 0 || p.scheduled {
		return
	}
	p.scheduled = true
	p.sched.RegisterFrameCallback(func(int64) {
		p.scheduled = false
		batch := p.pending
		p.pending = nil
		for _, i := range batch {
			p.warm(i)
		}
	})
}

// Pending returns the indices awaiting warm-up.
func (p *Prefetcher) Pending() []int { return p.pending }
