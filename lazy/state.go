// Package lazy implements the virtualized list core: a scroll position with
// a minimal serializable view, a windowed measurement loop that subcomposes
// only the visible items, a per-content-type slot reuse pool, and a
// prefetcher that warms items in the scroll direction.
package lazy

import (
	"github.com/agiangrant/reflow/runtime"
)

// position is the persisted scroll anchor: the first visible item and how
// far it is scrolled past the viewport start.
type position struct {
	Index  int
	Offset float32
}

// ListState anchors a lazy list's scroll position in a reactive cell. The
// serializable view (FirstVisibleIndex, FirstVisibleScrollOffset) is the
// only state a host needs to persist; everything else is re-derived by
// measurement.
type ListState struct {
	cell  *runtime.Cell
	sched *runtime.Scheduler

	// avg is the running average main-axis item size from the last
	// measurement, used by the infinite-viewport fallback and prefetch
	// sizing.
	avg float32

	// direction is +1 scrolling toward larger indices, -1 toward smaller.
	direction int
}

// NewListState creates list state anchored at the given item. sched may be
// nil; scroll mutations then rely on subscribed scopes to request frames.
func NewListState(sched *runtime.Scheduler, firstIndex int, firstOffset float32) *ListState {
	if firstIndex < 0 {
		firstIndex = 0
	}
	return &ListState{
		cell:  runtime.NewCell(position{Index: firstIndex, Offset: firstOffset}),
		sched: sched,
	}
}

// FirstVisibleIndex returns the first visible item index, subscribing the
// active scope.
func (s *ListState) FirstVisibleIndex() int {
	return s.cell.Load().(position).Index
}

// FirstVisibleScrollOffset returns how far the first visible item is
// scrolled past the viewport start, subscribing the active scope.
func (s *ListState) FirstVisibleScrollOffset() float32 {
	return s.cell.Load().(position).Offset
}

// Scheduler returns the scheduler the state was created with, nil for
// detached state.
func (s *ListState) Scheduler() *runtime.Scheduler { return s.sched }

// AverageItemSize returns the measured average main-axis size, or 0 before
// the first measurement.
func (s *ListState) AverageItemSize() float32 { return s.avg }

// Direction returns the last scroll direction: +1 forward, -1 backward, 0
// before any scroll.
func (s *ListState) Direction() int { return s.direction }

// ScrollToItem jumps so that item index sits offset pixels past the
// viewport start, and requests a frame. The next measurement starts fresh
// there.
func (s *ListState) ScrollToItem(index int, offset float32) {
	if index < 0 {
		index = 0
	}
	cur := s.cell.Peek().(position)
	switch {
	case index > cur.Index:
		s.direction = 1
	case index < cur.Index:
		s.direction = -1
	}
	s.store(position{Index: index, Offset: offset})
}

// ScrollBy shifts the scroll position by delta pixels (positive toward
// larger indices). Measurement renormalizes the (index, offset) pair.
func (s *ListState) ScrollBy(delta float32) {
	if delta == 0 {
		return
	}
	if delta > 0 {
		s.direction = 1
	} else {
		s.direction = -1
	}
	cur := s.cell.Peek().(position)
	s.store(position{Index: cur.Index, Offset: cur.Offset + delta})
}

func (s *ListState) store(p position) {
	s.cell.Store(p)
	if s.sched != nil {
		s.sched.RequestFrame()
	}
}

// peek reads the position without subscribing; measurement uses this so a
// layout pass does not subscribe itself to scroll state.
func (s *ListState) peek() position {
	return s.cell.Peek().(position)
}

// nearestRangeBlock is the snapping granularity of the sliding index
// window, and nearestRangePad its padding on each side. The window keeps
// key-to-index lookups amortized O(1) while scrolling inside it.
const (
	nearestRangeBlock = 30
	nearestRangePad   = 100
)

// NearestRange returns the sliding index window around firstVisible:
// snapped down to a multiple of the block size, padded on both sides, and
// clamped to [0, count).
func NearestRange(firstVisible, count int) (start, end int) {
	if count <= 0 {
		return 0, 0
	}
	snapped := (firstVisible / nearestRangeBlock) * nearestRangeBlock
	start = snapped - nearestRangePad
	if start < 0 {
		start = 0
	}
	end = snapped + nearestRangeBlock + nearestRangePad
	if end > count {
		end = count
	}
	return start, end
}
