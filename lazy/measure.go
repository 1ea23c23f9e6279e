package lazy

import (
	"math"

	"github.com/agiangrant/reflow/layout"
)

// MeasuredItem is one subcomposed item: its identity, measured extent, and
// the root layout nodes its subcomposition produced.
type MeasuredItem struct {
	Index       int
	Key         any
	ContentType any
	MainSize    float32
	CrossSize   float32

	// Offset is the item's main-axis position in viewport coordinates,
	// assigned by measurement.
	Offset float32

	Nodes []*layout.Node
}

// MeasureInput parameterizes one measurement pass. Compose subcomposes one
// item and reports its measured sizes; it is called only for items the
// window actually needs.
type MeasureInput struct {
	ViewportMain   float32
	Spacing        float32
	BeforePadding  float32
	AfterPadding   float32
	PrefetchMargin float32
	PrefetchCount  int
	ItemCount      int
	Compose        func(index int) MeasuredItem
}

// MeasureResult is the visible window plus bookkeeping for the frame.
type MeasureResult struct {
	Items []MeasuredItem

	// Viewport is the effective main-axis viewport after the infinite
	// fallback.
	Viewport float32

	// ContentEnd is the main-axis position just past the last composed
	// item, including trailing padding.
	ContentEnd float32

	// Prefetch lists the indices to warm after this frame, in the current
	// scroll direction.
	Prefetch []int
}

const (
	// maxReasonableViewport triggers the explicit infinite-constraint
	// fallback.
	maxReasonableViewport = 100_000

	// infiniteFallbackItems sizes the fallback viewport in average items.
	infiniteFallbackItems = 20

	// defaultItemSizeGuess seeds the average before the first measurement.
	defaultItemSizeGuess = 48
)

// Measure fills the viewport with subcomposed items starting at the list's
// anchor, renormalizes the (index, offset) anchor, and publishes it back to
// the state cell. Items are composed strictly on demand: cost scales with
// the viewport, never with ItemCount.
func (s *ListState) Measure(in MeasureInput) MeasureResult {
	count := in.ItemCount
	if count <= 0 {
		s.publish(position{})
		return MeasureResult{Viewport: s.effectiveViewport(in)}
	}

	viewport := s.effectiveViewport(in)
	pos := s.peek()
	index := pos.Index
	if index > count-1 {
		index = count - 1
	}
	offset := pos.Offset

	// Items composed while resolving the anchor; reused by the fill below.
	cache := make(map[int]MeasuredItem)
	compose := func(i int) MeasuredItem {
		if it, ok := cache[i]; ok {
			return it
		}
		it := in.Compose(i)
		it.Index = i
		cache[i] = it
		return it
	}

	index, offset = s.resolveAnchor(index, offset, count, in.Spacing, compose)

	// Forward fill until the viewport plus the prefetch margin is covered.
	limit := viewport + in.PrefetchMargin
	var items []MeasuredItem
	y := in.BeforePadding - offset
	i := index
	for i < count && y < limit {
		it := compose(i)
		it.Offset = y
		items = append(items, it)
		y += it.MainSize + in.Spacing
		i++
	}

	// End adjuster: the last item ended short of the viewport while
	// earlier content is scrolled away; pull the window back.
	if i == count && len(items) > 0 {
		end := y - in.Spacing + in.AfterPadding
		if shortfall := viewport - end; shortfall > 0 && (index > 0 || offset > 0) {
			offset -= shortfall
			index, offset = s.resolveAnchor(index, offset, count, in.Spacing, compose)
			items = items[:0]
			y = in.BeforePadding - offset
			for i = index; i < count && y < limit; i++ {
				it := compose(i)
				it.Offset = y
				items = append(items, it)
				y += it.MainSize + in.Spacing
			}
		}
	}

	if len(items) > 0 {
		var total float32
		for _, it := range items {
			total += it.MainSize
		}
		s.avg = total / float32(len(items))
	}
	s.publish(position{Index: index, Offset: offset})

	return MeasureResult{
		Items:      items,
		Viewport:   viewport,
		ContentEnd: y - in.Spacing + in.AfterPadding,
		Prefetch:   s.prefetchIndices(in.PrefetchCount, index, i, count),
	}
}

// resolveAnchor walks the (index, offset) pair to a normal form: offset in
// [0, first item extent), clamped at the content edges.
func (s *ListState) resolveAnchor(index int, offset float32, count int, spacing float32, compose func(int) MeasuredItem) (int, float32) {
	for offset < 0 && index > 0 {
		index--
		it := compose(index)
		offset += it.MainSize + spacing
	}
	if offset < 0 {
		offset = 0
	}
	for index < count-1 {
		it := compose(index)
		step := it.MainSize + spacing
		if offset < step {
			break
		}
		offset -= step
		index++
	}
	return index, offset
}

func (s *ListState) effectiveViewport(in MeasureInput) float32 {
	v := in.ViewportMain
	if !math.IsInf(float64(v), 1) && v <= maxReasonableViewport {
		return v
	}
	avg := s.avg
	if avg <= 0 {
		avg = defaultItemSizeGuess
	}
	return infiniteFallbackItems * (avg + in.Spacing)
}

// prefetchIndices picks the next k indices beyond the composed window in
// the current scroll direction.
func (s *ListState) prefetchIndices(k, first, next, count int) []int {
	if k <= 0 {
		return nil
	}
	var out []int
	if s.direction < 0 {
		for i := first - 1; i >= 0 && len(out) < k; i-- {
			out = append(out, i)
		}
		return out
	}
	for i := next; i < count && len(out) < k; i++ {
		out = append(out, i)
	}
	return out
}

// publish writes the normalized anchor back; the cell's equality gate
// drops the write when nothing moved.
func (s *ListState) publish(p position) {
	s.cell.Store(p)
}
