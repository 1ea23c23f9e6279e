package widgets

import (
	"math"

	"github.com/agiangrant/reflow/compose"
	"github.com/agiangrant/reflow/input"
	"github.com/agiangrant/reflow/layout"
	"github.com/agiangrant/reflow/lazy"
	"github.com/agiangrant/reflow/modifier"
	"github.com/agiangrant/reflow/runtime"
)

// LazyColumnOptions configures a LazyColumn.
type LazyColumnOptions struct {
	// Count is the total number of items. Only the visible window is ever
	// composed.
	Count int

	// Key derives a stable identity for an index; nil falls back to the
	// index itself. Stable keys keep item state attached across
	// insertions and removals.
	Key func(index int) any

	// ContentType groups items for slot reuse; nil leaves all items in
	// one group.
	ContentType func(index int) any

	Spacing       float32
	BeforePadding float32
	AfterPadding  float32

	// Prefetch is how many items past the viewport edge are composed
	// ahead in the scroll direction; zero means DefaultPrefetchCount.
	Prefetch int

	// ReusePolicy governs which scrolled-off item slots are kept for
	// reuse; nil means exact-key retention (lazy.DefaultReusePolicy).
	ReusePolicy lazy.SlotReusePolicy

	// ReusePoolCap caps the retained slot pool; zero means the pool's
	// default. Fixed at first composition, like ReusePolicy.
	ReusePoolCap int

	// DragThreshold is the movement in pixels before a drag claims the
	// gesture; zero means the default of 8.
	DragThreshold float32

	Modifiers []modifier.Element
}

const (
	defaultDragThreshold float32 = 8
	lazyItemSizeGuess    float32 = 48
)

// lazyViewport is the constraint feedback from layout to composition. The
// first composition has no viewport yet and measures against an infinite
// one; the layout pass records the real bounds, which recomposes the list
// once with a correctly sized window.
type lazyViewport struct {
	Main  float32
	Cross float32
}

// lazyItemMeta is what the list remembers about a composed item after it
// leaves the window: where it was and how it pools.
type lazyItemMeta struct {
	index       int
	contentType any
}

// lazyRetention is the per-list slot bookkeeping: which keys composed last
// pass, which are parked in the reuse pool, and which indices await
// warm-up. Parked keys mirror the pool's contents exactly; eviction unpins
// the key through the slot's dispose hook and the sweep reclaims it.
type lazyRetention struct {
	pool    *lazy.SlotPool
	live    map[any]lazyItemMeta
	parked  map[any]lazyItemMeta
	pending []int
}

// LazyColumn composes only the items intersecting the viewport, plus a
// prefetch margin in the scroll direction. Work per frame is proportional
// to the number of visible items, never to Count; jumping the scroll
// position composes the landing window directly.
//
// Items scrolled off within the sliding index window around the anchor are
// parked in a slot reuse pool instead of discarded, so scrolling them back
// in restores their state and nodes. Anything farther out, and pool
// overflow, is torn down.
func LazyColumn(c *compose.Composer, state *lazy.ListState, opts LazyColumnOptions, item func(c *compose.Composer, index int)) *layout.Node {
	var node *layout.Node
	c.WithScope(compose.CallerKey(1), func(c *compose.Composer) {
		viewport := compose.UseState(c, func() lazyViewport { return lazyViewport{} })
		view := viewport.Get()

		// Subscribe this scope to the scroll anchor; measurement itself
		// reads without subscribing, so scrolls would otherwise never
		// recompose the window.
		first := state.FirstVisibleIndex()

		policy := compose.Remember(c, func() *lazyColumnPolicy { return &lazyColumnPolicy{} })
		policy.viewport = viewport

		ret := compose.Remember(c, func() *lazyRetention {
			return &lazyRetention{
				pool:   lazy.NewSlotPool(opts.ReusePolicy, opts.ReusePoolCap),
				live:   make(map[any]lazyItemMeta),
				parked: make(map[any]lazyItemMeta),
			}
		})

		// Warm-up ticks re-enter through composition: the prefetcher bumps
		// this cell from its frame callback, and the read here brings the
		// pending indices in on the next pass.
		warmTick := compose.UseState(c, func() int { return 0 })
		warmTick.Get()
		prefetcher := compose.Remember(c, func() *lazy.Prefetcher {
			sched := state.Scheduler()
			if sched == nil {
				return nil
			}
			return lazy.NewPrefetcher(sched, func(index int) {
				ret.pending = append(ret.pending, index)
				warmTick.Set(warmTick.Peek() + 1)
			})
		})

		prefetch := opts.Prefetch
		if prefetch <= 0 {
			prefetch = lazy.DefaultPrefetchCount
		}
		guess := state.AverageItemSize()
		if guess <= 0 {
			guess = lazyItemSizeGuess
		}

		viewportMain := view.Main
		if viewportMain <= 0 {
			viewportMain = float32(math.Inf(1))
		}
		crossMax := view.Cross
		if crossMax <= 0 {
			crossMax = float32(math.Inf(1))
		}

		threshold := opts.DragThreshold
		if threshold <= 0 {
			threshold = defaultDragThreshold
		}
		mods := make([]modifier.Element, 0, 1+len(opts.Modifiers))
		mods = append(mods, input.ScrollableElement{
			Axis:      layout.Vertical,
			Threshold: threshold,
			OnScroll:  state.ScrollBy,
		})
		mods = append(mods, opts.Modifiers...)

		itemSite := compose.CallerKey(0)
		itemConstraints := layout.Constraints{MaxWidth: crossMax, MaxHeight: float32(math.Inf(1))}

		keyFor := func(index int) any {
			if opts.Key != nil {
				return opts.Key(index)
			}
			return index
		}
		typeFor := func(index int) any {
			if opts.ContentType != nil {
				return opts.ContentType(index)
			}
			return nil
		}

		seen := make(map[any]lazyItemMeta)
		composeItem := func(index int) *layout.Node {
			key := keyFor(index)
			contentType := typeFor(index)
			if _, ok := ret.parked[key]; ok {
				// Back on screen: reclaim the parked slot so the group
				// composes live again.
				ret.pool.Acquire(key, contentType)
				delete(ret.parked, key)
			} else if slot := ret.pool.Acquire(key, contentType); slot != nil && slot.Key != key {
				// A pooled slot of the same content type serves a new key:
				// rename its group so this item updates it in place.
				c.RekeyGroup(itemSite.WithUser(slot.Key), itemSite.WithUser(key))
				delete(ret.parked, slot.Key)
			}
			var root *layout.Node
			c.WithGroup(itemSite.WithUser(key), func() {
				root = c.EmitContainer(layout.BoxPolicy{}, func(n *layout.Node) {
					n.SetModifiers(nil)
				}, func() {
					item(c, index)
				})
			})
			seen[key] = lazyItemMeta{index: index, contentType: contentType}
			return root
		}

		var res lazy.MeasureResult
		node = c.EmitContainer(policy, func(n *layout.Node) {
			n.SetModifiers(mods)
		}, func() {
			res = state.Measure(lazy.MeasureInput{
				ViewportMain:   viewportMain,
				Spacing:        opts.Spacing,
				BeforePadding:  opts.BeforePadding,
				AfterPadding:   opts.AfterPadding,
				PrefetchMargin: float32(prefetch) * (guess + opts.Spacing),
				PrefetchCount:  prefetch,
				ItemCount:      opts.Count,
				Compose: func(index int) lazy.MeasuredItem {
					root := composeItem(index)
					size := root.Measure(itemConstraints)
					return lazy.MeasuredItem{
						Index:       index,
						Key:         keyFor(index),
						ContentType: typeFor(index),
						MainSize:    size.Height,
						CrossSize:   size.Width,
						Nodes:       []*layout.Node{root},
					}
				},
			})

			start, end := lazy.NearestRange(first, opts.Count)

			// Drop parked slots that fell out of the sliding range; not
			// retaining them lets the end-of-pass sweep reclaim their
			// subcompositions.
			for key, meta := range ret.parked {
				if meta.index >= start && meta.index < end {
					continue
				}
				ret.pool.Acquire(key, meta.contentType)
				delete(ret.parked, key)
			}

			// Warm scheduled prefetch indices: composing them now makes
			// their slots ready before they scroll in. They stay off the
			// window and park on the next pass.
			pending := ret.pending
			ret.pending = nil
			for _, idx := range pending {
				if idx < start || idx >= end {
					continue
				}
				key := keyFor(idx)
				if _, ok := seen[key]; ok {
					continue
				}
				if _, ok := ret.parked[key]; ok {
					continue
				}
				composeItem(idx)
			}

			// Park items that left the window, bounded by the sliding
			// index range; anything beyond it is swept with its slots.
			for key, meta := range ret.live {
				if _, ok := seen[key]; ok {
					continue
				}
				if meta.index < start || meta.index >= end {
					continue
				}
				k := key
				ret.parked[k] = meta
				ret.pool.Release(&lazy.Slot{
					Key:         k,
					ContentType: meta.contentType,
					Dispose:     func() { delete(ret.parked, k) },
				})
			}

			// Keep every parked group's slots alive through this pass.
			for key := range ret.parked {
				c.RetainGroup(itemSite.WithUser(key))
			}
			ret.live = seen
		})

		if prefetcher != nil {
			// Only indices not yet composed or parked need warming;
			// scheduling nothing also clears stale pending work.
			var want []int
			for _, idx := range res.Prefetch {
				key := keyFor(idx)
				if _, ok := seen[key]; ok {
					continue
				}
				if _, ok := ret.parked[key]; ok {
					continue
				}
				want = append(want, idx)
			}
			prefetcher.Schedule(want)
		}

		// Anchor resolution and warm-up may have composed items that did
		// not land in the window; keep only the window's nodes as
		// children, in order.
		window := make([]*layout.Node, 0, len(res.Items))
		for _, it := range res.Items {
			window = append(window, it.Nodes...)
		}
		node.ReplaceChildren(window)

		policy.items = res.Items
		policy.contentEnd = res.ContentEnd
	})
	return node
}

// lazyColumnPolicy places the window's items at the offsets measurement
// assigned. It also feeds the real viewport constraints back into the
// composition state, which settles after one extra recomposition whenever
// the bounds change.
type lazyColumnPolicy struct {
	viewport   *runtime.State[lazyViewport]
	items      []lazy.MeasuredItem
	contentEnd float32
}

func (p *lazyColumnPolicy) Measure(c layout.Constraints, children []layout.Measurable) layout.Size {
	if p.viewport != nil && (c.HasBoundedHeight() || c.HasBoundedWidth()) {
		v := lazyViewport{Main: c.MaxHeight, Cross: c.MaxWidth}
		if p.viewport.Peek() != v {
			p.viewport.Set(v)
		}
	}

	child := c.Loosen()
	child.MaxHeight = float32(math.Inf(1))
	var maxCross float32
	for i, m := range children {
		pl := m.Measure(child)
		if w := pl.Size().Width; w > maxCross {
			maxCross = w
		}
		if i < len(p.items) {
			pl.PlaceAt(0, p.items[i].Offset)
		} else {
			pl.PlaceAt(0, 0)
		}
	}

	height := p.contentEnd
	if c.HasBoundedHeight() {
		height = c.MaxHeight
	}
	w, h := c.Constrain(maxCross, height)
	return layout.Size{Width: w, Height: h}
}

func (p *lazyColumnPolicy) MinIntrinsicWidth(children []layout.Measurable, height float32) float32 {
	var max float32
	for _, m := range children {
		if w := m.MinIntrinsicWidth(height); w > max {
			max = w
		}
	}
	return max
}

func (p *lazyColumnPolicy) MaxIntrinsicWidth(children []layout.Measurable, height float32) float32 {
	var max float32
	for _, m := range children {
		if w := m.MaxIntrinsicWidth(height); w > max {
			max = w
		}
	}
	return max
}

func (p *lazyColumnPolicy) MinIntrinsicHeight(children []layout.Measurable, width float32) float32 {
	return p.contentEnd
}

func (p *lazyColumnPolicy) MaxIntrinsicHeight(children []layout.Measurable, width float32) float32 {
	return p.contentEnd
}
