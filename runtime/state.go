package runtime

import "reflect"

// Subscriber is notified when an observed state cell is written. The
// composition engine's recomposition scopes implement this; a scope marks
// itself invalid and requests a frame.
type Subscriber interface {
	InvalidateForWrite()
}

// ReadObserver records state reads. The composer installs the active
// recomposition scope as the observer while a composable body runs so that
// reads auto-subscribe.
type ReadObserver interface {
	ObserveRead(c *Cell)
}

// activeObserver is the observer for the currently executing composable body.
// UI-thread-only, like all composition state.
var activeObserver ReadObserver

// SetReadObserver installs the active read observer and returns the previous
// one so callers can restore it.
func SetReadObserver(o ReadObserver) ReadObserver {
	prev := activeObserver
	activeObserver = o
	return prev
}

// Cell is the untyped core of a mutable state: a single-reader/writer value
// with identity and a subscriber set. State[T] wraps it with a typed surface.
type Cell struct {
	value any
	subs  map[Subscriber]struct{}
}

// NewCell creates a cell holding the initial value.
func NewCell(initial any) *Cell {
	return &Cell{value: initial}
}

// Load returns the current value, observing any pending snapshot write and
// subscribing the active read observer.
func (c *Cell) Load() any {
	if activeObserver != nil {
		activeObserver.ObserveRead(c)
	}
	if snap := currentSnapshot; snap != nil {
		if v, ok := snap.lookup(c); ok {
			return v
		}
	}
	return c.value
}

// Peek returns the current committed value without subscribing an observer.
func (c *Cell) Peek() any {
	if snap := currentSnapshot; snap != nil {
		if v, ok := snap.lookup(c); ok {
			return v
		}
	}
	return c.value
}

// Store writes the value. Inside a snapshot the write is buffered and
// published when the snapshot commits; otherwise it commits immediately and
// invalidates subscribers.
func (c *Cell) Store(v any) {
	if snap := currentSnapshot; snap != nil {
		snap.record(c, v)
		return
	}
	if c.commit(v) {
		c.invalidate()
	}
}

// commit sets the value, returning true when subscribers should be
// invalidated. Writes of an equal value publish but skip invalidation.
func (c *Cell) commit(v any) bool {
	changed := !shallowEqual(c.value, v)
	c.value = v
	return changed
}

// Subscribe adds a subscriber. Duplicate subscriptions are collapsed.
func (c *Cell) Subscribe(s Subscriber) {
	if c.subs == nil {
		c.subs = make(map[Subscriber]struct{}, 2)
	}
	c.subs[s] = struct{}{}
}

// Unsubscribe removes a subscriber.
func (c *Cell) Unsubscribe(s Subscriber) {
	delete(c.subs, s)
}

// invalidate notifies every subscriber once.
func (c *Cell) invalidate() {
	for s := range c.subs {
		s.InvalidateForWrite()
	}
}

// collectSubscribers appends this cell's subscribers to the dedup set.
func (c *Cell) collectSubscribers(into map[Subscriber]struct{}) {
	for s := range c.subs {
		into[s] = struct{}{}
	}
}

// shallowEqual compares two values with == when the dynamic types permit it.
// Non-comparable values are always treated as changed.
func shallowEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() || !va.Comparable() {
		return false
	}
	return va.Equal(vb)
}

// State is a typed mutable state cell. Reads during composition subscribe
// the active recomposition scope; writes invalidate every subscribed scope
// and, through scope invalidation, request a frame.
type State[T any] struct {
	cell Cell
}

// NewState creates a state holding the initial value.
func NewState[T any](initial T) *State[T] {
	return &State[T]{cell: Cell{value: initial}}
}

// Get returns the current value, subscribing the active observer.
func (s *State[T]) Get() T {
	return s.cell.Load().(T)
}

// Peek returns the current value without subscribing.
func (s *State[T]) Peek() T {
	return s.cell.Peek().(T)
}

// Set writes the value through the snapshot layer.
func (s *State[T]) Set(v T) {
	s.cell.Store(v)
}

// Cell exposes the untyped cell, for code that manages subscriptions
// directly (the composer's scope bookkeeping).
func (s *State[T]) Cell() *Cell {
	return &s.cell
}
