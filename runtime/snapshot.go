package runtime

import "fmt"

// snapshot buffers state writes so observers see them as one atomic set.
type snapshot struct {
	pending map[*Cell]any
	order   []*Cell // publish order; a cell appears once, at its first write
}

// currentSnapshot is the innermost open snapshot. Nested snapshots merge
// into the outer one, so at most one buffer is live at a time.
var currentSnapshot *snapshot

func (s *snapshot) record(c *Cell, v any) {
	if _, ok := s.pending[c]; !ok {
		s.order = append(s.order, c)
	}
	s.pending[c] = v
}

func (s *snapshot) lookup(c *Cell) (any, bool) {
	v, ok := s.pending[c]
	return v, ok
}

// publish commits every buffered write, then invalidates the union of
// subscribers so each runs at most once even when several of its states
// changed in the same snapshot.
func (s *snapshot) publish() {
	invalidated := make(map[Subscriber]struct{})
	for _, c := range s.order {
		if c.commit(s.pending[c]) {
			c.collectSubscribers(invalidated)
		}
	}
	for sub := range invalidated {
		sub.InvalidateForWrite()
	}
}

// RunInMutableSnapshot runs fn with state writes buffered, publishing them
// atomically when fn returns nil. A non-nil error or a panic discards the
// buffered writes; a panic is converted to an error so a handler crash
// aborts only its own snapshot.
//
// Reentrant: a nested call merges into the outer snapshot and publishes when
// the outermost call returns.
func RunInMutableSnapshot(fn func() error) (err error) {
	if currentSnapshot != nil {
		return fn()
	}

	snap := &snapshot{pending: make(map[*Cell]any)}
	currentSnapshot = snap

	defer func() {
		currentSnapshot = nil
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in mutable snapshot: %v", r)
			return
		}
		if err == nil {
			snap.publish()
		}
	}()

	err = fn()
	return err
}

// InSnapshot reports whether a snapshot is currently open.
func InSnapshot() bool {
	return currentSnapshot != nil
}
