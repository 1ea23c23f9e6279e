package compose

import (
	"github.com/agiangrant/reflow/runtime"
)

// RecomposeScope re-executes one composable body when a mutable state it
// read is written. It moves Active(valid) -> Active(invalid) -> Active(valid)
// through re-execution, or to Detached when its group leaves the
// composition. Detached scopes silently absorb later invalidations.
type RecomposeScope struct {
	owner    *Composer
	group    *group
	body     func(*Composer)
	valid    bool
	detached bool

	// Cells read during the last execution; unsubscribed before re-run so
	// the read set tracks the current body exactly.
	reads []*runtime.Cell
}

var _ runtime.Subscriber = (*RecomposeScope)(nil)

// InvalidateForWrite marks the scope for recomposition and requests a
// frame. Called by the state layer when a subscribed cell commits a write.
func (s *RecomposeScope) InvalidateForWrite() {
	if s.detached || s.owner == nil {
		return
	}
	s.valid = false
	s.owner.enqueueInvalid(s)
}

// Invalidate forces the scope to re-run on the next cycle regardless of
// state writes. Modifier nodes use this to push node-driven changes back
// through composition.
func (s *RecomposeScope) Invalidate() {
	s.InvalidateForWrite()
}

// Valid reports whether the scope's last execution is still current.
func (s *RecomposeScope) Valid() bool { return s.valid && !s.detached }

// Detached reports whether the owning group left the composition.
func (s *RecomposeScope) Detached() bool { return s.detached }

func (s *RecomposeScope) observeRead(c *runtime.Cell) {
	c.Subscribe(s)
	s.reads = append(s.reads, c)
}

func (s *RecomposeScope) clearReads() {
	for _, c := range s.reads {
		c.Unsubscribe(s)
	}
	s.reads = s.reads[:0]
}

func (s *RecomposeScope) detach() {
	s.detached = true
	s.clearReads()
	s.body = nil
	s.group = nil
}
