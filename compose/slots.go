package compose

import (
	"fmt"
	"reflect"

	"github.com/agiangrant/reflow/layout"
)

// Disposable is the cleanup protocol for remembered values. Dispose runs
// exactly once, when the owning group leaves the composition.
type Disposable interface {
	Dispose()
}

type entryKind uint8

const (
	entryValue entryKind = iota
	entryNode
	entryGroup
)

// ValueSlot boxes a remembered value so callers keep a stable reference
// across slot-stream edits.
type ValueSlot struct {
	value any
}

// Get returns the remembered value.
func (s *ValueSlot) Get() any { return s.value }

// Set replaces the remembered value without reinitializing the slot.
func (s *ValueSlot) Set(v any) { s.value = v }

type slotEntry struct {
	kind entryKind
	gap  bool

	slot *ValueSlot   // entryValue
	typ  reflect.Type // entryValue expected type
	node layout.NodeID
	grp  *group
}

// group is one positional region in the slot stream: an ordered run of value
// slots, node ids, and subgroups under a key.
type group struct {
	key    Key
	parent *group
	scope  *RecomposeScope

	entries []slotEntry
	cursor  int // valid while the group is open

	gap      bool
	unstable bool

	// Reattachment bookkeeping maintained by the composer: the layout
	// parent active when this group last composed, and the root node ids
	// it produced at that level.
	parentNode layout.NodeID
	rootNodes  []layout.NodeID
}

// SlotTable is the positional memoization store for one composition. The
// cursor is always inside exactly one open group; begin/end operations keep
// a stack of open groups.
type SlotTable struct {
	root  *group
	stack []*group

	// onDiscardNode releases an applier node when its owning group is
	// swept. Set by the composer.
	onDiscardNode func(layout.NodeID)
}

func NewSlotTable() *SlotTable {
	t := &SlotTable{root: &group{}}
	t.stack = []*group{t.root}
	return t
}

func (t *SlotTable) current() *group {
	return t.stack[len(t.stack)-1]
}

// Depth reports how many groups are open, the root included.
func (t *SlotTable) Depth() int { return len(t.stack) }

// Reset rewinds the cursor to the table root for a top-level pass.
func (t *SlotTable) Reset() {
	t.stack = t.stack[:1]
	t.root.cursor = 0
}

// BeginGroup positions the cursor at the child group with this key,
// inserting a new one if absent, and descends into it. The second result
// reports whether the group was restored from a gap, in which case its
// children are unstable for this pass.
func (t *SlotTable) BeginGroup(key Key) (restored bool) {
	g := t.current()

	// Fast path: the expected group is already at the cursor.
	if g.cursor < len(g.entries) {
		e := &g.entries[g.cursor]
		if e.kind == entryGroup && !e.gap && e.grp.key == key {
			t.descend(e.grp)
			return false
		}
	}

	// Scan ahead: the group may have moved, or been gapped out earlier
	// this pass.
	for j := g.cursor; j < len(g.entries); j++ {
		e := g.entries[j]
		if e.kind != entryGroup || e.grp.key != key {
			continue
		}
		restored = e.gap
		if restored {
			e.gap = false
			e.grp.gap = false
			e.grp.unstable = true
		}
		// Rotate the found entry to the cursor position.
		copy(g.entries[g.cursor+1:j+1], g.entries[g.cursor:j])
		g.entries[g.cursor] = e
		t.descend(e.grp)
		return restored
	}

	// New group.
	child := &group{key: key, parent: g}
	t.insertEntry(g, slotEntry{kind: entryGroup, grp: child})
	g.cursor-- // descend advances it again
	t.descend(child)
	return false
}

func (t *SlotTable) descend(child *group) {
	g := t.current()
	g.cursor++
	child.cursor = 0
	child.parent = g
	t.stack = append(t.stack, child)
}

// SetGroupScope binds a recomposition scope to the currently open group.
func (t *SlotTable) SetGroupScope(s *RecomposeScope) {
	g := t.current()
	g.scope = s
	if s != nil {
		s.group = g
	}
}

// GroupScope returns the scope bound to the currently open group, if any.
func (t *SlotTable) GroupScope() *RecomposeScope {
	return t.current().scope
}

// CurrentUnstable reports whether the open group's children cannot rely on
// prior sibling order this pass.
func (t *SlotTable) CurrentUnstable() bool {
	return t.current().unstable
}

// EndGroup finalizes the open group and pops back to its parent. Returns
// whether trailing positions were newly marked as gaps.
func (t *SlotTable) EndGroup() bool {
	gaps := t.FinalizeCurrentGroup()
	g := t.current()
	g.unstable = false
	t.pop()
	return gaps
}

// SkipCurrentGroup pops out of the open group leaving its contents
// untouched, declaring them unchanged. The caller reattaches the group's
// nodes to the parent applier itself.
func (t *SlotTable) SkipCurrentGroup() {
	t.pop()
}

func (t *SlotTable) pop() {
	if len(t.stack) == 1 {
		panic("compose: unbalanced group end at table root")
	}
	t.stack = t.stack[:len(t.stack)-1]
}

// FinalizeCurrentGroup marks every position at or after the cursor as a
// gap. Gap groups stay restorable until the next Flush; gap values and
// nodes are swept then.
func (t *SlotTable) FinalizeCurrentGroup() bool {
	g := t.current()
	gaps := false
	for i := g.cursor; i < len(g.entries); i++ {
		e := &g.entries[i]
		if e.gap {
			continue
		}
		e.gap = true
		if e.kind == entryGroup {
			e.grp.gap = true
		}
		gaps = true
	}
	return gaps
}

// RetainGroup marks the child group with this key as live for the pass
// without opening it, so its value slots, scope, and nodes survive the
// end-of-pass sweep. The group's nodes are not reattached anywhere; a later
// BeginGroup under the same key resumes composing into the retained slots.
// Reports whether such a group exists.
func (t *SlotTable) RetainGroup(key Key) bool {
	g := t.current()
	for j := g.cursor; j < len(g.entries); j++ {
		e := g.entries[j]
		if e.kind != entryGroup || e.grp.key != key {
			continue
		}
		e.gap = false
		e.grp.gap = false
		copy(g.entries[g.cursor+1:j+1], g.entries[g.cursor:j])
		g.entries[g.cursor] = e
		g.cursor++
		return true
	}
	return false
}

// RekeyGroup renames the child group keyed old to new, so the next
// BeginGroup under new claims its slots and nodes in place. Reports whether
// a group keyed old exists ahead of the cursor.
func (t *SlotTable) RekeyGroup(old, new Key) bool {
	g := t.current()
	for j := g.cursor; j < len(g.entries); j++ {
		e := g.entries[j]
		if e.kind == entryGroup && e.grp.key == old {
			e.grp.key = new
			return true
		}
	}
	return false
}

// BeginRecomposeAtScope repositions the cursor inside the group bound to
// scope so recomposition runs in place. The caller must balance it with
// EndRecompose.
func (t *SlotTable) BeginRecomposeAtScope(s *RecomposeScope) error {
	g := s.group
	if g == nil || g.gap {
		return fmt.Errorf("compose: scope has no live group")
	}
	// Rebuild the open-group stack as the path from the root.
	var path []*group
	for p := g; p != nil; p = p.parent {
		path = append(path, p)
	}
	if path[len(path)-1] != t.root {
		return fmt.Errorf("compose: scope group is not anchored in this table")
	}
	t.stack = t.stack[:0]
	for i := len(path) - 1; i >= 0; i-- {
		t.stack = append(t.stack, path[i])
	}
	g.cursor = 0
	return nil
}

// EndRecompose finalizes the recomposed group and restores the cursor to
// the table root.
func (t *SlotTable) EndRecompose() bool {
	gaps := t.FinalizeCurrentGroup()
	t.current().unstable = false
	t.Reset()
	return gaps
}

// seekKind advances the cursor to the next live entry of the wanted kind,
// gap-marking every mismatched entry it passes. A kind mismatch at a
// position means the control flow diverged there; the stale occupants are
// reclaimable (a gapped group can still be claimed by a later BeginGroup
// this pass). Returns the entry at the cursor, or nil at the group's end.
func (t *SlotTable) seekKind(want entryKind) *slotEntry {
	g := t.current()
	for g.cursor < len(g.entries) {
		e := &g.entries[g.cursor]
		if e.kind == want && !e.gap {
			return e
		}
		if !e.gap {
			e.gap = true
			if e.kind == entryGroup {
				e.grp.gap = true
			}
		}
		g.cursor++
	}
	return nil
}

// AllocValueSlot returns the value slot at the cursor, running init only
// when the slot is new or its stored type no longer matches typ. The second
// result reports whether init ran.
func (t *SlotTable) AllocValueSlot(typ reflect.Type, init func() any) (*ValueSlot, bool) {
	g := t.current()
	if e := t.seekKind(entryValue); e != nil {
		if e.typ == typ {
			g.cursor++
			return e.slot, false
		}
		// Type mismatch: reinitialize in place, dropping the old value's
		// dispose hook.
		disposeValue(e.slot)
		e.slot = &ValueSlot{value: init()}
		e.typ = typ
		g.cursor++
		return e.slot, true
	}
	slot := &ValueSlot{value: init()}
	t.insertEntry(g, slotEntry{kind: entryValue, slot: slot, typ: typ})
	return slot, true
}

// PeekNode reports the node id at the cursor without advancing past it.
// Mismatched entries before the next node position are discarded.
func (t *SlotTable) PeekNode() (layout.NodeID, bool) {
	if e := t.seekKind(entryNode); e != nil {
		return e.node, true
	}
	return 0, false
}

// RecordNode inserts a node id at the cursor and advances past it.
func (t *SlotTable) RecordNode(id layout.NodeID) {
	t.insertEntry(t.current(), slotEntry{kind: entryNode, node: id})
}

// AdvanceAfterNodeRead moves the cursor past a node position previously
// returned by PeekNode.
func (t *SlotTable) AdvanceAfterNodeRead() {
	t.current().cursor++
}

// StepBack moves the cursor back one position within the open group.
func (t *SlotTable) StepBack() {
	g := t.current()
	if g.cursor == 0 {
		panic("compose: StepBack at group start")
	}
	g.cursor--
}

func (t *SlotTable) insertEntry(g *group, e slotEntry) {
	g.entries = append(g.entries, slotEntry{})
	copy(g.entries[g.cursor+1:], g.entries[g.cursor:])
	g.entries[g.cursor] = e
	g.cursor++
}

// Flush sweeps every gap left by the pass: remembered values are disposed,
// scopes detached, and applier nodes released. Restorable gaps die here.
func (t *SlotTable) Flush() {
	t.sweep(t.root)
}

func (t *SlotTable) sweep(g *group) {
	live := g.entries[:0]
	for _, e := range g.entries {
		if e.gap {
			t.discard(e)
			continue
		}
		if e.kind == entryGroup {
			t.sweep(e.grp)
		}
		live = append(live, e)
	}
	for i := len(live); i < len(g.entries); i++ {
		g.entries[i] = slotEntry{}
	}
	g.entries = live
}

// discard releases everything under a gap entry: dispose hooks, scope
// detach, node release, innermost first.
func (t *SlotTable) discard(e slotEntry) {
	switch e.kind {
	case entryValue:
		disposeValue(e.slot)
	case entryNode:
		if t.onDiscardNode != nil {
			t.onDiscardNode(e.node)
		}
	case entryGroup:
		for _, child := range e.grp.entries {
			t.discard(child)
		}
		e.grp.entries = nil
		if e.grp.scope != nil {
			e.grp.scope.detach()
			e.grp.scope = nil
		}
	}
}

func disposeValue(s *ValueSlot) {
	if d, ok := s.value.(Disposable); ok {
		d.Dispose()
	}
}
