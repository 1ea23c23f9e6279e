package compose

import (
	"fmt"
	"log"
	"reflect"

	"github.com/agiangrant/reflow/layout"
	"github.com/agiangrant/reflow/runtime"
)

var composeDebug = false // Set to true for debug logging

func debugLog(format string, args ...interface{}) {
	if composeDebug {
		log.Printf("[compose] "+format, args...)
	}
}

// emitFrame collects the children of one open layout parent while its
// content composes.
type emitFrame struct {
	parent   *layout.Node
	children []*layout.Node
}

// Composer drives positional memoization over a slot table and applies the
// resulting node tree through an applier. All methods must run on the UI
// thread.
type Composer struct {
	table   *SlotTable
	applier *Applier
	sched   *runtime.Scheduler

	invalid    []*RecomposeScope
	invalidSet map[*RecomposeScope]struct{}

	active       bool
	currentScope *RecomposeScope
	frames       []emitFrame

	rootBody func(*Composer)
}

// NewComposer wires a composer to its scheduler and the layout root. It
// registers itself as the scheduler's invalid-scope check.
func NewComposer(sched *runtime.Scheduler, root *layout.Node) *Composer {
	c := &Composer{
		table:      NewSlotTable(),
		applier:    NewApplier(root),
		sched:      sched,
		invalidSet: make(map[*RecomposeScope]struct{}),
	}
	c.table.onDiscardNode = c.applier.Release
	sched.SetInvalidScopeCheck(c.HasInvalidScopes)
	return c
}

// Applier exposes the node arena, mainly for the host's render pass.
func (c *Composer) Applier() *Applier { return c.applier }

// HasInvalidScopes reports whether any scope awaits recomposition.
func (c *Composer) HasInvalidScopes() bool { return len(c.invalid) > 0 }

func (c *Composer) enqueueInvalid(s *RecomposeScope) {
	if _, ok := c.invalidSet[s]; ok {
		return
	}
	c.invalidSet[s] = struct{}{}
	c.invalid = append(c.invalid, s)
	c.sched.RequestFrame()
}

func (c *Composer) takeInvalid() []*RecomposeScope {
	batch := c.invalid
	c.invalid = nil
	c.invalidSet = make(map[*RecomposeScope]struct{})
	return batch
}

// ObserveRead subscribes the active scope to the cell. Installed as the
// state layer's read observer while composition runs.
func (c *Composer) ObserveRead(cell *runtime.Cell) {
	if c.currentScope != nil {
		c.currentScope.observeRead(cell)
	}
}

// ----- Composition entry points -------------------------------------------

// Compose runs the initial composition of root, replacing the layout root's
// children with the emitted tree. The body is retained so the root scope
// can re-run it.
func (c *Composer) Compose(root func(*Composer)) (err error) {
	if c.active {
		return fmt.Errorf("compose: composition already active")
	}
	c.rootBody = root
	c.table.Reset()
	c.begin()
	defer func() {
		c.end()
		if r := recover(); r != nil {
			err = fmt.Errorf("compose: panic during composition: %v", r)
		}
	}()

	base := len(c.frames)
	c.pushFrame(c.applier.Root())
	serr := runtime.RunInMutableSnapshot(func() error {
		return c.guard(func() { c.WithScope(Key{Site: 1}, root) })
	})
	children := c.popFrame()
	if serr != nil {
		// A panic leaves the frame and group stacks mid-flight.
		c.frames = c.frames[:base]
		c.table.Reset()
		return serr
	}
	c.applier.Root().ReplaceChildren(children)
	c.table.FinalizeCurrentGroup()
	c.table.Flush()
	return nil
}

// ProcessInvalidScopes drains the invalidation set, recomposing each scope
// in place, until a fixed point. Returns whether any work ran. The pass
// count is bounded; exceeding it means composition is not settling and is
// reported as an error.
func (c *Composer) ProcessInvalidScopes() (bool, error) {
	if c.active {
		return false, fmt.Errorf("compose: composition already active")
	}
	ran := false
	limit := len(c.invalidSet)*4 + 8
	for pass := 0; len(c.invalid) > 0; pass++ {
		if pass > limit {
			return ran, fmt.Errorf("compose: recomposition did not settle after %d passes", pass)
		}
		for _, s := range c.takeInvalid() {
			if s.detached || s.valid {
				continue
			}
			if err := c.recompose(s); err != nil {
				return ran, err
			}
			ran = true
		}
	}
	if ran {
		c.table.Flush()
	}
	return ran, nil
}

func (c *Composer) recompose(s *RecomposeScope) error {
	if s.body == nil || s.group == nil {
		s.detach()
		return nil
	}
	parent := c.applier.Get(s.group.parentNode)
	if parent == nil {
		parent = c.applier.Root()
	}
	oldRoots := append([]layout.NodeID(nil), s.group.rootNodes...)
	debugLog("recompose scope group=%v parent=%v oldRoots=%d", s.group.key, parent.ID(), len(oldRoots))

	if err := c.table.BeginRecomposeAtScope(s); err != nil {
		s.detach()
		return nil
	}
	c.begin()
	base := len(c.frames)
	c.pushFrame(parent)
	prevScope := c.currentScope
	c.currentScope = s
	s.clearReads()

	serr := runtime.RunInMutableSnapshot(func() error {
		return c.guard(func() { s.body(c) })
	})

	c.currentScope = prevScope
	newRoots := c.popFrame()
	c.end()
	if serr != nil {
		// Snapshot rolled back; leave the scope invalid and queued for the
		// next cycle.
		c.frames = c.frames[:base]
		c.table.Reset()
		c.enqueueInvalid(s)
		return serr
	}

	s.group.parentNode = parent.ID()
	s.group.rootNodes = nodeIDs(newRoots)
	s.valid = true
	c.table.EndRecompose()

	if !splice(parent, oldRoots, newRoots) {
		// No anchor for the span. Escalate: the nearest enclosing scope
		// re-runs fully and rebuilds its child list from scratch.
		if a := c.ancestorScope(s); a != nil {
			a.valid = false
			c.enqueueInvalid(a)
		} else {
			c.rebuildFromRoot()
		}
	}
	return nil
}

// guard converts a panic in user composable code into an error so the
// surrounding snapshot rolls back instead of committing partial writes.
func (c *Composer) guard(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("compose: panic in composable: %v", r)
		}
	}()
	fn()
	return nil
}

func (c *Composer) ancestorScope(s *RecomposeScope) *RecomposeScope {
	for g := s.group.parent; g != nil; g = g.parent {
		if g.scope != nil && !g.scope.detached {
			return g.scope
		}
	}
	return nil
}

func (c *Composer) rebuildFromRoot() {
	if c.rootBody == nil {
		return
	}
	// The root scope always has the whole child list as its span.
	if rs := c.rootScope(); rs != nil {
		rs.valid = false
		c.enqueueInvalid(rs)
	}
}

func (c *Composer) rootScope() *RecomposeScope {
	for _, e := range c.table.root.entries {
		if e.kind == entryGroup && e.grp.scope != nil {
			return e.grp.scope
		}
	}
	return nil
}

func (c *Composer) begin() {
	c.active = true
	runtime.SetReadObserver(c)
}

func (c *Composer) end() {
	c.active = false
	runtime.SetReadObserver(nil)
}

// ----- Groups and scopes ---------------------------------------------------

// WithGroup opens a keyed subgroup around body. Conditional branches and
// loop iterations each get a distinct key so stale subtrees are discarded
// rather than misread positionally.
func (c *Composer) WithGroup(key Key, body func()) {
	c.mustBeActive()
	c.table.BeginGroup(key)
	mark := c.markNodes()
	body()
	c.sealNodes(mark)
	c.table.EndGroup()
}

// WithScope opens a keyed group with a bound recomposition scope, so state
// reads inside body re-run exactly this region on write.
func (c *Composer) WithScope(key Key, body func(*Composer)) {
	c.mustBeActive()
	c.table.BeginGroup(key)
	s := c.table.GroupScope()
	if s == nil || s.detached {
		s = &RecomposeScope{owner: c, valid: true}
		c.table.SetGroupScope(s)
	}
	s.body = body
	prev := c.currentScope
	c.currentScope = s
	s.clearReads()
	mark := c.markNodes()
	body(c)
	c.sealNodes(mark)
	s.valid = true
	c.currentScope = prev
	c.table.EndGroup()
}

// RetainGroup keeps the keyed child group and its remembered slots alive
// for this pass without composing it. The group's nodes stay out of the
// layout tree until it composes again under the same key. Virtualized
// containers use this to park scrolled-off subcompositions for reuse.
// Reports whether such a group exists.
func (c *Composer) RetainGroup(key Key) bool {
	c.mustBeActive()
	return c.table.RetainGroup(key)
}

// RekeyGroup renames a child group so the next BeginGroup under the new key
// updates its slots and nodes in place instead of composing fresh ones.
// Reports whether a group under old exists.
func (c *Composer) RekeyGroup(old, new Key) bool {
	c.mustBeActive()
	return c.table.RekeyGroup(old, new)
}

// Call invokes body inside a keyed, scoped group, skipping the body when
// every input is stable and unchanged since the previous invocation. The
// preserved child nodes are reattached to the current parent either way.
func (c *Composer) Call(key Key, body func(*Composer), inputs ...any) {
	c.mustBeActive()
	restored := c.table.BeginGroup(key)
	g := c.table.current()

	slot, fresh := c.table.AllocValueSlot(inputsType, func() any { return []any(nil) })
	prev, _ := slot.Get().([]any)
	s := c.table.GroupScope()

	if !fresh && !restored && !g.unstable && s != nil && s.Valid() && stableEqual(prev, inputs) {
		debugLog("skip group %v", key)
		for _, id := range g.rootNodes {
			if n := c.applier.Get(id); n != nil {
				c.attach(n)
			}
		}
		c.table.SkipCurrentGroup()
		return
	}
	slot.Set(append([]any(nil), inputs...))

	if s == nil || s.detached {
		s = &RecomposeScope{owner: c, valid: true}
		c.table.SetGroupScope(s)
	}
	s.body = body
	prevScope := c.currentScope
	c.currentScope = s
	s.clearReads()
	mark := c.markNodes()
	body(c)
	c.sealNodes(mark)
	s.valid = true
	c.currentScope = prevScope
	c.table.EndGroup()
}

var inputsType = reflect.TypeOf([]any(nil))

// stableEqual reports whether two input lists compare equal element-wise.
// An element whose type is not comparable is never equal, forcing re-run.
func stableEqual(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		av, bv := a[i], b[i]
		if av == nil || bv == nil {
			if av != bv {
				return false
			}
			continue
		}
		ta, tb := reflect.TypeOf(av), reflect.TypeOf(bv)
		if ta != tb || !ta.Comparable() {
			return false
		}
		if av != bv {
			return false
		}
	}
	return true
}

// ----- Node emission -------------------------------------------------------

// EmitNode reads or allocates the layout node at the cursor, applies update,
// and attaches it to the current layout parent. update runs on both fresh
// and reused nodes so modifiers and policies track the current values.
func (c *Composer) EmitNode(policy layout.MeasurePolicy, update func(*layout.Node)) *layout.Node {
	c.mustBeActive()
	if id, ok := c.table.PeekNode(); ok {
		if n := c.applier.Get(id); n != nil {
			c.table.AdvanceAfterNodeRead()
			n.SetPolicy(policy)
			if update != nil {
				update(n)
			}
			c.attach(n)
			return n
		}
		c.table.AdvanceAfterNodeRead()
	}
	n := c.applier.Create(policy)
	c.table.RecordNode(n.ID())
	if update != nil {
		update(n)
	}
	c.attach(n)
	return n
}

// EmitContainer emits a node whose children come from composing content.
func (c *Composer) EmitContainer(policy layout.MeasurePolicy, update func(*layout.Node), content func()) *layout.Node {
	n := c.EmitNode(policy, update)
	c.pushFrame(n)
	content()
	n.ReplaceChildren(c.popFrame())
	return n
}

func (c *Composer) mustBeActive() {
	if !c.active {
		panic("compose: operation outside an active composition")
	}
}

func (c *Composer) pushFrame(parent *layout.Node) {
	c.frames = append(c.frames, emitFrame{parent: parent})
}

func (c *Composer) popFrame() []*layout.Node {
	f := c.frames[len(c.frames)-1]
	c.frames = c.frames[:len(c.frames)-1]
	return f.children
}

func (c *Composer) attach(n *layout.Node) {
	f := &c.frames[len(c.frames)-1]
	f.children = append(f.children, n)
}

// nodeMark remembers where a group's nodes begin in the current frame, so
// sealNodes can record the group's root span for skip and recompose.
type nodeMark struct {
	frameDepth int
	childStart int
}

func (c *Composer) markNodes() nodeMark {
	f := &c.frames[len(c.frames)-1]
	return nodeMark{frameDepth: len(c.frames), childStart: len(f.children)}
}

func (c *Composer) sealNodes(m nodeMark) {
	if len(c.frames) != m.frameDepth {
		panic("compose: unbalanced container inside group")
	}
	f := &c.frames[len(c.frames)-1]
	g := c.table.current()
	g.parentNode = f.parent.ID()
	g.rootNodes = nodeIDs(f.children[m.childStart:])
}

func nodeIDs(nodes []*layout.Node) []layout.NodeID {
	ids := make([]layout.NodeID, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID()
	}
	return ids
}

// splice replaces the span oldRoots in parent's child list with newRoots.
// Returns false when the span has no findable anchor.
func splice(parent *layout.Node, oldRoots []layout.NodeID, newRoots []*layout.Node) bool {
	kids := parent.Children()
	if len(oldRoots) == 0 {
		if len(newRoots) == 0 {
			return true
		}
		return false
	}
	start := -1
	for i, k := range kids {
		if k.ID() == oldRoots[0] {
			start = i
			break
		}
	}
	if start < 0 || start+len(oldRoots) > len(kids) {
		return false
	}
	merged := make([]*layout.Node, 0, len(kids)-len(oldRoots)+len(newRoots))
	merged = append(merged, kids[:start]...)
	merged = append(merged, newRoots...)
	merged = append(merged, kids[start+len(oldRoots):]...)
	parent.ReplaceChildren(merged)
	return true
}

// ----- Remembered values ---------------------------------------------------

// Remember returns the value at the cursor, calling init only the first
// time (or after a type mismatch reinitializes the slot).
func Remember[T any](c *Composer, init func() T) T {
	c.mustBeActive()
	typ := reflect.TypeOf((*T)(nil)).Elem()
	slot, _ := c.table.AllocValueSlot(typ, func() any { return init() })
	return slot.Get().(T)
}

// UseState remembers a mutable state cell. Reads inside composition
// auto-subscribe the active scope; writes invalidate subscribed scopes and
// request a frame.
func UseState[T any](c *Composer, init func() T) *runtime.State[T] {
	return Remember(c, func() *runtime.State[T] {
		return runtime.NewState(init())
	})
}
