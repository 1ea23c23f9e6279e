package input

import (
	"fmt"
	"log"
	"time"

	"github.com/agiangrant/reflow/event"
	"github.com/agiangrant/reflow/layout"
	"github.com/agiangrant/reflow/render"
	"github.com/agiangrant/reflow/runtime"
)

var inputDebug = false // Set to true for debug logging

func debugLog(format string, args ...interface{}) {
	if inputDebug {
		log.Printf("[input] "+format, args...)
	}
}

// Config holds the tunable dispatch parameters.
type Config struct {
	// DoubleClickTime is the max interval between clicks that still
	// increments the click count.
	DoubleClickTime time.Duration
	// DoubleClickDist is the max distance in logical pixels between
	// consecutive clicks of one multi-click.
	DoubleClickDist float32
	// DragThreshold is the movement in logical pixels past which a
	// scrollable claims the gesture.
	DragThreshold float32
}

// DefaultConfig mirrors common desktop conventions.
func DefaultConfig() Config {
	return Config{
		DoubleClickTime: 500 * time.Millisecond,
		DoubleClickDist: 5.0,
		DragThreshold:   8.0,
	}
}

// Dispatcher routes pointer events through the scene's hit regions in three
// passes and tracks in-flight gestures.
//
// The hit path cached on Down holds node ids only. Every subsequent event
// for that pointer re-resolves geometry through Scene.FindTarget, so a
// gesture survives its targets moving (scrolling under the finger) and
// local coordinates always come from current bounds.
type Dispatcher struct {
	scene render.Scene
	cfg   Config

	// paths holds, per pointer, the hit path from outermost to innermost.
	paths map[event.PointerID][]layout.NodeID

	lastClickTime time.Time
	lastClickX    float32
	lastClickY    float32
	clickCount    int

	now func() time.Time
}

func NewDispatcher(scene render.Scene, cfg Config) *Dispatcher {
	return &Dispatcher{
		scene: scene,
		cfg:   cfg,
		paths: make(map[event.PointerID][]layout.NodeID),
		now:   time.Now,
	}
}

// DispatchPointer routes one pointer event. Handler state writes run inside
// a mutable snapshot: a panicking handler aborts only its own snapshot and
// the event counts as delivered but not consumed.
func (d *Dispatcher) DispatchPointer(ev *event.PointerEvent) error {
	switch ev.Kind {
	case event.PointerDown:
		d.stampClickCount(ev)
		d.paths[ev.ID] = d.hitPath(ev.X, ev.Y)
	case event.PointerCancel:
		defer delete(d.paths, ev.ID)
	case event.PointerUp:
		defer delete(d.paths, ev.ID)
	}

	path := d.paths[ev.ID]
	if path == nil {
		// Hover or wheel traffic without a held pointer: resolve fresh.
		path = d.hitPath(ev.X, ev.Y)
	}
	if len(path) == 0 {
		return nil
	}

	err := runtime.RunInMutableSnapshot(func() error {
		d.runPass(ev, event.PassInitial, path, false)
		d.runPass(ev, event.PassMain, path, true)
		d.runPass(ev, event.PassFinal, path, false)
		return nil
	})
	if err != nil {
		return fmt.Errorf("pointer dispatch: %w", err)
	}
	return nil
}

// runPass walks the cached path once. Initial and Final go top-down
// (outermost handler first); Main goes bottom-up (innermost first).
func (d *Dispatcher) runPass(ev *event.PointerEvent, pass event.Pass, path []layout.NodeID, reverse bool) {
	ev.Pass = pass
	if reverse {
		for i := len(path) - 1; i >= 0; i-- {
			d.deliver(ev, path[i])
		}
		return
	}
	for _, id := range path {
		d.deliver(ev, id)
	}
}

func (d *Dispatcher) deliver(ev *event.PointerEvent, id layout.NodeID) {
	target, ok := d.scene.FindTarget(id)
	if !ok {
		// The node left the scene mid-gesture; skip, not an error.
		debugLog("target %v gone, skipping", id)
		return
	}
	target.Dispatch(ev)
}

// hitPath returns the node ids under the point ordered outermost first.
func (d *Dispatcher) hitPath(x, y float32) []layout.NodeID {
	hits := d.scene.HitTest(x, y) // topmost first
	if len(hits) == 0 {
		return nil
	}
	ids := make([]layout.NodeID, len(hits))
	for i, h := range hits {
		ids[len(hits)-1-i] = h.NodeID()
	}
	return ids
}

func (d *Dispatcher) stampClickCount(ev *event.PointerEvent) {
	now := d.now()
	dx := ev.X - d.lastClickX
	dy := ev.Y - d.lastClickY
	distSq := dx*dx + dy*dy
	maxDist := d.cfg.DoubleClickDist * d.cfg.DoubleClickDist
	if now.Sub(d.lastClickTime) <= d.cfg.DoubleClickTime && distSq <= maxDist {
		d.clickCount++
	} else {
		d.clickCount = 1
	}
	d.lastClickTime = now
	d.lastClickX = ev.X
	d.lastClickY = ev.Y
	ev.ClickCount = d.clickCount
}
