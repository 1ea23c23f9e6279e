package render

import (
	"github.com/agiangrant/reflow/event"
	"github.com/agiangrant/reflow/layout"
)

// HitTarget is one interactive region of the scene. The input pipeline
// caches node ids only; it re-resolves targets through FindTarget on every
// dispatch so geometry is never stale.
type HitTarget interface {
	NodeID() layout.NodeID
	Bounds() event.Bounds

	// Dispatch invokes the node's pointer-input handlers with the event's
	// local coordinates resolved against the current bounds.
	Dispatch(ev *event.PointerEvent)

	// DispatchClick invokes the node's click handlers. Reports whether any
	// handler existed.
	DispatchClick(x, y float32) bool

	// Contains reports whether the point lies inside the region, honoring
	// a rounded-corner clip when one is present.
	Contains(x, y float32) bool
}

// Scene is the renderer boundary. The core builds and queries it; drawing
// the command list is the host renderer's job.
type Scene interface {
	// Clear drops all commands and hit regions.
	Clear()

	// RebuildScene re-derives draw commands and hit regions from a
	// measured layout tree.
	RebuildScene(root *layout.Node, viewport layout.Size)

	// HitTest returns the targets containing the point, topmost first.
	HitTest(x, y float32) []HitTarget

	// FindTarget resolves a node id to its current target, if the node is
	// still in the scene.
	FindTarget(id layout.NodeID) (HitTarget, bool)
}
