// Package reflow wires the composition runtime into a host event loop: a
// scheduler, a composer over a layout root, a software scene, and the input
// dispatch pipeline. The host forwards pointer and key events, calls Tick
// once per frame when woken, and paints the scene whenever Tick reports a
// render invalidation.
package reflow

import (
	"fmt"
	"time"

	"github.com/agiangrant/reflow/compose"
	"github.com/agiangrant/reflow/event"
	"github.com/agiangrant/reflow/input"
	"github.com/agiangrant/reflow/layout"
	"github.com/agiangrant/reflow/render"
	"github.com/agiangrant/reflow/runtime"
	"github.com/agiangrant/reflow/text"
)

// App owns one composition and its frame loop.
type App struct {
	cfg        Config
	sched      *runtime.Scheduler
	root       *layout.Node
	composer   *compose.Composer
	scene      *render.SoftScene
	focus      *input.FocusManager
	dispatcher *input.Dispatcher

	width, height float32
}

// NewApp builds an app with the given tuning. The initial viewport is
// empty; call Resize before the first Tick.
func NewApp(cfg Config) *App {
	cfg = cfg.sanitized()
	sched := runtime.NewScheduler()
	root := layout.NewNode(layout.BoxPolicy{})
	scene := render.NewSoftScene()
	focus := input.NewFocusManager()

	a := &App{
		cfg:      cfg,
		sched:    sched,
		root:     root,
		composer: compose.NewComposer(sched, root),
		scene:    scene,
		focus:    focus,
		dispatcher: input.NewDispatcher(scene, input.Config{
			DoubleClickTime: cfg.DoubleClickTime(),
			DoubleClickDist: cfg.DoubleClickDist,
			DragThreshold:   cfg.DragThreshold,
		}),
	}
	root.SetOnInvalidate(func(bits layout.InvalidationBits) {
		sched.InvalidateRender()
		sched.RequestFrame()
	})
	focus.SetOnInvalidate(func() {
		sched.InvalidateRender()
		sched.RequestFrame()
	})
	return a
}

// Scheduler exposes the frame scheduler for state that requests frames
// (lazy lists, animations).
func (a *App) Scheduler() *runtime.Scheduler { return a.sched }

// Config returns the sanitized tuning in effect.
func (a *App) Config() Config { return a.cfg }

// Focus exposes the focus manager for focusable widgets.
func (a *App) Focus() *input.FocusManager { return a.focus }

// Scene is the current frame's draw commands and hit regions.
func (a *App) Scene() *render.SoftScene { return a.scene }

// Root is the host-owned layout root.
func (a *App) Root() *layout.Node { return a.root }

// SetWaker installs the host callback that schedules a Tick.
func (a *App) SetWaker(waker func()) { a.sched.SetWaker(waker) }

// SetContent runs the initial composition and schedules the first frame.
func (a *App) SetContent(body func(*compose.Composer)) error {
	if err := a.composer.Compose(body); err != nil {
		return err
	}
	a.sched.InvalidateRender()
	a.sched.RequestFrame()
	return nil
}

// Resize sets the viewport and invalidates layout.
func (a *App) Resize(width, height float32) {
	if width == a.width && height == a.height {
		return
	}
	a.width, a.height = width, height
	a.root.InvalidateMeasure()
}

// PointerEvent routes one pointer event through the scene's hit regions.
func (a *App) PointerEvent(ev *event.PointerEvent) error {
	return a.dispatcher.DispatchPointer(ev)
}

// KeyEvent routes one key event to the focused text handler. Returns
// whether it was consumed.
func (a *App) KeyEvent(ev *event.KeyEvent) bool {
	return a.focus.RouteKey(ev)
}

// Tick runs one frame: pending frame callbacks, recomposition to a fixed
// point (re-measuring between passes so layout-fed state settles), then
// measurement and scene rebuild. Returns whether the host must repaint.
//
// The settle loop is bounded two ways: MaxRecomposePasses catches cycles as
// an error, and the frame budget defers still-unsettled work to the next
// frame so a slow composition cannot stall the host.
func (a *App) Tick(nowNanos int64) (repaint bool, err error) {
	deadline := time.Now().Add(a.cfg.FrameBudget())
	a.sched.DrainFrameCallbacks(nowNanos)

	// Measure before the settle loop so layout-fed state (lazy viewports)
	// invalidates its scopes now rather than after the frame is built.
	a.measure()
	for pass := 0; ; pass++ {
		ran, err := a.composer.ProcessInvalidScopes()
		if err != nil {
			return false, err
		}
		if !ran {
			break
		}
		if pass >= a.cfg.MaxRecomposePasses {
			return false, fmt.Errorf("reflow: composition not settled after %d passes", pass)
		}
		if time.Now().After(deadline) {
			// Out of budget: paint what has settled and finish next frame.
			a.sched.RequestFrame()
			break
		}
		a.measure()
	}
	a.measure()
	a.tickCaret(time.Unix(0, nowNanos))

	if !a.sched.TakeRenderInvalidation() {
		return false, nil
	}
	a.scene.RebuildScene(a.root, layout.Size{Width: a.width, Height: a.height})
	return true, nil
}

func (a *App) measure() {
	if a.width <= 0 || a.height <= 0 {
		return
	}
	a.root.Measure(layout.Tight(a.width, a.height))
}

// tickCaret advances the focused field's blink timer and keeps frames
// coming while a field owns the keyboard.
func (a *App) tickCaret(now time.Time) {
	f, ok := a.focus.TextFieldHandler().(*text.FieldState)
	if !ok || f == nil {
		return
	}
	f.Blink().SetInterval(a.cfg.BlinkInterval())
	if f.Blink().Update(now) {
		a.sched.InvalidateRender()
	}
	a.sched.RequestFrame()
}
