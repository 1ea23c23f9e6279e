// Package runtime provides the frame scheduler, observable state cells,
// snapshot boundaries, and frame-clock-driven effects that the composition
// engine is built on.
//
// Everything in this package except Scheduler is UI-thread-only. Scheduler is
// the single cross-thread primitive: a background goroutine may call
// RequestFrame or RegisterFrameCallback to wake the UI thread.
package runtime

import (
	"sync"
	"sync/atomic"
)

// CallbackID identifies a registered frame callback for cancellation.
type CallbackID uint64

var nextCallbackID atomic.Uint64

func newCallbackID() CallbackID {
	return CallbackID(nextCallbackID.Add(1))
}

type frameCallback struct {
	id        CallbackID
	fn        func(nowNanos int64)
	cancelled bool
}

// Scheduler coordinates frame requests between the state layer, the
// composition engine, and the host event loop.
//
// The host registers a waker, then on each render tick calls
// DrainFrameCallbacks followed by the composer's invalid-scope processing,
// and re-renders if PeekRenderInvalidation reports true.
type Scheduler struct {
	mu             sync.Mutex
	waker          func()
	frameRequested bool
	callbacks      []*frameCallback
	byID           map[CallbackID]*frameCallback

	// Installed by the composition engine so the host can ask whether
	// recomposition work is pending without importing the compose package.
	invalidScopeCheck func() bool

	renderInvalid atomic.Bool
}

// NewScheduler creates a scheduler with no waker.
func NewScheduler() *Scheduler {
	return &Scheduler{byID: make(map[CallbackID]*frameCallback)}
}

// SetWaker registers the host waker invoked when a frame is requested.
// The waker may be called from any goroutine and must be cheap; typically it
// posts an empty message to the platform event loop.
func (s *Scheduler) SetWaker(waker func()) {
	s.mu.Lock()
	s.waker = waker
	s.mu.Unlock()
}

// RequestFrame asks the host for a render tick. Idempotent per cycle: between
// two drains the waker fires at most once no matter how many times this is
// called.
func (s *Scheduler) RequestFrame() {
	s.mu.Lock()
	if s.frameRequested {
		s.mu.Unlock()
		return
	}
	s.frameRequested = true
	waker := s.waker
	s.mu.Unlock()

	if waker != nil {
		waker()
	}
}

// FrameRequested reports whether a frame has been requested since the last
// drain. Intended for tests and host-loop diagnostics.
func (s *Scheduler) FrameRequested() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frameRequested
}

// RegisterFrameCallback schedules fn to run at the next drain. Callbacks fire
// at most once, in registration order. Registering a callback requests a
// frame so the host knows to tick.
func (s *Scheduler) RegisterFrameCallback(fn func(nowNanos int64)) CallbackID {
	cb := &frameCallback{id: newCallbackID(), fn: fn}
	s.mu.Lock()
	s.callbacks = append(s.callbacks, cb)
	s.byID[cb.id] = cb
	s.mu.Unlock()

	s.RequestFrame()
	return cb.id
}

// CancelFrameCallback prevents a pending callback from firing. Cancelling an
// already-fired or unknown id is a no-op.
func (s *Scheduler) CancelFrameCallback(id CallbackID) {
	s.mu.Lock()
	if cb, ok := s.byID[id]; ok {
		cb.cancelled = true
		delete(s.byID, id)
	}
	s.mu.Unlock()
}

// DrainFrameCallbacks fires all callbacks registered before this call, in
// registration order, passing the host's frame time. Callbacks registered
// while draining run at the next drain. Resets the frame-request latch.
func (s *Scheduler) DrainFrameCallbacks(nowNanos int64) {
	s.mu.Lock()
	s.frameRequested = false
	pending := s.callbacks
	s.callbacks = nil
	for _, cb := range pending {
		delete(s.byID, cb.id)
	}
	s.mu.Unlock()

	for _, cb := range pending {
		if !cb.cancelled {
			cb.fn(nowNanos)
		}
	}
}

// SetInvalidScopeCheck installs the composition engine's pending-work probe.
func (s *Scheduler) SetInvalidScopeCheck(fn func() bool) {
	s.mu.Lock()
	s.invalidScopeCheck = fn
	s.mu.Unlock()
}

// HasInvalidScopes reports whether recomposition work is pending.
func (s *Scheduler) HasInvalidScopes() bool {
	s.mu.Lock()
	fn := s.invalidScopeCheck
	s.mu.Unlock()
	return fn != nil && fn()
}

// InvalidateRender sets the render-invalidation flag. Called when committed
// composition, layout, or draw state changed and the host must re-render.
func (s *Scheduler) InvalidateRender() {
	s.renderInvalid.Store(true)
}

// PeekRenderInvalidation reports the flag without clearing it.
func (s *Scheduler) PeekRenderInvalidation() bool {
	return s.renderInvalid.Load()
}

// TakeRenderInvalidation clears the flag and reports its previous value.
func (s *Scheduler) TakeRenderInvalidation() bool {
	return s.renderInvalid.Swap(false)
}
