package runtime

import (
	"testing"
)

func TestRequestFrameIdempotent(t *testing.T) {
	s := NewScheduler()

	wakes := 0
	s.SetWaker(func() { wakes++ })

	s.RequestFrame()
	s.RequestFrame()
	s.RequestFrame()

	if wakes != 1 {
		t.Errorf("expected 1 wake, got %d", wakes)
	}

	// Draining resets the latch, so the next request wakes again.
	s.DrainFrameCallbacks(0)
	s.RequestFrame()

	if wakes != 2 {
		t.Errorf("expected 2 wakes after drain, got %d", wakes)
	}
}

func TestFrameCallbackOrder(t *testing.T) {
	s := NewScheduler()

	var order []int
	s.RegisterFrameCallback(func(int64) { order = append(order, 1) })
	s.RegisterFrameCallback(func(int64) { order = append(order, 2) })
	s.RegisterFrameCallback(func(int64) { order = append(order, 3) })

	s.DrainFrameCallbacks(0)

	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("callbacks fired out of order: %v", order)
	}

	// Callbacks fire at most once.
	order = nil
	s.DrainFrameCallbacks(0)
	if len(order) != 0 {
		t.Errorf("callbacks fired twice: %v", order)
	}
}

func TestFrameCallbackCancel(t *testing.T) {
	s := NewScheduler()

	fired := false
	id := s.RegisterFrameCallback(func(int64) { fired = true })
	s.CancelFrameCallback(id)
	s.DrainFrameCallbacks(0)

	if fired {
		t.Error("cancelled callback fired")
	}
}

func TestCallbackRegisteredDuringDrainRunsNextDrain(t *testing.T) {
	s := NewScheduler()

	var fired []string
	s.RegisterFrameCallback(func(int64) {
		fired = append(fired, "first")
		s.RegisterFrameCallback(func(int64) {
			fired = append(fired, "nested")
		})
	})

	s.DrainFrameCallbacks(0)
	if len(fired) != 1 || fired[0] != "first" {
		t.Fatalf("expected only first callback in drain 1, got %v", fired)
	}

	s.DrainFrameCallbacks(0)
	if len(fired) != 2 || fired[1] != "nested" {
		t.Errorf("expected nested callback in drain 2, got %v", fired)
	}
}

func TestFrameCallbackReceivesTime(t *testing.T) {
	s := NewScheduler()

	var got int64
	s.RegisterFrameCallback(func(now int64) { got = now })
	s.DrainFrameCallbacks(1234567)

	if got != 1234567 {
		t.Errorf("expected frame time 1234567, got %d", got)
	}
}

func TestRegisterFrameCallbackRequestsFrame(t *testing.T) {
	s := NewScheduler()

	woke := false
	s.SetWaker(func() { woke = true })
	s.RegisterFrameCallback(func(int64) {})

	if !woke {
		t.Error("registering a frame callback should wake the host")
	}
}

func TestRenderInvalidationFlag(t *testing.T) {
	s := NewScheduler()

	if s.PeekRenderInvalidation() {
		t.Error("flag should start clear")
	}
	s.InvalidateRender()
	if !s.PeekRenderInvalidation() {
		t.Error("flag should be set")
	}
	if !s.TakeRenderInvalidation() {
		t.Error("take should report set")
	}
	if s.PeekRenderInvalidation() {
		t.Error("take should clear the flag")
	}
}

func TestInvalidScopeBridge(t *testing.T) {
	s := NewScheduler()

	if s.HasInvalidScopes() {
		t.Error("no check installed: should report false")
	}

	pending := true
	s.SetInvalidScopeCheck(func() bool { return pending })
	if !s.HasInvalidScopes() {
		t.Error("expected pending work")
	}
	pending = false
	if s.HasInvalidScopes() {
		t.Error("expected no pending work")
	}
}
