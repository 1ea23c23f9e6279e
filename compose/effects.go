package compose

import (
	"context"

	"github.com/agiangrant/reflow/runtime"
)

// launchedEffect owns one background future tied to a group. Leaving the
// composition cancels it at the next suspension point.
type launchedEffect struct {
	sched  *runtime.Scheduler
	handle *runtime.EffectHandle
	keys   []any
}

func (l *launchedEffect) restart(fn func(ctx context.Context, clock *runtime.FrameClock)) {
	if l.handle != nil {
		l.handle.Cancel()
	}
	l.handle = runtime.Launch(l.sched, fn)
}

func (l *launchedEffect) Dispose() {
	if l.handle != nil {
		l.handle.Cancel()
		l.handle = nil
	}
}

// LaunchedEffect starts fn on first composition and restarts it whenever
// keys change. fn runs cooperatively on the UI thread, suspending on
// clock.NextFrame; disposal of the owning group cancels it.
func LaunchedEffect(c *Composer, fn func(ctx context.Context, clock *runtime.FrameClock), keys ...any) {
	eff := Remember(c, func() *launchedEffect {
		return &launchedEffect{sched: c.sched}
	})
	if eff.handle == nil || !stableEqual(eff.keys, keys) {
		eff.keys = append([]any(nil), keys...)
		eff.restart(fn)
	}
}

// DisposableEffect runs setup on first composition (and again when keys
// change); the returned cleanup runs on key change and on group discard.
func DisposableEffect(c *Composer, setup func() func(), keys ...any) {
	eff := Remember(c, func() *disposableEffect { return &disposableEffect{} })
	if !eff.started || !stableEqual(eff.keys, keys) {
		if eff.cleanup != nil {
			eff.cleanup()
		}
		eff.keys = append([]any(nil), keys...)
		eff.cleanup = setup()
		eff.started = true
	}
}

type disposableEffect struct {
	started bool
	keys    []any
	cleanup func()
}

func (d *disposableEffect) Dispose() {
	if d.cleanup != nil {
		d.cleanup()
		d.cleanup = nil
	}
}
