package runtime

import (
	"math"
	"sync/atomic"
)

// AnimationID uniquely identifies an animation.
type AnimationID uint64

var nextAnimationID atomic.Uint64

func newAnimationID() AnimationID {
	return AnimationID(nextAnimationID.Add(1))
}

// EasingFunc maps time progress (0-1) to value progress (0-1).
type EasingFunc func(t float64) float64

// Common easing functions.
var (
	// EaseLinear - constant speed
	EaseLinear EasingFunc = func(t float64) float64 { return t }

	// EaseInQuad - accelerate from zero
	EaseInQuad EasingFunc = func(t float64) float64 { return t * t }

	// EaseOutQuad - decelerate to zero
	EaseOutQuad EasingFunc = func(t float64) float64 { return t * (2 - t) }

	// EaseInOutQuad - accelerate then decelerate
	EaseInOutQuad EasingFunc = func(t float64) float64 {
		if t < 0.5 {
			return 2 * t * t
		}
		return -1 + (4-2*t)*t
	}

	// EaseOutCubic - smooth deceleration (good for UI)
	EaseOutCubic EasingFunc = func(t float64) float64 {
		t--
		return t*t*t + 1
	}

	// EaseOutElastic - elastic wobble effect
	EaseOutElastic EasingFunc = func(t float64) float64 {
		if t == 0 || t == 1 {
			return t
		}
		c4 := (2 * math.Pi) / 3
		return math.Pow(2, -10*t)*math.Sin((t*10-0.75)*c4) + 1
	}
)

// Animation is one running animation. Update receives eased progress in
// [0, 1] once per frame; writes it makes go through the normal state layer,
// so dependent scopes invalidate and the next frame is requested.
type Animation struct {
	id         AnimationID
	startNanos int64
	duration   int64 // nanoseconds
	easing     EasingFunc
	update     func(progress float64)
	onComplete func()
	loop       bool
	cancelled  bool
}

// ID returns the animation's identifier.
func (a *Animation) ID() AnimationID { return a.id }

// Cancel stops the animation at the next tick.
func (a *Animation) Cancel() { a.cancelled = true }

// Animator drives animations from the scheduler's frame callbacks. While any
// animation is active it keeps re-registering a callback so the host ticks
// every frame.
type Animator struct {
	sched      *Scheduler
	animations map[AnimationID]*Animation
	ticking    bool
}

// NewAnimator creates an animator bound to the scheduler.
func NewAnimator(sched *Scheduler) *Animator {
	return &Animator{
		sched:      sched,
		animations: make(map[AnimationID]*Animation),
	}
}

// Animate starts an animation. durationNanos must be positive; easing nil
// defaults to EaseLinear.
func (a *Animator) Animate(durationNanos int64, easing EasingFunc, update func(progress float64)) *Animation {
	return a.start(durationNanos, easing, update, nil, false)
}

// AnimateLooping starts an animation that repeats until cancelled.
func (a *Animator) AnimateLooping(durationNanos int64, easing EasingFunc, update func(progress float64)) *Animation {
	return a.start(durationNanos, easing, update, nil, true)
}

// AnimateWithCompletion starts an animation that fires onComplete when done.
func (a *Animator) AnimateWithCompletion(durationNanos int64, easing EasingFunc, update func(progress float64), onComplete func()) *Animation {
	return a.start(durationNanos, easing, update, onComplete, false)
}

func (a *Animator) start(durationNanos int64, easing EasingFunc, update func(progress float64), onComplete func(), loop bool) *Animation {
	if easing == nil {
		easing = EaseLinear
	}
	anim := &Animation{
		id:         newAnimationID(),
		startNanos: -1, // stamped on first tick
		duration:   durationNanos,
		easing:     easing,
		update:     update,
		onComplete: onComplete,
		loop:       loop,
	}
	a.animations[anim.id] = anim
	a.ensureTicking()
	return anim
}

// Count returns the number of active animations.
func (a *Animator) Count() int { return len(a.animations) }

func (a *Animator) ensureTicking() {
	if a.ticking || len(a.animations) == 0 {
		return
	}
	a.ticking = true
	a.sched.RegisterFrameCallback(a.tick)
}

// tick advances all animations one frame and removes finished ones.
func (a *Animator) tick(nowNanos int64) {
	a.ticking = false

	var completed []*Animation
	for id, anim := range a.animations {
		if anim.cancelled {
			delete(a.animations, id)
			continue
		}
		if anim.startNanos < 0 {
			anim.startNanos = nowNanos
		}
		elapsed := nowNanos - anim.startNanos
		if anim.duration <= 0 || elapsed >= anim.duration {
			if anim.loop && anim.duration > 0 {
				anim.startNanos = nowNanos
				anim.update(anim.easing(1))
				continue
			}
			anim.update(anim.easing(1))
			delete(a.animations, id)
			if anim.onComplete != nil {
				completed = append(completed, anim)
			}
			continue
		}
		t := float64(elapsed) / float64(anim.duration)
		anim.update(anim.easing(t))
	}

	for _, anim := range completed {
		anim.onComplete()
	}

	a.ensureTicking()
}
