package viewport

import (
	"math"
	"time"
)

// DefaultTransitionDuration is used for smooth (animated) transform changes.
const DefaultTransitionDuration = 750 * time.Millisecond

// Easing maps normalized time in [0, 1] to progress in [0, 1].
type Easing func(float64) float64

// EaseCubicInOut is the symmetric cubic ease-in-out curve.
func EaseCubicInOut(t float64) float64 {
	t = math.Max(0, math.Min(1, t))
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := 2*t - 2
	return 0.5*u*u*u + 1
}

// EaseLinear is the identity easing.
func EaseLinear(t float64) float64 {
	return math.Max(0, math.Min(1, t))
}

// Transition describes how a change is animated. The zero value means
// "apply instantly".
type Transition struct {
	Duration time.Duration
	Ease     Easing
	EaseName string // CSS-style name, kept for serialization
}

// Instant reports whether the transition has no duration.
func (tr Transition) Instant() bool {
	return tr.Duration <= 0
}

// Smooth returns the standard animated transition.
func Smooth(d time.Duration) Transition {
	if d <= 0 {
		d = DefaultTransitionDuration
	}
	return Transition{Duration: d, Ease: EaseCubicInOut, EaseName: "cubic-in-out"}
}

// Progress returns eased progress after elapsed time.
func (tr Transition) Progress(elapsed time.Duration) float64 {
	if tr.Instant() || elapsed >= tr.Duration {
		return 1
	}
	if elapsed <= 0 {
		return 0
	}
	t := float64(elapsed) / float64(tr.Duration)
	if tr.Ease == nil {
		return EaseLinear(t)
	}
	return tr.Ease(t)
}

// Interpolate blends two transforms component-wise.
func Interpolate(a, b Transform, p float64) Transform {
	lerp := func(x, y float64) float64 { return x + (y-x)*p }
	return Transform{
		Scale:     lerp(a.Scale, b.Scale),
		Translate: [2]float64{lerp(a.Translate[0], b.Translate[0]), lerp(a.Translate[1], b.Translate[1])},
	}
}

// Animation is an in-flight transition between two transforms.
type Animation struct {
	From, To   Transform
	Transition Transition
}

// At samples the animation after elapsed time.
func (a Animation) At(elapsed time.Duration) Transform {
	return Interpolate(a.From, a.To, a.Transition.Progress(elapsed))
}

// Done reports whether the animation has finished after elapsed time.
func (a Animation) Done(elapsed time.Duration) bool {
	return a.Transition.Instant() || elapsed >= a.Transition.Duration
}
