package carousel

import (
	"math"
	"time"
)

// DefaultTransition is how long a settled carousel takes to ease into a new focus.
const DefaultTransition = 500 * time.Millisecond

// Easing maps linear progress in [0,1] to eased progress.
type Easing func(t float64) float64

// CubicBezier returns the CSS cubic-bezier timing function with control points
// (x1,y1) and (x2,y2). x1 and x2 must lie in [0,1].
func CubicBezier(x1, y1, x2, y2 float64) Easing {
	cx := 3 * x1
	bx := 3*(x2-x1) - cx
	ax := 1 - cx - bx
	cy := 3 * y1
	by := 3*(y2-y1) - cy
	ay := 1 - cy - by

	sampleX := func(t float64) float64 { return ((ax*t+bx)*t + cx) * t }
	sampleY := func(t float64) float64 { return ((ay*t+by)*t + cy) * t }
	slopeX := func(t float64) float64 { return (3*ax*t+2*bx)*t + cx }

	solve := func(x float64) float64 {
		t := x
		for i := 0; i < 8; i++ {
			d := sampleX(t) - x
			if math.Abs(d) < 1e-7 {
				return t
			}
			s := slopeX(t)
			if math.Abs(s) < 1e-6 {
				break
			}
			t -= d / s
		}
		// Newton stalled; bisect.
		lo, hi := 0.0, 1.0
		t = x
		for i := 0; i < 64 && lo < hi; i++ {
			v := sampleX(t)
			if math.Abs(v-x) < 1e-7 {
				return t
			}
			if x > v {
				lo = t
			} else {
				hi = t
			}
			t = (lo + hi) / 2
		}
		return t
	}

	return func(p float64) float64 {
		switch {
		case p <= 0:
			return 0
		case p >= 1:
			return 1
		}
		return sampleY(solve(p))
	}
}

// SwipeEasing is the ease-out curve used when a settled carousel changes focus.
func SwipeEasing() Easing { return CubicBezier(0.22, 1, 0.36, 1) }

// Transition interpolates every card from one layout to another over time.
// While a drag is active the caller skips transitions and draws Transforms
// directly so cards track the pointer without latency.
type Transition struct {
	from     []Transform
	to       []Transform
	start    time.Time
	duration time.Duration
	ease     Easing
}

// NewTransition starts easing from one frame to another at start.
func NewTransition(from, to []Transform, start time.Time, duration time.Duration, ease Easing) *Transition {
	if ease == nil {
		ease = SwipeEasing()
	}
	return &Transition{from: from, to: to, start: start, duration: duration, ease: ease}
}

// At returns the frame at now and whether the transition has finished.
// A transition between frames of different lengths finishes immediately.
func (t *Transition) At(now time.Time) ([]Transform, bool) {
	if len(t.from) != len(t.to) || t.duration <= 0 {
		return t.to, true
	}
	elapsed := now.Sub(t.start)
	if elapsed >= t.duration {
		return t.to, true
	}
	p := t.ease(float64(elapsed) / float64(t.duration))
	out := make([]Transform, len(t.to))
	for i := range t.to {
		out[i] = Lerp(t.from[i], t.to[i], p)
	}
	return out, false
}

// Lerp blends two transforms. Stack order is discrete and snaps to b.
func Lerp(a, b Transform, p float64) Transform {
	mix := func(x, y float64) float64 { return x + (y-x)*p }
	return Transform{
		TranslateX: mix(a.TranslateX, b.TranslateX),
		Scale:      mix(a.Scale, b.Scale),
		Opacity:    mix(a.Opacity, b.Opacity),
		Brightness: mix(a.Brightness, b.Brightness),
		StackOrder: b.StackOrder,
	}
}
