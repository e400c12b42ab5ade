package carousel

import "math"

// Falloff floors. Neighbouring cards never shrink, fade or darken past these.
const (
	MinScale      = 0.88
	MinOpacity    = 0.6
	MinBrightness = 0.85

	scaleStep      = 0.12
	opacityStep    = 0.30
	brightnessStep = 0.15

	topStackOrder = 10
)

// Geometry holds the card metrics in pixels plus the gesture tuning.
type Geometry struct {
	CardWidth   float64
	Gap         float64
	CommitRatio float64
	TapEpsilon  float64
}

// DefaultGeometry matches a 260px card with a 16px gap.
func DefaultGeometry() Geometry {
	return Geometry{
		CardWidth:   260,
		Gap:         16,
		CommitRatio: 0.3,
		TapEpsilon:  4,
	}
}

// Slot is the distance between the centres of two adjacent cards.
func (g Geometry) Slot() float64 {
	return g.CardWidth + g.Gap
}

// Threshold is the offset a drag must pass to change focus.
func (g Geometry) Threshold() float64 {
	return g.Slot() * g.CommitRatio
}

// Transform is the visual state of one card for a single frame.
type Transform struct {
	TranslateX float64
	Scale      float64
	Opacity    float64
	Brightness float64
	StackOrder int
}

// Layout maps card i to its transform given the focused card and the live drag
// offset. It is pure: the same inputs always yield the same transform.
func (g Geometry) Layout(i, focus int, offset float64) Transform {
	slot := g.Slot()
	diff := i - focus
	distance := math.Abs(float64(diff))
	if slot > 0 {
		distance = math.Abs(float64(diff) - offset/slot)
	}
	scale, opacity, brightness := Falloff(distance)
	return Transform{
		TranslateX: float64(diff)*slot + offset,
		Scale:      scale,
		Opacity:    opacity,
		Brightness: brightness,
		StackOrder: topStackOrder - absInt(diff),
	}
}

// Falloff returns scale, opacity and brightness for a continuous distance from
// the centre. Each value is non-increasing in distance and floored.
func Falloff(distance float64) (scale, opacity, brightness float64) {
	d := math.Abs(distance)
	scale = math.Max(MinScale, 1-d*scaleStep)
	opacity = math.Max(MinOpacity, 1-d*opacityStep)
	brightness = math.Max(MinBrightness, 1-d*brightnessStep)
	return scale, opacity, brightness
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
