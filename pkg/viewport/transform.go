// Package viewport owns the pan/zoom transform of the chart canvas.
//
// A Transform maps content coordinates to screen coordinates as
// screen = content*Scale + Translate. The Controller keeps the current transform,
// clamps its scale into a configured range, fits content rectangles into the
// canvas, and turns drag and wheel gestures into transforms.
package viewport

import (
	"fmt"
	"math"
	"strconv"
)

// Transform is a uniform scale followed by a translation.
type Transform struct {
	Scale     float64
	Translate [2]float64
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{Scale: 1}
}

// Apply maps a content point to screen space.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return x*t.Scale + t.Translate[0], y*t.Scale + t.Translate[1]
}

// Invert maps a screen point back to content space.
func (t Transform) Invert(sx, sy float64) (float64, float64) {
	if t.Scale == 0 {
		return sx - t.Translate[0], sy - t.Translate[1]
	}
	return (sx - t.Translate[0]) / t.Scale, (sy - t.Translate[1]) / t.Scale
}

// String renders the transform as an SVG transform attribute value.
func (t Transform) String() string {
	return fmt.Sprintf("translate(%s,%s) scale(%s)", num(t.Translate[0]), num(t.Translate[1]), num(t.Scale))
}

// Rect is an axis-aligned rectangle in content coordinates.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// FitInto returns the factor that scales a w×h box into pixWidth×pixHeight.
// With fit the whole box stays visible (min of both ratios); otherwise the box
// covers the area (max).
func FitInto(pixWidth, pixHeight, w, h float64, fit bool) float64 {
	rw := pixWidth / w
	rh := pixHeight / h
	if fit {
		return math.Min(rw, rh)
	}
	return math.Max(rw, rh)
}

// ZoomToward scales by factor around the pivot (px, py): the pivot keeps its
// screen position. translate is updated in place and the new scale is returned.
func ZoomToward(px, py, factor, scale float64, translate *[2]float64) float64 {
	translate[0] = (translate[0]-px)*factor + px
	translate[1] = (translate[1]-py)*factor + py
	return scale * factor
}

// num formats a float compactly for attribute values.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
