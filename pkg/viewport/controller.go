package viewport

import (
	"math"
	"time"

	"github.com/rs/zerolog"
)

// Default scale extent.
const (
	DefaultScaleMin = 0.5
	DefaultScaleMax = 8.0

	// DefaultWheelSensitivity converts wheel delta to a zoom exponent:
	// factor = 2^(-deltaY*sensitivity).
	DefaultWheelSensitivity = 0.002
)

// Listener is notified after every applied transform. Animation.Transition is
// zero for instantaneous changes.
type Listener func(Animation)

// Controller owns the current canvas transform.
type Controller struct {
	width, height    float64
	scaleMin         float64
	scaleMax         float64
	wheelSensitivity float64
	duration         time.Duration

	current  Transform
	listener Listener
	logger   zerolog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithScaleExtent sets the inclusive scale range.
func WithScaleExtent(lo, hi float64) Option {
	return func(c *Controller) {
		c.scaleMin, c.scaleMax = lo, hi
	}
}

// WithWheelSensitivity sets the wheel zoom exponent per delta unit.
func WithWheelSensitivity(s float64) Option {
	return func(c *Controller) {
		c.wheelSensitivity = s
	}
}

// WithTransitionDuration sets the duration of smooth transitions.
func WithTransitionDuration(d time.Duration) Option {
	return func(c *Controller) {
		c.duration = d
	}
}

// WithListener sets the transform listener.
func WithListener(l Listener) Option {
	return func(c *Controller) {
		c.listener = l
	}
}

// WithLogger sets the controller's logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// NewController creates a controller for a width×height canvas with the
// identity transform.
func NewController(width, height float64, opts ...Option) *Controller {
	c := &Controller{
		width:            width,
		height:           height,
		scaleMin:         DefaultScaleMin,
		scaleMax:         DefaultScaleMax,
		wheelSensitivity: DefaultWheelSensitivity,
		duration:         DefaultTransitionDuration,
		current:          Identity(),
		logger:           zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.scaleMin <= 0 || c.scaleMin > c.scaleMax {
		c.logger.Warn().
			Float64("min", c.scaleMin).
			Float64("max", c.scaleMax).
			Msg("Invalid scale extent, using defaults")
		c.scaleMin, c.scaleMax = DefaultScaleMin, DefaultScaleMax
	}
	c.current.Scale = c.clamp(1)
	return c
}

// Transform returns the current transform.
func (c *Controller) Transform() Transform {
	return c.current
}

// ApplyZoomGesture sets the transform from a live gesture. Live gestures are
// never animated.
func (c *Controller) ApplyZoomGesture(translate [2]float64, scale float64) Transform {
	if clamped := c.clamp(scale); clamped != scale {
		c.logger.Debug().
			Float64("scale", scale).
			Float64("clamped", clamped).
			Msg("Clamped gesture scale")
		scale = clamped
	}
	return c.apply(Transform{Scale: scale, Translate: translate}, false)
}

// FitRectangle centers rect in the canvas (less margin on every side) and
// scales it to fit (or to cover, when fit is false). The scale starts from 1;
// it is not composed with the current scale.
func (c *Controller) FitRectangle(rect Rect, margin float64, fit, smooth bool) Transform {
	screenW := c.width - 2*margin
	screenH := c.height - 2*margin
	factor := FitInto(screenW, screenH, rect.Width, rect.Height, fit)
	if math.IsNaN(factor) {
		factor = 1
	}

	move := [2]float64{
		margin + (screenW-rect.Width)*0.5 - rect.X,
		margin + (screenH-rect.Height)*0.5 - rect.Y,
	}
	scale := c.zoomToward(screenW*0.5+margin, screenH*0.5+margin, factor, 1, &move)
	return c.apply(Transform{Scale: scale, Translate: move}, smooth)
}

// ZoomAt zooms by factor around the screen point (x, y), clamping the result.
func (c *Controller) ZoomAt(x, y, factor float64) Transform {
	move := c.current.Translate
	scale := c.zoomToward(x, y, factor, c.current.Scale, &move)
	return c.apply(Transform{Scale: scale, Translate: move}, false)
}

// Wheel applies a wheel or pinch gesture at the screen point (x, y). Positive
// deltaY zooms out.
func (c *Controller) Wheel(x, y, deltaY float64) Transform {
	return c.ZoomAt(x, y, math.Pow(2, -deltaY*c.wheelSensitivity))
}

// Pan moves the canvas by (dx, dy) screen pixels.
func (c *Controller) Pan(dx, dy float64) Transform {
	t := c.current
	t.Translate[0] += dx
	t.Translate[1] += dy
	return c.apply(t, false)
}

// zoomToward wraps ZoomToward with the scale invariant: a non-positive result
// is reported and the factor is replaced so the new scale lands inside the
// configured extent.
func (c *Controller) zoomToward(px, py, factor, scale float64, translate *[2]float64) float64 {
	if scale <= 0 || math.IsNaN(scale) {
		c.logger.Warn().Float64("scale", scale).Msg("Invalid current scale, resetting to 1")
		scale = 1
	}
	target := scale * factor
	if target <= 0 || math.IsNaN(target) {
		c.logger.Warn().
			Float64("factor", factor).
			Float64("zoom", target).
			Msg("Zoom produced a non-positive scale, clamping")
	}
	clamped := c.clamp(target)
	return ZoomToward(px, py, clamped/scale, scale, translate)
}

// clamp forces s into [scaleMin, scaleMax]; NaN and non-positive values map to
// scaleMin.
func (c *Controller) clamp(s float64) float64 {
	if math.IsNaN(s) || s < c.scaleMin {
		return c.scaleMin
	}
	if s > c.scaleMax {
		return c.scaleMax
	}
	return s
}

func (c *Controller) apply(t Transform, smooth bool) Transform {
	anim := Animation{From: c.current, To: t}
	if smooth {
		anim.Transition = Smooth(c.duration)
	}
	c.current = t
	if c.listener != nil {
		c.listener(anim)
	}
	return t
}
