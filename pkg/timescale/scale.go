// Package timescale maps event timestamps onto a continuous horizontal pixel
// coordinate. A Scale owns its domain (milliseconds since the epoch) and its
// pixel range, rounds the domain to tick boundaries ("nicing"), and produces
// axis ticks and their labels.
//
// The chart keeps two scales: the layout scale, fixed for a data snapshot, and a
// visible copy whose range is re-derived from the viewport transform on every
// change.
package timescale

import (
	"math"
	"time"
)

// DefaultTickCount is the approximate number of ticks requested by Nice.
const DefaultTickCount = 10

// Scale is a linear time scale. The zero value is an invalid scale that maps
// every time to the range start.
type Scale struct {
	d0, d1 float64 // domain, milliseconds
	r0, r1 float64 // range, pixels
	valid  bool
}

// New creates a scale over [start, end] mapped onto [r0, r1].
func New(start, end time.Time, r0, r1 float64) *Scale {
	s := &Scale{
		d0:    float64(start.UnixMilli()),
		d1:    float64(end.UnixMilli()),
		r0:    r0,
		r1:    r1,
		valid: true,
	}
	s.widenDegenerate()
	return s
}

// FromSeconds builds a scale whose domain is [min, max] of the given unix
// seconds. An empty input yields an invalid scale.
func FromSeconds(secs []float64, r0, r1 float64) *Scale {
	s := &Scale{r0: r0, r1: r1}
	if len(secs) == 0 {
		return s
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range secs {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return New(secondsTime(lo), secondsTime(hi), r0, r1)
}

// secondsTime converts unix seconds to a time with millisecond precision.
func secondsTime(sec float64) time.Time {
	return time.UnixMilli(int64(math.Round(sec * 1000))).UTC()
}

// widenDegenerate expands a single-instant domain to the enclosing UTC day so
// the mapping stays defined.
func (s *Scale) widenDegenerate() {
	if !s.valid || s.d0 != s.d1 {
		return
	}
	day := Interval{Day, 1}
	start := day.Floor(time.UnixMilli(int64(s.d0)))
	s.d0 = float64(start.UnixMilli())
	s.d1 = float64(start.AddDate(0, 0, 1).UnixMilli())
}

// Valid reports whether the scale has a usable domain.
func (s *Scale) Valid() bool {
	return s != nil && s.valid
}

// Copy returns an independent copy of the scale.
func (s *Scale) Copy() *Scale {
	c := *s
	return &c
}

// Domain returns the domain bounds as UTC times.
func (s *Scale) Domain() (time.Time, time.Time) {
	return time.UnixMilli(int64(s.d0)).UTC(), time.UnixMilli(int64(s.d1)).UTC()
}

// Range returns the pixel range.
func (s *Scale) Range() (float64, float64) {
	return s.r0, s.r1
}

// SetRange replaces the pixel range and returns the scale.
func (s *Scale) SetRange(r0, r1 float64) *Scale {
	s.r0, s.r1 = r0, r1
	return s
}

// Map converts milliseconds to a pixel coordinate.
func (s *Scale) Map(ms float64) float64 {
	if !s.Valid() || s.d1 == s.d0 {
		return s.r0
	}
	return s.r0 + (ms-s.d0)/(s.d1-s.d0)*(s.r1-s.r0)
}

// X converts a time to a pixel coordinate.
func (s *Scale) X(t time.Time) float64 {
	return s.Map(float64(t.UnixMilli()) + float64(t.Nanosecond()%1e6)/1e6)
}

// XSeconds converts unix seconds to a pixel coordinate.
func (s *Scale) XSeconds(sec float64) float64 {
	return s.Map(sec * 1000)
}

// Invert converts a pixel coordinate back to a time.
func (s *Scale) Invert(x float64) time.Time {
	return time.UnixMilli(int64(math.Round(s.invertMillis(x)))).UTC()
}

func (s *Scale) invertMillis(x float64) float64 {
	if !s.Valid() || s.r1 == s.r0 {
		return s.d0
	}
	return s.d0 + (x-s.r0)/(s.r1-s.r0)*(s.d1-s.d0)
}

// Nice extends the domain outward to the boundaries of the interval chosen for
// DefaultTickCount ticks.
func (s *Scale) Nice() *Scale {
	return s.NiceCount(DefaultTickCount)
}

// NiceCount is Nice with an explicit tick count.
func (s *Scale) NiceCount(count int) *Scale {
	if !s.Valid() {
		return s
	}
	iv := chooseInterval(s.d0, s.d1, count)
	start, end := s.Domain()
	s.d0 = float64(iv.Floor(start).UnixMilli())
	s.d1 = float64(iv.Ceil(end).UnixMilli())
	return s
}

// TicksBetween returns roughly count ticks for the part of the domain that maps
// into the pixel window [x0, x1]. The visible scale uses it with the canvas
// width so tick density follows the zoom level.
func (s *Scale) TicksBetween(x0, x1 float64, count int) []Tick {
	if !s.Valid() {
		return nil
	}
	a, b := s.invertMillis(x0), s.invertMillis(x1)
	if a > b {
		a, b = b, a
	}
	return s.ticksBetween(a, b, count)
}

// maxTicks caps tick generation for pathological windows.
const maxTicks = 1000

func (s *Scale) ticksBetween(a, b float64, count int) []Tick {
	iv := chooseInterval(a, b, count)
	times := iv.Range(time.UnixMilli(int64(math.Ceil(a))).UTC(), time.UnixMilli(int64(math.Floor(b))).UTC(), maxTicks)
	ticks := make([]Tick, len(times))
	for i, t := range times {
		ticks[i] = Tick{Time: t, X: s.X(t), Interval: iv}
	}
	return ticks
}

// Tick is one axis tick.
type Tick struct {
	Time     time.Time
	X        float64
	Interval Interval
}
