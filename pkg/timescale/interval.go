package timescale

import (
	"math"
	"time"
)

// Unit is the calendar unit a tick interval counts in.
type Unit int

const (
	Millisecond Unit = iota
	Second
	Minute
	Hour
	Day
	Week
	Month
	Year
)

func (u Unit) String() string {
	switch u {
	case Millisecond:
		return "millisecond"
	case Second:
		return "second"
	case Minute:
		return "minute"
	case Hour:
		return "hour"
	case Day:
		return "day"
	case Week:
		return "week"
	case Month:
		return "month"
	default:
		return "year"
	}
}

// Interval is a calendar-aligned tick interval: every Step-th Unit boundary.
// All arithmetic is done in UTC.
type Interval struct {
	Unit Unit
	Step int
}

// ladder mirrors the classic time-scale tick steps, in milliseconds.
var ladder = []struct {
	ms       float64
	interval Interval
}{
	{1e3, Interval{Second, 1}},
	{5e3, Interval{Second, 5}},
	{15e3, Interval{Second, 15}},
	{3e4, Interval{Second, 30}},
	{6e4, Interval{Minute, 1}},
	{3e5, Interval{Minute, 5}},
	{9e5, Interval{Minute, 15}},
	{18e5, Interval{Minute, 30}},
	{36e5, Interval{Hour, 1}},
	{108e5, Interval{Hour, 3}},
	{216e5, Interval{Hour, 6}},
	{432e5, Interval{Hour, 12}},
	{864e5, Interval{Day, 1}},
	{1728e5, Interval{Day, 2}},
	{6048e5, Interval{Week, 1}},
	{2592e6, Interval{Month, 1}},
	{7776e6, Interval{Month, 3}},
	{31536e6, Interval{Year, 1}},
}

const msPerYear = 31536e6

// chooseInterval picks the interval yielding roughly count ticks over the span
// [d0, d1] given in milliseconds.
func chooseInterval(d0, d1 float64, count int) Interval {
	if count <= 0 {
		count = 10
	}
	span := math.Abs(d1 - d0)
	target := span / float64(count)

	i := 0
	for i < len(ladder) && ladder[i].ms < target {
		i++
	}
	switch {
	case i == len(ladder):
		step := linearTickStep(d0/msPerYear, d1/msPerYear, count)
		return Interval{Year, max(1, int(math.Round(step)))}
	case i == 0:
		step := linearTickStep(d0, d1, count)
		return Interval{Millisecond, max(1, int(math.Round(step)))}
	}
	if target/ladder[i-1].ms < ladder[i].ms/target {
		i--
	}
	return ladder[i].interval
}

// linearTickStep returns a 1, 2 or 5 times power-of-ten step for count ticks.
func linearTickStep(start, stop float64, count int) float64 {
	span := math.Abs(stop - start)
	if span == 0 || count <= 0 {
		return 1
	}
	step := math.Pow(10, math.Floor(math.Log10(span/float64(count))))
	switch err := float64(count) / span * step; {
	case err <= .15:
		step *= 10
	case err <= .35:
		step *= 5
	case err <= .75:
		step *= 2
	}
	return step
}

// floorUnit truncates t to the start of its unit.
func floorUnit(t time.Time, u Unit) time.Time {
	t = t.UTC()
	switch u {
	case Millisecond:
		return t.Truncate(time.Millisecond)
	case Second:
		return t.Truncate(time.Second)
	case Minute:
		return t.Truncate(time.Minute)
	case Hour:
		return t.Truncate(time.Hour)
	case Day:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	case Week:
		d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return d.AddDate(0, 0, -int(d.Weekday()))
	case Month:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	}
}

// addUnit moves t by n units.
func addUnit(t time.Time, u Unit, n int) time.Time {
	switch u {
	case Millisecond:
		return t.Add(time.Duration(n) * time.Millisecond)
	case Second:
		return t.Add(time.Duration(n) * time.Second)
	case Minute:
		return t.Add(time.Duration(n) * time.Minute)
	case Hour:
		return t.Add(time.Duration(n) * time.Hour)
	case Day:
		return t.AddDate(0, 0, n)
	case Week:
		return t.AddDate(0, 0, 7*n)
	case Month:
		return t.AddDate(0, n, 0)
	default:
		return t.AddDate(n, 0, 0)
	}
}

// field returns the unit counter used to test step alignment.
func field(t time.Time, u Unit) int {
	switch u {
	case Millisecond:
		return int(t.UnixMilli() % 1000)
	case Second:
		return t.Second()
	case Minute:
		return t.Minute()
	case Hour:
		return t.Hour()
	case Day:
		return t.Day() - 1
	case Week:
		return 0
	case Month:
		return int(t.Month()) - 1
	default:
		return t.Year()
	}
}

// offset returns how many units t lies past the previous step boundary.
func (iv Interval) offset(t time.Time) int {
	if iv.Step <= 1 {
		return 0
	}
	f := field(t, iv.Unit)
	if iv.Unit == Millisecond {
		f = int(t.UnixMilli() % int64(iv.Step))
	}
	return (f%iv.Step + iv.Step) % iv.Step
}

// aligned reports whether a unit boundary is also a step boundary.
func (iv Interval) aligned(t time.Time) bool {
	return iv.offset(t) == 0
}

// Floor returns the latest step boundary at or before t.
func (iv Interval) Floor(t time.Time) time.Time {
	f := floorUnit(t, iv.Unit)
	return addUnit(f, iv.Unit, -iv.offset(f))
}

// Ceil returns the earliest step boundary at or after t.
func (iv Interval) Ceil(t time.Time) time.Time {
	f := iv.Floor(t)
	if f.Equal(t) {
		return f
	}
	return iv.next(f)
}

// next returns the step boundary following the boundary b. Counters that
// restart within their parent unit (days in a month) can need a second jump.
func (iv Interval) next(b time.Time) time.Time {
	n := addUnit(b, iv.Unit, 1)
	for i := 0; i < 2 && !iv.aligned(n); i++ {
		n = addUnit(n, iv.Unit, iv.Step-iv.offset(n))
	}
	return n
}

// Range returns the step boundaries within [start, stop], at most limit of them.
func (iv Interval) Range(start, stop time.Time, limit int) []time.Time {
	var out []time.Time
	for t := iv.Ceil(start); !t.After(stop) && len(out) < limit; t = iv.next(t) {
		out = append(out, t)
	}
	return out
}
