package timescale

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestScaleEndpointsWithoutNice(t *testing.T) {
	secs := []float64{
		float64(date(2010, 3, 4).Unix()),
		float64(date(2016, 8, 9).Unix()),
		float64(date(2012, 1, 1).Unix()),
	}
	s := FromSeconds(secs, 0, 800)
	require.True(t, s.Valid())

	assert.InDelta(t, 0, s.XSeconds(secs[0]), 1e-9)
	assert.InDelta(t, 800, s.XSeconds(secs[1]), 1e-9)
}

func TestScaleNiceContainsData(t *testing.T) {
	lo, hi := date(2010, 3, 4), date(2016, 8, 9)
	s := New(lo, hi, 0, 800).Nice()

	start, end := s.Domain()
	assert.False(t, start.After(lo))
	assert.False(t, end.Before(hi))
	assert.Equal(t, date(2010, 1, 1), start)
	assert.Equal(t, date(2017, 1, 1), end)

	assert.GreaterOrEqual(t, s.X(lo), 0.0)
	assert.LessOrEqual(t, s.X(hi), 800.0)
}

func TestScaleMonotonic(t *testing.T) {
	s := New(date(2000, 1, 1), date(2020, 1, 1), 0, 1000).Nice()
	prev := s.X(date(2000, 1, 1))
	for y := 2000; y <= 2020; y++ {
		for m := time.January; m <= time.December; m += 3 {
			x := s.X(date(y, m, 15))
			assert.GreaterOrEqual(t, x, prev)
			prev = x
		}
	}
}

func TestScaleInvertRoundTrip(t *testing.T) {
	s := New(date(2000, 1, 1), date(2001, 1, 1), 0, 366)
	tm := date(2000, 7, 1)
	assert.Equal(t, tm, s.Invert(s.X(tm)))
}

func TestEmptyScale(t *testing.T) {
	s := FromSeconds(nil, 0, 500)
	assert.False(t, s.Valid())
	assert.Equal(t, 0.0, s.XSeconds(12345))
	assert.Nil(t, s.TicksBetween(0, 500, 10))
	assert.Same(t, s, s.Nice())
}

func TestDegenerateDomainWidensToDay(t *testing.T) {
	at := time.Date(2020, 5, 6, 13, 0, 0, 0, time.UTC)
	s := FromSeconds([]float64{float64(at.Unix())}, 0, 240)

	start, end := s.Domain()
	assert.Equal(t, date(2020, 5, 6), start)
	assert.Equal(t, date(2020, 5, 7), end)
	assert.InDelta(t, 130, s.X(at), 1e-9)
}

func TestCopyIsIndependent(t *testing.T) {
	s := New(date(2000, 1, 1), date(2010, 1, 1), 0, 100)
	vis := s.Copy().SetRange(50, 250)

	r0, r1 := s.Range()
	assert.Equal(t, 0.0, r0)
	assert.Equal(t, 100.0, r1)
	assert.InDelta(t, 50, vis.X(date(2000, 1, 1)), 1e-9)
	assert.InDelta(t, 250, vis.X(date(2010, 1, 1)), 1e-9)
}

func TestChooseInterval(t *testing.T) {
	tests := []struct {
		name string
		span time.Duration
		want Interval
	}{
		{"minutes", 10 * time.Minute, Interval{Minute, 1}},
		{"hours", 30 * time.Hour, Interval{Hour, 3}},
		{"weeks", 70 * 24 * time.Hour, Interval{Week, 1}},
		{"years", 10 * 365 * 24 * time.Hour, Interval{Year, 1}},
		{"decades", 100 * 365 * 24 * time.Hour, Interval{Year, 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := chooseInterval(0, float64(tt.span.Milliseconds()), 10)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIntervalFloorCeil(t *testing.T) {
	iv := Interval{Month, 3}
	at := time.Date(2021, 5, 17, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, date(2021, 4, 1), iv.Floor(at))
	assert.Equal(t, date(2021, 7, 1), iv.Ceil(at))
	assert.Equal(t, date(2021, 7, 1), iv.Ceil(date(2021, 7, 1)))

	week := Interval{Week, 1}
	assert.Equal(t, time.Sunday, week.Floor(at).Weekday())
}

func TestIntervalLargeSteps(t *testing.T) {
	iv := Interval{Year, 500000}
	at := date(2024, 6, 1)
	assert.Equal(t, 0, iv.Floor(at).Year())
	assert.Equal(t, 500000, iv.Ceil(at).Year())
	assert.Equal(t, 1000000, iv.next(iv.Ceil(at)).Year())
	assert.Equal(t, -500000, iv.Floor(time.Date(-1, 3, 1, 0, 0, 0, 0, time.UTC)).Year())

	ms := Interval{Millisecond, 250}
	assert.Equal(t, time.UnixMilli(1000).UTC(), ms.Floor(time.UnixMilli(1249)))
	assert.Equal(t, time.UnixMilli(1250).UTC(), ms.Ceil(time.UnixMilli(1001)))
}

func TestIntervalDayStepsRestartMonthly(t *testing.T) {
	iv := Interval{Day, 2}
	assert.Equal(t, date(2021, 1, 31), iv.next(date(2021, 1, 29)))
	assert.Equal(t, date(2021, 2, 1), iv.next(date(2021, 1, 31)))
	assert.Equal(t, date(2021, 3, 1), iv.next(date(2021, 2, 27)))
	assert.Equal(t, date(2021, 1, 29), iv.Floor(date(2021, 1, 30)))
}

func TestHugeSpanTicks(t *testing.T) {
	s := FromSeconds([]float64{0, 1e14}, 0, 1000).Nice()
	ticks := s.TicksBetween(0, 1000, 10)
	require.NotEmpty(t, ticks)
	assert.LessOrEqual(t, len(ticks), 20)
	assert.Equal(t, Year, ticks[0].Interval.Unit)
}

func TestTicksBetweenFollowsZoom(t *testing.T) {
	s := New(date(2000, 1, 1), date(2020, 1, 1), 0, 1000)
	whole := s.TicksBetween(0, 1000, 10)
	require.NotEmpty(t, whole)
	assert.Equal(t, Year, whole[0].Interval.Unit)

	// Zoomed in 8x: the visible window covers 2.5 years.
	zoomed := s.Copy().SetRange(0, 8000)
	ticks := zoomed.TicksBetween(0, 1000, 10)
	require.NotEmpty(t, ticks)
	assert.Equal(t, Month, ticks[0].Interval.Unit)
	for _, tk := range ticks {
		assert.GreaterOrEqual(t, tk.X, 0.0)
		assert.LessOrEqual(t, tk.X, 1000.0)
	}
}

func TestTickFormats(t *testing.T) {
	yearly := Interval{Year, 1}
	assert.Equal(t, "2016", DefaultFormat(Tick{Time: date(2016, 1, 1), Interval: yearly}))
	assert.Equal(t, "", DefaultFormat(Tick{Time: date(2017, 1, 1), Interval: yearly}))

	monthly := Interval{Month, 1}
	assert.Equal(t, "March", DefaultFormat(Tick{Time: date(2017, 3, 1), Interval: monthly}))
	assert.Equal(t, "2017", DefaultFormat(Tick{Time: date(2017, 1, 1), Interval: monthly}))
	assert.Equal(t, "14:30", MultiFormat(Tick{Time: time.Date(2017, 3, 1, 14, 30, 0, 0, time.UTC)}))
}
