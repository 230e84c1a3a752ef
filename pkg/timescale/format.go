package timescale

import (
	"strconv"
	"time"
)

// TickFormat renders a tick label.
type TickFormat func(Tick) string

// YearFormat labels ticks with their year and leaves odd years blank, keeping a
// dense yearly axis readable.
func YearFormat(t Tick) string {
	y := t.Time.Year()
	if y%2 != 0 {
		return ""
	}
	return strconv.Itoa(y)
}

// MultiFormat picks the coarsest label that distinguishes the tick from its
// neighbours at the tick's interval.
func MultiFormat(t Tick) string {
	tm := t.Time.UTC()
	switch {
	case tm.Nanosecond() != 0:
		return tm.Format(".000")
	case tm.Second() != 0:
		return tm.Format(":05")
	case tm.Minute() != 0:
		return tm.Format("15:04")
	case tm.Hour() != 0:
		return tm.Format("15:04")
	case tm.Day() != 1:
		if t.Interval.Unit == Week {
			return tm.Format("Jan 02")
		}
		return tm.Format("Mon 02")
	case tm.Month() != time.January:
		return tm.Format("January")
	default:
		return strconv.Itoa(tm.Year())
	}
}

// DefaultFormat uses YearFormat for yearly ticks and MultiFormat otherwise.
func DefaultFormat(t Tick) string {
	if t.Interval.Unit == Year {
		return YearFormat(t)
	}
	return MultiFormat(t)
}
