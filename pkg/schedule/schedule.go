// Package schedule runs deferred callbacks for single-threaded components.
//
// A Scheduler never runs a callback concurrently with its caller's other work:
// Loop serializes everything onto one goroutine, and Manual runs callbacks
// only from Advance.
package schedule

import "time"

// Timer is a pending callback.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the call
	// stopped the timer; false means it already ran or was stopped.
	Stop() bool
}

// Scheduler runs a callback once after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
	Now() time.Time
}
