package schedule

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// ErrStopped is returned when work is submitted to a loop that is not running.
var ErrStopped = errors.New("event loop stopped")

// Loop owns a goroutine that runs submitted functions one at a time, in
// submission order. Timers fire by posting their callback back onto the loop.
type Loop struct {
	tasks   chan func()
	done    chan struct{}
	started atomic.Bool
	logger  *zerolog.Logger
}

// NewLoop creates a loop with a task buffer of the given size.
func NewLoop(logger *zerolog.Logger, buffer int) *Loop {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Loop{
		tasks:  make(chan func(), max(buffer, 1)),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Run executes tasks until ctx is cancelled. It must be called once.
func (l *Loop) Run(ctx context.Context) error {
	if !l.started.CompareAndSwap(false, true) {
		return errors.New("event loop already running")
	}
	defer close(l.done)

	l.logger.Debug().Msg("Event loop started")
	for {
		select {
		case <-ctx.Done():
			l.logger.Debug().Msg("Event loop stopped")
			return nil
		case task := <-l.tasks:
			l.run(task)
		}
	}
}

func (l *Loop) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error().Interface("panic", r).Msg("Event loop task panicked")
		}
	}()
	task()
}

// Post queues f without waiting for it. It reports false when the loop has
// stopped.
func (l *Loop) Post(f func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case <-l.done:
		return false
	case l.tasks <- f:
		return true
	}
}

// Do runs f on the loop and waits for it to finish.
func (l *Loop) Do(ctx context.Context, f func()) error {
	finished := make(chan struct{})
	task := func() {
		defer close(finished)
		f()
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrStopped
	case l.tasks <- task:
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrStopped
	case <-finished:
		return nil
	}
}

// AfterFunc schedules f to run on the loop after d.
func (l *Loop) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, func() {
		if !l.Post(f) {
			l.logger.Debug().Msg("Dropping timer callback, event loop stopped")
		}
	})
}

// Now returns the wall clock time.
func (l *Loop) Now() time.Time {
	return time.Now()
}
