package editor

import "time"

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	// Stop prevents the callback from running. It reports false if the
	// callback already ran or the timer was already stopped.
	Stop() bool
}

// Clock schedules callbacks. Tests inject a manual clock.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// realClock schedules on the runtime timer; callbacks run on their own goroutine.
type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
