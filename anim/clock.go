// Package anim drives the theme's time-based effects: a shared controller
// holding every pending animation callback, step sequencers, tab cyclers and
// countdown timers.
//
// Callbacks scheduled through a Controller run one at a time, so animation
// code can mutate shared state (usually a rendered DOM subtree) without its
// own locking.
package anim

import "time"

// Timer is a scheduled callback that can be stopped before it fires.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks. RealClock uses the time package;
// anim/animtest provides a manual clock for tests.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

// RealClock returns a Clock backed by time.AfterFunc.
func RealClock() Clock { return realClock{} }

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
