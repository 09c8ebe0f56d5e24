package anim

import (
	"fmt"
	"sync"
	"time"
)

// Urgency levels reported by Tick.Level.
const (
	LevelNormal   = ""
	LevelLow      = "low"
	LevelCritical = "critical"
)

// Tick is a countdown reading.
type Tick struct {
	Remaining int
	Total     int
}

// String formats the remaining time as MM:SS.
func (t Tick) String() string {
	r := max(t.Remaining, 0)
	return fmt.Sprintf("%02d:%02d", r/60, r%60)
}

// Percent is the remaining share of the total in [0, 100].
func (t Tick) Percent() float64 {
	if t.Total <= 0 {
		return 0
	}
	return float64(max(t.Remaining, 0)) / float64(t.Total) * 100
}

// Level is critical at 30 seconds or less and low at 60 or less.
func (t Tick) Level() string {
	switch {
	case t.Remaining <= 30:
		return LevelCritical
	case t.Remaining <= 60:
		return LevelLow
	default:
		return LevelNormal
	}
}

// Countdown ticks once per second from Total down to zero, then expires
// exactly once. It runs on a plain clock and ignores the pause toggle.
type Countdown struct {
	clock    Clock
	onTick   func(Tick)
	onExpire func()

	mu        sync.Mutex
	total     int
	remaining int
	timer     Timer
	started   bool
	stopped   bool
	expired   bool
}

// NewCountdown returns a stopped countdown of seconds.
func NewCountdown(clock Clock, seconds int, onTick func(Tick), onExpire func()) *Countdown {
	if clock == nil {
		clock = RealClock()
	}
	return &Countdown{
		clock:     clock,
		onTick:    onTick,
		onExpire:  onExpire,
		total:     seconds,
		remaining: seconds,
	}
}

// Start shows the first reading immediately. Repeated calls do nothing.
func (c *Countdown) Start() {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.mu.Unlock()
	c.tick()
}

// Stop cancels the pending tick.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// Expired reports whether the expiry callback ran.
func (c *Countdown) Expired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expired
}

// Current returns the latest reading.
func (c *Countdown) Current() Tick {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Tick{Remaining: max(c.remaining, 0), Total: c.total}
}

func (c *Countdown) tick() {
	c.mu.Lock()
	if c.stopped || c.expired {
		c.mu.Unlock()
		return
	}
	reading := Tick{Remaining: max(c.remaining, 0), Total: c.total}
	done := c.remaining <= 0
	if done {
		c.expired = true
	} else {
		c.remaining--
		c.timer = c.clock.AfterFunc(time.Second, c.tick)
	}
	c.mu.Unlock()

	if c.onTick != nil {
		c.onTick(reading)
	}
	if done && c.onExpire != nil {
		c.onExpire()
	}
}
