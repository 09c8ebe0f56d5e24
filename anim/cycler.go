package anim

import "time"

// Cycler advances through n panels on a fixed interval while visible and
// unpaused. A manual selection stops auto-advance for good.
type Cycler struct {
	ctl      *Controller
	group    *Group
	n        int
	interval time.Duration
	show     func(i int)

	index   int
	visible bool
	manual  bool
	stop    func()
}

// NewCycler returns a cycler over n panels showing panel 0.
func NewCycler(ctl *Controller, n int, interval time.Duration, show func(i int)) *Cycler {
	c := &Cycler{ctl: ctl, group: ctl.Group(), n: n, interval: interval, show: show}
	c.stop = ctl.OnResume(func() {
		if c.visible && !c.manual {
			c.schedule()
		}
	})
	return c
}

// SetVisible starts or stops auto-advance.
func (c *Cycler) SetVisible(v bool) {
	c.ctl.Do(func() {
		c.visible = v
		if v && !c.manual && !c.ctl.Paused() {
			c.schedule()
			return
		}
		c.group.Cancel()
	})
}

// Select shows panel i and disables auto-advance.
func (c *Cycler) Select(i int) {
	if i < 0 || i >= c.n {
		return
	}
	c.ctl.Do(func() {
		c.manual = true
		c.group.Cancel()
		c.index = i
		c.show(i)
	})
}

// Index returns the panel shown.
func (c *Cycler) Index() int {
	var i int
	c.ctl.Do(func() { i = c.index })
	return i
}

// Manual reports whether a panel was selected by hand.
func (c *Cycler) Manual() bool {
	var m bool
	c.ctl.Do(func() { m = c.manual })
	return m
}

// Close stops the cycler.
func (c *Cycler) Close() {
	c.stop()
	c.group.Cancel()
}

func (c *Cycler) schedule() {
	c.group.Cancel()
	if c.n < 2 {
		return
	}
	c.group.Schedule(c.interval, c.tick)
}

func (c *Cycler) tick() {
	if c.manual || !c.visible {
		return
	}
	c.index = (c.index + 1) % c.n
	c.show(c.index)
	c.group.Schedule(c.interval, c.tick)
}
