package anim

import (
	"sync"
	"time"
)

// Handle identifies a scheduled animation callback.
type Handle uint64

type entry struct {
	handle Handle
	timer  Timer
	group  *Group
}

// Controller owns the pause flag and the ordered registry of pending
// animation callbacks. Every handle in the registry belongs to a callback
// that has not fired and can still be cancelled.
type Controller struct {
	clock Clock

	// run serialises callbacks and resume handlers.
	run sync.Mutex

	mu      sync.Mutex
	paused  bool
	next    Handle
	pending []entry
	subs    map[int]func()
	order   []int
	nextSub int
}

// NewController returns an unpaused controller scheduling on clock.
func NewController(clock Clock) *Controller {
	if clock == nil {
		clock = RealClock()
	}
	return &Controller{clock: clock, subs: make(map[int]func())}
}

// Clock returns the controller's clock.
func (c *Controller) Clock() Clock { return c.clock }

// Schedule runs fn after d unless the controller is paused when the timer
// fires or the handle is cancelled first.
func (c *Controller) Schedule(d time.Duration, fn func()) Handle {
	return c.schedule(nil, d, fn)
}

func (c *Controller) schedule(g *Group, d time.Duration, fn func()) Handle {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next++
	h := c.next
	t := c.clock.AfterFunc(d, func() { c.fire(h, fn) })
	c.pending = append(c.pending, entry{handle: h, timer: t, group: g})
	return h
}

func (c *Controller) fire(h Handle, fn func()) {
	c.run.Lock()
	defer c.run.Unlock()

	c.mu.Lock()
	found := c.removeLocked(h)
	paused := c.paused
	c.mu.Unlock()
	if !found || paused {
		return
	}
	fn()
}

func (c *Controller) removeLocked(h Handle) bool {
	for i, e := range c.pending {
		if e.handle == h {
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			return true
		}
	}
	return false
}

// Cancel stops a single pending callback. It reports whether h was pending.
func (c *Controller) Cancel(h Handle) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, e := range c.pending {
		if e.handle == h {
			e.timer.Stop()
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			return true
		}
	}
	return false
}

// CancelAll stops every pending callback and empties the registry.
func (c *Controller) CancelAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelLocked(nil)
}

// cancelLocked stops callbacks of group g, or all of them when g is nil.
func (c *Controller) cancelLocked(g *Group) {
	kept := c.pending[:0]
	for _, e := range c.pending {
		if g == nil || e.group == g {
			e.timer.Stop()
			continue
		}
		kept = append(kept, e)
	}
	for i := len(kept); i < len(c.pending); i++ {
		c.pending[i] = entry{}
	}
	c.pending = kept
}

// Pending returns the number of registered callbacks.
func (c *Controller) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Handles returns the registered handles in scheduling order.
func (c *Controller) Handles() []Handle {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Handle, len(c.pending))
	for i, e := range c.pending {
		out[i] = e.handle
	}
	return out
}

// Paused reports the pause flag.
func (c *Controller) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

// Pause sets the pause flag and cancels every pending callback.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = true
	c.cancelLocked(nil)
}

// Resume clears the pause flag, drops any callbacks scheduled while paused
// and notifies resume subscribers in subscription order. Resuming an
// unpaused controller does nothing.
func (c *Controller) Resume() {
	c.mu.Lock()
	if !c.paused {
		c.mu.Unlock()
		return
	}
	c.paused = false
	c.cancelLocked(nil)
	subs := make([]func(), 0, len(c.order))
	for _, id := range c.order {
		subs = append(subs, c.subs[id])
	}
	c.mu.Unlock()

	c.run.Lock()
	defer c.run.Unlock()
	for _, fn := range subs {
		fn()
	}
}

// Toggle flips the pause flag and returns the new state.
func (c *Controller) Toggle() bool {
	if c.Paused() {
		c.Resume()
		return false
	}
	c.Pause()
	return true
}

// OnResume registers fn to run on every Resume. The returned func removes it.
func (c *Controller) OnResume(fn func()) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextSub++
	id := c.nextSub
	c.subs[id] = fn
	c.order = append(c.order, id)
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
		for i, v := range c.order {
			if v == id {
				c.order = append(c.order[:i], c.order[i+1:]...)
				break
			}
		}
	}
}

// Do runs fn serialised with animation callbacks. fn must not call Do.
func (c *Controller) Do(fn func()) {
	c.run.Lock()
	defer c.run.Unlock()
	fn()
}

// Group returns a handle set on the shared registry, letting one sequencer
// cancel its own callbacks.
func (c *Controller) Group() *Group {
	return &Group{c: c}
}

// Group is a subset of a controller's callbacks.
type Group struct {
	c *Controller
}

// Schedule is Controller.Schedule tagged with g.
func (g *Group) Schedule(d time.Duration, fn func()) Handle {
	return g.c.schedule(g, d, fn)
}

// Cancel stops the group's pending callbacks.
func (g *Group) Cancel() {
	g.c.mu.Lock()
	defer g.c.mu.Unlock()
	g.c.cancelLocked(g)
}

// Pending counts the group's registered callbacks.
func (g *Group) Pending() int {
	g.c.mu.Lock()
	defer g.c.mu.Unlock()
	n := 0
	for _, e := range g.c.pending {
		if e.group == g {
			n++
		}
	}
	return n
}
