package game

import (
	"sort"
	"speeddots/internal/clock"
	"time"
)

// timer is a one-shot callback that can be frozen and resumed with its
// remaining duration. All fields are guarded by Controller.mu.
type timer struct {
	seq       uint64
	fn        func()
	duration  time.Duration
	remaining time.Duration
	armedAt   time.Time
	handle    clock.Timer
	gen       uint64
	paused    bool
}

// after schedules fn to run under the controller lock once d of playing time
// has passed.
func (c *Controller) after(d time.Duration, fn func()) *timer {
	c.timerSeq++
	t := &timer{seq: c.timerSeq, fn: fn, duration: d, remaining: d}
	c.timers[t] = struct{}{}
	if c.state == StatePaused {
		t.paused = true
	} else {
		c.arm(t)
	}
	return t
}

func (c *Controller) arm(t *timer) {
	t.gen++
	gen := t.gen
	t.paused = false
	t.armedAt = c.clock.Now()
	t.handle = c.clock.AfterFunc(t.remaining, func() { c.fire(t, gen) })
}

// fire runs t's callback unless t was cancelled, paused, or re-armed since
// this particular scheduling.
func (c *Controller) fire(t *timer, gen uint64) {
	c.update(func() bool {
		if _, ok := c.timers[t]; !ok || t.gen != gen || t.paused {
			return false
		}
		delete(c.timers, t)
		t.fn()
		return true
	})
}

func (c *Controller) cancel(t *timer) {
	if t == nil {
		return
	}
	if _, ok := c.timers[t]; !ok {
		return
	}
	delete(c.timers, t)
	t.gen++
	if t.handle != nil {
		t.handle.Stop()
	}
}

func (c *Controller) cancelAll() {
	for t := range c.timers {
		c.cancel(t)
	}
	c.expiry = make(map[string]*timer)
	c.appear = make(map[string]*timer)
	c.tick = nil
	c.ping = nil
}

func (c *Controller) pauseTimers() {
	now := c.clock.Now()
	for t := range c.timers {
		if t.paused {
			continue
		}
		t.gen++
		if t.handle != nil {
			t.handle.Stop()
		}
		t.remaining -= now.Sub(t.armedAt)
		if t.remaining < 0 {
			t.remaining = 0
		}
		t.paused = true
	}
}

// resumeTimers re-arms paused timers in creation order so equal deadlines keep
// their original firing order.
func (c *Controller) resumeTimers() {
	paused := make([]*timer, 0, len(c.timers))
	for t := range c.timers {
		if t.paused {
			paused = append(paused, t)
		}
	}
	sort.Slice(paused, func(i, j int) bool { return paused[i].seq < paused[j].seq })
	for _, t := range paused {
		c.arm(t)
	}
}

// elapsed reports how much playing time has passed since t was created.
func (c *Controller) elapsed(t *timer) time.Duration {
	run := t.duration - t.remaining
	if !t.paused {
		run += c.clock.Now().Sub(t.armedAt)
	}
	return run
}
